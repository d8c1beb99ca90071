package models

// ObjectMapKind distinguishes the three ways an R2RML object map can
// produce a value for a predicate-object pair.
type ObjectMapKind int

const (
	ObjectMapColumn ObjectMapKind = iota
	ObjectMapTemplate
	ObjectMapConstant
	ObjectMapRefObject
)

// JoinCondition is one `rr:joinCondition` entry of a RefObjectMap.
type JoinCondition struct {
	Child  string
	Parent string
}

// RefObjectMap is an R2RML object map that joins to another TriplesMap by
// column equality instead of producing a literal value directly.
type RefObjectMap struct {
	ParentTriplesMapIRI string
	JoinConditions       []JoinCondition
}

// ObjectMap describes how one predicate's object is derived from a row.
type ObjectMap struct {
	Kind         ObjectMapKind
	Column       string // Kind == ObjectMapColumn
	Template     string // Kind == ObjectMapTemplate, "{col}" placeholders
	Constant     string // Kind == ObjectMapConstant
	Datatype     string // optional rr:datatype IRI, any Kind
	RefObjectMap *RefObjectMap
}

// TriplesMapping is one R2RML TriplesMap compiled into the shape the
// planner and executor consume directly.
type TriplesMapping struct {
	TriplesMapIRI string
	Table         string
	SubjectTemplate string
	Class           string // optional rr:class IRI, empty if absent
	Predicates      map[string]ObjectMap
}

// ColumnFor resolves the column backing a predicate binding, returning
// ok=false when the object map is not column-kind (spec §4.4 step 2).
func (m *TriplesMapping) ColumnFor(predicate string) (column string, ok bool) {
	om, found := m.Predicates[predicate]
	if !found || om.Kind != ObjectMapColumn {
		return "", false
	}
	return om.Column, true
}

// JoinEdge is a child→parent table relationship derived from a
// RefObjectMap, keyed by the FK predicate that traverses it.
type JoinEdge struct {
	ChildTable     string
	ParentTable    string
	ChildColumns   []string
	ParentColumns  []string
	FKPredicate    string
}
