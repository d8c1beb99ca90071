package models

// VGType identifies which capability set a virtual graph instance
// implements (spec §9 design notes: tagged variants, not inheritance).
type VGType string

const (
	VGTypeBM25    VGType = "fidx:BM25"
	VGTypeR2RML   VGType = "fidx:R2RML"
	VGTypeIceberg VGType = "fidx:Iceberg"
)

// VGDescriptor is the record persisted in the nameservice (spec §6.1).
type VGDescriptor struct {
	Name         string // normalized "name:branch" alias
	Type         VGType
	Config       map[string]any
	Dependencies []string
}

// JoinGraph is the set of derived FK relationships between tables, with
// the side indexes spec §4.3 calls for to keep traversal cheap without a
// pointer graph.
type JoinGraph struct {
	Edges          []JoinEdge
	ByTable        map[string][]int // table -> indexes into Edges
	ByTriplesMapIRI map[string]string // rr:parentTriplesMap IRI -> table
}

func NewJoinGraph() *JoinGraph {
	return &JoinGraph{
		ByTable:         map[string][]int{},
		ByTriplesMapIRI: map[string]string{},
	}
}

func (g *JoinGraph) AddEdge(e JoinEdge, childIRI, parentIRI string) {
	idx := len(g.Edges)
	g.Edges = append(g.Edges, e)
	g.ByTable[e.ChildTable] = append(g.ByTable[e.ChildTable], idx)
	g.ByTable[e.ParentTable] = append(g.ByTable[e.ParentTable], idx)
	if childIRI != "" {
		g.ByTriplesMapIRI[childIRI] = e.ChildTable
	}
	if parentIRI != "" {
		g.ByTriplesMapIRI[parentIRI] = e.ParentTable
	}
}

// HasJoinEdges reports whether the graph has any edges at all.
func (g *JoinGraph) HasJoinEdges() bool { return len(g.Edges) > 0 }

// EdgesForTable returns every edge where t is either side.
func (g *JoinGraph) EdgesForTable(t string) []JoinEdge {
	idxs := g.ByTable[t]
	out := make([]JoinEdge, 0, len(idxs))
	for _, i := range idxs {
		out = append(out, g.Edges[i])
	}
	return out
}

// EdgesBetween returns edges directly linking t1 and t2, in either
// direction.
func (g *JoinGraph) EdgesBetween(t1, t2 string) []JoinEdge {
	var out []JoinEdge
	for _, e := range g.EdgesForTable(t1) {
		if (e.ChildTable == t1 && e.ParentTable == t2) || (e.ChildTable == t2 && e.ParentTable == t1) {
			out = append(out, e)
		}
	}
	return out
}

// RoutingIndex maps RDF classes and predicates to the TriplesMappings that
// can answer a pattern mentioning them (spec §4.3).
type RoutingIndex struct {
	ByClass     map[string][]*TriplesMapping
	ByPredicate map[string][]*TriplesMapping
}

func NewRoutingIndex() *RoutingIndex {
	return &RoutingIndex{ByClass: map[string][]*TriplesMapping{}, ByPredicate: map[string][]*TriplesMapping{}}
}

func (r *RoutingIndex) Index(m *TriplesMapping) {
	if m.Class != "" {
		r.ByClass[m.Class] = append(r.ByClass[m.Class], m)
	}
	for pred := range m.Predicates {
		r.ByPredicate[pred] = append(r.ByPredicate[pred], m)
	}
}
