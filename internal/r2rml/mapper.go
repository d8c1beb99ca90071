package r2rml

import (
	"fmt"
	"strings"

	"github.com/fluree/vg-engine/internal/models"
	srvErrors "github.com/fluree/vg-engine/pkg/errors"
)

// Parse compiles an R2RML document (Turtle or JSON-LD) into the
// table-keyed TriplesMappings and cross-table JoinEdges the routing index
// and join graph consume (spec §4.2).
func Parse(source string) (map[string]*models.TriplesMapping, []models.JoinEdge, error) {
	store, err := parse(source)
	if err != nil {
		return nil, nil, err
	}
	return compile(store)
}

func parse(source string) (*tripleStore, error) {
	trimmed := strings.TrimSpace(source)
	if strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[") {
		return parseJSONLD(source)
	}
	return parseTurtle(source)
}

func compile(store *tripleStore) (map[string]*models.TriplesMapping, []models.JoinEdge, error) {
	subjects := store.subjectsWithType(r2rmlTriplesMap)

	byTable := map[string]*models.TriplesMapping{}
	byIRI := map[string]*models.TriplesMapping{}

	for _, subj := range subjects {
		tm, err := compileTriplesMap(store, subj)
		if err != nil {
			return nil, nil, err
		}
		byTable[tm.Table] = tm
		byIRI[tm.TriplesMapIRI] = tm
	}

	var edges []models.JoinEdge
	for _, subj := range subjects {
		pomNodes := store.objects(subj, r2rmlPredicateObjMap)
		childTable := byIRI[triplesMapIRIFor(subj)].Table
		for _, pomNode := range pomNodes {
			predNode, ok := store.object(pomNode, r2rmlPredicate)
			if !ok {
				continue
			}
			objectMapNode, ok := store.object(pomNode, r2rmlObjectMap)
			if !ok {
				continue
			}
			parentTMNode, ok := store.object(objectMapNode, r2rmlParentTriplesMap)
			if !ok {
				continue
			}
			parentTM, ok := byIRI[parentTMNode.iri]
			if !ok {
				return nil, nil, srvErrors.NewInvalidMappingError(triplesMapIRIFor(subj),
					fmt.Sprintf("rr:parentTriplesMap %q does not reference a known TriplesMap", parentTMNode.iri))
			}

			var childCols, parentCols []string
			for _, jcNode := range store.objects(objectMapNode, r2rmlJoinCondition) {
				childCol, ok := store.object(jcNode, r2rmlChild)
				if !ok {
					return nil, nil, srvErrors.NewInvalidMappingError(triplesMapIRIFor(subj), "rr:joinCondition missing rr:child")
				}
				parentCol, ok := store.object(jcNode, r2rmlParent)
				if !ok {
					return nil, nil, srvErrors.NewInvalidMappingError(triplesMapIRIFor(subj), "rr:joinCondition missing rr:parent")
				}
				childCols = append(childCols, childCol.literal)
				parentCols = append(parentCols, parentCol.literal)
			}

			edges = append(edges, models.JoinEdge{
				ChildTable:    childTable,
				ParentTable:   parentTM.Table,
				ChildColumns:  childCols,
				ParentColumns: parentCols,
				FKPredicate:   predNode.iri,
			})
		}
	}

	return byTable, edges, nil
}

// triplesMapIRIFor mirrors the IRI/synthetic-id choice compileTriplesMap
// makes for a given subject node, so the join pass can look a TriplesMap
// back up by its own subject.
func triplesMapIRIFor(subj node) string {
	if subj.isIRI {
		return subj.iri
	}
	return "_:" + subj.blank
}

func compileTriplesMap(store *tripleStore, subj node) (*models.TriplesMapping, error) {
	irif := triplesMapIRIFor(subj)

	logicalTable, ok := store.object(subj, r2rmlLogicalTable)
	if !ok {
		return nil, srvErrors.NewInvalidMappingError(irif, "missing rr:logicalTable")
	}
	tableName, ok := store.object(logicalTable, r2rmlTableName)
	if !ok {
		return nil, srvErrors.NewInvalidMappingError(irif, "logicalTable is missing rr:tableName")
	}

	subjectMapNode, ok := store.object(subj, r2rmlSubjectMap)
	if !ok {
		return nil, srvErrors.NewInvalidMappingError(irif, "missing rr:subjectMap")
	}
	template, ok := store.object(subjectMapNode, r2rmlTemplate)
	if !ok {
		return nil, srvErrors.NewInvalidMappingError(irif, "subjectMap is missing rr:template")
	}

	var class string
	if classNode, ok := store.object(subjectMapNode, r2rmlClass); ok {
		class = classNode.iri
	}

	tm := &models.TriplesMapping{
		TriplesMapIRI:   irif,
		Table:           tableName.literal,
		SubjectTemplate: template.literal,
		Class:           class,
		Predicates:      map[string]models.ObjectMap{},
	}

	for _, pomNode := range store.objects(subj, r2rmlPredicateObjMap) {
		predNode, ok := store.object(pomNode, r2rmlPredicate)
		if !ok {
			return nil, srvErrors.NewInvalidMappingError(irif, "a predicateObjectMap is missing rr:predicate")
		}
		objectMapNode, ok := store.object(pomNode, r2rmlObjectMap)
		if !ok {
			return nil, srvErrors.NewInvalidMappingError(irif, fmt.Sprintf("predicate %q is missing rr:objectMap", predNode.iri))
		}

		om, err := compileObjectMap(store, objectMapNode, irif)
		if err != nil {
			return nil, err
		}
		tm.Predicates[predNode.iri] = om
	}

	return tm, nil
}

func compileObjectMap(store *tripleStore, objectMapNode node, owningTriplesMapIRI string) (models.ObjectMap, error) {
	var datatype string
	if dtNode, ok := store.object(objectMapNode, r2rmlDatatype); ok {
		datatype = dtNode.iri
	}

	if col, ok := store.object(objectMapNode, r2rmlColumn); ok {
		return models.ObjectMap{Kind: models.ObjectMapColumn, Column: col.literal, Datatype: datatype}, nil
	}
	if tmpl, ok := store.object(objectMapNode, r2rmlTemplate); ok {
		return models.ObjectMap{Kind: models.ObjectMapTemplate, Template: tmpl.literal, Datatype: datatype}, nil
	}
	if constNode, ok := store.object(objectMapNode, r2rmlConstant); ok {
		value := constNode.literal
		if constNode.isIRI {
			value = constNode.iri
		}
		return models.ObjectMap{Kind: models.ObjectMapConstant, Constant: value, Datatype: datatype}, nil
	}
	if parentTMNode, ok := store.object(objectMapNode, r2rmlParentTriplesMap); ok {
		rom := &models.RefObjectMap{ParentTriplesMapIRI: parentTMNode.iri}
		for _, jcNode := range store.objects(objectMapNode, r2rmlJoinCondition) {
			childCol, _ := store.object(jcNode, r2rmlChild)
			parentCol, _ := store.object(jcNode, r2rmlParent)
			rom.JoinConditions = append(rom.JoinConditions, models.JoinCondition{
				Child:  childCol.literal,
				Parent: parentCol.literal,
			})
		}
		return models.ObjectMap{Kind: models.ObjectMapRefObject, RefObjectMap: rom, Datatype: datatype}, nil
	}

	return models.ObjectMap{}, srvErrors.NewInvalidMappingError(owningTriplesMapIRI,
		"objectMap has none of rr:column, rr:template, rr:constant, rr:parentTriplesMap")
}
