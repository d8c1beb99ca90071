package routing

import (
	"github.com/fluree/vg-engine/internal/models"
	srvErrors "github.com/fluree/vg-engine/pkg/errors"
)

// rdfType is the RDF vocabulary IRI for `a`/rdf:type triples, which route
// by class instead of by predicate.
const rdfType = "http://www.w3.org/1999/02/22-rdf-syntax-ns#type"

// Build indexes a set of TriplesMappings by class and predicate, and
// assembles the join graph from the JoinEdges the R2RML mapper derived
// (spec §4.3). Both structures are built once, at registration.
func Build(mappings map[string]*models.TriplesMapping, edges []models.JoinEdge) (*models.RoutingIndex, *models.JoinGraph) {
	idx := models.NewRoutingIndex()
	for _, m := range mappings {
		idx.Index(m)
	}

	graph := models.NewJoinGraph()
	byTable := map[string]string{} // table -> TriplesMapIRI, for the edge's side indexes
	for _, m := range mappings {
		byTable[m.Table] = m.TriplesMapIRI
	}
	for _, e := range edges {
		graph.AddEdge(e, byTable[e.ChildTable], byTable[e.ParentTable])
	}

	return idx, graph
}

// ResolveByPredicate returns the TriplesMapping bound to predicate.
// The spec notes the source this was distilled from tolerates multiple
// matches by picking the first one, and explicitly suggests treating
// that case as an error until the semantics are specified (spec §9) — so
// more than one match here returns AmbiguousRoutingError rather than
// silently picking one (DESIGN.md open question #2).
func ResolveByPredicate(idx *models.RoutingIndex, predicate string) (*models.TriplesMapping, error) {
	matches := idx.ByPredicate[predicate]
	switch len(matches) {
	case 0:
		return nil, srvErrors.NewMissingSourceError(predicate)
	case 1:
		return matches[0], nil
	default:
		names := make([]string, len(matches))
		for i, m := range matches {
			names[i] = m.TriplesMapIRI
		}
		return nil, srvErrors.NewAmbiguousRoutingError(predicate, names)
	}
}

// ResolveByClass returns the TriplesMapping bound to an rdf:type class
// IRI, under the same ambiguity policy as ResolveByPredicate.
func ResolveByClass(idx *models.RoutingIndex, class string) (*models.TriplesMapping, error) {
	matches := idx.ByClass[class]
	switch len(matches) {
	case 0:
		return nil, srvErrors.NewMissingSourceError(class)
	case 1:
		return matches[0], nil
	default:
		names := make([]string, len(matches))
		for i, m := range matches {
			names[i] = m.TriplesMapIRI
		}
		return nil, srvErrors.NewAmbiguousRoutingError(class, names)
	}
}

// MappingForTable returns the TriplesMapping that maps table, scanning
// both class and predicate indexes since RoutingIndex keys on those, not
// on table name directly. Used by the transitive-path step resolver,
// which needs a join edge's parent-table mapping rather than one
// resolved from a query pattern.
func MappingForTable(idx *models.RoutingIndex, table string) (*models.TriplesMapping, bool) {
	for _, ms := range idx.ByClass {
		for _, m := range ms {
			if m.Table == table {
				return m, true
			}
		}
	}
	for _, ms := range idx.ByPredicate {
		for _, m := range ms {
			if m.Table == table {
				return m, true
			}
		}
	}
	return nil, false
}

// TableFor resolves the target table for a single triple pattern: by
// class for an rdf:type pattern whose object is a bound IRI, otherwise by
// predicate.
func TableFor(idx *models.RoutingIndex, p models.Pattern) (*models.TriplesMapping, error) {
	if p.Predicate.IsIRI() && p.Predicate.Value == rdfType && p.Object.IsIRI() {
		return ResolveByClass(idx, p.Object.Value)
	}
	if p.Predicate.IsIRI() {
		return ResolveByPredicate(idx, p.Predicate.Value)
	}
	return nil, srvErrors.NewPushdownUnsupportedError(p.Predicate.Variable)
}
