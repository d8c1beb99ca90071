// Package r2rml parses R2RML documents (Turtle or JSON-LD) into the
// table→TriplesMapping shapes the routing index and executor consume
// directly (spec §4.2).
//
// # Pipeline
//
//	Parse(source)
//	    ├── parse(source)         Turtle vs JSON-LD, heuristic on first rune
//	    ├── parseTurtle / parseJSONLD   → triple store keyed by subject
//	    └── compile(store)        → map[table]*models.TriplesMapping + []models.JoinEdge
//
// The triple store is intentionally minimal: just enough Turtle/JSON-LD to
// represent the R2RML vocabulary (rr:TriplesMap, rr:logicalTable,
// rr:subjectMap, rr:predicateObjectMap, rr:objectMap, rr:parentTriplesMap,
// rr:joinCondition and their literal/IRI leaves). It is not a general
// purpose RDF parser.
package r2rml
