package models

// Pattern is a single WHERE-clause triple: (subject, predicate, object).
// Any position may be a variable; pushdown annotation is attached once the
// planner has routed the pattern to a table.
type Pattern struct {
	Subject   Term
	Predicate Term
	Object    Term

	// Pushdown carries the column-backed predicates the analyzer attached
	// to this pattern's object/subject variables (spec §4.4). Nil until
	// annotated.
	Pushdown *PatternPushdown

	// TransitivePath is set when Predicate carries a `+`/`*` path tag
	// (spec §4.6.5); nil for ordinary patterns.
	TransitivePath *TransitiveTag
}

// TransitiveTag marks a property-path pattern and its cardinality.
type TransitiveTag struct {
	OneOrMore bool // `p+`
	ZeroPlus  bool // `p*`
}

// PatternPushdown is the per-pattern pushdown record the planner attaches;
// it mirrors the slot contents spec §4.4 step 4 says survive optimization.
type PatternPushdown struct {
	Table      string
	Mapping    string // TriplesMapping table key this pattern routed to
	Predicates []PushdownPredicate
}

// Group is a set of patterns that all route to the same table, produced by
// the routing index during plan construction (spec §4.6.1 step 1).
type Group struct {
	Table    string
	Patterns []Pattern
}
