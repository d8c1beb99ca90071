package models

// AggregateFn enumerates the SPARQL aggregate accumulators the executor's
// finalize step supports (spec §4.6.3).
type AggregateFn string

const (
	AggCount         AggregateFn = "count"
	AggCountDistinct AggregateFn = "count-distinct"
	AggSum           AggregateFn = "sum"
	AggAvg           AggregateFn = "avg"
	AggMin           AggregateFn = "min"
	AggMax           AggregateFn = "max"
	AggSample        AggregateFn = "sample"
	AggGroupConcat   AggregateFn = "group-concat"
)

// Aggregator is one SELECT-clause aggregate expression.
type Aggregator struct {
	Fn             AggregateFn
	SourceVariable string
	ResultVariable string
	Separator      string // AggGroupConcat only
}

// ExprFn evaluates a compiled expression against a solution. Evaluation
// errors are swallowed into an unbound result per spec §4.6.6, except for
// residual filters where any non-true result drops the solution.
type ExprFn func(Solution) (Term, error)

// AggregationSpec is the per-query modifier slot captured by the pushdown
// analyzer (spec §4.4 "Aggregation / modifiers").
type AggregationSpec struct {
	GroupBy     []string
	Aggregators []Aggregator
	Having      *ResidualFilter
	Distinct    bool
	OrderBy     []OrderTerm
	Limit       *int64
	Offset      *int64
}

type OrderTerm struct {
	Variable string
	Desc     bool
}

// ResidualFilter is a FILTER the analyzer could not push down; it is
// evaluated in finalize after the scan (spec §4.6.6).
type ResidualFilter struct {
	Fn   ExprFn
	Meta string // human-readable expression text, for explain output
}

// BindSpec is one BIND(expr AS ?var) assignment, applied in declaration
// order during finalize (spec §4.6.6).
type BindSpec struct {
	Variable string
	Fn       ExprFn
}

// AntiJoinKind distinguishes EXISTS/NOT EXISTS/MINUS (spec §4.6.4).
type AntiJoinKind string

const (
	AntiJoinExists    AntiJoinKind = "exists"
	AntiJoinNotExists AntiJoinKind = "not-exists"
	AntiJoinMinus     AntiJoinKind = "minus"
)

// AntiJoinSpec is one inner sub-plan the executor evaluates per outer
// solution.
type AntiJoinSpec struct {
	Kind     AntiJoinKind
	Patterns []Pattern
}

// TransitiveSpec is a `(s, p+, o)` / `(s, p*, o)` pattern moved out of the
// ordinary pattern groups into its own BFS evaluation slot (spec §4.6.5).
type TransitiveSpec struct {
	Subject   Term
	Predicate string
	Object    Term
	OneOrMore bool
	ZeroPlus  bool
}

// QueryContext is the per-query mutable state the planner's reorder step
// produces and the executor's finalize step consumes exactly once (spec
// §3.2, §4.1, §9 design notes). It is the explicit-parameter alternative
// the spec permits in place of atom slots on IcebergDatabase; one context
// is constructed per query and never shared.
type QueryContext struct {
	Pushdown     map[string]*PatternPushdown // variable -> pushdown, merged into Pattern at annotate time
	Aggregation  *AggregationSpec
	AntiJoins    []AntiJoinSpec
	Transitives  []TransitiveSpec
	Binds        []BindSpec
	Residuals    []ResidualFilter
	TimeTravel   TimeTravel
	CartesianCap *int // nil = unbounded
}

// NewQueryContext returns a zero-valued context ready for a single query's
// reorder/finalize lifecycle.
func NewQueryContext() *QueryContext {
	return &QueryContext{Pushdown: map[string]*PatternPushdown{}}
}
