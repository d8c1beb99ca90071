package models

import "time"

// PushdownOp enumerates the comparison/structural operators a pushdown
// predicate can carry (spec §6.3 wire shape).
type PushdownOp string

const (
	OpEq      PushdownOp = "eq"
	OpNeq     PushdownOp = "neq"
	OpLt      PushdownOp = "lt"
	OpLte     PushdownOp = "lte"
	OpGt      PushdownOp = "gt"
	OpGte     PushdownOp = "gte"
	OpIn      PushdownOp = "in"
	OpNotNull PushdownOp = "not-null"
	OpIsNull  PushdownOp = "is-null"
	OpBetween PushdownOp = "between"
	OpAnd     PushdownOp = "and"
	OpOr      PushdownOp = "or"
	OpNot     PushdownOp = "not"
)

// PushdownPredicate is a column-level constraint translatable to a
// source-native expression. Value holds a scalar for comparison ops, a
// slice for `in`/`between`, and nested Predicates for and/or/not.
type PushdownPredicate struct {
	Column     string
	Op         PushdownOp
	Value      any
	Predicates []PushdownPredicate
}

// TimeTravel pins a scan to a snapshot or an instant. Exactly one of
// SnapshotID or AsOfTime may be set; the zero value means "latest".
type TimeTravel struct {
	SnapshotID int64
	AsOfTime   time.Time
	HasSnapshot bool
	HasAsOf     bool
}

func (t TimeTravel) IsLatest() bool { return !t.HasSnapshot && !t.HasAsOf }

// FilterAnalysis is what the pushdown analyzer records per FILTER pattern
// before it knows whether the filter is actually pushable (spec §4.4).
type FilterAnalysis struct {
	Variable    string
	Comparisons []Comparison
	Pushable    bool
}

type Comparison struct {
	Op    PushdownOp
	Value any
}

// ValuesAnalysis is the per-VALUES-pattern record (spec §4.4 "VALUES
// analysis").
type ValuesAnalysis struct {
	Variable string
	Values   []any
}
