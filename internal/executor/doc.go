// Package executor implements the row-based hash join, anti-joins,
// transitive paths, BIND/residual filters, and aggregation/modifiers that
// turn a planner-annotated pattern list into a stream of solutions (spec
// §4.6). finalize first evaluates transitive paths, then applies the fixed
// BIND -> residual FILTER -> anti-joins -> aggregation -> DISTINCT ->
// ORDER BY -> OFFSET -> LIMIT order spec §4.6.3 requires, consuming a
// QueryContext exactly once.
//
// Source is the boundary this package depends on rather than the
// concrete Iceberg adapter (internal/iceberg), so the join/aggregation
// logic here stays source-agnostic; internal/iceberg is one Source
// implementation, and tests in this package use an in-memory one.
//
// internal/executor/columnar is the opt-in Arrow batch alternative to
// this package's row-based Execute (spec §4.6.2); it reuses this
// package's GroupProjection/MaterializeRow/FindJoinEdge rather than
// re-deriving the R2RML-to-column projection a second time.
package executor
