// Package columnar is the opt-in Arrow batch hash-join executor (spec
// §4.6.2): ScanOp drives scan_arrow_batches instead of scan_rows, and
// HashJoinOp/NestedLoopJoin reduce the resulting batches left to right
// the same way row.go's edgeJoin/cartesianJoin do, except the join key
// and the merged output both stay column-major until the very end, where
// the final batch is converted to row maps and handed to
// executor.MaterializeRow. Selected over the row-based package via
// config.Executor.Columnar.
//
// A Source that cannot produce Arrow batches (every Source in this repo
// today) makes ScanOp fall back to executor.ScanRows and cast the result
// into a string-typed Arrow record, so the join/materialization code
// below never has to special-case which path produced its input. Object
// values scanned this way lose their original Go type: a value whose
// ObjectMap carries a datatype becomes a literal of that datatype, and
// any other value becomes a plain string literal (see
// executor.MaterializeRow) — an accepted precision loss for the
// fallback, not the native path.
package columnar
