// Package pushdown implements spec §4.4: it inspects compiled FILTER and
// VALUES expressions, decides which ones reduce to source-native column
// predicates, resolves the backing column through the routing index, and
// annotates the corresponding binding pattern with a PushdownPredicate —
// recording the same predicate in the query's per-variable pushdown slot
// so it survives whatever downstream rewriting the host query engine does
// to the pattern list itself.
//
// Analysis happens in three steps mirroring the spec's own section
// breaks: AnalyzeFilter/AnalyzeValues classify an input expression without
// touching patterns; Annotate resolves each analysis entry against the
// routing index and a binding pattern, producing either a PatternPushdown
// or a recoverable failure that falls back to residual filtering; Coerce
// is the single value-coercion function both paths share (spec §9 design
// notes).
package pushdown
