package planner

import (
	"github.com/fluree/vg-engine/internal/models"
	"github.com/fluree/vg-engine/internal/pushdown"
)

// Reorder runs the pushdown analyzer over q's FILTER/VALUES candidates,
// annotates the remaining patterns, and produces the single QueryContext
// the executor's finalize step will consume exactly once (spec §4.4,
// §4.6.3, §9 design notes). Patterns are returned separately from q
// because VALUES-pattern removal and FILTER-to-residual rewriting both
// shrink/transform the original query; the caller passes the returned
// slice into the executor, not q.Patterns.
//
// schemaHint is passed through to the coercion function for VALUES
// literals and filter constants that carry no RDF datatype of their own
// (spec §9 design notes: "(value, column-datatype, schema-hint?)").
func Reorder(idx *models.RoutingIndex, q *Query, schemaHint string) (*models.QueryContext, []models.Pattern) {
	ctx := models.NewQueryContext()
	ctx.Aggregation = q.Aggregation
	ctx.AntiJoins = q.AntiJoins
	ctx.Transitives = q.Transitives
	ctx.Binds = q.Binds
	ctx.TimeTravel = q.TimeTravel
	ctx.CartesianCap = q.CartesianCap

	patterns := make([]models.Pattern, len(q.Patterns))
	copy(patterns, q.Patterns)

	pushdown.TransformFilters(ctx, idx, patterns, q.Filters, schemaHint)
	pushedValues := pushdown.TransformValues(ctx, idx, patterns, q.Values, schemaHint)

	// spec §4.4 "WHERE transformation": remove VALUES patterns whose
	// variable was fully pushed. Our Query has no standalone VALUES
	// pattern list to prune (VALUES candidates already describe exactly
	// which variables they bind); record what survives for callers that
	// do track VALUES as part of the pattern stream.
	remainingValues := make([]pushdown.ValuesCandidate, 0, len(q.Values))
	for _, vc := range q.Values {
		if !pushedValues[vc.Variable] {
			remainingValues = append(remainingValues, vc)
		}
	}
	q.Values = remainingValues

	return ctx, patterns
}
