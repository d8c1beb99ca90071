package executor

import "github.com/fluree/vg-engine/internal/models"

// Finalize applies the fixed spec §4.6.3 modifier order — BIND, residual
// FILTER, anti-joins, aggregation (GROUP BY + HAVING), DISTINCT, ORDER
// BY, OFFSET, LIMIT — to the joined solutions. It consumes ctx exactly
// once per query (spec §5 "snapshotted at the top of finalize"); callers
// MUST NOT reuse a QueryContext across queries.
//
// DISTINCT/ORDER BY/OFFSET/LIMIT live on ctx.Aggregation even for queries
// with no GROUP BY, since that is the only per-query slot the planner's
// reorder step populates for SELECT-level modifiers (spec §4.4 "query
// context"); a nil Aggregation means none of those modifiers apply.
//
// Transitive patterns run first: the planner moves them out of the
// ordinary pattern groups before the main join, so ctx.Transitives'
// bindings don't exist yet when Finalize is entered, and BIND/residual
// FILTER/anti-joins may reference the variables they bind.
func Finalize(solutions []models.Solution, ctx *models.QueryContext, execInner ExecuteInnerFn, makeStep TransitiveStepFn) ([]models.Solution, error) {
	var err error
	solutions, err = ApplyTransitives(solutions, ctx.Transitives, makeStep)
	if err != nil {
		return nil, err
	}

	solutions = ApplyBinds(solutions, ctx.Binds)
	solutions = ApplyResidualFilters(solutions, ctx.Residuals)

	solutions, err = ApplyAntiJoins(solutions, ctx.AntiJoins, execInner)
	if err != nil {
		return nil, err
	}

	solutions = ApplyAggregation(solutions, ctx.Aggregation)

	if ctx.Aggregation != nil {
		if ctx.Aggregation.Distinct {
			solutions = ApplyDistinct(solutions)
		}
		solutions = ApplyOrderBy(solutions, ctx.Aggregation.OrderBy)
		solutions = ApplyOffsetLimit(solutions, ctx.Aggregation.Offset, ctx.Aggregation.Limit)
	}

	return solutions, nil
}
