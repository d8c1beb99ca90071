package pushdown

import "github.com/fluree/vg-engine/internal/models"

// FilterCandidate pairs a compiled FILTER expression with the already-
// compiled evaluator a host would fall back to if the filter can't be
// pushed, plus a human-readable rendering for explain output.
type FilterCandidate struct {
	Expr FilterExpr
	Eval models.ExprFn
	Meta string
}

// ValuesCandidate is one single-variable VALUES pattern under
// consideration for pushdown.
type ValuesCandidate struct {
	Variable string
	Values   []any
}

// TransformFilters implements spec §4.4's "WHERE transformation" for
// FILTER patterns: pushable filters are annotated onto their binding
// pattern and dropped from the residual slot entirely; everything else
// (unpushable filters, and filters that fail annotation for a recoverable
// reason such as PushdownUnsupported/CoercionFailed) is moved into
// ctx.Residuals, to be evaluated after the scan (spec §4.6.6).
func TransformFilters(ctx *models.QueryContext, idx *models.RoutingIndex, patterns []models.Pattern, candidates []FilterCandidate, schemaHint string) {
	for _, fc := range candidates {
		analysis := AnalyzeFilter(fc.Expr)
		if analysis.Pushable {
			if _, err := Annotate(ctx, idx, patterns, analysis.Variable, analysis.Comparisons, schemaHint); err == nil {
				continue
			}
		}
		ctx.Residuals = append(ctx.Residuals, models.ResidualFilter{Fn: fc.Eval, Meta: fc.Meta})
	}
}

// TransformValues implements the VALUES half of spec §4.4's WHERE
// transformation: each candidate is annotated onto its binding pattern
// when possible, and the return value reports which variables were fully
// pushed so the caller can drop those VALUES patterns from the query
// (spec §4.4: "Remove VALUES patterns whose variable was fully pushed").
// Variables absent from the result were left in place, unpushed.
func TransformValues(ctx *models.QueryContext, idx *models.RoutingIndex, patterns []models.Pattern, candidates []ValuesCandidate, schemaHint string) map[string]bool {
	pushed := map[string]bool{}
	for _, vc := range candidates {
		analysis := AnalyzeValues(vc.Variable, vc.Values)
		if _, err := AnnotateValues(ctx, idx, patterns, analysis, schemaHint); err == nil {
			pushed[vc.Variable] = true
		}
	}
	return pushed
}
