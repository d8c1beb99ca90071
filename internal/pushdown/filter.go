package pushdown

import "github.com/fluree/vg-engine/internal/models"

// AnalyzeFilter classifies a compiled FILTER expression (spec §4.4 step
// 1-2). It is pushable iff it reduces to a conjunction (or a single leaf)
// of comparisons on ONE variable — any other shape (disjunction, regex,
// a conjunction spanning multiple variables) is reported unpushable so
// the caller moves it to the residual filter slot instead.
func AnalyzeFilter(expr FilterExpr) models.FilterAnalysis {
	leaves, variable, ok := flatten(expr)
	if !ok {
		return models.FilterAnalysis{Pushable: false}
	}
	return models.FilterAnalysis{
		Variable:    variable,
		Comparisons: leaves,
		Pushable:    true,
	}
}

// flatten walks expr, collecting leaf comparisons as long as every leaf
// names the same variable and every node is a comparison, between, bound,
// or and-of-such. Returns ok=false the moment either condition fails.
func flatten(expr FilterExpr) ([]models.Comparison, string, bool) {
	switch expr.Kind {
	case ExprComparison:
		return []models.Comparison{{Op: expr.Op, Value: expr.Value}}, expr.Variable, true
	case ExprBetween:
		return []models.Comparison{{Op: models.OpBetween, Value: []any{expr.Low, expr.High}}}, expr.Variable, true
	case ExprBound:
		return []models.Comparison{{Op: models.OpNotNull}}, expr.Variable, true
	case ExprAnd:
		var all []models.Comparison
		var variable string
		for i, child := range expr.Children {
			leaves, v, ok := flatten(child)
			if !ok {
				return nil, "", false
			}
			if i == 0 {
				variable = v
			} else if v != variable {
				return nil, "", false
			}
			all = append(all, leaves...)
		}
		return all, variable, len(expr.Children) > 0
	default:
		return nil, "", false
	}
}
