package pushdown

import "github.com/fluree/vg-engine/internal/models"

// FilterExprKind distinguishes the shapes a compiled FILTER expression can
// take, restricted to what spec §4.4 step 1 actually classifies.
type FilterExprKind int

const (
	ExprComparison FilterExprKind = iota // var OP constant
	ExprBetween                          // var BETWEEN low AND high
	ExprBound                            // bound(var) / !isBlank(var)
	ExprAnd                               // conjunction of children
	ExprOther                            // anything else: regex, arithmetic, disjunction, ...
)

// FilterExpr is a compiled FILTER expression tree. The host query engine's
// parser (out of scope) is responsible for producing this shape; the VG
// engine only classifies and (where possible) pushes it down.
type FilterExpr struct {
	Kind     FilterExprKind
	Variable string // ExprComparison, ExprBetween, ExprBound
	Op       models.PushdownOp
	Value    any // ExprComparison
	Low, High any // ExprBetween
	Children []FilterExpr // ExprAnd
}

func Comparison(variable string, op models.PushdownOp, value any) FilterExpr {
	return FilterExpr{Kind: ExprComparison, Variable: variable, Op: op, Value: value}
}

func Between(variable string, low, high any) FilterExpr {
	return FilterExpr{Kind: ExprBetween, Variable: variable, Low: low, High: high}
}

func Bound(variable string) FilterExpr {
	return FilterExpr{Kind: ExprBound, Variable: variable}
}

func And(children ...FilterExpr) FilterExpr {
	return FilterExpr{Kind: ExprAnd, Children: children}
}
