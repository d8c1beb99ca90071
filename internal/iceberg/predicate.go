package iceberg

import (
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/fluree/vg-engine/internal/models"
)

// ApplyPredicates folds the pushdown predicate tree (spec §4.5 "predicate
// translation") onto a squirrel SelectBuilder. `in` with a single value
// collapses to `eq` per spec §4.5; and/or/not compose nested predicates.
func ApplyPredicates(builder sq.SelectBuilder, predicates []models.PushdownPredicate) (sq.SelectBuilder, error) {
	for _, p := range predicates {
		sqlizer, err := translatePredicate(p)
		if err != nil {
			return builder, err
		}
		builder = builder.Where(sqlizer)
	}
	return builder, nil
}

func translatePredicate(p models.PushdownPredicate) (sq.Sqlizer, error) {
	col := quoteColumn(p.Column)
	switch p.Op {
	case models.OpEq:
		return sq.Eq{col: p.Value}, nil
	case models.OpNeq:
		return sq.NotEq{col: p.Value}, nil
	case models.OpLt:
		return sq.Lt{col: p.Value}, nil
	case models.OpLte:
		return sq.LtOrEq{col: p.Value}, nil
	case models.OpGt:
		return sq.Gt{col: p.Value}, nil
	case models.OpGte:
		return sq.GtOrEq{col: p.Value}, nil
	case models.OpIn:
		values, ok := p.Value.([]any)
		if ok && len(values) == 1 {
			return sq.Eq{col: values[0]}, nil
		}
		return sq.Eq{col: p.Value}, nil
	case models.OpNotNull:
		return sq.NotEq{col: nil}, nil
	case models.OpIsNull:
		return sq.Eq{col: nil}, nil
	case models.OpBetween:
		bounds, ok := p.Value.([]any)
		if !ok || len(bounds) != 2 {
			return nil, fmt.Errorf("between predicate on %s requires a 2-element value", p.Column)
		}
		return sq.Expr(col+" BETWEEN ? AND ?", bounds[0], bounds[1]), nil
	case models.OpAnd:
		return combinePredicates(p.Predicates, true)
	case models.OpOr:
		return combinePredicates(p.Predicates, false)
	case models.OpNot:
		if len(p.Predicates) != 1 {
			return nil, fmt.Errorf("not predicate requires exactly one child")
		}
		inner, err := translatePredicate(p.Predicates[0])
		if err != nil {
			return nil, err
		}
		sqlStr, args, err := inner.ToSql()
		if err != nil {
			return nil, err
		}
		return sq.Expr("NOT ("+sqlStr+")", args...), nil
	default:
		return nil, fmt.Errorf("unsupported pushdown op: %s", p.Op)
	}
}

func combinePredicates(preds []models.PushdownPredicate, and bool) (sq.Sqlizer, error) {
	var andParts sq.And
	var orParts sq.Or
	for _, child := range preds {
		sqlizer, err := translatePredicate(child)
		if err != nil {
			return nil, err
		}
		if and {
			andParts = append(andParts, sqlizer)
		} else {
			orParts = append(orParts, sqlizer)
		}
	}
	if and {
		return andParts, nil
	}
	return orParts, nil
}

func quoteColumn(col string) string {
	return fmt.Sprintf("%q", col)
}
