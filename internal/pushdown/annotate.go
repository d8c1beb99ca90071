package pushdown

import (
	"github.com/fluree/vg-engine/internal/models"
	"github.com/fluree/vg-engine/internal/routing"
	srvErrors "github.com/fluree/vg-engine/pkg/errors"
)

// Annotate resolves one filter or VALUES analysis against the binding
// pattern that grounds its variable and attaches a PatternPushdown to it,
// also recording the predicate in ctx.Pushdown so it survives any
// downstream rewriting of the pattern list itself (spec §4.4 step 4, §9
// design notes on per-query slots).
//
// patterns is the full remaining WHERE pattern list; Annotate finds the
// FIRST pattern binding analysis.Variable in the object position (spec
// §4.4 step 1: "find the first binding pattern (s,p,var)"). A failure at
// any step (no binding pattern, non-column ObjectMap, coercion failure)
// is recoverable: the analysis simply isn't pushed, and the caller should
// fall back to residual filtering rather than aborting the query (spec §7:
// PushdownUnsupported/CoercionFailed are both "recovered" kinds).
func Annotate(ctx *models.QueryContext, idx *models.RoutingIndex, patterns []models.Pattern, variable string, comparisons []models.Comparison, schemaHint string) (*models.Pattern, error) {
	pattern, mapping, column, err := resolveBinding(idx, patterns, variable)
	if err != nil {
		return nil, err
	}

	preds := make([]models.PushdownPredicate, 0, len(comparisons))
	for _, c := range comparisons {
		coerced, err := coerceComparison(column, c, mapping, schemaHint)
		if err != nil {
			return nil, err
		}
		preds = append(preds, models.PushdownPredicate{Column: column, Op: c.Op, Value: coerced})
	}

	pd := &models.PatternPushdown{Table: mapping.Table, Mapping: mapping.TriplesMapIRI, Predicates: preds}
	pattern.Pushdown = pd
	ctx.Pushdown[variable] = pd
	return pattern, nil
}

// resolveBinding finds the first pattern binding variable in object
// position, routes it to a TriplesMapping, and resolves the column-kind
// ObjectMap backing it (spec §4.4 step 2).
func resolveBinding(idx *models.RoutingIndex, patterns []models.Pattern, variable string) (*models.Pattern, *models.TriplesMapping, string, error) {
	for i := range patterns {
		p := &patterns[i]
		if !(p.Object.IsVariable() && p.Object.Variable == variable) {
			continue
		}
		mapping, err := routing.TableFor(idx, *p)
		if err != nil {
			continue
		}
		column, ok := mapping.ColumnFor(p.Predicate.Value)
		if !ok {
			return nil, nil, "", srvErrors.NewPushdownUnsupportedError(variable)
		}
		return p, mapping, column, nil
	}
	return nil, nil, "", srvErrors.NewPushdownUnsupportedError(variable)
}

func coerceComparison(column string, c models.Comparison, mapping *models.TriplesMapping, schemaHint string) (any, error) {
	datatype := objectMapDatatype(mapping, column)
	if pair, ok := c.Value.([]any); ok && c.Op == models.OpBetween && len(pair) == 2 {
		low, err := Coerce(column, pair[0], datatype, schemaHint)
		if err != nil {
			return nil, err
		}
		high, err := Coerce(column, pair[1], datatype, schemaHint)
		if err != nil {
			return nil, err
		}
		return []any{low, high}, nil
	}
	if c.Value == nil {
		return nil, nil
	}
	return Coerce(column, c.Value, datatype, schemaHint)
}

func objectMapDatatype(mapping *models.TriplesMapping, column string) string {
	for _, om := range mapping.Predicates {
		if om.Kind == models.ObjectMapColumn && om.Column == column {
			return om.Datatype
		}
	}
	return ""
}

// AnnotateValues resolves a VALUES analysis the same way Annotate does,
// coercing every listed value and producing an `in` predicate (spec §4.4
// step 4, collapsing to a single `eq` when there's exactly one value per
// the Iceberg adapter's own translation rule, spec §4.5).
func AnnotateValues(ctx *models.QueryContext, idx *models.RoutingIndex, patterns []models.Pattern, analysis models.ValuesAnalysis, schemaHint string) (*models.Pattern, error) {
	pattern, mapping, column, err := resolveBinding(idx, patterns, analysis.Variable)
	if err != nil {
		return nil, err
	}
	datatype := objectMapDatatype(mapping, column)

	coerced := make([]any, 0, len(analysis.Values))
	for _, v := range analysis.Values {
		cv, err := Coerce(column, v, datatype, schemaHint)
		if err != nil {
			return nil, err
		}
		coerced = append(coerced, cv)
	}

	op := models.OpIn
	var value any = coerced
	if len(coerced) == 1 {
		op = models.OpEq
		value = coerced[0]
	}

	pd := &models.PatternPushdown{
		Table:      mapping.Table,
		Mapping:    mapping.TriplesMapIRI,
		Predicates: []models.PushdownPredicate{{Column: column, Op: op, Value: value}},
	}
	pattern.Pushdown = pd
	ctx.Pushdown[analysis.Variable] = pd
	return pattern, nil
}
