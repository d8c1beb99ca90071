package executor

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/fluree/vg-engine/internal/models"
)

// ApplyAggregation performs the spec §4.6.3 two-pass GROUP BY: partition
// solutions by group key, fold each partition's Aggregators into one
// result solution, then apply HAVING. A nil spec or one naming neither
// GroupBy nor Aggregators leaves solutions untouched.
func ApplyAggregation(solutions []models.Solution, spec *models.AggregationSpec) []models.Solution {
	if spec == nil || (len(spec.GroupBy) == 0 && len(spec.Aggregators) == 0) {
		return solutions
	}

	order := make([]string, 0)
	groups := map[string][]models.Solution{}
	for _, sol := range solutions {
		key := groupKey(sol, spec.GroupBy)
		if _, seen := groups[key]; !seen {
			order = append(order, key)
		}
		groups[key] = append(groups[key], sol)
	}

	out := make([]models.Solution, 0, len(order))
	for _, key := range order {
		members := groups[key]
		result := models.Solution{}
		for _, gb := range spec.GroupBy {
			if v, ok := members[0][gb]; ok {
				result[gb] = v
			}
		}
		for _, agg := range spec.Aggregators {
			result[agg.ResultVariable] = foldAggregate(agg, members)
		}
		out = append(out, result)
	}

	if spec.Having != nil {
		out = ApplyResidualFilters(out, []models.ResidualFilter{*spec.Having})
	}
	return out
}

func groupKey(sol models.Solution, groupBy []string) string {
	var b strings.Builder
	for _, v := range groupBy {
		b.WriteString(v)
		b.WriteByte('=')
		if t, ok := sol[v]; ok {
			b.WriteString(t.String())
		}
		b.WriteByte(';')
	}
	return b.String()
}

func foldAggregate(agg models.Aggregator, members []models.Solution) models.Term {
	switch agg.Fn {
	case models.AggCount:
		n := 0
		for _, m := range members {
			if _, ok := m[agg.SourceVariable]; ok {
				n++
			}
		}
		return models.NewLiteral(strconv.Itoa(n), "http://www.w3.org/2001/XMLSchema#integer")
	case models.AggCountDistinct:
		seen := map[string]bool{}
		for _, m := range members {
			if t, ok := m[agg.SourceVariable]; ok {
				seen[t.String()] = true
			}
		}
		return models.NewLiteral(strconv.Itoa(len(seen)), "http://www.w3.org/2001/XMLSchema#integer")
	case models.AggSum, models.AggAvg:
		var sum float64
		var n int
		for _, m := range members {
			if t, ok := m[agg.SourceVariable]; ok {
				if f, err := strconv.ParseFloat(t.Value, 64); err == nil {
					sum += f
					n++
				}
			}
		}
		if agg.Fn == models.AggAvg && n > 0 {
			sum /= float64(n)
		}
		return models.NewLiteral(strconv.FormatFloat(sum, 'g', -1, 64), "http://www.w3.org/2001/XMLSchema#double")
	case models.AggMin, models.AggMax:
		var best *float64
		var bestTerm models.Term
		for _, m := range members {
			t, ok := m[agg.SourceVariable]
			if !ok {
				continue
			}
			f, err := strconv.ParseFloat(t.Value, 64)
			if err != nil {
				continue
			}
			if best == nil || (agg.Fn == models.AggMin && f < *best) || (agg.Fn == models.AggMax && f > *best) {
				v := f
				best = &v
				bestTerm = t
			}
		}
		return bestTerm
	case models.AggSample:
		for _, m := range members {
			if t, ok := m[agg.SourceVariable]; ok {
				return t
			}
		}
		return models.Term{}
	case models.AggGroupConcat:
		sep := agg.Separator
		if sep == "" {
			sep = " "
		}
		var parts []string
		for _, m := range members {
			if t, ok := m[agg.SourceVariable]; ok {
				parts = append(parts, t.Value)
			}
		}
		return models.NewLiteral(strings.Join(parts, sep), "")
	default:
		return models.Term{}
	}
}

// ApplyDistinct removes solutions that bind every variable identically
// to an earlier one, preserving first-seen order (spec §4.6.3 "DISTINCT"
// step).
func ApplyDistinct(solutions []models.Solution) []models.Solution {
	seen := map[string]bool{}
	out := make([]models.Solution, 0, len(solutions))
	for _, sol := range solutions {
		key := solutionKey(sol)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, sol)
	}
	return out
}

func solutionKey(sol models.Solution) string {
	vars := make([]string, 0, len(sol))
	for v := range sol {
		vars = append(vars, v)
	}
	sort.Strings(vars)
	var b strings.Builder
	for _, v := range vars {
		fmt.Fprintf(&b, "%s=%s;", v, sol[v].String())
	}
	return b.String()
}

// ApplyOrderBy sorts solutions by the ORDER BY terms. Spec §5 leaves
// ordering undefined with no explicit ORDER BY, so ApplyOrderBy is a
// no-op when orderBy is empty (the cooperative transport's own ordering
// guarantees already apply).
func ApplyOrderBy(solutions []models.Solution, orderBy []models.OrderTerm) []models.Solution {
	if len(orderBy) == 0 {
		return solutions
	}
	out := make([]models.Solution, len(solutions))
	copy(out, solutions)
	sort.SliceStable(out, func(i, j int) bool {
		for _, ot := range orderBy {
			a, aok := out[i][ot.Variable]
			b, bok := out[j][ot.Variable]
			if !aok || !bok {
				continue
			}
			if a.String() == b.String() {
				continue
			}
			less := a.String() < b.String()
			if ot.Desc {
				return !less
			}
			return less
		}
		return false
	})
	return out
}

// ApplyOffsetLimit slices solutions per spec §4.6.3's trailing
// OFFSET -> LIMIT step.
func ApplyOffsetLimit(solutions []models.Solution, offset, limit *int64) []models.Solution {
	start := 0
	if offset != nil && *offset > 0 {
		start = int(*offset)
	}
	if start >= len(solutions) {
		return nil
	}
	solutions = solutions[start:]
	if limit != nil && *limit >= 0 && int(*limit) < len(solutions) {
		solutions = solutions[:*limit]
	}
	return solutions
}
