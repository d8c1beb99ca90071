package executor

import "github.com/fluree/vg-engine/internal/models"

// ExecuteInnerFn runs the inner pattern list of an anti-join on behalf of
// one outer solution, returning every inner solution it produces (spec
// §4.6.4 "recursively, using execute-inner-fn"). An implementation may
// ignore outer and return every matching inner row: ApplyAntiJoins only
// counts the rows compatible with outer. finalize supplies this by closing over Execute so
// anti-joins can nest arbitrarily deep patterns without this package
// depending on the planner.
type ExecuteInnerFn func(outer models.Solution, patterns []models.Pattern) ([]models.Solution, error)

// ApplyAntiJoins filters solutions through every AntiJoinSpec in order
// (spec §4.6.4), counting for each outer solution only the inner rows
// compatible with it: not-exists keeps outer solutions with no compatible
// inner row, exists keeps those with at least one, and minus drops outer
// solutions that have a compatible inner row sharing at least one
// variable with them.
func ApplyAntiJoins(solutions []models.Solution, specs []models.AntiJoinSpec, execInner ExecuteInnerFn) ([]models.Solution, error) {
	for _, spec := range specs {
		var kept []models.Solution
		for _, outer := range solutions {
			inner, err := execInner(outer, spec.Patterns)
			if err != nil {
				return nil, err
			}
			if antiJoinKeeps(spec.Kind, outer, inner) {
				kept = append(kept, outer)
			}
		}
		solutions = kept
	}
	return solutions, nil
}

func antiJoinKeeps(kind models.AntiJoinKind, outer models.Solution, inner []models.Solution) bool {
	compatible := 0
	for _, in := range inner {
		if kind == models.AntiJoinMinus && !outer.SharesVariable(in) {
			continue
		}
		if _, ok := outer.Merge(in); ok {
			compatible++
		}
	}

	switch kind {
	case models.AntiJoinNotExists:
		return compatible == 0
	case models.AntiJoinExists:
		return compatible > 0
	case models.AntiJoinMinus:
		return compatible == 0
	default:
		return true
	}
}
