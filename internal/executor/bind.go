package executor

import "github.com/fluree/vg-engine/internal/models"

// ApplyBinds runs every BindSpec over solutions in declaration order
// (spec §4.6.6): a BIND's Fn is evaluated against the solution so far
// (including earlier BINDs in the same pass) and the result assigned into
// the variable. Evaluation errors leave the variable unbound rather than
// dropping the solution.
func ApplyBinds(solutions []models.Solution, binds []models.BindSpec) []models.Solution {
	if len(binds) == 0 {
		return solutions
	}
	out := make([]models.Solution, len(solutions))
	for i, sol := range solutions {
		cur := sol.Clone()
		for _, b := range binds {
			v, err := b.Fn(cur)
			if err != nil {
				continue
			}
			cur[b.Variable] = v
		}
		out[i] = cur
	}
	return out
}

// ApplyResidualFilters evaluates every residual filter against solutions
// and drops any solution for which a filter's Fn does not evaluate to
// boolean true (spec §4.6.6).
func ApplyResidualFilters(solutions []models.Solution, filters []models.ResidualFilter) []models.Solution {
	if len(filters) == 0 {
		return solutions
	}
	var out []models.Solution
	for _, sol := range solutions {
		keep := true
		for _, f := range filters {
			result, err := f.Fn(sol)
			if err != nil || !isTrue(result) {
				keep = false
				break
			}
		}
		if keep {
			out = append(out, sol)
		}
	}
	return out
}

func isTrue(t models.Term) bool {
	return t.Kind == models.TermLiteral && t.Value == "true"
}
