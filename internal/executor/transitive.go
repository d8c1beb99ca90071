package executor

import "github.com/fluree/vg-engine/internal/models"

// ApplyTransitives expands solutions through every TransitiveSpec in
// order (spec §4.6.5). Transitive patterns are routed out of the
// ordinary pattern groups before the main join runs, so this stage is
// where their bindings actually enter the result: each input solution
// is replaced by zero, one, or many solutions — whatever
// ExecuteTransitive's BFS reaches from it — the same fan-out a join
// performs.
func ApplyTransitives(solutions []models.Solution, specs []models.TransitiveSpec, makeStep TransitiveStepFn) ([]models.Solution, error) {
	for _, spec := range specs {
		step, err := makeStep(spec.Predicate)
		if err != nil {
			return nil, err
		}

		var out []models.Solution
		for _, sol := range solutions {
			results, err := ExecuteTransitive(sol, spec, step)
			if err != nil {
				return nil, err
			}
			out = append(out, results...)
		}
		solutions = out
	}
	return solutions, nil
}

// StepFn yields every `(x, p, y)` match for a single hop of a transitive
// pattern, given one endpoint bound. It is supplied by the caller (which
// resolves p through the routing index and issues a scan) so this
// package stays source-agnostic.
type StepFn func(bound models.Term, forward bool) ([]models.Term, error)

// ExecuteTransitive evaluates one transitive pattern by BFS (spec
// §4.6.5): starting from the outer solution's binding for spec.Subject or
// spec.Object (whichever is bound), it repeatedly extends the frontier
// via step, applying a visited set to guarantee termination on cyclic
// data. ZeroPlus additionally emits the zero-step identity binding.
func ExecuteTransitive(outer models.Solution, spec models.TransitiveSpec, step StepFn) ([]models.Solution, error) {
	subjectVar, subjectBound := boundTerm(outer, spec.Subject)
	objectVar, objectBound := boundTerm(outer, spec.Object)

	var start models.Term
	forward := true
	switch {
	case subjectBound.IsBound():
		start = subjectBound
		forward = true
	case objectBound.IsBound():
		start = objectBound
		forward = false
	default:
		// Fully unbound: BFS has no anchor to start from; nothing to
		// iteratively extend from a scan-free boundary here, so report no
		// matches rather than guessing a starting scan.
		return nil, nil
	}

	var results []models.Solution
	if spec.ZeroPlus {
		results = append(results, bindEndpoint(outer, subjectVar, objectVar, forward, start, start))
	}

	visited := map[string]bool{start.String(): true}
	frontier := []models.Term{start}
	depth := 0

	for len(frontier) > 0 {
		depth++
		var next []models.Term
		for _, cur := range frontier {
			hops, err := step(cur, forward)
			if err != nil {
				return nil, err
			}
			for _, h := range hops {
				results = append(results, bindEndpoint(outer, subjectVar, objectVar, forward, start, h))
				if !visited[h.String()] {
					visited[h.String()] = true
					next = append(next, h)
				}
			}
		}
		frontier = next
	}

	return results, nil
}

// boundTerm resolves t against outer if t is a variable, returning the
// variable name (empty if t is not a variable) and the resolved term
// (zero-value/unbound if the variable isn't bound in outer).
func boundTerm(outer models.Solution, t models.Term) (string, models.Term) {
	if !t.IsVariable() {
		return "", t
	}
	if bound, ok := outer[t.Variable]; ok {
		return t.Variable, bound
	}
	return t.Variable, models.Term{}
}

func bindEndpoint(outer models.Solution, subjectVar, objectVar string, forward bool, start, reached models.Term) models.Solution {
	sol := outer.Clone()
	if forward {
		if subjectVar != "" {
			sol[subjectVar] = start
		}
		if objectVar != "" {
			sol[objectVar] = reached
		}
	} else {
		if objectVar != "" {
			sol[objectVar] = start
		}
		if subjectVar != "" {
			sol[subjectVar] = reached
		}
	}
	return sol
}
