package executor_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/fluree/vg-engine/internal/executor"
	"github.com/fluree/vg-engine/internal/models"
)

var _ = Describe("ExecuteTransitive", func() {
	// Given a chain a->b->c and an outer solution binding the subject to a
	// When evaluated as p+
	// Then BFS reaches both b and c, one solution per reachable endpoint
	It("follows a multi-hop chain for a one-or-more path", func() {
		edges := map[string][]string{
			"http://ex/a": {"http://ex/b"},
			"http://ex/b": {"http://ex/c"},
		}
		step := func(bound models.Term, forward bool) ([]models.Term, error) {
			var out []models.Term
			for _, v := range edges[bound.Value] {
				out = append(out, models.NewIRI(v))
			}
			return out, nil
		}

		outer := models.Solution{"s": models.NewIRI("http://ex/a")}
		spec := models.TransitiveSpec{
			Subject:   models.NewVariable("s"),
			Object:    models.NewVariable("o"),
			OneOrMore: true,
		}

		results, err := executor.ExecuteTransitive(outer, spec, step)
		Expect(err).NotTo(HaveOccurred())

		var reached []string
		for _, r := range results {
			reached = append(reached, r["o"].Value)
		}
		Expect(reached).To(ConsistOf("http://ex/b", "http://ex/c"))
	})

	// Given a step function that finds no hops out of a
	// When evaluated as p* (zero-or-more)
	// Then the identity binding (a reaches a) is still emitted
	It("emits the zero-step identity binding for a zero-or-more path", func() {
		step := func(bound models.Term, forward bool) ([]models.Term, error) {
			return nil, nil
		}
		outer := models.Solution{"s": models.NewIRI("http://ex/a")}
		spec := models.TransitiveSpec{
			Subject:  models.NewVariable("s"),
			Object:   models.NewVariable("o"),
			ZeroPlus: true,
		}

		results, err := executor.ExecuteTransitive(outer, spec, step)
		Expect(err).NotTo(HaveOccurred())
		Expect(results).To(HaveLen(1))
		Expect(results[0]["o"].Value).To(Equal("http://ex/a"))
	})
})
