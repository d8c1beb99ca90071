package executor_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/fluree/vg-engine/internal/executor"
	"github.com/fluree/vg-engine/internal/models"
)

var _ = Describe("ApplyAggregation", func() {
	// Given solutions grouped by country with a count aggregator
	// When aggregated
	// Then one solution per group carries the group key and the count
	It("groups and counts per spec §4.6.3", func() {
		solutions := []models.Solution{
			{"country": models.NewLiteral("US", ""), "id": models.NewLiteral("1", "")},
			{"country": models.NewLiteral("US", ""), "id": models.NewLiteral("2", "")},
			{"country": models.NewLiteral("CA", ""), "id": models.NewLiteral("3", "")},
		}
		spec := &models.AggregationSpec{
			GroupBy: []string{"country"},
			Aggregators: []models.Aggregator{
				{Fn: models.AggCount, SourceVariable: "id", ResultVariable: "n"},
			},
		}

		out := executor.ApplyAggregation(solutions, spec)
		Expect(out).To(HaveLen(2))
		Expect(out[0]["country"].Value).To(Equal("US"))
		Expect(out[0]["n"].Value).To(Equal("2"))
		Expect(out[1]["n"].Value).To(Equal("1"))
	})
})

var _ = Describe("Finalize", func() {
	// Given a query context with a BIND, a residual filter, and a limit
	// When finalized
	// Then the modifiers apply in the spec §4.6.3 order: BIND binds
	// before the residual filter evaluates it, and the limit trims the
	// final output
	It("applies BIND, residual filter, and limit in order", func() {
		solutions := []models.Solution{
			{"x": models.NewLiteral("1", "")},
			{"x": models.NewLiteral("2", "")},
			{"x": models.NewLiteral("3", "")},
		}

		ctx := models.NewQueryContext()
		ctx.Binds = []models.BindSpec{
			{Variable: "y", Fn: func(s models.Solution) (models.Term, error) {
				return models.NewLiteral("bound-"+s["x"].Value, ""), nil
			}},
		}
		ctx.Residuals = []models.ResidualFilter{
			{Fn: func(s models.Solution) (models.Term, error) {
				if s["x"].Value == "1" {
					return models.NewLiteral("false", ""), nil
				}
				return models.NewLiteral("true", ""), nil
			}},
		}
		limit := int64(1)
		ctx.Aggregation = &models.AggregationSpec{Limit: &limit}

		out, err := executor.Finalize(solutions, ctx, noopInner, noopStep)
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(HaveLen(1))
		Expect(out[0]["y"].Value).To(Equal("bound-2"))
	})
})

func noopInner(outer models.Solution, patterns []models.Pattern) ([]models.Solution, error) {
	return nil, nil
}

// noopStep is never actually called since this test's ctx carries no
// TransitiveSpecs, but Finalize's signature requires one.
func noopStep(predicate string) (executor.StepFn, error) {
	return nil, nil
}
