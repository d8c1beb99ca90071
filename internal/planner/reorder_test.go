package planner_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/fluree/vg-engine/internal/models"
	"github.com/fluree/vg-engine/internal/planner"
	"github.com/fluree/vg-engine/internal/pushdown"
	"github.com/fluree/vg-engine/internal/routing"
)

func TestPlanner(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Planner Suite")
}

const exCountry = "http://example.org/ns#country"

func airlineMapping() *models.TriplesMapping {
	return &models.TriplesMapping{
		TriplesMapIRI:   "#AirlineMap",
		Table:           "airlines",
		SubjectTemplate: "http://example.org/airline/{id}",
		Class:           "http://example.org/ns#Airline",
		Predicates: map[string]models.ObjectMap{
			exCountry: {Kind: models.ObjectMapColumn, Column: "country", Datatype: pushdown.XSDString},
		},
	}
}

var _ = Describe("Reorder", func() {
	// Given a query carrying aggregation, anti-join, and cartesian cap
	// overrides plus one pushable FILTER
	// When reordered
	// Then the returned context carries those fields through unchanged and
	// the filter is annotated onto the binding pattern rather than left
	// as a residual
	It("copies query-scoped fields through and pushes a pushable filter", func() {
		mappings := map[string]*models.TriplesMapping{"airlines": airlineMapping()}
		idx, _ := routing.Build(mappings, nil)

		agg := &models.AggregationSpec{GroupBy: []string{"country"}}
		cap := 500

		q := &planner.Query{
			Patterns: []models.Pattern{
				{Subject: models.NewVariable("a"), Predicate: models.NewIRI(exCountry), Object: models.NewVariable("country")},
			},
			Filters: []pushdown.FilterCandidate{
				{Expr: pushdown.Comparison("country", models.OpEq, "United States")},
			},
			Aggregation:  agg,
			CartesianCap: &cap,
		}

		ctx, patterns := planner.Reorder(idx, q, "")

		Expect(ctx.Aggregation).To(Equal(agg))
		Expect(ctx.CartesianCap).To(Equal(&cap))
		Expect(patterns).To(HaveLen(1))
		Expect(patterns[0].Pushdown).NotTo(BeNil())
		Expect(patterns[0].Pushdown.Predicates[0].Column).To(Equal("country"))
		Expect(ctx.Residuals).To(BeEmpty())
	})

	// Given a FILTER that spans two variables (not pushable per spec §4.4
	// step 1)
	// When reordered
	// Then it lands in the context's residual slot rather than being
	// silently dropped
	It("moves an unpushable filter to residuals", func() {
		mappings := map[string]*models.TriplesMapping{"airlines": airlineMapping()}
		idx, _ := routing.Build(mappings, nil)

		q := &planner.Query{
			Patterns: []models.Pattern{
				{Subject: models.NewVariable("a"), Predicate: models.NewIRI(exCountry), Object: models.NewVariable("country")},
			},
			Filters: []pushdown.FilterCandidate{
				{Expr: pushdown.And(
					pushdown.Comparison("country", models.OpEq, "United States"),
					pushdown.Comparison("name", models.OpEq, "Acme Air"),
				)},
			},
		}

		ctx, patterns := planner.Reorder(idx, q, "")

		Expect(patterns[0].Pushdown).To(BeNil())
		Expect(ctx.Residuals).NotTo(BeEmpty())
	})

	// Given a VALUES candidate that pushes fully onto a single bound
	// variable
	// When reordered
	// Then the candidate is removed from q.Values so the caller doesn't
	// re-evaluate it row-at-a-time downstream
	It("prunes a fully-pushed VALUES candidate from the query", func() {
		mappings := map[string]*models.TriplesMapping{"airlines": airlineMapping()}
		idx, _ := routing.Build(mappings, nil)

		q := &planner.Query{
			Patterns: []models.Pattern{
				{Subject: models.NewVariable("a"), Predicate: models.NewIRI(exCountry), Object: models.NewVariable("country")},
			},
			Values: []pushdown.ValuesCandidate{
				{Variable: "country", Values: []any{"United States", "Canada"}},
			},
		}

		_, patterns := planner.Reorder(idx, q, "")

		Expect(patterns[0].Pushdown.Predicates[0].Op).To(Equal(models.OpIn))
		Expect(q.Values).To(BeEmpty())
	})
})
