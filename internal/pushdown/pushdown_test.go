package pushdown_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/fluree/vg-engine/internal/models"
	"github.com/fluree/vg-engine/internal/pushdown"
	"github.com/fluree/vg-engine/internal/routing"
)

func TestPushdown(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Pushdown Suite")
}

const exCountry = "http://example.org/ns#country"
const exName = "http://example.org/ns#name"

func airlineMapping() *models.TriplesMapping {
	return &models.TriplesMapping{
		TriplesMapIRI:   "#AirlineMap",
		Table:           "airlines",
		SubjectTemplate: "http://example.org/airline/{id}",
		Class:           "http://example.org/ns#Airline",
		Predicates: map[string]models.ObjectMap{
			exCountry: {Kind: models.ObjectMapColumn, Column: "country", Datatype: pushdown.XSDString},
			exName:    {Kind: models.ObjectMapColumn, Column: "name", Datatype: pushdown.XSDString},
		},
	}
}

var _ = Describe("AnalyzeFilter", func() {
	// Given a single equality comparison
	// When analyzed
	// Then it is pushable with one comparison recorded
	It("classifies a single comparison as pushable", func() {
		expr := pushdown.Comparison("country", models.OpEq, "United States")
		analysis := pushdown.AnalyzeFilter(expr)
		Expect(analysis.Pushable).To(BeTrue())
		Expect(analysis.Variable).To(Equal("country"))
		Expect(analysis.Comparisons).To(HaveLen(1))
	})

	// Given a conjunction of comparisons on the same variable
	// When analyzed
	// Then it is pushable with all comparisons flattened
	It("classifies a same-variable conjunction as pushable", func() {
		expr := pushdown.And(
			pushdown.Comparison("age", models.OpGte, 18),
			pushdown.Comparison("age", models.OpLt, 65),
		)
		analysis := pushdown.AnalyzeFilter(expr)
		Expect(analysis.Pushable).To(BeTrue())
		Expect(analysis.Comparisons).To(HaveLen(2))
	})

	// Given a conjunction spanning two different variables
	// When analyzed
	// Then it is not pushable
	It("rejects a conjunction spanning multiple variables", func() {
		expr := pushdown.And(
			pushdown.Comparison("age", models.OpGte, 18),
			pushdown.Comparison("country", models.OpEq, "US"),
		)
		analysis := pushdown.AnalyzeFilter(expr)
		Expect(analysis.Pushable).To(BeFalse())
	})
})

var _ = Describe("Annotate", func() {
	// Given a binding pattern for ?country routed to a column ObjectMap
	// When the equality filter is annotated
	// Then the pattern carries a pushdown predicate and the context
	// records it under the variable
	It("attaches a pushdown predicate to the binding pattern", func() {
		mappings := map[string]*models.TriplesMapping{"airlines": airlineMapping()}
		idx, _ := routing.Build(mappings, nil)
		ctx := models.NewQueryContext()

		patterns := []models.Pattern{
			{Subject: models.NewVariable("a"), Predicate: models.NewIRI(exCountry), Object: models.NewVariable("country")},
		}

		comparisons := []models.Comparison{{Op: models.OpEq, Value: "United States"}}
		pattern, err := pushdown.Annotate(ctx, idx, patterns, "country", comparisons, "")
		Expect(err).NotTo(HaveOccurred())
		Expect(pattern.Pushdown).NotTo(BeNil())
		Expect(pattern.Pushdown.Table).To(Equal("airlines"))
		Expect(pattern.Pushdown.Predicates).To(HaveLen(1))
		Expect(pattern.Pushdown.Predicates[0].Column).To(Equal("country"))
		Expect(pattern.Pushdown.Predicates[0].Value).To(Equal("United States"))

		Expect(ctx.Pushdown).To(HaveKey("country"))
	})

	// Given no binding pattern exists for the variable
	// When annotation is attempted
	// Then it returns a recoverable PushdownUnsupported error
	It("fails with PushdownUnsupported when no pattern binds the variable", func() {
		mappings := map[string]*models.TriplesMapping{"airlines": airlineMapping()}
		idx, _ := routing.Build(mappings, nil)
		ctx := models.NewQueryContext()

		_, err := pushdown.Annotate(ctx, idx, nil, "missing", nil, "")
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("TransformValues", func() {
	// Given a single-variable VALUES pattern that resolves to a column
	// When transformed
	// Then the variable is reported pushed and the pattern carries an
	// `in` predicate
	It("pushes a VALUES pattern with more than one value as `in`", func() {
		mappings := map[string]*models.TriplesMapping{"airlines": airlineMapping()}
		idx, _ := routing.Build(mappings, nil)
		ctx := models.NewQueryContext()

		patterns := []models.Pattern{
			{Subject: models.NewVariable("a"), Predicate: models.NewIRI(exCountry), Object: models.NewVariable("country")},
		}

		pushed := pushdown.TransformValues(ctx, idx, patterns, []pushdown.ValuesCandidate{
			{Variable: "country", Values: []any{"United States", "Canada"}},
		}, "")

		Expect(pushed["country"]).To(BeTrue())
		Expect(patterns[0].Pushdown.Predicates[0].Op).To(Equal(models.OpIn))
	})

	// Given a single-value VALUES pattern
	// When transformed
	// Then it collapses to an `eq` predicate
	It("collapses a single-value VALUES pattern to eq", func() {
		mappings := map[string]*models.TriplesMapping{"airlines": airlineMapping()}
		idx, _ := routing.Build(mappings, nil)
		ctx := models.NewQueryContext()

		patterns := []models.Pattern{
			{Subject: models.NewVariable("a"), Predicate: models.NewIRI(exCountry), Object: models.NewVariable("country")},
		}

		pushdown.TransformValues(ctx, idx, patterns, []pushdown.ValuesCandidate{
			{Variable: "country", Values: []any{"United States"}},
		}, "")

		Expect(patterns[0].Pushdown.Predicates[0].Op).To(Equal(models.OpEq))
		Expect(patterns[0].Pushdown.Predicates[0].Value).To(Equal("United States"))
	})
})

var _ = Describe("Coerce", func() {
	// Given an integer-typed column and a string value
	// When coerced
	// Then it parses to an int64
	It("coerces a numeric string to int64", func() {
		v, err := pushdown.Coerce("id", "42", pushdown.XSDInteger, "")
		Expect(err).NotTo(HaveOccurred())
		Expect(v).To(Equal(int64(42)))
	})

	// Given a non-numeric string for an integer column
	// When coerced
	// Then it fails with CoercionFailed
	It("fails to coerce a non-numeric string to int64", func() {
		_, err := pushdown.Coerce("id", "not-a-number", pushdown.XSDInteger, "")
		Expect(err).To(HaveOccurred())
	})
})
