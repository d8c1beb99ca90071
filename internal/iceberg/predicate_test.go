package iceberg_test

import (
	"testing"

	sq "github.com/Masterminds/squirrel"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/fluree/vg-engine/internal/iceberg"
	"github.com/fluree/vg-engine/internal/models"
)

func TestIceberg(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "iceberg suite")
}

var _ = Describe("ApplyPredicates", func() {
	It("translates a simple equality predicate", func() {
		builder := sq.Select("*").From("airlines")
		builder, err := iceberg.ApplyPredicates(builder, []models.PushdownPredicate{
			{Column: "country", Op: models.OpEq, Value: "US"},
		})
		Expect(err).NotTo(HaveOccurred())

		query, args, err := builder.ToSql()
		Expect(err).NotTo(HaveOccurred())
		Expect(query).To(ContainSubstring(`"country" = ?`))
		Expect(args).To(ConsistOf("US"))
	})

	It("collapses a single-value in predicate to equality", func() {
		builder := sq.Select("*").From("airlines")
		builder, err := iceberg.ApplyPredicates(builder, []models.PushdownPredicate{
			{Column: "id", Op: models.OpIn, Value: []any{100}},
		})
		Expect(err).NotTo(HaveOccurred())

		query, args, err := builder.ToSql()
		Expect(err).NotTo(HaveOccurred())
		Expect(query).To(ContainSubstring(`"id" = ?`))
		Expect(args).To(ConsistOf(100))
	})

	It("combines AND predicates", func() {
		builder := sq.Select("*").From("flights")
		builder, err := iceberg.ApplyPredicates(builder, []models.PushdownPredicate{
			{
				Op: models.OpAnd,
				Predicates: []models.PushdownPredicate{
					{Column: "status", Op: models.OpEq, Value: "active"},
					{Column: "seats", Op: models.OpGt, Value: 0},
				},
			},
		})
		Expect(err).NotTo(HaveOccurred())

		query, args, err := builder.ToSql()
		Expect(err).NotTo(HaveOccurred())
		Expect(query).To(ContainSubstring(`"status" = ?`))
		Expect(query).To(ContainSubstring(`"seats" > ?`))
		Expect(args).To(ConsistOf("active", 0))
	})

	It("rejects a malformed between predicate", func() {
		builder := sq.Select("*").From("flights")
		_, err := iceberg.ApplyPredicates(builder, []models.PushdownPredicate{
			{Column: "seats", Op: models.OpBetween, Value: []any{1}},
		})
		Expect(err).To(HaveOccurred())
	})
})
