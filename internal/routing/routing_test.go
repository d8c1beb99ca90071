package routing_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/fluree/vg-engine/internal/models"
	"github.com/fluree/vg-engine/internal/routing"
	srvErrors "github.com/fluree/vg-engine/pkg/errors"
)

func TestRouting(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Routing Suite")
}

const exName = "http://example.org/ns#name"
const exEmployer = "http://example.org/ns#employer"
const exPerson = "http://example.org/ns#Person"

func personMapping() *models.TriplesMapping {
	return &models.TriplesMapping{
		TriplesMapIRI:   "#PersonMap",
		Table:           "persons",
		SubjectTemplate: "http://example.org/person/{id}",
		Class:           exPerson,
		Predicates: map[string]models.ObjectMap{
			exName: {Kind: models.ObjectMapColumn, Column: "name"},
			exEmployer: {Kind: models.ObjectMapRefObject, RefObjectMap: &models.RefObjectMap{
				ParentTriplesMapIRI: "#CompanyMap",
				JoinConditions:      []models.JoinCondition{{Child: "company_id", Parent: "id"}},
			}},
		},
	}
}

func companyMapping() *models.TriplesMapping {
	return &models.TriplesMapping{
		TriplesMapIRI:   "#CompanyMap",
		Table:           "companies",
		SubjectTemplate: "http://example.org/company/{id}",
	}
}

var _ = Describe("Build", func() {
	// Given two TriplesMappings linked by a JoinEdge
	// When the routing index and join graph are built
	// Then the index resolves class and predicate lookups, and the graph
	// exposes the edge from both sides
	It("indexes mappings and wires the join graph", func() {
		mappings := map[string]*models.TriplesMapping{
			"persons":   personMapping(),
			"companies": companyMapping(),
		}
		edges := []models.JoinEdge{{
			ChildTable: "persons", ParentTable: "companies",
			ChildColumns: []string{"company_id"}, ParentColumns: []string{"id"},
			FKPredicate: exEmployer,
		}}

		idx, graph := routing.Build(mappings, edges)

		tm, err := routing.ResolveByClass(idx, exPerson)
		Expect(err).NotTo(HaveOccurred())
		Expect(tm.Table).To(Equal("persons"))

		tm, err = routing.ResolveByPredicate(idx, exName)
		Expect(err).NotTo(HaveOccurred())
		Expect(tm.Table).To(Equal("persons"))

		Expect(graph.HasJoinEdges()).To(BeTrue())
		Expect(graph.EdgesBetween("persons", "companies")).To(HaveLen(1))
	})

	// Given a predicate bound by two TriplesMappings
	// When it is resolved
	// Then an AmbiguousRoutingError is returned instead of picking one
	It("treats multiple routing matches as an error", func() {
		dup := personMapping()
		dup.TriplesMapIRI = "#OtherPersonMap"
		dup.Table = "other_persons"

		mappings := map[string]*models.TriplesMapping{
			"persons":       personMapping(),
			"other_persons": dup,
		}
		idx, _ := routing.Build(mappings, nil)

		_, err := routing.ResolveByPredicate(idx, exName)
		Expect(err).To(HaveOccurred())

		var ambiguous *srvErrors.AmbiguousRoutingError
		Expect(err).To(BeAssignableToTypeOf(ambiguous))
	})
})

var _ = Describe("GroupByTable", func() {
	// Given two patterns whose predicates (name, employer) both belong to
	// the persons mapping
	// When grouped
	// Then they land together in a single persons group
	It("groups patterns by resolved table", func() {
		mappings := map[string]*models.TriplesMapping{
			"persons":   personMapping(),
			"companies": companyMapping(),
		}
		idx, _ := routing.Build(mappings, nil)

		patterns := []models.Pattern{
			{Subject: models.NewVariable("p"), Predicate: models.NewIRI(exName), Object: models.NewVariable("n")},
			{Subject: models.NewVariable("p"), Predicate: models.NewIRI(exEmployer), Object: models.NewVariable("c")},
		}

		groups, err := routing.GroupByTable(idx, patterns)
		Expect(err).NotTo(HaveOccurred())
		Expect(groups).To(HaveLen(1))
		Expect(groups[0].Table).To(Equal("persons"))
		Expect(groups[0].Patterns).To(HaveLen(2))
	})
})
