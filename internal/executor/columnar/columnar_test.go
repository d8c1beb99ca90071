package columnar_test

import (
	"context"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/fluree/vg-engine/internal/executor"
	"github.com/fluree/vg-engine/internal/executor/columnar"
	"github.com/fluree/vg-engine/internal/models"
	"github.com/fluree/vg-engine/internal/routing"
	"github.com/fluree/vg-engine/pkg/scheduler"
)

func TestColumnar(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Columnar Executor Suite")
}

const (
	exAirline     = "http://example.org/ns#Airline"
	exFlight      = "http://example.org/ns#Flight"
	exAirlinePred = "http://example.org/ns#airline"
	exName        = "http://example.org/ns#name"
	rdfTypeIRI    = "http://www.w3.org/1999/02/22-rdf-syntax-ns#type"
)

// sliceRowIterator and fakeSource mirror internal/executor's own test
// doubles (unexported there, so re-declared here); ScanArrowBatches
// returns nil, nil to exercise ScanOp's documented scan_rows fallback,
// the only path any Source in this repo currently takes.
type sliceRowIterator struct {
	rows []executor.Row
	pos  int
}

func (it *sliceRowIterator) Next(ctx context.Context) (executor.Row, bool, error) {
	if it.pos >= len(it.rows) {
		return nil, false, nil
	}
	row := it.rows[it.pos]
	it.pos++
	return row, true, nil
}

func (it *sliceRowIterator) Close() error { return nil }

type fakeSource struct {
	tables map[string][]executor.Row
}

func (s *fakeSource) ScanRows(ctx context.Context, table string, opts executor.ScanOptions) (executor.RowIterator, error) {
	return &sliceRowIterator{rows: s.tables[table]}, nil
}

func (s *fakeSource) ScanArrowBatches(ctx context.Context, table string, opts executor.ScanOptions) (executor.ArrowBatchIterator, error) {
	return nil, nil
}

func (s *fakeSource) GetSchema(ctx context.Context, table string, opts executor.ScanOptions) (executor.TableSchema, error) {
	return executor.TableSchema{}, nil
}

func (s *fakeSource) GetStatistics(ctx context.Context, table string, opts executor.ScanOptions) (executor.Statistics, error) {
	return executor.Statistics{RowCount: int64(len(s.tables[table]))}, nil
}

func (s *fakeSource) SupportedPredicates() map[models.PushdownOp]bool {
	return map[models.PushdownOp]bool{models.OpEq: true}
}

func airlineMapping() *models.TriplesMapping {
	return &models.TriplesMapping{
		TriplesMapIRI:   "#Airline",
		Table:           "airlines",
		SubjectTemplate: "http://example.org/airline/{id}",
		Class:           exAirline,
		Predicates: map[string]models.ObjectMap{
			exName: {Kind: models.ObjectMapColumn, Column: "name"},
		},
	}
}

func flightMapping() *models.TriplesMapping {
	return &models.TriplesMapping{
		TriplesMapIRI:   "#Flight",
		Table:           "flights",
		SubjectTemplate: "http://example.org/flight/{id}",
		Class:           exFlight,
		Predicates: map[string]models.ObjectMap{
			exAirlinePred: {Kind: models.ObjectMapRefObject, RefObjectMap: &models.RefObjectMap{
				ParentTriplesMapIRI: "#Airline",
				JoinConditions:      []models.JoinCondition{{Child: "airline_id", Parent: "id"}},
			}},
		},
	}
}

var _ = Describe("columnar.Execute", func() {
	// Given the same FK-joined flights/airlines fixture row.Execute's own
	// suite exercises
	// When run through the columnar path instead
	// Then it produces the identical solution, proving the two executors
	// are semantically equivalent on a traversed-edge join.
	It("joins two tables across a traversed FK edge", func() {
		mappings := map[string]*models.TriplesMapping{
			"airlines": airlineMapping(),
			"flights":  flightMapping(),
		}
		edges := []models.JoinEdge{{
			ChildTable: "flights", ParentTable: "airlines",
			ChildColumns: []string{"airline_id"}, ParentColumns: []string{"id"},
			FKPredicate: exAirlinePred,
		}}
		idx, graph := routing.Build(mappings, edges)

		src := &fakeSource{tables: map[string][]executor.Row{
			"flights": {
				{"id": "1", "airline_id": "100"},
				{"id": "2", "airline_id": "200"},
			},
			"airlines": {
				{"id": "100", "name": "Acme Air"},
			},
		}}

		patterns := []models.Pattern{
			{Subject: models.NewVariable("f"), Predicate: models.NewIRI(rdfTypeIRI), Object: models.NewIRI(exFlight)},
			{Subject: models.NewVariable("f"), Predicate: models.NewIRI(exAirlinePred), Object: models.NewVariable("a")},
			{Subject: models.NewVariable("a"), Predicate: models.NewIRI(rdfTypeIRI), Object: models.NewIRI(exAirline)},
			{Subject: models.NewVariable("a"), Predicate: models.NewIRI(exName), Object: models.NewVariable("name")},
		}

		sched := scheduler.NewScheduler(2)
		defer sched.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()

		out, errc := columnar.Execute(ctx, sched, src, idx, graph, patterns, models.TimeTravel{}, nil)

		var solutions []models.Solution
		for sol := range out {
			solutions = append(solutions, sol)
		}
		Expect(<-errc).NotTo(HaveOccurred())

		Expect(solutions).To(HaveLen(1))
		Expect(solutions[0]["name"].Value).To(Equal("Acme Air"))
		Expect(solutions[0]["f"].Value).To(Equal("http://example.org/flight/1"))
	})

	// Given two tables that share no FK join edge (flights' own join is
	// dropped from the fixture)
	// When run through the columnar path
	// Then every compatible pair across the two tables' scans is merged
	// via the nested-loop fallback, bounded by the cartesian cap.
	It("falls back to a capped nested-loop join when no edge is traversed", func() {
		mappings := map[string]*models.TriplesMapping{
			"airlines": airlineMapping(),
			"flights": {
				TriplesMapIRI:   "#Flight",
				Table:           "flights",
				SubjectTemplate: "http://example.org/flight/{id}",
				Class:           exFlight,
				Predicates:      map[string]models.ObjectMap{},
			},
		}
		idx, graph := routing.Build(mappings, nil)

		src := &fakeSource{tables: map[string][]executor.Row{
			"airlines": {
				{"id": "100", "name": "Acme Air"},
				{"id": "200", "name": "Globex Air"},
			},
			"flights": {
				{"id": "1"},
			},
		}}

		patterns := []models.Pattern{
			{Subject: models.NewVariable("a"), Predicate: models.NewIRI(rdfTypeIRI), Object: models.NewIRI(exAirline)},
			{Subject: models.NewVariable("a"), Predicate: models.NewIRI(exName), Object: models.NewVariable("name")},
			{Subject: models.NewVariable("f"), Predicate: models.NewIRI(rdfTypeIRI), Object: models.NewIRI(exFlight)},
		}

		sched := scheduler.NewScheduler(2)
		defer sched.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()

		cap := 10
		out, errc := columnar.Execute(ctx, sched, src, idx, graph, patterns, models.TimeTravel{}, &cap)

		var solutions []models.Solution
		for sol := range out {
			solutions = append(solutions, sol)
		}
		Expect(<-errc).NotTo(HaveOccurred())
		Expect(solutions).To(HaveLen(2))
	})
})
