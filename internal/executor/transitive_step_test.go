package executor_test

import (
	"context"
	"fmt"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/fluree/vg-engine/internal/executor"
	"github.com/fluree/vg-engine/internal/models"
	"github.com/fluree/vg-engine/internal/routing"
	"github.com/fluree/vg-engine/pkg/scheduler"
)

// filteringSource is a Source test double that, unlike fakeSource,
// actually applies equality pushdown predicates — this package's
// transitive-step resolver depends on the Source doing that filtering,
// so a double that ignores predicates can't exercise it correctly.
type filteringSource struct {
	tables map[string][]executor.Row
}

func (s *filteringSource) ScanRows(ctx context.Context, table string, opts executor.ScanOptions) (executor.RowIterator, error) {
	var rows []executor.Row
	for _, row := range s.tables[table] {
		if rowMatches(row, opts.Predicates) {
			rows = append(rows, row)
		}
	}
	return &sliceRowIterator{rows: rows}, nil
}

func rowMatches(row executor.Row, predicates []models.PushdownPredicate) bool {
	for _, p := range predicates {
		if p.Op != models.OpEq {
			continue
		}
		if fmt.Sprint(row[p.Column]) != fmt.Sprint(p.Value) {
			return false
		}
	}
	return true
}

func (s *filteringSource) ScanArrowBatches(ctx context.Context, table string, opts executor.ScanOptions) (executor.ArrowBatchIterator, error) {
	return nil, nil
}

func (s *filteringSource) GetSchema(ctx context.Context, table string, opts executor.ScanOptions) (executor.TableSchema, error) {
	return executor.TableSchema{}, nil
}

func (s *filteringSource) GetStatistics(ctx context.Context, table string, opts executor.ScanOptions) (executor.Statistics, error) {
	return executor.Statistics{RowCount: int64(len(s.tables[table]))}, nil
}

func (s *filteringSource) SupportedPredicates() map[models.PushdownOp]bool {
	return map[models.PushdownOp]bool{models.OpEq: true}
}

const exReportsTo = "http://example.org/ns#reportsTo"

func employeeMapping() *models.TriplesMapping {
	return &models.TriplesMapping{
		TriplesMapIRI:   "#Employee",
		Table:           "employees",
		SubjectTemplate: "http://example.org/person/{id}",
		Predicates: map[string]models.ObjectMap{
			exReportsTo: {Kind: models.ObjectMapRefObject, RefObjectMap: &models.RefObjectMap{
				ParentTriplesMapIRI: "#Employee",
				JoinConditions:      []models.JoinCondition{{Child: "manager_id", Parent: "id"}},
			}},
		},
	}
}

var _ = Describe("NewTransitiveStep", func() {
	// Given a self-referencing employees table (Carol -[manager_id]-> Bob
	// -[manager_id]-> Alice) and an outer solution bound to Carol
	// When evaluated as a one-or-more reportsTo path
	// Then BFS reaches both Bob and Alice by walking the FK edge one scan
	// per hop, exactly as the row-based join would for an ordinary edge
	It("walks a self-join FK chain across multiple hops", func() {
		mappings := map[string]*models.TriplesMapping{"employees": employeeMapping()}
		edges := []models.JoinEdge{{
			ChildTable: "employees", ParentTable: "employees",
			ChildColumns: []string{"manager_id"}, ParentColumns: []string{"id"},
			FKPredicate: exReportsTo,
		}}
		idx, graph := routing.Build(mappings, edges)

		src := &filteringSource{tables: map[string][]executor.Row{
			"employees": {
				{"id": "1", "manager_id": ""},
				{"id": "2", "manager_id": "1"},
				{"id": "3", "manager_id": "2"},
			},
		}}

		sched := scheduler.NewScheduler(2)
		defer sched.Close()

		makeStep := executor.NewTransitiveStep(context.Background(), sched, src, idx, graph, models.TimeTravel{})

		solutions := []models.Solution{{"e": models.NewIRI("http://example.org/person/3")}}
		spec := models.TransitiveSpec{
			Subject:   models.NewVariable("e"),
			Object:    models.NewVariable("m"),
			Predicate: exReportsTo,
			OneOrMore: true,
		}

		out, err := executor.ApplyTransitives(solutions, []models.TransitiveSpec{spec}, makeStep)
		Expect(err).NotTo(HaveOccurred())

		var reached []string
		for _, sol := range out {
			reached = append(reached, sol["m"].Value)
		}
		Expect(reached).To(ConsistOf(
			"http://example.org/person/1",
			"http://example.org/person/2",
		))
	})

	// Given an outer solution bound to an employee with no manager
	// When evaluated as a zero-or-more path
	// Then the only result is the zero-step identity binding, per the
	// disconnected-pair boundary case
	It("emits exactly the zero-step binding for a disconnected pair", func() {
		mappings := map[string]*models.TriplesMapping{"employees": employeeMapping()}
		edges := []models.JoinEdge{{
			ChildTable: "employees", ParentTable: "employees",
			ChildColumns: []string{"manager_id"}, ParentColumns: []string{"id"},
			FKPredicate: exReportsTo,
		}}
		idx, graph := routing.Build(mappings, edges)

		src := &filteringSource{tables: map[string][]executor.Row{
			"employees": {
				{"id": "1", "manager_id": ""},
			},
		}}

		sched := scheduler.NewScheduler(2)
		defer sched.Close()

		makeStep := executor.NewTransitiveStep(context.Background(), sched, src, idx, graph, models.TimeTravel{})

		solutions := []models.Solution{{"e": models.NewIRI("http://example.org/person/1")}}
		spec := models.TransitiveSpec{
			Subject:   models.NewVariable("e"),
			Object:    models.NewVariable("m"),
			Predicate: exReportsTo,
			ZeroPlus:  true,
		}

		out, err := executor.ApplyTransitives(solutions, []models.TransitiveSpec{spec}, makeStep)
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(HaveLen(1))
		Expect(out[0]["m"].Value).To(Equal("http://example.org/person/1"))
	})
})
