package executor

import (
	"context"

	"github.com/fluree/vg-engine/internal/models"
	"github.com/fluree/vg-engine/internal/routing"
	srvErrors "github.com/fluree/vg-engine/pkg/errors"
	"github.com/fluree/vg-engine/pkg/scheduler"
)

// GroupProjection is the column/predicate projection one table group
// needs scanned (spec §4.6.1 steps 2-5: template columns, join-edge
// columns, predicate bindings, pushdown predicates), plus the
// subject-template/predicate-column bindings MaterializeRow needs to
// turn a scanned row into a partial Solution.
//
// Exported so the columnar executor can drive the identical projection
// through scan_arrow_batches instead of scan_rows, rather than
// re-deriving its own copy of the R2RML-to-column resolution.
type GroupProjection struct {
	Table             string
	Columns           []string
	Predicates        []models.PushdownPredicate
	SubjectVar        string
	SubjectTemplate   string
	PredicateColumn   map[string]string // object variable -> column
	PredicateDatatype map[string]string // column -> rr:datatype, "" if untyped
}

// ProjectGroup computes g's GroupProjection against idx/graph.
func ProjectGroup(idx *models.RoutingIndex, graph *models.JoinGraph, g models.Group) (GroupProjection, error) {
	mapping, err := routing.TableFor(idx, g.Patterns[0])
	if err != nil {
		return GroupProjection{}, err
	}

	columnSet := map[string]bool{}
	for _, col := range templateColumns(mapping.SubjectTemplate) {
		columnSet[col] = true
	}
	for _, e := range graph.EdgesForTable(g.Table) {
		if e.ChildTable == g.Table {
			for _, c := range e.ChildColumns {
				columnSet[c] = true
			}
		}
		if e.ParentTable == g.Table {
			for _, c := range e.ParentColumns {
				columnSet[c] = true
			}
		}
	}

	predicateColumn := map[string]string{}
	predicateDatatype := map[string]string{}
	var predicates []models.PushdownPredicate

	for _, p := range g.Patterns {
		if p.Predicate.IsIRI() && p.Predicate.Value == rdfType {
			continue
		}
		col, ok := mapping.ColumnFor(p.Predicate.Value)
		if !ok {
			continue
		}
		columnSet[col] = true
		if p.Object.IsVariable() {
			predicateColumn[p.Object.Variable] = col
			if om, found := mapping.Predicates[p.Predicate.Value]; found {
				predicateDatatype[col] = om.Datatype
			}
		} else if p.Object.IsBound() {
			predicates = append(predicates, models.PushdownPredicate{Column: col, Op: models.OpEq, Value: p.Object.Value})
		}
		if p.Pushdown != nil {
			predicates = append(predicates, p.Pushdown.Predicates...)
		}
	}

	columns := make([]string, 0, len(columnSet))
	for c := range columnSet {
		columns = append(columns, c)
	}

	return GroupProjection{
		Table:             mapping.Table,
		Columns:           columns,
		Predicates:        predicates,
		SubjectVar:        g.Patterns[0].Subject.Variable,
		SubjectTemplate:   mapping.SubjectTemplate,
		PredicateColumn:   predicateColumn,
		PredicateDatatype: predicateDatatype,
	}, nil
}

// ScanRows issues p's projected scan_rows call and drains it into a
// slice (spec §4.6.1 steps 2-6, minus materialization). Used by the row
// executor, and by the columnar executor's scan_arrow_batches fallback
// when a Source cannot produce Arrow batches directly (spec §4.5
// ScanArrowBatches doc: "columnar executor must fall back to row-maps").
func ScanRows(ctx context.Context, sched *scheduler.Scheduler, src Source, p GroupProjection, tt models.TimeTravel) ([]Row, error) {
	opts := ScanOptions{Columns: p.Columns, Predicates: p.Predicates}
	ApplyTimeTravel(&opts, tt)

	future := sched.AddWork(func(ctx context.Context) (any, error) {
		return src.ScanRows(ctx, p.Table, opts)
	})
	res := <-future.C()
	if res.Err != nil {
		return nil, srvErrors.NewScanIOError(p.Table, res.Err)
	}
	iter := res.Data.(RowIterator)
	defer iter.Close()

	var out []Row
	for {
		row, ok, err := iter.Next(ctx)
		if err != nil {
			return nil, srvErrors.NewScanIOError(p.Table, err)
		}
		if !ok {
			break
		}
		out = append(out, row)
	}
	return out, nil
}

// MaterializeRow turns one scanned row into the partial Solution p
// describes (spec §4.6.1 step 6: subject IRI from the template, each
// bound predicate's object coerced via its datatype hint).
func MaterializeRow(p GroupProjection, row Row) (models.Solution, error) {
	subjectIRI, err := expandTemplate(p.SubjectTemplate, row)
	if err != nil {
		return nil, err
	}

	sol := models.Solution{p.SubjectVar: models.NewIRI(subjectIRI)}
	for variable, col := range p.PredicateColumn {
		sol[variable] = termFromColumn(row[col], p.PredicateDatatype[col])
	}
	return sol, nil
}
