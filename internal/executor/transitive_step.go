package executor

import (
	"context"

	"github.com/fluree/vg-engine/internal/models"
	"github.com/fluree/vg-engine/internal/routing"
	srvErrors "github.com/fluree/vg-engine/pkg/errors"
	"github.com/fluree/vg-engine/pkg/scheduler"
)

// TransitiveStepFn resolves one transitive pattern's predicate into a
// StepFn, closing over whatever routing/scan state the resolver needs.
// finalize calls it once per TransitiveSpec rather than per hop, since
// the predicate (and therefore the edge it traverses) is fixed for the
// whole BFS.
type TransitiveStepFn func(predicate string) (StepFn, error)

// NewTransitiveStep builds the TransitiveStepFn Finalize uses to
// evaluate transitive patterns (spec §4.6.5): predicate resolves to the
// JoinEdge the R2RML mapper derived from its RefObjectMap, and each hop
// issues one scan_rows call on the child table, filtered on the columns
// that identify the bound endpoint (the child's subject-template columns
// going forward, its FK columns going backward), like the main join's
// edge traversal (spec §4.6.1) except walked one table at a time instead
// of joined in bulk.
func NewTransitiveStep(ctx context.Context, sched *scheduler.Scheduler, src Source, idx *models.RoutingIndex, graph *models.JoinGraph, tt models.TimeTravel) TransitiveStepFn {
	return func(predicate string) (StepFn, error) {
		child, err := routing.ResolveByPredicate(idx, predicate)
		if err != nil {
			return nil, err
		}
		edge, ok := findEdgeByPredicate(graph, predicate)
		if !ok {
			return nil, srvErrors.NewMissingSourceError(predicate)
		}
		parent, ok := routing.MappingForTable(idx, edge.ParentTable)
		if !ok {
			return nil, srvErrors.NewMissingSourceError(edge.ParentTable)
		}

		return func(bound models.Term, forward bool) ([]models.Term, error) {
			if forward {
				return stepForward(ctx, sched, src, child, parent, edge, bound, tt)
			}
			return stepBackward(ctx, sched, src, child, parent, edge, bound, tt)
		}, nil
	}
}

func findEdgeByPredicate(graph *models.JoinGraph, predicate string) (models.JoinEdge, bool) {
	for _, e := range graph.Edges {
		if e.FKPredicate == predicate {
			return e, true
		}
	}
	return models.JoinEdge{}, false
}

// stepForward resolves (s, p, ?) given s bound: reverse child's subject
// template to find the child row, scan it to read the FK columns, and
// expand parent's subject template with those values to produce the
// reached object IRI(s) without a second scan.
func stepForward(ctx context.Context, sched *scheduler.Scheduler, src Source, child, parent *models.TriplesMapping, edge models.JoinEdge, bound models.Term, tt models.TimeTravel) ([]models.Term, error) {
	if !bound.IsIRI() {
		return nil, nil
	}
	key, ok := reverseTemplate(child.SubjectTemplate, bound.Value)
	if !ok {
		return nil, nil
	}

	rows, err := scanJoinColumns(ctx, sched, src, child.Table, templateColumns(child.SubjectTemplate), stringsToRow(key), edge.ChildColumns, tt)
	if err != nil {
		return nil, err
	}

	var out []models.Term
	for _, row := range rows {
		if !columnsBound(row, edge.ChildColumns) {
			continue
		}
		parentKey := zipColumns(edge.ParentColumns, edge.ChildColumns, row)
		iri, err := expandTemplate(parent.SubjectTemplate, parentKey)
		if err != nil {
			return nil, err
		}
		out = append(out, models.NewIRI(iri))
	}
	return out, nil
}

// stepBackward resolves (?, p, o) given o bound: reverse parent's
// subject template to find the parent's join-column values, scan the
// child table for rows whose FK columns match, and expand child's
// subject template for each to produce the reached subject IRI(s).
func stepBackward(ctx context.Context, sched *scheduler.Scheduler, src Source, child, parent *models.TriplesMapping, edge models.JoinEdge, bound models.Term, tt models.TimeTravel) ([]models.Term, error) {
	if !bound.IsIRI() {
		return nil, nil
	}
	parentKey, ok := reverseTemplate(parent.SubjectTemplate, bound.Value)
	if !ok {
		return nil, nil
	}
	childKey := zipColumns(edge.ChildColumns, edge.ParentColumns, stringsToRow(parentKey))

	rows, err := scanJoinColumns(ctx, sched, src, child.Table, edge.ChildColumns, childKey, templateColumns(child.SubjectTemplate), tt)
	if err != nil {
		return nil, err
	}

	var out []models.Term
	for _, row := range rows {
		iri, err := expandTemplate(child.SubjectTemplate, row)
		if err != nil {
			return nil, err
		}
		out = append(out, models.NewIRI(iri))
	}
	return out, nil
}

// zipColumns maps row's values at fromCols (positionally aligned with
// toCols) into a new Row keyed by toCols — e.g. translating a child
// row's FK column values into the parent's join-column names.
func zipColumns(toCols, fromCols []string, row Row) Row {
	out := make(Row, len(toCols))
	for i, to := range toCols {
		if i >= len(fromCols) {
			break
		}
		if v, ok := row[fromCols[i]]; ok {
			out[to] = v
		}
	}
	return out
}

func stringsToRow(m map[string]string) Row {
	out := make(Row, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// columnsBound reports whether every column in cols is present in row
// and holds a non-null, non-empty value — a NULL/empty FK column (no
// manager, no parent) means there is no hop to take, not a hop to an
// empty-string subject IRI.
func columnsBound(row Row, cols []string) bool {
	for _, c := range cols {
		v, ok := row[c]
		if !ok || v == nil {
			return false
		}
		if s, isStr := v.(string); isStr && s == "" {
			return false
		}
	}
	return true
}

// scanJoinColumns scans table for the row(s) whose keyCols equal key's
// values, additionally projecting projectCols so the caller can read the
// join/template columns it needs out of the result.
func scanJoinColumns(ctx context.Context, sched *scheduler.Scheduler, src Source, table string, keyCols []string, key Row, projectCols []string, tt models.TimeTravel) ([]Row, error) {
	columnSet := map[string]bool{}
	for _, c := range keyCols {
		columnSet[c] = true
	}
	for _, c := range projectCols {
		columnSet[c] = true
	}
	columns := make([]string, 0, len(columnSet))
	for c := range columnSet {
		columns = append(columns, c)
	}

	var predicates []models.PushdownPredicate
	for _, c := range keyCols {
		v, ok := key[c]
		if !ok {
			continue
		}
		predicates = append(predicates, models.PushdownPredicate{Column: c, Op: models.OpEq, Value: v})
	}

	proj := GroupProjection{Table: table, Columns: columns, Predicates: predicates}
	return ScanRows(ctx, sched, src, proj, tt)
}
