package executor

import (
	"context"
	"fmt"
	"strings"

	"github.com/fluree/vg-engine/internal/models"
	"github.com/fluree/vg-engine/internal/routing"
	srvErrors "github.com/fluree/vg-engine/pkg/errors"
	"github.com/fluree/vg-engine/pkg/scheduler"
)

const rdfType = "http://www.w3.org/1999/02/22-rdf-syntax-ns#type"

// defaultCartesianCap is the spec §4.6.1 "configurable cap (default
// 100,000)" fallback when a QueryContext carries no override.
const defaultCartesianCap = 100000

// joinedRow carries a materialized Solution alongside the raw column
// rows that produced it, keyed by table, so a later join in the
// left-to-right reduction can still key on a table's FK/PK columns even
// after it has already been merged into the accumulated state.
type joinedRow struct {
	sol  models.Solution
	rows map[string]Row
}

// Execute runs the row-based hash join (spec §4.6.1): it groups patterns
// by target table, scans each group through src, and reduces left to
// right across the groups, joining along a traversed FK edge (keyed on
// the edge's raw parent/child columns) when one applies, and falling
// back to a capped Cartesian merge otherwise.
//
// Scans are dispatched onto sched so blocking Iceberg I/O never runs on
// the caller's goroutine (spec §4.6.7). The output channel has capacity 1
// to match the spec's default backpressure setting.
func Execute(ctx context.Context, sched *scheduler.Scheduler, src Source, idx *models.RoutingIndex, graph *models.JoinGraph, patterns []models.Pattern, tt models.TimeTravel, cartesianCap *int) (<-chan models.Solution, <-chan error) {
	out := make(chan models.Solution, 1)
	errc := make(chan error, 1)

	capLimit := defaultCartesianCap
	if cartesianCap != nil {
		capLimit = *cartesianCap
	}

	go func() {
		defer close(out)
		defer close(errc)

		groups, err := routing.GroupByTable(idx, patterns)
		if err != nil {
			errc <- err
			return
		}
		if len(groups) == 0 {
			return
		}

		groupsByTable := make(map[string]models.Group, len(groups))
		for _, g := range groups {
			groupsByTable[g.Table] = g
		}

		var accumulated []joinedRow
		var joinedTables []string

		for i, g := range groups {
			rows, err := scanGroup(ctx, sched, src, idx, graph, g, tt)
			if err != nil {
				errc <- err
				return
			}

			if i == 0 {
				accumulated = rows
				joinedTables = []string{g.Table}
				continue
			}

			if edge, fromTable, ok := FindJoinEdge(graph, groupsByTable, joinedTables, g.Table); ok {
				accumulated = edgeJoin(accumulated, rows, *edge, fromTable, g.Table)
			} else {
				accumulated, err = cartesianJoin(accumulated, rows, capLimit, append(append([]string{}, joinedTables...), g.Table))
				if err != nil {
					errc <- err
					return
				}
			}
			joinedTables = append(joinedTables, g.Table)
		}

		for _, jr := range accumulated {
			select {
			case out <- jr.sol:
			case <-ctx.Done():
				errc <- srvErrors.NewCancelledError("row-executor")
				return
			}
		}
	}()

	return out, errc
}

// scanGroup issues a single scan_rows call for one table group (spec
// §4.6.1 steps 2-6), reusing the projection ProjectGroup computes so the
// columnar executor can drive the identical projection through
// scan_arrow_batches instead.
func scanGroup(ctx context.Context, sched *scheduler.Scheduler, src Source, idx *models.RoutingIndex, graph *models.JoinGraph, g models.Group, tt models.TimeTravel) ([]joinedRow, error) {
	proj, err := ProjectGroup(idx, graph, g)
	if err != nil {
		return nil, err
	}

	rows, err := ScanRows(ctx, sched, src, proj, tt)
	if err != nil {
		return nil, err
	}

	out := make([]joinedRow, 0, len(rows))
	for _, row := range rows {
		sol, err := MaterializeRow(proj, row)
		if err != nil {
			return nil, srvErrors.NewScanIOError(proj.Table, err)
		}
		out = append(out, joinedRow{sol: sol, rows: map[string]Row{g.Table: row}})
	}
	return out, nil
}

// ApplyTimeTravel copies a resolved TimeTravel selection onto a scan's
// options; shared by the row and columnar executors.
func ApplyTimeTravel(opts *ScanOptions, tt models.TimeTravel) {
	if tt.HasSnapshot {
		id := tt.SnapshotID
		opts.SnapshotID = &id
	}
	if tt.HasAsOf {
		t := tt.AsOfTime
		opts.AsOfTime = &t
	}
}

// FindJoinEdge implements the spec §4.6.1 "traversed" test: an edge
// between an already-joined table and the next group's table is
// traversed iff the query uses the edge's FK predicate AND the pattern's
// object variable equals the subject variable of a pattern in the parent
// table. Returns the edge and which already-joined table it connects
// from.
func FindJoinEdge(graph *models.JoinGraph, groupsByTable map[string]models.Group, joinedTables []string, nextTable string) (*models.JoinEdge, string, bool) {
	for _, t := range joinedTables {
		for _, e := range graph.EdgesBetween(t, nextTable) {
			childGroup, ok1 := groupsByTable[e.ChildTable]
			parentGroup, ok2 := groupsByTable[e.ParentTable]
			if !ok1 || !ok2 {
				continue
			}
			for _, cp := range childGroup.Patterns {
				if !cp.Predicate.IsIRI() || cp.Predicate.Value != e.FKPredicate || !cp.Object.IsVariable() {
					continue
				}
				for _, pp := range parentGroup.Patterns {
					if pp.Subject.IsVariable() && pp.Subject.Variable == cp.Object.Variable {
						edge := e
						return &edge, t, true
					}
				}
			}
		}
	}
	return nil, "", false
}

// edgeJoin hash-joins the accumulated state against a newly scanned
// table's rows, keying on edge's raw parent/child columns rather than any
// RDF-term binding — the FK predicate's object variable is only ever
// bound by the parent table's own subject materialization, so a
// Solution-level key would see it on one side only (spec §4.6.1 "run
// hash join with ... keys = edge's parent-columns / child-columns").
func edgeJoin(accumulated []joinedRow, incoming []joinedRow, edge models.JoinEdge, fromTable, newTable string) []joinedRow {
	var accCols, newCols []string
	if fromTable == edge.ChildTable {
		accCols = edge.ChildColumns
	} else {
		accCols = edge.ParentColumns
	}
	if newTable == edge.ChildTable {
		newCols = edge.ChildColumns
	} else {
		newCols = edge.ParentColumns
	}

	build := map[string][]joinedRow{}
	for _, jr := range accumulated {
		key := rowKey(jr.rows[fromTable], accCols)
		build[key] = append(build[key], jr)
	}

	var out []joinedRow
	for _, jr := range incoming {
		key := rowKey(jr.rows[newTable], newCols)
		for _, a := range build[key] {
			merged, ok := a.sol.Merge(jr.sol)
			if !ok {
				continue
			}
			out = append(out, joinedRow{sol: merged, rows: mergeRowMaps(a.rows, jr.rows)})
		}
	}
	return out
}

// cartesianJoin is the spec §4.6.1 fallback when no traversed edge
// applies: every pair is compatible-merged (SPARQL semantics), bounded by
// cap.
func cartesianJoin(left, right []joinedRow, cap int, tables []string) ([]joinedRow, error) {
	size := len(left) * len(right)
	if cap > 0 && size > cap {
		return nil, srvErrors.NewCartesianProductTooLargeError(tables, []int{len(left), len(right)}, cap)
	}
	out := make([]joinedRow, 0, size)
	for _, l := range left {
		for _, r := range right {
			if merged, ok := l.sol.Merge(r.sol); ok {
				out = append(out, joinedRow{sol: merged, rows: mergeRowMaps(l.rows, r.rows)})
			}
		}
	}
	return out, nil
}

func rowKey(row Row, cols []string) string {
	var b strings.Builder
	for _, c := range cols {
		fmt.Fprintf(&b, "%v;", row[c])
	}
	return b.String()
}

func mergeRowMaps(a, b map[string]Row) map[string]Row {
	out := make(map[string]Row, len(a)+len(b))
	for k, v := range a {
		out[k] = v
	}
	for k, v := range b {
		out[k] = v
	}
	return out
}
