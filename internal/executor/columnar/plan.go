package columnar

import (
	"context"
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"

	"github.com/fluree/vg-engine/internal/executor"
	"github.com/fluree/vg-engine/internal/models"
	"github.com/fluree/vg-engine/internal/routing"
	srvErrors "github.com/fluree/vg-engine/pkg/errors"
	"github.com/fluree/vg-engine/pkg/scheduler"
)

const defaultCartesianCap = 100000

// tableBatch is one node of the columnar plan tree: a single Arrow
// record whose fields are "table.column"-prefixed, plus enough metadata
// about every table it already carries to materialize a Solution for
// any of its rows on demand (spec §4.6.2: "root of the plan tree
// converts final batches to row maps then SPARQL solutions" — the same
// conversion is used mid-plan here to compatibility-test a join).
type tableBatch struct {
	record         arrow.Record
	columnsByTable map[string][]string
	projByTable    map[string]executor.GroupProjection
}

func (tb *tableBatch) release() { tb.record.Release() }

// solutionAt materializes the full Solution a joined batch's row
// carries, by materializing each contributing table's own columns and
// merging them — the columnar equivalent of joinedRow.sol once more than
// one table has been folded in.
func solutionAt(tb *tableBatch, row int) (models.Solution, error) {
	sol := models.Solution{}
	for table, cols := range tb.columnsByTable {
		proj := tb.projByTable[table]
		r := rowAt(tb.record, table, cols, row)
		partial, err := executor.MaterializeRow(proj, r)
		if err != nil {
			return nil, err
		}
		merged, ok := sol.Merge(partial)
		if !ok {
			return nil, fmt.Errorf("columnar executor: incompatible bindings within one joined batch (table %s)", table)
		}
		sol = merged
	}
	return sol, nil
}

func mergeBatches(a, b *tableBatch, out arrow.Record) *tableBatch {
	cols := make(map[string][]string, len(a.columnsByTable)+len(b.columnsByTable))
	proj := make(map[string]executor.GroupProjection, len(a.projByTable)+len(b.projByTable))
	for t, c := range a.columnsByTable {
		cols[t] = c
	}
	for t, c := range b.columnsByTable {
		cols[t] = c
	}
	for t, p := range a.projByTable {
		proj[t] = p
	}
	for t, p := range b.projByTable {
		proj[t] = p
	}
	a.release()
	b.release()
	return &tableBatch{record: out, columnsByTable: cols, projByTable: proj}
}

// Execute runs the columnar hash join (spec §4.6.2): the same
// group-by-table / traversed-edge reduction row.Execute performs, but
// every intermediate state is an Arrow record instead of a slice of
// joined rows. The final Solutions are emitted at the root; the joins
// build per-row solutions along the way only to check merge
// compatibility.
func Execute(ctx context.Context, sched *scheduler.Scheduler, src executor.Source, idx *models.RoutingIndex, graph *models.JoinGraph, patterns []models.Pattern, tt models.TimeTravel, cartesianCap *int) (<-chan models.Solution, <-chan error) {
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

		var accumulated *tableBatch
		var joinedTables []string

		for i, g := range groups {
			tb, err := scanGroup(ctx, sched, src, idx, graph, g, tt)
			if err != nil {
				errc <- err
				return
			}

			if i == 0 {
				accumulated = tb
				joinedTables = []string{g.Table}
				continue
			}

			if edge, fromTable, ok := executor.FindJoinEdge(graph, groupsByTable, joinedTables, g.Table); ok {
				accumulated, err = HashJoinOp(accumulated, tb, *edge, fromTable, g.Table)
			} else {
				accumulated, err = NestedLoopJoin(accumulated, tb, capLimit, append(append([]string{}, joinedTables...), g.Table))
			}
			if err != nil {
				errc <- err
				return
			}
			joinedTables = append(joinedTables, g.Table)
		}

		if accumulated == nil {
			return
		}
		defer accumulated.release()

		for row := 0; row < int(accumulated.record.NumRows()); row++ {
			sol, err := solutionAt(accumulated, row)
			if err != nil {
				errc <- err
				return
			}
			select {
			case out <- sol:
			case <-ctx.Done():
				errc <- srvErrors.NewCancelledError("columnar-executor")
				return
			}
		}
	}()

	return out, errc
}

// scanGroup runs ScanOp for one table group and wraps the resulting
// record into a single-table tableBatch with table-prefixed columns.
func scanGroup(ctx context.Context, sched *scheduler.Scheduler, src executor.Source, idx *models.RoutingIndex, graph *models.JoinGraph, g models.Group, tt models.TimeTravel) (*tableBatch, error) {
	proj, err := executor.ProjectGroup(idx, graph, g)
	if err != nil {
		return nil, err
	}

	rec, err := ScanOp(ctx, sched, src, proj, tt)
	if err != nil {
		return nil, err
	}

	prefixed := prefixRecord(g.Table, rec)
	rec.Release()

	return &tableBatch{
		record:         prefixed,
		columnsByTable: map[string][]string{g.Table: proj.Columns},
		projByTable:    map[string]executor.GroupProjection{g.Table: proj},
	}, nil
}
