package executor_test

import (
	"context"

	"github.com/fluree/vg-engine/internal/executor"
	"github.com/fluree/vg-engine/internal/models"
)

// sliceRowIterator is the in-memory RowIterator test double used across
// this package's test files.
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

// fakeSource is a Source test double backed by an in-memory table map;
// it ignores pushdown predicates (tests assert row-level outcomes, not
// predicate translation, which pkg-level pushdown tests already cover).
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
