package iceberg

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/fluree/vg-engine/internal/executor"
	"github.com/fluree/vg-engine/internal/models"
	srvErrors "github.com/fluree/vg-engine/pkg/errors"
)

// DuckDBSource is the Iceberg Source Adapter (spec §4.5) for a single
// registered virtual graph's warehouse. One instance serves every table
// an R2RML mapping routes to.
type DuckDBSource struct {
	alias string
	db    QueryInterceptor
}

// NewDuckDBSource returns a Source backed by db, identified by alias for
// InvalidTimeTravel error reporting (spec §6.2).
func NewDuckDBSource(alias string, db QueryInterceptor) *DuckDBSource {
	return &DuckDBSource{alias: alias, db: db}
}

func (s *DuckDBSource) ScanRows(ctx context.Context, table string, opts executor.ScanOptions) (executor.RowIterator, error) {
	builder := sq.Select(quotedColumns(opts.Columns)...).From(fmt.Sprintf("%q", table))

	builder, err := ApplyPredicates(builder, opts.Predicates)
	if err != nil {
		return nil, err
	}
	if opts.Limit != nil {
		builder = builder.Limit(uint64(*opts.Limit))
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, srvErrors.NewScanIOError(table, err)
	}
	cols, err := rows.Columns()
	if err != nil {
		rows.Close()
		return nil, srvErrors.NewScanIOError(table, err)
	}
	return &sqlRowIterator{rows: rows, columns: cols}, nil
}

// ScanArrowBatches is unimplemented for the plain database/sql
// connection this adapter uses; the columnar executor falls back to the
// row-maps path when it returns an error (DESIGN.md open question #3).
func (s *DuckDBSource) ScanArrowBatches(ctx context.Context, table string, opts executor.ScanOptions) (executor.ArrowBatchIterator, error) {
	return nil, fmt.Errorf("scan_arrow_batches unavailable on row connection for table %s: columnar executor must fall back to row-maps", table)
}

func (s *DuckDBSource) GetSchema(ctx context.Context, table string, opts executor.ScanOptions) (executor.TableSchema, error) {
	return GetSchema(ctx, s.db, table)
}

func (s *DuckDBSource) GetStatistics(ctx context.Context, table string, opts executor.ScanOptions) (executor.Statistics, error) {
	return GetStatistics(ctx, s.db, s.alias, table, opts)
}

// SupportedPredicates reports the full spec §4.5 minimum set; DuckDB's
// SQL translation covers every op with no gaps.
func (s *DuckDBSource) SupportedPredicates() map[models.PushdownOp]bool {
	return map[models.PushdownOp]bool{
		models.OpEq: true, models.OpNeq: true, models.OpLt: true, models.OpLte: true,
		models.OpGt: true, models.OpGte: true, models.OpIn: true, models.OpNotNull: true,
		models.OpIsNull: true, models.OpBetween: true, models.OpAnd: true, models.OpOr: true, models.OpNot: true,
	}
}

func quotedColumns(cols []string) []string {
	if len(cols) == 0 {
		return []string{"*"}
	}
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = fmt.Sprintf("%q", c)
	}
	return out
}

// sqlRowIterator adapts *sql.Rows to executor.RowIterator.
type sqlRowIterator struct {
	rows    *sql.Rows
	columns []string
}

func (it *sqlRowIterator) Next(ctx context.Context) (executor.Row, bool, error) {
	if !it.rows.Next() {
		return nil, false, it.rows.Err()
	}
	values := make([]any, len(it.columns))
	ptrs := make([]any, len(it.columns))
	for i := range values {
		ptrs[i] = &values[i]
	}
	if err := it.rows.Scan(ptrs...); err != nil {
		return nil, false, err
	}
	row := make(executor.Row, len(it.columns))
	for i, c := range it.columns {
		row[c] = values[i]
	}
	return row, true, nil
}

func (it *sqlRowIterator) Close() error {
	return it.rows.Close()
}
