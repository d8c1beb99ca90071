package executor

import (
	"context"
	"time"

	"github.com/fluree/vg-engine/internal/models"
)

// Row is one raw record a Source produces, keyed by column name, before
// it is materialized into an RDF Solution (spec §4.6.1 step 6).
type Row map[string]any

// ScanOptions is the option bag spec §4.5 names for scan_rows /
// scan_arrow_batches / get_schema / get_statistics.
type ScanOptions struct {
	Columns     []string
	Predicates  []models.PushdownPredicate
	SnapshotID  *int64
	AsOfTime    *time.Time
	Limit       *int64
	CopyBatches bool
}

// ColumnSchema is one entry of TableSchema.Columns (spec §4.5
// get_schema).
type ColumnSchema struct {
	Name           string
	Type           string
	IsPartitionKey bool
}

// TableSchema is get_schema's return shape.
type TableSchema struct {
	Columns      []ColumnSchema
	PartitionSpec []string
}

// Statistics is get_statistics's return shape; Source.GetStatistics with
// a SnapshotID/AsOfTime option that does not resolve to a real snapshot
// is the terminal InvalidTimeTravel check spec §4.5 "Time travel"
// describes.
type Statistics struct {
	RowCount   int64
	FileCount  int64
	SnapshotID int64
}

// RowIterator is a lazy cursor over scan_rows results. Close MUST be
// idempotent and safe to call after the iterator is exhausted.
type RowIterator interface {
	Next(ctx context.Context) (Row, bool, error)
	Close() error
}

// ArrowBatch is the columnar executor's unit of transport; defined here
// (rather than in internal/executor/columnar) so Source's contract does
// not depend on the columnar package. internal/executor/columnar wraps
// *arrow.Record to satisfy it.
type ArrowBatch interface {
	NumRows() int64
	Release()
}

// ArrowBatchIterator is the lazy cursor scan_arrow_batches returns.
type ArrowBatchIterator interface {
	Next(ctx context.Context) (ArrowBatch, bool, error)
	Close() error
}

// Source is the Iceberg Source Adapter contract (spec §4.5). One Source
// serves every table of a single registered virtual graph.
type Source interface {
	ScanRows(ctx context.Context, table string, opts ScanOptions) (RowIterator, error)
	ScanArrowBatches(ctx context.Context, table string, opts ScanOptions) (ArrowBatchIterator, error)
	GetSchema(ctx context.Context, table string, opts ScanOptions) (TableSchema, error)
	GetStatistics(ctx context.Context, table string, opts ScanOptions) (Statistics, error)
	SupportedPredicates() map[models.PushdownOp]bool
}
