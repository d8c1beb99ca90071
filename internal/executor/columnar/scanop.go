package columnar

import (
	"context"
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"

	"github.com/fluree/vg-engine/internal/executor"
	"github.com/fluree/vg-engine/internal/models"
	srvErrors "github.com/fluree/vg-engine/pkg/errors"
	"github.com/fluree/vg-engine/pkg/scheduler"
)

// ScanOp runs one group's scan (spec §4.6.2: "vectorized filtering +
// projection pushdown"): the projection and predicates are the same
// executor.GroupProjection the row executor computes, so pushdown
// behaves identically in both paths; only the transport differs.
//
// When src cannot produce Arrow batches, ScanOp falls back to
// executor.ScanRows and casts the rows into a single string-typed
// record, so HashJoinOp never needs to know which path produced its
// input.
func ScanOp(ctx context.Context, sched *scheduler.Scheduler, src executor.Source, p executor.GroupProjection, tt models.TimeTravel) (arrow.Record, error) {
	opts := executor.ScanOptions{Columns: p.Columns, Predicates: p.Predicates}
	executor.ApplyTimeTravel(&opts, tt)

	future := sched.AddWork(func(ctx context.Context) (any, error) {
		return src.ScanArrowBatches(ctx, p.Table, opts)
	})
	res := <-future.C()
	if res.Err == nil {
		if iter, ok := res.Data.(executor.ArrowBatchIterator); ok && iter != nil {
			if rec, err := drainArrowBatches(ctx, p.Table, iter); err == nil {
				return rec, nil
			}
		}
	}

	rows, err := executor.ScanRows(ctx, sched, src, p, tt)
	if err != nil {
		return nil, err
	}
	return rowsToRecord(p.Columns, rows), nil
}

// drainArrowBatches reads iter to exhaustion and concatenates its
// batches into one record.
func drainArrowBatches(ctx context.Context, table string, iter executor.ArrowBatchIterator) (arrow.Record, error) {
	defer iter.Close()

	var records []arrow.Record
	for {
		b, ok, err := iter.Next(ctx)
		if err != nil {
			return nil, srvErrors.NewScanIOError(table, err)
		}
		if !ok {
			break
		}
		batch, ok := b.(*Batch)
		if !ok {
			return nil, fmt.Errorf("columnar scan: table %s returned %T, want *columnar.Batch", table, b)
		}
		records = append(records, batch.Record)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("columnar scan: table %s produced no batches", table)
	}
	return concatRecords(records)
}

// rowsToRecord casts the row-maps fallback's output into a string-typed
// Arrow record: every cell becomes fmt.Sprint(value), nulls stay null.
// This is a deliberate simplification (doc.go) rather than inferring one
// Arrow type per column from row contents.
func rowsToRecord(columns []string, rows []executor.Row) arrow.Record {
	fields := make([]arrow.Field, len(columns))
	for i, c := range columns {
		fields[i] = arrow.Field{Name: c, Type: arrow.BinaryTypes.String, Nullable: true}
	}
	schema := arrow.NewSchema(fields, nil)

	builder := array.NewRecordBuilder(pool, schema)
	defer builder.Release()

	for _, row := range rows {
		for i, c := range columns {
			v, ok := row[c]
			sb := builder.Field(i).(*array.StringBuilder)
			if !ok || v == nil {
				sb.AppendNull()
				continue
			}
			sb.Append(fmt.Sprint(v))
		}
	}
	return builder.NewRecord()
}
