package columnar

import (
	"fmt"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"

	"github.com/fluree/vg-engine/internal/executor"
)

var pool = memory.NewGoAllocator()

// Batch wraps an *arrow.Record to satisfy executor.ArrowBatch, the unit
// of transport executor.Source.ScanArrowBatches produces (spec §4.5).
type Batch struct {
	Record arrow.Record
}

func (b *Batch) NumRows() int64 { return b.Record.NumRows() }
func (b *Batch) Release()       { b.Record.Release() }

// prefixRecord renames every field of rec to "table.field", without
// copying the underlying column data, so two tables contributing a
// same-named column (e.g. "id") can coexist in one joined record.
func prefixRecord(table string, rec arrow.Record) arrow.Record {
	fields := make([]arrow.Field, rec.NumCols())
	for i, f := range rec.Schema().Fields() {
		f.Name = table + "." + f.Name
		fields[i] = f
	}
	schema := arrow.NewSchema(fields, nil)
	return array.NewRecord(schema, rec.Columns(), rec.NumRows())
}

// concatRecords stitches scan_arrow_batches' stream of same-schema
// batches into the single record the rest of this package's operators
// work over, matching the row executor's scanGroup materializing its
// full slice of rows up front.
func concatRecords(records []arrow.Record) (arrow.Record, error) {
	if len(records) == 1 {
		return records[0], nil
	}

	schema := records[0].Schema()
	cols := make([]arrow.Array, schema.NumFields())
	var rows int64
	for i := range cols {
		parts := make([]arrow.Array, len(records))
		for j, rec := range records {
			parts[j] = rec.Column(i)
		}
		col, err := array.Concatenate(parts, pool)
		if err != nil {
			return nil, fmt.Errorf("concatenating arrow batches: %w", err)
		}
		cols[i] = col
	}
	for _, rec := range records {
		rows += rec.NumRows()
		rec.Release()
	}
	return array.NewRecord(schema, cols, rows), nil
}

// valueAt reads row's value out of col as a plain Go value, or nil if
// the cell is null or of a type not handled below (the fallback path
// only ever produces Strings; the remaining cases are for a future
// native Arrow-exporting Source).
func valueAt(col arrow.Array, row int) any {
	if col.IsNull(row) {
		return nil
	}
	switch a := col.(type) {
	case *array.String:
		return a.Value(row)
	case *array.Int64:
		return a.Value(row)
	case *array.Int32:
		return int64(a.Value(row))
	case *array.Float64:
		return a.Value(row)
	case *array.Boolean:
		return a.Value(row)
	default:
		// Any other Arrow type (the fallback path only ever produces
		// Strings) is left unbound rather than risking a wrong
		// reflection-based decode.
		return nil
	}
}

// rowAt extracts row's values for columns (table-unprefixed names) from
// rec, which carries table.column-prefixed fields, back into a plain
// executor.Row for executor.MaterializeRow.
func rowAt(rec arrow.Record, table string, columns []string, row int) executor.Row {
	out := make(executor.Row, len(columns))
	schema := rec.Schema()
	for _, c := range columns {
		idx := schema.FieldIndices(table + "." + c)
		if len(idx) == 0 {
			continue
		}
		out[c] = valueAt(rec.Column(idx[0]), row)
	}
	return out
}
