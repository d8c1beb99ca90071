package columnar

import (
	"fmt"
	"strings"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"

	"github.com/fluree/vg-engine/internal/models"
	srvErrors "github.com/fluree/vg-engine/pkg/errors"
)

// HashJoinOp hash-joins two table batches along edge's raw parent/child
// columns (spec §4.6.2): the build side buckets its row indices by key
// over the Arrow key columns, and the probe side streams its rows,
// gathering every match into a new record via array.RecordBuilder — the
// columnar analogue of row.go's edgeJoin. A key match is still only
// accepted when the two sides' materialized Solutions are compatible, so
// a query that happens to bind the same variable from both tables still
// gets SPARQL merge semantics rather than a bare column-equality join.
func HashJoinOp(build, probe *tableBatch, edge models.JoinEdge, fromTable, newTable string) (*tableBatch, error) {
	var buildCols, probeCols []string
	if fromTable == edge.ChildTable {
		buildCols = edge.ChildColumns
	} else {
		buildCols = edge.ParentColumns
	}
	if newTable == edge.ChildTable {
		probeCols = edge.ChildColumns
	} else {
		probeCols = edge.ParentColumns
	}

	buildKeys, err := keyArrays(build.record, fromTable, buildCols)
	if err != nil {
		return nil, err
	}
	probeKeys, err := keyArrays(probe.record, newTable, probeCols)
	if err != nil {
		return nil, err
	}

	buildRows := int(build.record.NumRows())
	probeRows := int(probe.record.NumRows())

	index := make(map[string][]int, buildRows)
	buildSols := make([]models.Solution, buildRows)
	for i := 0; i < buildRows; i++ {
		key := batchRowKey(buildKeys, i)
		index[key] = append(index[key], i)
		sol, err := solutionAt(build, i)
		if err != nil {
			return nil, err
		}
		buildSols[i] = sol
	}

	schema := unionSchema(build.record.Schema(), probe.record.Schema())
	builder := array.NewRecordBuilder(pool, schema)
	defer builder.Release()

	buildWidth := int(build.record.NumCols())
	for j := 0; j < probeRows; j++ {
		matches := index[batchRowKey(probeKeys, j)]
		if len(matches) == 0 {
			continue
		}
		probeSol, err := solutionAt(probe, j)
		if err != nil {
			return nil, err
		}
		for _, i := range matches {
			if _, ok := buildSols[i].Merge(probeSol); !ok {
				continue
			}
			appendRow(builder, 0, build.record, i)
			appendRow(builder, buildWidth, probe.record, j)
		}
	}

	return mergeBatches(build, probe, builder.NewRecord()), nil
}

// NestedLoopJoin is the spec §4.6.1/§4.6.2 fallback when no traversed
// edge applies: every pair of rows across the two batches is
// compatible-merge tested, bounded by cap, mirroring row.go's
// cartesianJoin.
func NestedLoopJoin(left, right *tableBatch, cap int, tables []string) (*tableBatch, error) {
	n := int(left.record.NumRows())
	m := int(right.record.NumRows())
	if cap > 0 && n*m > cap {
		return nil, srvErrors.NewCartesianProductTooLargeError(tables, []int{n, m}, cap)
	}

	schema := unionSchema(left.record.Schema(), right.record.Schema())
	builder := array.NewRecordBuilder(pool, schema)
	defer builder.Release()

	leftWidth := int(left.record.NumCols())
	for i := 0; i < n; i++ {
		leftSol, err := solutionAt(left, i)
		if err != nil {
			return nil, err
		}
		for j := 0; j < m; j++ {
			rightSol, err := solutionAt(right, j)
			if err != nil {
				return nil, err
			}
			if _, ok := leftSol.Merge(rightSol); !ok {
				continue
			}
			appendRow(builder, 0, left.record, i)
			appendRow(builder, leftWidth, right.record, j)
		}
	}

	return mergeBatches(left, right, builder.NewRecord()), nil
}

func keyArrays(rec arrow.Record, table string, cols []string) ([]arrow.Array, error) {
	schema := rec.Schema()
	out := make([]arrow.Array, len(cols))
	for i, c := range cols {
		idx := schema.FieldIndices(table + "." + c)
		if len(idx) == 0 {
			return nil, fmt.Errorf("columnar join: column %s.%s not present in scanned batch", table, c)
		}
		out[i] = rec.Column(idx[0])
	}
	return out, nil
}

func batchRowKey(cols []arrow.Array, row int) string {
	var b strings.Builder
	for _, c := range cols {
		fmt.Fprintf(&b, "%v;", valueAt(c, row))
	}
	return b.String()
}

func unionSchema(a, b *arrow.Schema) *arrow.Schema {
	fields := make([]arrow.Field, 0, a.NumFields()+b.NumFields())
	fields = append(fields, a.Fields()...)
	fields = append(fields, b.Fields()...)
	return arrow.NewSchema(fields, nil)
}

func appendRow(builder *array.RecordBuilder, offset int, rec arrow.Record, row int) {
	for i := 0; i < int(rec.NumCols()); i++ {
		appendValue(builder.Field(offset+i), valueAt(rec.Column(i), row))
	}
}

func appendValue(b array.Builder, v any) {
	if v == nil {
		b.AppendNull()
		return
	}
	switch fb := b.(type) {
	case *array.StringBuilder:
		fb.Append(fmt.Sprint(v))
	case *array.Int64Builder:
		fb.Append(toInt64(v))
	case *array.Float64Builder:
		fb.Append(toFloat64(v))
	case *array.BooleanBuilder:
		if bv, ok := v.(bool); ok {
			fb.Append(bv)
		} else {
			fb.AppendNull()
		}
	default:
		b.AppendNull()
	}
}

func toInt64(v any) int64 {
	switch n := v.(type) {
	case int64:
		return n
	case int32:
		return int64(n)
	case int:
		return int64(n)
	default:
		return 0
	}
}

func toFloat64(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	default:
		return 0
	}
}
