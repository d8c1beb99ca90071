package iceberg

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/fluree/vg-engine/internal/executor"
)

// GetSchema implements spec §4.5 get_schema against DuckDB's sqlite-
// compatible PRAGMA table_info, the same row-scan-into-slice style the
// teacher's store layer uses for every other query (internal/store/vm.go).
func GetSchema(ctx context.Context, db QueryInterceptor, table string) (executor.TableSchema, error) {
	rows, err := db.QueryContext(ctx, fmt.Sprintf("PRAGMA table_info(%q)", table))
	if err != nil {
		return executor.TableSchema{}, err
	}
	defer rows.Close()

	var schema executor.TableSchema
	for rows.Next() {
		var cid int
		var name, ctype string
		var notnull bool
		var dflt sql.NullString
		var pk bool
		if err := rows.Scan(&cid, &name, &ctype, &notnull, &dflt, &pk); err != nil {
			return executor.TableSchema{}, err
		}
		schema.Columns = append(schema.Columns, executor.ColumnSchema{Name: name, Type: ctype, IsPartitionKey: pk})
		if pk {
			schema.PartitionSpec = append(schema.PartitionSpec, name)
		}
	}
	return schema, rows.Err()
}
