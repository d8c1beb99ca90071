// Package iceberg implements the Iceberg Source Adapter contract (spec
// §4.5) backed by DuckDB: scan_rows, scan_arrow_batches, get_schema,
// get_statistics, and predicate pushdown translation via squirrel.
//
// # Architecture
//
//	┌────────────────────────────────────────────────────────────────┐
//	│                      DuckDBSource (facade)                      │
//	├─────────────────────┬────────────────────┬──────────────────────┤
//	│   rowScan (sql.Rows) │  schema (PRAGMA)  │  statistics (COUNT/   │
//	│                      │                    │  snapshot manifest)  │
//	└─────────────────────┴────────────────────┴──────────────────────┘
//	                              │
//	                    QueryInterceptor (debug logging)
//	                              │
//	                           *sql.DB (duckdb-go/v2)
//
// Every table registered through an Iceberg-typed virtual graph (spec
// §6.1) is queried through one DuckDBSource; time travel (spec §4.5
// "Time travel") resolves against a side "iceberg_snapshots" manifest
// table rather than a native Iceberg catalog, since this adapter targets
// local/HadoopTables-style warehouses the way the spec's warehouse-path
// config field describes.
package iceberg
