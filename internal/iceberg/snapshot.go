package iceberg

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/fluree/vg-engine/internal/executor"
	srvErrors "github.com/fluree/vg-engine/pkg/errors"
)

// Snapshot queries against the side "iceberg_snapshots" manifest table
// this adapter maintains, since the local/HadoopTables-style warehouses
// spec §6.1's warehouse-path config targets have no native REST catalog
// to ask for commit history.
const (
	querySnapshotByID    = `SELECT snapshot_id, row_count, file_count FROM iceberg_snapshots WHERE table_name = ? AND snapshot_id = ?`
	querySnapshotAsOf    = `SELECT snapshot_id, row_count, file_count FROM iceberg_snapshots WHERE table_name = ? AND committed_at <= ? ORDER BY committed_at DESC LIMIT 1`
	querySnapshotLatest  = `SELECT snapshot_id, row_count, file_count FROM iceberg_snapshots WHERE table_name = ? ORDER BY committed_at DESC LIMIT 1`
)

// GetStatistics implements spec §4.5 get_statistics, and doubles as the
// time-travel validation call spec §4.5 "Time travel" requires: a
// SnapshotID/AsOfTime option with no matching row is the terminal
// InvalidTimeTravel error, surfaced with the alias and the requested `t`.
func GetStatistics(ctx context.Context, db QueryInterceptor, alias, table string, opts executor.ScanOptions) (executor.Statistics, error) {
	var row *sql.Row
	var requested string
	switch {
	case opts.SnapshotID != nil:
		row = db.QueryRowContext(ctx, querySnapshotByID, table, *opts.SnapshotID)
		requested = fmt.Sprintf("snapshot-id=%d", *opts.SnapshotID)
	case opts.AsOfTime != nil:
		row = db.QueryRowContext(ctx, querySnapshotAsOf, table, *opts.AsOfTime)
		requested = fmt.Sprintf("as-of=%s", opts.AsOfTime.Format(time.RFC3339))
	default:
		row = db.QueryRowContext(ctx, querySnapshotLatest, table)
		requested = "latest"
	}

	var stats executor.Statistics
	if err := row.Scan(&stats.SnapshotID, &stats.RowCount, &stats.FileCount); err != nil {
		if err == sql.ErrNoRows {
			return executor.Statistics{}, srvErrors.NewInvalidTimeTravelError(alias, requested)
		}
		return executor.Statistics{}, err
	}
	return stats, nil
}
