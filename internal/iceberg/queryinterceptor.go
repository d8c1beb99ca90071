package iceberg

import (
	"context"
	"database/sql"
	"time"

	"go.uber.org/zap"
)

// QueryInterceptor is the logging seam every store method in this
// package queries through, restoring the contract the teacher's store
// layer documents but never defines a type for.
type QueryInterceptor interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// loggingInterceptor wraps *sql.DB with debug-level zap logging of every
// query's SQL text, argument count, and duration.
type loggingInterceptor struct {
	db *sql.DB
}

// NewLoggingInterceptor returns a QueryInterceptor backed by db.
func NewLoggingInterceptor(db *sql.DB) QueryInterceptor {
	return &loggingInterceptor{db: db}
}

func (l *loggingInterceptor) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	start := time.Now()
	rows, err := l.db.QueryContext(ctx, query, args...)
	zap.S().Debugw("iceberg query", "sql", query, "args", len(args), "duration", time.Since(start), "err", err)
	return rows, err
}

func (l *loggingInterceptor) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	start := time.Now()
	row := l.db.QueryRowContext(ctx, query, args...)
	zap.S().Debugw("iceberg query_row", "sql", query, "args", len(args), "duration", time.Since(start))
	return row
}

func (l *loggingInterceptor) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	start := time.Now()
	res, err := l.db.ExecContext(ctx, query, args...)
	zap.S().Debugw("iceberg exec", "sql", query, "args", len(args), "duration", time.Since(start), "err", err)
	return res, err
}
