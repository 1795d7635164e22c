package infra

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// SQLExecutor defines the contract required by repositories for executing
// named SQL statements. Every statement carries a short name that shows up in
// the logs instead of the raw SQL text.
type SQLExecutor interface {
	Exec(ctx context.Context, name, query string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, name, query string, args ...any) pgx.Row
	Query(ctx context.Context, name, query string, args ...any) (pgx.Rows, error)
}

// SQLRunner executes statements against a pgx pool with per-statement logging.
type SQLRunner struct {
	Pool   *pgxpool.Pool
	Logger zerolog.Logger
}

func NewSQLRunner(pool *pgxpool.Pool, logger zerolog.Logger) *SQLRunner {
	return &SQLRunner{Pool: pool, Logger: logger}
}

func (r *SQLRunner) Exec(ctx context.Context, name, query string, args ...any) (pgconn.CommandTag, error) {
	tag, err := r.Pool.Exec(ctx, query, args...)
	if err != nil {
		r.Logger.Error().Err(err).Msgf("sql[%s] error", name)
		return tag, err
	}
	r.Logger.Debug().Msgf("sql[%s] ok", name)
	return tag, nil
}

func (r *SQLRunner) QueryRow(ctx context.Context, name, query string, args ...any) pgx.Row {
	r.Logger.Debug().Msgf("sql[%s] query_row", name)
	return loggingRow{row: r.Pool.QueryRow(ctx, query, args...), logger: r.Logger, name: name}
}

func (r *SQLRunner) Query(ctx context.Context, name, query string, args ...any) (pgx.Rows, error) {
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		r.Logger.Error().Err(err).Msgf("sql[%s] error", name)
		return nil, err
	}
	r.Logger.Debug().Msgf("sql[%s] query", name)
	return rows, nil
}

type loggingRow struct {
	row    pgx.Row
	logger zerolog.Logger
	name   string
}

func (l loggingRow) Scan(dest ...any) error {
	err := l.row.Scan(dest...)
	if err != nil && !IsNoRows(err) {
		l.logger.Error().Err(err).Msgf("sql[%s] scan error", l.name)
	}
	return err
}

// IsNoRows reports whether err means the query matched nothing.
func IsNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

var _ SQLExecutor = (*SQLRunner)(nil)
