package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

// DBTX is implemented by pgxpool.Pool, pgx.Tx and pgxmock pools.
// Repositories depend on it instead of a concrete pool.
type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// PoolOptions configures NewPool.
type PoolOptions struct {
	DSN        string
	MaxRetries int
	// SlowQuery is the duration above which a statement is logged at warn
	// level. Zero disables the query tracer.
	SlowQuery time.Duration
}

// NewPool creates a PostgreSQL connection pool with retry logic.
// Retries with exponential backoff: 1s, 2s, 4s, 8s, 16s (total ~31s before failure).
func NewPool(ctx context.Context, opts PoolOptions) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(opts.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}
	if opts.SlowQuery > 0 {
		poolCfg.ConnConfig.Tracer = &queryTracer{slow: opts.SlowQuery}
	}

	// Ensure at least one attempt even if MaxRetries is 0
	attempts := opts.MaxRetries
	if attempts < 1 {
		attempts = 1
	}

	for attempt := 0; attempt < attempts; attempt++ {
		var pool *pgxpool.Pool
		pool, err = pgxpool.NewWithConfig(ctx, poolCfg)
		if err == nil {
			pingErr := pool.Ping(ctx)
			if pingErr == nil {
				log.Info().
					Str("host", poolCfg.ConnConfig.Host).
					Str("database", poolCfg.ConnConfig.Database).
					Int32("max_conns", poolCfg.MaxConns).
					Msg("database connection established")
				return pool, nil
			}
			pool.Close()
			err = fmt.Errorf("ping failed: %w", pingErr)
		}

		if attempt == attempts-1 {
			break
		}

		backoff := time.Duration(1<<attempt) * time.Second
		log.Warn().
			Err(err).
			Int("attempt", attempt+1).
			Int("max_retries", opts.MaxRetries).
			Dur("next_retry_in", backoff).
			Msg("database connection failed, retrying")

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}
	return nil, fmt.Errorf("failed to connect after %d attempts: %w", attempts, err)
}

type queryStartKey struct{}

type queryStart struct {
	sql   string
	start time.Time
}

// queryTracer implements pgx.QueryTracer and logs statements through zerolog.
type queryTracer struct {
	slow time.Duration
}

func (t *queryTracer) TraceQueryStart(ctx context.Context, _ *pgx.Conn, data pgx.TraceQueryStartData) context.Context {
	return context.WithValue(ctx, queryStartKey{}, queryStart{sql: data.SQL, start: time.Now()})
}

func (t *queryTracer) TraceQueryEnd(ctx context.Context, _ *pgx.Conn, data pgx.TraceQueryEndData) {
	qs, ok := ctx.Value(queryStartKey{}).(queryStart)
	if !ok {
		return
	}
	elapsed := time.Since(qs.start)

	switch {
	case data.Err != nil:
		log.Debug().Err(data.Err).Str("sql", qs.sql).Dur("elapsed", elapsed).Msg("query failed")
	case elapsed >= t.slow:
		log.Warn().Str("sql", qs.sql).Dur("elapsed", elapsed).Str("tag", data.CommandTag.String()).Msg("slow query")
	default:
		log.Trace().Str("sql", qs.sql).Dur("elapsed", elapsed).Msg("query")
	}
}
