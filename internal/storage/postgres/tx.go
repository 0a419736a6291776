package postgres

import (
	"context"
	"errors"

	"github.com/Profanor/micro-commerce-app/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type txKey struct{}

// withTx runs fn inside a transaction carried on the context. Nested
// calls join the outer transaction. Serialization conflicts, deadlocks
// and timeouts surface as domain.TransactionFailedError so callers know
// the whole unit rolled back and may retry it.
func withTx(ctx context.Context, pool *pgxpool.Pool, fn func(ctx context.Context) error) error {
	if txFromContext(ctx) != nil {
		return fn(ctx)
	}

	tx, err := pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return &domain.TransactionFailedError{Err: err}
	}

	txCtx := context.WithValue(ctx, txKey{}, tx)
	if err := fn(txCtx); err != nil {
		_ = tx.Rollback(ctx)
		if isRetryable(err) {
			return &domain.TransactionFailedError{Err: err}
		}
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return &domain.TransactionFailedError{Err: err}
	}
	return nil
}

func txFromContext(ctx context.Context) pgx.Tx {
	tx, _ := ctx.Value(txKey{}).(pgx.Tx)
	return tx
}

// isRetryable reports storage-level failures that leave no partial
// state: serialization failure (40001), deadlock (40P01), lock timeout
// (55P03) and context deadlines.
func isRetryable(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "40001", "40P01", "55P03":
			return true
		}
		return false
	}
	return errors.Is(err, context.DeadlineExceeded)
}

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23503"
}
