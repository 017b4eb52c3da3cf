// pkg/db/retry.go
package db

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

// Retry runs op, retrying transient database failures with linear backoff.
// Only connection-class errors are retried; query errors and store-level
// sentinels pass straight through so callers can map them to responses.
func Retry(ctx context.Context, log *zap.SugaredLogger, maxAttempts uint64, baseDelay time.Duration, op func(ctx context.Context) error) error {
	if maxAttempts == 0 {
		maxAttempts = 1 // maxAttempts-1 below must not underflow
	}
	attempt := 0
	wrapped := func() error {
		attempt++
		err := op(ctx)
		if err == nil {
			return nil
		}
		if !transient(err) {
			return backoff.Permanent(err)
		}
		log.Warnw("db transient error", "attempt", attempt, "max", maxAttempts, "err", err)
		return err
	}
	// backoff.Retry unwraps Permanent errors before returning them, so store
	// sentinels come back intact for errors.Is at the API boundary.
	b := backoff.WithContext(backoff.WithMaxRetries(backoff.NewConstantBackOff(baseDelay), maxAttempts-1), ctx)
	return backoff.Retry(wrapped, b)
}

func transient(err error) bool {
	if pgconn.SafeToRetry(err) || pgconn.Timeout(err) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgerrcode.IsConnectionException(pgErr.Code)
	}
	var connErr *pgconn.ConnectError
	return errors.As(err, &connErr)
}
