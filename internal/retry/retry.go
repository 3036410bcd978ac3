// Package retry re-runs an operation on transient failures with a fixed
// schedule of delays.
package retry

import (
	"context"
	"errors"
	"net"
	"time"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgerrcode"
)

type Operation func() error
type IsRetryableError func(error) bool

type RetryConfig struct {
	MaxRetries    int
	Delays        []time.Duration
	IsRetryableFn IsRetryableError
	// OnRetry, if set, is called before waiting for the next attempt.
	OnRetry func(attempt int, err error)
}

var defaultDelays = []time.Duration{1 * time.Second, 3 * time.Second, 5 * time.Second}

// Do runs op up to MaxRetries+1 times. Non-retryable errors and context
// cancellation stop it early.
func Do(ctx context.Context, cfg RetryConfig, op Operation) error {
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.Delays == nil {
		cfg.Delays = defaultDelays
	}
	if cfg.IsRetryableFn == nil {
		cfg.IsRetryableFn = func(error) bool { return false }
	}

	var lastErr error
	for attempt := 0; attempt <= cfg.MaxRetries; attempt++ {
		err := op()
		if err == nil {
			return nil
		}
		if !cfg.IsRetryableFn(err) {
			return err
		}
		lastErr = err

		if attempt == cfg.MaxRetries {
			break
		}
		if cfg.OnRetry != nil {
			cfg.OnRetry(attempt+1, err)
		}
		if err := wait(ctx, delayFor(cfg.Delays, attempt)); err != nil {
			return err
		}
	}
	return lastErr
}

func delayFor(delays []time.Duration, attempt int) time.Duration {
	if len(delays) == 0 {
		return 0
	}
	if attempt < len(delays) {
		return delays[attempt]
	}
	return delays[len(delays)-1]
}

func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// IsRetryablePgError reports whether err is a PostgreSQL connection
// exception, serialization failure or deadlock, or a network error.
func IsRetryablePgError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgerrcode.IsConnectionException(pgErr.Code) ||
			pgErr.Code == pgerrcode.SerializationFailure ||
			pgErr.Code == pgerrcode.DeadlockDetected
	}
	return IsNetworkError(err)
}

func IsNetworkError(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	var opErr *net.OpError
	return errors.As(err, &opErr)
}
