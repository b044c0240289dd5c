package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"

	"github.com/iho/payengine/internal/infrastructure/metrics"
)

// SQLSTATE codes worth another attempt.
const (
	pgErrDeadlock             = "40P01"
	pgErrSerializationFailure = "40001"
	pgErrAdminShutdown        = "57P01"
)

// RetryPolicy bounds how long and how often a write is retried.
type RetryPolicy struct {
	MaxRetries      uint64
	InitialInterval time.Duration
	MaxInterval     time.Duration
	MaxElapsedTime  time.Duration
}

// DefaultRetryPolicy is used by NewRetrier.
var DefaultRetryPolicy = RetryPolicy{
	MaxRetries:      3,
	InitialInterval: 50 * time.Millisecond,
	MaxInterval:     time.Second,
	MaxElapsedTime:  10 * time.Second,
}

// Retrier re-runs database writes that failed on a transient error.
type Retrier struct {
	policy  RetryPolicy
	logger  zerolog.Logger
	metrics *metrics.Metrics
}

// NewRetrier creates a Retrier with DefaultRetryPolicy.
func NewRetrier(logger zerolog.Logger, m *metrics.Metrics) *Retrier {
	return NewRetrierWithPolicy(DefaultRetryPolicy, logger, m)
}

// NewRetrierWithPolicy creates a Retrier with a custom policy.
func NewRetrierWithPolicy(policy RetryPolicy, logger zerolog.Logger, m *metrics.Metrics) *Retrier {
	return &Retrier{policy: policy, logger: logger, metrics: m}
}

// Retry runs operation until it succeeds, fails permanently, or the policy
// is exhausted. Only transient PostgreSQL errors are retried.
func (r *Retrier) Retry(ctx context.Context, operation func() error) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = r.policy.InitialInterval
	b.MaxInterval = r.policy.MaxInterval
	b.MaxElapsedTime = r.policy.MaxElapsedTime

	policy := backoff.WithContext(backoff.WithMaxRetries(b, r.policy.MaxRetries), ctx)

	attempt := func() error {
		err := operation()
		if err != nil && !isRetryableError(err) {
			return backoff.Permanent(err)
		}
		return err
	}

	notify := func(err error, wait time.Duration) {
		if r.metrics != nil {
			r.metrics.SnapshotRetries.Inc()
		}
		r.logger.Warn().Err(err).Dur("backoff", wait).Msg("retryable database error, retrying")
	}

	return backoff.RetryNotify(attempt, policy, notify)
}

func isRetryableError(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	switch pgErr.Code {
	case pgErrDeadlock, pgErrSerializationFailure, pgErrAdminShutdown:
		return true
	}
	return false
}
