package redis

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/iho/payengine/internal/domain"
	"github.com/iho/payengine/internal/infrastructure/metrics"
)

// Ledger implements usecase.TransactionLedger using Redis.
//
// All ids of a run live in one set, payengine:<run>:txs. The set has no
// expiry while the run is in progress; Expire arms the retention TTL once
// the run is over.
type Ledger struct {
	client  *redis.Client
	key     string
	ttl     time.Duration
	metrics *metrics.Metrics
}

// NewLedger creates a Ledger for the run identified by runID.
func NewLedger(client *redis.Client, runID string, ttl time.Duration, m *metrics.Metrics) *Ledger {
	return &Ledger{
		client:  client,
		key:     "payengine:" + runID + ":txs",
		ttl:     ttl,
		metrics: m,
	}
}

func member(id domain.TransactionID) string {
	return strconv.FormatUint(uint64(id), 10)
}

// Contains reports whether id was recorded in this run.
func (l *Ledger) Contains(ctx context.Context, id domain.TransactionID) (bool, error) {
	l.observe("contains")

	seen, err := l.client.SIsMember(ctx, l.key, member(id)).Result()
	if err != nil {
		l.fail("contains")
		return false, err
	}
	return seen, nil
}

// Record stores id. Recording an id twice is a no-op.
func (l *Ledger) Record(ctx context.Context, id domain.TransactionID) error {
	l.observe("record")

	if err := l.client.SAdd(ctx, l.key, member(id)).Err(); err != nil {
		l.fail("record")
		return err
	}
	return nil
}

// Expire schedules the run's ids for deletion after the retention TTL.
// A zero TTL keeps them forever.
func (l *Ledger) Expire(ctx context.Context) error {
	if l.ttl <= 0 {
		return nil
	}

	l.observe("expire")
	if err := l.client.Expire(ctx, l.key, l.ttl).Err(); err != nil {
		l.fail("expire")
		return err
	}
	return nil
}

func (l *Ledger) observe(op string) {
	if l.metrics != nil {
		l.metrics.LedgerOperations.WithLabelValues(op).Inc()
	}
}

func (l *Ledger) fail(op string) {
	if l.metrics != nil {
		l.metrics.LedgerErrors.WithLabelValues(op).Inc()
	}
}
