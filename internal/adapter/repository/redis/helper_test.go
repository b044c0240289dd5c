package redis

import (
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	redislib "github.com/redis/go-redis/v9"

	"github.com/iho/payengine/internal/infrastructure/metrics"
)

func newTestRedisClient(t *testing.T) (*redislib.Client, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redislib.NewClient(&redislib.Options{Addr: mr.Addr()})

	return client, mr
}

// newTestLedger returns a ledger for runID with a one hour TTL.
func newTestLedger(t *testing.T, client *redislib.Client, runID string, m *metrics.Metrics) *Ledger {
	t.Helper()
	return NewLedger(client, runID, time.Hour, m)
}
