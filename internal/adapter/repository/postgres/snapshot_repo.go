package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/iho/payengine/internal/domain"
	"github.com/iho/payengine/internal/infrastructure/metrics"
)

const upsertSnapshotSQL = `
INSERT INTO balance_snapshots (run_id, client_id, available, held, total, locked)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (run_id, client_id) DO UPDATE
SET available = EXCLUDED.available,
    held = EXCLUDED.held,
    total = EXCLUDED.total,
    locked = EXCLUDED.locked,
    written_at = now()`

type pgxBeginner interface {
	Begin(context.Context) (pgx.Tx, error)
}

// SnapshotRepository implements usecase.BalanceWriter on PostgreSQL.
// Every run writes under its own run id; rows are never read back.
type SnapshotRepository struct {
	pool    pgxBeginner
	runID   string
	retrier *Retrier
	logger  zerolog.Logger
	metrics *metrics.Metrics
}

// NewSnapshotRepository creates a new SnapshotRepository. pool is usually a *pgxpool.Pool.
func NewSnapshotRepository(pool pgxBeginner, runID string, retrier *Retrier, logger zerolog.Logger, m *metrics.Metrics) *SnapshotRepository {
	return &SnapshotRepository{
		pool:    pool,
		runID:   runID,
		retrier: retrier,
		logger:  logger,
		metrics: m,
	}
}

// WriteBalances stores all balances of the run in a single transaction.
func (r *SnapshotRepository) WriteBalances(ctx context.Context, balances []domain.BalanceSnapshot) error {
	err := r.retrier.Retry(ctx, func() error {
		return r.write(ctx, balances)
	})

	status := "ok"
	if err != nil {
		status = "error"
	}
	if r.metrics != nil {
		r.metrics.SnapshotWrites.WithLabelValues("postgres", status).Inc()
	}
	if err != nil {
		return fmt.Errorf("failed to write balance snapshots: %w", err)
	}

	r.logger.Info().
		Str("run_id", r.runID).
		Int("wallets", len(balances)).
		Msg("balance snapshots stored")
	return nil
}

func (r *SnapshotRepository) write(ctx context.Context, balances []domain.BalanceSnapshot) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}

	for _, b := range balances {
		_, err := tx.Exec(ctx, upsertSnapshotSQL,
			r.runID,
			int32(b.ClientID),
			b.Available,
			b.Held,
			b.Total,
			b.Locked,
		)
		if err != nil {
			_ = tx.Rollback(ctx)
			return err
		}
	}

	return tx.Commit(ctx)
}
