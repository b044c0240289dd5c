package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/payengine/internal/domain"
	"github.com/iho/payengine/internal/infrastructure/metrics"
)

// OutcomeStatus tells how a single record was handled.
type OutcomeStatus string

const (
	OutcomeApplied   OutcomeStatus = "applied"
	OutcomeDuplicate OutcomeStatus = "duplicate"
	OutcomeRejected  OutcomeStatus = "rejected"
)

// Outcome is the result of executing one record. Err is set only for
// rejections and always unwraps to one of the domain sentinel errors.
type Outcome struct {
	Status OutcomeStatus
	Err    error
}

// RunStats summarises a replay.
type RunStats struct {
	Processed  int
	Applied    int
	Duplicates int
	Rejected   int
}

func (s *RunStats) add(o Outcome) {
	s.Processed++
	switch o.Status {
	case OutcomeApplied:
		s.Applied++
	case OutcomeDuplicate:
		s.Duplicates++
	case OutcomeRejected:
		s.Rejected++
	}
}

// Engine applies transaction records to client wallets.
// It owns its registry and must be driven from a single goroutine.
type Engine struct {
	registry *domain.WalletRegistry
	ledger   TransactionLedger
	logger   zerolog.Logger
	metrics  *metrics.Metrics
}

// NewEngine creates an Engine with an empty wallet registry.
func NewEngine(ledger TransactionLedger, logger zerolog.Logger, metrics *metrics.Metrics) *Engine {
	return &Engine{
		registry: domain.NewWalletRegistry(),
		ledger:   ledger,
		logger:   logger,
		metrics:  metrics,
	}
}

// Registry returns the wallets touched so far.
func (e *Engine) Registry() *domain.WalletRegistry {
	return e.registry
}

// Execute applies tx. Rejections are reported through the Outcome; the
// returned error is reserved for failures that must abort the run.
func (e *Engine) Execute(ctx context.Context, tx domain.Transaction) (Outcome, error) {
	start := time.Now()

	outcome, err := e.execute(ctx, tx)
	if err != nil {
		e.logger.Error().Err(err).
			Str("kind", tx.Kind.String()).
			Uint16("client", uint16(tx.ClientID)).
			Uint32("tx", uint32(tx.ID)).
			Msg("transaction aborted")
		return Outcome{}, err
	}

	switch outcome.Status {
	case OutcomeRejected:
		e.logger.Debug().Err(outcome.Err).
			Str("kind", tx.Kind.String()).
			Uint16("client", uint16(tx.ClientID)).
			Uint32("tx", uint32(tx.ID)).
			Msg("transaction rejected")
	case OutcomeDuplicate:
		e.logger.Trace().
			Uint32("tx", uint32(tx.ID)).
			Msg("duplicate transaction ignored")
	default:
		e.logger.Trace().
			Str("kind", tx.Kind.String()).
			Uint16("client", uint16(tx.ClientID)).
			Uint32("tx", uint32(tx.ID)).
			Str("amount", tx.Amount.String()).
			Msg("transaction applied")
	}

	if e.metrics != nil {
		e.metrics.TransactionsProcessed.WithLabelValues(tx.Kind.String(), string(outcome.Status)).Inc()
		if outcome.Status == OutcomeRejected {
			e.metrics.TransactionRejections.WithLabelValues(tx.Kind.String(), domain.RejectionReason(outcome.Err)).Inc()
		}
		e.metrics.TransactionDuration.Observe(time.Since(start).Seconds())
	}

	return outcome, nil
}

func (e *Engine) execute(ctx context.Context, tx domain.Transaction) (Outcome, error) {
	if tx.Kind.IsPrimitive() {
		seen, err := e.ledger.Contains(ctx, tx.ID)
		if err != nil {
			return Outcome{}, fmt.Errorf("%w: lookup tx %d: %w", ErrLedgerFailed, tx.ID, err)
		}
		if seen {
			return Outcome{Status: OutcomeDuplicate}, nil
		}
	}

	wallet, created := e.registry.GetOrCreate(tx.ClientID)
	if created && e.metrics != nil {
		e.metrics.WalletsCreated.Inc()
	}

	// The ledger is the primary guard; a wallet that already issued the id
	// catches ids the ledger lost.
	if tx.Kind.IsPrimitive() {
		if _, issued := wallet.Lookup(tx.ID); issued {
			return Outcome{Status: OutcomeDuplicate}, nil
		}
	}

	if wallet.Locked {
		return rejected(tx, domain.ErrWalletLocked), nil
	}

	if err := tx.Validate(); err != nil {
		return rejected(tx, err), nil
	}

	switch tx.Kind {
	case domain.KindDeposit:
		wallet.Credit(tx.Amount)
		return e.recordPrimitive(ctx, wallet, tx)

	case domain.KindWithdrawal:
		if err := wallet.Debit(tx.Amount); err != nil {
			return rejected(tx, err), nil
		}
		return e.recordPrimitive(ctx, wallet, tx)

	case domain.KindDispute:
		return e.dispute(wallet, tx), nil

	case domain.KindResolve:
		return e.resolve(wallet, tx), nil

	case domain.KindChargeback:
		return e.chargeback(wallet, tx), nil
	}

	return rejected(tx, domain.ErrUnknownKind), nil
}

// recordPrimitive stores an applied primitive in its wallet and in the ledger.
func (e *Engine) recordPrimitive(ctx context.Context, wallet *domain.Wallet, tx domain.Transaction) (Outcome, error) {
	wallet.Record(tx)
	if err := e.ledger.Record(ctx, tx.ID); err != nil {
		return Outcome{}, fmt.Errorf("%w: record tx %d: %w", ErrLedgerFailed, tx.ID, err)
	}
	return Outcome{Status: OutcomeApplied}, nil
}

// dispute holds the funds of a transaction the client issued.
// Funds that already left the wallet cannot be held, so the dispute is rejected.
func (e *Engine) dispute(wallet *domain.Wallet, tx domain.Transaction) Outcome {
	orig, ok := wallet.Lookup(tx.ID)
	if !ok {
		return rejected(tx, domain.ErrAccessViolation)
	}
	if orig.UnderDispute {
		return rejected(tx, domain.ErrMultipleDispute)
	}
	if err := wallet.Hold(orig.Amount); err != nil {
		return rejected(tx, err)
	}
	orig.UnderDispute = true
	return Outcome{Status: OutcomeApplied}
}

func (e *Engine) resolve(wallet *domain.Wallet, tx domain.Transaction) Outcome {
	orig, ok := wallet.Lookup(tx.ID)
	if !ok {
		return rejected(tx, domain.ErrAccessViolation)
	}
	if !orig.UnderDispute {
		return rejected(tx, domain.ErrResolveUndisputed)
	}
	if err := wallet.Release(orig.Amount); err != nil {
		return rejected(tx, err)
	}
	orig.UnderDispute = false
	return Outcome{Status: OutcomeApplied}
}

// chargeback removes the disputed funds and locks the wallet for good.
func (e *Engine) chargeback(wallet *domain.Wallet, tx domain.Transaction) Outcome {
	orig, ok := wallet.Lookup(tx.ID)
	if !ok {
		return rejected(tx, domain.ErrAccessViolation)
	}
	if !orig.UnderDispute {
		return rejected(tx, domain.ErrChargebackUndisputed)
	}
	if err := wallet.Confiscate(orig.Amount); err != nil {
		return rejected(tx, err)
	}
	wallet.Lock()
	orig.UnderDispute = false

	if e.metrics != nil {
		e.metrics.WalletsLocked.Inc()
	}
	e.logger.Info().
		Uint16("client", uint16(wallet.ClientID)).
		Uint32("tx", uint32(tx.ID)).
		Msg("wallet locked after chargeback")

	return Outcome{Status: OutcomeApplied}
}

func rejected(tx domain.Transaction, err error) Outcome {
	return Outcome{Status: OutcomeRejected, Err: domain.Reject(tx, err)}
}

// Run pulls records from src until it is exhausted, applying each one
// before asking for the next. Rejected records do not stop the run.
func (e *Engine) Run(ctx context.Context, src TransactionSource) (RunStats, error) {
	var stats RunStats

	for {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		tx, err := src.Next(ctx)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return stats, ctxErr
			}
			return stats, fmt.Errorf("%w: %w", ErrSourceFailed, err)
		}

		outcome, err := e.Execute(ctx, tx)
		if err != nil {
			return stats, err
		}
		stats.add(outcome)
	}

	e.logger.Info().
		Int("processed", stats.Processed).
		Int("applied", stats.Applied).
		Int("duplicates", stats.Duplicates).
		Int("rejected", stats.Rejected).
		Int("wallets", e.registry.Len()).
		Msg("replay finished")

	return stats, nil
}

// Report writes the current balance of every wallet, ordered by client id.
func (e *Engine) Report(ctx context.Context, w BalanceWriter) error {
	snapshots := e.registry.Snapshots()

	if err := w.WriteBalances(ctx, snapshots); err != nil {
		return fmt.Errorf("%w: %w", ErrSinkFailed, err)
	}

	if e.metrics != nil {
		e.metrics.WalletsReported.Set(float64(len(snapshots)))
	}
	return nil
}
