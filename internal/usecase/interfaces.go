package usecase

import (
	"context"

	"github.com/iho/payengine/internal/domain"
)

//go:generate mockgen -source=interfaces.go -destination=mocks/mock_interfaces.go -package=mocks

// TransactionSource yields transaction records in application order.
// Next returns io.EOF once the source is exhausted.
type TransactionSource interface {
	Next(ctx context.Context) (domain.Transaction, error)
}

// BalanceWriter receives the final wallet balances, ordered by client id.
type BalanceWriter interface {
	WriteBalances(ctx context.Context, balances []domain.BalanceSnapshot) error
}

// TransactionLedger tracks primitive transaction ids that were applied.
type TransactionLedger interface {
	Contains(ctx context.Context, id domain.TransactionID) (bool, error)
	// Record stores id. Recording an id twice is a no-op.
	Record(ctx context.Context, id domain.TransactionID) error
}
