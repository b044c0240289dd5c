package domain

import (
	"errors"
	"fmt"
)

var (
	// Wallet errors
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrWalletLocked      = errors.New("wallet is locked")

	// Reference transaction errors
	ErrAccessViolation      = errors.New("transaction not issued by client")
	ErrMultipleDispute      = errors.New("transaction already under dispute")
	ErrResolveUndisputed    = errors.New("cannot resolve transaction that is not under dispute")
	ErrChargebackUndisputed = errors.New("cannot charge back transaction that is not under dispute")

	// Record errors
	ErrInvalidAmount = errors.New("amount must not be negative")
	ErrUnknownKind   = errors.New("unknown transaction kind")
)

// RejectionError describes why a single record was not applied.
type RejectionError struct {
	Kind     TransactionKind
	ClientID ClientID
	TxID     TransactionID
	Err      error
}

func (e *RejectionError) Error() string {
	return fmt.Sprintf("%s tx %d for client %d rejected: %v", e.Kind, e.TxID, e.ClientID, e.Err)
}

func (e *RejectionError) Unwrap() error {
	return e.Err
}

// Reject wraps err with the identity of the rejected transaction.
func Reject(tx Transaction, err error) *RejectionError {
	return &RejectionError{
		Kind:     tx.Kind,
		ClientID: tx.ClientID,
		TxID:     tx.ID,
		Err:      err,
	}
}

// RejectionReason returns a short label for err, suitable for metrics.
func RejectionReason(err error) string {
	switch {
	case errors.Is(err, ErrInsufficientFunds):
		return "insufficient_funds"
	case errors.Is(err, ErrWalletLocked):
		return "wallet_locked"
	case errors.Is(err, ErrAccessViolation):
		return "access_violation"
	case errors.Is(err, ErrMultipleDispute):
		return "multiple_dispute"
	case errors.Is(err, ErrResolveUndisputed):
		return "resolve_undisputed"
	case errors.Is(err, ErrChargebackUndisputed):
		return "chargeback_undisputed"
	case errors.Is(err, ErrInvalidAmount):
		return "invalid_amount"
	case errors.Is(err, ErrUnknownKind):
		return "unknown_kind"
	default:
		return "other"
	}
}
