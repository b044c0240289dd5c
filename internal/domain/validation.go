package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// ValidateAmount checks the amount carried by a primitive transaction.
func ValidateAmount(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return fmt.Errorf("%w: got %s", ErrInvalidAmount, amount.String())
	}
	return nil
}

// Validate checks the fields the engine relies on before dispatching tx.
func (t Transaction) Validate() error {
	switch t.Kind {
	case KindDeposit, KindWithdrawal:
		return ValidateAmount(t.Amount)
	case KindDispute, KindResolve, KindChargeback:
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnknownKind, string(t.Kind))
	}
}
