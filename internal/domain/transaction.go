package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ClientID identifies a single account holder.
type ClientID uint16

// TransactionID is unique across every client in a stream.
type TransactionID uint32

// TransactionKind is the type of a transaction record.
type TransactionKind string

const (
	KindDeposit    TransactionKind = "deposit"
	KindWithdrawal TransactionKind = "withdrawal"
	KindDispute    TransactionKind = "dispute"
	KindResolve    TransactionKind = "resolve"
	KindChargeback TransactionKind = "chargeback"
)

// AllKinds lists every supported kind in a stable order.
var AllKinds = []TransactionKind{
	KindDeposit,
	KindWithdrawal,
	KindDispute,
	KindResolve,
	KindChargeback,
}

// ParseTransactionKind parses a kind, ignoring case and surrounding whitespace.
func ParseTransactionKind(s string) (TransactionKind, error) {
	kind := TransactionKind(strings.ToLower(strings.TrimSpace(s)))
	for _, k := range AllKinds {
		if k == kind {
			return kind, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// IsPrimitive reports whether the kind carries its own amount and creates
// new ledger entries (deposit and withdrawal).
func (k TransactionKind) IsPrimitive() bool {
	return k == KindDeposit || k == KindWithdrawal
}

func (k TransactionKind) String() string {
	return string(k)
}

// Transaction is a single record from the input stream.
// Amount is only meaningful for primitive kinds.
type Transaction struct {
	Kind     TransactionKind
	ClientID ClientID
	ID       TransactionID
	Amount   decimal.Decimal
}

// RecordedTransaction is a primitive transaction that was applied to a wallet.
// UnderDispute is the only field mutated after it is recorded.
type RecordedTransaction struct {
	Transaction
	UnderDispute bool
}
