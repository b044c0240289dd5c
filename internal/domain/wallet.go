package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// SnapshotPrecision is the number of decimal places kept in balance reports.
const SnapshotPrecision = 4

// Wallet holds the balances of a single client together with the primitive
// transactions that client issued.
//
// Every mutation touches exactly the pair of fields that keeps
// Total == Available + Held. Amounts are expected to be non-negative; the
// engine validates them before they reach the wallet. The wallet does not
// enforce Locked itself.
type Wallet struct {
	ClientID  ClientID
	Available decimal.Decimal
	Held      decimal.Decimal
	Total     decimal.Decimal
	Locked    bool

	issued map[TransactionID]*RecordedTransaction
}

// NewWallet returns an empty, unlocked wallet.
func NewWallet(clientID ClientID) *Wallet {
	return &Wallet{
		ClientID:  clientID,
		Available: decimal.Zero,
		Held:      decimal.Zero,
		Total:     decimal.Zero,
		issued:    make(map[TransactionID]*RecordedTransaction),
	}
}

// Credit adds amount to the available and total balances.
func (w *Wallet) Credit(amount decimal.Decimal) {
	w.Available = w.Available.Add(amount)
	w.Total = w.Total.Add(amount)
}

// Debit removes amount from the available and total balances.
func (w *Wallet) Debit(amount decimal.Decimal) error {
	if amount.GreaterThan(w.Available) {
		return ErrInsufficientFunds
	}
	w.Available = w.Available.Sub(amount)
	w.Total = w.Total.Sub(amount)
	return nil
}

// Hold moves amount from available to held funds.
func (w *Wallet) Hold(amount decimal.Decimal) error {
	if amount.GreaterThan(w.Available) {
		return ErrInsufficientFunds
	}
	w.Available = w.Available.Sub(amount)
	w.Held = w.Held.Add(amount)
	return nil
}

// Release moves amount from held back to available funds.
func (w *Wallet) Release(amount decimal.Decimal) error {
	if amount.GreaterThan(w.Held) {
		return ErrInsufficientFunds
	}
	w.Held = w.Held.Sub(amount)
	w.Available = w.Available.Add(amount)
	return nil
}

// Confiscate permanently removes amount from held funds.
// Available is untouched: the funds left it when they were held.
func (w *Wallet) Confiscate(amount decimal.Decimal) error {
	if amount.GreaterThan(w.Held) {
		return ErrInsufficientFunds
	}
	w.Held = w.Held.Sub(amount)
	w.Total = w.Total.Sub(amount)
	return nil
}

// Record stores tx as issued by this wallet. Recording the same id twice
// means the duplicate guard upstream is broken, so it panics.
func (w *Wallet) Record(tx Transaction) {
	if _, ok := w.issued[tx.ID]; ok {
		panic(fmt.Sprintf("wallet %d: transaction %d recorded twice", w.ClientID, tx.ID))
	}
	w.issued[tx.ID] = &RecordedTransaction{Transaction: tx}
}

// Lookup returns the transaction with the given id if this wallet issued it.
func (w *Wallet) Lookup(id TransactionID) (*RecordedTransaction, bool) {
	tx, ok := w.issued[id]
	return tx, ok
}

// IssuedCount returns the number of recorded transactions.
func (w *Wallet) IssuedCount() int {
	return len(w.issued)
}

// DisputedAmount sums the amounts of transactions currently under dispute.
// It always equals Held.
func (w *Wallet) DisputedAmount() decimal.Decimal {
	sum := decimal.Zero
	for _, tx := range w.issued {
		if tx.UnderDispute {
			sum = sum.Add(tx.Amount)
		}
	}
	return sum
}

// Lock marks the wallet as terminal.
func (w *Wallet) Lock() {
	w.Locked = true
}

// BalanceSnapshot is the reported state of a wallet.
type BalanceSnapshot struct {
	ClientID  ClientID
	Available decimal.Decimal
	Held      decimal.Decimal
	Total     decimal.Decimal
	Locked    bool
}

// Snapshot returns the wallet balances rounded to SnapshotPrecision places.
func (w *Wallet) Snapshot() BalanceSnapshot {
	return BalanceSnapshot{
		ClientID:  w.ClientID,
		Available: w.Available.Round(SnapshotPrecision),
		Held:      w.Held.Round(SnapshotPrecision),
		Total:     w.Total.Round(SnapshotPrecision),
		Locked:    w.Locked,
	}
}
