package usecase

import "errors"

var (
	// ErrSourceFailed wraps failures of the record source. They abort a run.
	ErrSourceFailed = errors.New("transaction source failed")
	// ErrSinkFailed wraps failures of the balance writer.
	ErrSinkFailed = errors.New("balance writer failed")
	// ErrLedgerFailed wraps failures of the transaction ledger backend.
	ErrLedgerFailed = errors.New("transaction ledger failed")
)

// ErrInconsistentWallets is returned when a wallet breaks a balance invariant
// after a run.
var ErrInconsistentWallets = errors.New("wallet balances are inconsistent")
