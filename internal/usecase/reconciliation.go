package usecase

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/payengine/internal/domain"
)

// Discrepancy describes a wallet whose balances break an invariant.
type Discrepancy struct {
	ClientID domain.ClientID
	Reason   string
}

// ReconciliationReport is the result of checking every wallet.
type ReconciliationReport struct {
	TotalWallets      int
	ReconciledWallets int
	Discrepancies     []Discrepancy
	CheckedAt         time.Time
}

// Consistent reports whether no discrepancy was found.
func (r *ReconciliationReport) Consistent() bool {
	return len(r.Discrepancies) == 0
}

// Reconcile checks the balance invariants of every wallet in registry:
// total equals available plus held, neither is negative, and held equals
// the sum of the transactions under dispute.
func Reconcile(registry *domain.WalletRegistry) *ReconciliationReport {
	report := &ReconciliationReport{
		Discrepancies: make([]Discrepancy, 0),
		CheckedAt:     time.Now().UTC(),
	}

	registry.Each(func(w *domain.Wallet) {
		report.TotalWallets++

		reason := checkWallet(w)
		if reason == "" {
			report.ReconciledWallets++
			return
		}
		report.Discrepancies = append(report.Discrepancies, Discrepancy{ClientID: w.ClientID, Reason: reason})
	})

	return report
}

func checkWallet(w *domain.Wallet) string {
	switch {
	case !w.Total.Equal(w.Available.Add(w.Held)):
		return fmt.Sprintf("total %s != available %s + held %s", w.Total, w.Available, w.Held)
	case w.Available.LessThan(decimal.Zero):
		return fmt.Sprintf("negative available %s", w.Available)
	case w.Held.LessThan(decimal.Zero):
		return fmt.Sprintf("negative held %s", w.Held)
	}

	if disputed := w.DisputedAmount(); !disputed.Equal(w.Held) {
		return fmt.Sprintf("held %s != disputed %s", w.Held, disputed)
	}
	return ""
}

// Reconcile checks the wallets touched so far and logs every discrepancy.
// It returns ErrInconsistentWallets when any wallet fails a check.
func (e *Engine) Reconcile() (*ReconciliationReport, error) {
	report := Reconcile(e.registry)

	for _, d := range report.Discrepancies {
		e.logger.Error().
			Uint16("client", uint16(d.ClientID)).
			Str("reason", d.Reason).
			Msg("wallet failed reconciliation")
	}

	if !report.Consistent() {
		return report, fmt.Errorf("%w: %d of %d wallets", ErrInconsistentWallets, len(report.Discrepancies), report.TotalWallets)
	}

	e.logger.Debug().Int("wallets", report.TotalWallets).Msg("wallets reconciled")
	return report, nil
}
