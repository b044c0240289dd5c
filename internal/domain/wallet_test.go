package domain

import (
	"testing"

	"github.com/shopspring/decimal"
)

func walletWithFunds(funds string) *Wallet {
	w := NewWallet(1)
	w.Credit(decimal.RequireFromString(funds))
	return w
}

func assertBalances(t *testing.T, w *Wallet, available, held, total string) {
	t.Helper()

	if !w.Available.Equal(decimal.RequireFromString(available)) {
		t.Errorf("expected available %s, got %s", available, w.Available)
	}
	if !w.Held.Equal(decimal.RequireFromString(held)) {
		t.Errorf("expected held %s, got %s", held, w.Held)
	}
	if !w.Total.Equal(decimal.RequireFromString(total)) {
		t.Errorf("expected total %s, got %s", total, w.Total)
	}
	if !w.Total.Equal(w.Available.Add(w.Held)) {
		t.Errorf("total %s != available %s + held %s", w.Total, w.Available, w.Held)
	}
}

func TestWallet_Credit(t *testing.T) {
	w := NewWallet(1)
	w.Credit(decimal.RequireFromString("1.88889"))

	assertBalances(t, w, "1.88889", "0", "1.88889")
}

func TestWallet_Debit(t *testing.T) {
	tests := []struct {
		name        string
		funds       string
		amount      string
		expectError bool
		available   string
	}{
		{name: "no funds", funds: "0", amount: "1.88889", expectError: true, available: "0"},
		{name: "more than available", funds: "19", amount: "50.9", expectError: true, available: "19"},
		{name: "exact balance", funds: "19", amount: "19", available: "0"},
		{name: "partial", funds: "19", amount: "10.9", available: "8.1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := walletWithFunds(tt.funds)

			err := w.Debit(decimal.RequireFromString(tt.amount))

			if tt.expectError && err != ErrInsufficientFunds {
				t.Fatalf("expected ErrInsufficientFunds, got %v", err)
			}
			if !tt.expectError && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			assertBalances(t, w, tt.available, "0", tt.available)
		})
	}
}

func TestWallet_Hold(t *testing.T) {
	w := walletWithFunds("19")

	if err := w.Hold(decimal.NewFromInt(10)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertBalances(t, w, "9", "10", "19")

	if err := w.Hold(decimal.NewFromInt(10)); err != ErrInsufficientFunds {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}
	assertBalances(t, w, "9", "10", "19")
}

func TestWallet_Release(t *testing.T) {
	w := walletWithFunds("19")

	if err := w.Release(decimal.NewFromInt(10)); err != ErrInsufficientFunds {
		t.Fatalf("expected ErrInsufficientFunds with nothing held, got %v", err)
	}

	if err := w.Hold(decimal.NewFromInt(10)); err != nil {
		t.Fatalf("hold failed: %v", err)
	}
	if err := w.Release(decimal.NewFromInt(10)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertBalances(t, w, "19", "0", "19")
}

func TestWallet_Confiscate(t *testing.T) {
	w := walletWithFunds("19")

	if err := w.Confiscate(decimal.NewFromInt(1)); err != ErrInsufficientFunds {
		t.Fatalf("expected ErrInsufficientFunds with nothing held, got %v", err)
	}

	if err := w.Hold(decimal.NewFromInt(10)); err != nil {
		t.Fatalf("hold failed: %v", err)
	}
	if err := w.Confiscate(decimal.NewFromInt(10)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertBalances(t, w, "9", "0", "9")
}

func TestWallet_RecordAndLookup(t *testing.T) {
	w := NewWallet(7)
	tx := Transaction{Kind: KindDeposit, ClientID: 7, ID: 42, Amount: decimal.NewFromInt(5)}

	w.Record(tx)

	got, ok := w.Lookup(42)
	if !ok {
		t.Fatal("expected recorded transaction to be found")
	}
	if got.UnderDispute {
		t.Error("new transaction must not be under dispute")
	}
	if !got.Amount.Equal(tx.Amount) {
		t.Errorf("expected amount %s, got %s", tx.Amount, got.Amount)
	}
	if _, ok := w.Lookup(43); ok {
		t.Error("unexpected transaction 43")
	}
	if w.IssuedCount() != 1 {
		t.Errorf("expected 1 issued transaction, got %d", w.IssuedCount())
	}
}

func TestWallet_RecordTwicePanics(t *testing.T) {
	w := NewWallet(1)
	tx := Transaction{Kind: KindDeposit, ClientID: 1, ID: 1, Amount: decimal.NewFromInt(1)}
	w.Record(tx)

	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on duplicate record")
		}
	}()
	w.Record(tx)
}

func TestWallet_LockIsIdempotent(t *testing.T) {
	w := NewWallet(1)
	w.Lock()
	w.Lock()

	if !w.Locked {
		t.Fatal("expected wallet to be locked")
	}
}

func TestWallet_SnapshotRounds(t *testing.T) {
	w := walletWithFunds("1.23456")
	if err := w.Hold(decimal.RequireFromString("0.00005")); err != nil {
		t.Fatalf("hold failed: %v", err)
	}

	s := w.Snapshot()

	if s.Available.String() != "1.2345" {
		t.Errorf("expected available 1.2345, got %s", s.Available)
	}
	if s.Held.String() != "0.0001" {
		t.Errorf("expected held 0.0001, got %s", s.Held)
	}
	if s.Total.String() != "1.2346" {
		t.Errorf("expected total 1.2346, got %s", s.Total)
	}
}

func TestWallet_RepeatedCycleHasNoDrift(t *testing.T) {
	w := NewWallet(1)
	amount := decimal.RequireFromString("0.1")

	for i := 0; i < 1000; i++ {
		w.Credit(amount)
	}
	for i := 0; i < 1000; i++ {
		if err := w.Debit(amount); err != nil {
			t.Fatalf("debit %d failed: %v", i, err)
		}
	}

	assertBalances(t, w, "0", "0", "0")
}

func TestWallet_DisputedAmount(t *testing.T) {
	w := NewWallet(1)
	w.Record(Transaction{Kind: KindDeposit, ClientID: 1, ID: 1, Amount: decimal.NewFromInt(3)})
	w.Record(Transaction{Kind: KindDeposit, ClientID: 1, ID: 2, Amount: decimal.RequireFromString("0.25")})
	w.Record(Transaction{Kind: KindWithdrawal, ClientID: 1, ID: 3, Amount: decimal.NewFromInt(1)})

	if !w.DisputedAmount().IsZero() {
		t.Fatalf("expected nothing disputed, got %s", w.DisputedAmount())
	}

	for _, id := range []TransactionID{1, 2} {
		tx, _ := w.Lookup(id)
		tx.UnderDispute = true
	}

	if got := w.DisputedAmount(); !got.Equal(decimal.RequireFromString("3.25")) {
		t.Fatalf("expected 3.25 disputed, got %s", got)
	}
}
