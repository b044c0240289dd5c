package domain

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseTransactionKind(t *testing.T) {
	tests := []struct {
		input       string
		want        TransactionKind
		expectError bool
	}{
		{input: "deposit", want: KindDeposit},
		{input: " Withdrawal ", want: KindWithdrawal},
		{input: "DISPUTE", want: KindDispute},
		{input: "resolve", want: KindResolve},
		{input: "chargeback", want: KindChargeback},
		{input: "transfer", expectError: true},
		{input: "", expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseTransactionKind(tt.input)

			if tt.expectError {
				if !errors.Is(err, ErrUnknownKind) {
					t.Fatalf("expected ErrUnknownKind, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("ParseTransactionKind(%q) = %s, want %s", tt.input, got, tt.want)
			}
		})
	}
}

func TestTransactionKind_IsPrimitive(t *testing.T) {
	primitive := map[TransactionKind]bool{
		KindDeposit:    true,
		KindWithdrawal: true,
		KindDispute:    false,
		KindResolve:    false,
		KindChargeback: false,
	}

	for kind, want := range primitive {
		if got := kind.IsPrimitive(); got != want {
			t.Errorf("%s.IsPrimitive() = %v, want %v", kind, got, want)
		}
	}
}

func TestTransaction_Validate(t *testing.T) {
	tests := []struct {
		name    string
		tx      Transaction
		wantErr error
	}{
		{
			name: "deposit with positive amount",
			tx:   Transaction{Kind: KindDeposit, Amount: decimal.NewFromInt(1)},
		},
		{
			name: "withdrawal with zero amount",
			tx:   Transaction{Kind: KindWithdrawal, Amount: decimal.Zero},
		},
		{
			name:    "negative deposit",
			tx:      Transaction{Kind: KindDeposit, Amount: decimal.NewFromInt(-1)},
			wantErr: ErrInvalidAmount,
		},
		{
			name: "dispute ignores amount",
			tx:   Transaction{Kind: KindDispute, Amount: decimal.NewFromInt(-1)},
		},
		{
			name:    "unknown kind",
			tx:      Transaction{Kind: "refund"},
			wantErr: ErrUnknownKind,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.tx.Validate()

			if tt.wantErr == nil && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestRejectionError(t *testing.T) {
	tx := Transaction{Kind: KindDispute, ClientID: 3, ID: 9}
	err := Reject(tx, ErrMultipleDispute)

	if !errors.Is(err, ErrMultipleDispute) {
		t.Fatal("expected rejection to unwrap to ErrMultipleDispute")
	}

	want := "dispute tx 9 for client 3 rejected: transaction already under dispute"
	if err.Error() != want {
		t.Errorf("unexpected message %q", err.Error())
	}

	if reason := RejectionReason(err); reason != "multiple_dispute" {
		t.Errorf("expected reason multiple_dispute, got %s", reason)
	}
	if reason := RejectionReason(errors.New("boom")); reason != "other" {
		t.Errorf("expected reason other, got %s", reason)
	}
}
