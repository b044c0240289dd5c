package memory

import (
	"context"
	"testing"
)

func TestLedger_RecordAndContains(t *testing.T) {
	ctx := context.Background()
	l := NewLedger()

	seen, err := l.Contains(ctx, 1)
	if err != nil || seen {
		t.Fatalf("expected empty ledger, got seen=%v err=%v", seen, err)
	}

	if err := l.Record(ctx, 1); err != nil {
		t.Fatalf("record failed: %v", err)
	}

	seen, err = l.Contains(ctx, 1)
	if err != nil || !seen {
		t.Fatalf("expected id 1 to be recorded, got seen=%v err=%v", seen, err)
	}
}

func TestLedger_RecordTwiceIsNoop(t *testing.T) {
	ctx := context.Background()
	l := NewLedger()

	for i := 0; i < 2; i++ {
		if err := l.Record(ctx, 7); err != nil {
			t.Fatalf("record %d failed: %v", i, err)
		}
	}

	if l.Len() != 1 {
		t.Fatalf("expected 1 recorded id, got %d", l.Len())
	}
}
