package memory

import (
	"context"
	"sync"

	"github.com/iho/payengine/internal/domain"
)

// Ledger implements usecase.TransactionLedger with an in-process set.
type Ledger struct {
	mu  sync.RWMutex
	ids map[domain.TransactionID]struct{}
}

// NewLedger creates an empty Ledger.
func NewLedger() *Ledger {
	return &Ledger{
		ids: make(map[domain.TransactionID]struct{}),
	}
}

// Contains reports whether id was recorded.
func (l *Ledger) Contains(_ context.Context, id domain.TransactionID) (bool, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	_, ok := l.ids[id]
	return ok, nil
}

// Record stores id. Recording a known id does nothing.
func (l *Ledger) Record(_ context.Context, id domain.TransactionID) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.ids[id] = struct{}{}
	return nil
}

// Len returns the number of recorded ids.
func (l *Ledger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.ids)
}
