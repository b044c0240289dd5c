package domain

import "sort"

// WalletRegistry maps client ids to wallets, creating them on first use.
// It is not safe for concurrent use.
type WalletRegistry struct {
	wallets map[ClientID]*Wallet
}

// NewWalletRegistry creates an empty registry.
func NewWalletRegistry() *WalletRegistry {
	return &WalletRegistry{
		wallets: make(map[ClientID]*Wallet),
	}
}

// GetOrCreate returns the wallet for clientID. created is true when the
// wallet did not exist before the call.
func (r *WalletRegistry) GetOrCreate(clientID ClientID) (wallet *Wallet, created bool) {
	if w, ok := r.wallets[clientID]; ok {
		return w, false
	}
	w := NewWallet(clientID)
	r.wallets[clientID] = w
	return w, true
}

// Get returns the wallet for clientID without creating it.
func (r *WalletRegistry) Get(clientID ClientID) (*Wallet, bool) {
	w, ok := r.wallets[clientID]
	return w, ok
}

// Len returns the number of wallets.
func (r *WalletRegistry) Len() int {
	return len(r.wallets)
}

// Each calls fn for every wallet in ascending client id order.
func (r *WalletRegistry) Each(fn func(*Wallet)) {
	ids := make([]ClientID, 0, len(r.wallets))
	for id := range r.wallets {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	for _, id := range ids {
		fn(r.wallets[id])
	}
}

// Snapshots returns the state of every wallet, ordered by client id.
func (r *WalletRegistry) Snapshots() []BalanceSnapshot {
	out := make([]BalanceSnapshot, 0, len(r.wallets))
	r.Each(func(w *Wallet) {
		out = append(out, w.Snapshot())
	})
	return out
}
