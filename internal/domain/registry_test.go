package domain

import "testing"

func TestWalletRegistry_GetOrCreate(t *testing.T) {
	r := NewWalletRegistry()

	w, created := r.GetOrCreate(3)
	if !created || w.ClientID != 3 {
		t.Fatalf("expected new wallet for client 3, got created=%v client=%d", created, w.ClientID)
	}

	again, created := r.GetOrCreate(3)
	if created || again != w {
		t.Fatal("expected the same wallet on second lookup")
	}

	if _, ok := r.Get(4); ok {
		t.Fatal("Get must not create wallets")
	}
	if r.Len() != 1 {
		t.Fatalf("expected 1 wallet, got %d", r.Len())
	}
}

func TestWalletRegistry_SnapshotsAreOrdered(t *testing.T) {
	r := NewWalletRegistry()
	for _, id := range []ClientID{65535, 2, 0, 17} {
		r.GetOrCreate(id)
	}

	snaps := r.Snapshots()
	want := []ClientID{0, 2, 17, 65535}
	if len(snaps) != len(want) {
		t.Fatalf("expected %d snapshots, got %d", len(want), len(snaps))
	}
	for i, id := range want {
		if snaps[i].ClientID != id {
			t.Fatalf("snapshot %d: expected client %d, got %d", i, id, snaps[i].ClientID)
		}
	}

	var visited []ClientID
	r.Each(func(w *Wallet) { visited = append(visited, w.ClientID) })
	for i, id := range want {
		if visited[i] != id {
			t.Fatalf("Each %d: expected client %d, got %d", i, id, visited[i])
		}
	}
}

func TestWalletRegistry_EmptySnapshots(t *testing.T) {
	if snaps := NewWalletRegistry().Snapshots(); len(snaps) != 0 {
		t.Fatalf("expected no snapshots, got %d", len(snaps))
	}
}
