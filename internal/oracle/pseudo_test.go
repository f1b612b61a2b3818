package oracle

import (
	"context"
	"testing"
	"time"
)

func TestDeriveIsDeterministic(t *testing.T) {
	p := NewPseudo("seed-a", 0, 1)

	a := p.Derive(1, 10)
	b := p.Derive(1, 10)
	if a != b {
		t.Fatalf("Derive not deterministic: %d != %d", a, b)
	}
	if p.Derive(2, 10) == a {
		t.Fatal("different request ids should derive different values")
	}
	if p.Derive(1, 11) == a {
		t.Fatal("different round ids should derive different values")
	}

	other := NewPseudo("seed-b", 0, 1)
	if other.Derive(1, 10) == a {
		t.Fatal("different seeds should derive different values")
	}
}

func TestProofHashFormat(t *testing.T) {
	p := NewPseudo("seed", 0, 1)
	h := p.ProofHash(1, 1)
	if len(h) != 64 {
		t.Fatalf("proof hash length = %d, want 64 hex chars", len(h))
	}
	if h != p.ProofHash(1, 1) {
		t.Fatal("proof hash not deterministic")
	}
}

func TestRequestDeliversFulfillment(t *testing.T) {
	p := NewPseudo("seed", 0, 1)

	id, err := p.Request(context.Background(), 7)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if id != 1 {
		t.Fatalf("first request id = %d, want 1", id)
	}

	select {
	case f := <-p.Fulfillments():
		if f.RequestID != id {
			t.Fatalf("fulfillment request id = %d, want %d", f.RequestID, id)
		}
		if f.RawRandom != p.Derive(id, 7) {
			t.Fatal("fulfillment raw random does not match Derive")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for fulfillment")
	}
}

func TestRequestAssignsSequentialIDs(t *testing.T) {
	p := NewPseudo("seed", 0, 1)
	for want := uint64(1); want <= 5; want++ {
		id, err := p.Request(context.Background(), 1)
		if err != nil {
			t.Fatalf("request: %v", err)
		}
		if id != want {
			t.Fatalf("request id = %d, want %d", id, want)
		}
	}
}
