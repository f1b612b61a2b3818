package registry

import (
	"errors"
	"testing"

	"lottx-server/internal/lottery"
)

const (
	alice = lottery.Account("alice")
	bob   = lottery.Account("bob")
)

func TestMintAndGet(t *testing.T) {
	m := NewMemory()

	id1, err := m.Mint(1, alice, []uint8{1, 2, 3})
	if err != nil {
		t.Fatalf("mint: %v", err)
	}
	id2, err := m.Mint(1, alice, []uint8{4, 5, 6})
	if err != nil {
		t.Fatalf("mint: %v", err)
	}
	if id1 != 1 || id2 != 2 {
		t.Fatalf("ids = %d,%d, want 1,2", id1, id2)
	}

	tk, err := m.Get(id1)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if tk.RoundID != 1 || tk.Owner != alice || tk.Claimed {
		t.Fatalf("unexpected ticket: %+v", tk)
	}
	if len(tk.Numbers) != 3 || tk.Numbers[0] != 1 {
		t.Fatalf("unexpected numbers: %v", tk.Numbers)
	}

	// returned copy must not alias internal storage
	tk.Numbers[0] = 99
	again, _ := m.Get(id1)
	if again.Numbers[0] != 1 {
		t.Fatal("Get leaked internal numbers slice")
	}
}

func TestGetNotFound(t *testing.T) {
	m := NewMemory()
	if _, err := m.Get(0); !errors.Is(err, lottery.ErrTicketNotFound) {
		t.Fatalf("got %v, want ErrTicketNotFound", err)
	}
	if _, err := m.Get(7); !errors.Is(err, lottery.ErrTicketNotFound) {
		t.Fatalf("got %v, want ErrTicketNotFound", err)
	}
}

func TestTicketsOfIsPerRoundAndOwner(t *testing.T) {
	m := NewMemory()
	a1, _ := m.Mint(1, alice, []uint8{1})
	_, _ = m.Mint(2, alice, []uint8{2})
	_, _ = m.Mint(1, bob, []uint8{3})
	a2, _ := m.Mint(1, alice, []uint8{4})

	ids := m.TicketsOf(1, alice)
	if len(ids) != 2 || ids[0] != a1 || ids[1] != a2 {
		t.Fatalf("TicketsOf(1, alice) = %v, want [%d %d]", ids, a1, a2)
	}
	if got := m.TicketsOf(3, alice); len(got) != 0 {
		t.Fatalf("TicketsOf for empty round = %v", got)
	}
}

func TestTransferMovesOwnershipAndIndex(t *testing.T) {
	m := NewMemory()
	id, _ := m.Mint(1, alice, []uint8{1, 2})

	if err := m.Transfer(id, bob, alice); !errors.Is(err, lottery.ErrNotTicketOwner) {
		t.Fatalf("transfer by non-owner: got %v, want ErrNotTicketOwner", err)
	}
	if err := m.Transfer(id, alice, bob); err != nil {
		t.Fatalf("transfer: %v", err)
	}

	tk, _ := m.Get(id)
	if tk.Owner != bob {
		t.Fatalf("owner = %s, want bob", tk.Owner)
	}
	if got := m.TicketsOf(1, alice); len(got) != 0 {
		t.Fatalf("alice still indexed: %v", got)
	}
	if got := m.TicketsOf(1, bob); len(got) != 1 || got[0] != id {
		t.Fatalf("bob index = %v, want [%d]", got, id)
	}
}

func TestMarkClaimed(t *testing.T) {
	m := NewMemory()
	id, _ := m.Mint(1, alice, []uint8{1})

	if err := m.MarkClaimed(id); err != nil {
		t.Fatalf("markClaimed: %v", err)
	}
	tk, _ := m.Get(id)
	if !tk.Claimed {
		t.Fatal("ticket not marked claimed")
	}
	if err := m.MarkClaimed(42); !errors.Is(err, lottery.ErrTicketNotFound) {
		t.Fatalf("got %v, want ErrTicketNotFound", err)
	}
}
