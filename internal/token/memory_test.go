package token

import (
	"context"
	"testing"

	"lottx-server/internal/lottery"
)

const (
	pool  = lottery.Account("pool")
	alice = lottery.Account("alice")
	bob   = lottery.Account("bob")
)

func TestMintAndBalance(t *testing.T) {
	m := NewMemory(pool)
	ctx := context.Background()

	if err := m.Mint(ctx, alice, 500); err != nil {
		t.Fatalf("mint: %v", err)
	}
	if err := m.Mint(ctx, alice, 250); err != nil {
		t.Fatalf("mint: %v", err)
	}
	b, err := m.BalanceOf(ctx, alice)
	if err != nil || b != 750 {
		t.Fatalf("balance = %d, err = %v, want 750", b, err)
	}
	if err := m.Mint(ctx, alice, 0); err == nil {
		t.Fatal("mint of zero should fail")
	}
	if err := m.Mint(ctx, alice, -5); err == nil {
		t.Fatal("negative mint should fail")
	}
}

func TestTransferFromPool(t *testing.T) {
	m := NewMemory(pool)
	ctx := context.Background()

	if err := m.Transfer(ctx, alice, 10); err == nil {
		t.Fatal("transfer from empty pool should fail")
	}
	if err := m.Mint(ctx, pool, 100); err != nil {
		t.Fatalf("mint: %v", err)
	}
	if err := m.Transfer(ctx, alice, 60); err != nil {
		t.Fatalf("transfer: %v", err)
	}
	pb, _ := m.BalanceOf(ctx, pool)
	ab, _ := m.BalanceOf(ctx, alice)
	if pb != 40 || ab != 60 {
		t.Fatalf("pool=%d alice=%d, want 40/60", pb, ab)
	}
}

func TestTransferFromConsumesAllowance(t *testing.T) {
	m := NewMemory(pool)
	ctx := context.Background()

	if err := m.Mint(ctx, alice, 100); err != nil {
		t.Fatalf("mint: %v", err)
	}

	// no allowance yet
	if err := m.TransferFrom(ctx, alice, bob, 10); err == nil {
		t.Fatal("transferFrom without allowance should fail")
	}

	m.Approve(alice, bob, 50)
	if err := m.TransferFrom(ctx, alice, bob, 30); err != nil {
		t.Fatalf("transferFrom: %v", err)
	}
	// remaining allowance is 20
	if err := m.TransferFrom(ctx, alice, bob, 30); err == nil {
		t.Fatal("transferFrom beyond remaining allowance should fail")
	}
	if err := m.TransferFrom(ctx, alice, bob, 20); err != nil {
		t.Fatalf("transferFrom: %v", err)
	}

	ab, _ := m.BalanceOf(ctx, alice)
	bb, _ := m.BalanceOf(ctx, bob)
	if ab != 50 || bb != 50 {
		t.Fatalf("alice=%d bob=%d, want 50/50", ab, bb)
	}
}

func TestTransferFromInsufficientBalance(t *testing.T) {
	m := NewMemory(pool)
	ctx := context.Background()

	m.Approve(alice, bob, 1000)
	if err := m.TransferFrom(ctx, alice, bob, 100); err == nil {
		t.Fatal("transferFrom without balance should fail")
	}
	// allowance must not be consumed on failure
	if err := m.Mint(ctx, alice, 100); err != nil {
		t.Fatalf("mint: %v", err)
	}
	if err := m.TransferFrom(ctx, alice, bob, 100); err != nil {
		t.Fatalf("transferFrom after funding: %v", err)
	}
}
