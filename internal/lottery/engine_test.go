package lottery_test

import (
	"context"
	"testing"
	"time"

	"lottx-server/internal/clock"
	"lottx-server/internal/lottery"
	"lottx-server/internal/registry"
	"lottx-server/internal/token"
)

const (
	adminAcct = lottery.Account("admin")
	poolAcct  = lottery.Account("pool")
	alice     = lottery.Account("alice")
	bob       = lottery.Account("bob")
)

// stubOracle records requests and never delivers on its own; tests feed
// results back through Engine.FulfillDraw directly.
type stubOracle struct {
	nextID uint64
	rounds map[uint64]uint64
	err    error
}

func (o *stubOracle) Request(ctx context.Context, roundID uint64) (uint64, error) {
	if o.err != nil {
		return 0, o.err
	}
	o.nextID++
	if o.rounds == nil {
		o.rounds = make(map[uint64]uint64)
	}
	o.rounds[o.nextID] = roundID
	return o.nextID, nil
}

type fixture struct {
	eng *lottery.Engine
	clk *clock.Fake
	tok *token.Memory
	reg *registry.Memory
	orc *stubOracle
}

func newFixture(t *testing.T, p lottery.Params) *fixture {
	t.Helper()
	f := &fixture{
		clk: clock.NewFake(time.UnixMilli(1_000)),
		tok: token.NewMemory(poolAcct),
		reg: registry.NewMemory(),
		orc: &stubOracle{},
	}
	f.eng = lottery.New(adminAcct, poolAcct, p, f.clk, f.tok, f.reg, f.orc)
	return f
}

func defaultParams() lottery.Params {
	return lottery.Params{DigitCount: 4, DigitRange: 50, MaxTicketsPerBatch: 100}
}

// evenSplit returns a distribution of n brackets summing to 10000.
func evenSplit(n int) []uint64 {
	out := make([]uint64, n)
	each := uint64(lottery.BasisPointTotal / n)
	for i := range out {
		out[i] = each
	}
	out[n-1] += lottery.BasisPointTotal - each*uint64(n)
	return out
}

// fundBuyer mints balance to the buyer and approves the pool account to
// pull it (purchase uses TransferFrom with the pool as spender).
func fundBuyer(t *testing.T, f *fixture, buyer lottery.Account, amount int64) {
	t.Helper()
	if err := f.tok.Mint(context.Background(), buyer, amount); err != nil {
		t.Fatalf("fund buyer: %v", err)
	}
	f.tok.Approve(buyer, poolAcct, amount)
}

// openRound creates a round as admin with start == now and end one
// minute later, failing the test on error.
func openRound(t *testing.T, f *fixture, dist []uint64, prizePool, ticketCost int64) lottery.Round {
	t.Helper()
	now := f.clk.Now().UnixMilli()
	r, err := f.eng.CreateRound(adminAcct, dist, prizePool, ticketCost, now, now+60_000)
	if err != nil {
		t.Fatalf("create round: %v", err)
	}
	return r
}

func balanceOf(t *testing.T, f *fixture, a lottery.Account) int64 {
	t.Helper()
	b, err := f.tok.BalanceOf(context.Background(), a)
	if err != nil {
		t.Fatalf("balance of %s: %v", a, err)
	}
	return b
}
