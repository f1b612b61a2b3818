package lottery_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"lottx-server/internal/lottery"
)

func TestQuote(t *testing.T) {
	f := newFixture(t, defaultParams())
	r := openRound(t, f, evenSplit(4), 1000, 10)

	cost, err := f.eng.Quote(r.ID, 7)
	if err != nil {
		t.Fatalf("quote: %v", err)
	}
	if cost != 70 {
		t.Fatalf("quote = %d, want 70", cost)
	}
	if _, err := f.eng.Quote(99, 1); !errors.Is(err, lottery.ErrRoundNotFound) {
		t.Fatalf("got %v, want ErrRoundNotFound", err)
	}
}

func TestBuySuccess(t *testing.T) {
	f := newFixture(t, defaultParams())
	r := openRound(t, f, evenSplit(4), 1000, 10)
	fundBuyer(t, f, alice, 100)

	numbers := [][]uint8{
		{1, 2, 3, 4},
		{0, 0, 0, 0},
		{49, 49, 49, 49},
	}
	ids, cost, err := f.eng.Buy(context.Background(), alice, r.ID, 3, numbers)
	if err != nil {
		t.Fatalf("buy: %v", err)
	}
	if cost != 30 {
		t.Fatalf("cost = %d, want 30", cost)
	}
	if len(ids) != 3 || ids[0] != 1 || ids[2] != 3 {
		t.Fatalf("ids = %v", ids)
	}

	if b := balanceOf(t, f, alice); b != 70 {
		t.Fatalf("buyer balance = %d, want 70", b)
	}
	if b := balanceOf(t, f, poolAcct); b != 30 {
		t.Fatalf("pool balance = %d, want 30", b)
	}

	owned := f.eng.TicketsOf(r.ID, alice)
	if len(owned) != 3 {
		t.Fatalf("TicketsOf = %v", owned)
	}
	tk, err := f.eng.Ticket(ids[2])
	if err != nil {
		t.Fatalf("ticket: %v", err)
	}
	if tk.RoundID != r.ID || tk.Owner != alice || tk.Claimed {
		t.Fatalf("ticket = %+v", tk)
	}
}

func TestBuyWindowChecks(t *testing.T) {
	f := newFixture(t, defaultParams())
	now := f.clk.Now().UnixMilli()

	// round opens in the future
	r, err := f.eng.CreateRound(adminAcct, evenSplit(4), 1000, 10, now+10_000, now+20_000)
	if err != nil {
		t.Fatalf("create round: %v", err)
	}
	fundBuyer(t, f, alice, 100)
	num := [][]uint8{{1, 2, 3, 4}}

	if _, _, err := f.eng.Buy(context.Background(), alice, r.ID, 1, num); !errors.Is(err, lottery.ErrRoundNotOpen) {
		t.Fatalf("before start: got %v, want ErrRoundNotOpen", err)
	}

	// inside the window
	f.clk.Advance(10 * time.Second)
	if _, _, err := f.eng.Buy(context.Background(), alice, r.ID, 1, num); err != nil {
		t.Fatalf("inside window: %v", err)
	}

	// endTime is exclusive
	f.clk.Advance(10 * time.Second)
	if _, _, err := f.eng.Buy(context.Background(), alice, r.ID, 1, num); !errors.Is(err, lottery.ErrRoundNotOpen) {
		t.Fatalf("at end: got %v, want ErrRoundNotOpen", err)
	}

	// once a draw is requested the round never reopens
	if _, err := f.eng.RequestDraw(context.Background(), adminAcct, r.ID); err != nil {
		t.Fatalf("request draw: %v", err)
	}
	if _, _, err := f.eng.Buy(context.Background(), alice, r.ID, 1, num); !errors.Is(err, lottery.ErrRoundNotOpen) {
		t.Fatalf("while drawing: got %v, want ErrRoundNotOpen", err)
	}
}

func TestBuyBatchValidation(t *testing.T) {
	p := defaultParams()
	p.MaxTicketsPerBatch = 2
	f := newFixture(t, p)
	r := openRound(t, f, evenSplit(4), 1000, 10)
	fundBuyer(t, f, alice, 1000)

	num := func(n int) [][]uint8 {
		out := make([][]uint8, n)
		for i := range out {
			out[i] = []uint8{1, 2, 3, 4}
		}
		return out
	}

	cases := []struct {
		name    string
		count   int
		numbers [][]uint8
		want    error
	}{
		{"zero count", 0, num(0), lottery.ErrInvalidTicketCount},
		{"negative count", -1, num(0), lottery.ErrInvalidTicketCount},
		{"over batch limit", 3, num(3), lottery.ErrInvalidTicketCount},
		{"count mismatch", 2, num(1), lottery.ErrInvalidTicketCount},
		{"short number", 1, [][]uint8{{1, 2, 3}}, lottery.ErrInvalidNumberShape},
		{"long number", 1, [][]uint8{{1, 2, 3, 4, 5}}, lottery.ErrInvalidNumberShape},
		{"digit at range", 1, [][]uint8{{1, 2, 3, 50}}, lottery.ErrInvalidNumberShape},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, _, err := f.eng.Buy(context.Background(), alice, r.ID, c.count, c.numbers)
			if !errors.Is(err, c.want) {
				t.Fatalf("got %v, want %v", err, c.want)
			}
		})
	}

	if got := f.eng.TicketsOf(r.ID, alice); len(got) != 0 {
		t.Fatalf("rejected purchases minted tickets: %v", got)
	}
	if b := balanceOf(t, f, alice); b != 1000 {
		t.Fatalf("rejected purchases moved funds: balance = %d", b)
	}
}

func TestBuyInsufficientFunds(t *testing.T) {
	f := newFixture(t, defaultParams())
	r := openRound(t, f, evenSplit(4), 1000, 10)
	num := [][]uint8{{1, 2, 3, 4}, {5, 6, 7, 8}}

	// no balance, no approval
	if _, _, err := f.eng.Buy(context.Background(), alice, r.ID, 2, num); !errors.Is(err, lottery.ErrInsufficientFunds) {
		t.Fatalf("got %v, want ErrInsufficientFunds", err)
	}

	// balance but approval too small
	if err := f.tok.Mint(context.Background(), alice, 100); err != nil {
		t.Fatalf("mint: %v", err)
	}
	f.tok.Approve(alice, poolAcct, 10)
	if _, _, err := f.eng.Buy(context.Background(), alice, r.ID, 2, num); !errors.Is(err, lottery.ErrInsufficientFunds) {
		t.Fatalf("got %v, want ErrInsufficientFunds", err)
	}

	if got := f.eng.TicketsOf(r.ID, alice); len(got) != 0 {
		t.Fatalf("failed purchase minted tickets: %v", got)
	}
	if b := balanceOf(t, f, alice); b != 100 {
		t.Fatalf("failed purchase moved funds: balance = %d", b)
	}
}
