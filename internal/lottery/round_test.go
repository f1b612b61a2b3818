package lottery_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"lottx-server/internal/lottery"
	"lottx-server/internal/state"
)

func TestCreateRoundValidation(t *testing.T) {
	f := newFixture(t, defaultParams())
	now := f.clk.Now().UnixMilli()
	good := evenSplit(4)

	cases := []struct {
		name       string
		caller     lottery.Account
		dist       []uint64
		pool, cost int64
		start, end int64
		want       error
	}{
		{"non-admin", alice, good, 1000, 10, now, now + 100, lottery.ErrUnauthorized},
		{"dist too short", adminAcct, evenSplit(3), 1000, 10, now, now + 100, lottery.ErrInvalidDistributionLength},
		{"dist too long", adminAcct, evenSplit(5), 1000, 10, now, now + 100, lottery.ErrInvalidDistributionLength},
		{"dist sum low", adminAcct, []uint64{1, 1, 1, 1}, 1000, 10, now, now + 100, lottery.ErrInvalidDistributionTotal},
		{"dist sum high", adminAcct, []uint64{5000, 5000, 5000, 5000}, 1000, 10, now, now + 100, lottery.ErrInvalidDistributionTotal},
		{"dist entry overflow", adminAcct, []uint64{10001, 0, 0, 0}, 1000, 10, now, now + 100, lottery.ErrInvalidDistributionTotal},
		{"zero pool", adminAcct, good, 0, 10, now, now + 100, lottery.ErrInvalidPriceOrCost},
		{"negative cost", adminAcct, good, 1000, -1, now, now + 100, lottery.ErrInvalidPriceOrCost},
		{"end before start", adminAcct, good, 1000, 10, now + 100, now, lottery.ErrInvalidTimestamp},
		{"end equals start", adminAcct, good, 1000, 10, now, now, lottery.ErrInvalidTimestamp},
		{"start in past", adminAcct, good, 1000, 10, now - 1, now + 100, lottery.ErrInvalidTimestamp},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := f.eng.CreateRound(c.caller, c.dist, c.pool, c.cost, c.start, c.end)
			if !errors.Is(err, c.want) {
				t.Fatalf("got %v, want %v", err, c.want)
			}
		})
	}

	if n := f.eng.Rounds(); n != 0 {
		t.Fatalf("rejected creations allocated %d rounds", n)
	}
}

func TestCreateRoundAssignsSequentialIDs(t *testing.T) {
	f := newFixture(t, defaultParams())

	r1 := openRound(t, f, evenSplit(4), 1000, 10)
	r2 := openRound(t, f, evenSplit(4), 2000, 20)
	if r1.ID != 1 || r2.ID != 2 {
		t.Fatalf("ids = %d,%d, want 1,2", r1.ID, r2.ID)
	}
	if r1.State != state.StateOpen {
		t.Fatalf("new round state = %s, want open", r1.State)
	}
	if r1.WinningNumber != nil {
		t.Fatal("new round must not have a winning number")
	}
	if f.eng.Rounds() != 2 {
		t.Fatalf("round count = %d, want 2", f.eng.Rounds())
	}
}

func TestCreateRoundSnapshotsDigitCount(t *testing.T) {
	f := newFixture(t, defaultParams())
	r1 := openRound(t, f, evenSplit(4), 1000, 10)

	if err := f.eng.UpdateDigitCount(adminAcct, 5); err != nil {
		t.Fatalf("update digit count: %v", err)
	}

	// the old round keeps its snapshot
	got, err := f.eng.Round(r1.ID)
	if err != nil {
		t.Fatalf("round: %v", err)
	}
	if got.DigitCount != 4 {
		t.Fatalf("old round digit count = %d, want 4", got.DigitCount)
	}

	// new rounds validate against the updated count
	now := f.clk.Now().UnixMilli()
	if _, err := f.eng.CreateRound(adminAcct, evenSplit(4), 1000, 10, now, now+100); !errors.Is(err, lottery.ErrInvalidDistributionLength) {
		t.Fatalf("got %v, want ErrInvalidDistributionLength", err)
	}
	r2, err := f.eng.CreateRound(adminAcct, evenSplit(5), 1000, 10, now, now+100)
	if err != nil {
		t.Fatalf("create round with 5 brackets: %v", err)
	}
	if r2.DigitCount != 5 {
		t.Fatalf("new round digit count = %d, want 5", r2.DigitCount)
	}
}

func TestRoundNotFound(t *testing.T) {
	f := newFixture(t, defaultParams())
	if _, err := f.eng.Round(1); !errors.Is(err, lottery.ErrRoundNotFound) {
		t.Fatalf("got %v, want ErrRoundNotFound", err)
	}
	openRound(t, f, evenSplit(4), 1000, 10)
	if _, err := f.eng.Round(2); !errors.Is(err, lottery.ErrRoundNotFound) {
		t.Fatalf("got %v, want ErrRoundNotFound", err)
	}
	if _, err := f.eng.Round(0); !errors.Is(err, lottery.ErrRoundNotFound) {
		t.Fatalf("got %v, want ErrRoundNotFound", err)
	}
}

func TestConfigUpdates(t *testing.T) {
	f := newFixture(t, defaultParams())

	if err := f.eng.UpdateDigitRange(alice, 60); !errors.Is(err, lottery.ErrUnauthorized) {
		t.Fatalf("got %v, want ErrUnauthorized", err)
	}
	if err := f.eng.UpdateDigitRange(adminAcct, 50); !errors.Is(err, lottery.ErrNoOpUpdate) {
		t.Fatalf("got %v, want ErrNoOpUpdate", err)
	}
	if err := f.eng.UpdateDigitRange(adminAcct, 60); err != nil {
		t.Fatalf("update digit range: %v", err)
	}
	if err := f.eng.UpdateMaxBatch(adminAcct, 100); !errors.Is(err, lottery.ErrNoOpUpdate) {
		t.Fatalf("got %v, want ErrNoOpUpdate", err)
	}
	if err := f.eng.UpdateMaxBatch(adminAcct, 10); err != nil {
		t.Fatalf("update max batch: %v", err)
	}

	p := f.eng.Params()
	if p.DigitRange != 60 || p.MaxTicketsPerBatch != 10 || p.DigitCount != 4 {
		t.Fatalf("params = %+v", p)
	}
}

func TestConfigUpdatesRejectNonPositive(t *testing.T) {
	f := newFixture(t, defaultParams())

	cases := []struct {
		name   string
		update func(int) error
		value  int
	}{
		{"digit count zero", func(n int) error { return f.eng.UpdateDigitCount(adminAcct, n) }, 0},
		{"digit count negative", func(n int) error { return f.eng.UpdateDigitCount(adminAcct, n) }, -4},
		{"digit range zero", func(n int) error { return f.eng.UpdateDigitRange(adminAcct, n) }, 0},
		{"digit range negative", func(n int) error { return f.eng.UpdateDigitRange(adminAcct, n) }, -1},
		{"max batch zero", func(n int) error { return f.eng.UpdateMaxBatch(adminAcct, n) }, 0},
		{"max batch negative", func(n int) error { return f.eng.UpdateMaxBatch(adminAcct, n) }, -100},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if err := c.update(c.value); !errors.Is(err, lottery.ErrInvalidParamValue) {
				t.Fatalf("got %v, want ErrInvalidParamValue", err)
			}
		})
	}

	p := f.eng.Params()
	if p.DigitCount != 4 || p.DigitRange != 50 || p.MaxTicketsPerBatch != 100 {
		t.Fatalf("rejected updates changed params: %+v", p)
	}
}

// A zero digit range accepted while a draw was pending used to crash
// digit expansion on the callback; the engine must reject it itself
// rather than rely on the HTTP layer's checks.
func TestDigitRangeZeroRejectedWhileDrawPending(t *testing.T) {
	f := newFixture(t, defaultParams())
	r := openRound(t, f, evenSplit(4), 1000, 10)
	f.clk.Advance(time.Minute)

	reqID, err := f.eng.RequestDraw(context.Background(), adminAcct, r.ID)
	if err != nil {
		t.Fatalf("request draw: %v", err)
	}
	if err := f.eng.UpdateDigitRange(adminAcct, 0); !errors.Is(err, lottery.ErrInvalidParamValue) {
		t.Fatalf("got %v, want ErrInvalidParamValue", err)
	}

	drawn, err := f.eng.FulfillDraw(reqID, 1234)
	if err != nil {
		t.Fatalf("fulfill after rejected update: %v", err)
	}
	if drawn.State != state.StateDrawn {
		t.Fatalf("state = %s, want drawn", drawn.State)
	}
	if len(drawn.WinningNumber) != 4 {
		t.Fatalf("winning number = %v, want 4 digits", drawn.WinningNumber)
	}
}
