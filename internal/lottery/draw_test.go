package lottery_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"lottx-server/internal/lottery"
	"lottx-server/internal/state"
)

func TestRequestDrawChecks(t *testing.T) {
	f := newFixture(t, defaultParams())
	r := openRound(t, f, evenSplit(4), 1000, 10)
	ctx := context.Background()

	if _, err := f.eng.RequestDraw(ctx, alice, r.ID); !errors.Is(err, lottery.ErrUnauthorized) {
		t.Fatalf("non-admin: got %v, want ErrUnauthorized", err)
	}
	if _, err := f.eng.RequestDraw(ctx, adminAcct, 99); !errors.Is(err, lottery.ErrRoundNotFound) {
		t.Fatalf("missing round: got %v, want ErrRoundNotFound", err)
	}
	if _, err := f.eng.RequestDraw(ctx, adminAcct, r.ID); !errors.Is(err, lottery.ErrDrawTooEarly) {
		t.Fatalf("before end: got %v, want ErrDrawTooEarly", err)
	}

	f.clk.Advance(time.Minute)
	reqID, err := f.eng.RequestDraw(ctx, adminAcct, r.ID)
	if err != nil {
		t.Fatalf("request draw: %v", err)
	}
	if reqID == 0 {
		t.Fatal("request id must be non-zero")
	}
	if f.orc.rounds[reqID] != r.ID {
		t.Fatalf("oracle saw round %d, want %d", f.orc.rounds[reqID], r.ID)
	}

	got, _ := f.eng.Round(r.ID)
	if got.State != state.StateDrawing {
		t.Fatalf("state = %s, want drawing", got.State)
	}
	if _, err := f.eng.RequestDraw(ctx, adminAcct, r.ID); !errors.Is(err, lottery.ErrDrawAlreadyRequested) {
		t.Fatalf("second request: got %v, want ErrDrawAlreadyRequested", err)
	}
}

func TestRequestDrawOracleFailureKeepsRoundOpen(t *testing.T) {
	f := newFixture(t, defaultParams())
	r := openRound(t, f, evenSplit(4), 1000, 10)
	f.clk.Advance(time.Minute)

	f.orc.err = errors.New("oracle down")
	if _, err := f.eng.RequestDraw(context.Background(), adminAcct, r.ID); err == nil {
		t.Fatal("expected oracle error to propagate")
	}

	got, _ := f.eng.Round(r.ID)
	if got.State != state.StateOpen {
		t.Fatalf("state = %s, want open after failed request", got.State)
	}

	// retry succeeds once the oracle recovers
	f.orc.err = nil
	if _, err := f.eng.RequestDraw(context.Background(), adminAcct, r.ID); err != nil {
		t.Fatalf("retry after recovery: %v", err)
	}
}

func TestFulfillDrawExpandsDigits(t *testing.T) {
	p := defaultParams()
	p.DigitCount = 4
	p.DigitRange = 10
	f := newFixture(t, p)
	r := openRound(t, f, evenSplit(4), 1000, 10)
	f.clk.Advance(time.Minute)

	reqID, err := f.eng.RequestDraw(context.Background(), adminAcct, r.ID)
	if err != nil {
		t.Fatalf("request draw: %v", err)
	}

	// base-10 expansion, least significant digit first
	got, err := f.eng.FulfillDraw(reqID, 1234)
	if err != nil {
		t.Fatalf("fulfill: %v", err)
	}
	want := []uint8{4, 3, 2, 1}
	if len(got.WinningNumber) != len(want) {
		t.Fatalf("winning number = %v, want %v", got.WinningNumber, want)
	}
	for i := range want {
		if got.WinningNumber[i] != want[i] {
			t.Fatalf("winning number = %v, want %v", got.WinningNumber, want)
		}
	}
	if got.State != state.StateDrawn {
		t.Fatalf("state = %s, want drawn", got.State)
	}

	// replaying the same request id must be rejected
	if _, err := f.eng.FulfillDraw(reqID, 1234); !errors.Is(err, lottery.ErrUnknownRequest) {
		t.Fatalf("replay: got %v, want ErrUnknownRequest", err)
	}
	// further draw requests on a drawn round are rejected
	if _, err := f.eng.RequestDraw(context.Background(), adminAcct, r.ID); !errors.Is(err, lottery.ErrDrawAlreadyCompleted) {
		t.Fatalf("after drawn: got %v, want ErrDrawAlreadyCompleted", err)
	}
}

func TestFulfillDrawLargeRandomWraps(t *testing.T) {
	p := defaultParams()
	p.DigitCount = 2
	p.DigitRange = 7
	f := newFixture(t, p)
	r := openRound(t, f, evenSplit(2), 1000, 10)
	f.clk.Advance(time.Minute)

	reqID, _ := f.eng.RequestDraw(context.Background(), adminAcct, r.ID)
	// 100 = 2 + 14*7: digit0 = 100%7 = 2, digit1 = (100/7)%7 = 0
	got, err := f.eng.FulfillDraw(reqID, 100)
	if err != nil {
		t.Fatalf("fulfill: %v", err)
	}
	if got.WinningNumber[0] != 2 || got.WinningNumber[1] != 0 {
		t.Fatalf("winning number = %v, want [2 0]", got.WinningNumber)
	}
}

func TestFulfillDrawUnknownRequest(t *testing.T) {
	f := newFixture(t, defaultParams())
	if _, err := f.eng.FulfillDraw(42, 1); !errors.Is(err, lottery.ErrUnknownRequest) {
		t.Fatalf("got %v, want ErrUnknownRequest", err)
	}
}
