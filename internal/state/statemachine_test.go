package state

import "testing"

func TestNextStateValidTransitions(t *testing.T) {
	cases := []struct {
		cur, evt, want string
	}{
		{StateOpen, EvtRequestDraw, StateDrawing},
		{StateDrawing, EvtFulfillDraw, StateDrawn},
	}
	for _, c := range cases {
		got, err := NextState(c.cur, c.evt)
		if err != nil {
			t.Fatalf("NextState(%s, %s): unexpected error: %v", c.cur, c.evt, err)
		}
		if got != c.want {
			t.Fatalf("NextState(%s, %s) = %s, want %s", c.cur, c.evt, got, c.want)
		}
	}
}

func TestNextStateInvalidTransitions(t *testing.T) {
	cases := []struct {
		cur, evt string
	}{
		{StateOpen, EvtFulfillDraw},
		{StateDrawing, EvtRequestDraw},
		{StateDrawn, EvtRequestDraw},
		{StateDrawn, EvtFulfillDraw},
		{"bogus", EvtRequestDraw},
	}
	for _, c := range cases {
		got, err := NextState(c.cur, c.evt)
		if err == nil {
			t.Fatalf("NextState(%s, %s): expected error, got state %s", c.cur, c.evt, got)
		}
		if got != c.cur {
			t.Fatalf("NextState(%s, %s): state changed to %s on invalid transition", c.cur, c.evt, got)
		}
	}
}
