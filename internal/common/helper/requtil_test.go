package helper

import "testing"

func TestIsJSONContentType(t *testing.T) {
	cases := []struct {
		ct   string
		want bool
	}{
		{"application/json", true},
		{"application/json; charset=utf-8", true},
		{" Application/JSON ", true},
		{"text/json", true},
		{"application/x-www-form-urlencoded", false},
		{"", false},
	}
	for _, c := range cases {
		if got := IsJSONContentType(c.ct); got != c.want {
			t.Fatalf("IsJSONContentType(%q) = %v, want %v", c.ct, got, c.want)
		}
	}
}

func TestValidateBuy(t *testing.T) {
	valid := func() BuyParsed {
		return BuyParsed{
			RoundID:        1,
			Count:          2,
			Numbers:        [][]int{{1, 2, 3, 4}, {5, 6, 7, 8}},
			IdempotencyKey: "k-1",
		}
	}

	cases := []struct {
		name   string
		mutate func(*BuyParsed)
		wantOK bool
	}{
		{"valid", func(b *BuyParsed) {}, true},
		{"missing round", func(b *BuyParsed) { b.RoundID = 0 }, false},
		{"zero count", func(b *BuyParsed) { b.Count = 0 }, false},
		{"no numbers", func(b *BuyParsed) { b.Numbers = nil }, false},
		{"missing idempotency key", func(b *BuyParsed) { b.IdempotencyKey = "" }, false},
		{"oversized idempotency key", func(b *BuyParsed) {
			for len(b.IdempotencyKey) <= 64 {
				b.IdempotencyKey += "x"
			}
		}, false},
		{"empty ticket", func(b *BuyParsed) { b.Numbers = [][]int{{}} }, false},
		{"digit above byte range", func(b *BuyParsed) { b.Numbers[0][0] = 256 }, false},
		{"negative digit", func(b *BuyParsed) { b.Numbers[0][0] = -1 }, false},
		{"absurd count", func(b *BuyParsed) { b.Count = 2048 }, false},
	}
	for _, c := range cases {
		in := valid()
		c.mutate(&in)
		ok, msg := ValidateBuy(&in)
		if ok != c.wantOK {
			t.Fatalf("%s: ValidateBuy ok = %v (%s), want %v", c.name, ok, msg, c.wantOK)
		}
	}
}

func TestDigitsOf(t *testing.T) {
	got := DigitsOf([][]int{{0, 9, 255}, {7}})
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	want0 := []uint8{0, 9, 255}
	for i, d := range want0 {
		if got[0][i] != d {
			t.Fatalf("got[0][%d] = %d, want %d", i, got[0][i], d)
		}
	}
	if len(got[1]) != 1 || got[1][0] != 7 {
		t.Fatalf("got[1] = %v, want [7]", got[1])
	}
}
