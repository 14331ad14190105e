package money

import "testing"

func TestRound2(t *testing.T) {
	cases := []struct {
		in, want float64
	}{
		{1.006, 1.01},
		{-1.006, -1.01},
		{2.344, 2.34},
		{0, 0},
		{10, 10},
	}
	for _, tc := range cases {
		if got := Round2(tc.in); got != tc.want {
			t.Fatalf("Round2(%v) = %v, want %v", tc.in, got, tc.want)
		}
	}
	if got := Line(3, 0.1); got != 0.3 {
		t.Fatalf("Line(3, 0.1) = %v", got)
	}
}

func TestCents(t *testing.T) {
	if Cents(0.1+0.2) != Cents(0.3) {
		t.Fatalf("0.1+0.2 and 0.3 should compare equal in cents")
	}
	if got := Cents(19.99); got != 1999 {
		t.Fatalf("Cents(19.99) = %d, want 1999", got)
	}
}
