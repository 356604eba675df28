package ternary

import "testing"

func TestRotateRightTenTimesIsIdentity(t *testing.T) {
	samples := []uint32{0, 1, 2, 3, Modulus - 1, Modulus / 2, 12345, 59048}
	for _, x := range samples {
		v := x
		for i := 0; i < trits; i++ {
			v = RotateRight(v)
		}
		if v != x {
			t.Errorf("RotateRight applied 10 times to %d got: %d expected: %d", x, v, x)
		}
	}
}

func TestRotateRightIsPermutation(t *testing.T) {
	seen := make(map[uint32]bool, Modulus)
	for x := uint32(0); x < Modulus; x++ {
		out := RotateRight(x)
		if out >= Modulus {
			t.Fatalf("RotateRight(%d) = %d out of range [0,%d)", x, out, Modulus)
		}
		if seen[out] {
			t.Fatalf("RotateRight is not a permutation: %d produced twice", out)
		}
		seen[out] = true
	}
}

func TestRotateRightKnownValue(t *testing.T) {
	// 1 is (d9..d0) = 0000000001; rotating right moves d0=1 into the
	// most significant place: 1000000000 in base 3 == 3^9.
	if got, want := RotateRight(1), powersOf3[trits-1]; got != want {
		t.Errorf("RotateRight(1) got: %d expected: %d", got, want)
	}
}

func TestCrzAgreesWithDigitTable(t *testing.T) {
	// For single-digit x and y the nine higher digits of both operands
	// are 0, and each of those pairs maps through crzDigitTable[0][0].
	for x := uint32(0); x < 3; x++ {
		for y := uint32(0); y < 3; y++ {
			want := crzDigitTable[x][y]
			for i := 1; i < trits; i++ {
				want += crzDigitTable[0][0] * powersOf3[i]
			}
			if got := Crz(x, y); got != want {
				t.Errorf("Crz(%d,%d) got: %d expected: %d", x, y, got, want)
			}
		}
	}
}

func TestCrzBoundaryPairs(t *testing.T) {
	pairs := [][2]uint32{
		{0, 0},
		{0, Modulus - 1},
		{Modulus - 1, 0},
		{Modulus - 1, Modulus - 1},
	}
	for _, p := range pairs {
		got := Crz(p[0], p[1])
		if got >= Modulus {
			t.Errorf("Crz(%d,%d) = %d out of range [0,%d)", p[0], p[1], got, Modulus)
		}
		dx := digits(p[0])
		dy := digits(p[1])
		var want [trits]uint32
		for i := 0; i < trits; i++ {
			want[i] = crzDigitTable[dx[i]][dy[i]]
		}
		if wantWord := fromDigits(want); got != wantWord {
			t.Errorf("Crz(%d,%d) got: %d expected: %d", p[0], p[1], got, wantWord)
		}
	}
}

func TestCrzIsTotal(t *testing.T) {
	// Every digit pair must land on a value in [0,2]; spot-check across
	// the full x range against a fixed y to catch any out-of-range digit
	// reassembly.
	for x := uint32(0); x < Modulus; x += 97 {
		if got := Crz(x, Modulus-1); got >= Modulus {
			t.Fatalf("Crz(%d,%d) = %d out of range [0,%d)", x, Modulus-1, got, Modulus)
		}
	}
}

func TestDigitsRoundTrip(t *testing.T) {
	for _, x := range []uint32{0, 1, 2, 59048, 12345, Modulus - 1} {
		if got := fromDigits(digits(x)); got != x {
			t.Errorf("fromDigits(digits(%d)) got: %d expected: %d", x, got, x)
		}
	}
}
