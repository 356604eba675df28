// Package ternary implements the base-3 arithmetic every Malbolge opcode
// ultimately rests on: the 10-trit address space modulus, the
// rotate-right digit permutation, and the crz "crazy" digit-wise
// operation. Both operations are pure; the rotate permutation and the
// crz digit grid are precomputed constants, per the precomputed-tables
// requirement on magic data.
package ternary

// Modulus is the size of the 10-trit address space, M = 3^10.
const Modulus = 59049

const trits = 10

// powersOf3[i] == 3^i, used to decompose a trit word into its 10 digits
// and to reassemble digits back into a word.
var powersOf3 = [trits]uint32{1, 3, 9, 27, 81, 243, 729, 2187, 6561, 19683}

// crzDigitTable is the 3x3 "crazy" digit table: crzDigitTable[x][y] is
// the result digit for input digits x, y.
var crzDigitTable = [3][3]uint32{
	{1, 0, 0},
	{1, 0, 2},
	{2, 2, 1},
}

// rotateTable is the full [0, Modulus) rotate-right permutation,
// precomputed once at init so the opcode dispatch path never
// decomposes a trit word into digits at runtime.
var rotateTable [Modulus]uint32

func init() {
	for x := uint32(0); x < Modulus; x++ {
		rotateTable[x] = rotateRightDigits(x)
	}
}

// digits decomposes x into its 10 base-3 digits, d[0] the least
// significant.
func digits(x uint32) [trits]uint32 {
	var d [trits]uint32
	for i := 0; i < trits; i++ {
		d[i] = (x / powersOf3[i]) % 3
	}
	return d
}

// fromDigits reassembles 10 base-3 digits into a trit word.
func fromDigits(d [trits]uint32) uint32 {
	var x uint32
	for i := 0; i < trits; i++ {
		x += d[i] * powersOf3[i]
	}
	return x
}

// rotateRightDigits computes rotate_right(x) by digit decomposition,
// used only to build rotateTable at init.
func rotateRightDigits(x uint32) uint32 {
	d := digits(x)
	var r [trits]uint32
	r[trits-1] = d[0]
	for i := 0; i < trits-1; i++ {
		r[i] = d[i+1]
	}
	return fromDigits(r)
}

// RotateRight interprets x as 10 base-3 digits (d9 d8 ... d0) and
// returns (d0 d9 d8 ... d1): the least significant digit rotates into
// the most significant position. Well-defined for x in [0, Modulus).
func RotateRight(x uint32) uint32 {
	return rotateTable[x%Modulus]
}

// Crz is the digit-wise "crazy" operation: each of the ten digit pairs
// of x and y is looked up in crzDigitTable and the results reassembled
// into a trit word. Total function on [0, Modulus)^2.
func Crz(x, y uint32) uint32 {
	dx := digits(x % Modulus)
	dy := digits(y % Modulus)
	var r [trits]uint32
	for i := 0; i < trits; i++ {
		r[i] = crzDigitTable[dx[i]][dy[i]]
	}
	return fromDigits(r)
}
