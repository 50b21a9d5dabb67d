package cryptonight

import (
	"math"
	"math/bits"
)

// Sqrt33Mask selects the integer square root part of Sqrt33 results. Bits above it
// hold the remaining exponent of the floating point estimate and are not part of the result.
const Sqrt33Mask = 1<<33 - 1

const (
	sqrtExponentBias  = 1023 << 52
	sqrtExponentFixup = 1022 << 32
)

// Sqrt33 computes the variant 2 integer square root of n0, such that
// Sqrt33(n0) & Sqrt33Mask == floor(sqrt(2^64 + n0) * 2 - 2^33)
// for n0 < 0xfffffffeb8a53000. Above that the result is one higher.
//
// The estimate is taken from a double in [1, 2) built from the top 52 bits of n0 and
// fixed up with a single increment. The fixup only works for estimates rounded
// down, so SetRoundDown must have been called on ctx.
//
//go:nosplit
func (ctx *FloatContext) Sqrt33(n0 uint64) uint64 {
	r := math.Float64bits(ctx.sqrt(math.Float64frombits((n0 >> 12) + sqrtExponentBias)))
	return sqrt33Fixup(n0, r)
}

// Sqrt33Pair computes Sqrt33 for two independent inputs in lockstep, as used
// when two hashes are processed at the same time.
//
//go:nosplit
func (ctx *FloatContext) Sqrt33Pair(n0A, n0B uint64) (rA, rB uint64) {
	x := [2]float64{
		math.Float64frombits((n0A >> 12) + sqrtExponentBias),
		math.Float64frombits((n0B >> 12) + sqrtExponentBias),
	}
	x[0], x[1] = ctx.sqrt(x[0]), ctx.sqrt(x[1])

	rA = sqrt33Fixup(n0A, math.Float64bits(x[0]))
	rB = sqrt33Fixup(n0B, math.Float64bits(x[1]))
	return rA, rB
}

//go:nosplit
func sqrt33Fixup(n0, r uint64) uint64 {
	s := r >> 20
	r >>= 19

	// wraps around on purpose
	x2 := (s - sqrtExponentFixup) * (r - s - sqrtExponentFixup + 1)

	// increment when x2 < n0
	_, borrow := bits.Sub64(x2, n0, 0)
	r, _ = bits.Add64(r, borrow, 0)
	return r
}
