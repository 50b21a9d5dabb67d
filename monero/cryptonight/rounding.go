package cryptonight

import "math"

// RoundingMode floating point rounding direction of a FloatContext
type RoundingMode uint8

const (
	RoundToNearest = RoundingMode(iota)
	RoundDown
)

func (m RoundingMode) String() string {
	switch m {
	case RoundToNearest:
		return "nearest"
	case RoundDown:
		return "down"
	}
	return "unknown"
}

// FloatContext floating point environment of a single hashing worker.
//
// The Go runtime owns the hardware rounding control registers, so the rounding
// direction is kept here and applied in software. Results match the hardware
// operation performed under the same mode bit for bit.
// A FloatContext must not be shared between workers.
type FloatContext struct {
	mode RoundingMode
}

// SetRoundDown sets rounding toward negative infinity. It must be called once,
// before any Sqrt33 or Sqrt33Pair call on this context, and stays in effect for
// the lifetime of the context.
func (ctx *FloatContext) SetRoundDown() {
	ctx.mode = RoundDown
}

func (ctx *FloatContext) RoundingMode() RoundingMode {
	return ctx.mode
}

// sqrt IEEE-754 square root under the context rounding mode
//
//go:nosplit
func (ctx *FloatContext) sqrt(x float64) float64 {
	r := math.Sqrt(x)
	if ctx.mode == RoundDown && math.FMA(r, r, -x) > 0 {
		// round to nearest went above the exact root, take the next value below it
		return math.Nextafter(r, 0)
	}
	return r
}
