package cryptonight

import (
	"fmt"
	"math/rand/v2"
	"testing"
)

type tweakVector struct {
	X        uint8
	Monero   uint64
	Stellite uint64
}

// adjustments of bits 28-29 per tweaked byte value
var tweakVectors = []tweakVector{
	{X: 0x00, Monero: 1, Stellite: 1},
	{X: 0x01, Monero: 0, Stellite: 0},
	{X: 0x08, Monero: 1, Stellite: 1},
	{X: 0x10, Monero: 3, Stellite: 1},
	{X: 0x11, Monero: 0, Stellite: 0},
	{X: 0x20, Monero: 1, Stellite: 3},
	{X: 0x21, Monero: 1, Stellite: 0},
	{X: 0x30, Monero: 3, Stellite: 3},
	{X: 0x41, Monero: 0, Stellite: 1},
	{X: 0x9d, Monero: 0, Stellite: 0},
	{X: 0xff, Monero: 1, Stellite: 1},
}

func TestTweak(t *testing.T) {
	const lo, hi = 0x0123456789abcdef, 0x1122334400556677

	for _, v := range tweakVectors {
		t.Run(fmt.Sprintf("%02x", v.X), func(t *testing.T) {
			tmp := Lane128{Lo: lo, Hi: hi | uint64(v.X)<<24}

			for _, f := range []struct {
				family Family
				adjust uint64
			}{{FamilyMonero, v.Monero}, {FamilyStellite, v.Stellite}} {
				var memOut [2]uint64
				Tweak(&memOut, tmp, f.family)
				want := [2]uint64{lo, tmp.Hi ^ f.adjust<<28}
				if memOut != want {
					t.Errorf("Tweak(%s, %d) = %016x, want %016x", LaneHex(tmp), f.family, memOut, want)
				}
			}
		})
	}
}

func TestTweak_Paths(t *testing.T) {
	rng := rand.New(rand.NewPCG(5, 6))

	for _, family := range []Family{FamilyMonero, FamilyStellite} {
		for x := range 256 {
			for range 16 {
				tmp := Lane128{Lo: rng.Uint64(), Hi: rng.Uint64()&^(0xff<<24) | uint64(x)<<24}

				var batched, scalar [2]uint64
				Tweak(&batched, tmp, family)
				TweakScalar(&scalar, tmp, family)
				if batched != scalar {
					t.Fatalf("family %d: Tweak(%s) = %016x, TweakScalar = %016x", family, LaneHex(tmp), batched, scalar)
				}
			}
		}
	}
}

// variant 1 tweak as applied in place on the scratchpad, monero family only
func tweakInPlace(mem *[2]uint64) {
	t := mem[1] >> 24
	t = ((^t)&1)<<4 | (((^t)&1)<<4&t)<<1 | (t&32)>>1
	mem[1] ^= t << 24
}

func TestTweak_InPlace(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 8))
	for range 10000 {
		tmp := Lane128{Lo: rng.Uint64(), Hi: rng.Uint64()}

		var memOut [2]uint64
		Tweak(&memOut, tmp, FamilyMonero)

		mem := [2]uint64{tmp.Lo, tmp.Hi}
		tweakInPlace(&mem)

		if memOut != mem {
			t.Fatalf("Tweak(%s) = %016x, want %016x", LaneHex(tmp), memOut, mem)
		}
	}
}

func TestParseAlgorithm(t *testing.T) {
	for _, a := range []Algorithm{AlgorithmMonero, AlgorithmAeon, AlgorithmIPBC, AlgorithmStellite} {
		text, err := a.MarshalText()
		if err != nil {
			t.Fatal(err)
		}
		var b Algorithm
		if err = b.UnmarshalText(text); err != nil {
			t.Fatal(err)
		}
		if a != b {
			t.Errorf("%s != %s", a, b)
		}
	}

	if AlgorithmStellite.Family() != FamilyStellite || AlgorithmAeon.Family() != FamilyMonero || AlgorithmIPBC.Family() != FamilyMonero {
		t.Errorf("wrong family mapping")
	}

	if _, err := ParseAlgorithm("cryptonight_heavy"); err == nil {
		t.Errorf("expected error")
	}
}

func BenchmarkTweak(b *testing.B) {
	var memOut [2]uint64
	tmp := Lane128{Lo: 0x0123456789abcdef, Hi: 0xfedcba9876543210}
	for b.Loop() {
		Tweak(&memOut, tmp, FamilyMonero)
		tmp.Hi = memOut[1] + 1
	}
}
