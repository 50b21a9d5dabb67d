package cryptonight

import (
	fasthex "github.com/tmthrgd/go-hex"
	"lukechampine.com/uint128"
)

// Lane128 a 128-bit vector register. Lo holds bytes 0-7, Hi holds bytes 8-15.
type Lane128 = uint128.Uint128

// HashState8 eight lanes mixed together as one ring
type HashState8 [8]Lane128

// LaneFromWords packs four 32-bit sub-lanes, w[0] being the least significant.
func LaneFromWords(w [4]uint32) Lane128 {
	return uint128.New(uint64(w[0])|uint64(w[1])<<32, uint64(w[2])|uint64(w[3])<<32)
}

// LaneWords splits a lane into its four 32-bit sub-lanes.
func LaneWords(l Lane128) [4]uint32 {
	return [4]uint32{uint32(l.Lo), uint32(l.Lo >> 32), uint32(l.Hi), uint32(l.Hi >> 32)}
}

// LaneFromBytes reads a lane from 16 little-endian bytes
func LaneFromBytes(b []byte) Lane128 {
	return uint128.FromBytes(b)
}

// LaneHex encodes the in-memory byte representation of the lane.
func LaneHex(l Lane128) string {
	var buf [16]byte
	l.PutBytes(buf[:])
	return fasthex.EncodeToString(buf[:])
}

// PrefixXor xors each 32-bit sub-lane with all the sub-lanes below it, such as
// PrefixXor(a1 a2 a3 a4) = a1 (a2^a1) (a3^a2^a1) (a4^a3^a2^a1)
//
//go:nosplit
func PrefixXor(x Lane128) Lane128 {
	return x.Xor(x.Lsh(32)).Xor(x.Lsh(64)).Xor(x.Lsh(96))
}

// DiffuseRing xors every lane with its successor, the last one wrapping around to the first lane as it was before mixing.
//
//go:nosplit
func DiffuseRing(x *HashState8) {
	tmp0 := x[0]
	x[0] = x[0].Xor(x[1])
	x[1] = x[1].Xor(x[2])
	x[2] = x[2].Xor(x[3])
	x[3] = x[3].Xor(x[4])
	x[4] = x[4].Xor(x[5])
	x[5] = x[5].Xor(x[6])
	x[6] = x[6].Xor(x[7])
	x[7] = x[7].Xor(tmp0)
}
