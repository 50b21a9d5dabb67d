package cryptonight

import "encoding/binary"

// VariantTable 2-bit adjustments indexed by the tweak index, shared by all families
const VariantTable uint16 = 0x7531

// Family selects how the tweak index is derived from the tweaked byte.
type Family uint8

const (
	// FamilyMonero monero, aeon and ipbc
	FamilyMonero = Family(iota)
	// FamilyStellite stellite
	FamilyStellite
)

// shift FamilyMonero takes bits 4,5 of the tweaked byte, FamilyStellite bits 5,6
//
//go:nosplit
func (f Family) shift() uint8 {
	return 3 + uint8(f&1)
}

//go:nosplit
func (f Family) index(x uint8) uint8 {
	return (((x >> f.shift()) & 6) | (x & 1)) << 1
}

// Tweak stores tmp into memOut, flipping bits 28-29 of the high half according to VariantTable.
// This is the form used by the batched hash path.
//
//go:nosplit
func Tweak(memOut *[2]uint64, tmp Lane128, family Family) {
	memOut[0] = tmp.Lo

	vh := tmp.Hi
	x := uint8(vh >> 24)
	vh ^= uint64((VariantTable>>family.index(x))&0x3) << 28

	memOut[1] = vh
}

// TweakScalar byte oriented form of Tweak used by the scalar hash path, it works on byte 11 of the lane.
// Output must be identical to Tweak for every input.
func TweakScalar(memOut *[2]uint64, tmp Lane128, family Family) {
	var p [16]byte
	tmp.PutBytes(p[:])

	const table = uint32(VariantTable) << 4
	x := p[11]
	p[11] = x ^ uint8((table>>family.index(x))&0x30)

	memOut[0] = binary.LittleEndian.Uint64(p[:8])
	memOut[1] = binary.LittleEndian.Uint64(p[8:])
}
