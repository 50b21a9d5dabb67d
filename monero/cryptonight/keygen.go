package cryptonight

import "math/bits"

// sbox FIPS-197 Figure 7. S-box substitution values generation
var sbox = func() (sbox [256]byte) {
	var p, q uint8 = 1, 1
	for {
		// multiply p by 3
		if p&0x80 != 0 {
			p ^= (p << 1) ^ 0x1b
		} else {
			p ^= p << 1
		}

		// divide q by 3 (equals multiplication by 0xf6)
		q ^= q << 1
		q ^= q << 2
		q ^= q << 4
		if q&0x80 != 0 {
			q ^= 0x09
		}

		// affine transformation
		sbox[p] = q ^ bits.RotateLeft8(q, 1) ^ bits.RotateLeft8(q, 2) ^ bits.RotateLeft8(q, 3) ^ bits.RotateLeft8(q, 4) ^ 0x63

		if p == 1 {
			break
		}
	}

	// 0 has no inverse
	sbox[0] = 0x63
	return sbox
}()

// subWord applies the S-box to each byte of w
func subWord(w uint32) uint32 {
	return uint32(sbox[w>>24])<<24 |
		uint32(sbox[w>>16&0xff])<<16 |
		uint32(sbox[w>>8&0xff])<<8 |
		uint32(sbox[w&0xff])
}

// broadcast copies w into all four sub-lanes
func broadcast(w uint32) Lane128 {
	v := uint64(w) | uint64(w)<<32
	return Lane128{Lo: v, Hi: v}
}

// expandKeyStep derives the next two round keys from the previous two
func expandKeyStep(xout0, xout2 *Lane128, rcon uint32) {
	// AESKEYGENASSIST word 3, RotWord(SubWord(X3)) ^ rcon
	t := bits.RotateLeft32(subWord(uint32(xout2.Hi>>32)), -8) ^ rcon
	*xout0 = PrefixXor(*xout0).Xor(broadcast(t))

	// AESKEYGENASSIST word 2, SubWord(X3)
	t = subWord(uint32(xout0.Hi >> 32))
	*xout2 = PrefixXor(*xout2).Xor(broadcast(t))
}

// ExpandKey expands a 256-bit key into the 10 round keys CryptoNight uses, in lane order.
func ExpandKey(key [2]Lane128) (roundKeys [10]Lane128) {
	xout0, xout2 := key[0], key[1]
	roundKeys[0], roundKeys[1] = xout0, xout2

	for i, rcon := range [...]uint32{0x01, 0x02, 0x04, 0x08} {
		expandKeyStep(&xout0, &xout2, rcon)
		roundKeys[2+i*2], roundKeys[3+i*2] = xout0, xout2
	}
	return roundKeys
}
