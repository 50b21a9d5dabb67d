package cryptonight

import (
	"math/bits"
	"math/rand/v2"
	"testing"

	fasthex "github.com/tmthrgd/go-hex"
)

func TestExpandKey(t *testing.T) {
	// FIPS-197 Appendix A.3
	key, err := fasthex.DecodeString("603deb1015ca71be2b73aef0857d77811f352c073b6108d72d9810a30914dff4")
	if err != nil {
		t.Fatal(err)
	}
	roundKeys := ExpandKey([2]Lane128{LaneFromBytes(key[:16]), LaneFromBytes(key[16:])})

	want := []string{
		"603deb1015ca71be2b73aef0857d7781",
		"1f352c073b6108d72d9810a30914dff4",
		"9ba354118e6925afa51a8b5f2067fcde",
		"a8b09c1a93d194cdbe49846eb75d5b9a",
		"d59aecb85bf3c917fee94248de8ebe96",
		"b5a9328a2678a647983122292f6c79b3",
		"812c81addadf48ba24360af2fab8b464",
		"98c5bfc9bebd198e268c3ba709e04214",
		"68007bacb2df331696e939e46c518d80",
		"c814e20476a9fb8a5025c02d59c58239",
	}

	for i := range roundKeys {
		if s := LaneHex(roundKeys[i]); s != want[i] {
			t.Errorf("round key %d = %s, want %s", i, s, want[i])
		}
	}
}

// expandKeyWords FIPS-197 word oriented key expansion, limited to 10 round keys
func expandKeyWords(key []uint64) (roundKeys [40]uint32) {
	for i := range 4 {
		roundKeys[2*i] = bits.ReverseBytes32(uint32(key[i]))
		roundKeys[2*i+1] = bits.ReverseBytes32(uint32(key[i] >> 32))
	}

	rcon := uint32(1)
	for i := 8; i < 40; i++ {
		t := roundKeys[i-1]
		if i%8 == 0 {
			t = subWord(t<<8|t>>24) ^ (rcon << 24)
			rcon <<= 1
		} else if i%8 == 4 {
			t = subWord(t)
		}
		roundKeys[i] = roundKeys[i-8] ^ t
	}
	for i := range roundKeys {
		roundKeys[i] = bits.ReverseBytes32(roundKeys[i])
	}
	return roundKeys
}

func TestExpandKey_Words(t *testing.T) {
	rng := rand.New(rand.NewPCG(15, 16))
	for range 1000 {
		key := []uint64{rng.Uint64(), rng.Uint64(), rng.Uint64(), rng.Uint64()}
		want := expandKeyWords(key)

		roundKeys := ExpandKey([2]Lane128{{Lo: key[0], Hi: key[1]}, {Lo: key[2], Hi: key[3]}})
		for i := range roundKeys {
			w := LaneWords(roundKeys[i])
			if [4]uint32(want[i*4:]) != w {
				t.Fatalf("round key %d = %08x, want %08x", i, w, want[i*4:i*4+4])
			}
		}
	}
}
