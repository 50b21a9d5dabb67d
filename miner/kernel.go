package miner

import (
	"encoding/binary"

	"git.gammaspectra.live/P2Pool/cryptonight-worker/monero/cryptonight"
)

// ArithmeticKernelBatch hashes computed per Run call and lane
const ArithmeticKernelBatch = 16

// ArithmeticKernel exercises the CryptoNight arithmetic core without a scratchpad:
// each round diffuses the lane ring, applies the variant tweak and feeds back the
// variant 2 square root, like the memory-hard loop does between memory accesses.
type ArithmeticKernel struct {
	w      *Worker
	rounds int

	states     [DualLane]cryptonight.HashState8
	sqrtResult [DualLane]uint64
}

// NewArithmeticKernel seeds every lane from seed and the lane number
func NewArithmeticKernel(w *Worker, seed []byte, rounds int) *ArithmeticKernel {
	k := &ArithmeticKernel{
		w:      w,
		rounds: max(rounds, 1),
	}

	var buf [16]byte
	for l := range k.states {
		for i := range k.states[l] {
			buf = [16]byte{}
			copy(buf[:], seed)
			binary.LittleEndian.PutUint32(buf[12:], binary.LittleEndian.Uint32(buf[12:])^uint32(l<<8|i))
			k.states[l][i] = cryptonight.LaneFromBytes(buf[:])
		}
	}
	return k
}

// ArithmeticKernelFactory KernelFactory for ArithmeticKernel, all workers start from the same seed
func ArithmeticKernelFactory(seed []byte, rounds int) KernelFactory {
	return func(w *Worker) (Kernel, error) {
		return NewArithmeticKernel(w, seed, rounds), nil
	}
}

func (k *ArithmeticKernel) round(l int) {
	x := &k.states[l]
	cryptonight.DiffuseRing(x)
	x[0] = cryptonight.PrefixXor(x[0])

	var mem [2]uint64
	cryptonight.Tweak(&mem, x[1].Xor(x[2]), k.w.Family)
	x[3].Lo = mem[0] ^ k.sqrtResult[l]<<32
	x[3].Hi = mem[1]
}

func (k *ArithmeticKernel) Run() uint64 {
	lanes := int(k.w.Lanes)
	for range ArithmeticKernelBatch * k.rounds {
		for l := range lanes {
			k.round(l)
		}

		if lanes == int(DualLane) {
			k.sqrtResult[0], k.sqrtResult[1] = k.w.Float.Sqrt33Pair(k.states[0][4].Lo+k.sqrtResult[0], k.states[1][4].Lo+k.sqrtResult[1])
		} else {
			k.sqrtResult[0] = k.w.Float.Sqrt33(k.states[0][4].Lo + k.sqrtResult[0])
		}

		for l := range lanes {
			k.states[l][5].Hi ^= k.sqrtResult[l]
		}
	}
	return uint64(ArithmeticKernelBatch * lanes)
}

// Digest folds the ring of lane l into a single lane
func (k *ArithmeticKernel) Digest(l int) cryptonight.Lane128 {
	var d cryptonight.Lane128
	for _, x := range k.states[l] {
		d = cryptonight.PrefixXor(d.Xor(x))
	}
	return d
}

func (k *ArithmeticKernel) String() string {
	return cryptonight.LaneHex(k.Digest(0))
}
