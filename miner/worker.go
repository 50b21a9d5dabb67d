package miner

import (
	"git.gammaspectra.live/P2Pool/cryptonight-worker/monero/cryptonight"
)

// Worker execution context of one hashing thread. It is only touched by the goroutine running it.
type Worker struct {
	Index  int
	Lanes  Lanes
	Family cryptonight.Family

	// Float rounding state of this worker, set to round down before the kernel is created
	Float cryptonight.FloatContext

	hashes uint64
}

// Hashes cumulative hashes of this worker, only valid from the worker goroutine or after the pool stopped
func (w *Worker) Hashes() uint64 {
	return w.hashes
}

// Kernel hash loop bound to one worker
type Kernel interface {
	// Run computes a batch of hashes and returns how many were completed
	Run() uint64
}

// KernelFactory creates the kernel of a worker. It is called from the worker thread,
// after its rounding mode has been established.
type KernelFactory func(w *Worker) (Kernel, error)
