package telemetry

import (
	"errors"
	"math"
	"math/bits"
	"sync"
	"time"

	"golang.org/x/sys/cpu"
)

// DefaultBucketSize samples kept per thread, must be a power of two
const DefaultBucketSize = 2 << 11

const maxBucketSize = 1 << 31

var (
	ErrInvalidThreadCount = errors.New("telemetry: thread count must be at least 1")
	ErrInvalidBucketSize  = errors.New("telemetry: bucket size must be a power of two of at least 2")
)

// Sample cumulative hash count of a thread at a point in time, both truncated to 32 bits.
// A zero Timestamp marks a slot that was never written.
type Sample struct {
	HashCount uint32
	Timestamp uint32
}

type bucket struct {
	_ cpu.CacheLinePad // prevents false sharing between threads

	lock    sync.Mutex
	top     uint32 // next slot to write
	samples []Sample
}

// Telemetry per-thread circular buffers of hash count samples.
// Each bucket has one writer, its thread, and any number of readers.
type Telemetry struct {
	buckets []bucket
	mask    uint32
}

func New(threads, bucketSize int) (*Telemetry, error) {
	if threads < 1 {
		return nil, ErrInvalidThreadCount
	}
	if bucketSize < 2 || uint64(bucketSize) > maxBucketSize || bits.OnesCount64(uint64(bucketSize)) != 1 {
		return nil, ErrInvalidBucketSize
	}

	t := &Telemetry{
		buckets: make([]bucket, threads),
		mask:    uint32(bucketSize - 1),
	}
	for i := range t.buckets {
		t.buckets[i].samples = make([]Sample, bucketSize)
	}
	return t, nil
}

func (t *Telemetry) Threads() int {
	return len(t.buckets)
}

func (t *Telemetry) BucketSize() int {
	return int(t.mask) + 1
}

// TimestampMillis wall clock in milliseconds, as pushed by workers
func TimestampMillis() uint64 {
	return uint64(time.Now().UnixMilli())
}

// Push records the cumulative hash count of thread at timestamp, overwriting the oldest sample.
func (t *Telemetry) Push(thread int, hashCount, timestamp uint64) {
	b := &t.buckets[thread]

	b.lock.Lock()
	defer b.lock.Unlock()
	b.samples[b.top] = Sample{
		HashCount: uint32(hashCount),
		Timestamp: uint32(timestamp),
	}
	b.top = (b.top + 1) & t.mask
}

// Hashrate hashes per second of thread over the last window milliseconds before now.
// Returns NaN when the buffer does not reach past the window yet.
func (t *Telemetry) Hashrate(window uint64, thread int, now uint64) float64 {
	var earliest, latest Sample
	var fullSet bool

	b := &t.buckets[thread]

	func() {
		b.lock.Lock()
		defer b.lock.Unlock()

		timeNow := uint32(now)

		// start at 1, top points to the next empty slot
		for i := uint32(1); i <= t.mask; i++ {
			// wraps around on purpose
			s := b.samples[(b.top-i)&t.mask]

			if s.Timestamp == 0 {
				// not enough data yet
				break
			}

			if latest.Timestamp == 0 {
				latest = s
			}

			if uint64(timeNow-s.Timestamp) > window {
				// out of the requested time period
				fullSet = true
				break
			}

			earliest = s
		}
	}()

	if !fullSet || earliest.Timestamp == 0 || latest.Timestamp == 0 {
		return math.NaN()
	}

	elapsed := latest.Timestamp - earliest.Timestamp
	if elapsed == 0 {
		return math.NaN()
	}

	return float64(latest.HashCount-earliest.HashCount) / (float64(elapsed) / 1000)
}

// HashrateNow Hashrate against the current wall clock
func (t *Telemetry) HashrateNow(window uint64, thread int) float64 {
	return t.Hashrate(window, thread, TimestampMillis())
}

// TotalHashrate sum of all thread hashrates over window. complete is false when
// at least one thread had no value and was skipped.
func (t *Telemetry) TotalHashrate(window uint64, now uint64) (total float64, complete bool) {
	complete = true
	for thread := range t.buckets {
		if h := t.Hashrate(window, thread, now); math.IsNaN(h) {
			complete = false
		} else {
			total += h
		}
	}
	return total, complete
}

// Samples copies the recorded samples of thread, newest first.
func (t *Telemetry) Samples(thread int) (samples []Sample) {
	b := &t.buckets[thread]

	b.lock.Lock()
	defer b.lock.Unlock()
	for i := uint32(1); i <= t.mask+1; i++ {
		s := b.samples[(b.top-i)&t.mask]
		if s.Timestamp == 0 {
			break
		}
		samples = append(samples, s)
	}
	return samples
}
