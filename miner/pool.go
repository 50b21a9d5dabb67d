package miner

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync/atomic"
	"time"

	"git.gammaspectra.live/P2Pool/cryptonight-worker/miner/telemetry"
	"git.gammaspectra.live/P2Pool/cryptonight-worker/utils"
	"golang.org/x/sync/errgroup"
)

var ErrPoolRunning = errors.New("pool is already running")

// Pool runs one Worker per configured thread and records their progress in a shared Telemetry
type Pool struct {
	config    Config
	factory   KernelFactory
	telemetry *telemetry.Telemetry
	workers   []*Worker
	highest   highestHashrate

	running atomic.Bool
}

func NewPool(config Config, factory KernelFactory) (*Pool, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if factory == nil {
		return nil, fmt.Errorf("%w: nil kernel factory", ErrInvalidConfig)
	}

	t, err := telemetry.New(config.Threads, config.BucketSize)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	p := &Pool{
		config:    config,
		factory:   factory,
		telemetry: t,
		workers:   make([]*Worker, config.Threads),
	}
	for i := range p.workers {
		p.workers[i] = &Worker{
			Index:  i,
			Lanes:  config.Lanes,
			Family: config.Algorithm.Family(),
		}
	}
	return p, nil
}

func (p *Pool) Config() Config {
	return p.config
}

func (p *Pool) Telemetry() *telemetry.Telemetry {
	return p.telemetry
}

// Workers only safe to inspect after Run returned
func (p *Pool) Workers() []*Worker {
	return p.workers
}

// Run blocks until ctx is done or a worker fails. Cancellation is not an error.
func (p *Pool) Run(ctx context.Context) error {
	if !p.running.CompareAndSwap(false, true) {
		return ErrPoolRunning
	}
	defer p.running.Store(false)

	eg, ctx := errgroup.WithContext(ctx)

	utils.Logf("Pool", "Starting %d threads, %d lanes, %s", len(p.workers), p.config.Lanes, p.config.Algorithm)

	for _, w := range p.workers {
		eg.Go(func() error {
			return p.work(ctx, w)
		})
	}

	if period := p.config.ReportPeriod(); period > 0 {
		eg.Go(func() error {
			ticker := time.NewTicker(period)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return nil
				case <-ticker.C:
					p.Report().Log()
				}
			}
		})
	}

	return eg.Wait()
}

func (p *Pool) affinity(thread int) int {
	if thread < len(p.config.Affinity) {
		return p.config.Affinity[thread]
	}
	return -1
}

func (p *Pool) work(ctx context.Context, w *Worker) error {
	// affinity and rounding state belong to the OS thread
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	if cpu := p.affinity(w.Index); cpu >= 0 {
		if err := setAffinity(cpu); err != nil {
			utils.Errorf("Pool", "thread %d: could not pin to cpu %d: %s", w.Index, cpu, err)
		} else {
			utils.Debugf("Pool", "thread %d pinned to cpu %d", w.Index, cpu)
		}
	}

	w.Float.SetRoundDown()

	kernel, err := p.factory(w)
	if err != nil {
		return fmt.Errorf("thread %d: %w", w.Index, err)
	}

	p.telemetry.Push(w.Index, w.hashes, telemetry.TimestampMillis())

	for ctx.Err() == nil {
		w.hashes += kernel.Run()
		p.telemetry.Push(w.Index, w.hashes, telemetry.TimestampMillis())
	}
	return nil
}
