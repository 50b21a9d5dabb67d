package miner

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"time"

	"git.gammaspectra.live/P2Pool/cryptonight-worker/miner/telemetry"
	"git.gammaspectra.live/P2Pool/cryptonight-worker/monero/cryptonight"
	"git.gammaspectra.live/P2Pool/cryptonight-worker/utils"
)

// Lanes number of hashes each worker computes in lockstep
type Lanes int

const (
	// SingleLane one hash at a time, square roots through Sqrt33
	SingleLane = Lanes(1)
	// DualLane two hashes at a time, square roots through Sqrt33Pair
	DualLane = Lanes(2)
)

type Config struct {
	Threads    int                   `json:"threads"`
	Lanes      Lanes                 `json:"lanes"`
	Algorithm  cryptonight.Algorithm `json:"algorithm"`
	BucketSize int                   `json:"bucket_size"`

	// Affinity CPU index for each thread, -1 or missing entries leave the thread unpinned
	Affinity []int `json:"affinity,omitempty"`

	// ReportInterval time between hashrate log reports, in seconds. 0 disables reports
	ReportInterval uint64 `json:"report_interval"`
}

func DefaultConfig() Config {
	return Config{
		Threads:        runtime.NumCPU(),
		Lanes:          SingleLane,
		Algorithm:      cryptonight.AlgorithmMonero,
		BucketSize:     telemetry.DefaultBucketSize,
		ReportInterval: 60,
	}
}

var ErrInvalidConfig = errors.New("invalid config")

func (c *Config) Validate() error {
	if c.Threads < 1 {
		return fmt.Errorf("%w: threads must be at least 1, got %d", ErrInvalidConfig, c.Threads)
	}
	if c.Lanes != SingleLane && c.Lanes != DualLane {
		return fmt.Errorf("%w: lanes must be 1 or 2, got %d", ErrInvalidConfig, c.Lanes)
	}
	if _, err := c.Algorithm.MarshalText(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if len(c.Affinity) > c.Threads {
		return fmt.Errorf("%w: %d affinity entries for %d threads", ErrInvalidConfig, len(c.Affinity), c.Threads)
	}
	// telemetry.New checks the bucket size
	return nil
}

// ReportPeriod ReportInterval as a duration
func (c *Config) ReportPeriod() time.Duration {
	return time.Duration(c.ReportInterval) * time.Second
}

// LoadConfig reads a JSON config file on top of DefaultConfig
func LoadConfig(path string) (Config, error) {
	config := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return config, err
	}
	if err = utils.UnmarshalJSON(data, &config); err != nil {
		return config, fmt.Errorf("config %s: %w", path, err)
	}
	return config, config.Validate()
}
