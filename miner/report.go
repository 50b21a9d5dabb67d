package miner

import (
	"math"
	"strings"
	"sync"

	"git.gammaspectra.live/P2Pool/cryptonight-worker/miner/telemetry"
	"git.gammaspectra.live/P2Pool/cryptonight-worker/monero/cryptonight"
	"git.gammaspectra.live/P2Pool/cryptonight-worker/utils"
)

// ReportWindows hashrate windows of a Report, in milliseconds
var ReportWindows = [...]uint64{10 * 1000, 60 * 1000, 15 * 60 * 1000}

// Rates hashrate for each of ReportWindows, nil where no value is available
type Rates [len(ReportWindows)]*float64

func ratesOf(f func(window uint64) float64) (r Rates) {
	for i, window := range ReportWindows {
		if h := f(window); !math.IsNaN(h) {
			r[i] = &h
		}
	}
	return r
}

type ThreadReport struct {
	Thread   int   `json:"thread"`
	Hashrate Rates `json:"hashrate"`
}

type Report struct {
	Algorithm cryptonight.Algorithm `json:"algorithm"`
	Threads   []ThreadReport        `json:"threads"`
	// Total sum over all threads, nil if any thread has no value for the window
	Total Rates `json:"total"`
	// Highest largest short window Total seen so far
	Highest float64 `json:"highest"`
}

type highestHashrate struct {
	lock  sync.Mutex
	value float64
}

func (h *highestHashrate) update(v *float64) float64 {
	h.lock.Lock()
	defer h.lock.Unlock()
	if v != nil && *v > h.value {
		h.value = *v
	}
	return h.value
}

// Report hashrates of all threads at the current time
func (p *Pool) Report() *Report {
	return p.ReportAt(telemetry.TimestampMillis())
}

func (p *Pool) ReportAt(now uint64) *Report {
	t := p.telemetry
	r := &Report{
		Algorithm: p.config.Algorithm,
		Threads:   make([]ThreadReport, t.Threads()),
	}

	for thread := range r.Threads {
		r.Threads[thread] = ThreadReport{
			Thread: thread,
			Hashrate: ratesOf(func(window uint64) float64 {
				return t.Hashrate(window, thread, now)
			}),
		}
	}

	r.Total = ratesOf(func(window uint64) float64 {
		total, complete := t.TotalHashrate(window, now)
		if !complete {
			return math.NaN()
		}
		return total
	})

	r.Highest = p.highest.update(r.Total[0])
	return r
}

func (r *Report) MarshalJSON() ([]byte, error) {
	type report Report
	return utils.MarshalJSON((*report)(r))
}

func formatRates(r Rates) string {
	var parts [len(r)]string
	for i, h := range r {
		if h == nil {
			parts[i] = utils.HashrateUnits(math.NaN())
		} else {
			parts[i] = utils.HashrateUnits(*h)
		}
	}
	return strings.Join(parts[:], " | ")
}

// Log writes the report through the leveled logger, per thread lines only at debug level
func (r *Report) Log() {
	if utils.IsLogLevelDebug() {
		for _, tr := range r.Threads {
			utils.Debugf("Report", "thread %d: %s", tr.Thread, formatRates(tr.Hashrate))
		}
	}
	utils.Logf("Report", "%s total (10s | 60s | 15m): %s, highest %s", r.Algorithm, formatRates(r.Total), utils.HashrateUnits(r.Highest))
}
