package telemetry

import (
	"math"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Collector exports per-thread and total hashrates over a set of windows.
// Windows without enough history yet are left out instead of reported as NaN.
type Collector struct {
	telemetry *Telemetry
	windows   []time.Duration
	now       func() uint64

	threadDesc *prometheus.Desc
	totalDesc  *prometheus.Desc
}

func NewCollector(t *Telemetry, namespace string, windows ...time.Duration) *Collector {
	return &Collector{
		telemetry: t,
		windows:   windows,
		now:       TimestampMillis,
		threadDesc: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "thread", "hashrate"),
			"Hashes per second of a worker thread over the window",
			[]string{"thread", "window"}, nil,
		),
		totalDesc: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "hashrate"),
			"Hashes per second of all worker threads with data over the window",
			[]string{"window"}, nil,
		),
	}
}

func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.threadDesc
	ch <- c.totalDesc
}

func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	now := c.now()
	for _, window := range c.windows {
		windowLabel := window.String()
		var total float64
		var found bool
		for thread := range c.telemetry.Threads() {
			h := c.telemetry.Hashrate(uint64(window.Milliseconds()), thread, now)
			if math.IsNaN(h) {
				continue
			}
			total += h
			found = true
			ch <- prometheus.MustNewConstMetric(c.threadDesc, prometheus.GaugeValue, h, strconv.Itoa(thread), windowLabel)
		}
		if found {
			ch <- prometheus.MustNewConstMetric(c.totalDesc, prometheus.GaugeValue, total, windowLabel)
		}
	}
}
