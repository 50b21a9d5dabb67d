package telemetry

import (
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCollector(t *testing.T) {
	tm, err := New(2, 64)
	if err != nil {
		t.Fatal(err)
	}

	for ts := uint64(1000); ts <= 20000; ts += 1000 {
		tm.Push(0, ts, ts)
	}
	for ts := uint64(15000); ts <= 20000; ts += 1000 {
		tm.Push(1, ts*2, ts)
	}

	c := NewCollector(tm, "cnworker", 2*time.Second, 10*time.Second, 60*time.Second)
	c.now = func() uint64 {
		return 20000
	}

	// 2s: both threads and total, 10s: thread 0 and total, 60s: nothing yet
	if n := testutil.CollectAndCount(c); n != 5 {
		t.Errorf("collected %d metrics, want 5", n)
	}

	expected := `
# HELP cnworker_hashrate Hashes per second of all worker threads with data over the window
# TYPE cnworker_hashrate gauge
cnworker_hashrate{window="10s"} 1000
cnworker_hashrate{window="2s"} 3000
`
	if err = testutil.CollectAndCompare(c, strings.NewReader(expected), "cnworker_hashrate"); err != nil {
		t.Error(err)
	}
}
