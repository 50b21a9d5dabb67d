package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"git.gammaspectra.live/P2Pool/cryptonight-worker/miner"
	"git.gammaspectra.live/P2Pool/cryptonight-worker/miner/telemetry"
	"git.gammaspectra.live/P2Pool/cryptonight-worker/monero/cryptonight"
	"git.gammaspectra.live/P2Pool/cryptonight-worker/utils"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func parseAffinity(s string) (affinity []int, err error) {
	if s == "" {
		return nil, nil
	}
	for _, e := range strings.Split(s, ",") {
		cpu, err := strconv.Atoi(strings.TrimSpace(e))
		if err != nil {
			return nil, err
		}
		affinity = append(affinity, cpu)
	}
	return affinity, nil
}

func main() {
	configFile := flag.String("config", "", "JSON config file. Flags given explicitly override its values")
	threads := flag.Int("threads", 0, "Worker threads. 0 uses the config or one per CPU")
	lanes := flag.Int("lanes", 0, "Hashes per worker computed together, 1 or 2. 0 uses the config")
	algorithm := flag.String("algo", "", "Algorithm, one of cryptonight_monero, cryptonight_aeon, cryptonight_ipbc, cryptonight_stellite")
	affinity := flag.String("affinity", "", "Comma separated CPU index per thread, -1 leaves a thread unpinned")
	rounds := flag.Int("rounds", 64, "Arithmetic rounds per hash")
	seed := flag.String("seed", "cnbench", "Kernel seed")
	report := flag.Duration("report", 0, "Hashrate report interval. 0 uses the config")
	duration := flag.Duration("duration", 0, "Stop after this time. 0 runs until interrupted")
	metrics := flag.String("metrics", "", "Address to serve Prometheus /metrics on, for example 127.0.0.1:9100")
	debug := flag.Bool("debug", false, "Log per thread hashrates")
	jsonReport := flag.Bool("json", false, "Print the final report as JSON")

	flag.Parse()

	if *debug {
		utils.GlobalLogLevel |= utils.LogLevelDebug | utils.LogLevelNotice
	}

	config := miner.DefaultConfig()
	if *configFile != "" {
		var err error
		if config, err = miner.LoadConfig(*configFile); err != nil {
			utils.Fatalf("could not load config: %s", err)
		}
	}

	if *threads > 0 {
		config.Threads = *threads
	}
	if *lanes > 0 {
		config.Lanes = miner.Lanes(*lanes)
	}
	if *algorithm != "" {
		algo, err := cryptonight.ParseAlgorithm(*algorithm)
		if err != nil {
			utils.Fatalf("%s", err)
		}
		config.Algorithm = algo
	}
	if *affinity != "" {
		cpus, err := parseAffinity(*affinity)
		if err != nil {
			utils.Fatalf("invalid affinity %q: %s", *affinity, err)
		}
		config.Affinity = cpus
	}
	if *report > 0 {
		config.ReportInterval = uint64(max(*report/time.Second, 1))
	}

	pool, err := miner.NewPool(config, miner.ArithmeticKernelFactory([]byte(*seed), *rounds))
	if err != nil {
		utils.Fatalf("%s", err)
	}

	if *metrics != "" {
		registry := prometheus.NewRegistry()
		registry.MustRegister(telemetry.NewCollector(pool.Telemetry(), "cnbench", 10*time.Second, 60*time.Second, 15*time.Minute))

		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
		server := &http.Server{
			Addr:              *metrics,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			utils.Logf("Metrics", "serving on http://%s/metrics", *metrics)
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				utils.Errorf("Metrics", "server error: %s", err)
			}
		}()
		defer server.Close()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if *duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, *duration)
		defer cancel()
	}

	if err = pool.Run(ctx); err != nil {
		utils.Errorf("", "pool stopped: %s", err)
	}

	final := pool.Report()
	final.Log()

	var total uint64
	for _, w := range pool.Workers() {
		total += w.Hashes()
	}
	utils.Logf("", "%d hashes computed", total)

	if *jsonReport {
		data, err := utils.MarshalJSONIndent(final, "  ")
		if err != nil {
			utils.Fatalf("%s", err)
		}
		_, _ = os.Stdout.Write(append(data, '\n'))
	}
}
