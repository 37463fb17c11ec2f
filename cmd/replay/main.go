// Command replay runs an access trace against one or more cache instances
// and reports hit ratios. Traces come from a CSV file (id,size[,time]) or a
// synthetic Zipf workload; runs come from flags or a YAML config and replay
// concurrently, one goroutine per instance.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/IvanBrykalov/cachesim/cache"
	"github.com/IvanBrykalov/cachesim/internal/logging"
	pmet "github.com/IvanBrykalov/cachesim/metrics/prom"
	"github.com/IvanBrykalov/cachesim/policy"
	"github.com/IvanBrykalov/cachesim/policy/lru"
	"github.com/IvanBrykalov/cachesim/policy/watt"
	"github.com/IvanBrykalov/cachesim/trace"
)

func main() {
	var (
		capacity  = flag.Int64("cap", 1<<30, "cache capacity (bytes)")
		polName   = flag.String("policy", "watt", "eviction policy: lru | watt")
		polParams = flag.String("e", "", `policy parameters, e.g. "n-sample=64" (use "print" to describe)`)
		hashpower = flag.Int("hashpower", 0, "hash index sizing hint (0 = auto)")
		seed      = flag.Int64("seed", 1, "sampling seed (0 = wall clock)")
		objMeta   = flag.Bool("consider-obj-metadata", false, "account per-object metadata size")
		cfgPath   = flag.String("config", "", "YAML run list (overrides per-run flags)")

		traceFile = flag.String("trace", "", "CSV trace file; empty = synthetic Zipf workload")
		requests  = flag.Int("requests", 1_000_000, "synthetic: number of requests")
		keys      = flag.Int64("keys", 1_000_000, "synthetic: keyspace size")
		zipfS     = flag.Float64("zipf-s", 1.1, "synthetic: Zipf s > 1 (skew)")
		zipfV     = flag.Float64("zipf-v", 1.0, "synthetic: Zipf v >= 1")
		objSize   = flag.Int64("obj-size", 4096, "synthetic: object size (bytes)")

		metricsAddr = flag.String("http", "", "serve Prometheus metrics at addr (e.g. :8080); empty = disabled")
		logLevel    = flag.String("log-level", "info", "log level: debug|info|warn|error")
		logFormat   = flag.String("log-format", "console", "log format: console|json")
	)
	flag.Parse()

	logger, err := logging.New(*logLevel, *logFormat)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = logger.Sync() }()

	// Resolve the run list before touching the trace: the "print" escape
	// hatch and configuration errors must never reach a running replay.
	runs := []Run{{
		Name:      *polName,
		Policy:    *polName,
		Params:    *polParams,
		Capacity:  *capacity,
		Hashpower: *hashpower,
		Seed:      *seed,
		Metadata:  *objMeta,
	}}
	if *cfgPath != "" {
		runs, err = loadRuns(*cfgPath)
		if err != nil {
			logger.Fatal("bad run config", zap.Error(err))
		}
	}
	pols := make([]policy.Policy, len(runs))
	for i, r := range runs {
		pols[i], err = buildPolicy(r.Policy, r.Params)
		if err != nil {
			logger.Fatal("bad policy configuration", zap.String("run", r.Name), zap.Error(err))
		}
	}

	reqs, err := loadTrace(*traceFile, uint64(*keys), *zipfS, *zipfV, *objSize, *requests, *seed)
	if err != nil {
		logger.Fatal("trace load failed", zap.Error(err))
	}
	logger.Info("trace loaded", zap.Int("requests", len(reqs)))

	if *metricsAddr != "" {
		http.Handle("/metrics", promhttp.Handler())
		go func() {
			logger.Info("metrics endpoint up", zap.String("addr", *metricsAddr))
			if err := http.ListenAndServe(*metricsAddr, nil); err != nil {
				logger.Warn("metrics server stopped", zap.Error(err))
			}
		}()
	}

	// One goroutine per run: instances share the request slice read-only and
	// nothing else.
	results := make([]result, len(runs))
	var g errgroup.Group
	for i := range runs {
		i := i
		g.Go(func() error {
			var m cache.Metrics
			if *metricsAddr != "" {
				m = pmet.New(nil, "cachesim", "replay", prometheus.Labels{"run": runs[i].Name})
			}
			results[i] = replay(runs[i], pols[i], reqs, m, logger)
			return nil
		})
	}
	_ = g.Wait()

	fmt.Printf("%-16s %-6s %12s %12s %10s %9s %9s %10s\n",
		"run", "policy", "hits", "misses", "rejects", "evicted", "objects", "hit-ratio")
	for i, res := range results {
		total := res.hits + res.misses
		ratio := 0.0
		if total > 0 {
			ratio = float64(res.hits) / float64(total)
		}
		fmt.Printf("%-16s %-6s %12d %12d %10d %9d %9d %9.4f%%\n",
			runs[i].Name, pols[i].Name(), res.hits, res.misses, res.rejects,
			res.evictions, res.objects, ratio*100)
	}
}

type result struct {
	hits, misses, rejects, evictions int64
	objects                          int
	occupied                         int64
}

func replay(r Run, pol policy.Policy, reqs []cache.Request, m cache.Metrics, logger *zap.Logger) result {
	c := cache.New(cache.Options{
		Capacity:            r.Capacity,
		Policy:              pol,
		Hashpower:           r.Hashpower,
		Seed:                r.Seed,
		ConsiderObjMetadata: r.Metadata,
		Metrics:             m,
	})

	start := time.Now()
	var res result
	for _, req := range reqs {
		out := c.Get(req)
		switch {
		case out.Hit:
			res.hits++
		case !out.Admitted:
			res.rejects++
			res.misses++
		default:
			res.misses++
		}
		res.evictions += int64(len(out.Evicted))
	}
	res.objects = c.Len()
	res.occupied = c.OccupiedBytes()

	logger.Info("run finished",
		zap.String("run", r.Name),
		zap.String("policy", pol.Name()),
		zap.Duration("took", time.Since(start)),
		zap.Int64("hits", res.hits),
		zap.Int64("misses", res.misses),
		zap.Int("objects", res.objects),
		zap.Int64("occupied_bytes", res.occupied),
	)
	return res
}

// buildPolicy maps a policy name and parameter string to an instance.
// The "print" key describes the configuration and exits with success.
func buildPolicy(name, paramStr string) (policy.Policy, error) {
	switch name {
	case "lru":
		if paramStr != "" {
			return nil, fmt.Errorf("lru accepts no parameters, got %q", paramStr)
		}
		return lru.New(), nil
	case "watt", "":
		p, err := watt.Parse(paramStr)
		if err != nil {
			if errors.Is(err, policy.ErrDescribeRequested) {
				fmt.Printf("parameters: %s\n", p)
				os.Exit(0)
			}
			return nil, err
		}
		return watt.New(p), nil
	default:
		return nil, fmt.Errorf("unknown policy %q (use lru or watt)", name)
	}
}

func loadTrace(path string, keys uint64, s, v float64, objSize int64, n int, seed int64) ([]cache.Request, error) {
	var r trace.Reader
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer func() { _ = f.Close() }()
		r = trace.NewCSV(f)
	} else {
		zr, err := trace.NewZipf(keys, s, v, objSize, n, seed)
		if err != nil {
			return nil, err
		}
		r = zr
	}
	return trace.ReadAll(r)
}
