package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
)

func main() {
	var (
		target      = flag.String("url", "http://127.0.0.1:3000/example/", "Portal URL to request")
		host        = flag.String("host", "", "Host header override (direct-host mode)")
		concurrency = flag.Int("concurrency", 50, "Number of concurrent workers")
		requests    = flag.Int("requests", 5000, "Total number of requests")
		timeout     = flag.Duration("timeout", 10*time.Second, "Per-request timeout")
	)
	flag.Parse()

	conc := max(*concurrency, 1)
	total := max(*requests, 1)

	client := &http.Client{
		Timeout: *timeout,
		Transport: &http.Transport{
			MaxIdleConns:        conc,
			MaxIdleConnsPerHost: conc,
		},
	}

	var (
		next   atomic.Int64
		failed atomic.Int64
		latMu  sync.Mutex
		lat    = make([]float64, 0, total)
		codes  = map[int]int{}
	)

	t0 := time.Now()
	g, ctx := errgroup.WithContext(context.Background())
	for range conc {
		g.Go(func() error {
			for next.Add(1) <= int64(total) {
				start := time.Now()
				code, err := fetch(ctx, client, *target, *host)
				if err != nil {
					failed.Add(1)
					continue
				}
				ms := float64(time.Since(start).Microseconds()) / 1000.0
				latMu.Lock()
				lat = append(lat, ms)
				codes[code]++
				latMu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()
	elapsed := time.Since(t0).Seconds()

	if len(lat) == 0 {
		fmt.Printf("no successful requests (%d failed)\n", failed.Load())
		os.Exit(1)
	}
	sort.Float64s(lat)
	rps := float64(len(lat)) / elapsed

	fmt.Printf("url=%s host=%q concurrency=%d requests=%d failed=%d\n", *target, *host, conc, len(lat), failed.Load())
	fmt.Printf("elapsed_s=%.3f rps=%.1f\n", elapsed, rps)
	fmt.Printf("latency_ms p50=%.3f p95=%.3f p99=%.3f min=%.3f max=%.3f\n",
		percentile(lat, 50), percentile(lat, 95), percentile(lat, 99), lat[0], lat[len(lat)-1])
	statuses := make([]int, 0, len(codes))
	for c := range codes {
		statuses = append(statuses, c)
	}
	sort.Ints(statuses)
	for _, c := range statuses {
		fmt.Printf("status %d: %d\n", c, codes[c])
	}
}

func fetch(ctx context.Context, client *http.Client, target, host string) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return 0, err
	}
	if host != "" {
		req.Host = host
	}
	resp, err := client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	return resp.StatusCode, nil
}

func percentile(sorted []float64, p int) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 100 {
		return sorted[len(sorted)-1]
	}
	idx := int(float64(len(sorted))*float64(p)/100.0) - 1
	idx = max(0, min(idx, len(sorted)-1))
	return sorted[idx]
}
