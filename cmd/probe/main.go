// probe fires a batch of HTTP requests described by a CSV file and reports
// per-request status and latency. Each CSV line is "METHOD,PATH".
// Usage: go run ./cmd/probe -base http://localhost:8000 requests.csv
package main

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
)

type probeRequest struct {
	Method string
	Path   string
}

type probeResult struct {
	Request probeRequest
	Status  int
	Latency time.Duration
	Err     error
}

func main() {
	baseURL := flag.String("base", "http://localhost:8000", "base URL to probe")
	concurrency := flag.Int("concurrency", 16, "maximum in-flight requests")
	timeout := flag.Duration("timeout", 10*time.Second, "per-request timeout")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "usage: %s [flags] <requests.csv>\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(2)
	}

	requests, err := loadRequests(flag.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	client := &http.Client{Timeout: *timeout}
	results := make([]probeResult, len(requests))

	g, ctx := errgroup.WithContext(context.Background())
	g.SetLimit(*concurrency)
	for i, req := range requests {
		i, req := i, req
		g.Go(func() error {
			results[i] = probe(ctx, client, *baseURL, req)
			return nil
		})
	}
	g.Wait()

	failures := 0
	for _, res := range results {
		if res.Err != nil {
			fmt.Printf("%-6s %-40s error: %v\n", res.Request.Method, res.Request.Path, res.Err)
			failures++
			continue
		}
		fmt.Printf("%-6s %-40s %d %8.1fms\n",
			res.Request.Method, res.Request.Path, res.Status,
			float64(res.Latency.Microseconds())/1000.0)
		if res.Status >= 400 {
			failures++
		}
	}

	fmt.Printf("\n%d requests, %d failed\n", len(results), failures)
	if failures > 0 {
		os.Exit(1)
	}
}

// loadRequests reads "METHOD,PATH" lines. Blank lines and lines starting
// with '#' are skipped.
func loadRequests(path string) ([]probeRequest, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = 2
	reader.Comment = '#'

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	requests := make([]probeRequest, 0, len(records))
	for _, rec := range records {
		requests = append(requests, probeRequest{
			Method: strings.ToUpper(strings.TrimSpace(rec[0])),
			Path:   strings.TrimSpace(rec[1]),
		})
	}
	return requests, nil
}

func probe(ctx context.Context, client *http.Client, baseURL string, pr probeRequest) probeResult {
	result := probeResult{Request: pr}

	req, err := http.NewRequestWithContext(ctx, pr.Method, baseURL+pr.Path, nil)
	if err != nil {
		result.Err = err
		return result
	}

	start := time.Now()
	resp, err := client.Do(req)
	result.Latency = time.Since(start)
	if err != nil {
		result.Err = err
		return result
	}
	resp.Body.Close()

	result.Status = resp.StatusCode
	return result
}
