// toppools prints the top coins on Raydium by aggregated 24h pool volume.
// Usage: go run ./cmd/toppools -n 10
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/cryptoscan/agent/internal/api"
)

func main() {
	n := flag.Int("n", 10, "number of coins to print")
	baseURL := flag.String("base", api.DefaultRaydiumBaseURL, "Raydium SDK base URL")
	timeout := flag.Duration("timeout", 60*time.Second, "overall request timeout")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))

	client := api.NewClient(*baseURL,
		api.WithTimeout(*timeout),
		api.WithLogger(logger),
	)

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	// The two listings are independent downloads; fetch them concurrently.
	var (
		liquidity *api.LiquidityFile
		tokens    *api.TokenFile
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		liquidity, err = client.GetLiquidityPools(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		tokens, err = client.GetTokenList(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	ranking := api.TopCoinsByVolume(liquidity, tokens, *n)
	for i, coin := range ranking {
		fmt.Printf("%2d. %-10s $%.2f M\n", i+1, coin.Symbol, coin.Volume24h/1e6)
	}
}
