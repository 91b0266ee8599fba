// balances prints the SOL and SPL token balances of a Solana account.
// Usage: go run ./cmd/balances <owner-pubkey>
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/cryptoscan/agent/internal/api"
)

func main() {
	rpcURL := flag.String("rpc-url", api.DefaultSolanaRPCURL, "Solana RPC endpoint")
	timeout := flag.Duration("timeout", 30*time.Second, "request timeout")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "usage: %s [flags] <owner-pubkey>\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(2)
	}
	owner := flag.Arg(0)

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))

	client := api.NewClient(*rpcURL,
		api.WithTimeout(*timeout),
		api.WithLogger(logger),
	)

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	balances, err := client.GetBalances(ctx, owner)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	for _, b := range balances {
		fmt.Printf("%-44s %d\n", b.Mint, b.Amount)
	}
}
