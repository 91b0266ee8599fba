package api

import (
	"context"
	"fmt"
	"sort"
)

// DefaultRaydiumBaseURL is the root of the Raydium SDK file endpoints.
const DefaultRaydiumBaseURL = "https://api.raydium.io/v2/sdk"

// Paths under the Raydium SDK base URL.
const (
	liquidityPath = "/liquidity/mainnet.json"
	tokenPath     = "/token/solana.mainnet.json"
)

// PoolInfo describes one Raydium liquidity pool.
type PoolInfo struct {
	BaseSymbol  string  `json:"baseSymbol"`
	QuoteSymbol string  `json:"quoteSymbol"`
	Volume24h   float64 `json:"volume24h"`
}

// LiquidityFile is the Raydium liquidity listing.
type LiquidityFile struct {
	Official   []PoolInfo `json:"official"`
	Unofficial []PoolInfo `json:"unOfficial"`
}

// TokenInfo describes one listed token.
type TokenInfo struct {
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
	Decimals int    `json:"decimals"`
}

// TokenFile is the Raydium token listing.
type TokenFile struct {
	Official   []TokenInfo `json:"official"`
	Unofficial []TokenInfo `json:"unOfficial"`
}

// GetLiquidityPools fetches the Raydium liquidity listing.
func (c *Client) GetLiquidityPools(ctx context.Context) (*LiquidityFile, error) {
	var file LiquidityFile
	if err := c.get(ctx, liquidityPath, nil, &file); err != nil {
		return nil, fmt.Errorf("get liquidity pools: %w", err)
	}
	return &file, nil
}

// GetTokenList fetches the Raydium token listing.
func (c *Client) GetTokenList(ctx context.Context) (*TokenFile, error) {
	var file TokenFile
	if err := c.get(ctx, tokenPath, nil, &file); err != nil {
		return nil, fmt.Errorf("get token list: %w", err)
	}
	return &file, nil
}

// CoinVolume is a per-coin 24h volume aggregate.
type CoinVolume struct {
	Symbol    string
	Volume24h float64
}

// TopCoinsByVolume aggregates 24h volume per coin across pools whose base
// and quote symbols are both listed tokens, and returns the top n coins by
// volume. Pools touching unlisted tokens are skipped entirely.
func TopCoinsByVolume(liquidity *LiquidityFile, tokens *TokenFile, n int) []CoinVolume {
	listed := make(map[string]struct{})
	for _, t := range tokens.Official {
		listed[t.Symbol] = struct{}{}
	}
	for _, t := range tokens.Unofficial {
		listed[t.Symbol] = struct{}{}
	}

	volume := make(map[string]float64)
	pools := make([]PoolInfo, 0, len(liquidity.Official)+len(liquidity.Unofficial))
	pools = append(pools, liquidity.Official...)
	pools = append(pools, liquidity.Unofficial...)

	for _, pool := range pools {
		if _, ok := listed[pool.BaseSymbol]; !ok {
			continue
		}
		if _, ok := listed[pool.QuoteSymbol]; !ok {
			continue
		}
		volume[pool.BaseSymbol] += pool.Volume24h
		volume[pool.QuoteSymbol] += pool.Volume24h
	}

	ranking := make([]CoinVolume, 0, len(volume))
	for sym, vol := range volume {
		ranking = append(ranking, CoinVolume{Symbol: sym, Volume24h: vol})
	}
	sort.Slice(ranking, func(i, j int) bool {
		if ranking[i].Volume24h != ranking[j].Volume24h {
			return ranking[i].Volume24h > ranking[j].Volume24h
		}
		return ranking[i].Symbol < ranking[j].Symbol
	})

	if n > 0 && len(ranking) > n {
		ranking = ranking[:n]
	}
	return ranking
}
