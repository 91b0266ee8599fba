// Package api provides REST clients for the one-shot query tools: the
// Raydium liquidity/token listings and the Solana JSON-RPC balance lookup.
//
// These clients are external collaborators of the relay core; nothing here
// holds state or runs past a single request.
package api
