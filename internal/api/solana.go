package api

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
)

// DefaultSolanaRPCURL is the Solana mainnet JSON-RPC endpoint.
const DefaultSolanaRPCURL = "https://api.mainnet-beta.solana.com"

// TokenProgramID is the SPL token program account.
const TokenProgramID = "TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA"

// Balance is one asset balance for an account. SOL amounts are lamports;
// SPL token amounts are in the token's base units.
type Balance struct {
	Mint   string // "SOL" for the native balance, otherwise the token mint address
	Amount uint64
}

// rpcRequest is a JSON-RPC 2.0 request envelope.
type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	ID      int    `json:"id"`
	Method  string `json:"method"`
	Params  []any  `json:"params"`
}

// rpcError is a JSON-RPC 2.0 error object.
type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// rpcResponse is a JSON-RPC 2.0 response envelope.
type rpcResponse struct {
	Result json.RawMessage `json:"result"`
	Error  *rpcError       `json:"error"`
}

// getBalanceResult is the result shape of the getBalance method.
type getBalanceResult struct {
	Value uint64 `json:"value"`
}

// tokenAccountsResult is the result shape of getTokenAccountsByOwner with
// jsonParsed encoding.
type tokenAccountsResult struct {
	Value []struct {
		Account struct {
			Data struct {
				Parsed struct {
					Info struct {
						Mint        string `json:"mint"`
						TokenAmount struct {
							Amount string `json:"amount"`
						} `json:"tokenAmount"`
					} `json:"info"`
				} `json:"parsed"`
			} `json:"data"`
		} `json:"account"`
	} `json:"value"`
}

// rpc performs one JSON-RPC call and decodes the result.
func (c *Client) rpc(ctx context.Context, method string, params []any, result any) error {
	req := rpcRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  method,
		Params:  params,
	}

	var resp rpcResponse
	if err := c.post(ctx, "", req, &resp); err != nil {
		return err
	}
	if resp.Error != nil {
		return fmt.Errorf("rpc %s: %d %s", method, resp.Error.Code, resp.Error.Message)
	}
	if resp.Result == nil {
		return fmt.Errorf("rpc %s: empty result", method)
	}

	if err := json.Unmarshal(resp.Result, result); err != nil {
		return fmt.Errorf("rpc %s: unmarshal result: %w", method, err)
	}
	return nil
}

// GetBalances fetches all balances for a Solana account: the native SOL
// balance (in lamports) first, then SPL token balances. Zero token balances
// are filtered out; SOL is always reported, even at zero.
func (c *Client) GetBalances(ctx context.Context, owner string) ([]Balance, error) {
	var sol getBalanceResult
	if err := c.rpc(ctx, "getBalance", []any{owner}, &sol); err != nil {
		return nil, fmt.Errorf("get balance for %s: %w", owner, err)
	}
	balances := []Balance{{Mint: "SOL", Amount: sol.Value}}

	var accounts tokenAccountsResult
	err := c.rpc(ctx, "getTokenAccountsByOwner", []any{
		owner,
		map[string]string{"programId": TokenProgramID},
		map[string]string{"encoding": "jsonParsed"},
	}, &accounts)
	if err != nil {
		return nil, fmt.Errorf("get token accounts for %s: %w", owner, err)
	}

	for _, acc := range accounts.Value {
		info := acc.Account.Data.Parsed.Info
		amount, err := strconv.ParseUint(info.TokenAmount.Amount, 10, 64)
		if err != nil {
			// Token accounts with unparseable amounts are skipped, not fatal.
			continue
		}
		if amount == 0 {
			continue
		}
		balances = append(balances, Balance{Mint: info.Mint, Amount: amount})
	}

	return balances, nil
}
