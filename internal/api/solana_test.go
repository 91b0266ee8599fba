package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// mockSolanaRPC serves canned JSON-RPC responses keyed by method.
func mockSolanaRPC(t *testing.T, responses map[string]string) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req rpcRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode rpc request: %v", err)
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		if req.JSONRPC != "2.0" {
			t.Errorf("jsonrpc = %q, want 2.0", req.JSONRPC)
		}

		resp, ok := responses[req.Method]
		if !ok {
			t.Errorf("unexpected rpc method %q", req.Method)
			http.Error(w, "unknown method", http.StatusBadRequest)
			return
		}
		w.Write([]byte(resp))
	}))
}

func TestClient_GetBalances(t *testing.T) {
	server := mockSolanaRPC(t, map[string]string{
		"getBalance": `{"jsonrpc": "2.0", "id": 1, "result": {"context": {"slot": 1}, "value": 1500000000}}`,
		"getTokenAccountsByOwner": `{"jsonrpc": "2.0", "id": 1, "result": {"value": [
			{"account": {"data": {"parsed": {"info": {"mint": "MintA", "tokenAmount": {"amount": "250"}}}}}},
			{"account": {"data": {"parsed": {"info": {"mint": "MintB", "tokenAmount": {"amount": "0"}}}}}}
		]}}`,
	})
	defer server.Close()

	c := NewClient(server.URL)
	balances, err := c.GetBalances(context.Background(), "SomeOwner")
	if err != nil {
		t.Fatalf("GetBalances failed: %v", err)
	}

	if len(balances) != 2 {
		t.Fatalf("got %d balances, want 2 (SOL + MintA; zero MintB filtered): %v", len(balances), balances)
	}
	if balances[0].Mint != "SOL" || balances[0].Amount != 1_500_000_000 {
		t.Errorf("SOL balance = %+v", balances[0])
	}
	if balances[1].Mint != "MintA" || balances[1].Amount != 250 {
		t.Errorf("token balance = %+v", balances[1])
	}
}

func TestClient_GetBalances_ZeroSOLKept(t *testing.T) {
	server := mockSolanaRPC(t, map[string]string{
		"getBalance":              `{"jsonrpc": "2.0", "id": 1, "result": {"value": 0}}`,
		"getTokenAccountsByOwner": `{"jsonrpc": "2.0", "id": 1, "result": {"value": []}}`,
	})
	defer server.Close()

	c := NewClient(server.URL)
	balances, err := c.GetBalances(context.Background(), "EmptyOwner")
	if err != nil {
		t.Fatalf("GetBalances failed: %v", err)
	}
	if len(balances) != 1 || balances[0].Mint != "SOL" || balances[0].Amount != 0 {
		t.Errorf("balances = %v, want zero SOL entry only", balances)
	}
}

func TestClient_GetBalances_RPCError(t *testing.T) {
	server := mockSolanaRPC(t, map[string]string{
		"getBalance": `{"jsonrpc": "2.0", "id": 1, "error": {"code": -32602, "message": "invalid params"}}`,
	})
	defer server.Close()

	c := NewClient(server.URL)
	_, err := c.GetBalances(context.Background(), "bad")
	if err == nil {
		t.Fatal("expected rpc error")
	}
	if !strings.Contains(err.Error(), "invalid params") {
		t.Errorf("error = %v, want rpc error message included", err)
	}
}
