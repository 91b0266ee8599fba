package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func TestNewClient(t *testing.T) {
	t.Run("default values", func(t *testing.T) {
		c := NewClient("https://api.example.com")

		if c.baseURL != "https://api.example.com" {
			t.Errorf("baseURL = %q", c.baseURL)
		}
		if c.httpClient.Timeout != 30*time.Second {
			t.Errorf("Timeout = %v, want 30s", c.httpClient.Timeout)
		}
		if c.maxRetries != 3 {
			t.Errorf("maxRetries = %d, want 3", c.maxRetries)
		}
		if c.logger == nil {
			t.Error("logger should not be nil")
		}
	})

	t.Run("with options", func(t *testing.T) {
		c := NewClient("https://api.example.com",
			WithTimeout(5*time.Second),
			WithRetries(5, 2*time.Second),
			WithUserAgent("test/1.0"),
		)
		if c.httpClient.Timeout != 5*time.Second {
			t.Errorf("Timeout = %v, want 5s", c.httpClient.Timeout)
		}
		if c.maxRetries != 5 || c.retryBackoff != 2*time.Second {
			t.Errorf("retries = (%d, %v), want (5, 2s)", c.maxRetries, c.retryBackoff)
		}
		if c.userAgent != "test/1.0" {
			t.Errorf("userAgent = %q", c.userAgent)
		}
	})
}

func TestClient_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(`{"ok": true}`))
	}))
	defer server.Close()

	c := NewClient(server.URL, WithRetries(3, time.Millisecond))

	var result struct {
		OK bool `json:"ok"`
	}
	if err := c.get(context.Background(), "/", nil, &result); err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if !result.OK {
		t.Error("result not decoded")
	}
	if calls.Load() != 3 {
		t.Errorf("server called %d times, want 3", calls.Load())
	}
}

func TestClient_DoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	c := NewClient(server.URL, WithRetries(3, time.Millisecond))

	var result any
	err := c.get(context.Background(), "/", nil, &result)
	if err == nil {
		t.Fatal("expected error for 404")
	}
	if calls.Load() != 1 {
		t.Errorf("server called %d times, want 1 (no retry on 4xx)", calls.Load())
	}

	apiErr, ok := err.(*APIError)
	if !ok {
		t.Fatalf("error type = %T, want *APIError", err)
	}
	if apiErr.StatusCode != http.StatusNotFound {
		t.Errorf("StatusCode = %d, want 404", apiErr.StatusCode)
	}
}

func TestClient_SendsUserAgent(t *testing.T) {
	var gotUA atomic.Value
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA.Store(r.Header.Get("User-Agent"))
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	c := NewClient(server.URL, WithUserAgent("cryptoscan-test/0.1"))

	var result any
	if err := c.get(context.Background(), "/", nil, &result); err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if ua := gotUA.Load(); ua != "cryptoscan-test/0.1" {
		t.Errorf("User-Agent = %v", ua)
	}
}
