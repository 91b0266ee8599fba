package config

import (
	"os"
	"time"
)

// Default values for optional configuration fields.
const (
	DefaultFeedURL          = "wss://stream.binance.com:9443/ws/!ticker@arr"
	DefaultHandshakeTimeout = 10 * time.Second
	DefaultServerAddr       = ":8000"
	DefaultStaticDir        = "static"
)

// DefaultBackoff is the reconnect delay schedule. When exhausted it restarts
// from the top; the ingestor never gives up.
func DefaultBackoff() []time.Duration {
	return []time.Duration{
		2 * time.Second,
		4 * time.Second,
		8 * time.Second,
		16 * time.Second,
	}
}

func (c *Config) applyDefaults() {
	if c.Feed.URL == "" {
		if v := os.Getenv("FEED_URL"); v != "" {
			c.Feed.URL = v
		} else {
			c.Feed.URL = DefaultFeedURL
		}
	}
	if c.Feed.HandshakeTimeout == 0 {
		c.Feed.HandshakeTimeout = DefaultHandshakeTimeout
	}
	if len(c.Feed.Backoff) == 0 {
		c.Feed.Backoff = DefaultBackoff()
	}

	if c.Server.Addr == "" {
		c.Server.Addr = DefaultServerAddr
	}
	if c.Server.StaticDir == "" {
		c.Server.StaticDir = DefaultStaticDir
	}
}
