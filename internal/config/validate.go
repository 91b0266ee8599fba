package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate checks that all required fields are set and values are valid.
func (c *Config) Validate() error {
	if c.Feed.URL == "" {
		return errors.New("feed.url is required")
	}
	if !strings.HasPrefix(c.Feed.URL, "ws://") && !strings.HasPrefix(c.Feed.URL, "wss://") {
		return fmt.Errorf("feed.url must be a ws:// or wss:// URL, got %q", c.Feed.URL)
	}
	if c.Feed.HandshakeTimeout <= 0 {
		return errors.New("feed.handshake_timeout must be positive")
	}
	if len(c.Feed.Backoff) == 0 {
		return errors.New("feed.backoff must have at least one delay")
	}
	for i, d := range c.Feed.Backoff {
		if d <= 0 {
			return fmt.Errorf("feed.backoff[%d] must be positive, got %v", i, d)
		}
	}

	if c.Server.Addr == "" {
		return errors.New("server.addr is required")
	}

	return nil
}
