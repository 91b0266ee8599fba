// Package config loads and validates the relay configuration.
//
// Configuration is YAML with ${VAR} environment expansion, so deployment
// environments can override the upstream feed URL without editing the file.
package config

import "time"

// Config is the root configuration for the relay.
type Config struct {
	Feed   FeedConfig   `yaml:"feed"`
	Server ServerConfig `yaml:"server"`
}

// FeedConfig holds upstream feed settings.
type FeedConfig struct {
	// URL is the upstream WebSocket endpoint. Defaults to the Binance
	// all-market ticker stream; override via config or the FEED_URL
	// environment variable.
	URL              string          `yaml:"url"`
	HandshakeTimeout time.Duration   `yaml:"handshake_timeout"`
	Backoff          []time.Duration `yaml:"backoff"` // reconnect delay schedule, cycled forever
}

// ServerConfig holds subscriber-facing HTTP server settings.
type ServerConfig struct {
	Addr      string `yaml:"addr"`
	StaticDir string `yaml:"static_dir"` // dashboard assets; empty disables static serving
}
