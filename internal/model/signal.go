package model

import "time"

// Signal represents a notable market move derived from the upstream ticker
// feed: an instrument whose 24h gain and traded volume both clear the
// extraction thresholds. Signals are immutable once created and are never
// persisted; they live only until superseded by a newer Signal.
type Signal struct {
	Symbol       string    `json:"symbol"`         // Exchange instrument identifier (e.g., "BTCUSDT")
	PctGain24h   float64   `json:"pct_gain_24h"`   // Percentage change over the trailing 24h
	QuoteVolUSDT float64   `json:"quote_vol_usdt"` // Trailing 24h quote-currency volume
	LastPrice    float64   `json:"last_price"`     // Most recent trade price
	ObservedAt   time.Time `json:"observed_at"`    // Local extraction timestamp (not from upstream)
}
