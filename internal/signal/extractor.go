package signal

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/cryptoscan/agent/internal/model"
)

// Inclusion thresholds. Both are inclusive: a ticker at exactly 5.0% and
// $1,000,000 produces a Signal.
const (
	MinPctGain24h   = 5.0
	MinQuoteVolUSDT = 1_000_000.0
)

// tickerEntry is the wire format of one upstream ticker object. The numeric
// fields are kept raw because the upstream encodes them as JSON strings;
// bare JSON numbers are treated as absent (an observed upstream quirk).
type tickerEntry struct {
	Symbol      json.RawMessage `json:"s"`
	PctChange   json.RawMessage `json:"P"`
	QuoteVolume json.RawMessage `json:"q"`
	ClosePrice  json.RawMessage `json:"c"`
}

// Extract parses one raw text frame into zero or more Signals, preserving
// input order and stamping each with now.
//
// Valid JSON that is not an array yields an empty result, not an error.
// A malformed numeric string anywhere in the frame fails the whole frame.
func Extract(frame []byte, now time.Time) ([]model.Signal, error) {
	var entries []json.RawMessage
	if err := json.Unmarshal(frame, &entries); err != nil {
		if json.Valid(frame) {
			// Non-array payloads (status objects etc.) carry no ticker data.
			return nil, nil
		}
		return nil, fmt.Errorf("decode ticker frame: %w", err)
	}

	var signals []model.Signal
	for _, raw := range entries {
		var entry tickerEntry
		if err := json.Unmarshal(raw, &entry); err != nil {
			// Array elements that are not objects carry no ticker fields.
			continue
		}

		pct, err := floatField(entry.PctChange)
		if err != nil {
			return nil, err
		}
		vol, err := floatField(entry.QuoteVolume)
		if err != nil {
			return nil, err
		}
		if pct < MinPctGain24h || vol < MinQuoteVolUSDT {
			continue
		}

		price, err := floatField(entry.ClosePrice)
		if err != nil {
			return nil, err
		}

		signals = append(signals, model.Signal{
			Symbol:       stringField(entry.Symbol),
			PctGain24h:   pct,
			QuoteVolUSDT: vol,
			LastPrice:    price,
			ObservedAt:   now,
		})
	}

	return signals, nil
}

// floatField parses a string-encoded numeric field. Missing fields and
// non-string JSON values are treated as zero; a string that is not a valid
// number is an error.
func floatField(raw json.RawMessage) (float64, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return 0, nil
	}

	// strconv accepts Go literal underscores; the upstream never sends them.
	if strings.ContainsRune(s, '_') {
		return 0, fmt.Errorf("invalid numeric field %q", s)
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid numeric field %q", s)
	}
	return f, nil
}

// stringField returns a string field's value, or "" if missing or not a string.
func stringField(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}
