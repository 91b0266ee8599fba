// Package signal extracts notable-move Signals from raw upstream ticker
// frames.
//
// Extraction is a pure function: no I/O, no state. A frame is a JSON array
// of per-instrument ticker objects; each object that clears both the gain
// and volume thresholds yields one Signal, in input order.
package signal
