// Package feed implements the upstream feed ingestor.
//
// The ingestor owns the single upstream WebSocket connection for the process
// lifetime: it connects, consumes ticker frames, extracts signals and
// publishes them to the broadcast cell, and reconnects on any failure using
// a fixed escalating delay schedule (2s, 4s, 8s, 16s, then from the top).
// It never gives up short of process shutdown.
package feed
