// Package model defines shared data types used across the scanner.
//
// Conventions:
//   - Prices and volumes: float64, quote-currency (USDT) denominated
//   - Timestamps: time.Time, assigned locally at extraction time
package model
