// Package stats derives rates, per-slot statistics rows and monthly rollups
// from a repartition run, and defines the store used to keep monthly KPIs.
//
// Rates are truncated to 0.1%. A rate whose denominator is zero returns
// ErrZeroDenominator so callers can report it instead of failing.
package stats
