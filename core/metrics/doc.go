// Package metrics defines the sinks that receive the outcome of a
// repartition run. Every sink records the run summary; sinks may also
// implement the optional recorder interfaces to receive per-slot keys,
// skipped input rows or monthly KPIs. The factory helpers return a
// MultiSink when several sinks are configured.
package metrics
