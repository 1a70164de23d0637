package metrics

import (
	"errors"

	"github.com/vrogeon/repartkey/core/stats"
)

// MultiSink fans records out to several sinks. Every sink is called even
// when one fails; the errors are joined.
type MultiSink struct {
	Sinks []MetricsSink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...MetricsSink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordRun forwards the run to all sinks.
func (m *MultiSink) RecordRun(res RunResult) error {
	var errs []error
	for _, s := range m.Sinks {
		errs = append(errs, s.RecordRun(res))
	}
	return errors.Join(errs...)
}

// RecordSlotKeys forwards keys to the sinks supporting them.
func (m *MultiSink) RecordSlotKeys(keys []SlotKey) error {
	var errs []error
	for _, s := range m.Sinks {
		if rec, ok := s.(SlotKeyRecorder); ok {
			errs = append(errs, rec.RecordSlotKeys(keys))
		}
	}
	return errors.Join(errs...)
}

// RecordParseErrors forwards skipped-row events.
func (m *MultiSink) RecordParseErrors(ev ParseErrorEvent) error {
	var errs []error
	for _, s := range m.Sinks {
		if rec, ok := s.(ParseErrorRecorder); ok {
			errs = append(errs, rec.RecordParseErrors(ev))
		}
	}
	return errors.Join(errs...)
}

// RecordMonthlyKPIs forwards monthly KPIs.
func (m *MultiSink) RecordMonthlyKPIs(recs []stats.Record) error {
	var errs []error
	for _, s := range m.Sinks {
		if rec, ok := s.(MonthlyKPIRecorder); ok {
			errs = append(errs, rec.RecordMonthlyKPIs(recs))
		}
	}
	return errors.Join(errs...)
}

// Close closes every sink holding resources.
func (m *MultiSink) Close() {
	for _, s := range m.Sinks {
		CloseSink(s)
	}
}

// CloseSink closes s when it holds resources such as a client connection.
func CloseSink(s MetricsSink) {
	switch c := s.(type) {
	case interface{ Close() error }:
		_ = c.Close()
	case interface{ Close() }:
		c.Close()
	}
}
