package metrics

import (
	"time"

	"github.com/vrogeon/repartkey/core/model"
	"github.com/vrogeon/repartkey/core/repartition"
	"github.com/vrogeon/repartkey/core/stats"
)

// Rate kinds carried by RunResult.
const (
	RateAutoConsumption      = "auto_consumption"
	RateCoverage             = "coverage"
	RateAutoProduction       = "auto_production"
	RateGlobalAutoProduction = "global_auto_production"
)

// RateSample is one rate of a run. Unavailable rates have Available false.
type RateSample struct {
	Kind      string  `json:"kind"`
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Value     float64 `json:"value"`
	Available bool    `json:"available"`
}

// RunResult is the outcome of a repartition run to be recorded.
type RunResult struct {
	RunID              string        `json:"run_id"`
	Strategy           string        `json:"strategy"`
	Slots              int           `json:"slots"`
	Truncated          int           `json:"truncated"`
	Duration           time.Duration `json:"duration"`
	Time               time.Time     `json:"time"`
	ProductionKWh      float64       `json:"production_kwh"`
	ConsumptionKWh     float64       `json:"consumption_kwh"`
	AutoConsumptionKWh float64       `json:"auto_consumption_kwh"`
	Rates              []RateSample  `json:"rates"`
}

// NewRunResult flattens a run summary.
func NewRunResult(sum stats.Summary) RunResult {
	res := RunResult{
		RunID:              sum.RunID,
		Strategy:           sum.Strategy,
		Slots:              sum.Slots,
		Truncated:          sum.Truncated,
		Duration:           sum.Duration,
		Time:               sum.StartedAt,
		ProductionKWh:      sum.ProductionKWh,
		ConsumptionKWh:     sum.ConsumptionKWh,
		AutoConsumptionKWh: sum.AutoConsumptionKWh,
	}
	add := func(kind string, rates ...stats.Rate) {
		for _, r := range rates {
			res.Rates = append(res.Rates, RateSample{Kind: kind, ID: r.ID, Name: r.Name, Value: r.Value, Available: r.Available()})
		}
	}
	add(RateAutoConsumption, sum.AutoConsumption...)
	add(RateCoverage, sum.Coverage...)
	add(RateAutoProduction, sum.AutoProduction...)
	add(RateGlobalAutoProduction, sum.GlobalAutoProduction)
	return res
}

// MetricsSink records run results for observability purposes.
type MetricsSink interface {
	RecordRun(res RunResult) error
}

// SlotKey is the finalized key of one consumer for one producer in a slot.
type SlotKey struct {
	RunID           string
	Label           string
	Time            time.Time
	ProducerID      string
	ConsumerID      string
	Key             float64
	AutoConsumption float64
}

// SlotKeyRecorder records per-slot keys.
type SlotKeyRecorder interface {
	RecordSlotKeys(keys []SlotKey) error
}

// SlotKeys lists the keys of a run. Labels without a year are dated in
// year; labels that cannot be parsed keep a zero Time.
func SlotKeys(run *repartition.Run, year int) []SlotKey {
	var keys []SlotKey
	for _, s := range run.Slots {
		ts, _ := model.ParseSlot(s.Label, year)
		for ci, c := range s.Consumers {
			for pi, p := range c.Params {
				keys = append(keys, SlotKey{
					RunID:           run.ID,
					Label:           s.Label,
					Time:            ts,
					ProducerID:      run.Producers[pi].ID,
					ConsumerID:      run.Consumers[ci].ID,
					Key:             p.Key,
					AutoConsumption: p.AutoConsumption,
				})
			}
		}
	}
	return keys
}

// ParseErrorEvent reports input rows skipped while loading a series.
type ParseErrorEvent struct {
	Source string
	Count  int
	Time   time.Time
}

// ParseErrorRecorder records skipped input rows.
type ParseErrorRecorder interface {
	RecordParseErrors(ev ParseErrorEvent) error
}

// MonthlyKPIRecorder records the monthly KPIs of a run.
type MonthlyKPIRecorder interface {
	RecordMonthlyKPIs(recs []stats.Record) error
}

// NopSink implements every recorder with no-op methods.
type NopSink struct{}

func (NopSink) RecordRun(RunResult) error               { return nil }
func (NopSink) RecordSlotKeys([]SlotKey) error          { return nil }
func (NopSink) RecordParseErrors(ParseErrorEvent) error { return nil }
func (NopSink) RecordMonthlyKPIs([]stats.Record) error  { return nil }
