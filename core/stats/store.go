package stats

import "errors"

// ErrNoRun is returned by Query when the store holds no run.
var ErrNoRun = errors.New("no run recorded")

// Record is the monthly KPI of one consumer for one producer of a run.
// Row is the position of the month row in the rollup and tells apart two
// occurrences of the same calendar month in one run.
type Record struct {
	RunID              string  `json:"run_id"`
	ProducerID         string  `json:"producer_id"`
	ConsumerID         string  `json:"consumer_id"`
	Month              int     `json:"month"`
	Row                int     `json:"row"`
	Label              string  `json:"label"`
	ProductionKWh      float64 `json:"production_kwh"`
	ConsumptionKWh     float64 `json:"consumption_kwh"`
	AutoConsumptionKWh float64 `json:"auto_consumption_kwh"`
	AutoProductionRate float64 `json:"auto_production_rate"`
}

// Store persists monthly KPI records.
type Store interface {
	// Add inserts the record or replaces the one with the same run,
	// producer, consumer, row and month.
	Add(Record) error
	// Query returns the records of a producer ordered by row, month then
	// consumer. An empty runID selects the most recent run.
	Query(runID, producerID string) ([]Record, error)
	Close() error
}
