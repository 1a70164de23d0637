package stats

import (
	"time"

	"github.com/vrogeon/repartkey/core/repartition"
)

// Rate is one computed metric. Err is set when the metric is unavailable,
// in which case Value is 0.
type Rate struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Value float64 `json:"value"`
	Err   string  `json:"error,omitempty"`
}

// Available reports whether the rate could be computed.
func (r Rate) Available() bool { return r.Err == "" }

func newRate(id, name string, v float64, err error) Rate {
	r := Rate{ID: id, Name: name, Value: v}
	if err != nil {
		r.Value = 0
		r.Err = err.Error()
	}
	return r
}

// Summary gathers every rate of a run along with energy totals.
type Summary struct {
	RunID     string        `json:"run_id"`
	Strategy  string        `json:"strategy"`
	Slots     int           `json:"slots"`
	Truncated int           `json:"truncated"`
	StartedAt time.Time     `json:"started_at"`
	Duration  time.Duration `json:"duration"`

	ProductionKWh      float64 `json:"production_kwh"`
	ConsumptionKWh     float64 `json:"consumption_kwh"`
	AutoConsumptionKWh float64 `json:"auto_consumption_kwh"`

	// AutoConsumption and Coverage hold one rate per producer,
	// AutoProduction one per consumer.
	AutoConsumption      []Rate `json:"auto_consumption_rates"`
	Coverage             []Rate `json:"coverage_rates"`
	AutoProduction       []Rate `json:"auto_production_rates"`
	GlobalAutoProduction Rate   `json:"global_auto_production_rate"`
}

// Summarize computes all rates of the run. Rates that cannot be computed
// are reported through Rate.Err rather than failing the summary.
func Summarize(run *repartition.Run) Summary {
	sum := Summary{
		RunID:     run.ID,
		Strategy:  run.Strategy,
		Slots:     len(run.Slots),
		Truncated: run.Truncated,
		StartedAt: run.StartedAt,
		Duration:  run.Duration(),
	}
	for _, p := range run.Producers {
		sum.ProductionKWh += p.Total()
	}
	sum.ConsumptionKWh = totalConsumption(run.Consumers)
	for _, s := range run.Slots {
		for _, c := range s.Consumers {
			sum.AutoConsumptionKWh += c.AutoConsumption()
		}
	}

	for i, p := range run.Producers {
		v, err := AutoConsumptionRate(run, i)
		sum.AutoConsumption = append(sum.AutoConsumption, newRate(p.ID, p.Name, v, err))
		v, err = CoverageRate(run, i, run.Consumers)
		sum.Coverage = append(sum.Coverage, newRate(p.ID, p.Name, v, err))
	}
	for i, c := range run.Consumers {
		v, err := AutoProductionRate(run, i)
		sum.AutoProduction = append(sum.AutoProduction, newRate(c.ID, c.Name, v, err))
	}
	v, err := GlobalAutoProductionRate(run, run.Consumers)
	sum.GlobalAutoProduction = newRate("global", "global", v, err)
	return sum
}
