package stats

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/vrogeon/repartkey/core/model"
	"github.com/vrogeon/repartkey/core/repartition"
)

// ErrZeroDenominator is returned when no production or consumption was
// recorded for the quantity a rate divides by.
var ErrZeroDenominator = errors.New("zero denominator")

// truncRate returns num/den as a percentage truncated to one decimal.
func truncRate(metric string, num, den float64) (float64, error) {
	if den == 0 {
		return 0, fmt.Errorf("%s: %w", metric, ErrZeroDenominator)
	}
	return math.Trunc(num*1000/den) / 10, nil
}

func checkIndex(kind string, i, n int) error {
	if i < 0 || i >= n {
		return fmt.Errorf("%s index %d out of range [0,%d)", kind, i, n)
	}
	return nil
}

// AutoConsumptionRate is the share of a producer's output auto-consumed by
// the community.
func AutoConsumptionRate(run *repartition.Run, producer int) (float64, error) {
	if len(run.Slots) > 0 {
		if err := checkIndex("producer", producer, len(run.Slots[0].Producers)); err != nil {
			return 0, err
		}
	}
	auto := make([]float64, 0, len(run.Slots))
	prod := make([]float64, 0, len(run.Slots))
	for _, s := range run.Slots {
		for _, c := range s.Consumers {
			auto = append(auto, c.Params[producer].AutoConsumption)
		}
		prod = append(prod, s.Producers[producer].InitialProduction)
	}
	return truncRate("auto_consumption_rate", floats.Sum(auto), floats.Sum(prod))
}

// AutoProductionRate is the share of a consumer's demand covered by the
// community production.
func AutoProductionRate(run *repartition.Run, consumer int) (float64, error) {
	if len(run.Slots) > 0 {
		if err := checkIndex("consumer", consumer, len(run.Slots[0].Consumers)); err != nil {
			return 0, err
		}
	}
	auto := make([]float64, 0, len(run.Slots))
	cons := make([]float64, 0, len(run.Slots))
	for _, s := range run.Slots {
		c := s.Consumers[consumer]
		auto = append(auto, c.AutoConsumption())
		cons = append(cons, c.Consumption)
	}
	return truncRate("auto_production_rate", floats.Sum(auto), floats.Sum(cons))
}

// GlobalAutoProductionRate is the share of the whole community demand
// covered by production. Demand is read from the consumer series.
func GlobalAutoProductionRate(run *repartition.Run, consumers []model.Consumer) (float64, error) {
	auto := make([]float64, 0, len(run.Slots))
	for _, s := range run.Slots {
		for _, c := range s.Consumers {
			auto = append(auto, c.AutoConsumption())
		}
	}
	return truncRate("global_auto_production_rate", floats.Sum(auto), totalConsumption(consumers))
}

// CoverageRate is a producer's output relative to the community demand.
func CoverageRate(run *repartition.Run, producer int, consumers []model.Consumer) (float64, error) {
	if len(run.Slots) > 0 {
		if err := checkIndex("producer", producer, len(run.Slots[0].Producers)); err != nil {
			return 0, err
		}
	}
	prod := make([]float64, 0, len(run.Slots))
	for _, s := range run.Slots {
		prod = append(prod, s.Producers[producer].InitialProduction)
	}
	return truncRate("coverage_rate", floats.Sum(prod), totalConsumption(consumers))
}

func totalConsumption(consumers []model.Consumer) float64 {
	totals := make([]float64, len(consumers))
	for i, c := range consumers {
		totals[i] = c.Total()
	}
	return floats.Sum(totals)
}
