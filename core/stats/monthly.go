package stats

import (
	"fmt"
	"math"

	"github.com/vrogeon/repartkey/core/model"
	"github.com/vrogeon/repartkey/core/repartition"
)

// sentinelMonth marks the end of the series so the last month is flushed.
const sentinelMonth = 13

// MonthConsumer holds the monthly figures of one consumer.
type MonthConsumer struct {
	ID                 string  `json:"id"`
	Name               string  `json:"name"`
	ConsumptionKWh     int     `json:"consumption_kwh"`
	AutoProductionRate float64 `json:"auto_production_rate"`
	AutoConsumptionKWh int     `json:"auto_consumption_kwh"`
}

// MonthRow is one calendar month of the report. Label is the label of the
// last slot of the month.
type MonthRow struct {
	Month         int             `json:"month"`
	Label         string          `json:"label"`
	ProductionKWh int             `json:"production_kwh"`
	Consumers     []MonthConsumer `json:"consumers"`
}

// MonthlyRollup groups the run slots by calendar month for one producer.
// Series values are accumulated and divided by 1000 when a row is flushed.
// Months are taken from the slot labels without the year. A new row starts
// whenever the month changes, so a month seen again later gets its own row.
func MonthlyRollup(run *repartition.Run, producer int) ([]MonthRow, error) {
	if len(run.Slots) == 0 {
		return nil, nil
	}
	if err := checkIndex("producer", producer, len(run.Slots[0].Producers)); err != nil {
		return nil, err
	}

	current, err := model.SlotMonth(run.Slots[0].Label)
	if err != nil {
		return nil, err
	}
	n := len(run.Slots[0].Consumers)
	var (
		rows []MonthRow
		prod float64
		cons = make([]float64, n)
		auto = make([]float64, n)
	)
	for i, s := range run.Slots {
		next := sentinelMonth
		if i < len(run.Slots)-1 {
			if next, err = model.SlotMonth(run.Slots[i+1].Label); err != nil {
				return nil, fmt.Errorf("slot %d: %w", i+1, err)
			}
		}

		initial := s.Producers[producer].InitialProduction
		prod += initial
		for ci, c := range s.Consumers {
			cons[ci] += c.Consumption
			auto[ci] += initial * c.Params[producer].Key / 100
		}

		if next == current {
			continue
		}
		row := MonthRow{Month: current, Label: s.Label, ProductionKWh: int(prod / 1000)}
		for ci := range cons {
			mc := MonthConsumer{
				ConsumptionKWh:     int(cons[ci] / 1000),
				AutoConsumptionKWh: int(auto[ci] / 1000),
			}
			if ci < len(run.Consumers) {
				mc.ID = run.Consumers[ci].ID
				mc.Name = run.Consumers[ci].Name
			}
			if cons[ci] != 0 {
				mc.AutoProductionRate = math.Trunc(auto[ci]*10000/cons[ci]) / 100
			}
			row.Consumers = append(row.Consumers, mc)
		}
		rows = append(rows, row)
		prod = 0
		cons = make([]float64, n)
		auto = make([]float64, n)
		current = next
	}
	return rows, nil
}
