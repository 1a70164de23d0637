package stats

import (
	"math"

	"github.com/vrogeon/repartkey/core/repartition"
)

// SlotConsumer holds the statistics of one consumer in a slot.
type SlotConsumer struct {
	Consumption float64 `json:"consumption"`
	// AutoConsumption is derived from the finalized key, truncated to
	// two decimals.
	AutoConsumption    float64 `json:"auto_consumption"`
	AutoProductionRate int     `json:"auto_production_rate"`
}

// SlotRow is one line of the statistics report of a producer.
type SlotRow struct {
	Label      string         `json:"label"`
	Production float64        `json:"production"`
	Consumers  []SlotConsumer `json:"consumers"`
	// AutoConsumptionRate is the integer percentage of the producer output
	// auto-consumed in the slot.
	AutoConsumptionRate int `json:"auto_consumption_rate"`
}

// SlotRows returns the per-slot statistics of one producer.
func SlotRows(run *repartition.Run, producer int) ([]SlotRow, error) {
	if len(run.Slots) == 0 {
		return nil, nil
	}
	if err := checkIndex("producer", producer, len(run.Slots[0].Producers)); err != nil {
		return nil, err
	}

	rows := make([]SlotRow, 0, len(run.Slots))
	for _, s := range run.Slots {
		initial := s.Producers[producer].InitialProduction
		row := SlotRow{Label: s.Label, Production: initial, Consumers: make([]SlotConsumer, len(s.Consumers))}
		// Accumulated in hundredths to avoid float drift.
		var total int64
		for ci, c := range s.Consumers {
			sc := SlotConsumer{
				Consumption:     c.Consumption,
				AutoConsumption: math.Floor(initial*c.Params[producer].Key) / 100,
			}
			if c.Consumption != 0 {
				sc.AutoProductionRate = int(sc.AutoConsumption * 100 / c.Consumption)
			}
			row.Consumers[ci] = sc
			total += int64(math.RoundToEven(c.Params[producer].AutoConsumption * 100))
		}
		if initial != 0 {
			row.AutoConsumptionRate = int(float64(total) / initial)
		}
		rows = append(rows, row)
	}
	return rows, nil
}
