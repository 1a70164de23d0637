// Package monthkpi derives the monthly KPIs of a run and stores them.
package monthkpi

import (
	"fmt"

	"github.com/vrogeon/repartkey/core/repartition"
	"github.com/vrogeon/repartkey/core/stats"
)

// Backfill rolls the run up by month for every producer and adds one
// record per consumer and month to store. The added records are returned
// in producer, row, consumer order.
func Backfill(store stats.Store, run *repartition.Run) ([]stats.Record, error) {
	var out []stats.Record
	for p, prod := range run.Producers {
		rows, err := stats.MonthlyRollup(run, p)
		if err != nil {
			return out, fmt.Errorf("producer %s: %w", prod.ID, err)
		}
		for i, row := range rows {
			for _, c := range row.Consumers {
				rec := stats.Record{
					RunID:              run.ID,
					ProducerID:         prod.ID,
					ConsumerID:         c.ID,
					Month:              row.Month,
					Row:                i,
					Label:              row.Label,
					ProductionKWh:      float64(row.ProductionKWh),
					ConsumptionKWh:     float64(c.ConsumptionKWh),
					AutoConsumptionKWh: float64(c.AutoConsumptionKWh),
					AutoProductionRate: c.AutoProductionRate,
				}
				if err := store.Add(rec); err != nil {
					return out, err
				}
				out = append(out, rec)
			}
		}
	}
	return out, nil
}
