// Package export writes repartition runs as the CSV files expected by the
// distribution operator, plus spreadsheet, PDF and JSON summaries.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/vrogeon/repartkey/core/repartition"
	"github.com/vrogeon/repartkey/core/stats"
)

// Separator is the column separator of every CSV report.
const Separator = ';'

// StatisticsOptions selects the optional per-consumer columns of the
// statistics report.
type StatisticsOptions struct {
	Consumption        bool `json:"consumption"`
	AutoConsumption    bool `json:"auto_consumption"`
	AutoProductionRate bool `json:"auto_production_rate"`
}

// DefaultStatisticsOptions only includes auto-consumption.
func DefaultStatisticsOptions() StatisticsOptions {
	return StatisticsOptions{AutoConsumption: true}
}

// MonthlyOptions selects the per-consumer columns of the monthly report.
type MonthlyOptions struct {
	Consumption        bool `json:"consumption"`
	AutoProductionRate bool `json:"auto_production_rate"`
	AutoConsumption    bool `json:"auto_consumption"`
}

// DefaultMonthlyOptions includes every column.
func DefaultMonthlyOptions() MonthlyOptions {
	return MonthlyOptions{Consumption: true, AutoProductionRate: true, AutoConsumption: true}
}

func newWriter(w io.Writer) *csv.Writer {
	cw := csv.NewWriter(w)
	cw.Comma = Separator
	return cw
}

func checkProducer(run *repartition.Run, producer int) error {
	if producer < 0 || producer >= len(run.Producers) {
		return fmt.Errorf("producer index %d out of range [0,%d)", producer, len(run.Producers))
	}
	return nil
}

// WriteKeys writes the repartition keys of one producer: one column per
// consumer meter, one row per slot.
func WriteKeys(w io.Writer, run *repartition.Run, producer int) error {
	if err := checkProducer(run, producer); err != nil {
		return err
	}
	cw := newWriter(w)
	header := []string{"Horodate"}
	for _, c := range run.Consumers {
		header = append(header, c.ID)
	}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, s := range run.Slots {
		rec := make([]string, 0, len(s.Consumers)+1)
		rec = append(rec, s.Label)
		for _, c := range s.Consumers {
			rec = append(rec, comma(c.Params[producer].Key, 1))
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteStatistics writes the per-slot statistics of one producer.
func WriteStatistics(w io.Writer, run *repartition.Run, producer int, opts StatisticsOptions) error {
	if err := checkProducer(run, producer); err != nil {
		return err
	}
	rows, err := stats.SlotRows(run, producer)
	if err != nil {
		return err
	}
	cw := newWriter(w)
	header := []string{"Horodate", run.Producers[producer].Name}
	for _, c := range run.Consumers {
		if opts.Consumption {
			header = append(header, c.Name+"\ncons")
		}
		if opts.AutoConsumption {
			header = append(header, c.Name+"\nauto_cons")
		}
		if opts.AutoProductionRate {
			header = append(header, c.Name+"\nauto_prod_rate")
		}
	}
	header = append(header, "auto_cons_rate")
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, r := range rows {
		rec := []string{r.Label, commaShort(r.Production)}
		for _, c := range r.Consumers {
			if opts.Consumption {
				rec = append(rec, commaShort(c.Consumption))
			}
			if opts.AutoConsumption {
				rec = append(rec, comma(c.AutoConsumption, 2))
			}
			if opts.AutoProductionRate {
				rec = append(rec, strconv.Itoa(c.AutoProductionRate))
			}
		}
		rec = append(rec, strconv.Itoa(r.AutoConsumptionRate))
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteMonthlyReport writes one row per calendar month for one producer.
func WriteMonthlyReport(w io.Writer, run *repartition.Run, producer int, opts MonthlyOptions) error {
	if err := checkProducer(run, producer); err != nil {
		return err
	}
	rows, err := stats.MonthlyRollup(run, producer)
	if err != nil {
		return err
	}
	return writeMonthRows(w, run, producer, rows, opts)
}

func writeMonthRows(w io.Writer, run *repartition.Run, producer int, rows []stats.MonthRow, opts MonthlyOptions) error {
	cw := newWriter(w)
	header := []string{"Horodate", run.Producers[producer].Name + "\n prod"}
	for _, c := range run.Consumers {
		if opts.Consumption {
			header = append(header, c.Name+"\ncons_mois")
		}
		if opts.AutoProductionRate {
			header = append(header, c.Name+"\nauto_prod_rate")
		}
		if opts.AutoConsumption {
			header = append(header, c.Name+"\nauto_cons_mois")
		}
	}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, r := range rows {
		rec := []string{r.Label, strconv.Itoa(r.ProductionKWh)}
		for _, c := range r.Consumers {
			if opts.Consumption {
				rec = append(rec, strconv.Itoa(c.ConsumptionKWh))
			}
			if opts.AutoProductionRate {
				rec = append(rec, comma(c.AutoProductionRate, 2))
			}
			if opts.AutoConsumption {
				rec = append(rec, strconv.Itoa(c.AutoConsumptionKWh))
			}
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
