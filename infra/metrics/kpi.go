package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/vrogeon/repartkey/core/metrics"
	"github.com/vrogeon/repartkey/core/stats"
)

// KPISink exposes the monthly KPIs of the last run as Prometheus gauges.
type KPISink struct {
	consumption *prometheus.GaugeVec
	auto        *prometheus.GaugeVec
	rate        *prometheus.GaugeVec
}

// NewKPISink creates a sink with gauges registered on reg.
func NewKPISink(reg prometheus.Registerer) (*KPISink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	labels := []string{"producer_id", "consumer_id", "month", "row"}
	s := &KPISink{}
	var err error
	if s.consumption, err = register(reg, prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "community_monthly_consumption_kwh",
		Help: "Monthly consumption per consumer",
	}, labels)); err != nil {
		return nil, err
	}
	if s.auto, err = register(reg, prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "community_monthly_auto_consumption_kwh",
		Help: "Monthly auto-consumed energy per consumer and producer",
	}, labels)); err != nil {
		return nil, err
	}
	if s.rate, err = register(reg, prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "community_monthly_auto_production_rate_percent",
		Help: "Monthly share of consumption covered by the producer",
	}, labels)); err != nil {
		return nil, err
	}
	return s, nil
}

// RecordRun is a no-op: the sink only follows monthly KPIs.
func (s *KPISink) RecordRun(coremetrics.RunResult) error { return nil }

// RecordMonthlyKPIs replaces the gauges with the records of the run.
func (s *KPISink) RecordMonthlyKPIs(recs []stats.Record) error {
	s.consumption.Reset()
	s.auto.Reset()
	s.rate.Reset()
	for _, r := range recs {
		month, row := strconv.Itoa(r.Month), strconv.Itoa(r.Row)
		s.consumption.WithLabelValues(r.ProducerID, r.ConsumerID, month, row).Set(r.ConsumptionKWh)
		s.auto.WithLabelValues(r.ProducerID, r.ConsumerID, month, row).Set(r.AutoConsumptionKWh)
		s.rate.WithLabelValues(r.ProducerID, r.ConsumerID, month, row).Set(r.AutoProductionRate)
	}
	return nil
}
