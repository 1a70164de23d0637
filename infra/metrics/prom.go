package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/vrogeon/repartkey/core/metrics"
)

// PromSink exposes run outcomes as Prometheus metrics.
type PromSink struct {
	rates       *prometheus.GaugeVec
	energy      *prometheus.GaugeVec
	slots       prometheus.Counter
	truncated   prometheus.Counter
	parseErrors *prometheus.CounterVec
	duration    prometheus.Histogram
	gatherer    prometheus.Gatherer
}

// NewPromSink registers run metrics on the default Prometheus registry.
func NewPromSink() (*PromSink, error) {
	return NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
}

// register returns c, or the collector already registered under the same
// descriptor.
func register[T prometheus.Collector](reg prometheus.Registerer, c T) (T, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(T); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer.
func NewPromSinkWithRegistry(reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	s := &PromSink{}
	var err error
	if s.rates, err = register(reg, prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "repartition_rate_percent",
		Help: "Rates of the last repartition run",
	}, []string{"kind", "id"})); err != nil {
		return nil, err
	}
	if s.energy, err = register(reg, prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "repartition_energy_kwh",
		Help: "Energy totals of the last repartition run",
	}, []string{"kind"})); err != nil {
		return nil, err
	}
	if s.slots, err = register(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "repartition_slots_total",
		Help: "Number of slots computed",
	})); err != nil {
		return nil, err
	}
	if s.truncated, err = register(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "repartition_truncated_slots_total",
		Help: "Number of slots where a priority tier hit the pass limit",
	})); err != nil {
		return nil, err
	}
	if s.parseErrors, err = register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "repartition_input_parse_errors_total",
		Help: "Input rows skipped because they could not be parsed",
	}, []string{"source"})); err != nil {
		return nil, err
	}
	if s.duration, err = register(reg, prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "repartition_run_duration_seconds",
		Help:    "Time spent building a repartition run",
		Buckets: prometheus.DefBuckets,
	})); err != nil {
		return nil, err
	}
	if g, ok := reg.(prometheus.Gatherer); ok {
		s.gatherer = g
	}
	return s, nil
}

// RecordRun sets the rate and energy gauges and updates the counters.
// Unavailable rates are not exported.
func (s *PromSink) RecordRun(res coremetrics.RunResult) error {
	for _, r := range res.Rates {
		if !r.Available {
			s.rates.DeleteLabelValues(r.Kind, r.ID)
			continue
		}
		s.rates.WithLabelValues(r.Kind, r.ID).Set(r.Value)
	}
	s.energy.WithLabelValues("production").Set(res.ProductionKWh)
	s.energy.WithLabelValues("consumption").Set(res.ConsumptionKWh)
	s.energy.WithLabelValues("auto_consumption").Set(res.AutoConsumptionKWh)
	s.slots.Add(float64(res.Slots))
	s.truncated.Add(float64(res.Truncated))
	s.duration.Observe(res.Duration.Seconds())
	return nil
}

// RecordParseErrors counts skipped input rows.
func (s *PromSink) RecordParseErrors(ev coremetrics.ParseErrorEvent) error {
	s.parseErrors.WithLabelValues(ev.Source).Add(float64(ev.Count))
	return nil
}

// WriteTextfile writes the registry content in the text exposition format.
// It fails when the registerer given at construction cannot be gathered.
func (s *PromSink) WriteTextfile(path string) error {
	if s.gatherer == nil {
		return errors.New("prometheus registerer is not a gatherer")
	}
	return prometheus.WriteToTextfile(path, s.gatherer)
}
