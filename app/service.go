package app

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/vrogeon/repartkey/config"
	coremetrics "github.com/vrogeon/repartkey/core/metrics"
	"github.com/vrogeon/repartkey/core/model"
	"github.com/vrogeon/repartkey/core/repartition"
	"github.com/vrogeon/repartkey/core/stats"
	"github.com/vrogeon/repartkey/infra/kpi"
	"github.com/vrogeon/repartkey/infra/logger"
	"github.com/vrogeon/repartkey/infra/metrics"
	"github.com/vrogeon/repartkey/infra/timeseries"
	"github.com/vrogeon/repartkey/jobs/monthkpi"
	"github.com/vrogeon/repartkey/pkg/export"
)

// Service loads the community series, builds runs and publishes their
// reports, metrics and monthly KPIs.
type Service struct {
	cfg      *config.Config
	log      logger.Logger
	reader   *timeseries.Reader
	engine   *repartition.Engine
	sink     coremetrics.MetricsSink
	textfile *metrics.PromSink
	store    stats.Store
}

// New creates a Service from the configuration.
func New(cfg *config.Config) (*Service, error) {
	if err := logger.SetLevel(cfg.Logging.Level); err != nil {
		return nil, err
	}
	logg := logger.New("service")

	sink, err := coremetrics.NewMetricsSink(cfg.Metrics.Sinks)
	if err != nil {
		return nil, fmt.Errorf("metrics sink: %w", err)
	}
	svc := &Service{
		cfg:    cfg,
		log:    logg,
		reader: timeseries.NewReader(logger.New("timeseries")),
		engine: repartition.NewEngine(logger.New("engine"), cfg.Repartition.Workers),
		sink:   sink,
	}
	if cfg.Metrics.Textfile != "" {
		prom, err := metrics.NewPromSinkWithRegistry(prometheus.NewRegistry())
		if err != nil {
			coremetrics.CloseSink(sink)
			return nil, fmt.Errorf("textfile sink: %w", err)
		}
		svc.textfile = prom
		svc.sink = coremetrics.NewMultiSink(sink, prom)
	}

	switch cfg.KPI.Backend {
	case "sqlite":
		store, err := kpi.NewSQLiteStore(cfg.KPI.Path)
		if err != nil {
			coremetrics.CloseSink(svc.sink)
			return nil, fmt.Errorf("kpi store: %w", err)
		}
		svc.store = store
	default:
		svc.store = stats.NewMemoryStore()
	}
	return svc, nil
}

// ComputeOptions override the configuration for one run.
type ComputeOptions struct {
	// Strategy replaces repartition.strategy when set.
	Strategy string
	// Factor scales every producer when > 0, replacing the configured factors.
	Factor float64
}

// Report is the outcome of Compute.
type Report struct {
	Run         *repartition.Run
	Summary     stats.Summary
	Files       []string
	Records     []stats.Record
	ParseErrors map[string]int
}

// Compute loads the series, builds a run and publishes its results.
// Metric sink failures are logged and do not fail the run.
func (s *Service) Compute(ctx context.Context, opts ComputeOptions) (*Report, error) {
	rcfg := s.cfg.Repartition
	if opts.Strategy != "" {
		rcfg.Strategy = opts.Strategy
	}
	strategy, err := repartition.NewStrategy(rcfg)
	if err != nil {
		return nil, err
	}

	rep := &Report{ParseErrors: map[string]int{}}
	producers, consumers, err := s.load(opts.Factor, rep.ParseErrors)
	if err != nil {
		return nil, err
	}

	run, err := s.engine.Build(ctx, producers, consumers, strategy)
	if err != nil {
		return nil, err
	}
	rep.Run = run
	rep.Summary = stats.Summarize(run)

	if rep.Files, err = export.ExportRun(s.cfg.Export.Folder, run, s.cfg.Export.Options()); err != nil {
		return rep, fmt.Errorf("export: %w", err)
	}

	if rep.Records, err = monthkpi.Backfill(s.store, run); err != nil {
		return rep, fmt.Errorf("monthly kpi: %w", err)
	}

	s.record(run, rep)
	if s.textfile != nil {
		if err := s.textfile.WriteTextfile(s.cfg.Metrics.Textfile); err != nil {
			s.log.Errorf("write metrics textfile: %v", err)
		}
	}
	s.log.Infof("run %s: %d slots, %d files written", run.ID, len(run.Slots), len(rep.Files))
	return rep, nil
}

func (s *Service) load(factor float64, skipped map[string]int) ([]model.Producer, []model.Consumer, error) {
	project := s.cfg.Project
	counts := make([]int, 0, len(project.Producers)+len(project.Consumers))
	producers := make([]model.Producer, 0, len(project.Producers))
	for _, pc := range project.Producers {
		p, errs, err := s.reader.ReadProducer(pc.File, pc.Name, pc.ID)
		if err != nil {
			return nil, nil, fmt.Errorf("producer %s: %w", pc.ID, err)
		}
		s.parseErrors(pc.ID, len(errs), skipped)
		counts = append(counts, len(errs))
		f := pc.Factor
		if factor > 0 {
			f = factor
		}
		if f > 0 && f != 1 {
			p.ApplyFactor(f)
		}
		producers = append(producers, p)
	}
	consumers := make([]model.Consumer, 0, len(project.Consumers))
	for _, cc := range project.Consumers {
		c, errs, err := s.reader.ReadConsumer(cc.File, cc.Name, cc.ID, cc.Priorities, cc.Ratios)
		if err != nil {
			return nil, nil, fmt.Errorf("consumer %s: %w", cc.ID, err)
		}
		s.parseErrors(cc.ID, len(errs), skipped)
		counts = append(counts, len(errs))
		consumers = append(consumers, c)
	}
	// Slots are aligned by index, so a row skipped in one series only
	// shifts every later slot of that series.
	if unevenSkips(counts) {
		s.log.Warnf("series skipped different row counts %v: slots may be misaligned", skipped)
	}
	return producers, consumers, nil
}

func unevenSkips(counts []int) bool {
	for _, n := range counts {
		if n != counts[0] {
			return true
		}
	}
	return false
}

func (s *Service) parseErrors(source string, n int, skipped map[string]int) {
	if n == 0 {
		return
	}
	skipped[source] = n
	rec, ok := s.sink.(coremetrics.ParseErrorRecorder)
	if !ok {
		return
	}
	if err := rec.RecordParseErrors(coremetrics.ParseErrorEvent{Source: source, Count: n, Time: time.Now()}); err != nil {
		s.log.Errorf("record parse errors: %v", err)
	}
}

func (s *Service) record(run *repartition.Run, rep *Report) {
	if err := s.sink.RecordRun(coremetrics.NewRunResult(rep.Summary)); err != nil {
		s.log.Errorf("record run: %v", err)
	}
	if rec, ok := s.sink.(coremetrics.SlotKeyRecorder); ok {
		if err := rec.RecordSlotKeys(coremetrics.SlotKeys(run, s.cfg.Project.Year)); err != nil {
			s.log.Errorf("record slot keys: %v", err)
		}
	}
	if rec, ok := s.sink.(coremetrics.MonthlyKPIRecorder); ok {
		if err := rec.RecordMonthlyKPIs(rep.Records); err != nil {
			s.log.Errorf("record monthly kpis: %v", err)
		}
	}
}

// Months returns the monthly KPIs of a producer. An empty runID selects
// the most recent run.
func (s *Service) Months(runID, producerID string) ([]stats.Record, error) {
	return s.store.Query(runID, producerID)
}

// Close releases resources held by the service.
func (s *Service) Close() error {
	coremetrics.CloseSink(s.sink)
	return s.store.Close()
}
