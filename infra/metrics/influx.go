package metrics

import (
	"context"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	coremetrics "github.com/vrogeon/repartkey/core/metrics"
	"github.com/vrogeon/repartkey/core/stats"
	"github.com/vrogeon/repartkey/infra/logger"
)

// keyBatch is the number of key points sent per write request.
const keyBatch = 5000

// InfluxSink writes run outcomes to an InfluxDB instance using the official client.
type InfluxSink struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	log      logger.Logger
	now      func() time.Time
}

// NewInfluxSink creates a new sink configured for the given InfluxDB endpoint.
func NewInfluxSink(url, token, org, bucket string) *InfluxSink {
	base := strings.TrimSuffix(url, "/api/v2/write")
	client := influxdb2.NewClientWithOptions(base, token,
		influxdb2.DefaultOptions().SetHTTPClient(&http.Client{Timeout: 5 * time.Second}))
	return &InfluxSink{
		client:   client,
		writeAPI: client.WriteAPIBlocking(org, bucket),
		log:      logger.New("influx-sink"),
		now:      time.Now,
	}
}

// NewInfluxSinkWithFallback tries to ping the InfluxDB instance and
// returns a NopSink if the health check fails.
func NewInfluxSinkWithFallback(url, token, org, bucket string) coremetrics.MetricsSink {
	sink := NewInfluxSink(url, token, org, bucket)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	health, err := sink.client.Health(ctx)
	if err != nil || health.Status != "pass" {
		if err != nil {
			sink.log.Errorf("influx health check error: %v", err)
		} else {
			sink.log.Errorf("influx health status: %s", health.Status)
		}
		sink.client.Close()
		return coremetrics.NopSink{}
	}
	return sink
}

// RecordRun writes one run point and one point per available rate.
func (s *InfluxSink) RecordRun(res coremetrics.RunResult) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	ts := res.Time
	if ts.IsZero() {
		ts = s.now()
	}
	points := []*write.Point{
		write.NewPointWithMeasurement("repartition_run").
			AddTag("run_id", res.RunID).
			AddTag("strategy", res.Strategy).
			AddField("slots", res.Slots).
			AddField("truncated", res.Truncated).
			AddField("duration_ms", round3(res.Duration.Seconds()*1000)).
			AddField("production_kwh", round3(res.ProductionKWh)).
			AddField("consumption_kwh", round3(res.ConsumptionKWh)).
			AddField("auto_consumption_kwh", round3(res.AutoConsumptionKWh)).
			SetTime(ts),
	}
	for _, r := range res.Rates {
		if !r.Available {
			continue
		}
		points = append(points, write.NewPointWithMeasurement("repartition_rate").
			AddTag("run_id", res.RunID).
			AddTag("kind", r.Kind).
			AddTag("id", r.ID).
			AddField("percent", r.Value).
			SetTime(ts))
	}
	return s.writeAPI.WritePoint(ctx, points...)
}

// RecordSlotKeys writes the finalized keys, dated by their slot.
func (s *InfluxSink) RecordSlotKeys(keys []coremetrics.SlotKey) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	batch := make([]*write.Point, 0, min(len(keys), keyBatch))
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		err := s.writeAPI.WritePoint(ctx, batch...)
		batch = batch[:0]
		return err
	}
	for _, k := range keys {
		if k.Time.IsZero() {
			s.log.Warnf("slot %q has no timestamp, key not written", k.Label)
			continue
		}
		batch = append(batch, write.NewPointWithMeasurement("repartition_key").
			AddTag("run_id", k.RunID).
			AddTag("producer_id", k.ProducerID).
			AddTag("consumer_id", k.ConsumerID).
			AddField("key_percent", k.Key).
			AddField("auto_consumption", round3(k.AutoConsumption)).
			SetTime(k.Time))
		if len(batch) == keyBatch {
			if err := flush(); err != nil {
				return err
			}
		}
	}
	return flush()
}

// RecordParseErrors writes the number of skipped input rows of a source.
func (s *InfluxSink) RecordParseErrors(ev coremetrics.ParseErrorEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("input_parse_errors").
		AddTag("source", ev.Source).
		AddField("count", ev.Count).
		SetTime(ev.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

// RecordMonthlyKPIs writes one point per consumer and rollup row.
func (s *InfluxSink) RecordMonthlyKPIs(recs []stats.Record) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	ts := s.now()
	points := make([]*write.Point, 0, len(recs))
	for _, r := range recs {
		points = append(points, write.NewPointWithMeasurement("monthly_kpi").
			AddTag("run_id", r.RunID).
			AddTag("producer_id", r.ProducerID).
			AddTag("consumer_id", r.ConsumerID).
			AddTag("month", strconv.Itoa(r.Month)).
			AddTag("row", strconv.Itoa(r.Row)).
			AddField("consumption_kwh", r.ConsumptionKWh).
			AddField("auto_consumption_kwh", r.AutoConsumptionKWh).
			AddField("auto_production_rate", r.AutoProductionRate).
			SetTime(ts))
	}
	if len(points) == 0 {
		return nil
	}
	return s.writeAPI.WritePoint(ctx, points...)
}

// Close releases the client resources.
func (s *InfluxSink) Close() { s.client.Close() }

func round3(f float64) float64 {
	return math.Round(f*1000) / 1000
}
