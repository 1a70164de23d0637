package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"

	coremetrics "github.com/vrogeon/repartkey/core/metrics"
	"github.com/vrogeon/repartkey/core/stats"
)

// captureServer records the body of every write request.
func captureServer(t *testing.T) (*httptest.Server, func() []string) {
	t.Helper()
	var (
		mu     sync.Mutex
		bodies []string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		mu.Lock()
		bodies = append(bodies, strings.TrimSpace(string(b)))
		mu.Unlock()
		w.WriteHeader(http.StatusNoContent)
	}))
	t.Cleanup(srv.Close)
	return srv, func() []string {
		mu.Lock()
		defer mu.Unlock()
		return append([]string(nil), bodies...)
	}
}

func TestInfluxSink_RecordRun(t *testing.T) {
	srv, bodies := captureServer(t)
	sink := NewInfluxSink(srv.URL, "token", "org", "bucket")
	now := time.Now()
	res := coremetrics.RunResult{
		RunID:         "r1",
		Strategy:      "dynamic",
		Slots:         96,
		Duration:      1500 * time.Microsecond,
		Time:          now,
		ProductionKWh: 12.5,
		Rates: []coremetrics.RateSample{
			{Kind: coremetrics.RateAutoConsumption, ID: "P1", Value: 87.5, Available: true},
			{Kind: coremetrics.RateAutoProduction, ID: "C1", Available: false},
		},
	}
	if err := sink.RecordRun(res); err != nil {
		t.Fatalf("record error: %v", err)
	}

	run := write.NewPointWithMeasurement("repartition_run").
		AddTag("run_id", "r1").
		AddTag("strategy", "dynamic").
		AddField("slots", 96).
		AddField("truncated", 0).
		AddField("duration_ms", 1.5).
		AddField("production_kwh", 12.5).
		AddField("consumption_kwh", 0.0).
		AddField("auto_consumption_kwh", 0.0).
		SetTime(now)
	rate := write.NewPointWithMeasurement("repartition_rate").
		AddTag("run_id", "r1").
		AddTag("kind", coremetrics.RateAutoConsumption).
		AddTag("id", "P1").
		AddField("percent", 87.5).
		SetTime(now)
	exp := write.PointToLineProtocol(run, time.Nanosecond) + write.PointToLineProtocol(rate, time.Nanosecond)
	got := bodies()
	if len(got) != 1 || got[0] != strings.TrimSpace(exp) {
		t.Errorf("unexpected bodies: %#v", got)
	}
}

func TestInfluxSink_RecordSlotKeys(t *testing.T) {
	srv, bodies := captureServer(t)
	sink := NewInfluxSink(srv.URL, "token", "org", "bucket")
	ts := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	keys := []coremetrics.SlotKey{
		{RunID: "r1", Label: "01.06 12:00", Time: ts, ProducerID: "P1", ConsumerID: "C1", Key: 40, AutoConsumption: 4},
		{RunID: "r1", Label: "garbage", ProducerID: "P1", ConsumerID: "C1"},
	}
	if err := sink.RecordSlotKeys(keys); err != nil {
		t.Fatalf("record: %v", err)
	}
	p := write.NewPointWithMeasurement("repartition_key").
		AddTag("run_id", "r1").
		AddTag("producer_id", "P1").
		AddTag("consumer_id", "C1").
		AddField("key_percent", 40.0).
		AddField("auto_consumption", 4.0).
		SetTime(ts)
	exp := strings.TrimSpace(write.PointToLineProtocol(p, time.Nanosecond))
	got := bodies()
	if len(got) != 1 || got[0] != exp {
		t.Errorf("bodies: %#v", got)
	}
}

func TestInfluxSink_RecordParseErrors(t *testing.T) {
	srv, bodies := captureServer(t)
	sink := NewInfluxSink(srv.URL, "token", "org", "bucket")
	now := time.Now()
	if err := sink.RecordParseErrors(coremetrics.ParseErrorEvent{Source: "C1", Count: 3, Time: now}); err != nil {
		t.Fatalf("record: %v", err)
	}
	p := write.NewPointWithMeasurement("input_parse_errors").
		AddTag("source", "C1").
		AddField("count", 3).
		SetTime(now)
	exp := strings.TrimSpace(write.PointToLineProtocol(p, time.Nanosecond))
	got := bodies()
	if len(got) != 1 || got[0] != exp {
		t.Errorf("bodies: %#v", got)
	}
}

func TestInfluxSink_RecordMonthlyKPIs(t *testing.T) {
	srv, bodies := captureServer(t)
	sink := NewInfluxSink(srv.URL, "token", "org", "bucket")
	now := time.Now()
	sink.now = func() time.Time { return now }

	if err := sink.RecordMonthlyKPIs(nil); err != nil {
		t.Fatalf("record empty: %v", err)
	}
	recs := []stats.Record{{RunID: "r1", ProducerID: "P1", ConsumerID: "C1", Month: 3, ConsumptionKWh: 10, AutoConsumptionKWh: 4, AutoProductionRate: 40}}
	if err := sink.RecordMonthlyKPIs(recs); err != nil {
		t.Fatalf("record: %v", err)
	}
	p := write.NewPointWithMeasurement("monthly_kpi").
		AddTag("run_id", "r1").
		AddTag("producer_id", "P1").
		AddTag("consumer_id", "C1").
		AddTag("month", "3").
		AddTag("row", "0").
		AddField("consumption_kwh", 10.0).
		AddField("auto_consumption_kwh", 4.0).
		AddField("auto_production_rate", 40.0).
		SetTime(now)
	exp := strings.TrimSpace(write.PointToLineProtocol(p, time.Nanosecond))
	got := bodies()
	if len(got) != 1 || got[0] != exp {
		t.Errorf("bodies: %#v", got)
	}
}

func TestNewInfluxSinkWithFallback(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			called = true
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
	}))
	defer srv.Close()

	sink := NewInfluxSinkWithFallback(srv.URL+"/api/v2/write", "tok", "org", "bucket")
	if _, ok := sink.(*InfluxSink); ok {
		t.Fatalf("expected NopSink on failing health check")
	}
	if !called {
		t.Fatalf("health endpoint not called")
	}
}
