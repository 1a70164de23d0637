package mqtt

import (
	"encoding/json"
	"testing"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	coremetrics "github.com/vrogeon/repartkey/core/metrics"
	"github.com/vrogeon/repartkey/core/stats"
)

func newMockSink(t *testing.T, cfg Config) (*Sink, *mockClient) {
	t.Helper()
	mc := &mockClient{}
	newMQTTClient = func(o *paho.ClientOptions) pahoClient { mc.opts = o; return mc }
	t.Cleanup(func() { newMQTTClient = func(opts *paho.ClientOptions) pahoClient { return paho.NewClient(opts) } })
	s, err := NewSink(cfg)
	require.NoError(t, err)
	return s, mc
}

func TestSinkRecordRun(t *testing.T) {
	s, mc := newMockSink(t, Config{Broker: "tcp://localhost:1883"})
	res := coremetrics.RunResult{RunID: "r1", Strategy: "dynamic", Slots: 96,
		Rates: []coremetrics.RateSample{{Kind: coremetrics.RateCoverage, ID: "P1", Value: 12.3, Available: true}}}
	require.NoError(t, s.RecordRun(res))
	require.Len(t, mc.published, 1)
	assert.Equal(t, "repartkey/runs", mc.published[0].topic)

	var got coremetrics.RunResult
	require.NoError(t, json.Unmarshal(mc.published[0].payload, &got))
	assert.Equal(t, "r1", got.RunID)
	assert.Equal(t, 96, got.Slots)
	assert.Equal(t, 12.3, got.Rates[0].Value)

	s.Close()
	assert.True(t, mc.disconnected)
}

func TestSinkRecordMonthlyKPIs(t *testing.T) {
	s, mc := newMockSink(t, Config{Broker: "tcp://localhost:1883"})
	recs := []stats.Record{{RunID: "r1", ProducerID: "P1", ConsumerID: "C1", Month: 1, AutoProductionRate: 40}}
	require.NoError(t, s.RecordMonthlyKPIs(recs))
	assert.Empty(t, mc.published, "no kpi topic configured")

	s, mc = newMockSink(t, Config{Broker: "tcp://localhost:1883", KPITopic: "repartkey/kpi"})
	require.NoError(t, s.RecordMonthlyKPIs(nil))
	require.NoError(t, s.RecordMonthlyKPIs(recs))
	require.Len(t, mc.published, 1)
	assert.Equal(t, "repartkey/kpi", mc.published[0].topic)
	var got []stats.Record
	require.NoError(t, json.Unmarshal(mc.published[0].payload, &got))
	assert.Equal(t, recs, got)
}

func TestNewSinkInvalidConfig(t *testing.T) {
	_, err := NewSink(Config{})
	assert.Error(t, err)
}
