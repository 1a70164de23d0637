package mqtt

import (
	"encoding/json"

	coremetrics "github.com/vrogeon/repartkey/core/metrics"
	"github.com/vrogeon/repartkey/core/stats"
)

// publisher is the subset of PahoClient used by Sink.
type publisher interface {
	Publish(topic string, payload []byte) error
	Disconnect()
}

// Sink publishes run results as JSON messages.
type Sink struct {
	pub      publisher
	topic    string
	kpiTopic string
}

// NewSink connects to the broker described by cfg.
func NewSink(cfg Config) (*Sink, error) {
	cfg.SetDefaults()
	cli, err := NewPahoClient(cfg)
	if err != nil {
		return nil, err
	}
	return &Sink{pub: cli, topic: cfg.Topic, kpiTopic: cfg.KPITopic}, nil
}

// RecordRun publishes the run result on the run topic.
func (s *Sink) RecordRun(res coremetrics.RunResult) error {
	payload, err := json.Marshal(res)
	if err != nil {
		return err
	}
	return s.pub.Publish(s.topic, payload)
}

// RecordMonthlyKPIs publishes the monthly records when a KPI topic is set.
func (s *Sink) RecordMonthlyKPIs(recs []stats.Record) error {
	if s.kpiTopic == "" || len(recs) == 0 {
		return nil
	}
	payload, err := json.Marshal(recs)
	if err != nil {
		return err
	}
	return s.pub.Publish(s.kpiTopic, payload)
}

// Close disconnects from the broker.
func (s *Sink) Close() { s.pub.Disconnect() }
