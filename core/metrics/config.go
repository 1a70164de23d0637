package metrics

import (
	"fmt"

	"github.com/vrogeon/repartkey/core/factory"
)

// Config defines settings for metrics sinks.
type Config struct {
	Sinks []factory.ModuleConfig `json:"sinks"`
	// Textfile, when set, receives a Prometheus text exposition of the
	// run metrics for node_exporter's textfile collector.
	Textfile string `json:"textfile"`
}

// Validate checks that every sink names a registered type.
func (c Config) Validate() error {
	for i, s := range c.Sinks {
		if s.Type == "" {
			return fmt.Errorf("metrics.sinks[%d]: type is required", i)
		}
	}
	return nil
}
