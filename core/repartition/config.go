package repartition

import (
	"errors"
	"runtime"
)

// Config selects the allocation policy and how slots are computed.
type Config struct {
	// Strategy is one of default (alias proportional), dynamic or static.
	Strategy string `json:"strategy"`
	// MaxPasses bounds the dynamic allocation passes per tier. Zero derives
	// the bound from the consumer count.
	MaxPasses int `json:"max_passes"`
	// Workers is the number of slots computed concurrently.
	Workers int `json:"workers"`
}

// SetDefaults fills unset fields.
func (c *Config) SetDefaults() {
	if c.Strategy == "" {
		c.Strategy = KindProportional.String()
	}
	if c.Workers == 0 {
		c.Workers = runtime.NumCPU()
	}
}

// Validate checks the values once defaults are applied.
func (c Config) Validate() error {
	if _, err := ParseKind(c.Strategy); err != nil {
		return err
	}
	if c.MaxPasses < 0 {
		return errors.New("max_passes must be >= 0")
	}
	if c.Workers < 1 {
		return errors.New("workers must be >= 1")
	}
	return nil
}
