package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"
)

// ProjectConfig describes the producers and consumers of a community.
type ProjectConfig struct {
	Name string `json:"name"`
	// Year dates the slot labels, which carry no year.
	Year      int              `json:"year"`
	Producers []ProducerConfig `json:"producers"`
	Consumers []ConsumerConfig `json:"consumers"`
}

// ProducerConfig points to the production series of a producer.
type ProducerConfig struct {
	Name string `json:"name"`
	ID   string `json:"id"`
	File string `json:"file"`
	// Factor scales every production value. Zero leaves the series as read.
	Factor float64 `json:"factor"`
}

// ConsumerConfig points to the consumption series of a consumer. Priorities
// and ratios hold one entry per producer, in producer order.
type ConsumerConfig struct {
	Name       string    `json:"name"`
	ID         string    `json:"id"`
	File       string    `json:"file"`
	Priorities []int     `json:"priorities"`
	Ratios     []float64 `json:"ratios"`
}

// SetDefaults gives consumers without priorities or ratios the values of a
// newly added producer: priority 0 and ratio 100.
func (c *ProjectConfig) SetDefaults() {
	if c.Name == "" {
		c.Name = "community"
	}
	if c.Year == 0 {
		c.Year = time.Now().Year()
	}
	n := len(c.Producers)
	for i := range c.Consumers {
		cc := &c.Consumers[i]
		for len(cc.Priorities) < n {
			cc.Priorities = append(cc.Priorities, 0)
		}
		for len(cc.Ratios) < n {
			cc.Ratios = append(cc.Ratios, 100)
		}
	}
}

// Validate checks identifiers, files and per-producer lists.
func (c ProjectConfig) Validate() error {
	if len(c.Producers) == 0 {
		return errors.New("at least one producer is required")
	}
	if len(c.Consumers) == 0 {
		return errors.New("at least one consumer is required")
	}
	seen := map[string]bool{}
	for i, p := range c.Producers {
		if p.ID == "" || p.File == "" {
			return fmt.Errorf("producers[%d]: id and file are required", i)
		}
		if seen[p.ID] {
			return fmt.Errorf("duplicate id %s", p.ID)
		}
		seen[p.ID] = true
		if p.Factor < 0 {
			return fmt.Errorf("producer %s: factor must be >= 0", p.ID)
		}
	}
	for i, cc := range c.Consumers {
		if cc.ID == "" || cc.File == "" {
			return fmt.Errorf("consumers[%d]: id and file are required", i)
		}
		if seen[cc.ID] {
			return fmt.Errorf("duplicate id %s", cc.ID)
		}
		seen[cc.ID] = true
		if len(cc.Priorities) != len(c.Producers) || len(cc.Ratios) != len(c.Producers) {
			return fmt.Errorf("consumer %s: expected %d priorities and ratios", cc.ID, len(c.Producers))
		}
		for j, r := range cc.Ratios {
			if r < 0 || r > 100 {
				return fmt.Errorf("consumer %s: ratio %d out of [0,100]", cc.ID, j)
			}
			if cc.Priorities[j] < 0 {
				return fmt.Errorf("consumer %s: priority %d must be >= 0", cc.ID, j)
			}
		}
	}
	return nil
}

// resolvePaths makes relative series paths relative to dir.
func (c *ProjectConfig) resolvePaths(dir string) {
	abs := func(p string) string {
		if p == "" || filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(dir, p)
	}
	for i := range c.Producers {
		c.Producers[i].File = abs(c.Producers[i].File)
	}
	for i := range c.Consumers {
		c.Consumers[i].File = abs(c.Consumers[i].File)
	}
}
