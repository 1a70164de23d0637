package model

import "fmt"

// Community groups the producers and consumers of one collective
// self-consumption operation and keeps their parameter lists in sync.
type Community struct {
	Producers []Producer
	Consumers []Consumer
}

// AddProducer registers a producer and gives every consumer the default
// priority and ratio for it.
func (c *Community) AddProducer(p Producer) {
	c.Producers = append(c.Producers, p)
	for i := range c.Consumers {
		c.Consumers[i].AddProducer(DefaultPriority, DefaultRatio)
	}
}

// RemoveProducer removes the producer at index together with the matching
// entry of every consumer.
func (c *Community) RemoveProducer(index int) error {
	if index < 0 || index >= len(c.Producers) {
		return &ConfigurationError{Reason: fmt.Sprintf("producer index %d out of range", index)}
	}
	for i := range c.Consumers {
		if err := c.Consumers[i].RemoveProducer(index); err != nil {
			return err
		}
	}
	c.Producers = append(c.Producers[:index], c.Producers[index+1:]...)
	return nil
}

// Validate checks that every series has the same length as the first
// producer and that each consumer carries one priority and one ratio per
// producer. Timestamps are not compared: slots are aligned by index.
func (c Community) Validate() error {
	return Validate(c.Producers, c.Consumers)
}

// Validate is the slice form of Community.Validate.
//
//gocyclo:ignore
func Validate(producers []Producer, consumers []Consumer) error {
	if len(producers) == 0 {
		return &ConfigurationError{Reason: "at least one producer is required"}
	}
	n := len(producers[0].Points)
	for _, p := range producers[1:] {
		if len(p.Points) != n {
			return &ConfigurationError{Reason: fmt.Sprintf("producer %s has %d points, expected %d", p.ID, len(p.Points), n)}
		}
	}
	for _, cons := range consumers {
		if len(cons.Points) != n {
			return &ConfigurationError{Reason: fmt.Sprintf("consumer %s has %d points, expected %d", cons.ID, len(cons.Points), n)}
		}
		if len(cons.Priorities) != len(producers) {
			return &ConfigurationError{Reason: fmt.Sprintf("consumer %s has %d priorities for %d producers", cons.ID, len(cons.Priorities), len(producers))}
		}
		if len(cons.Ratios) != len(producers) {
			return &ConfigurationError{Reason: fmt.Sprintf("consumer %s has %d ratios for %d producers", cons.ID, len(cons.Ratios), len(producers))}
		}
		for i, prio := range cons.Priorities {
			if prio < 0 {
				return &ConfigurationError{Reason: fmt.Sprintf("consumer %s: negative priority for producer %d", cons.ID, i)}
			}
		}
		for i, r := range cons.Ratios {
			if r < 0 || r > 100 {
				return &ConfigurationError{Reason: fmt.Sprintf("consumer %s: ratio %v for producer %d outside [0,100]", cons.ID, r, i)}
			}
		}
	}
	return nil
}
