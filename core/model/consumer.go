package model

import "fmt"

const (
	// DefaultPriority is assigned to a consumer for a newly added producer.
	DefaultPriority = 0
	// DefaultRatio is assigned to a consumer for a newly added producer.
	DefaultRatio = 100.0
)

// Consumer represents a consumption meter taking part in the operation.
// Priorities and Ratios hold one entry per producer, in producer order.
type Consumer struct {
	Name string
	// ID is the meter reference (PRM) of the consumer.
	ID         string
	Priorities []int
	Ratios     []float64
	Points     []Point
}

// AddProducer appends the parameters used for a new producer.
func (c *Consumer) AddProducer(priority int, ratio float64) {
	c.Priorities = append(c.Priorities, priority)
	c.Ratios = append(c.Ratios, ratio)
}

// RemoveProducer drops the parameters of the producer at index.
func (c *Consumer) RemoveProducer(index int) error {
	if index < 0 || index >= len(c.Priorities) || index >= len(c.Ratios) {
		return &ConfigurationError{Reason: fmt.Sprintf("consumer %s: producer index %d out of range", c.ID, index)}
	}
	c.Priorities = append(c.Priorities[:index], c.Priorities[index+1:]...)
	c.Ratios = append(c.Ratios[:index], c.Ratios[index+1:]...)
	return nil
}

// Total returns the consumption summed over all slots.
func (c Consumer) Total() float64 {
	return sumPoints(c.Points)
}
