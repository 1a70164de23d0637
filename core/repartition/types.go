package repartition

import "fmt"

// State is the allocation state of a consumer inside one slot.
type State int

const (
	// Active consumers take part in the current allocation pass.
	Active State = iota + 1
	// Inactive consumers still have demand but nothing left to claim at the
	// current tier. They are reactivated once no consumer is active.
	Inactive
	// Complete consumers have their whole demand covered for the slot.
	Complete
)

func (s State) String() string {
	switch s {
	case Active:
		return "active"
	case Inactive:
		return "inactive"
	case Complete:
		return "complete"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// ProducerAllocation tracks what remains of a producer output in a slot.
type ProducerAllocation struct {
	InitialProduction float64 `json:"initial_production"`
	Production        float64 `json:"production"`
	PendingRemoval    float64 `json:"pending_removal"`
}

// AllocationParam links a consumer to one producer. Key holds the ratio
// while computing and the percentage of the producer output once finalized.
type AllocationParam struct {
	Priority        int     `json:"priority"`
	Key             float64 `json:"key"`
	AutoConsumption float64 `json:"auto_consumption"`
}

// ConsumerAllocation is the per-slot state of a consumer.
type ConsumerAllocation struct {
	Consumption float64           `json:"consumption"`
	State       State             `json:"state"`
	Params      []AllocationParam `json:"params"`
}

// AutoConsumption returns the energy awarded to the consumer by all producers.
func (c ConsumerAllocation) AutoConsumption() float64 {
	var sum float64
	for _, p := range c.Params {
		sum += p.AutoConsumption
	}
	return sum
}

// Slot holds the allocation records of one 15-minute interval.
type Slot struct {
	Label     string               `json:"label"`
	Producers []ProducerAllocation `json:"producers"`
	Consumers []ConsumerAllocation `json:"consumers"`
}

func (s *Slot) anyActive() bool {
	for i := range s.Consumers {
		if s.Consumers[i].State == Active {
			return true
		}
	}
	return false
}

func (s *Slot) remainingProduction() float64 {
	var sum float64
	for _, p := range s.Producers {
		sum += p.Production
	}
	return sum
}
