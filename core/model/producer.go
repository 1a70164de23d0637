package model

// Producer represents a production meter shared by the community.
type Producer struct {
	Name string
	// ID is the meter reference (PRM) that uniquely identifies the producer.
	ID     string
	Points []Point
}

// ApplyFactor scales every production value in place. It is used to study
// what-if scenarios with a smaller or larger installation.
func (p *Producer) ApplyFactor(factor float64) {
	for i := range p.Points {
		p.Points[i].Value *= factor
	}
}

// Total returns the production summed over all slots.
func (p Producer) Total() float64 {
	return sumPoints(p.Points)
}
