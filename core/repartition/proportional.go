package repartition

import "math"

// ProportionalStrategy splits production in proportion to the consumption
// of each consumer, ignoring priorities and ratios. It is the key
// computation applied by default by the distribution operator.
type ProportionalStrategy struct{}

// Name implements Strategy.
func (ProportionalStrategy) Name() string { return KindProportional.String() }

// Compute assigns keys and auto-consumption in a single pass.
func (ProportionalStrategy) Compute(s *Slot) error {
	var consumption, production float64
	for _, c := range s.Consumers {
		consumption += c.Consumption
	}
	for _, p := range s.Producers {
		production += p.Production
	}

	fill := 0.0
	if production > 0 {
		fill = math.Min(1, consumption/production)
	}

	for ci := range s.Consumers {
		c := &s.Consumers[ci]
		for pi := range c.Params {
			param := &c.Params[pi]
			if consumption == 0 {
				param.Key = 0
				param.AutoConsumption = 0
				continue
			}
			param.Key = c.Consumption / consumption
			param.AutoConsumption = s.Producers[pi].Production * param.Key * fill
		}
	}
	Finalize(s)
	return nil
}
