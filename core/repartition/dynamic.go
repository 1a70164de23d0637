package repartition

import (
	"fmt"
	"math"
)

// epsilon below which remaining production is treated as exhausted.
const epsilon = 1e-9

// DynamicStrategy serves consumers tier by tier following their priority
// for each producer, splitting a tier by ratio. Production left over by
// consumers that complete is redistributed to the rest of the tier before
// the next tier is served.
type DynamicStrategy struct {
	// MaxPasses bounds the allocation passes run for a single tier.
	// Zero means len(consumers)+2.
	MaxPasses int
}

// Name implements Strategy.
func (DynamicStrategy) Name() string { return KindDynamic.String() }

// Compute runs every tier on the slot and finalizes the keys. When a tier
// hits the pass limit the slot is still finalized and ErrMaxPasses is
// returned.
func (d DynamicStrategy) Compute(s *Slot) error {
	limit := d.MaxPasses
	if limit <= 0 {
		limit = len(s.Consumers) + 2
	}

	var err error
	for tier := 0; tierExists(s, tier); tier++ {
		if e := settleTier(s, tier, limit); e != nil && err == nil {
			err = fmt.Errorf("tier %d: %w", tier, e)
		}
		if !s.anyActive() {
			for i := range s.Consumers {
				if s.Consumers[i].State == Inactive {
					s.Consumers[i].State = Active
				}
			}
		}
	}
	Finalize(s)
	return err
}

func tierExists(s *Slot, tier int) bool {
	for _, c := range s.Consumers {
		for _, p := range c.Params {
			if p.Priority == tier {
				return true
			}
		}
	}
	return false
}

// settleTier repeats allocation passes until the production is exhausted
// or no consumer of the tier can take more.
func settleTier(s *Slot, tier, limit int) error {
	capTierKeys(s, tier)
	for pass := 0; pass < limit; pass++ {
		allocatePass(s, tier)
		settle(s)
		if s.remainingProduction() <= epsilon || !s.anyActive() {
			return nil
		}
		renormalize(s, tier)
	}
	return ErrMaxPasses
}

// tierKeySums returns, per producer, the sum of the keys held by active
// consumers at the tier.
func tierKeySums(s *Slot, tier int) []float64 {
	sums := make([]float64, len(s.Producers))
	for _, c := range s.Consumers {
		if c.State != Active {
			continue
		}
		for pi, p := range c.Params {
			if p.Priority == tier {
				sums[pi] += p.Key
			}
		}
	}
	return sums
}

// capTierKeys scales the tier keys of a producer down to 100 so a pass can
// never hand out more than the remaining production.
func capTierKeys(s *Slot, tier int) {
	sums := tierKeySums(s, tier)
	for ci := range s.Consumers {
		c := &s.Consumers[ci]
		if c.State != Active {
			continue
		}
		for pi := range c.Params {
			if c.Params[pi].Priority == tier && sums[pi] > 100 {
				c.Params[pi].Key = 100 * c.Params[pi].Key / sums[pi]
			}
		}
	}
}

func allocatePass(s *Slot, tier int) {
	for ci := range s.Consumers {
		c := &s.Consumers[ci]
		if c.State != Active {
			continue
		}

		member := false
		var entitled float64
		for pi, p := range c.Params {
			if p.Priority != tier {
				continue
			}
			member = true
			entitled += s.Producers[pi].Production * p.Key / 100
		}
		// Float residue left on a drained producer counts as nothing to claim.
		if !member || entitled <= epsilon {
			c.State = Inactive
			continue
		}

		already := c.AutoConsumption()
		share := 1.0
		if c.Consumption < entitled+already {
			c.State = Complete
			share = math.Max(0, c.Consumption-already) / entitled
		}
		for pi := range c.Params {
			p := &c.Params[pi]
			if p.Priority != tier {
				continue
			}
			granted := s.Producers[pi].Production * p.Key / 100 * share
			p.AutoConsumption += granted
			s.Producers[pi].PendingRemoval += granted
		}
	}
}

func settle(s *Slot) {
	for pi := range s.Producers {
		p := &s.Producers[pi]
		p.Production -= p.PendingRemoval
		p.PendingRemoval = 0
		if p.Production < 0 {
			p.Production = 0
		}
	}
}

// renormalize rescales the keys of the active consumers so that each
// producer's tier keys sum to 100 again.
func renormalize(s *Slot, tier int) {
	sums := tierKeySums(s, tier)
	for ci := range s.Consumers {
		c := &s.Consumers[ci]
		if c.State != Active {
			continue
		}
		for pi := range c.Params {
			if c.Params[pi].Priority == tier && sums[pi] > 0 {
				c.Params[pi].Key = 100 * c.Params[pi].Key / sums[pi]
			}
		}
	}
}
