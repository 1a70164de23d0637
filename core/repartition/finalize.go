package repartition

import "math"

// Finalize converts every param key into the percentage of the producer
// output awarded to the consumer, truncated to 0.1%. Truncation keeps the
// keys of a producer from summing above 100. Calling it twice is a no-op.
func Finalize(s *Slot) {
	for ci := range s.Consumers {
		params := s.Consumers[ci].Params
		for pi := range params {
			initial := s.Producers[pi].InitialProduction
			if initial <= 0 {
				params[pi].Key = 0
				continue
			}
			params[pi].Key = math.Floor(params[pi].AutoConsumption*1000/initial) / 10
		}
	}
}
