package repartition

import "errors"

var (
	// ErrNotImplemented is returned by strategies that have no computation.
	ErrNotImplemented = errors.New("strategy not implemented")
	// ErrMaxPasses is returned when a tier did not settle within the pass limit.
	ErrMaxPasses = errors.New("allocation did not settle within max passes")
)
