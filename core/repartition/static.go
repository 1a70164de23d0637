package repartition

// StaticStrategy applies the configured ratios without redistribution.
// It has no computation and fails every slot.
type StaticStrategy struct{}

// Name implements Strategy.
func (StaticStrategy) Name() string { return KindStatic.String() }

// Compute always returns ErrNotImplemented.
func (StaticStrategy) Compute(*Slot) error { return ErrNotImplemented }
