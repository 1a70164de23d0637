package repartition

import (
	"fmt"
	"strings"

	"github.com/vrogeon/repartkey/core/factory"
)

// Strategy computes the repartition keys of one slot in place.
type Strategy interface {
	Name() string
	Compute(s *Slot) error
}

// Kind identifies an allocation policy.
type Kind int

const (
	// KindProportional splits production by consumption share.
	KindProportional Kind = iota + 1
	// KindDynamic serves priority tiers and ratios with redistribution.
	KindDynamic
	// KindStatic applies fixed ratios. Not implemented.
	KindStatic
)

func (k Kind) String() string {
	switch k {
	case KindProportional:
		return "default"
	case KindDynamic:
		return "dynamic"
	case KindStatic:
		return "static"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// ParseKind maps a configuration name to a Kind. "proportional" is
// accepted as an alias of "default".
func ParseKind(name string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "default", "proportional":
		return KindProportional, nil
	case "dynamic":
		return KindDynamic, nil
	case "static":
		return KindStatic, nil
	default:
		return 0, fmt.Errorf("unknown strategy %s", name)
	}
}

var strategies = factory.NewRegistry[Strategy]()

func init() {
	_ = strategies.Register(KindProportional.String(), func(map[string]any) (Strategy, error) {
		return ProportionalStrategy{}, nil
	})
	_ = strategies.Register(KindDynamic.String(), func(conf map[string]any) (Strategy, error) {
		var c struct {
			MaxPasses int `json:"max_passes"`
		}
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		return DynamicStrategy{MaxPasses: c.MaxPasses}, nil
	})
	_ = strategies.Register(KindStatic.String(), func(map[string]any) (Strategy, error) {
		return nil, fmt.Errorf("%s: %w", KindStatic, ErrNotImplemented)
	})
}

// NewStrategy returns the strategy selected by the configuration. Selecting
// the static strategy fails with ErrNotImplemented rather than falling back.
func NewStrategy(cfg Config) (Strategy, error) {
	kind, err := ParseKind(cfg.Strategy)
	if err != nil {
		return nil, err
	}
	return strategies.Create(factory.ModuleConfig{
		Type: kind.String(),
		Conf: map[string]any{"max_passes": cfg.MaxPasses},
	})
}

// Strategies lists the registered strategy names.
func Strategies() []string { return strategies.Names() }
