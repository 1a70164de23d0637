package repartition

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/vrogeon/repartkey/core/logger"
	"github.com/vrogeon/repartkey/core/model"
)

// Run is the result of one repartition computation. It replaces any
// previous run: slots are never updated incrementally.
type Run struct {
	ID        string           `json:"id"`
	Strategy  string           `json:"strategy"`
	Producers []model.Producer `json:"-"`
	Consumers []model.Consumer `json:"-"`
	Slots     []Slot           `json:"slots"`
	// Truncated counts slots where a tier hit the pass limit.
	Truncated  int       `json:"truncated"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}

// Duration returns the time spent building the run.
func (r *Run) Duration() time.Duration { return r.FinishedAt.Sub(r.StartedAt) }

// Engine builds slots from producer and consumer series.
type Engine struct {
	log     logger.Logger
	workers int
	now     func() time.Time
}

// NewEngine returns an engine computing up to workers slots at once.
// workers <= 1 computes slots sequentially.
func NewEngine(log logger.Logger, workers int) *Engine {
	return &Engine{log: logger.OrNop(log), workers: workers, now: time.Now}
}

// Build validates the inputs and computes one slot per index of the first
// producer's series. Inputs are only read.
func (e *Engine) Build(ctx context.Context, producers []model.Producer, consumers []model.Consumer, strategy Strategy) (*Run, error) {
	if strategy == nil {
		return nil, errors.New("nil strategy")
	}
	if err := model.Validate(producers, consumers); err != nil {
		return nil, err
	}

	run := &Run{
		ID:        uuid.NewString(),
		Strategy:  strategy.Name(),
		Producers: producers,
		Consumers: consumers,
		Slots:     make([]Slot, len(producers[0].Points)),
		StartedAt: e.now(),
	}
	e.log.Infof("repartition run %s: %d slots, %d producers, %d consumers, strategy %s",
		run.ID, len(run.Slots), len(producers), len(consumers), run.Strategy)

	var truncated atomic.Int64
	compute := func(i int) error {
		s := NewSlot(producers, consumers, i)
		if err := e.computeSlot(&s, strategy); err != nil {
			if !errors.Is(err, ErrMaxPasses) {
				return fmt.Errorf("slot %d (%s): %w", i, s.Label, err)
			}
			truncated.Add(1)
			e.log.Warnf("slot %s: %v", s.Label, err)
		}
		run.Slots[i] = s
		return nil
	}

	if e.workers <= 1 {
		for i := range run.Slots {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			if err := compute(i); err != nil {
				return nil, err
			}
		}
	} else {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(e.workers)
		for i := range run.Slots {
			if gctx.Err() != nil {
				break
			}
			i := i
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				return compute(i)
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
	}

	run.Truncated = int(truncated.Load())
	run.FinishedAt = e.now()
	e.log.Debugw("repartition run done", map[string]any{
		"run_id":    run.ID,
		"slots":     len(run.Slots),
		"truncated": run.Truncated,
		"duration":  run.Duration().String(),
	})
	return run, nil
}

// computeSlot applies the zero production gate: when the first producer
// produced nothing, all ratios are zeroed and the strategy is skipped.
func (e *Engine) computeSlot(s *Slot, strategy Strategy) error {
	if s.Producers[0].InitialProduction == 0 {
		for ci := range s.Consumers {
			for pi := range s.Consumers[ci].Params {
				s.Consumers[ci].Params[pi].Key = 0
			}
		}
		return nil
	}
	return strategy.Compute(s)
}

// NewSlot builds the allocation records of slot i. Keys start at the
// consumers' configured ratios.
func NewSlot(producers []model.Producer, consumers []model.Consumer, i int) Slot {
	s := Slot{
		Label:     producers[0].Points[i].Slot,
		Producers: make([]ProducerAllocation, len(producers)),
		Consumers: make([]ConsumerAllocation, len(consumers)),
	}
	for pi, p := range producers {
		v := p.Points[i].Value
		s.Producers[pi] = ProducerAllocation{InitialProduction: v, Production: v}
	}
	for ci, c := range consumers {
		params := make([]AllocationParam, len(producers))
		for pi := range params {
			params[pi] = AllocationParam{Priority: c.Priorities[pi], Key: c.Ratios[pi]}
		}
		s.Consumers[ci] = ConsumerAllocation{
			Consumption: c.Points[i].Value,
			State:       Active,
			Params:      params,
		}
	}
	return s
}
