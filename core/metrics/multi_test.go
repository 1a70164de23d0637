package metrics

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vrogeon/repartkey/core/model"
	"github.com/vrogeon/repartkey/core/repartition"
	"github.com/vrogeon/repartkey/core/stats"
)

type recordSink struct {
	count int
	err   error
}

func (r *recordSink) RecordRun(RunResult) error {
	r.count++
	return r.err
}

func (r *recordSink) RecordSlotKeys([]SlotKey) error {
	r.count++
	return nil
}

// runOnly implements no optional recorder.
type runOnly struct{ count int }

func (r *runOnly) RecordRun(RunResult) error {
	r.count++
	return nil
}

func TestMultiSink(t *testing.T) {
	s1 := &recordSink{}
	s2 := &recordSink{err: errors.New("boom")}
	s3 := &runOnly{}
	m := NewMultiSink(s1, s2, s3)

	err := m.RecordRun(RunResult{})
	assert.EqualError(t, err, "boom")
	require.NoError(t, m.RecordSlotKeys(nil))
	require.NoError(t, m.RecordParseErrors(ParseErrorEvent{}))
	require.NoError(t, m.RecordMonthlyKPIs(nil))

	assert.Equal(t, 2, s1.count)
	assert.Equal(t, 2, s2.count)
	assert.Equal(t, 1, s3.count)
}

func TestNewRunResultAndSlotKeys(t *testing.T) {
	pts := func(values ...float64) []model.Point {
		labels := []string{"01.06 12:00", "01.06 12:15"}
		out := make([]model.Point, len(values))
		for i, v := range values {
			out[i] = model.Point{Slot: labels[i], Value: v}
		}
		return out
	}
	run, err := repartition.NewEngine(nil, 1).Build(context.Background(),
		[]model.Producer{{ID: "P1", Name: "Roof", Points: pts(10, 0)}},
		[]model.Consumer{{ID: "C1", Name: "Flat", Priorities: []int{0}, Ratios: []float64{100}, Points: pts(4, 4)}},
		repartition.ProportionalStrategy{})
	require.NoError(t, err)

	res := NewRunResult(stats.Summarize(run))
	assert.Equal(t, run.ID, res.RunID)
	assert.Len(t, res.Rates, 4)
	assert.Equal(t, RateAutoConsumption, res.Rates[0].Kind)
	assert.Equal(t, 40.0, res.Rates[0].Value)
	assert.Equal(t, RateGlobalAutoProduction, res.Rates[3].Kind)
	assert.Equal(t, 50.0, res.Rates[3].Value)

	keys := SlotKeys(run, 2024)
	require.Len(t, keys, 2)
	assert.Equal(t, "P1", keys[0].ProducerID)
	assert.Equal(t, "C1", keys[0].ConsumerID)
	assert.Equal(t, 40.0, keys[0].Key)
	assert.Equal(t, 2024, keys[0].Time.Year())
	assert.Equal(t, 12, keys[0].Time.Hour())
	assert.Zero(t, keys[1].Key)
}

type closingSink struct {
	runOnly
	closed bool
}

func (c *closingSink) Close() error {
	c.closed = true
	return nil
}

type plainCloser struct {
	runOnly
	closed bool
}

func (c *plainCloser) Close() { c.closed = true }

func TestMultiSinkClose(t *testing.T) {
	a, b := &closingSink{}, &plainCloser{}
	m := NewMultiSink(a, &runOnly{}, b)
	CloseSink(m)
	assert.True(t, a.closed)
	assert.True(t, b.closed)
}
