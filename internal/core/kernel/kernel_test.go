package kernel

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeusync/chitin/internal/core/events/bus"
	"github.com/zeusync/chitin/internal/core/observability/log"
)

type stepper struct {
	dts  []float64
	fail int
}

func (s *stepper) Update(dt float64) error {
	s.dts = append(s.dts, dt)
	if s.fail > 0 && len(s.dts) >= s.fail {
		return errors.New("step failed")
	}
	return nil
}

func TestClockClampsToBaseStep(t *testing.T) {
	c := NewClock(10, 2)
	start := time.Unix(100, 0)

	assert.Equal(t, 0.0, c.Tick(start), "first tick has no elapsed time")
	assert.InDelta(t, 0.1, c.Tick(start.Add(50*time.Millisecond)), 1e-9)
	assert.InDelta(t, 0.2, c.Tick(start.Add(5*time.Second)), 1e-9, "a stall is clamped to one base step")
	assert.Equal(t, uint64(3), c.TickCount())
	assert.InDelta(t, 0.15, c.RunTime(), 1e-9)
	assert.InDelta(t, 0.3, c.RunTimeScaled(), 1e-9)
	assert.Equal(t, 100*time.Millisecond, c.Interval())
}

func TestClockFPS(t *testing.T) {
	c := NewClock(60, 1)
	start := time.Unix(10, 0)
	for i := range 5 {
		c.Tick(start.Add(time.Duration(i) * 100 * time.Millisecond))
	}
	assert.Equal(t, 0, c.FPS(), "no full second yet")
	c.Tick(time.Unix(11, 0))
	assert.Equal(t, 5, c.FPS())
}

func TestRunStepsUsesFixedStep(t *testing.T) {
	s := &stepper{}
	k := New(NewClock(50, 1), s, nil, log.NewNop())

	var ticks []uint64
	k.OnStep(func(tick uint64, _ float64) { ticks = append(ticks, tick) })

	require.NoError(t, k.RunSteps(3))
	assert.Equal(t, []float64{0.02, 0.02, 0.02}, s.dts)
	assert.Equal(t, []uint64{1, 2, 3}, ticks)
}

func TestStepPublishesTick(t *testing.T) {
	b := bus.New()
	var got []uint64
	_, err := b.Subscribe(bus.EventTick, func(e bus.Event) error {
		got = append(got, e.Tick())
		return nil
	})
	require.NoError(t, err)

	k := New(NewClock(50, 1), &stepper{}, b, log.NewNop())
	require.NoError(t, k.RunSteps(2))
	assert.Equal(t, []uint64{1, 2}, got)
}

func TestRunStepsStopsOnError(t *testing.T) {
	s := &stepper{fail: 2}
	k := New(NewClock(50, 1), s, nil, log.NewNop())
	err := k.RunSteps(5)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tick 2")
	assert.Len(t, s.dts, 2)
}

func TestRunUntilCancelled(t *testing.T) {
	s := &stepper{}
	k := New(NewClock(200, 1), s, nil, log.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	k.OnStep(func(tick uint64, _ float64) {
		if tick >= 3 {
			cancel()
		}
	})
	require.NoError(t, k.Run(ctx))
	assert.GreaterOrEqual(t, len(s.dts), 2)
}

func TestRunReturnsStepError(t *testing.T) {
	k := New(NewClock(200, 1), &stepper{fail: 1}, nil, log.NewNop())
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	assert.Error(t, k.Run(ctx))
}

func TestRunNeedsRate(t *testing.T) {
	k := New(NewClock(0, 1), &stepper{}, nil, nil)
	assert.ErrorIs(t, k.Run(context.Background()), ErrNoRate)
}
