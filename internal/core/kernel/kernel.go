package kernel

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/zeusync/chitin/internal/core/events/bus"
	"github.com/zeusync/chitin/internal/core/observability/log"
)

// Stepper runs one simulation step. *system.Registry satisfies it.
type Stepper interface {
	Update(dt float64) error
}

// StepFunc observes a completed step.
type StepFunc func(tick uint64, dt float64)

// Kernel drives a Stepper from a Clock.
type Kernel struct {
	clock   *Clock
	systems Stepper
	bus     bus.EventBus
	logger  log.Log
	onStep  []StepFunc
}

func New(clock *Clock, systems Stepper, b bus.EventBus, logger log.Log) *Kernel {
	if logger == nil {
		logger = log.NewNop()
	}
	return &Kernel{
		clock:   clock,
		systems: systems,
		bus:     b,
		logger:  logger.With(log.String("component", "kernel")),
	}
}

func (k *Kernel) Clock() *Clock { return k.clock }

// OnStep registers fn to run after every successful step.
func (k *Kernel) OnStep(fn StepFunc) { k.onStep = append(k.onStep, fn) }

// Step runs one step with the given dt.
func (k *Kernel) Step(dt float64) error {
	if err := k.systems.Update(dt); err != nil {
		return fmt.Errorf("tick %d: %w", k.clock.TickCount(), err)
	}
	tick := k.clock.TickCount()
	for _, fn := range k.onStep {
		fn(tick, dt)
	}
	if k.bus != nil {
		if err := k.bus.Publish(bus.NewEvent(bus.EventTick, "kernel", tick, dt)); err != nil {
			k.logger.Warn("tick handler failed", log.Uint64("tick", tick), log.Error(err))
		}
	}
	return nil
}

// RunSteps advances the clock by n fixed steps without waiting.
func (k *Kernel) RunSteps(n int) error {
	for range n {
		if err := k.Step(k.clock.Step()); err != nil {
			return err
		}
	}
	return nil
}

// Run steps the simulation on a ticker until ctx is done or a step fails.
// A cancelled context is a clean stop and returns nil.
func (k *Kernel) Run(ctx context.Context) error {
	interval := k.clock.Interval()
	if interval <= 0 {
		return ErrNoRate
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	k.clock.Start(time.Now())
	k.logger.Info("kernel started",
		log.Float64("fps", k.clock.TargetFPS),
		log.Float64("timescale", k.clock.Timescale),
	)
	for {
		select {
		case <-ctx.Done():
			k.logger.Info("kernel stopped", log.Uint64("ticks", k.clock.TickCount()))
			if errors.Is(ctx.Err(), context.Canceled) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return nil
			}
			return ctx.Err()
		case now := <-ticker.C:
			if err := k.Step(k.clock.Tick(now)); err != nil {
				k.logger.Error("step failed", log.Error(err))
				return err
			}
		}
	}
}

var ErrNoRate = errors.New("kernel needs a positive target fps")
