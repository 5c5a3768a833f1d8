package kernel

import "time"

// Clock tracks simulation time. The step it reports never exceeds the
// base step for TargetFPS, so a stalled host slows the simulation down
// instead of making it jump.
type Clock struct {
	TargetFPS float64
	Timescale float64

	baseDT        float64
	last          time.Time
	started       bool
	ticks         uint64
	runTime       float64
	runTimeScaled float64

	fps       int
	frames    int
	fpsSecond int64
}

func NewClock(targetFPS, timescale float64) *Clock {
	c := &Clock{TargetFPS: targetFPS, Timescale: timescale}
	c.baseDT = c.limit()
	return c
}

func (c *Clock) limit() float64 {
	if c.TargetFPS <= 0 {
		return 0
	}
	return 1 / c.TargetFPS
}

// Interval is the wall-clock period between ticks.
func (c *Clock) Interval() time.Duration {
	return time.Duration(c.limit() * float64(time.Second))
}

// DT is the scaled length of the current step.
func (c *Clock) DT() float64 { return c.baseDT * c.Timescale }

// Start sets the reference point for the first Tick without advancing.
func (c *Clock) Start(now time.Time) {
	c.started = true
	c.last = now
	c.fpsSecond = now.Unix()
}

// Tick advances the clock to now and returns the scaled step.
func (c *Clock) Tick(now time.Time) float64 {
	if !c.started {
		c.Start(now)
	}
	raw := now.Sub(c.last).Seconds()
	c.last = now
	c.baseDT = min(max(raw, 0), c.limit())
	c.advance()

	if s := now.Unix(); s != c.fpsSecond {
		c.fps = c.frames
		c.frames = 0
		c.fpsSecond = s
	}
	c.frames++
	return c.DT()
}

// Step advances the clock by exactly one base step, for headless runs.
func (c *Clock) Step() float64 {
	c.baseDT = c.limit()
	c.advance()
	return c.DT()
}

func (c *Clock) advance() {
	c.ticks++
	c.runTime += c.baseDT
	c.runTimeScaled += c.DT()
}

func (c *Clock) TickCount() uint64      { return c.ticks }
func (c *Clock) RunTime() float64       { return c.runTime }
func (c *Clock) RunTimeScaled() float64 { return c.runTimeScaled }

// FPS is the number of ticks observed during the last full wall-clock
// second.
func (c *Clock) FPS() int { return c.fps }
