package engine

// Clock is the Stopped/Running state machine that turns wall-clock samples
// into stability-clamped timesteps. The host's frame scheduler owns the loop;
// the clock only answers "how much simulated time does this wake-up cover".
type Clock struct {
	running bool
	last    float64
	maxDt   float64
}

func NewClock(maxDt float64) *Clock {
	return &Clock{maxDt: maxDt}
}

// Start transitions to Running and records now as the integration reference,
// so the first Delta after Start covers no stale interval.
func (c *Clock) Start(now float64) {
	c.running = true
	c.last = now
}

func (c *Clock) Stop()         { c.running = false }
func (c *Clock) Running() bool { return c.running }

// Delta returns the clamped timestep for a wake-up at now and advances the
// reference. Stopped clocks and non-monotonic samples yield 0. A stall longer
// than maxDt is simulated as exactly maxDt so particles never teleport.
func (c *Clock) Delta(now float64) float64 {
	if !c.running {
		return 0
	}
	dt := now - c.last
	c.last = now
	if dt < 0 {
		return 0
	}
	if dt > c.maxDt {
		dt = c.maxDt
	}
	return dt
}
