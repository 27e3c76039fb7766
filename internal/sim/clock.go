package sim

// Clock tracks simulation time and the step that produced it. It is
// owned by one loop and advanced exactly once per iteration, after the
// step for that iteration has been chosen and before the solvers run.
type Clock struct {
	time float64
	dt   float64
}

func NewClock(start, initialDt float64) *Clock {
	return &Clock{time: start, dt: initialDt}
}

func (c *Clock) Time() float64 { return c.time }

// Dt returns the step of the most recent Advance.
func (c *Clock) Dt() float64 { return c.dt }

func (c *Clock) Advance(dt float64) {
	c.dt = dt
	c.time += dt
}
