// Package clock derives CPU and APU phase from the master PPU dot counter.
package clock

// Clock counts master PPU dots and derives CPU cycles (one CPU cycle per
// three PPU dots, exactly). The APU runs at the CPU cycle rate.
type Clock struct {
	MasterDots uint64
	CPUCycles  uint64
}

// New returns a Clock at power-on (dot 0).
func New() *Clock {
	return &Clock{}
}

// Reset returns the clock to power-on state.
func (c *Clock) Reset() {
	c.MasterDots = 0
	c.CPUCycles = 0
}

// TickDot advances the master counter by one PPU dot and reports whether
// this dot also completes a CPU cycle (every third dot).
func (c *Clock) TickDot() (cpuCycleBoundary bool) {
	c.MasterDots++
	if c.MasterDots%3 == 0 {
		c.CPUCycles++
		return true
	}
	return false
}
