package clock

// State is Clock's gob-encodable snapshot mirror.
type State struct {
	MasterDots uint64
	CPUCycles  uint64
}

// Snapshot captures the master dot/cycle counters.
func (c *Clock) Snapshot() State {
	return State{MasterDots: c.MasterDots, CPUCycles: c.CPUCycles}
}

// Restore reinstates a previously captured snapshot.
func (c *Clock) Restore(s State) {
	c.MasterDots, c.CPUCycles = s.MasterDots, s.CPUCycles
}
