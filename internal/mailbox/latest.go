package mailbox

import "sync"

// Latest is a short-mutex "latest value wins" mailbox: the producer
// overwrites whatever's there, the consumer reads the most recent value.
// Used for ControllerInputMailbox, SpeedControlMailbox,
// EmulationStatusMailbox, RenderStatusMailbox, and ConfigMailbox, all of
// which spec.md §5 describes identically ("latest-wins").
type Latest[T any] struct {
	mu    sync.Mutex
	value T
	set   bool
}

// Set overwrites the current value.
func (m *Latest[T]) Set(value T) {
	m.mu.Lock()
	m.value = value
	m.set = true
	m.mu.Unlock()
}

// Get returns the most recently set value and whether one was ever set.
func (m *Latest[T]) Get() (T, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.value, m.set
}

// ControllerButtons is the two-controller button snapshot
// ControllerInputMailbox carries (spec.md §5).
type ControllerButtons struct {
	Controller1 [8]bool
	Controller2 [8]bool
}

// EmulationCommand is the tagged union EmulationCommandMailbox carries,
// main thread -> emulation thread.
type EmulationCommand struct {
	Kind EmulationCommandKind
	Path string // SaveState/LoadState target
}

type EmulationCommandKind int

const (
	CommandPowerOn EmulationCommandKind = iota
	CommandReset
	CommandPause
	CommandResume
	CommandSaveState
	CommandLoadState
	CommandShutdown
)

// EmulationStatus is the latest-wins status EmulationStatusMailbox
// publishes for the UI (spec.md §7's error-propagation target included).
type EmulationStatus struct {
	Running      bool
	FrameCount   uint64
	ErrorMessage string
}

// RenderStatus is the latest-wins status RenderStatusMailbox publishes.
type RenderStatus struct {
	FPS         float64
	DroppedFrames uint64
}
