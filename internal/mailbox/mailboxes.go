package mailbox

// Mailboxes is the single aggregate spec.md §3/§9 says is "passed by
// reference to each thread" — the only shared mutable state between the
// main, emulation, and render threads.
type Mailboxes struct {
	Frame *FrameMailbox

	ControllerInput *Latest[ControllerButtons]
	EmulationCommand *Ring[EmulationCommand]
	SpeedControl     *Latest[SpeedControlRequest]
	DebugCommand     *Ring[DebugCommand]
	DebugEvent       *Ring[DebugEvent]
	EmulationStatus  *Latest[EmulationStatus]
	RenderStatus     *Latest[RenderStatus]
	Config           *Latest[ConfigUpdate]
	XdgWindowEvent   *Ring[WindowEvent]
	XdgInputEvent    *Ring[InputEvent]
}

// SpeedControlRequest is the latest-wins payload SpeedControlMailbox
// carries: a full mode/region/multiplier/hard-sync replacement, applied by
// the emulation thread at its next tick boundary.
type SpeedControlRequest struct {
	Mode       int
	Region     int
	Multiplier float64
	HardSync   bool
}

// ConfigUpdate is the latest-wins payload ConfigMailbox carries: a pending
// config change the emulation/render threads should pick up.
type ConfigUpdate struct {
	Raw []byte // re-parsed by internal/config on receipt
}

// New constructs a Mailboxes with every member initialized, so no thread
// ever observes a nil mailbox.
func New() *Mailboxes {
	return &Mailboxes{
		Frame:            NewFrameMailbox(),
		ControllerInput:  &Latest[ControllerButtons]{},
		EmulationCommand: NewRing[EmulationCommand](),
		SpeedControl:     &Latest[SpeedControlRequest]{},
		DebugCommand:     NewRing[DebugCommand](),
		DebugEvent:       NewRing[DebugEvent](),
		EmulationStatus:  &Latest[EmulationStatus]{},
		RenderStatus:     &Latest[RenderStatus]{},
		Config:           &Latest[ConfigUpdate]{},
		XdgWindowEvent:   NewRing[WindowEvent](),
		XdgInputEvent:    NewRing[InputEvent](),
	}
}
