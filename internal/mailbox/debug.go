package mailbox

// InspectRegion selects which memory space a DebugCommand.Inspect targets.
type InspectRegion int

const (
	InspectCPUBus InspectRegion = iota
	InspectPPUNametables
	InspectPPUPalette
	InspectOAM
)

// DebugCommandKind tags DebugCommand's payload, per SPEC_FULL.md §4.9a.
type DebugCommandKind int

const (
	DebugAddBreakpoint DebugCommandKind = iota
	DebugRemoveBreakpoint
	DebugAddWatchpoint
	DebugRemoveWatchpoint
	DebugPause
	DebugResume
	DebugStepInstruction
	DebugStepFrame
	DebugInspect
	DebugClear
)

// DebugCommand is the main-thread -> emulation-thread debugger command
// union (SPEC_FULL.md §4.9a).
type DebugCommand struct {
	Kind   DebugCommandKind
	Addr   uint16
	Region InspectRegion
	Lo, Hi uint16
}

// CPUSnapshot is the register/flag snapshot a BreakpointHit event carries.
type CPUSnapshot struct {
	A, X, Y, SP, P uint8
	PC             uint16
}

// DebugEventKind tags DebugEvent's payload.
type DebugEventKind int

const (
	EventBreakpointHit DebugEventKind = iota
	EventWatchpointHit
	EventInspectResponse
	EventPaused
	EventResumed
	EventError
)

// DebugEvent is the emulation-thread -> main-thread debugger event union
// (SPEC_FULL.md §4.9a).
type DebugEvent struct {
	Kind     DebugEventKind
	Addr     uint16
	CPU      CPUSnapshot
	OldValue uint8
	NewValue uint8
	Region   InspectRegion
	Data     []byte
	Message  string
}

// WindowEventKind tags a render-thread window event.
type WindowEventKind int

const (
	WindowResized WindowEventKind = iota
	WindowCloseRequested
	WindowFocusChanged
)

// WindowEvent is one XdgWindowEventMailbox entry.
type WindowEvent struct {
	Kind          WindowEventKind
	Width, Height int
	Focused       bool
}

// InputEventKind tags a render-thread raw input event (distinct from the
// latest-wins ControllerButtons snapshot: this carries every discrete
// key/gamepad edge for the debugger/config UI, not just button state).
type InputEventKind int

const (
	InputKeyDown InputEventKind = iota
	InputKeyUp
)

// InputEvent is one XdgInputEventMailbox entry.
type InputEvent struct {
	Kind InputEventKind
	Key  int
}
