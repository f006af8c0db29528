// Package input implements the two standard NES controller ports, $4016
// and $4017, per spec.md §4.1's Controllers capability.
package input

// Button is a single NES controller button.
type Button uint8

const (
	ButtonA Button = 1 << iota
	ButtonB
	ButtonSelect
	ButtonStart
	ButtonUp
	ButtonDown
	ButtonLeft
	ButtonRight
)

// Controller models one NES controller's shift register protocol: while
// strobe is high the register continuously reloads from the live button
// state; on the strobe's falling edge the current state latches and reads
// shift it out one bit per $4016/$4017 access, with 1s returned past the
// eighth bit.
type Controller struct {
	buttons       uint8
	shiftRegister uint8
	strobe        bool
}

// New constructs a controller with no buttons held.
func New() *Controller {
	return &Controller{}
}

// SetButton sets or releases a single button.
func (c *Controller) SetButton(button Button, pressed bool) {
	if pressed {
		c.buttons |= uint8(button)
	} else {
		c.buttons &^= uint8(button)
	}
	if c.strobe {
		c.shiftRegister = c.buttons
	}
}

// SetButtons sets all eight buttons at once, in NES order: A, B, Select,
// Start, Up, Down, Left, Right.
func (c *Controller) SetButtons(pressed [8]bool) {
	var v uint8
	for i, p := range pressed {
		if p {
			v |= 1 << uint(i)
		}
	}
	c.buttons = v
	if c.strobe {
		c.shiftRegister = c.buttons
	}
}

// IsPressed reports whether a button is currently held.
func (c *Controller) IsPressed(button Button) bool {
	return c.buttons&uint8(button) != 0
}

// Strobe handles a $4016 write: bit 0 controls the shift register's
// continuous-reload behavior.
func (c *Controller) Strobe(value uint8) {
	c.strobe = value&1 != 0
	if c.strobe {
		c.shiftRegister = c.buttons
	}
}

// Read returns the next bit of the shift register, shifting in 1s once
// exhausted, per real 4021 shift-register behavior.
func (c *Controller) Read() uint8 {
	if c.strobe {
		return c.buttons & 1
	}
	bit := c.shiftRegister & 1
	c.shiftRegister = (c.shiftRegister >> 1) | 0x80
	return bit
}

func (c *Controller) Reset() {
	c.buttons = 0
	c.shiftRegister = 0
	c.strobe = false
}

// Snapshot returns the held-button state in NES bit order (A, B, Select,
// Start, Up, Down, Left, Right), for internal/snapshot's save-state body.
// The shift register and strobe latch are deliberately not captured: a
// restored game re-strobes the port before its next read, same as on
// power-on.
func (c *Controller) Snapshot() [8]bool {
	var out [8]bool
	for i := range out {
		out[i] = c.buttons&(1<<uint(i)) != 0
	}
	return out
}

// RestoreButtons reinstates a previously captured held-button state.
func (c *Controller) RestoreButtons(pressed [8]bool) {
	c.SetButtons(pressed)
}

// InputState owns both controller ports and satisfies bus.Controllers.
type InputState struct {
	Controller1 *Controller
	Controller2 *Controller
}

func NewInputState() *InputState {
	return &InputState{Controller1: New(), Controller2: New()}
}

func (is *InputState) Reset() {
	is.Controller1.Reset()
	is.Controller2.Reset()
}

func (is *InputState) SetButtons1(pressed [8]bool) { is.Controller1.SetButtons(pressed) }
func (is *InputState) SetButtons2(pressed [8]bool) { is.Controller2.SetButtons(pressed) }

// ReadPort1/ReadPort2/Strobe satisfy bus.Controllers.
func (is *InputState) ReadPort1() uint8 { return is.Controller1.Read() }
func (is *InputState) ReadPort2() uint8 { return is.Controller2.Read() }
func (is *InputState) Strobe(value uint8) {
	is.Controller1.Strobe(value)
	is.Controller2.Strobe(value)
}
