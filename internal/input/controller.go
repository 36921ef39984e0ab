// Package input implements the two standard controller ports (C7): the
// strobe/shift-register read protocol real NES controllers use.
package input

import "log"

// Button identifies one of the 8 standard controller buttons.
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

// Short names for the buttons, as used by the host shell.
const (
	A      = ButtonA
	B      = ButtonB
	Select = ButtonSelect
	Start  = ButtonStart
	Up     = ButtonUp
	Down   = ButtonDown
	Left   = ButtonLeft
	Right  = ButtonRight
)

// Controller is one standard NES controller: an 8-bit button latch read out
// one bit per $4016/$4017 access while strobe is low.
type Controller struct {
	buttons uint8

	shiftRegister  uint8
	strobe         bool
	buttonSnapshot uint8
	bitPosition    uint8

	debugEnabled bool
}

func New() *Controller { return &Controller{} }

func (c *Controller) SetButton(button Button, pressed bool) {
	if pressed {
		c.buttons |= uint8(button)
	} else {
		c.buttons &^= uint8(button)
	}
}

// SetButtons loads all 8 button states at once, in A/B/Select/Start/Up/Down/
// Left/Right order.
func (c *Controller) SetButtons(buttons [8]bool) {
	c.buttons = 0
	bits := [8]Button{ButtonA, ButtonB, ButtonSelect, ButtonStart, ButtonUp, ButtonDown, ButtonLeft, ButtonRight}
	for i, pressed := range buttons {
		if pressed {
			c.buttons |= uint8(bits[i])
		}
	}
}

func (c *Controller) IsPressed(button Button) bool {
	return (c.buttons & uint8(button)) != 0
}

// Write handles a $4016 strobe write. While strobe stays high the shift
// register continuously reloads from the live button state; the falling
// edge locks in the snapshot that subsequent reads shift out.
func (c *Controller) Write(value uint8) {
	wasStrobe := c.strobe
	c.strobe = (value & 1) != 0

	if c.strobe {
		c.buttonSnapshot = c.buttons
		c.shiftRegister = c.buttons
		c.bitPosition = 0
	} else if wasStrobe {
		c.buttonSnapshot = c.buttons
		c.shiftRegister = c.buttonSnapshot
		c.bitPosition = 0
	}
	if c.debugEnabled {
		log.Printf("controller write: value=%#02x strobe=%t", value, c.strobe)
	}
}

// Read shifts out the next button bit in bit 0, with bit 6 read back set
// (open bus). Past the 8th read, real hardware returns 1 on a standard
// controller's data line.
func (c *Controller) Read() uint8 {
	if c.strobe {
		c.bitPosition = 0
		return (c.buttonSnapshot & 1) | 0x40
	}

	var result uint8
	if c.bitPosition < 8 {
		result = c.shiftRegister & 1
		c.shiftRegister >>= 1
	} else {
		result = 1
	}
	c.bitPosition++
	return result | 0x40
}

func (c *Controller) Reset() {
	c.buttons = 0
	c.shiftRegister = 0
	c.strobe = false
	c.buttonSnapshot = 0
	c.bitPosition = 0
}

func (c *Controller) EnableDebug(enable bool) { c.debugEnabled = enable }

// GetBitPosition reports the next bit the controller will shift out.
func (c *Controller) GetBitPosition() uint8 { return c.bitPosition }

// InputState owns both controller ports (C7).
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

func (is *InputState) EnableDebug(enable bool) {
	is.Controller1.EnableDebug(enable)
	is.Controller2.EnableDebug(enable)
}

func (is *InputState) SetButtons1(buttons [8]bool) { is.Controller1.SetButtons(buttons) }
func (is *InputState) SetButtons2(buttons [8]bool) { is.Controller2.SetButtons(buttons) }

// Read services a $4016/$4017 CPU read. On both ports bit 6 reads back set,
// matching the open-bus behavior real hardware exhibits there.
func (is *InputState) Read(address uint16) uint8 {
	switch address {
	case 0x4016:
		return is.Controller1.Read()
	case 0x4017:
		return is.Controller2.Read() | 0x40
	default:
		return 0
	}
}

// Write broadcasts a $4016 strobe write to both controller ports.
func (is *InputState) Write(address uint16, value uint8) {
	if address == 0x4016 {
		is.Controller1.Write(value)
		is.Controller2.Write(value)
	}
}
