package integration

import (
	"testing"

	"gones/internal/bus"
	"gones/internal/cartridge"
)

// TestAPULengthCounterHalt writes 0x30 to $4000 (duty/envelope, with the
// length-counter-halt bit set) then a length-reload value to $4003 with
// $4015 bit 0 enabling pulse 1, and checks the channel stays active (as
// reported by $4015) across enough half-frame clocks that an un-halted
// counter would have reached zero and silenced it.
func TestAPULengthCounterHalt(t *testing.T) {
	cart, err := cartridge.NewTestROMBuilder().WithResetVector(0x8000).BuildCartridge()
	if err != nil {
		t.Fatalf("building cartridge: %v", err)
	}

	b := bus.New()
	b.LoadCartridge(cart)
	b.Reset()

	b.Memory.Write(0x4015, 0x01) // enable pulse 1
	b.Memory.Write(0x4000, 0x30) // halt bit set, constant-volume envelope
	b.Memory.Write(0x4002, 0x00) // timer low (inaudible period is fine here)
	b.Memory.Write(0x4003, 0x18) // length-reload index 3 -> shortest table entry (2)

	// A half-frame clock happens roughly every ~14915 CPU cycles (4-step
	// sequence); 400,000 cycles is about 26 half-frame clocks, so an
	// un-halted counter would certainly have decremented to zero and
	// cleared bit 0.
	for i := 0; i < 400_000; i++ {
		b.Step()
	}

	if status := b.Memory.Read(0x4015); status&0x01 == 0 {
		t.Error("pulse 1 length counter reached zero despite the halt bit being set")
	}
}

// TestAPULengthCounterClearedByDisable confirms the companion behavior:
// clearing the channel-enable bit in $4015 silences the channel immediately
// regardless of the halt bit.
func TestAPULengthCounterClearedByDisable(t *testing.T) {
	cart, err := cartridge.NewTestROMBuilder().WithResetVector(0x8000).BuildCartridge()
	if err != nil {
		t.Fatalf("building cartridge: %v", err)
	}

	b := bus.New()
	b.LoadCartridge(cart)
	b.Reset()

	b.Memory.Write(0x4015, 0x01)
	b.Memory.Write(0x4000, 0x30)
	b.Memory.Write(0x4003, 0x08)

	b.Memory.Write(0x4015, 0x00) // disable pulse 1
	if status := b.Memory.Read(0x4015); status&0x01 != 0 {
		t.Error("pulse 1 still reports active after its enable bit was cleared")
	}
}
