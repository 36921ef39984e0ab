package integration

import (
	"testing"

	"gones/internal/bus"
	"gones/internal/cartridge"
)

// TestVBlankNMITiming drives a cartridge whose reset and NMI handlers are
// both infinite NOP loops, enables NMI generation via PPUCTRL, and records
// the CPU cycle at which the NMI handler's first instruction executes. The
// hardware asserts NMI at scanline 241 dot 1; the handler's first opcode
// fetch follows once the interrupted instruction has finished and the
// 7-cycle interrupt sequence has run.
func TestVBlankNMITiming(t *testing.T) {
	cart, err := cartridge.NewTestROMBuilder().
		WithResetVector(0x8000).
		WithNMIVector(0x8100).
		WithInstructions([]uint8{0xEA, 0x4C, 0x00, 0x80}). // NOP; JMP $8000
		BuildCartridge()
	if err != nil {
		t.Fatalf("building cartridge: %v", err)
	}

	b := bus.New()
	b.LoadCartridge(cart)
	b.Reset()

	// Enable NMI generation (PPUCTRL bit 7) and background rendering
	// (PPUMASK bit 3) so the pre-render reload path and VBlank flag behave
	// as a real boot sequence would.
	b.Memory.Write(0x2000, 0x80)
	b.Memory.Write(0x2001, 0x08)

	nmiScanline, nmiCycle := -1, -1
	for i := 0; i < 200000 && nmiScanline < 0; i++ {
		before := b.GetPPUState()
		b.Step()
		state := b.GetCPUState()
		if state.PC == 0x8100 {
			nmiScanline = before.Scanline
			nmiCycle = before.Cycle
		}
	}

	if nmiScanline < 0 {
		t.Fatal("NMI handler never ran")
	}
	if nmiScanline != 241 {
		t.Errorf("NMI fired at scanline %d, want 241", nmiScanline)
	}
	// The handler's first opcode fetch trails the dot-1 assertion by however
	// many cycles remain in the interrupted instruction plus the 7-cycle
	// interrupt sequence itself (each CPU cycle is 3 PPU dots).
	if nmiCycle < 0 || nmiCycle > 30 {
		t.Errorf("NMI handler entry at dot %d, want within the documented window after dot 1", nmiCycle)
	}
}
