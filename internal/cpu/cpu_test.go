package cpu

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// ramBus is a flat 64K RAM standing in for the system bus in isolation
// tests; the real bus (internal/memory) is exercised by test/integration.
type ramBus struct {
	mem [65536]uint8
}

func (r *ramBus) Read(addr uint16) uint8       { return r.mem[addr] }
func (r *ramBus) Write(addr uint16, v uint8)   { r.mem[addr] = v }
func (r *ramBus) load(addr uint16, bytes ...uint8) {
	for i, b := range bytes {
		r.mem[int(addr)+i] = b
	}
}
func (r *ramBus) setResetVector(addr uint16) {
	r.mem[0xFFFC] = uint8(addr)
	r.mem[0xFFFD] = uint8(addr >> 8)
}

func newTestCPU(setup func(b *ramBus)) (*CPU, *ramBus) {
	bus := &ramBus{}
	bus.setResetVector(0x8000)
	if setup != nil {
		setup(bus)
	}
	c := New(bus)
	return c, bus
}

func runUntilBoundary(c *CPU) {
	c.Tick()
	for c.micro != 0 {
		c.Tick()
	}
}

func TestResetLoadsVectorAndPowerOnState(t *testing.T) {
	c, _ := newTestCPU(nil)
	require.Equal(t, uint16(0x8000), c.PC)
	require.Equal(t, uint8(0xFD), c.S)
	require.True(t, c.I)
}

func TestLDAImmediateTakesTwoCycles(t *testing.T) {
	c, _ := newTestCPU(func(b *ramBus) {
		b.load(0x8000, 0xA9, 0x42)
	})
	runUntilBoundary(c)
	require.Equal(t, uint8(0x42), c.A)
	require.Equal(t, uint64(2), c.cycles)
	require.False(t, c.Z)
	require.False(t, c.N)
}

func TestLDAImmediateSetsZeroAndNegativeFlags(t *testing.T) {
	c, _ := newTestCPU(func(b *ramBus) {
		b.load(0x8000, 0xA9, 0x00, 0xA9, 0x80)
	})
	runUntilBoundary(c)
	require.True(t, c.Z)
	runUntilBoundary(c)
	require.True(t, c.N)
}

func TestSTAZeroPageWritesThroughBus(t *testing.T) {
	c, bus := newTestCPU(func(b *ramBus) {
		b.load(0x8000, 0xA9, 0x7F, 0x85, 0x10)
	})
	runUntilBoundary(c)
	runUntilBoundary(c)
	require.Equal(t, uint8(0x7F), bus.mem[0x10])
}

func TestAbsoluteXReadPageCrossCostsExtraCycle(t *testing.T) {
	c, bus := newTestCPU(func(b *ramBus) {
		b.load(0x8000, 0xBD, 0xFF, 0x20) // LDA $20FF,X
		b.mem[0x2100] = 0x55
	})
	c.X = 1
	runUntilBoundary(c)
	require.Equal(t, uint8(0x55), c.A)
	require.Equal(t, uint64(5), c.cycles)
	require.Equal(t, uint8(0x55), bus.mem[0x2100])
}

func TestAbsoluteXReadNoPageCrossIsFourCycles(t *testing.T) {
	c, _ := newTestCPU(func(b *ramBus) {
		b.load(0x8000, 0xBD, 0x00, 0x20) // LDA $2000,X
		b.mem[0x2001] = 0x33
	})
	c.X = 1
	runUntilBoundary(c)
	require.Equal(t, uint8(0x33), c.A)
	require.Equal(t, uint64(4), c.cycles)
}

func TestBranchNotTakenIsTwoCycles(t *testing.T) {
	c, _ := newTestCPU(func(b *ramBus) {
		b.load(0x8000, 0xD0, 0x10) // BNE +16
	})
	c.Z = true
	runUntilBoundary(c)
	require.Equal(t, uint64(2), c.cycles)
	require.Equal(t, uint16(0x8002), c.PC)
}

func TestBranchTakenSamePageIsThreeCycles(t *testing.T) {
	c, _ := newTestCPU(func(b *ramBus) {
		b.load(0x8000, 0xD0, 0x10) // BNE +16
	})
	c.Z = false
	runUntilBoundary(c)
	require.Equal(t, uint64(3), c.cycles)
	require.Equal(t, uint16(0x8012), c.PC)
}

func TestBranchTakenAcrossPageIsFourCycles(t *testing.T) {
	c, _ := newTestCPU(func(b *ramBus) {
		b.mem[0xFFFC] = 0xFA
		b.mem[0xFFFD] = 0x80
		b.load(0x80FA, 0xD0, 0x10) // BNE +16, crosses into $810C
	})
	c.Z = false
	runUntilBoundary(c)
	require.Equal(t, uint64(4), c.cycles)
	require.Equal(t, uint16(0x810C), c.PC)
}

func TestJSRThenRTSRoundTrips(t *testing.T) {
	c, _ := newTestCPU(func(b *ramBus) {
		b.load(0x8000, 0x20, 0x00, 0x90) // JSR $9000
		b.load(0x9000, 0x60)             // RTS
	})
	runUntilBoundary(c) // JSR
	require.Equal(t, uint16(0x9000), c.PC)
	require.Equal(t, uint8(0xFB), c.S)
	runUntilBoundary(c) // RTS
	require.Equal(t, uint16(0x8003), c.PC)
	require.Equal(t, uint8(0xFD), c.S)
}

func TestASLZeroPageIsReadModifyWrite(t *testing.T) {
	c, bus := newTestCPU(func(b *ramBus) {
		b.load(0x8000, 0x06, 0x10) // ASL $10
		b.mem[0x10] = 0x81
	})
	runUntilBoundary(c)
	require.Equal(t, uint8(0x02), bus.mem[0x10])
	require.True(t, c.C)
	require.Equal(t, uint64(5), c.cycles)
}

func TestNMIServicingPushesStatusWithBClear(t *testing.T) {
	c, bus := newTestCPU(func(b *ramBus) {
		b.mem[0xFFFA] = 0x00
		b.mem[0xFFFB] = 0x91
		b.load(0x8000, 0xEA) // NOP, never actually reached
	})
	c.RequestNMI()
	runUntilBoundary(c)
	require.Equal(t, uint16(0x9100), c.PC)
	pushedStatus := bus.mem[0x0100+int(c.S)+1]
	require.Equal(t, uint8(0), pushedStatus&0x10, "B flag must read 0 in the pushed status")
}

func TestIRQIgnoredWhenInterruptDisableSet(t *testing.T) {
	c, _ := newTestCPU(func(b *ramBus) {
		b.load(0x8000, 0xEA) // NOP
	})
	c.I = true
	c.RequestIRQ(IRQSourceMapper)
	runUntilBoundary(c)
	require.Equal(t, uint16(0x8001), c.PC, "IRQ must not be serviced while I is set")
}

func TestJAMHaltsTheCPU(t *testing.T) {
	c, _ := newTestCPU(func(b *ramBus) {
		b.load(0x8000, 0x02)
	})
	runUntilBoundary(c)
	require.True(t, c.Halted())
	pcBefore := c.PC
	c.Tick()
	require.Equal(t, pcBefore, c.PC, "a halted CPU must not advance")
}

func TestLAXLoadsBothAAndX(t *testing.T) {
	c, _ := newTestCPU(func(b *ramBus) {
		b.load(0x8000, 0xA7, 0x10) // LAX $10
		b.mem[0x10] = 0x99
	})
	runUntilBoundary(c)
	require.Equal(t, uint8(0x99), c.A)
	require.Equal(t, uint8(0x99), c.X)
}

func TestSBCSetsOverflowOnSignedWraparound(t *testing.T) {
	c, _ := newTestCPU(func(b *ramBus) {
		b.load(0x8000, 0xE9, 0x01) // SBC #1
	})
	c.A = 0x80
	c.C = true // no borrow going in
	runUntilBoundary(c)
	require.Equal(t, uint8(0x7F), c.A)
	require.True(t, c.V)
}
