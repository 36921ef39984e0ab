package cpu

import "github.com/davecgh/go-spew/spew"

// Snapshot is a point-in-time copy of visible CPU state, used by trace
// comparisons against a reference log (e.g. nestest.log) without holding a
// pointer into the live CPU.
type Snapshot struct {
	PC      uint16
	A, X, Y uint8
	S       uint8
	P       uint8
	Cycles  uint64
}

// Snapshot captures the CPU's currently visible register file.
func (c *CPU) Snapshot() Snapshot {
	return Snapshot{
		PC:     c.PC,
		A:      c.A,
		X:      c.X,
		Y:      c.Y,
		S:      c.S,
		P:      c.getStatusByte(false),
		Cycles: c.cycles,
	}
}

// DumpMismatch renders got/want snapshots for a test failure message. Kept
// as a dedicated helper (rather than inline spew.Sdump calls scattered
// across the test files) so every CPU test reports mismatches the same way.
func DumpMismatch(step int, got, want Snapshot) string {
	return spew.Sprintf("step %d mismatch:\ngot:  %#v\nwant: %#v", step, got, want)
}
