package cartridge

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func newMMC3Cartridge(t *testing.T, prgBanks16K, chrBanks8K uint8) *Cartridge {
	t.Helper()
	cart, err := NewTestROMBuilder().
		WithPRGSize(prgBanks16K).
		WithCHRSize(chrBanks8K).
		WithMapper(4).
		BuildCartridge()
	require.NoError(t, err)
	return cart
}

func TestMMC3FixedBanksAtPowerOn(t *testing.T) {
	cart := newMMC3Cartridge(t, 4, 2) // 64KB PRG, 16KB CHR
	m := cart.mapper.(*Mapper004)

	require.Equal(t, uint8(7), m.prgBankFor(0xE000), "last bank is always fixed at $E000")
}

func TestMMC3PRGBankSwitchR6(t *testing.T) {
	cart := newMMC3Cartridge(t, 4, 2)
	cart.WritePRG(0x8000, 0x06) // select R6
	cart.WritePRG(0x8001, 0x03) // R6 = bank 3
	m := cart.mapper.(*Mapper004)
	require.Equal(t, uint8(3), m.prgBankFor(0x8000))
	require.Equal(t, uint8(6), m.prgBankFor(0xC000), "PRG mode 0 fixes $C000 to the second-last bank")
}

func TestMMC3PRGModeSwapsFixedWindow(t *testing.T) {
	cart := newMMC3Cartridge(t, 4, 2)
	cart.WritePRG(0x8000, 0x46) // select R6, PRG mode 1
	cart.WritePRG(0x8001, 0x02) // R6 = bank 2
	m := cart.mapper.(*Mapper004)
	require.Equal(t, uint8(6), m.prgBankFor(0x8000), "PRG mode 1 fixes $8000 to the second-last bank")
	require.Equal(t, uint8(2), m.prgBankFor(0xC000))
}

func TestMMC3MirroringRegister(t *testing.T) {
	cart := newMMC3Cartridge(t, 2, 1)
	cart.WritePRG(0xA000, 0x01)
	require.Equal(t, MirrorHorizontal, cart.GetMirrorMode())
	cart.WritePRG(0xA000, 0x00)
	require.Equal(t, MirrorVertical, cart.GetMirrorMode())
}

func TestMMC3IRQFiresAfterLatchCountsDownToZero(t *testing.T) {
	cart := newMMC3Cartridge(t, 2, 1)
	m := cart.mapper.(*Mapper004)

	cart.WritePRG(0xC000, 0x02) // latch = 2
	cart.WritePRG(0xC001, 0x00) // force reload on next clock
	cart.WritePRG(0xE001, 0x00) // enable IRQ

	// Simulate A12 rising edges with the low-time filter satisfied.
	riseA12 := func() {
		for i := 0; i < 10; i++ {
			m.NotifyA12(0x0000)
		}
		m.NotifyA12(0x1000)
	}

	riseA12() // reload to latch (2), counter==2, no IRQ
	require.False(t, m.IRQPending())
	riseA12() // 2 -> 1
	require.False(t, m.IRQPending())
	riseA12() // 1 -> 0, IRQ fires
	require.True(t, m.IRQPending())

	cart.WritePRG(0xE000, 0x00) // disable+acknowledge
	require.False(t, m.IRQPending())
}
