package cartridge

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadFromReaderRejectsBadMagic(t *testing.T) {
	data := make([]byte, 32)
	copy(data, "XXX\x1a")
	_, err := LoadFromBytes(data)
	require.Error(t, err)
}

func TestLoadFromReaderParsesMirroringAndMapper(t *testing.T) {
	rom, err := NewTestROMBuilder().
		WithPRGSize(1).
		WithCHRSize(1).
		WithMapper(0).
		WithMirroring(MirrorVertical).
		Build()
	require.NoError(t, err)

	cart, err := LoadFromBytes(rom)
	require.NoError(t, err)
	require.Equal(t, MirrorVertical, cart.GetMirrorMode())
	require.Equal(t, uint16(0), cart.mapperID)
}

func TestNROM16KBPRGMirrorsAcrossBothWindows(t *testing.T) {
	cart, err := NewTestROMBuilder().
		WithPRGSize(1).
		WithCHRSize(1).
		WithMapper(0).
		WithData(0x0000, []uint8{0x42}).
		BuildCartridge()
	require.NoError(t, err)

	require.Equal(t, uint8(0x42), cart.ReadPRG(0x8000))
	require.Equal(t, uint8(0x42), cart.ReadPRG(0xC000), "16KB NROM must mirror into the upper window")
}

func TestNROMSRAMIsReadWrite(t *testing.T) {
	cart, err := NewTestROMBuilder().WithPRGSize(1).WithCHRSize(1).WithMapper(0).BuildCartridge()
	require.NoError(t, err)

	cart.WritePRG(0x6000, 0x99)
	require.Equal(t, uint8(0x99), cart.ReadPRG(0x6000))
}

func TestNROMCHRRAMIsWritableWhenDeclaredRAM(t *testing.T) {
	cart, err := NewTestROMBuilder().WithPRGSize(1).WithCHRRAM().WithMapper(0).BuildCartridge()
	require.NoError(t, err)

	cart.WriteCHR(0x0010, 0x7A)
	require.Equal(t, uint8(0x7A), cart.ReadCHR(0x0010))
}
