package bus

// SetFrameBufferForTesting seeds the PPU's frame buffer directly, letting
// tests check downstream rendering consumers without running a real frame.
func (b *Bus) SetFrameBufferForTesting(frameBuffer [256 * 240]uint32) {
	if b.PPU != nil {
		b.PPU.SetFrameBufferForTesting(frameBuffer)
	}
}
