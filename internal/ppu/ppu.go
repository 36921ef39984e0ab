// Package ppu implements the Picture Processing Unit (C5): the scanline
// pipeline, background shift registers, sprite evaluation/rendering, and
// the frame buffer the host sink reads.
package ppu

import "gones/internal/memory"

// PPU is the 2C02-derivative picture processing unit.
type PPU struct {
	ctrl, mask, status uint8 // $2000/$2001/$2002
	oamAddr            uint8

	// Loopy scroll registers.
	v, t uint16
	x    uint8
	w    bool

	memory *memory.PPUMemory

	oam          [256]uint8
	secondaryOAM [32]uint8 // up to 8 sprites, 4 bytes each

	spriteCount     uint8
	spriteIndexes   [8]uint8 // original OAM index of each secondary-OAM slot; 0 marks sprite 0
	spritePatternLo [8]uint8
	spritePatternHi [8]uint8
	spriteX         [8]uint8
	spriteAttr      [8]uint8
	spriteOverflow  bool
	sprite0Hit      bool

	// Background pipeline: two 16-bit pattern shifters and a 2-bit
	// palette-index stream carried in two more 16-bit shifters, plus the
	// latches the next tile's bytes land in until the 8-dot boundary.
	bgPatternShiftLo, bgPatternShiftHi uint16
	bgAttrShiftLo, bgAttrShiftHi       uint16
	nextTileID, nextAttr               uint8
	nextPatternLo, nextPatternHi       uint8

	scanline   int // -1 (pre-render) .. 260
	dot        int // 0..340
	frameCount uint64
	oddFrame   bool
	cycleCount uint64

	readBuffer uint8

	frameBuffer [256 * 240]uint32

	nmiCallback           func()
	frameCompleteCallback func()
}

// New creates a PPU at the pre-render scanline, frame buffer cleared to
// black.
func New() *PPU {
	return &PPU{scanline: -1}
}

// Reset clears the mask/control/scroll latches (documented reset behavior)
// but preserves palette RAM and OAM, matching spec note 4's reset-vs-power-on
// distinction.
func (p *PPU) Reset() {
	p.ctrl = 0
	p.mask = 0
	p.w = false
	p.v = 0
	p.x = 0
	p.scanline = -1
	p.dot = 0
	p.oddFrame = false
	p.readBuffer = 0
}

func (p *PPU) SetMemory(m *memory.PPUMemory)          { p.memory = m }
func (p *PPU) SetNMICallback(cb func())               { p.nmiCallback = cb }
func (p *PPU) SetFrameCompleteCallback(cb func())     { p.frameCompleteCallback = cb }

// ReadRegister services a CPU read of $2000-$2007 (already reduced to its
// 8-register span by the bus's mod-8 mirroring).
func (p *PPU) ReadRegister(address uint16) uint8 {
	switch address {
	case 0x2002:
		value := p.status
		p.status &^= 0x80 // clear VBlank
		p.w = false
		return value
	case 0x2004:
		return p.oam[p.oamAddr]
	case 0x2007:
		return p.readData()
	default:
		return 0 // PPUCTRL/MASK/OAMADDR/SCROLL/ADDR are write-only.
	}
}

// WriteRegister services a CPU write to $2000-$2007.
func (p *PPU) WriteRegister(address uint16, value uint8) {
	switch address {
	case 0x2000:
		p.ctrl = value
		p.t = (p.t &^ 0x0C00) | (uint16(value&0x03) << 10)
	case 0x2001:
		p.mask = value
	case 0x2003:
		p.oamAddr = value
	case 0x2004:
		p.oam[p.oamAddr] = value
		p.oamAddr++
	case 0x2005:
		if !p.w {
			p.t = (p.t &^ 0x001F) | uint16(value>>3)
			p.x = value & 0x07
		} else {
			p.t = (p.t &^ 0x73E0) | (uint16(value&0x07) << 12) | (uint16(value&0xF8) << 2)
		}
		p.w = !p.w
	case 0x2006:
		if !p.w {
			p.t = (p.t & 0x00FF) | (uint16(value&0x3F) << 8)
		} else {
			p.t = (p.t & 0xFF00) | uint16(value)
			p.v = p.t
		}
		p.w = !p.w
	case 0x2007:
		p.writeData(value)
	}
}

// WriteOAM is the OAM-DMA sink: internal/bus copies 256 bytes here starting
// at the current OAM address.
func (p *PPU) WriteOAM(address uint8, value uint8) { p.oam[address] = value }

func (p *PPU) vramIncrement() uint16 {
	if p.ctrl&0x04 != 0 {
		return 32
	}
	return 1
}

func (p *PPU) readData() uint8 {
	var data uint8
	if p.v >= 0x3F00 {
		data = p.memory.Read(p.v)
		p.readBuffer = p.memory.Read(p.v - 0x1000) // underlying nametable mirror
	} else {
		data = p.readBuffer
		p.readBuffer = p.memory.Read(p.v)
	}
	p.v = (p.v + p.vramIncrement()) & 0x7FFF
	return data
}

func (p *PPU) writeData(value uint8) {
	p.memory.Write(p.v, value)
	p.v = (p.v + p.vramIncrement()) & 0x7FFF
}

func (p *PPU) renderingEnabled() bool { return p.mask&0x18 != 0 }

// Tick advances the PPU by exactly one dot.
func (p *PPU) Tick() {
	p.cycleCount++

	preRender := p.scanline == -1
	visible := p.scanline >= 0 && p.scanline < 240

	if preRender && p.dot == 1 {
		p.status &^= 0xE0 // clear VBlank, sprite-0 hit, sprite overflow
		p.sprite0Hit = false
		p.spriteOverflow = false
	}

	if (visible || preRender) && p.renderingEnabled() {
		p.stepBackgroundPipeline()
	}

	if visible && p.dot == 1 {
		p.evaluateSprites()
	}
	if visible && p.dot == 257 && p.renderingEnabled() {
		p.fetchSpritePatterns()
	}

	if visible && p.dot >= 1 && p.dot <= 256 {
		p.renderPixel(p.dot-1, p.scanline)
	}

	if p.scanline == 241 && p.dot == 1 {
		p.status |= 0x80
		if p.ctrl&0x80 != 0 && p.nmiCallback != nil {
			p.nmiCallback()
		}
	}

	p.advance()
}

// stepBackgroundPipeline runs the nametable/attribute/pattern fetch sequence
// and the shift/increment logic shared by visible and pre-render scanlines.
func (p *PPU) stepBackgroundPipeline() {
	fetching := (p.dot >= 1 && p.dot <= 256) || (p.dot >= 321 && p.dot <= 336)
	if fetching {
		p.shiftBackgroundRegisters()
		p.fetchBackgroundByte()
	}
	if p.dot == 256 {
		p.incrementY()
	}
	if p.dot == 257 {
		p.copyX()
	}
	if p.scanline == -1 && p.dot >= 280 && p.dot <= 304 {
		p.copyY()
	}
}

func (p *PPU) fetchBackgroundByte() {
	switch (p.dot - 1) % 8 {
	case 0:
		p.loadBackgroundShifters()
		p.nextTileID = p.memory.Read(0x2000 | (p.v & 0x0FFF))
	case 2:
		addr := uint16(0x23C0) | (p.v & 0x0C00) | ((p.v >> 4) & 0x38) | ((p.v >> 2) & 0x07)
		attr := p.memory.Read(addr)
		shift := ((p.v >> 4) & 4) | (p.v & 2)
		p.nextAttr = (attr >> shift) & 0x03
	case 4:
		p.nextPatternLo = p.memory.Read(p.patternAddr(false))
	case 6:
		p.nextPatternHi = p.memory.Read(p.patternAddr(true))
	case 7:
		p.incrementX()
	}
}

func (p *PPU) patternAddr(hiPlane bool) uint16 {
	var base uint16
	if p.ctrl&0x10 != 0 {
		base = 0x1000
	}
	fineY := (p.v >> 12) & 0x07
	addr := base + uint16(p.nextTileID)*16 + fineY
	if hiPlane {
		addr += 8
	}
	return addr
}

func (p *PPU) loadBackgroundShifters() {
	p.bgPatternShiftLo = (p.bgPatternShiftLo & 0xFF00) | uint16(p.nextPatternLo)
	p.bgPatternShiftHi = (p.bgPatternShiftHi & 0xFF00) | uint16(p.nextPatternHi)
	var lo, hi uint16
	if p.nextAttr&0x01 != 0 {
		lo = 0xFF
	}
	if p.nextAttr&0x02 != 0 {
		hi = 0xFF
	}
	p.bgAttrShiftLo = (p.bgAttrShiftLo & 0xFF00) | lo
	p.bgAttrShiftHi = (p.bgAttrShiftHi & 0xFF00) | hi
}

func (p *PPU) shiftBackgroundRegisters() {
	p.bgPatternShiftLo <<= 1
	p.bgPatternShiftHi <<= 1
	p.bgAttrShiftLo <<= 1
	p.bgAttrShiftHi <<= 1
}

// incrementX advances coarse X, toggling the horizontal nametable bit on
// wraparound (spec §4.3 "Scroll increments").
func (p *PPU) incrementX() {
	if p.v&0x001F == 31 {
		p.v &^= 0x001F
		p.v ^= 0x0400
	} else {
		p.v++
	}
}

// incrementY advances fine Y, rolling into coarse Y (and skipping the
// attribute rows at 29 with a nametable toggle, per the documented rule).
func (p *PPU) incrementY() {
	if p.v&0x7000 != 0x7000 {
		p.v += 0x1000
		return
	}
	p.v &^= 0x7000
	y := (p.v & 0x03E0) >> 5
	switch y {
	case 29:
		y = 0
		p.v ^= 0x0800
	case 31:
		y = 0
	default:
		y++
	}
	p.v = (p.v &^ 0x03E0) | (y << 5)
}

func (p *PPU) copyX() { p.v = (p.v &^ 0x041F) | (p.t & 0x041F) }
func (p *PPU) copyY() { p.v = (p.v &^ 0x7BE0) | (p.t & 0x7BE0) }

// evaluateSprites selects up to 8 in-range sprites for the current scanline
// into secondary OAM. This uses the simplified "9th in-range sprite sets
// overflow" rule rather than the hardware's byte-skipping search bug
// (Open Question #1 — accepted divergence).
func (p *PPU) evaluateSprites() {
	p.spriteCount = 0
	for i := range p.spriteIndexes {
		p.spriteIndexes[i] = 0xFF
	}
	height := 8
	if p.ctrl&0x20 != 0 {
		height = 16
	}
	found := 0
	for s := 0; s < 64; s++ {
		y := int(p.oam[s*4])
		if p.scanline >= y+1 && p.scanline < y+1+height {
			if found < 8 {
				base := found * 4
				copy(p.secondaryOAM[base:base+4], p.oam[s*4:s*4+4])
				p.spriteIndexes[found] = uint8(s)
				found++
			} else {
				p.spriteOverflow = true
				p.status |= 0x20
				break
			}
		}
	}
	p.spriteCount = uint8(found)
}

// fetchSpritePatterns loads the pattern shift bytes for every sprite
// selected this scanline, honoring 8x8/8x16 addressing and flips.
func (p *PPU) fetchSpritePatterns() {
	height := 8
	if p.ctrl&0x20 != 0 {
		height = 16
	}
	for i := 0; i < int(p.spriteCount); i++ {
		base := i * 4
		y := int(p.secondaryOAM[base])
		tile := p.secondaryOAM[base+1]
		attr := p.secondaryOAM[base+2]

		row := p.scanline - (y + 1)
		if attr&0x80 != 0 { // vertical flip
			row = height - 1 - row
		}

		var patternBase uint16
		tileNum := tile
		if height == 16 {
			if tile&0x01 != 0 {
				patternBase = 0x1000
			}
			tileNum = tile &^ 0x01
			if row >= 8 {
				tileNum++
				row -= 8
			}
		} else if p.ctrl&0x08 != 0 {
			patternBase = 0x1000
		}

		addr := patternBase + uint16(tileNum)*16 + uint16(row)
		lo := p.memory.Read(addr)
		hi := p.memory.Read(addr + 8)
		if attr&0x40 != 0 { // horizontal flip
			lo = reverseBits(lo)
			hi = reverseBits(hi)
		}
		p.spritePatternLo[i] = lo
		p.spritePatternHi[i] = hi
		p.spriteX[i] = p.secondaryOAM[base+3]
		p.spriteAttr[i] = attr
	}
}

func reverseBits(b uint8) uint8 {
	var r uint8
	for i := 0; i < 8; i++ {
		r <<= 1
		r |= b & 1
		b >>= 1
	}
	return r
}

// renderPixel muxes the background shifters and sprite pattern latches for
// one output pixel, exactly per spec §4.3's 5-step priority rule.
func (p *PPU) renderPixel(x, y int) {
	var bgColor, bgPalette uint8
	if p.mask&0x08 != 0 && (x >= 8 || p.mask&0x02 != 0) {
		bit := uint16(0x8000) >> p.x
		lo := uint8(0)
		if p.bgPatternShiftLo&bit != 0 {
			lo = 1
		}
		hi := uint8(0)
		if p.bgPatternShiftHi&bit != 0 {
			hi = 1
		}
		bgColor = (hi << 1) | lo
		plo := uint8(0)
		if p.bgAttrShiftLo&bit != 0 {
			plo = 1
		}
		phi := uint8(0)
		if p.bgAttrShiftHi&bit != 0 {
			phi = 1
		}
		bgPalette = (phi << 1) | plo
	}

	var spColor, spPalette uint8
	var spPriority, spIsZero bool
	if p.mask&0x10 != 0 && (x >= 8 || p.mask&0x04 != 0) {
		for i := 0; i < int(p.spriteCount); i++ {
			offset := x - int(p.spriteX[i])
			if offset < 0 || offset > 7 {
				continue
			}
			lo := (p.spritePatternLo[i] >> (7 - uint(offset))) & 1
			hi := (p.spritePatternHi[i] >> (7 - uint(offset))) & 1
			idx := (hi << 1) | lo
			if idx == 0 {
				continue
			}
			spColor = idx
			spPalette = p.spriteAttr[i] & 0x03
			spPriority = p.spriteAttr[i]&0x20 != 0
			spIsZero = p.spriteIndexes[i] == 0
			break
		}
	}

	if spIsZero && bgColor != 0 && spColor != 0 && !p.sprite0Hit &&
		x != 255 && p.mask&0x18 == 0x18 {
		p.sprite0Hit = true
		p.status |= 0x40
	}

	var paletteAddr uint16
	switch {
	case bgColor == 0 && spColor == 0:
		paletteAddr = 0x3F00
	case bgColor == 0:
		paletteAddr = 0x3F10 + uint16(spPalette)*4 + uint16(spColor)
	case spColor == 0:
		paletteAddr = 0x3F00 + uint16(bgPalette)*4 + uint16(bgColor)
	case spPriority:
		paletteAddr = 0x3F00 + uint16(bgPalette)*4 + uint16(bgColor)
	default:
		paletteAddr = 0x3F10 + uint16(spPalette)*4 + uint16(spColor)
	}

	colorIndex := p.memory.Read(paletteAddr)
	if p.mask&0x01 != 0 {
		colorIndex &= 0x30 // grayscale
	}
	rgb := NESColorToRGB(colorIndex)
	p.frameBuffer[y*256+x] = applyEmphasis(rgb, p.mask)
}

// applyEmphasis approximates the color-emphasis bits by scaling the
// non-emphasized channels down, matching the visible effect without a full
// NTSC composite-signal model.
func applyEmphasis(rgb uint32, mask uint8) uint32 {
	emphasis := mask >> 5
	if emphasis == 0 {
		return rgb
	}
	r := (rgb >> 16) & 0xFF
	g := (rgb >> 8) & 0xFF
	b := rgb & 0xFF
	dim := func(c uint32, emphasized bool) uint32 {
		if emphasized {
			return c
		}
		return c * 3 / 4
	}
	r = dim(r, emphasis&0x01 != 0)
	g = dim(g, emphasis&0x02 != 0)
	b = dim(b, emphasis&0x04 != 0)
	return r<<16 | g<<8 | b
}

// advance moves the dot/scanline counters, applying the odd-frame one-dot
// shortening of the pre-render scanline when background rendering is on.
func (p *PPU) advance() {
	p.dot++
	if p.scanline == -1 && p.dot == 340 && p.oddFrame && p.mask&0x08 != 0 {
		p.dot++
	}
	if p.dot > 340 {
		p.dot = 0
		p.scanline++
		if p.scanline > 260 {
			p.scanline = -1
			p.frameCount++
			p.oddFrame = !p.oddFrame
			if p.frameCompleteCallback != nil {
				p.frameCompleteCallback()
			}
		}
	}
}

func (p *PPU) GetFrameBuffer() [256 * 240]uint32 { return p.frameBuffer }
func (p *PPU) GetFrameCount() uint64             { return p.frameCount }
func (p *PPU) SetFrameCount(count uint64)        { p.frameCount = count }
func (p *PPU) GetScanline() int                  { return p.scanline }
func (p *PPU) GetCycle() int                     { return p.dot }
func (p *PPU) IsRenderingEnabled() bool          { return p.renderingEnabled() }
func (p *PPU) IsVBlank() bool                    { return p.status&0x80 != 0 }
func (p *PPU) GetCycleCount() uint64             { return p.cycleCount }

// EnableBackgroundDebugLogging and SetBackgroundDebugVerbosity are hooks for
// a host-side debug overlay; the shift-register pipeline itself has nothing
// to instrument at runtime, so these are no-ops.
func (p *PPU) EnableBackgroundDebugLogging(enable bool) {}
func (p *PPU) SetBackgroundDebugVerbosity(level int)    {}

// NES 2C02 NTSC palette.
var nesColorPalette = [64]uint32{
	0x666666, 0x002A88, 0x1412A7, 0x3B00A4, 0x5C007E, 0x6E0040, 0x6C0600, 0x561D00,
	0x333500, 0x0B4800, 0x005200, 0x004F08, 0x00404D, 0x000000, 0x000000, 0x000000,
	0xADADAD, 0x155FD9, 0x4240FF, 0x7527FE, 0xA01ACC, 0xB71E7B, 0xB53120, 0x994E00,
	0x6B6D00, 0x388700, 0x0C9300, 0x008F32, 0x007C8D, 0x000000, 0x000000, 0x000000,
	0xFFFEFF, 0x64B0FF, 0x9290FF, 0xC676FF, 0xF36AFF, 0xFE6ECC, 0xFE8170, 0xEA9E22,
	0xBCBE00, 0x88D800, 0x5CE430, 0x45E082, 0x48CDDE, 0x4F4F4F, 0x000000, 0x000000,
	0xFFFEFF, 0xC0DFFF, 0xD3D2FF, 0xE8C8FF, 0xFBC2FF, 0xFEC4EA, 0xFECCC5, 0xF7D8A5,
	0xE4E594, 0xCFF29B, 0xBEFBB3, 0xB8F8D8, 0xB8F8F8, 0x000000, 0x000000, 0x000000,
}

// NESColorToRGB converts a 6-bit NES palette index to a 24-bit RGB value.
func NESColorToRGB(colorIndex uint8) uint32 {
	return nesColorPalette[colorIndex&0x3F]
}
