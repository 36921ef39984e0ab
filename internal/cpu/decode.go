package cpu

// decodeTable is the static 256-entry opcode decode table (spec §4.1). Each
// row is {mnemonic, addressing mode, access category}; the per-cycle
// sequencer in execute.go is driven entirely by (mode, category), and the
// mnemonic only selects the register/flag mutation applied on the cycle
// where hardware would commit it.
//
// Layout follows the conventional 16x16 opcode grid (high nibble = row) so
// it can be checked column-by-column against any published 6502 opcode
// reference.
var decodeTable [256]opEntry

func init() {
	set := func(op uint8, name string, mode AddressingMode, cat AccessCategory) {
		decodeTable[op] = opEntry{name: name, mode: mode, cat: cat}
	}

	// Row 0x0_
	set(0x00, "BRK", Implied, CatBRK)
	set(0x01, "ORA", IndexedIndirect, CatRead)
	set(0x02, "JAM", Implied, CatJAM)
	set(0x03, "SLO", IndexedIndirect, CatReadModifyWrite)
	set(0x04, "NOP", ZeroPage, CatRead)
	set(0x05, "ORA", ZeroPage, CatRead)
	set(0x06, "ASL", ZeroPage, CatReadModifyWrite)
	set(0x07, "SLO", ZeroPage, CatReadModifyWrite)
	set(0x08, "PHP", Implied, CatStackPush)
	set(0x09, "ORA", Immediate, CatRead)
	set(0x0A, "ASL", Accumulator, CatAccumulator)
	set(0x0B, "ANC", Immediate, CatRead)
	set(0x0C, "NOP", Absolute, CatRead)
	set(0x0D, "ORA", Absolute, CatRead)
	set(0x0E, "ASL", Absolute, CatReadModifyWrite)
	set(0x0F, "SLO", Absolute, CatReadModifyWrite)

	// Row 0x1_
	set(0x10, "BPL", Relative, CatBranch)
	set(0x11, "ORA", IndirectIndexed, CatRead)
	set(0x12, "JAM", Implied, CatJAM)
	set(0x13, "SLO", IndirectIndexed, CatReadModifyWrite)
	set(0x14, "NOP", ZeroPageX, CatRead)
	set(0x15, "ORA", ZeroPageX, CatRead)
	set(0x16, "ASL", ZeroPageX, CatReadModifyWrite)
	set(0x17, "SLO", ZeroPageX, CatReadModifyWrite)
	set(0x18, "CLC", Implied, CatImplied)
	set(0x19, "ORA", AbsoluteY, CatRead)
	set(0x1A, "NOP", Implied, CatImplied)
	set(0x1B, "SLO", AbsoluteY, CatReadModifyWrite)
	set(0x1C, "NOP", AbsoluteX, CatRead)
	set(0x1D, "ORA", AbsoluteX, CatRead)
	set(0x1E, "ASL", AbsoluteX, CatReadModifyWrite)
	set(0x1F, "SLO", AbsoluteX, CatReadModifyWrite)

	// Row 0x2_
	set(0x20, "JSR", Absolute, CatJSR)
	set(0x21, "AND", IndexedIndirect, CatRead)
	set(0x22, "JAM", Implied, CatJAM)
	set(0x23, "RLA", IndexedIndirect, CatReadModifyWrite)
	set(0x24, "BIT", ZeroPage, CatRead)
	set(0x25, "AND", ZeroPage, CatRead)
	set(0x26, "ROL", ZeroPage, CatReadModifyWrite)
	set(0x27, "RLA", ZeroPage, CatReadModifyWrite)
	set(0x28, "PLP", Implied, CatStackPull)
	set(0x29, "AND", Immediate, CatRead)
	set(0x2A, "ROL", Accumulator, CatAccumulator)
	set(0x2B, "ANC", Immediate, CatRead)
	set(0x2C, "BIT", Absolute, CatRead)
	set(0x2D, "AND", Absolute, CatRead)
	set(0x2E, "ROL", Absolute, CatReadModifyWrite)
	set(0x2F, "RLA", Absolute, CatReadModifyWrite)

	// Row 0x3_
	set(0x30, "BMI", Relative, CatBranch)
	set(0x31, "AND", IndirectIndexed, CatRead)
	set(0x32, "JAM", Implied, CatJAM)
	set(0x33, "RLA", IndirectIndexed, CatReadModifyWrite)
	set(0x34, "NOP", ZeroPageX, CatRead)
	set(0x35, "AND", ZeroPageX, CatRead)
	set(0x36, "ROL", ZeroPageX, CatReadModifyWrite)
	set(0x37, "RLA", ZeroPageX, CatReadModifyWrite)
	set(0x38, "SEC", Implied, CatImplied)
	set(0x39, "AND", AbsoluteY, CatRead)
	set(0x3A, "NOP", Implied, CatImplied)
	set(0x3B, "RLA", AbsoluteY, CatReadModifyWrite)
	set(0x3C, "NOP", AbsoluteX, CatRead)
	set(0x3D, "AND", AbsoluteX, CatRead)
	set(0x3E, "ROL", AbsoluteX, CatReadModifyWrite)
	set(0x3F, "RLA", AbsoluteX, CatReadModifyWrite)

	// Row 0x4_
	set(0x40, "RTI", Implied, CatRTI)
	set(0x41, "EOR", IndexedIndirect, CatRead)
	set(0x42, "JAM", Implied, CatJAM)
	set(0x43, "SRE", IndexedIndirect, CatReadModifyWrite)
	set(0x44, "NOP", ZeroPage, CatRead)
	set(0x45, "EOR", ZeroPage, CatRead)
	set(0x46, "LSR", ZeroPage, CatReadModifyWrite)
	set(0x47, "SRE", ZeroPage, CatReadModifyWrite)
	set(0x48, "PHA", Implied, CatStackPush)
	set(0x49, "EOR", Immediate, CatRead)
	set(0x4A, "LSR", Accumulator, CatAccumulator)
	set(0x4B, "ALR", Immediate, CatRead)
	set(0x4C, "JMP", Absolute, CatJMP)
	set(0x4D, "EOR", Absolute, CatRead)
	set(0x4E, "LSR", Absolute, CatReadModifyWrite)
	set(0x4F, "SRE", Absolute, CatReadModifyWrite)

	// Row 0x5_
	set(0x50, "BVC", Relative, CatBranch)
	set(0x51, "EOR", IndirectIndexed, CatRead)
	set(0x52, "JAM", Implied, CatJAM)
	set(0x53, "SRE", IndirectIndexed, CatReadModifyWrite)
	set(0x54, "NOP", ZeroPageX, CatRead)
	set(0x55, "EOR", ZeroPageX, CatRead)
	set(0x56, "LSR", ZeroPageX, CatReadModifyWrite)
	set(0x57, "SRE", ZeroPageX, CatReadModifyWrite)
	set(0x58, "CLI", Implied, CatImplied)
	set(0x59, "EOR", AbsoluteY, CatRead)
	set(0x5A, "NOP", Implied, CatImplied)
	set(0x5B, "SRE", AbsoluteY, CatReadModifyWrite)
	set(0x5C, "NOP", AbsoluteX, CatRead)
	set(0x5D, "EOR", AbsoluteX, CatRead)
	set(0x5E, "LSR", AbsoluteX, CatReadModifyWrite)
	set(0x5F, "SRE", AbsoluteX, CatReadModifyWrite)

	// Row 0x6_
	set(0x60, "RTS", Implied, CatRTS)
	set(0x61, "ADC", IndexedIndirect, CatRead)
	set(0x62, "JAM", Implied, CatJAM)
	set(0x63, "RRA", IndexedIndirect, CatReadModifyWrite)
	set(0x64, "NOP", ZeroPage, CatRead)
	set(0x65, "ADC", ZeroPage, CatRead)
	set(0x66, "ROR", ZeroPage, CatReadModifyWrite)
	set(0x67, "RRA", ZeroPage, CatReadModifyWrite)
	set(0x68, "PLA", Implied, CatStackPull)
	set(0x69, "ADC", Immediate, CatRead)
	set(0x6A, "ROR", Accumulator, CatAccumulator)
	set(0x6B, "ARR", Immediate, CatRead)
	set(0x6C, "JMP", Indirect, CatJMPIndirect)
	set(0x6D, "ADC", Absolute, CatRead)
	set(0x6E, "ROR", Absolute, CatReadModifyWrite)
	set(0x6F, "RRA", Absolute, CatReadModifyWrite)

	// Row 0x7_
	set(0x70, "BVS", Relative, CatBranch)
	set(0x71, "ADC", IndirectIndexed, CatRead)
	set(0x72, "JAM", Implied, CatJAM)
	set(0x73, "RRA", IndirectIndexed, CatReadModifyWrite)
	set(0x74, "NOP", ZeroPageX, CatRead)
	set(0x75, "ADC", ZeroPageX, CatRead)
	set(0x76, "ROR", ZeroPageX, CatReadModifyWrite)
	set(0x77, "RRA", ZeroPageX, CatReadModifyWrite)
	set(0x78, "SEI", Implied, CatImplied)
	set(0x79, "ADC", AbsoluteY, CatRead)
	set(0x7A, "NOP", Implied, CatImplied)
	set(0x7B, "RRA", AbsoluteY, CatReadModifyWrite)
	set(0x7C, "NOP", AbsoluteX, CatRead)
	set(0x7D, "ADC", AbsoluteX, CatRead)
	set(0x7E, "ROR", AbsoluteX, CatReadModifyWrite)
	set(0x7F, "RRA", AbsoluteX, CatReadModifyWrite)

	// Row 0x8_
	set(0x80, "NOP", Immediate, CatRead)
	set(0x81, "STA", IndexedIndirect, CatWrite)
	set(0x82, "NOP", Immediate, CatRead)
	set(0x83, "SAX", IndexedIndirect, CatWrite)
	set(0x84, "STY", ZeroPage, CatWrite)
	set(0x85, "STA", ZeroPage, CatWrite)
	set(0x86, "STX", ZeroPage, CatWrite)
	set(0x87, "SAX", ZeroPage, CatWrite)
	set(0x88, "DEY", Implied, CatImplied)
	set(0x89, "NOP", Immediate, CatRead)
	set(0x8A, "TXA", Implied, CatImplied)
	set(0x8B, "ANE", Immediate, CatRead)
	set(0x8C, "STY", Absolute, CatWrite)
	set(0x8D, "STA", Absolute, CatWrite)
	set(0x8E, "STX", Absolute, CatWrite)
	set(0x8F, "SAX", Absolute, CatWrite)

	// Row 0x9_
	set(0x90, "BCC", Relative, CatBranch)
	set(0x91, "STA", IndirectIndexed, CatWrite)
	set(0x92, "JAM", Implied, CatJAM)
	set(0x93, "SHA", IndirectIndexed, CatWrite)
	set(0x94, "STY", ZeroPageX, CatWrite)
	set(0x95, "STA", ZeroPageX, CatWrite)
	set(0x96, "STX", ZeroPageY, CatWrite)
	set(0x97, "SAX", ZeroPageY, CatWrite)
	set(0x98, "TYA", Implied, CatImplied)
	set(0x99, "STA", AbsoluteY, CatWrite)
	set(0x9A, "TXS", Implied, CatImplied)
	set(0x9B, "TAS", AbsoluteY, CatWrite)
	set(0x9C, "SHY", AbsoluteX, CatWrite)
	set(0x9D, "STA", AbsoluteX, CatWrite)
	set(0x9E, "SHX", AbsoluteY, CatWrite)
	set(0x9F, "SHA", AbsoluteY, CatWrite)

	// Row 0xA_
	set(0xA0, "LDY", Immediate, CatRead)
	set(0xA1, "LDA", IndexedIndirect, CatRead)
	set(0xA2, "LDX", Immediate, CatRead)
	set(0xA3, "LAX", IndexedIndirect, CatRead)
	set(0xA4, "LDY", ZeroPage, CatRead)
	set(0xA5, "LDA", ZeroPage, CatRead)
	set(0xA6, "LDX", ZeroPage, CatRead)
	set(0xA7, "LAX", ZeroPage, CatRead)
	set(0xA8, "TAY", Implied, CatImplied)
	set(0xA9, "LDA", Immediate, CatRead)
	set(0xAA, "TAX", Implied, CatImplied)
	set(0xAB, "LXA", Immediate, CatRead)
	set(0xAC, "LDY", Absolute, CatRead)
	set(0xAD, "LDA", Absolute, CatRead)
	set(0xAE, "LDX", Absolute, CatRead)
	set(0xAF, "LAX", Absolute, CatRead)

	// Row 0xB_
	set(0xB0, "BCS", Relative, CatBranch)
	set(0xB1, "LDA", IndirectIndexed, CatRead)
	set(0xB2, "JAM", Implied, CatJAM)
	set(0xB3, "LAX", IndirectIndexed, CatRead)
	set(0xB4, "LDY", ZeroPageX, CatRead)
	set(0xB5, "LDA", ZeroPageX, CatRead)
	set(0xB6, "LDX", ZeroPageY, CatRead)
	set(0xB7, "LAX", ZeroPageY, CatRead)
	set(0xB8, "CLV", Implied, CatImplied)
	set(0xB9, "LDA", AbsoluteY, CatRead)
	set(0xBA, "TSX", Implied, CatImplied)
	set(0xBB, "LAS", AbsoluteY, CatRead)
	set(0xBC, "LDY", AbsoluteX, CatRead)
	set(0xBD, "LDA", AbsoluteX, CatRead)
	set(0xBE, "LDX", AbsoluteY, CatRead)
	set(0xBF, "LAX", AbsoluteY, CatRead)

	// Row 0xC_
	set(0xC0, "CPY", Immediate, CatRead)
	set(0xC1, "CMP", IndexedIndirect, CatRead)
	set(0xC2, "NOP", Immediate, CatRead)
	set(0xC3, "DCP", IndexedIndirect, CatReadModifyWrite)
	set(0xC4, "CPY", ZeroPage, CatRead)
	set(0xC5, "CMP", ZeroPage, CatRead)
	set(0xC6, "DEC", ZeroPage, CatReadModifyWrite)
	set(0xC7, "DCP", ZeroPage, CatReadModifyWrite)
	set(0xC8, "INY", Implied, CatImplied)
	set(0xC9, "CMP", Immediate, CatRead)
	set(0xCA, "DEX", Implied, CatImplied)
	set(0xCB, "SBX", Immediate, CatRead)
	set(0xCC, "CPY", Absolute, CatRead)
	set(0xCD, "CMP", Absolute, CatRead)
	set(0xCE, "DEC", Absolute, CatReadModifyWrite)
	set(0xCF, "DCP", Absolute, CatReadModifyWrite)

	// Row 0xD_
	set(0xD0, "BNE", Relative, CatBranch)
	set(0xD1, "CMP", IndirectIndexed, CatRead)
	set(0xD2, "JAM", Implied, CatJAM)
	set(0xD3, "DCP", IndirectIndexed, CatReadModifyWrite)
	set(0xD4, "NOP", ZeroPageX, CatRead)
	set(0xD5, "CMP", ZeroPageX, CatRead)
	set(0xD6, "DEC", ZeroPageX, CatReadModifyWrite)
	set(0xD7, "DCP", ZeroPageX, CatReadModifyWrite)
	set(0xD8, "CLD", Implied, CatImplied)
	set(0xD9, "CMP", AbsoluteY, CatRead)
	set(0xDA, "NOP", Implied, CatImplied)
	set(0xDB, "DCP", AbsoluteY, CatReadModifyWrite)
	set(0xDC, "NOP", AbsoluteX, CatRead)
	set(0xDD, "CMP", AbsoluteX, CatRead)
	set(0xDE, "DEC", AbsoluteX, CatReadModifyWrite)
	set(0xDF, "DCP", AbsoluteX, CatReadModifyWrite)

	// Row 0xE_
	set(0xE0, "CPX", Immediate, CatRead)
	set(0xE1, "SBC", IndexedIndirect, CatRead)
	set(0xE2, "NOP", Immediate, CatRead)
	set(0xE3, "ISC", IndexedIndirect, CatReadModifyWrite)
	set(0xE4, "CPX", ZeroPage, CatRead)
	set(0xE5, "SBC", ZeroPage, CatRead)
	set(0xE6, "INC", ZeroPage, CatReadModifyWrite)
	set(0xE7, "ISC", ZeroPage, CatReadModifyWrite)
	set(0xE8, "INX", Implied, CatImplied)
	set(0xE9, "SBC", Immediate, CatRead)
	set(0xEA, "NOP", Implied, CatImplied)
	set(0xEB, "SBC", Immediate, CatRead)
	set(0xEC, "CPX", Absolute, CatRead)
	set(0xED, "SBC", Absolute, CatRead)
	set(0xEE, "INC", Absolute, CatReadModifyWrite)
	set(0xEF, "ISC", Absolute, CatReadModifyWrite)

	// Row 0xF_
	set(0xF0, "BEQ", Relative, CatBranch)
	set(0xF1, "SBC", IndirectIndexed, CatRead)
	set(0xF2, "JAM", Implied, CatJAM)
	set(0xF3, "ISC", IndirectIndexed, CatReadModifyWrite)
	set(0xF4, "NOP", ZeroPageX, CatRead)
	set(0xF5, "SBC", ZeroPageX, CatRead)
	set(0xF6, "INC", ZeroPageX, CatReadModifyWrite)
	set(0xF7, "ISC", ZeroPageX, CatReadModifyWrite)
	set(0xF8, "SED", Implied, CatImplied)
	set(0xF9, "SBC", AbsoluteY, CatRead)
	set(0xFA, "NOP", Implied, CatImplied)
	set(0xFB, "ISC", AbsoluteY, CatReadModifyWrite)
	set(0xFC, "NOP", AbsoluteX, CatRead)
	set(0xFD, "SBC", AbsoluteX, CatRead)
	set(0xFE, "INC", AbsoluteX, CatReadModifyWrite)
	set(0xFF, "ISC", AbsoluteX, CatReadModifyWrite)
}
