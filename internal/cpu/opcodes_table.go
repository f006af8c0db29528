package cpu

// opcodeInfo describes one of the 256 opcode bytes: its mnemonic, operand
// addressing mode, and whether it is a read-modify-write instruction that
// needs the dummy-write cycle spec.md §4.3 requires.
type opcodeInfo struct {
	Mnemonic   string
	Mode       AddressingMode
	RMW        bool
	Unofficial bool
}

// opcodeTable maps every one of the 256 opcode bytes to its decode info.
// Unofficial opcodes follow the RP2A03G behavior spec.md §9 selects:
// XAA/LXA magic constant $EE, and SHA/SHX/SHY/TAS using AND-with-(high+1).
var opcodeTable = [256]opcodeInfo{
	0x00: {"BRK", ModeImplied, false, false},
	0x01: {"ORA", ModeIndirectX, false, false},
	0x02: {"JAM", ModeImplied, false, true},
	0x03: {"SLO", ModeIndirectX, true, true},
	0x04: {"NOP", ModeZeroPage, false, true},
	0x05: {"ORA", ModeZeroPage, false, false},
	0x06: {"ASL", ModeZeroPage, true, false},
	0x07: {"SLO", ModeZeroPage, true, true},
	0x08: {"PHP", ModeImplied, false, false},
	0x09: {"ORA", ModeImmediate, false, false},
	0x0A: {"ASL", ModeAccumulator, false, false},
	0x0B: {"ANC", ModeImmediate, false, true},
	0x0C: {"NOP", ModeAbsolute, false, true},
	0x0D: {"ORA", ModeAbsolute, false, false},
	0x0E: {"ASL", ModeAbsolute, true, false},
	0x0F: {"SLO", ModeAbsolute, true, true},

	0x10: {"BPL", ModeRelative, false, false},
	0x11: {"ORA", ModeIndirectY, false, false},
	0x12: {"JAM", ModeImplied, false, true},
	0x13: {"SLO", ModeIndirectY, true, true},
	0x14: {"NOP", ModeZeroPageX, false, true},
	0x15: {"ORA", ModeZeroPageX, false, false},
	0x16: {"ASL", ModeZeroPageX, true, false},
	0x17: {"SLO", ModeZeroPageX, true, true},
	0x18: {"CLC", ModeImplied, false, false},
	0x19: {"ORA", ModeAbsoluteY, false, false},
	0x1A: {"NOP", ModeImplied, false, true},
	0x1B: {"SLO", ModeAbsoluteY, true, true},
	0x1C: {"NOP", ModeAbsoluteX, false, true},
	0x1D: {"ORA", ModeAbsoluteX, false, false},
	0x1E: {"ASL", ModeAbsoluteX, true, false},
	0x1F: {"SLO", ModeAbsoluteX, true, true},

	0x20: {"JSR", ModeAbsolute, false, false},
	0x21: {"AND", ModeIndirectX, false, false},
	0x22: {"JAM", ModeImplied, false, true},
	0x23: {"RLA", ModeIndirectX, true, true},
	0x24: {"BIT", ModeZeroPage, false, false},
	0x25: {"AND", ModeZeroPage, false, false},
	0x26: {"ROL", ModeZeroPage, true, false},
	0x27: {"RLA", ModeZeroPage, true, true},
	0x28: {"PLP", ModeImplied, false, false},
	0x29: {"AND", ModeImmediate, false, false},
	0x2A: {"ROL", ModeAccumulator, false, false},
	0x2B: {"ANC", ModeImmediate, false, true},
	0x2C: {"BIT", ModeAbsolute, false, false},
	0x2D: {"AND", ModeAbsolute, false, false},
	0x2E: {"ROL", ModeAbsolute, true, false},
	0x2F: {"RLA", ModeAbsolute, true, true},

	0x30: {"BMI", ModeRelative, false, false},
	0x31: {"AND", ModeIndirectY, false, false},
	0x32: {"JAM", ModeImplied, false, true},
	0x33: {"RLA", ModeIndirectY, true, true},
	0x34: {"NOP", ModeZeroPageX, false, true},
	0x35: {"AND", ModeZeroPageX, false, false},
	0x36: {"ROL", ModeZeroPageX, true, false},
	0x37: {"RLA", ModeZeroPageX, true, true},
	0x38: {"SEC", ModeImplied, false, false},
	0x39: {"AND", ModeAbsoluteY, false, false},
	0x3A: {"NOP", ModeImplied, false, true},
	0x3B: {"RLA", ModeAbsoluteY, true, true},
	0x3C: {"NOP", ModeAbsoluteX, false, true},
	0x3D: {"AND", ModeAbsoluteX, false, false},
	0x3E: {"ROL", ModeAbsoluteX, true, false},
	0x3F: {"RLA", ModeAbsoluteX, true, true},

	0x40: {"RTI", ModeImplied, false, false},
	0x41: {"EOR", ModeIndirectX, false, false},
	0x42: {"JAM", ModeImplied, false, true},
	0x43: {"SRE", ModeIndirectX, true, true},
	0x44: {"NOP", ModeZeroPage, false, true},
	0x45: {"EOR", ModeZeroPage, false, false},
	0x46: {"LSR", ModeZeroPage, true, false},
	0x47: {"SRE", ModeZeroPage, true, true},
	0x48: {"PHA", ModeImplied, false, false},
	0x49: {"EOR", ModeImmediate, false, false},
	0x4A: {"LSR", ModeAccumulator, false, false},
	0x4B: {"ALR", ModeImmediate, false, true},
	0x4C: {"JMP", ModeAbsolute, false, false},
	0x4D: {"EOR", ModeAbsolute, false, false},
	0x4E: {"LSR", ModeAbsolute, true, false},
	0x4F: {"SRE", ModeAbsolute, true, true},

	0x50: {"BVC", ModeRelative, false, false},
	0x51: {"EOR", ModeIndirectY, false, false},
	0x52: {"JAM", ModeImplied, false, true},
	0x53: {"SRE", ModeIndirectY, true, true},
	0x54: {"NOP", ModeZeroPageX, false, true},
	0x55: {"EOR", ModeZeroPageX, false, false},
	0x56: {"LSR", ModeZeroPageX, true, false},
	0x57: {"SRE", ModeZeroPageX, true, true},
	0x58: {"CLI", ModeImplied, false, false},
	0x59: {"EOR", ModeAbsoluteY, false, false},
	0x5A: {"NOP", ModeImplied, false, true},
	0x5B: {"SRE", ModeAbsoluteY, true, true},
	0x5C: {"NOP", ModeAbsoluteX, false, true},
	0x5D: {"EOR", ModeAbsoluteX, false, false},
	0x5E: {"LSR", ModeAbsoluteX, true, false},
	0x5F: {"SRE", ModeAbsoluteX, true, true},

	0x60: {"RTS", ModeImplied, false, false},
	0x61: {"ADC", ModeIndirectX, false, false},
	0x62: {"JAM", ModeImplied, false, true},
	0x63: {"RRA", ModeIndirectX, true, true},
	0x64: {"NOP", ModeZeroPage, false, true},
	0x65: {"ADC", ModeZeroPage, false, false},
	0x66: {"ROR", ModeZeroPage, true, false},
	0x67: {"RRA", ModeZeroPage, true, true},
	0x68: {"PLA", ModeImplied, false, false},
	0x69: {"ADC", ModeImmediate, false, false},
	0x6A: {"ROR", ModeAccumulator, false, false},
	0x6B: {"ARR", ModeImmediate, false, true},
	0x6C: {"JMP", ModeIndirect, false, false},
	0x6D: {"ADC", ModeAbsolute, false, false},
	0x6E: {"ROR", ModeAbsolute, true, false},
	0x6F: {"RRA", ModeAbsolute, true, true},

	0x70: {"BVS", ModeRelative, false, false},
	0x71: {"ADC", ModeIndirectY, false, false},
	0x72: {"JAM", ModeImplied, false, true},
	0x73: {"RRA", ModeIndirectY, true, true},
	0x74: {"NOP", ModeZeroPageX, false, true},
	0x75: {"ADC", ModeZeroPageX, false, false},
	0x76: {"ROR", ModeZeroPageX, true, false},
	0x77: {"RRA", ModeZeroPageX, true, true},
	0x78: {"SEI", ModeImplied, false, false},
	0x79: {"ADC", ModeAbsoluteY, false, false},
	0x7A: {"NOP", ModeImplied, false, true},
	0x7B: {"RRA", ModeAbsoluteY, true, true},
	0x7C: {"NOP", ModeAbsoluteX, false, true},
	0x7D: {"ADC", ModeAbsoluteX, false, false},
	0x7E: {"ROR", ModeAbsoluteX, true, false},
	0x7F: {"RRA", ModeAbsoluteX, true, true},

	0x80: {"NOP", ModeImmediate, false, true},
	0x81: {"STA", ModeIndirectX, false, false},
	0x82: {"NOP", ModeImmediate, false, true},
	0x83: {"SAX", ModeIndirectX, false, true},
	0x84: {"STY", ModeZeroPage, false, false},
	0x85: {"STA", ModeZeroPage, false, false},
	0x86: {"STX", ModeZeroPage, false, false},
	0x87: {"SAX", ModeZeroPage, false, true},
	0x88: {"DEY", ModeImplied, false, false},
	0x89: {"NOP", ModeImmediate, false, true},
	0x8A: {"TXA", ModeImplied, false, false},
	0x8B: {"XAA", ModeImmediate, false, true},
	0x8C: {"STY", ModeAbsolute, false, false},
	0x8D: {"STA", ModeAbsolute, false, false},
	0x8E: {"STX", ModeAbsolute, false, false},
	0x8F: {"SAX", ModeAbsolute, false, true},

	0x90: {"BCC", ModeRelative, false, false},
	0x91: {"STA", ModeIndirectY, false, false},
	0x92: {"JAM", ModeImplied, false, true},
	0x93: {"SHA", ModeIndirectY, false, true},
	0x94: {"STY", ModeZeroPageX, false, false},
	0x95: {"STA", ModeZeroPageX, false, false},
	0x96: {"STX", ModeZeroPageY, false, false},
	0x97: {"SAX", ModeZeroPageY, false, true},
	0x98: {"TYA", ModeImplied, false, false},
	0x99: {"STA", ModeAbsoluteY, false, false},
	0x9A: {"TXS", ModeImplied, false, false},
	0x9B: {"TAS", ModeAbsoluteY, false, true},
	0x9C: {"SHY", ModeAbsoluteX, false, true},
	0x9D: {"STA", ModeAbsoluteX, false, false},
	0x9E: {"SHX", ModeAbsoluteY, false, true},
	0x9F: {"SHA", ModeAbsoluteY, false, true},

	0xA0: {"LDY", ModeImmediate, false, false},
	0xA1: {"LDA", ModeIndirectX, false, false},
	0xA2: {"LDX", ModeImmediate, false, false},
	0xA3: {"LAX", ModeIndirectX, false, true},
	0xA4: {"LDY", ModeZeroPage, false, false},
	0xA5: {"LDA", ModeZeroPage, false, false},
	0xA6: {"LDX", ModeZeroPage, false, false},
	0xA7: {"LAX", ModeZeroPage, false, true},
	0xA8: {"TAY", ModeImplied, false, false},
	0xA9: {"LDA", ModeImmediate, false, false},
	0xAA: {"TAX", ModeImplied, false, false},
	0xAB: {"LXA", ModeImmediate, false, true},
	0xAC: {"LDY", ModeAbsolute, false, false},
	0xAD: {"LDA", ModeAbsolute, false, false},
	0xAE: {"LDX", ModeAbsolute, false, false},
	0xAF: {"LAX", ModeAbsolute, false, true},

	0xB0: {"BCS", ModeRelative, false, false},
	0xB1: {"LDA", ModeIndirectY, false, false},
	0xB2: {"JAM", ModeImplied, false, true},
	0xB3: {"LAX", ModeIndirectY, false, true},
	0xB4: {"LDY", ModeZeroPageX, false, false},
	0xB5: {"LDA", ModeZeroPageX, false, false},
	0xB6: {"LDX", ModeZeroPageY, false, false},
	0xB7: {"LAX", ModeZeroPageY, false, true},
	0xB8: {"CLV", ModeImplied, false, false},
	0xB9: {"LDA", ModeAbsoluteY, false, false},
	0xBA: {"TSX", ModeImplied, false, false},
	0xBB: {"LAS", ModeAbsoluteY, false, true},
	0xBC: {"LDY", ModeAbsoluteX, false, false},
	0xBD: {"LDA", ModeAbsoluteX, false, false},
	0xBE: {"LDX", ModeAbsoluteY, false, false},
	0xBF: {"LAX", ModeAbsoluteY, false, true},

	0xC0: {"CPY", ModeImmediate, false, false},
	0xC1: {"CMP", ModeIndirectX, false, false},
	0xC2: {"NOP", ModeImmediate, false, true},
	0xC3: {"DCP", ModeIndirectX, true, true},
	0xC4: {"CPY", ModeZeroPage, false, false},
	0xC5: {"CMP", ModeZeroPage, false, false},
	0xC6: {"DEC", ModeZeroPage, true, false},
	0xC7: {"DCP", ModeZeroPage, true, true},
	0xC8: {"INY", ModeImplied, false, false},
	0xC9: {"CMP", ModeImmediate, false, false},
	0xCA: {"DEX", ModeImplied, false, false},
	0xCB: {"AXS", ModeImmediate, false, true},
	0xCC: {"CPY", ModeAbsolute, false, false},
	0xCD: {"CMP", ModeAbsolute, false, false},
	0xCE: {"DEC", ModeAbsolute, true, false},
	0xCF: {"DCP", ModeAbsolute, true, true},

	0xD0: {"BNE", ModeRelative, false, false},
	0xD1: {"CMP", ModeIndirectY, false, false},
	0xD2: {"JAM", ModeImplied, false, true},
	0xD3: {"DCP", ModeIndirectY, true, true},
	0xD4: {"NOP", ModeZeroPageX, false, true},
	0xD5: {"CMP", ModeZeroPageX, false, false},
	0xD6: {"DEC", ModeZeroPageX, true, false},
	0xD7: {"DCP", ModeZeroPageX, true, true},
	0xD8: {"CLD", ModeImplied, false, false},
	0xD9: {"CMP", ModeAbsoluteY, false, false},
	0xDA: {"NOP", ModeImplied, false, true},
	0xDB: {"DCP", ModeAbsoluteY, true, true},
	0xDC: {"NOP", ModeAbsoluteX, false, true},
	0xDD: {"CMP", ModeAbsoluteX, false, false},
	0xDE: {"DEC", ModeAbsoluteX, true, false},
	0xDF: {"DCP", ModeAbsoluteX, true, true},

	0xE0: {"CPX", ModeImmediate, false, false},
	0xE1: {"SBC", ModeIndirectX, false, false},
	0xE2: {"NOP", ModeImmediate, false, true},
	0xE3: {"ISC", ModeIndirectX, true, true},
	0xE4: {"CPX", ModeZeroPage, false, false},
	0xE5: {"SBC", ModeZeroPage, false, false},
	0xE6: {"INC", ModeZeroPage, true, false},
	0xE7: {"ISC", ModeZeroPage, true, true},
	0xE8: {"INX", ModeImplied, false, false},
	0xE9: {"SBC", ModeImmediate, false, false},
	0xEA: {"NOP", ModeImplied, false, false},
	0xEB: {"SBC", ModeImmediate, false, true},
	0xEC: {"CPX", ModeAbsolute, false, false},
	0xED: {"SBC", ModeAbsolute, false, false},
	0xEE: {"INC", ModeAbsolute, true, false},
	0xEF: {"ISC", ModeAbsolute, true, true},

	0xF0: {"BEQ", ModeRelative, false, false},
	0xF1: {"SBC", ModeIndirectY, false, false},
	0xF2: {"JAM", ModeImplied, false, true},
	0xF3: {"ISC", ModeIndirectY, true, true},
	0xF4: {"NOP", ModeZeroPageX, false, true},
	0xF5: {"SBC", ModeZeroPageX, false, false},
	0xF6: {"INC", ModeZeroPageX, true, false},
	0xF7: {"ISC", ModeZeroPageX, true, true},
	0xF8: {"SED", ModeImplied, false, false},
	0xF9: {"SBC", ModeAbsoluteY, false, false},
	0xFA: {"NOP", ModeImplied, false, true},
	0xFB: {"ISC", ModeAbsoluteY, true, true},
	0xFC: {"NOP", ModeAbsoluteX, false, true},
	0xFD: {"SBC", ModeAbsoluteX, false, false},
	0xFE: {"INC", ModeAbsoluteX, true, false},
	0xFF: {"ISC", ModeAbsoluteX, true, true},
}
