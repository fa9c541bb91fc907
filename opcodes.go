package sidreloc

// AddressingMode enumerates the 6502 addressing modes relevant to
// relocation. Only ABS, ABX, ABY and IND carry a 16-bit operand that the
// patchers ever rewrite; the others are decoded only to compute
// instruction length and walk-cursor advancement.
type AddressingMode int

// Addressing modes, mirroring the teacher's enumeration but named after
// the tags spec.md §3 uses.
const (
	ModeIMP AddressingMode = iota // implied, no operand
	ModeACC                       // accumulator, e.g. ASL A
	ModeIMM                       // immediate, e.g. LDA #&FF
	ModeZP                        // zero page, e.g. LDA &12
	ModeZPX                       // zero page,X
	ModeZPY                       // zero page,Y
	ModeABS                       // absolute, e.g. LDA &1234
	ModeABX                       // absolute,X
	ModeABY                       // absolute,Y
	ModeIND                       // indirect, JMP (&1234) only
	ModeINDX                      // (zp,X)
	ModeINDY                      // (zp),Y
	ModeREL                       // relative branch offset
)

// Mnemonic is the decoded instruction tag. Most are opaque to the engine
// and are only used to print disassembly; the control-flow-relevant ones
// are named as constants below, and the table detectors also match on
// "LDA" and "STA".
type Mnemonic string

// Mnemonics interpreted by the disassembler's control-flow recovery.
const (
	JMP Mnemonic = "JMP"
	JSR Mnemonic = "JSR"
	RTS Mnemonic = "RTS"
	RTI Mnemonic = "RTI"
	BRK Mnemonic = "BRK"
	BEQ Mnemonic = "BEQ"
	BNE Mnemonic = "BNE"
	BCC Mnemonic = "BCC"
	BCS Mnemonic = "BCS"
	BPL Mnemonic = "BPL"
	BMI Mnemonic = "BMI"
	BVC Mnemonic = "BVC"
	BVS Mnemonic = "BVS"

	// ILL marks an opcode byte with no defined instruction. Decoding one
	// terminates the current disassembly walk without aborting the run.
	ILL Mnemonic = "ILL"
)

// Opcode describes one of the 256 possible opcode byte values.
type Opcode struct {
	Value  byte
	Name   Mnemonic
	Length uint8 // 1, 2 or 3; always 1 for ILL
	Mode   AddressingMode
}

// IsBranch reports whether the opcode is one of the eight conditional
// branch instructions.
func (o Opcode) IsBranch() bool {
	switch o.Name {
	case BEQ, BNE, BCC, BCS, BPL, BMI, BVC, BVS:
		return true
	}
	return false
}

// IsTerminator reports whether control flow does not fall through past
// this instruction (RTS, RTI, BRK, or an unconditional JMP).
func (o Opcode) IsTerminator() bool {
	switch o.Name {
	case RTS, RTI, BRK:
		return true
	case JMP:
		return true
	}
	return false
}

// patchable reports whether the opcode's operand is one the patchers may
// rewrite: the four addressing modes carrying a 16-bit absolute operand.
func (o Opcode) patchable() bool {
	switch o.Mode {
	case ModeABS, ModeABX, ModeABY, ModeIND:
		return true
	}
	return false
}

// documented lists the subset of the table below whose encoding is given
// explicitly. Every other byte value defaults to ILL, length 1.
var documented = []Opcode{
	{0x69, "ADC", 2, ModeIMM}, {0x65, "ADC", 2, ModeZP}, {0x75, "ADC", 2, ModeZPX},
	{0x6D, "ADC", 3, ModeABS}, {0x7D, "ADC", 3, ModeABX}, {0x79, "ADC", 3, ModeABY},
	{0x61, "ADC", 2, ModeINDX}, {0x71, "ADC", 2, ModeINDY},

	{0x29, "AND", 2, ModeIMM}, {0x25, "AND", 2, ModeZP}, {0x35, "AND", 2, ModeZPX},
	{0x2D, "AND", 3, ModeABS}, {0x3D, "AND", 3, ModeABX}, {0x39, "AND", 3, ModeABY},
	{0x21, "AND", 2, ModeINDX}, {0x31, "AND", 2, ModeINDY},

	{0x0A, "ASL", 1, ModeACC}, {0x06, "ASL", 2, ModeZP}, {0x16, "ASL", 2, ModeZPX},
	{0x0E, "ASL", 3, ModeABS}, {0x1E, "ASL", 3, ModeABX},

	{0x24, "BIT", 2, ModeZP}, {0x2C, "BIT", 3, ModeABS},

	{0x10, BPL, 2, ModeREL}, {0x30, BMI, 2, ModeREL},
	{0x50, BVC, 2, ModeREL}, {0x70, BVS, 2, ModeREL},
	{0x90, BCC, 2, ModeREL}, {0xB0, BCS, 2, ModeREL},
	{0xD0, BNE, 2, ModeREL}, {0xF0, BEQ, 2, ModeREL},

	{0x00, BRK, 1, ModeIMP},

	{0xC9, "CMP", 2, ModeIMM}, {0xC5, "CMP", 2, ModeZP}, {0xD5, "CMP", 2, ModeZPX},
	{0xCD, "CMP", 3, ModeABS}, {0xDD, "CMP", 3, ModeABX}, {0xD9, "CMP", 3, ModeABY},
	{0xC1, "CMP", 2, ModeINDX}, {0xD1, "CMP", 2, ModeINDY},

	{0xE0, "CPX", 2, ModeIMM}, {0xE4, "CPX", 2, ModeZP}, {0xEC, "CPX", 3, ModeABS},
	{0xC0, "CPY", 2, ModeIMM}, {0xC4, "CPY", 2, ModeZP}, {0xCC, "CPY", 3, ModeABS},

	{0xC6, "DEC", 2, ModeZP}, {0xD6, "DEC", 2, ModeZPX}, {0xCE, "DEC", 3, ModeABS}, {0xDE, "DEC", 3, ModeABX},

	{0x49, "EOR", 2, ModeIMM}, {0x45, "EOR", 2, ModeZP}, {0x55, "EOR", 2, ModeZPX},
	{0x4D, "EOR", 3, ModeABS}, {0x5D, "EOR", 3, ModeABX}, {0x59, "EOR", 3, ModeABY},
	{0x41, "EOR", 2, ModeINDX}, {0x51, "EOR", 2, ModeINDY},

	{0x18, "CLC", 1, ModeIMP}, {0x38, "SEC", 1, ModeIMP}, {0x58, "CLI", 1, ModeIMP},
	{0x78, "SEI", 1, ModeIMP}, {0xB8, "CLV", 1, ModeIMP}, {0xD8, "CLD", 1, ModeIMP}, {0xF8, "SED", 1, ModeIMP},

	{0xE6, "INC", 2, ModeZP}, {0xF6, "INC", 2, ModeZPX}, {0xEE, "INC", 3, ModeABS}, {0xFE, "INC", 3, ModeABX},

	{0x4C, JMP, 3, ModeABS},
	{0x6C, JMP, 3, ModeIND},
	{0x20, JSR, 3, ModeABS},

	{0xA9, "LDA", 2, ModeIMM}, {0xA5, "LDA", 2, ModeZP}, {0xB5, "LDA", 2, ModeZPX},
	{0xAD, "LDA", 3, ModeABS}, {0xBD, "LDA", 3, ModeABX}, {0xB9, "LDA", 3, ModeABY},
	{0xA1, "LDA", 2, ModeINDX}, {0xB1, "LDA", 2, ModeINDY},

	{0xA2, "LDX", 2, ModeIMM}, {0xA6, "LDX", 2, ModeZP}, {0xB6, "LDX", 2, ModeZPY},
	{0xAE, "LDX", 3, ModeABS}, {0xBE, "LDX", 3, ModeABY},

	{0xA0, "LDY", 2, ModeIMM}, {0xA4, "LDY", 2, ModeZP}, {0xB4, "LDY", 2, ModeZPX},
	{0xAC, "LDY", 3, ModeABS}, {0xBC, "LDY", 3, ModeABX},

	{0x4A, "LSR", 1, ModeACC}, {0x46, "LSR", 2, ModeZP}, {0x56, "LSR", 2, ModeZPX},
	{0x4E, "LSR", 3, ModeABS}, {0x5E, "LSR", 3, ModeABX},

	{0xEA, "NOP", 1, ModeIMP},

	{0x09, "ORA", 2, ModeIMM}, {0x05, "ORA", 2, ModeZP}, {0x15, "ORA", 2, ModeZPX},
	{0x0D, "ORA", 3, ModeABS}, {0x1D, "ORA", 3, ModeABX}, {0x19, "ORA", 3, ModeABY},
	{0x01, "ORA", 2, ModeINDX}, {0x11, "ORA", 2, ModeINDY},

	{0xAA, "TAX", 1, ModeIMP}, {0x8A, "TXA", 1, ModeIMP}, {0xCA, "DEX", 1, ModeIMP},
	{0xE8, "INX", 1, ModeIMP}, {0xA8, "TAY", 1, ModeIMP}, {0x98, "TYA", 1, ModeIMP},
	{0x88, "DEY", 1, ModeIMP}, {0xC8, "INY", 1, ModeIMP},

	{0x2A, "ROL", 1, ModeACC}, {0x26, "ROL", 2, ModeZP}, {0x36, "ROL", 2, ModeZPX},
	{0x2E, "ROL", 3, ModeABS}, {0x3E, "ROL", 3, ModeABX},

	{0x6A, "ROR", 1, ModeACC}, {0x66, "ROR", 2, ModeZP}, {0x76, "ROR", 2, ModeZPX},
	{0x6E, "ROR", 3, ModeABS}, {0x7E, "ROR", 3, ModeABX},

	{0x40, RTI, 1, ModeIMP},
	{0x60, RTS, 1, ModeIMP},

	{0xE9, "SBC", 2, ModeIMM}, {0xE5, "SBC", 2, ModeZP}, {0xF5, "SBC", 2, ModeZPX},
	{0xED, "SBC", 3, ModeABS}, {0xFD, "SBC", 3, ModeABX}, {0xF9, "SBC", 3, ModeABY},
	{0xE1, "SBC", 2, ModeINDX}, {0xF1, "SBC", 2, ModeINDY},

	{0x85, "STA", 2, ModeZP}, {0x95, "STA", 2, ModeZPX}, {0x8D, "STA", 3, ModeABS},
	{0x9D, "STA", 3, ModeABX}, {0x99, "STA", 3, ModeABY}, {0x81, "STA", 2, ModeINDX}, {0x91, "STA", 2, ModeINDY},

	{0x9A, "TXS", 1, ModeIMP}, {0xBA, "TSX", 1, ModeIMP},
	{0x48, "PHA", 1, ModeIMP}, {0x68, "PLA", 1, ModeIMP},
	{0x08, "PHP", 1, ModeIMP}, {0x28, "PLP", 1, ModeIMP},

	{0x86, "STX", 2, ModeZP}, {0x96, "STX", 2, ModeZPY}, {0x8E, "STX", 3, ModeABS},
	{0x84, "STY", 2, ModeZP}, {0x94, "STY", 2, ModeZPX}, {0x8C, "STY", 3, ModeABS},

	// Undocumented opcodes that SID-WIZARD-compiled binaries are known to
	// use as packed table data; the decoder must still give them a real
	// length so a walk across them doesn't misalign.
	{0x07, "SLO", 2, ModeZP}, {0x17, "SLO", 2, ModeZPX}, {0x0F, "SLO", 3, ModeABS},
	{0x1F, "SLO", 3, ModeABX}, {0x1B, "SLO", 3, ModeABY}, {0x03, "SLO", 2, ModeINDX}, {0x13, "SLO", 2, ModeINDY},
	{0x47, "SRE", 2, ModeZP}, {0x57, "SRE", 2, ModeZPX}, {0x4F, "SRE", 3, ModeABS},
	{0x5F, "SRE", 3, ModeABX}, {0x5B, "SRE", 3, ModeABY}, {0x43, "SRE", 2, ModeINDX}, {0x53, "SRE", 2, ModeINDY},
}

// OpcodeTable maps every byte value 0x00-0xFF to its decoded Opcode.
// Values with no entry in documented default to the ILL sentinel.
var OpcodeTable [256]Opcode

func init() {
	for i := range OpcodeTable {
		OpcodeTable[i] = Opcode{Value: byte(i), Name: ILL, Length: 1, Mode: ModeIMP}
	}
	for _, op := range documented {
		OpcodeTable[op.Value] = op
	}
}

// Decode looks up the Opcode for opcode byte b.
func Decode(b byte) Opcode {
	return OpcodeTable[b]
}
