package sidreloc

import "testing"

func absInstr(addr uint16, opcode byte, operandLo, operandHi byte) Instruction {
	op := Decode(opcode)
	return Instruction{
		Address: addr,
		Opcode:  opcode,
		Name:    op.Name,
		Length:  op.Length,
		Mode:    op.Mode,
		Operand: []byte{operandLo, operandHi},
	}
}

// TestCodePatchRelocation is spec.md §8 scenario 1: plain relocation of a JSR.
func TestCodePatchRelocation(t *testing.T) {
	data := make([]byte, 0x100)
	data[0] = 0x20 // JSR abs
	data[1] = 0x50
	data[2] = 0x10
	img := NewImage(0x1000, data)

	code := CodeMap{0x1000: absInstr(0x1000, 0x20, 0x50, 0x10)}
	tune := TuneDescriptor{OriginalBase: 0x1000, NewBase: 0x3000, OriginalSIDBase: 0xD400, NewSIDBase: 0xD400}

	PatchCode(img, code, tune)

	if lo, hi := img.Byte(0x1001), img.Byte(0x1002); lo != 0x50 || hi != 0x30 {
		t.Errorf("operand = %02x%02x, want 3050", hi, lo)
	}
}

// TestCodePatchSIDRedirection is spec.md §8 scenario 2: SID redirection
// with no relocation.
func TestCodePatchSIDRedirection(t *testing.T) {
	data := make([]byte, 0x100)
	data[0] = 0x8D // STA abs
	data[1] = 0x00
	data[2] = 0xD4
	img := NewImage(0x1000, data)

	code := CodeMap{0x1000: absInstr(0x1000, 0x8D, 0x00, 0xD4)}
	tune := TuneDescriptor{OriginalBase: 0x1000, NewBase: 0x1000, OriginalSIDBase: 0xD400, NewSIDBase: 0xD420}

	PatchCode(img, code, tune)

	if lo, hi := img.Byte(0x1001), img.Byte(0x1002); lo != 0x20 || hi != 0xD4 {
		t.Errorf("operand = %02x%02x, want D420", hi, lo)
	}
}

// TestCodePatchOutOfRangePreservation is property P5: an operand outside
// both the SID window and the tune range is left byte-identical.
func TestCodePatchOutOfRangePreservation(t *testing.T) {
	data := make([]byte, 0x100)
	data[0] = 0x4C // JMP abs
	data[1] = 0xB9
	data[2] = 0xFF // targets $FFB9, an OS call / ROM address
	img := NewImage(0x1000, data)

	code := CodeMap{0x1000: absInstr(0x1000, 0x4C, 0xB9, 0xFF)}
	tune := TuneDescriptor{OriginalBase: 0x1000, NewBase: 0x3000, OriginalSIDBase: 0xD400, NewSIDBase: 0xD420}

	PatchCode(img, code, tune)

	if lo, hi := img.Byte(0x1001), img.Byte(0x1002); lo != 0xB9 || hi != 0xFF {
		t.Errorf("operand changed to %02x%02x, want unchanged FFB9", hi, lo)
	}
}

// TestCodePatchRedirectionTakesPrecedence checks that an operand inside
// both the tune range and the SID window (a pathological/adversarial input)
// is redirected, never relocated, per spec.md §3: "Redirection takes
// strict precedence over relocation."
func TestCodePatchRedirectionTakesPrecedence(t *testing.T) {
	data := make([]byte, 0x40)
	data[0] = 0xAD // LDA abs
	data[1] = 0x10
	data[2] = 0xD4 // $D410, inside a tune range that happens to start at $D400
	img := NewImage(0xD400, data)

	code := CodeMap{0xD400: absInstr(0xD400, 0xAD, 0x10, 0xD4)}
	tune := TuneDescriptor{OriginalBase: 0xD400, NewBase: 0xE000, OriginalSIDBase: 0xD400, NewSIDBase: 0xD440}

	stats := PatchCode(img, code, tune)
	if stats.Redirected != 1 || stats.Relocated != 0 {
		t.Fatalf("stats = %+v, want one redirection and zero relocations", stats)
	}
	if got := img.Word(0xD401); got != 0xD450 {
		t.Errorf("operand = %#04x, want 0xD450", got)
	}
}

func TestCodePatchLeavesNonPatchableOperandsAlone(t *testing.T) {
	data := make([]byte, 0x10)
	data[0] = 0xA9 // LDA #imm
	data[1] = 0x42
	img := NewImage(0x1000, data)

	op := Decode(0xA9)
	code := CodeMap{0x1000: {Address: 0x1000, Opcode: 0xA9, Name: op.Name, Length: op.Length, Mode: op.Mode, Operand: []byte{0x42}}}
	tune := TuneDescriptor{OriginalBase: 0x1000, NewBase: 0x2000, OriginalSIDBase: 0xD400, NewSIDBase: 0xD420}

	PatchCode(img, code, tune)
	if got := img.Byte(0x1001); got != 0x42 {
		t.Errorf("immediate operand mutated to %#02x, want unchanged 0x42", got)
	}
}
