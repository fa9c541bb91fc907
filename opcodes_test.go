package sidreloc

import "testing"

func TestOpcodeTableCompleteness(t *testing.T) {
	for i := 0; i < 256; i++ {
		op := OpcodeTable[i]
		if op.Value != byte(i) {
			t.Fatalf("OpcodeTable[%d].Value = %#02x, want %#02x", i, op.Value, i)
		}
		if op.Length == 0 {
			t.Fatalf("OpcodeTable[%d] (%s) has zero length", i, op.Name)
		}
	}
}

func TestIllegalOpcodesDefaultToILL(t *testing.T) {
	// 0xFF is never assigned a documented instruction.
	op := Decode(0xFF)
	if op.Name != ILL {
		t.Errorf("Decode(0xFF).Name = %s, want ILL", op.Name)
	}
	if op.Length != 1 {
		t.Errorf("Decode(0xFF).Length = %d, want 1", op.Length)
	}
}

func TestJSRAbsolute(t *testing.T) {
	op := Decode(0x20)
	if op.Name != JSR || op.Mode != ModeABS || op.Length != 3 {
		t.Errorf("Decode(0x20) = %+v, want JSR abs length 3", op)
	}
}

func TestJMPIndirect(t *testing.T) {
	op := Decode(0x6C)
	if op.Name != JMP || op.Mode != ModeIND {
		t.Errorf("Decode(0x6C) = %+v, want JMP indirect", op)
	}
}

func TestBranchMnemonics(t *testing.T) {
	cases := map[byte]Mnemonic{
		0x10: BPL, 0x30: BMI, 0x50: BVC, 0x70: BVS,
		0x90: BCC, 0xB0: BCS, 0xD0: BNE, 0xF0: BEQ,
	}
	for b, want := range cases {
		op := Decode(b)
		if op.Name != want || !op.IsBranch() {
			t.Errorf("Decode(%#02x) = %+v, want branch %s", b, op, want)
		}
	}
}

func TestPatchableAddressingModes(t *testing.T) {
	patchableOps := []byte{0x4C /*JMP abs*/, 0x6C /*JMP ind*/, 0xBD /*LDA abx*/, 0xB9 /*LDA aby*/}
	for _, b := range patchableOps {
		if !Decode(b).patchable() {
			t.Errorf("Decode(%#02x) should be patchable", b)
		}
	}
	nonPatchable := []byte{0xA9 /*LDA imm*/, 0xA5 /*LDA zp*/, 0xEA /*NOP*/}
	for _, b := range nonPatchable {
		if Decode(b).patchable() {
			t.Errorf("Decode(%#02x) should not be patchable", b)
		}
	}
}
