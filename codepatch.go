package sidreloc

// sidWindowSize is the width of a SID chip's register window (spec.md §3).
const sidWindowSize = 0x20

// CodePatchStats counts the operands the code patcher rewrote, split by
// which rule fired (spec.md §4.3's count expectation).
type CodePatchStats struct {
	Redirected int // SID-register redirections
	Relocated  int // tune-internal relocations
}

// PatchCode applies spec.md §4.3 to every ABS/ABX/ABY/IND instruction in
// code: operands inside the original SID window are redirected into the
// new window; operands elsewhere in the tune range are relocated by
// tune.Delta(); everything else is left untouched. It mutates img in
// place and must run exactly once on a fresh image (spec.md §4.3
// invariants: not idempotent).
func PatchCode(img *Image, code CodeMap, tune TuneDescriptor) CodePatchStats {
	var stats CodePatchStats
	for _, addr := range code.SortedAddresses() {
		instr := code[addr]
		op := Decode(instr.Opcode)
		if !op.patchable() {
			continue
		}
		a16 := operand16(instr)

		switch {
		case inSIDWindow(a16, tune.OriginalSIDBase):
			writeOperand(img, addr, tune.NewSIDBase+(a16-tune.OriginalSIDBase))
			stats.Redirected++
		case inTuneRange(a16, tune.OriginalBase, img.Length()):
			writeOperand(img, addr, uint16(int32(a16)+tune.Delta()))
			stats.Relocated++
		}
	}
	return stats
}

// inSIDWindow reports whether a falls in [base, base+0x20).
func inSIDWindow(a, base uint16) bool {
	return int(a) >= int(base) && int(a) < int(base)+sidWindowSize
}

// inTuneRange reports whether a falls in [base, base+length).
func inTuneRange(a, base uint16, length int) bool {
	return int(a) >= int(base) && int(a) < int(base)+length
}

// writeOperand rewrites the little-endian operand bytes of the three-byte
// instruction at instrAddr to val, without touching the opcode byte.
func writeOperand(img *Image, instrAddr uint16, val uint16) {
	lo, hi := splitWord(val)
	img.SetByte(instrAddr+1, lo)
	img.SetByte(instrAddr+2, hi)
}
