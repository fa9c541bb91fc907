package sidreloc

// HiByteTable describes a detected split hi-byte pointer table: every byte
// in [Base, Base+Length) is a hi byte. If Paired is true, LoBase names the
// sibling lo-byte table used to read each pointer's low half, and PatchData
// rewrites each hi byte whose pointer lies in the tune range; the lo-byte
// table itself is never patched. Unpaired tables are not patched.
type HiByteTable struct {
	Base   uint16
	Length int
	LoBase uint16
	Paired bool
}

// zpLoad records one `LDA abs,R` whose operand base lies in DATA, together
// with the zero-page address the fall-through path eventually stored it to.
type zpLoad struct {
	instrAddr uint16
	base      uint16
	zp        byte
}

// DetectHiByteTables implements spec.md §4.4: it scans code in address
// order for `LDA abs,Y`/`LDA abs,X` loads from DATA that store into a
// zero-page byte within three instructions on the fall-through path, splits
// those by odd (hi) / even (lo) zero-page address, and pairs hi bases with
// lo bases that stored into the immediately preceding even zero-page byte.
func DetectHiByteTables(img *Image, code CodeMap, tune TuneDescriptor) ([]HiByteTable, []Diagnostic) {
	var hiLoads, loLoads []zpLoad

	for _, a := range code.SortedAddresses() {
		instr := code[a]
		if instr.Name != "LDA" || (instr.Mode != ModeABX && instr.Mode != ModeABY) {
			continue
		}
		base := operand16(instr)
		if code.IsCode(base) || !inTuneRange(base, tune.OriginalBase, img.Length()) {
			continue // not a reference into DATA
		}

		cur := instr
		for i := 0; i < 3; i++ {
			next, ok := code.next(cur)
			if !ok {
				break
			}
			if next.Name == "STA" && next.Mode == ModeZP {
				zp := next.Operand[0]
				ld := zpLoad{instrAddr: a, base: base, zp: zp}
				if zp%2 == 1 {
					hiLoads = append(hiLoads, ld)
				} else {
					loLoads = append(loLoads, ld)
				}
				break
			}
			cur = next
		}
	}

	loByZP := make(map[byte]uint16, len(loLoads))
	for _, l := range loLoads {
		loByZP[l.zp] = l.base
	}

	codeBoundaries := code.SortedAddresses()

	var tables []HiByteTable
	var diags []Diagnostic
	seen := make(map[uint16]bool)
	for _, h := range hiLoads {
		if seen[h.base] {
			continue
		}
		seen[h.base] = true

		loBase, ok := loByZP[h.zp-1]
		if !ok {
			length := distanceToNextCodeOrEnd(img, h.base, codeBoundaries)
			tables = append(tables, HiByteTable{Base: h.base, Length: length, Paired: false})
			diags = append(diags, Diagnostic{
				Kind:    AmbiguousTable,
				Address: h.base,
				Message: "hi-byte table has no paired lo-byte table in its data region; left unpatched",
			})
			continue
		}

		length := int(h.base) - int(loBase)
		if length < 0 {
			length = -length
		}
		tables = append(tables, HiByteTable{Base: h.base, Length: length, LoBase: loBase, Paired: true})
	}

	return tables, diags
}

// distanceToNextCodeOrEnd caps an unpaired hi-byte table's length at the
// next known CODE boundary, or the end of the image if none follows
// (spec.md §9's open question: the reference behavior when a lo sibling
// cannot be located).
func distanceToNextCodeOrEnd(img *Image, base uint16, codeAddrs []uint16) int {
	boundary := img.End()
	for _, c := range codeAddrs {
		if int(c) > int(base) && int(c) < boundary {
			boundary = int(c)
		}
	}
	n := boundary - int(base)
	if n < 0 {
		n = 0
	}
	return n
}
