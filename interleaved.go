package sidreloc

// InterleavedTable describes a detected interleaved lo/hi pointer table: a
// run of LengthPairs consecutive (lo, hi) byte pairs starting at Base. The
// hi byte of pair i sits at Base + 2i + 1.
type InterleavedTable struct {
	Base        uint16
	LengthPairs int
}

// indexReg is the index register used by an indexed load.
type indexReg int

const (
	regX indexReg = iota
	regY
)

// DetectInterleavedTables implements spec.md §4.5: it finds pairs of
// `LDA abs,R` loads from DATA that share an index register and whose base
// addresses differ by exactly 1, and infers each table's length by walking
// forward in 2-byte steps while the resulting pointer stays in the tune
// range.
func DetectInterleavedTables(img *Image, code CodeMap, tune TuneDescriptor) []InterleavedTable {
	type ref struct {
		base uint16
		reg  indexReg
	}
	var refs []ref

	for _, a := range code.SortedAddresses() {
		instr := code[a]
		if instr.Name != "LDA" {
			continue
		}
		var reg indexReg
		switch instr.Mode {
		case ModeABX:
			reg = regX
		case ModeABY:
			reg = regY
		default:
			continue
		}
		base := operand16(instr)
		if code.IsCode(base) || !inTuneRange(base, tune.OriginalBase, img.Length()) {
			continue
		}
		refs = append(refs, ref{base, reg})
	}

	seen := make(map[uint16]bool)
	var tables []InterleavedTable
	for i := 0; i < len(refs); i++ {
		for j := i + 1; j < len(refs); j++ {
			if refs[i].reg != refs[j].reg {
				continue
			}
			var lower uint16
			switch int(refs[i].base) - int(refs[j].base) {
			case 1:
				lower = refs[j].base
			case -1:
				lower = refs[i].base
			default:
				continue
			}
			if seen[lower] {
				continue
			}
			seen[lower] = true
			tables = append(tables, InterleavedTable{
				Base:        lower,
				LengthPairs: inferInterleavedLength(img, lower, tune),
			})
		}
	}

	for i := 1; i < len(tables); i++ {
		for j := i; j > 0 && tables[j-1].Base > tables[j].Base; j-- {
			tables[j-1], tables[j] = tables[j], tables[j-1]
		}
	}
	return tables
}

// inferInterleavedLength walks forward from base in steps of 2 bytes while
// the (lo, hi) pair at each step forms a pointer inside the tune range.
func inferInterleavedLength(img *Image, base uint16, tune TuneDescriptor) int {
	n := 0
	for {
		a := base + uint16(2*n)
		if !img.ContainsRange(a, 2) {
			break
		}
		if !inTuneRange(img.Word(a), tune.OriginalBase, img.Length()) {
			break
		}
		n++
	}
	return n
}
