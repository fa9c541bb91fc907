package sidreloc

// TuneDescriptor is the immutable input that drives one engine run
// (spec.md §3).
type TuneDescriptor struct {
	OriginalBase    uint16
	NewBase         uint16
	OriginalSIDBase uint16
	NewSIDBase      uint16
	// EntryPoints is the jump-table slot addresses (conventionally
	// OriginalBase, OriginalBase+3, OriginalBase+6), each the address of a
	// JMP abs instruction whose operand is a true entry point.
	EntryPoints []uint16
}

// Delta is the signed relocation offset Δ = new_base - original_base,
// applied as one 16-bit addition per spec.md invariant I1.
func (t TuneDescriptor) Delta() int32 {
	return int32(t.NewBase) - int32(t.OriginalBase)
}

// ConfigRecord is the harness-facing configuration record spec.md §6
// describes: the parameters and translated entry addresses a caller needs
// to load and drive the patched binary.
type ConfigRecord struct {
	NewBase    uint16  `json:"new_base"`
	NewSIDBase uint16  `json:"new_sid_base"`
	InitEntry  uint16  `json:"init_entry"`
	PlayEntry  uint16  `json:"play_entry"`
	RasterLine *uint16 `json:"raster_line,omitempty"`
}

// palLinesPerFrame is the number of raster lines in a PAL video frame,
// used by RasterSchedule to space chained tunes evenly across one frame.
const palLinesPerFrame = 312

// dataTableWarningThreshold is the image size above which zero detected
// tables is considered surprising enough to warn about (spec.md §4.7).
const dataTableWarningThreshold = 64

// RasterSchedule returns the raster trigger line for each of n tunes
// chained into a single PAL frame, per spec.md §6:
// line[k] = floor(312*k/n) for k in [0, n).
func RasterSchedule(n int) []uint16 {
	if n <= 0 {
		return nil
	}
	lines := make([]uint16, n)
	for k := 0; k < n; k++ {
		lines[k] = uint16(palLinesPerFrame * k / n)
	}
	return lines
}

// RunResult is everything a run of the engine produces: the patched
// binary, the harness-facing configuration record, and any non-fatal
// diagnostics accumulated along the way.
type RunResult struct {
	Output      []byte
	Config      ConfigRecord
	Diagnostics []Diagnostic
}

// Run executes the full pipeline of spec.md §2 over program, which must be
// the raw bytes of a binary that was compiled to load at
// tune.OriginalBase. It returns a fatal *EngineError if the input cannot
// be processed; otherwise it returns the patched bytes, a configuration
// record, and any diagnostics a caller should log.
func Run(tune TuneDescriptor, program []byte) (*RunResult, error) {
	img := NewImage(tune.OriginalBase, program)

	code, err := Disassemble(img, tune.EntryPoints)
	if err != nil {
		return nil, err
	}

	entries, err := trueEntries(img, code, tune.EntryPoints)
	if err != nil {
		return nil, err
	}

	// Detection completes in full before any byte of img is mutated
	// (spec.md §7: "the engine never partially mutates its image after
	// emitting a fatal error: mutation only starts once both detectors
	// have completed").
	hiTables, diags := DetectHiByteTables(img, code, tune)
	interleaved := DetectInterleavedTables(img, code, tune)

	if len(hiTables) == 0 && len(interleaved) == 0 && img.Length() > dataTableWarningThreshold {
		diags = append(diags, Diagnostic{
			Kind:    NoTablesDetected,
			Message: "no pointer tables detected; relocated output is unlikely to sound correct",
		})
	}

	PatchCode(img, code, tune)
	PatchData(img, hiTables, interleaved, tune)

	cfg := ConfigRecord{
		NewBase:    tune.NewBase,
		NewSIDBase: tune.NewSIDBase,
	}
	if len(entries) > 0 {
		cfg.InitEntry = uint16(int32(entries[0]) + tune.Delta())
	}
	if len(entries) > 1 {
		cfg.PlayEntry = uint16(int32(entries[1]) + tune.Delta())
	}

	return &RunResult{Output: img.Bytes(), Config: cfg, Diagnostics: diags}, nil
}

// trueEntries reads the resolved JMP targets for each jump-table slot in
// entryPoints, as decoded into code by Disassemble.
func trueEntries(img *Image, code CodeMap, entryPoints []uint16) ([]uint16, error) {
	out := make([]uint16, 0, len(entryPoints))
	for _, e := range entryPoints {
		instr, ok := code[e]
		if !ok {
			return nil, &EngineError{Kind: MalformedEntry, Address: e, Message: "entry point was not decoded"}
		}
		out = append(out, operand16(instr))
	}
	return out, nil
}
