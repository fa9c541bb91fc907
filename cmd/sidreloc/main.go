package main

import (
	"encoding/json"
	"fmt"
	"io/ioutil"
	"os"
	"strconv"
	"strings"

	"sidreloc"

	cli "github.com/urfave/cli/v2"
)

func parseU16(s string) (uint16, error) {
	v, err := strconv.ParseUint(strings.TrimSpace(s), 0, 16)
	if err != nil {
		return 0, err
	}
	return uint16(v), nil
}

func parseEntries(csv string) ([]uint16, error) {
	if csv == "" {
		return nil, nil
	}
	var out []uint16
	for _, s := range strings.Split(csv, ",") {
		v, err := parseU16(s)
		if err != nil {
			return nil, fmt.Errorf("could not parse entry address %q: %w", s, err)
		}
		out = append(out, v)
	}
	return out, nil
}

func tuneFromFlags(c *cli.Context) (sidreloc.TuneDescriptor, []byte, error) {
	file := c.Args().First()
	if file == "" {
		return sidreloc.TuneDescriptor{}, nil, cli.Exit("no input file provided", 1)
	}
	program, err := ioutil.ReadFile(file)
	if err != nil {
		return sidreloc.TuneDescriptor{}, nil, cli.Exit(err, 1)
	}

	origBase, err := parseU16(c.String("original-base"))
	if err != nil {
		return sidreloc.TuneDescriptor{}, nil, cli.Exit("could not parse --original-base", 1)
	}
	newBase, err := parseU16(c.String("new-base"))
	if err != nil {
		return sidreloc.TuneDescriptor{}, nil, cli.Exit("could not parse --new-base", 1)
	}
	origSID, err := parseU16(c.String("original-sid-base"))
	if err != nil {
		return sidreloc.TuneDescriptor{}, nil, cli.Exit("could not parse --original-sid-base", 1)
	}
	newSID, err := parseU16(c.String("new-sid-base"))
	if err != nil {
		return sidreloc.TuneDescriptor{}, nil, cli.Exit("could not parse --new-sid-base", 1)
	}

	entries, err := parseEntries(c.String("entries"))
	if err != nil {
		return sidreloc.TuneDescriptor{}, nil, cli.Exit(err, 1)
	}
	if len(entries) == 0 {
		entries = []uint16{origBase, origBase + 3, origBase + 6}
	}

	tune := sidreloc.TuneDescriptor{
		OriginalBase:    origBase,
		NewBase:         newBase,
		OriginalSIDBase: origSID,
		NewSIDBase:      newSID,
		EntryPoints:     entries,
	}
	return tune, program, nil
}

var tuneFlags = []cli.Flag{
	&cli.StringFlag{Name: "original-base", Required: true, Usage: "address the tune was originally compiled to load at"},
	&cli.StringFlag{Name: "new-base", Required: true, Usage: "address to relocate the tune to"},
	&cli.StringFlag{Name: "original-sid-base", Value: "0xD400", Usage: "original SID register window base"},
	&cli.StringFlag{Name: "new-sid-base", Value: "0xD400", Usage: "redirected SID register window base"},
	&cli.StringFlag{Name: "entries", Usage: "comma-separated jump-table slot addresses (default: base,base+3,base+6)"},
}

func relocate(c *cli.Context) error {
	tune, program, err := tuneFromFlags(c)
	if err != nil {
		return err
	}

	result, err := sidreloc.Run(tune, program)
	if err != nil {
		return cli.Exit(err, 1)
	}

	for _, d := range result.Diagnostics {
		fmt.Fprintf(os.Stderr, "warning: %s\n", d)
	}

	out := c.String("out")
	if out != "" {
		if err := ioutil.WriteFile(out, result.Output, 0644); err != nil {
			return cli.Exit(err, 1)
		}
	}

	cfg, err := json.MarshalIndent(result.Config, "", "  ")
	if err != nil {
		return cli.Exit(err, 1)
	}
	fmt.Println(string(cfg))
	return nil
}

func disasm(c *cli.Context) error {
	tune, program, err := tuneFromFlags(c)
	if err != nil {
		return err
	}

	img := sidreloc.NewImage(tune.OriginalBase, program)
	code, err := sidreloc.Disassemble(img, tune.EntryPoints)
	if err != nil {
		return cli.Exit(err, 1)
	}

	for _, addr := range code.SortedAddresses() {
		instr := code[addr]
		op := sidreloc.Decode(instr.Opcode)
		annot := ""
		if len(instr.Operand) == 2 {
			target := uint16(instr.Operand[1])<<8 | uint16(instr.Operand[0])
			if target >= tune.OriginalSIDBase && target < tune.OriginalSIDBase+0x20 {
				annot = fmt.Sprintf("  ; SID $%02X", target-tune.OriginalSIDBase)
			}
		}
		fmt.Printf("%04X  %-4s %s%s\n", addr, op.Name, operandText(instr), annot)
	}
	return nil
}

func operandText(instr sidreloc.Instruction) string {
	switch len(instr.Operand) {
	case 0:
		return ""
	case 1:
		return fmt.Sprintf("$%02X", instr.Operand[0])
	case 2:
		return fmt.Sprintf("$%02X%02X", instr.Operand[1], instr.Operand[0])
	default:
		return ""
	}
}

func tables(c *cli.Context) error {
	tune, program, err := tuneFromFlags(c)
	if err != nil {
		return err
	}

	img := sidreloc.NewImage(tune.OriginalBase, program)
	code, err := sidreloc.Disassemble(img, tune.EntryPoints)
	if err != nil {
		return cli.Exit(err, 1)
	}

	hiTables, diags := sidreloc.DetectHiByteTables(img, code, tune)
	interleaved := sidreloc.DetectInterleavedTables(img, code, tune)

	fmt.Println("Hi-byte tables:")
	for _, t := range hiTables {
		fmt.Printf("  base=%04X length=%d paired=%v lo_base=%04X\n", t.Base, t.Length, t.Paired, t.LoBase)
	}
	fmt.Println("Interleaved tables:")
	for _, t := range interleaved {
		fmt.Printf("  base=%04X pairs=%d\n", t.Base, t.LengthPairs)
	}
	for _, d := range diags {
		fmt.Fprintf(os.Stderr, "warning: %s\n", d)
	}
	return nil
}

func main() {
	app := cli.NewApp()
	app.Name = "sidreloc"
	app.Usage = "Relocate and patch SID-WIZARD 6502 music-player binaries"
	app.Action = func(c *cli.Context) error {
		cli.ShowAppHelp(c)
		return nil
	}
	app.Commands = []*cli.Command{
		{
			Name:      "relocate",
			Usage:     "Relocate one tune to a new base and SID window",
			ArgsUsage: "file",
			Action:    relocate,
			Flags: append([]cli.Flag{
				&cli.StringFlag{Name: "out", Usage: "path to write the patched binary to"},
			}, tuneFlags...),
		},
		{
			Name:      "disasm",
			Usage:     "Dump the recovered CODE set as an annotated instruction listing",
			ArgsUsage: "file",
			Action:    disasm,
			Flags:     tuneFlags,
		},
		{
			Name:      "tables",
			Usage:     "Print detected hi-byte and interleaved pointer tables",
			ArgsUsage: "file",
			Action:    tables,
			Flags:     tuneFlags,
		},
	}
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
