package main

import (
	"encoding/json"
	"fmt"
	"io/ioutil"
	"os"

	"sidreloc"

	"github.com/spf13/cobra"
)

// chainTune is one entry of the --tunes JSON array: a single binary plus
// the relocation parameters it should be patched with.
type chainTune struct {
	In              string `json:"in"`
	Out             string `json:"out"`
	OriginalBase    uint16 `json:"original_base"`
	NewBase         uint16 `json:"new_base"`
	OriginalSIDBase uint16 `json:"original_sid_base"`
	NewSIDBase      uint16 `json:"new_sid_base"`
}

func runChain(tunesPath, outPath string) error {
	raw, err := ioutil.ReadFile(tunesPath)
	if err != nil {
		return fmt.Errorf("could not read %s: %w", tunesPath, err)
	}

	var tunes []chainTune
	if err := json.Unmarshal(raw, &tunes); err != nil {
		return fmt.Errorf("could not parse %s: %w", tunesPath, err)
	}
	if len(tunes) == 0 {
		return fmt.Errorf("no tunes listed in %s", tunesPath)
	}

	schedule := sidreloc.RasterSchedule(len(tunes))
	configs := make([]sidreloc.ConfigRecord, 0, len(tunes))

	for i, ct := range tunes {
		program, err := ioutil.ReadFile(ct.In)
		if err != nil {
			return fmt.Errorf("could not read %s: %w", ct.In, err)
		}

		tune := sidreloc.TuneDescriptor{
			OriginalBase:    ct.OriginalBase,
			NewBase:         ct.NewBase,
			OriginalSIDBase: ct.OriginalSIDBase,
			NewSIDBase:      ct.NewSIDBase,
			EntryPoints:     []uint16{ct.OriginalBase, ct.OriginalBase + 3, ct.OriginalBase + 6},
		}

		result, err := sidreloc.Run(tune, program)
		if err != nil {
			return fmt.Errorf("relocating %s: %w", ct.In, err)
		}
		for _, d := range result.Diagnostics {
			fmt.Fprintf(os.Stderr, "warning: %s: %s\n", ct.In, d)
		}

		if ct.Out != "" {
			if err := ioutil.WriteFile(ct.Out, result.Output, 0644); err != nil {
				return fmt.Errorf("could not write %s: %w", ct.Out, err)
			}
		}

		line := schedule[i]
		result.Config.RasterLine = &line
		configs = append(configs, result.Config)
	}

	encoded, err := json.MarshalIndent(configs, "", "  ")
	if err != nil {
		return err
	}

	if outPath == "" {
		fmt.Println(string(encoded))
		return nil
	}
	return ioutil.WriteFile(outPath, encoded, 0644)
}

func main() {
	var tunesPath string
	var outPath string

	rootCmd := &cobra.Command{
		Use:   "sidreloc-chain",
		Short: "Relocate and raster-schedule several SID-WIZARD tunes for one chained frame",
		RunE: func(cmd *cobra.Command, args []string) error {
			if tunesPath == "" {
				return fmt.Errorf("--tunes is required")
			}
			return runChain(tunesPath, outPath)
		},
	}
	rootCmd.Flags().StringVar(&tunesPath, "tunes", "", "path to a JSON array of {in, out, original_base, new_base, original_sid_base, new_sid_base}")
	rootCmd.Flags().StringVar(&outPath, "output", "", "path to write the combined configuration record JSON to (default: stdout)")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
