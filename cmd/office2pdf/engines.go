// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/pdiddy/office2pdf/internal/engine"
	"github.com/pdiddy/office2pdf/pkg/types"
)

var enginesCmd = &cobra.Command{
	Use:   "engines",
	Short: "Show which conversion engine would be used",
	Long: `Engines runs the same detection a conversion runs and prints the engine
it would use. Detection order is Microsoft Office, WPS Office, then
LibreOffice in headless mode.`,
	RunE: runEngines,
}

func init() {
	rootCmd.AddCommand(enginesCmd)
}

func runEngines(cmd *cobra.Command, args []string) error {
	cfg, _, closeLog, err := setup("")
	if err != nil {
		return err
	}
	defer closeLog()

	prober, err := engine.NewProber(cfg.Engine)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	e := prober.Probe()
	if e == types.EngineNone {
		fmt.Fprintf(out, "engine:  %s\n", color.RedString(string(e)))
		fmt.Fprintln(out, "No conversion engine found. Install Microsoft Office, WPS Office, or LibreOffice (office2pdf install on Windows).")
		return nil
	}

	fmt.Fprintf(out, "engine:  %s\n", color.GreenString(string(e)))
	if e.IsSuite() {
		fmt.Fprintf(out, "classes: %v %v %v\n",
			engine.ProgIDs(e, types.DocWord),
			engine.ProgIDs(e, types.DocSpreadsheet),
			engine.ProgIDs(e, types.DocPresentation))
	}
	if path, ok := prober.LocateSoffice(); ok {
		fmt.Fprintf(out, "soffice: %s\n", path)
	}
	return nil
}
