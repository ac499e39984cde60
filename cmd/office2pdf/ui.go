// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/pdiddy/office2pdf/internal/convert"
	"github.com/pdiddy/office2pdf/internal/engine"
	"github.com/pdiddy/office2pdf/internal/install"
	"github.com/pdiddy/office2pdf/internal/ui"
)

// uiLogFile receives logs in UI mode when log.file is unset, so that log
// lines do not corrupt the screen.
const uiLogFile = "office2pdf.log"

var uiCmd = &cobra.Command{
	Use:   "ui [file]",
	Short: "Open the interactive converter",
	Long: `UI opens a terminal shell with source and output pickers, a progress bar,
and an action that opens the produced PDF. When no engine is found it offers
to download and install LibreOffice.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runUI,
}

func init() {
	rootCmd.AddCommand(uiCmd)
}

func runUI(cmd *cobra.Command, args []string) error {
	cfg, logger, closeLog, err := setup(uiLogFile)
	if err != nil {
		return err
	}
	defer closeLog()

	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	prober, err := engine.NewProber(cfg.Engine)
	if err != nil {
		return err
	}

	deps := ui.Deps{
		Converter: convert.NewDispatcher(cfg, prober, logger),
		Prober:    prober,
		Installer: install.New(cfg.Installer, logger),
		Log:       logger,
	}
	if journal := openHistory(cfg, logger); journal != nil {
		defer journal.Close()
		deps.Record = recordFunc(journal, logger)
	}

	var source string
	if len(args) == 1 {
		source = args[0]
	}

	p := tea.NewProgram(ui.NewModel(deps, source, cfg.OutputDir), tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return fmt.Errorf("running UI: %w", err)
	}
	if m, ok := final.(ui.Model); ok && m.Failed > 0 {
		return fmt.Errorf("%d conversion(s) failed", m.Failed)
	}
	return nil
}
