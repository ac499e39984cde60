// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/pdiddy/office2pdf/internal/convert"
	"github.com/pdiddy/office2pdf/internal/engine"
	"github.com/pdiddy/office2pdf/internal/progress"
	"github.com/pdiddy/office2pdf/pkg/types"
)

var convertCmd = &cobra.Command{
	Use:   "convert <file>...",
	Short: "Convert Office documents to PDF",
	Long: `Convert turns each file into <output>/<name>.pdf, one after another.
Accepted types are .doc, .docx, .xls, .xlsx, .ppt, and .pptx (any case).
An existing PDF with the same name is overwritten.

The engine is detected for every file: Microsoft Office first, then WPS
Office, then LibreOffice in headless mode.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runConvert,
}

func init() {
	convertCmd.Flags().Bool("no-verify", false, "skip validating the produced PDF")
	convertCmd.Flags().Bool("quiet", false, "do not print the progress indicator")
	convertCmd.Flags().Bool("leave-open", false, "leave the office suite running after conversion")

	rootCmd.AddCommand(convertCmd)
}

func runConvert(cmd *cobra.Command, args []string) error {
	cfg, logger, closeLog, err := setup("")
	if err != nil {
		return err
	}
	defer closeLog()

	if noVerify, _ := cmd.Flags().GetBool("no-verify"); noVerify {
		cfg.Verify = false
	}
	if leaveOpen, _ := cmd.Flags().GetBool("leave-open"); leaveOpen {
		cfg.Automation.LeaveOpen = true
	}
	quiet, _ := cmd.Flags().GetBool("quiet")

	prober, err := engine.NewProber(cfg.Engine)
	if err != nil {
		return err
	}
	d := convert.NewDispatcher(cfg, prober, logger)

	var opts convert.BatchOptions
	if !quiet && !color.NoColor {
		opts.Sink = func(src string) progress.Sink {
			return progressLine(filepath.Base(src))
		}
	}

	var record func(types.Request, types.Result, error)
	if journal := openHistory(cfg, logger); journal != nil {
		defer journal.Close()
		record = recordFunc(journal, logger)
	}
	opts.Done = func(req types.Request, res types.Result, convErr error) {
		if opts.Sink != nil {
			fmt.Fprint(os.Stderr, clearLine)
		}
		if record != nil {
			record(req, res, convErr)
		}
	}

	result := convert.ConvertBatch(cmd.Context(), d, args, cfg.OutputDir, os.Stdout, opts)
	if result.HasFailures() {
		return fmt.Errorf("%d of %d document(s) failed conversion", result.Failed, result.Total())
	}
	return nil
}

// clearLine returns the cursor to the start of the line and erases it.
const clearLine = "\r\033[K"

// progressLine renders progress on one terminal line of stderr.
func progressLine(name string) progress.Sink {
	label := color.New(color.FgCyan).SprintFunc()
	return progress.SinkFunc(func(p int) {
		fmt.Fprintf(os.Stderr, "\r%s %3d%%", label(name), p)
	})
}
