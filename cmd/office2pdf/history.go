// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/pdiddy/office2pdf/internal/history"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List or export past conversions",
	Long: `History reads the conversion journal, a SQLite database recording every
conversion with its engine, outcome, and timing.`,
}

// --- list subcommand ---

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent conversions, newest first",
	RunE:  runHistoryList,
}

func runHistoryList(cmd *cobra.Command, args []string) error {
	store, closeAll, err := historyStore()
	if err != nil {
		return err
	}
	defer closeAll()

	opts := historyOptions(cmd)
	entries, err := store.List(context.Background(), opts)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Println("No conversions recorded.")
		return nil
	}
	for _, e := range entries {
		printEntry(os.Stdout, e)
	}
	return nil
}

func printEntry(w io.Writer, e history.Entry) {
	status := color.GreenString("%-9s", e.Status)
	if e.Status == history.StatusFailed {
		status = color.RedString("%-9s", e.Status)
	}
	fmt.Fprintf(w, "%s  %s  %-11s  %6s  %s",
		e.StartedAt.Local().Format("2006-01-02 15:04:05"), status, e.Engine,
		e.Duration.Round(100*time.Millisecond), filepath.Base(e.SourcePath))
	if e.Status == history.StatusFailed {
		fmt.Fprintf(w, " (%s)\n", e.Error)
		return
	}
	fmt.Fprintf(w, " -> %s\n", e.OutputPath)
}

// --- export subcommand ---

var historyExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the conversion journal as YAML or JSON",
	RunE:  runHistoryExport,
}

func runHistoryExport(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	outPath, _ := cmd.Flags().GetString("out")

	store, closeAll, err := historyStore()
	if err != nil {
		return err
	}
	defer closeAll()

	var w io.Writer = os.Stdout
	if outPath != "" {
		f, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("creating %s: %w", outPath, err)
		}
		defer f.Close()
		w = f
	}
	if err := store.Export(context.Background(), w, format, historyOptions(cmd)); err != nil {
		return err
	}
	if outPath != "" {
		fmt.Fprintf(os.Stderr, "Exported history to %s\n", outPath)
	}
	return nil
}

// historyStore opens the journal configured in history.path.
func historyStore() (*history.Store, func(), error) {
	cfg, _, closeLog, err := setup("")
	if err != nil {
		return nil, nil, err
	}
	store, err := history.NewStore(cfg.History.Path)
	if err != nil {
		closeLog()
		return nil, nil, err
	}
	return store, func() {
		store.Close()
		closeLog()
	}, nil
}

func historyOptions(cmd *cobra.Command) history.QueryOptions {
	limit, _ := cmd.Flags().GetInt("limit")
	failed, _ := cmd.Flags().GetBool("failed")
	eng, _ := cmd.Flags().GetString("by-engine")
	return history.QueryOptions{Limit: limit, FailedOnly: failed, Engine: eng}
}

func init() {
	for _, c := range []*cobra.Command{historyListCmd, historyExportCmd} {
		c.Flags().Bool("failed", false, "only failed conversions")
		c.Flags().String("by-engine", "", "only conversions by this engine")
	}
	historyListCmd.Flags().Int("limit", 20, "maximum entries to show")
	historyExportCmd.Flags().String("format", "yaml", "export format: yaml or json")
	historyExportCmd.Flags().String("out", "", "write to this file instead of stdout")

	historyCmd.AddCommand(historyListCmd, historyExportCmd)
	rootCmd.AddCommand(historyCmd)
}
