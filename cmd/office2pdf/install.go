// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/office2pdf/internal/install"
)

var installCmd = &cobra.Command{
	Use:   "install",
	Short: "Download and install LibreOffice",
	Long: `Install downloads the LibreOffice installer package and runs it silently
with msiexec. Windows only; elsewhere install LibreOffice with the system
package manager. Restart office2pdf afterwards so the new engine is found.`,
	RunE: runInstall,
}

func init() {
	installCmd.Flags().Bool("download-only", false, "download the package without installing it")
	installCmd.Flags().String("url", "", "installer package URL (default: installer.url)")

	rootCmd.AddCommand(installCmd)
}

func runInstall(cmd *cobra.Command, args []string) error {
	cfg, logger, closeLog, err := setup("")
	if err != nil {
		return err
	}
	defer closeLog()

	if u, _ := cmd.Flags().GetString("url"); u != "" {
		cfg.Installer.URL = u
	}
	downloadOnly, _ := cmd.Flags().GetBool("download-only")

	inst := install.New(cfg.Installer, logger)
	if !downloadOnly && !inst.Supported() {
		return inst.Install(cmd.Context(), "")
	}

	msi, err := inst.Download(cmd.Context(), printDownload)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return err
	}
	fmt.Printf("downloaded: %s\n", msi)
	if downloadOnly {
		return nil
	}

	fmt.Println("installing LibreOffice (this can take a few minutes)...")
	if err := inst.Install(cmd.Context(), msi); err != nil {
		return err
	}
	fmt.Println("installed: LibreOffice. Restart office2pdf to use it.")
	return nil
}

func printDownload(done, total int64) {
	const mb = 1 << 20
	if total > 0 {
		fmt.Fprintf(os.Stderr, "\rdownloading: %3d%% (%.1f/%.1f MB)", done*100/total, float64(done)/mb, float64(total)/mb)
		return
	}
	fmt.Fprintf(os.Stderr, "\rdownloading: %.1f MB", float64(done)/mb)
}
