// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the office2pdf CLI. It converts Word,
// Excel, and PowerPoint documents to PDF using whichever office engine the
// host provides, either from the command line or from an interactive
// terminal UI.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the office2pdf CLI.
var rootCmd = &cobra.Command{
	Use:   "office2pdf",
	Short: "Convert Office documents to PDF",
	Long: `office2pdf converts .doc/.docx, .xls/.xlsx, and .ppt/.pptx files to PDF.

It drives Microsoft Office or WPS Office through COM automation when one is
installed (Windows), and otherwise runs LibreOffice in headless mode. The
engine is detected again for every conversion.

Use "convert" for scripted conversions or "ui" for the interactive shell.`,
	SilenceUsage: true,
}

func init() {
	cobra.OnInitialize(initConfig)
	setDefaults()

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file (default: ./office2pdf.yaml or ~/.config/office2pdf/office2pdf.yaml)")
	pf.StringP("output", "o", "", "output directory (default: ~/Desktop/office2pdf)")
	pf.String("engine", "", "restrict detection to one engine: auto, msoffice, wps, or libreoffice")
	pf.String("soffice", "", "path to the soffice executable")
	pf.String("log-level", "", "log level: debug, info, warn, or error")
	pf.String("log-file", "", "write logs to this file instead of stderr")

	for key, flag := range map[string]string{
		"output_dir":          "output",
		"engine.force":        "engine",
		"engine.soffice_path": "soffice",
		"log.level":           "log-level",
		"log.file":            "log-file",
	} {
		if err := viper.BindPFlag(key, pf.Lookup(flag)); err != nil {
			panic(err)
		}
	}
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("office2pdf")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "office2pdf"))
		}
	}

	viper.SetEnvPrefix("OFFICE2PDF")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
