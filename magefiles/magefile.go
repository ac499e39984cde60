//go:build mage

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main contains Mage build targets for office2pdf developer tooling.
package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"

	"github.com/pdiddy/office2pdf/internal/engine"
	"github.com/pdiddy/office2pdf/pkg/types"
)

const (
	binDir     = "bin"
	binName    = "office2pdf"
	cmdPkg     = "./cmd/office2pdf"
	fixtureDir = "testdata/fixtures"
)

// Init creates the default output directory.
func Init() error {
	home, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("locating home directory: %w", err)
	}
	dir := filepath.Join(home, "Desktop", "office2pdf")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", dir, err)
	}
	fmt.Println("  ", dir)
	fmt.Println("Output directory initialized.")
	return nil
}

// Build compiles the CLI binary into bin/.
func Build() error {
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", binDir, err)
	}
	name := binName
	if os.Getenv("GOOS") == "windows" {
		name += ".exe"
	}
	out := filepath.Join(binDir, name)
	if err := sh.RunV("go", "build", "-o", out, cmdPkg); err != nil {
		return fmt.Errorf("go build: %w", err)
	}
	fmt.Printf("Built %s\n", out)
	return nil
}

// Test runs the unit tests.
func Test() error {
	args := []string{"test", "./..."}
	if mg.Verbose() {
		args = append(args, "-v")
	}
	return sh.RunV("go", args...)
}

// Fixtures writes sample documents under testdata/fixtures for manual runs.
// Plain-text, CSV, and flat ODP sources are turned into Word, spreadsheet,
// and presentation documents by the headless engine, so LibreOffice must be
// installed.
func Fixtures() error {
	if err := os.MkdirAll(fixtureDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", fixtureDir, err)
	}

	prober, err := engine.NewProber(types.EngineConfig{})
	if err != nil {
		return err
	}
	soffice, ok := prober.LocateSoffice()
	if !ok {
		return fmt.Errorf("fixtures need LibreOffice: soffice not found")
	}

	sources := map[string]string{
		"sample.txt": "office2pdf fixture\n\nA short paragraph for the writer export.\n",
		"sample.csv": "item,quantity,price\nwidget,4,2.50\ngadget,1,19.99\n",
		"sample.fodp": samplePresentation,
	}
	for name, content := range sources {
		path := filepath.Join(fixtureDir, name)
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
	}

	targets := []struct {
		src, format string
	}{
		{"sample.txt", "docx"},
		{"sample.txt", "doc"},
		{"sample.csv", "xlsx"},
		{"sample.csv", "xls"},
		{"sample.fodp", "pptx"},
		{"sample.fodp", "ppt"},
	}
	for _, t := range targets {
		src := filepath.Join(fixtureDir, t.src)
		if err := sh.Run(soffice, "--headless", "--convert-to", t.format, "--outdir", fixtureDir, src); err != nil {
			return fmt.Errorf("creating %s fixture: %w", t.format, err)
		}
	}
	fmt.Printf("Fixtures written to %s\n", fixtureDir)
	return nil
}

// samplePresentation is a one-slide flat ODF presentation.
const samplePresentation = `<?xml version="1.0" encoding="UTF-8"?>
<office:document
  xmlns:office="urn:oasis:names:tc:opendocument:xmlns:office:1.0"
  xmlns:draw="urn:oasis:names:tc:opendocument:xmlns:drawing:1.0"
  xmlns:text="urn:oasis:names:tc:opendocument:xmlns:text:1.0"
  xmlns:svg="urn:oasis:names:tc:opendocument:xmlns:svg-compatible:1.0"
  xmlns:presentation="urn:oasis:names:tc:opendocument:xmlns:presentation:1.0"
  office:version="1.2"
  office:mimetype="application/vnd.oasis.opendocument.presentation">
  <office:body>
    <office:presentation>
      <draw:page draw:name="slide1">
        <draw:frame svg:x="2cm" svg:y="2cm" svg:width="24cm" svg:height="4cm">
          <draw:text-box>
            <text:p>office2pdf fixture</text:p>
            <text:p>A single slide for the impress export.</text:p>
          </draw:text-box>
        </draw:frame>
      </draw:page>
    </office:presentation>
  </office:body>
</office:document>
`

// Stats prints Go production and test line counts.
func Stats() error {
	prodLines, err := countGoLines(".", false)
	if err != nil {
		return err
	}
	testLines, err := countGoLines(".", true)
	if err != nil {
		return err
	}

	fmt.Printf("Lines of code (Go, production): %d\n", prodLines)
	fmt.Printf("Lines of code (Go, tests):      %d\n", testLines)
	return nil
}

// countGoLines counts non-blank lines in Go files under root, either test
// files only or non-test files only. Directories starting with _ or . are
// skipped, as the go tool skips them.
func countGoLines(root string, testOnly bool) (int, error) {
	total := 0
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			name := d.Name()
			if path != root && (strings.HasPrefix(name, "_") || strings.HasPrefix(name, ".")) {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) != ".go" || strings.HasSuffix(path, "_test.go") != testOnly {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		for _, line := range bytes.Split(data, []byte("\n")) {
			if len(bytes.TrimSpace(line)) > 0 {
				total++
			}
		}
		return nil
	})
	return total, err
}
