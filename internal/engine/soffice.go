// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package engine

import (
	"path/filepath"
)

// Registry keys whose default value is the LibreOffice program directory.
var sofficeRegistryKeys = []string{
	`SOFTWARE\LibreOffice\UNO\InstallPath`,
	`SOFTWARE\WOW6432Node\LibreOffice\UNO\InstallPath`,
}

var windowsSofficePaths = []string{
	`C:\Program Files\LibreOffice\program\soffice.exe`,
	`C:\Program Files (x86)\LibreOffice\program\soffice.exe`,
}

var unixSofficePaths = []string{
	"/usr/bin/soffice",
	"/usr/lib/libreoffice/program/soffice",
	"/opt/libreoffice/program/soffice",
	"/snap/bin/libreoffice",
	"/Applications/LibreOffice.app/Contents/MacOS/soffice",
}

// pathNames are the executable names looked up on PATH.
var pathNames = []string{"soffice", "libreoffice"}

// LocateSoffice returns the soffice executable to invoke and whether one was
// found. The configured path is tried first; on Windows the registry and
// well-known install directories come next, since they point at the real
// binary even when PATH does not; then PATH, where the binary must answer
// --version; then, elsewhere, well-known install locations.
func (p *Prober) LocateSoffice() (string, bool) {
	if p.sofficePath != "" && p.responds(p.sofficePath) {
		return p.sofficePath, true
	}

	if p.goos == "windows" {
		if path, ok := p.fromRegistryOrDisk(); ok {
			return path, true
		}
	}

	for _, name := range pathNames {
		path, err := p.exec.LookPath(name)
		if err != nil {
			continue
		}
		if p.responds(path) {
			return path, true
		}
	}

	if p.goos != "windows" {
		for _, path := range unixSofficePaths {
			if p.exec.FileExists(path) {
				return path, true
			}
		}
	}
	return "", false
}

func (p *Prober) responds(path string) bool {
	return p.exec.RunSilent(path, "--version") == nil
}

func (p *Prober) fromRegistryOrDisk() (string, bool) {
	for _, key := range sofficeRegistryKeys {
		dir, err := p.reg.InstallPath(key)
		if err != nil || dir == "" {
			continue
		}
		candidate := filepath.Join(dir, "soffice.exe")
		if p.exec.FileExists(candidate) {
			return candidate, true
		}
	}
	for _, candidate := range windowsSofficePaths {
		if p.exec.FileExists(candidate) {
			return candidate, true
		}
	}
	return "", false
}
