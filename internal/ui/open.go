// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ui

import (
	"fmt"
	"os/exec"
	"runtime"
)

// openCommand returns the command that opens path with the host's default
// handler.
func openCommand(goos, path string) (string, []string) {
	switch goos {
	case "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler", path}
	case "darwin":
		return "open", []string{path}
	default:
		return "xdg-open", []string{path}
	}
}

// OpenFile opens path with the default application and returns once the
// handler has been launched.
func OpenFile(path string) error {
	name, args := openCommand(runtime.GOOS, path)
	cmd := exec.Command(name, args...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("opening %s with %s: %w", path, name, err)
	}
	go cmd.Wait()
	return nil
}
