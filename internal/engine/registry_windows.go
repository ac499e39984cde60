// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

//go:build windows

package engine

import (
	"fmt"

	"golang.org/x/sys/windows/registry"
)

// hklmReader reads install paths from HKEY_LOCAL_MACHINE.
type hklmReader struct{}

func (hklmReader) InstallPath(key string) (string, error) {
	k, err := registry.OpenKey(registry.LOCAL_MACHINE, key, registry.QUERY_VALUE)
	if err != nil {
		return "", fmt.Errorf("opening HKLM\\%s: %w", key, err)
	}
	defer k.Close()

	v, _, err := k.GetStringValue("")
	if err != nil {
		return "", fmt.Errorf("reading default value of HKLM\\%s: %w", key, err)
	}
	return v, nil
}

var defaultRegistry registryReader = hklmReader{}
