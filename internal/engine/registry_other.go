// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

//go:build !windows

package engine

import "errors"

var errNoRegistry = errors.New("registry not available on this platform")

type noRegistry struct{}

func (noRegistry) InstallPath(string) (string, error) {
	return "", errNoRegistry
}

var defaultRegistry registryReader = noRegistry{}
