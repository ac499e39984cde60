// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

//go:build !windows

package engine

import "github.com/pdiddy/office2pdf/pkg/types"

type noAutomation struct{}

func (noAutomation) CanCreate(string) bool { return false }

var defaultAutomation automation = noAutomation{}

type unavailableSuite struct{}

func (unavailableSuite) Warm(types.DocType) error { return ErrAutomationUnavailable }

func (unavailableSuite) Export(types.DocType, string, string) error {
	return ErrAutomationUnavailable
}

func newSuite(types.Engine, bool) Suite { return unavailableSuite{} }
