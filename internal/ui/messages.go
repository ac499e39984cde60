// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ui

import (
	"time"

	"github.com/pdiddy/office2pdf/pkg/types"
)

// tickMsg drives the progress drain while work is in flight.
type tickMsg time.Time

// engineMsg carries the result of the startup probe.
type engineMsg struct {
	engine types.Engine
}

// convertedMsg reports a successful conversion.
type convertedMsg struct {
	result types.Result
}

// convertFailedMsg reports a failed conversion.
type convertFailedMsg struct {
	source string
	err    error
}

// installedMsg reports the end of an installer run.
type installedMsg struct {
	err error
}

// openedMsg reports the outcome of opening a produced file.
type openedMsg struct {
	path string
	err  error
}
