// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pdiddy/office2pdf/internal/engine"
	"github.com/pdiddy/office2pdf/pkg/types"
)

// suiteBackend adapts an automation Suite to Backend. The suites resolve
// relative paths against their own working directory, so both paths are made
// absolute first.
type suiteBackend struct {
	suite engine.Suite
}

func (s suiteBackend) Warm(doc types.DocType) error {
	return s.suite.Warm(doc)
}

// Export blocks until the suite returns. The context is not consulted once
// the suite has been called: automation calls cannot be interrupted.
func (s suiteBackend) Export(_ context.Context, doc types.DocType, src, pdf string) error {
	absSrc, err := filepath.Abs(src)
	if err != nil {
		return fmt.Errorf("resolving %s: %w", src, err)
	}
	absPDF, err := filepath.Abs(pdf)
	if err != nil {
		return fmt.Errorf("resolving %s: %w", pdf, err)
	}
	if err := s.suite.Export(doc, absSrc, absPDF); err != nil {
		return err
	}
	if _, err := os.Stat(absPDF); err != nil {
		return fmt.Errorf("%w: %s", ErrFileNotProduced, absPDF)
	}
	return nil
}
