// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/api"
)

// PageCount validates the PDF at path and returns its page count. A file
// pdfcpu cannot read is reported as ErrConversionFailed.
func PageCount(path string) (int, error) {
	n, err := api.PageCountFile(path)
	if err != nil {
		return 0, fmt.Errorf("%w: %s is not a readable PDF: %v", ErrConversionFailed, path, err)
	}
	if n == 0 {
		return 0, fmt.Errorf("%w: %s has no pages", ErrConversionFailed, path)
	}
	return n, nil
}
