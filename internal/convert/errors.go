// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import "errors"

// Conversion failure classes. Backend errors that fit none of these are
// returned wrapped with the source path and carry the backend's own message.
var (
	ErrUnsupportedType  = errors.New("unsupported file type")
	ErrNoEngine         = errors.New("no conversion engine found")
	ErrConversionFailed = errors.New("conversion failed")
	ErrFileNotProduced  = errors.New("output file not produced")
)
