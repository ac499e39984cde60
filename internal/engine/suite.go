// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package engine

import (
	"errors"
	"fmt"

	"github.com/pdiddy/office2pdf/pkg/types"
)

// ErrAutomationUnavailable is returned by suite operations on hosts without
// COM automation.
var ErrAutomationUnavailable = errors.New("COM automation is not available on this platform")

// Suite drives an office suite through its automation interface. Each call
// runs inside its own single-threaded apartment on a locked OS thread and
// releases every COM handle it acquired before returning.
type Suite interface {
	// Warm instantiates the application object for doc, starting the suite
	// if it is not running.
	Warm(doc types.DocType) error

	// Export opens src and saves it as a PDF at pdf. It blocks until the
	// suite returns.
	Export(doc types.DocType, src, pdf string) error
}

// NewSuite returns the automation driver for a suite engine. When leaveOpen
// is true the opened document and the application are left running after
// Export, which is what users who keep editing in the suite expect; otherwise
// the document is closed and the application quits if it holds no other
// documents.
func NewSuite(e types.Engine, leaveOpen bool) (Suite, error) {
	if !e.IsSuite() {
		return nil, fmt.Errorf("%s is not an automation suite", e)
	}
	return newSuite(e, leaveOpen), nil
}

// openDocument is a document opened inside a running suite application.
type openDocument interface {
	Export() error
	Close() error

	// QuitIfIdle quits the application when it holds no other documents.
	QuitIfIdle()
}

// exportDocument exports doc and, unless leaveOpen is set, closes it and
// quits an idle application afterwards. Teardown also runs when the export
// fails; the export error takes precedence over a close error.
func exportDocument(doc openDocument, leaveOpen bool) (err error) {
	if !leaveOpen {
		defer func() {
			if cerr := doc.Close(); cerr != nil && err == nil {
				err = cerr
			}
			doc.QuitIfIdle()
		}()
	}
	return doc.Export()
}
