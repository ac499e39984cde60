// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

//go:build windows

package engine

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/go-ole/go-ole"
	"github.com/go-ole/go-ole/oleutil"

	"github.com/pdiddy/office2pdf/pkg/types"
)

// sFalse is returned by CoInitializeEx when the thread is already in an
// apartment of the requested kind.
const sFalse = 0x00000001

// Export format constants of the suites' object models.
const (
	wdFormatPDF = 17
	xlTypePDF   = 0
	ppSaveAsPDF = 32
)

// enterApartment pins the goroutine to its OS thread and initializes a
// single-threaded COM apartment on it. The returned func undoes both and must
// be called on every exit path.
func enterApartment() (func(), error) {
	runtime.LockOSThread()
	if err := ole.CoInitializeEx(0, ole.COINIT_APARTMENTTHREADED); err != nil {
		var oleErr *ole.OleError
		if !errors.As(err, &oleErr) || oleErr.Code() != sFalse {
			runtime.UnlockOSThread()
			return nil, fmt.Errorf("initializing COM: %w", err)
		}
	}
	return func() {
		ole.CoUninitialize()
		runtime.UnlockOSThread()
	}, nil
}

type comAutomation struct{}

func (comAutomation) CanCreate(progID string) bool {
	release, err := enterApartment()
	if err != nil {
		return false
	}
	defer release()

	unknown, err := oleutil.CreateObject(progID)
	if err != nil {
		return false
	}
	unknown.Release()
	return true
}

var defaultAutomation automation = comAutomation{}

type comSuite struct {
	engine    types.Engine
	leaveOpen bool
}

func newSuite(e types.Engine, leaveOpen bool) Suite {
	return &comSuite{engine: e, leaveOpen: leaveOpen}
}

// dispatch creates the application object for doc, trying each ProgID in
// order.
func (s *comSuite) dispatch(doc types.DocType) (*ole.IDispatch, error) {
	ids := ProgIDs(s.engine, doc)
	if len(ids) == 0 {
		return nil, fmt.Errorf("%s has no automation class for %s documents", s.engine, doc)
	}

	var lastErr error
	for _, id := range ids {
		unknown, err := oleutil.CreateObject(id)
		if err != nil {
			lastErr = fmt.Errorf("starting %s: %w", id, err)
			continue
		}
		app, err := unknown.QueryInterface(ole.IID_IDispatch)
		unknown.Release()
		if err != nil {
			lastErr = fmt.Errorf("querying %s: %w", id, err)
			continue
		}
		return app, nil
	}
	return nil, lastErr
}

func (s *comSuite) Warm(doc types.DocType) error {
	release, err := enterApartment()
	if err != nil {
		return err
	}
	defer release()

	app, err := s.dispatch(doc)
	if err != nil {
		return err
	}
	app.Release()
	return nil
}

func (s *comSuite) Export(doc types.DocType, src, pdf string) error {
	release, err := enterApartment()
	if err != nil {
		return err
	}
	defer release()

	app, err := s.dispatch(doc)
	if err != nil {
		return err
	}
	defer app.Release()

	c := s.calls(doc, pdf)

	collV, err := oleutil.GetProperty(app, c.collection)
	if err != nil {
		return fmt.Errorf("%s: %w", c.collection, err)
	}
	coll := collV.ToIDispatch()
	defer coll.Release()

	openedV, err := oleutil.CallMethod(coll, "Open", src)
	if err != nil {
		return fmt.Errorf("%s.Open: %w", c.collection, err)
	}
	opened := openedV.ToIDispatch()
	defer opened.Release()

	return exportDocument(&comDocument{app: app, coll: coll, doc: opened, src: src, calls: c}, s.leaveOpen)
}

// comDocument is a document opened through a suite's object model.
type comDocument struct {
	app, coll, doc *ole.IDispatch
	src            string
	calls          exportCalls
}

func (d *comDocument) Export() error {
	if _, err := oleutil.CallMethod(d.doc, d.calls.export, d.calls.exportArgs...); err != nil {
		return fmt.Errorf("%s: %w", d.calls.export, err)
	}
	return nil
}

func (d *comDocument) Close() error {
	if _, err := oleutil.CallMethod(d.doc, "Close", d.calls.closeArgs...); err != nil {
		return fmt.Errorf("closing %s: %w", d.src, err)
	}
	return nil
}

func (d *comDocument) QuitIfIdle() {
	if countV, err := oleutil.GetProperty(d.coll, "Count"); err == nil && countV.Val == 0 {
		_, _ = oleutil.CallMethod(d.app, "Quit")
	}
}

// exportCalls names the object-model calls for one document type.
type exportCalls struct {
	collection string
	export     string
	exportArgs []interface{}
	closeArgs  []interface{}
}

func (s *comSuite) calls(doc types.DocType, pdf string) exportCalls {
	switch doc {
	case types.DocWord:
		// WPS Writer has no SaveAs2.
		if s.engine == types.EngineWPS {
			return exportCalls{"Documents", "ExportAsFixedFormat", []interface{}{pdf, wdFormatPDF}, []interface{}{false}}
		}
		return exportCalls{"Documents", "SaveAs2", []interface{}{pdf, wdFormatPDF}, []interface{}{false}}
	case types.DocSpreadsheet:
		return exportCalls{"Workbooks", "ExportAsFixedFormat", []interface{}{xlTypePDF, pdf}, []interface{}{false}}
	default:
		return exportCalls{"Presentations", "SaveAs", []interface{}{pdf, ppSaveAsPDF}, nil}
	}
}
