// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/pdiddy/office2pdf/internal/engine"
	"github.com/pdiddy/office2pdf/internal/logging"
	"github.com/pdiddy/office2pdf/internal/progress"
	"github.com/pdiddy/office2pdf/pkg/types"
)

// Prober reports the engine to use and, for the headless engine, where its
// executable lives. *engine.Prober implements it.
type Prober interface {
	Probe() types.Engine
	LocateSoffice() (string, bool)
}

// Backend performs the conversion for one engine.
type Backend interface {
	// Warm brings the engine up for doc. Engines without a warm-up phase
	// return nil.
	Warm(doc types.DocType) error

	// Export converts src into pdf and blocks until done.
	Export(ctx context.Context, doc types.DocType, src, pdf string) error
}

// Dispatcher turns a request into a PDF using whichever engine the prober
// finds. The engine is probed on every call.
type Dispatcher struct {
	cfg     types.Config
	prober  Prober
	log     *logrus.Logger
	backend func(e types.Engine) (Backend, error)
	verify  func(path string) (int, error)
}

// NewDispatcher creates a dispatcher. A nil logger discards.
func NewDispatcher(cfg types.Config, prober Prober, log *logrus.Logger) *Dispatcher {
	if log == nil {
		log = logging.Discard()
	}
	d := &Dispatcher{cfg: cfg, prober: prober, log: log}
	d.backend = d.defaultBackend
	if cfg.Verify {
		d.verify = PageCount
	}
	return d
}

func (d *Dispatcher) defaultBackend(e types.Engine) (Backend, error) {
	if e.IsSuite() {
		s, err := engine.NewSuite(e, d.cfg.Automation.LeaveOpen)
		if err != nil {
			return nil, err
		}
		return suiteBackend{suite: s}, nil
	}
	bin, ok := d.prober.LocateSoffice()
	if !ok {
		return nil, ErrNoEngine
	}
	return NewHeadless(bin, d.cfg.Headless, d.log), nil
}

// Convert converts req.SourcePath into req.OutputDir and reports progress to
// sink. Progress values are non-decreasing and reach 100 only on success.
//
// The source extension is checked before anything else; an unsupported type
// fails without probing. When no engine is found nothing is created on
// disk. An existing PDF of the same name is overwritten.
//
// The returned Result carries the request ID, the engine, and the timings
// even when err is non-nil. OutputPath is set only on success.
func (d *Dispatcher) Convert(ctx context.Context, req types.Request, sink progress.Sink) (types.Result, error) {
	res := types.Result{RequestID: req.ID, Engine: types.EngineNone, StartedAt: time.Now()}
	fail := func(err error) (types.Result, error) {
		res.FinishedAt = time.Now()
		return res, err
	}

	doc, err := Classify(req.SourcePath)
	if err != nil {
		return fail(err)
	}
	req.DocType = doc

	eng := d.prober.Probe()
	res.Engine = eng
	log := d.log.WithFields(logrus.Fields{
		"request": req.ID,
		"source":  req.SourcePath,
		"engine":  eng,
	})
	if eng == types.EngineNone {
		log.Warn("No conversion engine found")
		return fail(ErrNoEngine)
	}

	if _, err := os.Stat(req.SourcePath); err != nil {
		return fail(fmt.Errorf("reading source: %w", err))
	}

	backend, err := d.backend(eng)
	if err != nil {
		return fail(fmt.Errorf("preparing %s: %w", eng, err))
	}

	if err := os.MkdirAll(req.OutputDir, 0o755); err != nil {
		return fail(fmt.Errorf("creating output directory: %w", err))
	}
	pdf := OutputPath(req.SourcePath, req.OutputDir)

	est := progress.NewEstimator(d.cfg.Progress, sink)

	var warm func() error
	if eng.IsSuite() {
		warm = func() error { return backend.Warm(doc) }
	}
	if err := est.Startup(ctx, warm); err != nil {
		// The export below surfaces the real failure if the suite is unusable.
		log.WithError(err).Warn("Engine warm-up did not succeed")
	}

	log.WithField("output", pdf).Info("Converting")
	err = est.Track(ctx, func(ctx context.Context) error {
		return backend.Export(ctx, doc, req.SourcePath, pdf)
	})
	if err != nil {
		log.WithError(err).Error("Conversion failed")
		return fail(fmt.Errorf("converting %s with %s: %w", filepath.Base(req.SourcePath), eng, err))
	}

	if d.verify != nil {
		pages, err := d.verify(pdf)
		if err != nil {
			log.WithError(err).Error("Output verification failed")
			return fail(err)
		}
		res.Pages = pages
	}

	est.Finish()
	res.OutputPath = pdf
	res.FinishedAt = time.Now()
	log.WithFields(logrus.Fields{
		"output":   pdf,
		"pages":    res.Pages,
		"duration": res.Duration().Round(time.Millisecond),
	}).Info("Converted")
	return res, nil
}
