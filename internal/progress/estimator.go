// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package progress

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/office2pdf/pkg/types"
)

// Phase boundaries of the synthetic ramp.
const (
	StartupEnd   = 30
	ConvertStart = 35
	ConvertEnd   = 96
	Done         = 100
)

// Default cadence, used for zero fields of types.ProgressConfig.
const (
	DefaultStartupAttempts = 30
	DefaultStartupDelay    = time.Millisecond
	DefaultTick            = 80 * time.Millisecond
	DefaultFinishDelay     = 20 * time.Millisecond
)

// Estimator drives a Sink through the startup, conversion, and finalization
// phases of one conversion. Values it emits never decrease. An Estimator is
// used for a single conversion by a single goroutine.
type Estimator struct {
	cfg  types.ProgressConfig
	sink *Monotonic
}

// NewEstimator creates an estimator reporting to sink.
func NewEstimator(cfg types.ProgressConfig, sink Sink) *Estimator {
	if cfg.StartupAttempts <= 0 {
		cfg.StartupAttempts = DefaultStartupAttempts
	}
	if cfg.StartupDelay <= 0 {
		cfg.StartupDelay = DefaultStartupDelay
	}
	if cfg.Tick <= 0 {
		cfg.Tick = DefaultTick
	}
	if cfg.FinishDelay <= 0 {
		cfg.FinishDelay = DefaultFinishDelay
	}
	return &Estimator{cfg: cfg, sink: NewMonotonic(sink)}
}

// Value returns the last value reported.
func (e *Estimator) Value() int {
	return e.sink.Value()
}

// Startup runs the 0-30 phase. warm is attempted up to StartupAttempts
// times; each failure nudges the value forward before the next try. A nil
// warm jumps straight to StartupEnd. The phase always ends at StartupEnd;
// the returned error is the last warm-up failure when every attempt failed.
func (e *Estimator) Startup(ctx context.Context, warm func() error) error {
	e.sink.Update(0)
	if warm == nil {
		e.sink.Update(StartupEnd)
		return nil
	}

	var lastErr error
	for i := 0; i < e.cfg.StartupAttempts; i++ {
		if lastErr = warm(); lastErr == nil {
			break
		}
		e.sink.Update(i * StartupEnd / e.cfg.StartupAttempts)
		if err := sleep(ctx, e.cfg.StartupDelay); err != nil {
			lastErr = err
			break
		}
	}
	e.sink.Update(StartupEnd)
	return lastErr
}

// Track runs work on its own goroutine while advancing the value one step
// per tick from ConvertStart, holding just below ConvertEnd until work
// returns. On success the value jumps to ConvertEnd. It returns work's error.
func (e *Estimator) Track(ctx context.Context, work func(ctx context.Context) error) error {
	e.sink.Update(ConvertStart)

	done := make(chan struct{})
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer close(done)
		return work(gctx)
	})

	g.Go(func() error {
		ticker := time.NewTicker(e.cfg.Tick)
		defer ticker.Stop()
		for v := ConvertStart; ; {
			select {
			case <-done:
				return nil
			case <-ticker.C:
				if v < ConvertEnd-1 {
					v++
					e.sink.Update(v)
				}
			}
		}
	})

	if err := g.Wait(); err != nil {
		return err
	}
	e.sink.Update(ConvertEnd)
	return nil
}

// Finish runs the cosmetic 96-100 phase. The output already exists; this
// only makes the bar visibly complete.
func (e *Estimator) Finish() {
	for v := ConvertEnd; v <= Done; v++ {
		e.sink.Update(v)
		if v < Done {
			time.Sleep(e.cfg.FinishDelay)
		}
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
