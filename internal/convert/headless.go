// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"github.com/sirupsen/logrus"

	"github.com/pdiddy/office2pdf/pkg/types"
)

// Headless polling defaults, used for zero fields of types.HeadlessConfig.
const (
	DefaultPollAttempts = 50
	DefaultPollInterval = 100 * time.Millisecond
)

// lockRetry is how often a blocked headless run retries the engine lock.
const lockRetry = 250 * time.Millisecond

// runner executes a process and returns its combined output.
type runner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

type osRunner struct{}

func (osRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	var out bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &out
	cmd.Stderr = &out
	err := cmd.Run()
	return out.Bytes(), err
}

// Headless converts documents by invoking soffice in headless mode. Runs are
// serialized across processes with a lock file, since concurrent soffice
// instances sharing one user profile fail.
type Headless struct {
	bin      string
	cfg      types.HeadlessConfig
	lockPath string
	run      runner
	log      *logrus.Logger
}

// NewHeadless creates a backend that runs the soffice executable at bin.
func NewHeadless(bin string, cfg types.HeadlessConfig, log *logrus.Logger) *Headless {
	if cfg.PollAttempts <= 0 {
		cfg.PollAttempts = DefaultPollAttempts
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = DefaultPollInterval
	}
	return &Headless{
		bin:      bin,
		cfg:      cfg,
		lockPath: filepath.Join(os.TempDir(), "office2pdf-soffice.lock"),
		run:      osRunner{},
		log:      log,
	}
}

// HeadlessArgs returns the soffice arguments converting src into outDir.
func HeadlessArgs(doc types.DocType, outDir, src string) []string {
	return []string{
		"--headless",
		"--convert-to", "pdf:" + PDFFilter(doc),
		"--outdir", outDir,
		src,
	}
}

// Warm is a no-op: the headless engine has no warm-up phase.
func (h *Headless) Warm(types.DocType) error { return nil }

// Export runs soffice and waits for pdf to appear. A non-zero exit is
// ErrConversionFailed. soffice may exit before the file is flushed, so after
// a clean exit the output is polled for. A PDF left over from an earlier run
// is removed first so it cannot count. If it never shows up the error is ErrFileNotProduced.
func (h *Headless) Export(ctx context.Context, doc types.DocType, src, pdf string) error {
	absSrc, err := filepath.Abs(src)
	if err != nil {
		return fmt.Errorf("resolving %s: %w", src, err)
	}
	outDir := filepath.Dir(pdf)

	lock := flock.New(h.lockPath)
	locked, err := lock.TryLockContext(ctx, lockRetry)
	if err != nil {
		return fmt.Errorf("acquiring headless engine lock: %w", err)
	}
	if !locked {
		return fmt.Errorf("could not acquire headless engine lock %s", h.lockPath)
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			h.log.WithError(err).Warn("Failed to release headless engine lock")
		}
	}()

	// soffice exits 0 even when it writes nothing, so a leftover PDF would
	// pass for fresh output.
	if err := os.Remove(pdf); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%w: removing previous %s: %v", ErrConversionFailed, pdf, err)
	}

	args := HeadlessArgs(doc, outDir, absSrc)
	h.log.WithFields(logrus.Fields{"bin": h.bin, "args": strings.Join(args, " ")}).Debug("Running headless engine")

	out, err := h.run.Run(ctx, h.bin, args...)
	if err != nil {
		msg := strings.TrimSpace(string(out))
		if msg == "" {
			return fmt.Errorf("%w: %s: %v", ErrConversionFailed, filepath.Base(h.bin), err)
		}
		return fmt.Errorf("%w: %s: %v: %s", ErrConversionFailed, filepath.Base(h.bin), err, msg)
	}

	return h.waitFor(ctx, pdf)
}

// waitFor polls for a file at path.
func (h *Headless) waitFor(ctx context.Context, path string) error {
	for i := 0; i < h.cfg.PollAttempts; i++ {
		if _, err := os.Stat(path); err == nil {
			return nil
		}
		if i == h.cfg.PollAttempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(h.cfg.PollInterval):
		}
	}
	return fmt.Errorf("%w: %s", ErrFileNotProduced, path)
}
