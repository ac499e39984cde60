// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package install downloads the LibreOffice installer package and runs it
// silently. It is offered when no conversion engine is found.
package install

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"os/exec"
	"path"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/pdiddy/office2pdf/internal/httputil"
	"github.com/pdiddy/office2pdf/internal/logging"
	"github.com/pdiddy/office2pdf/pkg/types"
)

// DefaultURL is the LibreOffice release the installer fetches.
const DefaultURL = "https://downloadarchive.documentfoundation.org/libreoffice/old/7.6.4.1/win/x86_64/LibreOffice_7.6.4.1_Win_x86_64.msi"

var (
	ErrDownload = errors.New("download failed")
	ErrInstall  = errors.New("install failed")
)

// ProgressFunc receives the bytes written so far and the expected total.
// total is -1 when the server does not announce a length.
type ProgressFunc func(done, total int64)

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

// Installer fetches and installs the LibreOffice package.
type Installer struct {
	cfg    types.InstallerConfig
	client *http.Client
	run    runner
	goos   string
	log    *logrus.Logger
}

// New creates an installer. A nil logger discards.
func New(cfg types.InstallerConfig, log *logrus.Logger) *Installer {
	if cfg.URL == "" {
		cfg.URL = DefaultURL
	}
	if cfg.Dir == "" {
		cfg.Dir = os.TempDir()
	}
	if log == nil {
		log = logging.Discard()
	}
	return &Installer{
		cfg:    cfg,
		client: &http.Client{Timeout: 30 * time.Minute},
		run:    osRunner{},
		goos:   runtime.GOOS,
		log:    log,
	}
}

// Supported reports whether packages can be installed on this host.
func (i *Installer) Supported() bool {
	return i.goos == "windows"
}

// InstallArgs returns the msiexec arguments for a silent install of msi.
func InstallArgs(msi string) []string {
	return []string{"/i", msi, "/qn", "INSTALLDESKTOPSHORTCUT=0", "REBOOT=ReallySuppress"}
}

// Download fetches the package into the configured directory and returns
// its path. Data goes to a temporary file that is renamed into place once
// complete, so an interrupted download never leaves a truncated package
// under the final name. Every failure wraps ErrDownload.
func (i *Installer) Download(ctx context.Context, onProgress ProgressFunc) (string, error) {
	dest := filepath.Join(i.cfg.Dir, packageName(i.cfg.URL))
	if err := os.MkdirAll(i.cfg.Dir, 0o755); err != nil {
		return "", fmt.Errorf("%w: creating %s: %v", ErrDownload, i.cfg.Dir, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, i.cfg.URL, nil)
	if err != nil {
		return "", fmt.Errorf("%w: creating request: %v", ErrDownload, err)
	}
	req.Header.Set("User-Agent", "office2pdf")

	i.log.WithField("url", i.cfg.URL).Info("Downloading installer")
	resp, err := httputil.DoWithRetry(ctx, i.client, req, 0)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDownload, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: HTTP %d from %s", ErrDownload, resp.StatusCode, i.cfg.URL)
	}

	tmpFile, err := os.CreateTemp(i.cfg.Dir, ".office2pdf-*.tmp")
	if err != nil {
		return "", fmt.Errorf("%w: creating temp file: %v", ErrDownload, err)
	}
	tmpPath := tmpFile.Name()

	cw := &countingWriter{w: tmpFile, total: resp.ContentLength, onProgress: onProgress}
	_, copyErr := io.Copy(cw, resp.Body)
	closeErr := tmpFile.Close()
	if copyErr != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("%w: writing download: %v", ErrDownload, copyErr)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("%w: closing temp file: %v", ErrDownload, closeErr)
	}
	if resp.ContentLength > 0 && cw.done != resp.ContentLength {
		os.Remove(tmpPath)
		return "", fmt.Errorf("%w: received %d of %d bytes", ErrDownload, cw.done, resp.ContentLength)
	}

	if err := os.Rename(tmpPath, dest); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("%w: renaming temp file: %v", ErrDownload, err)
	}
	i.log.WithFields(logrus.Fields{"path": dest, "bytes": cw.done}).Info("Installer downloaded")
	return dest, nil
}

// Install runs msiexec silently on msi and waits for it to finish. Every
// failure wraps ErrInstall.
func (i *Installer) Install(ctx context.Context, msi string) error {
	if !i.Supported() {
		return fmt.Errorf("%w: installer packages run on Windows only; install LibreOffice with your package manager", ErrInstall)
	}
	i.log.WithField("package", msi).Info("Running installer")
	out, err := i.run.Run(ctx, "msiexec", InstallArgs(msi)...)
	if err != nil {
		if msg := strings.TrimSpace(string(out)); msg != "" {
			return fmt.Errorf("%w: msiexec: %v: %s", ErrInstall, err, msg)
		}
		return fmt.Errorf("%w: msiexec: %v", ErrInstall, err)
	}
	return nil
}

// Run downloads and installs the package. The user is expected to restart
// the program afterwards so the new engine is probed.
func (i *Installer) Run(ctx context.Context, onProgress ProgressFunc) error {
	if !i.Supported() {
		return i.Install(ctx, "")
	}
	msi, err := i.Download(ctx, onProgress)
	if err != nil {
		return err
	}
	return i.Install(ctx, msi)
}

// packageName derives the file name from the last URL path segment.
func packageName(rawURL string) string {
	if u, err := url.Parse(rawURL); err == nil {
		if name := path.Base(u.Path); name != "" && name != "/" && name != "." {
			return name
		}
	}
	return "LibreOffice.msi"
}

// countingWriter reports cumulative bytes written after every write.
type countingWriter struct {
	w          io.Writer
	done       int64
	total      int64
	onProgress ProgressFunc
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.done += int64(n)
	if c.onProgress != nil && n > 0 {
		c.onProgress(c.done, c.total)
	}
	return n, err
}
