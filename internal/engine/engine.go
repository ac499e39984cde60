// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package engine detects which office backend can convert documents on this
// host: Microsoft Office or WPS through COM automation, or LibreOffice in
// headless mode.
//
// Detection is a priority-ordered list of probes. Each probe reports success
// or failure and never returns an error; the first success wins. Nothing is
// cached, so an engine installed while the process runs is picked up by the
// next Probe call.
package engine

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"

	"github.com/pdiddy/office2pdf/pkg/types"
)

// Automation ProgIDs tried when probing for each suite.
var (
	msProbeIDs  = []string{"Word.Application"}
	wpsProbeIDs = []string{"kwps.Application", "wps.Application"}
)

// progIDs maps engine and document type to the automation ProgIDs to try, in
// preference order.
var progIDs = map[types.Engine]map[types.DocType][]string{
	types.EngineMSOffice: {
		types.DocWord:         {"Word.Application"},
		types.DocSpreadsheet:  {"Excel.Application"},
		types.DocPresentation: {"PowerPoint.Application"},
	},
	types.EngineWPS: {
		types.DocWord:         {"kwps.Application", "wps.Application"},
		types.DocSpreadsheet:  {"ket.Application", "et.Application"},
		types.DocPresentation: {"kwpp.Application", "wpp.Application"},
	},
}

// ProgIDs returns the automation ProgIDs that open documents of type doc in
// the given suite. It returns nil for engines without automation.
func ProgIDs(e types.Engine, doc types.DocType) []string {
	return progIDs[e][doc]
}

// executor abstracts process execution and file checks for testing.
type executor interface {
	LookPath(file string) (string, error)
	RunSilent(name string, args ...string) error
	FileExists(path string) bool
}

// osExecutor is the production executor backed by os/exec.
type osExecutor struct{}

func (o *osExecutor) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

func (o *osExecutor) RunSilent(name string, args ...string) error {
	return exec.Command(name, args...).Run()
}

func (o *osExecutor) FileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// automation reports whether a COM class can be instantiated.
type automation interface {
	CanCreate(progID string) bool
}

// registryReader returns the default value of an HKLM key.
type registryReader interface {
	InstallPath(key string) (string, error)
}

// Prober detects the available engine. The zero value is not usable; build
// one with NewProber.
type Prober struct {
	exec        executor
	com         automation
	reg         registryReader
	goos        string
	sofficePath string
	force       types.Engine
}

// ParseForce converts the engine.force setting into an engine. An empty
// string and "auto" both mean no restriction and return "".
func ParseForce(s string) (types.Engine, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return "", nil
	case "msoffice", "ms", "word":
		return types.EngineMSOffice, nil
	case "wps":
		return types.EngineWPS, nil
	case "libreoffice", "lo", "soffice":
		return types.EngineLibreOffice, nil
	default:
		return "", fmt.Errorf("unknown engine %q: use auto, msoffice, wps, or libreoffice", s)
	}
}

// NewProber creates a prober for the host platform.
func NewProber(cfg types.EngineConfig) (*Prober, error) {
	force, err := ParseForce(cfg.Force)
	if err != nil {
		return nil, err
	}
	return &Prober{
		exec:        &osExecutor{},
		com:         defaultAutomation,
		reg:         defaultRegistry,
		goos:        runtime.GOOS,
		sofficePath: cfg.SofficePath,
		force:       force,
	}, nil
}

// probe is one capability check in the priority list.
type probe struct {
	engine types.Engine
	ok     func() bool
}

func (p *Prober) probes() []probe {
	all := []probe{
		{types.EngineMSOffice, func() bool { return p.anyCreatable(msProbeIDs) }},
		{types.EngineWPS, func() bool { return p.anyCreatable(wpsProbeIDs) }},
		{types.EngineLibreOffice, func() bool { _, ok := p.LocateSoffice(); return ok }},
	}
	if p.force == "" {
		return all
	}
	for _, pr := range all {
		if pr.engine == p.force {
			return []probe{pr}
		}
	}
	return nil
}

// Probe returns the highest-priority engine that is available, or
// types.EngineNone.
func (p *Prober) Probe() types.Engine {
	for _, pr := range p.probes() {
		if pr.ok() {
			return pr.engine
		}
	}
	return types.EngineNone
}

func (p *Prober) anyCreatable(ids []string) bool {
	for _, id := range ids {
		if p.com.CanCreate(id) {
			return true
		}
	}
	return false
}
