// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package ui is the interactive terminal shell: source and output pickers,
// a start control, a progress bar fed through a progress.Bridge, and an
// action that opens the produced PDF.
package ui

import (
	"context"
	"time"

	progressbar "github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/pdiddy/office2pdf/internal/convert"
	"github.com/pdiddy/office2pdf/internal/install"
	"github.com/pdiddy/office2pdf/internal/logging"
	"github.com/pdiddy/office2pdf/internal/progress"
	"github.com/pdiddy/office2pdf/pkg/types"
)

// DrainInterval is how often the progress bridge is drained.
const DrainInterval = 50 * time.Millisecond

// State is the screen the shell is on.
type State int

const (
	StateProbing State = iota
	StateOffer
	StateInstalling
	StateInstalled
	StateUnavailable
	StateForm
)

// Focus targets on the form.
const (
	focusSource = iota
	focusOutput
	focusStart
	focusOpen
	focusCount
)

// EngineProber reports the engine available on this host.
type EngineProber interface {
	Probe() types.Engine
}

// Installer downloads and installs the headless engine.
type Installer interface {
	Supported() bool
	Run(ctx context.Context, onProgress install.ProgressFunc) error
}

// Deps are the collaborators the shell drives. Record and Open are optional.
type Deps struct {
	Converter convert.Converter
	Prober    EngineProber
	Installer Installer
	Record    func(req types.Request, res types.Result, err error)
	Open      func(path string) error
	Log       *logrus.Logger
}

// Model is the bubbletea model of the shell.
type Model struct {
	State  State
	Engine types.Engine

	Inputs []textinput.Model
	Focus  int

	// Converting is set from the start of a conversion until its result
	// message arrives. The start control is rejected while it is set.
	Converting bool
	Percent    int
	LastOutput string
	Notice     string
	Err        error

	Converted int
	Failed    int

	bar    progressbar.Model
	bridge *progress.Bridge
	deps   Deps
	log    *logrus.Logger
	width  int
}

// NewModel creates the shell with the output picker preset to outputDir and
// the source picker preset to source, which may be empty.
func NewModel(deps Deps, source, outputDir string) Model {
	log := deps.Log
	if log == nil {
		log = logging.Discard()
	}
	if deps.Open == nil {
		deps.Open = OpenFile
	}

	m := Model{
		State:  StateProbing,
		Engine: types.EngineNone,
		deps:   deps,
		log:    log,
		bar:    progressbar.New(progressbar.WithDefaultGradient(), progressbar.WithWidth(50)),
	}

	m.Inputs = make([]textinput.Model, 2)

	m.Inputs[focusSource] = textinput.New()
	m.Inputs[focusSource].Placeholder = "path/to/document.docx"
	m.Inputs[focusSource].Prompt = "Source:     "
	m.Inputs[focusSource].Width = 60
	m.Inputs[focusSource].SetValue(source)
	m.Inputs[focusSource].Focus()

	m.Inputs[focusOutput] = textinput.New()
	m.Inputs[focusOutput].Placeholder = "output directory"
	m.Inputs[focusOutput].Prompt = "Output dir: "
	m.Inputs[focusOutput].Width = 60
	m.Inputs[focusOutput].SetValue(outputDir)

	return m
}

// Init starts the cursor blink and the startup probe.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, probeCmd(m.deps.Prober))
}

// Busy reports whether a conversion or an install is in flight.
func (m Model) Busy() bool {
	return m.Converting || m.State == StateInstalling
}

func tick() tea.Cmd {
	return tea.Tick(DrainInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func probeCmd(p EngineProber) tea.Cmd {
	return func() tea.Msg {
		return engineMsg{engine: p.Probe()}
	}
}

// convertCmd runs one conversion on the command goroutine, reporting
// progress into bridge.
func convertCmd(c convert.Converter, req types.Request, bridge *progress.Bridge, record func(types.Request, types.Result, error)) tea.Cmd {
	return func() tea.Msg {
		res, err := c.Convert(context.Background(), req, bridge)
		if record != nil {
			record(req, res, err)
		}
		if err != nil {
			return convertFailedMsg{source: req.SourcePath, err: err}
		}
		return convertedMsg{result: res}
	}
}

// installCmd runs the installer, reporting download progress into bridge.
func installCmd(inst Installer, bridge *progress.Bridge) tea.Cmd {
	return func() tea.Msg {
		err := inst.Run(context.Background(), func(done, total int64) {
			if total > 0 {
				bridge.Update(int(done * 100 / total))
			}
		})
		return installedMsg{err: err}
	}
}

func openCmd(open func(string) error, path string) tea.Cmd {
	return func() tea.Msg {
		return openedMsg{path: path, err: open(path)}
	}
}
