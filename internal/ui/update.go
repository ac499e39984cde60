// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ui

import (
	"fmt"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sirupsen/logrus"

	"github.com/pdiddy/office2pdf/internal/progress"
	"github.com/pdiddy/office2pdf/pkg/types"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
		if w := msg.Width - 4; w > 10 && w < 80 {
			m.bar.Width = w
		}
		return m, nil
	case tickMsg:
		return m.drain()
	case engineMsg:
		return m.onEngine(msg)
	}

	switch m.State {
	case StateOffer:
		return m.updateOffer(msg)
	case StateInstalling, StateInstalled, StateUnavailable:
		return m.updateInstall(msg)
	case StateForm:
		return m.updateForm(msg)
	}
	return m, nil
}

func (m Model) onEngine(msg engineMsg) (tea.Model, tea.Cmd) {
	m.Engine = msg.engine
	m.log.WithField("engine", msg.engine).Info("Engine detected")
	switch {
	case msg.engine != types.EngineNone:
		m.State = StateForm
	case m.deps.Installer != nil && m.deps.Installer.Supported():
		m.State = StateOffer
	default:
		m.State = StateUnavailable
	}
	return m, nil
}

// drain moves queued progress values into the bar. The timer re-arms only
// while work is in flight.
func (m Model) drain() (tea.Model, tea.Cmd) {
	m = m.applyQueued()
	if m.Busy() {
		return m, tick()
	}
	return m, nil
}

func (m Model) updateOffer(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "y", "Y", "enter":
		m.State = StateInstalling
		m.Percent = 0
		m.bridge = progress.NewBridge(progress.DefaultCapacity)
		return m, tea.Batch(installCmd(m.deps.Installer, m.bridge), tick())
	case "n", "N", "q", "esc":
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) updateInstall(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case installedMsg:
		m = m.applyQueued()
		if msg.err != nil {
			m.log.WithError(msg.err).Error("Install failed")
			m.Err = msg.err
			m.Notice = "Installation failed."
			m.State = StateUnavailable
			return m, nil
		}
		m.Percent = 100
		m.Err = nil
		m.Notice = "LibreOffice installed. Restart office2pdf to use it."
		m.State = StateInstalled
		return m, nil
	case tea.KeyMsg:
		if m.State != StateInstalling && (msg.String() == "q" || msg.String() == "enter" || msg.String() == "esc") {
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m Model) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case convertedMsg:
		m = m.applyQueued()
		m.Converting = false
		m.Converted++
		m.Err = nil
		m.LastOutput = msg.result.OutputPath
		m.Notice = fmt.Sprintf("Converted to %s", msg.result.OutputPath)
		if msg.result.Pages > 0 {
			m.Notice += fmt.Sprintf(" (%d pages)", msg.result.Pages)
		}
		return m, nil

	case convertFailedMsg:
		m = m.applyQueued()
		m.Converting = false
		m.Failed++
		m.Err = msg.err
		m.Notice = fmt.Sprintf("Could not convert %s.", filepath.Base(msg.source))
		return m, nil

	case openedMsg:
		if msg.err != nil {
			m.Err = msg.err
			m.Notice = "Could not open the PDF."
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "tab", "down", "shift+tab", "up":
			if msg.String() == "tab" || msg.String() == "down" {
				m.Focus = (m.Focus + 1) % focusCount
			} else {
				m.Focus = (m.Focus - 1 + focusCount) % focusCount
			}
			return m, m.syncFocus()
		case "enter":
			switch m.Focus {
			case focusStart:
				return m.start()
			case focusOpen:
				return m.open()
			default:
				m.Focus++
				return m, m.syncFocus()
			}
		case "ctrl+s":
			return m.start()
		case "ctrl+o":
			return m.open()
		}
	}

	var cmds []tea.Cmd
	for i := range m.Inputs {
		var cmd tea.Cmd
		m.Inputs[i], cmd = m.Inputs[i].Update(msg)
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

// syncFocus focuses the input under the cursor and blurs the rest.
func (m *Model) syncFocus() tea.Cmd {
	var cmd tea.Cmd
	for i := range m.Inputs {
		if i == m.Focus {
			cmd = m.Inputs[i].Focus()
			m.Inputs[i].TextStyle = focusedStyle
		} else {
			m.Inputs[i].Blur()
			m.Inputs[i].TextStyle = lipgloss.NewStyle()
		}
	}
	return cmd
}

// start launches a conversion of the picked source. A trigger while one is
// already running is rejected.
func (m Model) start() (tea.Model, tea.Cmd) {
	if m.Converting {
		m.Notice = "A conversion is already running."
		return m, nil
	}

	src := strings.TrimSpace(m.Inputs[focusSource].Value())
	outDir := strings.TrimSpace(m.Inputs[focusOutput].Value())
	if src == "" {
		m.Notice = "Choose a source document first."
		return m, nil
	}
	if outDir == "" {
		m.Notice = "Choose an output directory first."
		return m, nil
	}

	req := types.NewRequest(src, outDir)
	m.log.WithFields(logrus.Fields{"request": req.ID, "source": src}).Info("Starting conversion")

	m.Converting = true
	m.Percent = 0
	m.Err = nil
	m.Notice = fmt.Sprintf("Converting %s ...", filepath.Base(src))
	m.bridge = progress.NewBridge(progress.DefaultCapacity)
	return m, tea.Batch(convertCmd(m.deps.Converter, req, m.bridge, m.deps.Record), tick())
}

func (m Model) open() (tea.Model, tea.Cmd) {
	if m.LastOutput == "" {
		m.Notice = "Nothing converted yet."
		return m, nil
	}
	return m, openCmd(m.deps.Open, m.LastOutput)
}

// applyQueued moves any queued progress values into Percent.
func (m Model) applyQueued() Model {
	if m.bridge == nil {
		return m
	}
	for _, v := range m.bridge.Drain() {
		if v > m.Percent {
			m.Percent = v
		}
	}
	return m
}
