// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	focusedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	noticeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

	footerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			PaddingTop(1)

	buttonStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFF7DB")).
			Background(lipgloss.Color("#888B7E")).
			Padding(0, 3).
			MarginRight(2)

	activeButtonStyle = buttonStyle.
				Background(lipgloss.Color("#F25D94"))

	disabledButtonStyle = buttonStyle.
				Foreground(lipgloss.Color("245")).
				Background(lipgloss.Color("238"))
)

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(fmt.Sprintf("office2pdf · engine: %s", m.Engine)) + "\n\n")

	switch m.State {
	case StateProbing:
		b.WriteString(mutedStyle.Render("Looking for a conversion engine...") + "\n")
	case StateOffer:
		b.WriteString("No conversion engine was found.\n\n")
		b.WriteString("Download and install LibreOffice now? [y/n]\n")
	case StateInstalling:
		b.WriteString("Downloading and installing LibreOffice...\n\n")
		b.WriteString(m.bar.ViewAs(float64(m.Percent)/100) + "\n")
	case StateInstalled, StateUnavailable:
		if m.State == StateUnavailable && m.Err == nil {
			b.WriteString("No conversion engine was found. Install Microsoft Office, WPS Office, or LibreOffice and restart.\n")
		}
		b.WriteString(m.viewStatus())
		b.WriteString(footerStyle.Render("q: quit"))
	case StateForm:
		b.WriteString(m.viewForm())
	}
	return b.String()
}

func (m Model) viewForm() string {
	var b strings.Builder

	for _, in := range m.Inputs {
		b.WriteString(in.View() + "\n")
	}
	b.WriteString("\n")

	start := buttonStyle
	switch {
	case m.Converting:
		start = disabledButtonStyle
	case m.Focus == focusStart:
		start = activeButtonStyle
	}
	open := buttonStyle
	switch {
	case m.LastOutput == "":
		open = disabledButtonStyle
	case m.Focus == focusOpen:
		open = activeButtonStyle
	}
	b.WriteString(start.Render("Convert") + open.Render("Open PDF") + "\n\n")

	b.WriteString(m.bar.ViewAs(float64(m.Percent)/100) + "\n")
	b.WriteString(m.viewStatus())

	if m.Converted+m.Failed > 0 {
		b.WriteString(mutedStyle.Render(fmt.Sprintf("%d converted, %d failed", m.Converted, m.Failed)) + "\n")
	}
	b.WriteString(footerStyle.Render("tab: move • enter: select • ctrl+s: convert • ctrl+o: open PDF • ctrl+c: quit"))
	return b.String()
}

func (m Model) viewStatus() string {
	var b strings.Builder
	if m.Notice != "" {
		b.WriteString("\n" + noticeStyle.Render(m.Notice) + "\n")
	}
	if m.Err != nil {
		b.WriteString(errorStyle.Render("Error: "+m.Err.Error()) + "\n")
	}
	return b.String()
}
