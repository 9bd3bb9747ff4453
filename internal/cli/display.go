package cli

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/gantryd/gantry/internal/lifecycle"
)

// StatusSymbol is the glyph shown next to a container state
type StatusSymbol string

const (
	SymbolRunning StatusSymbol = "●"
	SymbolStopped StatusSymbol = "○"
	SymbolAbsent  StatusSymbol = "✗"
	SymbolUnknown StatusSymbol = "?"
)

var (
	styleRunning = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	styleStopped = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	styleAbsent  = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	styleUnknown = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	styleName    = lipgloss.NewStyle().Bold(true)
)

// GetStatusSymbol returns the symbol for a container state
func GetStatusSymbol(state lifecycle.State) StatusSymbol {
	switch state {
	case lifecycle.StateRunning:
		return SymbolRunning
	case lifecycle.StateStopped:
		return SymbolStopped
	case lifecycle.StateAbsent:
		return SymbolAbsent
	default:
		return SymbolUnknown
	}
}

func stateStyle(state lifecycle.State) lipgloss.Style {
	switch state {
	case lifecycle.StateRunning:
		return styleRunning
	case lifecycle.StateStopped:
		return styleStopped
	case lifecycle.StateAbsent:
		return styleAbsent
	default:
		return styleUnknown
	}
}

// FormatStateLine formats one container's status for display
func FormatStateLine(name string, state lifecycle.State) string {
	style := stateStyle(state)
	return fmt.Sprintf("%s %s  %s",
		style.Render(string(GetStatusSymbol(state))),
		styleName.Render(name),
		style.Render(state.String()))
}
