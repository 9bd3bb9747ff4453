package tui

import "github.com/charmbracelet/lipgloss"

// Styles contains all lipgloss styles for the watch TUI
type Styles struct {
	// Header styling
	Title lipgloss.Style
	Timer lipgloss.Style

	// Container row styling
	Name         lipgloss.Style
	StateRunning lipgloss.Style
	StateStopped lipgloss.Style
	StateAbsent  lipgloss.Style
	StateUnknown lipgloss.Style
	ProbeError   lipgloss.Style

	// Footer styling
	Footer    lipgloss.Style
	FooterKey lipgloss.Style
}

// DefaultStyles returns the default watch TUI styles
func DefaultStyles() Styles {
	return Styles{
		Title: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		Timer: lipgloss.NewStyle().Foreground(lipgloss.Color("245")),

		Name:         lipgloss.NewStyle().Bold(true),
		StateRunning: lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		StateStopped: lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		StateAbsent:  lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		StateUnknown: lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
		ProbeError:   lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Italic(true),

		Footer:    lipgloss.NewStyle().Foreground(lipgloss.Color("245")).MarginTop(1),
		FooterKey: lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true),
	}
}

// Icons used in the watch TUI
const (
	IconRunning = "●"
	IconStopped = "○"
	IconAbsent  = "✗"
	IconUnknown = "?"
)
