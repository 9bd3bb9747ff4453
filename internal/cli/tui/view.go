package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/gantryd/gantry/internal/lifecycle"
)

// View implements tea.Model
func (m *Model) View() string {
	if m.Quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n\n")

	for _, name := range m.Names {
		b.WriteString(m.renderContainer(m.Containers[name]))
		b.WriteString("\n")
	}

	b.WriteString(m.renderFooter())

	return b.String()
}

// renderHeader renders the title line with the elapsed timer
func (m *Model) renderHeader() string {
	elapsed := time.Since(m.StartTime).Round(time.Second)
	timer := fmt.Sprintf("[%s]", formatDuration(elapsed))

	return fmt.Sprintf("%s  %s",
		m.Styles.Title.Render("Gantry Watch"),
		m.Styles.Timer.Render(timer),
	)
}

// renderContainer renders one watched container's row
func (m *Model) renderContainer(c *ContainerState) string {
	style, icon := m.stateStyle(c.State)

	line := fmt.Sprintf("  %s %s  %s",
		style.Render(icon),
		m.Styles.Name.Render(c.Name),
		style.Render(c.State.String()))

	if c.Err != "" {
		line += "\n      " + m.Styles.ProbeError.Render(c.Err)
	}
	return line
}

func (m *Model) stateStyle(state lifecycle.State) (lipgloss.Style, string) {
	switch state {
	case lifecycle.StateRunning:
		return m.Styles.StateRunning, IconRunning
	case lifecycle.StateStopped:
		return m.Styles.StateStopped, IconStopped
	case lifecycle.StateAbsent:
		return m.Styles.StateAbsent, IconAbsent
	default:
		return m.Styles.StateUnknown, IconUnknown
	}
}

// renderFooter renders the help text
func (m *Model) renderFooter() string {
	key := m.Styles.FooterKey.Render("q")
	return m.Styles.Footer.Render(fmt.Sprintf("  Press %s to quit", key))
}

// formatDuration formats a duration as HH:MM:SS
func formatDuration(d time.Duration) string {
	h := d / time.Hour
	d -= h * time.Hour
	min := d / time.Minute
	d -= min * time.Minute
	s := d / time.Second

	return fmt.Sprintf("%02d:%02d:%02d", h, min, s)
}
