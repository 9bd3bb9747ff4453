package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// Update implements tea.Model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.Quitting = true
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height

	case TickMsg:
		cmds := make([]tea.Cmd, 0, len(m.Names)+1)
		for _, name := range m.Names {
			cmds = append(cmds, m.probeCmd(name))
		}
		cmds = append(cmds, tickCmd(m.Interval))
		return m, tea.Batch(cmds...)

	case StateMsg:
		if c, ok := m.Containers[msg.Name]; ok {
			if c.State != msg.State {
				c.Changed = time.Now()
			}
			c.State = msg.State
			c.Err = msg.Err
		}
	}

	return m, nil
}
