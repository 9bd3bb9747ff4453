package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/gantryd/gantry/internal/container"
	"github.com/gantryd/gantry/internal/lifecycle"
)

// ContainerState tracks one watched container in the TUI
type ContainerState struct {
	Name    string
	State   lifecycle.State
	Err     string
	Changed time.Time
}

// Model is the bubbletea model for the watch TUI
type Model struct {
	// Configuration
	Client   container.Client
	Names    []string
	Interval time.Duration
	Styles   Styles

	// State
	Containers map[string]*ContainerState
	StartTime  time.Time
	Width      int
	Height     int

	// Control
	Quitting bool
}

// NewModel creates a new watch model polling the given containers
func NewModel(client container.Client, names []string, interval time.Duration) *Model {
	containers := make(map[string]*ContainerState, len(names))
	for _, name := range names {
		containers[name] = &ContainerState{Name: name}
	}
	return &Model{
		Client:     client,
		Names:      names,
		Interval:   interval,
		Styles:     DefaultStyles(),
		Containers: containers,
		StartTime:  time.Now(),
	}
}

// Init implements tea.Model
func (m *Model) Init() tea.Cmd {
	cmds := make([]tea.Cmd, 0, len(m.Names)+1)
	for _, name := range m.Names {
		cmds = append(cmds, m.probeCmd(name))
	}
	cmds = append(cmds, tickCmd(m.Interval))
	return tea.Batch(cmds...)
}

// TickMsg drives the poll cycle and the elapsed timer
type TickMsg time.Time

func tickCmd(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// StateMsg carries one container's probed state
type StateMsg struct {
	Name  string
	State lifecycle.State
	Err   string
}

// probeCmd probes a single container off the update loop
func (m *Model) probeCmd(name string) tea.Cmd {
	client := m.Client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		state, err := lifecycle.Probe(ctx, client, name)
		msg := StateMsg{Name: name, State: state}
		if err != nil {
			msg.Err = err.Error()
		}
		return msg
	}
}
