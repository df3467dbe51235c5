// Package live provides the live calls tab showing the latest call and
// recent activity.
package live

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/m-reyes/broadcastify-calls-tui/internal/app"
	"github.com/m-reyes/broadcastify-calls-tui/internal/ui/components"
)

// keyMap defines the key bindings specific to the live tab.
type keyMap struct {
	NextCall  key.Binding
	PrevCall  key.Binding
	FirstCall key.Binding
	LastCall  key.Binding
	Play      key.Binding
	Stop      key.Binding
}

// defaultKeyMap returns the default key bindings for the live tab.
func defaultKeyMap() keyMap {
	return keyMap{
		NextCall: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "next call"),
		),
		PrevCall: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "prev call"),
		),
		FirstCall: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "newest call"),
		),
		LastCall: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "oldest call"),
		),
		Play: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "play selected"),
		),
		Stop: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "stop playback"),
		),
	}
}

// Model represents the live tab state.
type Model struct {
	state         *app.State
	spinner       components.LoadingSpinner
	keys          keyMap
	viewport      viewport.Model
	width         int
	height        int
	selectedIndex int
}

// New creates a new live tab model.
func New(state *app.State) *Model {
	return &Model{
		state:    state,
		spinner:  components.NewSpinner("Waiting for calls..."),
		keys:     defaultKeyMap(),
		viewport: viewport.New(0, 0),
	}
}

// Init initializes the model.
func (m *Model) Init() tea.Cmd {
	return m.spinner.Init()
}

// Update handles messages and updates the model.
func (m *Model) Update(msg tea.Msg) (app.Tab, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if cmd := m.handleKeyMsg(msg); cmd != nil {
			cmds = append(cmds, cmd)
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m *Model) handleKeyMsg(msg tea.KeyMsg) tea.Cmd {
	calls := m.state.GetRecentCalls()
	callCount := len(calls)

	switch {
	case key.Matches(msg, m.keys.NextCall):
		if callCount > 0 {
			m.selectedIndex = (m.selectedIndex + 1) % callCount
		}
	case key.Matches(msg, m.keys.PrevCall):
		if callCount > 0 {
			m.selectedIndex = (m.selectedIndex - 1 + callCount) % callCount
		}
	case key.Matches(msg, m.keys.FirstCall):
		m.selectedIndex = 0
	case key.Matches(msg, m.keys.LastCall):
		if callCount > 0 {
			m.selectedIndex = callCount - 1
		}
	case key.Matches(msg, m.keys.Play):
		if m.selectedIndex < callCount {
			call := calls[m.selectedIndex]
			return func() tea.Msg {
				return app.PlayCallMsg{Call: call}
			}
		}
	case key.Matches(msg, m.keys.Stop):
		return func() tea.Msg {
			return app.StopPlaybackMsg{}
		}
	default:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return cmd
	}
	return nil
}

// SetSize sets the available size for the live tab.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height
}

// ShortHelp returns the key bindings for the short help view.
func (m *Model) ShortHelp() []key.Binding {
	return []key.Binding{
		m.keys.NextCall,
		m.keys.PrevCall,
		m.keys.Play,
		m.keys.Stop,
	}
}
