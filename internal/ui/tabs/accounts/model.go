// Package accounts provides the per-account usage tab.
package accounts

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/usagelab/tokenscope/internal/app"
	"github.com/usagelab/tokenscope/internal/models"
)

// keyMap defines the key bindings specific to the accounts tab.
type keyMap struct {
	NextAccount key.Binding
	PrevAccount key.Binding
	First       key.Binding
	Last        key.Binding
}

// defaultKeyMap returns the default key bindings for the accounts tab.
func defaultKeyMap() keyMap {
	return keyMap{
		NextAccount: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "next account"),
		),
		PrevAccount: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "prev account"),
		),
		First: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "first account"),
		),
		Last: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "last account"),
		),
	}
}

// Model represents the accounts tab state.
type Model struct {
	state    *app.State
	commands *app.Commands
	keys     keyMap
	viewport viewport.Model
	width    int
	height   int

	selectedIndex int
	recentEvents  []models.UsageEvent
	recentError   error
}

// New creates a new accounts tab model.
func New(state *app.State, commands *app.Commands) *Model {
	return &Model{
		state:    state,
		commands: commands,
		keys:     defaultKeyMap(),
		viewport: viewport.New(0, 0),
	}
}

// Init initializes the accounts tab.
func (m *Model) Init() tea.Cmd {
	if m.commands == nil {
		return nil
	}
	return m.commands.LoadRecentEvents()
}

// Update handles messages and updates the model.
func (m *Model) Update(msg tea.Msg) (app.Tab, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case app.RecentEventsLoadedMsg:
		if msg.Error != nil {
			m.recentError = msg.Error
		} else {
			m.recentError = nil
			m.recentEvents = msg.Events
		}

	case app.ByAccountLoadedMsg:
		// Reload the raw event list alongside the aggregate refresh
		if msg.Error == nil && m.commands != nil {
			cmds = append(cmds, m.commands.LoadRecentEvents())
		}
		m.clampSelection()

	case tea.KeyMsg:
		cmds = append(cmds, m.handleKeyMsg(msg))
	}

	return m, tea.Batch(cmds...)
}

func (m *Model) handleKeyMsg(msg tea.KeyMsg) tea.Cmd {
	count := len(m.state.GetAccounts())

	switch {
	case key.Matches(msg, m.keys.NextAccount):
		if count > 0 {
			m.selectedIndex = (m.selectedIndex + 1) % count
		}
	case key.Matches(msg, m.keys.PrevAccount):
		if count > 0 {
			m.selectedIndex = (m.selectedIndex - 1 + count) % count
		}
	case key.Matches(msg, m.keys.First):
		m.selectedIndex = 0
	case key.Matches(msg, m.keys.Last):
		if count > 0 {
			m.selectedIndex = count - 1
		}
	default:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return cmd
	}
	return nil
}

func (m *Model) clampSelection() {
	count := len(m.state.GetAccounts())
	if count == 0 {
		m.selectedIndex = 0
		return
	}
	if m.selectedIndex >= count {
		m.selectedIndex = count - 1
	}
}

// SetSize sets the available size for the accounts tab.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height
}

// ShortHelp returns key bindings for the short help view.
func (m *Model) ShortHelp() []key.Binding {
	return []key.Binding{m.keys.NextAccount, m.keys.PrevAccount}
}

// FullHelp returns key bindings for the full help view.
func (m *Model) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{m.keys.NextAccount, m.keys.PrevAccount},
		{m.keys.First, m.keys.Last},
	}
}
