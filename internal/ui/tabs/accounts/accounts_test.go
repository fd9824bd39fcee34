package accounts

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/usagelab/tokenscope/internal/app"
	"github.com/usagelab/tokenscope/internal/models"
)

func newTestModel() *Model {
	state := app.NewState()
	state.SetAccounts([]models.AccountUsage{
		{Email: "alice@example.com", TotalInputTokens: 600, TotalOutputTokens: 400, TotalTokens: 1000, RequestCount: 5},
		{Email: "bob@example.com", TotalInputTokens: 60, TotalOutputTokens: 40, TotalTokens: 100, RequestCount: 1},
	})

	m := New(state, nil)
	m.SetSize(120, 40)
	return m
}

func TestView_ListsAccounts(t *testing.T) {
	m := newTestModel()

	view := m.View()
	for _, want := range []string{"Accounts", "alice@example.com", "bob@example.com", "Recent Events"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestSelectionKeys(t *testing.T) {
	m := newTestModel()

	m.handleKeyMsg(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}})
	if m.selectedIndex != 1 {
		t.Errorf("selectedIndex = %d, want 1", m.selectedIndex)
	}

	m.handleKeyMsg(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}})
	if m.selectedIndex != 0 {
		t.Errorf("selectedIndex = %d, want wraparound to 0", m.selectedIndex)
	}

	m.handleKeyMsg(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'G'}})
	if m.selectedIndex != 1 {
		t.Errorf("selectedIndex = %d, want 1", m.selectedIndex)
	}
}

func TestRecentEventsLoaded(t *testing.T) {
	m := newTestModel()

	events := []models.UsageEvent{
		{Timestamp: time.Now(), Email: "alice@example.com", Model: "gemini-pro", InputTokens: 100, OutputTokens: 50},
	}
	m.Update(app.RecentEventsLoadedMsg{Events: events})

	view := m.View()
	if !strings.Contains(view, "gemini-pro") {
		t.Error("view should list recent events")
	}
}

func TestRecentEventsError(t *testing.T) {
	m := newTestModel()

	m.Update(app.RecentEventsLoadedMsg{Error: errors.New("db closed")})

	if !strings.Contains(m.View(), "Failed to load events") {
		t.Error("view should surface the load error")
	}
}

func TestClampSelection(t *testing.T) {
	m := newTestModel()
	m.selectedIndex = 5

	m.Update(app.ByAccountLoadedMsg{})
	if m.selectedIndex != 1 {
		t.Errorf("selectedIndex = %d, want clamped to 1", m.selectedIndex)
	}
}
