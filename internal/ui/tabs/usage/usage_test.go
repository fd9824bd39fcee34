package usage

import (
	"fmt"
	"strings"
	"testing"

	"github.com/usagelab/tokenscope/internal/app"
	"github.com/usagelab/tokenscope/internal/models"
)

func newLoadedState() *app.State {
	state := app.NewState()
	state.SetTrend([]models.PeriodUsage{
		{Period: "2026-08-22 09:00", TotalTokens: 1000, RequestCount: 4},
		{Period: "2026-08-22 10:00", TotalTokens: 2500, RequestCount: 9},
	})
	state.SetAccounts([]models.AccountUsage{
		{Email: "alice@example.com", TotalInputTokens: 2000, TotalOutputTokens: 1000, TotalTokens: 3000, RequestCount: 10},
		{Email: "bob@example.com", TotalInputTokens: 300, TotalOutputTokens: 200, TotalTokens: 500, RequestCount: 3},
	})
	state.SetSummary(&models.UsageSummary{
		TotalInputTokens:  2300,
		TotalOutputTokens: 1200,
		TotalTokens:       3500,
		RequestCount:      13,
		ActiveAccounts:    2,
	})
	return state
}

func TestView_InitialLoading(t *testing.T) {
	m := New(app.NewState())
	m.SetSize(100, 30)

	view := m.View()
	if view == "" {
		t.Fatal("loading view should not be empty")
	}
	if strings.Contains(view, "Token Usage") {
		t.Error("dashboard content should not render while initial loading")
	}
}

func TestView_RendersAllSections(t *testing.T) {
	m := New(newLoadedState())
	m.SetSize(120, 50)

	view := m.View()
	for _, want := range []string{
		"Token Usage",
		"hourly (24h)",
		"daily (7d)",
		"weekly (4w)",
		"Trend (hourly)",
		"By Account",
		"Details",
		"alice@example.com",
		"bob@example.com",
	} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestView_TilesShowCompactedTotals(t *testing.T) {
	m := New(newLoadedState())
	m.SetSize(120, 50)

	view := m.View()
	for _, want := range []string{"3.5K", "2.3K", "1.2K", "13"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing tile value %q", want)
		}
	}
}

func TestView_FoldsAccountsPastCap(t *testing.T) {
	state := newLoadedState()

	accounts := make([]models.AccountUsage, 12)
	for i := range accounts {
		accounts[i] = models.AccountUsage{
			Email:       fmt.Sprintf("user%02d@example.com", i),
			TotalTokens: int64((12 - i) * 1000),
		}
	}
	state.SetAccounts(accounts)

	m := New(state)
	m.SetSize(120, 60)

	view := m.View()
	if !strings.Contains(view, "others") {
		t.Error("proportion view should fold the tail into an others entry")
	}
}

func TestView_GranularitySelectorTracksState(t *testing.T) {
	state := newLoadedState()
	state.SetGranularity(models.GranularityWeekly)

	m := New(state)
	m.SetSize(120, 50)

	if !strings.Contains(m.View(), "Trend (weekly)") {
		t.Error("trend card should reflect the selected granularity")
	}
}

func TestShortHelp(t *testing.T) {
	m := New(app.NewState())
	if len(m.ShortHelp()) == 0 {
		t.Error("ShortHelp should list bindings")
	}
}
