package info

import (
	"strings"
	"testing"
	"time"

	"github.com/usagelab/tokenscope/internal/app"
	"github.com/usagelab/tokenscope/internal/config"
	"github.com/usagelab/tokenscope/internal/models"
)

func TestView_WithConfig(t *testing.T) {
	state := app.NewState()
	state.SetSummary(&models.UsageSummary{ActiveAccounts: 3})

	m := New(state, &config.Config{
		DatabasePath:         "/tmp/tokenscope.db",
		UsageLogPath:         "/tmp/usage.jsonl",
		RefreshInterval:      30 * time.Second,
		AlertThresholdTokens: 2_000_000,
	})
	m.SetSize(100, 40)

	view := m.View()
	for _, want := range []string{
		"Configuration",
		"/tmp/tokenscope.db",
		"/tmp/usage.jsonl",
		"30s",
		"2.0M",
		"About Tokenscope",
		"Active accounts",
	} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestView_WithoutConfig(t *testing.T) {
	m := New(app.NewState(), nil)
	m.SetSize(100, 40)

	if !strings.Contains(m.View(), "Configuration not loaded") {
		t.Error("view should note missing configuration")
	}
}

func TestView_ThresholdDisabled(t *testing.T) {
	m := New(app.NewState(), &config.Config{DatabasePath: "/tmp/db"})
	m.SetSize(100, 40)

	if !strings.Contains(m.View(), "disabled") {
		t.Error("zero threshold should render as disabled")
	}
}
