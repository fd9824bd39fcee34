package app

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/usagelab/tokenscope/internal/models"
	"github.com/usagelab/tokenscope/internal/services"
)

const (
	// DefaultTickInterval is the default interval between ticks.
	DefaultTickInterval = 2 * time.Second

	// DefaultNotificationDuration is the default duration for notifications.
	DefaultNotificationDuration = 5 * time.Second

	// QuickNotificationDuration is for brief notifications.
	QuickNotificationDuration = 3 * time.Second

	// LongNotificationDuration is for important notifications.
	LongNotificationDuration = 10 * time.Second

	// RecentEventsLimit caps the raw event list on the accounts tab.
	RecentEventsLimit = 50
)

// tickCmd returns a command that sends a TickMsg after the specified interval.
func tickCmd(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg{Time: t}
	})
}

// defaultTickCmd returns a command that sends a TickMsg after the default interval.
func defaultTickCmd() tea.Cmd {
	return tickCmd(DefaultTickInterval)
}

// loadTrendCmd fetches the trend series for the given granularity.
// This is the primary refresh fetch; the window fetches follow it.
func loadTrendCmd(mgr *services.Manager, g models.Granularity) tea.Cmd {
	return func() tea.Msg {
		periods, err := mgr.Stats().Trend(g)
		return TrendLoadedMsg{
			Granularity: g,
			Periods:     periods,
			Error:       err,
		}
	}
}

// loadByAccountCmd fetches the per-account breakdown for the granularity's window.
func loadByAccountCmd(mgr *services.Manager, g models.Granularity) tea.Cmd {
	return func() tea.Msg {
		accounts, err := mgr.Stats().ByAccount(g.WindowHours())
		return ByAccountLoadedMsg{
			Accounts: accounts,
			Error:    err,
		}
	}
}

// loadSummaryCmd fetches the aggregate summary for the granularity's window.
func loadSummaryCmd(mgr *services.Manager, g models.Granularity) tea.Cmd {
	return func() tea.Msg {
		summary, err := mgr.Stats().Summary(g.WindowHours())
		return SummaryLoadedMsg{
			Summary: summary,
			Error:   err,
		}
	}
}

// loadWindowCmd runs the two follow-up fetches concurrently.
func loadWindowCmd(mgr *services.Manager, g models.Granularity) tea.Cmd {
	return tea.Batch(
		loadByAccountCmd(mgr, g),
		loadSummaryCmd(mgr, g),
	)
}

// loadRecentEventsCmd fetches the latest raw usage events.
func loadRecentEventsCmd(mgr *services.Manager) tea.Cmd {
	return func() tea.Msg {
		events, err := mgr.Database().RecentUsageEvents(RecentEventsLimit)
		return RecentEventsLoadedMsg{
			Events: events,
			Error:  err,
		}
	}
}

// subscribeToServicesCmd returns a command that subscribes to service events.
func subscribeToServicesCmd(mgr *services.Manager) tea.Cmd {
	ch, _ := mgr.Subscribe()
	return func() tea.Msg {
		return SubscriptionEventMsg{Channel: ch}
	}
}

// waitForServiceEventCmd returns a command that waits for the next service event.
func waitForServiceEventCmd(ch <-chan services.ServiceEvent) tea.Cmd {
	return func() tea.Msg {
		event, ok := <-ch
		if !ok {
			return nil
		}
		return ServiceEventMsg{Event: event}
	}
}

// clearNotificationCmd returns a command that removes a notification after a delay.
func clearNotificationCmd(id string, delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(_ time.Time) tea.Msg {
		return RemoveNotificationMsg{ID: id}
	})
}

// notifySuccessCmd returns a command that adds a success notification.
func notifySuccessCmd(message string) tea.Cmd {
	return func() tea.Msg {
		return AddNotificationMsg{
			Type:     NotificationSuccess,
			Message:  message,
			Duration: DefaultNotificationDuration,
		}
	}
}

// notifyErrorCmd returns a command that adds an error notification.
func notifyErrorCmd(message string) tea.Cmd {
	return func() tea.Msg {
		return AddNotificationMsg{
			Type:     NotificationError,
			Message:  message,
			Duration: LongNotificationDuration,
		}
	}
}

// notifyWarningCmd returns a command that adds a warning notification.
func notifyWarningCmd(message string) tea.Cmd {
	return func() tea.Msg {
		return AddNotificationMsg{
			Type:     NotificationWarning,
			Message:  message,
			Duration: DefaultNotificationDuration,
		}
	}
}

// notifyInfoCmd returns a command that adds an info notification.
func notifyInfoCmd(message string) tea.Cmd {
	return func() tea.Msg {
		return AddNotificationMsg{
			Type:     NotificationInfo,
			Message:  message,
			Duration: QuickNotificationDuration,
		}
	}
}

// Commands provides a public interface to the command functions for tabs.
type Commands struct {
	manager *services.Manager
}

// NewCommands creates a new Commands instance.
func NewCommands(mgr *services.Manager) *Commands {
	return &Commands{manager: mgr}
}

// Refresh returns a command that requests a full dashboard refresh.
func (c *Commands) Refresh() tea.Cmd {
	return func() tea.Msg {
		return RefreshMsg{}
	}
}

// ChangeGranularity returns a command that switches the trend granularity.
func (c *Commands) ChangeGranularity(g models.Granularity) tea.Cmd {
	return func() tea.Msg {
		return GranularityChangedMsg{Granularity: g}
	}
}

// LoadRecentEvents returns a command that fetches the latest raw events.
func (c *Commands) LoadRecentEvents() tea.Cmd {
	return loadRecentEventsCmd(c.manager)
}

// NotifySuccess returns a command that adds a success notification.
func (c *Commands) NotifySuccess(message string) tea.Cmd {
	return notifySuccessCmd(message)
}

// NotifyError returns a command that adds an error notification.
func (c *Commands) NotifyError(message string) tea.Cmd {
	return notifyErrorCmd(message)
}

// NotifyWarning returns a command that adds a warning notification.
func (c *Commands) NotifyWarning(message string) tea.Cmd {
	return notifyWarningCmd(message)
}

// NotifyInfo returns a command that adds an info notification.
func (c *Commands) NotifyInfo(message string) tea.Cmd {
	return notifyInfoCmd(message)
}
