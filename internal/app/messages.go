package app

import (
	"time"

	"github.com/usagelab/tokenscope/internal/models"
	"github.com/usagelab/tokenscope/internal/services"
)

// TickMsg is sent periodically to trigger housekeeping and auto refresh.
type TickMsg struct {
	Time time.Time
}

// StartLoadingMsg signals that a resource is starting to load.
type StartLoadingMsg struct {
	Resource string
}

// StopLoadingMsg signals that a resource has finished loading.
type StopLoadingMsg struct {
	Resource string
}

// RefreshMsg requests a refresh of the dashboard data. The trend fetch
// runs first; the per-account and summary fetches follow once it lands.
type RefreshMsg struct{}

// TrendLoadedMsg carries the trend series for the selected granularity.
type TrendLoadedMsg struct {
	Granularity models.Granularity
	Periods     []models.PeriodUsage
	Error       error
}

// ByAccountLoadedMsg carries the per-account breakdown for the window.
type ByAccountLoadedMsg struct {
	Accounts []models.AccountUsage
	Error    error
}

// SummaryLoadedMsg carries the aggregate summary for the window.
type SummaryLoadedMsg struct {
	Summary *models.UsageSummary
	Error   error
}

// GranularityChangedMsg requests switching the trend granularity.
type GranularityChangedMsg struct {
	Granularity models.Granularity
}

// RecentEventsLoadedMsg carries the latest raw usage events.
type RecentEventsLoadedMsg struct {
	Events []models.UsageEvent
	Error  error
}

// AddNotificationMsg requests adding a new notification.
type AddNotificationMsg struct {
	Type     NotificationType
	Message  string
	Duration time.Duration
}

// RemoveNotificationMsg requests removal of a notification.
type RemoveNotificationMsg struct {
	ID string
}

// ClearExpiredNotificationsMsg triggers clearing of expired notifications.
type ClearExpiredNotificationsMsg struct{}

// ServiceEventMsg wraps a service event from the service manager.
type ServiceEventMsg struct {
	Event services.ServiceEvent
}

// SubscriptionEventMsg is the callback wrapper for service subscription.
type SubscriptionEventMsg struct {
	Channel chan services.ServiceEvent
}

// ErrorMsg represents a general error.
type ErrorMsg struct {
	Error   error
	Context string
}

// TabSwitchMsg requests switching to a specific tab.
type TabSwitchMsg struct {
	Tab TabID
}

// ToggleHelpMsg toggles the help display.
type ToggleHelpMsg struct{}
