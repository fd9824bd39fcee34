// Package app provides the main Bubble Tea application model and state management.
package app

import (
	"sync"
	"time"

	"github.com/usagelab/tokenscope/internal/models"
)

// NotificationType defines the type of notification.
type NotificationType int

const (
	// NotificationSuccess represents a success notification.
	NotificationSuccess NotificationType = iota
	// NotificationError represents an error notification.
	NotificationError
	// NotificationWarning represents a warning notification.
	NotificationWarning
	// NotificationInfo represents an informational notification.
	NotificationInfo
	// NotificationLoading represents a loading notification with spinner.
	NotificationLoading
)

const (
	// LoadingNotificationID is the fixed ID for loading notifications.
	LoadingNotificationID = "__loading__"
)

// String returns the string representation of a NotificationType.
func (n NotificationType) String() string {
	switch n {
	case NotificationSuccess:
		return "success"
	case NotificationError:
		return "error"
	case NotificationWarning:
		return "warning"
	case NotificationInfo:
		return "info"
	default:
		return "unknown"
	}
}

// Notification represents a user-facing notification message.
type Notification struct {
	ID        string
	Type      NotificationType
	Message   string
	CreatedAt time.Time
	Duration  time.Duration
}

// IsExpired returns true if the notification has expired.
func (n *Notification) IsExpired() bool {
	if n.Duration <= 0 {
		return false
	}
	return time.Since(n.CreatedAt) > n.Duration
}

// LoadingState tracks in-flight fetches per resource.
type LoadingState struct {
	Initial   bool
	Trend     bool
	ByAccount bool
	Summary   bool
}

// State is the shared application state read by all tabs.
type State struct {
	mu sync.RWMutex

	// Granularity selects the trend bucketing and the derived window.
	Granularity models.Granularity

	Trend    []models.PeriodUsage
	Accounts []models.AccountUsage
	Summary  *models.UsageSummary

	Loading LoadingState

	LastUpdated time.Time

	notifications   []Notification
	notificationSeq int
}

// NewState creates the initial application state.
func NewState() *State {
	return &State{
		Granularity:   models.GranularityHourly,
		Trend:         make([]models.PeriodUsage, 0),
		Accounts:      make([]models.AccountUsage, 0),
		notifications: make([]Notification, 0),
		Loading: LoadingState{
			Initial: true,
		},
	}
}

// SetLoading sets the loading state for a specific resource.
func (s *State) SetLoading(resource string, loading bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch resource {
	case "initial":
		s.Loading.Initial = loading
	case "trend":
		s.Loading.Trend = loading
	case "accounts":
		s.Loading.ByAccount = loading
	case "summary":
		s.Loading.Summary = loading
	}
}

// StartRefresh marks all three fetches as in flight.
func (s *State) StartRefresh() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Loading.Trend = true
	s.Loading.ByAccount = true
	s.Loading.Summary = true
}

// RefreshInProgress reports whether any of the three fetches is in flight.
// Manual and automatic refreshes are ignored while one is running.
func (s *State) RefreshInProgress() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Loading.Trend || s.Loading.ByAccount || s.Loading.Summary
}

// AnyLoading returns true if any resource is currently loading.
func (s *State) AnyLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.Loading.Initial ||
		s.Loading.Trend ||
		s.Loading.ByAccount ||
		s.Loading.Summary
}

// IsInitialLoading returns true if initial data is still loading.
func (s *State) IsInitialLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Loading.Initial
}

// GetGranularity returns the current trend granularity.
func (s *State) GetGranularity() models.Granularity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Granularity
}

// SetGranularity switches the trend granularity.
func (s *State) SetGranularity(g models.Granularity) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Granularity = g
}

// SetTrend stores the trend series and clears its loading flag.
func (s *State) SetTrend(periods []models.PeriodUsage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Trend = periods
	s.Loading.Trend = false
	s.Loading.Initial = false
	s.LastUpdated = time.Now()
}

// GetTrend returns a copy of the trend series.
func (s *State) GetTrend() []models.PeriodUsage {
	s.mu.RLock()
	defer s.mu.RUnlock()

	trend := make([]models.PeriodUsage, len(s.Trend))
	copy(trend, s.Trend)
	return trend
}

// SetAccounts stores the per-account breakdown and clears its loading flag.
func (s *State) SetAccounts(accounts []models.AccountUsage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Accounts = accounts
	s.Loading.ByAccount = false
	s.LastUpdated = time.Now()
}

// GetAccounts returns a copy of the per-account breakdown.
func (s *State) GetAccounts() []models.AccountUsage {
	s.mu.RLock()
	defer s.mu.RUnlock()

	accounts := make([]models.AccountUsage, len(s.Accounts))
	copy(accounts, s.Accounts)
	return accounts
}

// SetSummary stores the window summary and clears its loading flag.
func (s *State) SetSummary(summary *models.UsageSummary) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Summary = summary
	s.Loading.Summary = false
	s.LastUpdated = time.Now()
}

// GetSummary returns the current window summary.
func (s *State) GetSummary() *models.UsageSummary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Summary
}

// AddNotification adds a new notification and returns its ID.
func (s *State) AddNotification(notifType NotificationType, message string, duration time.Duration) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.notificationSeq++
	id := time.Now().Format("20060102150405") + "-" + string(rune('A'+s.notificationSeq%26))

	notification := Notification{
		ID:        id,
		Type:      notifType,
		Message:   message,
		CreatedAt: time.Now(),
		Duration:  duration,
	}

	s.notifications = append(s.notifications, notification)

	// Keep only the last 10 notifications
	if len(s.notifications) > 10 {
		s.notifications = s.notifications[len(s.notifications)-10:]
	}

	return id
}

// RemoveNotification removes a notification by ID.
func (s *State) RemoveNotification(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, n := range s.notifications {
		if n.ID == id {
			s.notifications = append(s.notifications[:i], s.notifications[i+1:]...)
			return
		}
	}
}

// ClearExpiredNotifications removes all expired notifications.
func (s *State) ClearExpiredNotifications() {
	s.mu.Lock()
	defer s.mu.Unlock()

	active := make([]Notification, 0, len(s.notifications))
	for _, n := range s.notifications {
		if !n.IsExpired() {
			active = append(active, n)
		}
	}
	s.notifications = active
}

// GetNotifications returns a copy of all active notifications.
func (s *State) GetNotifications() []Notification {
	s.mu.RLock()
	defer s.mu.RUnlock()

	active := make([]Notification, 0, len(s.notifications))
	for _, n := range s.notifications {
		if !n.IsExpired() {
			active = append(active, n)
		}
	}

	return active
}

// ClearAllNotifications removes all notifications.
func (s *State) ClearAllNotifications() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifications = make([]Notification, 0)
}

// SetLoadingNotification sets a loading notification message.
func (s *State) SetLoadingNotification(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, n := range s.notifications {
		if n.ID == LoadingNotificationID {
			s.notifications[i].Message = message
			return
		}
	}

	s.notifications = append(s.notifications, Notification{
		ID:        LoadingNotificationID,
		Type:      NotificationLoading,
		Message:   message,
		CreatedAt: time.Now(),
		Duration:  0,
	})
}

// ClearLoadingNotification removes the loading notification.
func (s *State) ClearLoadingNotification() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, n := range s.notifications {
		if n.ID == LoadingNotificationID {
			s.notifications = append(s.notifications[:i], s.notifications[i+1:]...)
			return
		}
	}
}

// GetLastUpdated returns the last time the state was updated.
func (s *State) GetLastUpdated() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.LastUpdated
}

// TimeSinceUpdate returns the duration since the last update.
func (s *State) TimeSinceUpdate() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.LastUpdated.IsZero() {
		return 0
	}
	return time.Since(s.LastUpdated)
}
