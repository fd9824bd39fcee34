// Package services provides service orchestration for the TUI.
package services

import (
	"fmt"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gen2brain/beeep"

	"github.com/usagelab/tokenscope/internal/config"
	"github.com/usagelab/tokenscope/internal/db"
	"github.com/usagelab/tokenscope/internal/ingest"
	"github.com/usagelab/tokenscope/internal/logger"
	"github.com/usagelab/tokenscope/internal/stats"
)

type (
	// UsageIngestedEvent is emitted when new usage events land in the store.
	UsageIngestedEvent struct {
		Count int
	}

	// ThresholdCrossedEvent is emitted when the 24h token total crosses
	// the configured alert threshold.
	ThresholdCrossedEvent struct {
		TotalTokens int64
		Threshold   int64
	}

	// ErrorEvent is emitted when an error occurs in any service.
	ErrorEvent struct {
		Service string
		Error   error
	}
)

// ServiceEvent is the interface implemented by all service events.
type ServiceEvent interface {
	isServiceEvent()
}

func (UsageIngestedEvent) isServiceEvent()    {}
func (ThresholdCrossedEvent) isServiceEvent() {}
func (ErrorEvent) isServiceEvent()            {}

// Manager orchestrates the store, stats queries, and the log watcher,
// and routes their events to subscribers.
type Manager struct {
	mu             sync.RWMutex
	database       *db.DB
	stats          *stats.Service
	watcher        *ingest.Watcher
	alertThreshold int64
	alerted        bool
	eventChan      chan ServiceEvent
	stopChan       chan struct{}
	subscribers    []chan<- ServiceEvent
}

// NewManager creates a new service manager.
func NewManager(cfg *config.Config) (*Manager, error) {
	m := &Manager{
		alertThreshold: cfg.AlertThresholdTokens,
		eventChan:      make(chan ServiceEvent, 100),
		stopChan:       make(chan struct{}),
	}

	var err error
	m.database, err = db.New(cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	m.stats = stats.New(m.database)

	if cfg.UsageLogPath != "" {
		m.watcher, err = ingest.New(cfg.UsageLogPath, m.database)
		if err != nil {
			if closeErr := m.database.Close(); closeErr != nil {
				logger.Error("failed to close database", "error", closeErr)
			}
			return nil, err
		}
	}

	go m.routeEvents()

	return m, nil
}

// routeEvents routes events from individual services to subscribers.
func (m *Manager) routeEvents() {
	var watcherEvents <-chan ingest.Event
	if m.watcher != nil {
		watcherEvents = m.watcher.Events()
	}

	for {
		select {
		case event, ok := <-watcherEvents:
			if !ok {
				watcherEvents = nil
				continue
			}
			m.handleIngestEvent(event)

		case <-m.stopChan:
			return
		}
	}
}

// handleIngestEvent converts and broadcasts ingest events.
func (m *Manager) handleIngestEvent(event ingest.Event) {
	switch event.Type {
	case ingest.EventBatchIngested:
		m.broadcast(UsageIngestedEvent{Count: event.Count})
		m.checkThreshold()

	case ingest.EventError:
		m.broadcast(ErrorEvent{
			Service: "ingest",
			Error:   event.Error,
		})
	}
}

// checkThreshold alerts once when the 24h total crosses the configured
// threshold and re-arms when it drops back below.
func (m *Manager) checkThreshold() {
	if m.alertThreshold <= 0 {
		return
	}

	summary, err := m.stats.Summary(24)
	if err != nil {
		m.broadcast(ErrorEvent{Service: "stats", Error: err})
		return
	}

	m.mu.Lock()
	crossed := summary.TotalTokens >= m.alertThreshold && !m.alerted
	m.alerted = summary.TotalTokens >= m.alertThreshold
	m.mu.Unlock()

	if !crossed {
		return
	}

	title := "Token usage threshold crossed"
	body := fmt.Sprintf("Used %d tokens in the last 24h (threshold %d)",
		summary.TotalTokens, m.alertThreshold)
	_ = beeep.Notify(title, body, "")

	m.broadcast(ThresholdCrossedEvent{
		TotalTokens: summary.TotalTokens,
		Threshold:   m.alertThreshold,
	})
}

// broadcast sends an event to all subscribers.
func (m *Manager) broadcast(event ServiceEvent) {
	select {
	case m.eventChan <- event:
	default:
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, sub := range m.subscribers {
		select {
		case sub <- event:
		default:
			// Subscriber channel full, skip
		}
	}
}

// Subscribe creates a channel for receiving service events.
// Returns a tea.Cmd that can be used in Bubble Tea's Init or Update.
func (m *Manager) Subscribe() (chan ServiceEvent, tea.Cmd) {
	ch := make(chan ServiceEvent, 50)

	m.mu.Lock()
	m.subscribers = append(m.subscribers, ch)
	m.mu.Unlock()

	return ch, waitForEvent(ch)
}

// waitForEvent returns a tea.Cmd that waits for the next event.
func waitForEvent(ch <-chan ServiceEvent) tea.Cmd {
	return func() tea.Msg {
		return <-ch
	}
}

// WaitForEvent returns a tea.Cmd for the next event on a channel.
func WaitForEvent(ch <-chan ServiceEvent) tea.Cmd {
	return waitForEvent(ch)
}

// Unsubscribe removes a subscriber channel.
func (m *Manager) Unsubscribe(ch chan ServiceEvent) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, sub := range m.subscribers {
		if sub == ch {
			m.subscribers = append(m.subscribers[:i], m.subscribers[i+1:]...)
			close(ch)
			break
		}
	}
}

// Stats returns the stats service.
func (m *Manager) Stats() *stats.Service {
	return m.stats
}

// Database returns the database instance for direct access.
func (m *Manager) Database() *db.DB {
	return m.database
}

// Close closes the manager and all its services.
func (m *Manager) Close() error {
	close(m.stopChan)

	m.mu.Lock()
	for _, sub := range m.subscribers {
		close(sub)
	}
	m.subscribers = nil
	m.mu.Unlock()

	var errs []error

	if m.watcher != nil {
		if err := m.watcher.Close(); err != nil {
			errs = append(errs, err)
		}
	}

	if m.database != nil {
		if err := m.database.Close(); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return errs[0]
	}
	return nil
}
