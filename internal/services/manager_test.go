package services

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/usagelab/tokenscope/internal/config"
	"github.com/usagelab/tokenscope/internal/ingest"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()

	cfg := &config.Config{
		DatabasePath: filepath.Join(t.TempDir(), "test.db"),
	}

	m, err := NewManager(cfg)
	if err != nil {
		t.Fatalf("NewManager() failed: %v", err)
	}
	t.Cleanup(func() {
		if err := m.Close(); err != nil {
			t.Errorf("Close() failed: %v", err)
		}
	})

	return m
}

func TestNewManager(t *testing.T) {
	m := newTestManager(t)

	if m.Stats() == nil {
		t.Error("Stats() should not be nil")
	}
	if m.Database() == nil {
		t.Error("Database() should not be nil")
	}
}

func TestSubscribe_ReceivesBroadcast(t *testing.T) {
	m := newTestManager(t)

	ch, cmd := m.Subscribe()
	if cmd == nil {
		t.Fatal("Subscribe() should return a command")
	}

	m.handleIngestEvent(ingest.Event{Type: ingest.EventBatchIngested, Count: 3})

	select {
	case event := <-ch:
		ingested, ok := event.(UsageIngestedEvent)
		if !ok {
			t.Fatalf("got %T, want UsageIngestedEvent", event)
		}
		if ingested.Count != 3 {
			t.Errorf("Count = %d, want 3", ingested.Count)
		}
	case <-time.After(time.Second):
		t.Fatal("no event received")
	}
}

func TestSubscribe_ErrorEvent(t *testing.T) {
	m := newTestManager(t)

	ch, _ := m.Subscribe()
	m.handleIngestEvent(ingest.Event{Type: ingest.EventError, Error: errTest})

	select {
	case event := <-ch:
		errEvent, ok := event.(ErrorEvent)
		if !ok {
			t.Fatalf("got %T, want ErrorEvent", event)
		}
		if errEvent.Service != "ingest" {
			t.Errorf("Service = %q, want ingest", errEvent.Service)
		}
	case <-time.After(time.Second):
		t.Fatal("no event received")
	}
}

func TestUnsubscribe(t *testing.T) {
	m := newTestManager(t)

	ch, _ := m.Subscribe()
	m.Unsubscribe(ch)

	// Channel is closed after unsubscribe
	if _, ok := <-ch; ok {
		t.Error("channel should be closed")
	}

	// Broadcasting after unsubscribe must not panic
	m.broadcast(UsageIngestedEvent{Count: 1})
}

var errTest = &testError{}

type testError struct{}

func (*testError) Error() string { return "test error" }
