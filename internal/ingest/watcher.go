// Package ingest tails a JSONL usage log and persists new events.
package ingest

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/usagelab/tokenscope/internal/logger"
	"github.com/usagelab/tokenscope/internal/models"
)

// Event represents an ingest event.
type Event struct {
	Type  EventType
	Count int
	Error error
}

// EventType defines the type of ingest event.
type EventType int

const (
	EventBatchIngested EventType = iota
	EventError
)

// Store persists parsed usage events.
type Store interface {
	InsertUsageEvent(event *models.UsageEvent) error
}

// Watcher tails a JSONL file and inserts each complete line as a usage
// event. It starts at the current end of file, so restarting the watcher
// does not re-ingest history. Use ReadFile for bulk imports.
type Watcher struct {
	mu            sync.Mutex
	path          string
	store         Store
	offset        int64
	watcher       *fsnotify.Watcher
	eventChan     chan Event
	stopChan      chan struct{}
	debounceTimer *time.Timer
}

// New creates a watcher for the given JSONL file and starts tailing it.
// The file does not need to exist yet; its directory does.
func New(path string, store Store) (*Watcher, error) {
	if path == "" {
		return nil, fmt.Errorf("usage log path is empty")
	}

	w := &Watcher{
		path:      path,
		store:     store,
		eventChan: make(chan Event, 100),
		stopChan:  make(chan struct{}),
	}

	// Skip whatever is already in the file
	if info, err := os.Stat(path); err == nil {
		w.offset = info.Size()
	}

	if err := w.startWatcher(); err != nil {
		return nil, fmt.Errorf("failed to start usage log watcher: %w", err)
	}

	return w, nil
}

// Events returns the event channel for subscribing to ingest activity.
func (w *Watcher) Events() <-chan Event {
	return w.eventChan
}

func (w *Watcher) startWatcher() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	w.watcher = watcher

	// Watch the directory to catch creation and rotation of the log file
	dir := filepath.Dir(w.path)
	if err := watcher.Add(dir); err != nil {
		if closeErr := watcher.Close(); closeErr != nil {
			logger.Error("failed to close watcher", "error", closeErr)
		}
		return err
	}

	go w.watchLoop()
	return nil
}

func (w *Watcher) watchLoop() {
	const debounceInterval = 100 * time.Millisecond

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}

			if filepath.Base(event.Name) != filepath.Base(w.path) {
				continue
			}

			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				// Debounce rapid appends
				w.mu.Lock()
				if w.debounceTimer != nil {
					w.debounceTimer.Stop()
				}
				w.debounceTimer = time.AfterFunc(debounceInterval, func() {
					w.drain()
				})
				w.mu.Unlock()
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.sendEvent(Event{Type: EventError, Error: err})

		case <-w.stopChan:
			return
		}
	}
}

// drain reads complete lines past the current offset and persists them.
// A trailing partial line stays in the file until the next write event.
func (w *Watcher) drain() {
	w.mu.Lock()
	defer w.mu.Unlock()

	f, err := os.Open(w.path)
	if err != nil {
		w.sendEvent(Event{Type: EventError, Error: err})
		return
	}
	defer func() {
		if err := f.Close(); err != nil {
			logger.Error("failed to close usage log", "error", err)
		}
	}()

	info, err := f.Stat()
	if err != nil {
		w.sendEvent(Event{Type: EventError, Error: err})
		return
	}

	// File shrank, assume rotation and start over
	if info.Size() < w.offset {
		w.offset = 0
	}

	if _, err := f.Seek(w.offset, io.SeekStart); err != nil {
		w.sendEvent(Event{Type: EventError, Error: err})
		return
	}

	reader := bufio.NewReader(f)
	ingested := 0

	for {
		line, err := reader.ReadBytes('\n')
		if err != nil {
			// Partial line, wait for the rest
			break
		}

		w.offset += int64(len(line))

		event, parseErr := ParseLine(line)
		if parseErr != nil {
			logger.Warn("skipping malformed usage log line", "error", parseErr)
			continue
		}
		if event == nil {
			continue
		}

		if err := w.store.InsertUsageEvent(event); err != nil {
			w.sendEvent(Event{Type: EventError, Error: err})
			continue
		}
		ingested++
	}

	if ingested > 0 {
		w.sendEvent(Event{Type: EventBatchIngested, Count: ingested})
	}
}

// sendEvent sends an event to the event channel non-blocking.
func (w *Watcher) sendEvent(event Event) {
	select {
	case w.eventChan <- event:
	default:
		select {
		case <-w.eventChan:
		default:
		}
		select {
		case w.eventChan <- event:
		default:
		}
	}
}

// Close stops the file watcher and cleans up resources.
func (w *Watcher) Close() error {
	close(w.stopChan)

	w.mu.Lock()
	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
	}
	w.mu.Unlock()

	if w.watcher != nil {
		return w.watcher.Close()
	}
	return nil
}

// ParseLine decodes one JSONL line into a usage event. Blank lines
// return (nil, nil). Events without a timestamp get the current time.
func ParseLine(line []byte) (*models.UsageEvent, error) {
	line = bytes.TrimSpace(line)
	if len(line) == 0 {
		return nil, nil
	}

	var event models.UsageEvent
	if err := json.Unmarshal(line, &event); err != nil {
		return nil, fmt.Errorf("invalid usage event: %w", err)
	}

	if event.Email == "" {
		return nil, fmt.Errorf("usage event missing email")
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}

	return &event, nil
}

// ReadFile parses a whole JSONL file, skipping blank and malformed lines.
// Used for bulk imports where tailing semantics are not wanted.
func ReadFile(path string) ([]models.UsageEvent, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to open usage log: %w", err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			logger.Error("failed to close usage log", "error", err)
		}
	}()

	var events []models.UsageEvent
	skipped := 0

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		event, err := ParseLine(scanner.Bytes())
		if err != nil {
			skipped++
			continue
		}
		if event == nil {
			continue
		}
		events = append(events, *event)
	}
	if err := scanner.Err(); err != nil {
		return nil, skipped, fmt.Errorf("failed to read usage log: %w", err)
	}

	return events, skipped, nil
}
