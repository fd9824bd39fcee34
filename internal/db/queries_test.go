package db

import (
	"testing"
	"time"

	"github.com/usagelab/tokenscope/internal/models"
)

func insertEvents(t *testing.T, db *DB, events []*models.UsageEvent) {
	t.Helper()
	for _, e := range events {
		if err := db.InsertUsageEvent(e); err != nil {
			t.Fatalf("InsertUsageEvent() failed: %v", err)
		}
	}
}

func TestInsertUsageEvent(t *testing.T) {
	db := newTestDB(t)
	defer db.Close()

	event := &models.UsageEvent{
		Email:        "test@example.com",
		Model:        "claude-3-opus",
		InputTokens:  100,
		OutputTokens: 200,
	}

	if err := db.InsertUsageEvent(event); err != nil {
		t.Fatalf("InsertUsageEvent() failed: %v", err)
	}

	if event.ID == 0 {
		t.Error("InsertUsageEvent() should set ID")
	}
}

func TestInsertUsageEvent_WithTimestamp(t *testing.T) {
	db := newTestDB(t)
	defer db.Close()

	now := time.Now().UTC().Add(-1 * time.Hour)
	event := &models.UsageEvent{
		Email:     "test@example.com",
		Model:     "claude-3-opus",
		Timestamp: now,
	}

	if err := db.InsertUsageEvent(event); err != nil {
		t.Fatalf("InsertUsageEvent() failed: %v", err)
	}

	if !event.Timestamp.Equal(now) {
		t.Errorf("Timestamp changed, got %v, want %v", event.Timestamp, now)
	}
}

func TestHourlyTokenStats(t *testing.T) {
	db := newTestDB(t)
	defer db.Close()

	now := time.Now().UTC()
	insertEvents(t, db, []*models.UsageEvent{
		{
			Email:        "test@example.com",
			Model:        "claude-3-opus",
			Timestamp:    now.Add(-30 * time.Minute),
			InputTokens:  100,
			OutputTokens: 200,
		},
		{
			Email:        "test@example.com",
			Model:        "claude-3-opus",
			Timestamp:    now.Add(-40 * time.Minute),
			InputTokens:  150,
			OutputTokens: 250,
		},
		// Outside the 24 hour window
		{
			Email:        "old@example.com",
			Model:        "claude-3-opus",
			Timestamp:    now.Add(-48 * time.Hour),
			InputTokens:  999,
			OutputTokens: 999,
		},
	})

	stats, err := db.HourlyTokenStats(24)
	if err != nil {
		t.Fatalf("HourlyTokenStats() failed: %v", err)
	}

	if len(stats) == 0 {
		t.Fatal("HourlyTokenStats() returned no buckets")
	}

	var totalInput, totalOutput, totalTokens, requests int64
	for _, s := range stats {
		totalInput += s.TotalInputTokens
		totalOutput += s.TotalOutputTokens
		totalTokens += s.TotalTokens
		requests += s.RequestCount
	}

	if totalInput != 250 {
		t.Errorf("summed TotalInputTokens = %d, want 250", totalInput)
	}
	if totalOutput != 450 {
		t.Errorf("summed TotalOutputTokens = %d, want 450", totalOutput)
	}
	if totalTokens != 700 {
		t.Errorf("summed TotalTokens = %d, want 700", totalTokens)
	}
	if requests != 2 {
		t.Errorf("summed RequestCount = %d, want 2", requests)
	}
}

func TestHourlyTokenStats_TotalIsInputPlusOutput(t *testing.T) {
	db := newTestDB(t)
	defer db.Close()

	now := time.Now().UTC()
	insertEvents(t, db, []*models.UsageEvent{
		{Email: "a@example.com", Timestamp: now.Add(-10 * time.Minute), InputTokens: 7, OutputTokens: 11},
		{Email: "b@example.com", Timestamp: now.Add(-3 * time.Hour), InputTokens: 13, OutputTokens: 17},
	})

	stats, err := db.HourlyTokenStats(24)
	if err != nil {
		t.Fatalf("HourlyTokenStats() failed: %v", err)
	}

	for _, s := range stats {
		if s.TotalTokens != s.TotalInputTokens+s.TotalOutputTokens {
			t.Errorf("bucket %s: TotalTokens = %d, want %d",
				s.Period, s.TotalTokens, s.TotalInputTokens+s.TotalOutputTokens)
		}
	}
}

func TestHourlyTokenStats_Ordered(t *testing.T) {
	db := newTestDB(t)
	defer db.Close()

	now := time.Now().UTC()
	insertEvents(t, db, []*models.UsageEvent{
		{Email: "a@example.com", Timestamp: now.Add(-5 * time.Hour), InputTokens: 1},
		{Email: "a@example.com", Timestamp: now.Add(-1 * time.Hour), InputTokens: 2},
		{Email: "a@example.com", Timestamp: now.Add(-10 * time.Hour), InputTokens: 3},
	})

	stats, err := db.HourlyTokenStats(24)
	if err != nil {
		t.Fatalf("HourlyTokenStats() failed: %v", err)
	}

	for i := 1; i < len(stats); i++ {
		if stats[i-1].Period >= stats[i].Period {
			t.Errorf("buckets not in ascending order: %q before %q",
				stats[i-1].Period, stats[i].Period)
		}
	}
}

func TestDailyTokenStats(t *testing.T) {
	db := newTestDB(t)
	defer db.Close()

	now := time.Now().UTC()
	insertEvents(t, db, []*models.UsageEvent{
		{Email: "a@example.com", Timestamp: now.Add(-2 * time.Hour), InputTokens: 10, OutputTokens: 20},
		{Email: "a@example.com", Timestamp: now.Add(-26 * time.Hour), InputTokens: 30, OutputTokens: 40},
		// Outside the 7 day window
		{Email: "a@example.com", Timestamp: now.Add(-10 * 24 * time.Hour), InputTokens: 999},
	})

	stats, err := db.DailyTokenStats(7)
	if err != nil {
		t.Fatalf("DailyTokenStats() failed: %v", err)
	}

	if len(stats) != 2 {
		t.Fatalf("DailyTokenStats(7) returned %d buckets, want 2", len(stats))
	}

	var total int64
	for _, s := range stats {
		total += s.TotalTokens
	}
	if total != 100 {
		t.Errorf("summed TotalTokens = %d, want 100", total)
	}
}

func TestWeeklyTokenStats(t *testing.T) {
	db := newTestDB(t)
	defer db.Close()

	now := time.Now().UTC()
	insertEvents(t, db, []*models.UsageEvent{
		{Email: "a@example.com", Timestamp: now.Add(-1 * time.Hour), InputTokens: 5, OutputTokens: 5},
	})

	stats, err := db.WeeklyTokenStats(4)
	if err != nil {
		t.Fatalf("WeeklyTokenStats() failed: %v", err)
	}

	if len(stats) != 1 {
		t.Fatalf("WeeklyTokenStats(4) returned %d buckets, want 1", len(stats))
	}

	if stats[0].TotalTokens != 10 {
		t.Errorf("TotalTokens = %d, want 10", stats[0].TotalTokens)
	}
}

func TestTokenStatsByAccount(t *testing.T) {
	db := newTestDB(t)
	defer db.Close()

	now := time.Now().UTC()
	insertEvents(t, db, []*models.UsageEvent{
		{Email: "big@example.com", Timestamp: now.Add(-1 * time.Hour), InputTokens: 500, OutputTokens: 500},
		{Email: "big@example.com", Timestamp: now.Add(-2 * time.Hour), InputTokens: 100, OutputTokens: 100},
		{Email: "small@example.com", Timestamp: now.Add(-1 * time.Hour), InputTokens: 10, OutputTokens: 10},
	})

	stats, err := db.TokenStatsByAccount(24)
	if err != nil {
		t.Fatalf("TokenStatsByAccount() failed: %v", err)
	}

	if len(stats) != 2 {
		t.Fatalf("TokenStatsByAccount() returned %d accounts, want 2", len(stats))
	}

	if stats[0].Email != "big@example.com" {
		t.Errorf("first account = %s, want biggest consumer first", stats[0].Email)
	}
	if stats[0].TotalTokens != 1200 {
		t.Errorf("TotalTokens = %d, want 1200", stats[0].TotalTokens)
	}
	if stats[0].RequestCount != 2 {
		t.Errorf("RequestCount = %d, want 2", stats[0].RequestCount)
	}

	// Each email appears exactly once
	seen := make(map[string]bool)
	for _, s := range stats {
		if seen[s.Email] {
			t.Errorf("account %s appears more than once", s.Email)
		}
		seen[s.Email] = true
	}
}

func TestTokenStatsSummary(t *testing.T) {
	db := newTestDB(t)
	defer db.Close()

	now := time.Now().UTC()
	insertEvents(t, db, []*models.UsageEvent{
		{Email: "one@example.com", Timestamp: now.Add(-1 * time.Hour), InputTokens: 100, OutputTokens: 200},
		{Email: "two@example.com", Timestamp: now.Add(-2 * time.Hour), InputTokens: 50, OutputTokens: 75},
		{Email: "one@example.com", Timestamp: now.Add(-3 * time.Hour), InputTokens: 25, OutputTokens: 25},
	})

	summary, err := db.TokenStatsSummary(24)
	if err != nil {
		t.Fatalf("TokenStatsSummary() failed: %v", err)
	}

	if summary.TotalInputTokens != 175 {
		t.Errorf("TotalInputTokens = %d, want 175", summary.TotalInputTokens)
	}
	if summary.TotalOutputTokens != 300 {
		t.Errorf("TotalOutputTokens = %d, want 300", summary.TotalOutputTokens)
	}
	if summary.TotalTokens != 475 {
		t.Errorf("TotalTokens = %d, want 475", summary.TotalTokens)
	}
	if summary.RequestCount != 3 {
		t.Errorf("RequestCount = %d, want 3", summary.RequestCount)
	}
	if summary.ActiveAccounts != 2 {
		t.Errorf("ActiveAccounts = %d, want 2", summary.ActiveAccounts)
	}
}

func TestTokenStatsSummary_Empty(t *testing.T) {
	db := newTestDB(t)
	defer db.Close()

	summary, err := db.TokenStatsSummary(24)
	if err != nil {
		t.Fatalf("TokenStatsSummary() on empty db failed: %v", err)
	}

	if summary.RequestCount != 0 || summary.TotalTokens != 0 || summary.ActiveAccounts != 0 {
		t.Errorf("summary on empty db should be all zeros, got %+v", summary)
	}
}

func TestRecentUsageEvents(t *testing.T) {
	db := newTestDB(t)
	defer db.Close()

	now := time.Now().UTC()
	insertEvents(t, db, []*models.UsageEvent{
		{Email: "first@example.com", Timestamp: now.Add(-3 * time.Hour)},
		{Email: "second@example.com", Timestamp: now.Add(-2 * time.Hour)},
		{Email: "third@example.com", Timestamp: now.Add(-1 * time.Hour)},
	})

	events, err := db.RecentUsageEvents(2)
	if err != nil {
		t.Fatalf("RecentUsageEvents() failed: %v", err)
	}

	if len(events) != 2 {
		t.Fatalf("RecentUsageEvents(2) returned %d events, want 2", len(events))
	}

	if events[0].Email != "third@example.com" {
		t.Errorf("first event should be most recent, got %s", events[0].Email)
	}
}

func TestPruneBefore(t *testing.T) {
	db := newTestDB(t)
	defer db.Close()

	now := time.Now().UTC()
	insertEvents(t, db, []*models.UsageEvent{
		{Email: "old@example.com", Timestamp: now.Add(-72 * time.Hour)},
		{Email: "new@example.com", Timestamp: now.Add(-1 * time.Hour)},
	})

	pruned, err := db.PruneBefore(now.Add(-24 * time.Hour))
	if err != nil {
		t.Fatalf("PruneBefore() failed: %v", err)
	}

	if pruned != 1 {
		t.Errorf("PruneBefore() removed %d rows, want 1", pruned)
	}

	events, err := db.RecentUsageEvents(10)
	if err != nil {
		t.Fatalf("RecentUsageEvents() failed: %v", err)
	}
	if len(events) != 1 || events[0].Email != "new@example.com" {
		t.Errorf("unexpected surviving events: %+v", events)
	}
}
