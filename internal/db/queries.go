package db

import (
	"context"
	"fmt"
	"time"

	"github.com/usagelab/tokenscope/internal/logger"
	"github.com/usagelab/tokenscope/internal/models"
)

// InsertUsageEvent records a single usage event.
func (db *DB) InsertUsageEvent(event *models.UsageEvent) error {
	query := `
		INSERT INTO usage_events (timestamp, email, model, input_tokens, output_tokens)
		VALUES (?, ?, ?, ?, ?)
	`

	timestamp := event.Timestamp
	if timestamp.IsZero() {
		timestamp = time.Now()
	}

	// Stored in UTC so window filters against datetime('now') compare correctly.
	result, err := db.ExecContext(context.Background(), query,
		timestamp.UTC().Format("2006-01-02 15:04:05"),
		event.Email,
		event.Model,
		event.InputTokens,
		event.OutputTokens,
	)
	if err != nil {
		return fmt.Errorf("failed to insert usage event: %w", err)
	}

	id, err := result.LastInsertId()
	if err == nil {
		event.ID = id
	}

	return nil
}

// HourlyTokenStats returns per-hour token aggregates for the last N hours,
// oldest bucket first.
func (db *DB) HourlyTokenStats(hours int) ([]models.PeriodUsage, error) {
	query := `
		SELECT
			strftime('%Y-%m-%d %H:00', timestamp) as period,
			COALESCE(SUM(input_tokens), 0) as total_input,
			COALESCE(SUM(output_tokens), 0) as total_output,
			COALESCE(SUM(input_tokens + output_tokens), 0) as total_tokens,
			COUNT(*) as request_count
		FROM usage_events
		WHERE timestamp >= datetime('now', ?)
		GROUP BY period
		ORDER BY period ASC
	`
	return db.queryPeriodUsage(query, fmt.Sprintf("-%d hours", hours))
}

// DailyTokenStats returns per-day token aggregates for the last N days,
// oldest bucket first.
func (db *DB) DailyTokenStats(days int) ([]models.PeriodUsage, error) {
	query := `
		SELECT
			date(timestamp) as period,
			COALESCE(SUM(input_tokens), 0) as total_input,
			COALESCE(SUM(output_tokens), 0) as total_output,
			COALESCE(SUM(input_tokens + output_tokens), 0) as total_tokens,
			COUNT(*) as request_count
		FROM usage_events
		WHERE timestamp >= datetime('now', ?)
		GROUP BY period
		ORDER BY period ASC
	`
	return db.queryPeriodUsage(query, fmt.Sprintf("-%d days", days))
}

// WeeklyTokenStats returns per-week token aggregates for the last N weeks,
// oldest bucket first. Weeks follow the strftime %W convention (Monday start).
func (db *DB) WeeklyTokenStats(weeks int) ([]models.PeriodUsage, error) {
	query := `
		SELECT
			strftime('%Y-W%W', timestamp) as period,
			COALESCE(SUM(input_tokens), 0) as total_input,
			COALESCE(SUM(output_tokens), 0) as total_output,
			COALESCE(SUM(input_tokens + output_tokens), 0) as total_tokens,
			COUNT(*) as request_count
		FROM usage_events
		WHERE timestamp >= datetime('now', ?)
		GROUP BY period
		ORDER BY period ASC
	`
	return db.queryPeriodUsage(query, fmt.Sprintf("-%d days", weeks*7))
}

func (db *DB) queryPeriodUsage(query, window string) ([]models.PeriodUsage, error) {
	rows, err := db.QueryContext(context.Background(), query, window)
	if err != nil {
		return nil, fmt.Errorf("failed to query period stats: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			logger.Error("failed to close rows", "error", err)
		}
	}()

	var stats []models.PeriodUsage
	for rows.Next() {
		var s models.PeriodUsage
		err := rows.Scan(
			&s.Period,
			&s.TotalInputTokens,
			&s.TotalOutputTokens,
			&s.TotalTokens,
			&s.RequestCount,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan period stats: %w", err)
		}
		stats = append(stats, s)
	}

	return stats, rows.Err()
}

// TokenStatsByAccount returns per-account token aggregates for the last N
// hours, largest consumer first. Each account appears at most once.
func (db *DB) TokenStatsByAccount(hours int) ([]models.AccountUsage, error) {
	query := `
		SELECT
			email,
			COALESCE(SUM(input_tokens), 0) as total_input,
			COALESCE(SUM(output_tokens), 0) as total_output,
			COALESCE(SUM(input_tokens + output_tokens), 0) as total_tokens,
			COUNT(*) as request_count
		FROM usage_events
		WHERE timestamp >= datetime('now', ?)
		GROUP BY email
		ORDER BY total_tokens DESC
	`

	rows, err := db.QueryContext(context.Background(), query, fmt.Sprintf("-%d hours", hours))
	if err != nil {
		return nil, fmt.Errorf("failed to query account stats: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			logger.Error("failed to close rows", "error", err)
		}
	}()

	var stats []models.AccountUsage
	for rows.Next() {
		var s models.AccountUsage
		err := rows.Scan(
			&s.Email,
			&s.TotalInputTokens,
			&s.TotalOutputTokens,
			&s.TotalTokens,
			&s.RequestCount,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account stats: %w", err)
		}
		stats = append(stats, s)
	}

	return stats, rows.Err()
}

// TokenStatsSummary returns global aggregates for the last N hours.
func (db *DB) TokenStatsSummary(hours int) (*models.UsageSummary, error) {
	query := `
		SELECT
			COALESCE(SUM(input_tokens), 0) as total_input,
			COALESCE(SUM(output_tokens), 0) as total_output,
			COALESCE(SUM(input_tokens + output_tokens), 0) as total_tokens,
			COUNT(*) as request_count,
			COUNT(DISTINCT email) as active_accounts
		FROM usage_events
		WHERE timestamp >= datetime('now', ?)
	`

	var summary models.UsageSummary
	err := db.QueryRowContext(context.Background(), query, fmt.Sprintf("-%d hours", hours)).Scan(
		&summary.TotalInputTokens,
		&summary.TotalOutputTokens,
		&summary.TotalTokens,
		&summary.RequestCount,
		&summary.ActiveAccounts,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query usage summary: %w", err)
	}

	return &summary, nil
}

// RecentUsageEvents returns the most recent usage events.
func (db *DB) RecentUsageEvents(limit int) ([]models.UsageEvent, error) {
	query := `
		SELECT id, timestamp, email, model, input_tokens, output_tokens
		FROM usage_events
		ORDER BY timestamp DESC
		LIMIT ?
	`

	rows, err := db.QueryContext(context.Background(), query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent events: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			logger.Error("failed to close rows", "error", err)
		}
	}()

	var events []models.UsageEvent
	for rows.Next() {
		var e models.UsageEvent
		err := rows.Scan(
			&e.ID,
			&e.Timestamp,
			&e.Email,
			&e.Model,
			&e.InputTokens,
			&e.OutputTokens,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan usage event: %w", err)
		}
		events = append(events, e)
	}

	return events, rows.Err()
}

// PruneBefore deletes usage events older than the cutoff and reports how
// many rows were removed.
func (db *DB) PruneBefore(cutoff time.Time) (int64, error) {
	result, err := db.ExecContext(context.Background(),
		"DELETE FROM usage_events WHERE timestamp < ?",
		cutoff.UTC().Format("2006-01-02 15:04:05"),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to prune usage events: %w", err)
	}
	return result.RowsAffected()
}
