// Package stats exposes the token-usage aggregation operations backing the
// dashboard. The UI talks only to this layer, never to the database directly.
package stats

import (
	"fmt"

	"github.com/usagelab/tokenscope/internal/models"
)

// Store is the persistence surface the service aggregates over.
type Store interface {
	HourlyTokenStats(hours int) ([]models.PeriodUsage, error)
	DailyTokenStats(days int) ([]models.PeriodUsage, error)
	WeeklyTokenStats(weeks int) ([]models.PeriodUsage, error)
	TokenStatsByAccount(hours int) ([]models.AccountUsage, error)
	TokenStatsSummary(hours int) (*models.UsageSummary, error)
}

// Service answers token-usage stats queries.
type Service struct {
	store Store
}

// New creates a stats service over the given store.
func New(store Store) *Service {
	return &Service{store: store}
}

// Hourly returns per-hour buckets for the last N hours.
func (s *Service) Hourly(hours int) ([]models.PeriodUsage, error) {
	if hours <= 0 {
		return nil, fmt.Errorf("hours must be positive, got %d", hours)
	}
	return s.store.HourlyTokenStats(hours)
}

// Daily returns per-day buckets for the last N days.
func (s *Service) Daily(days int) ([]models.PeriodUsage, error) {
	if days <= 0 {
		return nil, fmt.Errorf("days must be positive, got %d", days)
	}
	return s.store.DailyTokenStats(days)
}

// Weekly returns per-week buckets for the last N weeks.
func (s *Service) Weekly(weeks int) ([]models.PeriodUsage, error) {
	if weeks <= 0 {
		return nil, fmt.Errorf("weeks must be positive, got %d", weeks)
	}
	return s.store.WeeklyTokenStats(weeks)
}

// ByAccount returns per-account totals for the last N hours, largest first.
func (s *Service) ByAccount(hours int) ([]models.AccountUsage, error) {
	if hours <= 0 {
		return nil, fmt.Errorf("hours must be positive, got %d", hours)
	}
	return s.store.TokenStatsByAccount(hours)
}

// Summary returns global totals for the last N hours.
func (s *Service) Summary(hours int) (*models.UsageSummary, error) {
	if hours <= 0 {
		return nil, fmt.Errorf("hours must be positive, got %d", hours)
	}
	return s.store.TokenStatsSummary(hours)
}

// Trend returns the trend buckets for a granularity: 24 hourly, 7 daily or
// 4 weekly buckets.
func (s *Service) Trend(g models.Granularity) ([]models.PeriodUsage, error) {
	switch g {
	case models.GranularityDaily:
		return s.Daily(g.Periods())
	case models.GranularityWeekly:
		return s.Weekly(g.Periods())
	default:
		return s.Hourly(g.Periods())
	}
}
