package commands

import (
	"fmt"

	"github.com/usagelab/tokenscope/internal/config"
	"github.com/usagelab/tokenscope/internal/db"
	"github.com/usagelab/tokenscope/internal/models"
)

func parseGranularity(s string) (models.Granularity, error) {
	switch s {
	case "hourly":
		return models.GranularityHourly, nil
	case "daily":
		return models.GranularityDaily, nil
	case "weekly":
		return models.GranularityWeekly, nil
	default:
		return 0, fmt.Errorf("invalid granularity %q (want hourly, daily, or weekly)", s)
	}
}

// openDatabase opens the stats store, preferring an explicit path over the
// configured one.
func openDatabase(dbPath string) (*db.DB, error) {
	if dbPath == "" {
		cfg, err := config.Load()
		if err != nil {
			return nil, fmt.Errorf("loading configuration: %w", err)
		}
		dbPath = cfg.DatabasePath
	}
	return db.New(dbPath)
}
