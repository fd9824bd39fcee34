package models

// Granularity selects the bucket size for trend queries.
type Granularity int

const (
	// GranularityHourly buckets usage per hour over the last day.
	GranularityHourly Granularity = iota
	// GranularityDaily buckets usage per day over the last week.
	GranularityDaily
	// GranularityWeekly buckets usage per week over the last month.
	GranularityWeekly
)

// String returns a human-readable name for the granularity.
func (g Granularity) String() string {
	switch g {
	case GranularityHourly:
		return "Hourly"
	case GranularityDaily:
		return "Daily"
	case GranularityWeekly:
		return "Weekly"
	default:
		return "Unknown"
	}
}

// Periods returns the number of buckets requested for this granularity:
// 24 hours, 7 days or 4 weeks.
func (g Granularity) Periods() int {
	switch g {
	case GranularityDaily:
		return 7
	case GranularityWeekly:
		return 4
	default:
		return 24
	}
}

// WindowHours returns the hours-window covering all buckets of this
// granularity. It parameterizes the by-account and summary queries so all
// three refresh calls describe the same time span.
func (g Granularity) WindowHours() int {
	switch g {
	case GranularityDaily:
		return 168
	case GranularityWeekly:
		return 720
	default:
		return 24
	}
}

// Next cycles to the following granularity.
func (g Granularity) Next() Granularity {
	switch g {
	case GranularityHourly:
		return GranularityDaily
	case GranularityDaily:
		return GranularityWeekly
	default:
		return GranularityHourly
	}
}
