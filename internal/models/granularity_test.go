package models

import "testing"

func TestGranularity_Periods(t *testing.T) {
	tests := []struct {
		granularity Granularity
		want        int
	}{
		{GranularityHourly, 24},
		{GranularityDaily, 7},
		{GranularityWeekly, 4},
	}

	for _, tt := range tests {
		t.Run(tt.granularity.String(), func(t *testing.T) {
			if got := tt.granularity.Periods(); got != tt.want {
				t.Errorf("Periods() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestGranularity_WindowHours(t *testing.T) {
	tests := []struct {
		granularity Granularity
		want        int
	}{
		{GranularityHourly, 24},
		{GranularityDaily, 168},
		{GranularityWeekly, 720},
	}

	for _, tt := range tests {
		t.Run(tt.granularity.String(), func(t *testing.T) {
			if got := tt.granularity.WindowHours(); got != tt.want {
				t.Errorf("WindowHours() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestGranularity_Next(t *testing.T) {
	if got := GranularityHourly.Next(); got != GranularityDaily {
		t.Errorf("Hourly.Next() = %v, want Daily", got)
	}
	if got := GranularityDaily.Next(); got != GranularityWeekly {
		t.Errorf("Daily.Next() = %v, want Weekly", got)
	}
	if got := GranularityWeekly.Next(); got != GranularityHourly {
		t.Errorf("Weekly.Next() = %v, want Hourly", got)
	}
}

func TestGranularity_NextCycles(t *testing.T) {
	g := GranularityHourly
	for i := 0; i < 3; i++ {
		g = g.Next()
	}
	if g != GranularityHourly {
		t.Errorf("three Next() calls should return to Hourly, got %v", g)
	}
}

func TestGranularity_String(t *testing.T) {
	if got := Granularity(99).String(); got != "Unknown" {
		t.Errorf("String() for invalid granularity = %q, want %q", got, "Unknown")
	}
}
