package format

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokens(t *testing.T) {
	tests := []struct {
		name string
		n    int64
		want string
	}{
		{"zero", 0, "0"},
		{"small", 999, "999"},
		{"exactly one thousand", 1_000, "1.0K"},
		{"thousands", 45_200, "45.2K"},
		{"just under a million", 999_949, "999.9K"},
		{"exactly one million", 1_000_000, "1.0M"},
		{"millions", 2_350_000, "2.4M"},
		{"billions stay in M", 1_500_000_000, "1500.0M"},
		{"negative thousands", -1_500, "-1.5K"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Tokens(tt.n))
		})
	}
}

func TestCount(t *testing.T) {
	tests := []struct {
		n    int64
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1_000, "1,000"},
		{1_234_567, "1,234,567"},
		{-45_000, "-45,000"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, Count(tt.n))
		})
	}
}

func TestPercent(t *testing.T) {
	assert.Equal(t, "25.0%", Percent(25, 100))
	assert.Equal(t, "33.3%", Percent(1, 3))
	assert.Equal(t, "0.0%", Percent(5, 0))
	assert.Equal(t, "100.0%", Percent(7, 7))
}
