package components

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/usagelab/tokenscope/internal/models"
	"github.com/usagelab/tokenscope/internal/ui/format"
	"github.com/usagelab/tokenscope/internal/ui/styles"
)

// Tile is a single labeled figure in the summary row.
type Tile struct {
	Label string
	Value string
}

// SummaryTiles builds the four dashboard tiles from a window summary.
func SummaryTiles(summary models.UsageSummary) []Tile {
	return []Tile{
		{Label: "Total Tokens", Value: format.Tokens(summary.TotalTokens)},
		{Label: "Input", Value: format.Tokens(summary.TotalInputTokens)},
		{Label: "Output", Value: format.Tokens(summary.TotalOutputTokens)},
		{Label: "Requests", Value: format.Count(summary.RequestCount)},
	}
}

// RenderTiles lays the tiles out horizontally, splitting the width evenly.
func RenderTiles(tiles []Tile, width int) string {
	if len(tiles) == 0 {
		return ""
	}

	tileWidth := width/len(tiles) - 4
	if tileWidth < 10 {
		tileWidth = 10
	}

	rendered := make([]string, 0, len(tiles))
	for _, tile := range tiles {
		content := lipgloss.JoinVertical(lipgloss.Center,
			styles.TileValueStyle.Render(tile.Value),
			styles.TileLabelStyle.Render(tile.Label),
		)
		rendered = append(rendered, styles.TileStyle.Width(tileWidth).Render(content))
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}
