// Package components provides reusable UI components for the TUI.
package components

import (
	"github.com/guptarohit/asciigraph"

	"github.com/usagelab/tokenscope/internal/models"
	"github.com/usagelab/tokenscope/internal/ui/styles"
)

// RenderTrendChart plots total tokens per period as an ASCII line chart.
// Periods are expected oldest first, matching the query order.
func RenderTrendChart(periods []models.PeriodUsage, width, height int, caption string) string {
	if len(periods) == 0 {
		return styles.HelpStyle.Render("No data available")
	}

	data := make([]float64, len(periods))
	for i, p := range periods {
		data[i] = float64(p.TotalTokens)
	}

	return RenderLineChart(data, width, height, caption)
}

// RenderLineChart creates a single-series ASCII line chart.
func RenderLineChart(data []float64, width, height int, caption string) string {
	if len(data) == 0 {
		return styles.HelpStyle.Render("No data available")
	}

	// Ensure minimum dimensions
	if width < 20 {
		width = 20
	}
	if height < 3 {
		height = 3
	}

	return asciigraph.Plot(data,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(caption),
	)
}

// RenderInputOutputChart plots input and output tokens as two series.
func RenderInputOutputChart(periods []models.PeriodUsage, width, height int, caption string) string {
	if len(periods) == 0 {
		return styles.HelpStyle.Render("No data available")
	}

	if width < 20 {
		width = 20
	}
	if height < 3 {
		height = 3
	}

	input := make([]float64, len(periods))
	output := make([]float64, len(periods))
	for i, p := range periods {
		input[i] = float64(p.TotalInputTokens)
		output[i] = float64(p.TotalOutputTokens)
	}

	return asciigraph.PlotMany([][]float64{input, output},
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(caption),
		asciigraph.SeriesColors(
			asciigraph.Green,
			asciigraph.Goldenrod,
		),
	)
}

// SparkChars are Unicode block characters for sparklines (low to high).
var SparkChars = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// RenderSparkline creates a compact inline sparkline chart.
func RenderSparkline(values []float64, width int) string {
	if len(values) == 0 || width < 1 {
		return ""
	}

	maxVal := 0.0
	for _, v := range values {
		if v > maxVal {
			maxVal = v
		}
	}
	if maxVal == 0 {
		maxVal = 1
	}

	step := float64(len(values)) / float64(width)
	if step < 1 {
		step = 1
	}

	var out []rune
	for i := 0; i < width && int(float64(i)*step) < len(values); i++ {
		val := values[int(float64(i)*step)]
		level := int((val / maxVal) * float64(len(SparkChars)-1))
		if level >= len(SparkChars) {
			level = len(SparkChars) - 1
		}
		if level < 0 {
			level = 0
		}
		out = append(out, SparkChars[level])
	}

	return string(out)
}
