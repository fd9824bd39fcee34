package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/usagelab/tokenscope/internal/models"
	"github.com/usagelab/tokenscope/internal/ui/format"
	"github.com/usagelab/tokenscope/internal/ui/styles"
)

// MaxProportionEntries caps how many accounts appear individually in the
// proportion bar. Anything past the cap is folded into a single entry.
const MaxProportionEntries = 8

// OthersLabel names the folded remainder entry.
const OthersLabel = "others"

// ProportionEntry is one segment of the account proportion bar.
type ProportionEntry struct {
	Label  string
	Tokens int64
}

// ProportionEntries converts per-account usage into at most
// MaxProportionEntries bar segments. Accounts arrive sorted by total
// tokens descending; the tail beyond the cap collapses into one
// aggregate entry so the bar stays readable with many accounts.
func ProportionEntries(accounts []models.AccountUsage) []ProportionEntry {
	if len(accounts) == 0 {
		return nil
	}

	entries := make([]ProportionEntry, 0, MaxProportionEntries)

	if len(accounts) <= MaxProportionEntries {
		for _, acc := range accounts {
			entries = append(entries, ProportionEntry{Label: acc.Email, Tokens: acc.TotalTokens})
		}
		return entries
	}

	for _, acc := range accounts[:MaxProportionEntries-1] {
		entries = append(entries, ProportionEntry{Label: acc.Email, Tokens: acc.TotalTokens})
	}

	var rest int64
	for _, acc := range accounts[MaxProportionEntries-1:] {
		rest += acc.TotalTokens
	}
	entries = append(entries, ProportionEntry{Label: OthersLabel, Tokens: rest})

	return entries
}

// RenderProportionBar renders the entries as one horizontal stacked bar.
// Every entry with a nonzero share gets at least one cell.
func RenderProportionBar(entries []ProportionEntry, width int) string {
	if len(entries) == 0 {
		return styles.HelpStyle.Render("No account data")
	}
	if width < len(entries) {
		width = len(entries)
	}

	var total int64
	for _, e := range entries {
		total += e.Tokens
	}
	if total == 0 {
		return styles.HelpStyle.Render("No account data")
	}

	widths := make([]int, len(entries))
	used := 0
	for i, e := range entries {
		w := int(float64(e.Tokens) / float64(total) * float64(width))
		if w == 0 && e.Tokens > 0 {
			w = 1
		}
		widths[i] = w
		used += w
	}

	// Give rounding leftovers to the largest segment
	if used < width {
		largest := 0
		for i := range widths {
			if widths[i] > widths[largest] {
				largest = i
			}
		}
		widths[largest] += width - used
	}

	var bar strings.Builder
	for i, w := range widths {
		if w <= 0 {
			continue
		}
		style := lipgloss.NewStyle().Foreground(styles.AccountColor(i))
		bar.WriteString(style.Render(strings.Repeat("█", w)))
	}

	return bar.String()
}

// RenderProportionLegend lists each entry with its color, compacted token
// count, and share of the total.
func RenderProportionLegend(entries []ProportionEntry) string {
	if len(entries) == 0 {
		return ""
	}

	var total int64
	for _, e := range entries {
		total += e.Tokens
	}

	lines := make([]string, 0, len(entries))
	for i, e := range entries {
		marker := lipgloss.NewStyle().Foreground(styles.AccountColor(i)).Render("■")
		lines = append(lines, fmt.Sprintf("%s %s  %s (%s)",
			marker,
			e.Label,
			format.Tokens(e.Tokens),
			format.Percent(e.Tokens, total),
		))
	}

	return strings.Join(lines, "\n")
}
