package usage

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/usagelab/tokenscope/internal/models"
	"github.com/usagelab/tokenscope/internal/ui/components"
	"github.com/usagelab/tokenscope/internal/ui/format"
	"github.com/usagelab/tokenscope/internal/ui/styles"
)

// View renders the usage dashboard.
func (m *Model) View() string {
	if m.state.IsInitialLoading() {
		return styles.CenterBoth(m.spinner.ViewWithLabel(), m.width, m.height)
	}

	var sections []string

	sections = append(sections, m.renderTitle())
	sections = append(sections, m.renderTiles())
	sections = append(sections, m.renderTrendCard())
	sections = append(sections, m.renderProportionCard())
	sections = append(sections, m.renderDetailCard())

	content := lipgloss.JoinVertical(lipgloss.Left, sections...)

	m.viewport.SetContent(content)

	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(m.viewport.View())
}

// renderTitle renders the heading and the granularity selector.
func (m *Model) renderTitle() string {
	title := styles.TitleStyle.Render("Token Usage")

	var parts []string
	for _, g := range []models.Granularity{
		models.GranularityHourly,
		models.GranularityDaily,
		models.GranularityWeekly,
	} {
		label := fmt.Sprintf("%s (%s)", strings.ToLower(g.String()), windowLabel(g))
		if g == m.state.GetGranularity() {
			parts = append(parts, styles.GranularityActiveStyle.Render(label))
		} else {
			parts = append(parts, styles.GranularityInactiveStyle.Render(label))
		}
	}
	selector := lipgloss.JoinHorizontal(lipgloss.Top, parts...)

	status := ""
	if m.state.RefreshInProgress() {
		status = " " + m.spinner.View()
	}

	return lipgloss.JoinVertical(lipgloss.Left, title, selector+status, "")
}

func windowLabel(g models.Granularity) string {
	switch g {
	case models.GranularityHourly:
		return "24h"
	case models.GranularityDaily:
		return "7d"
	case models.GranularityWeekly:
		return "4w"
	default:
		return ""
	}
}

// renderTiles renders the four summary tiles.
func (m *Model) renderTiles() string {
	summary := m.state.GetSummary()
	if summary == nil {
		return styles.HelpStyle.Render("No summary yet")
	}

	return components.RenderTiles(components.SummaryTiles(*summary), m.width-4)
}

// renderTrendCard renders the trend chart for the selected granularity.
func (m *Model) renderTrendCard() string {
	cardWidth := max(m.width-6, 40)

	var rows []string
	rows = append(rows, styles.CardTitleStyle.Render(
		fmt.Sprintf("Trend (%s)", strings.ToLower(m.state.GetGranularity().String()))))

	trend := m.state.GetTrend()
	chartWidth := max(cardWidth-12, 20)
	rows = append(rows, components.RenderTrendChart(trend, chartWidth, 8, ""))

	if len(trend) > 0 {
		first := trend[0].Period
		last := trend[len(trend)-1].Period
		axis := styles.ChartAxisStyle.Render(
			first + strings.Repeat(" ", max(chartWidth-len(first)-len(last), 1)) + last)
		rows = append(rows, axis)
	}

	return styles.CardStyle.Width(cardWidth).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

// renderProportionCard renders the per-account share bar and legend.
func (m *Model) renderProportionCard() string {
	cardWidth := max(m.width-6, 40)

	var rows []string
	rows = append(rows, styles.CardTitleStyle.Render("By Account"))

	entries := components.ProportionEntries(m.state.GetAccounts())
	if len(entries) == 0 {
		rows = append(rows, styles.HelpStyle.Render("No account data in this window"))
	} else {
		rows = append(rows, components.RenderProportionBar(entries, max(cardWidth-8, 20)))
		rows = append(rows, "")
		rows = append(rows, components.RenderProportionLegend(entries))
	}

	return styles.CardStyle.Width(cardWidth).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

// renderDetailCard renders the per-account detail table.
func (m *Model) renderDetailCard() string {
	cardWidth := max(m.width-6, 40)
	accounts := m.state.GetAccounts()

	var rows []string
	rows = append(rows, styles.CardTitleStyle.Render("Details"))

	if len(accounts) == 0 {
		rows = append(rows, styles.HelpStyle.Render("No usage recorded in this window"))
		return styles.CardStyle.Width(cardWidth).Render(
			lipgloss.JoinVertical(lipgloss.Left, rows...),
		)
	}

	header := fmt.Sprintf("%-30s %10s %10s %10s %10s %8s",
		"Account", "Input", "Output", "Total", "Requests", "Share")
	rows = append(rows, styles.TableHeaderStyle.Render(header))

	var total int64
	for _, acc := range accounts {
		total += acc.TotalTokens
	}

	for _, acc := range accounts {
		email := acc.Email
		if len(email) > 30 {
			email = email[:27] + "..."
		}

		share := 0.0
		if total > 0 {
			share = float64(acc.TotalTokens) / float64(total) * 100
		}

		line := fmt.Sprintf("%-30s %10s %10s %10s %10s %8s",
			email,
			format.Tokens(acc.TotalInputTokens),
			format.Tokens(acc.TotalOutputTokens),
			format.Tokens(acc.TotalTokens),
			format.Count(acc.RequestCount),
			format.Percent(acc.TotalTokens, total),
		)
		rows = append(rows, styles.GetUsageStyle(share).Render(line))
	}

	return styles.CardStyle.Width(cardWidth).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}
