package accounts

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/usagelab/tokenscope/internal/models"
	"github.com/usagelab/tokenscope/internal/ui/format"
	"github.com/usagelab/tokenscope/internal/ui/styles"
)

// View renders the accounts tab.
func (m *Model) View() string {
	var sections []string

	sections = append(sections, m.renderTitle())
	sections = append(sections, m.renderAccountsCard())
	sections = append(sections, m.renderRecentCard())

	content := lipgloss.JoinVertical(lipgloss.Left, sections...)

	m.viewport.SetContent(content)

	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(m.viewport.View())
}

// renderTitle renders the accounts tab title.
func (m *Model) renderTitle() string {
	title := styles.TitleStyle.Render("Accounts")

	subtitle := styles.HelpStyle.Render(
		fmt.Sprintf("Usage per account over the last %dh", m.state.GetGranularity().WindowHours()))

	return lipgloss.JoinVertical(lipgloss.Left, title, subtitle, "")
}

// renderAccountsCard renders one row per account with its totals.
func (m *Model) renderAccountsCard() string {
	cardWidth := max(m.width-6, 40)
	accounts := m.state.GetAccounts()

	var rows []string
	rows = append(rows, styles.CardTitleStyle.Render("Accounts"))

	if len(accounts) == 0 {
		rows = append(rows, styles.HelpStyle.Render("No usage recorded in this window"))
		return styles.CardStyle.Width(cardWidth).Render(
			lipgloss.JoinVertical(lipgloss.Left, rows...),
		)
	}

	var total int64
	for _, acc := range accounts {
		total += acc.TotalTokens
	}

	for i, acc := range accounts {
		rows = append(rows, m.renderAccountRow(acc, total, i == m.selectedIndex))
	}

	return styles.CardStyle.Width(cardWidth).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

func (m *Model) renderAccountRow(acc models.AccountUsage, total int64, selected bool) string {
	prefix := "  "
	if selected {
		prefix = styles.InfoTextStyle.Render("▸ ")
	}

	email := acc.Email
	if len(email) > 32 {
		email = email[:29] + "..."
	}

	share := 0.0
	if total > 0 {
		share = float64(acc.TotalTokens) / float64(total) * 100
	}

	detail := fmt.Sprintf("in %s  out %s  total %s  %s reqs  %s",
		format.Tokens(acc.TotalInputTokens),
		format.Tokens(acc.TotalOutputTokens),
		format.Tokens(acc.TotalTokens),
		format.Count(acc.RequestCount),
		format.Percent(acc.TotalTokens, total),
	)

	return prefix +
		lipgloss.NewStyle().Bold(true).Render(fmt.Sprintf("%-34s", email)) +
		styles.GetUsageStyle(share).Render(detail)
}

// renderRecentCard renders the latest raw usage events.
func (m *Model) renderRecentCard() string {
	cardWidth := max(m.width-6, 40)

	var rows []string
	rows = append(rows, styles.CardTitleStyle.Render("Recent Events"))

	switch {
	case m.recentError != nil:
		rows = append(rows, styles.ErrorTextStyle.Render(
			fmt.Sprintf("Failed to load events: %v", m.recentError)))

	case len(m.recentEvents) == 0:
		rows = append(rows, styles.HelpStyle.Render("No events yet"))

	default:
		shown := m.recentEvents
		if len(shown) > 15 {
			shown = shown[:15]
		}
		for _, event := range shown {
			rows = append(rows, fmt.Sprintf("%s  %-28s %-20s %s",
				styles.SubTitleStyle.UnsetMarginBottom().Render(event.Timestamp.Format("01-02 15:04")),
				event.Email,
				event.Model,
				styles.HelpStyle.Render(fmt.Sprintf("in %s out %s",
					format.Tokens(event.InputTokens),
					format.Tokens(event.OutputTokens))),
			))
		}
	}

	return styles.CardStyle.Width(cardWidth).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}
