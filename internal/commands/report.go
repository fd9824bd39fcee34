package commands

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/spf13/cobra"

	"github.com/usagelab/tokenscope/internal/models"
	"github.com/usagelab/tokenscope/internal/stats"
	"github.com/usagelab/tokenscope/internal/ui/format"
)

// NewReportCommand builds the non-interactive report command. It renders
// the same aggregates as the dashboard's usage tab, as tables on a TTY and
// as tab-separated lines when piped.
func NewReportCommand() *cobra.Command {
	var (
		granularity string
		dbPath      string
		plain       bool
	)

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print a token usage report",
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := parseGranularity(granularity)
			if err != nil {
				return err
			}

			database, err := openDatabase(dbPath)
			if err != nil {
				return fmt.Errorf("opening database: %w", err)
			}
			defer database.Close()

			svc := stats.New(database)

			trend, err := svc.Trend(g)
			if err != nil {
				return fmt.Errorf("loading trend: %w", err)
			}
			accounts, err := svc.ByAccount(g.WindowHours())
			if err != nil {
				return fmt.Errorf("loading accounts: %w", err)
			}
			summary, err := svc.Summary(g.WindowHours())
			if err != nil {
				return fmt.Errorf("loading summary: %w", err)
			}

			usePlain := plain || !isatty.IsTerminal(os.Stdout.Fd())
			return writeReport(cmd.OutOrStdout(), g, trend, accounts, summary, usePlain)
		},
	}

	cmd.Flags().StringVarP(&granularity, "granularity", "g", "hourly", "bucket size: hourly, daily, or weekly")
	cmd.Flags().StringVar(&dbPath, "db", "", "database path (default from configuration)")
	cmd.Flags().BoolVar(&plain, "plain", false, "force tab-separated output")

	return cmd
}

func writeReport(w io.Writer, g models.Granularity, trend []models.PeriodUsage, accounts []models.AccountUsage, summary *models.UsageSummary, plain bool) error {
	if plain {
		return writePlainReport(w, trend, accounts, summary)
	}

	fmt.Fprintf(w, "Token usage, %s view (last %d periods)\n\n", strings.ToLower(g.String()), g.Periods())

	trendTable := newReportTable(w)
	trendTable.Header([]string{"Period", "Input", "Output", "Total", "Requests"})
	for _, p := range trend {
		trendTable.Append([]string{
			p.Period,
			format.Tokens(p.TotalInputTokens),
			format.Tokens(p.TotalOutputTokens),
			format.Tokens(p.TotalTokens),
			format.Count(p.RequestCount),
		})
	}
	trendTable.Render()

	fmt.Fprintf(w, "\nAccounts (last %dh)\n\n", g.WindowHours())

	accountTable := newReportTable(w)
	accountTable.Header([]string{"Account", "Input", "Output", "Total", "Requests", "Share"})
	for _, acc := range accounts {
		accountTable.Append([]string{
			acc.Email,
			format.Tokens(acc.TotalInputTokens),
			format.Tokens(acc.TotalOutputTokens),
			format.Tokens(acc.TotalTokens),
			format.Count(acc.RequestCount),
			format.Percent(acc.TotalTokens, summary.TotalTokens),
		})
	}
	accountTable.Render()

	fmt.Fprintf(w, "\nTotal %s tokens (%s in, %s out), %s requests, %d active accounts\n",
		format.Tokens(summary.TotalTokens),
		format.Tokens(summary.TotalInputTokens),
		format.Tokens(summary.TotalOutputTokens),
		format.Count(summary.RequestCount),
		summary.ActiveAccounts,
	)
	return nil
}

func newReportTable(w io.Writer) *tablewriter.Table {
	return tablewriter.NewTable(w,
		tablewriter.WithRenderer(renderer.NewBlueprint(tw.Rendition{
			Settings: tw.Settings{Separators: tw.Separators{BetweenRows: tw.Off}},
		})),
		tablewriter.WithConfig(tablewriter.Config{
			Row: tw.CellConfig{
				Alignment: tw.CellAlignment{Global: tw.AlignRight},
			},
		}),
		tablewriter.WithHeaderAutoFormat(tw.Off),
	)
}

// writePlainReport emits tab-separated records for scripts.
func writePlainReport(w io.Writer, trend []models.PeriodUsage, accounts []models.AccountUsage, summary *models.UsageSummary) error {
	for _, p := range trend {
		fmt.Fprintf(w, "period\t%s\t%d\t%d\t%d\t%d\n",
			p.Period, p.TotalInputTokens, p.TotalOutputTokens, p.TotalTokens, p.RequestCount)
	}
	for _, acc := range accounts {
		fmt.Fprintf(w, "account\t%s\t%d\t%d\t%d\t%d\n",
			acc.Email, acc.TotalInputTokens, acc.TotalOutputTokens, acc.TotalTokens, acc.RequestCount)
	}
	fmt.Fprintf(w, "summary\t%d\t%d\t%d\t%d\t%d\n",
		summary.TotalInputTokens, summary.TotalOutputTokens, summary.TotalTokens,
		summary.RequestCount, summary.ActiveAccounts)
	return nil
}
