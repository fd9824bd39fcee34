// Package commands defines the tokenscope CLI. The root command launches
// the interactive dashboard; subcommands cover scripted reports, bulk
// imports, and host provisioning.
package commands

import (
	"fmt"
	"log/slog"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/usagelab/tokenscope/internal/app"
	"github.com/usagelab/tokenscope/internal/config"
	"github.com/usagelab/tokenscope/internal/logger"
	"github.com/usagelab/tokenscope/internal/services"
	"github.com/usagelab/tokenscope/internal/ui/tabs/accounts"
	"github.com/usagelab/tokenscope/internal/ui/tabs/info"
	"github.com/usagelab/tokenscope/internal/ui/tabs/usage"
	"github.com/usagelab/tokenscope/internal/version"
)

// NewRootCommand builds the tokenscope command tree.
func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "tokenscope",
		Short:         "Terminal dashboard for token usage analytics",
		Long:          `Tokenscope tracks per-account token usage in a local SQLite store and renders hourly, daily, and weekly trends in an interactive terminal dashboard.`,
		Version:       version.Info(),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runDashboard,
	}

	root.AddCommand(
		NewReportCommand(),
		NewImportCommand(),
		NewInstallCommand(),
	)

	return root
}

func runDashboard(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	// The TUI owns the terminal, so logs go to a file next to the database.
	logPath := filepath.Join(filepath.Dir(cfg.DatabasePath), "tokenscope.log")
	if logFile, err := logger.UseFile(logPath, slog.LevelInfo); err == nil {
		defer logFile.Close()
	}

	mgr, err := services.NewManager(cfg)
	if err != nil {
		return fmt.Errorf("starting services: %w", err)
	}
	defer mgr.Close()

	model := app.NewModel(mgr, cfg.RefreshInterval)
	model.SetTabs([]app.Tab{
		usage.New(model.GetState()),
		accounts.New(model.GetState(), model.GetCommands()),
		info.New(model.GetState(), cfg),
	})

	program := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("running dashboard: %w", err)
	}
	return nil
}
