package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/usagelab/tokenscope/internal/ingest"
)

// NewImportCommand builds the one-shot JSONL bulk import command.
func NewImportCommand() *cobra.Command {
	var dbPath string

	cmd := &cobra.Command{
		Use:   "import <usage.jsonl>",
		Short: "Bulk-load usage events from a JSONL file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			events, skipped, err := ingest.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("reading %s: %w", args[0], err)
			}

			database, err := openDatabase(dbPath)
			if err != nil {
				return fmt.Errorf("opening database: %w", err)
			}
			defer database.Close()

			for i := range events {
				if err := database.InsertUsageEvent(&events[i]); err != nil {
					return fmt.Errorf("inserting event %d: %w", i+1, err)
				}
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d events (%d lines skipped)\n", len(events), skipped)
			return nil
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "", "database path (default from configuration)")

	return cmd
}
