package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tasksync/tasksync/internal/config"
	"github.com/tasksync/tasksync/internal/sources"
)

// NewSourcesCmd creates the sources command: each known source and whether
// an adapter is configured for it.
func NewSourcesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sources",
		Short: "Show known sources and their configuration state",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%-10s configured (repo %s)\n", sources.GitHub, cfg.GitHubRepo)
			if cfg.NotionConfigured() {
				fmt.Fprintf(out, "%-10s configured (database %s)\n", sources.Notion, cfg.NotionDatabaseID)
			} else {
				fmt.Fprintf(out, "%-10s not configured (missing credentials)\n", sources.Notion)
			}
			return nil
		},
	}
}
