package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/tasksync/tasksync/internal/aggregator"
	"github.com/tasksync/tasksync/internal/config"
	"github.com/tasksync/tasksync/internal/models"
	"github.com/tasksync/tasksync/internal/sources"
	"github.com/tasksync/tasksync/internal/sources/github"
	"github.com/tasksync/tasksync/internal/sources/notion"
	"go.uber.org/zap"
)

// newAggregator builds the same aggregator the server uses: tracker first,
// Notion only when credentials are present.
func newAggregator() (*aggregator.Aggregator, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	srcs := []sources.Source{github.NewClient(cfg.GitHubToken, cfg.GitHubRepo)}
	if cfg.NotionConfigured() {
		srcs = append(srcs, notion.NewClient(cfg.NotionToken, cfg.NotionDatabaseID))
	}

	return aggregator.New(zap.NewNop(), srcs...), nil
}

// NewListCmd creates the list command: every task ranked by importance.
func NewListCmd() *cobra.Command {
	var sourceName string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks ranked by importance score",
		RunE: func(cmd *cobra.Command, args []string) error {
			agg, err := newAggregator()
			if err != nil {
				return err
			}

			ctx := context.Background()
			var tasks []models.Task
			if sourceName != "" {
				tasks, err = agg.TasksBySource(ctx, sourceName)
			} else {
				tasks, err = agg.AllTasks(ctx)
			}
			if err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(tasks)
			}

			for _, task := range tasks {
				fmt.Printf("%7.1f  %-12s %-12s %s\n",
					task.ImportanceScore, task.Status, task.ID, task.Title)
			}
			fmt.Printf("%d tasks\n", len(tasks))
			return nil
		},
	}

	cmd.Flags().StringVar(&sourceName, "source", "", "Restrict to one source (github, notion)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit tasks as JSON")
	return cmd
}
