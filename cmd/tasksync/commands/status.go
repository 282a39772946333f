package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// NewStatusCmd creates the status command: per-source task counts.
func NewStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show per-source task counts",
		RunE: func(cmd *cobra.Command, args []string) error {
			agg, err := newAggregator()
			if err != nil {
				return err
			}

			status, err := agg.Status(context.Background())
			if err != nil {
				return err
			}

			for name, count := range status.TotalTasksBySource {
				fmt.Printf("%-10s %d tasks\n", name, count)
			}
			fmt.Printf("synced at %s\n", status.LastSync.Format("2006-01-02 15:04:05 MST"))
			return nil
		},
	}
}
