package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/tasksync/tasksync/cmd/tasksync/commands"
)

func main() {
	var rootCmd = &cobra.Command{
		Use:   "tasksync",
		Short: "Task aggregation tool for the Task Sync API",
		Long:  "CLI for fetching, scoring, and ranking tasks from the configured trackers without running the HTTP server",
	}

	rootCmd.AddCommand(commands.NewListCmd())
	rootCmd.AddCommand(commands.NewStatusCmd())
	rootCmd.AddCommand(commands.NewSourcesCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
