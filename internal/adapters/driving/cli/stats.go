package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show index and usage statistics",
	RunE:  runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, _ []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.close()

	stats, err := app.admin.Stats(context.Background())
	if err != nil {
		return fmt.Errorf("fetching stats: %w", err)
	}

	cmd.Println("Index:")
	cmd.Printf("  vectors:   %d\n", stats.Index.TotalVectorCount)
	cmd.Printf("  dimension: %d\n", stats.Index.Dimension)
	cmd.Println("Performance:")
	cmd.Printf("  requests:   %d\n", stats.Performance.TotalRequests)
	cmd.Printf("  error rate: %.2f\n", stats.Performance.ErrorRate)
	cmd.Println("Cache:")
	cmd.Printf("  entries: %d\n", stats.Cache.Entries)
	cmd.Printf("  hits:    %d\n", stats.Cache.Hits)
	cmd.Printf("  misses:  %d\n", stats.Cache.Misses)

	report, err := app.admin.Report(context.Background())
	if err != nil {
		return fmt.Errorf("fetching report: %w", err)
	}
	cmd.Printf("Queries (last %s): %d\n", report.Window, report.TotalQueries)
	for intent, count := range report.ByIntent {
		cmd.Printf("  %s: %d\n", intent, count)
	}
	return nil
}
