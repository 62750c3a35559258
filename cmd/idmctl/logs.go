package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/doodlesbykumbi/idm-admin/pkg/audit"
	"github.com/doodlesbykumbi/idm-admin/pkg/pagination"
	"github.com/doodlesbykumbi/idm-admin/pkg/server/store"
)

// logsCmd represents the logs command
var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "Show persisted log messages",
	Long: `Show one page of the most recent persisted log messages, newest first.

At most log_fetch_limit messages are considered and pages hold page_size
messages each. --min-severity keeps messages at least as severe as the
given level (emergency, alert, critical, error, warning, notice, info,
debug).

Example:
  idmctl logs
  idmctl logs --page 2 --min-severity warning`,
	Run: func(cmd *cobra.Command, args []string) {
		page, _ := cmd.Flags().GetInt("page")
		minSeverity, _ := cmd.Flags().GetString("min-severity")

		if err := showLogs(cmd.Context(), page, minSeverity); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to show logs: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(logsCmd)
	logsCmd.Flags().Int("page", 1, "Page number (1-based)")
	logsCmd.Flags().String("min-severity", "debug", "Least severe level to show")
}

func showLogs(ctx context.Context, pageNumber int, minSeverity string) error {
	threshold, err := audit.SeverityString(minSeverity)
	if err != nil {
		return fmt.Errorf("unknown severity %q", minSeverity)
	}

	cfg := loadConfig()
	stores, closeDB, err := openStores(cfg)
	if err != nil {
		return err
	}
	defer closeDB()

	entries, err := stores.Logs.FetchLogs(ctx, cfg.LogFetchLimit)
	if err != nil {
		return err
	}

	filtered := make([]store.LogEntry, 0, len(entries))
	for _, e := range entries {
		sev, err := audit.SeverityString(e.Level)
		if err != nil || sev.AtLeast(threshold) {
			filtered = append(filtered, e)
		}
	}

	page := pagination.New(filtered, pageNumber, cfg.PageSize)
	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TIMESTAMP\tLEVEL\tMESSAGE")
	for _, e := range page.Items {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", e.Timestamp.Format(time.RFC3339), e.Level, e.Message)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Printf("\nPage %d of %d (%d messages)\n", page.PageIndex, page.TotalPages, page.TotalCount)
	return nil
}
