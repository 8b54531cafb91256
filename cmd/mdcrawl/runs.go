package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ysakura/mdcrawl/internal/config"
	"github.com/ysakura/mdcrawl/internal/store"
)

// NewRunsCmd creates the runs command, which lists crawl runs stored in
// the local database.
func NewRunsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List stored crawl runs",
		Long: `Runs lists the crawl runs recorded in the local database, newest
first, with the base URL and page count of each run.`,
		Args: cobra.NoArgs,
		RunE: runRunsCmd,
	}

	cmd.Flags().IntP("limit", "l", 20, "Maximum number of runs to list")

	return cmd
}

// runRunsCmd executes the runs command.
func runRunsCmd(cmd *cobra.Command, _ []string) error {
	limit, err := cmd.Flags().GetInt("limit")
	if err != nil {
		return err
	}

	db, err := store.Open(config.XDGDataDir(), store.Options{CreateIfNotExists: false})
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close() //nolint:errcheck

	runs, err := db.ListRuns(cmd.Context(), limit)
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}

	if len(runs) == 0 {
		fmt.Fprintln(os.Stdout, "No crawl runs recorded.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-5s %-50s %-7s %s\n", "ID", "BASE URL", "PAGES", "SCRAPED AT")
	for _, run := range runs {
		fmt.Fprintf(os.Stdout, "%-5d %-50s %-7d %s\n",
			run.ID, run.BaseURL, run.PageCount, run.ScrapedAt.Format("2006-01-02 15:04:05"))
	}
	return nil
}
