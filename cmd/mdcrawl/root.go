package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for mdcrawl.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mdcrawl",
		Short: "Crawl documentation sites into Markdown pages",
		Long: `mdcrawl crawls a documentation site and produces cleaned, Markdown-formatted
pages suitable for feeding into a downstream context store.

It discovers URLs via the site's XML sitemap when one exists, and falls back
to recursive same-origin link crawling otherwise. Boilerplate (navigation,
footers, ads) is stripped and the main content region of each page is
converted to Markdown.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	cmd.AddCommand(NewScrapeCmd())
	cmd.AddCommand(NewRunsCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
