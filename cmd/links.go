package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gaurav-prasanna/fuelcheck/crawl"
)

var linksCmd = &cobra.Command{
	Use:   "links",
	Short: "List the dataset files that a run would download",
	Args:  cobra.NoArgs,
	RunE:  runLinks,
}

func init() {
	rootCmd.AddCommand(linksCmd)
}

func runLinks(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger := newLogger(cmd, cfg)

	html, err := newFetcher(cfg).FetchPage(cmd.Context(), cfg.Source.URL)
	if err != nil {
		return err
	}
	resources, err := crawl.Discover(html, cfg.Source.URL, cfg.Source.Selector, cfg.Source.Years)
	if err != nil {
		return err
	}
	logger.Debug("discovered resources", "count", len(resources))

	out := cmd.OutOrStdout()
	for _, r := range resources {
		format := string(r.Format)
		if format == "" {
			format = "unsupported"
		}
		fmt.Fprintf(out, "%-14s  %s\n", format, r.URL)
	}
	fmt.Fprintf(out, "%d files\n", len(resources))
	return nil
}
