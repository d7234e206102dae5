package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gaurav-prasanna/fuelcheck/core/extract"
)

var describeCmd = &cobra.Command{
	Use:   "describe",
	Short: "Print the dataset page description as Markdown",
	Args:  cobra.NoArgs,
	RunE:  runDescribe,
}

func init() {
	rootCmd.AddCommand(describeCmd)
}

func runDescribe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	html, err := newFetcher(cfg).FetchPage(cmd.Context(), cfg.Source.URL)
	if err != nil {
		return err
	}
	md, err := extract.New().Describe(html)
	if err != nil {
		return fmt.Errorf("describing page: %w", err)
	}
	fmt.Fprint(cmd.OutOrStdout(), md)
	return nil
}
