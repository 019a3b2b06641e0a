package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/filinghawk-systems/filinghawk/edgar"
)

var filingsCmd = &cobra.Command{
	Use:   "filings [entity]",
	Short: "List a company's recent filings",
	Long:  "List recent filings for a company identified by ticker symbol or CIK.",
	Example: `  fhawk filings AAPL --form 10-K
  fhawk filings 320193 --form 10-Q --limit 5 --output json
  fhawk filings MSFT --no-amendments`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient(cmd)
		if err != nil {
			return err
		}

		forms, _ := cmd.Flags().GetStringSlice("form")
		limit, _ := cmd.Flags().GetInt("limit")
		offset, _ := cmd.Flags().GetInt("offset")
		noAmendments, _ := cmd.Flags().GetBool("no-amendments")

		records, err := c.Filings(cmd.Context(), args[0], edgar.FilingOptions{
			Forms:             forms,
			Limit:             limit,
			Offset:            offset,
			WithoutAmendments: noAmendments,
		})
		if err != nil {
			return fmt.Errorf("fetch filings: %w", err)
		}
		return renderRecords(cmd, os.Stdout, records)
	},
}

func init() {
	filingsCmd.Flags().StringSlice("form", nil, "restrict to form types (repeatable)")
	filingsCmd.Flags().Int("limit", 40, "maximum number of filings to list")
	filingsCmd.Flags().Int("offset", 0, "skip this many filings")
	filingsCmd.Flags().Bool("no-amendments", false, "exclude amended (/A) filings")
	rootCmd.AddCommand(filingsCmd)
}
