package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/filinghawk-systems/filinghawk/cli/pkg/output"
	"github.com/filinghawk-systems/filinghawk/edgar"
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Full-text search across filings",
	Long:  "Run a full-text search over filing documents and list the matches.",
	Example: `  fhawk search "climate risk" --form 10-K
  fhawk search "going concern" --start 2023-01-01 --end 2023-12-31
  fhawk search "supply chain" --all --output json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient(cmd)
		if err != nil {
			return err
		}

		forms, _ := cmd.Flags().GetStringSlice("form")
		start, _ := cmd.Flags().GetString("start")
		end, _ := cmd.Flags().GetString("end")
		all, _ := cmd.Flags().GetBool("all")

		opts := edgar.SearchOptions{
			Query:     args[0],
			Forms:     forms,
			StartDate: start,
			EndDate:   end,
		}

		if all {
			records, err := c.SearchFilings(cmd.Context(), opts, edgar.FilingOptions{})
			if err != nil {
				return fmt.Errorf("search: %w", err)
			}
			output.Success("Search matched %d filings", len(records))
			return renderRecords(cmd, os.Stdout, records)
		}

		resp, err := c.Search(cmd.Context(), opts)
		if err != nil {
			return fmt.Errorf("search: %w", err)
		}
		records := make([]edgar.FilingRecord, 0, len(resp.Hits.Hits))
		for _, h := range resp.Hits.Hits {
			rec := edgar.FilingRecord{
				FormType: h.Source.Form,
				Filed:    h.Source.FileDate,
			}
			if len(h.Source.CIKs) > 0 {
				rec.CIK = h.Source.CIKs[0]
			}
			if len(h.Source.DisplayNames) > 0 {
				rec.CompanyName = h.Source.DisplayNames[0]
			}
			records = append(records, rec)
		}
		output.Success("Search matched %d documents (showing %d)", resp.Hits.Total.Value, len(records))
		return renderRecords(cmd, os.Stdout, records)
	},
}

func init() {
	searchCmd.Flags().StringSlice("form", nil, "restrict to form types (repeatable)")
	searchCmd.Flags().String("start", "", "earliest filing date (YYYY-MM-DD)")
	searchCmd.Flags().String("end", "", "latest filing date (YYYY-MM-DD)")
	searchCmd.Flags().Bool("all", false, "page through every match")
	rootCmd.AddCommand(searchCmd)
}
