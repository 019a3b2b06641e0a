package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/filinghawk-systems/filinghawk/cli/pkg/output"
	"github.com/filinghawk-systems/filinghawk/edgar"
)

var documentCmd = &cobra.Command{
	Use:   "document [entity] [accession] [filename]",
	Short: "Download a filing document",
	Long: `Download a document from a filing's archive directory and write it to
stdout, or to a file with --out.

With --latest, the accession and filename arguments are omitted and the
primary document of the newest filing matching --form is fetched.`,
	Example: `  fhawk document AAPL 0000320193-23-000106 aapl-20230930.htm > report.htm
  fhawk document AAPL --latest --form 10-K --out report.htm`,
	Args: cobra.RangeArgs(1, 3),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient(cmd)
		if err != nil {
			return err
		}

		latest, _ := cmd.Flags().GetBool("latest")
		var body []byte
		if latest {
			forms, _ := cmd.Flags().GetStringSlice("form")
			rec, doc, err := c.LatestFilingDocument(cmd.Context(), args[0], edgar.FilingOptions{Forms: forms})
			if err != nil {
				return fmt.Errorf("fetch latest document: %w", err)
			}
			output.Success("Fetched %s %s filed %s (%d bytes)", rec.FormType, rec.Accession, rec.Filed, len(doc))
			body = doc
		} else {
			if len(args) != 3 {
				return fmt.Errorf("expected entity, accession and filename (or use --latest)")
			}
			acc, err := edgar.ParseAccession(args[1])
			if err != nil {
				return err
			}
			body, err = c.FilingDocument(cmd.Context(), args[0], acc, args[2])
			if err != nil {
				return fmt.Errorf("fetch document: %w", err)
			}
		}

		if outPath, _ := cmd.Flags().GetString("out"); outPath != "" {
			return os.WriteFile(outPath, body, 0o644)
		}
		_, err = os.Stdout.Write(body)
		return err
	},
}

func init() {
	documentCmd.Flags().Bool("latest", false, "fetch the newest filing's primary document")
	documentCmd.Flags().StringSlice("form", nil, "with --latest, restrict to form types")
	documentCmd.Flags().String("out", "", "write to this file instead of stdout")
	rootCmd.AddCommand(documentCmd)
}
