package cmd

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/filinghawk-systems/filinghawk/cli/pkg/output"
	"github.com/filinghawk-systems/filinghawk/edgar"
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Fetch daily and quarterly filing indices",
}

var indexDailyCmd = &cobra.Command{
	Use:     "daily [date]",
	Short:   "List all filings for one day",
	Example: `  fhawk index daily 2023-08-15 --form 8-K`,
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		day, err := parseDay(args[0])
		if err != nil {
			return err
		}
		c, err := newClient(cmd)
		if err != nil {
			return err
		}
		result, err := c.DailyFilings(cmd.Context(), day, indexFilter(cmd))
		if err != nil {
			return fmt.Errorf("fetch daily index: %w", err)
		}
		reportWarnings(result.Warnings)
		return renderRecords(cmd, os.Stdout, result.Records)
	},
}

var indexQuarterCmd = &cobra.Command{
	Use:     "quarter [year] [quarter]",
	Short:   "List all filings for one quarter",
	Example: `  fhawk index quarter 2023 3 --form 10-K --output json`,
	Args:    cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		year, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid year %q", args[0])
		}
		quarter, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid quarter %q", args[1])
		}
		p, err := edgar.NewPeriod(year, edgar.Quarter(quarter))
		if err != nil {
			return err
		}
		c, err := newClient(cmd)
		if err != nil {
			return err
		}
		result, err := c.PeriodFilings(cmd.Context(), p, indexFilter(cmd))
		if err != nil {
			return fmt.Errorf("fetch quarterly index: %w", err)
		}
		reportWarnings(result.Warnings)
		return renderRecords(cmd, os.Stdout, result.Records)
	},
}

var indexRangeCmd = &cobra.Command{
	Use:     "range [from] [to]",
	Short:   "List filings across a span of days",
	Example: `  fhawk index range 2023-08-14 2023-08-18 --form 4`,
	Args:    cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		from, err := parseDay(args[0])
		if err != nil {
			return err
		}
		to, err := parseDay(args[1])
		if err != nil {
			return err
		}
		c, err := newClient(cmd)
		if err != nil {
			return err
		}
		result, err := c.FetchRange(cmd.Context(), from, to, indexFilter(cmd))
		if err != nil {
			return fmt.Errorf("fetch index range: %w", err)
		}
		reportWarnings(result.Warnings)
		for _, f := range result.Failures {
			output.Warn("%s: %v", f.Day, f.Err)
		}
		if result.AllMissing() {
			return fmt.Errorf("no index data for any day in %s..%s", from, to)
		}
		return renderRecords(cmd, os.Stdout, result.Records)
	},
}

func parseDay(s string) (edgar.Day, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return edgar.Day{}, fmt.Errorf("invalid date %q, want YYYY-MM-DD", s)
	}
	return edgar.NewDay(t.Year(), t.Month(), t.Day())
}

func indexFilter(cmd *cobra.Command) edgar.FilingOptions {
	forms, _ := cmd.Flags().GetStringSlice("form")
	noAmendments, _ := cmd.Flags().GetBool("no-amendments")
	return edgar.FilingOptions{Forms: forms, WithoutAmendments: noAmendments}
}

func reportWarnings(warnings []string) {
	if len(warnings) > 0 {
		output.Warn("%d index rows were skipped", len(warnings))
	}
}

func init() {
	for _, sub := range []*cobra.Command{indexDailyCmd, indexQuarterCmd, indexRangeCmd} {
		sub.Flags().StringSlice("form", nil, "restrict to form types (repeatable)")
		sub.Flags().Bool("no-amendments", false, "exclude amended (/A) filings")
		indexCmd.AddCommand(sub)
	}
	rootCmd.AddCommand(indexCmd)
}
