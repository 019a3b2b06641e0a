package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/filinghawk-systems/filinghawk/cli/pkg/output"
	"github.com/filinghawk-systems/filinghawk/edgar"
	"github.com/filinghawk-systems/filinghawk/parsers/feedxml"
)

var feedCmd = &cobra.Command{
	Use:   "feed",
	Short: "Follow the filing and press release feeds",
}

var feedCurrentCmd = &cobra.Command{
	Use:     "current",
	Short:   "Show the newest filings across all companies",
	Example: `  fhawk feed current --form 8-K --count 40 --since 2h`,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient(cmd)
		if err != nil {
			return err
		}
		opts, err := feedOptions(cmd)
		if err != nil {
			return err
		}
		feed, err := c.CurrentFilingsFeed(cmd.Context(), opts)
		if err != nil {
			return fmt.Errorf("fetch current feed: %w", err)
		}
		return renderFeed(cmd, feed)
	},
}

var feedCompanyCmd = &cobra.Command{
	Use:     "company [entity]",
	Short:   "Show the filing feed for one company",
	Example: `  fhawk feed company AAPL --form 10-Q`,
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient(cmd)
		if err != nil {
			return err
		}
		opts, err := feedOptions(cmd)
		if err != nil {
			return err
		}
		feed, err := c.CompanyFeed(cmd.Context(), args[0], opts)
		if err != nil {
			return fmt.Errorf("fetch company feed: %w", err)
		}
		return renderFeed(cmd, feed)
	},
}

var feedPressCmd = &cobra.Command{
	Use:   "press",
	Short: "Show recent press releases",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient(cmd)
		if err != nil {
			return err
		}
		feed, err := c.PressReleasesFeed(cmd.Context())
		if err != nil {
			return fmt.Errorf("fetch press releases: %w", err)
		}
		return renderFeed(cmd, feed)
	},
}

func feedOptions(cmd *cobra.Command) (edgar.FeedOptions, error) {
	form, _ := cmd.Flags().GetString("form")
	count, _ := cmd.Flags().GetInt("count")
	opts := edgar.FeedOptions{FormType: form, Count: count}

	if sinceStr, _ := cmd.Flags().GetString("since"); sinceStr != "" {
		d, err := time.ParseDuration(sinceStr)
		if err != nil {
			return opts, fmt.Errorf("invalid --since %q, want a duration like 2h", sinceStr)
		}
		opts.Since = time.Now().Add(-d)
	}
	return opts, nil
}

func renderFeed(cmd *cobra.Command, feed *feedxml.Feed) error {
	switch outputFormat(cmd) {
	case "json":
		return output.JSON(os.Stdout, feed)
	case "yaml":
		return output.YAML(os.Stdout, feed)
	default:
		table := output.NewTable("PUBLISHED", "CIK", "TITLE")
		for _, item := range feed.Items {
			published := ""
			if !item.Published.IsZero() {
				published = item.Published.Format(time.RFC3339)
			}
			table.AddRow(published, item.CIK, item.Title)
		}
		table.Render(os.Stdout)
		return nil
	}
}

func init() {
	for _, sub := range []*cobra.Command{feedCurrentCmd, feedCompanyCmd} {
		sub.Flags().String("form", "", "restrict to one form type")
		sub.Flags().Int("count", 0, "maximum entries to request")
		sub.Flags().String("since", "", "drop entries older than this duration, e.g. 2h")
		feedCmd.AddCommand(sub)
	}
	feedCmd.AddCommand(feedPressCmd)
	rootCmd.AddCommand(feedCmd)
}
