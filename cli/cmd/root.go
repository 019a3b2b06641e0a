package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/filinghawk-systems/filinghawk/cli/internal/config"
	"github.com/filinghawk-systems/filinghawk/cli/pkg/output"
	"github.com/filinghawk-systems/filinghawk/common/logging"
	"github.com/filinghawk-systems/filinghawk/edgar"
)

var (
	cfgFile string
	cfg     *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "fhawk",
	Short: "FilingHawk EDGAR CLI",
	Long: `fhawk is the command-line interface to the SEC EDGAR archive.

Fetch company filings, run full-text searches, pull daily and quarterly
index files, and follow the filing feeds from your terminal.`,
	Version:       "0.1.0",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.fhawk/config.yaml)")
	rootCmd.PersistentFlags().String("user-agent", "", "identify yourself to the archive, e.g. \"Name Contact <email>\"")
	rootCmd.PersistentFlags().String("output", "", "output format: table, json, yaml")
}

func initConfig() {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		output.Warn("Could not load config: %v", err)
		cfg = &config.Config{Output: "table", Logging: config.LoggingConfig{Level: "warn", Format: "text"}}
	}
}

// newClient builds an EDGAR client from the loaded config plus any
// flag overrides.
func newClient(cmd *cobra.Command) (*edgar.Client, error) {
	ua := cfg.UserAgent
	if flagUA, _ := cmd.Flags().GetString("user-agent"); flagUA != "" {
		ua = flagUA
	}
	log := logging.New(logging.ParseLevel(cfg.Logging.Level), cfg.Logging.Format, os.Stderr)
	return edgar.NewWithConfig(edgar.Config{
		UserAgent:     ua,
		RatePerSecond: cfg.Rate,
		Burst:         cfg.Burst,
		Timeout:       cfg.Timeout,
		Logger:        log,
		Endpoints: edgar.Endpoints{
			Archives: cfg.Endpoints.Archives,
			Data:     cfg.Endpoints.Data,
			Files:    cfg.Endpoints.Files,
			Search:   cfg.Endpoints.Search,
			Browse:   cfg.Endpoints.Browse,
			News:     cfg.Endpoints.News,
		},
	})
}

func outputFormat(cmd *cobra.Command) string {
	if f, _ := cmd.Flags().GetString("output"); f != "" {
		return f
	}
	if cfg.Output != "" {
		return cfg.Output
	}
	return "table"
}

// renderRecords writes filing records in the selected format.
func renderRecords(cmd *cobra.Command, w io.Writer, records []edgar.FilingRecord) error {
	switch outputFormat(cmd) {
	case "json":
		return output.JSON(w, records)
	case "yaml":
		return output.YAML(w, records)
	case "table":
		table := output.NewTable("FILED", "FORM", "CIK", "COMPANY", "ACCESSION")
		for _, r := range records {
			table.AddRow(r.Filed, r.FormType, r.CIK, r.CompanyName, r.Accession.String())
		}
		table.Render(w)
		return nil
	default:
		return fmt.Errorf("unknown output format %q", outputFormat(cmd))
	}
}
