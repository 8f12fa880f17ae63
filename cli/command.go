package cli

import (
	"fmt"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	_cmd "github.com/bountylens/bountylens/cmd"
	"github.com/bountylens/bountylens/config"
)

var (
	rootCmd = &cobra.Command{
		Use:   "bountylens [OPTIONS]",
		Short: "Vulnerability-disclosure analytics",
		Long: `Bountylens cleans a raw vulnerability-disclosure dataset and derives
the summary tables a dashboard reads: vulnerability types, organizations,
reporters and monthly trends.`,
	}

	versions = "bountylens version v0.1.0"

	configFile  string
	inputFile   string
	outputDir   string
	dbFile      string
	topN        int
	printConfig bool
)

// loadConfig layers file and environment config, then applies the
// command-line flags on top.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, err
	}

	if cmd.Flags().Changed("input") {
		cfg.Input = inputFile
	}
	if cmd.Flags().Changed("output") {
		cfg.OutputDir = outputDir
	}
	if cmd.Flags().Changed("db") {
		cfg.DBFile = dbFile
	}
	if cmd.Flags().Changed("top") {
		cfg.TopN = topN
	}

	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("log_level: %w", err)
	}
	log.SetLevel(level)

	return cfg, nil
}

func Execute() error {
	processCmd := &cobra.Command{
		Use:   "process",
		Short: "Run the full pipeline",
		Long: `Examples:
  # Process the default dataset location
  $ bountylens process

  # Process a specific dataset into a specific folder
  $ bountylens process -i data/raw/reports.csv -o data/processed

  # Mirror the run into SQLite as well
  $ bountylens process --db data/bountylens.db`,
		Args: NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			if printConfig {
				data, err := yaml.Marshal(cfg)
				if err != nil {
					return err
				}
				fmt.Print(string(data))
				return nil
			}

			return _cmd.DoProcess(config.Ctx, cfg)
		},
	}

	insightsCmd := &cobra.Command{
		Use:   "insights",
		Short: "Derive key insights from processed tables",
		Args:  NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			return _cmd.DoInsights(config.Ctx, cfg)
		},
	}

	showCmd := &cobra.Command{
		Use:   "show [vulns|orgs|reporters]",
		Short: "Print a top-N table from the SQLite mirror",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			if cfg.DBFile == "" {
				return fmt.Errorf("show requires --db (or db_file in the config)")
			}

			return _cmd.DoShow(config.Ctx, cfg, args[0])
		},
	}

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information and quit",
		Args:  NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(versions)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "path of config file")

	processCmd.Flags().StringVarP(&inputFile, "input", "i", "", "path of raw dataset")
	processCmd.Flags().StringVarP(&outputDir, "output", "o", "", "output folder location")
	processCmd.Flags().StringVar(&dbFile, "db", "", "mirror the run into a SQLite database")
	processCmd.Flags().IntVar(&topN, "top", 0, "rows in the console summary tables")
	processCmd.Flags().BoolVar(&printConfig, "print-config", false, "print the effective config and quit")

	insightsCmd.Flags().StringVarP(&outputDir, "output", "o", "", "folder holding the processed tables")

	showCmd.Flags().StringVar(&dbFile, "db", "", "path of the SQLite database")
	showCmd.Flags().IntVarP(&topN, "top", "n", 0, "rows to print")

	rootCmd.AddCommand(processCmd)
	rootCmd.AddCommand(insightsCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(versionCmd)
	return rootCmd.Execute()
}
