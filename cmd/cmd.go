// Package cmd defines the command-line interface for covlens.
package cmd

import (
	"github.com/covlens/covlens/internal/contract"
	"github.com/covlens/covlens/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(measuresCmd)
	rootCmd.AddCommand(versionCmd)

	// Add the measures subcommands to the parent measures command
	measuresCmd.AddCommand(measuresClearCmd)
	measuresCmd.AddCommand(measuresStatusCmd)
	measuresCmd.AddCommand(measuresExportCmd)
	measuresCmd.AddCommand(measuresMigrateCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().String("exclude", "", "Comma-separated list of path prefixes or patterns to ignore")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("precision", contract.DefaultPrecision, "Decimal precision for numeric columns")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("measure-backend", string(schema.SQLiteBackend), "Measure backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("measure-db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of importCmd to Viper
	importCmd.Flags().String("report-paths", "", "Comma-separated coverage report fragments")
	importCmd.Flags().String("it-report-paths", "", "Comma-separated IT coverage report fragments")
	importCmd.Flags().String("unittest-report-paths", "", "Comma-separated unit test report fragments")
	if err := viper.BindPFlags(importCmd.Flags()); err != nil {
		contract.LogFatal("Error binding import flags", err)
	}

	// Bind all flags of measuresMigrateCmd to Viper
	measuresMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(measuresMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding measures migrate flags", err)
	}
}
