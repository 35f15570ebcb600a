package cmd

import (
	"fmt"

	"github.com/covlens/covlens/internal/contract"
	"github.com/covlens/covlens/internal/measurestore"
	"github.com/covlens/covlens/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// measuresSetup loads minimal configuration needed for measure operations.
// This is used by commands that need store access without full shared setup.
func measuresSetup() error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	// Get measure-related config values
	backendStr := viper.GetString("measure-backend")
	connStr := viper.GetString("measure-db-connect")

	// Handle empty backend as NoneBackend
	var backend schema.DatabaseBackend
	if backendStr == "" {
		backend = schema.NoneBackend
	} else {
		backend = schema.DatabaseBackend(backendStr)
	}

	// Basic validation for database backends
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return err
	}

	// Get output-related config values (used by export command)
	outputFile := viper.GetString("output-file")

	// Initialize the store with the loaded config
	if err := measurestore.InitStore(backend, connStr); err != nil {
		return fmt.Errorf("failed to initialize measure store: %w", err)
	}

	cfg.MeasureBackend = backend
	cfg.MeasureDBConnect = connStr
	cfg.OutputFile = outputFile

	return nil
}

// measuresSetupWrapper wraps measuresSetup to provide PreRunE for measure commands.
func measuresSetupWrapper(_ *cobra.Command, _ []string) error {
	return measuresSetup()
}

// measuresMigrateSetup loads minimal configuration needed for migrate operations.
// This is a specialized setup that does NOT initialize the store or create tables,
// allowing migrations to run on a fresh database.
func measuresMigrateSetup() error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	// Get measure-related config values
	backendStr := viper.GetString("measure-backend")
	connStr := viper.GetString("measure-db-connect")

	// Handle empty backend as NoneBackend
	var backend schema.DatabaseBackend
	if backendStr == "" {
		backend = schema.NoneBackend
	} else {
		backend = schema.DatabaseBackend(backendStr)
	}

	// Basic validation for database backends
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return err
	}

	// For SQLite backend with empty connection string, use default path
	if backend == schema.SQLiteBackend && connStr == "" {
		connStr = contract.GetMeasureDBFilePath()
	}

	cfg.MeasureBackend = backend
	cfg.MeasureDBConnect = connStr

	return nil
}

// measuresMigrateSetupWrapper wraps measuresMigrateSetup to provide PreRunE for migrate command.
func measuresMigrateSetupWrapper(_ *cobra.Command, _ []string) error {
	return measuresMigrateSetup()
}

// measuresCmd focused on measure data management.
//
// Note: Measure subcommands use minimal initialization (measuresSetup) instead of
// the full sharedSetup used by the import command. This avoids project path
// validation and complex config processing for simple store operations.
var measuresCmd = &cobra.Command{
	Use:   "measures",
	Short: "Manage stored coverage measures and exports",
	Long: `Manage coverage measure data persisted across import runs.

When enabled, covlens tracks every import run, storing:
- Run metadata (timestamp, configuration, duration)
- Per-file coverage counters for every mode (coverage, IT coverage, unit test)
- Line-keyed hit and branch data

This enables longitudinal coverage tracking and data export for BI tools.

Supported backends: SQLite (default), MySQL, PostgreSQL, or None (disabled)

Subcommands:
  status  - Show measure store statistics
  export  - Export data to Parquet for analytics
  clear   - Remove all stored measures
  migrate - Run database schema migrations

Examples:
  # Check store status
  covlens measures status

  # Export for analysis in pandas/DuckDB
  covlens measures export --output-file coverage-data.parquet`,
}

// measuresClearCmd clears the measure data.
var measuresClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all stored coverage measures",
	Long: `Delete all stored import runs and coverage measures.

WARNING: This action cannot be undone. Consider exporting data first.

Examples:
  # Export before clearing
  covlens measures export --output-file backup.parquet
  covlens measures clear`,
	PreRunE: measuresSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := measurestore.ClearMeasures(cfg.MeasureBackend, contract.GetMeasureDBFilePath(), cfg.MeasureDBConnect); err != nil {
			contract.LogFatal("Failed to clear measure data", err)
		}
		fmt.Println("Measure data cleared successfully.")
	},
}

// measuresStatusCmd shows measure store status.
var measuresStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display measure store statistics and connection details",
	Long: `Show detailed information about the measure store.

Displays:
- Backend type and connection status
- Total number of import runs stored
- Last and oldest import run timestamps
- Total files imported across all runs
- Database table sizes

Examples:
  # Check measure store status
  covlens measures status`,
	PreRunE: measuresSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		status, err := measurestore.Manager.GetStore().GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get measure status", err)
		}
		measurestore.PrintMeasureStatus(status)
	},
}

// measuresExportCmd exports measure data to Parquet files.
var measuresExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export stored measures to Parquet for BI tools and analytics",
	Long: `Export all stored measure data to Parquet format for use with analytics tools.

Exports two datasets:
- Import runs - metadata about each import execution
- File measures - per-file coverage counters and line data

Requires: --output-file parameter

Examples:
  # Export all data
  covlens measures export --output-file coverage-data.parquet

  # Use with DuckDB for analysis
  covlens measures export --output-file data.parquet
  duckdb -c "SELECT * FROM read_parquet('data.parquet.file_measures.parquet') LIMIT 10"`,
	PreRunE: measuresSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := measurestore.ExecuteMeasureExport(cfg.OutputFile); err != nil {
			contract.LogFatal("Failed to export measure data", err)
		}
	},
}

// measuresMigrateCmd runs database migrations for the measure store.
var measuresMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database schema migrations (upgrades/downgrades)",
	Long: `Manage database schema versions for the measure store.

By default, migrates to the latest version. Use --target-version for specific versions.

Examples:
  # Migrate to latest version (default)
  covlens measures migrate

  # Migrate to specific version
  covlens measures migrate --target-version 1

  # Rollback to initial state
  covlens measures migrate --target-version 0`,
	PreRunE: measuresMigrateSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		targetVersion := viper.GetInt("target-version")
		if err := measurestore.MigrateMeasures(cfg.MeasureBackend, cfg.MeasureDBConnect, targetVersion); err != nil {
			contract.LogFatal("Failed to run migrations", err)
		}
	},
}
