package cmd

import (
	"github.com/covlens/covlens/core/loader"
	"github.com/covlens/covlens/internal/contract"
	"github.com/covlens/covlens/internal/measurestore"
	"github.com/spf13/cobra"
)

// importCmd performs the coverage report import.
var importCmd = &cobra.Command{
	Use:   "import [project-path]",
	Short: "Parse coverage reports and aggregate per-file measures.",
	Long: `Parse generic coverage XML reports and aggregate line and branch coverage per file.

Reports load in three passes, each targeting its own counter family:
- coverage reports (--report-paths)
- IT coverage reports (--it-report-paths)
- unit test reports (--unittest-report-paths)

Fragments within a pass merge conservatively: a line counts as covered once
any fragment covers it, and branch totals must agree across fragments.
Declared files that do not exist in the project are counted and skipped.

Examples:
  # Import a single report against the current directory
  covlens import --report-paths coverage.xml

  # Merge several fragments and track IT coverage separately
  covlens import --report-paths "cov1.xml,cov2.xml" --it-report-paths it.xml /path/to/project

  # Export findings to CSV for tracking
  covlens import --report-paths coverage.xml --output csv --output-file coverage.csv`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := loader.ExecuteCoverageImport(cfg, measurestore.Manager.GetStore()); err != nil {
			contract.LogFatal("Cannot run coverage import", err)
		}
	},
}
