package cmd

import (
	"fmt"

	"github.com/covlens/covlens/core/loader"
	"github.com/covlens/covlens/internal/contract"
	"github.com/spf13/cobra"
)

// validateCmd checks report files against the generic coverage format.
var validateCmd = &cobra.Command{
	Use:   "validate <report-file>...",
	Short: "Validate coverage reports without importing them.",
	Long: `Check that coverage report files conform to the generic coverage format.

Validation runs the same strict parser as the import, but resolves no files
and persists nothing. The first structural problem fails with its input line
number.

Examples:
  # Validate a single report
  covlens validate coverage.xml

  # Validate several fragments at once
  covlens validate cov1.xml cov2.xml it.xml`,
	Args: cobra.MinimumNArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		if err := loader.ExecuteValidate(args); err != nil {
			contract.LogFatal("Report validation failed", err)
		}
		fmt.Printf("All %d reports are valid\n", len(args))
	},
}
