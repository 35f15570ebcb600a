package loader

import (
	"time"

	"github.com/covlens/covlens/internal/contract"
	"github.com/covlens/covlens/internal/locator"
	"github.com/covlens/covlens/internal/outwriter"
)

// ExecuteCoverageImport runs the full import pipeline and prints results.
// It serves as the main entry point for the 'import' command.
func ExecuteCoverageImport(cfg *contract.Config, store contract.MeasureStore) error {
	start := time.Now()

	loc, err := locator.NewFileSystemLocator(cfg.ProjectPath, cfg.Excludes)
	if err != nil {
		return err
	}

	summaries, err := ExecuteImport(cfg, loc, store)
	if err != nil {
		return err
	}

	duration := time.Since(start)
	return outwriter.WriteImportSummaries(summaries, cfg, duration)
}
