// Package loader orchestrates coverage report imports. It feeds every
// configured report fragment of every coverage mode through the report
// parser and hands the aggregated measures to the measure store.
package loader

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/covlens/covlens/core/report"
	"github.com/covlens/covlens/internal/contract"
	"github.com/covlens/covlens/schema"
)

// ExecuteImport loads all configured report fragments, mode by mode, in the
// order coverage, IT coverage, unit test. A missing report file logs a
// warning and stops subsequent modes; a parse failure aborts the import with
// an error. Returns one summary per mode that was actually loaded.
func ExecuteImport(cfg *contract.Config, locator contract.ResourceLocator, store contract.MeasureStore) ([]schema.ImportSummary, error) {
	startTime := time.Now()
	importID, err := store.BeginImport(startTime, configParams(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to begin import run: %w", err)
	}

	var summaries []schema.ImportSummary
	totalFiles := 0
	for _, mode := range schema.AllCoverageModes {
		paths := cfg.ReportPathsFor(mode)
		if len(paths) == 0 {
			continue
		}
		summary, ok, err := loadMode(cfg, locator, store, mode, paths)
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		summaries = append(summaries, summary)
		totalFiles += len(summary.Files)
	}

	if err := store.EndImport(importID, time.Now(), totalFiles); err != nil {
		return nil, fmt.Errorf("failed to end import run: %w", err)
	}
	return summaries, nil
}

// loadMode parses all fragments of one mode against a single parser so that
// counters and per-file builders accumulate across fragments. The bool
// result is false when a report file was missing and later modes should be
// skipped.
func loadMode(cfg *contract.Config, locator contract.ResourceLocator, sink contract.MeasureSink, mode schema.CoverageMode, paths []string) (schema.ImportSummary, bool, error) {
	parser := report.NewReportParser(locator, sink, mode)

	for _, path := range paths {
		reportPath := path
		if !filepath.IsAbs(reportPath) {
			reportPath = filepath.Join(cfg.ProjectPath, reportPath)
		}
		fmt.Fprintf(os.Stderr, "Parsing %s\n", reportPath)

		if _, err := os.Stat(reportPath); err != nil {
			contract.LogWarn(fmt.Sprintf("Cannot find %s report to parse: %s", mode.DisplayName(), reportPath), err)
			return schema.ImportSummary{}, false, nil
		}
		if err := parseReportFile(parser, reportPath); err != nil {
			var parseErr *report.ParseError
			if errors.As(err, &parseErr) {
				return schema.ImportSummary{}, false, fmt.Errorf("error at line %d of %s report %s: %w", parseErr.Line, mode.DisplayName(), reportPath, err)
			}
			return schema.ImportSummary{}, false, fmt.Errorf("cannot parse %s report %s: %w", mode.DisplayName(), reportPath, err)
		}
	}

	if err := parser.SaveMeasures(); err != nil {
		return schema.ImportSummary{}, false, fmt.Errorf("cannot save %s measures: %w", mode.DisplayName(), err)
	}

	summary := schema.ImportSummary{
		Mode:               mode,
		MatchedFiles:       parser.MatchedFiles(),
		UnknownFiles:       parser.UnknownFiles(),
		SampleUnknownFiles: parser.FirstUnknownFiles(),
		Files:              parser.FileCoverages(),
	}

	fmt.Fprintf(os.Stderr, "Imported %s data for %d files\n", mode.DisplayName(), summary.MatchedFiles)
	if summary.UnknownFiles > 0 {
		fmt.Fprintf(os.Stderr, "%s data ignored for %d unknown files, including:\n%s\n",
			mode.DisplayName(), summary.UnknownFiles, strings.Join(summary.SampleUnknownFiles, "\n"))
	}
	return summary, true, nil
}

// parseReportFile scopes the report stream to one fragment, releasing it
// whether parsing succeeds or fails.
func parseReportFile(parser *report.ReportParser, reportPath string) error {
	f, err := os.Open(reportPath)
	if err != nil {
		return fmt.Errorf("cannot open report: %w", err)
	}
	defer func() { _ = f.Close() }()
	return parser.Parse(f)
}

// ExecuteValidate runs the strict parser over the given report files without
// resolving paths or persisting measures. It fails on the first invalid
// report.
func ExecuteValidate(reportPaths []string) error {
	for _, reportPath := range reportPaths {
		parser := report.NewReportParser(nullLocator{}, discardSink{}, schema.CoverageModeDefault)
		if err := parseReportFile(parser, reportPath); err != nil {
			var parseErr *report.ParseError
			if errors.As(err, &parseErr) {
				return fmt.Errorf("error at line %d of report %s: %w", parseErr.Line, reportPath, err)
			}
			return fmt.Errorf("cannot parse report %s: %w", reportPath, err)
		}
	}
	return nil
}

// configParams captures the import configuration for run tracking.
func configParams(cfg *contract.Config) map[string]any {
	return map[string]any{
		"project_path":          cfg.ProjectPath,
		"report_paths":          strings.Join(cfg.ReportPaths, ","),
		"it_report_paths":       strings.Join(cfg.ITReportPaths, ","),
		"unittest_report_paths": strings.Join(cfg.UnitTestReportPaths, ","),
	}
}

// nullLocator resolves nothing; used for validation-only passes.
type nullLocator struct{}

func (nullLocator) Resolve(string) (schema.FileIdentity, bool) {
	return schema.FileIdentity{}, false
}

// discardSink drops measures; used for validation-only passes.
type discardSink struct{}

func (discardSink) SaveMeasures(schema.FileIdentity, schema.CoverageMode, []schema.Measure) error {
	return nil
}
