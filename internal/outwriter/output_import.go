package outwriter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/covlens/covlens/internal/contract"
	"github.com/covlens/covlens/schema"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// WriteImportSummaries outputs the import results, dispatching based on the output format configured.
func WriteImportSummaries(summaries []schema.ImportSummary, cfg *contract.Config, duration time.Duration) error {
	// Create formatters using helper
	fmtFloat, intFmt := createFormatters(cfg.Precision)

	// Dispatcher: Handle different output formats
	switch cfg.Output {
	case schema.JSONOut:
		if err := writeImportJSONResults(summaries, cfg); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeImportCSVResults(summaries, cfg, fmtFloat, intFmt); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	default:
		// Default to human-readable table
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeImportTable(summaries, cfg, fmtFloat, intFmt, duration, w)
		}, "Wrote table")
	}
	return nil
}

// writeImportJSONResults handles opening the file and calling the JSON writer.
func writeImportJSONResults(summaries []schema.ImportSummary, cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return writeJSONResultsForImport(w, summaries)
	}, "Wrote JSON")
}

// writeImportCSVResults handles opening the file and calling the CSV writer.
func writeImportCSVResults(summaries []schema.ImportSummary, cfg *contract.Config, fmtFloat func(float64) string, intFmt string) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		csvWriter := csv.NewWriter(w)
		defer csvWriter.Flush()
		return writeCSVResultsForImport(csvWriter, summaries, fmtFloat, intFmt)
	}, "Wrote CSV")
}

// writeImportTable generates and writes the human-readable table.
func writeImportTable(summaries []schema.ImportSummary, cfg *contract.Config, fmtFloat func(float64) string, intFmt string, duration time.Duration, writer io.Writer) error {
	for _, summary := range summaries {
		if _, err := fmt.Fprintf(writer, "%s: %d matched files, %d unknown files\n",
			summary.Mode.DisplayName(), summary.MatchedFiles, summary.UnknownFiles); err != nil {
			return err
		}

		table := tablewriter.NewWriter(writer)
		table.Header([]string{"Rank", "Path", "Lines", "Covered", "Line%", "Conditions", "Covered", "Branch%", "Label"})
		table.Configure(func(tcfg *tablewriter.Config) {
			tcfg.Row.Alignment.Global = tw.AlignRight
		})

		var data [][]string
		for i, f := range summary.Files {
			lineCov := f.LineCoverage()
			row := []string{
				strconv.Itoa(i + 1), // Rank
				contract.TruncatePath(f.Path, GetMaxTablePathWidth(cfg)),
				fmt.Sprintf(intFmt, f.LinesToCover),
				fmt.Sprintf(intFmt, f.CoveredLines),
				fmtFloat(lineCov),
				fmt.Sprintf(intFmt, f.Conditions),
				fmt.Sprintf(intFmt, f.CoveredConditions),
				fmtFloat(f.BranchCoverage()),
				coverageLabel(lineCov, cfg.UseColors),
			}
			data = append(data, row)
		}

		if err := table.Bulk(data); err != nil {
			return err
		}
		if err := table.Render(); err != nil {
			return err
		}
	}

	// Compute summary stats across all modes
	totalFiles := 0
	totalLines := 0
	totalCovered := 0
	for _, summary := range summaries {
		totalFiles += len(summary.Files)
		for _, f := range summary.Files {
			totalLines += f.LinesToCover
			totalCovered += f.CoveredLines
		}
	}
	if _, err := fmt.Fprintf(writer, "Imported %d files (lines to cover: %d, covered lines: %d)\n", totalFiles, totalLines, totalCovered); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(writer, "Import completed in %v. Measure backend: %s\n", duration, cfg.MeasureBackend); err != nil {
		return err
	}
	return nil
}

// writeCSVResultsForImport writes the import results in CSV format.
func writeCSVResultsForImport(w *csv.Writer, summaries []schema.ImportSummary, fmtFloat func(float64) string, intFmt string) error {
	// CSV header
	header := []string{
		"rank",
		"file",
		"mode",
		"lines_to_cover",
		"covered_lines",
		"line_coverage",
		"conditions_to_cover",
		"covered_conditions",
		"branch_coverage",
		"label",
	}
	if err := w.Write(header); err != nil {
		return err
	}
	for _, summary := range summaries {
		for i, f := range summary.Files {
			lineCov := f.LineCoverage()
			rec := []string{
				strconv.Itoa(i + 1),
				f.Path,
				string(summary.Mode),
				fmt.Sprintf(intFmt, f.LinesToCover),
				fmt.Sprintf(intFmt, f.CoveredLines),
				fmtFloat(lineCov),
				fmt.Sprintf(intFmt, f.Conditions),
				fmt.Sprintf(intFmt, f.CoveredConditions),
				fmtFloat(f.BranchCoverage()),
				contract.GetPlainLabel(lineCov),
			}
			if err := w.Write(rec); err != nil {
				return err
			}
		}
	}
	return nil
}

// writeJSONResultsForImport writes the import results in JSON format.
func writeJSONResultsForImport(w io.Writer, summaries []schema.ImportSummary) error {
	// 1. Prepare the data structure for JSON with computed fields added
	type JSONFileCoverage struct {
		Rank              int     `json:"rank"`
		Path              string  `json:"path"`
		LinesToCover      int     `json:"lines_to_cover"`
		CoveredLines      int     `json:"covered_lines"`
		LineCoverage      float64 `json:"line_coverage"`
		Conditions        int     `json:"conditions_to_cover"`
		CoveredConditions int     `json:"covered_conditions"`
		BranchCoverage    float64 `json:"branch_coverage"`
		Label             string  `json:"label"`
	}
	type JSONImportSummary struct {
		Mode               string             `json:"mode"`
		MatchedFiles       int                `json:"matched_files"`
		UnknownFiles       int                `json:"unknown_files"`
		SampleUnknownFiles []string           `json:"sample_unknown_files,omitempty"`
		Files              []JSONFileCoverage `json:"files"`
	}

	output := make([]JSONImportSummary, len(summaries))
	for i, summary := range summaries {
		files := make([]JSONFileCoverage, len(summary.Files))
		for j, f := range summary.Files {
			lineCov := f.LineCoverage()
			files[j] = JSONFileCoverage{
				Rank:              j + 1,
				Path:              f.Path,
				LinesToCover:      f.LinesToCover,
				CoveredLines:      f.CoveredLines,
				LineCoverage:      lineCov,
				Conditions:        f.Conditions,
				CoveredConditions: f.CoveredConditions,
				BranchCoverage:    f.BranchCoverage(),
				Label:             contract.GetPlainLabel(lineCov),
			}
		}
		output[i] = JSONImportSummary{
			Mode:               string(summary.Mode),
			MatchedFiles:       summary.MatchedFiles,
			UnknownFiles:       summary.UnknownFiles,
			SampleUnknownFiles: summary.SampleUnknownFiles,
			Files:              files,
		}
	}

	// 2. Use the generic JSON writer
	return writeJSON(w, output)
}

// ImportSummariesJSON renders import summaries as indented JSON without
// writing them anywhere. Used by the MCP tools.
func ImportSummariesJSON(summaries []schema.ImportSummary) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeJSONResultsForImport(&buf, summaries); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// coverageLabel returns a colored or plain label based on the color setting.
func coverageLabel(coverage float64, useColors bool) string {
	if useColors {
		return contract.GetColorLabel(coverage)
	}
	return contract.GetPlainLabel(coverage)
}
