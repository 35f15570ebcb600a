// Package parquet provides data structures and functions for exporting
// coverage measure data to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"time"

	"github.com/covlens/covlens/schema"
	"github.com/parquet-go/parquet-go"
)

// ImportRun represents a single coverage import run with metadata.
// This struct maps to the covlens_import_runs database table.
type ImportRun struct {
	// ImportID is the unique identifier for this import run
	ImportID int64 `parquet:"import_id,snappy"`

	// StartTime is when the import began (stored as TIMESTAMP with nanosecond precision)
	StartTime time.Time `parquet:"start_time,snappy"`

	// EndTime is when the import completed (nullable, stored as TIMESTAMP with nanosecond precision)
	EndTime *time.Time `parquet:"end_time,optional,snappy"`

	// RunDurationMs is the duration of the import run in milliseconds (nullable)
	RunDurationMs *int64 `parquet:"run_duration_ms,optional,snappy"`

	// TotalFilesImported is the number of files imported in this run
	TotalFilesImported int32 `parquet:"total_files_imported,snappy"`

	// ConfigParams contains the JSON-encoded configuration parameters
	ConfigParams string `parquet:"config_params,snappy"`
}

// FileMeasure represents one persisted coverage measure for a single file.
// This struct maps to the covlens_file_measures database table.
type FileMeasure struct {
	// ImportID references the parent import run
	ImportID int64 `parquet:"import_id,snappy"`

	// FilePath is the relative path to the file in the project
	FilePath string `parquet:"file_path,snappy"`

	// Mode is the coverage mode the measure belongs to
	Mode string `parquet:"coverage_mode,snappy"`

	// Metric is the destination metric key of the measure
	Metric string `parquet:"metric_key,snappy"`

	// Value is the numeric value of the measure
	Value float64 `parquet:"metric_value,snappy"`

	// Data holds per-line payloads such as "2=0;3=1" (empty for numeric measures)
	Data string `parquet:"metric_data,snappy"`
}

// WriteImportRunsParquet writes a slice of ImportRun structs to a Parquet file.
func WriteImportRunsParquet(data []ImportRun, outputPath string) error {
	// Create the output file
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	// Create a Parquet writer using struct schema inference
	// The schema is automatically derived from the ImportRun struct tags
	writer := parquet.NewGenericWriter[ImportRun](file)
	defer func() { _ = writer.Close() }()

	// Write all records to the file
	if _, err := writer.Write(data); err != nil {
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}

	return nil
}

// WriteFileMeasuresParquet writes a slice of FileMeasure structs to a Parquet file.
func WriteFileMeasuresParquet(data []FileMeasure, outputPath string) error {
	// Create the output file
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	// Create a Parquet writer using struct schema inference
	// The schema is automatically derived from the FileMeasure struct tags
	writer := parquet.NewGenericWriter[FileMeasure](file)
	defer func() { _ = writer.Close() }()

	// Write all records to the file
	if _, err := writer.Write(data); err != nil {
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}

	return nil
}

// ConvertImportRunRecords converts schema.ImportRunRecord to ImportRun for Parquet export.
func ConvertImportRunRecords(records []schema.ImportRunRecord) []ImportRun {
	result := make([]ImportRun, len(records))
	for i, record := range records {
		result[i] = ImportRun{
			ImportID:           record.ImportID,
			StartTime:          record.StartTime,
			EndTime:            record.EndTime,
			RunDurationMs:      record.RunDurationMs,
			TotalFilesImported: int32(record.TotalFilesImported),
			ConfigParams:       record.ConfigParams,
		}
	}
	return result
}

// MockFetchImportRuns generates sample ImportRun data for demonstration.
func MockFetchImportRuns() []ImportRun {
	now := time.Now()
	startTime1 := now.Add(-2 * time.Hour)
	endTime1 := startTime1.Add(45 * time.Second)
	durationMs1 := endTime1.Sub(startTime1).Milliseconds()
	configParams1 := `{"project_path":"/repo/app","report_paths":"coverage.xml"}`

	startTime2 := now.Add(-24 * time.Hour)
	endTime2 := startTime2.Add(90 * time.Second)
	durationMs2 := endTime2.Sub(startTime2).Milliseconds()
	configParams2 := `{"project_path":"/repo/app","report_paths":"cov1.xml,cov2.xml","it_report_paths":"it.xml"}`

	startTime3 := now.Add(-10 * time.Minute)
	// Note: endTime3 and durationMs3 are nil to demonstrate nullable fields

	return []ImportRun{
		{
			ImportID:           1,
			StartTime:          startTime1,
			EndTime:            &endTime1,
			RunDurationMs:      &durationMs1,
			TotalFilesImported: 150,
			ConfigParams:       configParams1,
		},
		{
			ImportID:           2,
			StartTime:          startTime2,
			EndTime:            &endTime2,
			RunDurationMs:      &durationMs2,
			TotalFilesImported: 75,
			ConfigParams:       configParams2,
		},
		{
			ImportID:           3,
			StartTime:          startTime3,
			EndTime:            nil, // Still running - nullable field
			RunDurationMs:      nil, // Not yet calculated - nullable field
			TotalFilesImported: 0,
			ConfigParams:       "{}",
		},
	}
}

// MockFetchFileMeasures generates sample FileMeasure data for demonstration.
func MockFetchFileMeasures() []FileMeasure {
	return []FileMeasure{
		{
			ImportID: 1,
			FilePath: "src/main.go",
			Mode:     "coverage",
			Metric:   "lines_to_cover",
			Value:    42,
		},
		{
			ImportID: 1,
			FilePath: "src/main.go",
			Mode:     "coverage",
			Metric:   "uncovered_lines",
			Value:    7,
		},
		{
			ImportID: 1,
			FilePath: "src/main.go",
			Mode:     "coverage",
			Metric:   "coverage_line_hits_data",
			Data:     "2=1;3=0;5=4",
		},
		{
			ImportID: 2,
			FilePath: "src/utils/helper.go",
			Mode:     "it-coverage",
			Metric:   "it_lines_to_cover",
			Value:    18,
		},
		{
			ImportID: 2,
			FilePath: "src/utils/helper.go",
			Mode:     "it-coverage",
			Metric:   "it_covered_conditions_by_line",
			Data:     "10=2",
		},
	}
}

// ConvertFileMeasureRecords converts schema.FileMeasureRecord to FileMeasure for Parquet export.
func ConvertFileMeasureRecords(records []schema.FileMeasureRecord) []FileMeasure {
	result := make([]FileMeasure, len(records))
	for i, record := range records {
		result[i] = FileMeasure{
			ImportID: record.ImportID,
			FilePath: record.FilePath,
			Mode:     record.Mode,
			Metric:   record.Metric,
			Value:    record.Value,
			Data:     record.Data,
		}
	}
	return result
}
