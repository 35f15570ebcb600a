package measurestore

import (
	"errors"
	"fmt"

	"github.com/covlens/covlens/internal/parquet"
)

// ExecuteMeasureExport performs the actual export of measure data to Parquet files.
func ExecuteMeasureExport(outputFile string) error {
	// Validate that output file is specified
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}

	// Get the measure store
	store := Manager.GetStore()

	// Check if there's any data to export
	status, err := store.GetStatus()
	if err != nil {
		return fmt.Errorf("failed to get measure status: %w", err)
	}

	if status.TotalRuns == 0 {
		return errors.New("no measure data found to export")
	}

	fmt.Printf("Exporting data from %s backend...\n", status.Backend)
	fmt.Printf("Total import runs: %d\n", status.TotalRuns)
	fmt.Printf("Total measure rows: %d\n", status.TableSizes[fileMeasuresTable])

	// Retrieve all import runs
	importRuns, err := store.GetAllImportRuns()
	if err != nil {
		return fmt.Errorf("failed to retrieve import runs: %w", err)
	}

	// Retrieve all file measures
	fileMeasures, err := store.GetAllFileMeasures()
	if err != nil {
		return fmt.Errorf("failed to retrieve file measures: %w", err)
	}

	// Convert to Parquet format
	parquetImportRuns := parquet.ConvertImportRunRecords(importRuns)
	parquetFileMeasures := parquet.ConvertFileMeasureRecords(fileMeasures)

	// Write import runs to Parquet
	importRunsFile := outputFile + ".import_runs.parquet"
	if err := parquet.WriteImportRunsParquet(parquetImportRuns, importRunsFile); err != nil {
		return fmt.Errorf("failed to write import runs: %w", err)
	}
	fmt.Printf("Exported %d import runs to: %s\n", len(parquetImportRuns), importRunsFile)

	// Write file measures to Parquet
	fileMeasuresFile := outputFile + ".file_measures.parquet"
	if err := parquet.WriteFileMeasuresParquet(parquetFileMeasures, fileMeasuresFile); err != nil {
		return fmt.Errorf("failed to write file measures: %w", err)
	}
	fmt.Printf("Exported %d measure rows to: %s\n", len(parquetFileMeasures), fileMeasuresFile)

	fmt.Println("\nExport complete! The Parquet files can be used with:")
	fmt.Println("  - Apache Spark")
	fmt.Println("  - Apache Arrow")
	fmt.Println("  - Pandas (via pyarrow)")
	fmt.Println("  - DuckDB")
	fmt.Println("  - Any other Parquet-compatible tool")

	return nil
}
