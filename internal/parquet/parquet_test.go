package parquet

import (
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	covschema "github.com/covlens/covlens/schema"
	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleImportRuns() []ImportRun {
	now := time.Now()
	startTime1 := now.Add(-2 * time.Hour)
	endTime1 := now.Add(-1 * time.Hour)
	durationMs1 := endTime1.Sub(startTime1).Milliseconds()

	return []ImportRun{
		{
			ImportID:           1,
			StartTime:          startTime1,
			EndTime:            &endTime1,
			RunDurationMs:      &durationMs1,
			TotalFilesImported: 150,
			ConfigParams:       `{"project_path":"/repo","report_paths":"coverage.xml"}`,
		},
		{
			ImportID:           2,
			StartTime:          now.Add(-10 * time.Minute),
			EndTime:            nil, // Still running - nullable field
			RunDurationMs:      nil, // Not yet calculated - nullable field
			TotalFilesImported: 0,
			ConfigParams:       "{}",
		},
	}
}

func sampleFileMeasures() []FileMeasure {
	return []FileMeasure{
		{
			ImportID: 1,
			FilePath: "src/main.go",
			Mode:     "coverage",
			Metric:   "lines_to_cover",
			Value:    42,
			Data:     "",
		},
		{
			ImportID: 1,
			FilePath: "src/main.go",
			Mode:     "coverage",
			Metric:   "coverage_line_hits_data",
			Value:    0,
			Data:     "2=0;3=1;5=1",
		},
		{
			ImportID: 2,
			FilePath: "src/util/helper.go",
			Mode:     "it-coverage",
			Metric:   "it_conditions_to_cover",
			Value:    8,
			Data:     "",
		},
	}
}

func TestImportRunStructTags(t *testing.T) {
	// Verify struct tags are properly defined for parquet schema inference
	schema := parquet.SchemaOf(new(ImportRun))
	require.NotNil(t, schema)

	// Check that all expected columns exist
	expectedColumns := []string{
		"import_id",
		"start_time",
		"end_time",
		"run_duration_ms",
		"total_files_imported",
		"config_params",
	}

	for _, colName := range expectedColumns {
		col, ok := schema.Lookup(colName)
		require.True(t, ok, "Column %s should exist in schema", colName)
		require.NotNil(t, col, "Column %s should not be nil", colName)
	}
}

func TestFileMeasureStructTags(t *testing.T) {
	// Verify struct tags are properly defined for parquet schema inference
	schema := parquet.SchemaOf(new(FileMeasure))
	require.NotNil(t, schema)

	// Check that all expected columns exist
	expectedColumns := []string{
		"import_id",
		"file_path",
		"coverage_mode",
		"metric_key",
		"metric_value",
		"metric_data",
	}

	for _, colName := range expectedColumns {
		col, ok := schema.Lookup(colName)
		require.True(t, ok, "Column %s should exist in schema", colName)
		require.NotNil(t, col, "Column %s should not be nil", colName)
	}
}

func TestWriteImportRunsParquet(t *testing.T) {
	tmpDir := t.TempDir()
	outputPath := filepath.Join(tmpDir, "import_runs.parquet")

	data := sampleImportRuns()
	err := WriteImportRunsParquet(data, outputPath)
	require.NoError(t, err, "Writing Parquet file should not produce error")

	// Verify file was created
	info, err := os.Stat(outputPath)
	require.NoError(t, err, "Output file should exist")
	assert.Greater(t, info.Size(), int64(0), "Output file should not be empty")

	// Read back and verify data
	file, err := os.Open(outputPath)
	require.NoError(t, err, "Should be able to open output file")
	defer file.Close()

	reader := parquet.NewGenericReader[ImportRun](file)
	defer reader.Close()

	readData := make([]ImportRun, reader.NumRows())
	n, err := reader.Read(readData)
	if err != nil && err != io.EOF {
		require.NoError(t, err, "Should be able to read data")
	}
	assert.Equal(t, len(data), n, "Should read all records")

	for i := 0; i < len(data); i++ {
		assert.Equal(t, data[i].ImportID, readData[i].ImportID, "ImportID should match")
		assert.Equal(t, data[i].TotalFilesImported, readData[i].TotalFilesImported, "TotalFilesImported should match")
		assert.Equal(t, data[i].ConfigParams, readData[i].ConfigParams, "ConfigParams should match")

		// Check nullable fields
		if data[i].EndTime == nil {
			assert.Nil(t, readData[i].EndTime, "EndTime should be nil")
		} else {
			require.NotNil(t, readData[i].EndTime, "EndTime should not be nil")
			assert.WithinDuration(t, *data[i].EndTime, *readData[i].EndTime, time.Nanosecond, "EndTime should match within nanosecond precision")
		}

		if data[i].RunDurationMs == nil {
			assert.Nil(t, readData[i].RunDurationMs, "RunDurationMs should be nil")
		} else {
			require.NotNil(t, readData[i].RunDurationMs, "RunDurationMs should not be nil")
			assert.Equal(t, *data[i].RunDurationMs, *readData[i].RunDurationMs, "RunDurationMs should match")
		}
	}
}

func TestWriteFileMeasuresParquet(t *testing.T) {
	tmpDir := t.TempDir()
	outputPath := filepath.Join(tmpDir, "file_measures.parquet")

	data := sampleFileMeasures()
	err := WriteFileMeasuresParquet(data, outputPath)
	require.NoError(t, err, "Writing Parquet file should not produce error")

	info, err := os.Stat(outputPath)
	require.NoError(t, err, "Output file should exist")
	assert.Greater(t, info.Size(), int64(0), "Output file should not be empty")

	// Read back and verify data
	file, err := os.Open(outputPath)
	require.NoError(t, err, "Should be able to open output file")
	defer file.Close()

	reader := parquet.NewGenericReader[FileMeasure](file)
	defer reader.Close()

	readData := make([]FileMeasure, reader.NumRows())
	n, err := reader.Read(readData)
	if err != nil && err != io.EOF {
		require.NoError(t, err, "Should be able to read data")
	}
	assert.Equal(t, len(data), n, "Should read all records")

	for i := 0; i < len(data); i++ {
		assert.Equal(t, data[i].ImportID, readData[i].ImportID, "ImportID should match")
		assert.Equal(t, data[i].FilePath, readData[i].FilePath, "FilePath should match")
		assert.Equal(t, data[i].Mode, readData[i].Mode, "Mode should match")
		assert.Equal(t, data[i].Metric, readData[i].Metric, "Metric should match")
		assert.InDelta(t, data[i].Value, readData[i].Value, 0.001, "Value should match")
		assert.Equal(t, data[i].Data, readData[i].Data, "Data should match")
	}
}

func TestWriteImportRunsParquet_EmptyData(t *testing.T) {
	tmpDir := t.TempDir()
	outputPath := filepath.Join(tmpDir, "empty_import_runs.parquet")

	err := WriteImportRunsParquet([]ImportRun{}, outputPath)
	require.NoError(t, err, "Writing empty data should not produce error")

	info, err := os.Stat(outputPath)
	require.NoError(t, err, "Output file should exist")
	assert.Greater(t, info.Size(), int64(0), "Output file should contain schema even if empty")
}

func TestWriteFileMeasuresParquet_InvalidPath(t *testing.T) {
	data := sampleFileMeasures()
	err := WriteFileMeasuresParquet(data, "/nonexistent/directory/output.parquet")
	require.Error(t, err, "Writing to invalid path should produce error")
}

func TestConvertImportRunRecords(t *testing.T) {
	now := time.Now()
	endTime := now.Add(1 * time.Hour)
	durationMs := int64(3600000)

	records := []covschema.ImportRunRecord{{
		ImportID:           7,
		StartTime:          now,
		EndTime:            &endTime,
		RunDurationMs:      &durationMs,
		TotalFilesImported: 12,
		ConfigParams:       `{"project_path":"/repo"}`,
	}}

	result := ConvertImportRunRecords(records)
	require.Len(t, result, 1)
	assert.Equal(t, int64(7), result[0].ImportID)
	assert.Equal(t, int32(12), result[0].TotalFilesImported)
	assert.Equal(t, &endTime, result[0].EndTime)
	assert.Equal(t, `{"project_path":"/repo"}`, result[0].ConfigParams)
}
