package schema

import "time"

// MeasureStoreStatus holds status information about the measure store.
type MeasureStoreStatus struct {
	Backend            DatabaseBackend
	Connected          bool
	TotalRuns          int64
	LastRunID          int64
	LastRunTime        time.Time
	OldestRunTime      time.Time
	TotalFilesImported int64
	TableSizes         map[string]int64
}

// ImportRunRecord mirrors one row of the import runs table.
type ImportRunRecord struct {
	ImportID           int64
	StartTime          time.Time
	EndTime            *time.Time
	RunDurationMs      *int64
	TotalFilesImported int
	ConfigParams       string
}

// FileMeasureRecord mirrors one row of the file measures table.
type FileMeasureRecord struct {
	ImportID int64
	FilePath string
	Mode     string
	Metric   string
	Value    float64
	Data     string
}
