// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"time"

	"github.com/covlens/covlens/schema"
)

// ResourceLocator maps a report-relative path string to a logical file
// identity. It is a pure lookup with no side effects; the second return is
// false when the path is unknown to the host project.
type ResourceLocator interface {
	Resolve(path string) (schema.FileIdentity, bool)
}

// MeasureSink receives the final measure set for one file. The parser calls
// it at most once per file per coverage mode.
type MeasureSink interface {
	SaveMeasures(file schema.FileIdentity, mode schema.CoverageMode, measures []schema.Measure) error
}

// MeasureStore is the persistence layer for coverage measures.
// This allows the store to be mocked for testing.
type MeasureStore interface {
	MeasureSink

	// BeginImport creates a new import run and returns its unique ID
	BeginImport(startTime time.Time, configParams map[string]any) (int64, error)

	// EndImport updates the import run with completion data
	EndImport(importID int64, endTime time.Time, totalFiles int) error

	// GetStatus returns status information about the measure store
	GetStatus() (schema.MeasureStoreStatus, error)

	// GetAllImportRuns retrieves every stored import run
	GetAllImportRuns() ([]schema.ImportRunRecord, error)

	// GetAllFileMeasures retrieves every stored file measure row
	GetAllFileMeasures() ([]schema.FileMeasureRecord, error)

	// Close closes the underlying connection
	Close() error
}
