package measurestore

import (
	"time"

	"github.com/covlens/covlens/internal/contract"
	"github.com/covlens/covlens/schema"
	"github.com/stretchr/testify/mock"
)

// MockMeasureStore is a mock implementation of MeasureStore for testing.
type MockMeasureStore struct {
	mock.Mock
}

var _ contract.MeasureStore = &MockMeasureStore{} // Compile-time check

// BeginImport implements the MeasureStore interface.
func (m *MockMeasureStore) BeginImport(startTime time.Time, configParams map[string]any) (int64, error) {
	args := m.Called(startTime, configParams)
	return args.Get(0).(int64), args.Error(1)
}

// EndImport implements the MeasureStore interface.
func (m *MockMeasureStore) EndImport(importID int64, endTime time.Time, totalFiles int) error {
	args := m.Called(importID, endTime, totalFiles)
	return args.Error(0)
}

// SaveMeasures implements the MeasureSink interface.
func (m *MockMeasureStore) SaveMeasures(file schema.FileIdentity, mode schema.CoverageMode, measures []schema.Measure) error {
	args := m.Called(file, mode, measures)
	return args.Error(0)
}

// GetStatus implements the MeasureStore interface.
func (m *MockMeasureStore) GetStatus() (schema.MeasureStoreStatus, error) {
	args := m.Called()
	return args.Get(0).(schema.MeasureStoreStatus), args.Error(1)
}

// GetAllImportRuns implements the MeasureStore interface.
func (m *MockMeasureStore) GetAllImportRuns() ([]schema.ImportRunRecord, error) {
	args := m.Called()
	runs, _ := args.Get(0).([]schema.ImportRunRecord)
	return runs, args.Error(1)
}

// GetAllFileMeasures implements the MeasureStore interface.
func (m *MockMeasureStore) GetAllFileMeasures() ([]schema.FileMeasureRecord, error) {
	args := m.Called()
	rows, _ := args.Get(0).([]schema.FileMeasureRecord)
	return rows, args.Error(1)
}

// Close implements the MeasureStore interface.
func (m *MockMeasureStore) Close() error {
	args := m.Called()
	return args.Error(0)
}
