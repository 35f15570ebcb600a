package contract

import (
	"github.com/covlens/covlens/schema"
	"github.com/stretchr/testify/mock"
)

// MockResourceLocator is a mock implementation of ResourceLocator for testing.
type MockResourceLocator struct {
	mock.Mock
}

var _ ResourceLocator = &MockResourceLocator{} // Compile-time check

// Resolve implements the ResourceLocator interface.
func (m *MockResourceLocator) Resolve(path string) (schema.FileIdentity, bool) {
	args := m.Called(path)
	return args.Get(0).(schema.FileIdentity), args.Bool(1)
}

// MockMeasureSink is a mock implementation of MeasureSink for testing.
type MockMeasureSink struct {
	mock.Mock
}

var _ MeasureSink = &MockMeasureSink{} // Compile-time check

// SaveMeasures implements the MeasureSink interface.
func (m *MockMeasureSink) SaveMeasures(file schema.FileIdentity, mode schema.CoverageMode, measures []schema.Measure) error {
	args := m.Called(file, mode, measures)
	return args.Error(0)
}
