package loader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/covlens/covlens/internal/contract"
	"github.com/covlens/covlens/internal/measurestore"
	"github.com/covlens/covlens/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const simpleReport = `<coverage version="1">
  <file path="a.go">
    <lineToCover lineNumber="2" covered="true"/>
    <lineToCover lineNumber="3" covered="false"/>
  </file>
</coverage>`

// writeReport drops a report fragment into the project directory.
func writeReport(t *testing.T, projectPath, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(projectPath, name), []byte(content), 0o644))
}

// newKnownLocator resolves the given relative paths and nothing else.
func newKnownLocator(projectPath string, known ...string) *contract.MockResourceLocator {
	loc := &contract.MockResourceLocator{}
	for _, relPath := range known {
		identity := schema.FileIdentity{RelPath: relPath, AbsPath: filepath.Join(projectPath, relPath)}
		loc.On("Resolve", relPath).Return(identity, true)
	}
	loc.On("Resolve", mock.Anything).Return(schema.FileIdentity{}, false)
	return loc
}

// newRecordingStore accepts every call and hands out import ID 1.
func newRecordingStore() *measurestore.MockMeasureStore {
	store := &measurestore.MockMeasureStore{}
	store.On("BeginImport", mock.Anything, mock.Anything).Return(int64(1), nil)
	store.On("SaveMeasures", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	store.On("EndImport", int64(1), mock.Anything, mock.Anything).Return(nil)
	return store
}

func TestExecuteImportSingleMode(t *testing.T) {
	projectPath := t.TempDir()
	writeReport(t, projectPath, "coverage.xml", simpleReport)

	cfg := &contract.Config{ProjectPath: projectPath, ReportPaths: []string{"coverage.xml"}}
	loc := newKnownLocator(projectPath, "a.go")
	store := newRecordingStore()

	summaries, err := ExecuteImport(cfg, loc, store)
	require.NoError(t, err)
	require.Len(t, summaries, 1)

	summary := summaries[0]
	assert.Equal(t, schema.CoverageModeDefault, summary.Mode)
	assert.Equal(t, 1, summary.MatchedFiles)
	assert.Equal(t, 0, summary.UnknownFiles)
	require.Len(t, summary.Files, 1)
	assert.Equal(t, "a.go", summary.Files[0].Path)
	assert.Equal(t, 2, summary.Files[0].LinesToCover)
	assert.Equal(t, 1, summary.Files[0].CoveredLines)

	store.AssertCalled(t, "EndImport", int64(1), mock.Anything, 1)
	store.AssertCalled(t, "SaveMeasures", mock.Anything, schema.CoverageModeDefault, mock.Anything)
}

func TestExecuteImportSkipsUnconfiguredModes(t *testing.T) {
	projectPath := t.TempDir()
	writeReport(t, projectPath, "ut.xml", simpleReport)

	cfg := &contract.Config{ProjectPath: projectPath, UnitTestReportPaths: []string{"ut.xml"}}
	loc := newKnownLocator(projectPath, "a.go")
	store := newRecordingStore()

	summaries, err := ExecuteImport(cfg, loc, store)
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, schema.UnitTestMode, summaries[0].Mode)
}

func TestExecuteImportMissingReportStopsLaterModes(t *testing.T) {
	projectPath := t.TempDir()
	writeReport(t, projectPath, "coverage.xml", simpleReport)
	writeReport(t, projectPath, "ut.xml", simpleReport)

	cfg := &contract.Config{
		ProjectPath:         projectPath,
		ReportPaths:         []string{"coverage.xml"},
		ITReportPaths:       []string{"missing-it.xml"},
		UnitTestReportPaths: []string{"ut.xml"},
	}
	loc := newKnownLocator(projectPath, "a.go")
	store := newRecordingStore()

	summaries, err := ExecuteImport(cfg, loc, store)
	require.NoError(t, err)

	// Unit test reports never load because the IT report is missing.
	require.Len(t, summaries, 1)
	assert.Equal(t, schema.CoverageModeDefault, summaries[0].Mode)
	store.AssertCalled(t, "EndImport", int64(1), mock.Anything, 1)
}

func TestExecuteImportITModeUsesITFamily(t *testing.T) {
	projectPath := t.TempDir()
	writeReport(t, projectPath, "it.xml", simpleReport)

	cfg := &contract.Config{ProjectPath: projectPath, ITReportPaths: []string{"it.xml"}}
	loc := newKnownLocator(projectPath, "a.go")

	store := &measurestore.MockMeasureStore{}
	store.On("BeginImport", mock.Anything, mock.Anything).Return(int64(1), nil)
	store.On("EndImport", int64(1), mock.Anything, mock.Anything).Return(nil)

	var saved []schema.Measure
	store.On("SaveMeasures", mock.Anything, schema.ITCoverageMode, mock.Anything).
		Run(func(args mock.Arguments) { saved = args.Get(2).([]schema.Measure) }).
		Return(nil)

	_, err := ExecuteImport(cfg, loc, store)
	require.NoError(t, err)

	require.NotEmpty(t, saved)
	for _, measure := range saved {
		assert.Contains(t, string(measure.Metric), "it_")
	}
}

func TestExecuteImportParseErrorIsWrapped(t *testing.T) {
	projectPath := t.TempDir()
	writeReport(t, projectPath, "coverage.xml", `<coverage version="1">
<file path="a.go">
<lineToCover lineNumber="zero" covered="true"/>
</file>
</coverage>`)

	cfg := &contract.Config{ProjectPath: projectPath, ReportPaths: []string{"coverage.xml"}}
	loc := newKnownLocator(projectPath, "a.go")
	store := newRecordingStore()

	_, err := ExecuteImport(cfg, loc, store)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error at line 3 of coverage report")
	assert.Contains(t, err.Error(), filepath.Join(projectPath, "coverage.xml"))
}

func TestExecuteImportMergesFragmentsWithinMode(t *testing.T) {
	projectPath := t.TempDir()
	writeReport(t, projectPath, "frag1.xml", `<coverage version="1">
  <file path="a.go">
    <lineToCover lineNumber="2" covered="false"/>
  </file>
</coverage>`)
	writeReport(t, projectPath, "frag2.xml", `<coverage version="1">
  <file path="a.go">
    <lineToCover lineNumber="2" covered="true"/>
    <lineToCover lineNumber="4" covered="true"/>
  </file>
</coverage>`)

	cfg := &contract.Config{ProjectPath: projectPath, ReportPaths: []string{"frag1.xml", "frag2.xml"}}
	loc := newKnownLocator(projectPath, "a.go")
	store := newRecordingStore()

	summaries, err := ExecuteImport(cfg, loc, store)
	require.NoError(t, err)
	require.Len(t, summaries, 1)

	require.Len(t, summaries[0].Files, 1)
	assert.Equal(t, 2, summaries[0].Files[0].LinesToCover)
	assert.Equal(t, 2, summaries[0].Files[0].CoveredLines)

	// One save per file per mode, not per fragment
	store.AssertNumberOfCalls(t, "SaveMeasures", 1)
}

func TestExecuteImportBeginImportFailure(t *testing.T) {
	projectPath := t.TempDir()
	cfg := &contract.Config{ProjectPath: projectPath}
	loc := newKnownLocator(projectPath)

	store := &measurestore.MockMeasureStore{}
	store.On("BeginImport", mock.Anything, mock.Anything).Return(int64(0), assert.AnError)

	_, err := ExecuteImport(cfg, loc, store)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to begin import run")
}

func TestExecuteValidate(t *testing.T) {
	projectPath := t.TempDir()
	writeReport(t, projectPath, "good.xml", simpleReport)
	writeReport(t, projectPath, "bad.xml", `<coverage version="2"/>`)

	err := ExecuteValidate([]string{filepath.Join(projectPath, "good.xml")})
	assert.NoError(t, err)

	err = ExecuteValidate([]string{filepath.Join(projectPath, "bad.xml")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error at line 1 of report")

	err = ExecuteValidate([]string{filepath.Join(projectPath, "missing.xml")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot parse report")
}
