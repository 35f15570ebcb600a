//go:build basic

// Package integration contains integration tests for covlens.
// These tests are excluded from normal test runs due to build tags.
// To run these tests: go test -tags basic ./integration
// Or use: make test-integration
package integration

import (
	"bytes"
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fixtureReport = `<coverage version="1">
  <file path="src/a.go">
    <lineToCover lineNumber="1" covered="true"/>
    <lineToCover lineNumber="2" covered="false"/>
    <lineToCover lineNumber="3" covered="true" branchesToCover="4" coveredBranches="2"/>
  </file>
  <file path="src/b.go">
    <lineToCover lineNumber="2" covered="true"/>
    <lineToCover lineNumber="5" covered="true"/>
  </file>
  <file path="src/ghost.go">
    <lineToCover lineNumber="1" covered="true"/>
  </file>
</coverage>
`

// jsonSummary mirrors the JSON output shape of the import command.
type jsonSummary struct {
	Mode         string `json:"mode"`
	MatchedFiles int    `json:"matched_files"`
	UnknownFiles int    `json:"unknown_files"`
	Files        []struct {
		Path              string  `json:"path"`
		LinesToCover      int     `json:"lines_to_cover"`
		CoveredLines      int     `json:"covered_lines"`
		LineCoverage      float64 `json:"line_coverage"`
		ConditionsToCover int     `json:"conditions_to_cover"`
		CoveredConditions int     `json:"covered_conditions"`
	} `json:"files"`
}

// makeFixtureProject creates a small project tree with a coverage report.
func makeFixtureProject(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "src"), 0o755))
	body := []byte("package src\n\nvar a = 1\nvar b = 2\nvar c = 3\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "src", "a.go"), body, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "src", "b.go"), body, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "coverage.xml"), []byte(fixtureReport), 0o644))
	return dir
}

// TestCovlensImportVerification imports a known report and verifies the
// aggregated per-file counters against what the report declares.
func TestCovlensImportVerification(t *testing.T) {
	covlensPath := getCovlensBinary()
	projectDir := makeFixtureProject(t)

	cmd := exec.Command(covlensPath, "import",
		"--report-paths", "coverage.xml",
		"--output", "json",
		"--measure-backend", "none",
		projectDir)
	cmd.Dir = projectDir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	require.NoError(t, cmd.Run(), "stderr: %s", stderr.String())

	var summaries []jsonSummary
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &summaries))
	require.Len(t, summaries, 1)

	s := summaries[0]
	assert.Equal(t, "coverage", s.Mode)
	assert.Equal(t, 2, s.MatchedFiles)
	assert.Equal(t, 1, s.UnknownFiles, "ghost.go does not exist on disk")

	byPath := make(map[string]int)
	for i, f := range s.Files {
		byPath[f.Path] = i
	}
	require.Contains(t, byPath, "src/a.go")
	require.Contains(t, byPath, "src/b.go")

	a := s.Files[byPath["src/a.go"]]
	assert.Equal(t, 3, a.LinesToCover)
	assert.Equal(t, 2, a.CoveredLines)
	assert.Equal(t, 4, a.ConditionsToCover)
	assert.Equal(t, 2, a.CoveredConditions)

	b := s.Files[byPath["src/b.go"]]
	assert.Equal(t, 2, b.LinesToCover)
	assert.Equal(t, 2, b.CoveredLines)
	assert.InDelta(t, 100.0, b.LineCoverage, 0.01)
}

// TestCovlensImportMergesFragments imports two overlapping fragments and
// verifies the merged counters.
func TestCovlensImportMergesFragments(t *testing.T) {
	covlensPath := getCovlensBinary()
	projectDir := makeFixtureProject(t)

	frag1 := `<coverage version="1"><file path="src/a.go"><lineToCover lineNumber="1" covered="false"/><lineToCover lineNumber="2" covered="false"/></file></coverage>`
	frag2 := `<coverage version="1"><file path="src/a.go"><lineToCover lineNumber="1" covered="true"/></file></coverage>`
	require.NoError(t, os.WriteFile(filepath.Join(projectDir, "frag1.xml"), []byte(frag1), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(projectDir, "frag2.xml"), []byte(frag2), 0o644))

	cmd := exec.Command(covlensPath, "import",
		"--report-paths", "frag1.xml,frag2.xml",
		"--output", "json",
		"--measure-backend", "none",
		projectDir)
	cmd.Dir = projectDir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	require.NoError(t, cmd.Run(), "stderr: %s", stderr.String())

	var summaries []jsonSummary
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &summaries))
	require.Len(t, summaries, 1)
	require.Len(t, summaries[0].Files, 1)

	a := summaries[0].Files[0]
	assert.Equal(t, "src/a.go", a.Path)
	assert.Equal(t, 2, a.LinesToCover)
	assert.Equal(t, 1, a.CoveredLines, "line 1 is covered once any fragment covers it")
}

// TestCovlensValidate checks the validate command against good and bad reports.
func TestCovlensValidate(t *testing.T) {
	covlensPath := getCovlensBinary()
	dir := t.TempDir()

	goodPath := filepath.Join(dir, "good.xml")
	require.NoError(t, os.WriteFile(goodPath, []byte(fixtureReport), 0o644))

	badPath := filepath.Join(dir, "bad.xml")
	require.NoError(t, os.WriteFile(badPath, []byte(`<coverage version="2"/>`), 0o644))

	t.Run("valid report passes", func(t *testing.T) {
		cmd := exec.Command(covlensPath, "validate", goodPath)
		output, err := cmd.CombinedOutput()
		require.NoError(t, err, "output: %s", string(output))
		assert.Contains(t, string(output), "All 1 reports are valid")
	})

	t.Run("invalid version fails with line number", func(t *testing.T) {
		cmd := exec.Command(covlensPath, "validate", badPath)
		output, err := cmd.CombinedOutput()
		require.Error(t, err)
		assert.Contains(t, string(output), "error at line 1")
	})
}
