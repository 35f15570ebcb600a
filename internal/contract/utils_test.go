package contract

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetPlainLabel(t *testing.T) {
	tests := []struct {
		name     string
		input    float64
		expected string
	}{
		{
			name:     "smallest value possible",
			input:    0.0,
			expected: CriticalValue,
		},
		{
			name:     "just before low",
			input:    39.9,
			expected: CriticalValue,
		},
		{
			name:     "exactly low",
			input:    40.0,
			expected: LowValue,
		},
		{
			name:     "just before moderate",
			input:    59.9,
			expected: LowValue,
		},
		{
			name:     "exactly moderate",
			input:    60.0,
			expected: ModerateValue,
		},
		{
			name:     "just before good",
			input:    79.9,
			expected: ModerateValue,
		},
		{
			name:     "exactly good",
			input:    80.0,
			expected: GoodValue,
		},
		{
			name:     "full coverage",
			input:    100.0,
			expected: GoodValue,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetPlainLabel(tt.input))
		})
	}
}

func TestGetColorLabel(t *testing.T) {
	tests := []struct {
		name     string
		coverage float64
		label    string
	}{
		{"critical", 30, CriticalValue},
		{"low", 50, LowValue},
		{"moderate", 70, ModerateValue},
		{"good", 90, GoodValue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := GetColorLabel(tt.coverage)
			// Should contain the plain label
			assert.Contains(t, result, tt.label)
		})
	}
}

func TestSelectOutputFile(t *testing.T) {
	t.Run("empty path returns stdout", func(t *testing.T) {
		file, err := SelectOutputFile("")
		require.NoError(t, err)
		assert.Equal(t, os.Stdout, file)
	})

	t.Run("valid path creates file", func(t *testing.T) {
		tempFile := filepath.Join(t.TempDir(), "test_output.txt")

		file, err := SelectOutputFile(tempFile)
		require.NoError(t, err)
		assert.NotNil(t, file)
		_ = file.Close()

		// Verify file was created
		_, err = os.Stat(tempFile)
		assert.NoError(t, err)
	})
}

func TestShouldIgnore(t *testing.T) {
	tests := []struct {
		name       string
		path       string
		excludes   []string
		wantIgnore bool
	}{
		{
			name:       "empty excludes",
			path:       "src/main.go",
			excludes:   []string{},
			wantIgnore: false,
		},
		{
			name:       "prefix match",
			path:       "vendor/github.com/lib/file.go",
			excludes:   []string{"vendor/"},
			wantIgnore: true,
		},
		{
			name:       "suffix match",
			path:       "dist/bundle.min.js",
			excludes:   []string{".min.js"},
			wantIgnore: true,
		},
		{
			name:       "glob match basename",
			path:       "src/file.min.js",
			excludes:   []string{"*.min.js"},
			wantIgnore: true,
		},
		{
			name:       "glob match with test suffix",
			path:       "test/unit_test.go",
			excludes:   []string{"*_test.go"},
			wantIgnore: true,
		},
		{
			name:       "substring match",
			path:       "src/generated/code.go",
			excludes:   []string{"generated"},
			wantIgnore: true,
		},
		{
			name:       "no match",
			path:       "src/core/engine.go",
			excludes:   []string{"vendor/", "node_modules/", ".min.js"},
			wantIgnore: false,
		},
		{
			name:       "multiple excludes with match",
			path:       "node_modules/react/index.js",
			excludes:   []string{"vendor/", "node_modules/", "third_party/"},
			wantIgnore: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ShouldIgnore(tt.path, tt.excludes)
			assert.Equal(t, tt.wantIgnore, got)
		})
	}
}

func TestGetMeasureDBFilePath(t *testing.T) {
	path := GetMeasureDBFilePath()

	// Should not be empty
	assert.NotEmpty(t, path)

	// Should contain the database name
	assert.Contains(t, path, ".covlens_measures.db")

	// Should be in home directory
	homeDir, err := os.UserHomeDir()
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(path, homeDir), "path %s should start with home dir %s", path, homeDir)
}

func TestTruncatePath(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		maxWidth int
		expected string
	}{
		{
			name:     "short path unchanged",
			path:     "src/main.go",
			maxWidth: 40,
			expected: "src/main.go",
		},
		{
			name:     "long path truncated with ellipsis",
			path:     "very/long/nested/path/to/some/file.go",
			maxWidth: 20,
			expected: "...h/to/some/file.go",
		},
		{
			name:     "width too small leaves path alone",
			path:     "src/main.go",
			maxWidth: 3,
			expected: "src/main.go",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TruncatePath(tt.path, tt.maxWidth)
			assert.Equal(t, tt.expected, got)
			assert.LessOrEqual(t, len(got), max(len(tt.path), tt.maxWidth))
		})
	}
}

func TestParseBoolString(t *testing.T) {
	trueInputs := []string{"yes", "YES", "true", "True", "1"}
	for _, in := range trueInputs {
		got, err := ParseBoolString(in)
		require.NoError(t, err, "input %q", in)
		assert.True(t, got, "input %q", in)
	}

	falseInputs := []string{"no", "No", "false", "FALSE", "0"}
	for _, in := range falseInputs {
		got, err := ParseBoolString(in)
		require.NoError(t, err, "input %q", in)
		assert.False(t, got, "input %q", in)
	}

	_, err := ParseBoolString("maybe")
	assert.Error(t, err)
}
