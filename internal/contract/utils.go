package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
)

// Coverage label constants.
const (
	CriticalValue = "Critical" // Coverage below 40%
	LowValue      = "Low"      // Coverage below 60%
	ModerateValue = "Moderate" // Coverage below 80%
	GoodValue     = "Good"     // Coverage at or above 80%
)

// Color variables for console output.
var (
	CriticalColor = color.New(color.FgRed, color.Bold) // criticalColor represents standard danger.
	LowColor      = color.New(color.FgMagenta)         // lowColor represents strong warning.
	ModerateColor = color.New(color.FgYellow)          // moderateColor represents standard caution.
	GoodColor     = color.New(color.FgGreen)           // goodColor represents a healthy signal.
)

// GetPlainLabel returns a plain text label for a coverage percentage.
// This is the core logic used for CSV, JSON, and table printing.
func GetPlainLabel(coverage float64) string {
	switch {
	case coverage < 40:
		return CriticalValue
	case coverage < 60:
		return LowValue
	case coverage < 80:
		return ModerateValue
	default:
		return GoodValue
	}
}

// GetColorLabel returns a colored text label for console output (table).
// It uses GetPlainLabel to determine the string, and then applies the appropriate color.
func GetColorLabel(coverage float64) string {
	text := GetPlainLabel(coverage)

	switch text {
	case CriticalValue:
		return CriticalColor.Sprint(text)
	case LowValue:
		return LowColor.Sprint(text)
	case ModerateValue:
		return ModerateColor.Sprint(text)
	default: // "Good"
		return GoodColor.Sprint(text)
	}
}

// SelectOutputFile returns the appropriate file handle for output, based on
// the provided file path. It returns os.Stdout when no path is given.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// ShouldIgnore returns true if the given path matches any of the exclude patterns.
// It supports simple glob patterns (using filepath.Match) when the pattern
// contains wildcard characters (*, ?, [ ]). Patterns ending with '/' are treated
// as prefixes. Patterns starting with '.' are treated as suffix (extension) matches.
// A user can provide patterns like "vendor/", "node_modules/", "*.min.js".
func ShouldIgnore(path string, excludes []string) bool {
	for _, ex := range excludes {
		ex = strings.TrimSpace(ex)
		if ex == "" {
			continue
		}

		// If the pattern contains glob characters, try filepath.Match.
		if strings.ContainsAny(ex, "*?[") || strings.Contains(ex, "**") {
			pat := strings.ReplaceAll(ex, "**", "*")
			if ok, err := filepath.Match(pat, path); err == nil && ok {
				return true
			}
			// Also try matching against the base filename (e.g. *.min.js)
			if ok, err := filepath.Match(pat, filepath.Base(path)); err == nil && ok {
				return true
			}
			continue
		}

		// Handle prefix, suffix, or substring matches
		switch {
		case strings.HasSuffix(ex, "/"):
			if strings.HasPrefix(path, ex) {
				return true
			}
		case strings.HasPrefix(ex, "."):
			if strings.HasSuffix(path, ex) {
				return true
			}
		case strings.Contains(path, ex):
			return true
		}
	}
	return false
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Warn %s: %v\n", msg, err)
}

// GetMeasureDBFilePath returns the path to the SQLite DB file for measure storage.
func GetMeasureDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".covlens_measures.db"
	}
	return filepath.Join(homeDir, ".covlens_measures.db")
}

// TruncatePath truncates a file path to a maximum width with ellipsis prefix.
// Requires maxWidth > 3 to ensure there's space for both the "..." prefix and
// at least one character of content.
func TruncatePath(path string, maxWidth int) string {
	runes := []rune(path)
	if len(runes) > maxWidth && maxWidth > 3 {
		return "..." + string(runes[len(runes)-maxWidth+3:])
	}
	return path
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
// Returns an error for invalid values.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}
