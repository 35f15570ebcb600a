package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/covlens/covlens/schema"
)

// Default values for configuration.
const (
	DefaultPrecision = 1
	MaxPrecision     = 6
)

// Config holds the runtime configuration for an import.
// This struct remains the "final, validated" config.
type Config struct {
	ProjectPath string // Absolute path to the project the reports describe

	ReportPaths         []string // Ordinary coverage report fragments
	ITReportPaths       []string // Integration-test coverage report fragments
	UnitTestReportPaths []string // Unit-test coverage report fragments

	Excludes   []string
	Output     schema.OutputMode
	OutputFile string
	Precision  int
	Width      int // Terminal width override (0 = auto-detect)

	MeasureBackend   schema.DatabaseBackend
	MeasureDBConnect string // Please use env var as this is plaintext

	UseColors bool // Enable colored labels in table output
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// This is set manually from positional args, so no tag
	ProjectPathStr string

	ReportPaths         string `mapstructure:"report-paths"`
	ITReportPaths       string `mapstructure:"it-report-paths"`
	UnitTestReportPaths string `mapstructure:"unittest-report-paths"`
	Exclude             string `mapstructure:"exclude"`
	Output              string `mapstructure:"output"`
	OutputFile          string `mapstructure:"output-file"`
	Precision           int    `mapstructure:"precision"`
	Width               int    `mapstructure:"width"`
	MeasureBackend      string `mapstructure:"measure-backend"`
	MeasureDBConnect    string `mapstructure:"measure-db-connect"`
	Color               string `mapstructure:"color"`
}

// Clone returns a deep copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	clone.ReportPaths = append([]string(nil), c.ReportPaths...)
	clone.ITReportPaths = append([]string(nil), c.ITReportPaths...)
	clone.UnitTestReportPaths = append([]string(nil), c.UnitTestReportPaths...)
	clone.Excludes = append([]string(nil), c.Excludes...)
	return &clone
}

// ReportPathsFor returns the report fragment list configured for a mode.
func (c *Config) ReportPathsFor(mode schema.CoverageMode) []string {
	switch mode {
	case schema.ITCoverageMode:
		return c.ITReportPaths
	case schema.UnitTestMode:
		return c.UnitTestReportPaths
	default:
		return c.ReportPaths
	}
}

// ProcessAndValidate validates raw input and populates cfg from it.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	projectPath, err := filepath.Abs(input.ProjectPathStr)
	if err != nil {
		return fmt.Errorf("invalid project path %q: %w", input.ProjectPathStr, err)
	}
	info, err := os.Stat(projectPath)
	if err != nil {
		return fmt.Errorf("project path does not exist: %s", projectPath)
	}
	if !info.IsDir() {
		return fmt.Errorf("project path is not a directory: %s", projectPath)
	}
	cfg.ProjectPath = projectPath

	cfg.ReportPaths = SplitList(input.ReportPaths)
	cfg.ITReportPaths = SplitList(input.ITReportPaths)
	cfg.UnitTestReportPaths = SplitList(input.UnitTestReportPaths)
	cfg.Excludes = SplitList(input.Exclude)

	output := schema.OutputMode(input.Output)
	if _, ok := schema.ValidOutputModes[output]; !ok {
		return fmt.Errorf("invalid output mode: %s", input.Output)
	}
	cfg.Output = output
	cfg.OutputFile = input.OutputFile

	if input.Precision < 0 || input.Precision > MaxPrecision {
		return fmt.Errorf("precision must be between 0 and %d, got %d", MaxPrecision, input.Precision)
	}
	cfg.Precision = input.Precision

	if input.Width < 0 {
		return fmt.Errorf("width must not be negative, got %d", input.Width)
	}
	cfg.Width = input.Width

	backend := schema.DatabaseBackend(input.MeasureBackend)
	if backend == "" {
		backend = schema.NoneBackend
	}
	if _, ok := schema.ValidMeasureBackends[backend]; !ok {
		return fmt.Errorf("invalid measure backend: %s", input.MeasureBackend)
	}
	if err := ValidateDatabaseConnectionString(backend, input.MeasureDBConnect); err != nil {
		return err
	}
	cfg.MeasureBackend = backend
	cfg.MeasureDBConnect = input.MeasureDBConnect

	useColors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid color setting: %w", err)
	}
	cfg.UseColors = useColors

	return nil
}

// ValidateDatabaseConnectionString checks that networked backends carry a
// connection string. SQLite falls back to a default file path and None
// needs nothing.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.MySQLBackend, schema.PostgreSQLBackend:
		if strings.TrimSpace(connStr) == "" {
			return fmt.Errorf("measure-db-connect is required for %s backend", backend)
		}
	}
	return nil
}

// SplitList splits a comma-separated list, trimming whitespace and dropping
// empty entries.
func SplitList(s string) []string {
	if s == "" {
		return nil
	}
	var result []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			result = append(result, part)
		}
	}
	return result
}
