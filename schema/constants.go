package schema

// Custom string types for type safety.
type (
	// CoverageMode represents which counter family an import pass targets.
	CoverageMode string

	// OutputMode represents the format of the output.
	OutputMode string

	// DatabaseBackend represents the database backend for measure storage.
	DatabaseBackend string

	// MetricKey represents the destination key of one coverage counter.
	MetricKey string

	// CoverageMetric enumerates the counter slots a builder can emit.
	CoverageMetric int
)

// All coverage modes supported.
const (
	CoverageModeDefault CoverageMode = "coverage" // default
	ITCoverageMode      CoverageMode = "it-coverage"
	UnitTestMode        CoverageMode = "unittest"
)

// All output modes supported.
const (
	TextOut OutputMode = "text" // default
	CSVOut  OutputMode = "csv"
	JSONOut OutputMode = "json"
)

// All measure store backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// Counter slots emitted by a coverage builder.
const (
	MetricLinesToCover CoverageMetric = iota
	MetricUncoveredLines
	MetricCoverageLineHitsData
	MetricConditionsToCover
	MetricUncoveredConditions
	MetricConditionsByLine
	MetricCoveredConditionsByLine
)

// defaultMetricKeys is the ordinary coverage counter family.
var defaultMetricKeys = map[CoverageMetric]MetricKey{
	MetricLinesToCover:            "lines_to_cover",
	MetricUncoveredLines:          "uncovered_lines",
	MetricCoverageLineHitsData:    "coverage_line_hits_data",
	MetricConditionsToCover:       "conditions_to_cover",
	MetricUncoveredConditions:     "uncovered_conditions",
	MetricConditionsByLine:        "conditions_by_line",
	MetricCoveredConditionsByLine: "covered_conditions_by_line",
}

// itMetricKeys is the integration-test counter family. Same aggregation
// semantics, different destination labels.
var itMetricKeys = map[CoverageMetric]MetricKey{
	MetricLinesToCover:            "it_lines_to_cover",
	MetricUncoveredLines:          "it_uncovered_lines",
	MetricCoverageLineHitsData:    "it_coverage_line_hits_data",
	MetricConditionsToCover:       "it_conditions_to_cover",
	MetricUncoveredConditions:     "it_uncovered_conditions",
	MetricConditionsByLine:        "it_conditions_by_line",
	MetricCoveredConditionsByLine: "it_covered_conditions_by_line",
}

// MetricKeysFor returns the counter family for the given variant. The choice
// is made once at builder construction time and only affects labeling.
func MetricKeysFor(forIntegrationTests bool) map[CoverageMetric]MetricKey {
	if forIntegrationTests {
		return itMetricKeys
	}
	return defaultMetricKeys
}

// ForIntegrationTests reports whether the mode targets the IT counter family.
func (m CoverageMode) ForIntegrationTests() bool {
	return m == ITCoverageMode
}

// DisplayName returns the human-readable name of a coverage mode.
func (m CoverageMode) DisplayName() string {
	switch m {
	case ITCoverageMode:
		return "IT coverage"
	case UnitTestMode:
		return "unit test"
	default:
		return "coverage"
	}
}

// AllCoverageModes lists the modes in the order they are imported.
var AllCoverageModes = []CoverageMode{CoverageModeDefault, ITCoverageMode, UnitTestMode}

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	TextOut: {},
	CSVOut:  {},
	JSONOut: {},
}

// ValidMeasureBackends lists all valid measure store backends.
var ValidMeasureBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}
