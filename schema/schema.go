// Package schema has configs, models and shared constants for all parts of covlens.
package schema

// FileIdentity is the resolved, canonical reference to a source file.
// It is produced by a ResourceLocator and used as the aggregation key
// for all coverage measures of that file.
type FileIdentity struct {
	RelPath string // Clean path relative to the project root, forward slashes
	AbsPath string // Absolute path on disk
}

// Key returns the stable identifier used to pool coverage builders.
func (f FileIdentity) Key() string {
	return f.RelPath
}

// Measure is one aggregated coverage counter for a file. Scalar measures
// carry Value; line-keyed measures carry Data (formatted with FormatLineValues).
type Measure struct {
	Metric MetricKey // Destination metric key
	Value  float64   // Scalar value, 0 for data measures
	Data   string    // Line-keyed payload like "2=0;3=1;5=1", empty for scalars
}

// FileCoverage is the per-file summary row produced after an import pass.
type FileCoverage struct {
	Path              string // Resolved relative path
	LinesToCover      int    // Number of distinct lines declared coverable
	CoveredLines      int    // Lines with at least one hit
	Conditions        int    // Total declared branches
	CoveredConditions int    // Branches actually exercised
}

// LineCoverage returns the line coverage percentage, or 100 when no lines
// were declared.
func (f FileCoverage) LineCoverage() float64 {
	if f.LinesToCover == 0 {
		return 100.0
	}
	return 100.0 * float64(f.CoveredLines) / float64(f.LinesToCover)
}

// BranchCoverage returns the branch coverage percentage, or 100 when no
// branches were declared.
func (f FileCoverage) BranchCoverage() float64 {
	if f.Conditions == 0 {
		return 100.0
	}
	return 100.0 * float64(f.CoveredConditions) / float64(f.Conditions)
}

// ImportSummary holds the bookkeeping of one coverage mode's import pass.
type ImportSummary struct {
	Mode               CoverageMode   // Which counter family this pass targeted
	MatchedFiles       int            // Declared files that resolved to a known resource
	UnknownFiles       int            // Declared files that did not resolve
	SampleUnknownFiles []string       // Capped, first-occurrence sample of unresolved paths
	Files              []FileCoverage // Per-file summaries, ascending by path
}
