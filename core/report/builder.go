// Package report implements the streaming coverage report parser and the
// per-file coverage builder that merges line and branch facts into
// internally-consistent counters.
package report

import (
	"errors"
	"fmt"

	"github.com/covlens/covlens/schema"
)

// ErrConditionMismatch signals that a line was re-declared with a different
// total branch count than previously recorded. The merge refuses to guess
// which total is correct.
var ErrConditionMismatch = errors.New("conflicting branch totals")

// CoverageBuilder accumulates per-line hit counts and per-line branch
// coverage for one logical file. Facts from multiple report fragments merge
// monotonically: hit values and covered-branch counts only go up.
type CoverageBuilder struct {
	keys map[schema.CoverageMetric]schema.MetricKey

	totalCoveredLines      int
	totalConditions        int
	totalCoveredConditions int

	hitsByLine              map[int]int
	conditionsByLine        map[int]int
	coveredConditionsByLine map[int]int
}

// NewCoverageBuilder creates an empty builder. forIntegrationTests selects
// the counter family the measures will target; aggregation semantics are
// identical either way.
func NewCoverageBuilder(forIntegrationTests bool) *CoverageBuilder {
	return &CoverageBuilder{
		keys:                    schema.MetricKeysFor(forIntegrationTests),
		hitsByLine:              make(map[int]int),
		conditionsByLine:        make(map[int]int),
		coveredConditionsByLine: make(map[int]int),
	}
}

// SetHits merges a hit fact for the given line. Re-declaring a known line is
// a max-merge: the stored value is raised, never lowered, and the
// covered-line total is bumped only on a 0-to-positive transition.
func (b *CoverageBuilder) SetHits(line, hits int) {
	if oldValue, ok := b.hitsByLine[line]; ok {
		if hits > oldValue {
			b.hitsByLine[line] = hits
		}
		if oldValue == 0 && hits > 0 {
			b.totalCoveredLines++
		}
		return
	}
	b.hitsByLine[line] = hits
	if hits > 0 {
		b.totalCoveredLines++
	}
}

// SetConditions merges a branch fact for the given line. A zero total is a
// no-op. Re-declaring a line with a different total than previously recorded
// fails with ErrConditionMismatch and leaves the stored state untouched;
// re-declaring with the same total max-merges the covered count and adjusts
// the covered-branch total by exactly the delta introduced.
func (b *CoverageBuilder) SetConditions(line, conditions, coveredConditions int) error {
	if conditions <= 0 {
		return nil
	}

	var coveredNewValue, totalCoveredDiff int
	if oldTotal, ok := b.conditionsByLine[line]; ok {
		if conditions != oldTotal {
			return fmt.Errorf("%w for line %d: had %d, got %d", ErrConditionMismatch, line, oldTotal, conditions)
		}
		oldValue := b.coveredConditionsByLine[line]
		coveredNewValue = max(oldValue, coveredConditions)
		totalCoveredDiff = coveredNewValue - oldValue
	} else {
		b.totalConditions += conditions
		b.conditionsByLine[line] = conditions
		coveredNewValue = coveredConditions
		totalCoveredDiff = coveredConditions
	}
	b.coveredConditionsByLine[line] = coveredNewValue
	b.totalCoveredConditions += totalCoveredDiff
	return nil
}

// LinesToCover returns the number of distinct lines declared coverable.
func (b *CoverageBuilder) LinesToCover() int {
	return len(b.hitsByLine)
}

// CoveredLines returns the number of lines with a positive hit value.
func (b *CoverageBuilder) CoveredLines() int {
	return b.totalCoveredLines
}

// Conditions returns the total number of declared branches.
func (b *CoverageBuilder) Conditions() int {
	return b.totalConditions
}

// CoveredConditions returns the total number of exercised branches.
func (b *CoverageBuilder) CoveredConditions() int {
	return b.totalCoveredConditions
}

// HitsByLine returns a copy of the per-line hit counts.
func (b *CoverageBuilder) HitsByLine() map[int]int {
	return copyLineMap(b.hitsByLine)
}

// ConditionsByLine returns a copy of the per-line branch totals.
func (b *CoverageBuilder) ConditionsByLine() map[int]int {
	return copyLineMap(b.conditionsByLine)
}

// CoveredConditionsByLine returns a copy of the per-line covered-branch counts.
func (b *CoverageBuilder) CoveredConditionsByLine() map[int]int {
	return copyLineMap(b.coveredConditionsByLine)
}

// CreateMeasures materializes the measure set. Line counters are emitted
// only when at least one line fact was recorded; condition counters only
// when at least one branch fact with a positive total was recorded. Empty
// metric families are omitted rather than emitted as zeros.
func (b *CoverageBuilder) CreateMeasures() []schema.Measure {
	var measures []schema.Measure
	if b.LinesToCover() > 0 {
		measures = append(measures,
			schema.Measure{Metric: b.keys[schema.MetricLinesToCover], Value: float64(b.LinesToCover())},
			schema.Measure{Metric: b.keys[schema.MetricUncoveredLines], Value: float64(b.LinesToCover() - b.CoveredLines())},
			schema.Measure{Metric: b.keys[schema.MetricCoverageLineHitsData], Data: schema.FormatLineValues(b.hitsByLine)},
		)
	}
	if b.Conditions() > 0 {
		measures = append(measures,
			schema.Measure{Metric: b.keys[schema.MetricConditionsToCover], Value: float64(b.Conditions())},
			schema.Measure{Metric: b.keys[schema.MetricUncoveredConditions], Value: float64(b.Conditions() - b.CoveredConditions())},
			schema.Measure{Metric: b.keys[schema.MetricConditionsByLine], Data: schema.FormatLineValues(b.conditionsByLine)},
			schema.Measure{Metric: b.keys[schema.MetricCoveredConditionsByLine], Data: schema.FormatLineValues(b.coveredConditionsByLine)},
		)
	}
	return measures
}

func copyLineMap(src map[int]int) map[int]int {
	dst := make(map[int]int, len(src))
	for line, value := range src {
		dst[line] = value
	}
	return dst
}
