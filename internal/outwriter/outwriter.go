// Package outwriter has output and writer logic.
package outwriter

import (
	"time"

	"github.com/covlens/covlens/internal/contract"
	"github.com/covlens/covlens/schema"
)

// OutWriter provides a unified interface for all output operations.
// It encapsulates the various output formats and provides a clean API for the core logic.
type OutWriter struct{}

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

// WriteSummaries prints import results using the configured output format.
func (ow *OutWriter) WriteSummaries(summaries []schema.ImportSummary, cfg *contract.Config, duration time.Duration) error {
	return WriteImportSummaries(summaries, cfg, duration)
}
