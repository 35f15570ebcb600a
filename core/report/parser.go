package report

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/covlens/covlens/internal/contract"
	"github.com/covlens/covlens/schema"
)

// Report schema constants. Only one format version is accepted.
const (
	rootElement = "coverage"
	fileElement = "file"
	lineElement = "lineToCover"

	supportedVersion = "1"
)

// maxUnknownFilesSample caps the unresolved-path sample kept for diagnostics.
const maxUnknownFilesSample = 10

// parseState drives the strict single-pass validation state machine.
type parseState int

const (
	expectRoot parseState = iota
	expectFileOrEnd
	expectLineOrEndOfFile
	parseDone
)

// fileEntry pairs a resolved identity with its coverage builder.
type fileEntry struct {
	identity schema.FileIdentity
	builder  *CoverageBuilder
}

// ReportParser is a strict streaming validator over generic coverage XML.
// It can be invoked once per report fragment; counters and the per-file
// builder pool persist across invocations so several fragments can
// contribute to one logical coverage run. Not safe for concurrent use.
type ReportParser struct {
	locator contract.ResourceLocator
	sink    contract.MeasureSink
	mode    schema.CoverageMode

	entries      map[string]*fileEntry
	matchedFiles int
	unknownFiles int
	firstUnknown []string
	saved        bool
}

// NewReportParser creates a parser that resolves file paths through locator
// and hands final measures to sink, targeting the counter family of mode.
func NewReportParser(locator contract.ResourceLocator, sink contract.MeasureSink, mode schema.CoverageMode) *ReportParser {
	return &ReportParser{
		locator: locator,
		sink:    sink,
		mode:    mode,
		entries: make(map[string]*fileEntry),
	}
}

// Parse validates and aggregates one report fragment. Structural errors and
// merge conflicts return a *ParseError carrying the input line number;
// tokenization failures return a wrapped transport error. A failure aborts
// the fragment immediately, leaving facts already merged in place.
func (p *ReportParser) Parse(r io.Reader) error {
	lr := &lineReader{r: r}
	dec := xml.NewDecoder(lr)

	state := expectRoot
	// builder is nil while inside a file element whose path did not resolve;
	// its line facts are validated but discarded.
	var builder *CoverageBuilder

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			if state != parseDone {
				return newParseError(lr.lineAt(dec.InputOffset()), "unexpected end of report")
			}
			return nil
		}
		if err != nil {
			return fmt.Errorf("cannot tokenize report: %w", err)
		}
		line := lr.lineAt(dec.InputOffset())

		switch t := tok.(type) {
		case xml.StartElement:
			switch state {
			case expectRoot:
				if err := p.handleRoot(t, line); err != nil {
					return err
				}
				state = expectFileOrEnd

			case expectFileOrEnd:
				b, err := p.handleFile(t, line)
				if err != nil {
					return err
				}
				builder = b
				state = expectLineOrEndOfFile

			case expectLineOrEndOfFile:
				if err := p.handleLine(dec, lr, t, line, builder); err != nil {
					return err
				}

			case parseDone:
				return newParseError(line, "unexpected element <%s> after document end", t.Name.Local)
			}

		case xml.EndElement:
			switch state {
			case expectLineOrEndOfFile:
				builder = nil
				state = expectFileOrEnd
			case expectFileOrEnd:
				state = parseDone
			}

		default:
			// Whitespace, comments and directives are ignored.
		}
	}
}

// handleRoot validates the root element name and its version attribute.
func (p *ReportParser) handleRoot(se xml.StartElement, line int) error {
	if se.Name.Local != rootElement {
		return newParseError(line, "unexpected root element <%s>, expected <%s>", se.Name.Local, rootElement)
	}
	version, ok := attrValue(se, "version")
	if !ok {
		return newParseError(line, "missing attribute version of element <%s>", rootElement)
	}
	if version != supportedVersion {
		return newParseError(line, "unsupported report version %q, expected %q", version, supportedVersion)
	}
	return nil
}

// handleFile validates a file element and resolves its path. It returns the
// builder to apply line facts to, or nil when the path is unknown.
func (p *ReportParser) handleFile(se xml.StartElement, line int) (*CoverageBuilder, error) {
	if se.Name.Local != fileElement {
		return nil, newParseError(line, "unexpected element <%s>, expected <%s>", se.Name.Local, fileElement)
	}
	path, ok := attrValue(se, "path")
	if !ok || path == "" {
		return nil, newParseError(line, "missing attribute path of element <%s>", fileElement)
	}

	identity, found := p.locator.Resolve(path)
	if !found {
		p.unknownFiles++
		if len(p.firstUnknown) < maxUnknownFilesSample {
			p.firstUnknown = append(p.firstUnknown, path)
		}
		return nil, nil
	}

	p.matchedFiles++
	entry, ok := p.entries[identity.Key()]
	if !ok {
		entry = &fileEntry{
			identity: identity,
			builder:  NewCoverageBuilder(p.mode.ForIntegrationTests()),
		}
		p.entries[identity.Key()] = entry
	}
	return entry.builder, nil
}

// handleLine validates a lineToCover element, applies its facts to builder
// when the enclosing file resolved, and consumes the element's end tag.
func (p *ReportParser) handleLine(dec *xml.Decoder, lr *lineReader, se xml.StartElement, line int, builder *CoverageBuilder) error {
	if se.Name.Local != lineElement {
		return newParseError(line, "unexpected element <%s>, expected <%s>", se.Name.Local, lineElement)
	}

	lineNumber, err := requiredIntAttr(se, "lineNumber", line)
	if err != nil {
		return err
	}
	if lineNumber < 1 {
		return newParseError(line, "attribute lineNumber of element <%s> must be positive, got %d", lineElement, lineNumber)
	}

	coveredStr, ok := attrValue(se, "covered")
	if !ok {
		return newParseError(line, "missing attribute covered of element <%s>", lineElement)
	}
	covered, err := strconv.ParseBool(coveredStr)
	if err != nil {
		return newParseError(line, "attribute covered of element <%s> is not a boolean: %q", lineElement, coveredStr)
	}

	branchesToCover, hasBranches, err := optionalIntAttr(se, "branchesToCover", line)
	if err != nil {
		return err
	}
	coveredBranches, hasCovered, err := optionalIntAttr(se, "coveredBranches", line)
	if err != nil {
		return err
	}
	if hasBranches && hasCovered && coveredBranches > branchesToCover {
		return newParseError(line, "coveredBranches (%d) exceeds branchesToCover (%d)", coveredBranches, branchesToCover)
	}

	if builder != nil {
		hits := 0
		if covered {
			hits = 1
		}
		builder.SetHits(lineNumber, hits)
		if hasBranches {
			if err := builder.SetConditions(lineNumber, branchesToCover, coveredBranches); err != nil {
				return newParseError(line, "%v", err)
			}
		}
	}

	// No element nesting is permitted inside lineToCover.
	for {
		tok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("cannot tokenize report: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			return newParseError(lr.lineAt(dec.InputOffset()), "unexpected element <%s> inside <%s>", t.Name.Local, lineElement)
		case xml.EndElement:
			return nil
		}
	}
}

// MatchedFiles returns how many declared file elements resolved to a known
// resource across all fragments parsed so far.
func (p *ReportParser) MatchedFiles() int {
	return p.matchedFiles
}

// UnknownFiles returns how many declared file elements did not resolve.
func (p *ReportParser) UnknownFiles() int {
	return p.unknownFiles
}

// FirstUnknownFiles returns the capped sample of unresolved paths in order
// of first occurrence.
func (p *ReportParser) FirstUnknownFiles() []string {
	sample := make([]string, len(p.firstUnknown))
	copy(sample, p.firstUnknown)
	return sample
}

// SaveMeasures materializes every builder's measure set and hands it to the
// sink, exactly once per parser lifetime. Files with no recorded facts emit
// no measures and are skipped.
func (p *ReportParser) SaveMeasures() error {
	if p.saved {
		return errors.New("measures already saved")
	}
	p.saved = true

	for _, key := range p.sortedKeys() {
		entry := p.entries[key]
		measures := entry.builder.CreateMeasures()
		if len(measures) == 0 {
			continue
		}
		if err := p.sink.SaveMeasures(entry.identity, p.mode, measures); err != nil {
			return fmt.Errorf("failed to save measures for %s: %w", entry.identity.RelPath, err)
		}
	}
	return nil
}

// FileCoverages returns per-file summaries for all resolved files, ascending
// by path.
func (p *ReportParser) FileCoverages() []schema.FileCoverage {
	coverages := make([]schema.FileCoverage, 0, len(p.entries))
	for _, key := range p.sortedKeys() {
		entry := p.entries[key]
		coverages = append(coverages, schema.FileCoverage{
			Path:              entry.identity.RelPath,
			LinesToCover:      entry.builder.LinesToCover(),
			CoveredLines:      entry.builder.CoveredLines(),
			Conditions:        entry.builder.Conditions(),
			CoveredConditions: entry.builder.CoveredConditions(),
		})
	}
	return coverages
}

func (p *ReportParser) sortedKeys() []string {
	keys := make([]string, 0, len(p.entries))
	for key := range p.entries {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// attrValue returns the value of the named attribute of se.
func attrValue(se xml.StartElement, name string) (string, bool) {
	for _, attr := range se.Attr {
		if attr.Name.Local == name {
			return attr.Value, true
		}
	}
	return "", false
}

// requiredIntAttr parses a required integer attribute.
func requiredIntAttr(se xml.StartElement, name string, line int) (int, error) {
	value, ok := attrValue(se, name)
	if !ok {
		return 0, newParseError(line, "missing attribute %s of element <%s>", name, se.Name.Local)
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, newParseError(line, "attribute %s of element <%s> is not an integer: %q", name, se.Name.Local, value)
	}
	return n, nil
}

// optionalIntAttr parses an optional non-negative integer attribute.
func optionalIntAttr(se xml.StartElement, name string, line int) (int, bool, error) {
	value, ok := attrValue(se, name)
	if !ok {
		return 0, false, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, false, newParseError(line, "attribute %s of element <%s> is not an integer: %q", name, se.Name.Local, value)
	}
	if n < 0 {
		return 0, false, newParseError(line, "attribute %s of element <%s> must not be negative, got %d", name, se.Name.Local, n)
	}
	return n, true, nil
}

// lineReader wraps the report stream and records newline offsets so parse
// errors can be tagged with a 1-based document line number.
type lineReader struct {
	r        io.Reader
	consumed int64
	newlines []int64
}

func (lr *lineReader) Read(p []byte) (int, error) {
	n, err := lr.r.Read(p)
	for i := range n {
		if p[i] == '\n' {
			lr.newlines = append(lr.newlines, lr.consumed+int64(i))
		}
	}
	lr.consumed += int64(n)
	return n, err
}

// lineAt returns the 1-based line number containing the given byte offset.
func (lr *lineReader) lineAt(offset int64) int {
	return 1 + sort.Search(len(lr.newlines), func(i int) bool {
		return lr.newlines[i] >= offset
	})
}
