package report

import "fmt"

// ParseError is a fatal structural or merge error found while reading a
// report. Line is the 1-based line number in the input document where the
// offending element starts.
type ParseError struct {
	Line int
	Msg  string
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
}

// newParseError builds a ParseError with a formatted message.
func newParseError(line int, format string, args ...any) *ParseError {
	return &ParseError{Line: line, Msg: fmt.Sprintf(format, args...)}
}
