package schema

import (
	"fmt"
	"sort"
	"strings"
)

// FormatLineValues serializes a line-keyed map as "line=value" pairs joined
// by semicolons, ascending by line number. This is the wire format used for
// the data payload of line-keyed measures.
func FormatLineValues(values map[int]int) string {
	if len(values) == 0 {
		return ""
	}
	lines := make([]int, 0, len(values))
	for line := range values {
		lines = append(lines, line)
	}
	sort.Ints(lines)

	parts := make([]string, 0, len(lines))
	for _, line := range lines {
		parts = append(parts, fmt.Sprintf("%d=%d", line, values[line]))
	}
	return strings.Join(parts, ";")
}

// SortedLines returns the keys of a line-keyed map in ascending order.
func SortedLines(values map[int]int) []int {
	lines := make([]int, 0, len(values))
	for line := range values {
		lines = append(lines, line)
	}
	sort.Ints(lines)
	return lines
}
