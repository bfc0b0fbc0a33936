package coverage

import (
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"sort"
)

var ErrMalformedSegment = errors.New("malformed coverage segment")

// Segment represents a span of code reported by the coverage tool.
// The export encodes it as a positional array: [line, column, count, hasCount, isRegionEntry, isGapRegion].
type Segment struct {
	// Line indicates the line the segment starts at.
	Line int
	// Column indicates the column the segment starts at.
	Column int
	// Count indicates how many times the segment was executed.
	Count int64
}

func (s *Segment) UnmarshalJSON(data []byte) error {
	var fields []json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return fmt.Errorf("%w: %s", ErrMalformedSegment, err)
	}
	if len(fields) < 3 {
		return fmt.Errorf("%w: expect at least 3 fields, but get %d", ErrMalformedSegment, len(fields))
	}

	var line, column, count float64
	if err := json.Unmarshal(fields[0], &line); err != nil {
		return fmt.Errorf("%w: line: %s", ErrMalformedSegment, err)
	}
	if err := json.Unmarshal(fields[1], &column); err != nil {
		return fmt.Errorf("%w: column: %s", ErrMalformedSegment, err)
	}
	if err := json.Unmarshal(fields[2], &count); err != nil {
		return fmt.Errorf("%w: count: %s", ErrMalformedSegment, err)
	}

	s.Line = int(line)
	s.Column = int(column)
	s.Count = int64(count)
	return nil
}

// FileEntry represents the coverage information of a single source file.
type FileEntry struct {
	Filename string    `json:"filename"`
	Segments []Segment `json:"segments"`
}

// Executed returns the number of segments that were hit at least once.
func (e *FileEntry) Executed() int {
	executed := 0
	for _, s := range e.Segments {
		if s.Count > 0 {
			executed++
		}
	}
	return executed
}

// Total returns the number of segments.
func (e *FileEntry) Total() int {
	return len(e.Segments)
}

// UncoveredLines returns the distinct lines of zero-count segments in increasing order.
func (e *FileEntry) UncoveredLines() []int {
	seen := make(map[int]bool)
	var lines []int
	for _, s := range e.Segments {
		if s.Count > 0 || seen[s.Line] {
			continue
		}
		seen[s.Line] = true
		lines = append(lines, s.Line)
	}
	sort.Ints(lines)
	return lines
}

type Band string

const (
	LowBand    Band = "low"
	MediumBand Band = "med"
	HighBand   Band = "high"
)

// BandFor classifies a coverage percent. The thresholds apply to the unrounded value.
func BandFor(percent float64) Band {
	switch {
	case percent < 50:
		return LowBand
	case percent < 80:
		return MediumBand
	default:
		return HighBand
	}
}

// FileCoverage represents one row of the coverage report.
type FileCoverage struct {
	// Path is the file path relative to the anchor directory.
	Path string
	// AbsolutePath is the file name reported by the coverage tool.
	AbsolutePath string
	// Executed indicates segments executed at least once.
	Executed int
	// Total indicates all segments of the file.
	Total int
	// Percent indicates Executed / Total * 100.
	Percent float64
	// Band is the presentational severity of Percent.
	Band Band
	// UncoveredLines indicates lines that start a zero-count segment.
	UncoveredLines []int
	// CodeSnippet holds highlighted source around UncoveredLines, filled by the report generator.
	CodeSnippet []template.HTML
}

// Statistics represents the aggregated coverage of all included files.
type Statistics struct {
	// Files holds the included files in input order.
	Files []*FileCoverage
	// Directories rolls Files up to their enclosing directories, sorted by path.
	Directories []*DirectoryCoverage
	// ExcludedFiles lists files dropped by the exclusion patterns.
	ExcludedFiles []string
	// TotalExecuted sums Executed over Files.
	TotalExecuted int
	// TotalSegments sums Total over Files.
	TotalSegments int
	// TotalPercent is TotalExecuted / TotalSegments * 100, zero when nothing is included.
	TotalPercent float64
	// TotalBand is the band of TotalPercent.
	TotalBand Band
	// Commit is the repository HEAD the report was generated at, may be empty.
	Commit string
}
