// Package reportpath resolves the date stamped locations of report inputs and outputs.
package reportpath

import (
	"fmt"
	"path/filepath"
	"time"
)

const (
	// DefaultDir is the directory the test pipeline drops its artifacts in.
	DefaultDir = "test_reports"

	stampLayout = "2006-01-02"
)

// Resolver builds report file names stamped with the run date.
type Resolver struct {
	Dir string
	Now func() time.Time
}

func NewResolver(dir string) *Resolver {
	if dir == "" {
		dir = DefaultDir
	}
	return &Resolver{
		Dir: dir,
		Now: time.Now,
	}
}

// Stamp returns the run date formatted as YYYY-MM-DD.
func (r *Resolver) Stamp() string {
	return r.Now().Format(stampLayout)
}

// CoverageInput returns <dir>/coverage_<date>.json
func (r *Resolver) CoverageInput() string {
	return r.join("coverage_%s.json")
}

// CoverageOutput returns <dir>/coverage_report_<date>.html
func (r *Resolver) CoverageOutput() string {
	return r.join("coverage_report_%s.html")
}

// CoverageMarkdownOutput returns <dir>/coverage_report_<date>.md
func (r *Resolver) CoverageMarkdownOutput() string {
	return r.join("coverage_report_%s.md")
}

// TestLogInput returns <dir>/report_<date>.txt
func (r *Resolver) TestLogInput() string {
	return r.join("report_%s.txt")
}

// TestLogOutput returns <dir>/report_<date>.xlsx
func (r *Resolver) TestLogOutput() string {
	return r.join("report_%s.xlsx")
}

func (r *Resolver) join(format string) string {
	return filepath.Join(r.Dir, fmt.Sprintf(format, r.Stamp()))
}
