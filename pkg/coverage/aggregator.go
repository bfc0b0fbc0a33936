package coverage

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/Azure/testreport/pkg/annotation"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/sirupsen/logrus"
)

// DefaultAnchor is the directory name relative paths start from.
const DefaultAnchor = "Sources"

// DefaultExcludePatterns drops data models, generated code and vendored dependencies.
var DefaultExcludePatterns = []string{
	`/Models/`,
	`/DTOs/`,
	`/Extensions/`,
	`/Middlewares/`,
	`/Jobs/`,
	`/Migrations/`,
	`/Generated/`,
	`\.build/`,
	`_generated\.swift$`,
	`\.g\.swift$`,
	`/\.swiftpm/`,
	`/Packages/`,
}

// Aggregator reduces coverage file entries to report statistics.
type Aggregator interface {
	Aggregate(entries []*FileEntry) *Statistics
}

func NewAggregator(
	excludes []string,
	excludeGlobs []string,
	anchor string,
	annotations bool,
	logger logrus.FieldLogger,
) (Aggregator, error) {

	var excludesRegexps []*regexp.Regexp
	for _, ignorePattern := range excludes {
		reg, err := regexp.Compile(ignorePattern)
		if err != nil {
			return nil, fmt.Errorf("compile pattern %s: %w", ignorePattern, err)
		}
		excludesRegexps = append(excludesRegexps, reg)
	}

	for _, glob := range excludeGlobs {
		if !doublestar.ValidatePattern(glob) {
			return nil, fmt.Errorf("compile glob %s: %w", glob, doublestar.ErrBadPattern)
		}
	}

	if logger == nil {
		logger = logrus.New()
	}

	return &aggregator{
		excludesRegexps: excludesRegexps,
		excludeGlobs:    excludeGlobs,
		anchor:          anchor,
		annotations:     annotations,
		logger:          logger.WithField("source", "aggregator"),
	}, nil
}

var _ Aggregator = (*aggregator)(nil)

type aggregator struct {
	excludesRegexps []*regexp.Regexp // excludes files regexp patterns, searched anywhere in the path
	excludeGlobs    []string         // excludes files doublestar patterns, matched against the whole path
	anchor          string           // directory name the relative path starts from
	annotations     bool             // honor ignore markers found in readable source files
	logger          logrus.FieldLogger
}

func (a *aggregator) Aggregate(entries []*FileEntry) *Statistics {
	statistics := &Statistics{}

	for _, entry := range entries {
		if entry.Total() == 0 {
			a.logger.Debugf("skip %s without segments", entry.Filename)
			continue
		}

		if a.excluded(entry.Filename) {
			a.logger.Debugf("exclude %s", entry.Filename)
			statistics.ExcludedFiles = append(statistics.ExcludedFiles, RelativePath(entry.Filename, a.anchor))
			continue
		}

		if a.annotations {
			var ignored bool
			entry, ignored = a.applyAnnotations(entry)
			if ignored {
				statistics.ExcludedFiles = append(statistics.ExcludedFiles, RelativePath(entry.Filename, a.anchor))
				continue
			}
		}

		total := entry.Total()
		if total == 0 {
			a.logger.Debugf("skip %s without segments after annotations", entry.Filename)
			continue
		}

		executed := entry.Executed()
		percent := Percent(executed, total)
		statistics.Files = append(statistics.Files, &FileCoverage{
			Path:           RelativePath(entry.Filename, a.anchor),
			AbsolutePath:   entry.Filename,
			Executed:       executed,
			Total:          total,
			Percent:        percent,
			Band:           BandFor(percent),
			UncoveredLines: entry.UncoveredLines(),
		})

		statistics.TotalExecuted += executed
		statistics.TotalSegments += total
	}

	statistics.Directories = NewCoverageTreeFromFiles(statistics.Files).Directories()
	statistics.TotalPercent = Percent(statistics.TotalExecuted, statistics.TotalSegments)
	statistics.TotalBand = BandFor(statistics.TotalPercent)
	return statistics
}

// applyAnnotations drops the segments starting on ignored lines,
// and reports whether the whole file is ignored.
func (a *aggregator) applyAnnotations(entry *FileEntry) (*FileEntry, bool) {
	profile, err := annotation.ParseIgnoreProfiles(entry.Filename)
	if err != nil {
		a.logger.Debugf("read annotations of %s: %s", entry.Filename, err)
		return entry, false
	}

	if profile.Type == annotation.AllIgnore {
		a.logger.Debugf("ignore %s by annotation", entry.Filename)
		return entry, true
	}
	if len(profile.Lines) == 0 {
		return entry, false
	}

	filtered := &FileEntry{Filename: entry.Filename}
	for _, s := range entry.Segments {
		if profile.Ignored(s.Line) {
			continue
		}
		filtered.Segments = append(filtered.Segments, s)
	}
	a.logger.Debugf("ignore %d of %d segments of %s by annotation", len(entry.Segments)-len(filtered.Segments), len(entry.Segments), entry.Filename)
	return filtered, false
}

// excluded reports whether any regexp or glob matches filename.
func (a *aggregator) excluded(filename string) bool {
	for _, reg := range a.excludesRegexps {
		if reg.MatchString(filename) {
			return true
		}
	}
	for _, glob := range a.excludeGlobs {
		// patterns are validated in NewAggregator
		if ok, _ := doublestar.Match(glob, filename); ok {
			return true
		}
	}
	return false
}

// Percent returns executed / total * 100, and zero when total is zero.
func Percent(executed, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(executed) / float64(total) * 100
}

// RelativePath truncates filename to start at the first path element equal to anchor.
// filename is returned unchanged when anchor is empty or not an element of it.
func RelativePath(filename string, anchor string) string {
	if anchor == "" {
		return filename
	}

	parts := strings.Split(filename, "/")
	for i, part := range parts {
		if part == anchor {
			return strings.Join(parts[i:], "/")
		}
	}
	return filename
}
