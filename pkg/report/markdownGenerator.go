package report

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Azure/testreport/pkg/coverage"
	"github.com/sirupsen/logrus"
)

type ReportFormat string

const (
	HTMLFormat     ReportFormat = "html"
	MarkdownFormat ReportFormat = "markdown"
)

var ErrUnsupportedFormat = errors.New(`supported report formats are "html" and "markdown"`)

type MDGen struct {
	// outputFile report path
	outputFile string
	// blobURL is the repository web url, uncovered lines link to it when set
	blobURL string
	// logger
	logger logrus.FieldLogger
}

var _ CoverageReportGenerator = (*MDGen)(nil)

// NewMDReportGenerator creates a markdown report generator, the output fits a pull request comment.
// blobURL, e.g. https://github.com/org/repo, turns uncovered line ranges into links at the report commit.
func NewMDReportGenerator(
	outputFile string,
	blobURL string,
	logger logrus.FieldLogger,
) CoverageReportGenerator {
	if logger == nil {
		logger = logrus.New()
	}

	return &MDGen{
		outputFile: outputFile,
		blobURL:    strings.TrimSuffix(blobURL, "/"),
		logger:     logger.WithField("source", "mdreport"),
	}
}

// NewCoverageReportGenerator returns the generator of format.
func NewCoverageReportGenerator(
	format ReportFormat,
	codeStyle string,
	outputFile string,
	showSource bool,
	blobURL string,
	logger logrus.FieldLogger,
) (CoverageReportGenerator, error) {
	switch format {
	case HTMLFormat, "":
		return NewReportGenerator(codeStyle, outputFile, showSource, logger), nil
	case MarkdownFormat:
		return NewMDReportGenerator(outputFile, blobURL, logger), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
}

func circle(band coverage.Band) string {
	switch band {
	case coverage.LowBand:
		return ":red_circle:"
	case coverage.MediumBand:
		return ":orange_circle:"
	default:
		return ":green_circle:"
	}
}

func (md *MDGen) GenerateReport(statistics *coverage.Statistics) error {
	var buf bytes.Buffer

	buf.WriteString("### Code Coverage Report\n\n")
	if statistics.Commit != "" {
		fmt.Fprintf(&buf, "Commit: `%s`\n\n", statistics.Commit)
	}

	if len(statistics.Files) == 0 {
		buf.WriteString("_No files matched the coverage report filters._\n\n")
	} else {
		buf.WriteString("| File | Coverage % |\n|:-----|-----------:|\n")
		for _, f := range statistics.Files {
			fmt.Fprintf(&buf, "| %s | %s %s |\n", escapeCell(f.Path), formatPercent(f.Percent), circle(f.Band))
		}
		buf.WriteString("\n")
	}

	fmt.Fprintf(&buf, "#### Total Coverage: %s %s\n", formatPercent(statistics.TotalPercent), circle(statistics.TotalBand))

	violated := 0
	for _, f := range statistics.Files {
		if len(f.UncoveredLines) == 0 {
			continue
		}
		if violated == 0 {
			buf.WriteString("\n#### Missing coverage for file(s) below:\n")
		}
		violated++

		fmt.Fprintf(&buf, "\n<details>\n<summary>%s %s %s</summary>\n\n", f.Path, formatPercent(f.Percent), circle(f.Band))
		for _, r := range lineRanges(f.UncoveredLines) {
			fmt.Fprintf(&buf, "- %s\n", md.fileLink(f.Path, statistics.Commit, r))
		}
		buf.WriteString("\n</details>\n")
	}

	if len(statistics.Files) > 0 && violated == 0 {
		buf.WriteString("\n:+1: Congrats! All the codes are covered with tests! :green_circle:\n")
	}

	if len(statistics.ExcludedFiles) > 0 {
		buf.WriteString("\n<details>\n<summary>Exclude Files</summary>\n\n")
		for _, f := range statistics.ExcludedFiles {
			fmt.Fprintf(&buf, "- %s\n", f)
		}
		buf.WriteString("\n</details>\n")
	}

	if dir := filepath.Dir(md.outputFile); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create report directory: %w", err)
		}
	}
	if err := os.WriteFile(md.outputFile, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("write report file: %w", err)
	}

	md.logger.Debugf("markdown report: %s", md.outputFile)
	return nil
}

// lineRange is an inclusive range of uncovered lines.
type lineRange struct {
	start, end int
}

// lineRanges groups sorted lines into consecutive ranges.
func lineRanges(lines []int) []lineRange {
	var ranges []lineRange
	for _, line := range lines {
		if n := len(ranges); n > 0 && line-ranges[n-1].end <= 1 {
			ranges[n-1].end = line
			continue
		}
		ranges = append(ranges, lineRange{start: line, end: line})
	}
	return ranges
}

// fileLink renders the range as L<start>-L<end>, linked to the file blob when the url and commit are known
// and the path is relative to the repository.
func (md *MDGen) fileLink(path, commit string, r lineRange) string {
	snippet := fmt.Sprintf("L%d", r.start)
	if r.start != r.end {
		snippet = fmt.Sprintf("%s-L%d", snippet, r.end)
	}

	if md.blobURL == "" || commit == "" || filepath.IsAbs(path) || strings.HasPrefix(path, "/") {
		return snippet
	}
	return fmt.Sprintf("[%s](%s/blob/%s/%s#%s)", snippet, md.blobURL, commit, path, snippet)
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
