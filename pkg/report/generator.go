package report

import (
	"bufio"
	"bytes"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"strings"

	"github.com/Azure/testreport/pkg/coverage"
	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/sirupsen/logrus"
)

// CoverageReportGenerator represents the feature that generate coverage report.
type CoverageReportGenerator interface {
	GenerateReport(statistics *coverage.Statistics) error
}

// htmlReportGenerator implements a html style report generator.
type htmlReportGenerator struct {
	// style for source code snippets
	style *chroma.Style
	// outputFile report path
	outputFile string
	// showSource renders the uncovered source lines below the table
	showSource bool
	// logger
	logger logrus.FieldLogger
}

var _ CoverageReportGenerator = (*htmlReportGenerator)(nil)

const (
	// DefaultCodeLanguage is the lexer used when the file name does not select one.
	DefaultCodeLanguage = "swift"
	// codeHighlightColor background color for those uncovered code lines.
	codeHighlightColor = "bg:#ffcccc"
	// snippetContext lines shown around an uncovered line.
	snippetContext = 2
)

// NewReportGenerator creates a html report generator to generate html coverage report.
// Source snippets are styled with https://pygments.org/docs/styles
// and rendered by https://github.com/alecthomas/chroma.
func NewReportGenerator(
	codeStyle string,
	outputFile string,
	showSource bool,
	logger logrus.FieldLogger,
) CoverageReportGenerator {
	style := styles.Get(codeStyle)
	if style == nil {
		style = styles.Fallback
	}

	builder := style.Builder().Add(chroma.LineHighlight, codeHighlightColor)
	if s, err := builder.Build(); err == nil {
		style = s
	}

	if logger == nil {
		logger = logrus.New()
	}

	return &htmlReportGenerator{
		style:      style,
		outputFile: outputFile,
		showSource: showSource,
		logger:     logger.WithField("source", "htmlreport"),
	}
}

// GenerateReport renders the statistics and writes the html report.
func (g *htmlReportGenerator) GenerateReport(statistics *coverage.Statistics) error {
	if g.showSource {
		g.processCodeSnippets(statistics)
	}

	var buf bytes.Buffer
	if err := htmlCoverageReportTemplate.Execute(&buf, statistics); err != nil {
		return fmt.Errorf("render report: %w", err)
	}

	if dir := filepath.Dir(g.outputFile); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create report directory: %w", err)
		}
	}
	if err := os.WriteFile(g.outputFile, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	g.logger.Debugf("generate html report to %s", g.outputFile)
	return nil
}

// processCodeSnippets reads the source of each file that misses coverage
// and highlights the lines of its zero-count segments.
// Files whose source cannot be read are reported without snippets.
func (g *htmlReportGenerator) processCodeSnippets(statistics *coverage.Statistics) {
	for _, file := range statistics.Files {
		if len(file.UncoveredLines) == 0 {
			continue
		}

		contents, err := readLines(file.AbsolutePath)
		if err != nil {
			g.logger.WithError(err).Warnf("skip source snippets of %s", file.Path)
			continue
		}

		lexer := lexers.Match(file.AbsolutePath)
		if lexer == nil {
			lexer = lexers.Get(DefaultCodeLanguage)
		}
		if lexer == nil {
			lexer = lexers.Fallback
		}

		for _, s := range buildSections(file.UncoveredLines, len(contents), snippetContext) {
			snippet, err := g.formatSection(lexer, contents, s)
			if err != nil {
				g.logger.WithError(err).Warnf("format snippet of %s", file.Path)
				break
			}
			file.CodeSnippet = append(file.CodeSnippet, snippet)
		}
	}
}

func (g *htmlReportGenerator) formatSection(lexer chroma.Lexer, contents []string, s section) (template.HTML, error) {
	iter, err := lexer.Tokenise(nil, strings.Join(contents[s.startLine-1:s.endLine], "\n"))
	if err != nil {
		return "", fmt.Errorf("tokenise failed: %w", err)
	}

	var hlLines [][2]int
	for _, line := range s.violationLines {
		hlLines = append(hlLines, [2]int{line, line})
	}

	formatter := html.New(
		html.WithLineNumbers(true),
		html.LineNumbersInTable(true),
		html.BaseLineNumber(s.startLine),
		html.HighlightLines(hlLines),
	)

	var buf bytes.Buffer
	if err := formatter.Format(&buf, g.style, iter); err != nil {
		return "", fmt.Errorf("format code snippet: %w", err)
	}
	return template.HTML(buf.String()), nil
}

// section is a window of source lines around one or more uncovered lines.
type section struct {
	startLine      int
	endLine        int
	violationLines []int
}

// buildSections merges the windows of sorted uncovered lines that overlap or touch.
// Lines outside [1, total] are dropped.
func buildSections(lines []int, total int, context int) []section {
	var sections []section
	for _, line := range lines {
		if line < 1 || line > total {
			continue
		}

		start, end := max(line-context, 1), min(line+context, total)
		if n := len(sections); n > 0 && start <= sections[n-1].endLine+1 {
			sections[n-1].endLine = max(sections[n-1].endLine, end)
			sections[n-1].violationLines = append(sections[n-1].violationLines, line)
			continue
		}

		sections = append(sections, section{
			startLine:      start,
			endLine:        end,
			violationLines: []int{line},
		})
	}
	return sections
}

func readLines(filename string) ([]string, error) {
	fd, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer fd.Close()

	var result []string
	s := bufio.NewScanner(fd)
	for s.Scan() {
		result = append(result, s.Text())
	}
	return result, s.Err()
}

// htmlCoverageReportTemplate is the render engine for html coverage report.
var htmlCoverageReportTemplate = template.Must(
	template.New("htmlReportTemplate").
		Funcs(template.FuncMap{"FormatPercent": formatPercent}).
		Parse(htmlCoverageReport),
)

// formatPercent renders a percent with one decimal place.
func formatPercent(percent float64) string {
	return fmt.Sprintf("%.1f%%", percent)
}
