package report

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Azure/testreport/pkg/coverage"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func generateMarkdown(t *testing.T, statistics *coverage.Statistics, blobURL string) string {
	t.Helper()
	output := filepath.Join(t.TempDir(), "coverage.md")

	g := NewMDReportGenerator(output, blobURL, logrus.New())
	require.NoError(t, g.GenerateReport(statistics))

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	return string(data)
}

func TestMDGenerateReport(t *testing.T) {
	statistics := &coverage.Statistics{
		Files: []*coverage.FileCoverage{
			{Path: "Sources/App/routes.swift", Percent: 50, Band: coverage.MediumBand, UncoveredLines: []int{3, 4, 5, 9}},
			{Path: "Sources/App/configure.swift", Percent: 100, Band: coverage.HighBand},
		},
		ExcludedFiles: []string{"Sources/App/Models/User.swift"},
		TotalPercent:  60,
		TotalBand:     coverage.MediumBand,
		Commit:        "abc123",
	}

	t.Run("without links", func(t *testing.T) {
		report := generateMarkdown(t, statistics, "")

		assert.Contains(t, report, "Commit: `abc123`")
		assert.Contains(t, report, "| Sources/App/routes.swift | 50.0% :orange_circle: |")
		assert.Contains(t, report, "| Sources/App/configure.swift | 100.0% :green_circle: |")
		assert.Contains(t, report, "#### Total Coverage: 60.0% :orange_circle:")
		assert.Contains(t, report, "- L3-L5\n- L9\n")
		assert.Contains(t, report, "- Sources/App/Models/User.swift")
		assert.NotContains(t, report, "Congrats")
	})

	t.Run("with links", func(t *testing.T) {
		report := generateMarkdown(t, statistics, "https://github.com/org/repo/")
		assert.Contains(t, report, "[L3-L5](https://github.com/org/repo/blob/abc123/Sources/App/routes.swift#L3-L5)")
	})

	t.Run("absolute path is not linked", func(t *testing.T) {
		report := generateMarkdown(t, &coverage.Statistics{
			Files: []*coverage.FileCoverage{
				{Path: "/Users/ci/project/Sources/App/routes.swift", Percent: 50, Band: coverage.MediumBand, UncoveredLines: []int{3, 4, 5}},
			},
			TotalPercent: 50,
			TotalBand:    coverage.MediumBand,
			Commit:       "abc123",
		}, "https://github.com/org/repo")
		assert.Contains(t, report, "- L3-L5\n")
		assert.NotContains(t, report, "/blob/")
	})

	t.Run("all covered", func(t *testing.T) {
		report := generateMarkdown(t, &coverage.Statistics{
			Files:        []*coverage.FileCoverage{{Path: "a.swift", Percent: 100, Band: coverage.HighBand}},
			TotalPercent: 100,
			TotalBand:    coverage.HighBand,
		}, "")
		assert.Contains(t, report, "Congrats")
	})

	t.Run("no files matched", func(t *testing.T) {
		report := generateMarkdown(t, &coverage.Statistics{TotalBand: coverage.LowBand}, "")
		assert.Contains(t, report, "_No files matched the coverage report filters._")
		assert.Contains(t, report, "#### Total Coverage: 0.0% :red_circle:")
		assert.NotContains(t, report, "Congrats")
	})
}

func TestLineRanges(t *testing.T) {
	testSuites := []struct {
		lines  []int
		expect []lineRange
	}{
		{lines: nil, expect: nil},
		{lines: []int{1}, expect: []lineRange{{1, 1}}},
		{lines: []int{1, 2, 3}, expect: []lineRange{{1, 3}}},
		{lines: []int{1, 3, 4, 8}, expect: []lineRange{{1, 1}, {3, 4}, {8, 8}}},
	}

	for _, testCase := range testSuites {
		assert.Equal(t, testCase.expect, lineRanges(testCase.lines))
	}
}

func TestNewCoverageReportGenerator(t *testing.T) {
	g, err := NewCoverageReportGenerator(HTMLFormat, "colorful", "out.html", false, "", nil)
	require.NoError(t, err)
	assert.IsType(t, &htmlReportGenerator{}, g)

	g, err = NewCoverageReportGenerator(MarkdownFormat, "colorful", "out.md", false, "", nil)
	require.NoError(t, err)
	assert.IsType(t, &MDGen{}, g)

	_, err = NewCoverageReportGenerator("json", "colorful", "out.json", false, "", nil)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}
