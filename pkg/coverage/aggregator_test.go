package coverage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func segments(counts ...int64) []Segment {
	var result []Segment
	for i, c := range counts {
		result = append(result, Segment{Line: i + 1, Column: 1, Count: c})
	}
	return result
}

func newTestAggregator(t *testing.T, excludes []string, globs []string) Aggregator {
	t.Helper()
	a, err := NewAggregator(excludes, globs, DefaultAnchor, false, logrus.New())
	require.NoError(t, err)
	return a
}

func TestNewAggregator(t *testing.T) {
	t.Run("invalid regular expression", func(t *testing.T) {
		_, err := NewAggregator([]string{"("}, nil, DefaultAnchor, false, nil)
		assert.Error(t, err)
	})

	t.Run("invalid glob", func(t *testing.T) {
		_, err := NewAggregator(nil, []string{"[a-"}, DefaultAnchor, false, nil)
		assert.Error(t, err)
	})

	t.Run("defaults", func(t *testing.T) {
		_, err := NewAggregator(DefaultExcludePatterns, nil, DefaultAnchor, false, nil)
		assert.NoError(t, err)
	})
}

func TestAggregate(t *testing.T) {
	t.Run("per file and aggregate coverage", func(t *testing.T) {
		a := newTestAggregator(t, DefaultExcludePatterns, nil)
		statistics := a.Aggregate([]*FileEntry{
			{Filename: "/repo/Sources/App/routes.swift", Segments: segments(1, 0, 3, 0)},
			{Filename: "/repo/Sources/App/Controllers/UserController.swift", Segments: segments(1, 1, 1, 1, 0, 0)},
		})

		require.Len(t, statistics.Files, 2)
		assert.Equal(t, "Sources/App/routes.swift", statistics.Files[0].Path)
		assert.Equal(t, "/repo/Sources/App/routes.swift", statistics.Files[0].AbsolutePath)
		assert.Equal(t, 2, statistics.Files[0].Executed)
		assert.Equal(t, 4, statistics.Files[0].Total)
		assert.Equal(t, 50.0, statistics.Files[0].Percent)
		assert.Equal(t, MediumBand, statistics.Files[0].Band)
		assert.Equal(t, []int{2, 4}, statistics.Files[0].UncoveredLines)

		require.Len(t, statistics.Directories, 3)
		assert.Equal(t, "Sources", statistics.Directories[0].Path)
		assert.Equal(t, "Sources/App/Controllers", statistics.Directories[2].Path)
		assert.Equal(t, 2, statistics.Directories[1].Files)

		assert.Equal(t, 6, statistics.TotalExecuted)
		assert.Equal(t, 10, statistics.TotalSegments)
		assert.InDelta(t, 60.0, statistics.TotalPercent, 1e-9)
		assert.Equal(t, MediumBand, statistics.TotalBand)
	})

	t.Run("zero segments are omitted everywhere", func(t *testing.T) {
		a := newTestAggregator(t, DefaultExcludePatterns, nil)
		statistics := a.Aggregate([]*FileEntry{
			{Filename: "/repo/Sources/App/empty.swift", Segments: []Segment{}},
			{Filename: "/repo/Sources/App/Models/Empty.swift", Segments: []Segment{}},
			{Filename: "/repo/Sources/App/configure.swift", Segments: segments(1, 1)},
		})

		require.Len(t, statistics.Files, 1)
		assert.Equal(t, "Sources/App/configure.swift", statistics.Files[0].Path)
		assert.Empty(t, statistics.ExcludedFiles)
		assert.Equal(t, 2, statistics.TotalSegments)
		assert.Equal(t, 100.0, statistics.TotalPercent)
	})

	t.Run("models folder is excluded", func(t *testing.T) {
		a := newTestAggregator(t, DefaultExcludePatterns, nil)
		statistics := a.Aggregate([]*FileEntry{
			{Filename: "/home/ci/project/Sources/App/Models/User.swift", Segments: segments(0, 0)},
			{Filename: "/home/ci/project/Sources/App/Generated/Api_generated.swift", Segments: segments(0)},
			{Filename: "/home/ci/project/.build/checkouts/vapor/Sources/Vapor/App.swift", Segments: segments(1)},
		})

		assert.Empty(t, statistics.Files)
		assert.Equal(t, []string{
			"Sources/App/Models/User.swift",
			"Sources/App/Generated/Api_generated.swift",
			"Sources/Vapor/App.swift",
		}, statistics.ExcludedFiles)
	})

	t.Run("nothing included gives zero", func(t *testing.T) {
		a := newTestAggregator(t, DefaultExcludePatterns, nil)
		statistics := a.Aggregate(nil)

		assert.Empty(t, statistics.Files)
		assert.Equal(t, 0.0, statistics.TotalPercent)
		assert.Equal(t, LowBand, statistics.TotalBand)
	})

	t.Run("exclude globs", func(t *testing.T) {
		a := newTestAggregator(t, nil, []string{"**/Tests/**"})
		statistics := a.Aggregate([]*FileEntry{
			{Filename: "/repo/Tests/AppTests/AppTests.swift", Segments: segments(1)},
			{Filename: "/repo/Sources/App/routes.swift", Segments: segments(1)},
		})

		require.Len(t, statistics.Files, 1)
		assert.Equal(t, "Sources/App/routes.swift", statistics.Files[0].Path)
		assert.Equal(t, []string{"/repo/Tests/AppTests/AppTests.swift"}, statistics.ExcludedFiles)
	})
}

func TestPercent(t *testing.T) {
	testSuites := []struct {
		executed int
		total    int
		expect   float64
	}{
		{executed: 0, total: 0, expect: 0},
		{executed: 0, total: 10, expect: 0},
		{executed: 1, total: 2, expect: 50},
		{executed: 4, total: 5, expect: 80},
		{executed: 3, total: 3, expect: 100},
	}

	for _, testCase := range testSuites {
		actual := Percent(testCase.executed, testCase.total)
		if actual != testCase.expect {
			t.Errorf("expect Percent(%d, %d) = %f, but get %f", testCase.executed, testCase.total, testCase.expect, actual)
		}
	}
}

func TestBandFor(t *testing.T) {
	assert.Equal(t, LowBand, BandFor(0))
	assert.Equal(t, LowBand, BandFor(49.99))
	assert.Equal(t, MediumBand, BandFor(50.0))
	assert.Equal(t, MediumBand, BandFor(79.999))
	assert.Equal(t, HighBand, BandFor(80.0))
	assert.Equal(t, HighBand, BandFor(100))
}

func TestRelativePath(t *testing.T) {
	testSuites := []struct {
		name     string
		filename string
		anchor   string
		expect   string
	}{
		{name: "anchor present", filename: "/Users/ci/repo/Sources/App/routes.swift", anchor: "Sources", expect: "Sources/App/routes.swift"},
		{name: "first anchor wins", filename: "/a/Sources/b/Sources/c.swift", anchor: "Sources", expect: "Sources/b/Sources/c.swift"},
		{name: "anchor absent", filename: "/Users/ci/repo/Tests/AppTests.swift", anchor: "Sources", expect: "/Users/ci/repo/Tests/AppTests.swift"},
		{name: "anchor is a prefix only", filename: "/repo/SourcesOld/a.swift", anchor: "Sources", expect: "/repo/SourcesOld/a.swift"},
		{name: "empty anchor", filename: "/repo/Sources/a.swift", anchor: "", expect: "/repo/Sources/a.swift"},
	}

	for _, testCase := range testSuites {
		t.Run(testCase.name, func(t *testing.T) {
			assert.Equal(t, testCase.expect, RelativePath(testCase.filename, testCase.anchor))
		})
	}
}

func TestAggregateAnnotations(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "Sources", "App")
	require.NoError(t, os.MkdirAll(dir, 0755))

	partial := filepath.Join(dir, "routes.swift")
	require.NoError(t, os.WriteFile(partial, []byte(""+
		"func routes() {\n"+
		"    // +testreport:ignore:2\n"+
		"    debugOnly()\n"+
		"    traceOnly()\n"+
		"    serve()\n"+
		"}\n"), 0644))

	ignored := filepath.Join(dir, "Preview.swift")
	require.NoError(t, os.WriteFile(ignored, []byte("// +testreport:ignore:all\nstruct Preview {}\n"), 0644))

	entries := []*FileEntry{
		{Filename: partial, Segments: segments(1, 1, 0, 0, 1)},
		{Filename: ignored, Segments: segments(0, 0)},
		{Filename: filepath.Join(dir, "missing.swift"), Segments: segments(1, 0)},
	}

	t.Run("disabled", func(t *testing.T) {
		statistics := newTestAggregator(t, nil, nil).Aggregate(entries)
		require.Len(t, statistics.Files, 3)
		assert.Equal(t, 5, statistics.Files[0].Total)
	})

	t.Run("enabled", func(t *testing.T) {
		a, err := NewAggregator(nil, nil, DefaultAnchor, true, logrus.New())
		require.NoError(t, err)
		statistics := a.Aggregate(entries)

		require.Len(t, statistics.Files, 2)
		assert.Equal(t, "Sources/App/routes.swift", statistics.Files[0].Path)
		assert.Equal(t, 3, statistics.Files[0].Executed)
		assert.Equal(t, 3, statistics.Files[0].Total)
		assert.Equal(t, 100.0, statistics.Files[0].Percent)

		// unreadable sources are counted as they are
		assert.Equal(t, "Sources/App/missing.swift", statistics.Files[1].Path)
		assert.Equal(t, 2, statistics.Files[1].Total)

		assert.Equal(t, []string{"Sources/App/Preview.swift"}, statistics.ExcludedFiles)

		// entries are not modified
		assert.Len(t, entries[0].Segments, 5)
	})
}
