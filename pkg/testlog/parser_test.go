package testlog

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseString(t *testing.T, log string) []*Record {
	t.Helper()
	records, err := Parse(strings.NewReader(log))
	require.NoError(t, err)
	return records
}

func TestParse(t *testing.T) {
	t.Run("passed and failed cases", func(t *testing.T) {
		records := parseString(t, `Test Suite 'AuthTests' started at 2024-01-01 10:00:00.000
✓ testLogin (0.12 seconds)
✗ testLogout, Equality failed: (false) is not equal to (true)
`)

		require.Len(t, records, 2)
		assert.Equal(t, &Record{
			Suite:    "AuthTests",
			TestCase: "testLogin",
			Result:   Passed,
			Date:     "2024-01-01 10:00:00.000",
			Duration: "0.12",
		}, records[0])
		assert.Equal(t, &Record{
			Suite:    "AuthTests",
			TestCase: "testLogout",
			Result:   Failed,
			Date:     "2024-01-01 10:00:00.000",
			Issue:    "Equality failed: (false) != (true)",
		}, records[1])
	})

	t.Run("cases before any suite have no suite and date", func(t *testing.T) {
		records := parseString(t, `✓ testHealth (0.01 seconds)
Test Suite 'PatientTests' started at 2024-03-02 08:15:30.512
✓ testCreatePatient (1.5 seconds)
`)

		require.Len(t, records, 2)
		assert.Empty(t, records[0].Suite)
		assert.Empty(t, records[0].Date)
		assert.Equal(t, "PatientTests", records[1].Suite)
		assert.Equal(t, "2024-03-02 08:15:30.512", records[1].Date)
	})

	t.Run("suite passed and failed lines update the carried suite", func(t *testing.T) {
		records := parseString(t, `Test Suite 'A' started at 2024-01-01 10:00:00.000
✓ testOne (0.1 seconds)
Test Suite 'B' failed at 2024-01-01 10:05:00.250
✓ testTwo (0.2 seconds)
Test Suite 'C' passed at 2024-01-01 10:06:00.5
✓ testThree
`)

		require.Len(t, records, 3)
		assert.Equal(t, "A", records[0].Suite)
		assert.Equal(t, "B", records[1].Suite)
		assert.Equal(t, "2024-01-01 10:05:00.250", records[1].Date)
		assert.Equal(t, "C", records[2].Suite)
		assert.Equal(t, "", records[2].Duration)
	})

	t.Run("failure without assertion detail", func(t *testing.T) {
		records := parseString(t, `✗ testDelete (0.30 seconds)
✗ testUpdate, XCTAssertTrue failed
`)

		require.Len(t, records, 2)
		for _, r := range records {
			assert.Equal(t, Failed, r.Result)
			assert.Empty(t, r.Issue)
		}
		assert.Equal(t, "0.30", records[0].Duration)
		assert.Equal(t, "testUpdate", records[1].TestCase)
	})

	t.Run("failure with duration and assertion", func(t *testing.T) {
		records := parseString(t, "  ✗ testRead (0.05 seconds), XCTAssertEqual failed: (\"404 Not Found\") is not equal to (\"200 OK\")\r\n")

		require.Len(t, records, 1)
		assert.Equal(t, Failed, records[0].Result)
		assert.Equal(t, "0.05", records[0].Duration)
		assert.Equal(t, `XCTAssertEqual failed: ("404 Not Found") != ("200 OK")`, records[0].Issue)
	})

	t.Run("result follows the leading glyph", func(t *testing.T) {
		records := parseString(t, "✓ testPass, Equality failed: (1) is not equal to (2)\n")

		require.Len(t, records, 1)
		assert.Equal(t, Passed, records[0].Result)
		assert.Empty(t, records[0].Issue)
	})

	t.Run("unparsable duration is kept verbatim", func(t *testing.T) {
		records := parseString(t, "✓ testOdd (1.2.3 seconds)\n")

		require.Len(t, records, 1)
		assert.Equal(t, "1.2.3", records[0].Duration)
	})

	t.Run("noise lines are ignored", func(t *testing.T) {
		records := parseString(t, `
Building for debugging...
[3/3] Compiling App routes.swift
Test Suite 'All tests' started at 2024-01-01 10:00:00.000
Test Case '-[AppTests.AuthTests testLogin]' started.

Executed 2 tests, with 1 failure (0 unexpected) in 0.42 (0.43) seconds
`)

		assert.Empty(t, records)
	})

	t.Run("long lines do not stop parsing", func(t *testing.T) {
		noise := strings.Repeat("x", 2*1024*1024)
		records := parseString(t, "Test Suite 'A' started at 2024-01-01 10:00:00.000\n"+
			noise+"\n"+
			"✓ testAfterNoise (0.1 seconds)\n")

		require.Len(t, records, 1)
		assert.Equal(t, "testAfterNoise", records[0].TestCase)
		assert.Equal(t, "A", records[0].Suite)
	})

	t.Run("last line without newline", func(t *testing.T) {
		records := parseString(t, "✓ testA (0.1 seconds)\r\n✗ testB (0.2 seconds)")

		require.Len(t, records, 2)
		assert.Equal(t, "0.1", records[0].Duration)
		assert.Equal(t, "testB", records[1].TestCase)
	})

	t.Run("record count equals case lines", func(t *testing.T) {
		log := `Test Suite 'A' started at 2024-01-01 10:00:00.000
✓ testOne (0.1 seconds)
✗ testTwo (0.2 seconds)
Test Suite 'A' passed at 2024-01-01 10:00:01.000
Test Suite 'B' started at 2024-01-01 10:00:01.000
✓ testThree (0.3 seconds)
Test Suite 'B' passed at 2024-01-01 10:00:02.000
`
		caseLines := 0
		for _, line := range strings.Split(log, "\n") {
			if strings.HasPrefix(line, passGlyph) || strings.HasPrefix(line, failGlyph) {
				caseLines++
			}
		}

		assert.Len(t, parseString(t, log), caseLines)
	})
}

func TestParseFile(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		records, err := ParseFile(filepath.Join(t.TempDir(), "report.txt"))
		assert.Nil(t, records)
		assert.True(t, errors.Is(err, fs.ErrNotExist))
	})

	t.Run("existing file", func(t *testing.T) {
		filename := filepath.Join(t.TempDir(), "report.txt")
		require.NoError(t, os.WriteFile(filename, []byte("Test Suite 'S' started at 2024-01-01 10:00:00.000\n✓ testA (0.1 seconds)\n"), 0644))

		records, err := ParseFile(filename)
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, "S", records[0].Suite)
	})
}

func TestAssignIDs(t *testing.T) {
	t.Run("sequential identifiers", func(t *testing.T) {
		records := []*Record{{TestCase: "a"}, {TestCase: "b"}, {TestCase: "c"}}
		rows := AssignIDs(records, DefaultIDPrefix)

		require.Len(t, rows, 3)
		for i, expect := range []string{"API-T-01", "API-T-02", "API-T-03"} {
			assert.Equal(t, expect, rows[i].ID)
			assert.Same(t, records[i], rows[i].Record)
		}
	})

	t.Run("empty", func(t *testing.T) {
		assert.Empty(t, AssignIDs(nil, DefaultIDPrefix))
	})

	t.Run("wide indexes", func(t *testing.T) {
		assert.Equal(t, "API-T-09", FormatID(DefaultIDPrefix, 9))
		assert.Equal(t, "API-T-10", FormatID(DefaultIDPrefix, 10))
		assert.Equal(t, "API-T-100", FormatID(DefaultIDPrefix, 100))
		assert.Equal(t, "UI-T-01", FormatID("UI-T", 1))
	})
}
