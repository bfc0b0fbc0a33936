package testlog

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"
)

const (
	passGlyph = "✓"
	failGlyph = "✗"
)

var (
	// suitePattern captures the suite name, its status and the timestamp.
	// For example: Test Suite 'AuthTests' started at 2024-01-01 10:00:00.000
	suitePattern = regexp.MustCompile(`Test Suite '(.*?)' (started|passed|failed) at (\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}\.\d+)`)

	// casePattern captures the case name, the optional duration, and for failures the assertion, actual and expected values.
	// For example:
	//   ✓ testLogin (0.12 seconds)
	//   ✗ testLogout, Equality failed: (false) is not equal to (true)
	casePattern = regexp.MustCompile(`[` + passGlyph + failGlyph + `]\s+(\w+)\s*(?:\(([\d\.]+) seconds\))?(?:,\s*(.*?) failed: \((.*?)\) is not equal to \((.*?)\))?`)
)

// suiteState is carried from a suite line to every following case line until the next suite line.
type suiteState struct {
	suite string
	date  string
}

// Parse reads the log line by line and returns the test case records in log order.
// Lines that are neither a suite line nor a case line are skipped.
func Parse(r io.Reader) ([]*Record, error) {
	var (
		records []*Record
		state   suiteState
	)

	br := bufio.NewReader(r)
	for {
		line, err := br.ReadString('\n')
		if err != nil && err != io.EOF {
			return nil, fmt.Errorf("read test log: %w", err)
		}
		line = strings.TrimRight(line, "\r\n")

		if m := suitePattern.FindStringSubmatch(line); m != nil {
			state.suite = m[1]
			state.date = m[3]
		} else if loc := casePattern.FindStringSubmatchIndex(line); loc != nil {
			records = append(records, newRecord(state, line, loc))
		}

		if err == io.EOF {
			break
		}
	}

	return records, nil
}

// ParseFile parses the log at filename.
// The returned error wraps fs.ErrNotExist when the file is missing.
func ParseFile(filename string) ([]*Record, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("open test log: %w", err)
	}
	defer f.Close()

	return Parse(f)
}

// newRecord builds a record from the submatch indexes of a case line.
// The result depends on the leading glyph only, a failure without a parsable assertion has an empty issue.
func newRecord(state suiteState, line string, loc []int) *Record {
	record := &Record{
		Suite:    state.suite,
		TestCase: submatch(line, loc, 1),
		Result:   Passed,
		Date:     state.date,
		Duration: submatch(line, loc, 2),
	}

	if strings.HasPrefix(strings.TrimSpace(line), failGlyph) {
		record.Result = Failed
		if participated(loc, 3) {
			record.Issue = fmt.Sprintf("%s failed: (%s) != (%s)",
				submatch(line, loc, 3),
				submatch(line, loc, 4),
				submatch(line, loc, 5),
			)
		}
	}

	return record
}

func participated(loc []int, group int) bool {
	return loc[2*group] >= 0
}

// submatch returns the text of group, or an empty string when the group did not participate.
func submatch(line string, loc []int, group int) string {
	if !participated(loc, group) {
		return ""
	}
	return line[loc[2*group]:loc[2*group+1]]
}
