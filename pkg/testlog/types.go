package testlog

type Result string

const (
	Passed Result = "passed"
	Failed Result = "failed"
)

// Record represents one test case result found in the log.
type Record struct {
	// Suite is the name of the most recent suite line above the case, empty if none.
	Suite string
	// TestCase is the name of the test case.
	TestCase string
	// Result is failed when the line starts with the failure glyph.
	Result Result
	// Date is the timestamp of the most recent suite line above the case, empty if none.
	Date string
	// Duration is the reported duration in seconds, kept verbatim, empty if absent.
	Duration string
	// Issue describes the failed assertion, empty for passed cases.
	Issue string
}

// Row is a record with its sequential identifier.
type Row struct {
	ID string
	*Record
}
