package reporter

import "errors"

const (
	GeneralErrorExitCode        = 1  // bash general error exit code
	InputNotFoundErrorExitCode  = 2  // coverage export or test log does not exist
	MalformedInputErrorExitCode = 3  // input cannot be decoded
	OutputWriteErrorExitCode    = 4  // report cannot be written
	LowCoverageErrorExitCode    = 12 // total coverage is lower than the coverage baseline exit code
)

var ErrLowCoverage = errors.New("total coverage is lower than the coverage baseline")

// ReportError carries the detail error information and the process exit code.
type ReportError struct {
	ExitCode   int
	Err        error
	ErrMessage string
}

func WrapErrorWithCode(err error, exitCode int, errMessage string) *ReportError {
	return &ReportError{
		ExitCode:   exitCode,
		Err:        err,
		ErrMessage: errMessage,
	}
}

func WrapError(err error, errMessage string) *ReportError {
	return WrapErrorWithCode(err, GeneralErrorExitCode, errMessage)
}

func (e *ReportError) Error() string {
	if e.ErrMessage != "" {
		return e.ErrMessage
	}
	return e.Err.Error()
}

func (e *ReportError) Unwrap() error {
	return e.Err
}

// ExitCode returns the exit code carried by err, GeneralErrorExitCode for any other error and 0 for nil.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var reportErr *ReportError
	if errors.As(err, &reportErr) {
		return reportErr.ExitCode
	}
	return GeneralErrorExitCode
}
