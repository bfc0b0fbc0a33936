package reporter

import "context"

// Reporter interface to generate a report from a tool output.
type Reporter interface {
	Run(ctx context.Context) error
}
