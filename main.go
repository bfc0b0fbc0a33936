package main

import (
	"os"

	"github.com/Azure/testreport/pkg/cmd"
	"github.com/Azure/testreport/pkg/reporter"
)

// set by -ldflags at build time
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	command := cmd.NewTestReportCommand(version, commit, date)
	if err := command.Execute(); err != nil {
		os.Exit(reporter.ExitCode(err))
	}
}
