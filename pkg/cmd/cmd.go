package cmd

import (
	"context"
	"fmt"

	"github.com/Azure/testreport/pkg/coverage"
	"github.com/Azure/testreport/pkg/dbclient"
	"github.com/Azure/testreport/pkg/report"
	"github.com/Azure/testreport/pkg/reporter"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	coverageLong = `Generate an HTML or markdown coverage report from a llvm-cov export.

Files are filtered by path patterns, rewritten relative to the anchor directory,
and listed with their executed segment ratio and the total coverage.
`

	coverageExample = `# Generate today's coverage report from test_reports/coverage_<date>.json
testreport coverage

# Generate coverage report with highlighted uncovered source, fail when total is below 60%
testreport coverage --input coverage.json --output coverage.html --show-source --coverage-baseline 60

# Generate a markdown report for a pull request comment, uncovered lines link to the HEAD commit
testreport coverage --format markdown --blob-url https://github.com/org/repo

# Generate coverage report from a go coverage profile
testreport coverage --input-format go --input coverage.out --module-dir . --anchor pkg

# Generate coverage report and send the coverage data to kusto database.
export KUSTO_TENANT_ID=00000000-0000-0000-0000-000000000000
export KUSTO_CLIENT_ID=00000000-0000-0000-0000-000000000000
export KUSTO_CLIENT_SECRET=xxxxxxxxxxxxxxxxxxxx
testreport coverage --input coverage.json \
	--data-collection-enabled \
	--store-type Kusto \
	--endpoint https://your.kusto.windows.net/ \
	--database kustodb_name \
	--coverage-event coverage_event \
	--testcase-event testcase_event
`

	testLogLong = `Extract test case results from a test run log into a spreadsheet.

Each test case line gets a sequential identifier, the enclosing suite name and date,
its duration and, for failed assertions, the issue.
`

	testLogExample = `# Extract today's test log test_reports/report_<date>.txt
testreport testlog

# Extract a given log and keep the history in a local sqlite database
testreport testlog --input build/test.log --output build/test.xlsx \
	--data-collection-enabled --store-type Sqlite --sqlite-path test_reports/history.db
`
)

const (
	FlagVerbose      = "verbose"
	FlagVerboseShort = "v"
	FlagEnvFile      = "env-file"
)

func createLogger(cmd *cobra.Command) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(cmd.ErrOrStderr())
	verbose, err := cmd.Flags().GetBool(FlagVerbose)
	if err != nil {
		// no verbose flag on the command, It's OK.
		verbose = false
	}
	if verbose {
		logger.SetLevel(logrus.DebugLevel)
	}
	return logger
}

// NewTestReportCommand creates the root command and its sub commands.
func NewTestReportCommand(version, commit, date string) *cobra.Command {
	dbOption := &dbclient.DBOption{}
	var envFile string

	cmd := &cobra.Command{
		Use:          "testreport",
		Short:        "coverage and test log reporter",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if envFile == "" {
				return nil
			}
			if err := godotenv.Load(envFile); err != nil {
				return fmt.Errorf("load env file %s: %w", envFile, err)
			}
			return nil
		},
	}

	cmd.PersistentFlags().BoolP(FlagVerbose, FlagVerboseShort, false, "verbose output")
	cmd.PersistentFlags().StringVar(&envFile, FlagEnvFile, "", "dotenv file loaded before running, existing environment variables are kept")
	addDBFlags(cmd, dbOption)

	cmd.AddCommand(newCoverageCommand(dbOption))
	cmd.AddCommand(newTestLogCommand(dbOption))
	cmd.AddCommand(newVersionCommand(version, commit, date))
	return cmd
}

func newCoverageCommand(dbOption *dbclient.DBOption) *cobra.Command {
	o := reporter.NewCoverageOption()
	var inputFormat, format string

	cmd := &cobra.Command{
		Use:     "coverage",
		Short:   "generate html coverage report",
		Long:    coverageLong,
		Example: coverageExample,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			o.InputFormat = coverage.InputFormat(inputFormat)
			o.Format = report.ReportFormat(format)
			o.DbOption = dbOption
			o.Writer = cmd.OutOrStdout()
			o.Logger = createLogger(cmd)

			if err := o.Validate(); err != nil {
				return err
			}

			r, err := reporter.NewCoverageReporter(o)
			if err != nil {
				return fmt.Errorf("NewCoverageReporter: %w", err)
			}

			return r.Run(context.Background())
		},
	}

	cmd.Flags().StringVarP(&o.Input, "input", "i", "", "llvm-cov export json or go coverage profile, default <reports-dir>/coverage_<date>.json")
	cmd.Flags().StringVarP(&o.Output, "output", "o", "", "report file, default <reports-dir>/coverage_report_<date>.html or .md")
	cmd.Flags().StringVar(&o.ReportsDir, "reports-dir", o.ReportsDir, "directory of the default input and output files")
	cmd.Flags().StringVar(&inputFormat, "input-format", string(o.InputFormat), "input format, one of: llvm, go")
	cmd.Flags().StringVar(&o.ModuleDir, "module-dir", "", "directory of the go.mod whose module path is stripped from go profile file names")
	cmd.Flags().StringVar(&o.Anchor, "anchor", o.Anchor, "first path element kept in the relative file path")
	cmd.Flags().StringSliceVar(&o.Excludes, "excludes", o.Excludes, "regular expressions of files excluded from the report")
	cmd.Flags().StringSliceVar(&o.ExcludeGlobs, "exclude-globs", []string{}, "glob patterns of files excluded from the report, e.g. **/Tests/**")
	cmd.Flags().BoolVar(&o.Annotations, "annotations", false, "honor // +testreport:ignore markers found in the source files")
	cmd.Flags().StringVar(&format, "format", string(o.Format), "format of the coverage report, one of: html, markdown")
	cmd.Flags().StringVar(&o.BlobURL, "blob-url", "", "repository web url, markdown reports link uncovered lines to it, e.g. https://github.com/org/repo")
	cmd.Flags().BoolVar(&o.ShowSource, "show-source", false, "include highlighted source around uncovered lines")
	cmd.Flags().StringVar(&o.Style, "style", o.Style, "code format style of the source snippets, refer to https://pygments.org/docs/styles for more information")
	cmd.Flags().StringVar(&o.RepositoryPath, "repository-path", o.RepositoryPath, "git repository whose HEAD commit is stamped on the report")
	cmd.Flags().Float64Var(&o.CoverageBaseline, "coverage-baseline", o.CoverageBaseline, "returns an error code if total coverage is less than coverage baseline, 0 disables the check")

	return cmd
}

func newTestLogCommand(dbOption *dbclient.DBOption) *cobra.Command {
	o := reporter.NewTestLogOption()

	cmd := &cobra.Command{
		Use:     "testlog",
		Short:   "extract test case results into a spreadsheet",
		Long:    testLogLong,
		Example: testLogExample,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			o.DbOption = dbOption
			o.Writer = cmd.OutOrStdout()
			o.Logger = createLogger(cmd)

			if err := o.Validate(); err != nil {
				return err
			}

			r, err := reporter.NewTestLogReporter(o)
			if err != nil {
				return fmt.Errorf("NewTestLogReporter: %w", err)
			}

			return r.Run(context.Background())
		},
	}

	cmd.Flags().StringVarP(&o.Input, "input", "i", "", "test run log, default <reports-dir>/report_<date>.txt")
	cmd.Flags().StringVarP(&o.Output, "output", "o", "", "spreadsheet file, default <reports-dir>/report_<date>.xlsx")
	cmd.Flags().StringVar(&o.ReportsDir, "reports-dir", o.ReportsDir, "directory of the default input and output files")
	cmd.Flags().StringVar(&o.IDPrefix, "id-prefix", o.IDPrefix, "prefix of the sequential test case identifiers")
	cmd.Flags().StringVar(&o.RepositoryPath, "repository-path", o.RepositoryPath, "git repository whose HEAD commit is attached to stored data")

	return cmd
}
