package reporter

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"

	"github.com/Azure/testreport/pkg/dbclient"
	"github.com/Azure/testreport/pkg/report"
	"github.com/Azure/testreport/pkg/reportpath"
	"github.com/Azure/testreport/pkg/testlog"
	"github.com/sirupsen/logrus"
)

func NewTestLogReporter(o *TestLogOption) (Reporter, error) {
	logger := o.Logger
	if logger == nil {
		logger = logrus.New()
	}
	logger = logger.WithField("source", "testlog")

	resolver := reportpath.NewResolver(o.ReportsDir)
	input := o.Input
	if input == "" {
		input = resolver.TestLogInput()
	}
	output := o.Output
	if output == "" {
		output = resolver.TestLogOutput()
	}

	var (
		dbClient dbclient.DbClient
		err      error
	)
	if o.DbOption != nil && o.DbOption.DataCollectionEnabled {
		dbClient, err = o.DbOption.GetDbClient(logger)
		if err != nil {
			return nil, fmt.Errorf("get db client: %w", err)
		}
	}

	writer := o.Writer
	if writer == nil {
		writer = io.Discard
	}

	logger.Debugf("input: %s, output: %s, id prefix: %s", input, output, o.IDPrefix)

	return &testLogReporter{
		input:           input,
		output:          output,
		idPrefix:        o.IDPrefix,
		repositoryPath:  o.RepositoryPath,
		reportGenerator: report.NewSpreadsheetGenerator(output, logger),
		dbClient:        dbClient,
		writer:          writer,
		logger:          logger,
	}, nil
}

var _ Reporter = (*testLogReporter)(nil)

type testLogReporter struct {
	input          string
	output         string
	idPrefix       string
	repositoryPath string

	reportGenerator report.TestLogReportGenerator
	dbClient        dbclient.DbClient

	writer io.Writer
	logger logrus.FieldLogger
}

func (r *testLogReporter) Run(ctx context.Context) error {
	if r.dbClient != nil {
		defer r.dbClient.Close()
	}

	records, err := testlog.ParseFile(r.input)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return WrapErrorWithCode(err, InputNotFoundErrorExitCode,
				fmt.Sprintf("file not found at '%s'", r.input))
		}
		return WrapErrorWithCode(err, MalformedInputErrorExitCode,
			fmt.Sprintf("read test log '%s': %s", r.input, err))
	}

	if len(records) == 0 {
		r.logger.Warnf("no test cases found in '%s', nothing is written", r.input)
		return nil
	}

	rows := testlog.AssignIDs(records, r.idPrefix)

	if err := r.reportGenerator.GenerateReport(rows); err != nil {
		return WrapErrorWithCode(err, OutputWriteErrorExitCode,
			fmt.Sprintf("write spreadsheet '%s': %s", r.output, err))
	}

	report.WriteTestLogSummary(r.writer, rows)
	fmt.Fprintf(r.writer, "Data successfully extracted and saved to '%s'.\n", r.output)

	if r.dbClient != nil {
		commit := headCommit(r.repositoryPath, r.logger)
		if err := storeTestCases(ctx, r.dbClient, rows, commit); err != nil {
			return WrapError(err, fmt.Sprintf("store test case data: %s", err))
		}
	}

	return nil
}
