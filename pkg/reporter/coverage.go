package reporter

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"

	"github.com/Azure/testreport/pkg/coverage"
	"github.com/Azure/testreport/pkg/dbclient"
	"github.com/Azure/testreport/pkg/gittool"
	"github.com/Azure/testreport/pkg/report"
	"github.com/Azure/testreport/pkg/reportpath"
	"github.com/sirupsen/logrus"
)

func NewCoverageReporter(o *CoverageOption) (Reporter, error) {
	logger := o.Logger
	if logger == nil {
		logger = logrus.New()
	}
	logger = logger.WithField("source", "coverage")

	aggregator, err := coverage.NewAggregator(o.Excludes, o.ExcludeGlobs, o.Anchor, o.Annotations, logger)
	if err != nil {
		return nil, fmt.Errorf("new aggregator: %w", err)
	}

	resolver := reportpath.NewResolver(o.ReportsDir)
	input := o.Input
	if input == "" {
		input = resolver.CoverageInput()
	}
	output := o.Output
	if output == "" {
		output = resolver.CoverageOutput()
		if o.Format == report.MarkdownFormat {
			output = resolver.CoverageMarkdownOutput()
		}
	}

	reportGenerator, err := report.NewCoverageReportGenerator(o.Format, o.Style, output, o.ShowSource, o.BlobURL, logger)
	if err != nil {
		return nil, err
	}

	var modulePath string
	if o.InputFormat == coverage.GoFormat && o.ModuleDir != "" {
		modulePath, err = coverage.ParseModulePath(o.ModuleDir)
		if err != nil {
			return nil, fmt.Errorf("parse go module path: %w", err)
		}
	}

	var dbClient dbclient.DbClient
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

	logger.Debugf("input: %s, output: %s, input format: %s, module path: %s", input, output, o.InputFormat, modulePath)

	return &coverageReporter{
		input:            input,
		output:           output,
		format:           o.InputFormat,
		modulePath:       modulePath,
		repositoryPath:   o.RepositoryPath,
		coverageBaseline: o.CoverageBaseline,
		aggregator:       aggregator,
		reportGenerator:  reportGenerator,
		dbClient:         dbClient,
		writer:           writer,
		logger:           logger,
	}, nil
}

var _ Reporter = (*coverageReporter)(nil)

type coverageReporter struct {
	input            string
	output           string
	format           coverage.InputFormat
	modulePath       string
	repositoryPath   string
	coverageBaseline float64

	aggregator      coverage.Aggregator
	reportGenerator report.CoverageReportGenerator
	dbClient        dbclient.DbClient

	writer io.Writer
	logger logrus.FieldLogger
}

func (r *coverageReporter) Run(ctx context.Context) error {
	if r.dbClient != nil {
		defer r.dbClient.Close()
	}

	entries, err := coverage.Load(r.format, r.input, r.modulePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return WrapErrorWithCode(err, InputNotFoundErrorExitCode,
				fmt.Sprintf("coverage file not found at '%s'", r.input))
		}
		return WrapErrorWithCode(err, MalformedInputErrorExitCode,
			fmt.Sprintf("read coverage file '%s': %s", r.input, err))
	}

	statistics := r.aggregator.Aggregate(entries)
	statistics.Commit = headCommit(r.repositoryPath, r.logger)

	if err := r.reportGenerator.GenerateReport(statistics); err != nil {
		return WrapErrorWithCode(err, OutputWriteErrorExitCode,
			fmt.Sprintf("write coverage report '%s': %s", r.output, err))
	}

	report.WriteCoverageSummary(r.writer, statistics)
	fmt.Fprintf(r.writer, "coverage report generated: %s\n", r.output)

	if r.dbClient != nil {
		if err := storeCoverage(ctx, r.dbClient, statistics); err != nil {
			return WrapError(err, fmt.Sprintf("store coverage data: %s", err))
		}
	}

	dumpCoverage(statistics, r.logger)

	if r.coverageBaseline > 0 && statistics.TotalPercent < r.coverageBaseline {
		return WrapErrorWithCode(ErrLowCoverage, LowCoverageErrorExitCode,
			fmt.Sprintf("total coverage %.1f%% is lower than the coverage baseline %.1f%%", statistics.TotalPercent, r.coverageBaseline))
	}

	return nil
}

// headCommit returns the HEAD commit of the repository, empty when it cannot be resolved.
func headCommit(repositoryPath string, logger logrus.FieldLogger) string {
	if repositoryPath == "" {
		return ""
	}

	absPath, err := filepath.Abs(repositoryPath)
	if err != nil {
		logger.Debugf("absolute path of %s: %s", repositoryPath, err)
		return ""
	}

	client, err := gittool.NewGitClient(absPath)
	if err != nil {
		logger.Debugf("open repository %s: %s", absPath, err)
		return ""
	}

	commit, err := client.HeadCommit()
	if err != nil {
		logger.Debugf("resolve HEAD commit of %s: %s", absPath, err)
		return ""
	}
	if branch, err := client.Branch(); err == nil && branch != "" {
		logger.Debugf("report for branch %s at %s", branch, commit)
	}
	return commit
}
