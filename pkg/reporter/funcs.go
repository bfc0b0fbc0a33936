package reporter

import (
	"context"
	"fmt"
	"time"

	"github.com/Azure/testreport/pkg/coverage"
	"github.com/Azure/testreport/pkg/dbclient"
	"github.com/Azure/testreport/pkg/testlog"
	"github.com/sirupsen/logrus"
)

// storeCoverage sends every included file coverage to db store
func storeCoverage(ctx context.Context, dbClient dbclient.DbClient, statistics *coverage.Statistics) error {
	now := time.Now().UTC()
	for _, f := range statistics.Files {
		err := dbClient.Store(ctx, &dbclient.Data{
			PreciseTimestamp: now,
			Kind:             dbclient.CoverageKind,
			Commit:           statistics.Commit,
			FilePath:         f.Path,
			ExecutedSegments: int64(f.Executed),
			TotalSegments:    int64(f.Total),
			Coverage:         f.Percent,
		})
		if err != nil {
			return fmt.Errorf("store data: %w", err)
		}
	}

	return nil
}

// storeTestCases sends every test case row to db store
func storeTestCases(ctx context.Context, dbClient dbclient.DbClient, rows []*testlog.Row, commit string) error {
	now := time.Now().UTC()
	for _, row := range rows {
		err := dbClient.Store(ctx, &dbclient.Data{
			PreciseTimestamp: now,
			Kind:             dbclient.TestCaseKind,
			Commit:           commit,
			ID:               row.ID,
			Suite:            row.Suite,
			TestCase:         row.TestCase,
			Result:           string(row.Result),
			Date:             row.Date,
			Duration:         row.Duration,
			Issue:            row.Issue,
		})
		if err != nil {
			return fmt.Errorf("store data: %w", err)
		}
	}

	return nil
}

// dumpCoverage outputs all coverage results
func dumpCoverage(statistics *coverage.Statistics, logger logrus.FieldLogger) {
	logger.Debug("Summary of coverage:")

	for _, f := range statistics.Files {
		logger.Debugf("%s %d %d %.1f%% %s", f.Path, f.Executed, f.Total, f.Percent, f.Band)
	}
	for _, excluded := range statistics.ExcludedFiles {
		logger.Debugf("excluded: %s", excluded)
	}
}
