package dbclient

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"
)

var ErrSqlitePathRequired = errors.New("sqlite-path is required for sqlite db")

// SqliteOption configures the local sqlite history database.
type SqliteOption struct {
	Path   string
	Logger logrus.FieldLogger
}

func (o *SqliteOption) Validate() error {
	if o.Path == "" {
		return ErrSqlitePathRequired
	}
	return nil
}

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS coverage_results (
	id                INTEGER PRIMARY KEY AUTOINCREMENT,
	precise_timestamp TIMESTAMP NOT NULL,
	commit_hash       TEXT NOT NULL DEFAULT '',
	file_path         TEXT NOT NULL,
	executed_segments INTEGER NOT NULL,
	total_segments    INTEGER NOT NULL,
	coverage          REAL NOT NULL
);

CREATE TABLE IF NOT EXISTS test_results (
	id                INTEGER PRIMARY KEY AUTOINCREMENT,
	precise_timestamp TIMESTAMP NOT NULL,
	commit_hash       TEXT NOT NULL DEFAULT '',
	case_id           TEXT NOT NULL,
	suite             TEXT NOT NULL DEFAULT '',
	test_case         TEXT NOT NULL,
	result            TEXT NOT NULL,
	suite_date        TEXT NOT NULL DEFAULT '',
	duration          TEXT NOT NULL DEFAULT '',
	issue             TEXT NOT NULL DEFAULT ''
);
`

// SqliteClient appends report rows to a local sqlite database.
type SqliteClient struct {
	db     *sql.DB
	logger logrus.FieldLogger
}

var _ DbClient = (*SqliteClient)(nil)

func NewSqliteClient(option *SqliteOption) (*SqliteClient, error) {
	if dir := filepath.Dir(option.Path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", option.Path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	logger := option.Logger
	if logger == nil {
		logger = logrus.New()
	}

	return &SqliteClient{
		db:     db,
		logger: logger.WithField("source", "sqlite"),
	}, nil
}

// Store inserts the data into the table of its kind.
func (client *SqliteClient) Store(ctx context.Context, data *Data) error {
	var err error
	switch data.Kind {
	case CoverageKind:
		_, err = client.db.ExecContext(ctx,
			`INSERT INTO coverage_results (precise_timestamp, commit_hash, file_path, executed_segments, total_segments, coverage)
			VALUES (?, ?, ?, ?, ?, ?)`,
			data.PreciseTimestamp, data.Commit, data.FilePath, data.ExecutedSegments, data.TotalSegments, data.Coverage,
		)
	case TestCaseKind:
		_, err = client.db.ExecContext(ctx,
			`INSERT INTO test_results (precise_timestamp, commit_hash, case_id, suite, test_case, result, suite_date, duration, issue)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			data.PreciseTimestamp, data.Commit, data.ID, data.Suite, data.TestCase, data.Result, data.Date, data.Duration, data.Issue,
		)
	default:
		return fmt.Errorf("no sqlite table for data kind %q", data.Kind)
	}
	if err != nil {
		return fmt.Errorf("insert %s: %w", data.Kind, err)
	}

	client.logger.Debugf("store %s row", data.Kind)
	return nil
}

func (client *SqliteClient) Close() error {
	return client.db.Close()
}
