package dbclient

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
)

type ClientType string

const (
	None   ClientType = "None"
	Kusto  ClientType = "Kusto"
	Sqlite ClientType = "Sqlite"
)

type DataKind string

const (
	CoverageKind DataKind = "coverage"
	TestCaseKind DataKind = "testcase"
)

// DbClient interface for storing report data.
type DbClient interface {
	Store(context context.Context, data *Data) error
	Close() error
}

// Data is one row of a report, either a file coverage or a test case result.
type Data struct {
	PreciseTimestamp time.Time `json:"preciseTimestamp"`   // time send to db
	Kind             DataKind  `json:"kind"`               // coverage or testcase
	Commit           string    `json:"commit,omitempty"`   // repository HEAD the report was generated at
	FilePath         string    `json:"filePath,omitempty"` // relative path of the source file
	ExecutedSegments int64     `json:"executedSegments"`   // segments executed at least once
	TotalSegments    int64     `json:"totalSegments"`      // all segments of the file
	Coverage         float64   `json:"coverage"`           // ExecutedSegments / TotalSegments * 100
	ID               string    `json:"id,omitempty"`       // sequential test case identifier
	Suite            string    `json:"suite,omitempty"`    // test suite name
	TestCase         string    `json:"testCase,omitempty"` // test case name
	Result           string    `json:"result,omitempty"`   // passed or failed
	Date             string    `json:"date,omitempty"`     // suite timestamp from the log
	Duration         string    `json:"duration,omitempty"` // duration in seconds, verbatim
	Issue            string    `json:"issue,omitempty"`    // failed assertion

	Extra map[string]interface{} // extra data that passing accordingly
}

var ErrUnsupportedDBType = errors.New(`supportted type are "Kusto" and "Sqlite", unsupported DB client type`)

type DBOption struct {
	DataCollectionEnabled bool
	DbType                ClientType
	KustoOption           KustoOption
	SqliteOption          SqliteOption
}

func (o *DBOption) Validate() error {
	if !o.DataCollectionEnabled {
		return nil
	}

	switch o.DbType {
	case Kusto:
		return o.KustoOption.Validate()
	case Sqlite:
		return o.SqliteOption.Validate()
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedDBType, o.DbType)
	}
}

func (o *DBOption) GetDbClient(logger logrus.FieldLogger) (DbClient, error) {
	switch o.DbType {
	case Kusto:
		o.KustoOption.Logger = logger
		return NewKustoClient(&o.KustoOption)
	case Sqlite:
		o.SqliteOption.Logger = logger
		return NewSqliteClient(&o.SqliteOption)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedDBType, o.DbType)
	}
}
