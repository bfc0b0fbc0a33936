// kusto.go is the kusto client wrapper of the library
// "github.com/Azure/azure-kusto-go/kusto"
package dbclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/Azure/azure-kusto-go/kusto"
	"github.com/Azure/azure-kusto-go/kusto/ingest"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/sirupsen/logrus"
)

var (
	ErrEnvRequired        = errors.New("environment is required for kusto db")
	ErrFlagRequired       = errors.New("flag is required for kusto db")
	ErrFormatCustomColumn = errors.New("wrong format, kusto custom column format is {column}:{datatype}:{value}")
)

const (
	// The required credentials used to authenticate on kusto.
	tenantIDKey     string = "KUSTO_TENANT_ID"
	clientIDKey     string = "KUSTO_CLIENT_ID"
	clientSecretKey string = "KUSTO_CLIENT_SECRET"

	Separator = ":"
)

func NewKustoClient(option *KustoOption) (DbClient, error) {
	credential, err := azidentity.NewClientSecretCredential(option.tenantID, option.clientID, option.clientSecret, nil)
	if err != nil {
		return nil, fmt.Errorf("kusto credential: %w", err)
	}

	kcsb := kusto.NewConnectionStringBuilder(option.Endpoint).WithTokenCredential(credential)
	kustoClient, err := kusto.New(kcsb)
	if err != nil {
		return nil, fmt.Errorf("kusto: %w", err)
	}

	coverageIngestor, err := ingest.New(kustoClient, option.Database, option.CoverageEvent)
	if err != nil {
		kustoClient.Close()
		return nil, fmt.Errorf("coverage ingest: %w", err)
	}

	testCaseIngestor, err := ingest.New(kustoClient, option.Database, option.TestCaseEvent)
	if err != nil {
		coverageIngestor.Close()
		kustoClient.Close()
		return nil, fmt.Errorf("testcase ingest: %w", err)
	}

	logger := option.Logger
	if logger == nil {
		logger = logrus.New()
	}

	return &KustoClient{
		client: kustoClient,
		ingestors: map[DataKind]*ingest.Ingestion{
			CoverageKind: coverageIngestor,
			TestCaseKind: testCaseIngestor,
		},
		mappings: map[DataKind][]mapping{
			CoverageKind: append(append([]mapping{}, coverageMappings...), option.extraMappings...),
			TestCaseKind: append(append([]mapping{}, testCaseMappings...), option.extraMappings...),
		},
		extraData: option.extraData,
		logger:    logger.WithField("source", "kusto"),
	}, nil

}

// KustoClient wraps the kusto ingestors, one per data kind, and the extra column data and corresponding mappings.
type KustoClient struct {
	client    *kusto.Client
	ingestors map[DataKind]*ingest.Ingestion
	mappings  map[DataKind][]mapping
	extraData map[string]interface{}
	logger    logrus.FieldLogger
}

var _ DbClient = (*KustoClient)(nil)

// Store stores the data to the kusto table of its kind.
func (client *KustoClient) Store(ctx context.Context, data *Data) error {
	ingestor, ok := client.ingestors[data.Kind]
	if !ok {
		return fmt.Errorf("no kusto table for data kind %q", data.Kind)
	}

	data.Extra = client.extraData
	dataBytes, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("data json marshal: %w", err)
	}

	mappingsBytes, err := json.Marshal(client.mappings[data.Kind])
	if err != nil {
		return fmt.Errorf("mappings json marshal: %w", err)
	}

	_, err = ingestor.FromReader(
		ctx,
		bytes.NewReader(dataBytes),
		ingest.FileFormat(ingest.JSON),
		ingest.IngestionMapping(mappingsBytes, ingest.JSON),
	)
	if err != nil {
		return fmt.Errorf("ingestor from reader %w", err)
	}

	client.logger.Debugf("send to kusto: %s", string(dataBytes))

	return nil
}

func (client *KustoClient) Close() error {
	var errs []error
	for _, ingestor := range client.ingestors {
		errs = append(errs, ingestor.Close())
	}
	errs = append(errs, client.client.Close())
	return errors.Join(errs...)
}

// properties used for kusto transform on json data.
type properties struct {
	Path      string `json:"Path"`
	Transform string `json:"Transform,omitempty"`
}

// mapping used to build mapping between kusto column and json data field.
type mapping struct {
	Column     string     `json:"Column"`
	Datatype   string     `json:"Datatype,omitempty"`
	Properties properties `json:"Properties"`
}

func newMapping(column, datatype string) mapping {
	return mapping{
		Column:   column,
		Datatype: datatype,
		Properties: properties{
			Path: "$." + column,
		},
	}
}

// coverageMappings gives the mappings between Data of coverage kind and the coverage table
var coverageMappings = []mapping{
	newMapping("preciseTimestamp", "datetime"),
	newMapping("commit", "string"),
	newMapping("filePath", "string"),
	newMapping("executedSegments", "long"),
	newMapping("totalSegments", "long"),
	newMapping("coverage", "real"),
}

// testCaseMappings gives the mappings between Data of testcase kind and the test case table
var testCaseMappings = []mapping{
	newMapping("preciseTimestamp", "datetime"),
	newMapping("commit", "string"),
	newMapping("id", "string"),
	newMapping("suite", "string"),
	newMapping("testCase", "string"),
	newMapping("result", "string"),
	newMapping("date", "string"),
	newMapping("duration", "string"),
	newMapping("issue", "string"),
}

// KustoOption wraps the credential and kusto server information for building kusto client.
type KustoOption struct {
	Endpoint      string
	Database      string
	CoverageEvent string
	TestCaseEvent string
	CustomColumns []string
	Logger        logrus.FieldLogger

	tenantID     string
	clientID     string
	clientSecret string

	extraData     map[string]interface{}
	extraMappings []mapping
}

// Validate checks the validation of the input on kusto option.
func (o *KustoOption) Validate() error {
	if o.tenantID = os.Getenv(tenantIDKey); o.tenantID == "" {
		return fmt.Errorf("%s %w", tenantIDKey, ErrEnvRequired)
	}

	if o.clientID = os.Getenv(clientIDKey); o.clientID == "" {
		return fmt.Errorf("%s %w", clientIDKey, ErrEnvRequired)
	}

	if o.clientSecret = os.Getenv(clientSecretKey); o.clientSecret == "" {
		return fmt.Errorf("%s %w", clientSecretKey, ErrEnvRequired)
	}

	if o.Endpoint == "" {
		return fmt.Errorf("%s %w", "endpoint", ErrFlagRequired)
	}
	if o.Database == "" {
		return fmt.Errorf("%s %w", "database", ErrFlagRequired)
	}
	if o.CoverageEvent == "" {
		return fmt.Errorf("%s %w", "coverage-event", ErrFlagRequired)
	}
	if o.TestCaseEvent == "" {
		return fmt.Errorf("%s %w", "testcase-event", ErrFlagRequired)
	}

	o.extraMappings = nil
	o.extraData = nil

	// each custom column has format: {column}:{datatype}:{value}
	// token 0: column name
	// token 1: datatype
	// token 2: column value
	for _, m := range o.CustomColumns {
		tokens := strings.Split(m, Separator)
		if len(tokens) != 3 {
			return fmt.Errorf("%s %w", m, ErrFormatCustomColumn)
		}

		if tokens[0] == "" || tokens[1] == "" || tokens[2] == "" {
			return fmt.Errorf("empty custom column string")
		}

		// build extra data kusto mapping
		o.extraMappings = append(o.extraMappings, mapping{
			Column:   tokens[0],
			Datatype: tokens[1],
			Properties: properties{
				Path: fmt.Sprintf("$.Extra.%s", tokens[0]),
			},
		})

		if o.extraData == nil {
			o.extraData = make(map[string]interface{})
		}

		// add extra data to final data struct
		o.extraData[tokens[0]] = tokens[2]
	}

	return nil
}
