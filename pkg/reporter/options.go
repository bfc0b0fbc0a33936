package reporter

import (
	"fmt"
	"io"

	"github.com/Azure/testreport/pkg/coverage"
	"github.com/Azure/testreport/pkg/dbclient"
	"github.com/Azure/testreport/pkg/report"
	"github.com/Azure/testreport/pkg/reportpath"
	"github.com/Azure/testreport/pkg/testlog"
	"github.com/sirupsen/logrus"
)

const (
	DefaultStyle            = "colorful"
	DefaultRepositoryPath   = "."
	DefaultCoverageBaseline = 0.0
)

// CoverageOption contains the input for the coverage command.
type CoverageOption struct {
	Input       string
	Output      string
	ReportsDir  string
	InputFormat coverage.InputFormat
	ModuleDir   string

	Anchor       string
	Excludes     []string
	ExcludeGlobs []string
	Annotations  bool

	Format     report.ReportFormat
	ShowSource bool
	Style      string
	BlobURL    string

	RepositoryPath   string
	CoverageBaseline float64

	DbOption *dbclient.DBOption

	Writer io.Writer
	Logger logrus.FieldLogger
}

// NewCoverageOption returns a CoverageOption with default values.
func NewCoverageOption() *CoverageOption {
	return &CoverageOption{
		ReportsDir:       reportpath.DefaultDir,
		InputFormat:      coverage.LLVMFormat,
		Anchor:           coverage.DefaultAnchor,
		Excludes:         append([]string{}, coverage.DefaultExcludePatterns...),
		Format:           report.HTMLFormat,
		Style:            DefaultStyle,
		RepositoryPath:   DefaultRepositoryPath,
		CoverageBaseline: DefaultCoverageBaseline,
	}
}

func (o *CoverageOption) Validate() error {
	switch o.InputFormat {
	case coverage.LLVMFormat, coverage.GoFormat:
	default:
		return fmt.Errorf("%w: %s", coverage.ErrUnsupportedType, o.InputFormat)
	}

	switch o.Format {
	case report.HTMLFormat, report.MarkdownFormat:
	default:
		return fmt.Errorf("%w: %s", report.ErrUnsupportedFormat, o.Format)
	}

	if o.CoverageBaseline < 0 || o.CoverageBaseline > 100 {
		return fmt.Errorf("coverage baseline %.1f is out of range [0, 100]", o.CoverageBaseline)
	}

	if o.DbOption == nil {
		return nil
	}
	return o.DbOption.Validate()
}

// TestLogOption contains the input for the testlog command.
type TestLogOption struct {
	Input      string
	Output     string
	ReportsDir string
	IDPrefix   string

	RepositoryPath string

	DbOption *dbclient.DBOption

	Writer io.Writer
	Logger logrus.FieldLogger
}

// NewTestLogOption returns a TestLogOption with default values.
func NewTestLogOption() *TestLogOption {
	return &TestLogOption{
		ReportsDir:     reportpath.DefaultDir,
		IDPrefix:       testlog.DefaultIDPrefix,
		RepositoryPath: DefaultRepositoryPath,
	}
}

func (o *TestLogOption) Validate() error {
	if o.IDPrefix == "" {
		return fmt.Errorf("id prefix must not be empty")
	}

	if o.DbOption == nil {
		return nil
	}
	return o.DbOption.Validate()
}
