package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/Azure/testreport/pkg/testlog"
	"github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"
)

// TestLogReportGenerator represents the feature that writes the parsed test log rows.
type TestLogReportGenerator interface {
	GenerateReport(rows []*testlog.Row) error
}

// SheetName is the worksheet the rows are written to.
const SheetName = "Sheet1"

// Columns are the header cells of the test log spreadsheet.
var Columns = []string{"ID", "Test Suite", "Test Case", "Result", "Date", "Duration (s)", "Issues ( if fail )"}

var columnWidths = []float64{12, 30, 40, 10, 26, 14, 60}

type spreadsheetGenerator struct {
	outputFile string
	logger     logrus.FieldLogger
}

var _ TestLogReportGenerator = (*spreadsheetGenerator)(nil)

// NewSpreadsheetGenerator creates a generator that writes an xlsx workbook to outputFile.
func NewSpreadsheetGenerator(outputFile string, logger logrus.FieldLogger) TestLogReportGenerator {
	if logger == nil {
		logger = logrus.New()
	}
	return &spreadsheetGenerator{
		outputFile: outputFile,
		logger:     logger.WithField("source", "spreadsheet"),
	}
}

func (g *spreadsheetGenerator) GenerateReport(rows []*testlog.Row) error {
	f := excelize.NewFile()
	defer f.Close()

	header := make([]interface{}, 0, len(Columns))
	for _, c := range Columns {
		header = append(header, c)
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}
	last, err := excelize.CoordinatesToCellName(len(Columns), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(SheetName, "A1", last, bold); err != nil {
		return fmt.Errorf("set header style: %w", err)
	}

	for i, width := range columnWidths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(SheetName, col, col, width); err != nil {
			return fmt.Errorf("set column width: %w", err)
		}
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := []interface{}{
			row.ID,
			row.Suite,
			row.TestCase,
			string(row.Result),
			row.Date,
			durationCell(row.Duration),
			row.Issue,
		}
		if err := f.SetSheetRow(SheetName, cell, &values); err != nil {
			return fmt.Errorf("write row %s: %w", row.ID, err)
		}
	}

	if dir := filepath.Dir(g.outputFile); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create report directory: %w", err)
		}
	}
	if err := f.SaveAs(g.outputFile); err != nil {
		return fmt.Errorf("save spreadsheet: %w", err)
	}

	g.logger.Debugf("write %d rows to %s", len(rows), g.outputFile)
	return nil
}

// durationCell keeps numeric durations as numbers, anything else is written verbatim.
func durationCell(duration string) interface{} {
	if v, err := strconv.ParseFloat(duration, 64); err == nil {
		return v
	}
	return duration
}
