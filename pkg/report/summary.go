package report

import (
	"fmt"
	"io"

	"github.com/Azure/testreport/pkg/coverage"
	"github.com/Azure/testreport/pkg/testlog"
	"github.com/olekukonko/tablewriter"
)

// WriteCoverageSummary prints the per file coverage and the total as a table.
func WriteCoverageSummary(w io.Writer, statistics *coverage.Statistics) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"File", "Executed", "Total", "Coverage"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_RIGHT})

	for _, f := range statistics.Files {
		table.Append([]string{
			f.Path,
			fmt.Sprintf("%d", f.Executed),
			fmt.Sprintf("%d", f.Total),
			formatPercent(f.Percent),
		})
	}

	table.SetFooter([]string{
		fmt.Sprintf("Total Files %d", len(statistics.Files)),
		fmt.Sprintf("%d", statistics.TotalExecuted),
		fmt.Sprintf("%d", statistics.TotalSegments),
		formatPercent(statistics.TotalPercent),
	})

	table.Render()
}

// WriteTestLogSummary prints the identified test cases as a table.
func WriteTestLogSummary(w io.Writer, rows []*testlog.Row) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"ID", "Test Suite", "Test Case", "Result"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetAutoWrapText(false)

	failed := 0
	for _, row := range rows {
		if row.Result == testlog.Failed {
			failed++
		}
		table.Append([]string{row.ID, row.Suite, row.TestCase, string(row.Result)})
	}

	table.SetFooter([]string{
		"",
		"",
		fmt.Sprintf("Total Cases %d", len(rows)),
		fmt.Sprintf("%d failed", failed),
	})

	table.Render()
}
