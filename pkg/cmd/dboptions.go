package cmd

import (
	"github.com/Azure/testreport/pkg/dbclient"
	"github.com/spf13/cobra"
)

// addDBFlags binds the data collection flags shared by all sub commands.
func addDBFlags(cmd *cobra.Command, o *dbclient.DBOption) {
	flags := cmd.PersistentFlags()
	flags.BoolVar(&o.DataCollectionEnabled, "data-collection-enabled", false, "whether or not enable collecting report data")
	flags.StringVar((*string)(&o.DbType), "store-type", string(dbclient.None), "db client type, one of: Kusto, Sqlite")

	flags.StringVar(&o.KustoOption.Endpoint, "endpoint", "", "kusto endpoint")
	flags.StringVar(&o.KustoOption.Database, "database", "", "kusto database")
	flags.StringVar(&o.KustoOption.CoverageEvent, "coverage-event", "", "kusto table of coverage data")
	flags.StringVar(&o.KustoOption.TestCaseEvent, "testcase-event", "", "kusto table of test case data")
	flags.StringSliceVar(&o.KustoOption.CustomColumns, "custom-columns", []string{}, "custom kusto columns, format: {column}:{datatype}:{value}")

	flags.StringVar(&o.SqliteOption.Path, "sqlite-path", "", "sqlite database file")
}
