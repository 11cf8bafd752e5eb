package main

import (
	"github.com/spf13/cobra"

	"github.com/saltyorg/cassframe/internal/cassandra"
	"github.com/saltyorg/cassframe/internal/database"
	"github.com/saltyorg/cassframe/internal/table"
)

func newQueryCmd() *cobra.Command {
	var (
		out    string
		format string
	)

	cmd := &cobra.Command{
		Use:   "query <cql>",
		Short: "Run a CQL query and print or export the result",
		Long: `Runs a CQL statement against the configured keyspace. The whole result set is
loaded into memory. Without --out the rows are printed as CSV; with --out they
are written to <out>.parquet or <out>.csv and recorded in the export ledger.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var f table.Format
			if out != "" {
				var err error
				if f, err = table.ParseFormat(format); err != nil {
					return err
				}
			}
			return cli.runQuery(cmd, args[0], out, f)
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "Write the result to this path (extension added from --format)")
	cmd.Flags().StringVarP(&format, "format", "f", string(table.FormatParquet), "Export format: parquet or csv")
	return cmd
}

func (a *app) runQuery(cmd *cobra.Command, stmt, out string, format table.Format) error {
	ctx := cmd.Context()
	cc := a.cfg.Cassandra

	return cassandra.WithCluster(cc.Host, cc.Port, cc.User, cc.Password, func(c *cassandra.Cluster) error {
		session, err := c.Session(cc.Keyspace)
		if err != nil {
			return err
		}

		if out == "" {
			t, err := session.QueryTable(ctx, stmt)
			if err != nil {
				return err
			}
			return table.WriteCSV(cmd.OutOrStdout(), t)
		}

		export, err := session.QueryToFile(ctx, stmt, out, format)
		if err != nil || export.Path == "" {
			return err
		}

		ledger, err := a.openLedger()
		if err != nil {
			return err
		}
		defer ledger.Close()

		if err := ledger.RecordExport(ctx, &database.ExportRecord{
			Source:    database.SourceQuery,
			Keyspace:  session.Keyspace(),
			Statement: stmt,
			Path:      export.Path,
			Format:    string(export.Format),
			Rows:      export.Rows,
			Columns:   export.Columns,
		}); err != nil {
			return err
		}

		a.log.Info().Str("file", export.Path).Int("rows", export.Rows).Msg("Query exported")
		return nil
	}, cassandra.WithLogger(a.log))
}
