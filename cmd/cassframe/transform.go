package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/saltyorg/cassframe/internal/database"
	"github.com/saltyorg/cassframe/internal/table"
	"github.com/saltyorg/cassframe/internal/transform"
)

// transformFlags are shared by every transform subcommand.
type transformFlags struct {
	in     string
	out    string
	format string
}

func (f *transformFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.in, "in", "i", "", "Input table (.csv or .parquet)")
	cmd.Flags().StringVarP(&f.out, "out", "o", "", "Write the result to this path (extension added from --format)")
	cmd.Flags().StringVarP(&f.format, "format", "f", string(table.FormatCSV), "Output format: parquet or csv")
	_ = cmd.MarkFlagRequired("in")
}

func newTransformCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "transform",
		Short: "Apply a profile or work history transform to an exported table",
	}
	cmd.AddCommand(
		newActiveCmd(),
		newCertsCmd(),
		newWorkCmd(),
		newRatioCmd(),
	)
	return cmd
}

func newActiveCmd() *cobra.Command {
	var (
		tf     transformFlags
		column string
		days   int
	)
	cmd := &cobra.Command{
		Use:   "active",
		Short: "Keep profiles updated within the last --days days",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.runTransform(cmd, tf, func(tr *transform.Transformer, t *table.Table) (*table.Table, error) {
				return tr.ActiveProfiles(t, column, days)
			})
		},
	}
	tf.register(cmd)
	cmd.Flags().StringVar(&column, "column", transform.DefaultDateColumn, "Date column to filter on")
	cmd.Flags().IntVar(&days, "days", transform.DefaultActiveDays, "Active day window")
	return cmd
}

func newCertsCmd() *cobra.Command {
	var (
		tf     transformFlags
		column string
		days   int
	)
	cmd := &cobra.Command{
		Use:   "certs",
		Short: "Keep certificates completed within the last --days days",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.runTransform(cmd, tf, func(tr *transform.Transformer, t *table.Table) (*table.Table, error) {
				return tr.CertificateTrend(t, column, days)
			})
		},
	}
	tf.register(cmd)
	cmd.Flags().StringVar(&column, "column", transform.DefaultCompletionColumn, "Completion date column")
	cmd.Flags().IntVar(&days, "days", transform.DefaultCertificateDays, "Active day window")
	return cmd
}

func newWorkCmd() *cobra.Command {
	var (
		tf                 transformFlags
		start, end, typCol string
	)
	cmd := &cobra.Command{
		Use:   "work",
		Short: "Aggregate work history per emp_id",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.runTransform(cmd, tf, func(tr *transform.Transformer, t *table.Table) (*table.Table, error) {
				return tr.WorkAggregation(t, start, end, typCol)
			})
		},
	}
	tf.register(cmd)
	cmd.Flags().StringVar(&start, "start", transform.DefaultStartColumn, "Work start date column")
	cmd.Flags().StringVar(&end, "end", transform.DefaultEndColumn, "Work end date column")
	cmd.Flags().StringVar(&typCol, "type", transform.DefaultEmploymentTypeColumn, "Employment type column")
	return cmd
}

func newRatioCmd() *cobra.Command {
	var (
		tf     transformFlags
		column string
	)
	cmd := &cobra.Command{
		Use:   "ratio",
		Short: "Percentage share of each value of --column",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.runTransform(cmd, tf, func(tr *transform.Transformer, t *table.Table) (*table.Table, error) {
				return tr.CategoryRatio(t, column)
			})
		},
	}
	tf.register(cmd)
	cmd.Flags().StringVar(&column, "column", "", "Category column")
	_ = cmd.MarkFlagRequired("column")
	return cmd
}

type transformFunc func(tr *transform.Transformer, t *table.Table) (*table.Table, error)

func (a *app) runTransform(cmd *cobra.Command, tf transformFlags, fn transformFunc) error {
	ctx := cmd.Context()

	var format table.Format
	if tf.out != "" {
		var err error
		if format, err = table.ParseFormat(tf.format); err != nil {
			return err
		}
	}

	in, err := table.ReadFile(ctx, tf.in)
	if err != nil {
		return err
	}

	result, err := fn(transform.New(a.log), in)
	if err != nil {
		return fmt.Errorf("%s: %w", cmd.Name(), err)
	}

	if tf.out == "" {
		return table.WriteCSV(cmd.OutOrStdout(), result)
	}

	name, err := table.WriteFile(tf.out, format, result)
	if err != nil {
		return err
	}

	ledger, err := a.openLedger()
	if err != nil {
		return err
	}
	defer ledger.Close()

	if err := ledger.RecordExport(ctx, &database.ExportRecord{
		Source:    database.SourceTransform,
		Statement: cmd.Name() + " " + tf.in,
		Path:      name,
		Format:    string(format),
		Rows:      result.Len(),
		Columns:   len(result.Columns()),
	}); err != nil {
		return err
	}

	a.log.Info().Str("file", name).Int("rows", result.Len()).Str("transform", cmd.Name()).Msg("Transform exported")
	return nil
}
