package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

func newHistoryCmd() *cobra.Command {
	var (
		limit int
		prune time.Duration
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List exported files recorded in the ledger",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			ledger, err := cli.openLedger()
			if err != nil {
				return err
			}
			defer ledger.Close()

			if prune > 0 {
				removed, err := ledger.PruneExports(ctx, time.Now().Add(-prune))
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %d export(s) older than %s\n", removed, prune)
				return nil
			}

			records, err := ledger.ListExports(ctx, limit)
			if err != nil {
				return err
			}
			if len(records) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "No exports recorded in %s\n", ledger.Path())
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "CREATED\tSOURCE\tFORMAT\tROWS\tPATH")
			for _, r := range records {
				fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n",
					r.CreatedAt.Local().Format("2006-01-02 15:04:05"), r.Source, r.Format, r.Rows, r.Path)
			}
			return w.Flush()
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Number of exports to show (0 for all)")
	cmd.Flags().DurationVar(&prune, "prune", 0, "Delete exports older than this (e.g. 720h) instead of listing")
	return cmd
}
