package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/percolath/store"
)

func newRunsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List archived runs, oldest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openArchive(cmd)
			if err != nil {
				return err
			}
			defer db.Close()

			runs, err := db.Runs(cmd.Context())
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "%-36s | %-28s | %-7s | %-5s | %-20s | %-25s | %s\n",
				"ID", "Strategy", "Trials", "Rows", "Seed", "Created", "Label")
			for _, r := range runs {
				seed := "-"
				if r.Meta.Seed != nil {
					seed = fmt.Sprint(*r.Meta.Seed)
				}
				fmt.Fprintf(w, "%-36s | %-28s | %-7d | %-5d | %-20s | %-25s | %s\n",
					r.ID, r.Strategy, r.Meta.Trials, r.Rows, seed, r.CreatedAt.Format(time.RFC3339), r.Meta.Label)
			}
			return nil
		},
	}
	cmd.Flags().String("sqlite", "", "SQLite run archive")
	_ = cmd.MarkFlagRequired("sqlite")

	return cmd
}

func newShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <run-id>",
		Short: "Print an archived run as CSV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openArchive(cmd)
			if err != nil {
				return err
			}
			defer db.Close()

			table, err := db.LoadTable(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return store.WriteCSV(cmd.OutOrStdout(), table)
		},
	}
	cmd.Flags().String("sqlite", "", "SQLite run archive")
	_ = cmd.MarkFlagRequired("sqlite")

	return cmd
}

func newDeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <run-id>",
		Short: "Remove an archived run and its rows",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openArchive(cmd)
			if err != nil {
				return err
			}
			defer db.Close()

			if err := db.DeleteRun(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
			return nil
		},
	}
	cmd.Flags().String("sqlite", "", "SQLite run archive")
	_ = cmd.MarkFlagRequired("sqlite")

	return cmd
}

func openArchive(cmd *cobra.Command) (*store.SQLite, error) {
	path, _ := cmd.Flags().GetString("sqlite")
	return store.OpenSQLite(cmd.Context(), path)
}
