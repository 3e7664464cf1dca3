package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/taxis/internal/cli/formatter"
	"github.com/alexanderramin/taxis/internal/repository"
)

func newRunsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "Inspect recorded classification runs",
	}

	cmd.AddCommand(
		newRunsListCmd(app),
		newRunsShowCmd(app),
	)

	return cmd
}

func newRunsListCmd(app *App) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent runs, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			runs, err := app.Runs()
			if err != nil {
				return err
			}
			list, err := runs.List(cmd.Context(), limit)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatRunList(list, app.Now()))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of runs (0 = all)")

	return cmd
}

func newRunsShowCmd(app *App) *cobra.Command {
	var sample int

	cmd := &cobra.Command{
		Use:   "show ID",
		Short: "Show one run with its category totals",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			runs, err := app.Runs()
			if err != nil {
				return err
			}
			run, err := runs.GetByID(ctx, args[0])
			if errors.Is(err, repository.ErrNotFound) {
				return fmt.Errorf("run %s not found", args[0])
			}
			if err != nil {
				return err
			}
			counts, err := runs.Summary(ctx, run.ID)
			if err != nil {
				return err
			}
			rows, err := runs.Results(ctx, run.ID)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatRunDetail(run, counts, rows, sample))
			return nil
		},
	}

	cmd.Flags().IntVar(&sample, "sample", 10, "Show the first N classified rows")

	return cmd
}
