package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/taxis/internal/cli/formatter"
	"github.com/alexanderramin/taxis/internal/service"
)

func newDedupCmd(app *App) *cobra.Command {
	var input inputFlags
	var writePath string
	var yes bool
	var maxRows int

	cmd := &cobra.Command{
		Use:   "dedup FILE",
		Short: "Report duplicate queries in a file",
		Long: `Loads FILE through the delimiter and encoding fallbacks and reports
duplicate rows, judged on the text column when the file has it and on whole
rows otherwise. With --write the de-duplicated table is saved; on a terminal
you are asked to confirm first unless --yes is given.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := input.resolve(cmd.Flags(), app.Config.Input)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if writePath != "" && !yes && app.IsInteractive() {
				title := fmt.Sprintf("Write de-duplicated rows to %s?", writePath)
				if _, err := os.Stat(writePath); err == nil {
					title = fmt.Sprintf("%s exists. Overwrite it?", writePath)
				}
				ok, err := app.Confirm(title)
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(out, formatter.Dim("Nothing will be written."))
					writePath = ""
				}
			}

			svc := service.NewDedupService(app.Logger, app.observers())
			res, err := svc.Check(cmd.Context(), service.DedupRequest{
				Path:       args[0],
				Delimiter:  in.Delimiter,
				Encoding:   in.Encoding,
				TextColumn: in.TextColumn,
				Keep:       in.Keep,
				OutPath:    writePath,
			})
			if err != nil {
				return err
			}

			fmt.Fprint(out, formatter.FormatLoadReport(res.Analysis.Load))
			fmt.Fprintln(out)
			fmt.Fprint(out, formatter.FormatDuplicateReport(res.Analysis.Duplicates, maxRows))
			if res.Written != "" {
				fmt.Fprintf(out, "\n%s %d rows to %s\n", formatter.StyleGreen.Render("Wrote"), res.Cleaned.Len(), res.Written)
			}
			return nil
		},
	}

	fs := cmd.Flags()
	input.register(fs)
	fs.StringVarP(&writePath, "write", "w", "", "Write the de-duplicated table to this path")
	fs.BoolVarP(&yes, "yes", "y", false, "Do not ask before writing")
	fs.IntVar(&maxRows, "show-rows", 20, "List at most N duplicate row indices")

	return cmd
}
