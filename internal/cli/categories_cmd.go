package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/taxis/internal/cli/formatter"
	"github.com/alexanderramin/taxis/internal/taxonomy"
)

func newCategoriesCmd(app *App) *cobra.Command {
	var selection string
	var prompt bool

	cmd := &cobra.Command{
		Use:   "categories",
		Short: "List the taxonomy",
		Long: `Prints the numbered category menu grouped by activity. --select marks the
categories a selection string resolves to; --prompt prints the category
section the model would receive for it.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			var sel *taxonomy.Selection
			if flagChanged(cmd.Flags(), "select") {
				sel = taxonomy.ParseSelection(app.Taxonomy, selection)
			}
			if prompt {
				if sel == nil {
					sel = taxonomy.All(app.Taxonomy)
				}
				fmt.Fprintln(out, taxonomy.RenderCategorySection(sel))
				return nil
			}

			fmt.Fprintln(out, formatter.FormatCategories(app.Taxonomy, sel))
			if sel != nil {
				fmt.Fprintln(out, formatter.FormatSelection(sel))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&selection, "select", "s", "", `Preview a selection, e.g. "1 3" or "S.S,E.RF"`)
	cmd.Flags().BoolVar(&prompt, "prompt", false, "Print the category section of the classification prompt")

	return cmd
}
