package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/taxis/internal/cli/formatter"
	"github.com/alexanderramin/taxis/internal/langid"
)

func newLangCmd(app *App) *cobra.Command {
	var allow []string

	cmd := &cobra.Command{
		Use:   "lang TEXT...",
		Short: "Identify the language of a text",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			guess, err := app.NewIdentifier(allow...).Identify(strings.Join(args, " "))
			if errors.Is(err, langid.ErrNoText) {
				return fmt.Errorf("nothing to identify")
			}
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatGuess(guess))
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&allow, "allow", nil, "Restrict detection to these ISO 639-1 codes, e.g. de,en")

	return cmd
}
