package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/taxis/internal/classify"
	"github.com/alexanderramin/taxis/internal/cli/formatter"
	"github.com/alexanderramin/taxis/internal/evaluate"
	"github.com/alexanderramin/taxis/internal/ingest"
)

func newEvaluateCmd(app *App) *cobra.Command {
	var truthPath, predictionsPath, idColumn, labelColumn, matrixOut string

	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Compare classified output against hand-labelled ground truth",
		Long: `Matches predictions to ground truth by entry id and prints accuracy, the
confusion matrix, per-label precision and recall, and the labels the
classifier most often gets wrong.

The ground truth file has no header and holds id;label rows. Predictions are
read from a classified output file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			truth, err := evaluate.LoadGroundTruth(truthPath)
			if err != nil {
				return err
			}
			table, _, err := ingest.LoadWithEncoding(predictionsPath, ',', app.Config.Input.Encoding)
			if err != nil {
				return fmt.Errorf("loading predictions: %w", err)
			}
			predictions, err := evaluate.PredictionsFromTable(table, idColumn, labelColumn)
			if err != nil {
				return err
			}

			report, err := evaluate.Compare(truth, predictions)
			if err != nil {
				return err
			}
			app.Logger.Info("evaluated",
				"truth", len(truth), "predictions", len(predictions), "matched", report.Matched)

			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatEvaluation(report, evaluate.AnalyzeErrors(report)))

			if matrixOut != "" {
				if err := writeMatrix(matrixOut, report); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "\n%s %s\n", formatter.Dim("matrix"), matrixOut)
			}
			return nil
		},
	}

	fs := cmd.Flags()
	fs.StringVar(&truthPath, "truth", "", "Ground truth file (id;label per line)")
	fs.StringVar(&predictionsPath, "predictions", "", "Classified output file")
	fs.StringVar(&idColumn, "id-column", "entryId", "Entry id column in the predictions")
	fs.StringVar(&labelColumn, "label-column", classify.ColumnCategory, "Predicted label column")
	fs.StringVar(&matrixOut, "matrix-out", "", "Also write the confusion matrix as CSV")
	_ = cmd.MarkFlagRequired("truth")
	_ = cmd.MarkFlagRequired("predictions")

	return cmd
}

func writeMatrix(path string, report *evaluate.Report) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return evaluate.WriteMatrixCSV(f, report)
}
