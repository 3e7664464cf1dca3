package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/taxis/internal/classify"
	"github.com/alexanderramin/taxis/internal/cli/formatter"
	"github.com/alexanderramin/taxis/internal/langid"
	"github.com/alexanderramin/taxis/internal/logging"
	"github.com/alexanderramin/taxis/internal/service"
	"github.com/alexanderramin/taxis/internal/taxonomy"
)

func newClassifyCmd(app *App) *cobra.Command {
	var input inputFlags
	var categories, outDir string
	var sample, concurrency int
	var strict, detectLang, noStore bool

	cmd := &cobra.Command{
		Use:   "classify FILE...",
		Short: "Classify every query of one or more files",
		Long: `Loads each file, removes duplicate queries, asks the configured model for
one category per query and writes <name>_classified.csv and
<name>_summary.csv to the output directory.

The category selection is resolved once for all files: --categories wins,
otherwise an interactive picker is shown on a terminal, otherwise every
category is used.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := app.Config
			fs := cmd.Flags()

			in, err := input.resolve(fs, cfg.Input)
			if err != nil {
				return err
			}
			cc := cfg.Classify
			if flagChanged(fs, "categories") {
				cc.Categories = categories
			}
			if flagChanged(fs, "out") {
				cc.OutDir = outDir
			}
			if flagChanged(fs, "sample") {
				cc.Sample = sample
			}
			if flagChanged(fs, "concurrency") {
				cc.Concurrency = concurrency
			}
			if flagChanged(fs, "strict") {
				cc.StrictCodes = strict
			}
			if flagChanged(fs, "lang") {
				cc.DetectLanguage = detectLang
			}

			sel, err := resolveSelection(app, cc.Categories, flagChanged(fs, "categories"))
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, formatter.FormatSelection(sel))

			client, err := app.NewLLMClient(ctx, cfg.LLM, app.llmObserver())
			if err != nil {
				return err
			}

			recorders := classify.MultiRecorder{app.Metrics}
			if app.Reporter != nil {
				recorders = append(recorders, app.Reporter)
			}
			classifier := classify.New(client, sel, classify.Options{
				Strict:      cc.StrictCodes,
				Concurrency: cc.Concurrency,
				Logger:      app.Logger,
				Recorder:    recorders,
			})

			var runs service.RunService
			if !noStore {
				if runs, err = app.Runs(); err != nil {
					return err
				}
			}
			var identifier langid.Identifier
			if cc.DetectLanguage {
				identifier = app.NewIdentifier()
			}

			svc := service.NewClassifyService(classifier, identifier, runs, service.ClassifyServiceOptions{
				Provider: string(cfg.LLM.Provider),
				Model:    cfg.LLM.Model,
				Logger:   app.Logger,
			}, app.observers())

			interactive := logging.IsTerminal(cmd.ErrOrStderr())
			failed := 0
			for _, path := range args {
				var spin *formatter.Spinner
				if interactive {
					spin = formatter.NewSpinner(cmd.ErrOrStderr(), "Classifying "+filepath.Base(path)+"...")
					spin.Start()
				}
				res, err := svc.ClassifyFile(ctx, service.ClassifyFileRequest{
					Path:           path,
					Delimiter:      in.Delimiter,
					Encoding:       in.Encoding,
					TextColumn:     in.TextColumn,
					Keep:           in.Keep,
					Sample:         cc.Sample,
					DetectLanguage: cc.DetectLanguage,
					OutDir:         cc.OutDir,
				})
				if spin != nil {
					spin.Stop()
				}
				if err != nil {
					failed++
					app.Logger.Error("file skipped", "file", path, "error", err)
					fmt.Fprintln(cmd.ErrOrStderr(), formatter.Error(err))
					continue
				}
				fmt.Fprint(out, formatter.FormatLoadReport(res.Analysis.Load))
				fmt.Fprintln(out, formatter.FormatClassifyResult(path, res, app.Taxonomy))
			}

			if failed > 0 {
				return fmt.Errorf("%d of %d files failed", failed, len(args))
			}
			return nil
		},
	}

	fs := cmd.Flags()
	input.register(fs)
	fs.StringVarP(&categories, "categories", "c", "", `Categories by number or code, e.g. "1 3" or "S.S,E.RF"; "all" for every category`)
	fs.StringVarP(&outDir, "out", "o", "", "Output directory for result files")
	fs.IntVar(&sample, "sample", 0, "Classify at most N rows per file after de-duplication (0 = all)")
	fs.IntVar(&concurrency, "concurrency", 1, "Parallel model requests")
	fs.BoolVar(&strict, "strict", false, "Map answers outside the selection to OTHER")
	fs.BoolVar(&detectLang, "lang", false, "Add a detected language column")
	fs.BoolVar(&noStore, "no-store", false, "Do not record the run in the local store")

	return cmd
}

// resolveSelection picks the active categories: an explicit value wins,
// then the interactive picker on a terminal, then every category.
func resolveSelection(app *App, configured string, explicit bool) (*taxonomy.Selection, error) {
	if explicit || configured != "" {
		return taxonomy.ParseSelection(app.Taxonomy, configured), nil
	}
	if app.IsInteractive != nil && app.IsInteractive() && app.PickCategories != nil {
		return app.PickCategories(app.Taxonomy)
	}
	return taxonomy.All(app.Taxonomy), nil
}
