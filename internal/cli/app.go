package cli

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/alexanderramin/taxis/internal/config"
	"github.com/alexanderramin/taxis/internal/db"
	"github.com/alexanderramin/taxis/internal/errreport"
	"github.com/alexanderramin/taxis/internal/langid"
	"github.com/alexanderramin/taxis/internal/llm"
	"github.com/alexanderramin/taxis/internal/logging"
	"github.com/alexanderramin/taxis/internal/metrics"
	"github.com/alexanderramin/taxis/internal/repository"
	"github.com/alexanderramin/taxis/internal/service"
	"github.com/alexanderramin/taxis/internal/taxonomy"
)

// Version is stamped at build time.
var Version = "dev"

// App holds the collaborators CLI commands use. The function fields are
// seams that tests replace.
type App struct {
	LoadConfig     func(path string) (*config.Config, error)
	OpenDB         func(path string) (*sql.DB, error)
	NewLLMClient   func(ctx context.Context, cfg llm.LLMConfig, observer llm.Observer) (llm.Client, error)
	NewIdentifier  func(allow ...string) langid.Identifier
	IsInteractive  func() bool
	PickCategories func(tax *taxonomy.Taxonomy) (*taxonomy.Selection, error)
	Confirm        func(title string) (bool, error)
	Now            func() time.Time

	Taxonomy *taxonomy.Taxonomy

	// Populated by Bootstrap.
	Config   *config.Config
	Logger   *slog.Logger
	Metrics  *metrics.Metrics
	Reporter *errreport.Reporter

	database *sql.DB
	runs     service.RunService
}

// NewApp returns an App wired to the real terminal, store and providers.
func NewApp() *App {
	return &App{
		LoadConfig:     config.Load,
		OpenDB:         db.OpenDB,
		NewLLMClient:   llm.NewClient,
		NewIdentifier:  func(allow ...string) langid.Identifier { return langid.NewWhatlangIdentifier(allow...) },
		IsInteractive:  stdinIsTerminal,
		PickCategories: runCategoryPicker,
		Confirm:        confirm,
		Now:            time.Now,
		Taxonomy:       taxonomy.Default(),
	}
}

func stdinIsTerminal() bool {
	return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
}

// Bootstrap loads configuration and builds the logger, metrics and error
// reporter. logLevel overrides the configured level when non-empty.
func (a *App) Bootstrap(configPath, logLevel string, stderr io.Writer) error {
	cfg, err := a.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	a.Config = cfg
	a.Logger = logging.New(stderr, logging.ParseLevel(cfg.LogLevel))
	a.Metrics = metrics.New(prometheus.NewRegistry())

	enabled, err := errreport.Init(errreport.Config{
		DSN:         cfg.SentryDSN,
		Environment: cfg.Environment,
		Release:     "taxis@" + Version,
	})
	if err != nil {
		a.Logger.Warn("error reporting disabled", "error", err)
	}
	if enabled {
		a.Reporter = errreport.NewReporter(nil)
	}
	if cfg.Source != "" {
		a.Logger.Debug("config loaded", "file", cfg.Source)
	}
	return nil
}

// Runs returns the run store, opening the database on first use.
func (a *App) Runs() (service.RunService, error) {
	if a.runs != nil {
		return a.runs, nil
	}
	conn, err := a.OpenDB(a.Config.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening run store: %w", err)
	}
	a.database = conn
	a.runs = service.NewRunService(
		repository.NewSQLiteRunRepo(conn),
		repository.NewSQLiteResultRepo(conn),
		db.NewSQLiteUnitOfWork(conn),
	)
	return a.runs, nil
}

// observers returns the use-case observers active for this process.
func (a *App) observers() service.MultiUseCaseObserver {
	obs := service.MultiUseCaseObserver{
		service.NewLogUseCaseObserver(a.Logger),
		a.Metrics,
	}
	if a.Reporter != nil {
		obs = append(obs, a.Reporter)
	}
	return obs
}

// llmObserver returns the observer handed to completion clients.
func (a *App) llmObserver() llm.Observer {
	obs := llm.MultiObserver{a.Metrics}
	if a.Config.LLM.LogCalls {
		obs = append(obs, llm.NewLogObserver(a.Logger))
	}
	return obs
}

// Close writes the metrics snapshot, flushes error reports and closes the
// run store. It is safe to call before Bootstrap.
func (a *App) Close() error {
	var firstErr error
	if a.Metrics != nil && a.Config != nil && a.Config.MetricsFile != "" {
		if err := a.Metrics.WriteTextfile(a.Config.MetricsFile); err != nil {
			firstErr = fmt.Errorf("writing metrics: %w", err)
		}
	}
	if a.Reporter != nil {
		errreport.Flush(2 * time.Second)
	}
	if a.database != nil {
		if err := a.database.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		a.database = nil
		a.runs = nil
	}
	return firstErr
}
