// Package config assembles runtime settings from defaults, an optional YAML
// file, a .env file and TAXIS_* environment variables, in that order of
// precedence (environment wins).
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/alexanderramin/taxis/internal/ingest"
	"github.com/alexanderramin/taxis/internal/llm"
)

// DefaultFile is read from the working directory when no file is named.
const DefaultFile = "taxis.yaml"

// Config holds every setting the CLI needs.
type Config struct {
	DBPath      string
	LogLevel    string
	MetricsFile string
	SentryDSN   string
	Environment string

	Input    InputConfig
	Classify ClassifyConfig
	LLM      llm.LLMConfig

	// Source is the YAML file that was applied, empty when none was.
	Source string
}

// InputConfig controls how input files are read.
type InputConfig struct {
	Delimiter  rune
	Encoding   string
	TextColumn string
	Keep       ingest.Keep
}

// ClassifyConfig controls the classification run.
type ClassifyConfig struct {
	StrictCodes    bool
	Concurrency    int
	Categories     string
	DetectLanguage bool
	Sample         int
	OutDir         string
}

// fileConfig mirrors the YAML layout. Pointers distinguish unset keys from
// zero values.
type fileConfig struct {
	DBPath      *string `yaml:"db_path"`
	LogLevel    *string `yaml:"log_level"`
	MetricsFile *string `yaml:"metrics_file"`
	SentryDSN   *string `yaml:"sentry_dsn"`
	Environment *string `yaml:"environment"`

	Input struct {
		Delimiter  *string `yaml:"delimiter"`
		Encoding   *string `yaml:"encoding"`
		TextColumn *string `yaml:"text_column"`
		Keep       *string `yaml:"keep"`
	} `yaml:"input"`

	Classify struct {
		StrictCodes    *bool   `yaml:"strict_codes"`
		Concurrency    *int    `yaml:"concurrency"`
		Categories     *string `yaml:"categories"`
		DetectLanguage *bool   `yaml:"detect_language"`
		Sample         *int    `yaml:"sample"`
		OutDir         *string `yaml:"out_dir"`
	} `yaml:"classify"`

	LLM struct {
		Provider   *string `yaml:"provider"`
		Endpoint   *string `yaml:"endpoint"`
		Model      *string `yaml:"model"`
		TimeoutMs  *int    `yaml:"timeout_ms"`
		MaxRetries *int    `yaml:"max_retries"`
		LogCalls   *bool   `yaml:"log_calls"`
	} `yaml:"llm"`
}

// Default returns the built-in settings.
func Default() *Config {
	dbPath := "taxis.db"
	if home, err := os.UserHomeDir(); err == nil {
		dbPath = filepath.Join(home, ".taxis", "taxis.db")
	}
	return &Config{
		DBPath:      dbPath,
		LogLevel:    "info",
		Environment: "development",
		Input: InputConfig{
			Delimiter:  ';',
			Encoding:   ingest.EncodingUTF8,
			TextColumn: "Prompt",
			Keep:       ingest.KeepFirst,
		},
		Classify: ClassifyConfig{
			Concurrency: 1,
			OutDir:      "out",
		},
		LLM: llm.DefaultConfig(),
	}
}

// Load reads .env from the working directory into the process environment,
// then builds the configuration from path (or TAXIS_CONFIG, or DefaultFile
// when present) and the environment.
func Load(path string) (*Config, error) {
	// A missing .env is normal.
	_ = godotenv.Load()
	return LoadWith(path, os.Getenv)
}

// LoadWith is Load without touching the process environment.
func LoadWith(path string, getenv func(string) string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if path == "" {
		path = getenv("TAXIS_CONFIG")
		explicit = path != ""
	}
	if path == "" {
		path = DefaultFile
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := cfg.applyYAML(data); err != nil {
			return nil, fmt.Errorf("config %s: %w", path, err)
		}
		cfg.Source = path
	case errors.Is(err, fs.ErrNotExist) && !explicit:
	default:
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := cfg.applyEnv(getenv); err != nil {
		return nil, err
	}
	return cfg, cfg.Validate()
}

func (c *Config) applyYAML(data []byte) error {
	var fc fileConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&fc); err != nil && !errors.Is(err, io.EOF) {
		return err
	}

	setString(&c.DBPath, fc.DBPath)
	setString(&c.LogLevel, fc.LogLevel)
	setString(&c.MetricsFile, fc.MetricsFile)
	setString(&c.SentryDSN, fc.SentryDSN)
	setString(&c.Environment, fc.Environment)

	if fc.Input.Delimiter != nil {
		d, err := ingest.ParseDelimiter(*fc.Input.Delimiter)
		if err != nil {
			return fmt.Errorf("input.delimiter: %w", err)
		}
		c.Input.Delimiter = d
	}
	setString(&c.Input.Encoding, fc.Input.Encoding)
	setString(&c.Input.TextColumn, fc.Input.TextColumn)
	if fc.Input.Keep != nil {
		c.Input.Keep = ingest.ParseKeep(*fc.Input.Keep)
	}

	setBool(&c.Classify.StrictCodes, fc.Classify.StrictCodes)
	setInt(&c.Classify.Concurrency, fc.Classify.Concurrency)
	setString(&c.Classify.Categories, fc.Classify.Categories)
	setBool(&c.Classify.DetectLanguage, fc.Classify.DetectLanguage)
	setInt(&c.Classify.Sample, fc.Classify.Sample)
	setString(&c.Classify.OutDir, fc.Classify.OutDir)

	if fc.LLM.Provider != nil {
		c.LLM.Provider = llm.ParseProvider(*fc.LLM.Provider)
	}
	setString(&c.LLM.Endpoint, fc.LLM.Endpoint)
	setString(&c.LLM.Model, fc.LLM.Model)
	setInt(&c.LLM.TimeoutMs, fc.LLM.TimeoutMs)
	setInt(&c.LLM.MaxRetries, fc.LLM.MaxRetries)
	setBool(&c.LLM.LogCalls, fc.LLM.LogCalls)
	return nil
}

func (c *Config) applyEnv(getenv func(string) string) error {
	envString(&c.DBPath, getenv("TAXIS_DB"))
	envString(&c.LogLevel, getenv("TAXIS_LOG_LEVEL"))
	envString(&c.MetricsFile, getenv("TAXIS_METRICS_FILE"))
	envString(&c.SentryDSN, getenv("TAXIS_SENTRY_DSN"))
	envString(&c.Environment, getenv("TAXIS_ENV"))

	if v := getenv("TAXIS_DELIMITER"); v != "" {
		d, err := ingest.ParseDelimiter(v)
		if err != nil {
			return fmt.Errorf("TAXIS_DELIMITER: %w", err)
		}
		c.Input.Delimiter = d
	}
	envString(&c.Input.Encoding, getenv("TAXIS_ENCODING"))
	envString(&c.Input.TextColumn, getenv("TAXIS_TEXT_COLUMN"))
	if v := getenv("TAXIS_KEEP"); v != "" {
		c.Input.Keep = ingest.ParseKeep(v)
	}

	if v := getenv("TAXIS_STRICT_CODES"); v != "" {
		c.Classify.StrictCodes = isTruthy(v)
	}
	if v := getenv("TAXIS_DETECT_LANGUAGE"); v != "" {
		c.Classify.DetectLanguage = isTruthy(v)
	}
	if err := envInt(&c.Classify.Concurrency, "TAXIS_CONCURRENCY", getenv); err != nil {
		return err
	}
	if err := envInt(&c.Classify.Sample, "TAXIS_SAMPLE", getenv); err != nil {
		return err
	}
	envString(&c.Classify.Categories, getenv("TAXIS_CATEGORIES"))
	envString(&c.Classify.OutDir, getenv("TAXIS_OUT_DIR"))

	llm.ApplyEnv(&c.LLM, getenv)
	return nil
}

// Validate rejects settings no command can run with.
func (c *Config) Validate() error {
	var errs []error
	if c.Input.TextColumn == "" {
		errs = append(errs, errors.New("input.text_column must not be empty"))
	}
	if c.Classify.Concurrency < 1 {
		errs = append(errs, fmt.Errorf("classify.concurrency must be at least 1, got %d", c.Classify.Concurrency))
	}
	if c.Classify.Sample < 0 {
		errs = append(errs, fmt.Errorf("classify.sample must not be negative, got %d", c.Classify.Sample))
	}
	if c.LLM.TimeoutMs <= 0 {
		errs = append(errs, fmt.Errorf("llm.timeout_ms must be positive, got %d", c.LLM.TimeoutMs))
	}
	if c.LLM.MaxRetries < 0 {
		errs = append(errs, fmt.Errorf("llm.max_retries must not be negative, got %d", c.LLM.MaxRetries))
	}
	switch c.LLM.Provider {
	case llm.ProviderOllama, llm.ProviderOpenAI, llm.ProviderGemini:
	default:
		errs = append(errs, fmt.Errorf("%w: %q", llm.ErrUnknownProvider, c.LLM.Provider))
	}
	return errors.Join(errs...)
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func setInt(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}

func setBool(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}

func envString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func envInt(dst *int, name string, getenv func(string) string) error {
	v := getenv(name)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	*dst = n
	return nil
}

func isTruthy(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}
