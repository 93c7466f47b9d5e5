package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/fatih/color"
	"github.com/go-pkgz/lgr"
	"github.com/jessevdk/go-flags"
	"github.com/joho/godotenv"

	"github.com/Dev-123-win/my-shayari-content/pkg/config"
	"github.com/Dev-123-win/my-shayari-content/pkg/llm"
	"github.com/Dev-123-win/my-shayari-content/pkg/repository"
	"github.com/Dev-123-win/my-shayari-content/pkg/store"
	"github.com/Dev-123-win/my-shayari-content/pkg/updater"
	"github.com/Dev-123-win/my-shayari-content/server"
)

// Opts with all CLI options
type Opts struct {
	Keys   []string `short:"k" long:"key" env:"GEMINI_API_KEYS" env-delim:"," description:"api key, repeat or comma-separate for rotation"`
	Model  string   `short:"m" long:"model" env:"GEMINI_MODEL" description:"model name"`
	Prompt string   `short:"p" long:"prompt" env:"PROMPT_FILE" description:"prompt file"`
	Output string   `short:"o" long:"output" env:"OUTPUT_FILE" description:"collection file to update"`
	Config string   `short:"c" long:"config" env:"CONFIG" description:"yaml config file"`

	Serve  bool   `long:"serve" description:"serve the collection over http instead of updating it"`
	Listen string `short:"l" long:"listen" env:"LISTEN" description:"listen address for --serve"`

	// Common options
	Debug   bool `long:"dbg" env:"DEBUG" description:"debug mode"`
	Version bool `short:"V" long:"version" description:"show version info"`
	NoColor bool `long:"no-color" env:"NO_COLOR" description:"disable color output"`
}

// exit codes
const (
	exitOK        = 0
	exitFailure   = 1
	exitExhausted = 2
)

var revision = "unknown"

func main() {
	loadDotEnv()

	var opts Opts
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			os.Exit(exitOK)
		}
		os.Exit(exitFailure)
	}

	if opts.Version {
		fmt.Printf("Version: %s\nGolang: %s\n", revision, runtime.Version())
		os.Exit(exitOK)
	}

	setupLog(opts.Debug, opts.NoColor, config.CleanKeys(opts.Keys...)...)

	cfg, err := loadConfig(opts)
	if err != nil {
		log.Printf("[ERROR] %v", err)
		os.Exit(exitFailure)
	}
	// keys from the config file have to be masked too
	setupLog(opts.Debug, opts.NoColor, cfg.LLM.APIKeys...)

	log.Printf("[DEBUG] shayari version %s", revision)

	ctx, cancel := context.WithCancel(context.Background())

	// handle termination signals
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		<-sigChan
		log.Print("[INFO] termination signal received")
		cancel()
	}()

	err = run(ctx, cfg, opts)
	cancel()
	if err != nil {
		log.Printf("[ERROR] %v", err)
	}
	os.Exit(exitCode(err))
}

// loadDotEnv loads .env files into the environment, values already set win.
// A missing file is fine, anything else is reported.
func loadDotEnv(files ...string) {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Printf("[WARN] failed to load .env: %v", err)
	}
}

// exitCode maps run result to the process exit code
func exitCode(err error) int {
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, updater.ErrNoCredentials):
		return exitFailure
	case errors.Is(err, updater.ErrExhausted):
		return exitExhausted
	default:
		return exitFailure
	}
}

// loadConfig reads the config file if set, otherwise uses defaults, and applies cli overrides
func loadConfig(opts Opts) (*config.Config, error) {
	cfg := config.Default()
	if opts.Config != "" {
		var err error
		if cfg, err = config.Load(opts.Config); err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}

	if keys := config.CleanKeys(opts.Keys...); len(keys) > 0 {
		cfg.LLM.APIKeys = keys
	}
	cfg.LLM.APIKeys = config.CleanKeys(cfg.LLM.APIKeys...)
	if opts.Model != "" {
		cfg.LLM.Model = opts.Model
	}
	if opts.Prompt != "" {
		cfg.Files.Prompt = opts.Prompt
	}
	if opts.Output != "" {
		cfg.Files.Output = opts.Output
	}
	if opts.Listen != "" {
		cfg.Server.Listen = opts.Listen
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// run performs a single collection update, or serves the collection in --serve mode
func run(ctx context.Context, cfg *config.Config, opts Opts) error {
	var repos *repository.Repositories
	if cfg.History.DSN != "" {
		var err error
		if repos, err = repository.NewRepositories(ctx, repository.Config{DSN: cfg.History.DSN, MaxOpenConns: 1}); err != nil {
			return fmt.Errorf("failed to open run history: %w", err)
		}
		defer func() {
			if err := repos.Close(); err != nil {
				log.Printf("[WARN] failed to close run history: %v", err)
			}
		}()
	}

	fileStore := store.NewFileStore(cfg.Files.Output)

	if opts.Serve {
		var runs server.RunLister
		if repos != nil {
			runs = repos.Run
		}
		return server.New(cfg, fileStore, runs, revision, opts.Debug).Run(ctx)
	}

	return update(ctx, cfg, fileStore, repos)
}

// update runs the updater once, credentials are checked before anything is read
func update(ctx context.Context, cfg *config.Config, fileStore *store.FileStore, repos *repository.Repositories) error {
	keys := config.CleanKeys(cfg.LLM.APIKeys...)
	if len(keys) == 0 {
		return fmt.Errorf("set GEMINI_API_KEYS: %w", updater.ErrNoCredentials)
	}

	prompt, err := os.ReadFile(cfg.Files.Prompt)
	if err != nil {
		return fmt.Errorf("failed to read prompt: %w", err)
	}

	gen, err := llm.New(cfg.LLM)
	if err != nil {
		return fmt.Errorf("failed to create generator: %w", err)
	}

	var recorder updater.Recorder
	if repos != nil {
		recorder = repos.Run
	}

	u := updater.New(updater.Config{
		Keys:           keys,
		Prompt:         string(prompt),
		MaxPerCategory: cfg.Collection.MaxPerCategory,
		RetryDelay:     cfg.LLM.RetryDelay,
		Provider:       cfg.LLM.Provider,
		Model:          cfg.LLM.Model,
	}, gen, fileStore, recorder)

	res, err := u.Run(ctx)
	if err != nil {
		return err
	}
	log.Printf("[INFO] %s updated with %d new entries (key %d of %d)", fileStore.Path(), res.TotalAdded(), res.KeyIndex, len(keys))
	return nil
}

func setupLog(dbg, noColor bool, secs ...string) {
	logOpts := []lgr.Option{lgr.Msec, lgr.LevelBraces}
	if dbg {
		logOpts = []lgr.Option{lgr.Debug, lgr.Msec, lgr.LevelBraces, lgr.StackTraceOnError, lgr.CallerFile, lgr.CallerFunc}
	}

	if !noColor {
		colorizer := lgr.Mapper{
			ErrorFunc:  func(s string) string { return color.New(color.FgHiRed).Sprint(s) },
			WarnFunc:   func(s string) string { return color.New(color.FgRed).Sprint(s) },
			InfoFunc:   func(s string) string { return color.New(color.FgYellow).Sprint(s) },
			DebugFunc:  func(s string) string { return color.New(color.FgWhite).Sprint(s) },
			CallerFunc: func(s string) string { return color.New(color.FgBlue).Sprint(s) },
			TimeFunc:   func(s string) string { return color.New(color.FgCyan).Sprint(s) },
		}
		logOpts = append(logOpts, lgr.Map(colorizer))
	}
	if secs = config.CleanKeys(secs...); len(secs) > 0 {
		logOpts = append(logOpts, lgr.Secret(secs...))
	}
	lgr.SetupStdLogger(logOpts...)
	lgr.Setup(logOpts...)
}
