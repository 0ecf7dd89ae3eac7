package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/bkyoung/prompt-eval/internal/adapter/cli"
	"github.com/bkyoung/prompt-eval/internal/adapter/observability"
	"github.com/bkyoung/prompt-eval/internal/adapter/output/json"
	"github.com/bkyoung/prompt-eval/internal/adapter/output/markdown"
	"github.com/bkyoung/prompt-eval/internal/adapter/repository"
	storeAdapter "github.com/bkyoung/prompt-eval/internal/adapter/store"
	"github.com/bkyoung/prompt-eval/internal/adapter/store/sqlite"
	"github.com/bkyoung/prompt-eval/internal/config"
	"github.com/bkyoung/prompt-eval/internal/redaction"
	"github.com/bkyoung/prompt-eval/internal/usecase/rubric"
	"github.com/bkyoung/prompt-eval/internal/version"
)

func main() {
	if err := run(); err != nil {
		log.Println(err)
		os.Exit(1)
	}
}

func run() error {
	// Create cancellable context with signal handling for graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load(config.LoaderOptions{
		ConfigPaths: defaultConfigPaths(),
		FileName:    "pe",
		EnvPrefix:   "PE",
	})
	if err != nil {
		return fmt.Errorf("config load failed: %w", err)
	}

	suitesDir := cfg.Suites.Directory
	if suitesDir == "" {
		suitesDir = "."
	}
	repo := repository.NewLocalRepository(suitesDir)

	// Timestamp function for deterministic output file naming
	nowFunc := func() string {
		return time.Now().UTC().Format("20060102T150405Z")
	}

	markdownWriter := markdown.NewWriter(nowFunc)
	jsonWriter := json.NewWriter(nowFunc)

	var logger rubric.Logger
	if cfg.Observability.Logging.Enabled {
		logger = observability.NewLogger(
			os.Stderr,
			observability.ParseLevel(cfg.Observability.Logging.Level),
			observability.ParseFormat(cfg.Observability.Logging.Format),
		)
	}

	// Instantiate redaction engine if enabled
	var redactor rubric.Redactor
	if cfg.Redaction.Enabled {
		engine, err := redaction.NewEngineWithPatterns(cfg.Redaction.Patterns)
		if err != nil {
			return fmt.Errorf("redaction config: %w", err)
		}
		redactor = engine
	}

	// Initialize store if enabled
	var runStore rubric.Store
	if cfg.Store.Enabled {
		storeDir := filepath.Dir(cfg.Store.Path)
		if err := os.MkdirAll(storeDir, 0755); err != nil {
			log.Printf("warning: failed to create store directory: %v", err)
		} else {
			sqliteStore, err := sqlite.NewStore(cfg.Store.Path)
			if err != nil {
				log.Printf("warning: failed to initialize store: %v", err)
			} else {
				runStore = storeAdapter.NewBridge(sqliteStore)
				defer runStore.Close()
			}
		}
	}

	orchestrator := rubric.NewOrchestrator(rubric.OrchestratorDeps{
		Loader:   repo,
		Markdown: markdownWriter,
		JSON:     jsonWriter,
		Store:    runStore,
		Logger:   logger,
		Redactor: redactor,
	})

	root := cli.NewRootCommand(cli.Dependencies{
		SuiteRunner:       orchestrator,
		Loader:            repo,
		ProbeMarkdown:     markdownWriter,
		ProbeJSON:         jsonWriter,
		DefaultOutput:     cfg.Output.Directory,
		DefaultStrategies: cfg.Defense.StrategiesPath,
		DefaultCatalog:    cfg.Defense.CatalogPath,
		DefaultSampleSize: cfg.Defense.SampleSize,
		Version:           version.Value(),
	})

	if err := root.ExecuteContext(ctx); err != nil {
		if errors.Is(err, cli.ErrVersionRequested) {
			return nil
		}
		return fmt.Errorf("command failed: %w", err)
	}
	return nil
}

func defaultConfigPaths() []string {
	paths := []string{"."}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "pe"))
	}
	return paths
}
