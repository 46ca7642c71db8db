package main

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/phrazzld/lingo-api/internal/api"
	apiMiddleware "github.com/phrazzld/lingo-api/internal/api/middleware"
	"github.com/phrazzld/lingo-api/internal/auth"
	"github.com/phrazzld/lingo-api/internal/config"
	"github.com/phrazzld/lingo-api/internal/events"
	"github.com/phrazzld/lingo-api/internal/extract"
	"github.com/phrazzld/lingo-api/internal/generation"
	"github.com/phrazzld/lingo-api/internal/platform/gemini"
	"github.com/phrazzld/lingo-api/internal/platform/openai"
	"github.com/phrazzld/lingo-api/internal/platform/postgres"
	"github.com/phrazzld/lingo-api/internal/service"
	"github.com/phrazzld/lingo-api/internal/store"
	"github.com/phrazzld/lingo-api/internal/task"
)

// linguist is everything the application asks of the language model.
type linguist interface {
	task.Linguist
	extract.LemmaExtractor
}

// components are the storage and model collaborators an application is
// assembled from. Production wiring uses Postgres and a real transport;
// tests substitute in-memory versions.
type components struct {
	repos     store.Repositories
	uow       store.UnitOfWork
	taskStore task.TaskStore
	linguist  linguist
	// japanese is the local Japanese lemma extractor; nil routes every
	// language to the model.
	japanese extract.Extractor
	// pinger backs the health endpoint; nil reports the database as
	// unconfigured.
	pinger api.Pinger
}

// application holds the wired dependencies of a running server.
type application struct {
	config *config.Config
	logger *slog.Logger

	db        *sql.DB
	transport io.Closer

	jwtService auth.JWTService
	emitter    *events.InMemoryEventEmitter
	scheduler  *events.Scheduler
	taskRunner *task.Runner

	userService service.UserService
	router      http.Handler
}

// newApplication connects to the database and the configured LLM provider
// and assembles the application on top of them.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*application, error) {
	db, err := postgres.Open(ctx, cfg.Database.URL, cfg.Database.MaxOpenConns)
	if err != nil {
		return nil, err
	}
	logger.Info("database connection established")

	transport, err := newTransport(ctx, cfg.LLM, logger)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create LLM transport: %w", err)
	}

	ling, err := newLinguist(transport, cfg.LLM, logger)
	if err != nil {
		closeQuietly(transport)
		_ = db.Close()
		return nil, err
	}

	japanese, err := extract.NewJapaneseExtractor()
	if err != nil {
		logger.Warn("japanese tokenizer unavailable; using the model for all extraction", "error", err)
	}

	comps := components{
		repos:     postgres.NewRepositories(db, logger),
		uow:       postgres.NewUnitOfWork(db, logger),
		taskStore: postgres.NewPostgresTaskStore(db, logger),
		linguist:  ling,
		pinger:    db,
	}
	if japanese != nil {
		comps.japanese = japanese
	}

	app, err := assemble(cfg, logger, comps)
	if err != nil {
		closeQuietly(transport)
		_ = db.Close()
		return nil, err
	}
	app.db = db
	if c, ok := transport.(io.Closer); ok {
		app.transport = c
	}
	return app, nil
}

// newTransport builds the provider transport named by cfg.Provider.
func newTransport(ctx context.Context, cfg config.LLMConfig, logger *slog.Logger) (generation.Transport, error) {
	switch cfg.Provider {
	case "openai":
		return openai.NewClient(openai.Config{
			BaseURL: cfg.BaseURL,
			APIKey:  cfg.APIKey,
			Timeout: cfg.Timeout(),
		}, logger)
	case "gemini":
		return gemini.NewTransport(ctx, logger, cfg)
	default:
		return nil, fmt.Errorf("%w: unknown provider %q", generation.ErrInvalidConfig, cfg.Provider)
	}
}

// newLinguist stacks the response cache and the gateway on transport.
func newLinguist(transport generation.Transport, cfg config.LLMConfig, logger *slog.Logger) (*generation.Linguist, error) {
	if cfg.CacheSize > 0 {
		cached, err := generation.NewCachedTransport(transport, cfg.CacheSize, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create LLM cache: %w", err)
		}
		transport = cached
	}

	gateway, err := generation.NewGateway(transport, cfg.DefaultModel, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM gateway: %w", err)
	}

	ling, err := generation.NewLinguist(gateway, cfg.ExtractionModel)
	if err != nil {
		return nil, fmt.Errorf("failed to create linguist: %w", err)
	}
	return ling, nil
}

// assemble wires the task pipeline, services and HTTP router onto comps.
// The task runner is created but not started.
func assemble(cfg *config.Config, logger *slog.Logger, comps components) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
	}

	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to create JWT service: %w", err)
	}

	app.emitter = events.NewInMemoryEventEmitter(logger)
	app.scheduler = events.NewScheduler(app.emitter, logger)

	extractor := extract.NewRouter(comps.japanese, extract.NewLLMExtractor(comps.linguist), logger)

	registry := task.NewRegistry()
	err = task.RegisterAll(registry, task.Dependencies{
		Repos:      comps.repos,
		UnitOfWork: comps.uow,
		Linguist:   comps.linguist,
		Extractor:  extractor,
		Scheduler:  app.scheduler,
		Logger:     logger,
	}, time.Duration(cfg.Task.RetryDelaySeconds)*time.Second)
	if err != nil {
		return nil, fmt.Errorf("failed to register task handlers: %w", err)
	}

	app.taskRunner = task.NewRunner(comps.taskStore, registry, task.RunnerConfig{
		QueueSize:    cfg.Task.QueueSize,
		WorkerCount:  cfg.Task.WorkerCount,
		StuckTaskAge: time.Duration(cfg.Task.StuckTaskAgeMinutes) * time.Minute,
	}, logger)
	app.emitter.RegisterHandler(task.NewEventHandler(registry, app.taskRunner, logger))

	units, err := service.NewLexicalUnitService(comps.repos.Units, app.scheduler, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create lexical unit service: %w", err)
	}
	translations, err := service.NewTranslationService(comps.repos, comps.uow, app.scheduler, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create translation service: %w", err)
	}
	phrases, err := service.NewPhraseService(comps.repos, comps.uow, app.scheduler, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create phrase service: %w", err)
	}
	triggers, err := service.NewTaskService(comps.repos, app.scheduler, comps.taskStore, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create task service: %w", err)
	}
	app.userService = service.NewUserService(comps.repos.Users, logger)

	app.router = api.NewRouter(api.RouterConfig{
		Units:        api.NewUnitHandler(units, translations, triggers, logger),
		Translations: api.NewTranslationHandler(translations, triggers, logger),
		Phrases:      api.NewPhraseHandler(phrases, triggers, logger),
		Tasks:        api.NewTaskHandler(triggers, logger),
		Health:       api.NewHealthHandler(comps.pinger, logger),
		Auth:         apiMiddleware.NewAuthMiddleware(app.jwtService),
		Logger:       logger,
	})

	logger.Info("application initialized")
	return app, nil
}

// Run starts the task runner and serves HTTP until ctx is cancelled or the
// process is signalled.
func (app *application) Run(ctx context.Context) error {
	if err := app.taskRunner.Start(ctx); err != nil {
		app.cleanup()
		return fmt.Errorf("failed to start task runner: %w", err)
	}

	if err := app.startHTTPServer(ctx, app.router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.taskRunner != nil {
		app.taskRunner.Stop()
	}

	if app.transport != nil {
		if err := app.transport.Close(); err != nil {
			app.logger.Error("error closing LLM transport", "error", err)
		}
	}

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("error closing database connection", "error", err)
		}
	}

	app.logger.Info("application shutdown completed")
}

func closeQuietly(v any) {
	if c, ok := v.(io.Closer); ok {
		_ = c.Close()
	}
}
