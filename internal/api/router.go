package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	apiMiddleware "github.com/phrazzld/lingo-api/internal/api/middleware"
)

// RouterConfig carries the handlers and middleware the router mounts.
type RouterConfig struct {
	Units          *UnitHandler
	Translations   *TranslationHandler
	Phrases        *PhraseHandler
	Tasks          *TaskHandler
	Health         *HealthHandler
	Auth           *apiMiddleware.AuthMiddleware
	Logger         *slog.Logger
	RequestTimeout time.Duration
}

// NewRouter builds the HTTP handler. Everything under /api requires a
// bearer token; /health is public.
func NewRouter(cfg RouterConfig) http.Handler {
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 30 * time.Second
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(apiMiddleware.NewTraceMiddleware(cfg.Logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(cfg.RequestTimeout))

	r.Route("/api", func(r chi.Router) {
		r.Use(cfg.Auth.Authenticate)

		r.Route("/units", func(r chi.Router) {
			r.Post("/", cfg.Units.CreateUnit)
			r.Get("/", cfg.Units.ListUnits)
			r.Post("/resolve", cfg.Units.ResolveLemma)
			r.Get("/{id}", cfg.Units.GetUnit)
			r.Put("/{id}", cfg.Units.UpdateUnit)
			r.Delete("/{id}", cfg.Units.DeleteUnit)
			r.Get("/{id}/translations", cfg.Units.ListUnitTranslations)
			r.Post("/{id}/enrich-details", cfg.Units.EnrichDetails)
			r.Post("/{id}/translate", cfg.Units.Translate)
			r.Post("/{id}/generate-phrases", cfg.Units.GeneratePhrases)
			r.Post("/{id}/validate", cfg.Units.ValidateUnit)
		})

		r.Route("/translations", func(r chi.Router) {
			r.Post("/", cfg.Translations.CreateTranslation)
			r.Post("/bulk", cfg.Translations.BulkCreate)
			r.Get("/{id}", cfg.Translations.GetTranslation)
			r.Post("/{id}/verify", cfg.Translations.VerifyTranslation)
		})
		r.Post("/import", cfg.Translations.Import)

		r.Route("/phrases", func(r chi.Router) {
			r.Post("/", cfg.Phrases.CreatePhrase)
			r.Get("/{id}", cfg.Phrases.GetPhrase)
			r.Post("/{id}/enrich", cfg.Phrases.EnrichPhrase)
		})
		r.Post("/phrase-translations", cfg.Phrases.CreatePhraseTranslation)

		r.Post("/analyze-text", cfg.Tasks.AnalyzeText)
		r.Get("/tasks/{id}", cfg.Tasks.GetTask)
	})

	r.Get("/health", cfg.Health.Health)

	return r
}
