package task

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/phrazzld/lingo-api/internal/domain"
	"github.com/phrazzld/lingo-api/internal/generation"
	"github.com/phrazzld/lingo-api/internal/platform/logger"
	"github.com/phrazzld/lingo-api/internal/store"
)

// DefaultRetryDelay is the fixed wait between attempts of a retried task.
const DefaultRetryDelay = 60 * time.Second

// Linguist is the set of LLM operations the enrichment tasks call.
// *generation.Linguist satisfies it.
type Linguist interface {
	LemmaDetails(ctx context.Context, lemma, language string) ([]generation.LemmaDetail, error)
	Translate(
		ctx context.Context,
		source *domain.LexicalUnit,
		targetLanguage string,
	) (*generation.TranslationResponse, error)
	VerifyTranslation(ctx context.Context, source, target *domain.LexicalUnit) (*generation.VerificationResponse, error)
	AnalyzePhrase(ctx context.Context, phrase *domain.Phrase) (*generation.PhraseAnalysisResponse, error)
	GeneratePhrases(ctx context.Context, req generation.PhraseRequest) ([]generation.GeneratedPhrase, error)
}

// Extractor finds candidate lemmas in a block of text. language may be
// empty when the caller does not know it.
type Extractor interface {
	Extract(ctx context.Context, text, language string) ([]string, error)
}

// Dependencies are the collaborators of the built-in task handlers.
type Dependencies struct {
	// Repos are non-transactional stores used for reads and narrow updates.
	Repos store.Repositories

	// UnitOfWork groups multi-row writes into one transaction.
	UnitOfWork store.UnitOfWork

	Linguist  Linguist
	Extractor Extractor

	// Scheduler queues follow-up work such as verifying a new edge.
	Scheduler Scheduler

	Logger *slog.Logger
}

func (d Dependencies) validate() error {
	switch {
	case d.Repos.Units == nil || d.Repos.Translations == nil || d.Repos.Phrases == nil || d.Repos.Users == nil:
		return errors.New("task dependencies: all repositories are required")
	case d.UnitOfWork == nil:
		return errors.New("task dependencies: unit of work is required")
	case d.Linguist == nil:
		return errors.New("task dependencies: linguist is required")
	case d.Extractor == nil:
		return errors.New("task dependencies: extractor is required")
	case d.Scheduler == nil:
		return errors.New("task dependencies: scheduler is required")
	}
	return nil
}

// handlers implements every built-in task type on top of Dependencies.
type handlers struct {
	Dependencies
	logger *slog.Logger
}

// RegisterAll registers the built-in task types with their retry policies.
// retryDelay is the fixed wait between attempts; zero means
// DefaultRetryDelay.
func RegisterAll(reg *Registry, deps Dependencies, retryDelay time.Duration) error {
	if err := deps.validate(); err != nil {
		return err
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if retryDelay <= 0 {
		retryDelay = DefaultRetryDelay
	}

	h := &handlers{
		Dependencies: deps,
		logger:       deps.Logger.With(slog.String("component", "task_handlers")),
	}
	retries := func(n uint) RetryPolicy {
		return RetryPolicy{MaxRetries: n, Delay: retryDelay}
	}

	table := []struct {
		taskType string
		policy   RetryPolicy
		handler  HandlerFunc
	}{
		{TypeResolveLemma, NoRetry(), h.resolveLemma},
		{TypeEnrichDetails, retries(3), h.enrichDetails},
		{TypeTranslateUnit, retries(3), h.translateUnit},
		{TypeValidateUnit, retries(2), h.validateUnit},
		{TypeVerifyTranslation, NoRetry(), h.verifyTranslation},
		{TypeEnrichPhrase, retries(3), h.enrichPhrase},
		{TypeAnalyzeText, retries(3), h.analyzeText},
		{TypeGeneratePhrases, retries(3), h.generatePhrases},
	}
	for _, entry := range table {
		if err := reg.Register(entry.taskType, entry.policy, entry.handler); err != nil {
			return err
		}
	}
	return nil
}

// schedule queues follow-up work. A failure is logged and never fails the
// task that produced the entity.
func (h *handlers) schedule(ctx context.Context, taskType string, payload any) {
	if _, err := h.Scheduler.Schedule(ctx, taskType, payload); err != nil {
		logger.FromContextOrDefault(ctx, h.logger).Error("failed to schedule follow-up task",
			"follow_up_type", taskType,
			"error", err)
	}
}

// variantCheck is the comparison of a stored unit against the readings the
// LLM returned for its lemma.
type variantCheck struct {
	variants []generation.LemmaDetail
	match    *generation.LemmaDetail
}

// checkVariants drops readings with an unrecognized part of speech and
// finds the one matching pos.
func checkVariants(log *slog.Logger, details []generation.LemmaDetail, pos domain.PartOfSpeech) variantCheck {
	var check variantCheck
	for _, d := range details {
		if !d.PartOfSpeech.IsValid() {
			log.Warn("skipping variant with unrecognized part of speech",
				"part_of_speech", string(d.PartOfSpeech))
			continue
		}
		check.variants = append(check.variants, d)
	}
	for i := range check.variants {
		if check.variants[i].PartOfSpeech == pos {
			check.match = &check.variants[i]
			break
		}
	}
	return check
}

// suggested formats the parts of speech the LLM proposed, e.g. "[noun, verb]".
func (c variantCheck) suggested() string {
	parts := make([]string, 0, len(c.variants))
	for _, v := range c.variants {
		parts = append(parts, string(v.PartOfSpeech))
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func mismatchNote(unit *domain.LexicalUnit, check variantCheck) string {
	return fmt.Sprintf("Part of speech '%s' not confirmed for '%s'; suggested: %s",
		unit.PartOfSpeech, unit.Lemma, check.suggested())
}

const noVariantsNote = "LLM did not return any valid variants"
