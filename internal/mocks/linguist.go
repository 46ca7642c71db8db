package mocks

import (
	"context"
	"sync"

	"github.com/phrazzld/lingo-api/internal/domain"
	"github.com/phrazzld/lingo-api/internal/generation"
)

// MockLinguist implements the LLM operations of generation.Linguist for
// testing. Unset functions return empty responses.
type MockLinguist struct {
	LemmaDetailsFn func(ctx context.Context, lemma, language string) ([]generation.LemmaDetail, error)
	TranslateFn    func(
		ctx context.Context,
		source *domain.LexicalUnit,
		targetLanguage string,
	) (*generation.TranslationResponse, error)
	VerifyTranslationFn func(
		ctx context.Context,
		source, target *domain.LexicalUnit,
	) (*generation.VerificationResponse, error)
	AnalyzePhraseFn   func(ctx context.Context, phrase *domain.Phrase) (*generation.PhraseAnalysisResponse, error)
	GeneratePhrasesFn func(ctx context.Context, req generation.PhraseRequest) ([]generation.GeneratedPhrase, error)
	ExtractLemmasFn   func(ctx context.Context, text string) ([]string, error)

	mu    sync.Mutex
	calls map[string]int
}

func (m *MockLinguist) record(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.calls == nil {
		m.calls = map[string]int{}
	}
	m.calls[name]++
}

// Calls reports how many times the named method was called.
func (m *MockLinguist) Calls(name string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[name]
}

// LemmaDetails implements generation.Linguist.LemmaDetails
func (m *MockLinguist) LemmaDetails(ctx context.Context, lemma, language string) ([]generation.LemmaDetail, error) {
	m.record("LemmaDetails")
	if m.LemmaDetailsFn != nil {
		return m.LemmaDetailsFn(ctx, lemma, language)
	}
	return nil, nil
}

// Translate implements generation.Linguist.Translate
func (m *MockLinguist) Translate(
	ctx context.Context,
	source *domain.LexicalUnit,
	targetLanguage string,
) (*generation.TranslationResponse, error) {
	m.record("Translate")
	if m.TranslateFn != nil {
		return m.TranslateFn(ctx, source, targetLanguage)
	}
	return &generation.TranslationResponse{}, nil
}

// VerifyTranslation implements generation.Linguist.VerifyTranslation
func (m *MockLinguist) VerifyTranslation(
	ctx context.Context,
	source, target *domain.LexicalUnit,
) (*generation.VerificationResponse, error) {
	m.record("VerifyTranslation")
	if m.VerifyTranslationFn != nil {
		return m.VerifyTranslationFn(ctx, source, target)
	}
	return nil, generation.ErrEmptyResponse
}

// AnalyzePhrase implements generation.Linguist.AnalyzePhrase
func (m *MockLinguist) AnalyzePhrase(
	ctx context.Context,
	phrase *domain.Phrase,
) (*generation.PhraseAnalysisResponse, error) {
	m.record("AnalyzePhrase")
	if m.AnalyzePhraseFn != nil {
		return m.AnalyzePhraseFn(ctx, phrase)
	}
	return nil, generation.ErrEmptyResponse
}

// GeneratePhrases implements generation.Linguist.GeneratePhrases
func (m *MockLinguist) GeneratePhrases(
	ctx context.Context,
	req generation.PhraseRequest,
) ([]generation.GeneratedPhrase, error) {
	m.record("GeneratePhrases")
	if m.GeneratePhrasesFn != nil {
		return m.GeneratePhrasesFn(ctx, req)
	}
	return nil, nil
}

// ExtractLemmas implements generation.Linguist.ExtractLemmas
func (m *MockLinguist) ExtractLemmas(ctx context.Context, text string) ([]string, error) {
	m.record("ExtractLemmas")
	if m.ExtractLemmasFn != nil {
		return m.ExtractLemmasFn(ctx, text)
	}
	return nil, nil
}
