package generation

import (
	"context"
	"fmt"
	"strings"

	"github.com/phrazzld/lingo-api/internal/domain"
)

// Sampling temperatures per call.
const (
	lemmaDetailsTemperature    = 0.0
	translateTemperature       = 0.2
	verifyTemperature          = 0.0
	phraseAnalysisTemperature  = 0.1
	extractTemperature         = 0.0
	generatePhrasesTemperature = 0.7
)

// DefaultPhraseCount is how many example phrases GeneratePhrases asks for
// when the request does not say.
const DefaultPhraseCount = 5

// Linguist exposes one typed method per LLM question the application asks.
// Each method renders its embedded prompt, constrains the output with the
// matching schema and returns the validated response.
type Linguist struct {
	gateway         *Gateway
	extractionModel string
	prompts         map[string]Prompt
}

// NewLinguist creates a Linguist. extractionModel, when non-empty, is used
// for lemma extraction instead of the gateway's default model.
func NewLinguist(gateway *Gateway, extractionModel string) (*Linguist, error) {
	if gateway == nil {
		return nil, fmt.Errorf("%w: gateway cannot be nil", ErrInvalidConfig)
	}
	names := []string{
		PromptLemmaDetails, PromptTranslate, PromptVerifyTranslation,
		PromptPhraseAnalysis, PromptExtractLemmas, PromptGeneratePhrases,
	}
	prompts := make(map[string]Prompt, len(names))
	for _, name := range names {
		p, err := LoadPrompt(name)
		if err != nil {
			return nil, err
		}
		prompts[name] = p
	}
	return &Linguist{gateway: gateway, extractionModel: extractionModel, prompts: prompts}, nil
}

func (l *Linguist) call(name string, params map[string]any, schema *Schema, temperature float32) Call {
	p := l.prompts[name]
	return Call{
		Name:         name,
		SystemPrompt: p.System,
		UserPrompt:   p.User,
		Params:       params,
		Schema:       schema,
		Temperature:  Temperature(temperature),
	}
}

// LemmaDetails returns every part-of-speech reading of lemma in language.
// An empty result means the model does not recognise the lemma.
func (l *Linguist) LemmaDetails(ctx context.Context, lemma, language string) ([]LemmaDetail, error) {
	params := map[string]any{
		"lemma":                domain.Canonicalize(lemma),
		"language":             language,
		"pos_enum_values_list": joinValues(domain.PartsOfSpeech()),
	}
	var resp LemmaDetailsResponse
	call := l.call(PromptLemmaDetails, params, LemmaDetailsSchema(), lemmaDetailsTemperature)
	if err := l.gateway.Decode(ctx, call, &resp); err != nil {
		return nil, err
	}
	return resp.LemmaDetails, nil
}

// Translate translates source into targetLanguage. The source must have a
// part of speech.
func (l *Linguist) Translate(
	ctx context.Context,
	source *domain.LexicalUnit,
	targetLanguage string,
) (*TranslationResponse, error) {
	if source.IsStub() {
		return nil, fmt.Errorf("%w: source_pos", ErrMissingParameter)
	}
	params := map[string]any{
		"source_lemma":         source.Lemma,
		"source_pos":           string(source.PartOfSpeech),
		"source_language_code": source.Language,
		"target_language_code": targetLanguage,
		"pos_enum_values_list": joinValues(domain.PartsOfSpeech()),
	}
	var resp TranslationResponse
	call := l.call(PromptTranslate, params, TranslationSchema(), translateTemperature)
	if err := l.gateway.Decode(ctx, call, &resp); err != nil {
		return nil, err
	}
	resp.TranslatedLemma = strings.TrimSpace(resp.TranslatedLemma)
	return &resp, nil
}

// VerifyTranslation scores how well target translates source.
func (l *Linguist) VerifyTranslation(
	ctx context.Context,
	source, target *domain.LexicalUnit,
) (*VerificationResponse, error) {
	pos := string(source.PartOfSpeech)
	if pos == "" {
		pos = "unspecified part of speech"
	}
	params := map[string]any{
		"source_language": domain.DisplayLanguage(source.Language),
		"source_lemma":    source.Lemma,
		"source_pos":      pos,
		"target_language": domain.DisplayLanguage(target.Language),
		"target_lemma":    target.Lemma,
	}
	var resp VerificationResponse
	call := l.call(PromptVerifyTranslation, params, VerificationSchema(), verifyTemperature)
	if err := l.gateway.Decode(ctx, call, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// AnalyzePhrase judges a phrase's naturalness and estimates its language,
// CEFR level and category.
func (l *Linguist) AnalyzePhrase(ctx context.Context, phrase *domain.Phrase) (*PhraseAnalysisResponse, error) {
	params := map[string]any{
		"text":          phrase.Text,
		"language":      phrase.Language,
		"cefr_list":     joinValues(domain.CEFRLevels()),
		"category_list": joinValues(domain.PhraseCategories()),
	}
	var resp PhraseAnalysisResponse
	call := l.call(PromptPhraseAnalysis, params, PhraseAnalysisSchema(), phraseAnalysisTemperature)
	if err := l.gateway.Decode(ctx, call, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ExtractLemmas lists the content-word lemmas of text.
func (l *Linguist) ExtractLemmas(ctx context.Context, text string) ([]string, error) {
	var resp ExtractionResponse
	call := l.call(PromptExtractLemmas, map[string]any{"text": text}, ExtractionSchema(), extractTemperature)
	call.Model = l.extractionModel
	if err := l.gateway.Decode(ctx, call, &resp); err != nil {
		return nil, err
	}
	return resp.Lemmas, nil
}

// PhraseRequest asks for example phrases using one lexical unit.
type PhraseRequest struct {
	Lemma          string
	PartOfSpeech   domain.PartOfSpeech
	SourceLanguage string
	TargetLanguage string
	CEFR           domain.CEFRLevel
	Count          int
}

// GeneratePhrases returns example phrases for the request's lemma together
// with their translations.
func (l *Linguist) GeneratePhrases(ctx context.Context, req PhraseRequest) ([]GeneratedPhrase, error) {
	if req.Count <= 0 {
		req.Count = DefaultPhraseCount
	}
	if req.CEFR == "" {
		req.CEFR = domain.CEFRB1
	}
	pos := string(req.PartOfSpeech)
	if pos == "" {
		pos = "word"
	}
	params := map[string]any{
		"lemma":           req.Lemma,
		"part_of_speech":  pos,
		"n":               req.Count,
		"cefr":            string(req.CEFR),
		"cefr_list":       joinValues(domain.CEFRLevels()),
		"source_language": domain.DisplayLanguage(req.SourceLanguage),
		"target_language": domain.DisplayLanguage(req.TargetLanguage),
	}
	var resp GeneratedPhrasesResponse
	call := l.call(PromptGeneratePhrases, params, GeneratedPhrasesSchema(), generatePhrasesTemperature)
	if err := l.gateway.Decode(ctx, call, &resp); err != nil {
		return nil, err
	}
	return resp.Phrases, nil
}

func joinValues[T ~string](values []T) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = string(v)
	}
	return strings.Join(parts, ", ")
}
