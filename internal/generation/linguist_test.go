package generation_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/phrazzld/lingo-api/internal/domain"
	"github.com/phrazzld/lingo-api/internal/generation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLinguist(t *testing.T, reply string) (*generation.Linguist, *fakeTransport) {
	t.Helper()
	transport := &fakeTransport{reply: reply}
	l, err := generation.NewLinguist(newGateway(t, transport), "extraction-model")
	require.NoError(t, err)
	return l, transport
}

func mustUnit(t *testing.T, lemma, language string, pos domain.PartOfSpeech) *domain.LexicalUnit {
	t.Helper()
	u, err := domain.NewLexicalUnit(domain.UnitKey{
		UserID:       uuid.New(),
		Lemma:        lemma,
		Language:     language,
		PartOfSpeech: pos,
	}, "")
	require.NoError(t, err)
	return u
}

func TestLinguist_LemmaDetails(t *testing.T) {
	t.Parallel()

	l, transport := newLinguist(t, `{"lemma_details": [
		{"part_of_speech": "noun", "pronunciation": "/ˈrɛkərd/"},
		{"part_of_speech": "verb", "pronunciation": null}
	]}`)

	details, err := l.LemmaDetails(context.Background(), "  Record ", "en")
	require.NoError(t, err)
	require.Len(t, details, 2)
	assert.Equal(t, domain.POSNoun, details[0].PartOfSpeech)
	assert.Equal(t, "/ˈrɛkərd/", details[0].IPA())
	assert.Equal(t, "", details[1].IPA())

	req := transport.last()
	require.NotNil(t, req.Temperature)
	assert.Zero(t, *req.Temperature)
	assert.NotNil(t, req.Schema)
	assert.Equal(t, "default-model", req.Model)
	assert.Contains(t, req.Messages[0].Content, `"record"`)
	assert.Contains(t, req.Messages[0].Content, "noun, verb, adj")
}

func TestLinguist_LemmaDetailsEmpty(t *testing.T) {
	t.Parallel()

	l, _ := newLinguist(t, `{"lemma_details": []}`)
	details, err := l.LemmaDetails(context.Background(), "xqzt", "en")
	require.NoError(t, err)
	assert.Empty(t, details)
}

func TestLinguist_Translate(t *testing.T) {
	t.Parallel()

	l, transport := newLinguist(t, `{"translated_lemma": " gato ", "translation_details": [
		{"part_of_speech": "noun", "pronunciation": "/ˈɡato/"}
	]}`)

	resp, err := l.Translate(context.Background(), mustUnit(t, "cat", "en", domain.POSNoun), "es")
	require.NoError(t, err)
	assert.Equal(t, "gato", resp.TranslatedLemma)
	require.Len(t, resp.TranslationDetails, 1)

	req := transport.last()
	assert.InDelta(t, 0.2, *req.Temperature, 1e-6)
	assert.Contains(t, req.Messages[1].Content, "Translate 'cat' (noun) from en to es.")
}

func TestLinguist_TranslateStubRejected(t *testing.T) {
	t.Parallel()

	l, transport := newLinguist(t, `{}`)
	_, err := l.Translate(context.Background(), mustUnit(t, "cat", "en", domain.POSUnspecified), "es")
	assert.ErrorIs(t, err, generation.ErrMissingParameter)
	assert.Zero(t, transport.calls())
}

func TestLinguist_VerifyTranslation(t *testing.T) {
	t.Parallel()

	l, transport := newLinguist(t, `{"quality_score": 5, "justification": "exact"}`)
	source := mustUnit(t, "cat", "en", domain.POSNoun)
	target := mustUnit(t, "gato", "es", domain.POSNoun)

	resp, err := l.VerifyTranslation(context.Background(), source, target)
	require.NoError(t, err)
	assert.Equal(t, 5, resp.QualityScore)
	assert.Contains(t, transport.last().Messages[1].Content, "'cat' (noun)")
	assert.Contains(t, transport.last().Messages[1].Content, "'gato'")
}

func TestLinguist_AnalyzePhrase(t *testing.T) {
	t.Parallel()

	l, transport := newLinguist(t, `{"is_valid": false, "justification": "Unnatural phrasing",
		"language_code": "en-GB", "cefr_level": "B2", "category": "IDIOM"}`)
	phrase, err := domain.NewPhrase("It's raining cats and dogs", "en", nil, nil)
	require.NoError(t, err)

	resp, err := l.AnalyzePhrase(context.Background(), phrase)
	require.NoError(t, err)
	assert.False(t, *resp.IsValid)
	assert.Equal(t, "Unnatural phrasing", *resp.Justification)
	assert.Equal(t, domain.CEFRB2, resp.CEFRLevel)
	assert.Equal(t, domain.PhraseIdiom, resp.Category)
	assert.Contains(t, transport.last().Messages[0].Content, "A1, A2, B1, B2, C1, C2")
	assert.Contains(t, transport.last().Messages[0].Content, "GENERAL, IDIOM, PROVERB, QUOTE")
}

func TestLinguist_ExtractLemmasUsesExtractionModel(t *testing.T) {
	t.Parallel()

	l, transport := newLinguist(t, `{"lemmas": ["run", "fast"]}`)
	lemmas, err := l.ExtractLemmas(context.Background(), "She runs fast")
	require.NoError(t, err)
	assert.Equal(t, []string{"run", "fast"}, lemmas)
	assert.Equal(t, "extraction-model", transport.last().Model)
}

func TestLinguist_GeneratePhrasesDefaults(t *testing.T) {
	t.Parallel()

	l, transport := newLinguist(t, `{"phrases": [
		{"original_phrase": "I record music.", "translated_phrase": "Grabo música.", "cefr": "A2"}
	]}`)

	phrases, err := l.GeneratePhrases(context.Background(), generation.PhraseRequest{
		Lemma:          "record",
		PartOfSpeech:   domain.POSVerb,
		SourceLanguage: "en",
		TargetLanguage: "es",
	})
	require.NoError(t, err)
	require.Len(t, phrases, 1)
	assert.Equal(t, domain.CEFRA2, phrases[0].CEFR)

	req := transport.last()
	assert.InDelta(t, 0.7, *req.Temperature, 1e-6)
	assert.Contains(t, req.Messages[0].Content, "Generate 5 sentences in English")
	assert.Contains(t, req.Messages[0].Content, "into Spanish")
}

func TestLinguist_GeneratePhrasesRejectsBadLevel(t *testing.T) {
	t.Parallel()

	l, _ := newLinguist(t, `{"phrases": [
		{"original_phrase": "x", "translated_phrase": "y", "cefr": "D1"}
	]}`)
	_, err := l.GeneratePhrases(context.Background(), generation.PhraseRequest{
		Lemma: "x", SourceLanguage: "en", TargetLanguage: "es", Count: 1,
	})
	assert.ErrorIs(t, err, generation.ErrInvalidResponse)
}
