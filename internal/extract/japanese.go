package extract

import (
	"context"
	"fmt"
	"strings"

	"github.com/ikawaha/kagome-dict/ipa"
	"github.com/ikawaha/kagome/v2/tokenizer"
)

// IPA feature positions.
const (
	featurePOS      = 0
	featureSubPOS   = 1
	featureBaseForm = 6
)

// contentPOS lists the IPA parts of speech worth studying, with the
// sub-categories that are grammatical rather than lexical.
var contentPOS = map[string]map[string]bool{
	"名詞":  {"数": true, "代名詞": true, "非自立": true, "接尾": true, "特殊": true},
	"動詞":  {"非自立": true, "接尾": true},
	"形容詞": {"非自立": true, "接尾": true},
	"副詞":  {},
}

// JapaneseExtractor lists the dictionary forms of the content words in
// Japanese text.
type JapaneseExtractor struct {
	t *tokenizer.Tokenizer
}

// NewJapaneseExtractor loads the IPA dictionary.
func NewJapaneseExtractor() (*JapaneseExtractor, error) {
	t, err := tokenizer.New(ipa.Dict(), tokenizer.OmitBosEos())
	if err != nil {
		return nil, fmt.Errorf("creating kagome tokenizer: %w", err)
	}
	return &JapaneseExtractor{t: t}, nil
}

// Extract implements task.Extractor. language is ignored.
func (e *JapaneseExtractor) Extract(ctx context.Context, text, _ string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	seen := map[string]bool{}
	var lemmas []string
	for _, token := range e.t.Tokenize(text) {
		if token.Class == tokenizer.DUMMY || strings.TrimSpace(token.Surface) == "" {
			continue
		}
		features := token.Features()
		if !isContentWord(features) {
			continue
		}

		base := token.Surface
		if len(features) > featureBaseForm && features[featureBaseForm] != "*" {
			base = features[featureBaseForm]
		}
		if seen[base] {
			continue
		}
		seen[base] = true
		lemmas = append(lemmas, base)
	}
	return lemmas, nil
}

func isContentWord(features []string) bool {
	if len(features) <= featureSubPOS {
		return false
	}
	excluded, ok := contentPOS[features[featurePOS]]
	if !ok {
		return false
	}
	return !excluded[features[featureSubPOS]]
}
