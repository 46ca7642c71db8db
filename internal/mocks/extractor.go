package mocks

import "context"

// MockExtractor implements task.Extractor for testing
type MockExtractor struct {
	ExtractFn func(ctx context.Context, text, language string) ([]string, error)

	Lemmas []string
	Err    error
}

// Extract implements task.Extractor
func (m *MockExtractor) Extract(ctx context.Context, text, language string) ([]string, error) {
	if m.ExtractFn != nil {
		return m.ExtractFn(ctx, text, language)
	}
	return m.Lemmas, m.Err
}
