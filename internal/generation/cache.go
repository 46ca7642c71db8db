package generation

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/phrazzld/lingo-api/internal/platform/logger"
)

// CachedTransport memoizes deterministic completions. Only requests with an
// explicit temperature of zero are cached; everything else passes through.
// Callers that reject a completion must Forget it, or retries replay it.
type CachedTransport struct {
	next   Transport
	cache  *lru.Cache[string, string]
	logger *slog.Logger
}

var (
	_ Transport = (*CachedTransport)(nil)
	_ Forgetter = (*CachedTransport)(nil)
)

// NewCachedTransport wraps next with an LRU cache holding up to size
// completions.
func NewCachedTransport(next Transport, size int, logger *slog.Logger) (*CachedTransport, error) {
	if next == nil {
		return nil, fmt.Errorf("%w: transport cannot be nil", ErrInvalidConfig)
	}
	cache, err := lru.New[string, string](size)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &CachedTransport{
		next:   next,
		cache:  cache,
		logger: logger.With(slog.String("component", "llm_cache")),
	}, nil
}

// ChatCompletion implements Transport.
func (c *CachedTransport) ChatCompletion(ctx context.Context, req CompletionRequest) (string, error) {
	if req.Temperature == nil || *req.Temperature != 0 {
		return c.next.ChatCompletion(ctx, req)
	}

	key, err := cacheKey(req)
	if err != nil {
		return c.next.ChatCompletion(ctx, req)
	}
	if text, ok := c.cache.Get(key); ok {
		logger.FromContextOrDefault(ctx, c.logger).Debug("llm cache hit", slog.String("model", req.Model))
		return text, nil
	}

	text, err := c.next.ChatCompletion(ctx, req)
	if err != nil {
		return "", err
	}
	c.cache.Add(key, text)
	return text, nil
}

// Forget implements Forgetter.
func (c *CachedTransport) Forget(req CompletionRequest) {
	key, err := cacheKey(req)
	if err != nil {
		return
	}
	c.cache.Remove(key)
}

// Len reports the number of cached completions.
func (c *CachedTransport) Len() int {
	return c.cache.Len()
}

func cacheKey(req CompletionRequest) (string, error) {
	data, err := json.Marshal(struct {
		Model     string    `json:"model"`
		Messages  []Message `json:"messages"`
		MaxTokens int       `json:"max_tokens"`
		Schema    *Schema   `json:"schema,omitempty"`
	}{req.Model, req.Messages, req.MaxTokens, req.Schema})
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}
