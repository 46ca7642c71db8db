package shared

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/phrazzld/lingo-api/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRequest(traceID string) (*http.Request, *logger.CaptureBuffer) {
	log, buf := logger.NewCaptureLogger()
	ctx := logger.WithLogger(context.Background(), log)
	if traceID != "" {
		ctx = context.WithValue(ctx, TraceIDKey, traceID)
	}
	return httptest.NewRequest(http.MethodGet, "/units", nil).WithContext(ctx), buf
}

func TestRespondWithJSON(t *testing.T) {
	t.Parallel()

	req, _ := newRequest("")
	w := httptest.NewRecorder()

	RespondWithJSON(w, req, http.StatusCreated, map[string]any{"lemma": "run", "count": 2})

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"lemma":"run","count":2}`, w.Body.String())
}

func TestRespondWithJSON_EncodingError(t *testing.T) {
	t.Parallel()

	req, logs := newRequest("")
	w := httptest.NewRecorder()

	RespondWithJSON(w, req, http.StatusOK, map[string]any{"fn": func() {}})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, logs.String(), "failed to encode JSON response")
}

func TestRespondWithError(t *testing.T) {
	t.Parallel()

	t.Run("with trace id", func(t *testing.T) {
		t.Parallel()
		req, _ := newRequest("trace-1")
		w := httptest.NewRecorder()

		RespondWithError(w, req, http.StatusBadRequest, "Invalid request")

		assert.Equal(t, http.StatusBadRequest, w.Code)
		var body ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "Invalid request", body.Error)
		assert.Equal(t, "trace-1", body.TraceID)
	})

	t.Run("without trace id", func(t *testing.T) {
		t.Parallel()
		req, _ := newRequest("")
		w := httptest.NewRecorder()

		RespondWithError(w, req, http.StatusUnauthorized, "Unauthorized")

		assert.JSONEq(t, `{"error":"Unauthorized"}`, w.Body.String())
	})
}

func TestRespondWithErrorAndLog(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		status    int
		err       error
		elevate   bool
		wantLevel string
	}{
		{"server error", http.StatusInternalServerError, errors.New("pool exhausted"), false, "ERROR"},
		{"client error", http.StatusBadRequest, errors.New("bad lemma"), false, "DEBUG"},
		{"elevated client error", http.StatusForbidden, errors.New("not owner"), true, "WARN"},
		{"rate limited", http.StatusTooManyRequests, errors.New("slow down"), false, "WARN"},
		{"nil error", http.StatusNotFound, nil, false, "DEBUG"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			req, logs := newRequest("trace-2")
			w := httptest.NewRecorder()
			var opts []ResponseOption
			if tc.elevate {
				opts = append(opts, WithElevatedLogLevel())
			}

			RespondWithErrorAndLog(w, req, tc.status, "Something failed", tc.err, opts...)

			assert.Equal(t, tc.status, w.Code)
			var body ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, "Something failed", body.Error)
			assert.Equal(t, "trace-2", body.TraceID)

			entries, err := logs.Entries()
			require.NoError(t, err)
			require.Len(t, entries, 1)
			assert.Equal(t, tc.wantLevel, entries[0]["level"])
			assert.Equal(t, "trace-2", entries[0]["trace_id"])
			if tc.err != nil {
				assert.Contains(t, entries[0], "error_type")
			} else {
				assert.NotContains(t, entries[0], "error")
			}
		})
	}
}

func TestRespondWithErrorAndLog_RedactsSecrets(t *testing.T) {
	t.Parallel()

	req, logs := newRequest("")
	w := httptest.NewRecorder()

	RespondWithErrorAndLog(w, req, http.StatusBadGateway, "Upstream failure",
		errors.New("openai: bad key sk-proj-0123456789abcdefghij"))

	assert.NotContains(t, logs.String(), "sk-proj-0123456789abcdefghij")
	assert.NotContains(t, w.Body.String(), "openai")
}
