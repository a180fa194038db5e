package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veilproj/veil/internal/redactor"
)

func newTestHandler(t *testing.T, opts ...Option) http.Handler {
	t.Helper()
	return NewServer(redactor.MustNew(), opts...).Routes()
}

func TestHealth(t *testing.T) {
	h := newTestHandler(t)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp["status"])
	assert.NotContains(t, resp, "capabilities")
}

func TestHealthDetail(t *testing.T) {
	h := newTestHandler(t)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health?detail=true", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Capabilities map[string]string `json:"capabilities"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Capabilities["patterns"])
	assert.Equal(t, "disabled", resp.Capabilities["ner"])
	assert.Equal(t, "disabled", resp.Capabilities["synthetic"])
}

func TestRedactEndpoint(t *testing.T) {
	h := newTestHandler(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/redact",
		strings.NewReader("Contact alice@example.com or password=hunter2"))
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var res redactor.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, "Contact [REDACTED_EMAIL] or password=[REDACTED_SECRET]", res.RedactedText)
	assert.Equal(t, 1, res.Counts.Emails)
	assert.Equal(t, 1, res.Counts.Secrets)
	assert.Greater(t, res.PIIScore, 0.0)
	assert.False(t, res.NERAvailable)
	assert.False(t, res.SyntheticAvailable)
}

func TestRedactStreamEndpoint(t *testing.T) {
	h := newTestHandler(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/redact/stream",
		strings.NewReader("alice@example.com\n10.0.0.1\nclean line\n"))
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/plain")
	assert.Equal(t, "[REDACTED_EMAIL]\n[REDACTED_IP]\nclean line\n", rec.Body.String())
	assert.True(t, rec.Flushed, "stream responses must flush through to the client")
}

func TestScanEndpoint(t *testing.T) {
	h := newTestHandler(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/scan",
		strings.NewReader("alice@example.com"))
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var res redactor.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Empty(t, res.RedactedText, "scan must not return rewritten text")
	assert.Equal(t, 1, res.Counts.Emails)
}

func TestPatternsEndpoint(t *testing.T) {
	h := newTestHandler(t)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/patterns", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Patterns []struct {
			Name     string `json:"name"`
			Category string `json:"category"`
			Regex    string `json:"regex"`
		} `json:"patterns"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Patterns, 7)
	assert.Equal(t, "EMAIL", resp.Patterns[0].Category)
	assert.Equal(t, "SECRET", resp.Patterns[6].Category)
}

func TestAuthRequired(t *testing.T) {
	h := newTestHandler(t, WithAPIKeys(map[string]string{"sekret": "svc-a"}))

	tests := []struct {
		name   string
		header func(*http.Request)
		want   int
	}{
		{"missing key", func(*http.Request) {}, http.StatusUnauthorized},
		{"wrong key", func(r *http.Request) { r.Header.Set("X-Veil-Key", "nope") }, http.StatusUnauthorized},
		{"header key", func(r *http.Request) { r.Header.Set("X-Veil-Key", "sekret") }, http.StatusOK},
		{"bearer key", func(r *http.Request) { r.Header.Set("Authorization", "Bearer sekret") }, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/v1/redact", strings.NewReader("x"))
			tt.header(req)
			h.ServeHTTP(rec, req)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestHealthBypassesAuth(t *testing.T) {
	h := newTestHandler(t, WithAPIKeys(map[string]string{"sekret": "svc-a"}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRateLimitExceeded(t *testing.T) {
	h := newTestHandler(t, WithRateLimiter(NewRateLimiter(1, 1)))

	first := httptest.NewRecorder()
	h.ServeHTTP(first, httptest.NewRequest(http.MethodPost, "/v1/scan", strings.NewReader("x")))
	require.Equal(t, http.StatusOK, first.Code)

	second := httptest.NewRecorder()
	h.ServeHTTP(second, httptest.NewRequest(http.MethodPost, "/v1/scan", strings.NewReader("x")))
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.Equal(t, "1", second.Header().Get("Retry-After"))
}

func TestBodyTooLarge(t *testing.T) {
	h := newTestHandler(t, WithMaxBodyBytes(8))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/redact",
		strings.NewReader("this body is well over eight bytes"))
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestDashboard(t *testing.T) {
	t.Run("disabled", func(t *testing.T) {
		h := newTestHandler(t)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/dashboard", nil))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("enabled", func(t *testing.T) {
		h := newTestHandler(t, WithDashboard("<html>veil</html>"))
		for _, path := range []string{"/", "/dashboard"} {
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
			assert.Equal(t, "<html>veil</html>", rec.Body.String())
		}
	})
}

func TestCORSPreflight(t *testing.T) {
	h := newTestHandler(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodOptions, "/v1/redact", nil)
	req.Header.Set("Origin", "https://app.example.com")
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Headers"), "X-Veil-Key")
}

func TestCORSRestrictedOrigins(t *testing.T) {
	h := newTestHandler(t, WithCORSOrigins([]string{"https://ok.example.com"}))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	h.ServeHTTP(rec, req)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "https://ok.example.com")
	h.ServeHTTP(rec, req)
	assert.Equal(t, "https://ok.example.com", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRateLimiterPerCaller(t *testing.T) {
	rl := NewRateLimiter(100, 1)

	assert.True(t, rl.Allow("a"))
	assert.False(t, rl.Allow("a"), "caller burst exhausted")
	assert.True(t, rl.Allow("b"), "callers have independent buckets")
}
