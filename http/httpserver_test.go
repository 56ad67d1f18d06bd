package http

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/ritlepage/backend/conf"
	"github.com/ritlepage/backend/faculty"
	"github.com/ritlepage/backend/submission"
	"github.com/ritlepage/backend/titlepage"
	"github.com/ritlepage/backend/wordml/wordmltest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, apiKey string, directory *faculty.Directory) http.Handler {
	t.Helper()
	templatePath := filepath.Join(t.TempDir(), "template.docx")
	require.NoError(t, os.WriteFile(templatePath, wordmltest.Docx(t, wordmltest.Para("submitter1")), 0o644))

	srvc, err := titlepage.NewService(titlepage.ServiceOpts{
		TemplatePath: templatePath,
		OutputDir:    t.TempDir(),
		Limits:       submission.DefaultLimits(),
	})
	require.NoError(t, err)

	cfg := &conf.Config{
		APIKey:        apiKey,
		AllowedOrigin: "https://ritlepage.pages.dev",
		LogLevel:      slog.LevelError,
	}
	return NewHttpServer(cfg, srvc, directory).Handler()
}

func TestHealthzSkipsApiKey(t *testing.T) {
	h := newTestServer(t, "s3cret", nil)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"success","data":{"status":"ok"}}`, w.Body.String())
}

func TestGenerateRequiresApiKey(t *testing.T) {
	h := newTestServer(t, "s3cret", nil)

	req := httptest.NewRequest(http.MethodPost, "/v2/generate", strings.NewReader(`{}`))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req = httptest.NewRequest(http.MethodPost, "/v2/generate", strings.NewReader(`{}`))
	req.Header.Set("x-api-key", "s3cret")
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code, "key accepted, empty submission rejected")
}

func TestCorsAllowsConfiguredOriginOnly(t *testing.T) {
	h := newTestServer(t, "", nil)

	preflight := func(origin string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodOptions, "/v2/generate", nil)
		req.Header.Set("Origin", origin)
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)
		req.Header.Set("Access-Control-Request-Headers", "content-type,x-api-key")
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		return w
	}

	w := preflight("https://ritlepage.pages.dev")
	assert.Equal(t, "https://ritlepage.pages.dev", w.Header().Get("Access-Control-Allow-Origin"))

	w = preflight("https://evil.example")
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRequestIDIsEchoed(t *testing.T) {
	h := newTestServer(t, "", nil)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	_, err := uuid.Parse(w.Header().Get("X-Request-Id"))
	assert.NoError(t, err)

	id := uuid.NewString()
	req = httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-Id", id)
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, id, w.Header().Get("X-Request-Id"))
}

func TestFacultyRouteIsOptional(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/faculty?q=doe", nil)
	w := httptest.NewRecorder()
	newTestServer(t, "", nil).ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)

	dir := faculty.NewDirectory([]faculty.Member{{Name: "Jane Doe"}})
	w = httptest.NewRecorder()
	newTestServer(t, "", dir).ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Jane Doe")
}

func TestStatsLoggerUsesRoutePattern(t *testing.T) {
	var buf bytes.Buffer
	sl := newStatsLogger(slog.New(slog.NewTextHandler(&buf, nil)), time.Minute)

	sl.record("GET /faculty", http.StatusOK, 2*time.Millisecond)
	sl.record("GET /faculty", http.StatusBadRequest, 4*time.Millisecond)
	sl.flush()

	out := buf.String()
	assert.Contains(t, out, `endpoint="GET /faculty"`)
	assert.Contains(t, out, "count=2")
	assert.Contains(t, out, "failures=1")
	assert.Contains(t, out, "avg_time_ms=3.00")

	buf.Reset()
	sl.flush()
	assert.Empty(t, buf.String())
}
