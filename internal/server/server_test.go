package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/flowgrid/pkg/cache"
	"github.com/matzehuels/flowgrid/pkg/pipeline"
)

func testHandler(t *testing.T) http.Handler {
	t.Helper()
	logger := log.NewWithOptions(io.Discard, log.Options{})
	runner := pipeline.NewRunner(nil, nil, logger)
	return New(runner, logger).Handler()
}

func postRender(t *testing.T, h http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/render", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRender_Text(t *testing.T) {
	h := testHandler(t)
	rec := postRender(t, h, `{"source": "graph TD\na --> b"}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
		t.Errorf("Content-Type = %q, want text/plain", ct)
	}
	if got := rec.Header().Get("X-Cache"); got != "miss" {
		t.Errorf("X-Cache = %q, want miss", got)
	}
	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("X-Request-ID missing")
	}
	out := rec.Body.String()
	if !strings.Contains(out, "a") || !strings.Contains(out, "b") {
		t.Errorf("artifact missing node labels:\n%s", out)
	}
}

func TestRender_DOT(t *testing.T) {
	h := testHandler(t)
	rec := postRender(t, h, `{"source": "graph LR\nx --> y", "format": "dot"}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body)
	}
	if !strings.Contains(rec.Body.String(), "digraph") {
		t.Errorf("DOT output missing digraph:\n%s", rec.Body)
	}
}

func TestRender_ExplicitZeroPadding(t *testing.T) {
	h := testHandler(t)
	wide := postRender(t, h, `{"source": "graph TD\na --> b"}`)
	tight := postRender(t, h, `{"source": "graph TD\na --> b", "padding_x": 0, "padding_y": 0}`)

	if tight.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", tight.Code, tight.Body)
	}
	if len(tight.Body.String()) >= len(wide.Body.String()) {
		t.Error("zero padding should shrink the artifact")
	}
}

func TestRender_BadBody(t *testing.T) {
	h := testHandler(t)
	if rec := postRender(t, h, `{not json`); rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestRender_MissingSource(t *testing.T) {
	h := testHandler(t)
	rec := postRender(t, h, `{"source": ""}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400: %s", rec.Code, rec.Body)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("error body is not JSON: %v", err)
	}
	if body["error"] == "" {
		t.Error("error body missing message")
	}
}

func TestRender_ParseError(t *testing.T) {
	h := testHandler(t)
	if rec := postRender(t, h, `{"source": "a --> b"}`); rec.Code != http.StatusBadRequest {
		t.Errorf("missing header: status = %d, want 400", rec.Code)
	}
	if rec := postRender(t, h, `{"source": "graph TD\na --> b", "format": "pdf"}`); rec.Code != http.StatusBadRequest {
		t.Errorf("bad format: status = %d, want 400", rec.Code)
	}
}

func TestRender_CacheHitHeader(t *testing.T) {
	logger := log.NewWithOptions(io.Discard, log.Options{})
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache error: %v", err)
	}
	runner := pipeline.NewRunner(fc, nil, logger)
	defer runner.Close()
	h := New(runner, logger).Handler()

	body := `{"source": "graph TD\na --> b"}`
	if rec := postRender(t, h, body); rec.Header().Get("X-Cache") != "miss" {
		t.Errorf("first request X-Cache = %q, want miss", rec.Header().Get("X-Cache"))
	}
	if rec := postRender(t, h, body); rec.Header().Get("X-Cache") != "hit" {
		t.Errorf("second request X-Cache = %q, want hit", rec.Header().Get("X-Cache"))
	}
}

func TestHealthz(t *testing.T) {
	h := testHandler(t)
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("body is not JSON: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("status field = %q, want ok", body["status"])
	}
}

func TestRequestID_Propagated(t *testing.T) {
	h := testHandler(t)
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if got := rec.Header().Get("X-Request-ID"); got != "abc-123" {
		t.Errorf("X-Request-ID = %q, want abc-123", got)
	}
}
