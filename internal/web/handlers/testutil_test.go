package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/kozaktomas/sixpicks/internal/config"
	"github.com/kozaktomas/sixpicks/internal/dump"
	"github.com/kozaktomas/sixpicks/internal/library/mock"
	"github.com/kozaktomas/sixpicks/internal/web/middleware"
)

var testNow = time.Date(2024, 5, 20, 10, 0, 0, 0, time.UTC)

// testConfig creates a minimal config for testing
func testConfig() *config.Config {
	return &config.Config{
		Library: config.LibraryConfig{
			Backend: config.LibraryFolder,
		},
	}
}

// marchLibrary creates a mock library with one photo per day of March 2024
func marchLibrary(days int) *mock.MockLibrary {
	lib := mock.NewMockLibrary()
	lib.AddDaily("mar", time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), days)
	return lib
}

// testService creates a dump service over lib with a fixed clock
func testService(t *testing.T, lib *mock.MockLibrary) *dump.Service {
	t.Helper()
	svc := dump.New(lib)
	svc.Now = func() time.Time { return testNow }
	svc.Exporter.TempDir = t.TempDir()
	svc.Exporter.Now = func() time.Time { return testNow }
	return svc
}

// requestWithService creates a request with the dump service in context
func requestWithService(t *testing.T, method, path string, body any, svc *dump.Service) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("failed to encode request body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	ctx := middleware.SetServiceInContext(req.Context(), svc)
	return req.WithContext(ctx)
}

// requestWithChiParams creates a request with chi URL parameters
func requestWithChiParams(r *http.Request, params map[string]string) *http.Request {
	rctx := chi.NewRouteContext()
	for key, value := range params {
		rctx.URLParams.Add(key, value)
	}
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// parseJSONResponse parses a JSON response body into the target type
func parseJSONResponse(t *testing.T, recorder *httptest.ResponseRecorder, target any) {
	t.Helper()
	if err := json.Unmarshal(recorder.Body.Bytes(), target); err != nil {
		t.Fatalf("failed to parse JSON response: %v\nBody: %s", err, recorder.Body.String())
	}
}

// assertStatusCode checks if the response has the expected status code
func assertStatusCode(t *testing.T, recorder *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if recorder.Code != expected {
		t.Errorf("expected status %d, got %d\nBody: %s", expected, recorder.Code, recorder.Body.String())
	}
}

// assertContentType checks if the response has the expected content type
func assertContentType(t *testing.T, recorder *httptest.ResponseRecorder, expected string) {
	t.Helper()
	ct := recorder.Header().Get("Content-Type")
	if ct != expected {
		t.Errorf("expected Content-Type '%s', got '%s'", expected, ct)
	}
}

// assertJSONError checks if the response is a JSON error with the expected message
func assertJSONError(t *testing.T, recorder *httptest.ResponseRecorder, expectedMessage string) {
	t.Helper()
	var result map[string]string
	if err := json.Unmarshal(recorder.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse error response: %v\nBody: %s", err, recorder.Body.String())
	}
	if result["error"] != expectedMessage {
		t.Errorf("expected error '%s', got '%s'", expectedMessage, result["error"])
	}
}
