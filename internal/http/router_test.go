package http_test

import (
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	api "github.com/rogerio-castellano/product-services/internal/http"
	rl "github.com/rogerio-castellano/product-services/internal/http/rate_limiter"
)

func TestNewCatalogRouter(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "data"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "data", "full-products.json"), []byte(`[ {"id": 1} ]`), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "index.html"), []byte("<p>hi</p>"), 0o644); err != nil {
		t.Fatal(err)
	}

	r := api.NewCatalogRouter(dir)

	w := doRequest(r, http.MethodGet, "/products", "")
	if w.Code != http.StatusOK || w.Body.String() != `[{"id":1}]` {
		t.Errorf("expected catalog listing, got %d %q", w.Code, w.Body.String())
	}
	if w.Header().Get("X-Request-Id") == "" {
		t.Error("expected X-Request-Id on catalog responses")
	}

	// The catalog is read-only.
	if w := doRequest(r, http.MethodPost, "/products", `{"name":"x","price":1}`); w.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected 405 for POST on the catalog, got %d", w.Code)
	}
}

func TestNewRouter_RateLimited(t *testing.T) {
	t.Cleanup(resetProducts)
	r := api.NewRouter(
		api.WithRequestLog(log.New(io.Discard, "", 0)),
		api.WithRateLimiter(rl.New(0.001, 1)),
	)

	first := httptest.NewRecorder()
	r.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/products", nil))
	if first.Code != http.StatusOK {
		t.Fatalf("expected first request to pass, got %d", first.Code)
	}

	second := httptest.NewRecorder()
	r.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/products", nil))
	if second.Code != http.StatusTooManyRequests {
		t.Errorf("expected 429 Too Many Requests, got %d", second.Code)
	}
}
