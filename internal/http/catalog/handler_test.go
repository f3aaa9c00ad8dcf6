package catalog

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
)

func writeFile(t *testing.T, name, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(name), 0o755); err != nil {
		t.Fatalf("mkdir failed: %v", err)
	}
	if err := os.WriteFile(name, []byte(content), 0o644); err != nil {
		t.Fatalf("write failed: %v", err)
	}
}

func newTestRouter(t *testing.T) (http.Handler, string) {
	t.Helper()
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "index.html"), "<h1>Catalog</h1>")
	writeFile(t, filepath.Join(dir, "public", "app.css"), "body{}")
	writeFile(t, filepath.Join(dir, "data", "full-products.json"), `[
  {"id": "cjld2cjxh0000qzrmn831i7rn", "description": "Plain tee", "tags": [{"title": "Tops"}]},
  {"id": "cjld2cyuq0000t3rmniod1foy", "description": "Hoodie"}
]`)

	r := chi.NewRouter()
	NewHandler(dir).RegisterRoutes(r)
	return r, dir
}

func get(h http.Handler, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestRoot(t *testing.T) {
	r, _ := newTestRouter(t)

	w := get(r, "/")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "<h1>Catalog</h1>") {
		t.Errorf("expected index page, got %q", w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("expected html content type, got %q", ct)
	}
}

func TestListProducts(t *testing.T) {
	r, _ := newTestRouter(t)

	w := get(r, "/products")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected application/json, got %q", ct)
	}

	want := `[{"id":"cjld2cjxh0000qzrmn831i7rn","description":"Plain tee","tags":[{"title":"Tops"}]},{"id":"cjld2cyuq0000t3rmniod1foy","description":"Hoodie"}]`
	if got := w.Body.String(); got != want {
		t.Errorf("expected body %s, got %s", want, got)
	}
}

func TestListProducts_ReadsFileOnEveryRequest(t *testing.T) {
	r, dir := newTestRouter(t)

	writeFile(t, filepath.Join(dir, "data", "full-products.json"), `{"changed": true}`)
	w := get(r, "/products")
	if got := w.Body.String(); got != `{"changed":true}` {
		t.Errorf("expected the updated file contents, got %s", got)
	}
}

func TestListProducts_Failures(t *testing.T) {
	tests := []struct {
		name    string
		prepare func(t *testing.T, dataFile string)
	}{
		{"malformed json", func(t *testing.T, dataFile string) {
			writeFile(t, dataFile, `[{"id": 1,]`)
		}},
		{"empty file", func(t *testing.T, dataFile string) {
			writeFile(t, dataFile, "")
		}},
		{"missing file", func(t *testing.T, dataFile string) {
			if err := os.Remove(dataFile); err != nil {
				t.Fatalf("remove failed: %v", err)
			}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, dir := newTestRouter(t)
			tt.prepare(t, filepath.Join(dir, "data", "full-products.json"))

			w := get(r, "/products")
			if w.Code != http.StatusInternalServerError {
				t.Fatalf("expected 500, got %d", w.Code)
			}
			if ct := w.Header().Get("Content-Type"); ct != "application/json" {
				t.Errorf("expected application/json, got %q", ct)
			}

			var resp map[string]string
			if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
				t.Fatalf("error decoding response: %v", err)
			}
			if resp["error"] == "" {
				t.Errorf("expected an error message, got %v", resp)
			}

			// The server keeps answering afterwards.
			if w := get(r, "/"); w.Code != http.StatusOK {
				t.Errorf("expected root to still answer 200, got %d", w.Code)
			}
		})
	}
}

func TestStaticFiles(t *testing.T) {
	r, dir := newTestRouter(t)

	w := get(r, "/app.css")
	if w.Code != http.StatusOK || w.Body.String() != "body{}" {
		t.Errorf("expected static file, got %d %q", w.Code, w.Body.String())
	}

	if w := get(r, "/missing.js"); w.Code != http.StatusNotFound {
		t.Errorf("expected 404 for missing asset, got %d", w.Code)
	}

	// A public file shadows a route with the same path.
	writeFile(t, filepath.Join(dir, "public", "products"), "static products")
	if w := get(r, "/products"); w.Body.String() != "static products" {
		t.Errorf("expected public file to win over the route, got %q", w.Body.String())
	}
}

func TestStaticFiles_Dotfiles(t *testing.T) {
	r, dir := newTestRouter(t)
	writeFile(t, filepath.Join(dir, "public", ".env"), "SECRET=1")
	writeFile(t, filepath.Join(dir, "public", ".git", "config"), "[core]")
	writeFile(t, filepath.Join(dir, "public", "css", ".hidden.css"), "body{}")

	for _, target := range []string{"/.env", "/.git/config", "/css/.hidden.css"} {
		t.Run(target, func(t *testing.T) {
			w := get(r, target)
			if w.Code != http.StatusNotFound {
				t.Errorf("expected 404, got %d", w.Code)
			}
			if strings.Contains(w.Body.String(), "SECRET") || strings.Contains(w.Body.String(), "[core]") {
				t.Errorf("hidden file leaked: %q", w.Body.String())
			}
		})
	}
}

func TestStaticFiles_IndexHTMLByName(t *testing.T) {
	r, dir := newTestRouter(t)
	writeFile(t, filepath.Join(dir, "public", "index.html"), "<h1>Public</h1>")
	writeFile(t, filepath.Join(dir, "public", "docs", "index.html"), "<h1>Docs</h1>")

	tests := []struct {
		target string
		want   string
	}{
		{"/index.html", "<h1>Public</h1>"},
		{"/docs/index.html", "<h1>Docs</h1>"},
		{"/docs/", "<h1>Docs</h1>"},
	}
	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			w := get(r, tt.target)
			if w.Code != http.StatusOK {
				t.Fatalf("expected 200, got %d (Location %q)", w.Code, w.Header().Get("Location"))
			}
			if !strings.Contains(w.Body.String(), tt.want) {
				t.Errorf("expected %q, got %q", tt.want, w.Body.String())
			}
		})
	}
}

func TestStaticIndexShadowsRoot(t *testing.T) {
	r, dir := newTestRouter(t)
	writeFile(t, filepath.Join(dir, "public", "index.html"), "<h1>Public</h1>")

	w := get(r, "/")
	if !strings.Contains(w.Body.String(), "<h1>Public</h1>") {
		t.Errorf("expected public index page, got %q", w.Body.String())
	}
}
