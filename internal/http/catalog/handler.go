// Package catalog serves the read-only product catalog: a landing page, static assets
// and a product listing read from disk on every request.
package catalog

import (
	"bytes"
	"encoding/json"
	"log"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
)

// Handler exposes catalog HTTP endpoints rooted at one directory:
//
//	<dir>/index.html               landing page
//	<dir>/public/...               static files
//	<dir>/data/full-products.json  product listing
type Handler struct {
	dir    string
	public http.Dir
}

func NewHandler(dir string) *Handler {
	return &Handler{dir: dir, public: http.Dir(filepath.Join(dir, "public"))}
}

// RegisterRoutes mounts the static file layer ahead of the catalog routes.
// It must be called before any route is added to r.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Use(h.Static)
	r.Get("/", h.root)
	r.Get("/products", h.listProducts)
}

// Static serves GET and HEAD requests that name a file under the public directory and
// passes everything else through. Paths with a segment starting with "." are never served.
func (h *Handler) Static(next http.Handler) http.Handler {
	dirs := http.FileServer(h.public)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			next.ServeHTTP(w, r)
			return
		}

		name, ok := publicName(r.URL.Path)
		if !ok {
			next.ServeHTTP(w, r)
			return
		}
		f, err := h.public.Open(name)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}
		defer f.Close()

		info, err := f.Stat()
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}
		if !info.IsDir() {
			// FileServer would redirect /index.html to ./, so plain files go through ServeContent.
			http.ServeContent(w, r, info.Name(), info.ModTime(), f)
			return
		}
		if !h.hasIndex(name) {
			next.ServeHTTP(w, r)
			return
		}
		dirs.ServeHTTP(w, r)
	})
}

// publicName cleans urlPath and rejects dotfiles and dot directories.
func publicName(urlPath string) (string, bool) {
	name := path.Clean("/" + urlPath)
	for _, segment := range strings.Split(name, "/") {
		if strings.HasPrefix(segment, ".") {
			return "", false
		}
	}
	return name, true
}

func (h *Handler) hasIndex(dir string) bool {
	index, err := h.public.Open(path.Join(dir, "index.html"))
	if err != nil {
		return false
	}
	index.Close()
	return true
}

func (h *Handler) root(w http.ResponseWriter, r *http.Request) {
	http.ServeFile(w, r, filepath.Join(h.dir, "index.html"))
}

func (h *Handler) productsFile() string {
	return filepath.Join(h.dir, "data", "full-products.json")
}

// listProducts returns the products file as-is, minus insignificant whitespace.
func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	data, err := os.ReadFile(h.productsFile())
	if err != nil {
		log.Printf("failed to read products file: %v", err)
		writeJSONError(w, http.StatusInternalServerError, err.Error())
		return
	}

	var out bytes.Buffer
	if err := json.Compact(&out, data); err != nil {
		log.Printf("failed to parse products file: %v", err)
		writeJSONError(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(out.Bytes())
}

type jsonError struct {
	Error string `json:"error"`
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(jsonError{Error: message})
}
