// Package mockapi serves product metadata over HTTP for offline development.
//
// Routes (mounted under /api/v1):
//
//	GET /products/{id}  product metadata, 404 for unknown ids
//	GET /health         liveness check
package mockapi

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/ginjaninja78/sales-analytics/internal/catalog"
)

// Handlers groups the HTTP handler methods and their dependencies.
type Handlers struct {
	catalog *catalog.Catalog

	// synthesize serves generated metadata for P<digits> ids not in the catalog.
	synthesize bool
}

// NewRouter creates the chi router with all mock API routes mounted.
// A nil catalog serves synthesized metadata only.
func NewRouter(products *catalog.Catalog, synthesize bool) http.Handler {
	h := &Handlers{catalog: products, synthesize: synthesize}

	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.SetHeader("Content-Type", "application/json"))

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", h.Health)
		r.Get("/products/{id}", h.GetProduct)
	})

	return r
}

// --- helpers ---

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[mockapi] encode error: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// --- handlers ---

// Health reports that the server is up.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetProduct returns metadata for one product.
func (h *Handlers) GetProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "product id is required")
		return
	}

	if product, ok := h.catalog.Lookup(id); ok {
		writeJSON(w, http.StatusOK, product)
		return
	}

	if h.synthesize {
		if product, ok := catalog.Synthesize(id); ok {
			writeJSON(w, http.StatusOK, product)
			return
		}
	}

	writeError(w, http.StatusNotFound, "product not found: "+id)
}
