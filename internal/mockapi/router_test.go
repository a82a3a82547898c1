package mockapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ginjaninja78/sales-analytics/internal/catalog"
	"github.com/ginjaninja78/sales-analytics/internal/types"
)

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestGetProduct(t *testing.T) {
	products := catalog.New(types.ProductMetadata{ProductID: "P1", Name: "Mouse", Category: "Peripherals"})
	router := NewRouter(products, true)

	testCases := []struct {
		name     string
		path     string
		status   int
		wantName string
	}{
		{name: "catalog hit", path: "/api/v1/products/P1", status: http.StatusOK, wantName: "Mouse"},
		{name: "synthesized", path: "/api/v1/products/P42", status: http.StatusOK, wantName: "Product P42"},
		{name: "not a product id", path: "/api/v1/products/X9", status: http.StatusNotFound},
		{name: "unknown route", path: "/api/v1/nothing", status: http.StatusNotFound},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rec := get(t, router, tc.path)
			if rec.Code != tc.status {
				t.Fatalf("status = %d, want %d", rec.Code, tc.status)
			}
			if tc.wantName == "" {
				return
			}
			var product types.ProductMetadata
			if err := json.NewDecoder(rec.Body).Decode(&product); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if product.Name != tc.wantName {
				t.Errorf("Name = %q, want %q", product.Name, tc.wantName)
			}
		})
	}
}

func TestCatalogOnlyMode(t *testing.T) {
	router := NewRouter(catalog.New(), false)
	if rec := get(t, router, "/api/v1/products/P42"); rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404 without synthesis", rec.Code)
	}
}

func TestHealth(t *testing.T) {
	rec := get(t, NewRouter(nil, true), "/api/v1/health")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}
}
