package enricher

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ginjaninja78/sales-analytics/internal/catalog"
	"github.com/ginjaninja78/sales-analytics/internal/mockapi"
	"github.com/ginjaninja78/sales-analytics/internal/types"
)

type stubProvider struct {
	results map[string]FetchResult
	err     error
	calls   [][]string
}

func (s *stubProvider) FetchMany(ctx context.Context, ids []string) (map[string]FetchResult, error) {
	s.calls = append(s.calls, ids)
	return s.results, s.err
}

type panicProvider struct{}

func (panicProvider) FetchMany(context.Context, []string) (map[string]FetchResult, error) {
	panic("boom")
}

type slowProvider struct{}

func (slowProvider) FetchMany(ctx context.Context, ids []string) (map[string]FetchResult, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

// stubbornProvider ignores ctx and answers successfully after delay.
type stubbornProvider struct {
	delay time.Duration
}

func (s stubbornProvider) FetchMany(_ context.Context, ids []string) (map[string]FetchResult, error) {
	time.Sleep(s.delay)
	results := make(map[string]FetchResult, len(ids))
	for _, id := range ids {
		results[id] = FetchResult{Metadata: &types.ProductMetadata{Name: "Late " + id}}
	}
	return results, nil
}

func TestEnrichAllOK(t *testing.T) {
	provider := &stubProvider{results: map[string]FetchResult{
		"P1": {Metadata: &types.ProductMetadata{Name: "Mouse"}},
		"P2": {Metadata: &types.ProductMetadata{ProductID: "P2", Name: "Keyboard"}},
	}}

	got := New(provider, Options{}).Enrich(context.Background(), []string{"P1", "P2"})

	if got.State != StateSuccess {
		t.Fatalf("State = %s, want %s", got.State, StateSuccess)
	}
	entry, ok := got.Lookup("P1")
	if !ok || entry.Status != StatusOK || entry.Metadata.Name != "Mouse" || entry.Metadata.ProductID != "P1" {
		t.Fatalf("unexpected P1 entry: %+v", entry)
	}
}

func TestEnrichMixedStatuses(t *testing.T) {
	provider := &stubProvider{results: map[string]FetchResult{
		"P1": {Metadata: &types.ProductMetadata{Name: "Mouse"}},
		"P2": {Err: &StatusError{ProductID: "P2", StatusCode: 500}},
		"P3": {Err: ErrUnavailable},
		"P4": {},
	}}

	got := New(provider, Options{}).Enrich(context.Background(), []string{"P1", "P2", "P3", "P4", "P5"})

	want := map[string]Status{
		"P1": StatusOK,
		"P2": StatusFailed,
		"P3": StatusFallback,
		"P4": StatusFailed,
		"P5": StatusFallback,
	}
	for id, status := range want {
		entry, ok := got.Lookup(id)
		if !ok {
			t.Fatalf("%s has no entry", id)
		}
		if entry.Status != status {
			t.Errorf("%s status = %s, want %s", id, entry.Status, status)
		}
		if entry.Metadata.Name == "" {
			t.Errorf("%s has no metadata name", id)
		}
	}
	if got.State != StatePartialFallback {
		t.Errorf("State = %s, want %s", got.State, StatePartialFallback)
	}
	if got.Count(StatusOK) != 1 || got.Count(StatusFailed) != 2 || got.Count(StatusFallback) != 2 {
		t.Errorf("counts ok=%d failed=%d fallback=%d", got.Count(StatusOK), got.Count(StatusFailed), got.Count(StatusFallback))
	}
}

func TestEnrichBatchFailures(t *testing.T) {
	testCases := []struct {
		name     string
		provider Provider
		options  Options
	}{
		{name: "batch error", provider: &stubProvider{err: errors.New("dns failure")}},
		{name: "panic", provider: panicProvider{}},
		{name: "timeout", provider: slowProvider{}, options: Options{Timeout: 20 * time.Millisecond}},
		{name: "provider ignores context", provider: stubbornProvider{delay: 500 * time.Millisecond}, options: Options{Timeout: 20 * time.Millisecond}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			start := time.Now()
			got := New(tc.provider, tc.options).Enrich(context.Background(), []string{"P1", "P2"})
			if elapsed := time.Since(start); elapsed > 250*time.Millisecond {
				t.Errorf("Enrich took %s, should return at the deadline", elapsed)
			}
			if got.State != StateFullFallback {
				t.Fatalf("State = %s, want %s", got.State, StateFullFallback)
			}
			for _, id := range []string{"P1", "P2"} {
				entry := got.Entries[id]
				if entry.Status != StatusFallback {
					t.Errorf("%s status = %s", id, entry.Status)
				}
				if placeholder := Placeholder(id); entry.Metadata.Name != placeholder.Name || entry.Metadata.Category != placeholder.Category {
					t.Errorf("%s metadata = %+v", id, entry.Metadata)
				}
				if !errors.Is(entry.Err, ErrUnavailable) {
					t.Errorf("%s error %v should wrap ErrUnavailable", id, entry.Err)
				}
			}
		})
	}
}

func TestEnrichDisabledAndEmpty(t *testing.T) {
	disabled := New(nil, Options{}).Enrich(context.Background(), []string{"P1"})
	if disabled.State != StateDisabled {
		t.Errorf("State = %s, want %s", disabled.State, StateDisabled)
	}
	if entry := disabled.Entries["P1"]; entry.Status != StatusFallback || entry.Metadata.Name != "Product P1" {
		t.Errorf("disabled entry = %+v", entry)
	}

	provider := &stubProvider{}
	empty := New(provider, Options{}).Enrich(context.Background(), nil)
	if empty.State != StateNoProducts {
		t.Errorf("State = %s, want %s", empty.State, StateNoProducts)
	}
	if len(provider.calls) != 0 {
		t.Error("provider should not be called with no products")
	}
}

func TestEnrichMaxProducts(t *testing.T) {
	provider := &stubProvider{results: map[string]FetchResult{
		"P1": {Metadata: &types.ProductMetadata{Name: "Mouse"}},
	}}

	got := New(provider, Options{MaxProducts: 1}).Enrich(context.Background(), []string{"P1", "P2"})

	if len(provider.calls) != 1 || len(provider.calls[0]) != 1 || provider.calls[0][0] != "P1" {
		t.Fatalf("provider calls = %v", provider.calls)
	}
	if got.Entries["P2"].Status != StatusFallback {
		t.Errorf("P2 status = %s", got.Entries["P2"].Status)
	}
	if got.State != StatePartialFallback {
		t.Errorf("State = %s", got.State)
	}
}

func TestHTTPProviderAgainstMockAPI(t *testing.T) {
	products := catalog.New(types.ProductMetadata{ProductID: "P1", Name: "Wireless Mouse", Category: "Peripherals"})
	server := httptest.NewServer(mockapi.NewRouter(products, false))
	defer server.Close()

	provider := NewHTTPProvider(server.URL+"/api/v1/", server.Client())
	got := New(provider, Options{Timeout: 2 * time.Second}).Enrich(context.Background(), []string{"P1", "P2"})

	if entry := got.Entries["P1"]; entry.Status != StatusOK || entry.Metadata.Name != "Wireless Mouse" {
		t.Errorf("P1 entry = %+v", entry)
	}

	entry := got.Entries["P2"]
	if entry.Status != StatusFailed {
		t.Fatalf("P2 status = %s, want %s", entry.Status, StatusFailed)
	}
	var statusErr *StatusError
	if !errors.As(entry.Err, &statusErr) || statusErr.StatusCode != http.StatusNotFound {
		t.Errorf("P2 error = %v", entry.Err)
	}
	if got.State != StatePartialFallback {
		t.Errorf("State = %s", got.State)
	}
}

func TestHTTPProviderMalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("{not json"))
	}))
	defer server.Close()

	results, err := NewHTTPProvider(server.URL, server.Client()).FetchMany(context.Background(), []string{"P1"})
	if err != nil {
		t.Fatalf("FetchMany error: %v", err)
	}
	if results["P1"].Err == nil || errors.Is(results["P1"].Err, ErrUnavailable) {
		t.Fatalf("expected a malformed-response error, got %v", results["P1"].Err)
	}
}

func TestHTTPProviderUnreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	got := New(NewHTTPProvider(url, nil), Options{Timeout: time.Second}).Enrich(context.Background(), []string{"P1"})
	if got.State != StateFullFallback || got.Entries["P1"].Status != StatusFallback {
		t.Fatalf("unexpected enrichment: state=%s entry=%+v", got.State, got.Entries["P1"])
	}
}
