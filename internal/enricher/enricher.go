// =============================================================================
// Sales Analytics - Product Enricher
// =============================================================================
//
// The enricher attaches product metadata to every distinct ProductID among the
// valid records. Metadata comes from a Provider; whatever the provider cannot
// supply is replaced by a locally synthesized placeholder, so every product id
// always ends up with an entry.
//
// ENTRY STATUS:
//   - ok       : real metadata from the provider
//   - fallback : provider unreachable, timed out, or failed the whole batch
//   - failed   : provider answered with an error for this id
//
// The whole step is bounded by a timeout and never blocks the report.
//
// =============================================================================

package enricher

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ginjaninja78/sales-analytics/internal/types"
)

// =============================================================================
// PROVIDER CAPABILITY
// =============================================================================

// FetchResult is the provider's answer for one product id.
// Exactly one of Metadata and Err is set.
type FetchResult struct {
	Metadata *types.ProductMetadata
	Err      error
}

// Provider looks up product metadata.
//
// A non-nil error from FetchMany is a whole-batch failure. Ids missing from the
// returned map are treated as unreachable.
type Provider interface {
	FetchMany(ctx context.Context, productIDs []string) (map[string]FetchResult, error)
}

// ErrUnavailable marks a provider error as "could not reach the provider"
// rather than "the provider rejected this id".
var ErrUnavailable = errors.New("product provider unavailable")

// =============================================================================
// ENRICHMENT RESULT
// =============================================================================

// Status is the tagged outcome for one product.
type Status string

const (
	StatusOK       Status = "ok"
	StatusFallback Status = "fallback"
	StatusFailed   Status = "failed"
)

// State summarizes the API integration for the report.
type State string

const (
	StateSuccess         State = "success"
	StatePartialFallback State = "partial_fallback"
	StateFullFallback    State = "full_fallback"
	StateDisabled        State = "disabled"
	StateNoProducts      State = "no_products"
)

// Description returns a human-readable label for the state.
func (s State) Description() string {
	switch s {
	case StateSuccess:
		return "All products fetched from the API"
	case StatePartialFallback:
		return "Partial fallback to placeholder data"
	case StateFullFallback:
		return "Full fallback to placeholder data"
	case StateDisabled:
		return "API integration disabled"
	case StateNoProducts:
		return "No products to look up"
	default:
		return string(s)
	}
}

// Entry is the metadata attached to one product id.
type Entry struct {
	ProductID string
	Status    Status
	Metadata  types.ProductMetadata

	// Err is the provider error behind a fallback or failed entry.
	Err error
}

// Enrichment is the outcome of one enrichment pass.
type Enrichment struct {
	// ProductIDs are the ids looked up, in ascending order.
	ProductIDs []string

	// Entries maps every product id to its metadata.
	Entries map[string]Entry

	State State
}

// Count returns how many entries have the given status.
func (e *Enrichment) Count(status Status) int {
	n := 0
	for _, entry := range e.Entries {
		if entry.Status == status {
			n++
		}
	}
	return n
}

// Lookup returns the entry for a product id.
func (e *Enrichment) Lookup(productID string) (Entry, bool) {
	entry, ok := e.Entries[productID]
	return entry, ok
}

// =============================================================================
// ENRICHER
// =============================================================================

// Options configures an Enricher.
type Options struct {
	// Timeout bounds the whole FetchMany call. 0 means no extra bound.
	Timeout time.Duration

	// MaxProducts caps how many ids are sent to the provider. Ids past the cap
	// get placeholder metadata. 0 means no cap.
	MaxProducts int
}

// Enricher resolves product metadata through a Provider with fallback.
type Enricher struct {
	provider Provider
	options  Options
}

// New creates an Enricher. A nil provider yields a disabled enricher.
func New(provider Provider, options Options) *Enricher {
	return &Enricher{provider: provider, options: options}
}

// Enrich looks up metadata for the given product ids.
//
// PARAMETERS:
//   - ctx: Parent context; the configured timeout is applied on top of it.
//   - productIDs: Distinct product ids, already sorted.
//
// RETURNS:
//   - An Enrichment with an entry for every id. Enrich never fails.
func (e *Enricher) Enrich(ctx context.Context, productIDs []string) *Enrichment {
	result := &Enrichment{
		ProductIDs: productIDs,
		Entries:    make(map[string]Entry, len(productIDs)),
	}

	if e == nil || e.provider == nil {
		for _, id := range productIDs {
			result.Entries[id] = fallbackEntry(id, StatusFallback, ErrUnavailable)
		}
		result.State = StateDisabled
		return result
	}

	if len(productIDs) == 0 {
		result.State = StateNoProducts
		return result
	}

	requested := productIDs
	if e.options.MaxProducts > 0 && len(requested) > e.options.MaxProducts {
		requested = requested[:e.options.MaxProducts]
	}

	fetched, batchErr := e.fetch(ctx, requested)

	for _, id := range productIDs {
		if batchErr != nil {
			result.Entries[id] = fallbackEntry(id, StatusFallback, batchErr)
			continue
		}

		res, ok := fetched[id]
		switch {
		case !ok:
			result.Entries[id] = fallbackEntry(id, StatusFallback, ErrUnavailable)
		case res.Err != nil && errors.Is(res.Err, ErrUnavailable):
			result.Entries[id] = fallbackEntry(id, StatusFallback, res.Err)
		case res.Err != nil:
			result.Entries[id] = fallbackEntry(id, StatusFailed, res.Err)
		case res.Metadata == nil:
			result.Entries[id] = fallbackEntry(id, StatusFailed, fmt.Errorf("empty metadata for %s", id))
		default:
			metadata := *res.Metadata
			if metadata.ProductID == "" {
				metadata.ProductID = id
			}
			result.Entries[id] = Entry{ProductID: id, Status: StatusOK, Metadata: metadata}
		}
	}

	result.State = summarize(result)
	return result
}

// fetchOutcome carries a FetchMany answer back from the provider goroutine.
type fetchOutcome struct {
	results map[string]FetchResult
	err     error
}

// fetch calls the provider under the configured timeout. A provider that has
// not answered by the deadline is abandoned and the batch falls back; its late
// answer is discarded. Provider panics are a whole-batch failure.
func (e *Enricher) fetch(ctx context.Context, ids []string) (map[string]FetchResult, error) {
	if e.options.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.options.Timeout)
		defer cancel()
	}

	done := make(chan fetchOutcome, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- fetchOutcome{err: fmt.Errorf("provider panic: %v", r)}
			}
		}()
		results, err := e.provider.FetchMany(ctx, ids)
		done <- fetchOutcome{results: results, err: err}
	}()

	select {
	case outcome := <-done:
		if outcome.err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnavailable, outcome.err)
		}
		return outcome.results, nil
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, ctx.Err())
	}
}

// summarize derives the integration state from the entry statuses.
func summarize(e *Enrichment) State {
	ok := e.Count(StatusOK)
	switch {
	case ok == len(e.Entries):
		return StateSuccess
	case ok == 0:
		return StateFullFallback
	default:
		return StatePartialFallback
	}
}

// =============================================================================
// FALLBACK METADATA
// =============================================================================

// Placeholder synthesizes metadata for a product the provider could not supply.
func Placeholder(productID string) types.ProductMetadata {
	return types.ProductMetadata{
		ProductID:   productID,
		Name:        "Product " + productID,
		Category:    "Unknown",
		Description: "Placeholder metadata for " + productID,
	}
}

func fallbackEntry(productID string, status Status, err error) Entry {
	return Entry{
		ProductID: productID,
		Status:    status,
		Metadata:  Placeholder(productID),
		Err:       err,
	}
}
