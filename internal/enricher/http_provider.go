package enricher

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/ginjaninja78/sales-analytics/internal/types"
)

// maxBodyBytes caps how much of a product response is read.
const maxBodyBytes = 1 << 20

// StatusError is returned for a non-200 answer from the product API.
type StatusError struct {
	ProductID  string
	StatusCode int
}

// Error implements the error interface.
func (e *StatusError) Error() string {
	return fmt.Sprintf("product %s: API request failed with status %d", e.ProductID, e.StatusCode)
}

// HTTPProvider fetches product metadata from GET {baseURL}/products/{id}.
// Products are requested one at a time.
type HTTPProvider struct {
	baseURL string
	client  *http.Client
}

// NewHTTPProvider creates a provider for the given API root.
// A nil client defaults to http.DefaultClient.
func NewHTTPProvider(baseURL string, client *http.Client) *HTTPProvider {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPProvider{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
	}
}

// FetchMany implements Provider.
func (p *HTTPProvider) FetchMany(ctx context.Context, productIDs []string) (map[string]FetchResult, error) {
	if _, err := url.Parse(p.baseURL); err != nil || p.baseURL == "" {
		return nil, fmt.Errorf("invalid product API base URL %q", p.baseURL)
	}

	results := make(map[string]FetchResult, len(productIDs))
	for _, id := range productIDs {
		if err := ctx.Err(); err != nil {
			results[id] = FetchResult{Err: fmt.Errorf("%w: %v", ErrUnavailable, err)}
			continue
		}

		metadata, err := p.fetchOne(ctx, id)
		if err != nil {
			results[id] = FetchResult{Err: err}
			continue
		}
		results[id] = FetchResult{Metadata: metadata}
	}

	return results, nil
}

func (p *HTTPProvider) fetchOne(ctx context.Context, productID string) (*types.ProductMetadata, error) {
	endpoint := p.baseURL + "/products/" + url.PathEscape(productID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build request for %s: %w", productID, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		return nil, &StatusError{ProductID: productID, StatusCode: resp.StatusCode}
	}

	var metadata types.ProductMetadata
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(&metadata); err != nil {
		return nil, fmt.Errorf("product %s: malformed response: %w", productID, err)
	}
	if metadata.Name == "" {
		return nil, fmt.Errorf("product %s: malformed response: missing name", productID)
	}
	if metadata.ProductID == "" {
		metadata.ProductID = productID
	}

	return &metadata, nil
}
