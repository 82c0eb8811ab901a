package source

import (
	"context"
	"fmt"
	"net/http"
)

// HTTPFetcher downloads http(s) sources.
type HTTPFetcher struct {
	client   *http.Client
	maxBytes int64
}

// Fetch performs a GET. Any non-2xx status is an error wrapping ErrBadStatus.
func (f *HTTPFetcher) Fetch(ctx context.Context, source string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSource, err)
	}
	req.Header.Set("Accept", "text/csv, text/plain;q=0.9, */*;q=0.5")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", source, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %s", ErrBadStatus, resp.Status)
	}

	body, err := readLimited(resp.Body, f.maxBytes)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", source, err)
	}
	return body, nil
}
