package salesgen

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/okian/crewboard/internal/domain/leaderboard"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals // shared codec

// Board is the body of GET /leaderboard.
type Board struct {
	Empty    bool                      `json:"empty"`
	Carriers []leaderboard.CarrierView `json:"carriers"`
}

// apiError is the body of a failed request.
type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// HTTPClient talks to a running crewboard service.
type HTTPClient struct {
	client  *http.Client
	baseURL string
}

// NewHTTPClient creates a client for baseURL with the given request timeout.
func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		client:  &http.Client{Timeout: timeout},
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// Health checks GET /healthz.
func (c *HTTPClient) Health(ctx context.Context) error {
	_, err := c.do(ctx, http.MethodGet, "/healthz")
	return err
}

// Refresh posts /refresh so the service reloads the source.
func (c *HTTPClient) Refresh(ctx context.Context) error {
	_, err := c.do(ctx, http.MethodPost, "/refresh")
	return err
}

// Leaderboard fetches GET /leaderboard.
func (c *HTTPClient) Leaderboard(ctx context.Context) (*Board, error) {
	body, err := c.do(ctx, http.MethodGet, "/leaderboard")
	if err != nil {
		return nil, err
	}
	var b Board
	if err := json.Unmarshal(body, &b); err != nil {
		return nil, fmt.Errorf("failed to decode leaderboard: %w", err)
	}
	return &b, nil
}

func (c *HTTPClient) do(ctx context.Context, method, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		var e apiError
		if json.Unmarshal(body, &e) == nil && e.Code != "" {
			return nil, fmt.Errorf("%s %s: status %d: %s: %s", method, path, resp.StatusCode, e.Code, e.Message)
		}
		return nil, fmt.Errorf("%s %s: status %d", method, path, resp.StatusCode)
	}
	return body, nil
}
