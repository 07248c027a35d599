// Package introspectclient is the HTTP client perceptiactl uses to query a
// running perceptia server's internal/introspect endpoints. It decodes the
// same {status, data, error} envelope the server writes.
package introspectclient

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/darkelement/perceptia/internal/qualia/ids"
)

// Client queries one perceptia server's introspection endpoints.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New returns a Client against baseURL, e.g. "http://localhost:9091".
func New(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 5 * time.Second,
		},
	}
}

// envelope mirrors internal/introspect's response shape.
type envelope struct {
	Status string          `json:"status"`
	Data   json.RawMessage `json:"data,omitempty"`
	Error  string          `json:"error,omitempty"`
}

func get[T any](c *Client, path string) (T, error) {
	var zero T

	req, err := http.NewRequest(http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return zero, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return zero, fmt.Errorf("request to %s failed: %w", c.baseURL, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return zero, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return zero, fmt.Errorf("server replied %d: %s", resp.StatusCode, string(body))
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return zero, fmt.Errorf("failed to decode response envelope: %w", err)
	}
	if env.Status != "ok" {
		return zero, fmt.Errorf("introspection error: %s", env.Error)
	}
	if len(env.Data) == 0 {
		return zero, nil
	}

	var result T
	if err := json.Unmarshal(env.Data, &result); err != nil {
		return zero, fmt.Errorf("failed to decode data: %w", err)
	}
	return result, nil
}

// Surfaces fetches GET /surfaces.
func (c *Client) Surfaces() ([]SurfaceView, error) {
	return get[[]SurfaceView](c, "/surfaces")
}

// Frames fetches GET /frames.
func (c *Client) Frames() (FrameView, error) {
	return get[FrameView](c, "/frames")
}

// History fetches GET /history.
func (c *Client) History() ([]ids.SurfaceId, error) {
	return get[[]ids.SurfaceId](c, "/history")
}

// Reachable reports whether the server answers GET /surfaces at all,
// independent of whether it returns any surfaces.
func (c *Client) Reachable() bool {
	_, err := c.Surfaces()
	return err == nil
}
