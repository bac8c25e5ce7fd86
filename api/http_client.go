package api

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	json "github.com/goccy/go-json"
)

// StatusError is returned for non-2xx responses. It keeps the request URL so
// callers can surface which request failed.
type StatusError struct {
	URL        string
	StatusCode int
	Status     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status code %s for %s", e.Status, e.URL)
}

// HTTPClient holds a base URL and the underlying HTTP client configuration.
type HTTPClient struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewHTTPClient creates a new HTTPClient with default settings.
func NewHTTPClient(baseURL string) *HTTPClient {
	return &HTTPClient{
		BaseURL: baseURL,
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Get performs a GET against an endpoint relative to the base URL and returns
// the raw body.
func (c *HTTPClient) Get(ctx context.Context, endpoint string) ([]byte, error) {
	return c.GetURL(ctx, c.BaseURL+endpoint)
}

// GetURL performs a GET against an absolute URL and returns the raw body.
func (c *HTTPClient) GetURL(ctx context.Context, rawurl string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawurl, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	res, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, err
	}

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return nil, &StatusError{URL: rawurl, StatusCode: res.StatusCode, Status: res.Status}
	}

	return body, nil
}

// GetJSON performs a GET against an absolute URL and decodes the JSON body
// into response.
func (c *HTTPClient) GetJSON(ctx context.Context, rawurl string, response interface{}) error {
	body, err := c.GetURL(ctx, rawurl)
	if err != nil {
		return err
	}
	return json.Unmarshal(body, response)
}
