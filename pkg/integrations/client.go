package integrations

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/matzehuels/labindex/pkg/buildinfo"
	"github.com/matzehuels/labindex/pkg/observability"
)

// Client provides shared HTTP functionality for the GitHub and site clients.
// It applies default headers, reports every call to the registered
// [observability.HTTPHooks], and turns non-2xx responses into [*HTTPError].
// Each request is attempted exactly once.
type Client struct {
	http    *http.Client
	headers map[string]string
}

// NewClient creates a Client with the given HTTP client and default headers.
// Headers are applied to all requests made through this client.
// Pass nil for httpClient to use [NewHTTPClient] with [DefaultTimeout].
func NewClient(httpClient *http.Client, headers map[string]string) *Client {
	if httpClient == nil {
		httpClient = NewHTTPClient(DefaultTimeout)
	}
	return &Client{
		http:    httpClient,
		headers: headers,
	}
}

// Get performs an HTTP GET request and JSON-decodes the response into v.
func (c *Client) Get(ctx context.Context, url string, v any) error {
	return c.GetWithHeaders(ctx, url, nil, v)
}

// GetWithHeaders performs an HTTP GET with additional headers merged with defaults.
// Request-specific headers override client defaults for the same key.
func (c *Client) GetWithHeaders(ctx context.Context, url string, headers map[string]string, v any) error {
	body, _, err := c.doRequest(ctx, url, headers)
	if err != nil {
		return err
	}
	defer body.Close()
	if err := json.NewDecoder(body).Decode(v); err != nil {
		return fmt.Errorf("decode %s: %w", url, err)
	}
	return nil
}

// GetBytes performs an HTTP GET request and returns the response body.
// Bodies larger than maxBodySize are rejected.
func (c *Client) GetBytes(ctx context.Context, url string) ([]byte, error) {
	body, _, err := c.doRequest(ctx, url, nil)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	data, err := io.ReadAll(io.LimitReader(body, maxBodySize+1))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", url, err)
	}
	if int64(len(data)) > maxBodySize {
		return nil, fmt.Errorf("%s: response exceeds %d bytes", url, maxBodySize)
	}
	return data, nil
}

// Status performs an HTTP GET request, discards the body and reports the
// status code. Non-2xx responses are returned as [*HTTPError].
func (c *Client) Status(ctx context.Context, url string, headers map[string]string) (int, error) {
	body, code, err := c.doRequest(ctx, url, headers)
	if err != nil {
		return code, err
	}
	_, _ = io.Copy(io.Discard, body)
	body.Close()
	return code, nil
}

func (c *Client) doRequest(ctx context.Context, url string, headers map[string]string) (io.ReadCloser, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("User-Agent", buildinfo.UserAgent())
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	hooks := observability.HTTP()
	host, path := req.URL.Host, req.URL.Path
	hooks.OnRequest(ctx, req.Method, host, path)
	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		hooks.OnError(ctx, req.Method, host, path, err)
		return nil, 0, fmt.Errorf("%w: %w", ErrNetwork, err)
	}
	hooks.OnResponse(ctx, req.Method, host, path, resp.StatusCode, time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, resp.StatusCode, &HTTPError{
			Method:     req.Method,
			URL:        url,
			StatusCode: resp.StatusCode,
			Body:       body,
		}
	}
	return resp.Body, resp.StatusCode, nil
}
