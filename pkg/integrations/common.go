package integrations

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/matzehuels/labindex/pkg/errors"
)

// DefaultTimeout bounds every outgoing request when no timeout is configured.
const DefaultTimeout = 30 * time.Second

// maxErrorBody caps how much of a failed response body is kept for diagnostics.
const maxErrorBody = 4096

// maxBodySize caps documents read by [Client.GetBytes].
var maxBodySize int64 = 8 << 20

var (
	// ErrNotFound is returned when a resource doesn't exist (HTTP 404).
	ErrNotFound error = errors.New(errors.ErrCodeNotFound, "resource not found")

	// ErrNetwork is returned for HTTP failures (timeouts, connection errors, 5xx responses).
	ErrNetwork error = errors.New(errors.ErrCodeNetwork, "network error")
)

// HTTPError carries the status and body of a non-2xx response.
// It matches [ErrNotFound] for 404 and [ErrNetwork] for 5xx via errors.Is.
type HTTPError struct {
	Method     string
	URL        string
	StatusCode int
	Body       []byte
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.URL, e.StatusCode, snippet(e.Body, 900))
}

// Is lets callers test an HTTPError against the package sentinels.
func (e *HTTPError) Is(target error) bool {
	switch target {
	case ErrNotFound:
		return e.StatusCode == http.StatusNotFound
	case ErrNetwork:
		return e.StatusCode >= 500
	}
	return false
}

// NewHTTPClient creates an HTTP client with the given timeout.
// A zero or negative timeout falls back to [DefaultTimeout].
func NewHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &http.Client{Timeout: timeout}
}

func snippet(b []byte, max int) string {
	s := strings.TrimSpace(string(b))
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
