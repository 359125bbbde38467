package integrations

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	pkgerrors "github.com/matzehuels/labindex/pkg/errors"
)

func TestNewClient(t *testing.T) {
	headers := map[string]string{"Authorization": "Bearer token"}
	client := NewClient(nil, headers)

	if client == nil {
		t.Fatal("NewClient() returned nil")
	}
	if client.http == nil {
		t.Error("NewClient() http client is nil")
	}
	if client.http.Timeout != DefaultTimeout {
		t.Errorf("timeout = %v, want %v", client.http.Timeout, DefaultTimeout)
	}
	if client.headers["Authorization"] != "Bearer token" {
		t.Error("NewClient() headers not set correctly")
	}
}

func TestNewHTTPClient(t *testing.T) {
	if got := NewHTTPClient(5 * time.Second).Timeout; got != 5*time.Second {
		t.Errorf("timeout = %v, want 5s", got)
	}
	if got := NewHTTPClient(0).Timeout; got != DefaultTimeout {
		t.Errorf("timeout = %v, want %v", got, DefaultTimeout)
	}
}

func TestClientGet(t *testing.T) {
	type response struct {
		Message string `json:"message"`
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("expected GET, got %s", r.Method)
		}
		json.NewEncoder(w).Encode(response{Message: "hello"})
	}))
	defer server.Close()

	client := NewClient(server.Client(), nil)

	var resp response
	if err := client.Get(context.Background(), server.URL, &resp); err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if resp.Message != "hello" {
		t.Errorf("Get() message = %q, want %q", resp.Message, "hello")
	}
}

func TestClientGetWithHeadersOverridesDefaults(t *testing.T) {
	var custom, override string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		custom = r.Header.Get("X-Custom")
		override = r.Header.Get("X-Override")
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	}))
	defer server.Close()

	client := NewClient(server.Client(), map[string]string{"X-Override": "default"})

	var resp map[string]string
	err := client.GetWithHeaders(context.Background(), server.URL,
		map[string]string{"X-Custom": "custom", "X-Override": "overridden"}, &resp)
	if err != nil {
		t.Fatalf("GetWithHeaders() error: %v", err)
	}
	if custom != "custom" {
		t.Errorf("custom header = %q, want %q", custom, "custom")
	}
	if override != "overridden" {
		t.Errorf("header = %q, want %q", override, "overridden")
	}
}

func TestClientGetBytes(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"items":[]}`))
	}))
	defer server.Close()

	client := NewClient(server.Client(), nil)

	data, err := client.GetBytes(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("GetBytes() error: %v", err)
	}
	if string(data) != `{"items":[]}` {
		t.Errorf("GetBytes() = %q", data)
	}
}

func TestClientHTTPError(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		wantNF    bool
		wantNet   bool
		wantInMsg string
	}{
		{"not found", http.StatusNotFound, true, false, "status 404"},
		{"server error", http.StatusBadGateway, false, true, "status 502"},
		{"unauthorized", http.StatusUnauthorized, false, false, "Bad credentials"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(`{"message":"Bad credentials"}`))
			}))
			defer server.Close()

			client := NewClient(server.Client(), nil)

			var resp map[string]string
			err := client.Get(context.Background(), server.URL, &resp)

			var httpErr *HTTPError
			if !errors.As(err, &httpErr) {
				t.Fatalf("Get() error = %T, want *HTTPError", err)
			}
			if httpErr.StatusCode != tt.status {
				t.Errorf("StatusCode = %d, want %d", httpErr.StatusCode, tt.status)
			}
			if !strings.Contains(string(httpErr.Body), "Bad credentials") {
				t.Errorf("Body = %q, want response body", httpErr.Body)
			}
			if errors.Is(err, ErrNotFound) != tt.wantNF {
				t.Errorf("errors.Is(ErrNotFound) = %v, want %v", !tt.wantNF, tt.wantNF)
			}
			if errors.Is(err, ErrNetwork) != tt.wantNet {
				t.Errorf("errors.Is(ErrNetwork) = %v, want %v", !tt.wantNet, tt.wantNet)
			}
			if !strings.Contains(err.Error(), tt.wantInMsg) {
				t.Errorf("Error() = %q, want it to contain %q", err.Error(), tt.wantInMsg)
			}
		})
	}
}

func TestClientStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte("ok"))
	}))
	defer server.Close()

	client := NewClient(server.Client(), nil)

	code, err := client.Status(context.Background(), server.URL+"/present", nil)
	if err != nil || code != http.StatusOK {
		t.Errorf("Status() = %d, %v; want 200, nil", code, err)
	}

	code, err = client.Status(context.Background(), server.URL+"/missing", nil)
	if !errors.Is(err, ErrNotFound) || code != http.StatusNotFound {
		t.Errorf("Status() = %d, %v; want 404, ErrNotFound", code, err)
	}
	if got := pkgerrors.GetCode(ErrNotFound); got != pkgerrors.ErrCodeNotFound {
		t.Errorf("GetCode(ErrNotFound) = %q, want %q", got, pkgerrors.ErrCodeNotFound)
	}
}

func TestClientNetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	client := NewClient(nil, nil)

	_, err := client.GetBytes(context.Background(), url)
	if !errors.Is(err, ErrNetwork) {
		t.Errorf("GetBytes() error = %v, want ErrNetwork", err)
	}
	if code := pkgerrors.GetCode(err); code != pkgerrors.ErrCodeNetwork {
		t.Errorf("GetCode() = %q, want %q", code, pkgerrors.ErrCodeNetwork)
	}
}

func TestClientGetBytesSizeLimit(t *testing.T) {
	old := maxBodySize
	maxBodySize = 16
	defer func() { maxBodySize = old }()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/small" {
			w.Write([]byte(strings.Repeat("a", 16)))
			return
		}
		w.Write([]byte(strings.Repeat("a", 17)))
	}))
	defer server.Close()

	client := NewClient(server.Client(), nil)
	if data, err := client.GetBytes(context.Background(), server.URL+"/small"); err != nil || len(data) != 16 {
		t.Errorf("GetBytes(small) = %d bytes, %v; want 16, nil", len(data), err)
	}
	if _, err := client.GetBytes(context.Background(), server.URL+"/large"); err == nil || !strings.Contains(err.Error(), "exceeds 16 bytes") {
		t.Errorf("GetBytes(large) error = %v, want size limit error", err)
	}
}

func TestClientContextCanceled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewClient(server.Client(), nil).GetBytes(ctx, server.URL)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("GetBytes() error = %v, want context.Canceled", err)
	}
}

func TestHTTPErrorTruncatesBody(t *testing.T) {
	err := &HTTPError{Method: "GET", URL: "http://x", StatusCode: 500, Body: []byte(strings.Repeat("a", 2000))}
	if len(err.Error()) > 1000 {
		t.Errorf("Error() length = %d, want truncated", len(err.Error()))
	}
}

func TestClientSendsUserAgent(t *testing.T) {
	var got string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("User-Agent")
	}))
	defer server.Close()

	if _, err := NewClient(nil, nil).Status(context.Background(), server.URL, nil); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(got, "labindex/") {
		t.Errorf("User-Agent = %q, want labindex/<version>", got)
	}
}
