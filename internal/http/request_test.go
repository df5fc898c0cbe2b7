package http

import (
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"
)

func TestNewRequest_Defaults(t *testing.T) {
	req, err := NewRequest("", "https://example.com/health")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.Method != http.MethodGet {
		t.Errorf("expected default method GET, got %s", req.Method)
	}
	if req.Timeout != DefaultTimeout {
		t.Errorf("expected default timeout %v, got %v", DefaultTimeout, req.Timeout)
	}
	if req.Insecure {
		t.Error("expected TLS verification enabled by default")
	}
}

func TestNewRequest_MethodNormalization(t *testing.T) {
	req, err := NewRequest("post", "https://example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.Method != http.MethodPost {
		t.Errorf("expected POST, got %s", req.Method)
	}
}

func TestNewRequest_InvalidMethod(t *testing.T) {
	_, err := NewRequest("FETCH", "https://example.com")
	if err == nil {
		t.Fatal("expected error for invalid method")
	}
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected *ValidationError, got %T", err)
	}
	if ve.Field != "method" {
		t.Errorf("expected field %q, got %q", "method", ve.Field)
	}
}

func TestNewRequest_InvalidURL(t *testing.T) {
	cases := []struct {
		name string
		url  string
	}{
		{"empty", ""},
		{"no scheme", "example.com/path"},
		{"bad scheme", "ftp://example.com"},
		{"no host", "https://"},
		{"garbage", "http://[::1"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewRequest("GET", tc.url)
			if err == nil {
				t.Fatalf("expected error for URL %q", tc.url)
			}
			if !IsValidationError(err) {
				t.Errorf("expected validation error, got %T", err)
			}
		})
	}
}

func TestRequest_Validate_Timeout(t *testing.T) {
	req, err := NewRequest("GET", "https://example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	req.WithTimeout(-time.Second)
	if err := req.Validate(); err == nil {
		t.Fatal("expected error for non-positive timeout")
	}
}

func TestRequest_HeaderCanonicalization(t *testing.T) {
	req, err := NewRequest("GET", "https://example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	req.WithHeader("content-type", "text/plain")
	req.WithHeader("Content-Type", "application/json")

	if len(req.Headers) != 1 {
		t.Fatalf("expected one header after case-insensitive overwrite, got %d", len(req.Headers))
	}
	if req.Headers["Content-Type"] != "application/json" {
		t.Errorf("expected last write to win, got %q", req.Headers["Content-Type"])
	}
}

func TestRequest_WithJSON(t *testing.T) {
	req, err := NewRequest("POST", "https://example.com/users")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	req.WithJSON(map[string]string{"name": "test"})
	if req.Headers["Content-Type"] != "application/json" {
		t.Errorf("expected JSON content type, got %q", req.Headers["Content-Type"])
	}
}

func TestRequest_FullURL(t *testing.T) {
	req, err := NewRequest("GET", "https://example.com/search")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	req.WithQueryParam("q", "jab").WithQueryParam("limit", "10")

	full := req.FullURL()
	if !strings.HasPrefix(full, "https://example.com/search?") {
		t.Errorf("unexpected URL: %s", full)
	}
	if !strings.Contains(full, "q=jab") || !strings.Contains(full, "limit=10") {
		t.Errorf("missing query params in %s", full)
	}
}
