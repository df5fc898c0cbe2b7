package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultTimeout bounds a single attempt when no timeout is configured.
const DefaultTimeout = 30 * time.Second

// allowedMethods is the fixed verb set a Request may use.
var allowedMethods = map[string]struct{}{
	http.MethodGet:     {},
	http.MethodPost:    {},
	http.MethodPut:     {},
	http.MethodPatch:   {},
	http.MethodDelete:  {},
	http.MethodHead:    {},
	http.MethodOptions: {},
}

// Request describes a single outbound HTTP call.
// Use NewRequest to create one and chain With* calls to configure it.
// Once handed to a client it must not be mutated.
type Request struct {
	Method      string
	URL         string
	Headers     map[string]string
	QueryParams url.Values
	Body        interface{}
	Timeout     time.Duration
	Insecure    bool // skip TLS certificate verification
}

// NewRequest creates a Request with the given method and absolute URL.
// An empty method defaults to GET. The request is validated immediately:
// an unknown method or malformed URL fails with a *ValidationError before
// any network activity can happen.
//
// Example:
//
//	req, err := NewRequest("GET", "https://api.example.com/users")
//	if err != nil {
//	    return err
//	}
//	req.WithQueryParam("limit", "10").
//	    WithHeader("Accept", "application/json")
func NewRequest(method, rawURL string) (*Request, error) {
	m := strings.ToUpper(strings.TrimSpace(method))
	if m == "" {
		m = http.MethodGet
	}
	r := &Request{
		Method:      m,
		URL:         rawURL,
		Headers:     make(map[string]string),
		QueryParams: make(url.Values),
		Timeout:     DefaultTimeout,
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return r, nil
}

// Validate checks the request invariants. It is called by NewRequest and
// again by the executor, so a Request assembled by hand still cannot reach
// the network in a malformed state.
func (r *Request) Validate() error {
	if _, ok := allowedMethods[r.Method]; !ok {
		return &ValidationError{Field: "method", Message: fmt.Sprintf("unsupported HTTP method %q", r.Method)}
	}
	if strings.TrimSpace(r.URL) == "" {
		return &ValidationError{Field: "url", Message: "must not be empty"}
	}
	u, err := url.Parse(r.URL)
	if err != nil {
		return &ValidationError{Field: "url", Message: err.Error()}
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return &ValidationError{Field: "url", Message: fmt.Sprintf("unsupported scheme %q, want http or https", u.Scheme)}
	}
	if u.Host == "" {
		return &ValidationError{Field: "url", Message: "missing host"}
	}
	if r.Timeout <= 0 {
		return &ValidationError{Field: "timeout", Message: "must be positive"}
	}
	return nil
}

// WithHeader adds a header to the request. Keys are canonicalized, so
// lookups are case-insensitive and the last write for a key wins.
// Returns the Request to allow method chaining.
func (r *Request) WithHeader(key, value string) *Request {
	r.Headers[http.CanonicalHeaderKey(key)] = value
	return r
}

// WithHeaders adds multiple headers to the request.
// Returns the Request to allow method chaining.
func (r *Request) WithHeaders(headers map[string]string) *Request {
	for key, value := range headers {
		r.WithHeader(key, value)
	}
	return r
}

// WithQueryParam adds a query parameter to the request.
// Returns the Request to allow method chaining.
func (r *Request) WithQueryParam(key, value string) *Request {
	r.QueryParams.Add(key, value)
	return r
}

// WithBody sets the body of the request. The body can be:
//   - string: sent as-is
//   - []byte: sent as-is
//   - io.Reader: read and sent
//   - any other type: marshaled as JSON (Content-Type defaults to application/json)
//
// Returns the Request to allow method chaining.
func (r *Request) WithBody(body interface{}) *Request {
	r.Body = body
	return r
}

// WithJSON sets the body as JSON and forces the Content-Type header.
// Returns the Request to allow method chaining.
func (r *Request) WithJSON(v interface{}) *Request {
	r.Body = v
	return r.WithHeader("Content-Type", "application/json")
}

// WithTimeout sets the per-attempt timeout.
// Returns the Request to allow method chaining.
func (r *Request) WithTimeout(d time.Duration) *Request {
	r.Timeout = d
	return r
}

// WithInsecure disables TLS certificate verification for this request.
// Returns the Request to allow method chaining.
func (r *Request) WithInsecure() *Request {
	r.Insecure = true
	return r
}

// FullURL returns the target URL with query parameters encoded.
func (r *Request) FullURL() string {
	if len(r.QueryParams) == 0 {
		return r.URL
	}
	u, err := url.Parse(r.URL)
	if err != nil {
		return r.URL
	}
	query := u.Query()
	for key, values := range r.QueryParams {
		for _, value := range values {
			query.Add(key, value)
		}
	}
	u.RawQuery = query.Encode()
	return u.String()
}

// build constructs the underlying *http.Request. Called by Client.Do after
// validation has passed.
func (r *Request) build(ctx context.Context) (*http.Request, error) {
	var bodyReader io.Reader
	contentType := ""
	if r.Body != nil {
		switch body := r.Body.(type) {
		case string:
			bodyReader = strings.NewReader(body)
		case []byte:
			bodyReader = bytes.NewReader(body)
		case io.Reader:
			bodyReader = body
		default:
			jsonBody, err := json.Marshal(body)
			if err != nil {
				return nil, &ValidationError{Field: "body", Message: err.Error()}
			}
			bodyReader = bytes.NewReader(jsonBody)
			contentType = "application/json"
		}
	}

	req, err := http.NewRequestWithContext(ctx, r.Method, r.FullURL(), bodyReader)
	if err != nil {
		return nil, &ValidationError{Field: "url", Message: err.Error()}
	}

	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	for key, value := range r.Headers {
		req.Header.Set(key, value)
	}

	return req, nil
}
