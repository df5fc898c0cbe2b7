package http

import (
	"context"
	"crypto/tls"
	"io"
	"net/http"
	"net/http/httptrace"
	"time"
)

// Client executes HTTP requests. It performs exactly one blocking round
// trip per Do call; retry and rate limiting belong to the layers above.
// Client is safe for concurrent use by multiple goroutines.
type Client struct {
	httpClient     *http.Client
	insecureClient *http.Client
	headers        map[string]string
}

// ClientOption is a function that configures a Client.
type ClientOption func(*Client)

// NewClient creates a new HTTP client with the given options.
//
// Example:
//
//	client := http.NewClient(
//	    http.WithHeader("User-Agent", "jab/0.1"),
//	)
func NewClient(options ...ClientOption) *Client {
	client := &Client{
		httpClient: &http.Client{},
		insecureClient: &http.Client{
			Transport: &http.Transport{
				TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
			},
		},
		headers: make(map[string]string),
	}

	for _, option := range options {
		option(client)
	}

	return client
}

// WithHeader adds a default header to all requests made by this client.
// Headers set on individual requests override these defaults.
func WithHeader(key, value string) ClientOption {
	return func(c *Client) {
		c.headers[http.CanonicalHeaderKey(key)] = value
	}
}

// WithHTTPClient sets a custom *http.Client for verified connections.
// Use this for advanced configuration like custom transports or proxies.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// Do executes the request and returns its outcome as a Response.
//
// The attempt is bounded by the request timeout. A completed round trip
// yields the real status, headers, and body; a transport failure yields a
// Response with StatusCode 0 and a classified error description. The only
// non-nil error is a *ValidationError for a malformed request, returned
// before the network is touched.
func (c *Client) Do(ctx context.Context, req *Request) (*Response, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, req.Timeout)
	defer cancel()

	httpReq, err := req.build(ctx)
	if err != nil {
		return nil, err
	}

	// Client defaults fill in only where the request left a header unset.
	for key, value := range c.headers {
		if httpReq.Header.Get(key) == "" {
			httpReq.Header.Set(key, value)
		}
	}

	var timing TimingInfo
	var dnsStart, connectStart, tlsStart time.Time
	start := time.Now()
	lastPhaseEnd := start

	trace := &httptrace.ClientTrace{
		DNSStart: func(httptrace.DNSStartInfo) {
			dnsStart = time.Now()
		},
		DNSDone: func(httptrace.DNSDoneInfo) {
			timing.DNSLookup = time.Since(dnsStart)
			lastPhaseEnd = time.Now()
		},
		ConnectStart: func(network, addr string) {
			connectStart = time.Now()
		},
		ConnectDone: func(network, addr string, err error) {
			if err == nil {
				timing.TCPConnect = time.Since(connectStart)
				lastPhaseEnd = time.Now()
			}
		},
		TLSHandshakeStart: func() {
			tlsStart = time.Now()
		},
		TLSHandshakeDone: func(state tls.ConnectionState, err error) {
			if err == nil {
				timing.TLSHandshake = time.Since(tlsStart)
				lastPhaseEnd = time.Now()
			}
		},
		GotFirstResponseByte: func() {
			timing.TimeToFirstByte = time.Since(lastPhaseEnd)
		},
	}
	httpReq = httpReq.WithContext(httptrace.WithClientTrace(httpReq.Context(), trace))

	httpResp, err := c.transportFor(req).Do(httpReq)
	if err != nil {
		return TransportFailure(err, time.Since(start)), nil
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return TransportFailure(err, time.Since(start)), nil
	}

	return &Response{
		StatusCode: httpResp.StatusCode,
		Status:     httpResp.Status,
		Headers:    httpResp.Header,
		Body:       body,
		Duration:   time.Since(start),
		Timing:     timing,
		Timestamp:  time.Now(),
	}, nil
}

// transportFor picks the verified or unverified client per request.
func (c *Client) transportFor(req *Request) *http.Client {
	if req.Insecure {
		return c.insecureClient
	}
	return c.httpClient
}
