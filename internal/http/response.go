package http

import (
	"encoding/json"
	"net/http"
	"time"
)

// TimingInfo stores the phase timings of a single attempt, captured via
// net/http/httptrace. Phases that did not occur (e.g. TLS on plain HTTP,
// or a reused connection) are zero.
type TimingInfo struct {
	// DNSLookup is the time spent resolving the host.
	DNSLookup time.Duration

	// TCPConnect is the time spent establishing the TCP connection.
	TCPConnect time.Duration

	// TLSHandshake is the time spent on the TLS handshake (HTTPS only).
	TLSHandshake time.Duration

	// TimeToFirstByte is the time from the end of the last connection
	// phase to the first response byte.
	TimeToFirstByte time.Duration
}

// Response is the outcome of one attempt against the target. It is
// constructed only by the executor (for completed or failed round trips)
// and by the retry controller (final transport failure); callers treat it
// as read-only.
type Response struct {
	// StatusCode is the HTTP status code, or 0 on transport failure.
	StatusCode int

	// Status is the HTTP status line (e.g. "200 OK"), empty on failure.
	Status string

	// Headers contains the response headers.
	Headers http.Header

	// Body is the fully-read response body, possibly empty.
	Body []byte

	// Duration is the wall-clock time of this attempt.
	Duration time.Duration

	// Timing breaks the attempt down into connection phases.
	Timing TimingInfo

	// Timestamp is when the attempt completed.
	Timestamp time.Time

	// Err describes a transport-level failure (timeout, DNS, refused,
	// certificate). Empty when a round trip completed, whatever the status.
	Err string
}

// Success reports whether the probe succeeded: a completed round trip
// with a status code in [200, 400).
func (r *Response) Success() bool {
	return r.Err == "" && r.StatusCode >= 200 && r.StatusCode < 400
}

// IsClientError reports whether the status code is in the 4xx range.
func (r *Response) IsClientError() bool {
	return r.StatusCode >= 400 && r.StatusCode < 500
}

// IsServerError reports whether the status code is in the 5xx range.
func (r *Response) IsServerError() bool {
	return r.StatusCode >= 500 && r.StatusCode < 600
}

// GetHeader returns the value of the named header, or "" when absent.
func (r *Response) GetHeader(key string) string {
	return r.Headers.Get(key)
}

// BodyString returns the response body as a string.
func (r *Response) BodyString() string {
	return string(r.Body)
}

// BodyJSON unmarshals the response body into v.
func (r *Response) BodyJSON(v interface{}) error {
	return json.Unmarshal(r.Body, v)
}

// DurationMillis returns the attempt duration in milliseconds.
func (r *Response) DurationMillis() float64 {
	return float64(r.Duration) / float64(time.Millisecond)
}

// TransportFailure builds the Response for an attempt that never produced
// an HTTP status: the error is classified into a stable description and
// the status code stays 0.
func TransportFailure(err error, elapsed time.Duration) *Response {
	return &Response{
		Headers:   make(http.Header),
		Duration:  elapsed,
		Timestamp: time.Now(),
		Err:       describeTransportError(err),
	}
}
