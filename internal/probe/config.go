package probe

import (
	"time"

	http "github.com/jabtool/jab/internal/http"
)

// Config controls retry and pacing behavior for a Client.
// The zero value is not valid; start from DefaultConfig.
type Config struct {
	// MaxRetries is the number of additional attempts after the first.
	// 0 means a single attempt with no retry.
	MaxRetries int

	// RetryDelay is the backoff before the first retry.
	RetryDelay time.Duration

	// Backoff multiplies the delay after each retry.
	Backoff float64

	// RateLimit caps issuance in requests per second. 0 means unlimited.
	RateLimit float64
}

// DefaultConfig returns the stock configuration: three retries starting
// at 500ms with doubling backoff, no rate limit.
func DefaultConfig() Config {
	return Config{
		MaxRetries: 3,
		RetryDelay: 500 * time.Millisecond,
		Backoff:    2,
	}
}

// Validate checks the configuration invariants, returning a
// *http.ValidationError on the first violation.
func (c Config) Validate() error {
	if c.MaxRetries < 0 {
		return &http.ValidationError{Field: "retries", Message: "must not be negative"}
	}
	if c.RetryDelay <= 0 {
		return &http.ValidationError{Field: "retry delay", Message: "must be positive"}
	}
	if c.Backoff < 1 {
		return &http.ValidationError{Field: "backoff", Message: "must be at least 1"}
	}
	if c.RateLimit < 0 {
		return &http.ValidationError{Field: "rate limit", Message: "must not be negative"}
	}
	return nil
}
