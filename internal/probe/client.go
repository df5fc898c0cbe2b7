package probe

import (
	"context"
	"time"

	http "github.com/jabtool/jab/internal/http"
	"github.com/jabtool/jab/internal/ratelimit"
)

// Doer performs a single HTTP attempt. *http.Client satisfies it; tests
// substitute deterministic fakes.
type Doer interface {
	Do(ctx context.Context, req *http.Request) (*http.Response, error)
}

// Client is the single entry point for issuing probes. Execute composes,
// in order: the rate-limiter gate, the retry controller, and a timed
// attempt against the executor.
type Client struct {
	config  Config
	exec    Doer
	limiter *ratelimit.Limiter
	policy  RetryPolicy
	calls   callCounter
}

// Option configures a Client beyond its Config.
type Option func(*Client)

// WithExecutor substitutes the HTTP executor. Used by benchmarks and
// tests to probe without a network.
func WithExecutor(exec Doer) Option {
	return func(c *Client) {
		c.exec = exec
	}
}

// WithRetryIf overrides the retry predicate, e.g. to widen or narrow the
// set of retryable status codes.
func WithRetryIf(retryIf func(*http.Response) bool) Option {
	return func(c *Client) {
		c.policy.RetryIf = retryIf
	}
}

// NewClient validates cfg and builds a Client around it. The rate-limiter
// cursor lives on the Client, so reusing one instance across calls is
// what makes throttling correct.
func NewClient(cfg Config, options ...Option) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	c := &Client{
		config:  cfg,
		exec:    http.NewClient(),
		limiter: ratelimit.New(cfg.RateLimit),
		policy: RetryPolicy{
			MaxRetries:   cfg.MaxRetries,
			InitialDelay: cfg.RetryDelay,
			Multiplier:   cfg.Backoff,
		},
	}
	for _, option := range options {
		option(c)
	}
	return c, nil
}

// Config returns the configuration the Client was built with.
func (c *Client) Config() Config {
	return c.config
}

// Execute issues one probe: wait for a rate slot, then attempt the
// request under the retry policy, timing each attempt. The returned
// error is non-nil only for a malformed request; every network outcome,
// including exhausted retries, comes back as a Response.
func (c *Client) Execute(ctx context.Context, req *http.Request) (*http.Response, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return http.TransportFailure(err, 0), nil
	}

	return c.policy.Do(ctx, c.timedAttempt(req)), nil
}

// timedAttempt wraps the executor call with the wall-clock measurement
// for one attempt. The measurement is attached to the Response and has
// no influence on retry or rate-limiting decisions.
func (c *Client) timedAttempt(req *http.Request) Attempt {
	return func(ctx context.Context) *http.Response {
		c.calls.inc()
		start := time.Now()
		resp, err := c.exec.Do(ctx, req)
		elapsed := time.Since(start)
		if err != nil {
			return http.TransportFailure(err, elapsed)
		}
		resp.Duration = elapsed
		return resp
	}
}

// Attempts returns the number of executor attempts made by this Client,
// retries included.
func (c *Client) Attempts() int64 {
	return c.calls.value()
}

// ResetAttempts zeroes the attempt counter.
func (c *Client) ResetAttempts() {
	c.calls.reset()
}
