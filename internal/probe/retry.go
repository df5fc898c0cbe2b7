package probe

import (
	"context"
	"math"
	"time"

	http "github.com/jabtool/jab/internal/http"
)

// Attempt performs one try against the target and reports its outcome.
// Transport failures arrive as Responses with the error description set,
// never as raised errors.
type Attempt func(ctx context.Context) *http.Response

// RetryPolicy wraps an Attempt with bounded retries and exponential
// backoff. An attempt is retried when RetryIf judges its outcome
// retryable; the policy performs at most MaxRetries+1 tries and always
// yields the last-seen Response, so nothing escapes this boundary as an
// error.
type RetryPolicy struct {
	MaxRetries   int
	InitialDelay time.Duration
	Multiplier   float64

	// RetryIf decides whether an outcome is worth another attempt.
	// Nil falls back to DefaultRetryable.
	RetryIf func(*http.Response) bool
}

// DefaultRetryable retries transport failures and 5xx server errors.
// Client errors (4xx) are final: repeating a bad request will not fix it.
func DefaultRetryable(resp *http.Response) bool {
	return resp.Err != "" || resp.IsServerError()
}

// Do runs fn until it produces a non-retryable outcome or the attempt
// budget is exhausted. Between tries it sleeps the backoff delay,
// honoring ctx: cancellation during a backoff ends the loop with the
// last-seen Response.
func (p RetryPolicy) Do(ctx context.Context, fn Attempt) *http.Response {
	retryable := p.RetryIf
	if retryable == nil {
		retryable = DefaultRetryable
	}

	var resp *http.Response
	for attempt := 0; ; attempt++ {
		resp = fn(ctx)
		if attempt >= p.MaxRetries || !retryable(resp) {
			return resp
		}

		timer := time.NewTimer(p.DelayFor(attempt + 1))
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return resp
		}
	}
}

// DelayFor returns the backoff before the i-th retry (1-indexed):
// InitialDelay * Multiplier^(i-1). A multiplier below 1 is treated as 1.
func (p RetryPolicy) DelayFor(retry int) time.Duration {
	mult := p.Multiplier
	if mult < 1 {
		mult = 1
	}
	return time.Duration(float64(p.InitialDelay) * math.Pow(mult, float64(retry-1)))
}
