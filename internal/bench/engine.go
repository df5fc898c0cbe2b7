// Package bench drives a probe client repeatedly against one target and
// aggregates the outcomes into summary statistics.
package bench

import (
	"context"
	"time"

	http "github.com/jabtool/jab/internal/http"
	"github.com/jabtool/jab/internal/probe"
)

// Engine repeats a request through a probe.Client and collects every
// outcome. Calls are strictly sequential: the client's rate limiter and
// retry controller reason about a single issuance cursor.
type Engine struct {
	client *probe.Client
}

// New creates an Engine around an existing client.
func New(client *probe.Client) *Engine {
	return &Engine{client: client}
}

// Run issues count sequential probes and returns the aggregate Result.
// Failed samples are recorded, not skipped: a benchmark reports failures
// inside the aggregate rather than aborting. Total elapsed time is
// measured around the whole loop, so rate-limit idle gaps count toward
// throughput. The error is non-nil only for a malformed request or a
// count below 1.
func (e *Engine) Run(ctx context.Context, req *http.Request, count int) (*Result, error) {
	if count < 1 {
		return nil, &http.ValidationError{Field: "count", Message: "must be at least 1"}
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	samples := make([]*http.Response, 0, count)
	start := time.Now()
	for i := 0; i < count; i++ {
		resp, err := e.client.Execute(ctx, req)
		if err != nil {
			return nil, err
		}
		samples = append(samples, resp)
		if ctx.Err() != nil {
			break
		}
	}

	return newResult(req.FullURL(), samples, time.Since(start)), nil
}
