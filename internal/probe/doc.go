// Package probe composes the request-execution pipeline: a rate-limiter
// gate, a retry controller with exponential backoff, and a timed attempt
// against the HTTP executor.
//
// Client.Execute is the single entry point for one probe. The same Client
// must be reused across calls: the rate-limiter cursor and the attempt
// counter live on the Client, and correct throttling depends on them
// persisting between executions. Requests are issued strictly one at a
// time per Client.
package probe
