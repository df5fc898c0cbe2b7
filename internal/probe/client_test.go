package probe

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	http "github.com/jabtool/jab/internal/http"
)

// scriptedDoer returns canned outcomes in order, repeating the last one.
type scriptedDoer struct {
	statuses []int
	errs     []error
	calls    int
	delay    time.Duration
}

func (d *scriptedDoer) Do(ctx context.Context, req *http.Request) (*http.Response, error) {
	i := d.calls
	if i >= len(d.statuses) {
		i = len(d.statuses) - 1
	}
	d.calls++
	if d.delay > 0 {
		time.Sleep(d.delay)
	}
	if len(d.errs) > 0 && d.errs[i] != nil {
		return nil, d.errs[i]
	}
	return &http.Response{StatusCode: d.statuses[i], Timestamp: time.Now()}, nil
}

func newTestRequest(t *testing.T) *http.Request {
	t.Helper()
	req, err := http.NewRequest("GET", "https://example.com/health")
	require.NoError(t, err)
	return req
}

func TestClient_Execute(t *testing.T) {
	doer := &scriptedDoer{statuses: []int{200}}
	client, err := NewClient(DefaultConfig(), WithExecutor(doer))
	require.NoError(t, err)

	resp, err := client.Execute(context.Background(), newTestRequest(t))
	require.NoError(t, err)
	assert.True(t, resp.Success())
	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, 1, doer.calls)
}

func TestClient_Execute_InvalidRequest(t *testing.T) {
	doer := &scriptedDoer{statuses: []int{200}}
	client, err := NewClient(DefaultConfig(), WithExecutor(doer))
	require.NoError(t, err)

	bad := &http.Request{Method: "FETCH", URL: "https://example.com", Timeout: time.Second}
	_, err = client.Execute(context.Background(), bad)
	require.Error(t, err)
	assert.True(t, http.IsValidationError(err))
	assert.Equal(t, 0, doer.calls, "validation must fail before any attempt")
}

func TestClient_Execute_RetriesThenSucceeds(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxRetries = 3
	cfg.RetryDelay = time.Millisecond

	doer := &scriptedDoer{statuses: []int{500, 500, 200}}
	client, err := NewClient(cfg, WithExecutor(doer))
	require.NoError(t, err)

	resp, err := client.Execute(context.Background(), newTestRequest(t))
	require.NoError(t, err)
	assert.True(t, resp.Success())
	assert.Equal(t, 3, doer.calls)
	assert.Equal(t, int64(3), client.Attempts())
}

func TestClient_Execute_ExhaustedRetries(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxRetries = 2
	cfg.RetryDelay = time.Millisecond

	doer := &scriptedDoer{statuses: []int{503}}
	client, err := NewClient(cfg, WithExecutor(doer))
	require.NoError(t, err)

	resp, err := client.Execute(context.Background(), newTestRequest(t))
	require.NoError(t, err, "exhausted retries still yield a response, never an error")
	assert.False(t, resp.Success())
	assert.Equal(t, 503, resp.StatusCode)
	assert.Equal(t, 3, doer.calls)
}

func TestClient_Execute_ExecutorErrorBecomesResponse(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxRetries = 1
	cfg.RetryDelay = time.Millisecond

	doer := &scriptedDoer{statuses: []int{0, 0}, errs: []error{errors.New("dial tcp: connect: connection refused"), errors.New("dial tcp: connect: connection refused")}}
	client, err := NewClient(cfg, WithExecutor(doer))
	require.NoError(t, err)

	resp, err := client.Execute(context.Background(), newTestRequest(t))
	require.NoError(t, err)
	assert.False(t, resp.Success())
	assert.NotEmpty(t, resp.Err)
	assert.Equal(t, 2, doer.calls, "transport failures are retried")
}

func TestClient_Execute_AttachesDuration(t *testing.T) {
	doer := &scriptedDoer{statuses: []int{200}, delay: 10 * time.Millisecond}
	client, err := NewClient(DefaultConfig(), WithExecutor(doer))
	require.NoError(t, err)

	resp, err := client.Execute(context.Background(), newTestRequest(t))
	require.NoError(t, err)
	assert.GreaterOrEqual(t, resp.Duration, 10*time.Millisecond)
}

func TestClient_Execute_RateLimitPersistsAcrossCalls(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxRetries = 0
	cfg.RateLimit = 100 // 10ms between issuances

	doer := &scriptedDoer{statuses: []int{200}}
	client, err := NewClient(cfg, WithExecutor(doer))
	require.NoError(t, err)

	start := time.Now()
	for i := 0; i < 3; i++ {
		_, err := client.Execute(context.Background(), newTestRequest(t))
		require.NoError(t, err)
	}
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond,
		"limiter cursor must persist across Execute calls")
}

func TestClient_AttemptCounter(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxRetries = 1
	cfg.RetryDelay = time.Millisecond

	doer := &scriptedDoer{statuses: []int{500, 200}}
	client, err := NewClient(cfg, WithExecutor(doer))
	require.NoError(t, err)

	_, err = client.Execute(context.Background(), newTestRequest(t))
	require.NoError(t, err)
	assert.Equal(t, int64(2), client.Attempts(), "retries count as attempts")

	client.ResetAttempts()
	assert.Equal(t, int64(0), client.Attempts())
}

func TestClient_WithRetryIf(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxRetries = 2
	cfg.RetryDelay = time.Millisecond

	doer := &scriptedDoer{statuses: []int{418}}
	client, err := NewClient(cfg, WithExecutor(doer),
		WithRetryIf(func(resp *http.Response) bool { return resp.StatusCode == 418 }))
	require.NoError(t, err)

	_, err = client.Execute(context.Background(), newTestRequest(t))
	require.NoError(t, err)
	assert.Equal(t, 3, doer.calls)
}

func TestNewClient_InvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxRetries = -1
	_, err := NewClient(cfg)
	require.Error(t, err)
	assert.True(t, http.IsValidationError(err))
}
