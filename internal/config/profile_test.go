package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	http "github.com/jabtool/jab/internal/http"
)

const sampleProfile = `
defaults:
  timeout: 10s
  retries: 2
  retryDelay: 250ms
  backoff: 1.5
  rateLimit: 5
  headers:
    Accept: application/json
    X-Env: staging
requests:
  health:
    url: https://api.example.com/health
  create-user:
    url: https://api.example.com/users
    method: POST
    headers:
      X-Env: production
    body:
      name: test
    timeout: 3s
  smoke:
    url: https://api.example.com/ping
    count: 50
    extract:
      status: $.status
`

func writeProfile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "profile.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	profile, err := Load(writeProfile(t, sampleProfile))
	require.NoError(t, err)

	assert.Equal(t, []string{"create-user", "health", "smoke"}, profile.RequestNames())
	assert.Equal(t, 5.0, profile.Defaults.RateLimit)
	require.NotNil(t, profile.Defaults.Retries)
	assert.Equal(t, 2, *profile.Defaults.Retries)
	assert.Equal(t, 50, profile.Requests["smoke"].Count)
	assert.Equal(t, "$.status", profile.Requests["smoke"].Extract["status"])
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading profile")
}

func TestLoad_MalformedYAML(t *testing.T) {
	_, err := Load(writeProfile(t, "requests: [not: a: map"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing profile")
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name      string
		content   string
		wantField string
	}{
		{"no requests", "defaults:\n  timeout: 5s\n", "requests"},
		{"empty url", "requests:\n  bad:\n    method: GET\n", "requests.bad.url"},
		{"bad default timeout", "defaults:\n  timeout: soon\nrequests:\n  ok:\n    url: https://example.com\n", "defaults.timeout"},
		{"bad request timeout", "requests:\n  ok:\n    url: https://example.com\n    timeout: fast\n", "requests.ok.timeout"},
		{"negative retries", "defaults:\n  retries: -1\nrequests:\n  ok:\n    url: https://example.com\n", "defaults.retries"},
		{"backoff below one", "defaults:\n  backoff: 0.5\nrequests:\n  ok:\n    url: https://example.com\n", "defaults.backoff"},
		{"negative rate limit", "defaults:\n  rateLimit: -2\nrequests:\n  ok:\n    url: https://example.com\n", "defaults.rateLimit"},
		{"negative count", "requests:\n  ok:\n    url: https://example.com\n    count: -5\n", "requests.ok.count"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(writeProfile(t, tc.content))
			require.Error(t, err)

			var verr *http.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tc.wantField, verr.Field)
		})
	}
}

func TestClientConfig(t *testing.T) {
	profile, err := Load(writeProfile(t, sampleProfile))
	require.NoError(t, err)

	cfg, err := profile.ClientConfig()
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.MaxRetries)
	assert.Equal(t, 250*time.Millisecond, cfg.RetryDelay)
	assert.Equal(t, 1.5, cfg.Backoff)
	assert.Equal(t, 5.0, cfg.RateLimit)
}

func TestClientConfig_FallsBackToDefaults(t *testing.T) {
	profile, err := Load(writeProfile(t, "requests:\n  ok:\n    url: https://example.com\n"))
	require.NoError(t, err)

	cfg, err := profile.ClientConfig()
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.MaxRetries)
	assert.Equal(t, 500*time.Millisecond, cfg.RetryDelay)
	assert.Equal(t, 2.0, cfg.Backoff)
	assert.Equal(t, 0.0, cfg.RateLimit)
}

func TestBuildRequest_LayersDefaults(t *testing.T) {
	profile, err := Load(writeProfile(t, sampleProfile))
	require.NoError(t, err)

	req, spec, err := profile.BuildRequest("create-user")
	require.NoError(t, err)

	assert.Equal(t, "POST", req.Method)
	assert.Equal(t, "application/json", req.Headers["Accept"], "default headers apply")
	assert.Equal(t, "production", req.Headers["X-Env"], "request headers override defaults")
	assert.Equal(t, 3*time.Second, req.Timeout, "request timeout wins over the default")
	assert.NotNil(t, req.Body)
	require.NotNil(t, spec)
}

func TestBuildRequest_TimeoutFallbackChain(t *testing.T) {
	profile, err := Load(writeProfile(t, sampleProfile))
	require.NoError(t, err)

	req, _, err := profile.BuildRequest("health")
	require.NoError(t, err)
	assert.Equal(t, "GET", req.Method, "method defaults to GET")
	assert.Equal(t, 10*time.Second, req.Timeout, "profile default timeout applies")

	bare, err := Load(writeProfile(t, "requests:\n  ok:\n    url: https://example.com\n"))
	require.NoError(t, err)
	req, _, err = bare.BuildRequest("ok")
	require.NoError(t, err)
	assert.Equal(t, http.DefaultTimeout, req.Timeout, "built-in default applies last")
}

func TestBuildRequest_UnknownName(t *testing.T) {
	profile, err := Load(writeProfile(t, sampleProfile))
	require.NoError(t, err)

	_, _, err = profile.BuildRequest("missing")
	require.Error(t, err)
	assert.True(t, http.IsValidationError(err))
	assert.Contains(t, err.Error(), "missing")
}

func TestBuildRequest_InsecureDefault(t *testing.T) {
	content := `
defaults:
  insecure: true
requests:
  dev:
    url: https://localhost:8443/health
`
	profile, err := Load(writeProfile(t, content))
	require.NoError(t, err)

	req, _, err := profile.BuildRequest("dev")
	require.NoError(t, err)
	assert.True(t, req.Insecure)
}
