// Package config loads YAML probe profiles for the run command: shared
// defaults plus a map of named requests.
package config

import (
	"fmt"
	"os"
	"sort"
	"time"

	"gopkg.in/yaml.v3"

	http "github.com/jabtool/jab/internal/http"
	"github.com/jabtool/jab/internal/probe"
)

// Profile is the top-level document of a probe profile.
//
//	defaults:
//	  timeout: 10s
//	  retries: 2
//	  rateLimit: 5
//	  headers:
//	    Accept: application/json
//	requests:
//	  health:
//	    url: https://api.example.com/health
//	  create-user:
//	    url: https://api.example.com/users
//	    method: POST
//	    body:
//	      name: test
//	  smoke:
//	    url: https://api.example.com/ping
//	    count: 50
type Profile struct {
	Defaults Defaults               `yaml:"defaults"`
	Requests map[string]RequestSpec `yaml:"requests"`
}

// Defaults applies to every request unless the request overrides it.
type Defaults struct {
	Timeout    string            `yaml:"timeout"`
	Retries    *int              `yaml:"retries"`
	RetryDelay string            `yaml:"retryDelay"`
	Backoff    *float64          `yaml:"backoff"`
	RateLimit  float64           `yaml:"rateLimit"`
	Insecure   bool              `yaml:"insecure"`
	Headers    map[string]string `yaml:"headers"`
}

// RequestSpec describes one named request.
type RequestSpec struct {
	URL     string            `yaml:"url"`
	Method  string            `yaml:"method"`
	Headers map[string]string `yaml:"headers"`
	Body    interface{}       `yaml:"body"`
	Timeout string            `yaml:"timeout"`
	Count   int               `yaml:"count"` // above 1 runs a benchmark
	Extract map[string]string `yaml:"extract"`
}

// Load reads and validates a profile file.
func Load(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading profile: %w", err)
	}
	var profile Profile
	if err := yaml.Unmarshal(data, &profile); err != nil {
		return nil, fmt.Errorf("parsing profile: %w", err)
	}
	if err := profile.Validate(); err != nil {
		return nil, err
	}
	return &profile, nil
}

// Validate checks the profile invariants with field-level errors.
func (p *Profile) Validate() error {
	if len(p.Requests) == 0 {
		return &http.ValidationError{Field: "requests", Message: "profile defines no requests"}
	}
	if _, err := parseDuration(p.Defaults.Timeout, 0); err != nil {
		return &http.ValidationError{Field: "defaults.timeout", Message: err.Error()}
	}
	if _, err := parseDuration(p.Defaults.RetryDelay, 0); err != nil {
		return &http.ValidationError{Field: "defaults.retryDelay", Message: err.Error()}
	}
	if p.Defaults.Retries != nil && *p.Defaults.Retries < 0 {
		return &http.ValidationError{Field: "defaults.retries", Message: "must not be negative"}
	}
	if p.Defaults.Backoff != nil && *p.Defaults.Backoff < 1 {
		return &http.ValidationError{Field: "defaults.backoff", Message: "must be at least 1"}
	}
	if p.Defaults.RateLimit < 0 {
		return &http.ValidationError{Field: "defaults.rateLimit", Message: "must not be negative"}
	}

	for _, name := range p.RequestNames() {
		spec := p.Requests[name]
		if spec.URL == "" {
			return &http.ValidationError{Field: "requests." + name + ".url", Message: "must not be empty"}
		}
		if _, err := parseDuration(spec.Timeout, 0); err != nil {
			return &http.ValidationError{Field: "requests." + name + ".timeout", Message: err.Error()}
		}
		if spec.Count < 0 {
			return &http.ValidationError{Field: "requests." + name + ".count", Message: "must not be negative"}
		}
	}
	return nil
}

// RequestNames returns the request names in stable order.
func (p *Profile) RequestNames() []string {
	names := make([]string, 0, len(p.Requests))
	for name := range p.Requests {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ClientConfig maps the profile defaults onto a probe configuration.
func (p *Profile) ClientConfig() (probe.Config, error) {
	cfg := probe.DefaultConfig()
	if p.Defaults.Retries != nil {
		cfg.MaxRetries = *p.Defaults.Retries
	}
	delay, err := parseDuration(p.Defaults.RetryDelay, cfg.RetryDelay)
	if err != nil {
		return cfg, &http.ValidationError{Field: "defaults.retryDelay", Message: err.Error()}
	}
	cfg.RetryDelay = delay
	if p.Defaults.Backoff != nil {
		cfg.Backoff = *p.Defaults.Backoff
	}
	cfg.RateLimit = p.Defaults.RateLimit
	return cfg, err
}

// BuildRequest assembles the named request, layering profile defaults
// under the request's own settings.
func (p *Profile) BuildRequest(name string) (*http.Request, *RequestSpec, error) {
	spec, ok := p.Requests[name]
	if !ok {
		return nil, nil, &http.ValidationError{Field: "request", Message: fmt.Sprintf("no request named %q in profile", name)}
	}

	req, err := http.NewRequest(spec.Method, spec.URL)
	if err != nil {
		return nil, nil, err
	}

	req.WithHeaders(p.Defaults.Headers)
	req.WithHeaders(spec.Headers)
	if spec.Body != nil {
		req.WithBody(spec.Body)
	}
	if p.Defaults.Insecure {
		req.WithInsecure()
	}

	timeout, err := parseDuration(spec.Timeout, 0)
	if err != nil {
		return nil, nil, &http.ValidationError{Field: "requests." + name + ".timeout", Message: err.Error()}
	}
	if timeout == 0 {
		timeout, err = parseDuration(p.Defaults.Timeout, http.DefaultTimeout)
		if err != nil {
			return nil, nil, &http.ValidationError{Field: "defaults.timeout", Message: err.Error()}
		}
	}
	req.WithTimeout(timeout)

	if err := req.Validate(); err != nil {
		return nil, nil, err
	}
	return req, &spec, nil
}

func parseDuration(s string, fallback time.Duration) (time.Duration, error) {
	if s == "" {
		return fallback, nil
	}
	return time.ParseDuration(s)
}
