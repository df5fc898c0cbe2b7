package output

import (
	"encoding/json"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/jabtool/jab/internal/bench"
	http "github.com/jabtool/jab/internal/http"
)

// Format selects the rendering for machine consumption.
type Format string

const (
	// FormatText is the default human-readable rendering.
	FormatText Format = "text"
	// FormatJSON renders a JSON document.
	FormatJSON Format = "json"
	// FormatYAML renders a YAML document.
	FormatYAML Format = "yaml"
)

// ParseFormat validates a format name from the command line.
func ParseFormat(name string) (Format, error) {
	switch Format(name) {
	case FormatText, FormatJSON, FormatYAML:
		return Format(name), nil
	case "":
		return FormatText, nil
	default:
		return "", fmt.Errorf("unknown output format %q (want text, json, or yaml)", name)
	}
}

// ResponseDocument is the structured view of a single probe outcome.
type ResponseDocument struct {
	StatusCode int               `json:"statusCode" yaml:"statusCode"`
	Success    bool              `json:"success" yaml:"success"`
	ElapsedMs  float64           `json:"elapsedMs" yaml:"elapsedMs"`
	Error      string            `json:"error,omitempty" yaml:"error,omitempty"`
	Headers    map[string]string `json:"headers,omitempty" yaml:"headers,omitempty"`
	Body       string            `json:"body,omitempty" yaml:"body,omitempty"`
	Extracted  map[string]string `json:"extracted,omitempty" yaml:"extracted,omitempty"`
}

// BenchmarkDocument is the structured view of a benchmark result.
type BenchmarkDocument struct {
	URL               string  `json:"url" yaml:"url"`
	Requests          int     `json:"requests" yaml:"requests"`
	Successes         int     `json:"successes" yaml:"successes"`
	Failures          int     `json:"failures" yaml:"failures"`
	SuccessRate       float64 `json:"successRate" yaml:"successRate"`
	MeanMs            float64 `json:"meanMs" yaml:"meanMs"`
	MedianMs          float64 `json:"medianMs" yaml:"medianMs"`
	MinMs             float64 `json:"minMs" yaml:"minMs"`
	MaxMs             float64 `json:"maxMs" yaml:"maxMs"`
	P95Ms             float64 `json:"p95Ms" yaml:"p95Ms"`
	TotalDurationSecs float64 `json:"totalDurationSecs" yaml:"totalDurationSecs"`
	RequestsPerSecond float64 `json:"requestsPerSecond" yaml:"requestsPerSecond"`
}

// NewResponseDocument flattens a Response for structured output.
// extracted carries --extract results and may be nil.
func NewResponseDocument(resp *http.Response, extracted map[string]string) ResponseDocument {
	headers := make(map[string]string, len(resp.Headers))
	for key := range resp.Headers {
		headers[key] = resp.Headers.Get(key)
	}
	return ResponseDocument{
		StatusCode: resp.StatusCode,
		Success:    resp.Success(),
		ElapsedMs:  resp.DurationMillis(),
		Error:      resp.Err,
		Headers:    headers,
		Body:       resp.BodyString(),
		Extracted:  extracted,
	}
}

// NewBenchmarkDocument flattens a Result for structured output.
func NewBenchmarkDocument(result *bench.Result) BenchmarkDocument {
	return BenchmarkDocument{
		URL:               result.URL,
		Requests:          result.Requests,
		Successes:         result.Successes,
		Failures:          result.Failures,
		SuccessRate:       result.SuccessRate(),
		MeanMs:            millis(result.Latency.Mean),
		MedianMs:          millis(result.Latency.Median),
		MinMs:             millis(result.Latency.Min),
		MaxMs:             millis(result.Latency.Max),
		P95Ms:             millis(result.Latency.P95),
		TotalDurationSecs: result.TotalDuration.Seconds(),
		RequestsPerSecond: result.RequestsPerSecond(),
	}
}

// Render serializes v per the chosen format. Text rendering is handled
// by Formatter; Render covers the structured formats.
func Render(format Format, v interface{}) (string, error) {
	switch format {
	case FormatJSON:
		encoded, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return "", err
		}
		return string(encoded) + "\n", nil
	case FormatYAML:
		encoded, err := yaml.Marshal(v)
		if err != nil {
			return "", err
		}
		return string(encoded), nil
	default:
		return "", fmt.Errorf("format %q has no structured rendering", format)
	}
}

func millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
