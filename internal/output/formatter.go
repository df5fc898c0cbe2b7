// Package output renders probe responses and benchmark results as
// human-readable text or machine-readable JSON/YAML.
package output

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/fatih/color"

	"github.com/jabtool/jab/internal/bench"
	http "github.com/jabtool/jab/internal/http"
)

// Formatter renders text output. Verbose adds headers, body, and phase
// timings; NoColor strips ANSI sequences for pipes and dumb terminals.
type Formatter struct {
	Verbose bool
	NoColor bool
}

// NewFormatter creates a text formatter with the given options.
func NewFormatter(verbose, noColor bool) *Formatter {
	return &Formatter{Verbose: verbose, NoColor: noColor}
}

// FormatRequest renders the outgoing request line (plus headers and body
// when verbose).
func (f *Formatter) FormatRequest(req *http.Request) string {
	var buf strings.Builder

	methodColor := color.New(color.FgBlue, color.Bold)
	if f.NoColor {
		methodColor.DisableColor()
	}
	buf.WriteString(fmt.Sprintf("▶ %s %s\n", methodColor.Sprint(req.Method), req.FullURL()))

	if f.Verbose && len(req.Headers) > 0 {
		keys := make([]string, 0, len(req.Headers))
		for key := range req.Headers {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			buf.WriteString(fmt.Sprintf("  %s: %s\n", key, req.Headers[key]))
		}
	}
	if f.Verbose && req.Body != nil {
		buf.WriteString(fmt.Sprintf("  Body: %s\n", renderBody(req.Body)))
	}

	return buf.String()
}

// FormatResponse renders a probe outcome: status line, elapsed time, and
// on failure the error description. Verbose adds headers, phase timings,
// and the body.
func (f *Formatter) FormatResponse(resp *http.Response) string {
	var buf strings.Builder

	statusColor := color.New(color.Bold)
	switch {
	case resp.Success():
		statusColor.Add(color.FgGreen)
	case resp.Err != "":
		statusColor.Add(color.FgRed)
	case resp.IsClientError() || resp.IsServerError():
		statusColor.Add(color.FgRed)
	default:
		statusColor.Add(color.FgYellow)
	}
	if f.NoColor {
		statusColor.DisableColor()
	}

	if resp.Err != "" {
		buf.WriteString(fmt.Sprintf("%s %s\n", f.icon(false), statusColor.Sprintf("FAILED: %s", resp.Err)))
	} else {
		buf.WriteString(fmt.Sprintf("%s %s\n", f.icon(resp.Success()), statusColor.Sprint(resp.Status)))
	}
	buf.WriteString(fmt.Sprintf("  Time: %.2fms\n", resp.DurationMillis()))

	if f.Verbose {
		if len(resp.Headers) > 0 {
			buf.WriteString("  Headers:\n")
			keys := make([]string, 0, len(resp.Headers))
			for key := range resp.Headers {
				keys = append(keys, key)
			}
			sort.Strings(keys)
			for _, key := range keys {
				buf.WriteString(fmt.Sprintf("    %s: %s\n", key, strings.Join(resp.Headers[key], ", ")))
			}
		}
		buf.WriteString(f.formatTiming(resp.Timing))
		if len(resp.Body) > 0 {
			buf.WriteString(fmt.Sprintf("  Body:\n%s\n", indent(prettyJSON(resp.Body), "    ")))
		}
	}

	return buf.String()
}

// FormatBenchmark renders the aggregate result of a run.
func (f *Formatter) FormatBenchmark(result *bench.Result) string {
	var buf strings.Builder

	header := color.New(color.Bold)
	if f.NoColor {
		header.DisableColor()
	}

	buf.WriteString(header.Sprintf("Benchmark: %s\n", result.URL))
	buf.WriteString(fmt.Sprintf("  Requests:     %d\n", result.Requests))
	buf.WriteString(fmt.Sprintf("  Successful:   %d (%.1f%%)\n", result.Successes, result.SuccessRate()*100))
	buf.WriteString(fmt.Sprintf("  Failed:       %d\n", result.Failures))
	buf.WriteString("  Latency:\n")
	buf.WriteString(fmt.Sprintf("    Mean:       %.2fms\n", millis(result.Latency.Mean)))
	buf.WriteString(fmt.Sprintf("    Median:     %.2fms\n", millis(result.Latency.Median)))
	buf.WriteString(fmt.Sprintf("    Min:        %.2fms\n", millis(result.Latency.Min)))
	buf.WriteString(fmt.Sprintf("    Max:        %.2fms\n", millis(result.Latency.Max)))
	buf.WriteString(fmt.Sprintf("    P95:        %.2fms\n", millis(result.Latency.P95)))
	buf.WriteString(fmt.Sprintf("  Duration:     %.2fs\n", result.TotalDuration.Seconds()))
	buf.WriteString(fmt.Sprintf("  Requests/sec: %.2f\n", result.RequestsPerSecond()))

	if f.Verbose {
		buf.WriteString("  Distribution:\n")
		for _, bracket := range result.Distribution() {
			buf.WriteString(fmt.Sprintf("    %5.1f%%    %.2fms\n", bracket.Quantile, millis(bracket.Value)))
		}
		buf.WriteString(fmt.Sprintf("    StdDev    %.2fms\n", millis(result.Latency.StdDev)))
	}

	return buf.String()
}

func (f *Formatter) formatTiming(t http.TimingInfo) string {
	var buf strings.Builder
	buf.WriteString("  Phases:\n")
	buf.WriteString(fmt.Sprintf("    DNS:        %.2fms\n", millis(t.DNSLookup)))
	buf.WriteString(fmt.Sprintf("    Connect:    %.2fms\n", millis(t.TCPConnect)))
	buf.WriteString(fmt.Sprintf("    TLS:        %.2fms\n", millis(t.TLSHandshake)))
	buf.WriteString(fmt.Sprintf("    TTFB:       %.2fms\n", millis(t.TimeToFirstByte)))
	return buf.String()
}

func (f *Formatter) icon(success bool) string {
	if success {
		if f.NoColor {
			return "✓"
		}
		return color.New(color.FgGreen).Sprint("✓")
	}
	if f.NoColor {
		return "✗"
	}
	return color.New(color.FgRed).Sprint("✗")
}

func renderBody(body interface{}) string {
	switch b := body.(type) {
	case string:
		return b
	case []byte:
		return string(b)
	default:
		encoded, err := json.Marshal(b)
		if err != nil {
			return fmt.Sprintf("%v", b)
		}
		return string(encoded)
	}
}

// prettyJSON re-indents a JSON body for display; anything that is not
// JSON passes through unchanged.
func prettyJSON(body []byte) string {
	var value interface{}
	if err := json.Unmarshal(body, &value); err != nil {
		return string(body)
	}
	pretty, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return string(body)
	}
	return string(pretty)
}

func indent(s, prefix string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = prefix + line
	}
	return strings.Join(lines, "\n")
}
