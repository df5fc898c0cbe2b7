package cli

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	http "github.com/jabtool/jab/internal/http"
	"github.com/jabtool/jab/internal/output"
	"github.com/jabtool/jab/internal/probe"
)

// addRequestFlags registers the flags shared by send and bench that shape
// the outbound request.
func addRequestFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("method", "X", "GET", "HTTP method")
	cmd.Flags().StringArrayP("header", "H", nil, `header to include, "Key: Value" (repeatable)`)
	cmd.Flags().StringP("data", "d", "", "request body (sent as-is, JSON sets Content-Type)")
	cmd.Flags().DurationP("timeout", "t", http.DefaultTimeout, "per-attempt timeout")
	cmd.Flags().Bool("insecure", false, "skip TLS certificate verification")
}

// addPipelineFlags registers the retry and rate-limit flags.
func addPipelineFlags(cmd *cobra.Command) {
	cmd.Flags().Int("retry", 3, "retries after the first attempt (0 disables)")
	cmd.Flags().Duration("retry-delay", 500*time.Millisecond, "backoff before the first retry")
	cmd.Flags().Float64("backoff", 2, "backoff multiplier between retries")
	cmd.Flags().Float64("rate-limit", 0, "max requests per second (0 = unlimited)")
}

// addOutputFlags registers the rendering flags.
func addOutputFlags(cmd *cobra.Command) {
	cmd.Flags().BoolP("verbose", "v", false, "verbose output")
	cmd.Flags().StringP("output", "o", "text", "output format: text, json, or yaml")
	cmd.Flags().Bool("no-color", false, "disable colored output")
}

// requestFromFlags assembles and validates the Request for a target URL.
func requestFromFlags(cmd *cobra.Command, url string) (*http.Request, error) {
	method, _ := cmd.Flags().GetString("method")
	headers, _ := cmd.Flags().GetStringArray("header")
	data, _ := cmd.Flags().GetString("data")
	timeout, _ := cmd.Flags().GetDuration("timeout")
	insecure, _ := cmd.Flags().GetBool("insecure")

	req, err := http.NewRequest(method, url)
	if err != nil {
		return nil, err
	}
	req.WithTimeout(timeout)
	if insecure {
		req.WithInsecure()
	}
	for _, header := range headers {
		parts := strings.SplitN(header, ":", 2)
		if len(parts) != 2 {
			return nil, &http.ValidationError{Field: "header", Message: fmt.Sprintf("%q is not in \"Key: Value\" form", header)}
		}
		req.WithHeader(strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1]))
	}
	if data != "" {
		req.WithBody(data)
		if req.Headers["Content-Type"] == "" && looksLikeJSON(data) {
			req.WithHeader("Content-Type", "application/json")
		}
	}
	return req, nil
}

// configFromFlags assembles the pipeline configuration.
func configFromFlags(cmd *cobra.Command) probe.Config {
	cfg := probe.DefaultConfig()
	cfg.MaxRetries, _ = cmd.Flags().GetInt("retry")
	cfg.RetryDelay, _ = cmd.Flags().GetDuration("retry-delay")
	cfg.Backoff, _ = cmd.Flags().GetFloat64("backoff")
	cfg.RateLimit, _ = cmd.Flags().GetFloat64("rate-limit")
	return cfg
}

// rendererFromFlags resolves the format and text formatter. Color is
// dropped when requested or when stdout is not a terminal.
func rendererFromFlags(cmd *cobra.Command) (*output.Formatter, output.Format, error) {
	verbose, _ := cmd.Flags().GetBool("verbose")
	noColor, _ := cmd.Flags().GetBool("no-color")
	formatName, _ := cmd.Flags().GetString("output")

	format, err := output.ParseFormat(formatName)
	if err != nil {
		return nil, "", err
	}
	if !output.IsTerminal(os.Stdout) {
		noColor = true
	}
	return output.NewFormatter(verbose, noColor), format, nil
}

func looksLikeJSON(data string) bool {
	trimmed := strings.TrimSpace(data)
	return strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[")
}

// fail prints err and exits non-zero. Validation failures are fatal
// before any network activity.
func fail(err error) {
	fmt.Fprintln(os.Stderr, "Error:", err)
	os.Exit(1)
}
