package cli

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jabtool/jab/internal/output"
	"github.com/jabtool/jab/internal/probe"
	"github.com/jabtool/jab/pkg/jsonpath"
	"github.com/jabtool/jab/pkg/jsonschema"
)

var sendCmd = &cobra.Command{
	Use:   "send URL",
	Short: "Send a single request and report its outcome",
	Long: `Send one request through the probe pipeline: rate-limiter gate, retry
with exponential backoff, and per-attempt timing. A probe that fails
after all retries still reports a response; the process exits non-zero
when the final response is unsuccessful.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		req, err := requestFromFlags(cmd, args[0])
		if err != nil {
			fail(err)
		}
		client, err := probe.NewClient(configFromFlags(cmd))
		if err != nil {
			fail(err)
		}
		formatter, format, err := rendererFromFlags(cmd)
		if err != nil {
			fail(err)
		}

		if format == output.FormatText {
			fmt.Print(formatter.FormatRequest(req))
		}

		resp, err := client.Execute(context.Background(), req)
		if err != nil {
			fail(err)
		}

		extracted := extractValues(cmd, resp.BodyString())
		schemaOK := checkSchema(cmd, resp.BodyString())

		if format == output.FormatText {
			fmt.Print(formatter.FormatResponse(resp))
			for _, name := range sortedKeys(extracted) {
				fmt.Printf("  %s: %s\n", name, extracted[name])
			}
		} else {
			doc := output.NewResponseDocument(resp, extracted)
			rendered, err := output.Render(format, doc)
			if err != nil {
				fail(err)
			}
			fmt.Print(rendered)
		}

		if !resp.Success() || !schemaOK {
			os.Exit(1)
		}
	},
}

// extractValues resolves --extract expressions against the response body.
// Expressions are "name=path" or a bare path (named after itself).
func extractValues(cmd *cobra.Command, body string) map[string]string {
	exprs, _ := cmd.Flags().GetStringArray("extract")
	if len(exprs) == 0 {
		return nil
	}
	paths := make(map[string]string, len(exprs))
	for _, expr := range exprs {
		if name, path, found := strings.Cut(expr, "="); found {
			paths[name] = path
		} else {
			paths[expr] = expr
		}
	}
	values, err := jsonpath.ExtractAll(body, paths)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Warning:", err)
	}
	return values
}

// checkSchema validates the response body against --schema, when given.
func checkSchema(cmd *cobra.Command, body string) bool {
	schemaPath, _ := cmd.Flags().GetString("schema")
	if schemaPath == "" {
		return true
	}
	schema, err := os.ReadFile(schemaPath)
	if err != nil {
		fail(fmt.Errorf("reading schema: %w", err))
	}
	ok, violations, err := jsonschema.ValidateWithErrors(body, string(schema))
	if err != nil {
		fail(err)
	}
	if !ok {
		fmt.Fprintln(os.Stderr, "Schema validation failed:")
		for _, violation := range violations {
			fmt.Fprintln(os.Stderr, " ", violation)
		}
	}
	return ok
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func init() {
	addRequestFlags(sendCmd)
	addPipelineFlags(sendCmd)
	addOutputFlags(sendCmd)
	sendCmd.Flags().StringArray("extract", nil, `extract a value from the JSON body, "name=path" or "path" (repeatable)`)
	sendCmd.Flags().String("schema", "", "validate the JSON body against a JSON Schema file")
}
