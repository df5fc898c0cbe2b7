// Package jsonpath extracts values from JSON documents for display and
// assertions. Paths use gjson syntax (users.0.name); the JSONPath-style
// prefix "$." is accepted and stripped for convenience.
package jsonpath

import (
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
)

// Extract returns the value at path within doc, rendered as a string.
func Extract(doc, path string) (string, error) {
	if doc == "" {
		return "", fmt.Errorf("empty JSON document")
	}
	if path == "" {
		return "", fmt.Errorf("empty path")
	}

	result := gjson.Get(doc, normalize(path))
	if !result.Exists() {
		return "", fmt.Errorf("path not found: %s", path)
	}
	if result.Type == gjson.Null {
		return "null", nil
	}
	return result.String(), nil
}

// ExtractAll resolves a map of name -> path against doc. All paths are
// attempted; the error reports every path that failed to resolve.
func ExtractAll(doc string, paths map[string]string) (map[string]string, error) {
	values := make(map[string]string, len(paths))
	var failed []string

	for name, path := range paths {
		value, err := Extract(doc, path)
		if err != nil {
			failed = append(failed, fmt.Sprintf("%s: %v", name, err))
			continue
		}
		values[name] = value
	}

	if len(failed) > 0 {
		return values, fmt.Errorf("extraction failed: %s", strings.Join(failed, "; "))
	}
	return values, nil
}

// normalize converts a JSONPath-flavored expression into gjson syntax:
// "$.users[0].name" becomes "users.0.name". Plain gjson paths pass
// through unchanged.
func normalize(path string) string {
	if path == "$" {
		return "@this"
	}
	path = strings.TrimPrefix(path, "$.")
	path = strings.ReplaceAll(path, "[", ".")
	path = strings.ReplaceAll(path, "]", "")
	return path
}
