// Package jsonschema validates JSON documents against JSON Schema for
// response-body assertions.
package jsonschema

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Validate reports whether doc conforms to schema. The error is non-nil
// only when the schema itself or the document cannot be parsed.
func Validate(doc, schema string) (bool, error) {
	ok, _, err := ValidateWithErrors(doc, schema)
	return ok, err
}

// ValidateWithErrors is Validate plus the individual violation messages,
// one per failing schema keyword.
func ValidateWithErrors(doc, schema string) (bool, []string, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("schema.json", strings.NewReader(schema)); err != nil {
		return false, nil, fmt.Errorf("invalid schema: %w", err)
	}
	compiled, err := compiler.Compile("schema.json")
	if err != nil {
		return false, nil, fmt.Errorf("invalid schema: %w", err)
	}

	var value interface{}
	if err := json.Unmarshal([]byte(doc), &value); err != nil {
		return false, nil, fmt.Errorf("invalid JSON: %w", err)
	}

	err = compiled.Validate(value)
	if err == nil {
		return true, nil, nil
	}

	var ve *jsonschema.ValidationError
	if verr, ok := err.(*jsonschema.ValidationError); ok {
		ve = verr
	} else {
		return false, []string{err.Error()}, nil
	}

	return false, flatten(ve), nil
}

// flatten walks the validation error tree, keeping the leaf messages that
// name concrete violations.
func flatten(ve *jsonschema.ValidationError) []string {
	if len(ve.Causes) == 0 {
		loc := ve.InstanceLocation
		if loc == "" {
			loc = "/"
		}
		return []string{fmt.Sprintf("%s: %s", loc, ve.Message)}
	}
	var messages []string
	for _, cause := range ve.Causes {
		messages = append(messages, flatten(cause)...)
	}
	return messages
}
