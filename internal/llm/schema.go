package llm

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/loomi-hq/hr-service/constants"
)

// BuildFieldSchema returns a JSON-Schema (draft 2020-12 subset) for one
// batched extraction response: every requested field must be present, each
// either a string, a number (models return bare salaries as JSON numbers),
// or null. Extra keys are tolerated; only the requested ones are read.
func BuildFieldSchema(missing []constants.Field) map[string]any {
	props := make(map[string]any, len(missing))
	required := make([]string, 0, len(missing))
	for _, f := range missing {
		props[string(f)] = map[string]any{
			"type": []string{"string", "number", "null"},
		}
		required = append(required, string(f))
	}
	return map[string]any{
		"type":       "object",
		"properties": props,
		"required":   required,
	}
}

// ValidateAgainstSchema checks raw JSON against a schema map.
func ValidateAgainstSchema(schemaMap map[string]any, data []byte) error {
	b, err := json.Marshal(schemaMap)
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("schema.json", bytes.NewReader(b)); err != nil {
		return fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("schema.json")
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal data: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("json does not match schema: %w", err)
	}
	return nil
}
