package aspects

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// BuildAspectsJSONSchema returns a JSON-Schema (draft 2020-12 subset) as a
// generic map: one required string property per requested concept value,
// nothing else allowed. Used locally to validate the model output after
// normalization.
func BuildAspectsJSONSchema(conceptValues []string) map[string]any {
	props := make(map[string]any, len(conceptValues))
	for _, v := range conceptValues {
		props[v] = map[string]any{"type": "string"}
	}
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties":           props,
		"required":             conceptValues,
	}
}

// ValidateJSONAgainstSchema compiles the schema map and validates raw JSON
// against it.
func ValidateJSONAgainstSchema(schema map[string]any, raw []byte) error {
	sb, err := json.Marshal(schema)
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("aspects.json", bytes.NewReader(sb)); err != nil {
		return fmt.Errorf("add schema resource: %w", err)
	}
	sch, err := compiler.Compile("aspects.json")
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return fmt.Errorf("decode output: %w", err)
	}
	return sch.Validate(v)
}
