package classifier

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

const numberArray = `{"type": "array", "items": {"type": "number"}}`
const featureArray = `{"type": "array", "items": {"type": "number"}, "minItems": 10, "maxItems": 10}`

var modelSchema = mustSchema(`{
	"type": "object",
	"required": ["kind"],
	"properties": {
		"kind": {"enum": ["logistic_regression", "decision_tree"]},
		"feature_names": {"type": "array", "items": {"type": "string"}},
		"coef": ` + numberArray + `,
		"intercept": {"type": "number"},
		"threshold": {"oneOf": [{"type": "number"}, ` + numberArray + `]},
		"children_left": {"type": "array", "items": {"type": "integer"}},
		"children_right": {"type": "array", "items": {"type": "integer"}},
		"feature": {"type": "array", "items": {"type": "integer"}},
		"value": {"type": "array", "items": ` + numberArray + `},
		"classes": {"type": "array", "items": {"type": "integer"}}
	}
}`)

var scalerSchema = mustSchema(`{
	"type": "object",
	"properties": {
		"kind": {"enum": ["", "standard", "minmax"]},
		"feature_names": {"type": "array", "items": {"type": "string"}},
		"mean": ` + featureArray + `,
		"min": ` + featureArray + `,
		"scale": ` + featureArray + `
	}
}`)

func mustSchema(s string) *gojsonschema.Schema {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(s))
	if err != nil {
		panic(fmt.Sprintf("invalid artifact schema: %v", err))
	}
	return schema
}

// validateArtifact checks data against schema before it is decoded
func validateArtifact(schema *gojsonschema.Schema, data []byte) error {
	result, err := schema.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return fmt.Errorf("failed to parse artifact: %w", err)
	}
	if !result.Valid() {
		errs := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			errs[i] = desc.String()
		}
		return fmt.Errorf("artifact validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}
