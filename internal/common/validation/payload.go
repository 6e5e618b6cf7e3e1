// Package validation checks raw upstream payloads against JSON schemas
// before an adapter maps them. A failing envelope is treated as a
// malformed payload, not as partial data.
package validation

import (
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

// ValidateEnvelope validates payload against the given JSON schema.
func ValidateEnvelope(payload []byte, schema string) error {
	schemaLoader := gojsonschema.NewStringLoader(schema)
	documentLoader := gojsonschema.NewBytesLoader(payload)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	if !result.Valid() {
		errs := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			errs[i] = desc.String()
		}
		return fmt.Errorf("payload validation failed: %v", errs)
	}

	return nil
}
