package analyzer

import (
	"embed"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed schemas/*.json
var schemaFiles embed.FS

// ValidationError reports that an LLM response did not conform to the
// expected output schema.
type ValidationError struct {
	Schema string
	Issues []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("response failed %s schema validation: %s",
		e.Schema, strings.Join(e.Issues, "; "))
}

// validateAgainstSchema validates a raw JSON document against one of the
// embedded output schemas. The schema name is the filename without extension
// (e.g. "extract_job").
func validateAgainstSchema(schemaName, document string) error {
	schemaBytes, err := schemaFiles.ReadFile("schemas/" + schemaName + ".json")
	if err != nil {
		return fmt.Errorf("schema %q not found: %w", schemaName, err)
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewBytesLoader(schemaBytes),
		gojsonschema.NewStringLoader(document),
	)
	if err != nil {
		return fmt.Errorf("schema validation failed for %s: %w", schemaName, err)
	}

	if !result.Valid() {
		issues := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			issues = append(issues, fmt.Sprintf("%s: %s", desc.Field(), desc.Description()))
		}
		return &ValidationError{Schema: schemaName, Issues: issues}
	}
	return nil
}
