package api

import (
	"github.com/xeipuuv/gojsonschema"
)

// gourmetSchema is the minimal shape a payload needs before it is decoded:
// an object with results.shop as an array.
const gourmetSchema = `{
	"type": "object",
	"required": ["results"],
	"properties": {
		"results": {
			"type": "object",
			"required": ["shop"],
			"properties": {
				"shop": {
					"type": "array",
					"items": {"type": "object"}
				}
			}
		}
	}
}`

var gourmetSchemaCompiled = mustSchema(gourmetSchema)

func mustSchema(s string) *gojsonschema.Schema {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(s))
	if err != nil {
		panic(err)
	}
	return schema
}

// validatePayload returns the schema violations of body, or a single entry
// describing why body could not be read as JSON at all.
func validatePayload(body []byte) []string {
	result, err := gourmetSchemaCompiled.Validate(gojsonschema.NewBytesLoader(body))
	if err != nil {
		return []string{err.Error()}
	}
	if result.Valid() {
		return nil
	}
	violations := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		violations = append(violations, desc.String())
	}
	return violations
}
