package utils

import (
	"embed" // Embedded schema files
	"fmt"   // Message formatting

	"github.com/xeipuuv/gojsonschema" // JSON schema validation
)

//go:embed schemas/*.json
var schemaFS embed.FS

// Names of the embedded JSON schemas
const (
	SchemaLocation       = "location"
	SchemaOperatingHours = "operatingHours"
	SchemaSettings       = "settings"
	SchemaProduct        = "product"
)

var schemas = mustLoadSchemas()

func mustLoadSchemas() map[string]*gojsonschema.Schema {
	out := make(map[string]*gojsonschema.Schema)
	for _, name := range []string{SchemaLocation, SchemaOperatingHours, SchemaSettings, SchemaProduct} {
		raw, err := schemaFS.ReadFile("schemas/" + name + ".json")
		if err != nil {
			panic(err)
		}
		schema, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(raw))
		if err != nil {
			panic(fmt.Sprintf("schema %s: %v", name, err))
		}
		out[name] = schema
	}
	return out
}

// ValidateJSON checks a raw JSON document against the named schema
func ValidateJSON(name string, doc []byte) ValidationResult {
	schema, ok := schemas[name]
	if !ok {
		return invalid(fmt.Sprintf("Unknown schema %q.", name))
	}
	res, err := schema.Validate(gojsonschema.NewBytesLoader(doc))
	if err != nil {
		return invalid(fmt.Sprintf("%s must be valid JSON.", name))
	}
	if !res.Valid() {
		first := res.Errors()[0]
		return invalid(fmt.Sprintf("Invalid %s: %s: %s", name, first.Field(), first.Description()))
	}
	return valid()
}
