package catalog

import (
	"fmt"
	"strings"

	crud "github.com/goliatone/go-crud"
)

// RegisterDocuments publishes every schema document in the catalog into the
// go-crud schema registry so host applications can introspect the resource
// contracts (form generation, OpenAPI exports).
func RegisterDocuments(c *Catalog) error {
	for _, name := range c.Names() {
		schema, err := c.Get(name)
		if err != nil {
			return err
		}
		if len(schema.Document) == 0 {
			continue
		}
		doc := registryDocument(schema)
		if ok := crud.RegisterSchemaDocument(schema.Name, schema.EndpointPlural(), doc); !ok {
			return fmt.Errorf("catalog: crud registry rejected document for %s", schema.Name)
		}
	}
	return nil
}

func registryDocument(schema Schema) map[string]any {
	return map[string]any{
		"openapi": "3.1.0",
		"components": map[string]any{
			"schemas": map[string]any{
				componentName(schema.Name): schema.Document,
			},
		},
		"x-admin": map[string]any{
			"resource":      schema.Name,
			"endpoint":      schema.EndpointPlural(),
			"search_fields": schema.SearchFields,
			"statuses":      schema.Statuses,
		},
	}
}

func componentName(resource string) string {
	parts := strings.FieldsFunc(resource, func(r rune) bool {
		return r == '-' || r == '_' || r == ' '
	})
	for i, part := range parts {
		if part == "" {
			continue
		}
		parts[i] = strings.ToUpper(part[:1]) + part[1:]
	}
	return strings.Join(parts, "")
}
