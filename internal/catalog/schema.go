package catalog

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

var (
	ErrResourceNameRequired = errors.New("catalog: resource name is required")
	ErrResourceUnknown      = errors.New("catalog: unknown resource")
	ErrPageSizeInvalid      = errors.New("catalog: page size must be positive")
	ErrSearchFieldsRequired = errors.New("catalog: at least one search field is required")
)

// Bounds constrains a numeric draft field. Nil ends are unbounded.
type Bounds struct {
	Min *float64
	Max *float64
}

// MinZero is the common "price >= 0" style bound.
func MinZero() Bounds {
	zero := 0.0
	return Bounds{Min: &zero}
}

// TimeFields names the draft fields a derived schedule status is computed
// from. Empty values mean the resource has no derived status.
type TimeFields struct {
	Date  string
	Start string
	End   string
}

// Schema declares everything the generic list/form controllers need to manage
// one resource type: endpoint layout, filter surface, validation rules, and
// the shape of list-valued and record-valued draft fields.
type Schema struct {
	// Name is the singular resource identifier, e.g. "product".
	Name string
	// Plural is the endpoint path segment, e.g. "products".
	Plural string
	// TitleField names the field used for prompts and slug suggestions.
	TitleField string

	// SearchFields are matched case-insensitively by the free-text filter.
	SearchFields []string
	// EnumFilters are matched exactly (category, status, plan).
	EnumFilters []string

	// Required fields must be non-empty before submit.
	Required []string
	// Numeric fields are coerced from string form input and bound-checked.
	Numeric map[string]Bounds
	// ListFields hold ordered string entries (ingredients, tags, videos).
	ListFields []string
	// RecordLists hold ordered record entries keyed by sub-field name
	// (e.g. meals: [{name, description}]).
	RecordLists map[string][]string
	// RecordFields are flat nested key/value groups (nutritionFacts,
	// shippingAddress).
	RecordFields []string

	// Statuses enumerates the domain status values, first entry is the
	// create default.
	Statuses []string

	// UploadFields maps a draft field to its upload kind (thumbnail, video,
	// image).
	UploadFields map[string]string
	// UseAssetHost routes this resource's uploads at the configured
	// third-party asset host instead of the platform endpoint.
	UseAssetHost bool

	// PageSize is the client-side page window size.
	PageSize int
	// ServerPaged resources paginate via ?page=&limit= on the API instead of
	// slicing client-side (orders).
	ServerPaged bool
	// HasStatusRoute adds the PUT /{plural}/{id}/status endpoint (orders).
	HasStatusRoute bool

	// Schedule wires the derived upcoming/ongoing/completed status.
	Schedule TimeFields

	// Document optionally carries a JSON-Schema payload contract enforced
	// before submit when the schema_validation feature is on.
	Document map[string]any
}

// Validate reports structural problems in a schema declaration.
func (s Schema) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return ErrResourceNameRequired
	}
	if s.PageSize <= 0 {
		return fmt.Errorf("%w: %s", ErrPageSizeInvalid, s.Name)
	}
	if len(s.SearchFields) == 0 {
		return fmt.Errorf("%w: %s", ErrSearchFieldsRequired, s.Name)
	}
	return nil
}

// EndpointPlural returns the endpoint segment, defaulting to name + "s".
func (s Schema) EndpointPlural() string {
	if s.Plural != "" {
		return s.Plural
	}
	return s.Name + "s"
}

// DefaultStatus returns the status assigned to fresh drafts.
func (s Schema) DefaultStatus() string {
	if len(s.Statuses) == 0 {
		return ""
	}
	return s.Statuses[0]
}

// HasStatus reports whether value is a declared status for this resource.
func (s Schema) HasStatus(value string) bool {
	for _, status := range s.Statuses {
		if status == value {
			return true
		}
	}
	return false
}

// IsListField reports whether name is a scalar list field.
func (s Schema) IsListField(name string) bool {
	for _, field := range s.ListFields {
		if field == name {
			return true
		}
	}
	return false
}

// IsRecordList reports whether name is a record-shaped list field.
func (s Schema) IsRecordList(name string) bool {
	_, ok := s.RecordLists[name]
	return ok
}

// CompileDocument compiles the schema's JSON-Schema payload contract.
// Returns (nil, nil) when the schema declares no document.
func (s Schema) CompileDocument() (*jsonschema.Schema, error) {
	if len(s.Document) == 0 {
		return nil, nil
	}
	raw, err := json.Marshal(s.Document)
	if err != nil {
		return nil, fmt.Errorf("catalog: marshal %s document: %w", s.Name, err)
	}
	compiler := jsonschema.NewCompiler()
	resource := s.Name + ".schema.json"
	if err := compiler.AddResource(resource, bytes.NewReader(raw)); err != nil {
		return nil, fmt.Errorf("catalog: add %s document: %w", s.Name, err)
	}
	compiled, err := compiler.Compile(resource)
	if err != nil {
		return nil, fmt.Errorf("catalog: compile %s document: %w", s.Name, err)
	}
	return compiled, nil
}

// Catalog is a named set of resource schemas.
type Catalog struct {
	schemas map[string]Schema
	order   []string
}

// New builds a catalog from the supplied schemas, validating each.
func New(schemas ...Schema) (*Catalog, error) {
	c := &Catalog{schemas: make(map[string]Schema, len(schemas))}
	for _, schema := range schemas {
		if err := schema.Validate(); err != nil {
			return nil, err
		}
		if _, exists := c.schemas[schema.Name]; exists {
			return nil, fmt.Errorf("catalog: duplicate resource %q", schema.Name)
		}
		c.schemas[schema.Name] = schema
		c.order = append(c.order, schema.Name)
	}
	return c, nil
}

// Get returns the schema for a resource name.
func (c *Catalog) Get(name string) (Schema, error) {
	schema, ok := c.schemas[name]
	if !ok {
		return Schema{}, fmt.Errorf("%w: %s", ErrResourceUnknown, name)
	}
	return schema, nil
}

// Names returns resource names in declaration order.
func (c *Catalog) Names() []string {
	return append([]string(nil), c.order...)
}
