// Package forms implements the generic resource form controller: draft state,
// list-valued and record-valued field editing, client-side validation, and
// submit with server field-error merging. One controller serves both create
// and edit flows for a resource.
package forms

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/goliatone/go-slug"
	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/nutriwell/go-admin/internal/catalog"
	"github.com/nutriwell/go-admin/internal/gateway"
	"github.com/nutriwell/go-admin/internal/logging"
	"github.com/nutriwell/go-admin/pkg/interfaces"
)

var (
	// ErrSubmitInFlight is returned when Submit is called while a previous
	// submit has not finished.
	ErrSubmitInFlight = errors.New("forms: submit already in flight")
	// ErrValidationFailed is returned when the draft fails client-side
	// validation; details are in FieldErrors.
	ErrValidationFailed = errors.New("forms: draft failed validation")
)

// bookkeeping keys never copied into drafts or payloads.
var excludedKeys = map[string]bool{
	"_id":       true,
	"id":        true,
	"createdAt": true,
	"updatedAt": true,
	"__v":       true,
}

// Gateway is the slice of the API client the form controller needs.
type Gateway interface {
	Create(ctx context.Context, resource string, payload map[string]any) (map[string]any, error)
	Update(ctx context.Context, resource, id string, payload map[string]any) (map[string]any, error)
}

// Controller holds the form state for one resource.
type Controller struct {
	schema   catalog.Schema
	gateway  Gateway
	logger   interfaces.Logger
	slugger  slug.Normalizer
	document *jsonschema.Schema

	mu          sync.Mutex
	draft       map[string]any
	fieldErrors map[string]string
	recordID    string
	submitting  bool
}

// Option mutates the controller during construction.
type Option func(*Controller)

// WithLogger injects the forms logger.
func WithLogger(logger interfaces.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithDocument enables JSON-Schema payload validation against a compiled
// document contract.
func WithDocument(document *jsonschema.Schema) Option {
	return func(c *Controller) {
		c.document = document
	}
}

// defaultSlugger transliterates before applying the strict slug shape, so
// accented titles keep their letters ("Café" suggests "cafe", not "caf").
var defaultSlugger = slug.NormalizerFunc(func(value string) (string, error) {
	transliterated, err := slug.HashNormalize(value)
	if err != nil {
		return "", err
	}
	return slug.Normalize(transliterated)
})

// New builds a form controller with a fresh create-mode draft.
func New(schema catalog.Schema, gw Gateway, opts ...Option) *Controller {
	c := &Controller{
		schema:  schema,
		gateway: gw,
		logger:  logging.NoOp(),
		slugger: defaultSlugger,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.resetLocked()
	return c
}

// Reset discards the draft and returns to an empty create-mode form.
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resetLocked()
}

func (c *Controller) resetLocked() {
	draft := map[string]any{}
	if status := c.schema.DefaultStatus(); status != "" {
		draft["status"] = status
	}
	for _, field := range c.schema.ListFields {
		draft[field] = []string{""}
	}
	for field, subfields := range c.schema.RecordLists {
		draft[field] = []map[string]string{emptyEntry(subfields)}
	}
	for _, field := range c.schema.RecordFields {
		draft[field] = map[string]string{}
	}
	c.draft = draft
	c.fieldErrors = map[string]string{}
	c.recordID = ""
	c.submitting = false
}

// LoadRecord copies a fetched record into the draft and switches the
// controller to edit mode. Bookkeeping keys are dropped; list-shaped fields
// keep at least one editable row.
func (c *Controller) LoadRecord(record map[string]any) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.resetLocked()
	c.recordID = gateway.RecordID(record)

	for key, value := range record {
		if excludedKeys[key] {
			continue
		}
		switch {
		case c.schema.IsListField(key):
			c.draft[key] = normalizeList(value)
		case c.schema.IsRecordList(key):
			c.draft[key] = normalizeRecordList(value, c.schema.RecordLists[key])
		case isRecordField(c.schema, key):
			c.draft[key] = normalizeRecord(value)
		default:
			c.draft[key] = value
		}
	}
}

// EditingID returns the id of the record being edited, or "" in create mode.
func (c *Controller) EditingID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.recordID
}

// Submitting reports whether a submit is currently in flight.
func (c *Controller) Submitting() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.submitting
}

// Field returns the current draft value for a field.
func (c *Controller) Field(name string) any {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.draft[name]
}

// SetField replaces a draft value and clears that field's validation error.
func (c *Controller) SetField(name string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.draft[name] = value
	delete(c.fieldErrors, name)
}

// SetRecordField sets one key inside a flat nested group such as
// nutritionFacts.
func (c *Controller) SetRecordField(field, key, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	group, _ := c.draft[field].(map[string]string)
	if group == nil {
		group = map[string]string{}
	}
	group[key] = value
	c.draft[field] = group
	delete(c.fieldErrors, field)
}

// FieldErrors returns the current field-level validation messages.
func (c *Controller) FieldErrors() map[string]string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[string]string, len(c.fieldErrors))
	for field, msg := range c.fieldErrors {
		out[field] = msg
	}
	return out
}

// AddListEntry appends an empty row to a list-shaped field.
func (c *Controller) AddListEntry(field string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch {
	case c.schema.IsListField(field):
		entries, _ := c.draft[field].([]string)
		c.draft[field] = append(entries, "")
	case c.schema.IsRecordList(field):
		entries, _ := c.draft[field].([]map[string]string)
		c.draft[field] = append(entries, emptyEntry(c.schema.RecordLists[field]))
	}
}

// RemoveListEntry drops a row from a list-shaped field. The last remaining
// row is cleared instead of removed so the form always shows one input.
func (c *Controller) RemoveListEntry(field string, index int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch {
	case c.schema.IsListField(field):
		entries, _ := c.draft[field].([]string)
		if index < 0 || index >= len(entries) {
			return
		}
		if len(entries) == 1 {
			c.draft[field] = []string{""}
			return
		}
		c.draft[field] = append(entries[:index], entries[index+1:]...)
	case c.schema.IsRecordList(field):
		entries, _ := c.draft[field].([]map[string]string)
		if index < 0 || index >= len(entries) {
			return
		}
		if len(entries) == 1 {
			c.draft[field] = []map[string]string{emptyEntry(c.schema.RecordLists[field])}
			return
		}
		c.draft[field] = append(entries[:index], entries[index+1:]...)
	}
}

// UpdateListEntry replaces the value of one row in a scalar list field.
func (c *Controller) UpdateListEntry(field string, index int, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entries, _ := c.draft[field].([]string)
	if index < 0 || index >= len(entries) {
		return
	}
	entries[index] = value
	delete(c.fieldErrors, field)
}

// UpdateRecordEntry replaces one sub-field of one row in a record list.
func (c *Controller) UpdateRecordEntry(field string, index int, subfield, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entries, _ := c.draft[field].([]map[string]string)
	if index < 0 || index >= len(entries) {
		return
	}
	entries[index][subfield] = value
	delete(c.fieldErrors, field)
}

// SuggestSlug derives a URL slug from the draft's title field.
func (c *Controller) SuggestSlug() (string, error) {
	c.mu.Lock()
	title, _ := c.draft[c.schema.TitleField].(string)
	c.mu.Unlock()
	if strings.TrimSpace(title) == "" {
		return "", nil
	}
	return c.slugger.Normalize(title)
}

func emptyEntry(subfields []string) map[string]string {
	entry := make(map[string]string, len(subfields))
	for _, name := range subfields {
		entry[name] = ""
	}
	return entry
}

func isRecordField(schema catalog.Schema, name string) bool {
	for _, field := range schema.RecordFields {
		if field == name {
			return true
		}
	}
	return false
}

func normalizeList(value any) []string {
	var out []string
	switch typed := value.(type) {
	case []string:
		out = append(out, typed...)
	case []any:
		for _, item := range typed {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
	}
	if len(out) == 0 {
		out = []string{""}
	}
	return out
}

func normalizeRecordList(value any, subfields []string) []map[string]string {
	var out []map[string]string
	items, _ := value.([]any)
	for _, item := range items {
		raw, ok := item.(map[string]any)
		if !ok {
			continue
		}
		entry := emptyEntry(subfields)
		for key, sub := range raw {
			if s, ok := sub.(string); ok {
				entry[key] = s
			}
		}
		out = append(out, entry)
	}
	if len(out) == 0 {
		out = []map[string]string{emptyEntry(subfields)}
	}
	return out
}

func normalizeRecord(value any) map[string]string {
	out := map[string]string{}
	raw, _ := value.(map[string]any)
	for key, sub := range raw {
		switch typed := sub.(type) {
		case string:
			out[key] = typed
		case float64:
			out[key] = trimFloat(typed)
		}
	}
	return out
}
