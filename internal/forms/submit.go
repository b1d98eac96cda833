package forms

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/nutriwell/go-admin/internal/catalog"
	"github.com/nutriwell/go-admin/internal/gateway"
)

// Validate runs client-side validation over the current draft and stores the
// resulting field errors. Returns ErrValidationFailed when anything failed.
func (c *Controller) Validate() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	payload := c.buildPayload()
	errs := c.validateDraft(payload)
	if len(errs) > 0 {
		c.fieldErrors = errs
		return ErrValidationFailed
	}
	return nil
}

// Submit validates the draft and sends it to the API: POST in create mode,
// PUT in edit mode. Server field errors are merged into the draft's field
// errors. A second call while one is in flight fails fast.
func (c *Controller) Submit(ctx context.Context) (map[string]any, error) {
	c.mu.Lock()
	if c.submitting {
		c.mu.Unlock()
		return nil, ErrSubmitInFlight
	}
	c.submitting = true

	payload := c.buildPayload()
	if errs := c.validateDraft(payload); len(errs) > 0 {
		c.fieldErrors = errs
		c.submitting = false
		c.mu.Unlock()
		return nil, ErrValidationFailed
	}
	recordID := c.recordID
	c.mu.Unlock()

	var (
		record map[string]any
		err    error
	)
	if recordID == "" {
		record, err = c.gateway.Create(ctx, c.schema.Name, payload)
	} else {
		record, err = c.gateway.Update(ctx, c.schema.Name, recordID, payload)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.submitting = false

	if err != nil {
		if apiErr, ok := gateway.AsAPIError(err); ok && apiErr.HasFieldErrors() {
			for _, field := range apiErr.Fields {
				if field.Field != "" {
					c.fieldErrors[field.Field] = field.Message
				}
			}
		}
		c.logger.Error("forms.submit.failed", "resource", c.schema.Name, "id", recordID, "error", err)
		return nil, err
	}

	if id := gateway.RecordID(record); id != "" {
		c.recordID = id
	}
	c.fieldErrors = map[string]string{}
	c.logger.Info("forms.submit.done", "resource", c.schema.Name, "id", c.recordID)
	return record, nil
}

// buildPayload assembles the request body from the draft: blank list rows are
// dropped, record rows with every sub-field blank are dropped, and numeric
// strings are coerced. Must be called with the lock held.
func (c *Controller) buildPayload() map[string]any {
	payload := make(map[string]any, len(c.draft))
	for key, value := range c.draft {
		if excludedKeys[key] {
			continue
		}
		switch {
		case c.schema.IsListField(key):
			payload[key] = compactList(value)
		case c.schema.IsRecordList(key):
			payload[key] = compactRecordList(value)
		case isNumeric(c.schema, key):
			if number, ok := coerceNumber(value); ok {
				payload[key] = number
			}
		default:
			if s, ok := value.(string); ok {
				payload[key] = strings.TrimSpace(s)
				continue
			}
			payload[key] = value
		}
	}
	return payload
}

// validateDraft checks required fields and numeric bounds from the draft,
// then the optional JSON-Schema document against the assembled payload.
// Must be called with the lock held.
func (c *Controller) validateDraft(payload map[string]any) map[string]string {
	errs := validation.Errors{}

	for _, field := range c.schema.Required {
		if !hasValue(payload[field]) {
			errs[field] = validation.NewError("validation_required", "cannot be blank")
		}
	}

	for field, bounds := range c.schema.Numeric {
		raw := c.draft[field]
		if !hasValue(raw) {
			continue
		}
		number, ok := coerceNumber(raw)
		if !ok {
			errs[field] = validation.NewError("validation_number", "must be a number")
			continue
		}
		if bounds.Min != nil && number < *bounds.Min {
			errs[field] = validation.NewError("validation_min",
				fmt.Sprintf("must be at least %s", trimFloat(*bounds.Min)))
		}
		if bounds.Max != nil && number > *bounds.Max {
			errs[field] = validation.NewError("validation_max",
				fmt.Sprintf("must be at most %s", trimFloat(*bounds.Max)))
		}
	}

	out := map[string]string{}
	for field, err := range errs {
		out[field] = err.Error()
	}
	if c.document != nil {
		mergeDocumentErrors(out, c.document, payload)
	}
	return out
}

// mergeDocumentErrors validates the payload against the compiled document and
// maps leaf failures onto field names, without clobbering messages already
// produced by the draft checks.
func mergeDocumentErrors(out map[string]string, document *jsonschema.Schema, payload map[string]any) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return
	}
	var decoded any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return
	}
	err = document.Validate(decoded)
	if err == nil {
		return
	}
	validationErr, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return
	}
	for _, leaf := range leafCauses(validationErr) {
		field := fieldFromLocation(leaf.InstanceLocation)
		if field == "" {
			continue
		}
		if _, exists := out[field]; !exists {
			out[field] = leaf.Message
		}
	}
}

func leafCauses(err *jsonschema.ValidationError) []*jsonschema.ValidationError {
	if len(err.Causes) == 0 {
		return []*jsonschema.ValidationError{err}
	}
	var leaves []*jsonschema.ValidationError
	for _, cause := range err.Causes {
		leaves = append(leaves, leafCauses(cause)...)
	}
	return leaves
}

func fieldFromLocation(location string) string {
	parts := strings.Split(strings.TrimPrefix(location, "/"), "/")
	if len(parts) == 0 {
		return ""
	}
	return parts[0]
}

func hasValue(value any) bool {
	switch typed := value.(type) {
	case nil:
		return false
	case string:
		return strings.TrimSpace(typed) != ""
	case []string:
		for _, item := range typed {
			if strings.TrimSpace(item) != "" {
				return true
			}
		}
		return false
	default:
		return true
	}
}

func coerceNumber(value any) (float64, bool) {
	switch typed := value.(type) {
	case float64:
		return typed, true
	case int:
		return float64(typed), true
	case string:
		number, err := strconv.ParseFloat(strings.TrimSpace(typed), 64)
		return number, err == nil
	default:
		return 0, false
	}
}

func compactList(value any) []string {
	entries, _ := value.([]string)
	out := make([]string, 0, len(entries))
	for _, entry := range entries {
		if trimmed := strings.TrimSpace(entry); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func compactRecordList(value any) []map[string]string {
	entries, _ := value.([]map[string]string)
	out := make([]map[string]string, 0, len(entries))
	for _, entry := range entries {
		blank := true
		for _, sub := range entry {
			if strings.TrimSpace(sub) != "" {
				blank = false
				break
			}
		}
		if blank {
			continue
		}
		kept := make(map[string]string, len(entry))
		for key, sub := range entry {
			kept[key] = strings.TrimSpace(sub)
		}
		out = append(out, kept)
	}
	return out
}

func isNumeric(schema catalog.Schema, key string) bool {
	_, ok := schema.Numeric[key]
	return ok
}

func trimFloat(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}
