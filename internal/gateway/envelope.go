package gateway

import (
	"encoding/json"
	"strings"
)

// Envelope is the wrapper convention every API response follows:
// { success, data, error, message, errors[], totalPages? }.
type Envelope struct {
	Success    bool            `json:"success"`
	Data       json.RawMessage `json:"data,omitempty"`
	Error      string          `json:"error,omitempty"`
	Message    string          `json:"message,omitempty"`
	Errors     []envelopeIssue `json:"errors,omitempty"`
	TotalPages int             `json:"totalPages,omitempty"`
}

// envelopeIssue is one structured validation failure. The API names the field
// either "path" or "param" depending on the validator that produced it.
type envelopeIssue struct {
	Path  string `json:"path,omitempty"`
	Param string `json:"param,omitempty"`
	Msg   string `json:"msg"`
}

func (i envelopeIssue) field() string {
	if strings.TrimSpace(i.Path) != "" {
		return i.Path
	}
	return i.Param
}

// FieldErrors converts the envelope's structured issues into FieldError pairs.
func (e *Envelope) FieldErrors() []FieldError {
	if e == nil || len(e.Errors) == 0 {
		return nil
	}
	fields := make([]FieldError, 0, len(e.Errors))
	for _, issue := range e.Errors {
		fields = append(fields, FieldError{Field: issue.field(), Message: issue.Msg})
	}
	return fields
}

// DecodeObject unmarshals the envelope data as a single record.
func (e *Envelope) DecodeObject() (map[string]any, error) {
	if e == nil || len(e.Data) == 0 {
		return nil, nil
	}
	record := map[string]any{}
	if err := json.Unmarshal(e.Data, &record); err != nil {
		return nil, err
	}
	return record, nil
}

// DecodeArray unmarshals the envelope data as a record collection.
func (e *Envelope) DecodeArray() ([]map[string]any, error) {
	if e == nil || len(e.Data) == 0 {
		return nil, nil
	}
	records := []map[string]any{}
	if err := json.Unmarshal(e.Data, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// RecordID extracts the server-assigned identifier from a record, accepting
// both the mongo-style "_id" and plain "id" keys.
func RecordID(record map[string]any) string {
	for _, key := range []string{"_id", "id"} {
		if raw, ok := record[key]; ok {
			if id, ok := raw.(string); ok && id != "" {
				return id
			}
		}
	}
	return ""
}
