// Package resources defines the go-command messages and handlers for resource
// mutations. Console controllers talk to the gateway directly; this layer
// exists for scripted and audited mutations (imports, bulk jobs) that need
// the full command pipeline.
package resources

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// CreateMessage requests creation of one resource record.
type CreateMessage struct {
	Resource string
	Payload  map[string]any
	Actor    string
}

func (CreateMessage) Type() string { return "admin.resource.create" }

func (m CreateMessage) Validate() error {
	errs := validation.Errors{}
	if strings.TrimSpace(m.Resource) == "" {
		errs["resource"] = validation.NewError("validation_required", "cannot be blank")
	}
	if len(m.Payload) == 0 {
		errs["payload"] = validation.NewError("validation_required", "cannot be empty")
	}
	return errs.Filter()
}

// UpdateMessage requests a full update of one record.
type UpdateMessage struct {
	Resource string
	ID       string
	Payload  map[string]any
	Actor    string
}

func (UpdateMessage) Type() string { return "admin.resource.update" }

func (m UpdateMessage) Validate() error {
	errs := validation.Errors{}
	if strings.TrimSpace(m.Resource) == "" {
		errs["resource"] = validation.NewError("validation_required", "cannot be blank")
	}
	if strings.TrimSpace(m.ID) == "" {
		errs["id"] = validation.NewError("validation_required", "cannot be blank")
	}
	if len(m.Payload) == 0 {
		errs["payload"] = validation.NewError("validation_required", "cannot be empty")
	}
	return errs.Filter()
}

// DeleteMessage requests removal of one record.
type DeleteMessage struct {
	Resource string
	ID       string
	Actor    string
}

func (DeleteMessage) Type() string { return "admin.resource.delete" }

func (m DeleteMessage) Validate() error {
	errs := validation.Errors{}
	if strings.TrimSpace(m.Resource) == "" {
		errs["resource"] = validation.NewError("validation_required", "cannot be blank")
	}
	if strings.TrimSpace(m.ID) == "" {
		errs["id"] = validation.NewError("validation_required", "cannot be blank")
	}
	return errs.Filter()
}

// StatusMessage requests the status-only update exposed by order-style
// resources.
type StatusMessage struct {
	Resource string
	ID       string
	Status   string
	Actor    string

	// Optional shipping details accepted by the order status endpoint.
	TrackingNumber string
	ShippingDate   string
}

func (StatusMessage) Type() string { return "admin.resource.status" }

func (m StatusMessage) Validate() error {
	errs := validation.Errors{}
	if strings.TrimSpace(m.Resource) == "" {
		errs["resource"] = validation.NewError("validation_required", "cannot be blank")
	}
	if strings.TrimSpace(m.ID) == "" {
		errs["id"] = validation.NewError("validation_required", "cannot be blank")
	}
	if strings.TrimSpace(m.Status) == "" {
		errs["status"] = validation.NewError("validation_required", "cannot be blank")
	}
	return errs.Filter()
}
