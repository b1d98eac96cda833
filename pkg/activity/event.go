// Package activity defines the neutral activity event emitted when console
// operations mutate resources. Sinks translate events into whatever audit
// backend the host application runs.
package activity

import (
	"context"
	"time"
)

// Event is one audit-worthy action taken through the console.
type Event struct {
	// Verb is the action taken: create, update, delete, status, import.
	Verb string
	// ActorID identifies the operator, when known.
	ActorID string
	// UserID identifies the affected user account, when the object is one.
	UserID string
	// TenantID scopes the event for multi-tenant installs.
	TenantID string
	// ObjectType is the resource name, e.g. "product".
	ObjectType string
	// ObjectID is the server-assigned record identifier.
	ObjectID string
	// Channel tags the surface that produced the event.
	Channel string
	// DefinitionCode is an optional notification definition key.
	DefinitionCode string
	// Recipients optionally lists notification targets.
	Recipients []string
	// Metadata carries free-form context.
	Metadata map[string]any
	// OccurredAt is when the action happened.
	OccurredAt time.Time
}

// Notifier receives events. The zero-value NoOpNotifier discards them.
type Notifier interface {
	Notify(ctx context.Context, event Event) error
}

// NoOpNotifier discards every event.
type NoOpNotifier struct{}

func (NoOpNotifier) Notify(context.Context, Event) error { return nil }
