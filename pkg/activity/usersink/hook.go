// Package usersink bridges console activity events into a go-users activity
// sink.
package usersink

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/nutriwell/go-admin/pkg/activity"
	"github.com/nutriwell/go-admin/pkg/interfaces"
)

// DefaultChannel tags events that arrive without one.
const DefaultChannel = "admin"

// Hook forwards activity events to a go-users sink. Events without a verb are
// dropped silently: they carry nothing worth auditing.
type Hook struct {
	Sink interfaces.ActivitySink
}

// Notify maps the event onto the go-users record contract and logs it.
func (h Hook) Notify(ctx context.Context, event activity.Event) error {
	if h.Sink == nil || event.Verb == "" {
		return nil
	}

	record := interfaces.ActivityRecord{
		ActorID:    parseID(event.ActorID),
		UserID:     parseID(event.UserID),
		TenantID:   parseID(event.TenantID),
		Verb:       event.Verb,
		ObjectType: event.ObjectType,
		ObjectID:   event.ObjectID,
		Channel:    event.Channel,
		OccurredAt: event.OccurredAt,
	}
	if record.Channel == "" {
		record.Channel = DefaultChannel
	}
	if record.OccurredAt.IsZero() {
		record.OccurredAt = time.Now().UTC()
	}

	data := make(map[string]any, len(event.Metadata)+2)
	for key, value := range event.Metadata {
		data[key] = value
	}
	if event.DefinitionCode != "" {
		data["definition_code"] = event.DefinitionCode
	}
	if len(event.Recipients) > 0 {
		data["recipients"] = event.Recipients
	}
	if len(data) > 0 {
		record.Data = data
	}

	return h.Sink.Log(ctx, record)
}

func parseID(value string) uuid.UUID {
	if value == "" {
		return uuid.Nil
	}
	parsed, err := uuid.Parse(value)
	if err != nil {
		return uuid.Nil
	}
	return parsed
}
