package usersink_test

import (
	"context"
	"testing"
	"time"

	usertypes "github.com/goliatone/go-users/pkg/types"
	"github.com/google/uuid"

	"github.com/nutriwell/go-admin/pkg/activity"
	"github.com/nutriwell/go-admin/pkg/activity/usersink"
)

type recordingSink struct {
	records []usertypes.ActivityRecord
	err     error
}

func (s *recordingSink) Log(_ context.Context, record usertypes.ActivityRecord) error {
	s.records = append(s.records, record)
	return s.err
}

func TestHookNotifyMapsEvent(t *testing.T) {
	sink := &recordingSink{}
	hook := usersink.Hook{Sink: sink}

	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	actorID := uuid.New()

	event := activity.Event{
		Verb:           "update",
		ActorID:        actorID.String(),
		ObjectType:     "product",
		ObjectID:       "68f1c2",
		Channel:        "admin",
		DefinitionCode: "product:update",
		Recipients:     []string{"ops@nutriwell.test"},
		Metadata: map[string]any{
			"field": "price",
		},
		OccurredAt: now,
	}

	if err := hook.Notify(context.Background(), event); err != nil {
		t.Fatalf("notify: %v", err)
	}

	if len(sink.records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(sink.records))
	}
	record := sink.records[0]
	if record.ActorID != actorID {
		t.Fatalf("expected actor %s got %s", actorID, record.ActorID)
	}
	if record.Verb != "update" || record.ObjectType != "product" || record.ObjectID != "68f1c2" {
		t.Fatalf("unexpected record payload: %+v", record)
	}
	if record.Channel != "admin" {
		t.Fatalf("expected channel admin got %q", record.Channel)
	}
	if record.OccurredAt != now {
		t.Fatalf("expected occurred_at %v got %v", now, record.OccurredAt)
	}
	if record.Data["definition_code"] != "product:update" {
		t.Fatalf("expected definition_code metadata got %v", record.Data["definition_code"])
	}
	if record.Data["field"] != "price" {
		t.Fatalf("expected field metadata got %v", record.Data["field"])
	}
	recipients, ok := record.Data["recipients"].([]string)
	if !ok || len(recipients) != 1 || recipients[0] != "ops@nutriwell.test" {
		t.Fatalf("expected recipients metadata got %v", record.Data["recipients"])
	}
}

func TestHookNotifyDefaultsChannelAndTimestamp(t *testing.T) {
	sink := &recordingSink{}
	hook := usersink.Hook{Sink: sink}

	if err := hook.Notify(context.Background(), activity.Event{Verb: "create", ObjectType: "order"}); err != nil {
		t.Fatalf("notify: %v", err)
	}
	record := sink.records[0]
	if record.Channel != usersink.DefaultChannel {
		t.Fatalf("expected default channel, got %q", record.Channel)
	}
	if record.OccurredAt.IsZero() {
		t.Fatal("expected timestamp to be filled in")
	}
}

func TestHookNotifySkipsMissingVerb(t *testing.T) {
	sink := &recordingSink{}
	hook := usersink.Hook{Sink: sink}

	_ = hook.Notify(context.Background(), activity.Event{})

	if len(sink.records) != 0 {
		t.Fatalf("expected no records for empty event, got %d", len(sink.records))
	}
}
