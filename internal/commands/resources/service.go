package resources

import (
	"context"
	"fmt"

	"github.com/nutriwell/go-admin/internal/catalog"
	"github.com/nutriwell/go-admin/internal/commands"
	"github.com/nutriwell/go-admin/internal/logging"
	"github.com/nutriwell/go-admin/pkg/activity"
	"github.com/nutriwell/go-admin/pkg/interfaces"
)

// Gateway is the slice of the API client resource commands need.
type Gateway interface {
	Create(ctx context.Context, resource string, payload map[string]any) (map[string]any, error)
	Update(ctx context.Context, resource, id string, payload map[string]any) (map[string]any, error)
	Delete(ctx context.Context, resource, id string) error
	UpdateStatus(ctx context.Context, resource, id string, payload map[string]any) (map[string]any, error)
}

// Service executes resource mutation commands through the shared handler
// pipeline and emits an activity event for every successful mutation.
type Service struct {
	gateway  Gateway
	catalog  *catalog.Catalog
	notifier activity.Notifier
	clock    interfaces.Clock
	logger   interfaces.Logger

	create *commands.Handler[CreateMessage]
	update *commands.Handler[UpdateMessage]
	remove *commands.Handler[DeleteMessage]
	status *commands.Handler[StatusMessage]
}

// ServiceOption mutates the service during construction.
type ServiceOption func(*Service)

// WithNotifier wires the activity event notifier.
func WithNotifier(notifier activity.Notifier) ServiceOption {
	return func(s *Service) {
		if notifier != nil {
			s.notifier = notifier
		}
	}
}

// WithClock overrides the wall clock used to stamp activity events.
func WithClock(clock interfaces.Clock) ServiceOption {
	return func(s *Service) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// WithLogger injects the command logger.
func WithLogger(logger interfaces.Logger) ServiceOption {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewService builds the resource command service.
func NewService(gw Gateway, cat *catalog.Catalog, opts ...ServiceOption) *Service {
	s := &Service{
		gateway:  gw,
		catalog:  cat,
		notifier: activity.NoOpNotifier{},
		clock:    interfaces.SystemClock{},
		logger:   logging.NoOp(),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.create = commands.NewHandler(s.execCreate,
		commands.WithLogger[CreateMessage](s.logger),
		commands.WithOperation[CreateMessage]("resource.create"),
		commands.WithTelemetry(commands.DefaultTelemetry[CreateMessage](s.logger)),
	)
	s.update = commands.NewHandler(s.execUpdate,
		commands.WithLogger[UpdateMessage](s.logger),
		commands.WithOperation[UpdateMessage]("resource.update"),
		commands.WithTelemetry(commands.DefaultTelemetry[UpdateMessage](s.logger)),
	)
	s.remove = commands.NewHandler(s.execDelete,
		commands.WithLogger[DeleteMessage](s.logger),
		commands.WithOperation[DeleteMessage]("resource.delete"),
		commands.WithTelemetry(commands.DefaultTelemetry[DeleteMessage](s.logger)),
	)
	s.status = commands.NewHandler(s.execStatus,
		commands.WithLogger[StatusMessage](s.logger),
		commands.WithOperation[StatusMessage]("resource.status"),
		commands.WithTelemetry(commands.DefaultTelemetry[StatusMessage](s.logger)),
	)
	return s
}

// Create runs a create command.
func (s *Service) Create(ctx context.Context, msg CreateMessage) error {
	return s.create.Execute(ctx, msg)
}

// Update runs an update command.
func (s *Service) Update(ctx context.Context, msg UpdateMessage) error {
	return s.update.Execute(ctx, msg)
}

// Delete runs a delete command.
func (s *Service) Delete(ctx context.Context, msg DeleteMessage) error {
	return s.remove.Execute(ctx, msg)
}

// UpdateStatus runs a status-only update command.
func (s *Service) UpdateStatus(ctx context.Context, msg StatusMessage) error {
	return s.status.Execute(ctx, msg)
}

func (s *Service) execCreate(ctx context.Context, msg CreateMessage) error {
	if _, err := s.schemaFor(msg.Resource); err != nil {
		return err
	}
	record, err := s.gateway.Create(ctx, msg.Resource, msg.Payload)
	if err != nil {
		return err
	}
	s.notify(ctx, "create", msg.Resource, recordID(record), msg.Actor, nil)
	return nil
}

func (s *Service) execUpdate(ctx context.Context, msg UpdateMessage) error {
	if _, err := s.schemaFor(msg.Resource); err != nil {
		return err
	}
	if _, err := s.gateway.Update(ctx, msg.Resource, msg.ID, msg.Payload); err != nil {
		return err
	}
	s.notify(ctx, "update", msg.Resource, msg.ID, msg.Actor, nil)
	return nil
}

func (s *Service) execDelete(ctx context.Context, msg DeleteMessage) error {
	if _, err := s.schemaFor(msg.Resource); err != nil {
		return err
	}
	if err := s.gateway.Delete(ctx, msg.Resource, msg.ID); err != nil {
		return err
	}
	s.notify(ctx, "delete", msg.Resource, msg.ID, msg.Actor, nil)
	return nil
}

func (s *Service) execStatus(ctx context.Context, msg StatusMessage) error {
	schema, err := s.schemaFor(msg.Resource)
	if err != nil {
		return err
	}
	if !schema.HasStatusRoute {
		return fmt.Errorf("resources: %s has no status endpoint", msg.Resource)
	}
	if !schema.HasStatus(msg.Status) {
		return fmt.Errorf("resources: %q is not a valid %s status", msg.Status, msg.Resource)
	}
	payload := map[string]any{"status": msg.Status}
	if msg.TrackingNumber != "" {
		payload["trackingNumber"] = msg.TrackingNumber
	}
	if msg.ShippingDate != "" {
		payload["shippingDate"] = msg.ShippingDate
	}
	if _, err := s.gateway.UpdateStatus(ctx, msg.Resource, msg.ID, payload); err != nil {
		return err
	}
	s.notify(ctx, "status", msg.Resource, msg.ID, msg.Actor, payload)
	return nil
}

func (s *Service) schemaFor(resource string) (catalog.Schema, error) {
	if s.catalog == nil {
		return catalog.Schema{}, fmt.Errorf("resources: catalog not configured")
	}
	return s.catalog.Get(resource)
}

// notify emits the activity event; audit failures never fail the mutation.
func (s *Service) notify(ctx context.Context, verb, resource, id, actor string, metadata map[string]any) {
	event := activity.Event{
		Verb:       verb,
		ActorID:    actor,
		ObjectType: resource,
		ObjectID:   id,
		Metadata:   metadata,
		OccurredAt: s.clock.Now().UTC(),
	}
	if err := s.notifier.Notify(ctx, event); err != nil {
		s.logger.Warn("resources.activity.failed", "resource", resource, "verb", verb, "error", err)
	}
}

func recordID(record map[string]any) string {
	for _, key := range []string{"_id", "id"} {
		if raw, ok := record[key]; ok {
			if id, ok := raw.(string); ok && id != "" {
				return id
			}
		}
	}
	return ""
}
