// Package console implements the view shell tying one resource's list and
// form controllers together: which view is showing, how navigation moves
// between them, and the refetch discipline when returning to the list.
package console

import (
	"context"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/nutriwell/go-admin/internal/catalog"
	"github.com/nutriwell/go-admin/internal/forms"
	"github.com/nutriwell/go-admin/internal/listing"
	"github.com/nutriwell/go-admin/internal/logging"
	"github.com/nutriwell/go-admin/pkg/interfaces"
)

// View names the screen a shell is showing.
type View string

const (
	ViewList   View = "list"
	ViewCreate View = "create"
	ViewEdit   View = "edit"
	ViewDetail View = "detail"
)

// Gateway is the full API surface a shell needs, satisfied by
// *gateway.Client.
type Gateway interface {
	listing.Gateway
	forms.Gateway
	Get(ctx context.Context, resource, id string) (map[string]any, error)
}

// Shell drives one resource's console views.
type Shell struct {
	schema  catalog.Schema
	gateway Gateway
	logger  interfaces.Logger

	list *listing.Controller
	form *forms.Controller

	mu     sync.Mutex
	view   View
	detail map[string]any
}

// Option mutates the shell during construction.
type Option func(*shellConfig)

type shellConfig struct {
	confirmer interfaces.Confirmer
	clock     interfaces.Clock
	document  *jsonschema.Schema
	logger    interfaces.Logger
}

// WithConfirmer wires the destructive-action prompt into the list controller.
func WithConfirmer(confirmer interfaces.Confirmer) Option {
	return func(cfg *shellConfig) { cfg.confirmer = confirmer }
}

// WithClock overrides the wall clock for derived schedule statuses.
func WithClock(clock interfaces.Clock) Option {
	return func(cfg *shellConfig) { cfg.clock = clock }
}

// WithDocument enables JSON-Schema payload validation on the form.
func WithDocument(document *jsonschema.Schema) Option {
	return func(cfg *shellConfig) { cfg.document = document }
}

// WithLogger injects the console logger.
func WithLogger(logger interfaces.Logger) Option {
	return func(cfg *shellConfig) {
		if logger != nil {
			cfg.logger = logger
		}
	}
}

// New builds a shell with fresh list and form controllers for the resource.
func New(schema catalog.Schema, gw Gateway, opts ...Option) *Shell {
	cfg := &shellConfig{logger: logging.NoOp()}
	for _, opt := range opts {
		opt(cfg)
	}

	listOpts := []listing.Option{listing.WithLogger(cfg.logger)}
	if cfg.confirmer != nil {
		listOpts = append(listOpts, listing.WithConfirmer(cfg.confirmer))
	}
	if cfg.clock != nil {
		listOpts = append(listOpts, listing.WithClock(cfg.clock))
	}

	formOpts := []forms.Option{forms.WithLogger(cfg.logger)}
	if cfg.document != nil {
		formOpts = append(formOpts, forms.WithDocument(cfg.document))
	}

	return &Shell{
		schema:  schema,
		gateway: gw,
		logger:  cfg.logger,
		list:    listing.New(schema, gw, listOpts...),
		form:    forms.New(schema, gw, formOpts...),
		view:    ViewList,
	}
}

// List exposes the list controller.
func (s *Shell) List() *listing.Controller { return s.list }

// Form exposes the form controller.
func (s *Shell) Form() *forms.Controller { return s.form }

// View returns the current screen.
func (s *Shell) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view
}

// Detail returns the record loaded for the detail view, if any.
func (s *Shell) Detail() map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.detail
}

// Open shows the list view and loads the collection.
func (s *Shell) Open(ctx context.Context) error {
	s.setView(ViewList)
	return s.list.Load(ctx)
}

// ShowCreate resets the form to an empty draft and shows the create view.
func (s *Shell) ShowCreate() {
	s.form.Reset()
	s.setView(ViewCreate)
	s.logger.Debug("console.view.create", "resource", s.schema.Name)
}

// ShowEdit fetches the record, loads it into the form, and shows the edit
// view. The view does not change when the fetch fails.
func (s *Shell) ShowEdit(ctx context.Context, id string) error {
	record, err := s.gateway.Get(ctx, s.schema.Name, id)
	if err != nil {
		s.logger.Error("console.edit.load_failed", "resource", s.schema.Name, "id", id, "error", err)
		return err
	}
	s.form.LoadRecord(record)
	s.setView(ViewEdit)
	s.logger.Debug("console.view.edit", "resource", s.schema.Name, "id", id)
	return nil
}

// ShowDetail fetches the record for a read-only view.
func (s *Shell) ShowDetail(ctx context.Context, id string) error {
	record, err := s.gateway.Get(ctx, s.schema.Name, id)
	if err != nil {
		s.logger.Error("console.detail.load_failed", "resource", s.schema.Name, "id", id, "error", err)
		return err
	}
	s.mu.Lock()
	s.detail = record
	s.view = ViewDetail
	s.mu.Unlock()
	return nil
}

// BackToList returns to the list view and always refetches: records edited
// or created elsewhere must show up without manual refresh.
func (s *Shell) BackToList(ctx context.Context) error {
	s.setView(ViewList)
	return s.list.Load(ctx)
}

// Save submits the form; on success it returns to a freshly fetched list.
// On failure the form view stays up with its field errors intact.
func (s *Shell) Save(ctx context.Context) (map[string]any, error) {
	record, err := s.form.Submit(ctx)
	if err != nil {
		return nil, err
	}
	return record, s.BackToList(ctx)
}

func (s *Shell) setView(view View) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.view = view
	if view != ViewDetail {
		s.detail = nil
	}
}
