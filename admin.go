// Package admin is the embeddable core of the platform's administrative
// console. It manages the operator session, a gateway client for the REST
// API, and per-resource list/form controllers for the platform's product
// lines: products, categories, orders, courses, webinars, workshops,
// recipes, detox plans, meetings, services, staff, and jobs.
package admin

import (
	"context"
	"fmt"

	"github.com/nutriwell/go-admin/internal/catalog"
	"github.com/nutriwell/go-admin/internal/commands/resources"
	"github.com/nutriwell/go-admin/internal/console"
	"github.com/nutriwell/go-admin/internal/di"
	"github.com/nutriwell/go-admin/internal/forms"
	"github.com/nutriwell/go-admin/internal/gateway"
	"github.com/nutriwell/go-admin/internal/importer"
	"github.com/nutriwell/go-admin/internal/listing"
	"github.com/nutriwell/go-admin/internal/uploads"
	"github.com/nutriwell/go-admin/pkg/interfaces"
)

// Re-exported contracts so host applications depend on a single package.
type (
	// Profile is the operator identity blob returned at login.
	Profile = interfaces.Profile
	// TokenStore persists the session token between console restarts.
	TokenStore = interfaces.TokenStore
	// Clock abstracts time for derived schedule statuses.
	Clock = interfaces.Clock
	// Confirmer prompts before destructive operations.
	Confirmer = interfaces.Confirmer
	// ConfirmerFunc adapts a function to the Confirmer contract.
	ConfirmerFunc = interfaces.ConfirmerFunc
	// ActivitySink receives audit records for console mutations.
	ActivitySink = interfaces.ActivitySink
	// Logger is the structured logging contract used across the module.
	Logger = interfaces.Logger
	// LoggerProvider hands out named loggers.
	LoggerProvider = interfaces.LoggerProvider

	// Schema declares one managed resource type.
	Schema = catalog.Schema
	// Catalog is the set of managed resource schemas.
	Catalog = catalog.Catalog

	// Shell drives one resource's console views.
	Shell = console.Shell
	// View names the screen a shell is showing.
	View = console.View
	// ListController is a standalone resource list controller.
	ListController = listing.Controller
	// FormController is a standalone resource form controller.
	FormController = forms.Controller
	// UploadAdapter routes file uploads.
	UploadAdapter = uploads.Adapter
	// UploadFile is one file handed to the upload adapter.
	UploadFile = uploads.File
	// Gateway is the shared API client.
	Gateway = gateway.Client
	// APIError is the normalized failure shape of gateway calls.
	APIError = gateway.APIError
	// FieldError is one field-level validation message from the API.
	FieldError = gateway.FieldError
	// Commands executes audited resource mutations.
	Commands = resources.Service
	// Importer loads markdown files into resources.
	Importer = importer.Importer

	// Option customises module construction.
	Option = di.Option
)

// Console view identifiers.
const (
	ViewList   = console.ViewList
	ViewCreate = console.ViewCreate
	ViewEdit   = console.ViewEdit
	ViewDetail = console.ViewDetail
)

// Construction options, re-exported from the container.
var (
	WithHTTPClient     = di.WithHTTPClient
	WithSessionStore   = di.WithSessionStore
	WithLoggerProvider = di.WithLoggerProvider
	WithClock          = di.WithClock
	WithConfirmer      = di.WithConfirmer
	WithActivitySink   = di.WithActivitySink
	WithCatalog        = di.WithCatalog
)

// Module is the assembled admin console core.
type Module struct {
	cfg       Config
	container *di.Container
}

// New validates the configuration and assembles the module.
func New(cfg Config, opts ...Option) (*Module, error) {
	container, err := di.New(cfg, opts...)
	if err != nil {
		return nil, fmt.Errorf("admin: assemble module: %w", err)
	}
	return &Module{cfg: cfg, container: container}, nil
}

// Login exchanges credentials for a session token, persists it, and returns
// the operator profile.
func (m *Module) Login(ctx context.Context, email, password string) (*Profile, error) {
	token, profile, err := m.container.Gateway().Login(ctx, email, password)
	if err != nil {
		return nil, err
	}
	if err := m.container.Sessions().SetToken(ctx, token, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

// Logout clears the persisted session.
func (m *Module) Logout(ctx context.Context) error {
	return m.container.Sessions().Clear(ctx)
}

// Authenticated reports whether a session token is on file.
func (m *Module) Authenticated(ctx context.Context) (bool, error) {
	token, err := m.container.Sessions().Token(ctx)
	if err != nil {
		return false, err
	}
	return token != "", nil
}

// Profile returns the stored operator profile, nil when logged out.
func (m *Module) Profile(ctx context.Context) (*Profile, error) {
	return m.container.Sessions().Profile(ctx)
}

// Shell returns the cached view shell for a resource.
func (m *Module) Shell(resource string) (*Shell, error) {
	return m.container.Shell(resource)
}

// ListController builds a standalone list controller for a resource.
func (m *Module) ListController(resource string) (*ListController, error) {
	return m.container.ListController(resource)
}

// FormController builds a standalone form controller for a resource.
func (m *Module) FormController(resource string) (*FormController, error) {
	return m.container.FormController(resource)
}

// Gateway exposes the shared API client.
func (m *Module) Gateway() *Gateway { return m.container.Gateway() }

// Sessions exposes the token store.
func (m *Module) Sessions() TokenStore { return m.container.Sessions() }

// Catalog exposes the resource catalog.
func (m *Module) Catalog() *Catalog { return m.container.Catalog() }

// Uploads exposes the upload adapter.
func (m *Module) Uploads() *UploadAdapter { return m.container.Uploads() }

// Commands exposes the audited mutation service.
func (m *Module) Commands() *Commands { return m.container.Commands() }

// Importer exposes the markdown importer, nil unless enabled in Features.
func (m *Module) Importer() *Importer { return m.container.Importer() }

// Close releases infrastructure owned by the module.
func (m *Module) Close() error { return m.container.Close() }
