// Package di wires the admin console module: configuration in, fully
// constructed controllers out. The container owns shared infrastructure
// (logger provider, token store, route table, gateway client) and hands each
// resource a lazily built view shell.
package di

import (
	"context"
	"fmt"
	"sync"

	urlkit "github.com/goliatone/go-urlkit"
	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/uptrace/bun"

	"github.com/nutriwell/go-admin/internal/catalog"
	"github.com/nutriwell/go-admin/internal/commands/resources"
	"github.com/nutriwell/go-admin/internal/console"
	"github.com/nutriwell/go-admin/internal/forms"
	"github.com/nutriwell/go-admin/internal/gateway"
	"github.com/nutriwell/go-admin/internal/importer"
	"github.com/nutriwell/go-admin/internal/listing"
	"github.com/nutriwell/go-admin/internal/logging"
	logconsole "github.com/nutriwell/go-admin/internal/logging/console"
	"github.com/nutriwell/go-admin/internal/logging/gologger"
	"github.com/nutriwell/go-admin/internal/runtimeconfig"
	"github.com/nutriwell/go-admin/internal/session"
	"github.com/nutriwell/go-admin/internal/uploads"
	"github.com/nutriwell/go-admin/pkg/activity"
	"github.com/nutriwell/go-admin/pkg/activity/usersink"
	"github.com/nutriwell/go-admin/pkg/interfaces"
)

// Container assembles and caches the module's collaborators.
type Container struct {
	cfg      runtimeconfig.Config
	provider interfaces.LoggerProvider
	catalog  *catalog.Catalog
	routes   *urlkit.RouteManager
	sessions interfaces.TokenStore
	client   *gateway.Client
	uploader *uploads.Adapter
	notifier activity.Notifier
	commands *resources.Service
	importer *importer.Importer

	clock     interfaces.Clock
	confirmer interfaces.Confirmer

	db        *bun.DB
	documents map[string]*jsonschema.Schema

	mu     sync.Mutex
	shells map[string]*console.Shell
}

type options struct {
	httpClient gateway.Doer
	sessions   interfaces.TokenStore
	provider   interfaces.LoggerProvider
	clock      interfaces.Clock
	confirmer  interfaces.Confirmer
	sink       interfaces.ActivitySink
	catalog    *catalog.Catalog
}

// Option customises container construction.
type Option func(*options)

// WithHTTPClient overrides the gateway transport.
func WithHTTPClient(doer gateway.Doer) Option {
	return func(o *options) { o.httpClient = doer }
}

// WithSessionStore overrides the token store selected by configuration.
func WithSessionStore(store interfaces.TokenStore) Option {
	return func(o *options) { o.sessions = store }
}

// WithLoggerProvider overrides the logger provider selected by configuration.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(o *options) { o.provider = provider }
}

// WithClock overrides the wall clock used across controllers.
func WithClock(clock interfaces.Clock) Option {
	return func(o *options) { o.clock = clock }
}

// WithConfirmer wires the destructive-action prompt collaborator.
func WithConfirmer(confirmer interfaces.Confirmer) Option {
	return func(o *options) { o.confirmer = confirmer }
}

// WithActivitySink wires the go-users sink receiving audit events.
func WithActivitySink(sink interfaces.ActivitySink) Option {
	return func(o *options) { o.sink = sink }
}

// WithCatalog replaces the builtin resource catalog.
func WithCatalog(cat *catalog.Catalog) Option {
	return func(o *options) { o.catalog = cat }
}

// New builds the container from validated configuration.
func New(cfg runtimeconfig.Config, opts ...Option) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	c := &Container{
		cfg:       cfg,
		clock:     interfaces.SystemClock{},
		confirmer: o.confirmer,
		shells:    map[string]*console.Shell{},
	}
	if o.clock != nil {
		c.clock = o.clock
	}

	if err := c.buildLogging(o); err != nil {
		return nil, err
	}
	if err := c.buildCatalog(o); err != nil {
		return nil, err
	}
	if err := c.buildRoutes(); err != nil {
		return nil, err
	}
	if err := c.buildSessions(o); err != nil {
		return nil, err
	}
	c.buildGateway(o)
	c.buildUploads()
	c.buildActivity(o)
	c.buildCommands()
	c.buildImporter()
	if err := c.buildDocuments(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Container) buildLogging(o *options) error {
	if o.provider != nil {
		c.provider = o.provider
		return nil
	}
	switch c.cfg.Logging.Provider {
	case "", "console":
		opts := logconsole.Options{}
		if level, ok := logconsole.ParseLevel(c.cfg.Logging.Level); ok {
			opts.MinLevel = &level
		}
		c.provider = logconsole.NewProvider(opts)
	case "gologger":
		provider, err := gologger.NewProvider(gologger.Config{
			Level:     c.cfg.Logging.Level,
			Format:    c.cfg.Logging.Format,
			AddSource: c.cfg.Logging.AddSource,
			Focus:     c.cfg.Logging.Focus,
		})
		if err != nil {
			return err
		}
		c.provider = provider
	case "noop":
		c.provider = nil
	default:
		return runtimeconfig.ErrLoggingProviderUnknown
	}
	return nil
}

func (c *Container) buildCatalog(o *options) error {
	if o.catalog != nil {
		c.catalog = o.catalog
		return nil
	}
	cat, err := catalog.Builtin()
	if err != nil {
		return err
	}
	c.catalog = cat
	return nil
}

func (c *Container) buildRoutes() error {
	routeConfig := c.cfg.Routes
	if routeConfig == nil {
		routeConfig = catalog.RouteConfig(c.catalog, c.cfg.API.BaseURL, c.cfg.API.Prefix, c.cfg.Uploads.PathPrefix)
	}
	c.routes = urlkit.NewRouteManager(routeConfig)
	return nil
}

func (c *Container) buildSessions(o *options) error {
	if o.sessions != nil {
		c.sessions = o.sessions
		return nil
	}
	switch c.cfg.Session.Driver {
	case "", runtimeconfig.SessionDriverMemory:
		c.sessions = session.NewMemoryStore()
	case runtimeconfig.SessionDriverSQLite, runtimeconfig.SessionDriverPostgres:
		db, err := session.OpenDB(c.cfg.Session.Driver, c.cfg.Session.DSN)
		if err != nil {
			return err
		}
		store := session.NewBunStore(db, session.DefaultSlot)
		if err := store.EnsureSchema(context.Background()); err != nil {
			_ = db.Close()
			return err
		}
		c.db = db
		c.sessions = store
	default:
		return runtimeconfig.ErrSessionDriverUnknown
	}
	return nil
}

func (c *Container) buildGateway(o *options) {
	gatewayOpts := []gateway.Option{
		gateway.WithLogger(logging.GatewayLogger(c.provider)),
	}
	if o.httpClient != nil {
		gatewayOpts = append(gatewayOpts, gateway.WithHTTPClient(o.httpClient))
	} else if c.cfg.API.Timeout > 0 {
		gatewayOpts = append(gatewayOpts, gateway.WithTimeout(c.cfg.API.Timeout))
	}
	c.client = gateway.New(c.routes, c.sessions, gatewayOpts...)
}

func (c *Container) buildUploads() {
	c.uploader = uploads.New(c.client,
		uploads.WithAssetHost(uploads.AssetHost{
			URL:    c.cfg.Uploads.AssetHost.URL,
			Preset: c.cfg.Uploads.AssetHost.Preset,
		}),
		uploads.WithLogger(logging.UploadsLogger(c.provider)),
	)
}

func (c *Container) buildActivity(o *options) {
	if c.cfg.Features.ActivityLog && o.sink != nil {
		c.notifier = usersink.Hook{Sink: o.sink}
		return
	}
	c.notifier = activity.NoOpNotifier{}
}

func (c *Container) buildCommands() {
	c.commands = resources.NewService(c.client, c.catalog,
		resources.WithNotifier(c.notifier),
		resources.WithClock(c.clock),
		resources.WithLogger(logging.CommandsLogger(c.provider)),
	)
}

func (c *Container) buildImporter() {
	if !c.cfg.Features.Importer {
		return
	}
	c.importer = importer.New(c.client, c.catalog,
		importer.WithNotifier(c.notifier),
		importer.WithClock(c.clock),
		importer.WithLogger(logging.ImporterLogger(c.provider)),
	)
}

func (c *Container) buildDocuments() error {
	if !c.cfg.Features.SchemaValidation {
		return nil
	}
	c.documents = map[string]*jsonschema.Schema{}
	for _, name := range c.catalog.Names() {
		schema, err := c.catalog.Get(name)
		if err != nil {
			return err
		}
		compiled, err := schema.CompileDocument()
		if err != nil {
			return err
		}
		if compiled != nil {
			c.documents[name] = compiled
		}
	}
	return catalog.RegisterDocuments(c.catalog)
}

// Shell returns the (cached) view shell for a resource.
func (c *Container) Shell(resource string) (*console.Shell, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if shell, ok := c.shells[resource]; ok {
		return shell, nil
	}

	schema, err := c.catalog.Get(resource)
	if err != nil {
		return nil, err
	}

	shellOpts := []console.Option{
		console.WithLogger(logging.ConsoleLogger(c.provider)),
		console.WithClock(c.clock),
	}
	if c.confirmer != nil {
		shellOpts = append(shellOpts, console.WithConfirmer(c.confirmer))
	}
	if document, ok := c.documents[resource]; ok {
		shellOpts = append(shellOpts, console.WithDocument(document))
	}

	shell := console.New(schema, c.client, shellOpts...)
	c.shells[resource] = shell
	return shell, nil
}

// ListController builds a standalone list controller for a resource.
func (c *Container) ListController(resource string) (*listing.Controller, error) {
	schema, err := c.catalog.Get(resource)
	if err != nil {
		return nil, err
	}
	opts := []listing.Option{
		listing.WithLogger(logging.ListingLogger(c.provider)),
		listing.WithClock(c.clock),
	}
	if c.confirmer != nil {
		opts = append(opts, listing.WithConfirmer(c.confirmer))
	}
	return listing.New(schema, c.client, opts...), nil
}

// FormController builds a standalone form controller for a resource.
func (c *Container) FormController(resource string) (*forms.Controller, error) {
	schema, err := c.catalog.Get(resource)
	if err != nil {
		return nil, err
	}
	opts := []forms.Option{forms.WithLogger(logging.FormsLogger(c.provider))}
	if document, ok := c.documents[resource]; ok {
		opts = append(opts, forms.WithDocument(document))
	}
	return forms.New(schema, c.client, opts...), nil
}

// Gateway exposes the shared API client.
func (c *Container) Gateway() *gateway.Client { return c.client }

// Sessions exposes the token store.
func (c *Container) Sessions() interfaces.TokenStore { return c.sessions }

// Catalog exposes the resource catalog.
func (c *Container) Catalog() *catalog.Catalog { return c.catalog }

// Uploads exposes the upload adapter.
func (c *Container) Uploads() *uploads.Adapter { return c.uploader }

// Commands exposes the resource command service.
func (c *Container) Commands() *resources.Service { return c.commands }

// Importer exposes the markdown importer, nil unless the feature is enabled.
func (c *Container) Importer() *importer.Importer { return c.importer }

// LoggerProvider exposes the configured logger provider; may be nil when
// logging is disabled.
func (c *Container) LoggerProvider() interfaces.LoggerProvider { return c.provider }

// Close releases infrastructure owned by the container.
func (c *Container) Close() error {
	if c.db == nil {
		return nil
	}
	if err := c.db.Close(); err != nil {
		return fmt.Errorf("di: close session db: %w", err)
	}
	c.db = nil
	return nil
}
