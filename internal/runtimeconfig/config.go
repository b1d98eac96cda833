package runtimeconfig

import (
	"errors"
	"net/url"
	"strings"
	"time"

	urlkit "github.com/goliatone/go-urlkit"
)

// ErrAPIBaseURLRequired indicates the remote API base URL was not supplied.
var ErrAPIBaseURLRequired = errors.New("admin config: api base url is required")

// ErrAPIBaseURLInvalid indicates the remote API base URL could not be parsed.
var ErrAPIBaseURLInvalid = errors.New("admin config: api base url is invalid")

// ErrSessionDriverUnknown indicates an unsupported session storage driver.
var ErrSessionDriverUnknown = errors.New("admin config: session driver is invalid")

// ErrSessionDSNRequired indicates a persistent session driver without a DSN.
var ErrSessionDSNRequired = errors.New("admin config: session dsn is required for persistent drivers")

var ErrLoggingProviderUnknown = errors.New("admin config: logging provider is invalid")
var ErrLoggingLevelInvalid = errors.New("admin config: logging level is invalid")
var ErrLoggingFormatInvalid = errors.New("admin config: logging format is invalid")
var ErrAssetHostPresetRequired = errors.New("admin config: asset host upload preset is required when an asset host is configured")

// Session storage drivers.
const (
	SessionDriverMemory   = "memory"
	SessionDriverSQLite   = "sqlite"
	SessionDriverPostgres = "postgres"
)

// Config aggregates adapter bindings for the admin console module.
// Fields intentionally use simple types so host applications can extend them later.
type Config struct {
	API      APIConfig
	Session  SessionConfig
	Uploads  UploadsConfig
	Logging  LoggingConfig
	Features Features

	// Routes optionally overrides the generated endpoint route table. When nil
	// the gateway derives one urlkit group per catalog resource.
	Routes *urlkit.Config
}

// APIConfig locates the remote REST API every console operation talks to.
type APIConfig struct {
	BaseURL string
	Prefix  string
	Timeout time.Duration
}

// SessionConfig selects the token store backing.
type SessionConfig struct {
	Driver string
	DSN    string
}

// UploadsConfig captures upload endpoint conventions.
type UploadsConfig struct {
	// PathPrefix is joined with the upload kind, e.g. /upload/thumbnail.
	PathPrefix string
	// AssetHost points one resource's uploads at a third-party host with a
	// fixed unsigned preset instead of the platform endpoint.
	AssetHost AssetHostConfig
}

// AssetHostConfig describes a third-party asset host accepting unsigned uploads.
type AssetHostConfig struct {
	URL    string
	Preset string
}

// LoggingConfig captures provider-specific options for runtime logging.
type LoggingConfig struct {
	Provider  string
	Level     string
	Format    string
	AddSource bool
	Focus     []string
}

// Features toggles optional module functionality.
type Features struct {
	ActivityLog      bool
	Importer         bool
	SchemaValidation bool
}

// DefaultConfig returns the baseline configuration: in-memory sessions,
// console logging, /api prefix, 30s request timeout.
func DefaultConfig() Config {
	return Config{
		API: APIConfig{
			Prefix:  "/api",
			Timeout: 30 * time.Second,
		},
		Session: SessionConfig{
			Driver: SessionDriverMemory,
		},
		Uploads: UploadsConfig{
			PathPrefix: "/upload",
		},
		Logging: LoggingConfig{
			Provider: "console",
			Level:    "info",
			Format:   "console",
		},
	}
}

// Validate reports the first configuration inconsistency found.
func (c Config) Validate() error {
	base := strings.TrimSpace(c.API.BaseURL)
	if base == "" {
		return ErrAPIBaseURLRequired
	}
	if parsed, err := url.Parse(base); err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return ErrAPIBaseURLInvalid
	}

	switch strings.ToLower(strings.TrimSpace(c.Session.Driver)) {
	case "", SessionDriverMemory:
	case SessionDriverSQLite, SessionDriverPostgres:
		if strings.TrimSpace(c.Session.DSN) == "" {
			return ErrSessionDSNRequired
		}
	default:
		return ErrSessionDriverUnknown
	}

	if err := c.Logging.validate(); err != nil {
		return err
	}

	if strings.TrimSpace(c.Uploads.AssetHost.URL) != "" && strings.TrimSpace(c.Uploads.AssetHost.Preset) == "" {
		return ErrAssetHostPresetRequired
	}

	return nil
}

func (l LoggingConfig) validate() error {
	switch strings.ToLower(strings.TrimSpace(l.Provider)) {
	case "", "console", "gologger", "noop":
	default:
		return ErrLoggingProviderUnknown
	}
	switch strings.ToLower(strings.TrimSpace(l.Level)) {
	case "", "trace", "debug", "info", "warn", "warning", "error", "fatal":
	default:
		return ErrLoggingLevelInvalid
	}
	switch strings.ToLower(strings.TrimSpace(l.Format)) {
	case "", "json", "console", "pretty":
	default:
		return ErrLoggingFormatInvalid
	}
	return nil
}
