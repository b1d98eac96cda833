package admin

import "github.com/nutriwell/go-admin/internal/runtimeconfig"

// Config aggregates adapter bindings for the module.
type (
	Config          = runtimeconfig.Config
	APIConfig       = runtimeconfig.APIConfig
	SessionConfig   = runtimeconfig.SessionConfig
	UploadsConfig   = runtimeconfig.UploadsConfig
	AssetHostConfig = runtimeconfig.AssetHostConfig
	LoggingConfig   = runtimeconfig.LoggingConfig
	Features        = runtimeconfig.Features
)

// Session storage drivers.
const (
	SessionDriverMemory   = runtimeconfig.SessionDriverMemory
	SessionDriverSQLite   = runtimeconfig.SessionDriverSQLite
	SessionDriverPostgres = runtimeconfig.SessionDriverPostgres
)

// DefaultConfig returns the baseline configuration: in-memory sessions,
// console logging, /api prefix, 30s request timeout.
func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}
