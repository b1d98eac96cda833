package logging

import (
	"context"

	"github.com/nutriwell/go-admin/pkg/interfaces"
)

const (
	rootModule     = "admin"
	gatewayModule  = "admin.gateway"
	sessionModule  = "admin.session"
	listingModule  = "admin.listing"
	formsModule    = "admin.forms"
	uploadsModule  = "admin.uploads"
	consoleModule  = "admin.console"
	commandsModule = "admin.commands"
	importerModule = "admin.importer"
)

// ModuleLogger returns a module-scoped logger, defaulting to a no-op
// implementation when no provider is supplied. The returned logger attaches
// the module identifier as structured context so downstream entries can be
// filtered predictably.
func ModuleLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	if module == "" {
		module = rootModule
	}

	logger := NoOp()
	if provider != nil {
		if provided := provider.GetLogger(module); provided != nil {
			logger = provided
		}
	}

	if fieldsLogger, ok := logger.(interfaces.FieldsLogger); ok {
		return fieldsLogger.WithFields(map[string]any{
			"module": module,
		})
	}

	return WithFields(logger, map[string]any{
		"module": module,
	})
}

// GatewayLogger returns the logger namespace reserved for the API gateway client.
func GatewayLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, gatewayModule)
}

// SessionLogger returns the logger namespace reserved for the token store.
func SessionLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, sessionModule)
}

// ListingLogger returns the logger namespace reserved for list controllers.
func ListingLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, listingModule)
}

// FormsLogger returns the logger namespace reserved for form controllers.
func FormsLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, formsModule)
}

// UploadsLogger returns the logger namespace reserved for the upload adapter.
func UploadsLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, uploadsModule)
}

// ConsoleLogger returns the logger namespace reserved for view shells.
func ConsoleLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, consoleModule)
}

// CommandsLogger returns the logger namespace reserved for command handlers.
func CommandsLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, commandsModule)
}

// ImporterLogger returns the logger namespace reserved for markdown imports.
func ImporterLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, importerModule)
}

// NoOp returns a logger that drops every log entry. It satisfies the Logger
// contract so services can safely operate when logging is disabled.
func NoOp() interfaces.Logger {
	return noopLogger{}
}

type noopLogger struct{}

var _ interfaces.Logger = noopLogger{}

func (noopLogger) Trace(string, ...any) {}
func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
func (noopLogger) Fatal(string, ...any) {}

func (n noopLogger) WithFields(map[string]any) interfaces.Logger {
	return n
}

func (n noopLogger) WithContext(context.Context) interfaces.Logger {
	return n
}
