package commands

import (
	"strings"

	"github.com/nutriwell/go-admin/internal/logging"
	"github.com/nutriwell/go-admin/pkg/interfaces"
)

const commandModuleRoot = "admin.commands"

// CommandLogger returns a module-scoped logger for command handlers with
// consistent structured fields.
func CommandLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	name := strings.TrimSpace(module)
	if name == "" {
		name = "core"
	}
	logger := logging.ModuleLogger(provider, commandModuleRoot+"."+name)
	return logging.WithFields(logger, map[string]any{
		"component":      "command",
		"command_module": name,
	})
}
