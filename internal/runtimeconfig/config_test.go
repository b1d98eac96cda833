package runtimeconfig_test

import (
	"errors"
	"testing"

	"github.com/nutriwell/go-admin/internal/runtimeconfig"
)

func validConfig() runtimeconfig.Config {
	cfg := runtimeconfig.DefaultConfig()
	cfg.API.BaseURL = "https://api.nutriwell.test"
	return cfg
}

func TestValidateRequiresBaseURL(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	if err := cfg.Validate(); !errors.Is(err, runtimeconfig.ErrAPIBaseURLRequired) {
		t.Fatalf("expected base url error, got %v", err)
	}

	cfg.API.BaseURL = "not a url"
	if err := cfg.Validate(); !errors.Is(err, runtimeconfig.ErrAPIBaseURLInvalid) {
		t.Fatalf("expected invalid base url error, got %v", err)
	}
}

func TestValidateSessionDrivers(t *testing.T) {
	cases := []struct {
		name   string
		driver string
		dsn    string
		want   error
	}{
		{"memory default", "", "", nil},
		{"memory explicit", "memory", "", nil},
		{"sqlite needs dsn", "sqlite", "", runtimeconfig.ErrSessionDSNRequired},
		{"sqlite with dsn", "sqlite", "file:console.db", nil},
		{"postgres needs dsn", "postgres", "", runtimeconfig.ErrSessionDSNRequired},
		{"unknown", "redis", "", runtimeconfig.ErrSessionDriverUnknown},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validConfig()
			cfg.Session.Driver = tc.driver
			cfg.Session.DSN = tc.dsn
			err := cfg.Validate()
			if tc.want == nil && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tc.want != nil && !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestValidateLogging(t *testing.T) {
	cfg := validConfig()
	cfg.Logging.Provider = "syslog"
	if err := cfg.Validate(); !errors.Is(err, runtimeconfig.ErrLoggingProviderUnknown) {
		t.Fatalf("expected provider error, got %v", err)
	}

	cfg = validConfig()
	cfg.Logging.Level = "verbose"
	if err := cfg.Validate(); !errors.Is(err, runtimeconfig.ErrLoggingLevelInvalid) {
		t.Fatalf("expected level error, got %v", err)
	}

	cfg = validConfig()
	cfg.Logging.Format = "xml"
	if err := cfg.Validate(); !errors.Is(err, runtimeconfig.ErrLoggingFormatInvalid) {
		t.Fatalf("expected format error, got %v", err)
	}
}

func TestValidateAssetHostPreset(t *testing.T) {
	cfg := validConfig()
	cfg.Uploads.AssetHost.URL = "https://assets.example.com/upload"
	if err := cfg.Validate(); !errors.Is(err, runtimeconfig.ErrAssetHostPresetRequired) {
		t.Fatalf("expected preset error, got %v", err)
	}
	cfg.Uploads.AssetHost.Preset = "unsigned_admin"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
