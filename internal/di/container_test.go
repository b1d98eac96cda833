package di_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/nutriwell/go-admin/internal/di"
	"github.com/nutriwell/go-admin/internal/runtimeconfig"
)

func baseConfig() runtimeconfig.Config {
	cfg := runtimeconfig.DefaultConfig()
	cfg.API.BaseURL = "https://api.nutriwell.test"
	cfg.Logging.Provider = "noop"
	return cfg
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := baseConfig()
	cfg.API.BaseURL = ""
	if _, err := di.New(cfg); !errors.Is(err, runtimeconfig.ErrAPIBaseURLRequired) {
		t.Fatalf("expected base url error, got %v", err)
	}
}

func TestShellsAreCachedPerResource(t *testing.T) {
	container, err := di.New(baseConfig())
	if err != nil {
		t.Fatalf("new container: %v", err)
	}
	t.Cleanup(func() { _ = container.Close() })

	first, err := container.Shell("product")
	if err != nil {
		t.Fatalf("shell: %v", err)
	}
	second, err := container.Shell("product")
	if err != nil {
		t.Fatalf("shell: %v", err)
	}
	if first != second {
		t.Fatal("expected cached shell instance")
	}

	if _, err := container.Shell("spaceship"); err == nil {
		t.Fatal("expected unknown resource error")
	}
}

func TestImporterGatedByFeatureFlag(t *testing.T) {
	container, err := di.New(baseConfig())
	if err != nil {
		t.Fatalf("new container: %v", err)
	}
	if container.Importer() != nil {
		t.Fatal("importer should be nil when disabled")
	}

	cfg := baseConfig()
	cfg.Features.Importer = true
	container, err = di.New(cfg)
	if err != nil {
		t.Fatalf("new container: %v", err)
	}
	if container.Importer() == nil {
		t.Fatal("importer missing despite feature flag")
	}
}

func TestContainerWiresGatewayAgainstConfiguredAPI(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/products" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"data":    []map[string]any{{"_id": "p1", "name": "Granola"}},
		})
	}))
	defer server.Close()

	cfg := baseConfig()
	cfg.API.BaseURL = server.URL
	container, err := di.New(cfg)
	if err != nil {
		t.Fatalf("new container: %v", err)
	}

	items, _, err := container.Gateway().List(context.Background(), "product", nil)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("unexpected items %+v", items)
	}
}

func TestSchemaValidationCompilesDocuments(t *testing.T) {
	cfg := baseConfig()
	cfg.Features.SchemaValidation = true
	container, err := di.New(cfg)
	if err != nil {
		t.Fatalf("new container: %v", err)
	}

	form, err := container.FormController("product")
	if err != nil {
		t.Fatalf("form controller: %v", err)
	}
	form.SetField("name", "Granola")
	form.SetField("description", "Crunchy")
	form.SetField("category", "snacks")
	form.SetField("price", "-2")
	if err := form.Validate(); err == nil {
		t.Fatal("expected document validation failure for negative price")
	}
}
