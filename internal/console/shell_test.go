package console_test

import (
	"context"
	"errors"
	"net/url"
	"sync"
	"testing"

	"github.com/nutriwell/go-admin/internal/catalog"
	"github.com/nutriwell/go-admin/internal/console"
)

type stubGateway struct {
	mu      sync.Mutex
	lists   int
	records map[string]map[string]any
	getErr  error
	created map[string]any
}

func (g *stubGateway) List(ctx context.Context, resource string, query url.Values) ([]map[string]any, int, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.lists++
	out := make([]map[string]any, 0, len(g.records))
	for _, record := range g.records {
		out = append(out, record)
	}
	return out, 0, nil
}

func (g *stubGateway) Delete(ctx context.Context, resource, id string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.records, id)
	return nil
}

func (g *stubGateway) Get(ctx context.Context, resource, id string) (map[string]any, error) {
	if g.getErr != nil {
		return nil, g.getErr
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	record, ok := g.records[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return record, nil
}

func (g *stubGateway) Create(ctx context.Context, resource string, payload map[string]any) (map[string]any, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.created = payload
	stored := map[string]any{"_id": "new-1"}
	for key, value := range payload {
		stored[key] = value
	}
	g.records["new-1"] = stored
	return stored, nil
}

func (g *stubGateway) Update(ctx context.Context, resource, id string, payload map[string]any) (map[string]any, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	stored := map[string]any{"_id": id}
	for key, value := range payload {
		stored[key] = value
	}
	g.records[id] = stored
	return stored, nil
}

func (g *stubGateway) listCalls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.lists
}

func serviceSchema() catalog.Schema {
	return catalog.Schema{
		Name:         "service",
		TitleField:   "name",
		SearchFields: []string{"name"},
		Required:     []string{"name"},
		PageSize:     10,
	}
}

func TestOpenShowsLoadedList(t *testing.T) {
	gw := &stubGateway{records: map[string]map[string]any{
		"s1": {"_id": "s1", "name": "Consultation"},
	}}
	shell := console.New(serviceSchema(), gw)

	if err := shell.Open(context.Background()); err != nil {
		t.Fatalf("open: %v", err)
	}
	if shell.View() != console.ViewList {
		t.Fatalf("expected list view, got %q", shell.View())
	}
	if len(shell.List().Items()) != 1 {
		t.Fatalf("expected loaded items, got %+v", shell.List().Items())
	}
}

func TestShowCreateResetsDraft(t *testing.T) {
	gw := &stubGateway{records: map[string]map[string]any{
		"s1": {"_id": "s1", "name": "Consultation"},
	}}
	shell := console.New(serviceSchema(), gw)

	if err := shell.ShowEdit(context.Background(), "s1"); err != nil {
		t.Fatalf("show edit: %v", err)
	}
	if shell.Form().EditingID() != "s1" {
		t.Fatalf("expected edit mode, got %q", shell.Form().EditingID())
	}

	shell.ShowCreate()
	if shell.View() != console.ViewCreate {
		t.Fatalf("expected create view, got %q", shell.View())
	}
	if shell.Form().EditingID() != "" {
		t.Fatal("create view must start from an empty draft")
	}
	if got := shell.Form().Field("name"); got != nil {
		t.Fatalf("stale draft value %v", got)
	}
}

func TestShowEditFailureKeepsCurrentView(t *testing.T) {
	gw := &stubGateway{records: map[string]map[string]any{}, getErr: errors.New("boom")}
	shell := console.New(serviceSchema(), gw)

	if err := shell.ShowEdit(context.Background(), "missing"); err == nil {
		t.Fatal("expected error")
	}
	if shell.View() != console.ViewList {
		t.Fatalf("view changed despite failed load: %q", shell.View())
	}
}

func TestBackToListAlwaysRefetches(t *testing.T) {
	gw := &stubGateway{records: map[string]map[string]any{
		"s1": {"_id": "s1", "name": "Consultation"},
	}}
	shell := console.New(serviceSchema(), gw)

	_ = shell.Open(context.Background())
	shell.ShowCreate()
	if err := shell.BackToList(context.Background()); err != nil {
		t.Fatalf("back to list: %v", err)
	}
	if gw.listCalls() != 2 {
		t.Fatalf("expected refetch on return, got %d list calls", gw.listCalls())
	}
}

func TestSaveSubmitsAndReturnsToFreshList(t *testing.T) {
	gw := &stubGateway{records: map[string]map[string]any{}}
	shell := console.New(serviceSchema(), gw)

	shell.ShowCreate()
	shell.Form().SetField("name", "Detox Week")

	record, err := shell.Save(context.Background())
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if record["_id"] != "new-1" {
		t.Fatalf("unexpected record %+v", record)
	}
	if shell.View() != console.ViewList {
		t.Fatalf("expected list view after save, got %q", shell.View())
	}
	if len(shell.List().Items()) != 1 {
		t.Fatalf("expected refetched list, got %+v", shell.List().Items())
	}
}

func TestSaveValidationFailureStaysOnForm(t *testing.T) {
	gw := &stubGateway{records: map[string]map[string]any{}}
	shell := console.New(serviceSchema(), gw)

	shell.ShowCreate()
	if _, err := shell.Save(context.Background()); err == nil {
		t.Fatal("expected validation failure")
	}
	if shell.View() != console.ViewCreate {
		t.Fatalf("expected form view to stay, got %q", shell.View())
	}
	if gw.created != nil {
		t.Fatal("invalid draft reached the gateway")
	}
}

func TestShowDetailLoadsRecord(t *testing.T) {
	gw := &stubGateway{records: map[string]map[string]any{
		"s1": {"_id": "s1", "name": "Consultation"},
	}}
	shell := console.New(serviceSchema(), gw)

	if err := shell.ShowDetail(context.Background(), "s1"); err != nil {
		t.Fatalf("show detail: %v", err)
	}
	if shell.View() != console.ViewDetail {
		t.Fatalf("expected detail view, got %q", shell.View())
	}
	if shell.Detail()["name"] != "Consultation" {
		t.Fatalf("unexpected detail %+v", shell.Detail())
	}

	_ = shell.BackToList(context.Background())
	if shell.Detail() != nil {
		t.Fatal("detail record not cleared on navigation")
	}
}
