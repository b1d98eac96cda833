package importer_test

import (
	"context"
	"strings"
	"testing"

	"github.com/nutriwell/go-admin/internal/catalog"
	"github.com/nutriwell/go-admin/internal/importer"
	"github.com/nutriwell/go-admin/pkg/activity"
)

type stubGateway struct {
	payloads []map[string]any
	err      error
}

func (g *stubGateway) Create(ctx context.Context, resource string, payload map[string]any) (map[string]any, error) {
	if g.err != nil {
		return nil, g.err
	}
	g.payloads = append(g.payloads, payload)
	return map[string]any{"_id": "rec-1"}, nil
}

type recordingNotifier struct {
	events []activity.Event
}

func (n *recordingNotifier) Notify(ctx context.Context, event activity.Event) error {
	n.events = append(n.events, event)
	return nil
}

const recipeDoc = `---
title: Overnight Oats
summary: Prep the night before.
status: published
tags:
  - breakfast
  - oats
servings: 2
---
# Overnight Oats

Mix **oats** with milk.
`

func newImporter(t *testing.T, gw importer.Gateway, notifier activity.Notifier) *importer.Importer {
	t.Helper()
	cat, err := catalog.Builtin()
	if err != nil {
		t.Fatalf("builtin catalog: %v", err)
	}
	opts := []importer.Option{}
	if notifier != nil {
		opts = append(opts, importer.WithNotifier(notifier))
	}
	return importer.New(gw, cat, opts...)
}

func TestImportBuildsPayloadFromFrontmatter(t *testing.T) {
	gw := &stubGateway{}
	notifier := &recordingNotifier{}
	imp := newImporter(t, gw, notifier)

	report, err := imp.Import(context.Background(), "recipe", []importer.File{
		{Path: "content/overnight-oats.md", Source: []byte(recipeDoc)},
	})
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if report.Imported != 1 || report.Skipped != 0 || report.Failed != 0 {
		t.Fatalf("unexpected report %+v", report)
	}

	payload := gw.payloads[0]
	if payload["title"] != "Overnight Oats" {
		t.Fatalf("unexpected title %v", payload["title"])
	}
	if payload["slug"] != "overnight-oats" {
		t.Fatalf("expected derived slug, got %v", payload["slug"])
	}
	if payload["description"] != "Prep the night before." {
		t.Fatalf("unexpected description %v", payload["description"])
	}
	if payload["status"] != "published" {
		t.Fatalf("unexpected status %v", payload["status"])
	}
	tags, _ := payload["tags"].([]string)
	if len(tags) != 2 || tags[0] != "breakfast" {
		t.Fatalf("unexpected tags %v", payload["tags"])
	}
	// inline custom keys flow through
	if payload["servings"] != 2 {
		t.Fatalf("unexpected servings %v", payload["servings"])
	}
	content, _ := payload["content"].(string)
	if !strings.Contains(content, "<strong>oats</strong>") {
		t.Fatalf("markdown not rendered: %q", content)
	}
	if payload["importKey"] == "" {
		t.Fatal("missing import key")
	}

	if len(notifier.events) != 1 || notifier.events[0].Verb != "import" || notifier.events[0].ObjectID != "rec-1" {
		t.Fatalf("unexpected events %+v", notifier.events)
	}
}

func TestImportSkipsFilesWithoutTitle(t *testing.T) {
	gw := &stubGateway{}
	imp := newImporter(t, gw, nil)

	report, err := imp.Import(context.Background(), "recipe", []importer.File{
		{Path: "content/untitled.md", Source: []byte("---\nstatus: draft\n---\nbody\n")},
	})
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if report.Skipped != 1 || report.Imported != 0 {
		t.Fatalf("unexpected report %+v", report)
	}
	if len(gw.payloads) != 0 {
		t.Fatal("untitled file reached the gateway")
	}
}

func TestImportDeduplicatesBySourcePath(t *testing.T) {
	gw := &stubGateway{}
	imp := newImporter(t, gw, nil)

	report, err := imp.Import(context.Background(), "recipe", []importer.File{
		{Path: "content/oats.md", Source: []byte(recipeDoc)},
		{Path: "content/oats.md", Source: []byte(recipeDoc)},
	})
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if report.Imported != 1 || report.Skipped != 1 {
		t.Fatalf("unexpected report %+v", report)
	}
	if len(gw.payloads) != 1 {
		t.Fatalf("duplicate source imported twice")
	}
	// same path, same deterministic key on every run
	first := gw.payloads[0]["importKey"]

	gw2 := &stubGateway{}
	imp2 := newImporter(t, gw2, nil)
	if _, err := imp2.Import(context.Background(), "recipe", []importer.File{
		{Path: "content/oats.md", Source: []byte(recipeDoc)},
	}); err != nil {
		t.Fatalf("second run: %v", err)
	}
	if gw2.payloads[0]["importKey"] != first {
		t.Fatalf("import key not deterministic: %v vs %v", first, gw2.payloads[0]["importKey"])
	}
}

func TestImportContinuesPastFailures(t *testing.T) {
	gw := &stubGateway{}
	imp := newImporter(t, gw, nil)

	report, err := imp.Import(context.Background(), "recipe", []importer.File{
		{Path: "content/bad.md", Source: []byte("---\ntitle: [broken\n---\nbody\n")},
		{Path: "content/good.md", Source: []byte(recipeDoc)},
	})
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if report.Failed != 1 || report.Imported != 1 {
		t.Fatalf("unexpected report %+v", report)
	}
	if report.Errors["content/bad.md"] == nil {
		t.Fatal("expected recorded error for bad file")
	}
}

func TestImportUnknownResourceFails(t *testing.T) {
	imp := newImporter(t, &stubGateway{}, nil)
	if _, err := imp.Import(context.Background(), "spaceship", nil); err == nil {
		t.Fatal("expected unknown resource error")
	}
}
