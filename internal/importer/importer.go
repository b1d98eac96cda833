package importer

import (
	"context"
	"strings"

	"github.com/goliatone/go-slug"
	"github.com/google/uuid"

	"github.com/nutriwell/go-admin/internal/catalog"
	"github.com/nutriwell/go-admin/internal/identity"
	"github.com/nutriwell/go-admin/internal/logging"
	"github.com/nutriwell/go-admin/pkg/activity"
	"github.com/nutriwell/go-admin/pkg/interfaces"
)

// Gateway is the slice of the API client the importer needs.
type Gateway interface {
	Create(ctx context.Context, resource string, payload map[string]any) (map[string]any, error)
}

// File is one markdown source handed to an import run.
type File struct {
	Path   string
	Source []byte
}

// Report summarises an import run.
type Report struct {
	Imported int
	Skipped  int
	Failed   int
	// Errors maps failed file paths to their failure.
	Errors map[string]error
}

// Importer turns markdown files into resource records.
type Importer struct {
	gateway  Gateway
	catalog  *catalog.Catalog
	notifier activity.Notifier
	clock    interfaces.Clock
	logger   interfaces.Logger
	slugger  slug.Normalizer
}

// Option mutates the importer during construction.
type Option func(*Importer)

// WithNotifier wires the activity event notifier.
func WithNotifier(notifier activity.Notifier) Option {
	return func(i *Importer) {
		if notifier != nil {
			i.notifier = notifier
		}
	}
}

// WithClock overrides the wall clock used to stamp activity events.
func WithClock(clock interfaces.Clock) Option {
	return func(i *Importer) {
		if clock != nil {
			i.clock = clock
		}
	}
}

// WithLogger injects the importer logger.
func WithLogger(logger interfaces.Logger) Option {
	return func(i *Importer) {
		if logger != nil {
			i.logger = logger
		}
	}
}

// New builds an importer over the gateway and resource catalog.
func New(gw Gateway, cat *catalog.Catalog, opts ...Option) *Importer {
	i := &Importer{
		gateway:  gw,
		catalog:  cat,
		notifier: activity.NoOpNotifier{},
		clock:    interfaces.SystemClock{},
		logger:   logging.NoOp(),
		slugger:  slug.Default(),
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Import loads the files into the given resource. Files without a title are
// skipped, files already seen in this run (same dedupe id) are skipped, and
// per-file failures do not abort the run.
func (i *Importer) Import(ctx context.Context, resource string, files []File) (Report, error) {
	report := Report{Errors: map[string]error{}}

	schema, err := i.catalog.Get(resource)
	if err != nil {
		return report, err
	}

	seen := map[uuid.UUID]bool{}
	for _, file := range files {
		doc, err := ParseDocument(file.Path, file.Source)
		if err != nil {
			report.Failed++
			report.Errors[file.Path] = err
			i.logger.Error("importer.file.parse_failed", "path", file.Path, "error", err)
			continue
		}
		if strings.TrimSpace(doc.FrontMatter.Title) == "" {
			report.Skipped++
			i.logger.Warn("importer.file.skipped", "path", file.Path, "reason", "missing title")
			continue
		}

		importID := identity.ImportUUID(resource, file.Path)
		if seen[importID] {
			report.Skipped++
			i.logger.Warn("importer.file.skipped", "path", file.Path, "reason", "duplicate source")
			continue
		}
		seen[importID] = true

		payload, err := i.buildPayload(schema, doc, importID)
		if err != nil {
			report.Failed++
			report.Errors[file.Path] = err
			continue
		}

		record, err := i.gateway.Create(ctx, resource, payload)
		if err != nil {
			report.Failed++
			report.Errors[file.Path] = err
			i.logger.Error("importer.file.create_failed", "path", file.Path, "error", err)
			continue
		}

		report.Imported++
		i.notify(ctx, resource, record, file.Path)
	}

	i.logger.Info("importer.run.done",
		"resource", resource,
		"imported", report.Imported,
		"skipped", report.Skipped,
		"failed", report.Failed,
	)
	return report, nil
}

func (i *Importer) buildPayload(schema catalog.Schema, doc *Document, importID uuid.UUID) (map[string]any, error) {
	payload := map[string]any{}
	for key, value := range doc.FrontMatter.Custom {
		payload[key] = value
	}

	title := strings.TrimSpace(doc.FrontMatter.Title)
	titleField := schema.TitleField
	if titleField == "" {
		titleField = "title"
	}
	payload[titleField] = title

	slugValue := strings.TrimSpace(doc.FrontMatter.Slug)
	if slugValue == "" {
		normalized, err := i.slugger.Normalize(title)
		if err != nil {
			return nil, err
		}
		slugValue = normalized
	}
	payload["slug"] = slugValue

	if doc.FrontMatter.Summary != "" {
		payload["description"] = doc.FrontMatter.Summary
	}
	status := doc.FrontMatter.Status
	if status == "" {
		status = schema.DefaultStatus()
	}
	if status != "" {
		payload["status"] = status
	}
	if len(doc.FrontMatter.Tags) > 0 && schema.IsListField("tags") {
		payload["tags"] = append([]string(nil), doc.FrontMatter.Tags...)
	}
	if !doc.FrontMatter.Date.IsZero() {
		payload["date"] = doc.FrontMatter.Date.UTC().Format("2006-01-02")
	}

	if len(doc.Body) > 0 {
		html, err := doc.RenderHTML()
		if err != nil {
			return nil, err
		}
		payload["content"] = string(html)
	}

	payload["importKey"] = importID.String()
	return payload, nil
}

func (i *Importer) notify(ctx context.Context, resource string, record map[string]any, path string) {
	id, _ := record["_id"].(string)
	if id == "" {
		id, _ = record["id"].(string)
	}
	event := activity.Event{
		Verb:       "import",
		ObjectType: resource,
		ObjectID:   id,
		Metadata:   map[string]any{"source": path},
		OccurredAt: i.clock.Now().UTC(),
	}
	if err := i.notifier.Notify(ctx, event); err != nil {
		i.logger.Warn("importer.activity.failed", "path", path, "error", err)
	}
}
