// Package listing implements the generic resource list controller: load,
// free-text search, enum filtering, pagination windows, and confirmed
// deletion. One controller instance manages one resource type.
package listing

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"sync"

	"github.com/nutriwell/go-admin/internal/catalog"
	"github.com/nutriwell/go-admin/internal/logging"
	"github.com/nutriwell/go-admin/pkg/interfaces"
)

// Gateway is the slice of the API client the list controller needs.
type Gateway interface {
	List(ctx context.Context, resource string, query url.Values) ([]map[string]any, int, error)
	Delete(ctx context.Context, resource, id string) error
}

// Controller holds the list view state for one resource.
type Controller struct {
	schema    catalog.Schema
	gateway   Gateway
	confirmer interfaces.Confirmer
	clock     interfaces.Clock
	logger    interfaces.Logger

	mu          sync.Mutex
	items       []map[string]any
	loading     bool
	loadErr     error
	search      string
	filters     map[string]string
	page        int
	serverPages int

	// seq numbers issued load requests; applied tracks the newest one whose
	// response has landed. Responses arriving out of order are discarded.
	seq     uint64
	applied uint64
}

// Option mutates the controller during construction.
type Option func(*Controller)

// WithConfirmer injects the destructive-action prompt collaborator.
func WithConfirmer(confirmer interfaces.Confirmer) Option {
	return func(c *Controller) {
		if confirmer != nil {
			c.confirmer = confirmer
		}
	}
}

// WithClock overrides the wall clock used for derived schedule statuses.
func WithClock(clock interfaces.Clock) Option {
	return func(c *Controller) {
		if clock != nil {
			c.clock = clock
		}
	}
}

// WithLogger injects the listing logger.
func WithLogger(logger interfaces.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New builds a list controller for the given resource schema.
func New(schema catalog.Schema, gw Gateway, opts ...Option) *Controller {
	c := &Controller{
		schema:  schema,
		gateway: gw,
		clock:   interfaces.SystemClock{},
		logger:  logging.NoOp(),
		filters: map[string]string{},
		page:    1,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Load fetches the collection and applies the response unless a later load
// already landed. Errors from stale requests are discarded the same way stale
// data is.
func (c *Controller) Load(ctx context.Context) error {
	seq, query := c.beginLoad()
	items, totalPages, err := c.gateway.List(ctx, c.schema.Name, query)
	return c.finishLoad(seq, items, totalPages, err)
}

func (c *Controller) beginLoad() (uint64, url.Values) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.seq++
	c.loading = true

	var query url.Values
	if c.schema.ServerPaged {
		query = url.Values{}
		query.Set("page", strconv.Itoa(c.page))
		query.Set("limit", strconv.Itoa(c.schema.PageSize))
	}
	return c.seq, query
}

func (c *Controller) finishLoad(seq uint64, items []map[string]any, totalPages int, err error) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if seq <= c.applied {
		c.logger.Debug("listing.load.stale", "resource", c.schema.Name, "seq", seq)
		return nil
	}
	c.applied = seq
	if seq == c.seq {
		c.loading = false
	}
	if err != nil {
		c.loadErr = err
		c.logger.Error("listing.load.failed", "resource", c.schema.Name, "error", err)
		return err
	}
	c.items = items
	c.serverPages = totalPages
	c.loadErr = nil
	c.logger.Debug("listing.load.done", "resource", c.schema.Name, "count", len(items))
	return nil
}

// Items returns the raw loaded collection.
func (c *Controller) Items() []map[string]any {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]map[string]any(nil), c.items...)
}

// Loading reports whether the newest issued load is still in flight.
func (c *Controller) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

// Err returns the failure from the most recent applied load, if any.
func (c *Controller) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loadErr
}

// SetSearch replaces the free-text filter and resets to the first page.
func (c *Controller) SetSearch(value string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	value = strings.TrimSpace(value)
	if value == c.search {
		return
	}
	c.search = value
	c.page = 1
}

// SetFilter sets an enum filter value; an empty value clears the filter.
// Changing a filter resets to the first page.
func (c *Controller) SetFilter(field, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if value == "" {
		if _, ok := c.filters[field]; !ok {
			return
		}
		delete(c.filters, field)
	} else {
		if c.filters[field] == value {
			return
		}
		c.filters[field] = value
	}
	c.page = 1
}

// Search returns the active free-text filter.
func (c *Controller) Search() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.search
}

// Filter returns the active value of one enum filter.
func (c *Controller) Filter(field string) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.filters[field]
}

// Page returns the current page number (1-based).
func (c *Controller) Page() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.page
}

// SetPage moves to the given page, clamped to [1, TotalPages].
func (c *Controller) SetPage(page int) {
	total := c.TotalPages()
	c.mu.Lock()
	defer c.mu.Unlock()
	if page < 1 {
		page = 1
	}
	if page > total {
		page = total
	}
	c.page = page
}

// VisibleItems applies search and enum filters, then slices the current page
// window for client-paged resources. Item order is preserved.
func (c *Controller) VisibleItems() []map[string]any {
	c.mu.Lock()
	defer c.mu.Unlock()

	filtered := c.filtered()
	if c.schema.ServerPaged {
		return filtered
	}

	start := (c.page - 1) * c.schema.PageSize
	if start >= len(filtered) {
		return nil
	}
	end := start + c.schema.PageSize
	if end > len(filtered) {
		end = len(filtered)
	}
	return filtered[start:end]
}

// FilteredCount reports how many loaded items match the active filters.
func (c *Controller) FilteredCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.filtered())
}

// TotalPages derives the page count. Server-paged resources report what the
// API said; client-paged resources page over the filtered count, never less
// than one page.
func (c *Controller) TotalPages() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.schema.ServerPaged {
		if c.serverPages < 1 {
			return 1
		}
		return c.serverPages
	}
	count := len(c.filtered())
	pages := (count + c.schema.PageSize - 1) / c.schema.PageSize
	if pages < 1 {
		pages = 1
	}
	return pages
}

// Remove deletes a record after confirmation and refetches the collection.
// The local list is never mutated optimistically. Returns false when the
// operator declined.
func (c *Controller) Remove(ctx context.Context, id string) (bool, error) {
	if id == "" {
		return false, fmt.Errorf("listing: record id is required")
	}
	prompt := fmt.Sprintf("Delete this %s?", c.schema.Name)
	if title := c.recordTitle(id); title != "" {
		prompt = fmt.Sprintf("Delete %s %q?", c.schema.Name, title)
	}

	if c.confirmer != nil {
		ok, err := c.confirmer.Confirm(ctx, prompt)
		if err != nil {
			return false, err
		}
		if !ok {
			c.logger.Debug("listing.remove.declined", "resource", c.schema.Name, "id", id)
			return false, nil
		}
	}

	if err := c.gateway.Delete(ctx, c.schema.Name, id); err != nil {
		c.logger.Error("listing.remove.failed", "resource", c.schema.Name, "id", id, "error", err)
		return false, err
	}
	c.logger.Info("listing.remove.done", "resource", c.schema.Name, "id", id)
	return true, c.Load(ctx)
}

// filtered must be called with the lock held.
func (c *Controller) filtered() []map[string]any {
	if c.search == "" && len(c.filters) == 0 {
		return c.items
	}
	needle := strings.ToLower(c.search)
	out := make([]map[string]any, 0, len(c.items))
	for _, item := range c.items {
		if needle != "" && !c.matchesSearch(item, needle) {
			continue
		}
		if !c.matchesFilters(item) {
			continue
		}
		out = append(out, item)
	}
	return out
}

func (c *Controller) matchesSearch(item map[string]any, needle string) bool {
	for _, field := range c.schema.SearchFields {
		if strings.Contains(strings.ToLower(stringField(item, field)), needle) {
			return true
		}
	}
	return false
}

func (c *Controller) matchesFilters(item map[string]any) bool {
	for field, want := range c.filters {
		got := stringField(item, field)
		if field == "status" && c.schema.Schedule != (catalog.TimeFields{}) {
			got = DeriveStatus(item, c.schema.Schedule, c.clock.Now())
		}
		if got != want {
			return false
		}
	}
	return true
}

func (c *Controller) recordTitle(id string) string {
	for _, item := range c.items {
		itemID, _ := item["_id"].(string)
		if itemID == "" {
			itemID, _ = item["id"].(string)
		}
		if itemID == id {
			return stringField(item, c.schema.TitleField)
		}
	}
	return ""
}

func stringField(record map[string]any, name string) string {
	if name == "" || record == nil {
		return ""
	}
	switch value := record[name].(type) {
	case string:
		return value
	case fmt.Stringer:
		return value.String()
	case float64:
		return strconv.FormatFloat(value, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(value)
	default:
		return ""
	}
}
