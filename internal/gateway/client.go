// Package gateway implements the shared HTTP request/response handling every
// console operation goes through: route building, bearer auth, envelope
// parsing, and failure normalization. The client never retries and never
// caches.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"time"

	urlkit "github.com/goliatone/go-urlkit"

	"github.com/nutriwell/go-admin/internal/catalog"
	"github.com/nutriwell/go-admin/internal/logging"
	"github.com/nutriwell/go-admin/pkg/interfaces"
)

// Doer abstracts *http.Client so tests can stub the transport.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client is the API gateway used by every controller.
type Client struct {
	http   Doer
	routes *urlkit.RouteManager
	tokens interfaces.TokenStore
	logger interfaces.Logger
}

// Option mutates the client during construction.
type Option func(*Client)

// WithHTTPClient overrides the transport. Defaults to a 30s http.Client.
func WithHTTPClient(doer Doer) Option {
	return func(c *Client) {
		if doer != nil {
			c.http = doer
		}
	}
}

// WithLogger injects the gateway logger.
func WithLogger(logger interfaces.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithTimeout replaces the default transport with one using the given timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.http = &http.Client{Timeout: timeout}
		}
	}
}

// New builds a gateway client over the supplied route table and token store.
func New(routes *urlkit.RouteManager, tokens interfaces.TokenStore, opts ...Option) *Client {
	c := &Client{
		http:   &http.Client{Timeout: 30 * time.Second},
		routes: routes,
		tokens: tokens,
		logger: logging.NoOp(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Endpoint resolves a named route into an absolute URL.
func (c *Client) Endpoint(group, route string, params map[string]any, query url.Values) (string, error) {
	grp, err := lookupGroup(c.routes, group)
	if err != nil {
		return "", err
	}
	builder, err := safeBuilder(grp, route)
	if err != nil {
		return "", err
	}
	for key, value := range params {
		builder.WithParam(key, value)
	}
	for key, values := range query {
		for _, value := range values {
			builder.WithQuery(key, value)
		}
	}
	return builder.Build()
}

// List fetches a resource collection. The returned total page count is zero
// unless the API paginates server-side and reports totalPages.
func (c *Client) List(ctx context.Context, resource string, query url.Values) ([]map[string]any, int, error) {
	endpoint, err := c.Endpoint(resource, catalog.RouteList, nil, query)
	if err != nil {
		return nil, 0, err
	}
	envelope, err := c.doJSON(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, 0, err
	}
	items, err := envelope.DecodeArray()
	if err != nil {
		return nil, 0, c.malformed(http.StatusOK)
	}
	return items, envelope.TotalPages, nil
}

// Get fetches one record by id.
func (c *Client) Get(ctx context.Context, resource, id string) (map[string]any, error) {
	return c.objectCall(ctx, http.MethodGet, resource, catalog.RouteDetail, id, nil)
}

// Create posts a new record and returns the stored copy (with server id).
func (c *Client) Create(ctx context.Context, resource string, payload map[string]any) (map[string]any, error) {
	return c.objectCall(ctx, http.MethodPost, resource, catalog.RouteCreate, "", payload)
}

// Update replaces an existing record.
func (c *Client) Update(ctx context.Context, resource, id string, payload map[string]any) (map[string]any, error) {
	return c.objectCall(ctx, http.MethodPut, resource, catalog.RouteUpdate, id, payload)
}

// UpdateStatus performs the status-only update exposed by order-style
// resources (PUT /{resource}/{id}/status).
func (c *Client) UpdateStatus(ctx context.Context, resource, id string, payload map[string]any) (map[string]any, error) {
	return c.objectCall(ctx, http.MethodPut, resource, catalog.RouteStatus, id, payload)
}

// Delete removes a record by id.
func (c *Client) Delete(ctx context.Context, resource, id string) error {
	endpoint, err := c.Endpoint(resource, catalog.RouteDelete, map[string]any{"id": id}, nil)
	if err != nil {
		return err
	}
	_, err = c.doJSON(ctx, http.MethodDelete, endpoint, nil)
	return err
}

// Login exchanges credentials for a bearer token and profile blob. It is the
// only gateway call issued without an Authorization header by design of the
// API, not of the client: the store simply holds no token yet.
func (c *Client) Login(ctx context.Context, email, password string) (string, *interfaces.Profile, error) {
	endpoint, err := c.Endpoint(catalog.AuthGroup, "login", nil, nil)
	if err != nil {
		return "", nil, err
	}
	envelope, err := c.doJSON(ctx, http.MethodPost, endpoint, map[string]any{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return "", nil, err
	}

	payload := struct {
		Token string              `json:"token"`
		User  *interfaces.Profile `json:"user"`
	}{}
	if len(envelope.Data) == 0 {
		return "", nil, c.malformed(http.StatusOK)
	}
	if err := json.Unmarshal(envelope.Data, &payload); err != nil || payload.Token == "" {
		return "", nil, c.malformed(http.StatusOK)
	}
	return payload.Token, payload.User, nil
}

// MultipartForm describes a single-file upload body.
type MultipartForm struct {
	Field    string
	FileName string
	Content  io.Reader
	Extra    map[string]string
}

// PostMultipart uploads a file to the given absolute URL and returns the raw
// response body; callers interpret the (historically inconsistent) success
// shape. The multipart content type, boundary included, is set by the writer.
func (c *Client) PostMultipart(ctx context.Context, endpoint string, form MultipartForm) ([]byte, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile(form.Field, form.FileName)
	if err != nil {
		return nil, fmt.Errorf("gateway: build multipart body: %w", err)
	}
	if _, err := io.Copy(part, form.Content); err != nil {
		return nil, fmt.Errorf("gateway: copy file content: %w", err)
	}
	for key, value := range form.Extra {
		if err := writer.WriteField(key, value); err != nil {
			return nil, fmt.Errorf("gateway: write form field: %w", err)
		}
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("gateway: finalize multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("gateway: build request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	if err := c.authorize(ctx, req); err != nil {
		return nil, err
	}

	status, raw, err := c.roundTrip(req)
	if err != nil {
		return nil, err
	}
	if status < 200 || status >= 300 {
		return nil, c.failureFromBody(status, raw)
	}
	return raw, nil
}

func (c *Client) objectCall(ctx context.Context, method, resource, route, id string, payload map[string]any) (map[string]any, error) {
	params := map[string]any{}
	if id != "" {
		params["id"] = id
	}
	endpoint, err := c.Endpoint(resource, route, params, nil)
	if err != nil {
		return nil, err
	}
	envelope, err := c.doJSON(ctx, method, endpoint, payload)
	if err != nil {
		return nil, err
	}
	record, err := envelope.DecodeObject()
	if err != nil {
		return nil, c.malformed(http.StatusOK)
	}
	return record, nil
}

func (c *Client) doJSON(ctx context.Context, method, endpoint string, payload any) (*Envelope, error) {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("gateway: encode payload: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("gateway: build request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if err := c.authorize(ctx, req); err != nil {
		return nil, err
	}

	status, raw, err := c.roundTrip(req)
	if err != nil {
		return nil, err
	}

	envelope := &Envelope{}
	parseErr := json.Unmarshal(raw, envelope)

	if status < 200 || status >= 300 {
		if parseErr != nil {
			return nil, categorize(&APIError{Status: status, Message: "request failed"})
		}
		return nil, categorize(&APIError{
			Status:  status,
			Message: fallbackMessage(envelope.Message, envelope.Error),
			Fields:  envelope.FieldErrors(),
		})
	}
	if parseErr != nil {
		return nil, c.malformed(status)
	}
	if !envelope.Success {
		return nil, categorize(&APIError{
			Status:  status,
			Message: fallbackMessage(envelope.Message, envelope.Error),
			Fields:  envelope.FieldErrors(),
		})
	}
	return envelope, nil
}

func (c *Client) authorize(ctx context.Context, req *http.Request) error {
	if c.tokens == nil {
		return nil
	}
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return fmt.Errorf("gateway: read token: %w", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return nil
}

func (c *Client) roundTrip(req *http.Request) (int, []byte, error) {
	started := time.Now()
	res, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("gateway.request.network_error", "method", req.Method, "url", req.URL.String(), "error", err)
		return 0, nil, categorize(&APIError{Message: "network error"})
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return 0, nil, categorize(&APIError{Message: "network error"})
	}

	c.logger.Debug("gateway.request.done",
		"method", req.Method,
		"url", req.URL.String(),
		"status", res.StatusCode,
		"elapsed", time.Since(started),
	)
	return res.StatusCode, raw, nil
}

func (c *Client) failureFromBody(status int, raw []byte) error {
	envelope := &Envelope{}
	if err := json.Unmarshal(raw, envelope); err != nil {
		return categorize(&APIError{Status: status, Message: "request failed"})
	}
	return categorize(&APIError{
		Status:  status,
		Message: fallbackMessage(envelope.Message, envelope.Error),
		Fields:  envelope.FieldErrors(),
	})
}

func (c *Client) malformed(status int) error {
	return categorize(&APIError{Status: status, Message: "malformed response"})
}

func lookupGroup(manager *urlkit.RouteManager, name string) (group *urlkit.Group, err error) {
	if manager == nil {
		return nil, fmt.Errorf("gateway: route manager not configured")
	}
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("gateway: route group %q not found", name)
		}
	}()
	group = manager.Group(name)
	return group, err
}

func safeBuilder(group *urlkit.Group, route string) (builder *urlkit.Builder, err error) {
	if group == nil {
		return nil, fmt.Errorf("gateway: route group is nil")
	}
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("gateway: route %q not found", route)
		}
	}()
	builder = group.Builder(route)
	return builder, err
}
