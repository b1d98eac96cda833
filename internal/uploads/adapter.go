// Package uploads adapts file uploads for form fields: platform uploads go
// through the API's multipart endpoints, asset-host resources post straight
// to the configured third-party host with an unsigned preset. Either way the
// adapter's job ends at handing back a URL for the draft field.
package uploads

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"
	"sync"

	"github.com/nutriwell/go-admin/internal/catalog"
	"github.com/nutriwell/go-admin/internal/gateway"
	"github.com/nutriwell/go-admin/internal/logging"
	"github.com/nutriwell/go-admin/pkg/interfaces"
)

var (
	// ErrUploadInFlight is returned when an upload for the same field is
	// already running.
	ErrUploadInFlight = errors.New("uploads: upload already in flight for field")
	// ErrNoUploadURL is returned when the response carried none of the known
	// URL shapes.
	ErrNoUploadURL = errors.New("uploads: response carried no file URL")
	// ErrUnknownUploadField is returned when the schema declares no upload
	// kind for the field.
	ErrUnknownUploadField = errors.New("uploads: field is not an upload field")
	// ErrAssetHostNotConfigured is returned for asset-host resources when no
	// host URL or preset is configured.
	ErrAssetHostNotConfigured = errors.New("uploads: asset host not configured")
)

// Gateway is the slice of the API client the adapter needs.
type Gateway interface {
	Endpoint(group, route string, params map[string]any, query url.Values) (string, error)
	PostMultipart(ctx context.Context, endpoint string, form gateway.MultipartForm) ([]byte, error)
}

// AssetHost describes the third-party upload target used by asset-host
// resources.
type AssetHost struct {
	URL    string
	Preset string
}

// File is one upload request.
type File struct {
	Name    string
	Content io.Reader
}

// Adapter routes uploads and extracts the resulting URL.
type Adapter struct {
	gateway   Gateway
	assetHost AssetHost
	logger    interfaces.Logger

	mu       sync.Mutex
	inFlight map[string]bool
}

// Option mutates the adapter during construction.
type Option func(*Adapter)

// WithAssetHost configures the third-party upload target.
func WithAssetHost(host AssetHost) Option {
	return func(a *Adapter) { a.assetHost = host }
}

// WithLogger injects the uploads logger.
func WithLogger(logger interfaces.Logger) Option {
	return func(a *Adapter) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// New builds an upload adapter over the gateway.
func New(gw Gateway, opts ...Option) *Adapter {
	a := &Adapter{
		gateway:  gw,
		logger:   logging.NoOp(),
		inFlight: map[string]bool{},
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// InFlight reports whether an upload for the given field is running.
func (a *Adapter) InFlight(field string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.inFlight[field]
}

// Upload sends the file for a schema upload field and returns the stored
// file's URL. A second upload for the same field while one runs fails fast.
func (a *Adapter) Upload(ctx context.Context, schema catalog.Schema, field string, file File) (string, error) {
	kind, ok := schema.UploadFields[field]
	if !ok {
		return "", fmt.Errorf("%w: %s.%s", ErrUnknownUploadField, schema.Name, field)
	}

	a.mu.Lock()
	if a.inFlight[field] {
		a.mu.Unlock()
		return "", fmt.Errorf("%w: %s", ErrUploadInFlight, field)
	}
	a.inFlight[field] = true
	a.mu.Unlock()
	defer func() {
		a.mu.Lock()
		delete(a.inFlight, field)
		a.mu.Unlock()
	}()

	form := gateway.MultipartForm{
		Field:    kind,
		FileName: file.Name,
		Content:  file.Content,
	}

	var endpoint string
	if schema.UseAssetHost {
		if a.assetHost.URL == "" || a.assetHost.Preset == "" {
			return "", ErrAssetHostNotConfigured
		}
		endpoint = a.assetHost.URL
		form.Field = "file"
		form.Extra = map[string]string{"upload_preset": a.assetHost.Preset}
	} else {
		built, err := a.gateway.Endpoint(catalog.UploadGroup, kind, nil, nil)
		if err != nil {
			return "", err
		}
		endpoint = built
	}

	raw, err := a.gateway.PostMultipart(ctx, endpoint, form)
	if err != nil {
		a.logger.Error("uploads.upload.failed", "resource", schema.Name, "field", field, "error", err)
		return "", err
	}

	fileURL, err := ExtractURL(raw)
	if err != nil {
		a.logger.Error("uploads.upload.no_url", "resource", schema.Name, "field", field)
		return "", err
	}
	a.logger.Info("uploads.upload.done", "resource", schema.Name, "field", field, "url", fileURL)
	return fileURL, nil
}

// ExtractURL pulls the stored file URL out of an upload response body. The
// endpoints answer in three historical shapes, checked in precedence order:
// data.url, then top-level url, then top-level videoUrl.
func ExtractURL(raw []byte) (string, error) {
	body := struct {
		Data struct {
			URL string `json:"url"`
		} `json:"data"`
		URL      string `json:"url"`
		VideoURL string `json:"videoUrl"`
	}{}
	if err := json.Unmarshal(raw, &body); err != nil {
		return "", ErrNoUploadURL
	}
	for _, candidate := range []string{body.Data.URL, body.URL, body.VideoURL} {
		if candidate != "" {
			return candidate, nil
		}
	}
	return "", ErrNoUploadURL
}
