package catalog

import (
	"strings"

	urlkit "github.com/goliatone/go-urlkit"
)

// Route names registered for every resource group.
const (
	RouteList   = "list"
	RouteDetail = "detail"
	RouteCreate = "create"
	RouteUpdate = "update"
	RouteDelete = "delete"
	RouteStatus = "status"
)

// UploadGroup is the urlkit group carrying the platform upload endpoints.
const UploadGroup = "uploads"

// AuthGroup carries the login endpoint.
const AuthGroup = "auth"

// RouteConfig derives the urlkit route table for the catalog: one group per
// resource plus the shared upload and auth groups. baseURL and prefix come
// from the runtime configuration.
func RouteConfig(c *Catalog, baseURL, prefix, uploadPrefix string) *urlkit.Config {
	prefix = "/" + strings.Trim(strings.TrimSpace(prefix), "/")
	if prefix == "/" {
		prefix = ""
	}
	uploadPrefix = strings.Trim(strings.TrimSpace(uploadPrefix), "/")
	if uploadPrefix == "" {
		uploadPrefix = "upload"
	}

	groups := make([]urlkit.GroupConfig, 0, len(c.Names())+2)
	for _, name := range c.Names() {
		schema, err := c.Get(name)
		if err != nil {
			continue
		}
		base := prefix + "/" + schema.EndpointPlural()
		paths := map[string]string{
			RouteList:   base,
			RouteDetail: base + "/:id",
			RouteCreate: base,
			RouteUpdate: base + "/:id",
			RouteDelete: base + "/:id",
		}
		if schema.HasStatusRoute {
			paths[RouteStatus] = base + "/:id/status"
		}
		groups = append(groups, urlkit.GroupConfig{
			Name:    schema.Name,
			BaseURL: baseURL,
			Paths:   paths,
		})
	}

	groups = append(groups, urlkit.GroupConfig{
		Name:    UploadGroup,
		BaseURL: baseURL,
		Paths: map[string]string{
			"thumbnail": prefix + "/" + uploadPrefix + "/thumbnail",
			"video":     prefix + "/" + uploadPrefix + "/video",
			"image":     prefix + "/" + uploadPrefix + "/image",
		},
	})

	groups = append(groups, urlkit.GroupConfig{
		Name:    AuthGroup,
		BaseURL: baseURL,
		Paths: map[string]string{
			"login": prefix + "/auth/login",
		},
	})

	return &urlkit.Config{Groups: groups}
}
