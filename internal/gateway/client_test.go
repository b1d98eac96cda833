package gateway_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	urlkit "github.com/goliatone/go-urlkit"

	"github.com/nutriwell/go-admin/internal/catalog"
	"github.com/nutriwell/go-admin/internal/gateway"
	"github.com/nutriwell/go-admin/internal/session"
)

func newClient(t *testing.T, baseURL string, store *session.MemoryStore) *gateway.Client {
	t.Helper()
	cat, err := catalog.Builtin()
	if err != nil {
		t.Fatalf("builtin catalog: %v", err)
	}
	manager := urlkit.NewRouteManager(catalog.RouteConfig(cat, baseURL, "/api", "upload"))
	return gateway.New(manager, store)
}

func TestListAttachesBearerToken(t *testing.T) {
	var gotAuth, gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"data":    []map[string]any{{"_id": "p1", "name": "Granola"}},
		})
	}))
	defer server.Close()

	store := session.NewMemoryStore()
	if err := store.SetToken(context.Background(), "tok-123", nil); err != nil {
		t.Fatalf("set token: %v", err)
	}
	client := newClient(t, server.URL, store)

	items, totalPages, err := client.List(context.Background(), "product", nil)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if gotAuth != "Bearer tok-123" {
		t.Fatalf("expected bearer header, got %q", gotAuth)
	}
	if gotPath != "/api/products" {
		t.Fatalf("unexpected path %q", gotPath)
	}
	if len(items) != 1 || gateway.RecordID(items[0]) != "p1" {
		t.Fatalf("unexpected items %+v", items)
	}
	if totalPages != 0 {
		t.Fatalf("expected no totalPages, got %d", totalPages)
	}
}

func TestListOmitsHeaderWithoutToken(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode(map[string]any{"success": true, "data": []any{}})
	}))
	defer server.Close()

	client := newClient(t, server.URL, session.NewMemoryStore())
	if _, _, err := client.List(context.Background(), "product", nil); err != nil {
		t.Fatalf("list: %v", err)
	}
	if gotAuth != "" {
		t.Fatalf("expected no auth header, got %q", gotAuth)
	}
}

func TestServerPagedListQueryAndTotalPages(t *testing.T) {
	var gotQuery url.Values
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		json.NewEncoder(w).Encode(map[string]any{
			"success":    true,
			"data":       []map[string]any{{"_id": "o1"}},
			"totalPages": 7,
		})
	}))
	defer server.Close()

	client := newClient(t, server.URL, session.NewMemoryStore())
	query := url.Values{}
	query.Set("page", "3")
	query.Set("limit", "10")

	_, totalPages, err := client.List(context.Background(), "order", query)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if gotQuery.Get("page") != "3" || gotQuery.Get("limit") != "10" {
		t.Fatalf("unexpected query %v", gotQuery)
	}
	if totalPages != 7 {
		t.Fatalf("expected totalPages 7, got %d", totalPages)
	}
}

func TestUnauthorizedMapsToAuthCategory(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]any{"success": false, "message": "invalid token"})
	}))
	defer server.Close()

	client := newClient(t, server.URL, session.NewMemoryStore())
	_, err := client.Get(context.Background(), "product", "p1")
	if err == nil {
		t.Fatal("expected error")
	}
	if !gateway.IsAuthError(err) {
		t.Fatalf("expected auth category, got %v", err)
	}
	apiErr, ok := gateway.AsAPIError(err)
	if !ok || apiErr.Status != http.StatusUnauthorized || apiErr.Message != "invalid token" {
		t.Fatalf("unexpected api error %+v", apiErr)
	}
}

func TestNetworkFailureHasZeroStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // refuse connections

	client := newClient(t, server.URL, session.NewMemoryStore())
	_, err := client.Get(context.Background(), "product", "p1")
	if err == nil {
		t.Fatal("expected error")
	}
	if !gateway.IsNetworkError(err) {
		t.Fatalf("expected network error, got %v", err)
	}
	apiErr, _ := gateway.AsAPIError(err)
	if apiErr.Status != 0 || apiErr.Message != "network error" {
		t.Fatalf("unexpected api error %+v", apiErr)
	}
}

func TestMalformedBodyOnSuccessStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "<html>gateway timeout page</html>")
	}))
	defer server.Close()

	client := newClient(t, server.URL, session.NewMemoryStore())
	_, err := client.Get(context.Background(), "product", "p1")
	apiErr, ok := gateway.AsAPIError(err)
	if !ok || apiErr.Message != "malformed response" {
		t.Fatalf("expected malformed response error, got %v", err)
	}
}

func TestValidationFailureCollectsFieldErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]any{
			"success": false,
			"message": "validation failed",
			"errors": []map[string]any{
				{"path": "name", "msg": "name is required"},
				{"param": "price", "msg": "must be positive"},
			},
		})
	}))
	defer server.Close()

	client := newClient(t, server.URL, session.NewMemoryStore())
	_, err := client.Create(context.Background(), "product", map[string]any{"price": -1})
	apiErr, ok := gateway.AsAPIError(err)
	if !ok || !apiErr.HasFieldErrors() {
		t.Fatalf("expected field errors, got %v", err)
	}
	if len(apiErr.Fields) != 2 {
		t.Fatalf("expected 2 field errors, got %d", len(apiErr.Fields))
	}
	if apiErr.Fields[0].Field != "name" || apiErr.Fields[1].Field != "price" {
		t.Fatalf("unexpected fields %+v", apiErr.Fields)
	}
}

func TestSuccessFalseOn200IsFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"success": false, "error": "soft failure"})
	}))
	defer server.Close()

	client := newClient(t, server.URL, session.NewMemoryStore())
	_, err := client.Get(context.Background(), "product", "p1")
	apiErr, ok := gateway.AsAPIError(err)
	if !ok || apiErr.Message != "soft failure" {
		t.Fatalf("expected envelope failure, got %v", err)
	}
}

func TestUpdateStatusUsesStatusRoute(t *testing.T) {
	var gotMethod, gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"data":    map[string]any{"_id": "o9", "status": "shipped"},
		})
	}))
	defer server.Close()

	client := newClient(t, server.URL, session.NewMemoryStore())
	record, err := client.UpdateStatus(context.Background(), "order", "o9", map[string]any{"status": "shipped"})
	if err != nil {
		t.Fatalf("update status: %v", err)
	}
	if gotMethod != http.MethodPut || gotPath != "/api/orders/o9/status" {
		t.Fatalf("unexpected request %s %s", gotMethod, gotPath)
	}
	if record["status"] != "shipped" {
		t.Fatalf("unexpected record %+v", record)
	}
}

func TestStatusRouteMissingForUnfencedResource(t *testing.T) {
	client := newClient(t, "http://localhost:0", session.NewMemoryStore())
	_, err := client.UpdateStatus(context.Background(), "product", "p1", map[string]any{"status": "x"})
	if err == nil || !strings.Contains(err.Error(), "not found") {
		t.Fatalf("expected route lookup failure, got %v", err)
	}
}

func TestLoginReturnsTokenAndProfile(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/auth/login" || r.Method != http.MethodPost {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		body := map[string]any{}
		json.NewDecoder(r.Body).Decode(&body)
		if body["email"] != "dana@nutriwell.test" {
			t.Errorf("unexpected login body %+v", body)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"data": map[string]any{
				"token": "fresh-token",
				"user":  map[string]any{"_id": "u1", "name": "Dana", "email": "dana@nutriwell.test", "role": "admin"},
			},
		})
	}))
	defer server.Close()

	client := newClient(t, server.URL, session.NewMemoryStore())
	token, profile, err := client.Login(context.Background(), "dana@nutriwell.test", "s3cret")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if token != "fresh-token" {
		t.Fatalf("unexpected token %q", token)
	}
	if profile == nil || profile.ID != "u1" || profile.Role != "admin" {
		t.Fatalf("unexpected profile %+v", profile)
	}
}

func TestPostMultipartSendsFileAndExtraFields(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse multipart: %v", err)
		}
		file, header, err := r.FormFile("thumbnail")
		if err != nil {
			t.Errorf("form file: %v", err)
		} else {
			defer file.Close()
			content, _ := io.ReadAll(file)
			if string(content) != "fake-bytes" || header.Filename != "cover.jpg" {
				t.Errorf("unexpected upload %q %q", content, header.Filename)
			}
		}
		if r.FormValue("preset") != "unsigned-products" {
			t.Errorf("missing preset field")
		}
		json.NewEncoder(w).Encode(map[string]any{"success": true, "data": map[string]any{"url": "https://cdn.test/cover.jpg"}})
	}))
	defer server.Close()

	client := newClient(t, server.URL, session.NewMemoryStore())
	endpoint, err := client.Endpoint(catalog.UploadGroup, "thumbnail", nil, nil)
	if err != nil {
		t.Fatalf("endpoint: %v", err)
	}
	raw, err := client.PostMultipart(context.Background(), endpoint, gateway.MultipartForm{
		Field:    "thumbnail",
		FileName: "cover.jpg",
		Content:  strings.NewReader("fake-bytes"),
		Extra:    map[string]string{"preset": "unsigned-products"},
	})
	if err != nil {
		t.Fatalf("post multipart: %v", err)
	}
	if !strings.Contains(string(raw), "cdn.test/cover.jpg") {
		t.Fatalf("unexpected body %s", raw)
	}
}
