// Command example drives the admin console core end to end against an
// embedded fake platform API: login, list and search products, create a
// record through the form controller, and upload a thumbnail.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"

	admin "github.com/nutriwell/go-admin"
)

func main() {
	ctx := context.Background()

	api := newFakeAPI()
	server := httptest.NewServer(api)
	defer server.Close()

	cfg := admin.DefaultConfig()
	cfg.API.BaseURL = server.URL
	cfg.Logging.Level = "info"
	cfg.Features.SchemaValidation = true

	module, err := admin.New(cfg, admin.WithConfirmer(admin.ConfirmerFunc(func(ctx context.Context, prompt string) (bool, error) {
		fmt.Printf("confirm: %s -> yes\n", prompt)
		return true, nil
	})))
	if err != nil {
		log.Fatalf("initialise admin module: %v", err)
	}
	defer module.Close()

	profile, err := module.Login(ctx, "maya@nutriwell.test", "hunter2")
	if err != nil {
		log.Fatalf("login: %v", err)
	}
	fmt.Printf("logged in as %s (%s)\n", profile.Name, profile.Role)

	shell, err := module.Shell("product")
	if err != nil {
		log.Fatalf("shell: %v", err)
	}
	if err := shell.Open(ctx); err != nil {
		log.Fatalf("open product list: %v", err)
	}

	list := shell.List()
	fmt.Printf("products: %d across %d page(s)\n", list.FilteredCount(), list.TotalPages())

	list.SetSearch("tea")
	for _, item := range list.VisibleItems() {
		fmt.Printf("  match: %v\n", item["name"])
	}
	list.SetSearch("")

	shell.ShowCreate()
	form := shell.Form()
	form.SetField("name", "Overnight Oats Kit")
	form.SetField("description", "Batch-prep breakfast kit")
	form.SetField("category", "breakfast")
	form.SetField("price", "9.95")
	if slug, err := form.SuggestSlug(); err == nil {
		form.SetField("slug", slug)
	}

	record, err := shell.Save(ctx)
	if err != nil {
		log.Fatalf("save product: %v", err)
	}
	printJSON("created", record)

	schema, err := module.Catalog().Get("product")
	if err != nil {
		log.Fatalf("catalog: %v", err)
	}
	url, err := module.Uploads().Upload(ctx, schema, "thumbnail", admin.UploadFile{
		Name:    "oats.jpg",
		Content: strings.NewReader("not-really-a-jpeg"),
	})
	if err != nil {
		log.Fatalf("upload: %v", err)
	}
	fmt.Printf("thumbnail uploaded to %s\n", url)

	if err := module.Logout(ctx); err != nil {
		log.Fatalf("logout: %v", err)
	}
	fmt.Println("logged out")
}

func printJSON(label string, value any) {
	encoded, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		log.Fatalf("encode %s: %v", label, err)
	}
	fmt.Printf("%s:\n%s\n", label, encoded)
}

// fakeAPI is just enough of the platform REST surface for the walkthrough.
type fakeAPI struct {
	mu       sync.Mutex
	mux      *http.ServeMux
	products []map[string]any
}

func newFakeAPI() *fakeAPI {
	api := &fakeAPI{
		products: []map[string]any{
			{"_id": "p1", "name": "Detox Tea", "category": "drinks", "status": "published"},
			{"_id": "p2", "name": "Granola", "category": "snacks", "status": "published"},
		},
	}
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"data": map[string]any{
				"token": "demo-token",
				"user":  map[string]any{"_id": "u1", "name": "Maya", "email": "maya@nutriwell.test", "role": "admin"},
			},
		})
	})
	mux.HandleFunc("GET /api/products", func(w http.ResponseWriter, r *http.Request) {
		api.mu.Lock()
		items := append([]map[string]any(nil), api.products...)
		api.mu.Unlock()
		json.NewEncoder(w).Encode(map[string]any{"success": true, "data": items})
	})
	mux.HandleFunc("POST /api/products", func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]any
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		api.mu.Lock()
		payload["_id"] = fmt.Sprintf("p%d", len(api.products)+1)
		api.products = append(api.products, payload)
		api.mu.Unlock()
		json.NewEncoder(w).Encode(map[string]any{"success": true, "data": payload})
	})
	mux.HandleFunc("POST /api/upload/thumbnail", func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"data":    map[string]any{"url": "https://cdn.nutriwell.test/thumbnails/oats.jpg"},
		})
	})
	api.mux = mux
	return api
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) { f.mux.ServeHTTP(w, r) }
