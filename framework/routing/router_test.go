package routing_test

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/ryanbrandenburg/mvcgo/framework/routing"
)

func perform(t *testing.T, r *routing.Router, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func echo(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(body))
	}
}

func TestVerbs(t *testing.T) {
	r := routing.New()
	r.Get("/a", echo("get"))
	r.Post("/a", echo("post"))
	r.Put("/a", echo("put"))
	r.Patch("/a", echo("patch"))
	r.Delete("/a", echo("delete"))

	for _, method := range []string{"GET", "POST", "PUT", "PATCH", "DELETE"} {
		rr := perform(t, r, method, "/a")
		if rr.Code != http.StatusOK {
			t.Errorf("%s /a = %d", method, rr.Code)
		}
	}
}

func TestAnyMatchesAllMethods(t *testing.T) {
	r := routing.New()
	r.Any("/ping", echo("pong"))

	for _, method := range []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS", "HEAD"} {
		rr := perform(t, r, method, "/ping")
		if rr.Code != http.StatusOK {
			t.Errorf("%s /ping = %d", method, rr.Code)
		}
	}
}

func TestParamExtraction(t *testing.T) {
	r := routing.New()
	r.Get("/users/{id}", func(w http.ResponseWriter, req *http.Request) {
		w.Write([]byte(routing.Param(req, "id")))
	})

	rr := perform(t, r, "GET", "/users/42")
	if rr.Body.String() != "42" {
		t.Errorf("param = %q, want 42", rr.Body.String())
	}
}

func TestPrefixMountsSubRouter(t *testing.T) {
	r := routing.New()
	r.Prefix("/api/v1", func(api *routing.Router) {
		api.Get("/health", echo("ok"))
	})

	if rr := perform(t, r, "GET", "/api/v1/health"); rr.Code != http.StatusOK {
		t.Errorf("prefixed route = %d", rr.Code)
	}
	if rr := perform(t, r, "GET", "/health"); rr.Code == http.StatusOK {
		t.Error("route reachable outside its prefix")
	}
}

func TestGroupMiddlewareIsScoped(t *testing.T) {
	deny := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		})
	}

	r := routing.New()
	r.Get("/open", echo("ok"))
	r.Group(func(g *routing.Router) {
		g.Middleware(deny)
		g.Get("/closed", echo("secret"))
	})

	if rr := perform(t, r, "GET", "/open"); rr.Code != http.StatusOK {
		t.Errorf("/open = %d", rr.Code)
	}
	if rr := perform(t, r, "GET", "/closed"); rr.Code != http.StatusUnauthorized {
		t.Errorf("/closed = %d, want 401", rr.Code)
	}
}

type photoController struct{}

func (photoController) Index(w http.ResponseWriter, r *http.Request)  { w.Write([]byte("index")) }
func (photoController) Store(w http.ResponseWriter, r *http.Request)  { w.Write([]byte("store")) }
func (photoController) Show(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte("show:" + routing.Param(r, "id")))
}
func (photoController) Update(w http.ResponseWriter, r *http.Request)  { w.Write([]byte("update")) }
func (photoController) Destroy(w http.ResponseWriter, r *http.Request) { w.Write([]byte("destroy")) }

func TestResourceRoutes(t *testing.T) {
	r := routing.New()
	r.Resource("/photos", photoController{})

	tests := []struct {
		method, target, want string
	}{
		{"GET", "/photos", "index"},
		{"POST", "/photos", "store"},
		{"GET", "/photos/7", "show:7"},
		{"PUT", "/photos/7", "update"},
		{"PATCH", "/photos/7", "update"},
		{"DELETE", "/photos/7", "destroy"},
	}
	for _, tt := range tests {
		rr := perform(t, r, tt.method, tt.target)
		if rr.Body.String() != tt.want {
			t.Errorf("%s %s = %q, want %q", tt.method, tt.target, rr.Body.String(), tt.want)
		}
	}
}

func TestStaticServesFiles(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "site.css"), []byte("body{}"), 0o644); err != nil {
		t.Fatal(err)
	}

	r := routing.New()
	r.Static("/static", dir)

	rr := perform(t, r, "GET", "/static/site.css")
	if rr.Code != http.StatusOK {
		t.Fatalf("GET /static/site.css = %d", rr.Code)
	}
	if rr.Body.String() != "body{}" {
		t.Errorf("body = %q", rr.Body.String())
	}

	if rr := perform(t, r, "GET", "/static/missing.css"); rr.Code != http.StatusNotFound {
		t.Errorf("missing asset = %d, want 404", rr.Code)
	}
}
