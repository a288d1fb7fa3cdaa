package main

import (
	"log"
	"net/http"

	"github.com/ryanbrandenburg/mvcgo/framework/app"
	"github.com/ryanbrandenburg/mvcgo/framework/container"
	gohttp "github.com/ryanbrandenburg/mvcgo/framework/http"
	"github.com/ryanbrandenburg/mvcgo/framework/http/validation"
	"github.com/ryanbrandenburg/mvcgo/framework/providers"
	"github.com/ryanbrandenburg/mvcgo/framework/routing"
)

func main() {
	application := app.New() // loads .env automatically
	application.Boot()

	r := application.Router()
	views := application.Views()
	opts := application.Options()

	// ── Pages ────────────────────────────────────────────────────────────────

	// Templates can reference fingerprinted assets:
	//   <img src="{{asset "img/logo.png"}}">
	// which renders as /static/img/logo.png?v=<content hash>.
	r.Get("/", func(w http.ResponseWriter, req *http.Request) {
		views.View(w, "home", map[string]any{"title": "Home"})
	})

	// ── API ──────────────────────────────────────────────────────────────────

	makeValidator := container.Resolve[providers.ValidatorMaker](
		application.Container, providers.ContractValidator)

	r.Prefix("/api/v1", func(api *routing.Router) {

		// GET /api/v1/users?page=2
		api.Get("/users", func(w http.ResponseWriter, req *http.Request) {
			request := gohttp.NewRequest(req)
			res := gohttp.NewResponse(w)

			v := makeValidator(request.All(), opts.SharedRules["pagination"])
			if v.Fails() {
				res.ValidationError(v.Errors())
				return
			}

			res.Success([]map[string]any{
				{"id": 1, "name": "Alice"},
				{"id": 2, "name": "Bob"},
			})
		})

		// POST /api/v1/users
		api.Post("/users", func(w http.ResponseWriter, req *http.Request) {
			request := gohttp.NewRequest(req)
			res := gohttp.NewResponse(w)

			var body struct {
				Name  string `json:"name"`
				Email string `json:"email"`
			}
			if err := request.Bind(&body); err != nil {
				res.Error(http.StatusBadRequest, err.Error())
				return
			}

			v := makeValidator(map[string]string{
				"name":  body.Name,
				"email": body.Email,
			}, validation.Rules{
				"name":  "required|min:2|max:100",
				"email": "required|email",
			})
			if v.Fails() {
				res.ValidationError(v.Errors())
				return
			}

			res.Created(map[string]any{
				"name":  body.Name,
				"email": body.Email,
			})
		})

		// GET /api/v1/users/{id}
		api.Get("/users/{id}", func(w http.ResponseWriter, req *http.Request) {
			res := gohttp.NewResponse(w)
			id := routing.Param(req, "id")
			res.Success(map[string]any{"id": id})
		})
	})

	// ── Auth group with middleware ────────────────────────────────────────────

	r.Group(func(protected *routing.Router) {
		protected.Middleware(AuthMiddleware)

		protected.Get("/profile", func(w http.ResponseWriter, req *http.Request) {
			res := gohttp.NewResponse(w)
			res.Success(map[string]any{"user": "authenticated"})
		})
	})

	if err := application.Run(); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

// AuthMiddleware is an example bearer-token guard.
func AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req := gohttp.NewRequest(r)
		res := gohttp.NewResponse(w)

		if req.BearerToken() == "" {
			res.Unauthorized()
			return
		}
		next.ServeHTTP(w, r)
	})
}
