package app

import (
	"net/http"

	"github.com/ryanbrandenburg/mvcgo/framework/config"
	"github.com/ryanbrandenburg/mvcgo/framework/container"
	gohttp "github.com/ryanbrandenburg/mvcgo/framework/http"
	"github.com/ryanbrandenburg/mvcgo/framework/log"
	"github.com/ryanbrandenburg/mvcgo/framework/providers"
	"github.com/ryanbrandenburg/mvcgo/framework/routing"
	"github.com/ryanbrandenburg/mvcgo/framework/view"
)

// Application is the top-level application container.
// It embeds the IoC Container and ProviderRegistry so user code can
// call app.Bind(), app.Singleton(), app.Register() directly.
type Application struct {
	*container.Container
	Providers *container.ProviderRegistry

	services *container.ServiceCollection
	booted   bool
}

// New creates the application. Framework services are described in a
// ServiceCollection but not installed until Boot, so the caller can
// pre-register its own implementations first — a caller registration
// wins over the framework default for single-implementation contracts
// and coexists with the defaults for multi-implementation ones.
func New(envFiles ...string) *Application {
	c := container.New()
	registry := container.NewProviderRegistry(c)

	app := &Application{
		Container: c,
		Providers: registry,
		services:  container.NewServiceCollection(),
	}

	registry.Register(&providers.ConfigServiceProvider{EnvFiles: envFiles})
	registry.Register(&providers.LoggingServiceProvider{})

	return app
}

// Services exposes the bootstrap service collection for pre-Boot
// registrations.
func (a *Application) Services() *container.ServiceCollection {
	return a.services
}

// Register adds a ServiceProvider to the application.
func (a *Application) Register(provider container.ServiceProvider) {
	a.Providers.Register(provider)
}

// Boot installs the framework services and runs the Boot() phase on all
// providers. Calling Boot more than once is a no-op.
func (a *Application) Boot() {
	if a.booted {
		return
	}
	a.booted = true

	providers.AddMvcServices(a.services)
	a.services.Apply(a.Container)
	a.Providers.Boot()

	opts := a.Options()
	if opts.MaxRequestBodySize > 0 {
		gohttp.MaxMultipartMemory = opts.MaxRequestBodySize
	}

	// Serve static assets under the configured prefix.
	cfg := a.Config()
	a.Router().Static(opts.AssetURLPrefix, cfg.Assets.Dir)

	log.Info(log.CatBoot, "application booted",
		"services", a.services.Len(), "providers", len(a.Providers.Providers()))
}

// ── Accessors ─────────────────────────────────────────────────────────────────

// Config resolves *config.Config from the container.
func (a *Application) Config() *config.Config {
	return container.Resolve[*config.Config](a.Container, "config")
}

// Options resolves the configured *providers.MvcOptions.
func (a *Application) Options() *providers.MvcOptions {
	return container.Resolve[*providers.MvcOptions](a.Container, providers.ContractOptions)
}

// Router resolves *routing.Router from the container.
func (a *Application) Router() *routing.Router {
	return container.Resolve[*routing.Router](a.Container, providers.ContractRouter)
}

// Views resolves the *view.Engine from the container.
func (a *Application) Views() *view.Engine {
	return container.Resolve[*view.Engine](a.Container, providers.ContractViewEngine)
}

// Resource registers RESTful routes for a controller, applying every
// registered route convention to the resource path in order.
func (a *Application) Resource(path string, c routing.ResourceController) {
	for _, conv := range container.ResolveTagged[providers.Convention](a.Container, providers.ContractConventions) {
		path = conv.RoutePath(path)
	}
	a.Router().Resource(path, c)
}

// Run boots the application (if needed) and starts the HTTP server.
func (a *Application) Run() error {
	a.Boot()
	cfg := a.Config()
	addr := ":" + cfg.App.Port
	log.Info(log.CatBoot, "server listening", "app", cfg.App.Name, "addr", addr, "env", cfg.App.Env)
	return http.ListenAndServe(addr, a.Router())
}

// ── Environment helpers ───────────────────────────────────────────────────────

func (a *Application) Environment() string { return a.Config().App.Env }
func (a *Application) IsLocal() bool       { return a.Environment() == "local" }
func (a *Application) IsProduction() bool  { return a.Environment() == "production" }
func (a *Application) IsTesting() bool     { return a.Environment() == "testing" }
func (a *Application) IsDebug() bool       { return a.Config().App.Debug }

// ── Controller base ───────────────────────────────────────────────────────────

// Controller is an embeddable base for HTTP controllers.
type Controller struct{}

func (c *Controller) Request(r *http.Request) *gohttp.Request {
	return gohttp.NewRequest(r)
}

func (c *Controller) Response(w http.ResponseWriter) *gohttp.Response {
	return gohttp.NewResponse(w)
}
