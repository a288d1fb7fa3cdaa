package providers

import (
	"os"

	"github.com/ryanbrandenburg/mvcgo/framework/config"
	"github.com/ryanbrandenburg/mvcgo/framework/container"
	"github.com/ryanbrandenburg/mvcgo/framework/log"
)

// ── ConfigServiceProvider ─────────────────────────────────────────────────────

// ConfigServiceProvider loads the application configuration from .env and
// binds it into the container as "config".
//
// Bound abstracts:
//   - "config"  → *config.Config
type ConfigServiceProvider struct {
	container.BaseProvider
	EnvFiles []string
}

func (p *ConfigServiceProvider) Register(app *container.Container) {
	envFiles := p.EnvFiles
	app.Singleton("config", func(c *container.Container) any {
		return config.Load(envFiles...)
	})
	app.Alias("config", "configuration")
}

// ── LoggingServiceProvider ────────────────────────────────────────────────────

// LoggingServiceProvider configures the process logger from application
// configuration. Runs in Boot so "config" is resolvable.
type LoggingServiceProvider struct {
	container.BaseProvider
}

func (p *LoggingServiceProvider) Register(_ *container.Container) {}

func (p *LoggingServiceProvider) Boot(app *container.Container) {
	cfg := container.Resolve[*config.Config](app, "config")
	log.Setup(os.Stderr, cfg.App.Debug)
	log.Debug(log.CatBoot, "logging configured", "env", cfg.App.Env)
}
