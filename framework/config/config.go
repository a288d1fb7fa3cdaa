package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config is the central typed configuration struct.
type Config struct {
	App    AppConfig
	View   ViewConfig
	Assets AssetConfig
}

type AppConfig struct {
	Name  string
	Env   string // local | production | testing
	Debug bool
	URL   string
	Port  string
}

type ViewConfig struct {
	Dir string // template directory
	Ext string // template file extension
}

type AssetConfig struct {
	Dir           string        // filesystem root for static assets
	URLPrefix     string        // URL prefix assets are served under
	AppendVersion bool          // append ?v=<token> to asset URLs
	CacheTTL      time.Duration // version-token cache TTL; 0 = no expiry
}

// Load reads .env (if present) and populates a Config from environment variables.
// Call once at bootstrap: cfg := config.Load()
func Load(envFiles ...string) *Config {
	files := envFiles
	if len(files) == 0 {
		files = []string{".env"}
	}
	// Non-fatal: .env may not exist in production
	_ = godotenv.Load(files...)

	return &Config{
		App: AppConfig{
			Name:  env("APP_NAME", "mvcgo"),
			Env:   env("APP_ENV", "local"),
			Debug: envBool("APP_DEBUG", true),
			URL:   env("APP_URL", "http://localhost"),
			Port:  env("APP_PORT", "8000"),
		},
		View: ViewConfig{
			Dir: env("VIEW_DIR", "./views"),
			Ext: env("VIEW_EXT", ".html"),
		},
		Assets: AssetConfig{
			Dir:           env("ASSET_DIR", "./public"),
			URLPrefix:     env("ASSET_URL_PREFIX", "/static"),
			AppendVersion: envBool("ASSET_APPEND_VERSION", true),
			CacheTTL:      envDuration("ASSET_CACHE_TTL", 0),
		},
	}
}

// Get returns a raw env value, falling back to defaultVal.
func Get(key, defaultVal string) string {
	return env(key, defaultVal)
}

// GetInt returns an int env value.
func GetInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return i
}

// GetBool returns a bool env value.
func GetBool(key string, defaultVal bool) bool {
	return envBool(key, defaultVal)
}

// ── helpers ─────────────────────────────────────────────────────────────────

func env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
