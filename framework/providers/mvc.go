package providers

import (
	"strings"
	"unicode"

	"github.com/ryanbrandenburg/mvcgo/framework/config"
	"github.com/ryanbrandenburg/mvcgo/framework/container"
	"github.com/ryanbrandenburg/mvcgo/framework/http/validation"
	"github.com/ryanbrandenburg/mvcgo/framework/log"
	"github.com/ryanbrandenburg/mvcgo/framework/routing"
	"github.com/ryanbrandenburg/mvcgo/framework/view"
	"github.com/ryanbrandenburg/mvcgo/framework/view/assets"
)

// ── Contracts ─────────────────────────────────────────────────────────────────

// Framework-owned contract keys. This is the explicit catalog the
// bootstrap operates over; a contract is framework-owned if and only if
// it appears here.
const (
	// ContractOptions resolves the fully configured *MvcOptions.
	ContractOptions = "mvc.options"
	// ContractOptionsSetup groups the ordered MvcOptions configurators.
	// Multiple simultaneous implementations are valid; all run.
	ContractOptionsSetup = "mvc.options.setup"
	// ContractConventions groups resource route conventions.
	// Multiple simultaneous implementations are valid; all apply.
	ContractConventions = "mvc.conventions"

	// Single-implementation contracts.
	ContractRouter       = "mvc.router"
	ContractViewEngine   = "mvc.view"
	ContractTagHelpers   = "mvc.view.helpers"
	ContractValidator    = "mvc.validator"
	ContractFileProvider = "mvc.assets.files"
	ContractVersioner    = "mvc.assets.versioner"
)

// multiRegistrationContracts is the set of contracts that accumulate
// implementations instead of holding exactly one.
var multiRegistrationContracts = map[string]bool{
	ContractOptionsSetup: true,
	ContractConventions:  true,
}

// IsMultiRegistration reports whether the framework treats contract as a
// multi-implementation group.
func IsMultiRegistration(contract string) bool {
	return multiRegistrationContracts[contract]
}

// ── MvcOptions ────────────────────────────────────────────────────────────────

// MvcOptions collects the tunables the framework consults at runtime.
// It is built once, by running every registered OptionsSetup in
// registration order over a zero value.
type MvcOptions struct {
	// MaxRequestBodySize bounds request body buffering.
	MaxRequestBodySize int64

	// View engine settings.
	ViewDir string
	ViewExt string

	// Asset settings.
	AssetURLPrefix     string
	AppendAssetVersion bool

	// SharedRules are named validation rule sets usable across controllers.
	SharedRules map[string]validation.Rules
}

// OptionsSetup configures MvcOptions. Implementations registered under
// ContractOptionsSetup run in registration order, so later setups see —
// and may override — the effects of earlier ones.
type OptionsSetup interface {
	Configure(o *MvcOptions)
}

// ── Default options setups ────────────────────────────────────────────────────

// CoreOptionsSetup establishes baseline limits.
type CoreOptionsSetup struct{}

func (s *CoreOptionsSetup) Configure(o *MvcOptions) {
	o.MaxRequestBodySize = 32 << 20 // 32 MB
}

// ViewOptionsSetup carries view settings from configuration into options.
type ViewOptionsSetup struct {
	Config *config.Config
}

func (s *ViewOptionsSetup) Configure(o *MvcOptions) {
	o.ViewDir = s.Config.View.Dir
	o.ViewExt = s.Config.View.Ext
}

// AssetOptionsSetup carries asset settings from configuration into options.
type AssetOptionsSetup struct {
	Config *config.Config
}

func (s *AssetOptionsSetup) Configure(o *MvcOptions) {
	o.AssetURLPrefix = s.Config.Assets.URLPrefix
	o.AppendAssetVersion = s.Config.Assets.AppendVersion
}

// ValidationOptionsSetup seeds the shared validation rule sets.
type ValidationOptionsSetup struct{}

func (s *ValidationOptionsSetup) Configure(o *MvcOptions) {
	if o.SharedRules == nil {
		o.SharedRules = make(map[string]validation.Rules)
	}
	o.SharedRules["pagination"] = validation.Rules{
		"page":     "sometimes|integer|gte:1",
		"per_page": "sometimes|integer|gte:1|lte:100",
	}
}

// ── Conventions ───────────────────────────────────────────────────────────────

// Convention maps a resource name to its route pattern. All registered
// conventions apply in order; each sees the previous result.
type Convention interface {
	RoutePath(path string) string
}

// KebabResourceConvention lowercases CamelCase resource names with dashes:
// "UserPhotos" → "/user-photos".
type KebabResourceConvention struct{}

func (KebabResourceConvention) RoutePath(path string) string {
	name := strings.TrimPrefix(path, "/")
	var b strings.Builder
	b.WriteByte('/')
	for i, r := range name {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('-')
			}
			b.WriteRune(unicode.ToLower(r))
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ── ValidatorMaker ────────────────────────────────────────────────────────────

// ValidatorMaker builds a Validator for a request's input. Registered as
// a single-implementation contract so applications can substitute their
// own construction (custom rules, translated messages).
type ValidatorMaker func(data map[string]string, rules validation.Rules) *validation.Validator

// ── Bootstrap ─────────────────────────────────────────────────────────────────

// AddMvcServices registers the framework's default services into sc and
// returns it.
//
// For multi-registration contracts each default implementation is
// appended unless that exact implementation is already present, so the
// call is idempotent and caller-supplied implementations of the same
// contract coexist with the defaults. For every other contract the
// default is registered only when the contract has no registration at
// all — a caller registration made beforehand wins and the default is
// suppressed.
func AddMvcServices(sc *container.ServiceCollection) *container.ServiceCollection {
	// Multi-registration: ordered MvcOptions configurators.
	sc.TryAddImplementation(container.Registration{
		Contract:       ContractOptionsSetup,
		Implementation: container.TypeKey((*CoreOptionsSetup)(nil)),
		Lifetime:       container.Transient,
		Factory:        func(c *container.Container) any { return &CoreOptionsSetup{} },
	})
	sc.TryAddImplementation(container.Registration{
		Contract:       ContractOptionsSetup,
		Implementation: container.TypeKey((*ViewOptionsSetup)(nil)),
		Lifetime:       container.Transient,
		Factory: func(c *container.Container) any {
			return &ViewOptionsSetup{Config: container.Resolve[*config.Config](c, "config")}
		},
	})
	sc.TryAddImplementation(container.Registration{
		Contract:       ContractOptionsSetup,
		Implementation: container.TypeKey((*AssetOptionsSetup)(nil)),
		Lifetime:       container.Transient,
		Factory: func(c *container.Container) any {
			return &AssetOptionsSetup{Config: container.Resolve[*config.Config](c, "config")}
		},
	})
	sc.TryAddImplementation(container.Registration{
		Contract:       ContractOptionsSetup,
		Implementation: container.TypeKey((*ValidationOptionsSetup)(nil)),
		Lifetime:       container.Transient,
		Factory:        func(c *container.Container) any { return &ValidationOptionsSetup{} },
	})

	// Multi-registration: resource route conventions.
	sc.TryAddImplementation(container.Registration{
		Contract:       ContractConventions,
		Implementation: container.TypeKey(KebabResourceConvention{}),
		Lifetime:       container.Transient,
		Factory:        func(c *container.Container) any { return KebabResourceConvention{} },
	})

	// Single-registration: the effective MvcOptions, built by running
	// every registered setup in order.
	sc.TryAdd(container.Registration{
		Contract:       ContractOptions,
		Implementation: container.TypeKey((*MvcOptions)(nil)),
		Lifetime:       container.Singleton,
		Factory: func(c *container.Container) any {
			opts := &MvcOptions{}
			setups := container.ResolveTagged[OptionsSetup](c, ContractOptionsSetup)
			for _, s := range setups {
				s.Configure(opts)
			}
			log.Debug(log.CatBoot, "mvc options configured", "setups", len(setups))
			return opts
		},
	})

	sc.TryAdd(container.Registration{
		Contract:       ContractRouter,
		Implementation: container.TypeKey((*routing.Router)(nil)),
		Lifetime:       container.Singleton,
		Factory:        func(c *container.Container) any { return routing.New() },
	})

	sc.TryAdd(container.Registration{
		Contract:       ContractFileProvider,
		Implementation: container.TypeKey((*assets.DirFileProvider)(nil)),
		Lifetime:       container.Singleton,
		Factory: func(c *container.Container) any {
			cfg := container.Resolve[*config.Config](c, "config")
			files, err := assets.NewDirFileProvider(cfg.Assets.Dir)
			if err != nil {
				log.Error(log.CatAssets, "cannot create asset file provider", "dir", cfg.Assets.Dir, "err", err)
				return nil
			}
			return files
		},
	})

	sc.TryAdd(container.Registration{
		Contract:       ContractVersioner,
		Implementation: container.TypeKey((*assets.VersionProvider)(nil)),
		Lifetime:       container.Singleton,
		Factory: func(c *container.Container) any {
			cfg := container.Resolve[*config.Config](c, "config")
			files, ok := container.MustResolve[assets.FileProvider](c, ContractFileProvider)
			if !ok {
				// No file provider, no versioning; renders still succeed.
				return (*assets.VersionProvider)(nil)
			}
			return assets.NewVersionProvider(files, cfg.Assets.CacheTTL)
		},
	})

	sc.TryAdd(container.Registration{
		Contract:       ContractTagHelpers,
		Implementation: container.TypeKey((*view.HelperRegistry)(nil)),
		Lifetime:       container.Singleton,
		Factory: func(c *container.Container) any {
			opts := container.Resolve[*MvcOptions](c, ContractOptions)
			versioner := container.Resolve[*assets.VersionProvider](c, ContractVersioner)
			return view.DefaultHelpers(versioner, opts.AssetURLPrefix)
		},
	})

	sc.TryAdd(container.Registration{
		Contract:       ContractViewEngine,
		Implementation: container.TypeKey((*view.Engine)(nil)),
		Lifetime:       container.Singleton,
		Factory: func(c *container.Container) any {
			opts := container.Resolve[*MvcOptions](c, ContractOptions)
			versioner := container.Resolve[*assets.VersionProvider](c, ContractVersioner)
			helpers := container.Resolve[*view.HelperRegistry](c, ContractTagHelpers)
			engine := view.NewEngine(opts.ViewDir, opts.ViewExt)
			engine.Funcs(map[string]any{
				"asset": view.AssetFunc(versioner, opts.AssetURLPrefix, opts.AppendAssetVersion),
			})
			engine.Helpers(helpers)
			return engine
		},
	})

	sc.TryAdd(container.Registration{
		Contract:       ContractValidator,
		Implementation: "validation.Make",
		Lifetime:       container.Singleton,
		Factory:        func(c *container.Container) any { return ValidatorMaker(validation.Make) },
	})

	return sc
}
