// Package container provides the framework's IoC (Inversion of Control)
// container, the ServiceCollection used by bootstrap to describe service
// registrations, and the Service Provider system.
//
// # Overview
//
// The container manages the instantiation and lifecycle of an application's
// dependencies. It supports transient bindings, singletons, pre-built
// instances, aliases, tags, contextual bindings, and extension (decoration).
// Because Go has no runtime constructor reflection, auto-wiring is replaced
// by explicit factory functions.
//
// # Container Lifecycle
//
//  1. Create: c := container.New()
//  2. Describe services: sc := container.NewServiceCollection(); sc.TryAdd(...)
//  3. Install: sc.Apply(c)
//  4. Register providers: registry.Register(&MyProvider{})
//  5. Boot: registry.Boot()        — safe to resolve everything after this
//  6. Serve requests
//
// # Bindings
//
//	// Transient — new instance every Make()
//	c.Bind("ids", func(c *container.Container) any { return newID() })
//
//	// Singleton — created once, reused
//	c.Singleton("cache", func(c *container.Container) any {
//	    cfg := container.Resolve[*Config](c, "config")
//	    return cache.New(cfg)
//	})
//
//	// Pre-built value
//	c.Instance("config", myConfig)
//
//	// Alias
//	c.Alias("cache", "cacheManager")
//
// # ServiceCollection
//
// A ServiceCollection is an ordered list of (contract, implementation,
// lifetime, factory) registrations with explicit multiplicity rules.
// Contracts meant to hold several simultaneous implementations — ordered
// configurators, route conventions — use Add / TryAddImplementation, so
// framework defaults and caller-supplied implementations coexist and
// repeated bootstrap never duplicates a default. Contracts meant to hold
// exactly one implementation use TryAdd, so a caller registration made
// before bootstrap suppresses the framework default entirely.
//
//	sc := container.NewServiceCollection()
//	sc.TryAdd(container.Registration{
//	    Contract:       "mvc.router",
//	    Implementation: container.TypeKey((*routing.Router)(nil)),
//	    Lifetime:       container.Singleton,
//	    Factory:        func(c *container.Container) any { return routing.New() },
//	})
//	sc.Apply(c)
//
// After Apply, c.Make(contract) resolves the effective single registration
// and c.Tagged(contract) resolves every registration in insertion order.
//
// # Resolving
//
//	raw := c.Make("cache")
//
//	// Generic (preferred — no type assertion required)
//	cache := container.Resolve[*Cache](c, "cache")
//
//	// All implementations of a group contract
//	setups := container.ResolveTagged[OptionsSetup](c, "mvc.options.setup")
//
// # Service Providers
//
//	type AppServiceProvider struct{ container.BaseProvider }
//
//	func (p *AppServiceProvider) Register(app *container.Container) {
//	    app.Singleton("mailer", func(c *container.Container) any { ... })
//	}
//
//	registry := container.NewProviderRegistry(c)
//	registry.Register(&AppServiceProvider{})
//	registry.Boot()
//
// Deferred providers (IsDeferred() == true) are registered lazily on the
// first Make() of one of their Provides() abstracts.
package container
