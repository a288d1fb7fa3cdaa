package container

import (
	"fmt"
	"reflect"
	"sync"
)

// ── Binding types ─────────────────────────────────────────────────────────────

// Factory is a function that builds a concrete value from the container.
type Factory func(c *Container) any

// binding holds a registered factory and whether it is a singleton.
type binding struct {
	factory   Factory
	singleton bool
}

// extender wraps an already-resolved instance with decorator logic.
type extender func(instance any, c *Container) any

// ── Container ─────────────────────────────────────────────────────────────────

// Container is the framework's IoC container.
//
// It supports:
//   - Bind / Singleton / Instance / Alias
//   - Make / Resolve (generic)
//   - Tags (group multiple abstractions under one tag, in insertion order)
//   - Extend (decorate / wrap resolved instances)
//   - Contextual binding (when A needs B, give it C)
type Container struct {
	mu sync.RWMutex

	// abstract → binding
	bindings map[string]*binding

	// abstract → resolved singleton instance
	instances map[string]any

	// alias → abstract (canonical key)
	aliases map[string]string

	// abstract → extender funcs
	extenders map[string][]extender

	// tag → []abstract, insertion-ordered
	tags map[string][]string

	// contextual: when[concrete][abstract] = factory
	contextual map[string]map[string]Factory

	// stack of abstracts currently being resolved (for contextual lookup)
	buildStack []string
}

// New creates an empty container, pre-bound to itself under "container".
func New() *Container {
	c := &Container{
		bindings:   make(map[string]*binding),
		instances:  make(map[string]any),
		aliases:    make(map[string]string),
		extenders:  make(map[string][]extender),
		tags:       make(map[string][]string),
		contextual: make(map[string]map[string]Factory),
	}
	c.Instance("container", c)
	return c
}

// ── Registration ──────────────────────────────────────────────────────────────

// Bind registers a transient factory: a new instance is built on every Make.
//
//	c.Bind("request.id", func(c *container.Container) any { return newID() })
func (c *Container) Bind(abstract string, factory Factory) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.bind(abstract, factory, false)
}

// Singleton registers a factory whose result is cached after first resolution.
//
//	c.Singleton("mvc.view", func(c *container.Container) any {
//	    cfg := container.Resolve[*config.Config](c, "config")
//	    return view.NewEngine(cfg.View.Dir, cfg.View.Ext)
//	})
func (c *Container) Singleton(abstract string, factory Factory) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.bind(abstract, factory, true)
}

// Instance registers a pre-built value as a singleton.
func (c *Container) Instance(abstract string, instance any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	key := c.canonical(abstract)
	delete(c.bindings, key)
	c.instances[key] = instance
}

// bind is the internal registration helper (must hold mu.Lock).
func (c *Container) bind(abstract string, factory Factory, singleton bool) {
	key := c.canonical(abstract)

	// Drop any existing singleton instance so it's rebuilt with the new factory
	delete(c.instances, key)

	c.bindings[key] = &binding{factory: factory, singleton: singleton}
}

// Alias registers an alternative name for an abstract.
func (c *Container) Alias(abstract, alias string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if abstract == alias {
		panic(fmt.Sprintf("container: [%s] is aliased to itself", abstract))
	}
	c.aliases[alias] = c.canonical(abstract)
}

// ── Contextual Binding ────────────────────────────────────────────────────────

// When starts a contextual binding chain.
//
//	c.When("PhotoController").Needs("storage").Give(func(c *container.Container) any {
//	    return storage.NewS3(...)
//	})
func (c *Container) When(concrete string) *ContextualBuilder {
	return &ContextualBuilder{container: c, concrete: concrete}
}

// getContextual returns the contextual factory for (concrete, abstract), or nil.
func (c *Container) getContextual(concrete, abstract string) Factory {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if m, ok := c.contextual[concrete]; ok {
		if f, ok := m[abstract]; ok {
			return f
		}
	}
	return nil
}

// ── Extend ────────────────────────────────────────────────────────────────────

// Extend decorates the resolved instance of an abstract.
//
//	c.Extend("mvc.view", func(instance any, c *container.Container) any {
//	    return view.WithTimings(instance.(*view.Engine))
//	})
func (c *Container) Extend(abstract string, fn extender) {
	c.mu.Lock()
	defer c.mu.Unlock()
	key := c.canonical(abstract)
	c.extenders[key] = append(c.extenders[key], fn)

	// If already resolved as singleton, re-apply extenders in place
	if inst, ok := c.instances[key]; ok {
		c.instances[key] = c.applyExtenders(key, inst)
	}
}

// ── Tags ──────────────────────────────────────────────────────────────────────

// Tag associates multiple abstracts under a named group.
// Repeated calls append; association order is preserved.
func (c *Container) Tag(abstracts []string, tag string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tags[tag] = append(c.tags[tag], abstracts...)
}

// Tagged resolves all abstracts registered under a tag, in association order.
func (c *Container) Tagged(tag string) []any {
	c.mu.RLock()
	abstracts := c.tags[tag]
	c.mu.RUnlock()

	result := make([]any, 0, len(abstracts))
	for _, abs := range abstracts {
		result = append(result, c.make(abs))
	}
	return result
}

// ── Resolution ────────────────────────────────────────────────────────────────

// Make resolves an abstract from the container.
// It panics if no binding is registered — a missing binding at resolution
// time is a programmer error, not a runtime condition.
func (c *Container) Make(abstract string) any {
	return c.make(abstract)
}

// make is the internal resolver (no outer lock — individual ops lock as needed).
func (c *Container) make(abstract string) any {
	key := c.canonical(abstract)

	// Check singleton instance cache
	c.mu.RLock()
	if inst, ok := c.instances[key]; ok {
		c.mu.RUnlock()
		return inst
	}
	c.mu.RUnlock()

	// Check contextual binding (look at current build stack top)
	if len(c.buildStack) > 0 {
		caller := c.buildStack[len(c.buildStack)-1]
		if f := c.getContextual(caller, abstract); f != nil {
			return c.runFactory(key, f, false)
		}
	}

	// Look up binding
	c.mu.RLock()
	b, ok := c.bindings[key]
	c.mu.RUnlock()

	if !ok {
		panic(fmt.Sprintf("container: no binding registered for [%s]", abstract))
	}

	return c.runFactory(key, b.factory, b.singleton)
}

// runFactory executes a factory, optionally caching the result.
func (c *Container) runFactory(key string, f Factory, singleton bool) any {
	c.buildStack = append(c.buildStack, key)

	instance := f(c)

	c.buildStack = c.buildStack[:len(c.buildStack)-1]

	c.mu.Lock()
	if len(c.extenders[key]) > 0 {
		instance = c.applyExtenders(key, instance)
	}
	if singleton {
		c.instances[key] = instance
	}
	c.mu.Unlock()

	return instance
}

// applyExtenders runs all extenders for key (must hold mu).
func (c *Container) applyExtenders(key string, instance any) any {
	for _, ext := range c.extenders[key] {
		instance = ext(instance, c)
	}
	return instance
}

// ── Helpers ───────────────────────────────────────────────────────────────────

// Bound returns true if an abstract has been registered.
func (c *Container) Bound(abstract string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	key := c.canonical(abstract)
	_, hasBinding := c.bindings[key]
	_, hasInstance := c.instances[key]
	return hasBinding || hasInstance
}

// Resolved returns true if the abstract has been resolved at least once.
func (c *Container) Resolved(abstract string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	key := c.canonical(abstract)
	_, ok := c.instances[key]
	return ok
}

// Forget removes all registrations for an abstract (binding + instance).
func (c *Container) Forget(abstract string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	key := c.canonical(abstract)
	delete(c.bindings, key)
	delete(c.instances, key)
}

// Flush resets the entire container.
func (c *Container) Flush() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.bindings = make(map[string]*binding)
	c.instances = make(map[string]any)
	c.aliases = make(map[string]string)
	c.extenders = make(map[string][]extender)
	c.tags = make(map[string][]string)
	c.contextual = make(map[string]map[string]Factory)
}

// Bindings returns a copy of all registered abstract keys (for debugging).
func (c *Container) Bindings() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]string, 0, len(c.bindings)+len(c.instances))
	for k := range c.bindings {
		out = append(out, k)
	}
	for k := range c.instances {
		if _, already := c.bindings[k]; !already {
			out = append(out, k)
		}
	}
	return out
}

// canonical resolves an alias to its canonical key.
func (c *Container) canonical(abstract string) string {
	if target, ok := c.aliases[abstract]; ok {
		return target
	}
	return abstract
}

// ── Reflect helpers ───────────────────────────────────────────────────────────

// TypeKey returns the package-qualified type name of v, useful as a stable
// identity for a concrete implementation.
//
//	key := container.TypeKey((*CoreOptionsSetup)(nil))
func TypeKey(v any) string {
	t := reflect.TypeOf(v)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.PkgPath() + "." + t.Name()
}

// ── Generics helpers ──────────────────────────────────────────────────────────

// Resolve is a generic helper that calls Make and type-asserts the result.
//
//	router := container.Resolve[*routing.Router](c, "mvc.router")
func Resolve[T any](c *Container, abstract string) T {
	instance := c.Make(abstract)
	typed, ok := instance.(T)
	if !ok {
		panic(fmt.Sprintf("container: Resolve[%T]: [%s] resolved to %T", *new(T), abstract, instance))
	}
	return typed
}

// MustResolve is like Resolve but returns (T, bool) without panicking.
func MustResolve[T any](c *Container, abstract string) (T, bool) {
	instance := c.Make(abstract)
	typed, ok := instance.(T)
	return typed, ok
}

// ResolveTagged resolves every abstract under a tag and filters to the
// instances implementing T, preserving association order.
func ResolveTagged[T any](c *Container, tag string) []T {
	raw := c.Tagged(tag)
	out := make([]T, 0, len(raw))
	for _, inst := range raw {
		if typed, ok := inst.(T); ok {
			out = append(out, typed)
		}
	}
	return out
}
