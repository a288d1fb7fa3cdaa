package providers_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ryanbrandenburg/mvcgo/framework/config"
	"github.com/ryanbrandenburg/mvcgo/framework/container"
	"github.com/ryanbrandenburg/mvcgo/framework/providers"
)

// defaultSetupImpls are the framework's declared MvcOptions configurators.
var defaultSetupImpls = []string{
	container.TypeKey((*providers.CoreOptionsSetup)(nil)),
	container.TypeKey((*providers.ViewOptionsSetup)(nil)),
	container.TypeKey((*providers.AssetOptionsSetup)(nil)),
	container.TypeKey((*providers.ValidationOptionsSetup)(nil)),
}

var singleContracts = []string{
	providers.ContractOptions,
	providers.ContractRouter,
	providers.ContractViewEngine,
	providers.ContractTagHelpers,
	providers.ContractValidator,
	providers.ContractFileProvider,
	providers.ContractVersioner,
}

// callerSetup stands in for an application-defined configurator.
type callerSetup struct{}

func (callerSetup) Configure(o *providers.MvcOptions) { o.ViewExt = ".tmpl" }

// ── Multi-registration contracts ─────────────────────────────────────────────

func TestAddMvcServices_RegistersEachOptionsSetupOnce(t *testing.T) {
	sc := providers.AddMvcServices(container.NewServiceCollection())

	assert.Equal(t, len(defaultSetupImpls), sc.Count(providers.ContractOptionsSetup))
	for _, impl := range defaultSetupImpls {
		assert.True(t, sc.HasImplementation(providers.ContractOptionsSetup, impl),
			"missing default setup %s", impl)
	}
}

func TestAddMvcServices_SecondCallIsIdempotent(t *testing.T) {
	sc := providers.AddMvcServices(container.NewServiceCollection())
	once := sc.Len()

	providers.AddMvcServices(sc)

	assert.Equal(t, once, sc.Len())
	assert.Equal(t, len(defaultSetupImpls), sc.Count(providers.ContractOptionsSetup))
	for _, contract := range singleContracts {
		assert.Equal(t, 1, sc.Count(contract), "contract %s duplicated", contract)
	}
}

func TestAddMvcServices_CallerSetupCoexistsWithDefaults(t *testing.T) {
	sc := container.NewServiceCollection()
	sc.Add(container.Registration{
		Contract:       providers.ContractOptionsSetup,
		Implementation: container.TypeKey(callerSetup{}),
		Lifetime:       container.Transient,
		Factory:        func(c *container.Container) any { return callerSetup{} },
	})

	providers.AddMvcServices(sc)

	assert.Equal(t, len(defaultSetupImpls)+1, sc.Count(providers.ContractOptionsSetup))

	// Still stable on a repeated bootstrap.
	providers.AddMvcServices(sc)
	assert.Equal(t, len(defaultSetupImpls)+1, sc.Count(providers.ContractOptionsSetup))
}

// ── Single-registration contracts ────────────────────────────────────────────

func TestAddMvcServices_SingleContractsRegisteredExactlyOnce(t *testing.T) {
	sc := providers.AddMvcServices(container.NewServiceCollection())

	for _, contract := range singleContracts {
		assert.Equal(t, 1, sc.Count(contract), "contract %s", contract)
	}
}

func TestAddMvcServices_CallerRegistrationSuppressesDefault(t *testing.T) {
	type fakeRouter struct{ name string }

	sc := container.NewServiceCollection()
	sc.Add(container.Registration{
		Contract:       providers.ContractRouter,
		Implementation: "mvc_test.fakeRouter",
		Lifetime:       container.Singleton,
		Factory:        func(c *container.Container) any { return &fakeRouter{name: "mock"} },
	})

	providers.AddMvcServices(sc)

	require.Equal(t, 1, sc.Count(providers.ContractRouter))
	assert.True(t, sc.HasImplementation(providers.ContractRouter, "mvc_test.fakeRouter"))

	c := container.New()
	sc.Apply(c)
	got := c.Make(providers.ContractRouter)
	router, ok := got.(*fakeRouter)
	require.True(t, ok, "expected caller mock, got %T", got)
	assert.Equal(t, "mock", router.name)
}

// ── Options construction ─────────────────────────────────────────────────────

func testConfig() *config.Config {
	return &config.Config{
		View:   config.ViewConfig{Dir: "./testviews", Ext: ".gohtml"},
		Assets: config.AssetConfig{Dir: "./testassets", URLPrefix: "/assets", AppendVersion: true},
	}
}

func TestMvcOptions_BuiltByRunningSetupsInOrder(t *testing.T) {
	c := container.New()
	c.Instance("config", testConfig())

	sc := providers.AddMvcServices(container.NewServiceCollection())
	sc.Apply(c)

	opts := container.Resolve[*providers.MvcOptions](c, providers.ContractOptions)

	assert.Equal(t, int64(32<<20), opts.MaxRequestBodySize)
	assert.Equal(t, "./testviews", opts.ViewDir)
	assert.Equal(t, ".gohtml", opts.ViewExt)
	assert.Equal(t, "/assets", opts.AssetURLPrefix)
	assert.True(t, opts.AppendAssetVersion)
	assert.Contains(t, opts.SharedRules, "pagination")
}

func TestMvcOptions_CallerSetupRunsAfterDefaults(t *testing.T) {
	c := container.New()
	c.Instance("config", testConfig())

	sc := providers.AddMvcServices(container.NewServiceCollection())
	// Appended after the defaults, so it sees and overrides their output.
	sc.Add(container.Registration{
		Contract:       providers.ContractOptionsSetup,
		Implementation: container.TypeKey(callerSetup{}),
		Lifetime:       container.Transient,
		Factory:        func(c *container.Container) any { return callerSetup{} },
	})
	sc.Apply(c)

	opts := container.Resolve[*providers.MvcOptions](c, providers.ContractOptions)
	assert.Equal(t, ".tmpl", opts.ViewExt)
	assert.Equal(t, "./testviews", opts.ViewDir)
}

// ── Catalog ──────────────────────────────────────────────────────────────────

func TestIsMultiRegistration(t *testing.T) {
	assert.True(t, providers.IsMultiRegistration(providers.ContractOptionsSetup))
	assert.True(t, providers.IsMultiRegistration(providers.ContractConventions))
	assert.False(t, providers.IsMultiRegistration(providers.ContractRouter))
	assert.False(t, providers.IsMultiRegistration("app.custom"))
}

// ── Conventions ──────────────────────────────────────────────────────────────

func TestKebabResourceConvention(t *testing.T) {
	conv := providers.KebabResourceConvention{}

	tests := []struct {
		in   string
		want string
	}{
		{"/UserPhotos", "/user-photos"},
		{"/photos", "/photos"},
		{"/APIKeys", "/a-p-i-keys"},
		{"Users", "/users"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, conv.RoutePath(tt.in), "input %q", tt.in)
	}
}
