package container_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ryanbrandenburg/mvcgo/framework/container"
)

func reg(contract, impl, value string) container.Registration {
	return container.Registration{
		Contract:       contract,
		Implementation: impl,
		Lifetime:       container.Transient,
		Factory:        func(c *container.Container) any { return value },
	}
}

// ── Add / TryAdd / TryAddImplementation ──────────────────────────────────────

func TestCollection_Add_AppendsUnconditionally(t *testing.T) {
	sc := container.NewServiceCollection()
	sc.Add(reg("svc", "A", "a"))
	sc.Add(reg("svc", "A", "a2"))
	sc.Add(reg("svc", "B", "b"))

	assert.Equal(t, 3, sc.Count("svc"))
	assert.Equal(t, 3, sc.Len())
}

func TestCollection_TryAdd_SkipsWhenContractPresent(t *testing.T) {
	sc := container.NewServiceCollection()
	sc.Add(reg("svc", "CallerImpl", "caller"))
	sc.TryAdd(reg("svc", "DefaultImpl", "default"))

	assert.Equal(t, 1, sc.Count("svc"))
	assert.True(t, sc.HasImplementation("svc", "CallerImpl"))
	assert.False(t, sc.HasImplementation("svc", "DefaultImpl"))
}

func TestCollection_TryAdd_AddsWhenContractAbsent(t *testing.T) {
	sc := container.NewServiceCollection()
	sc.TryAdd(reg("svc", "DefaultImpl", "default"))

	assert.Equal(t, 1, sc.Count("svc"))
	assert.True(t, sc.HasImplementation("svc", "DefaultImpl"))
}

func TestCollection_TryAddImplementation_DedupesExactPair(t *testing.T) {
	sc := container.NewServiceCollection()
	sc.TryAddImplementation(reg("group", "A", "a"))
	sc.TryAddImplementation(reg("group", "A", "a"))

	assert.Equal(t, 1, sc.Count("group"))
}

func TestCollection_TryAddImplementation_AllowsDistinctImplementations(t *testing.T) {
	sc := container.NewServiceCollection()
	sc.Add(reg("group", "CallerImpl", "caller"))
	sc.TryAddImplementation(reg("group", "A", "a"))
	sc.TryAddImplementation(reg("group", "B", "b"))

	assert.Equal(t, 3, sc.Count("group"))
	assert.True(t, sc.HasImplementation("group", "CallerImpl"))
	assert.True(t, sc.HasImplementation("group", "A"))
	assert.True(t, sc.HasImplementation("group", "B"))
}

// ── Inspection ───────────────────────────────────────────────────────────────

func TestCollection_Registrations_PreservesInsertionOrder(t *testing.T) {
	sc := container.NewServiceCollection()
	sc.Add(reg("group", "A", "a"))
	sc.Add(reg("other", "X", "x"))
	sc.Add(reg("group", "B", "b"))

	regs := sc.Registrations()
	require.Len(t, regs, 3)
	assert.Equal(t, "A", regs[0].Implementation)
	assert.Equal(t, "X", regs[1].Implementation)
	assert.Equal(t, "B", regs[2].Implementation)
}

// ── Apply ────────────────────────────────────────────────────────────────────

func TestCollection_Apply_SingleContractResolvesDirectly(t *testing.T) {
	c := container.New()
	sc := container.NewServiceCollection()
	sc.TryAdd(reg("svc", "A", "a"))
	sc.Apply(c)

	assert.Equal(t, "a", c.Make("svc"))
}

func TestCollection_Apply_TaggedResolvesAllInOrder(t *testing.T) {
	c := container.New()
	sc := container.NewServiceCollection()
	sc.Add(reg("group", "A", "a"))
	sc.Add(reg("group", "B", "b"))
	sc.Add(reg("group", "C", "c"))
	sc.Apply(c)

	got := c.Tagged("group")
	require.Len(t, got, 3)
	assert.Equal(t, []any{"a", "b", "c"}, got)
}

func TestCollection_Apply_LastRegistrationWinsForDirectResolution(t *testing.T) {
	c := container.New()
	sc := container.NewServiceCollection()
	sc.Add(reg("svc", "First", "first"))
	sc.Add(reg("svc", "Second", "second"))
	sc.Apply(c)

	assert.Equal(t, "second", c.Make("svc"))
}

func TestCollection_Apply_SingletonLifetimeCachesInstance(t *testing.T) {
	c := container.New()
	sc := container.NewServiceCollection()

	builds := 0
	sc.Add(container.Registration{
		Contract:       "svc",
		Implementation: "Counter",
		Lifetime:       container.Singleton,
		Factory: func(c *container.Container) any {
			builds++
			return builds
		},
	})
	sc.Apply(c)

	first := c.Make("svc")
	second := c.Make("svc")
	assert.Equal(t, first, second)
	assert.Equal(t, 1, builds)
}

func TestCollection_Apply_TransientLifetimeRebuilds(t *testing.T) {
	c := container.New()
	sc := container.NewServiceCollection()

	builds := 0
	sc.Add(container.Registration{
		Contract:       "svc",
		Implementation: "Counter",
		Lifetime:       container.Transient,
		Factory: func(c *container.Container) any {
			builds++
			return builds
		},
	})
	sc.Apply(c)

	_ = c.Make("svc")
	_ = c.Make("svc")
	assert.Equal(t, 2, builds)
}
