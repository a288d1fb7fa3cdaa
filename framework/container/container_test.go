package container_test

import (
	"strings"
	"testing"

	"github.com/ryanbrandenburg/mvcgo/framework/container"
)

func TestBindResolvesTransient(t *testing.T) {
	c := container.New()
	calls := 0
	c.Bind("counter", func(c *container.Container) any {
		calls++
		return calls
	})

	if got := c.Make("counter"); got != 1 {
		t.Errorf("first Make = %v, want 1", got)
	}
	if got := c.Make("counter"); got != 2 {
		t.Errorf("second Make = %v, want 2", got)
	}
}

func TestSingletonCachesInstance(t *testing.T) {
	c := container.New()
	calls := 0
	c.Singleton("svc", func(c *container.Container) any {
		calls++
		return &strings.Builder{}
	})

	first := c.Make("svc")
	second := c.Make("svc")
	if first != second {
		t.Error("singleton returned different instances")
	}
	if calls != 1 {
		t.Errorf("factory ran %d times, want 1", calls)
	}
}

func TestInstanceRegistersPrebuiltValue(t *testing.T) {
	c := container.New()
	c.Instance("answer", 42)

	if got := c.Make("answer"); got != 42 {
		t.Errorf("Make = %v, want 42", got)
	}
	if !c.Resolved("answer") {
		t.Error("Instance should mark the abstract as resolved")
	}
}

func TestAliasResolvesToCanonical(t *testing.T) {
	c := container.New()
	c.Instance("mvc.router", "the-router")
	c.Alias("mvc.router", "router")

	if got := c.Make("router"); got != "the-router" {
		t.Errorf("Make(alias) = %v", got)
	}
}

func TestAliasToSelfPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on self-alias")
		}
	}()
	container.New().Alias("x", "x")
}

func TestMakeUnboundPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for unbound abstract")
		}
	}()
	container.New().Make("nothing.here")
}

func TestTaggedPreservesAssociationOrder(t *testing.T) {
	c := container.New()
	c.Instance("a", "first")
	c.Instance("b", "second")
	c.Instance("z", "third")
	c.Tag([]string{"a", "b"}, "group")
	c.Tag([]string{"z"}, "group")

	got := c.Tagged("group")
	want := []any{"first", "second", "third"}
	if len(got) != len(want) {
		t.Fatalf("Tagged len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Tagged[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestExtendDecoratesResolvedInstance(t *testing.T) {
	c := container.New()
	c.Singleton("greeting", func(c *container.Container) any { return "hello" })
	c.Extend("greeting", func(instance any, c *container.Container) any {
		return instance.(string) + ", world"
	})

	if got := c.Make("greeting"); got != "hello, world" {
		t.Errorf("Make = %v", got)
	}
}

func TestExtendAppliesToAlreadyResolvedSingleton(t *testing.T) {
	c := container.New()
	c.Singleton("n", func(c *container.Container) any { return 1 })
	_ = c.Make("n")

	c.Extend("n", func(instance any, c *container.Container) any {
		return instance.(int) + 10
	})

	if got := c.Make("n"); got != 11 {
		t.Errorf("Make after Extend = %v, want 11", got)
	}
}

func TestContextualBindingOverridesDefault(t *testing.T) {
	c := container.New()
	c.Bind("storage", func(c *container.Container) any { return "disk" })
	c.When("photos").Needs("storage").GiveValue("s3")

	c.Bind("photos", func(c *container.Container) any {
		return c.Make("storage")
	})

	if got := c.Make("photos"); got != "s3" {
		t.Errorf("contextual Make = %v, want s3", got)
	}
	if got := c.Make("storage"); got != "disk" {
		t.Errorf("direct Make = %v, want disk", got)
	}
}

func TestBoundAndForget(t *testing.T) {
	c := container.New()
	c.Bind("svc", func(c *container.Container) any { return 1 })

	if !c.Bound("svc") {
		t.Error("Bound = false after Bind")
	}
	c.Forget("svc")
	if c.Bound("svc") {
		t.Error("Bound = true after Forget")
	}
}

func TestRebindDropsCachedSingleton(t *testing.T) {
	c := container.New()
	c.Singleton("svc", func(c *container.Container) any { return "old" })
	_ = c.Make("svc")

	c.Singleton("svc", func(c *container.Container) any { return "new" })
	if got := c.Make("svc"); got != "new" {
		t.Errorf("Make after rebind = %v, want new", got)
	}
}

func TestResolveGenericTypeMismatchPanics(t *testing.T) {
	c := container.New()
	c.Instance("svc", "a string")

	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on type mismatch")
		}
	}()
	_ = container.Resolve[int](c, "svc")
}

func TestMustResolveReportsMismatch(t *testing.T) {
	c := container.New()
	c.Instance("svc", "a string")

	if _, ok := container.MustResolve[int](c, "svc"); ok {
		t.Error("MustResolve ok = true for mismatched type")
	}
	if got, ok := container.MustResolve[string](c, "svc"); !ok || got != "a string" {
		t.Errorf("MustResolve = %v, %v", got, ok)
	}
}

type namer interface{ Name() string }

type alice struct{}

func (alice) Name() string { return "alice" }

type bob struct{}

func (bob) Name() string { return "bob" }

func TestResolveTaggedFiltersByType(t *testing.T) {
	c := container.New()
	c.Instance("p1", alice{})
	c.Instance("p2", "not a namer")
	c.Instance("p3", bob{})
	c.Tag([]string{"p1", "p2", "p3"}, "people")

	got := container.ResolveTagged[namer](c, "people")
	if len(got) != 2 {
		t.Fatalf("ResolveTagged len = %d, want 2", len(got))
	}
	if got[0].Name() != "alice" || got[1].Name() != "bob" {
		t.Errorf("order = %s, %s", got[0].Name(), got[1].Name())
	}
}

func TestTypeKeyUnwrapsPointer(t *testing.T) {
	direct := container.TypeKey(alice{})
	viaPtr := container.TypeKey((*alice)(nil))
	if direct != viaPtr {
		t.Errorf("TypeKey mismatch: %q vs %q", direct, viaPtr)
	}
	if !strings.HasSuffix(direct, ".alice") {
		t.Errorf("TypeKey = %q, want package-qualified name", direct)
	}
}
