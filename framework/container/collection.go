package container

// ── Lifetime ──────────────────────────────────────────────────────────────────

// Lifetime controls how a registration is installed into the container.
type Lifetime int

const (
	// Transient builds a new instance on every resolution.
	Transient Lifetime = iota
	// Singleton caches the instance after first resolution.
	Singleton
)

// ── Registration ──────────────────────────────────────────────────────────────

// Registration is one entry in a ServiceCollection: a contract, the
// identity of the concrete implementation fulfilling it, a lifetime, and
// the factory that builds it. Insertion order is significant — for
// contracts resolved as a group (tagged), it is the execution order.
type Registration struct {
	// Contract is the abstract capability key, e.g. "mvc.router".
	Contract string
	// Implementation identifies the concrete type fulfilling the contract.
	// Use TypeKey for framework types; callers may use any stable string.
	Implementation string
	Lifetime       Lifetime
	Factory        Factory
}

// ── ServiceCollection ─────────────────────────────────────────────────────────

// ServiceCollection is an ordered, mutable list of registrations that is
// later installed into a Container with Apply. It exists so that framework
// bootstrap and application code can describe services declaratively, with
// well-defined multiplicity rules:
//
//   - Add appends unconditionally — contracts with several simultaneous
//     implementations (configurators, conventions) accumulate entries.
//   - TryAdd appends only when the contract has no registration at all —
//     a pre-existing caller registration suppresses the framework default.
//   - TryAddImplementation appends only when that exact
//     (contract, implementation) pair is absent — repeated bootstrap calls
//     are no-ops, while distinct caller implementations of the same
//     contract coexist with the defaults.
//
// A ServiceCollection is not safe for concurrent mutation; it is built
// single-threaded at startup and then applied once.
type ServiceCollection struct {
	registrations []Registration
}

// NewServiceCollection creates an empty collection.
func NewServiceCollection() *ServiceCollection {
	return &ServiceCollection{}
}

// Add appends a registration unconditionally.
func (sc *ServiceCollection) Add(reg Registration) *ServiceCollection {
	sc.registrations = append(sc.registrations, reg)
	return sc
}

// TryAdd appends reg only if no registration for its contract exists.
// Any pre-existing registration — whatever its implementation — wins.
func (sc *ServiceCollection) TryAdd(reg Registration) *ServiceCollection {
	if sc.Has(reg.Contract) {
		return sc
	}
	return sc.Add(reg)
}

// TryAddImplementation appends reg only if no registration with the same
// (contract, implementation) pair exists. Other implementations of the
// same contract are untouched.
func (sc *ServiceCollection) TryAddImplementation(reg Registration) *ServiceCollection {
	if sc.HasImplementation(reg.Contract, reg.Implementation) {
		return sc
	}
	return sc.Add(reg)
}

// Has reports whether any registration exists for contract.
func (sc *ServiceCollection) Has(contract string) bool {
	for _, reg := range sc.registrations {
		if reg.Contract == contract {
			return true
		}
	}
	return false
}

// HasImplementation reports whether a registration exists for the exact
// (contract, implementation) pair.
func (sc *ServiceCollection) HasImplementation(contract, implementation string) bool {
	for _, reg := range sc.registrations {
		if reg.Contract == contract && reg.Implementation == implementation {
			return true
		}
	}
	return false
}

// Count returns the number of registrations for contract.
func (sc *ServiceCollection) Count(contract string) int {
	n := 0
	for _, reg := range sc.registrations {
		if reg.Contract == contract {
			n++
		}
	}
	return n
}

// Len returns the total number of registrations.
func (sc *ServiceCollection) Len() int { return len(sc.registrations) }

// Registrations returns a copy of the ordered registration list.
func (sc *ServiceCollection) Registrations() []Registration {
	out := make([]Registration, len(sc.registrations))
	copy(out, sc.registrations)
	return out
}

// ── Apply ─────────────────────────────────────────────────────────────────────

// Apply installs the collection into a container.
//
// Every registration is bound under the derived key
// "contract#implementation" and tagged with its contract name, so
// c.Tagged(contract) resolves all implementations in insertion order.
// The contract name itself is aliased to the last registration's derived
// key, so c.Make(contract) resolves single-registration contracts without
// ceremony and shares the singleton instance with the tagged resolution.
func (sc *ServiceCollection) Apply(c *Container) {
	for _, reg := range sc.registrations {
		key := reg.Contract + "#" + reg.Implementation
		sc.install(c, key, reg)
		c.Tag([]string{key}, reg.Contract)
	}

	// Direct resolution per contract: last registration wins, mirroring
	// override-by-later-registration semantics.
	last := make(map[string]string, len(sc.registrations))
	for _, reg := range sc.registrations {
		last[reg.Contract] = reg.Contract + "#" + reg.Implementation
	}
	for contract, key := range last {
		c.Alias(key, contract)
	}
}

func (sc *ServiceCollection) install(c *Container, key string, reg Registration) {
	switch reg.Lifetime {
	case Singleton:
		c.Singleton(key, reg.Factory)
	default:
		c.Bind(key, reg.Factory)
	}
}
