package view

import (
	"github.com/ryanbrandenburg/mvcgo/framework/log"
	"github.com/ryanbrandenburg/mvcgo/framework/view/assets"
)

// AppendVersionAttr is the marker attribute that opts an element into
// asset version rewriting. It is consumed (removed) by the helper.
const AppendVersionAttr = "append-version"

// Tag is one parsed element as handed over by the templating pipeline:
// an element name plus its attribute map. Helpers mutate it in place.
// How markup is parsed into Tags is the template engine's business.
type Tag struct {
	Element    string
	Attributes map[string]string
}

// Helper transforms a single tag.
type Helper func(*Tag)

// helperEntry is one row of the dispatch table.
type helperEntry struct {
	element  string
	required []string
	fn       Helper
}

// HelperRegistry dispatches tags to handlers. The table is declarative
// and built once at composition time: an entry matches when the tag's
// element name equals the entry's element and every required attribute
// is present. The first matching entry runs.
type HelperRegistry struct {
	entries []helperEntry
}

// NewHelperRegistry creates an empty registry.
func NewHelperRegistry() *HelperRegistry {
	return &HelperRegistry{}
}

// Register adds a dispatch entry. Registration order is match order.
func (r *HelperRegistry) Register(element string, required []string, fn Helper) {
	r.entries = append(r.entries, helperEntry{element: element, required: required, fn: fn})
}

// Process runs the first handler matching t and reports whether one ran.
func (r *HelperRegistry) Process(t *Tag) bool {
	for _, e := range r.entries {
		if e.element != t.Element {
			continue
		}
		if !hasAll(t.Attributes, e.required) {
			continue
		}
		e.fn(t)
		return true
	}
	return false
}

func hasAll(attrs map[string]string, required []string) bool {
	for _, name := range required {
		if _, ok := attrs[name]; !ok {
			return false
		}
	}
	return true
}

// ── Built-in helpers ──────────────────────────────────────────────────────────

// DefaultHelpers returns the framework's helper table: img/script "src"
// and link "href" rewriting, gated on the append-version attribute.
func DefaultHelpers(v *assets.VersionProvider, pathBase string) *HelperRegistry {
	r := NewHelperRegistry()
	r.Register("img", []string{"src", AppendVersionAttr}, urlAttrHelper(v, pathBase, "src"))
	r.Register("script", []string{"src", AppendVersionAttr}, urlAttrHelper(v, pathBase, "src"))
	r.Register("link", []string{"href", AppendVersionAttr}, urlAttrHelper(v, pathBase, "href"))
	return r
}

// urlAttrHelper rewrites the named URL attribute with a version token
// when append-version is "true". The marker attribute is always removed
// so it never reaches the client.
func urlAttrHelper(v *assets.VersionProvider, pathBase, attr string) Helper {
	return func(t *Tag) {
		enabled := t.Attributes[AppendVersionAttr] == "true"
		delete(t.Attributes, AppendVersionAttr)
		if !enabled || v == nil {
			return
		}
		original := t.Attributes[attr]
		if original == "" {
			return
		}
		t.Attributes[attr] = v.AddFileVersionToPath(pathBase, original)
		log.Debug(log.CatView, "tag helper rewrote url",
			"element", t.Element, "attr", attr, "url", t.Attributes[attr])
	}
}
