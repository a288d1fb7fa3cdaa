package assets

import (
	"crypto/sha256"
	"encoding/base64"
	"io"
	"strings"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/ryanbrandenburg/mvcgo/framework/log"
)

const cleanupInterval = 10 * time.Minute

// VersionProvider rewrites asset paths to carry a content-derived version
// token as a "v" query parameter, so clients re-fetch an asset exactly
// when its bytes change.
//
// Tokens are computed lazily on first request per (base, path) pair and
// cached; a change notification from the FileProvider evicts the cached
// entry, so the next request recomputes against the new content. If the
// asset cannot be resolved, the path is returned unmodified — a missing
// file must never fail a render.
//
// Safe for concurrent use by multiple request-handling goroutines.
type VersionProvider struct {
	files FileProvider
	cache *gocache.Cache
	ttl   time.Duration

	mu      sync.Mutex
	keys    map[string][]string // asset path → cache keys to evict on change
	watched map[string]bool     // asset path → watch registered
}

// NewVersionProvider creates a provider backed by files.
// ttl bounds how long a token may be served without recomputation;
// 0 means tokens live until the underlying asset changes.
func NewVersionProvider(files FileProvider, ttl time.Duration) *VersionProvider {
	if ttl <= 0 {
		ttl = gocache.NoExpiration
	}
	return &VersionProvider{
		files:   files,
		cache:   gocache.New(ttl, cleanupInterval),
		ttl:     ttl,
		keys:    make(map[string][]string),
		watched: make(map[string]bool),
	}
}

// AddFileVersionToPath returns pth with a "?v=<token>" (or "&v=<token>")
// query parameter appended, where the token is a base64url-encoded
// SHA-256 of the asset's content.
//
// pathBase is the request path base the application is mounted under;
// it participates in the cache key and is stripped when resolving the
// file, so "/app/img/logo.png" with base "/app" resolves "img/logo.png".
// Query strings and fragments in pth are preserved.
func (p *VersionProvider) AddFileVersionToPath(pathBase, pth string) string {
	key := pathBase + "|" + pth
	if cached, ok := p.cache.Get(key); ok {
		return cached.(string)
	}

	resource, query, fragment := splitPath(pth)

	filePath, token, ok := p.computeToken(pathBase, resource)
	if !ok {
		// Non-fatal: serve the unversioned path. No caching — the asset
		// may appear later and there is no watch to evict a stale miss.
		log.Debug(log.CatAssets, "asset not found, serving unversioned path", "path", resource)
		return pth
	}

	sep := "?"
	if query != "" {
		sep = "&"
	}
	versioned := resource + query + sep + "v=" + token + fragment

	p.store(key, filePath, versioned)
	return versioned
}

// computeToken resolves the asset and hashes its content.
// It returns the provider-relative path the token was computed from.
func (p *VersionProvider) computeToken(pathBase, resource string) (filePath, token string, ok bool) {
	candidates := []string{resource}
	if pathBase != "" && pathBase != "/" && strings.HasPrefix(resource, pathBase) {
		candidates = append(candidates, strings.TrimPrefix(resource, pathBase))
	}

	for _, candidate := range candidates {
		f, err := p.files.Open(candidate)
		if err != nil {
			continue
		}
		h := sha256.New()
		_, err = io.Copy(h, f)
		f.Close()
		if err != nil {
			log.Warn(log.CatAssets, "failed reading asset", "path", candidate, "err", err)
			continue
		}
		return candidate, base64.RawURLEncoding.EncodeToString(h.Sum(nil)), true
	}
	return "", "", false
}

// store caches the versioned path and wires change-driven eviction.
func (p *VersionProvider) store(key, filePath, versioned string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.watched[filePath] {
		cancel, err := p.files.Watch(filePath, func() { p.invalidate(filePath) })
		if err != nil {
			// Without a change trigger a cached token could go stale
			// forever; fall back to recomputing every call.
			log.Warn(log.CatAssets, "cannot watch asset, version caching disabled for path",
				"path", filePath, "err", err)
			return
		}
		_ = cancel // watch lives as long as the provider
		p.watched[filePath] = true
	}

	p.cache.Set(key, versioned, p.ttl)
	p.keys[filePath] = append(p.keys[filePath], key)
}

// invalidate evicts every cached entry derived from filePath.
func (p *VersionProvider) invalidate(filePath string) {
	p.mu.Lock()
	keys := p.keys[filePath]
	delete(p.keys, filePath)
	p.mu.Unlock()

	for _, k := range keys {
		p.cache.Delete(k)
	}
	log.Debug(log.CatCache, "asset version invalidated", "path", filePath, "entries", len(keys))
}

// splitPath separates a URL path into resource, query ("?..." or empty)
// and fragment ("#..." or empty) parts.
func splitPath(pth string) (resource, query, fragment string) {
	resource = pth
	if i := strings.Index(resource, "#"); i >= 0 {
		fragment = resource[i:]
		resource = resource[:i]
	}
	if i := strings.Index(resource, "?"); i >= 0 {
		query = resource[i:]
		resource = resource[:i]
	}
	return resource, query, fragment
}
