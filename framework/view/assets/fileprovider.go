package assets

import (
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/ryanbrandenburg/mvcgo/framework/log"
)

// FileProvider abstracts the filesystem the view layer resolves static
// assets against. Paths are URL-style, slash-separated, with or without a
// leading slash.
type FileProvider interface {
	// Open opens the named asset for reading. The returned fs.File also
	// carries size and modification metadata via Stat.
	Open(name string) (fs.File, error)

	// Watch registers onChange to be called whenever the named asset is
	// created, modified, renamed, or removed. The returned cancel func
	// unregisters the callback.
	Watch(name string, onChange func()) (cancel func(), err error)
}

// ── DirFileProvider ───────────────────────────────────────────────────────────

// DirFileProvider serves assets from a directory on the local filesystem
// and delivers change notifications through fsnotify.
type DirFileProvider struct {
	root    string
	watcher *fsnotify.Watcher

	mu   sync.Mutex
	subs map[string][]*subscription // absolute file path → subscribers
	next int
}

type subscription struct {
	id int
	fn func()
}

// NewDirFileProvider creates a provider rooted at dir.
// Call Close when the provider is no longer needed.
func NewDirFileProvider(dir string) (*DirFileProvider, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	p := &DirFileProvider{
		root:    abs,
		watcher: watcher,
		subs:    make(map[string][]*subscription),
	}
	go p.loop()
	return p, nil
}

// Open opens the named asset relative to the provider root.
func (p *DirFileProvider) Open(name string) (fs.File, error) {
	full, err := p.resolve(name)
	if err != nil {
		return nil, err
	}
	return os.Open(full)
}

// Watch subscribes to change events for the named asset. The asset does
// not have to exist yet — creating it later fires the callback — but its
// parent directory must.
func (p *DirFileProvider) Watch(name string, onChange func()) (func(), error) {
	full, err := p.resolve(name)
	if err != nil {
		return nil, err
	}
	// fsnotify watches directories; events are dispatched per file below.
	if err := p.watcher.Add(filepath.Dir(full)); err != nil {
		return nil, err
	}

	p.mu.Lock()
	p.next++
	sub := &subscription{id: p.next, fn: onChange}
	p.subs[full] = append(p.subs[full], sub)
	p.mu.Unlock()

	cancel := func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		list := p.subs[full]
		for i, s := range list {
			if s.id == sub.id {
				p.subs[full] = append(list[:i], list[i+1:]...)
				break
			}
		}
	}
	return cancel, nil
}

// Close stops the underlying watcher.
func (p *DirFileProvider) Close() error {
	return p.watcher.Close()
}

// loop dispatches fsnotify events to per-file subscribers.
func (p *DirFileProvider) loop() {
	for {
		select {
		case ev, ok := <-p.watcher.Events:
			if !ok {
				return
			}
			if !ev.Op.Has(fsnotify.Write | fsnotify.Create | fsnotify.Remove | fsnotify.Rename) {
				continue
			}
			p.mu.Lock()
			list := append([]*subscription(nil), p.subs[filepath.Clean(ev.Name)]...)
			p.mu.Unlock()
			for _, s := range list {
				s.fn()
			}
		case err, ok := <-p.watcher.Errors:
			if !ok {
				return
			}
			log.Warn(log.CatAssets, "watcher error", "err", err)
		}
	}
}

// resolve maps a URL-style asset path to an absolute filesystem path,
// rejecting anything that escapes the root.
func (p *DirFileProvider) resolve(name string) (string, error) {
	// Clean with a leading slash so ".." segments collapse instead of escaping.
	rel := strings.TrimPrefix(path.Clean("/"+name), "/")
	if rel == "" || rel == "." {
		return "", fs.ErrNotExist
	}
	return filepath.Join(p.root, filepath.FromSlash(rel)), nil
}
