// Package dictmap shares one mmap-backed prism/table pair across every
// session open on the same schema, refcounting Close calls so the
// backing pages are released only once the last session using them
// exits (spec.md §3 Lifecycles, §5). Concurrent opens of the same
// schema collapse into a single load via singleflight, mirroring the
// teacher's mutex-guarded lazy-connect-once pattern in
// internal/engine.Engine.ensureDBConnected.
package dictmap

import (
	"fmt"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/rimecore/rimecore/internal/prism"
	"github.com/rimecore/rimecore/internal/table"
)

// Paths locates a schema's on-disk prism/table files.
type Paths struct {
	SchemaID  string
	PrismPath string
	// TablePaths is the stacked set of table files, primary first (the
	// primary dictionary, plus any schema dependencies).
	TablePaths []string
}

type entry struct {
	prism  *prism.Prism
	tables []*table.Table
	refs   int
}

// Registry shares loaded schemas across sessions.
type Registry struct {
	mu      sync.Mutex
	entries map[string]*entry
	group   singleflight.Group
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]*entry)}
}

// Handle is a refcounted lease on a schema's shared prism/table pair.
// Close must be called exactly once per Open.
type Handle struct {
	registry *Registry
	schemaID string
	Prism    *prism.Prism
	Tables   []*table.Table
}

// Open returns a Handle to schemaID's prism/table pair, loading it
// from disk on first use and sharing the same instance with every
// other session open on the same schema thereafter.
func (r *Registry) Open(paths Paths) (*Handle, error) {
	r.mu.Lock()
	if e, ok := r.entries[paths.SchemaID]; ok {
		e.refs++
		r.mu.Unlock()
		return r.handleFor(paths.SchemaID, e), nil
	}
	r.mu.Unlock()

	v, err, _ := r.group.Do(paths.SchemaID, func() (any, error) {
		return load(paths)
	})
	if err != nil {
		return nil, err
	}
	e := v.(*entry)

	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.entries[paths.SchemaID]; ok {
		// Another Open raced ahead of the singleflight call and already
		// installed an entry; keep that one and discard the load we just
		// did so the schema stays mapped exactly once.
		existing.refs++
		closeEntry(e)
		return r.handleFor(paths.SchemaID, existing), nil
	}
	e.refs = 1
	r.entries[paths.SchemaID] = e
	return r.handleFor(paths.SchemaID, e), nil
}

func (r *Registry) handleFor(schemaID string, e *entry) *Handle {
	return &Handle{registry: r, schemaID: schemaID, Prism: e.prism, Tables: e.tables}
}

func load(paths Paths) (*entry, error) {
	p, err := prism.Open(paths.PrismPath)
	if err != nil {
		return nil, fmt.Errorf("dictmap: open prism %s: %w", paths.PrismPath, err)
	}
	tables := make([]*table.Table, 0, len(paths.TablePaths))
	for _, tp := range paths.TablePaths {
		t, err := table.Open(tp)
		if err != nil {
			_ = p.Close()
			for _, opened := range tables {
				_ = opened.Close()
			}
			return nil, fmt.Errorf("dictmap: open table %s: %w", tp, err)
		}
		tables = append(tables, t)
	}
	return &entry{prism: p, tables: tables}, nil
}

func closeEntry(e *entry) {
	_ = e.prism.Close()
	for _, t := range e.tables {
		_ = t.Close()
	}
}

// Close releases this handle's reference, unmapping the underlying
// files once no session holds the schema open anymore.
func (h *Handle) Close() error {
	r := h.registry
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[h.schemaID]
	if !ok {
		return nil
	}
	e.refs--
	if e.refs > 0 {
		return nil
	}
	delete(r.entries, h.schemaID)
	closeEntry(e)
	return nil
}

// RefCount reports how many open handles a schema currently has, for
// diagnostics.
func (r *Registry) RefCount(schemaID string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.entries[schemaID]; ok {
		return e.refs
	}
	return 0
}
