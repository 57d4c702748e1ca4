package material

import (
	"fmt"
	"sync"
)

// Resolver maps wood material names to materials. It holds a snapshot of
// its Source taken by the last call to Refresh; nothing is enumerated
// implicitly. A Resolver is safe for concurrent use.
type Resolver struct {
	src Source

	mu     sync.RWMutex
	names  []string
	byName map[string]Material
}

// NewResolver returns an empty resolver. Call Refresh to populate it.
func NewResolver(src Source) *Resolver {
	return &Resolver{src: src}
}

// Refresh re-enumerates the source libraries. On error the previous
// snapshot is kept. A name defined by several libraries keeps its first
// position in WoodNames and resolves to the last definition.
func (r *Resolver) Refresh() error {
	if r.src == nil {
		return fmt.Errorf("material resolver has no source")
	}
	libs, err := r.src()
	if err != nil {
		return fmt.Errorf("refreshing materials: %w", err)
	}
	var names []string
	byName := make(map[string]Material)
	for _, lib := range libs {
		for _, m := range lib.Materials {
			if !m.IsWood() {
				continue
			}
			if _, dup := byName[m.Name]; !dup {
				names = append(names, m.Name)
			}
			byName[m.Name] = m
		}
	}
	r.mu.Lock()
	r.names, r.byName = names, byName
	r.mu.Unlock()
	return nil
}

// WoodNames returns the wood material names in library order.
func (r *Resolver) WoodNames() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.names...)
}

// Resolve looks up a wood material by name.
func (r *Resolver) Resolve(name string) (Material, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.byName[name]
	return m, ok
}

// Lookup is like Resolve but returns an error wrapping ErrNotFound.
func (r *Resolver) Lookup(name string) (Material, error) {
	m, ok := r.Resolve(name)
	if !ok {
		return Material{}, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return m, nil
}
