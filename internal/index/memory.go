package index

import (
	"sort"
	"sync"
	"time"

	"github.com/MrSnakeDoc/webring/internal/sources/presets"
)

// MemoryIndex holds the widget presets served by name.
type MemoryIndex struct {
	mu         sync.RWMutex
	presets    map[string]presets.Preset // name -> Preset
	lastReload time.Time
}

// NewMemoryIndex creates an empty index.
func NewMemoryIndex() *MemoryIndex {
	return &MemoryIndex{
		presets: make(map[string]presets.Preset),
	}
}

// Update replaces all presets in the index.
func (idx *MemoryIndex) Update(ps map[string]presets.Preset) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	idx.presets = make(map[string]presets.Preset, len(ps))
	for name, p := range ps {
		idx.presets[name] = p
	}
	idx.lastReload = time.Now()
}

// Get retrieves a preset by name.
func (idx *MemoryIndex) Get(name string) (presets.Preset, bool) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	p, ok := idx.presets[name]
	return p, ok
}

// Names returns the preset names in lexical order.
func (idx *MemoryIndex) Names() []string {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	names := make([]string, 0, len(idx.presets))
	for name := range idx.presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Count returns the number of presets in the index.
func (idx *MemoryIndex) Count() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return len(idx.presets)
}

// GetLastReload returns the timestamp of the last reload, zero if the index
// was never loaded.
func (idx *MemoryIndex) GetLastReload() time.Time {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return idx.lastReload
}

// Sources returns the distinct data sources named by presets.
func (idx *MemoryIndex) Sources() []string {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	seen := make(map[string]struct{}, len(idx.presets))
	var out []string
	for _, p := range idx.presets {
		if p.Source == "" {
			continue
		}
		if _, ok := seen[p.Source]; ok {
			continue
		}
		seen[p.Source] = struct{}{}
		out = append(out, p.Source)
	}
	sort.Strings(out)
	return out
}
