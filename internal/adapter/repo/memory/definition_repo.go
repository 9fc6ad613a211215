package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"worldharvest/internal/app/ports"
	"worldharvest/internal/domain/resourcenode"
)

type DefinitionRepo struct {
	store *Store
}

func NewDefinitionRepo(store *Store) DefinitionRepo {
	return DefinitionRepo{store: store}
}

// Seed loads definitions once at startup. Invalid or duplicate tags are
// rejected and nothing is stored.
func (r DefinitionRepo) Seed(defs ...resourcenode.Definition) error {
	seen := make(map[string]struct{}, len(defs))
	for _, def := range defs {
		if err := def.Validate(); err != nil {
			return fmt.Errorf("definition %q: %w", def.ResourceTag, err)
		}
		if _, dup := seen[def.ResourceTag]; dup {
			return fmt.Errorf("definition %q: %w", def.ResourceTag, ports.ErrConflict)
		}
		seen[def.ResourceTag] = struct{}{}
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, def := range defs {
		if _, exists := r.store.definitions[def.ResourceTag]; exists {
			return fmt.Errorf("definition %q: %w", def.ResourceTag, ports.ErrConflict)
		}
	}
	for _, def := range defs {
		def.Outputs = def.OutputsCopy()
		r.store.definitions[def.ResourceTag] = def
	}
	return nil
}

func (r DefinitionRepo) GetByTag(_ context.Context, tag string) (resourcenode.Definition, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	def, ok := r.store.definitions[strings.TrimSpace(tag)]
	if !ok {
		return resourcenode.Definition{}, ports.ErrNotFound
	}
	def.Outputs = def.OutputsCopy()
	return def, nil
}

func (r DefinitionRepo) List(_ context.Context) ([]resourcenode.Definition, error) {
	r.store.mu.RLock()
	out := make([]resourcenode.Definition, 0, len(r.store.definitions))
	for _, def := range r.store.definitions {
		def.Outputs = def.OutputsCopy()
		out = append(out, def)
	}
	r.store.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].ResourceTag < out[j].ResourceTag })
	return out, nil
}
