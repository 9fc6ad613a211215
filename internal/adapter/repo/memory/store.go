package memory

import (
	"sort"
	"sync"

	"worldharvest/internal/domain/resourcenode"
)

// instanceSlot owns one instance. Its mutex serializes every writer of that
// instance; the store lock only guards the index maps. A slot lock may be
// held while taking the store lock, never the other way round.
type instanceSlot struct {
	id   string
	area string

	mu      sync.Mutex
	inst    resourcenode.Instance
	removed bool
}

func newSlot(inst resourcenode.Instance) *instanceSlot {
	return &instanceSlot{id: inst.ID, area: inst.Area, inst: inst}
}

type Store struct {
	mu          sync.RWMutex
	definitions map[string]resourcenode.Definition
	instances   map[string]*instanceSlot

	txMu sync.Mutex
}

func NewStore() *Store {
	return &Store{
		definitions: make(map[string]resourcenode.Definition),
		instances:   make(map[string]*instanceSlot),
	}
}

func (s *Store) slot(id string) (*instanceSlot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sl, ok := s.instances[id]
	return sl, ok
}

func (s *Store) slotsInArea(area string) []*instanceSlot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*instanceSlot, 0)
	for _, sl := range s.instances {
		if sl.area == area {
			out = append(out, sl)
		}
	}
	return out
}

// drop must be called with sl.mu held.
func (s *Store) drop(sl *instanceSlot) {
	s.mu.Lock()
	delete(s.instances, sl.id)
	s.mu.Unlock()
	sl.removed = true
}

func sortInstances(items []resourcenode.Instance) {
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
}
