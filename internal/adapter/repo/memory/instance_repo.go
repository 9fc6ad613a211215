package memory

import (
	"context"

	"worldharvest/internal/app/ports"
	"worldharvest/internal/domain/resourcenode"
)

type InstanceRepo struct {
	store *Store
}

func NewInstanceRepo(store *Store) InstanceRepo {
	return InstanceRepo{store: store}
}

func (r InstanceRepo) Add(_ context.Context, inst resourcenode.Instance) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, exists := r.store.instances[inst.ID]; exists {
		return ports.ErrConflict
	}
	r.store.instances[inst.ID] = newSlot(inst)
	return nil
}

func (r InstanceRepo) GetByID(_ context.Context, id string) (resourcenode.Instance, error) {
	sl, ok := r.store.slot(id)
	if !ok {
		return resourcenode.Instance{}, ports.ErrNotFound
	}
	sl.mu.Lock()
	defer sl.mu.Unlock()
	if sl.removed {
		return resourcenode.Instance{}, ports.ErrNotFound
	}
	return sl.inst, nil
}

func (r InstanceRepo) GetInstancesByArea(_ context.Context, area string) ([]resourcenode.Instance, error) {
	slots := r.store.slotsInArea(area)
	out := make([]resourcenode.Instance, 0, len(slots))
	for _, sl := range slots {
		sl.mu.Lock()
		if !sl.removed {
			out = append(out, sl.inst)
		}
		sl.mu.Unlock()
	}
	sortInstances(out)
	return out, nil
}

func (r InstanceRepo) Remove(_ context.Context, id string) error {
	sl, ok := r.store.slot(id)
	if !ok {
		return ports.ErrNotFound
	}
	sl.mu.Lock()
	defer sl.mu.Unlock()
	if sl.removed {
		return ports.ErrNotFound
	}
	r.store.drop(sl)
	return nil
}

func (r InstanceRepo) RemoveAllInArea(_ context.Context, area string) (int, error) {
	slots := r.store.slotsInArea(area)
	removed := 0
	for _, sl := range slots {
		sl.mu.Lock()
		if !sl.removed {
			r.store.drop(sl)
			removed++
		}
		sl.mu.Unlock()
	}
	return removed, nil
}

func (r InstanceRepo) Apply(_ context.Context, id string, fn ports.InstanceMutation) (resourcenode.Instance, error) {
	sl, ok := r.store.slot(id)
	if !ok {
		return resourcenode.Instance{}, ports.ErrNotFound
	}
	sl.mu.Lock()
	defer sl.mu.Unlock()
	if sl.removed {
		return resourcenode.Instance{}, ports.ErrNotFound
	}

	working := sl.inst
	remove, err := fn(&working)
	if err != nil {
		return resourcenode.Instance{}, err
	}
	// Identity fields are immutable.
	working.ID = sl.inst.ID
	working.Area = sl.inst.Area
	working.ResourceTag = sl.inst.ResourceTag
	sl.inst = working
	if remove {
		r.store.drop(sl)
	}
	return working, nil
}
