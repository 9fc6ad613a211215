package ports

import (
	"context"

	"worldharvest/internal/domain/resourcenode"
)

type ResourceNodeDefinitionRepository interface {
	GetByTag(ctx context.Context, tag string) (resourcenode.Definition, error)
	List(ctx context.Context) ([]resourcenode.Definition, error)
}

// InstanceMutation edits a locked instance in place. Returning remove=true
// deletes the instance in the same critical section.
type InstanceMutation func(inst *resourcenode.Instance) (remove bool, err error)

type ResourceNodeInstanceRepository interface {
	Add(ctx context.Context, inst resourcenode.Instance) error
	GetByID(ctx context.Context, id string) (resourcenode.Instance, error)
	GetInstancesByArea(ctx context.Context, area string) ([]resourcenode.Instance, error)
	Remove(ctx context.Context, id string) error
	RemoveAllInArea(ctx context.Context, area string) (int, error)
	// Apply serializes read-modify-write access to one instance and returns
	// the state the mutation left behind.
	Apply(ctx context.Context, id string, fn InstanceMutation) (resourcenode.Instance, error)
}
