package ports

import (
	"context"

	"worldharvest/internal/domain/resourcenode"
)

// ActorProvider is the only view the harvesting engine has of the host world.
type ActorProvider interface {
	EquippedTool(ctx context.Context, actorID string) (string, error)
	Location(ctx context.Context, actorID string) (area string, pos resourcenode.Position, err error)
}
