// Package harvestquery holds the read side of the harvesting engine. Queries
// go straight to the repositories and never publish.
package harvestquery

import (
	"context"
	"errors"
	"strings"

	"worldharvest/internal/app/ports"
	"worldharvest/internal/domain/resourcenode"
)

var ErrInvalidRequest = errors.New("invalid harvest query")

type Service struct {
	Definitions ports.ResourceNodeDefinitionRepository
	Instances   ports.ResourceNodeInstanceRepository
}

// GetNodesForArea lists live instances in area ordered by id. An area with no
// nodes yields an empty slice.
func (s Service) GetNodesForArea(ctx context.Context, area string) ([]resourcenode.Instance, error) {
	area = strings.TrimSpace(area)
	if area == "" {
		return nil, ErrInvalidRequest
	}
	return s.Instances.GetInstancesByArea(ctx, area)
}

// GetNodeByID returns ports.ErrNotFound once a node is depleted or removed.
func (s Service) GetNodeByID(ctx context.Context, id string) (resourcenode.Instance, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return resourcenode.Instance{}, ErrInvalidRequest
	}
	return s.Instances.GetByID(ctx, id)
}

func (s Service) GetNodeState(ctx context.Context, id string) (NodeState, error) {
	inst, err := s.GetNodeByID(ctx, id)
	if err != nil {
		return NodeState{}, err
	}
	return stateOf(inst), nil
}

func (s Service) ListDefinitions(ctx context.Context) ([]resourcenode.Definition, error) {
	return s.Definitions.List(ctx)
}
