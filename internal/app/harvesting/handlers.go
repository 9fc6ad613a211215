package harvesting

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"worldharvest/internal/app/commandbus"
	"worldharvest/internal/app/eventbus"
	"worldharvest/internal/app/ports"
	"worldharvest/internal/domain/resourcenode"

	"github.com/google/uuid"
)

// Deps are the collaborators shared by the harvesting handlers.
type Deps struct {
	Definitions ports.ResourceNodeDefinitionRepository
	Instances   ports.ResourceNodeInstanceRepository
	Actors      ports.ActorProvider
	Events      eventbus.Publisher
	NewID       func() string
}

// Register wires every harvesting handler into d.
func Register(d *commandbus.Dispatcher, deps Deps) error {
	if deps.NewID == nil {
		deps.NewID = uuid.NewString
	}
	return errors.Join(
		commandbus.Register[RegisterNode](d, RegisterNodeHandler{Deps: deps}),
		commandbus.Register[HarvestResource](d, HarvestResourceHandler{Deps: deps}),
		commandbus.Register[DestroyNode](d, DestroyNodeHandler{Deps: deps}),
		commandbus.Register[ClearAreaNodes](d, ClearAreaNodesHandler{Deps: deps}),
	)
}

// publish delivers events after state has changed; the caller's
// cancellation no longer applies at that point.
func (d Deps) publish(ctx context.Context, events ...any) error {
	if d.Events == nil {
		return nil
	}
	ctx = context.WithoutCancel(ctx)
	for _, evt := range events {
		if err := d.Events.Publish(ctx, evt); err != nil {
			return fmt.Errorf("publish %T: %w", evt, err)
		}
	}
	return nil
}

type RegisterNodeHandler struct{ Deps }

func (h RegisterNodeHandler) Handle(ctx context.Context, cmd RegisterNode) (commandbus.Result, error) {
	tag := strings.TrimSpace(cmd.ResourceTag)
	area := strings.TrimSpace(cmd.Area)
	def, err := h.Definitions.GetByTag(ctx, tag)
	if errors.Is(err, ports.ErrNotFound) {
		return commandbus.Failf("%s not found", tag), nil
	}
	if err != nil {
		return commandbus.Result{}, err
	}
	if area == "" {
		return commandbus.Fail("area is required"), nil
	}

	uses := cmd.Uses
	if uses <= 0 {
		uses = def.StartingUses
	}
	newID := h.NewID
	if newID == nil {
		newID = uuid.NewString
	}
	inst := resourcenode.Instance{
		ID:          newID(),
		ResourceTag: def.ResourceTag,
		Area:        area,
		Position: resourcenode.Position{
			X:       cmd.X,
			Y:       cmd.Y,
			Z:       cmd.Z,
			Heading: cmd.Heading,
		},
		Quality:       cmd.Quality,
		RemainingUses: uses,
	}
	if err := h.Instances.Add(ctx, inst); err != nil {
		return commandbus.Result{}, fmt.Errorf("add node instance: %w", err)
	}
	if err := h.publish(ctx, resourcenode.NodeRegistered{
		NodeInstanceID: inst.ID,
		ResourceTag:    inst.ResourceTag,
		Area:           inst.Area,
	}); err != nil {
		return commandbus.Result{}, err
	}
	return commandbus.OkWith(map[string]any{DataNodeInstanceID: inst.ID}), nil
}

type HarvestResourceHandler struct{ Deps }

func (h HarvestResourceHandler) Handle(ctx context.Context, cmd HarvestResource) (commandbus.Result, error) {
	nodeID := strings.TrimSpace(cmd.NodeInstanceID)
	inst, err := h.Instances.GetByID(ctx, nodeID)
	if errors.Is(err, ports.ErrNotFound) {
		return commandbus.Failf("node %s not found", nodeID), nil
	}
	if err != nil {
		return commandbus.Result{}, err
	}
	def, err := h.Definitions.GetByTag(ctx, inst.ResourceTag)
	if errors.Is(err, ports.ErrNotFound) {
		return commandbus.Failf("%s not found", inst.ResourceTag), nil
	}
	if err != nil {
		return commandbus.Result{}, err
	}

	tool, err := h.Actors.EquippedTool(ctx, cmd.ActorID)
	if errors.Is(err, ports.ErrNotFound) {
		return commandbus.Failf("actor %s not found", cmd.ActorID), nil
	}
	if err != nil {
		return commandbus.Result{}, err
	}
	if !def.RequiresTool(tool) {
		return commandbus.Failf("%s: %s requires a %s tool", resourcenode.ErrToolMismatch, def.ResourceTag, def.HarvestContext.RequiredToolType), nil
	}

	var outcome resourcenode.HarvestOutcome
	after, err := h.Instances.Apply(ctx, nodeID, func(locked *resourcenode.Instance) (bool, error) {
		outcome = locked.AdvanceHarvest(def)
		return outcome.Depleted(), nil
	})
	if errors.Is(err, ports.ErrNotFound) {
		// Removed between the lookup and the lock.
		return commandbus.Failf("node %s not found", nodeID), nil
	}
	if err != nil {
		return commandbus.Result{}, err
	}

	var events []any
	if outcome.Status != resourcenode.HarvestInProgress {
		events = append(events, resourcenode.ResourceHarvested{
			NodeInstanceID: nodeID,
			ActorID:        cmd.ActorID,
			Items:          outcome.Items,
		})
	}
	if outcome.Depleted() {
		events = append(events, resourcenode.NodeDepleted{
			NodeInstanceID: nodeID,
			ResourceTag:    after.ResourceTag,
			Area:           after.Area,
		})
	}
	if err := h.publish(ctx, events...); err != nil {
		return commandbus.Result{}, err
	}

	data := map[string]any{
		DataNodeInstanceID: nodeID,
		DataStatus:         string(outcome.Status),
		DataRemainingUses:  after.RemainingUses,
		DataProgressRounds: after.HarvestProgressRounds,
	}
	if len(outcome.Items) > 0 {
		data[DataItems] = outcome.Items
	}
	return commandbus.OkWith(data), nil
}

type DestroyNodeHandler struct{ Deps }

func (h DestroyNodeHandler) Handle(ctx context.Context, cmd DestroyNode) (commandbus.Result, error) {
	nodeID := strings.TrimSpace(cmd.NodeInstanceID)
	removed, err := h.Instances.Apply(ctx, nodeID, func(*resourcenode.Instance) (bool, error) {
		return true, nil
	})
	if errors.Is(err, ports.ErrNotFound) {
		return commandbus.Failf("node %s not found", nodeID), nil
	}
	if err != nil {
		return commandbus.Result{}, err
	}
	if err := h.publish(ctx, resourcenode.NodeDepleted{
		NodeInstanceID: nodeID,
		ResourceTag:    removed.ResourceTag,
		Area:           removed.Area,
		Destroyed:      true,
	}); err != nil {
		return commandbus.Result{}, err
	}
	return commandbus.OkWith(map[string]any{DataNodeInstanceID: nodeID}), nil
}

type ClearAreaNodesHandler struct{ Deps }

func (h ClearAreaNodesHandler) Handle(ctx context.Context, cmd ClearAreaNodes) (commandbus.Result, error) {
	area := strings.TrimSpace(cmd.Area)
	if area == "" {
		return commandbus.Fail("area is required"), nil
	}
	n, err := h.Instances.RemoveAllInArea(ctx, area)
	if err != nil {
		return commandbus.Result{}, fmt.Errorf("clear area %s: %w", area, err)
	}
	if err := h.publish(ctx, resourcenode.NodesCleared{Area: area, NodesCleared: n}); err != nil {
		return commandbus.Result{}, err
	}
	return commandbus.OkWith(map[string]any{DataNodesCleared: n}), nil
}
