package harvesting

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"

	actormemory "worldharvest/internal/adapter/actor/memory"
	"worldharvest/internal/adapter/repo/memory"
	"worldharvest/internal/app/commandbus"
	"worldharvest/internal/app/eventbus"
	"worldharvest/internal/domain/resourcenode"
)

var (
	oakDef = resourcenode.Definition{
		ResourceTag:       "oak_tree",
		ResourceType:      "wood",
		HarvestContext:    resourcenode.HarvestContext{RequiredToolType: "axe"},
		Outputs:           []resourcenode.ItemAmount{{ItemTag: "oak_log", Quantity: 2}},
		StartingUses:      3,
		BaseHarvestRounds: 3,
	}
	bushDef = resourcenode.Definition{
		ResourceTag:       "berry_bush",
		ResourceType:      "food",
		Outputs:           []resourcenode.ItemAmount{{ItemTag: "berry", Quantity: 1}},
		StartingUses:      1,
		BaseHarvestRounds: 1,
	}
	veinDef = resourcenode.Definition{
		ResourceTag:       "iron_vein",
		ResourceType:      "ore",
		HarvestContext:    resourcenode.HarvestContext{RequiredToolType: "pickaxe"},
		Outputs:           []resourcenode.ItemAmount{{ItemTag: "iron_ore", Quantity: 1}},
		StartingUses:      50,
		BaseHarvestRounds: 2,
	}
)

type harness struct {
	dispatcher *commandbus.Dispatcher
	bus        *eventbus.Bus
	events     *eventbus.Recorder
	instances  memory.InstanceRepo
	actors     *actormemory.Provider
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	store := memory.NewStore()
	defs := memory.NewDefinitionRepo(store)
	if err := defs.Seed(oakDef, bushDef, veinDef); err != nil {
		t.Fatalf("seed definitions: %v", err)
	}
	bus := eventbus.New()
	h := &harness{
		bus:       bus,
		events:    eventbus.NewRecorder(bus),
		instances: memory.NewInstanceRepo(store),
		actors: actormemory.NewProvider(
			actormemory.Actor{ID: "lumberjack", EquippedTool: "axe", Area: "forest"},
			actormemory.Actor{ID: "miner", EquippedTool: "pickaxe", Area: "mine"},
			actormemory.Actor{ID: "bare", Area: "forest"},
		),
	}
	var seq atomic.Int64
	h.dispatcher = commandbus.NewDispatcher(bus)
	if err := Register(h.dispatcher, Deps{
		Definitions: defs,
		Instances:   h.instances,
		Actors:      h.actors,
		Events:      bus,
		NewID:       func() string { return fmt.Sprintf("node-%d", seq.Add(1)) },
	}); err != nil {
		t.Fatalf("register handlers: %v", err)
	}
	return h
}

func (h *harness) dispatch(t *testing.T, cmd commandbus.Command) commandbus.Result {
	t.Helper()
	res, err := h.dispatcher.Dispatch(context.Background(), cmd)
	if err != nil {
		t.Fatalf("dispatch %s: %v", cmd.CommandType(), err)
	}
	return res
}

func (h *harness) register(t *testing.T, tag, area string) string {
	t.Helper()
	res := h.dispatch(t, RegisterNode{ResourceTag: tag, Area: area})
	if !res.Success {
		t.Fatalf("register %s failed: %s", tag, res.ErrorMessage)
	}
	id, _ := res.Data[DataNodeInstanceID].(string)
	if id == "" {
		t.Fatalf("expected node id in result data, got %#v", res.Data)
	}
	return id
}
