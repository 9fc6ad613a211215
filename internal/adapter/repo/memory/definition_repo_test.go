package memory

import (
	"context"
	"errors"
	"testing"

	"worldharvest/internal/app/ports"
	"worldharvest/internal/domain/resourcenode"
)

func validDef(tag string) resourcenode.Definition {
	return resourcenode.Definition{
		ResourceTag:       tag,
		Outputs:           []resourcenode.ItemAmount{{ItemTag: tag + "_item", Quantity: 1}},
		StartingUses:      2,
		BaseHarvestRounds: 1,
	}
}

func TestDefinitionRepo_SeedAndList(t *testing.T) {
	repo := NewDefinitionRepo(NewStore())
	if err := repo.Seed(validDef("stone"), validDef("berry")); err != nil {
		t.Fatalf("seed: %v", err)
	}
	defs, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(defs) != 2 || defs[0].ResourceTag != "berry" || defs[1].ResourceTag != "stone" {
		t.Fatalf("expected sorted definitions, got %+v", defs)
	}
}

func TestDefinitionRepo_SeedRejectsDuplicatesAndInvalid(t *testing.T) {
	repo := NewDefinitionRepo(NewStore())
	if err := repo.Seed(validDef("stone"), validDef("stone")); !errors.Is(err, ports.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
	bad := validDef("mud")
	bad.BaseHarvestRounds = 0
	if err := repo.Seed(bad); !errors.Is(err, resourcenode.ErrInvalidDefinition) {
		t.Fatalf("expected ErrInvalidDefinition, got %v", err)
	}
	if defs, _ := repo.List(context.Background()); len(defs) != 0 {
		t.Fatalf("failed seeds must store nothing, got %d", len(defs))
	}
}

func TestDefinitionRepo_GetByTagReturnsCopy(t *testing.T) {
	repo := NewDefinitionRepo(NewStore())
	if err := repo.Seed(validDef("stone")); err != nil {
		t.Fatalf("seed: %v", err)
	}
	def, err := repo.GetByTag(context.Background(), "stone")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	def.Outputs[0].Quantity = 99
	again, _ := repo.GetByTag(context.Background(), "stone")
	if again.Outputs[0].Quantity != 1 {
		t.Fatalf("definition mutated through returned copy")
	}
	if _, err := repo.GetByTag(context.Background(), "lava"); !errors.Is(err, ports.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
