package catalog

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"worldharvest/internal/domain/resourcenode"
)

func TestDefault_LoadsBuiltInCatalog(t *testing.T) {
	defs, err := Default()
	if err != nil {
		t.Fatalf("default catalog: %v", err)
	}
	byTag := map[string]resourcenode.Definition{}
	for _, d := range defs {
		byTag[d.ResourceTag] = d
	}
	for _, tag := range []string{"oak_tree", "granite_rock", "berry_bush", "iron_vein"} {
		if _, ok := byTag[tag]; !ok {
			t.Fatalf("expected %s in default catalog", tag)
		}
	}
	oak := byTag["oak_tree"]
	if oak.HarvestContext.RequiredToolType != "axe" || oak.BaseHarvestRounds != 3 {
		t.Fatalf("unexpected oak_tree definition %+v", oak)
	}
	if berry := byTag["berry_bush"]; berry.HarvestContext.RequiredToolType != "" || len(berry.Outputs) != 2 {
		t.Fatalf("unexpected berry_bush definition %+v", berry)
	}
}

func TestParse_RejectsDuplicateTags(t *testing.T) {
	raw := []byte(`
definitions:
  - resource_tag: stone
    outputs: [{item_tag: stone, quantity: 1}]
    starting_uses: 1
    base_harvest_rounds: 1
  - resource_tag: stone
    outputs: [{item_tag: stone, quantity: 1}]
    starting_uses: 1
    base_harvest_rounds: 1
`)
	if _, err := Parse(raw); !errors.Is(err, ErrDuplicateTag) {
		t.Fatalf("expected ErrDuplicateTag, got %v", err)
	}
}

func TestParse_RejectsInvalidRoundsAndMissingOutputs(t *testing.T) {
	raw := []byte(`
definitions:
  - resource_tag: mud
    outputs: [{item_tag: mud, quantity: 1}]
    starting_uses: 1
    base_harvest_rounds: 0
  - resource_tag: air
    starting_uses: 1
    base_harvest_rounds: 1
`)
	_, err := Parse(raw)
	if !errors.Is(err, resourcenode.ErrInvalidDefinition) {
		t.Fatalf("expected ErrInvalidDefinition, got %v", err)
	}
}

func TestParse_RejectsUnknownFields(t *testing.T) {
	raw := []byte(`
definitions:
  - resource_tag: oak
    required_tool: axe
    outputs: [{item_tag: log, quantity: 1}]
    starting_uses: 1
    base_harvest_rounds: 1
`)
	if _, err := Parse(raw); err == nil {
		t.Fatalf("expected unknown field error")
	}
}

func TestLoad_ReadsFileOrFallsBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "defs.yaml")
	content := []byte(`
version: 1
definitions:
  - resource_tag: clay_pit
    resource_type: clay
    harvest_context: {required_tool_type: shovel}
    outputs: [{item_tag: clay, quantity: 2}]
    starting_uses: 3
    base_harvest_rounds: 2
`)
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	defs, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(defs) != 1 || defs[0].HarvestContext.RequiredToolType != "shovel" {
		t.Fatalf("unexpected definitions %+v", defs)
	}

	builtIn, err := Load("")
	if err != nil || len(builtIn) == 0 {
		t.Fatalf("expected built-in fallback, got %d err=%v", len(builtIn), err)
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
