package resourcenode

import "errors"

var (
	ErrInvalidDefinition = errors.New("invalid resource node definition")
	ErrToolMismatch      = errors.New("required tool not equipped")
)

type ItemAmount struct {
	ItemTag  string `json:"item_tag" yaml:"item_tag"`
	Quantity int    `json:"quantity" yaml:"quantity"`
}

type HarvestContext struct {
	RequiredToolType string `json:"required_tool_type" yaml:"required_tool_type"`
}

// Definition is the static template shared by every spawned node of one
// resource tag. Definitions are loaded once and never mutated.
type Definition struct {
	ResourceTag       string         `json:"resource_tag" yaml:"resource_tag"`
	ResourceType      string         `json:"resource_type" yaml:"resource_type"`
	HarvestContext    HarvestContext `json:"harvest_context" yaml:"harvest_context"`
	Outputs           []ItemAmount   `json:"outputs" yaml:"outputs"`
	StartingUses      int            `json:"starting_uses" yaml:"starting_uses"`
	BaseHarvestRounds int            `json:"base_harvest_rounds" yaml:"base_harvest_rounds"`
}

func (d Definition) Validate() error {
	switch {
	case d.ResourceTag == "":
		return errors.Join(ErrInvalidDefinition, errors.New("resource_tag is required"))
	case d.BaseHarvestRounds < 1:
		return errors.Join(ErrInvalidDefinition, errors.New("base_harvest_rounds must be >= 1"))
	case d.StartingUses < 1:
		return errors.Join(ErrInvalidDefinition, errors.New("starting_uses must be >= 1"))
	}
	for _, out := range d.Outputs {
		if out.ItemTag == "" || out.Quantity <= 0 {
			return errors.Join(ErrInvalidDefinition, errors.New("outputs need an item_tag and a positive quantity"))
		}
	}
	return nil
}

// RequiresTool reports whether toolType satisfies the harvest context.
// An empty requirement accepts bare hands.
func (d Definition) RequiresTool(toolType string) bool {
	return d.HarvestContext.RequiredToolType == "" || d.HarvestContext.RequiredToolType == toolType
}

// OutputsCopy returns the yield so callers cannot alias the definition.
func (d Definition) OutputsCopy() []ItemAmount {
	out := make([]ItemAmount, len(d.Outputs))
	copy(out, d.Outputs)
	return out
}

type Position struct {
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Z       float64 `json:"z"`
	Heading float64 `json:"heading"`
}

// Instance is one spawned, stateful occurrence of a Definition.
type Instance struct {
	ID                    string   `json:"id"`
	ResourceTag           string   `json:"resource_tag"`
	Area                  string   `json:"area"`
	Position              Position `json:"position"`
	Quality               int      `json:"quality"`
	RemainingUses         int      `json:"remaining_uses"`
	HarvestProgressRounds int      `json:"harvest_progress_rounds"`
}
