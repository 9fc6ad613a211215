package harvestquery

import "worldharvest/internal/domain/resourcenode"

type NodeState struct {
	NodeInstanceID string `json:"node_instance_id"`
	ResourceTag    string `json:"resource_tag"`
	RemainingUses  int    `json:"remaining_uses"`
	Quality        int    `json:"quality"`
}

func stateOf(inst resourcenode.Instance) NodeState {
	return NodeState{
		NodeInstanceID: inst.ID,
		ResourceTag:    inst.ResourceTag,
		RemainingUses:  inst.RemainingUses,
		Quality:        inst.Quality,
	}
}
