package harvesting

// Result data keys.
const (
	DataNodeInstanceID = "node_instance_id"
	DataStatus         = "status"
	DataRemainingUses  = "remaining_uses"
	DataProgressRounds = "progress_rounds"
	DataItems          = "items"
	DataNodesCleared   = "nodes_cleared"
)

type RegisterNode struct {
	ResourceTag string  `json:"resource_tag"`
	Area        string  `json:"area"`
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	Z           float64 `json:"z"`
	Heading     float64 `json:"heading"`
	Quality     int     `json:"quality"`
	// Uses overrides the definition's starting uses when positive.
	Uses int `json:"uses,omitempty"`
}

func (RegisterNode) CommandType() string { return "RegisterNode" }

type HarvestResource struct {
	ActorID        string `json:"actor_id"`
	NodeInstanceID string `json:"node_instance_id"`
}

func (HarvestResource) CommandType() string { return "HarvestResource" }

type DestroyNode struct {
	NodeInstanceID string `json:"node_instance_id"`
}

func (DestroyNode) CommandType() string { return "DestroyNode" }

type ClearAreaNodes struct {
	Area string `json:"area"`
}

func (ClearAreaNodes) CommandType() string { return "ClearAreaNodes" }
