package resourcenode

// Events published by the harvesting handlers. Subscribers select them by
// concrete type.

type NodeRegistered struct {
	NodeInstanceID string
	ResourceTag    string
	Area           string
}

type ResourceHarvested struct {
	NodeInstanceID string
	ActorID        string
	Items          []ItemAmount
}

// NodeDepleted is published for natural depletion and for administrative
// destruction alike.
type NodeDepleted struct {
	NodeInstanceID string
	ResourceTag    string
	Area           string
	Destroyed      bool
}

type NodesCleared struct {
	Area         string
	NodesCleared int
}
