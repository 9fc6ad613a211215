package resourcenode

type HarvestStatus string

const (
	HarvestInProgress HarvestStatus = "InProgress"
	HarvestCompleted  HarvestStatus = "Completed"
	HarvestDepleted   HarvestStatus = "NodeDepleted"
)

type HarvestOutcome struct {
	Status HarvestStatus
	Items  []ItemAmount
}

// Depleted reports whether the instance must be removed after this attempt.
func (o HarvestOutcome) Depleted() bool {
	return o.Status == HarvestDepleted
}

// AdvanceHarvest applies one harvest round to the instance. Completing a
// round resets progress and spends one use; the returned outcome carries the
// definition's yield only when the round completed.
func (i *Instance) AdvanceHarvest(def Definition) HarvestOutcome {
	rounds := def.BaseHarvestRounds
	if rounds < 1 {
		rounds = 1
	}
	i.HarvestProgressRounds++
	if i.HarvestProgressRounds < rounds {
		return HarvestOutcome{Status: HarvestInProgress}
	}

	i.HarvestProgressRounds = 0
	if i.RemainingUses > 0 {
		i.RemainingUses--
	}
	status := HarvestCompleted
	if i.RemainingUses == 0 {
		status = HarvestDepleted
	}
	return HarvestOutcome{Status: status, Items: def.OutputsCopy()}
}
