package detect

// Decision is the final classification for one inbound media event.
type Decision string

const (
	DecisionNew       Decision = "new"
	DecisionUpgraded  Decision = "upgraded"
	DecisionRenamed   Decision = "renamed"
	DecisionUnchanged Decision = "unchanged"
)
