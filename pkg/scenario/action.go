package scenario

// Action is a choice offered to the player at a location.
type Action interface {
	Name() string
	Depiction() Depiction
	// Perform may mutate session trackers. Every call is effectful
	// and returns a fresh outcome.
	Perform() Outcome
}

// StaticAction always yields the same outcome and has no side effects.
type StaticAction struct {
	name      string
	depiction Depiction
	outcome   Outcome
}

var _ Action = StaticAction{}

// NewAction creates a static action.
func NewAction(name string, depiction Depiction, outcome Outcome) StaticAction {
	return StaticAction{
		name:      name,
		depiction: depiction,
		outcome:   outcome,
	}
}

func (a StaticAction) Name() string         { return a.name }
func (a StaticAction) Depiction() Depiction { return a.depiction }
func (a StaticAction) Perform() Outcome     { return a.outcome }
