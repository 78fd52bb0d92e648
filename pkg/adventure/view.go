package adventure

import "github.com/jwebster45206/sunless-engine/pkg/scenario"

// ActionView describes one available action.
type ActionView struct {
	Name      string                   `json:"name"`
	Depiction scenario.DepictionRecord `json:"depiction"`
}

// LocationView is the structured description of the current location.
// Exit holds the exit name and is nil when the location has no exit.
type LocationView struct {
	ID        string                   `json:"id"`
	Depiction scenario.DepictionRecord `json:"depiction"`
	Actions   []ActionView             `json:"actions"`
	Exit      *string                  `json:"exit"`
}

// ConsequenceView is the structured description of the current consequence.
type ConsequenceView struct {
	Depiction  scenario.DepictionRecord `json:"depiction"`
	Details    []scenario.DetailRecord  `json:"details"`
	Resolution string                   `json:"resolution"`
}

func describeLocation(loc scenario.Location) LocationView {
	actions := loc.Actions()
	view := LocationView{
		ID:        loc.ID(),
		Depiction: scenario.RecordDepiction(loc.Depiction()),
		Actions:   make([]ActionView, 0, len(actions)),
	}
	for _, a := range actions {
		view.Actions = append(view.Actions, ActionView{
			Name:      a.Name(),
			Depiction: scenario.RecordDepiction(a.Depiction()),
		})
	}
	if exit := loc.Exit(); exit != nil {
		name := exit.Name()
		view.Exit = &name
	}
	return view
}

func describeConsequence(c scenario.Consequence) ConsequenceView {
	rec := scenario.RecordConsequence(c)
	return ConsequenceView{
		Depiction:  rec.Depiction,
		Details:    rec.Details,
		Resolution: rec.Resolution,
	}
}
