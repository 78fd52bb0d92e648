package sunlesscv

import (
	"github.com/jwebster45206/sunless-engine/pkg/conditionals"
	"github.com/jwebster45206/sunless-engine/pkg/progress"
	"github.com/jwebster45206/sunless-engine/pkg/scenario"
)

// location is a story location bound to one session's trackers. Its content
// is derived from tracker state on every call.
type location struct {
	spec     *LocationSpec
	progress *progress.Manager
}

var _ scenario.Location = (*location)(nil)

func newLocation(spec *LocationSpec, pm *progress.Manager) *location {
	return &location{spec: spec, progress: pm}
}

func (l *location) ID() string {
	return l.spec.ID
}

// variant returns the first variant whose clause holds, or nil.
func (l *location) variant() *VariantSpec {
	for i := range l.spec.Variants {
		if conditionals.EvaluateWhen(l.spec.Variants[i].When, l.progress) {
			return &l.spec.Variants[i]
		}
	}
	return nil
}

func (l *location) Depiction() scenario.Depiction {
	if v := l.variant(); v != nil && v.Depiction != nil {
		return v.Depiction.Build()
	}
	return l.spec.Depiction.Build()
}

func (l *location) Actions() []scenario.Action {
	specs := l.spec.Actions
	if v := l.variant(); v != nil && v.Actions != nil {
		specs = v.Actions
	}

	actions := make([]scenario.Action, 0, len(specs))
	for i := range specs {
		if !conditionals.Applies(specs[i].When, l.progress) {
			continue
		}
		actions = append(actions, newAction(&specs[i], l.progress))
	}
	return actions
}

func (l *location) Exit() scenario.Exit {
	exit := l.spec.Exit
	if v := l.variant(); v != nil && v.Exit != nil {
		exit = v.Exit
	}
	if exit == nil {
		return nil
	}
	return exit.Build()
}

// Visit marks the location visited and sets the watch flag to the
// location's own value.
func (l *location) Visit() {
	l.progress.Locations.Visit(l.spec.ID)
	l.progress.Watch.SetWatched(l.spec.Watched)
}

// action performs its effects on the session trackers before returning a
// fresh outcome.
type action struct {
	spec     *ActionSpec
	progress *progress.Manager
}

var _ scenario.Action = (*action)(nil)

func newAction(spec *ActionSpec, pm *progress.Manager) *action {
	return &action{spec: spec, progress: pm}
}

func (a *action) Name() string {
	return a.spec.Name
}

func (a *action) Depiction() scenario.Depiction {
	return a.spec.Depiction.Build()
}

func (a *action) Perform() scenario.Outcome {
	outcome := a.spec.Outcome.Build()

	for _, id := range a.spec.Effects.Discover {
		a.progress.Competences.Discover(id)
	}
	if a.spec.Effects.Unwatch {
		a.progress.Watch.SetWatched(false)
	}
	if a.spec.Effects.Distrust {
		a.progress.Distrust.SetDistrusted(true)
	}
	return outcome
}
