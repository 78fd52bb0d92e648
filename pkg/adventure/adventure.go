// Package adventure implements the state machine that moves a player through
// a story: describe the current location, perform an action, walk through the
// consequences of its outcome and arrive at the next location.
package adventure

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/jwebster45206/sunless-engine/pkg/scenario"
)

// Adventure is a single play session. It is not safe for concurrent use;
// callers serialize access per session.
//
// The adventure is either at a location (no pending outcome) or in the middle
// of an outcome's consequences. Only a transition changes the location.
type Adventure struct {
	dir      scenario.Directory
	location scenario.Location

	// pending is the outcome being walked; nil when at a location.
	pending      scenario.Outcome
	consequences []scenario.Consequence
	cursor       int

	logger *slog.Logger
}

// Option configures an Adventure.
type Option func(*Adventure)

// WithLogger sets the logger used for transitions.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Adventure) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// New starts an adventure at startID, falling back to the directory's default
// location when startID is unknown. The starting location is visited once.
// An error is returned only when the default location cannot be resolved.
func New(dir scenario.Directory, startID string, opts ...Option) (*Adventure, error) {
	a := newAdventure(dir, opts)
	loc, err := a.resolve(startID)
	if err != nil {
		return nil, err
	}
	loc.Visit()
	a.location = loc
	a.logger.Debug("Adventure started", "location", loc.ID())
	return a, nil
}

func newAdventure(dir scenario.Directory, opts []Option) *Adventure {
	a := &Adventure{
		dir:    dir,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// LocationID returns the id of the current location.
func (a *Adventure) LocationID() string {
	return a.location.ID()
}

// InConsequence reports whether an outcome's consequences are being walked.
func (a *Adventure) InConsequence() bool {
	return a.pending != nil
}

// Cursor returns the index of the current consequence. It is 0 at a location.
func (a *Adventure) Cursor() int {
	return a.cursor
}

// DescribeLocation describes the current location with its live action list.
func (a *Adventure) DescribeLocation() (LocationView, error) {
	if a.InConsequence() {
		return LocationView{}, errUnresolvedConsequence()
	}
	return describeLocation(a.location), nil
}

// DescribeConsequence describes the current consequence.
func (a *Adventure) DescribeConsequence() (ConsequenceView, error) {
	if !a.InConsequence() {
		return ConsequenceView{}, errNoConsequence()
	}
	return describeConsequence(a.consequences[a.cursor]), nil
}

// PerformAction performs the action at index in the location's current
// action list. An outcome without consequences moves the player at once.
func (a *Adventure) PerformAction(index int) error {
	if a.InConsequence() {
		return errUnresolvedConsequence()
	}

	actions := a.location.Actions()
	if index < 0 || index >= len(actions) {
		return errNoAction(index)
	}
	action := actions[index]

	outcome := action.Perform()
	consequences := outcome.Consequences()
	a.logger.Debug("Action performed",
		"location", a.location.ID(),
		"action", action.Name(),
		"target", outcome.Target(),
		"consequences", len(consequences))

	if len(consequences) == 0 {
		return a.transition(outcome.Target())
	}

	a.pending = outcome
	a.consequences = consequences
	a.cursor = 0
	return nil
}

// ResolveConsequence moves past the current consequence. After the last one
// the player arrives at the outcome's target.
func (a *Adventure) ResolveConsequence() error {
	if !a.InConsequence() {
		return errNoConsequence()
	}

	if a.cursor+1 < len(a.consequences) {
		a.cursor++
		return nil
	}
	return a.transition(a.pending.Target())
}

// LeaveLocation takes the exit of the current location.
func (a *Adventure) LeaveLocation() error {
	if a.InConsequence() {
		return errUnresolvedConsequence()
	}

	exit := a.location.Exit()
	if exit == nil {
		return errNoExit()
	}
	return a.transition(exit.Target())
}

// transition is the only place the current location changes.
func (a *Adventure) transition(targetID string) error {
	loc, err := a.resolve(targetID)
	if err != nil {
		return err
	}
	loc.Visit()

	a.logger.Debug("Location changed", "from", a.location.ID(), "to", loc.ID())
	a.location = loc
	a.pending = nil
	a.consequences = nil
	a.cursor = 0
	return nil
}

// resolve looks up id and falls back to the default location when the
// directory does not know it.
func (a *Adventure) resolve(id string) (scenario.Location, error) {
	loc, err := a.dir.Location(id)
	if err == nil {
		return loc, nil
	}
	if !errors.Is(err, scenario.ErrLocationNotFound) {
		return nil, fmt.Errorf("resolve location %q: %w", id, err)
	}

	a.logger.Warn("Unknown location, using default",
		"location", id,
		"default", a.dir.DefaultLocationID())
	return scenario.DefaultLocation(a.dir)
}
