package adventure

import (
	"fmt"

	"github.com/jwebster45206/sunless-engine/pkg/scenario"
)

// Snapshot is the serializable state of an Adventure.
// Pending is nil when the adventure is at a location.
type Snapshot struct {
	LocationID string                  `json:"location_id"`
	Pending    *scenario.OutcomeRecord `json:"pending,omitempty"`
	Cursor     int                     `json:"cursor"`
}

// Snapshot captures the current state. The pending outcome is stored by value
// so that restoring never performs an action again.
func (a *Adventure) Snapshot() Snapshot {
	snap := Snapshot{
		LocationID: a.location.ID(),
		Cursor:     a.cursor,
	}
	if a.pending != nil {
		rec := scenario.OutcomeRecord{Target: a.pending.Target()}
		for _, c := range a.consequences {
			rec.Consequences = append(rec.Consequences, scenario.RecordConsequence(c))
		}
		snap.Pending = &rec
	}
	return snap
}

// Restore rebuilds an adventure from a snapshot. The location is resolved
// with the usual default fallback but not visited again.
func Restore(dir scenario.Directory, snap Snapshot, opts ...Option) (*Adventure, error) {
	a := newAdventure(dir, opts)
	loc, err := a.resolve(snap.LocationID)
	if err != nil {
		return nil, err
	}
	a.location = loc

	if snap.Pending == nil {
		if snap.Cursor != 0 {
			return nil, fmt.Errorf("restore adventure: cursor %d without pending outcome", snap.Cursor)
		}
		return a, nil
	}

	outcome := snap.Pending.Build()
	consequences := outcome.Consequences()
	if snap.Cursor < 0 || snap.Cursor >= len(consequences) {
		return nil, fmt.Errorf("restore adventure: cursor %d out of range for %d consequences",
			snap.Cursor, len(consequences))
	}
	a.pending = outcome
	a.consequences = consequences
	a.cursor = snap.Cursor
	return a, nil
}
