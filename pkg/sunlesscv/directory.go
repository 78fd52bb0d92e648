package sunlesscv

import (
	"fmt"

	"github.com/jwebster45206/sunless-engine/pkg/progress"
	"github.com/jwebster45206/sunless-engine/pkg/scenario"
)

// Directory resolves story locations for one session. Locations are built on
// first lookup and reused afterwards. Building a location has no side effects.
type Directory struct {
	story     *Story
	progress  *progress.Manager
	locations map[string]*location
}

var _ scenario.Directory = (*Directory)(nil)

// NewDirectory creates a directory whose locations share the given trackers.
func NewDirectory(story *Story, pm *progress.Manager) *Directory {
	return &Directory{
		story:     story,
		progress:  pm,
		locations: make(map[string]*location),
	}
}

func (d *Directory) Location(id string) (scenario.Location, error) {
	if loc, ok := d.locations[id]; ok {
		return loc, nil
	}

	spec, ok := d.story.Location(id)
	if !ok {
		return nil, fmt.Errorf("%w: %q", scenario.ErrLocationNotFound, id)
	}
	loc := newLocation(spec, d.progress)
	d.locations[id] = loc
	return loc, nil
}

func (d *Directory) DefaultLocationID() string {
	return d.story.DefaultLocation
}
