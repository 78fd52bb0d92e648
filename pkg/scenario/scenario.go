package scenario

import (
	"errors"
	"fmt"
)

// ErrLocationNotFound is returned by a Directory for unknown location ids.
var ErrLocationNotFound = errors.New("location not found")

// Directory resolves location ids to locations.
// Repeated lookups of the same id return the same instance.
type Directory interface {
	Location(id string) (Location, error)
	DefaultLocationID() string
}

// DefaultLocation resolves the directory's default location.
func DefaultLocation(dir Directory) (Location, error) {
	id := dir.DefaultLocationID()
	loc, err := dir.Location(id)
	if err != nil {
		return nil, fmt.Errorf("default location %q: %w", id, err)
	}
	return loc, nil
}

// StaticDirectory is a Directory over a fixed set of locations.
type StaticDirectory struct {
	defaultID string
	locations map[string]Location
}

var _ Directory = (*StaticDirectory)(nil)

// NewStaticDirectory indexes locations by their ID.
func NewStaticDirectory(defaultID string, locations ...Location) *StaticDirectory {
	d := &StaticDirectory{
		defaultID: defaultID,
		locations: make(map[string]Location, len(locations)),
	}
	for _, loc := range locations {
		d.locations[loc.ID()] = loc
	}
	return d
}

func (d *StaticDirectory) Location(id string) (Location, error) {
	loc, ok := d.locations[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrLocationNotFound, id)
	}
	return loc, nil
}

func (d *StaticDirectory) DefaultLocationID() string {
	return d.defaultID
}
