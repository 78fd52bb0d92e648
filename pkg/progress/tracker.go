// Package progress tracks how far a player has got through a story.
package progress

import (
	"slices"
	"sync"
)

// Tracker reports progress as a percentage in [0, 100].
type Tracker interface {
	ProgressPercentage() float64
}

var (
	_ Tracker = (*LocationTracker)(nil)
	_ Tracker = (*CompetenceTracker)(nil)
	_ Tracker = (*DistrustTracker)(nil)
	_ Tracker = (*WatchTracker)(nil)
)

// idSet records which ids out of a fixed valid set have been seen.
type idSet struct {
	mu    sync.RWMutex
	valid map[string]struct{}
	seen  map[string]struct{}
}

func newIDSet(validIDs []string) idSet {
	s := idSet{
		valid: make(map[string]struct{}, len(validIDs)),
		seen:  make(map[string]struct{}),
	}
	for _, id := range validIDs {
		s.valid[id] = struct{}{}
	}
	return s
}

// mark ignores ids outside the valid set.
func (s *idSet) mark(id string) bool {
	if _, ok := s.valid[id]; !ok {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seen[id] = struct{}{}
	return true
}

func (s *idSet) has(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.seen[id]
	return ok
}

// list returns seen ids sorted.
func (s *idSet) list() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.seen))
	for id := range s.seen {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

func (s *idSet) reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seen = make(map[string]struct{})
}

func (s *idSet) percentage() float64 {
	total := len(s.valid)
	if total == 0 {
		return 0
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return 100 * float64(len(s.seen)) / float64(total)
}

// LocationTracker records visited locations.
type LocationTracker struct {
	ids idSet
}

// NewLocationTracker creates a tracker over the given valid location ids.
func NewLocationTracker(validIDs ...string) *LocationTracker {
	return &LocationTracker{ids: newIDSet(validIDs)}
}

// Visit marks a location as visited. Unknown ids are ignored.
func (t *LocationTracker) Visit(id string) {
	t.ids.mark(id)
}

// Visited reports whether the location has been visited.
func (t *LocationTracker) Visited(id string) bool {
	return t.ids.has(id)
}

// VisitedIDs returns the visited location ids in sorted order.
func (t *LocationTracker) VisitedIDs() []string {
	return t.ids.list()
}

func (t *LocationTracker) ProgressPercentage() float64 {
	return t.ids.percentage()
}

// CompetenceTracker records discovered competences.
type CompetenceTracker struct {
	ids idSet
}

// NewCompetenceTracker creates a tracker over the given valid competence ids.
func NewCompetenceTracker(validIDs ...string) *CompetenceTracker {
	return &CompetenceTracker{ids: newIDSet(validIDs)}
}

// Discover marks a competence as discovered. Unknown ids are ignored.
func (t *CompetenceTracker) Discover(id string) {
	t.ids.mark(id)
}

// Discovered reports whether the competence has been discovered.
func (t *CompetenceTracker) Discovered(id string) bool {
	return t.ids.has(id)
}

// DiscoveredIDs returns the discovered competence ids in sorted order.
func (t *CompetenceTracker) DiscoveredIDs() []string {
	return t.ids.list()
}

func (t *CompetenceTracker) ProgressPercentage() float64 {
	return t.ids.percentage()
}

// flag is a boolean tracker state.
type flag struct {
	mu  sync.RWMutex
	set bool
}

func (f *flag) get() bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.set
}

func (f *flag) put(v bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.set = v
}

func (f *flag) percentage() float64 {
	if f.get() {
		return 100
	}
	return 0
}

// DistrustTracker records whether the player lost the host's trust.
type DistrustTracker struct {
	f flag
}

func NewDistrustTracker() *DistrustTracker {
	return &DistrustTracker{}
}

func (t *DistrustTracker) IsDistrusted() bool          { return t.f.get() }
func (t *DistrustTracker) SetDistrusted(v bool)        { t.f.put(v) }
func (t *DistrustTracker) ProgressPercentage() float64 { return t.f.percentage() }

// WatchTracker records whether somebody is watching the player.
type WatchTracker struct {
	f flag
}

func NewWatchTracker() *WatchTracker {
	return &WatchTracker{}
}

func (t *WatchTracker) IsWatched() bool             { return t.f.get() }
func (t *WatchTracker) SetWatched(v bool)           { t.f.put(v) }
func (t *WatchTracker) ProgressPercentage() float64 { return t.f.percentage() }
