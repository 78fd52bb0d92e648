package progress

import "github.com/jwebster45206/sunless-engine/pkg/conditionals"

// Manager bundles the trackers of one play session.
type Manager struct {
	Locations   *LocationTracker
	Competences *CompetenceTracker
	Distrust    *DistrustTracker
	Watch       *WatchTracker
}

var _ conditionals.ProgressView = (*Manager)(nil)

// NewManager creates fresh trackers for a session.
func NewManager(locationIDs, competenceIDs []string) *Manager {
	return &Manager{
		Locations:   NewLocationTracker(locationIDs...),
		Competences: NewCompetenceTracker(competenceIDs...),
		Distrust:    NewDistrustTracker(),
		Watch:       NewWatchTracker(),
	}
}

func (m *Manager) IsDistrusted() bool          { return m.Distrust.IsDistrusted() }
func (m *Manager) IsWatched() bool             { return m.Watch.IsWatched() }
func (m *Manager) LocationProgress() float64   { return m.Locations.ProgressPercentage() }
func (m *Manager) CompetenceProgress() float64 { return m.Competences.ProgressPercentage() }
func (m *Manager) HasVisited(id string) bool   { return m.Locations.Visited(id) }

// Report is the per-tracker progress of a session.
type Report struct {
	Locations   float64 `json:"locations"`
	Competences float64 `json:"competences"`
	Distrust    float64 `json:"distrust"`
	Watch       float64 `json:"watch"`
}

// Report returns the current percentages of all trackers.
func (m *Manager) Report() Report {
	return Report{
		Locations:   m.Locations.ProgressPercentage(),
		Competences: m.Competences.ProgressPercentage(),
		Distrust:    m.Distrust.ProgressPercentage(),
		Watch:       m.Watch.ProgressPercentage(),
	}
}

// Snapshot is the serializable state of a Manager.
type Snapshot struct {
	Visited    []string `json:"visited"`
	Discovered []string `json:"discovered"`
	Distrusted bool     `json:"distrusted"`
	Watched    bool     `json:"watched"`
}

// Snapshot captures the tracker state.
func (m *Manager) Snapshot() Snapshot {
	return Snapshot{
		Visited:    m.Locations.VisitedIDs(),
		Discovered: m.Competences.DiscoveredIDs(),
		Distrusted: m.Distrust.IsDistrusted(),
		Watched:    m.Watch.IsWatched(),
	}
}

// Restore replaces the tracker state with the snapshot.
// Ids outside the valid sets are dropped.
func (m *Manager) Restore(snap Snapshot) {
	m.Locations.ids.reset()
	for _, id := range snap.Visited {
		m.Locations.Visit(id)
	}
	m.Competences.ids.reset()
	for _, id := range snap.Discovered {
		m.Competences.Discover(id)
	}
	m.Distrust.SetDistrusted(snap.Distrusted)
	m.Watch.SetWatched(snap.Watched)
}
