package conditionals

// When defines the conditions that must be met for a conditional to apply
type When struct {
	Distrusted              *bool    `json:"distrusted,omitempty"`                // Distrust flag must equal this value
	Watched                 *bool    `json:"watched,omitempty"`                   // Watch flag must equal this value
	LocationProgressAbove   *float64 `json:"location_progress_above,omitempty"`   // Location progress > this value
	CompetenceProgressAbove *float64 `json:"competence_progress_above,omitempty"` // Competence progress > this value
	Visited                 []string `json:"visited,omitempty"`                   // All listed locations must be visited
}

// ProgressView provides the minimal interface needed to evaluate conditionals
// This avoids import cycles with the progress package
type ProgressView interface {
	IsDistrusted() bool
	IsWatched() bool
	LocationProgress() float64
	CompetenceProgress() float64
	HasVisited(id string) bool
}

// IsEmpty reports whether the clause has no conditions at all
func (w When) IsEmpty() bool {
	return w.Distrusted == nil &&
		w.Watched == nil &&
		w.LocationProgressAbove == nil &&
		w.CompetenceProgressAbove == nil &&
		len(w.Visited) == 0
}

// Applies reports whether an optional clause holds.
// A nil clause always applies
func Applies(when *When, view ProgressView) bool {
	if when == nil {
		return true
	}
	return EvaluateWhen(*when, view)
}

// EvaluateWhen checks if all conditions in a When clause are met
func EvaluateWhen(when When, view ProgressView) bool {
	// If no conditions specified, return false (conditional should not trigger)
	if when.IsEmpty() {
		return false
	}

	if when.Distrusted != nil && view.IsDistrusted() != *when.Distrusted {
		return false
	}

	if when.Watched != nil && view.IsWatched() != *when.Watched {
		return false
	}

	// Progress thresholds are strict
	if when.LocationProgressAbove != nil {
		if view.LocationProgress() <= *when.LocationProgressAbove {
			return false
		}
	}

	if when.CompetenceProgressAbove != nil {
		if view.CompetenceProgress() <= *when.CompetenceProgressAbove {
			return false
		}
	}

	for _, id := range when.Visited {
		if !view.HasVisited(id) {
			return false
		}
	}

	// All conditions passed
	return true
}
