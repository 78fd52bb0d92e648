// Package sunlesscv is the Sunless CV story: a CV presented as a small
// adventure. The story is data; this package turns it into locations and
// actions bound to the trackers of one session.
package sunlesscv

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/jwebster45206/sunless-engine/pkg/conditionals"
	"github.com/jwebster45206/sunless-engine/pkg/scenario"
	"github.com/jwebster45206/sunless-engine/pkg/textfilter"
)

//go:embed story/*.json
var embedded embed.FS

const indexFile = "index.json"

// Index is the story's index file.
type Index struct {
	Name            string   `json:"name"`
	StartLocation   string   `json:"start_location"`
	DefaultLocation string   `json:"default_location"`
	Locations       []string `json:"locations"`
	Competences     []string `json:"competences"`
}

// Effects are the tracker changes an action makes when performed.
type Effects struct {
	Discover []string `json:"discover,omitempty"` // Competences to mark discovered
	Unwatch  bool     `json:"unwatch,omitempty"`  // Clear the watch flag
	Distrust bool     `json:"distrust,omitempty"` // Set the distrust flag
}

// ActionSpec describes an action. When limits the action to matching
// tracker state; nil means always offered.
type ActionSpec struct {
	Name      string                   `json:"name"`
	Depiction scenario.DepictionRecord `json:"depiction"`
	Outcome   scenario.OutcomeRecord   `json:"outcome"`
	When      *conditionals.When       `json:"when,omitempty"`
	Effects   Effects                  `json:"effects,omitzero"`
}

// VariantSpec overrides parts of a location while its When clause holds.
// A nil field keeps the base content; an empty actions list removes all actions.
type VariantSpec struct {
	When      conditionals.When         `json:"when"`
	Depiction *scenario.DepictionRecord `json:"depiction,omitempty"`
	Actions   []ActionSpec              `json:"actions,omitempty"`
	Exit      *scenario.ExitRecord      `json:"exit,omitempty"`
}

// LocationSpec describes a location. Watched is applied to the watch flag on
// every visit.
type LocationSpec struct {
	ID        string                   `json:"id"`
	Watched   bool                     `json:"watched,omitempty"`
	Depiction scenario.DepictionRecord `json:"depiction"`
	Actions   []ActionSpec             `json:"actions"`
	Exit      *scenario.ExitRecord     `json:"exit,omitempty"`
	Variants  []VariantSpec            `json:"variants,omitempty"`
}

// Story is a loaded story. It is read-only and shared by all sessions.
type Story struct {
	Index
	locations map[string]*LocationSpec
}

// Embedded loads the story compiled into the binary.
func Embedded() (*Story, error) {
	sub, err := fs.Sub(embedded, "story")
	if err != nil {
		return nil, fmt.Errorf("embedded story: %w", err)
	}
	return LoadStory(sub)
}

// Open loads the story from dir, or the embedded story when dir is empty.
// The result is validated.
func Open(dir string) (*Story, error) {
	var (
		s   *Story
		err error
	)
	if dir == "" {
		s, err = Embedded()
	} else {
		s, err = LoadStory(os.DirFS(dir))
	}
	if err != nil {
		return nil, err
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// LoadStory reads index.json and one <id>.json file per listed location.
// Unknown fields are rejected.
func LoadStory(fsys fs.FS) (*Story, error) {
	var idx Index
	if err := decodeFile(fsys, indexFile, &idx); err != nil {
		return nil, err
	}

	s := &Story{
		Index:     idx,
		locations: make(map[string]*LocationSpec, len(idx.Locations)),
	}
	for _, id := range idx.Locations {
		var spec LocationSpec
		if err := decodeFile(fsys, id+".json", &spec); err != nil {
			return nil, err
		}
		if spec.ID != id {
			return nil, fmt.Errorf("file %s.json declares location %q", id, spec.ID)
		}
		if _, dup := s.locations[id]; dup {
			return nil, fmt.Errorf("location %q listed twice", id)
		}
		s.locations[id] = &spec
	}
	return s, nil
}

func decodeFile(fsys fs.FS, name string, v any) error {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return fmt.Errorf("failed to read file %s: %w", name, err)
	}

	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(v); err != nil {
		return fmt.Errorf("file %s failed strict JSON unmarshaling: %w", name, err)
	}
	return nil
}

// Location returns the spec of a location.
func (s *Story) Location(id string) (*LocationSpec, bool) {
	spec, ok := s.locations[id]
	return spec, ok
}

// ValidationError lists every problem found in a story.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("story has %d problem(s):\n  - %s", len(e.Problems), strings.Join(e.Problems, "\n  - "))
}

// Validate checks references between story files. It returns a
// *ValidationError listing all problems, or nil.
func (s *Story) Validate() error {
	v := &validator{story: s, competences: make(map[string]bool, len(s.Competences))}
	for _, id := range s.Competences {
		v.competences[id] = true
	}

	if s.Name == "" {
		v.addf("index has no name")
	}
	if len(s.Locations) == 0 {
		v.addf("index lists no locations")
	}
	for _, id := range s.Locations {
		if !textfilter.IsValidID(id) {
			v.addf("location ID '%s' should be lowercase snake_case", id)
		}
	}
	v.checkTarget("start_location", s.StartLocation)
	v.checkTarget("default_location", s.DefaultLocation)

	for _, id := range s.Locations {
		spec := s.locations[id]
		context := "location " + id
		if spec.Depiction.Title == "" {
			v.addf("%s has no title", context)
		}
		v.checkActions(context, spec.Actions)
		if spec.Exit != nil {
			v.checkExit(context, *spec.Exit)
		}
		for i, variant := range spec.Variants {
			vctx := fmt.Sprintf("%s variant %d", context, i)
			v.checkWhen(vctx, variant.When)
			v.checkActions(vctx, variant.Actions)
			if variant.Exit != nil {
				v.checkExit(vctx, *variant.Exit)
			}
		}
	}

	if len(v.problems) > 0 {
		return &ValidationError{Problems: v.problems}
	}
	return nil
}

type validator struct {
	story       *Story
	competences map[string]bool
	problems    []string
}

func (v *validator) addf(format string, args ...any) {
	v.problems = append(v.problems, fmt.Sprintf(format, args...))
}

func (v *validator) checkTarget(context, id string) {
	if _, ok := v.story.locations[id]; !ok {
		v.addf("%s targets unknown location '%s'", context, id)
	}
}

func (v *validator) checkExit(context string, exit scenario.ExitRecord) {
	if exit.Name == "" {
		v.addf("%s has an exit without a name", context)
	}
	v.checkTarget(context+" exit", exit.Target)
}

func (v *validator) checkActions(context string, actions []ActionSpec) {
	for i, a := range actions {
		actx := fmt.Sprintf("%s action %d (%s)", context, i, a.Name)
		if a.Name == "" {
			v.addf("%s has no name", actx)
		}
		v.checkTarget(actx+" outcome", a.Outcome.Target)
		for j, c := range a.Outcome.Consequences {
			if c.Resolution == "" {
				v.addf("%s consequence %d has no resolution", actx, j)
			}
		}
		for _, id := range a.Effects.Discover {
			if !v.competences[id] {
				v.addf("%s discovers unknown competence '%s'", actx, id)
			}
		}
		if a.When != nil {
			v.checkWhen(actx, *a.When)
		}
	}
}

func (v *validator) checkWhen(context string, when conditionals.When) {
	if when.IsEmpty() {
		v.addf("%s has empty 'when' clause - no conditions specified", context)
		return
	}
	for _, id := range when.Visited {
		v.checkTarget(context+" when visited", id)
	}
}
