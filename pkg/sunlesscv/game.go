package sunlesscv

import (
	"fmt"

	"github.com/jwebster45206/sunless-engine/pkg/adventure"
	"github.com/jwebster45206/sunless-engine/pkg/progress"
)

// Game is one play session: an adventure over the story with its own trackers.
type Game struct {
	*adventure.Adventure
	Progress *progress.Manager
}

// GameSnapshot is the serializable state of a Game.
type GameSnapshot struct {
	Adventure adventure.Snapshot `json:"adventure"`
	Progress  progress.Snapshot  `json:"progress"`
}

func (s *Story) newProgress() *progress.Manager {
	return progress.NewManager(s.Locations, s.Competences)
}

// NewGame starts a session at startID. An empty startID uses the story's
// start location; an unknown one falls back to the default location.
func (s *Story) NewGame(startID string, opts ...adventure.Option) (*Game, error) {
	if startID == "" {
		startID = s.StartLocation
	}

	pm := s.newProgress()
	adv, err := adventure.New(NewDirectory(s, pm), startID, opts...)
	if err != nil {
		return nil, fmt.Errorf("start game: %w", err)
	}
	return &Game{Adventure: adv, Progress: pm}, nil
}

// RestoreGame rebuilds a session from a snapshot without replaying any
// visits or actions.
func (s *Story) RestoreGame(snap GameSnapshot, opts ...adventure.Option) (*Game, error) {
	pm := s.newProgress()
	pm.Restore(snap.Progress)

	adv, err := adventure.Restore(NewDirectory(s, pm), snap.Adventure, opts...)
	if err != nil {
		return nil, fmt.Errorf("restore game: %w", err)
	}
	return &Game{Adventure: adv, Progress: pm}, nil
}

// Snapshot captures the adventure and tracker state.
func (g *Game) Snapshot() GameSnapshot {
	return GameSnapshot{
		Adventure: g.Adventure.Snapshot(),
		Progress:  g.Progress.Snapshot(),
	}
}
