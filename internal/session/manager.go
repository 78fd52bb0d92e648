package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jwebster45206/sunless-engine/internal/events"
	"github.com/jwebster45206/sunless-engine/internal/logger"
	"github.com/jwebster45206/sunless-engine/pkg/adventure"
	"github.com/jwebster45206/sunless-engine/pkg/progress"
	"github.com/jwebster45206/sunless-engine/pkg/storage"
	"github.com/jwebster45206/sunless-engine/pkg/sunlesscv"
)

// ErrNotFound is returned for unknown or expired session ids.
var ErrNotFound = errors.New("session not found")

// Manager runs adventure operations against stored sessions. Calls for the
// same session id are serialized for the whole load, operate, save cycle.
type Manager struct {
	store         storage.Storage
	story         *sunlesscv.Story
	publisher     events.Publisher
	logger        *slog.Logger
	startLocation string

	mu    sync.Mutex
	locks map[uuid.UUID]*sessionLock
}

type sessionLock struct {
	mu   sync.Mutex
	refs int
}

// NewManager creates a session manager. An empty startLocation uses the
// story's start location.
func NewManager(store storage.Storage, story *sunlesscv.Story, publisher events.Publisher, logger *slog.Logger, startLocation string) *Manager {
	if publisher == nil {
		publisher = events.Discard{}
	}
	return &Manager{
		store:         store,
		story:         story,
		publisher:     publisher,
		logger:        logger,
		startLocation: startLocation,
		locks:         make(map[uuid.UUID]*sessionLock),
	}
}

// Create starts a new adventure and stores it. An empty start uses the
// configured start location.
func (m *Manager) Create(ctx context.Context, start string) (uuid.UUID, string, error) {
	if start == "" {
		start = m.startLocation
	}
	id := uuid.New()
	log := logger.WithSessionID(m.logger, id.String())

	game, err := m.story.NewGame(start, adventure.WithLogger(log))
	if err != nil {
		return uuid.Nil, "", err
	}

	now := time.Now()
	rec := &storage.SessionRecord{
		ID:        id,
		Game:      game.Snapshot(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := m.store.SaveSession(ctx, rec); err != nil {
		return uuid.Nil, "", fmt.Errorf("save session: %w", err)
	}

	log.Info("Adventure created", "location", game.LocationID())
	m.publish(ctx, id, events.Event{
		Type: events.EventTypeSessionCreated,
		Data: map[string]any{"location": game.LocationID()},
	})
	return id, game.LocationID(), nil
}

// Location describes the current location of a session.
func (m *Manager) Location(ctx context.Context, id uuid.UUID) (adventure.LocationView, error) {
	var view adventure.LocationView
	err := m.withGame(ctx, id, false, func(g *sunlesscv.Game) error {
		var err error
		view, err = g.DescribeLocation()
		return err
	})
	return view, err
}

// Consequence describes the pending consequence of a session.
func (m *Manager) Consequence(ctx context.Context, id uuid.UUID) (adventure.ConsequenceView, error) {
	var view adventure.ConsequenceView
	err := m.withGame(ctx, id, false, func(g *sunlesscv.Game) error {
		var err error
		view, err = g.DescribeConsequence()
		return err
	})
	return view, err
}

// Perform performs the action at index in the session's current location.
func (m *Manager) Perform(ctx context.Context, id uuid.UUID, index int) error {
	var published []events.Event
	err := m.withGame(ctx, id, true, func(g *sunlesscv.Game) error {
		before, err := g.DescribeLocation()
		if err != nil {
			return err
		}
		if err := g.PerformAction(index); err != nil {
			return err
		}

		if g.InConsequence() {
			pending := g.Snapshot().Adventure.Pending
			published = append(published, events.ConsequenceStarted(before.Actions[index].Name, len(pending.Consequences)))
		} else {
			published = append(published, events.LocationChanged(before.ID, g.LocationID()))
		}
		return nil
	})
	if err != nil {
		return err
	}
	m.publish(ctx, id, published...)
	return nil
}

// Resolve resolves the current consequence of a session.
func (m *Manager) Resolve(ctx context.Context, id uuid.UUID) error {
	var published []events.Event
	err := m.withGame(ctx, id, true, func(g *sunlesscv.Game) error {
		from, cursor := g.LocationID(), g.Cursor()
		if err := g.ResolveConsequence(); err != nil {
			return err
		}

		published = append(published, events.ConsequenceResolved(cursor))
		if !g.InConsequence() {
			published = append(published, events.LocationChanged(from, g.LocationID()))
		}
		return nil
	})
	if err != nil {
		return err
	}
	m.publish(ctx, id, published...)
	return nil
}

// Leave takes the exit of the session's current location.
func (m *Manager) Leave(ctx context.Context, id uuid.UUID) error {
	var published []events.Event
	err := m.withGame(ctx, id, true, func(g *sunlesscv.Game) error {
		from := g.LocationID()
		if err := g.LeaveLocation(); err != nil {
			return err
		}
		published = append(published, events.LocationChanged(from, g.LocationID()))
		return nil
	})
	if err != nil {
		return err
	}
	m.publish(ctx, id, published...)
	return nil
}

// Progress reports the session's tracker percentages.
func (m *Manager) Progress(ctx context.Context, id uuid.UUID) (progress.Report, error) {
	var report progress.Report
	err := m.withGame(ctx, id, false, func(g *sunlesscv.Game) error {
		report = g.Progress.Report()
		return nil
	})
	return report, err
}

// Delete removes a session.
func (m *Manager) Delete(ctx context.Context, id uuid.UUID) error {
	unlock := m.lock(id)
	defer unlock()

	rec, err := m.store.LoadSession(ctx, id)
	if err != nil {
		return fmt.Errorf("load session: %w", err)
	}
	if rec == nil {
		return ErrNotFound
	}
	if err := m.store.DeleteSession(ctx, id); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}

	logger.WithSessionID(m.logger, id.String()).Info("Adventure deleted")
	m.publish(ctx, id, events.Event{Type: events.EventTypeSessionDeleted})
	return nil
}

// withGame loads and restores the session, runs fn, and saves the result
// when mutate is set and fn succeeded.
func (m *Manager) withGame(ctx context.Context, id uuid.UUID, mutate bool, fn func(*sunlesscv.Game) error) error {
	unlock := m.lock(id)
	defer unlock()

	rec, err := m.store.LoadSession(ctx, id)
	if err != nil {
		return fmt.Errorf("load session: %w", err)
	}
	if rec == nil {
		return ErrNotFound
	}

	log := logger.WithSessionID(m.logger, id.String())
	game, err := m.story.RestoreGame(rec.Game, adventure.WithLogger(log))
	if err != nil {
		log.Error("Stored session could not be restored", "error", err)
		return fmt.Errorf("restore session: %w", err)
	}

	if err := fn(game); err != nil {
		return err
	}
	if !mutate {
		return nil
	}

	rec.Game = game.Snapshot()
	if err := m.store.SaveSession(ctx, rec); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (m *Manager) lock(id uuid.UUID) func() {
	m.mu.Lock()
	l, ok := m.locks[id]
	if !ok {
		l = &sessionLock{}
		m.locks[id] = l
	}
	l.refs++
	m.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()

		m.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(m.locks, id)
		}
		m.mu.Unlock()
	}
}

func (m *Manager) publish(ctx context.Context, id uuid.UUID, evs ...events.Event) {
	for _, ev := range evs {
		if err := m.publisher.Publish(ctx, id, ev); err != nil {
			m.logger.Warn("Failed to publish adventure event", "session_id", id, "event_type", ev.Type, "error", err)
		}
	}
}
