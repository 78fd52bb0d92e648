package session

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwebster45206/sunless-engine/internal/events"
	"github.com/jwebster45206/sunless-engine/pkg/adventure"
	"github.com/jwebster45206/sunless-engine/pkg/storage"
	"github.com/jwebster45206/sunless-engine/pkg/sunlesscv"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(_ context.Context, _ uuid.UUID, event events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) types() []events.EventType {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []events.EventType
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

func (p *recordingPublisher) reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = nil
}

func newTestManager(t *testing.T) (*Manager, *storage.MemoryStorage, *recordingPublisher) {
	t.Helper()
	story, err := sunlesscv.Embedded()
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	store := storage.NewMemoryStorage(time.Hour)
	pub := &recordingPublisher{}
	return NewManager(store, story, pub, logger, ""), store, pub
}

func TestManager_Create(t *testing.T) {
	m, store, pub := newTestManager(t)
	ctx := context.Background()

	id, loc, err := m.Create(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, "home", loc)
	assert.Equal(t, []events.EventType{events.EventTypeSessionCreated}, pub.types())

	rec, err := store.LoadSession(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, "home", rec.Game.Adventure.LocationID)
	assert.Equal(t, []string{"home"}, rec.Game.Progress.Visited)

	_, loc, err = m.Create(ctx, "no_such_room")
	require.NoError(t, err)
	assert.Equal(t, "maze", loc, "unknown start falls back to the default location")
}

func TestManager_CreateUsesConfiguredStart(t *testing.T) {
	m, _, _ := newTestManager(t)
	m.startLocation = "hallway"

	_, loc, err := m.Create(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, "hallway", loc)
}

func TestManager_PlayThrough(t *testing.T) {
	m, _, pub := newTestManager(t)
	ctx := context.Background()

	id, _, err := m.Create(ctx, "maze")
	require.NoError(t, err)
	pub.reset()

	view, err := m.Location(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "maze", view.ID)
	require.NotEmpty(t, view.Actions)

	require.NoError(t, m.Perform(ctx, id, 0))
	assert.Equal(t, []events.EventType{events.EventTypeConsequenceStarted}, pub.types())

	cons, err := m.Consequence(ctx, id)
	require.NoError(t, err)
	assert.NotEmpty(t, cons.Resolution)

	// Acting again is rejected while the consequence is pending.
	err = m.Perform(ctx, id, 0)
	assert.ErrorIs(t, err, adventure.ErrInvalidState)

	for {
		if _, err := m.Consequence(ctx, id); err != nil {
			assert.ErrorIs(t, err, adventure.ErrInvalidState)
			break
		}
		require.NoError(t, m.Resolve(ctx, id))
	}

	types := pub.types()
	assert.Equal(t, events.EventTypeLocationChanged, types[len(types)-1])

	view, err = m.Location(ctx, id)
	require.NoError(t, err)
	assert.NotEmpty(t, view.ID)

	report, err := m.Progress(ctx, id)
	require.NoError(t, err)
	assert.Greater(t, report.Locations, 0.0)
}

func TestManager_Leave(t *testing.T) {
	m, _, pub := newTestManager(t)
	ctx := context.Background()

	id, _, err := m.Create(ctx, "hallway")
	require.NoError(t, err)
	pub.reset()

	require.NoError(t, m.Leave(ctx, id))
	view, err := m.Location(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "home", view.ID)

	require.Len(t, pub.events, 1)
	assert.Equal(t, "hallway", pub.events[0].Data["from"])
	assert.Equal(t, "home", pub.events[0].Data["to"])

	// Home has no exit.
	assert.ErrorIs(t, m.Leave(ctx, id), adventure.ErrInvalidState)
	assert.Len(t, pub.events, 1)
}

func TestManager_RejectedCallsDoNotSave(t *testing.T) {
	m, store, pub := newTestManager(t)
	ctx := context.Background()

	id, _, err := m.Create(ctx, "home")
	require.NoError(t, err)
	before, err := store.LoadSession(ctx, id)
	require.NoError(t, err)
	pub.reset()

	err = m.Perform(ctx, id, 99)
	assert.ErrorIs(t, err, adventure.ErrInvalidState)
	assert.ErrorIs(t, m.Resolve(ctx, id), adventure.ErrInvalidState)

	after, err := store.LoadSession(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, before.Game, after.Game)
	assert.Empty(t, pub.types())
}

func TestManager_NotFound(t *testing.T) {
	m, _, _ := newTestManager(t)
	ctx := context.Background()
	id := uuid.New()

	_, err := m.Location(ctx, id)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, m.Perform(ctx, id, 0), ErrNotFound)
	assert.ErrorIs(t, m.Delete(ctx, id), ErrNotFound)
}

func TestManager_Delete(t *testing.T) {
	m, _, pub := newTestManager(t)
	ctx := context.Background()

	id, _, err := m.Create(ctx, "")
	require.NoError(t, err)
	require.NoError(t, m.Delete(ctx, id))
	assert.Equal(t, events.EventTypeSessionDeleted, pub.types()[len(pub.types())-1])

	_, err = m.Location(ctx, id)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestManager_StoreErrors(t *testing.T) {
	m, store, _ := newTestManager(t)
	ctx := context.Background()

	id, _, err := m.Create(ctx, "")
	require.NoError(t, err)

	m.store = failingStore{Storage: store}
	err = m.Leave(ctx, id)
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrNotFound))
	assert.ErrorContains(t, err, "load session")
}

func TestManager_SerializesSameSession(t *testing.T) {
	m, _, _ := newTestManager(t)
	ctx := context.Background()

	id, _, err := m.Create(ctx, "home")
	require.NoError(t, err)

	var wg sync.WaitGroup
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = m.Location(ctx, id)
			_, _ = m.Progress(ctx, id)
		}()
	}
	wg.Wait()

	m.mu.Lock()
	defer m.mu.Unlock()
	assert.Empty(t, m.locks, "locks are released once unused")
}

type failingStore struct {
	storage.Storage
}

func (failingStore) LoadSession(context.Context, uuid.UUID) (*storage.SessionRecord, error) {
	return nil, errors.New("connection reset")
}
