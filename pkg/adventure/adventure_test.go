package adventure

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwebster45206/sunless-engine/pkg/scenario"
)

// countingLocation wraps a static location and counts visits.
type countingLocation struct {
	*scenario.StaticLocation
	visits int
}

func (l *countingLocation) Visit() { l.visits++ }

// dynamicLocation returns whatever actions the test sets at call time.
type dynamicLocation struct {
	countingLocation
	actions []scenario.Action
}

func (l *dynamicLocation) Actions() []scenario.Action { return l.actions }

// countingAction counts how many times it is performed.
type countingAction struct {
	scenario.StaticAction
	performed int
}

func (a *countingAction) Perform() scenario.Outcome {
	a.performed++
	return a.StaticAction.Perform()
}

// failingDirectory fails every lookup with a non-lookup error.
type failingDirectory struct{}

func (failingDirectory) Location(id string) (scenario.Location, error) {
	return nil, errors.New("storage offline")
}
func (failingDirectory) DefaultLocationID() string { return "maze" }

func depiction(title string) scenario.StaticDepiction {
	return scenario.NewDepiction(title, title+" description", title+".svg")
}

func consequence(title, resolution string) scenario.StaticConsequence {
	return scenario.NewConsequence(depiction(title), resolution)
}

type fixture struct {
	dir      *scenario.StaticDirectory
	maze     *countingLocation
	home     *countingLocation
	hallway  *countingLocation
	wander   *countingAction
	footstep *countingAction
}

// newFixture builds a small graph: maze (2 actions, no exit), home (exit to
// hallway), hallway (exit to an unknown id).
func newFixture() *fixture {
	f := &fixture{}
	f.wander = &countingAction{StaticAction: scenario.NewAction("Wander",
		depiction("Wander"),
		scenario.NewOutcome("maze",
			consequence("Lost", "Keep walking"),
			scenario.NewConsequence(depiction("Dead end"), "Turn back",
				scenario.NewDetail("A wall.", "wall.svg")),
		))}
	f.footstep = &countingAction{StaticAction: scenario.NewAction("Follow footprints",
		depiction("Footprints"),
		scenario.NewOutcome("home", consequence("Relief", "Climb")))}

	f.maze = &countingLocation{StaticLocation: scenario.NewLocation("maze", depiction("Maze"), nil, f.wander, f.footstep)}
	f.home = &countingLocation{StaticLocation: scenario.NewLocation("home", depiction("Home"),
		scenario.NewExit("Go out", "hallway"),
		scenario.NewAction("Sit", depiction("Sit"), scenario.NewOutcome("hallway")))}
	f.hallway = &countingLocation{StaticLocation: scenario.NewLocation("hallway", depiction("Hallway"),
		scenario.NewExit("Jump", "nowhere"))}

	f.dir = scenario.NewStaticDirectory("maze", f.maze, f.home, f.hallway)
	return f
}

func requireInvalidState(t *testing.T, err error, reason string) {
	t.Helper()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidState)
	var stateErr *StateError
	require.True(t, errors.As(err, &stateErr))
	assert.Equal(t, reason, stateErr.Reason)
}

func TestNew(t *testing.T) {
	tests := []struct {
		name       string
		startID    string
		expectedID string
	}{
		{name: "known start", startID: "home", expectedID: "home"},
		{name: "unknown start falls back to default", startID: "attic", expectedID: "maze"},
		{name: "empty start falls back to default", startID: "", expectedID: "maze"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			adv, err := New(f.dir, tt.startID)
			require.NoError(t, err)

			assert.Equal(t, tt.expectedID, adv.LocationID())
			assert.False(t, adv.InConsequence())
			assert.Equal(t, 0, adv.Cursor())

			total := f.maze.visits + f.home.visits + f.hallway.visits
			assert.Equal(t, 1, total, "exactly one visit on start")
		})
	}
}

func TestNew_BrokenDirectory(t *testing.T) {
	_, err := New(scenario.NewStaticDirectory("missing"), "also-missing")
	require.Error(t, err)
	assert.ErrorIs(t, err, scenario.ErrLocationNotFound)

	_, err = New(failingDirectory{}, "maze")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "storage offline")
}

func TestDescribe_Exclusivity(t *testing.T) {
	f := newFixture()
	adv, err := New(f.dir, "maze")
	require.NoError(t, err)

	assertExclusive := func() {
		_, locErr := adv.DescribeLocation()
		_, conErr := adv.DescribeConsequence()
		assert.True(t, (locErr == nil) != (conErr == nil),
			"exactly one describe must succeed: location=%v consequence=%v", locErr, conErr)
	}

	assertExclusive()
	require.NoError(t, adv.PerformAction(0))
	assertExclusive()
	require.NoError(t, adv.ResolveConsequence())
	assertExclusive()
	require.NoError(t, adv.ResolveConsequence())
	assertExclusive()
}

func TestDescribe_IdempotentRead(t *testing.T) {
	f := newFixture()
	adv, err := New(f.dir, "home")
	require.NoError(t, err)

	first, err := adv.DescribeLocation()
	require.NoError(t, err)
	second, err := adv.DescribeLocation()
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, f.home.visits, "describing never visits")

	require.NoError(t, adv.LeaveLocation())
	adv, err = New(f.dir, "maze")
	require.NoError(t, err)
	require.NoError(t, adv.PerformAction(1))

	c1, err := adv.DescribeConsequence()
	require.NoError(t, err)
	c2, err := adv.DescribeConsequence()
	require.NoError(t, err)
	assert.Equal(t, c1, c2)
}

func TestDescribeLocation_View(t *testing.T) {
	f := newFixture()
	adv, err := New(f.dir, "maze")
	require.NoError(t, err)

	view, err := adv.DescribeLocation()
	require.NoError(t, err)
	assert.Equal(t, "maze", view.ID)
	assert.Equal(t, "Maze", view.Depiction.Title)
	assert.Equal(t, "Maze.svg", view.Depiction.Image)
	require.Len(t, view.Actions, 2)
	assert.Equal(t, "Wander", view.Actions[0].Name)
	assert.Equal(t, "Follow footprints", view.Actions[1].Name)
	assert.Equal(t, "Footprints", view.Actions[1].Depiction.Title)
	assert.Nil(t, view.Exit)

	adv, err = New(f.dir, "home")
	require.NoError(t, err)
	view, err = adv.DescribeLocation()
	require.NoError(t, err)
	require.NotNil(t, view.Exit)
	assert.Equal(t, "Go out", *view.Exit)
}

func TestVisitOncePerTransition(t *testing.T) {
	f := newFixture()
	adv, err := New(f.dir, "home")
	require.NoError(t, err)

	// home -> hallway (exit) -> maze (fallback) -> home (footprints)
	require.NoError(t, adv.LeaveLocation())
	require.NoError(t, adv.LeaveLocation())
	require.NoError(t, adv.PerformAction(1))
	_, _ = adv.DescribeConsequence()
	require.NoError(t, adv.ResolveConsequence())
	_, _ = adv.DescribeLocation()
	_, _ = adv.DescribeLocation()

	assert.Equal(t, 2, f.home.visits, "start + arrival from maze")
	assert.Equal(t, 1, f.hallway.visits)
	assert.Equal(t, 1, f.maze.visits)
}

func TestConsequenceWalk(t *testing.T) {
	f := newFixture()
	adv, err := New(f.dir, "maze")
	require.NoError(t, err)

	require.NoError(t, adv.PerformAction(0))
	assert.Equal(t, 1, f.wander.performed)
	assert.True(t, adv.InConsequence())
	assert.Equal(t, 0, adv.Cursor())

	c, err := adv.DescribeConsequence()
	require.NoError(t, err)
	assert.Equal(t, "Lost", c.Depiction.Title)
	assert.Equal(t, "Keep walking", c.Resolution)
	assert.NotNil(t, c.Details)
	assert.Empty(t, c.Details)

	require.NoError(t, adv.ResolveConsequence())
	assert.Equal(t, 1, adv.Cursor())
	assert.Equal(t, 1, f.maze.visits, "no transition before the last consequence")

	c, err = adv.DescribeConsequence()
	require.NoError(t, err)
	assert.Equal(t, "Dead end", c.Depiction.Title)
	require.Len(t, c.Details, 1)
	assert.Equal(t, "A wall.", c.Details[0].Description)

	require.NoError(t, adv.ResolveConsequence())
	assert.False(t, adv.InConsequence())
	assert.Equal(t, 0, adv.Cursor())
	assert.Equal(t, "maze", adv.LocationID())
	assert.Equal(t, 2, f.maze.visits, "self-targeting outcome visits again")
}

func TestZeroConsequenceShortcut(t *testing.T) {
	f := newFixture()
	adv, err := New(f.dir, "home")
	require.NoError(t, err)

	require.NoError(t, adv.PerformAction(0))
	assert.False(t, adv.InConsequence())

	view, err := adv.DescribeLocation()
	require.NoError(t, err)
	assert.Equal(t, "hallway", view.ID)
	assert.Equal(t, 1, f.hallway.visits)
}

func TestInvalidStateIsEffectFree(t *testing.T) {
	f := newFixture()

	t.Run("at location", func(t *testing.T) {
		adv, err := New(f.dir, "maze")
		require.NoError(t, err)
		before := adv.Snapshot()

		_, err = adv.DescribeConsequence()
		requireInvalidState(t, err, "no consequence")
		requireInvalidState(t, adv.ResolveConsequence(), "no consequence")
		requireInvalidState(t, adv.LeaveLocation(), "no exit")
		requireInvalidState(t, adv.PerformAction(2), "no action at position 2")
		requireInvalidState(t, adv.PerformAction(-1), "no action at position -1")

		assert.Equal(t, before, adv.Snapshot())
		assert.Zero(t, f.wander.performed)
		assert.Zero(t, f.footstep.performed)
	})

	t.Run("in consequence", func(t *testing.T) {
		adv, err := New(f.dir, "maze")
		require.NoError(t, err)
		require.NoError(t, adv.PerformAction(0))
		require.NoError(t, adv.ResolveConsequence())
		before := adv.Snapshot()
		performed := f.wander.performed

		_, err = adv.DescribeLocation()
		requireInvalidState(t, err, "unresolved consequence")
		requireInvalidState(t, adv.PerformAction(0), "unresolved consequence")
		requireInvalidState(t, adv.LeaveLocation(), "unresolved consequence")

		assert.Equal(t, before, adv.Snapshot())
		assert.Equal(t, performed, f.wander.performed)
	})
}

func TestFallbackOnUnknownTarget(t *testing.T) {
	f := newFixture()
	adv, err := New(f.dir, "hallway")
	require.NoError(t, err)

	require.NoError(t, adv.LeaveLocation())
	assert.Equal(t, "maze", adv.LocationID())
	assert.Equal(t, 1, f.maze.visits)
}

func TestPerformAction_LiveActionList(t *testing.T) {
	stay := scenario.NewAction("Stay", depiction("Stay"), scenario.NewOutcome("room"))
	secret := scenario.NewAction("Push", depiction("Door"), scenario.NewOutcome("vault"))

	room := &dynamicLocation{
		countingLocation: countingLocation{StaticLocation: scenario.NewLocation("room", depiction("Room"), nil)},
		actions:          []scenario.Action{stay},
	}
	vault := &countingLocation{StaticLocation: scenario.NewLocation("vault", depiction("Vault"), nil)}
	dir := scenario.NewStaticDirectory("room", room, vault)

	adv, err := New(dir, "room")
	require.NoError(t, err)
	requireInvalidState(t, adv.PerformAction(1), "no action at position 1")

	room.actions = []scenario.Action{stay, secret}
	require.NoError(t, adv.PerformAction(1))
	assert.Equal(t, "vault", adv.LocationID())
}

func TestSnapshotRestore(t *testing.T) {
	f := newFixture()
	adv, err := New(f.dir, "maze")
	require.NoError(t, err)
	require.NoError(t, adv.PerformAction(0))
	require.NoError(t, adv.ResolveConsequence())

	snap := adv.Snapshot()
	assert.Equal(t, "maze", snap.LocationID)
	require.NotNil(t, snap.Pending)
	assert.Equal(t, 1, snap.Cursor)

	restored, err := Restore(f.dir, snap)
	require.NoError(t, err)
	assert.Equal(t, 1, f.maze.visits, "restore does not visit")
	assert.Equal(t, 1, f.wander.performed, "restore does not perform")

	want, err := adv.DescribeConsequence()
	require.NoError(t, err)
	got, err := restored.DescribeConsequence()
	require.NoError(t, err)
	assert.Equal(t, want, got)

	require.NoError(t, restored.ResolveConsequence())
	assert.Equal(t, "maze", restored.LocationID())
	assert.False(t, restored.InConsequence())
}

func TestRestore_InvalidSnapshot(t *testing.T) {
	f := newFixture()
	pending := &scenario.OutcomeRecord{
		Target: "home",
		Consequences: []scenario.ConsequenceRecord{
			{Depiction: scenario.DepictionRecord{Title: "Relief"}, Resolution: "Climb"},
		},
	}

	tests := []struct {
		name string
		snap Snapshot
	}{
		{name: "cursor without pending", snap: Snapshot{LocationID: "maze", Cursor: 1}},
		{name: "cursor past consequences", snap: Snapshot{LocationID: "maze", Pending: pending, Cursor: 1}},
		{name: "negative cursor", snap: Snapshot{LocationID: "maze", Pending: pending, Cursor: -1}},
		{name: "pending without consequences", snap: Snapshot{LocationID: "maze", Pending: &scenario.OutcomeRecord{Target: "home"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Restore(f.dir, tt.snap)
			assert.Error(t, err)
		})
	}
}

func TestMazeExample(t *testing.T) {
	f := newFixture()
	adv, err := New(f.dir, "maze")
	require.NoError(t, err)

	require.NoError(t, adv.PerformAction(1))
	c, err := adv.DescribeConsequence()
	require.NoError(t, err)
	assert.Equal(t, "Relief", c.Depiction.Title)
	assert.Equal(t, "Climb", c.Resolution)

	require.NoError(t, adv.ResolveConsequence())
	assert.Equal(t, 1, f.home.visits)

	view, err := adv.DescribeLocation()
	require.NoError(t, err)
	assert.Equal(t, "home", view.ID)
	require.NotNil(t, view.Exit)
	assert.Equal(t, "Go out", *view.Exit)
}

func TestStateError_Message(t *testing.T) {
	err := fmt.Errorf("perform: %w", errNoAction(7))
	assert.Equal(t, "perform: invalid state: no action at position 7", err.Error())
	assert.ErrorIs(t, err, ErrInvalidState)
}
