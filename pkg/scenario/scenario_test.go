package scenario

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStaticDirectory_Location(t *testing.T) {
	home := NewLocation("home", NewDepiction("Home", "A house.", "house.svg"), nil)
	maze := NewLocation("maze", NewDepiction("Maze", "A maze.", "maze.svg"), NewExit("Out", "home"))
	dir := NewStaticDirectory("maze", home, maze)

	tests := []struct {
		name    string
		id      string
		wantID  string
		wantErr bool
	}{
		{name: "known location", id: "home", wantID: "home"},
		{name: "another known location", id: "maze", wantID: "maze"},
		{name: "unknown location", id: "attic", wantErr: true},
		{name: "empty id", id: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loc, err := dir.Location(tt.id)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrLocationNotFound), "error should match ErrLocationNotFound: %v", err)
				assert.Nil(t, loc)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantID, loc.ID())
		})
	}
}

func TestStaticDirectory_SameInstance(t *testing.T) {
	home := NewLocation("home", NewDepiction("Home", "", ""), nil)
	dir := NewStaticDirectory("home", home)

	first, err := dir.Location("home")
	require.NoError(t, err)
	second, err := dir.Location("home")
	require.NoError(t, err)

	assert.Same(t, first, second)
}

func TestDefaultLocation(t *testing.T) {
	home := NewLocation("home", NewDepiction("Home", "", ""), nil)

	loc, err := DefaultLocation(NewStaticDirectory("home", home))
	require.NoError(t, err)
	assert.Equal(t, "home", loc.ID())

	_, err = DefaultLocation(NewStaticDirectory("missing", home))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrLocationNotFound)
}

func TestOutcomeRecord_Build(t *testing.T) {
	data := `{
		"target": "home",
		"consequences": [
			{
				"depiction": {"title": "Relief", "description": "A ladder.", "image": "ladder.svg"},
				"details": [{"description": "Fresh air.", "image": "wind.svg"}],
				"resolution": "Climb"
			}
		]
	}`

	var rec OutcomeRecord
	require.NoError(t, json.Unmarshal([]byte(data), &rec))

	outcome := rec.Build()
	assert.Equal(t, "home", outcome.Target())
	require.Len(t, outcome.Consequences(), 1)

	c := outcome.Consequences()[0]
	assert.Equal(t, "Relief", c.Depiction().Title())
	assert.Equal(t, "Climb", c.Resolution())
	require.Len(t, c.Details(), 1)
	assert.Equal(t, "Fresh air.", c.Details()[0].Description())

	assert.Equal(t, rec, RecordOutcome(outcome))
}

func TestRecordConsequence_EmptyDetails(t *testing.T) {
	c := NewConsequence(NewDepiction("Hello?", "Nobody here.", "walk.svg"), "Look around")

	rec := RecordConsequence(c)
	require.NotNil(t, rec.Details)

	data, err := json.Marshal(rec)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"details":[]`)
}

func TestStaticContent_ReturnsCopies(t *testing.T) {
	outcome := NewOutcome("home", NewConsequence(NewDepiction("A", "", ""), "Ok"))
	consequences := outcome.Consequences()
	consequences[0] = nil

	assert.NotNil(t, outcome.Consequences()[0], "mutating the returned slice must not change the outcome")

	action := NewAction("Go", NewDepiction("Go", "", ""), outcome)
	loc := NewLocation("hall", NewDepiction("Hall", "", ""), nil, action)
	actions := loc.Actions()
	actions[0] = nil

	assert.NotNil(t, loc.Actions()[0])
	assert.Nil(t, loc.Exit())
}
