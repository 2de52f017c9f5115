package stream

import (
	"testing"

	"github.com/pianovis/handex/model"
	"github.com/stretchr/testify/assert"
)

func note(pitch int, start float64) model.NoteEvent {
	return model.NoteEvent{Pitch: pitch, Start: start, Duration: 0.5, Hand: model.HandRight}
}

func TestGroupsSimultaneousNotesIntoOnePosition(t *testing.T) {
	events := []model.NoteEvent{
		note(64, 0),
		note(60, 0),
		note(67, 0),
		note(62, 1),
	}
	positions, err := Build(events, 0)

	assert := assert.New(t)
	assert.NoError(err)
	assert.Len(positions, 2)
	assert.Equal([]int{60, 64, 67}, positions[0].Pitches())
	assert.Equal([]int{62}, positions[1].Pitches())
}

func TestMergesNotesWithinTolerance(t *testing.T) {
	events := []model.NoteEvent{
		note(60, 0),
		note(64, 0.004),
		note(67, 0.2),
	}
	positions, err := Build(events, 0.01)

	assert := assert.New(t)
	assert.NoError(err)
	assert.Len(positions, 2)
	assert.Equal([]int{60, 64}, positions[0].Pitches())
}

func TestSortsPositionsByStartTime(t *testing.T) {
	events := []model.NoteEvent{
		note(67, 2),
		note(60, 0),
		note(64, 1),
	}
	positions, err := Build(events, 0)

	assert := assert.New(t)
	assert.NoError(err)
	assert.Len(positions, 3)
	assert.Equal(0.0, positions[0].Start)
	assert.Equal(1.0, positions[1].Start)
	assert.Equal(2.0, positions[2].Start)
}

func TestEmptyEventsIsMalformedInput(t *testing.T) {
	_, err := Build(nil, 0)
	assert.ErrorIs(t, err, model.ErrMalformedInput)
}

func TestMixedHandsIsMalformedInput(t *testing.T) {
	events := []model.NoteEvent{
		note(60, 0),
		{Pitch: 40, Start: 0, Duration: 0.5, Hand: model.HandLeft},
	}
	_, err := Build(events, 0)
	assert.ErrorIs(t, err, model.ErrMalformedInput)
}

func TestDoesNotMutateInput(t *testing.T) {
	events := []model.NoteEvent{
		note(67, 2),
		note(60, 0),
	}
	_, err := Build(events, 0)

	assert := assert.New(t)
	assert.NoError(err)
	assert.Equal(67, events[0].Pitch)
}
