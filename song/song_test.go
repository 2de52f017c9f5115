package song

import (
	"path/filepath"
	"testing"

	"github.com/pianovis/handex/model"
	"github.com/pianovis/handex/util"
	"github.com/stretchr/testify/assert"
)

func assignedSong() *model.AssignedSong {
	pos := func(start float64, h model.Hand, pitches ...int) model.Position {
		p := model.Position{Start: start, Hand: h}
		for _, pitch := range pitches {
			p.Notes = append(p.Notes, model.NoteEvent{
				Pitch: pitch, Start: start, Duration: 0.25, Hand: h,
			})
		}
		return p
	}
	return &model.AssignedSong{
		ID:       "test-id",
		Name:     "Test Song",
		Source:   "test.mid",
		HandSize: "M",
		Strategy: model.StrategySearch,
		Right: model.HandTrack{
			Hand:      model.HandRight,
			Positions: []model.Position{pos(0, model.HandRight, 60, 64, 67), pos(0.5, model.HandRight, 72)},
			Assignments: []model.FingerAssignment{
				{Fingers: []model.Finger{1, 3, 5}},
				{Fingers: []model.Finger{5}},
			},
		},
		Left: model.HandTrack{
			Hand:      model.HandLeft,
			Positions: []model.Position{pos(0, model.HandLeft, 48)},
			Assignments: []model.FingerAssignment{
				{Fingers: []model.Finger{1}},
			},
		},
		Violations: []model.Violation{
			{Kind: model.ViolationSpanRelaxed, Hand: model.HandRight, Position: 0},
		},
	}
}

func TestRenderFlattensTracks(t *testing.T) {
	doc := Render(assignedSong())

	assert := assert.New(t)
	assert.Equal("test-id", doc.ID)
	assert.Equal("search", doc.Strategy)
	assert.Equal(1, doc.Violations)
	assert.Len(doc.Tracks.Right, 4)
	assert.Len(doc.Tracks.Left, 1)
	assert.Equal(model.SongNote{Pitch: 60, Start: 0, Duration: 0.25, Finger: 1}, doc.Tracks.Right[0])
	assert.Equal(model.SongNote{Pitch: 72, Start: 0.5, Duration: 0.25, Finger: 5}, doc.Tracks.Right[3])
}

func TestRenderOmitsDroppedNotes(t *testing.T) {
	s := assignedSong()
	s.Right.Positions[1].Notes = append(s.Right.Positions[1].Notes,
		model.NoteEvent{Pitch: 74, Start: 0.5, Duration: 0.25, Hand: model.HandRight})
	s.Right.Assignments[1].Fingers = append(s.Right.Assignments[1].Fingers, model.FingerUnset)

	doc := Render(s)
	assert.Len(t, doc.Tracks.Right, 4)
}

func TestWriteReadRoundTrip(t *testing.T) {
	doc := Render(assignedSong())
	path := filepath.Join(t.TempDir(), "out.json")

	assert := assert.New(t)
	assert.NoError(Write(doc, path))

	parsed, err := Read(path)
	assert.NoError(err)
	assert.Equal(doc, parsed)
}

func TestFingersSerializeAsIntegers(t *testing.T) {
	doc := Render(assignedSong())
	path := filepath.Join(t.TempDir(), "out.json")
	assert.NoError(t, Write(doc, path))

	var raw map[string]any
	assert.NoError(t, util.ReadJSON(path, &raw))
	tracks := raw["tracks"].(map[string]any)
	right := tracks["right"].([]any)
	first := right[0].(map[string]any)
	assert.Equal(t, float64(1), first["finger"])
}

func TestOutputPathUsesStem(t *testing.T) {
	assert.Equal(t,
		filepath.Join("some", "dir", "tune_handex.json"),
		OutputPath(filepath.Join("some", "dir", "tune.mid")))
}
