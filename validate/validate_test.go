package validate

import (
	"testing"

	"github.com/pianovis/handex/model"
	"github.com/stretchr/testify/assert"
)

func track(hand model.Hand, pitches []int, fingers []model.Finger) model.HandTrack {
	pos := model.Position{Hand: hand}
	for _, p := range pitches {
		pos.Notes = append(pos.Notes, model.NoteEvent{Pitch: p, Hand: hand})
	}
	return model.HandTrack{
		Hand:        hand,
		Positions:   []model.Position{pos},
		Assignments: []model.FingerAssignment{{Fingers: fingers}},
	}
}

func songWith(right model.HandTrack) *model.AssignedSong {
	return &model.AssignedSong{
		Right: right,
		Left:  model.HandTrack{Hand: model.HandLeft},
	}
}

func TestValidAssignmentPassesUntouched(t *testing.T) {
	s := songWith(track(model.HandRight, []int{60, 64, 67}, []model.Finger{1, 3, 5}))
	err := Validate(s)

	assert := assert.New(t)
	assert.NoError(err)
	assert.Empty(s.Violations)
	assert.Equal([]model.Finger{1, 3, 5}, s.Right.Assignments[0].Fingers)
}

func TestDuplicateFingerIsReassigned(t *testing.T) {
	s := songWith(track(model.HandRight, []int{60, 62}, []model.Finger{2, 2}))
	err := Validate(s)

	assert := assert.New(t)
	assert.NoError(err)
	assert.Len(s.Violations, 1)
	assert.Equal(model.ViolationFingerReassigned, s.Violations[0].Kind)
	assert.Equal(model.Finger(2), s.Right.Assignments[0].Fingers[0])
	assert.Equal(model.Finger(3), s.Right.Assignments[0].Fingers[1])
}

func TestOutOfRangeFingerIsReassigned(t *testing.T) {
	s := songWith(track(model.HandRight, []int{60}, []model.Finger{7}))
	err := Validate(s)

	assert := assert.New(t)
	assert.NoError(err)
	assert.Len(s.Violations, 1)
	f := s.Right.Assignments[0].Fingers[0]
	assert.GreaterOrEqual(f, 1)
	assert.LessOrEqual(f, 5)
}

func TestUnsetFingersAreIgnored(t *testing.T) {
	s := songWith(track(model.HandRight,
		[]int{60, 62, 64, 65, 67, 69},
		[]model.Finger{1, 2, 3, 4, 5, model.FingerUnset}))
	err := Validate(s)

	assert := assert.New(t)
	assert.NoError(err)
	assert.Empty(s.Violations)
}

func TestMoreThanFiveFingersIsFatal(t *testing.T) {
	s := songWith(track(model.HandRight,
		[]int{60, 62, 64, 65, 67, 69},
		[]model.Finger{1, 2, 3, 4, 5, 5}))
	err := Validate(s)
	assert.ErrorIs(t, err, ErrInvariantViolation)
}

func TestMisalignedAssignmentIsFatal(t *testing.T) {
	s := songWith(track(model.HandRight, []int{60, 64}, []model.Finger{1}))
	err := Validate(s)
	assert.ErrorIs(t, err, ErrInvariantViolation)
}
