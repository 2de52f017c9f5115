package model

type Hand string

const (
	HandRight Hand = "right"
	HandLeft  Hand = "left"
)

type Finger = int

const (
	FingerUnset Finger = 0
	Thumb       Finger = 1
	Index       Finger = 2
	Middle      Finger = 3
	Ring        Finger = 4
	Pinky       Finger = 5
)

// NoteEvent is one timed note as decoded from a MIDI part. Start and
// Duration are in seconds. Immutable once extracted.
type NoteEvent struct {
	Pitch    int     `json:"pitch"`
	Start    float64 `json:"start"`
	Duration float64 `json:"duration"`
	Hand     Hand    `json:"hand"`
}

// Position is a single note or a chord: all notes share one hand and
// (within the chord tolerance) one start time. Notes are ordered by
// ascending pitch.
type Position struct {
	Start float64
	Hand  Hand
	Notes []NoteEvent
}

// Pitches returns the ascending pitch list of the position's notes.
func (p Position) Pitches() []int {
	res := make([]int, len(p.Notes))
	for i, n := range p.Notes {
		res[i] = n.Pitch
	}
	return res
}
