package model

type Strategy string

const (
	StrategySearch     Strategy = "search"
	StrategyGenerative Strategy = "generative"
)

type ViolationKind string

const (
	ViolationSpanRelaxed      ViolationKind = "span-relaxed"
	ViolationFingerReassigned ViolationKind = "finger-reassigned"
	ViolationChordOverflow    ViolationKind = "chord-overflow"
)

// Violation is a recorded, non-fatal deviation from the ideal
// playability invariants.
type Violation struct {
	Kind     ViolationKind
	Hand     Hand
	Position int
	Detail   string
}

// FingerAssignment holds one finger per note of a Position, aligned by
// index. FingerUnset marks a note dropped from an over-capacity chord.
type FingerAssignment struct {
	Fingers []Finger
}

// HandTrack is one hand's positions with their assignments.
type HandTrack struct {
	Hand        Hand
	Positions   []Position
	Assignments []FingerAssignment
}

// AssignedSong is the in-memory result of the pipeline, consumed once
// by the serializer.
type AssignedSong struct {
	ID         string
	Name       string
	Artist     string
	Source     string
	HandSize   string
	Strategy   Strategy
	Right      HandTrack
	Left       HandTrack
	Violations []Violation
}

// Track returns the hand's track, HandRight for anything not left.
func (s *AssignedSong) Track(h Hand) *HandTrack {
	if h == HandLeft {
		return &s.Left
	}
	return &s.Right
}

// SongNote is one serialized note of the output document.
type SongNote struct {
	Pitch    int     `json:"pitch"`
	Start    float64 `json:"start"`
	Duration float64 `json:"duration"`
	Finger   int     `json:"finger"`
}

type SongTracks struct {
	Right []SongNote `json:"right"`
	Left  []SongNote `json:"left"`
}

// Song is the output document consumed by the hand-tracking app.
type Song struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Artist     string     `json:"artist,omitempty"`
	HandSize   string     `json:"handSize"`
	Source     string     `json:"source"`
	Strategy   string     `json:"strategy"`
	Violations int        `json:"violations"`
	Tracks     SongTracks `json:"tracks"`
}
