// Package validate enforces the structural invariants on a finished
// assignment, whichever strategy produced it.
package validate

import (
	"errors"
	"fmt"

	"github.com/pianovis/handex/model"
)

// ErrInvariantViolation is fatal: the assignment cannot be corrected
// into a playable one.
var ErrInvariantViolation = errors.New("invariant violation")

// Validate checks both hand tracks of the song: every kept note has
// exactly one finger in 1-5, and no two simultaneous notes on one hand
// share a finger. Shared or out-of-range fingers are repaired by
// moving the conflicting note to the nearest unused finger, recorded
// as a correction. Repair is impossible when a position needs more
// than five fingers.
func Validate(song *model.AssignedSong) error {
	for _, track := range []*model.HandTrack{&song.Right, &song.Left} {
		if err := validateTrack(track, song); err != nil {
			return err
		}
	}
	return nil
}

func validateTrack(track *model.HandTrack, song *model.AssignedSong) error {
	if len(track.Assignments) != len(track.Positions) {
		return fmt.Errorf("%w: %v assignments for %v positions on %v hand",
			ErrInvariantViolation, len(track.Assignments), len(track.Positions), track.Hand)
	}

	for i := range track.Positions {
		pos := track.Positions[i]
		fingers := track.Assignments[i].Fingers
		if len(fingers) != len(pos.Notes) {
			return fmt.Errorf("%w: position %v on %v hand has %v fingers for %v notes",
				ErrInvariantViolation, i, track.Hand, len(fingers), len(pos.Notes))
		}

		assigned := 0
		for _, f := range fingers {
			if f != model.FingerUnset {
				assigned++
			}
		}
		if assigned > 5 {
			return fmt.Errorf("%w: position %v on %v hand needs %v fingers",
				ErrInvariantViolation, i, track.Hand, assigned)
		}

		used := make(map[model.Finger]bool)
		for k, f := range fingers {
			if f == model.FingerUnset {
				continue
			}
			if f >= 1 && f <= 5 && !used[f] {
				used[f] = true
				continue
			}
			repaired, ok := nearestUnused(f, used)
			if !ok {
				return fmt.Errorf("%w: no free finger for note %v at position %v on %v hand",
					ErrInvariantViolation, pos.Notes[k].Pitch, i, track.Hand)
			}
			fingers[k] = repaired
			used[repaired] = true
			song.Violations = append(song.Violations, model.Violation{
				Kind:     model.ViolationFingerReassigned,
				Hand:     track.Hand,
				Position: i,
				Detail:   fmt.Sprintf("note %v moved from finger %v to %v", pos.Notes[k].Pitch, f, repaired),
			})
		}
	}
	return nil
}

// nearestUnused walks outward from the conflicting finger, upward
// first: notes are visited in ascending pitch order, so the later
// (higher) note should drift toward the higher fingers.
func nearestUnused(from model.Finger, used map[model.Finger]bool) (model.Finger, bool) {
	if from < 1 {
		from = 1
	}
	if from > 5 {
		from = 5
	}
	for d := 0; d <= 4; d++ {
		if f := from + d; f <= 5 && !used[f] {
			return f, true
		}
		if f := from - d; f >= 1 && !used[f] {
			return f, true
		}
	}
	return 0, false
}
