// Package stream groups raw timed note events into an ordered sequence
// of positions: one note, or a chord of notes starting together.
package stream

import (
	"fmt"
	"sort"

	"github.com/pianovis/handex/constants"
	"github.com/pianovis/handex/model"
)

// Build sorts events by start time and merges events starting within
// tolerance seconds of a position's start into that position. Notes
// inside a position are ordered by ascending pitch. A tolerance <= 0
// falls back to constants.DefaultChordTolerance.
func Build(events []model.NoteEvent, tolerance float64) ([]model.Position, error) {
	if len(events) == 0 {
		return nil, fmt.Errorf("%w: no note events", model.ErrMalformedInput)
	}
	if tolerance <= 0 {
		tolerance = constants.DefaultChordTolerance
	}

	hand := events[0].Hand
	for _, evt := range events {
		if evt.Hand != hand {
			return nil, fmt.Errorf("%w: mixed hands in one stream", model.ErrMalformedInput)
		}
	}

	sorted := make([]model.NoteEvent, len(events))
	copy(sorted, events)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Start != sorted[j].Start {
			return sorted[i].Start < sorted[j].Start
		}
		return sorted[i].Pitch < sorted[j].Pitch
	})

	var res []model.Position
	for _, evt := range sorted {
		if len(res) > 0 && evt.Start-res[len(res)-1].Start <= tolerance {
			last := &res[len(res)-1]
			last.Notes = append(last.Notes, evt)
			continue
		}
		res = append(res, model.Position{
			Start: evt.Start,
			Hand:  hand,
			Notes: []model.NoteEvent{evt},
		})
	}

	for i := range res {
		notes := res[i].Notes
		sort.SliceStable(notes, func(a, b int) bool {
			return notes[a].Pitch < notes[b].Pitch
		})
	}
	return res, nil
}
