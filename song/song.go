// Package song renders a validated assignment into the output document
// consumed by the hand-tracking app, and reads such documents back.
package song

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/pianovis/handex/constants"
	"github.com/pianovis/handex/model"
	"github.com/pianovis/handex/util"
)

// Render is a pure transformation of the assigned song into its
// document form. Notes dropped from over-capacity chords (finger
// unset) are omitted; timing is carried through untouched.
func Render(s *model.AssignedSong) *model.Song {
	return &model.Song{
		ID:         s.ID,
		Name:       s.Name,
		Artist:     s.Artist,
		HandSize:   s.HandSize,
		Source:     s.Source,
		Strategy:   string(s.Strategy),
		Violations: len(s.Violations),
		Tracks: model.SongTracks{
			Right: renderTrack(&s.Right),
			Left:  renderTrack(&s.Left),
		},
	}
}

func renderTrack(track *model.HandTrack) []model.SongNote {
	res := make([]model.SongNote, 0)
	for i, pos := range track.Positions {
		fingers := track.Assignments[i].Fingers
		for k, note := range pos.Notes {
			if fingers[k] == model.FingerUnset {
				continue
			}
			res = append(res, model.SongNote{
				Pitch:    note.Pitch,
				Start:    note.Start,
				Duration: note.Duration,
				Finger:   fingers[k],
			})
		}
	}
	return res
}

func Write(s *model.Song, path string) error {
	if err := util.WriteJSON(path, s); err != nil {
		return fmt.Errorf("writing song file: %w", err)
	}
	return nil
}

func Read(path string) (*model.Song, error) {
	var s model.Song
	if err := util.ReadJSON(path, &s); err != nil {
		return nil, fmt.Errorf("reading song file: %w", err)
	}
	return &s, nil
}

// OutputPath places `<stem>_handex.json` in the configured output
// directory, or next to the midi file when none is set.
func OutputPath(midiPath string) string {
	stem := strings.TrimSuffix(filepath.Base(midiPath), filepath.Ext(midiPath))
	dir := constants.GetOutDir()
	if dir == "." {
		dir = filepath.Dir(midiPath)
	}
	return filepath.Join(dir, stem+"_handex.json")
}
