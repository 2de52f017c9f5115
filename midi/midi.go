package midi

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/pianovis/handex/model"
	"gitlab.com/gomidi/midi/v2/smf"
)

func ReadMidiFile(filepath string) (s *smf.SMF, e error) {
	var blank smf.SMF

	// handle panics
	// https://github.com/gomidi/midi/issues/20
	defer func() {
		if r, ok := recover().(string); ok {
			e = errors.New(r)
		}
	}()

	dat, err := os.ReadFile(filepath)
	if err != nil {
		return &blank, fmt.Errorf("reading midi file: %w", err)
	}

	res, err := smf.ReadFrom(bytes.NewReader(dat))
	if err != nil {
		return &blank, fmt.Errorf("parsing midi file: %w", err)
	}

	return res, nil
}

// ExtractHandNotes converts one MIDI part (track) into timed note
// events for the given hand. Start/duration come from pairing note-on
// with note-off at absolute microsecond offsets.
func ExtractHandNotes(s *smf.SMF, partIndex int, hand model.Hand) ([]model.NoteEvent, error) {
	if partIndex < 0 || partIndex >= len(s.Tracks) {
		return nil, fmt.Errorf("%w: part index %v out of range (file has %v)",
			model.ErrMalformedInput, partIndex, len(s.Tracks))
	}

	var res []model.NoteEvent
	pressed := make(map[uint8]int64)
	var absTicks int64

	for _, event := range s.Tracks[partIndex] {
		absTicks += int64(event.Delta)
		absMicros := s.TimeAt(absTicks)
		var channel uint8
		var key uint8
		var velocity uint8
		switch {
		case event.Message.GetNoteStart(&channel, &key, &velocity):
			pressed[key] = absMicros
		case event.Message.GetNoteEnd(&channel, &key):
			start, ok := pressed[key]
			if !ok {
				continue
			}
			delete(pressed, key)
			res = append(res, model.NoteEvent{
				Pitch:    int(key),
				Start:    float64(start) / 1e6,
				Duration: float64(absMicros-start) / 1e6,
				Hand:     hand,
			})
		}
	}

	// notes left hanging at end of track get closed there
	endMicros := s.TimeAt(absTicks)
	for _, key := range sortedKeys(pressed) {
		res = append(res, model.NoteEvent{
			Pitch:    int(key),
			Start:    float64(pressed[key]) / 1e6,
			Duration: float64(endMicros-pressed[key]) / 1e6,
			Hand:     hand,
		})
	}

	if len(res) == 0 {
		return nil, fmt.Errorf("%w: part %v has no notes", model.ErrMalformedInput, partIndex)
	}

	sort.SliceStable(res, func(i, j int) bool {
		if res[i].Start != res[j].Start {
			return res[i].Start < res[j].Start
		}
		return res[i].Pitch < res[j].Pitch
	})
	return res, nil
}

func sortedKeys(m map[uint8]int64) []uint8 {
	keys := make([]uint8, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}
