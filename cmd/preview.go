package cmd

import (
	"fmt"

	"github.com/pianovis/handex/midi"
	"github.com/pianovis/handex/model"
	"github.com/pianovis/handex/util"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(previewCmd)
}

var previewCmd = &cobra.Command{
	Use:   "preview <midi-file>",
	Short: "Lists the parts of a MIDI file",
	Long:  `Lists the parts of a MIDI file with note counts and leading notes, to help pick --right-part/--left-part.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		parsed, err := midi.ReadMidiFile(args[0])
		if err != nil {
			return err
		}
		for i := range parsed.Tracks {
			notes, err := midi.ExtractHandNotes(parsed, i, model.HandRight)
			if err != nil {
				fmt.Printf("part %v: no notes\n", i)
				continue
			}
			fmt.Printf("part %v: %v notes, starts with %v\n", i, len(notes), leadingNotes(notes))
		}
		return nil
	},
}

var pitchNames = []string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

func pitchName(pitch int) string {
	return fmt.Sprintf("%v%v", pitchNames[pitch%12], pitch/12-1)
}

func leadingNotes(notes []model.NoteEvent) []string {
	var res []string
	for _, n := range notes[:util.Min(8, len(notes))] {
		res = append(res, pitchName(n.Pitch))
	}
	return res
}
