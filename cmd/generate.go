package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/pianovis/handex/constants"
	"github.com/pianovis/handex/db"
	"github.com/pianovis/handex/hand"
	"github.com/pianovis/handex/midi"
	"github.com/pianovis/handex/model"
	"github.com/pianovis/handex/pipeline"
	"github.com/pianovis/handex/song"
	"github.com/pianovis/handex/util"
	"github.com/spf13/cobra"
)

var (
	rightPartFlag int
	leftPartFlag  int
	strategyFlag  string
	outFlag       string
	toleranceFlag float64
)

func init() {
	generateCmd.Flags().IntVar(&rightPartFlag, "right-part", constants.DefaultRightPartIndex, "index of the right-hand MIDI part")
	generateCmd.Flags().IntVar(&leftPartFlag, "left-part", constants.DefaultLeftPartIndex, "index of the left-hand MIDI part")
	generateCmd.Flags().StringVar(&strategyFlag, "strategy", string(model.StrategySearch), "fingering strategy: search or generative")
	generateCmd.Flags().StringVar(&outFlag, "out", "", "output path (default <stem>_handex.json)")
	generateCmd.Flags().Float64Var(&toleranceFlag, "tolerance", constants.DefaultChordTolerance, "chord-detection tolerance in seconds")
	rootCmd.AddCommand(generateCmd)
}

var generateCmd = &cobra.Command{
	Use:   "generate <midi-file> <hand-size>",
	Short: "Generates a fingered song file from a MIDI file",
	Long:  `Generates a fingered song file from a MIDI file for one of the hand sizes XXS, XS, S, M, L, XL, XXL.`,
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		size, err := hand.ParseSize(args[1])
		if err != nil {
			return err
		}
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		return generateForFile(ctx, args[0], size, model.Strategy(strategyFlag), outFlag)
	},
}

func generateForFile(ctx context.Context, path string, size hand.Size, strategy model.Strategy, out string) error {
	parsed, err := midi.ReadMidiFile(path)
	if err != nil {
		return err
	}
	right, err := midi.ExtractHandNotes(parsed, rightPartFlag, model.HandRight)
	if err != nil {
		return err
	}
	left, err := midi.ExtractHandNotes(parsed, leftPartFlag, model.HandLeft)
	if err != nil {
		return err
	}

	name, artist := songIdentity(path)

	result, err := pipeline.Run(ctx, pipeline.Input{
		Right:     right,
		Left:      left,
		HandSize:  size,
		Strategy:  strategy,
		Source:    filepath.Base(path),
		Name:      name,
		Artist:    artist,
		Tolerance: toleranceFlag,
	})
	if err != nil {
		return err
	}

	if out == "" {
		out = song.OutputPath(path)
	}
	if err := song.Write(result, out); err != nil {
		return err
	}

	fmt.Printf("Wrote %v: %v right notes, %v left notes, strategy %v, %v violations\n",
		out, len(result.Tracks.Right), len(result.Tracks.Left), result.Strategy, result.Violations)
	return nil
}

// songIdentity tries the metadata table first, then falls back to a
// name derived from the filename.
func songIdentity(path string) (string, string) {
	filename := filepath.Base(path)
	metadatas, err := db.GetSongMetadatas([]string{filename})
	if err != nil {
		fmt.Printf("Skipping metadata lookup because: %v\n", err)
	}
	if m, ok := metadatas[filename]; ok && m.Title != "" {
		return m.Title, m.Artist
	}
	return util.SongName(path), ""
}
