package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "handex",
	Short: "Generates playable piano fingerings from MIDI files",
	Long: `handex turns a two-hand MIDI performance into a song file where
every note carries a finger assignment matched to a hand size.`,
}

func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}
