package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"time"

	"github.com/bep/debounce"
	"github.com/pianovis/handex/hand"
	"github.com/pianovis/handex/model"
	"github.com/pianovis/handex/util"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(watchCmd)
}

var watchCmd = &cobra.Command{
	Use:   "watch <dir> <hand-size>",
	Short: "Regenerates song files when MIDI files change",
	Long:  `Polls a directory for new or changed MIDI files and regenerates their song files. Bursts of changes are debounced into one pass.`,
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		size, err := hand.ParseSize(args[1])
		if err != nil {
			return err
		}
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		watch(ctx, args[0], size)
		return nil
	},
}

func watch(ctx context.Context, dir string, size hand.Size) {
	var mu sync.Mutex
	pending := make(map[string]bool)
	seen := make(map[string]time.Time)

	flush := func() {
		mu.Lock()
		paths := util.GetKeys(pending)
		pending = make(map[string]bool)
		mu.Unlock()

		for _, path := range paths {
			if err := generateForFile(ctx, path, size, model.StrategySearch, ""); err != nil {
				fmt.Printf("Skipping %v because: %v\n", path, err)
			}
		}
	}
	debounced := debounce.New(500 * time.Millisecond)

	fmt.Printf("Watching %v for midi files...\n", dir)
	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()
	for {
		for _, path := range util.GatherAllMidiPaths(dir, 0) {
			info, err := os.Stat(path)
			if err != nil {
				continue
			}
			if last, ok := seen[path]; !ok || info.ModTime().After(last) {
				seen[path] = info.ModTime()
				mu.Lock()
				pending[path] = true
				mu.Unlock()
				debounced(flush)
			}
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
