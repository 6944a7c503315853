package main

import (
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/starpp/starpp/app/beatmap"
	"github.com/starpp/starpp/app/rulesets/osu/performance/starrating"
)

const watchDebounce = 200 * time.Millisecond

func newWatchCmd(a *app) *cobra.Command {
	var flags ratingFlags

	cmd := &cobra.Command{
		Use:   "watch <beatmap.json>",
		Short: "Re-rate a beatmap file every time it changes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := filepath.Abs(args[0])
			if err != nil {
				return err
			}

			watcher, err := fsnotify.NewWatcher()
			if err != nil {
				return err
			}

			defer watcher.Close()

			// editors replace files on save, so the directory is watched instead
			if err = watcher.Add(filepath.Dir(path)); err != nil {
				return err
			}

			calc := starrating.NewDifficultyCalculator()
			opts := a.options(flags)
			out := cmd.OutOrStdout()

			rate := func() {
				bm, err := beatmap.LoadFile(path)
				if err != nil {
					log.Println("Failed to load beatmap:", err)
					return
				}

				attr, err := calc.Calculate(bm, opts)
				if err != nil {
					log.Println("Failed to rate beatmap:", err)
					return
				}

				fmt.Fprintf(out, "%s %s: %.2f stars (aim %.2f, speed %.2f)\n",
					time.Now().Format(time.TimeOnly), beatmapLabel(bm, path), attr.Total, attr.Aim, attr.Speed)
			}

			rate()

			log.Println("Watching", path)

			var pending <-chan time.Time

			for {
				select {
				case <-cmd.Context().Done():
					return nil
				case event, ok := <-watcher.Events:
					if !ok {
						return nil
					}

					if filepath.Clean(event.Name) == path && (event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename)) {
						pending = time.After(watchDebounce)
					}
				case <-pending:
					pending = nil
					rate()
				case err, ok := <-watcher.Errors:
					if !ok {
						return nil
					}

					if errors.Is(err, fsnotify.ErrEventOverflow) {
						log.Println("Watcher overflowed, re-rating")
						rate()

						continue
					}

					return err
				}
			}
		},
	}

	flags.register(cmd)

	return cmd
}
