package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/starpp/starpp/app/beatmap"
	"github.com/starpp/starpp/app/beatmap/difficulty"
	"github.com/starpp/starpp/app/database"
	"github.com/starpp/starpp/app/osuapi"
	"github.com/starpp/starpp/app/ranking/submission"
	"github.com/starpp/starpp/app/rulesets/osu/performance/starrating"
	"github.com/starpp/starpp/app/settings"
)

// app holds state shared by all commands
type app struct {
	configPath string
	dbPath     string

	settings settings.Settings
}

func main() {
	log.SetFlags(log.Ltime)

	a := &app{}

	root := &cobra.Command{
		Use:           "starpp",
		Short:         "Star rating and ranked pp profiles for osu! beatmaps",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.load(cmd)
		},
	}

	root.PersistentFlags().StringVar(&a.configPath, "config", settings.DefaultConfigPath(), "path to the TOML config")
	root.PersistentFlags().StringVar(&a.dbPath, "db", "", "path to the SQLite database (overrides config)")

	root.AddCommand(newRateCmd(a))
	root.AddCommand(newChartCmd(a))
	root.AddCommand(newWatchCmd(a))
	root.AddCommand(newSubmitCmd(a))
	root.AddCommand(newProfileCmd(a))
	root.AddCommand(newWhitelistCmd(a))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)

	err := root.ExecuteContext(ctx)

	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func (a *app) load(cmd *cobra.Command) error {
	s, err := settings.Load(a.configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if cmd.Flags().Changed("db") {
		s.DatabasePath = a.dbPath
	}

	a.settings = s

	return nil
}

func (a *app) openStore() (*database.Store, error) {
	store, err := database.Open(a.settings.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	return store, nil
}

func (a *app) library() *beatmap.Library {
	return beatmap.NewLibrary(a.settings.BeatmapDir)
}

func (a *app) osuClient(ctx context.Context) *osuapi.Client {
	return osuapi.NewClient(ctx, osuapi.Config{
		ClientID:     a.settings.OsuClientID,
		ClientSecret: a.settings.OsuClientSecret,
		BaseURL:      a.settings.OsuBaseURL,
	})
}

// beatmapProvider resolves beatmap metadata from the configured source
func (a *app) beatmapProvider(ctx context.Context) submission.BeatmapProvider {
	if a.settings.BeatmapSource == settings.SourceOsuAPI {
		return a.osuClient(ctx)
	}

	return a.library()
}

// ratingFlags are the calculation flags shared by rate, chart and watch
type ratingFlags struct {
	mode      string
	mods      string
	speed     float64
	oldStats  bool
	threshold float64
}

func (f *ratingFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.mode, "mode", "", "osu or droid (default from config)")
	cmd.Flags().StringVarP(&f.mods, "mods", "m", "", "mod acronyms, e.g. HDDT")
	cmd.Flags().Float64Var(&f.speed, "speed", 1, "custom speed multiplier applied on top of mods")
	cmd.Flags().BoolVar(&f.oldStats, "old-stats", false, "use standard hit windows in droid mode")
	cmd.Flags().Float64Var(&f.threshold, "threshold", 0, "singletap threshold in ms (default from config)")
}

func (a *app) options(f ratingFlags) starrating.Options {
	mode := f.mode
	if mode == "" {
		mode = a.settings.Mode
	}

	threshold := f.threshold
	if threshold <= 0 {
		threshold = a.settings.SingletapThreshold
	}

	opts := starrating.NewOptions(mode, f.mods)
	opts.Stats = starrating.Stats{
		SpeedMultiplier: f.speed,
		OldStatistics:   f.oldStats || a.settings.OldStatistics,
	}
	opts.SingletapThreshold = threshold

	return opts
}

func modsLabel(mods difficulty.Modifier) string {
	if s := mods.String(); s != "" {
		return "+" + s
	}

	return "NM"
}
