package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/starpp/starpp/app/beatmap"
	"github.com/starpp/starpp/app/beatmap/difficulty"
	"github.com/starpp/starpp/app/ranking"
	"github.com/starpp/starpp/app/ranking/submission"
	"github.com/starpp/starpp/app/rulesets/osu/performance/starrating"
)

// libraryPerformance rates plays against beatmaps stored in the local library
type libraryPerformance struct {
	library *beatmap.Library
	calc    *starrating.DifficultyCalculator
	options starrating.Options
}

func newLibraryPerformance(library *beatmap.Library, opts starrating.Options) *libraryPerformance {
	return &libraryPerformance{
		library: library,
		calc:    starrating.NewDifficultyCalculator(),
		options: opts,
	}
}

func (p *libraryPerformance) Performance(_ context.Context, info beatmap.Info, play ranking.Play) (float64, error) {
	bm, err := p.library.Load(info.Hash)
	if errors.Is(err, beatmap.ErrNotFound) {
		return 0, fmt.Errorf("%w: %s is not in the library", submission.ErrRatingUnavailable, info.Hash)
	} else if err != nil {
		return 0, err
	}

	opts := p.options
	opts.Mods = difficulty.ParseMods(play.Mods)

	attr, err := p.calc.Calculate(bm, opts)
	if errors.Is(err, starrating.ErrNoHitObjects) {
		return 0, fmt.Errorf("%w: %w", submission.ErrRatingUnavailable, err)
	} else if err != nil {
		return 0, err
	}

	diff := bm.NewDifficulty()
	diff.SetMods(opts.Mods)

	combo := play.MaxCombo
	if combo <= 0 {
		combo = -1
	}

	n300, n100, n50 := starrating.HitsFromAccuracy(attr.ObjectCount, play.Accuracy, play.Misses)

	return starrating.NewPPCalculator().Calculate(attr, combo, n300, n100, n50, play.Misses, diff).Total, nil
}
