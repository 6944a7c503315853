package starrating

import (
	"context"
	"errors"
	"fmt"
	"log"
	"runtime"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"golang.org/x/sync/errgroup"

	"github.com/starpp/starpp/app/beatmap"
	"github.com/starpp/starpp/app/rulesets/osu/performance/api"
)

// Job is one beatmap to rate in a batch
type Job struct {
	BeatMap *beatmap.BeatMap
	Options Options
}

// Result pairs a job's attributes with its error. Err is ErrNoHitObjects for empty beatmaps.
type Result struct {
	Attributes api.Attributes
	Err        error
}

// DefaultWorkers returns the number of logical CPUs, falling back to GOMAXPROCS
func DefaultWorkers() int {
	if count, err := cpu.Counts(true); err == nil && count > 0 {
		return count
	}

	return runtime.GOMAXPROCS(0)
}

// CalculateBatch rates independent beatmaps concurrently. Results keep the order of jobs.
// Per beatmap errors are reported in the results; only context cancellation fails the batch.
func (diffCalc *DifficultyCalculator) CalculateBatch(ctx context.Context, jobs []Job, workers int) ([]Result, error) {
	if workers <= 0 {
		workers = DefaultWorkers()
	}

	startTime := time.Now()

	results := make([]Result, len(jobs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, job := range jobs {
		if gctx.Err() != nil {
			break
		}

		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			if job.BeatMap == nil {
				results[i].Err = errors.New("a beatmap must be defined")
				return nil
			}

			attr, err := diffCalc.Calculate(job.BeatMap, job.Options)
			if err != nil {
				results[i].Err = fmt.Errorf("%s: %w", job.BeatMap.DisplayName(), err)
				return nil
			}

			results[i].Attributes = attr

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	log.Printf("Rated %d beatmaps on %d workers in %s", len(jobs), workers, time.Since(startTime).Truncate(time.Millisecond))

	return results, nil
}
