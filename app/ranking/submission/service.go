package submission

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/starpp/starpp/app/beatmap"
	"github.com/starpp/starpp/app/ranking"
)

// MaxBatchSize is the number of plays accepted per request
const MaxBatchSize = 5

var (
	ErrBatchTooLarge = fmt.Errorf("at most %d plays can be submitted at once", MaxBatchSize)
	ErrEmptyBatch    = errors.New("no plays to submit")
	ErrNoPlays       = errors.New("no plays in the selected range")

	// ErrRatingUnavailable is returned by a PerformanceCalculator that cannot rate a single play
	ErrRatingUnavailable = errors.New("rating unavailable")
)

// Reason tells why a play was skipped
type Reason string

const (
	ReasonNotFound          Reason = "beatmap not found"
	ReasonNotEligible       Reason = "beatmap not eligible"
	ReasonRatingUnavailable Reason = "rating unavailable"
)

type BeatmapProvider interface {
	Lookup(ctx context.Context, hash string) (beatmap.Info, error)
}

type PerformanceCalculator interface {
	Performance(ctx context.Context, info beatmap.Info, play ranking.Play) (float64, error)
}

type Store interface {
	// LoadProfile returns an empty profile for unknown players
	LoadProfile(ctx context.Context, playerID string) (*ranking.Profile, error)
	SaveProfile(ctx context.Context, profile *ranking.Profile) error
	IsWhitelisted(ctx context.Context, hash string) (bool, error)
}

// Skip is a play that was left out of the profile
type Skip struct {
	Play   ranking.Play
	Reason Reason
	Err    error
}

type BatchResult struct {
	Profile *ranking.Profile

	PreviousTotal float64
	NewTotal      float64
	PPGained      float64

	Submissions []ranking.Submission
	Skipped     []Skip

	// Repaired is set when the stored profile violated its invariants
	Repaired bool
}

type Service struct {
	beatmaps    BeatmapProvider
	performance PerformanceCalculator
	store       Store
	logger      *log.Logger

	locks *keyedLock
	now   func() time.Time
}

func NewService(beatmaps BeatmapProvider, performance PerformanceCalculator, store Store, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.Default()
	}

	return &Service{
		beatmaps:    beatmaps,
		performance: performance,
		store:       store,
		logger:      logger,
		locks:       newKeyedLock(),
		now:         time.Now,
	}
}

// SelectPlays picks offset plays from recent starting at the 1-based position start
func SelectPlays(recent []ranking.Play, offset, start int) ([]ranking.Play, error) {
	if offset < 1 {
		offset = 1
	}

	if offset > MaxBatchSize {
		return nil, ErrBatchTooLarge
	}

	if start < 1 {
		start = 1
	}

	if start > len(recent) {
		return nil, ErrNoPlays
	}

	end := min(start-1+offset, len(recent))

	return recent[start-1 : end], nil
}

// Submit applies plays to the player's profile in order. Plays that can't be ranked are skipped.
// Any other failure aborts the batch and leaves the stored profile untouched.
func (s *Service) Submit(ctx context.Context, playerID string, plays []ranking.Play) (*BatchResult, error) {
	if len(plays) == 0 {
		return nil, ErrEmptyBatch
	}

	if len(plays) > MaxBatchSize {
		return nil, ErrBatchTooLarge
	}

	unlock := s.locks.Lock(playerID)
	defer unlock()

	profile, err := s.store.LoadProfile(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("load profile %s: %w", playerID, err)
	}

	result := &BatchResult{Profile: profile}

	if profile.Repair() {
		s.logger.Printf("Repaired profile of %s", playerID)
		result.Repaired = true
	}

	result.PreviousTotal = profile.Total

	for _, play := range plays {
		entry, reason, err := s.rate(ctx, play)
		if err != nil {
			return nil, fmt.Errorf("play on %s: %w", play.Hash, err)
		}

		if reason != "" {
			s.logger.Printf("Skipping play of %s on %s: %s", playerID, play.Hash, reason)
			result.Skipped = append(result.Skipped, Skip{Play: play, Reason: reason})

			continue
		}

		result.Submissions = append(result.Submissions, profile.Submit(entry))
	}

	result.NewTotal = profile.Recalculate()
	result.PPGained = result.NewTotal - result.PreviousTotal

	if len(result.Submissions) > 0 || result.Repaired {
		if err = s.store.SaveProfile(ctx, profile); err != nil {
			return nil, fmt.Errorf("save profile %s: %w", playerID, err)
		}
	}

	return result, nil
}

// rate returns either the entry for play or the reason it has to be skipped
func (s *Service) rate(ctx context.Context, play ranking.Play) (ranking.Entry, Reason, error) {
	info, err := s.beatmaps.Lookup(ctx, play.Hash)
	if errors.Is(err, beatmap.ErrNotFound) {
		return ranking.Entry{}, ReasonNotFound, nil
	} else if err != nil {
		return ranking.Entry{}, "", err
	}

	if !info.Status.IsRankedEligible() {
		whitelisted, err := s.store.IsWhitelisted(ctx, play.Hash)
		if err != nil {
			return ranking.Entry{}, "", err
		}

		if !whitelisted {
			return ranking.Entry{}, ReasonNotEligible, nil
		}
	}

	pp := play.PP

	if pp <= 0 {
		pp, err = s.performance.Performance(ctx, info, play)

		switch {
		case errors.Is(err, ErrRatingUnavailable):
			return ranking.Entry{}, ReasonRatingUnavailable, nil
		case errors.Is(err, beatmap.ErrNotFound):
			return ranking.Entry{}, ReasonNotFound, nil
		case err != nil:
			return ranking.Entry{}, "", err
		}
	}

	if play.SetAt.IsZero() {
		play.SetAt = s.now().UTC()
	}

	return play.Entry(info.ID, info.DisplayName(), pp), "", nil
}
