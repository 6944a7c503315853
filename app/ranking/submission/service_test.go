package submission

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"sync"
	"testing"

	"github.com/starpp/starpp/app/beatmap"
	"github.com/starpp/starpp/app/ranking"
)

var errUnreachable = errors.New("rating service unreachable")

type fakeBeatmaps map[string]beatmap.Info

func (f fakeBeatmaps) Lookup(_ context.Context, hash string) (beatmap.Info, error) {
	info, ok := f[strings.ToLower(hash)]
	if !ok {
		return beatmap.Info{}, beatmap.ErrNotFound
	}

	return info, nil
}

type fakePerformance map[string]error

func (f fakePerformance) Performance(_ context.Context, info beatmap.Info, _ ranking.Play) (float64, error) {
	if err := f[info.Hash]; err != nil {
		return 0, err
	}

	return 100 + float64(info.ID), nil
}

type memoryStore struct {
	mu        sync.Mutex
	profiles  map[string]ranking.Profile
	whitelist map[string]bool
	saves     int
}

func newMemoryStore() *memoryStore {
	return &memoryStore{profiles: make(map[string]ranking.Profile), whitelist: make(map[string]bool)}
}

func (m *memoryStore) LoadProfile(_ context.Context, playerID string) (*ranking.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.profiles[playerID]
	if !ok {
		return ranking.NewProfile(playerID), nil
	}

	p.Entries = append([]ranking.Entry(nil), p.Entries...)

	return &p, nil
}

func (m *memoryStore) SaveProfile(_ context.Context, profile *ranking.Profile) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	p := *profile
	p.Entries = append([]ranking.Entry(nil), profile.Entries...)
	m.profiles[profile.PlayerID] = p
	m.saves++

	return nil
}

func (m *memoryStore) IsWhitelisted(_ context.Context, hash string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.whitelist[hash], nil
}

func hash(i int) string {
	return fmt.Sprintf("%032x", i)
}

func newTestService() (*Service, *memoryStore, fakeBeatmaps, fakePerformance) {
	maps := fakeBeatmaps{}
	for i := 1; i <= 20; i++ {
		maps[hash(i)] = beatmap.Info{ID: i, Hash: hash(i), Title: fmt.Sprintf("map %d", i), Status: beatmap.Ranked}
	}

	perf := fakePerformance{}
	store := newMemoryStore()

	return NewService(maps, perf, store, log.New(io.Discard, "", 0)), store, maps, perf
}

func TestSubmitBatch(t *testing.T) {
	svc, store, _, _ := newTestService()

	plays := []ranking.Play{{Hash: hash(1)}, {Hash: hash(2)}, {Hash: hash(1), PP: 300}}

	res, err := svc.Submit(context.Background(), "p1", plays)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(res.Submissions) != 3 || len(res.Skipped) != 0 {
		t.Fatalf("expected 3 submissions, got %d / %d skipped", len(res.Submissions), len(res.Skipped))
	}

	if len(res.Profile.Entries) != 2 || res.Profile.Entries[0].PP != 300 {
		t.Fatalf("unexpected profile %+v", res.Profile.Entries)
	}

	sum := 0.0
	for _, s := range res.Submissions {
		sum += s.TotalDelta
	}

	if res.PreviousTotal != 0 || res.PPGained != res.NewTotal || res.NewTotal-sum > 1e-9 || sum-res.NewTotal > 1e-9 {
		t.Fatalf("deltas do not reconcile: %v + %v != %v", res.PreviousTotal, sum, res.NewTotal)
	}

	if store.saves != 1 {
		t.Fatalf("expected one save, got %d", store.saves)
	}
}

func TestSubmitHashCaseInsensitive(t *testing.T) {
	svc, _, _, _ := newTestService()

	plays := []ranking.Play{{Hash: strings.ToUpper(hash(10)), PP: 100}, {Hash: hash(10), PP: 120}}

	res, err := svc.Submit(context.Background(), "p1", plays)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(res.Profile.Entries) != 1 || res.Profile.Entries[0].PP != 120 || res.Profile.Entries[0].Hash != hash(10) {
		t.Fatalf("expected a single entry for the beatmap, got %+v", res.Profile.Entries)
	}

	if res.NewTotal != 120 {
		t.Fatalf("expected total 120, got %v", res.NewTotal)
	}
}

func TestUnrankedBeatmapNotEligible(t *testing.T) {
	svc, store, maps, _ := newTestService()

	if _, err := svc.Submit(context.Background(), "p1", []ranking.Play{{Hash: hash(1)}}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	before, _ := store.LoadProfile(context.Background(), "p1")

	info := maps[hash(2)]
	info.Status = beatmap.ParseStatus("unranked")
	maps[hash(2)] = info

	res, err := svc.Submit(context.Background(), "p1", []ranking.Play{{Hash: hash(2), PP: 500}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(res.Skipped) != 1 || res.Skipped[0].Reason != ReasonNotEligible {
		t.Fatalf("expected not eligible skip, got %+v", res.Skipped)
	}

	after, _ := store.LoadProfile(context.Background(), "p1")
	if len(after.Entries) != len(before.Entries) || after.Total != before.Total || res.PPGained != 0 {
		t.Fatalf("expected profile to be left unmodified")
	}

	if store.saves != 1 {
		t.Fatalf("expected no save for a batch without changes")
	}

	store.whitelist[hash(2)] = true

	res, err = svc.Submit(context.Background(), "p1", []ranking.Play{{Hash: hash(2), PP: 500}})
	if err != nil || len(res.Submissions) != 1 {
		t.Fatalf("expected whitelisted beatmap to be accepted, got %v", err)
	}
}

func TestSkipReasons(t *testing.T) {
	svc, _, _, perf := newTestService()
	perf[hash(3)] = ErrRatingUnavailable

	plays := []ranking.Play{{Hash: hash(99)}, {Hash: hash(3)}, {Hash: hash(4)}}

	res, err := svc.Submit(context.Background(), "p1", plays)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(res.Skipped) != 2 || res.Skipped[0].Reason != ReasonNotFound || res.Skipped[1].Reason != ReasonRatingUnavailable {
		t.Fatalf("unexpected skips %+v", res.Skipped)
	}

	if len(res.Submissions) != 1 || res.Profile.Entries[0].PP != 104 {
		t.Fatalf("expected the remaining play to be submitted")
	}
}

func TestInfrastructureErrorAborts(t *testing.T) {
	svc, store, _, perf := newTestService()
	perf[hash(5)] = errUnreachable

	plays := []ranking.Play{{Hash: hash(4)}, {Hash: hash(5)}, {Hash: hash(6)}}

	if _, err := svc.Submit(context.Background(), "p1", plays); !errors.Is(err, errUnreachable) {
		t.Fatalf("expected batch to fail, got %v", err)
	}

	if store.saves != 0 {
		t.Fatalf("expected nothing to be persisted")
	}
}

func TestBatchLimits(t *testing.T) {
	svc, _, _, _ := newTestService()

	plays := make([]ranking.Play, MaxBatchSize+1)
	for i := range plays {
		plays[i].Hash = hash(i + 1)
	}

	if _, err := svc.Submit(context.Background(), "p1", plays); !errors.Is(err, ErrBatchTooLarge) {
		t.Fatalf("expected ErrBatchTooLarge, got %v", err)
	}

	if _, err := svc.Submit(context.Background(), "p1", nil); !errors.Is(err, ErrEmptyBatch) {
		t.Fatalf("expected ErrEmptyBatch, got %v", err)
	}
}

func TestRepairsStoredProfile(t *testing.T) {
	svc, store, _, _ := newTestService()

	store.profiles["p1"] = ranking.Profile{PlayerID: "p1", Entries: []ranking.Entry{
		{Hash: hash(7), PP: 50},
		{Hash: hash(8), PP: 80},
		{Hash: hash(7), PP: 60},
	}}

	res, err := svc.Submit(context.Background(), "p1", []ranking.Play{{Hash: hash(9), PP: 70}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !res.Repaired || len(res.Profile.Entries) != 3 {
		t.Fatalf("expected repaired profile with 3 entries, got %+v", res.Profile.Entries)
	}

	pps := []float64{80, 70, 60}
	for i, e := range res.Profile.Entries {
		if e.PP != pps[i] {
			t.Fatalf("unexpected order %+v", res.Profile.Entries)
		}
	}
}

func TestConcurrentSubmissionsSamePlayer(t *testing.T) {
	svc, store, _, _ := newTestService()

	var wg sync.WaitGroup

	for i := 1; i <= 20; i++ {
		wg.Add(1)

		go func() {
			defer wg.Done()

			if _, err := svc.Submit(context.Background(), "p1", []ranking.Play{{Hash: hash(i)}}); err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}

	wg.Wait()

	p, _ := store.LoadProfile(context.Background(), "p1")
	if len(p.Entries) != 20 {
		t.Fatalf("expected every submission to be kept, got %d entries", len(p.Entries))
	}
}

func TestSelectPlays(t *testing.T) {
	recent := make([]ranking.Play, 8)
	for i := range recent {
		recent[i].Hash = hash(i + 1)
	}

	got, err := SelectPlays(recent, 3, 2)
	if err != nil || len(got) != 3 || got[0].Hash != hash(2) {
		t.Fatalf("unexpected selection %+v, %v", got, err)
	}

	got, _ = SelectPlays(recent, 5, 7)
	if len(got) != 2 {
		t.Fatalf("expected selection to stop at the end, got %d", len(got))
	}

	if _, err = SelectPlays(recent, 6, 1); !errors.Is(err, ErrBatchTooLarge) {
		t.Fatalf("expected ErrBatchTooLarge, got %v", err)
	}

	if _, err = SelectPlays(recent, 1, 9); !errors.Is(err, ErrNoPlays) {
		t.Fatalf("expected ErrNoPlays, got %v", err)
	}
}
