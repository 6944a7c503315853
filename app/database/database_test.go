package database

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/starpp/starpp/app/ranking"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := Open(filepath.Join(t.TempDir(), "nested", "starpp.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}

	t.Cleanup(func() {
		_ = store.Close()
	})

	return store
}

func TestProfileRoundTrip(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	empty, err := store.LoadProfile(ctx, "p1")
	if err != nil || len(empty.Entries) != 0 || empty.Total != 0 {
		t.Fatalf("expected empty profile, got %+v, %v", empty, err)
	}

	setAt := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	profile := ranking.NewProfile("p1")
	profile.Submit(ranking.Entry{Hash: "a", Title: "A", Mods: "HD", PP: 200, Combo: 500, Accuracy: 0.98, SetAt: setAt})
	profile.Submit(ranking.Entry{Hash: "b", Title: "B", PP: 300, Misses: 2})

	if err = store.SaveProfile(ctx, profile); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := store.LoadProfile(ctx, "p1")
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if loaded.Total != profile.Total || len(loaded.Entries) != 2 {
		t.Fatalf("unexpected profile %+v", loaded)
	}

	if loaded.Entries[0].Hash != "b" || loaded.Entries[1].Mods != "HD" || !loaded.Entries[1].SetAt.Equal(setAt) {
		t.Fatalf("entries not restored in rank order: %+v", loaded.Entries)
	}

	if loaded.Repair() {
		t.Fatalf("expected stored profile to satisfy its invariants")
	}

	profile.Submit(ranking.Entry{Hash: "a", PP: 100})

	if err = store.SaveProfile(ctx, profile); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, _ = store.LoadProfile(ctx, "p1")
	if len(loaded.Entries) != 2 || loaded.Entries[1].PP != 100 {
		t.Fatalf("expected saved profile to be replaced, got %+v", loaded.Entries)
	}

	existed, err := store.DeleteProfile(ctx, "p1")
	if err != nil || !existed {
		t.Fatalf("expected profile to be deleted, got %v", err)
	}

	loaded, _ = store.LoadProfile(ctx, "p1")
	if len(loaded.Entries) != 0 {
		t.Fatalf("expected deleted profile to be empty")
	}
}

func TestDeleteProfileRemovesEntries(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	for _, id := range []string{"p1", "p2"} {
		profile := ranking.NewProfile(id)
		profile.Submit(ranking.Entry{Hash: "a", PP: 200})
		profile.Submit(ranking.Entry{Hash: "b", PP: 100})

		if err := store.SaveProfile(ctx, profile); err != nil {
			t.Fatalf("save %s: %v", id, err)
		}
	}

	if existed, err := store.DeleteProfile(ctx, "p1"); err != nil || !existed {
		t.Fatalf("expected p1 to be deleted, got %v", err)
	}

	var orphans int
	if err := store.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM profile_entries WHERE player_id = ?", "p1").Scan(&orphans); err != nil {
		t.Fatalf("count entries: %v", err)
	}

	if orphans != 0 {
		t.Fatalf("expected no entries left for p1, got %d", orphans)
	}

	if other, _ := store.LoadProfile(ctx, "p2"); len(other.Entries) != 2 {
		t.Fatalf("expected p2 to be untouched, got %+v", other.Entries)
	}

	if existed, err := store.DeleteProfile(ctx, "p1"); err != nil || existed {
		t.Fatalf("expected second delete to report no profile, got %v / %v", existed, err)
	}
}

func TestWhitelist(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	hash := "0123456789ABCDEF0123456789abcdef"

	if ok, err := store.IsWhitelisted(ctx, hash); err != nil || ok {
		t.Fatalf("expected empty whitelist, got %v, %v", ok, err)
	}

	for i := 0; i < 2; i++ {
		if err := store.AddToWhitelist(ctx, hash); err != nil {
			t.Fatalf("add: %v", err)
		}
	}

	if ok, _ := store.IsWhitelisted(ctx, "0123456789abcdef0123456789ABCDEF"); !ok {
		t.Fatalf("expected whitelist lookups to ignore case")
	}

	list, err := store.Whitelist(ctx)
	if err != nil || len(list) != 1 {
		t.Fatalf("expected a single whitelisted hash, got %v, %v", list, err)
	}

	if removed, _ := store.RemoveFromWhitelist(ctx, hash); !removed {
		t.Fatalf("expected hash to be removed")
	}

	if removed, _ := store.RemoveFromWhitelist(ctx, hash); removed {
		t.Fatalf("expected second removal to report nothing")
	}
}

func TestReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "starpp.db")

	store, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	if err = store.AddToWhitelist(context.Background(), "abc"); err != nil {
		t.Fatalf("add: %v", err)
	}

	_ = store.Close()

	store, err = Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}

	defer store.Close()

	if ok, _ := store.IsWhitelisted(context.Background(), "abc"); !ok {
		t.Fatalf("expected whitelist to survive reopening")
	}
}
