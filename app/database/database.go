package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/starpp/starpp/app/ranking"
)

const databaseVersion = 1

// Store keeps pp profiles and the beatmap whitelist in a SQLite database
type Store struct {
	db *sql.DB
}

// Open opens or creates the database at path and applies migrations
func Open(path string) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, err
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	// sqlite allows a single writer, serialising here avoids SQLITE_BUSY
	db.SetMaxOpenConns(1)

	store := &Store{db: db}

	if err = store.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate %s: %w", path, err)
	}

	return store, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	var version int
	if err := s.db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return err
	}

	if version >= databaseVersion {
		return nil
	}

	log.Println("Migrating database to version", databaseVersion)

	stmts := []string{
		`CREATE TABLE IF NOT EXISTS profiles (
			player_id TEXT PRIMARY KEY,
			total REAL NOT NULL,
			updated_at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS profile_entries (
			player_id TEXT NOT NULL,
			rank INTEGER NOT NULL,
			hash TEXT NOT NULL,
			beatmap_id INTEGER NOT NULL,
			title TEXT NOT NULL,
			mods TEXT NOT NULL,
			pp REAL NOT NULL,
			combo INTEGER NOT NULL,
			accuracy REAL NOT NULL,
			misses INTEGER NOT NULL,
			set_at TEXT NOT NULL,
			PRIMARY KEY (player_id, rank)
		);`,
		`CREATE TABLE IF NOT EXISTS whitelist (
			hash TEXT PRIMARY KEY,
			added_at TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_profile_entries_hash ON profile_entries(hash);`,
		fmt.Sprintf("PRAGMA user_version = %d;", databaseVersion),
	}

	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}

	return nil
}

// LoadProfile returns the stored profile, or an empty one for unknown players.
// Entries are returned as stored; callers repair them before mutating.
func (s *Store) LoadProfile(ctx context.Context, playerID string) (*ranking.Profile, error) {
	profile := ranking.NewProfile(playerID)

	err := s.db.QueryRowContext(ctx, "SELECT total FROM profiles WHERE player_id = ?", playerID).Scan(&profile.Total)
	if errors.Is(err, sql.ErrNoRows) {
		return profile, nil
	} else if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT hash, beatmap_id, title, mods, pp, combo, accuracy, misses, set_at
		 FROM profile_entries WHERE player_id = ? ORDER BY rank`, playerID)
	if err != nil {
		return nil, err
	}

	defer rows.Close()

	for rows.Next() {
		var e ranking.Entry
		var setAt string

		if err = rows.Scan(&e.Hash, &e.BeatmapID, &e.Title, &e.Mods, &e.PP, &e.Combo, &e.Accuracy, &e.Misses, &setAt); err != nil {
			return nil, err
		}

		if setAt != "" {
			if e.SetAt, err = time.Parse(time.RFC3339Nano, setAt); err != nil {
				return nil, fmt.Errorf("entry %s: %w", e.Hash, err)
			}
		}

		profile.Entries = append(profile.Entries, e)
	}

	return profile, rows.Err()
}

// SaveProfile replaces the stored profile in a single transaction
func (s *Store) SaveProfile(ctx context.Context, profile *ranking.Profile) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO profiles (player_id, total, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(player_id) DO UPDATE SET total = excluded.total, updated_at = excluded.updated_at`,
		profile.PlayerID, profile.Total, time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return err
	}

	if _, err = tx.ExecContext(ctx, "DELETE FROM profile_entries WHERE player_id = ?", profile.PlayerID); err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO profile_entries (player_id, rank, hash, beatmap_id, title, mods, pp, combo, accuracy, misses, set_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}

	defer stmt.Close()

	for i, e := range profile.Entries {
		setAt := ""
		if !e.SetAt.IsZero() {
			setAt = e.SetAt.UTC().Format(time.RFC3339Nano)
		}

		if _, err = stmt.ExecContext(ctx, profile.PlayerID, i, e.Hash, e.BeatmapID, e.Title, e.Mods, e.PP, e.Combo, e.Accuracy, e.Misses, setAt); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// DeleteProfile removes a player's profile and its entries in a single transaction,
// it reports whether one existed
func (s *Store) DeleteProfile(ctx context.Context, playerID string) (existed bool, err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}

	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	res, err := tx.ExecContext(ctx, "DELETE FROM profiles WHERE player_id = ?", playerID)
	if err != nil {
		return false, err
	}

	if _, err = tx.ExecContext(ctx, "DELETE FROM profile_entries WHERE player_id = ?", playerID); err != nil {
		return false, err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}

	if err = tx.Commit(); err != nil {
		return false, err
	}

	return n > 0, nil
}

func normalizeHash(hash string) string {
	return strings.ToLower(strings.TrimSpace(hash))
}

func (s *Store) IsWhitelisted(ctx context.Context, hash string) (bool, error) {
	var count int

	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM whitelist WHERE hash = ?", normalizeHash(hash)).Scan(&count)

	return count > 0, err
}

func (s *Store) AddToWhitelist(ctx context.Context, hash string) error {
	_, err := s.db.ExecContext(ctx, "INSERT OR IGNORE INTO whitelist (hash, added_at) VALUES (?, ?)",
		normalizeHash(hash), time.Now().UTC().Format(time.RFC3339Nano))

	return err
}

// RemoveFromWhitelist reports whether the hash was whitelisted
func (s *Store) RemoveFromWhitelist(ctx context.Context, hash string) (bool, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM whitelist WHERE hash = ?", normalizeHash(hash))
	if err != nil {
		return false, err
	}

	n, err := res.RowsAffected()

	return n > 0, err
}

func (s *Store) Whitelist(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT hash FROM whitelist ORDER BY added_at, hash")
	if err != nil {
		return nil, err
	}

	defer rows.Close()

	hashes := make([]string, 0)

	for rows.Next() {
		var h string
		if err = rows.Scan(&h); err != nil {
			return nil, err
		}

		hashes = append(hashes, h)
	}

	return hashes, rows.Err()
}
