package ranking

import (
	"strings"
	"time"
)

// Play is a submitted play. PP is 0 when it still has to be calculated.
type Play struct {
	Hash     string    `json:"hash"`
	Mods     string    `json:"mods"`
	MaxCombo int       `json:"max_combo"`
	Accuracy float64   `json:"accuracy"`
	Misses   int       `json:"misses"`
	PP       float64   `json:"pp"`
	SetAt    time.Time `json:"set_at"`
}

// Entry builds the profile entry for the play on the given beatmap. The hash is lowercased.
func (play Play) Entry(beatmapID int, title string, pp float64) Entry {
	return Entry{
		Hash:      strings.ToLower(play.Hash),
		BeatmapID: beatmapID,
		Title:     title,
		Mods:      play.Mods,
		PP:        pp,
		Combo:     play.MaxCombo,
		Accuracy:  play.Accuracy,
		Misses:    play.Misses,
		SetAt:     play.SetAt,
	}
}
