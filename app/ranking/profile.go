package ranking

import (
	"cmp"
	"math"
	"slices"
	"strings"
	"time"
)

const (
	// MaxEntries is the number of plays kept in a profile
	MaxEntries = 75

	// WeightBase is the per-rank weight of profile entries
	WeightBase = 0.95
)

// Entry is a single ranked play in a profile
type Entry struct {
	Hash      string    `json:"hash"`
	BeatmapID int       `json:"beatmap_id"`
	Title     string    `json:"title"`
	Mods      string    `json:"mods"`
	PP        float64   `json:"pp"`
	Combo     int       `json:"combo"`
	Accuracy  float64   `json:"accuracy"`
	Misses    int       `json:"misses"`
	SetAt     time.Time `json:"set_at"`
}

// Profile is a player's ranked list of at most MaxEntries plays, sorted by pp descending,
// with at most one entry per beatmap hash
type Profile struct {
	PlayerID string  `json:"player_id"`
	Entries  []Entry `json:"entries"`
	Total    float64 `json:"total"`

	index map[string]int
}

// Submission describes how one play changed a profile
type Submission struct {
	Entry Entry

	// OldIndex is -1 when the beatmap was not in the profile
	OldIndex int

	// NewIndex is -1 when the play did not make it into the profile
	NewIndex int

	OldContribution float64
	NewContribution float64

	// NetDelta is the change of this play's own weighted contribution
	NetDelta float64

	// TotalDelta is the change of the whole profile total, including shifted entries
	TotalDelta float64
}

func NewProfile(playerID string) *Profile {
	return &Profile{
		PlayerID: playerID,
		index:    make(map[string]int),
	}
}

// Weight returns the weight of the entry at the zero-based rank i
func Weight(i int) float64 {
	return math.Pow(WeightBase, float64(i))
}

func (p *Profile) weightedTotal() float64 {
	total := 0.0

	for i, e := range p.Entries {
		total += e.PP * Weight(i)
	}

	return total
}

// hashKey makes beatmap hashes compare case-insensitively
func hashKey(hash string) string {
	return strings.ToLower(hash)
}

func (p *Profile) reindex() {
	p.index = make(map[string]int, len(p.Entries))

	for i, e := range p.Entries {
		p.index[hashKey(e.Hash)] = i
	}
}

func (p *Profile) sortAndCap() {
	slices.SortStableFunc(p.Entries, func(a, b Entry) int {
		return cmp.Compare(b.PP, a.PP)
	})

	if len(p.Entries) > MaxEntries {
		p.Entries = p.Entries[:MaxEntries]
	}

	p.reindex()
}

// Recalculate recomputes the cached total from scratch
func (p *Profile) Recalculate() float64 {
	p.Total = p.weightedTotal()
	return p.Total
}

// IndexOf returns the rank of the entry with the given hash or -1
func (p *Profile) IndexOf(hash string) int {
	if len(p.index) != len(p.Entries) {
		p.reindex()
	}

	key := hashKey(hash)

	i, ok := p.index[key]
	if ok && (i >= len(p.Entries) || hashKey(p.Entries[i].Hash) != key) {
		p.reindex()
		i, ok = p.index[key]
	}

	if !ok {
		return -1
	}

	return i
}

// Submit replaces or adds the play for entry.Hash, then re-sorts and caps the profile.
// The profile must satisfy its invariants, see Repair.
func (p *Profile) Submit(entry Entry) Submission {
	// Entries may have been assigned directly since the last change
	p.reindex()

	before := p.weightedTotal()

	sub := Submission{
		Entry:    entry,
		OldIndex: p.IndexOf(entry.Hash),
		NewIndex: -1,
	}

	if sub.OldIndex >= 0 {
		sub.OldContribution = p.Entries[sub.OldIndex].PP * Weight(sub.OldIndex)
		p.Entries[sub.OldIndex] = entry
	} else {
		p.Entries = append(p.Entries, entry)
	}

	p.sortAndCap()

	if i, ok := p.index[hashKey(entry.Hash)]; ok {
		sub.NewIndex = i
		sub.NewContribution = entry.PP * Weight(i)
	}

	sub.NetDelta = sub.NewContribution - sub.OldContribution

	sub.TotalDelta = p.Recalculate() - before

	return sub
}

// Repair restores the profile invariants: sorted by pp, one entry per hash keeping the best one,
// at most MaxEntries. It reports whether anything had to change.
func (p *Profile) Repair() bool {
	original := slices.Clone(p.Entries)

	slices.SortStableFunc(p.Entries, func(a, b Entry) int {
		return cmp.Compare(b.PP, a.PP)
	})

	seen := make(map[string]struct{}, len(p.Entries))
	entries := p.Entries[:0]

	for _, e := range p.Entries {
		key := hashKey(e.Hash)
		if _, ok := seen[key]; ok {
			continue
		}

		seen[key] = struct{}{}
		entries = append(entries, e)
	}

	p.Entries = entries

	p.sortAndCap()

	oldTotal := p.Total
	p.Recalculate()

	return !slices.Equal(original, p.Entries) || oldTotal != p.Total
}
