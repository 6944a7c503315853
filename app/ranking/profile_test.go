package ranking

import (
	"fmt"
	"math"
	"testing"
)

func entry(hash string, pp float64) Entry {
	return Entry{Hash: hash, Title: hash, PP: pp}
}

func filled(n int) *Profile {
	p := NewProfile("player")
	for i := 0; i < n; i++ {
		p.Submit(entry(fmt.Sprintf("map%03d", i), float64(100+i)))
	}

	return p
}

func checkInvariants(t *testing.T, p *Profile) {
	t.Helper()

	if len(p.Entries) > MaxEntries {
		t.Fatalf("profile has %d entries", len(p.Entries))
	}

	seen := make(map[string]bool)

	for i, e := range p.Entries {
		if i > 0 && p.Entries[i-1].PP < e.PP {
			t.Fatalf("profile not sorted at %d", i)
		}

		if seen[e.Hash] {
			t.Fatalf("duplicate hash %s", e.Hash)
		}

		seen[e.Hash] = true
	}
}

func TestWeightedTotal(t *testing.T) {
	p := NewProfile("player")
	p.Entries = []Entry{entry("a", 300), entry("b", 200), entry("c", 100)}

	if total := p.Recalculate(); math.Abs(total-580.25) > 0.01 {
		t.Fatalf("expected 580.25, got %v", total)
	}
}

func TestSubmitDeduplicates(t *testing.T) {
	p := NewProfile("player")

	p.Submit(entry("a", 150))
	p.Submit(entry("b", 120))
	sub := p.Submit(entry("a", 90))

	if len(p.Entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(p.Entries))
	}

	if i := p.IndexOf("a"); i != 1 || p.Entries[i].PP != 90 {
		t.Fatalf("expected the later play to replace the earlier one, got %+v", p.Entries)
	}

	if sub.OldIndex != 0 || sub.NewIndex != 1 {
		t.Fatalf("unexpected indices %d -> %d", sub.OldIndex, sub.NewIndex)
	}

	want := 90*WeightBase - 150
	if math.Abs(sub.NetDelta-want) > 1e-9 {
		t.Fatalf("expected net delta %v, got %v", want, sub.NetDelta)
	}

	checkInvariants(t, p)
}

func TestSubmitCapsProfile(t *testing.T) {
	p := filled(100)

	if len(p.Entries) != MaxEntries {
		t.Fatalf("expected %d entries, got %d", MaxEntries, len(p.Entries))
	}

	if p.Entries[0].PP != 199 || p.Entries[MaxEntries-1].PP != 125 {
		t.Fatalf("expected the best %d plays to be kept", MaxEntries)
	}

	checkInvariants(t, p)
}

func TestFullProfileDropsLowest(t *testing.T) {
	p := filled(MaxEntries)
	lowest := p.Entries[MaxEntries-1]

	sub := p.Submit(entry("new", 500))

	if len(p.Entries) != MaxEntries {
		t.Fatalf("expected length to stay %d, got %d", MaxEntries, len(p.Entries))
	}

	if p.IndexOf(lowest.Hash) != -1 {
		t.Fatalf("expected lowest entry %s to be removed", lowest.Hash)
	}

	if sub.NewIndex != 0 || sub.NetDelta != 500 {
		t.Fatalf("expected new top play worth 500, got index %d delta %v", sub.NewIndex, sub.NetDelta)
	}

	checkInvariants(t, p)
}

func TestSubmitBelowFullProfile(t *testing.T) {
	p := filled(MaxEntries)
	before := p.Total

	sub := p.Submit(entry("low", 1))

	if sub.NewIndex != -1 || sub.NetDelta != 0 || sub.TotalDelta != 0 {
		t.Fatalf("expected play below the cap to change nothing, got %+v", sub)
	}

	if p.Total != before || p.IndexOf("low") != -1 {
		t.Fatalf("expected profile to be unchanged")
	}
}

func TestDeltaReconciliation(t *testing.T) {
	p := filled(40)
	previous := p.Total

	plays := []Entry{
		entry("map010", 400),
		entry("fresh1", 250),
		entry("map039", 20),
		entry("fresh2", 131.5),
		entry("fresh1", 260),
	}

	sum := 0.0
	for _, e := range plays {
		sum += p.Submit(e).TotalDelta
	}

	if math.Abs(previous+sum-p.Total) > 1e-6 {
		t.Fatalf("expected %v + %v to equal %v", previous, sum, p.Total)
	}

	if math.Abs(p.Total-p.weightedTotal()) > 1e-9 {
		t.Fatalf("cached total drifted from the entries")
	}

	checkInvariants(t, p)
}

func TestRepair(t *testing.T) {
	p := NewProfile("player")
	p.Entries = []Entry{entry("a", 10), entry("b", 50), entry("a", 30)}

	for i := 0; i < 80; i++ {
		p.Entries = append(p.Entries, entry(fmt.Sprintf("x%d", i), 5))
	}

	if !p.Repair() {
		t.Fatalf("expected repair to report changes")
	}

	checkInvariants(t, p)

	if len(p.Entries) != MaxEntries {
		t.Fatalf("expected %d entries, got %d", MaxEntries, len(p.Entries))
	}

	if i := p.IndexOf("a"); i != 1 || p.Entries[i].PP != 30 {
		t.Fatalf("expected the best duplicate to be kept")
	}

	if p.Repair() {
		t.Fatalf("expected a repaired profile to be left alone")
	}
}

func TestSubmitAfterAssigningEntries(t *testing.T) {
	p := NewProfile("player")
	p.Entries = []Entry{entry("a", 200), entry("b", 100)}

	sub := p.Submit(entry("a", 150))

	if len(p.Entries) != 2 || p.Entries[0].Hash != "a" || p.Entries[0].PP != 150 {
		t.Fatalf("expected a to be replaced, got %+v", p.Entries)
	}

	if sub.OldIndex != 0 || sub.NewIndex != 0 {
		t.Fatalf("expected rank 0 -> 0, got %d -> %d", sub.OldIndex, sub.NewIndex)
	}

	checkInvariants(t, p)
}

func TestSubmitIgnoresHashCase(t *testing.T) {
	p := NewProfile("player")

	p.Submit(entry("ABCDEF", 100))
	sub := p.Submit(entry("abcdef", 120))

	if len(p.Entries) != 1 || p.Entries[0].PP != 120 {
		t.Fatalf("expected one entry with 120pp, got %+v", p.Entries)
	}

	if sub.OldIndex != 0 || p.IndexOf("AbCdEf") != 0 {
		t.Fatalf("expected hash lookups to ignore case")
	}

	p.Entries = append(p.Entries, entry("ABCDEF", 90))

	if !p.Repair() || len(p.Entries) != 1 {
		t.Fatalf("expected repair to drop the differently cased duplicate, got %+v", p.Entries)
	}
}

func TestPlayEntryLowercasesHash(t *testing.T) {
	e := Play{Hash: "ABCDEF", Mods: "HD"}.Entry(7, "title", 100)

	if e.Hash != "abcdef" || e.BeatmapID != 7 || e.PP != 100 {
		t.Fatalf("unexpected entry %+v", e)
	}
}
