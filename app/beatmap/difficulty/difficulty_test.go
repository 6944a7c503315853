package difficulty

import (
	"math"
	"testing"
)

func TestParseMods(t *testing.T) {
	cases := []struct {
		in   string
		want Modifier
	}{
		{"", None},
		{"NM", None},
		{"HDDT", Hidden | DoubleTime},
		{"+hd,hr", Hidden | HardRock},
		{"NC", Nightcore | DoubleTime},
		{"td", TouchDevice},
		{"zzHD", Hidden},
		{"HDD", Hidden},
	}

	for _, c := range cases {
		if got := ParseMods(c.in); got != c.want {
			t.Fatalf("ParseMods(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestModsString(t *testing.T) {
	if s := (Hidden | DoubleTime | Nightcore).String(); s != "HDNC" {
		t.Fatalf("expected HDNC, got %q", s)
	}
	if s := None.String(); s != "" {
		t.Fatalf("expected empty string for no mods, got %q", s)
	}
}

func TestSpeedMultiplier(t *testing.T) {
	diff := NewDifficulty(5, 4, 8, 9)
	if diff.Speed != 1 {
		t.Fatalf("expected nomod speed 1, got %v", diff.Speed)
	}

	diff.SetMods(DoubleTime)
	if diff.Speed != 1.5 {
		t.Fatalf("expected DT speed 1.5, got %v", diff.Speed)
	}

	diff.SetCustomSpeed(1.2)
	if math.Abs(diff.Speed-1.8) > 1e-9 {
		t.Fatalf("expected combined speed 1.8, got %v", diff.Speed)
	}

	diff.SetCustomSpeed(-3)
	if diff.Speed != 1.5 {
		t.Fatalf("expected invalid custom speed to fall back to 1, got %v", diff.Speed)
	}
}

func TestHitWindows(t *testing.T) {
	diff := NewDifficulty(5, 4, 8, 9)
	if diff.Hit300U != 32 {
		t.Fatalf("expected standard great window 32, got %v", diff.Hit300U)
	}

	diff.SetMode(Droid)
	if diff.Hit300U != 60 {
		t.Fatalf("expected droid great window 60, got %v", diff.Hit300U)
	}

	diff.SetOldStatistics(true)
	if diff.Hit300U != 32 {
		t.Fatalf("expected legacy droid great window 32, got %v", diff.Hit300U)
	}
}

func TestHardRockCap(t *testing.T) {
	diff := NewDifficulty(5, 4, 9, 9)
	diff.SetMods(HardRock)

	if diff.ODReal != 10 || diff.ARReal != 10 {
		t.Fatalf("expected HR to cap OD/AR at 10, got %v/%v", diff.ODReal, diff.ARReal)
	}
	if math.Abs(diff.CSReal-5.2) > 1e-9 {
		t.Fatalf("expected HR CS 5.2, got %v", diff.CSReal)
	}
}
