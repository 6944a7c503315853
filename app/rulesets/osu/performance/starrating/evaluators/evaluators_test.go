package evaluators

import (
	"math"
	"testing"

	"github.com/starpp/starpp/app/beatmap/difficulty"
	"github.com/starpp/starpp/app/beatmap/objects"
	"github.com/starpp/starpp/app/rulesets/osu/performance/starrating/preprocessing"
	"github.com/starpp/starpp/framework/math/vector"
)

func diffObjects(times []float64, spacing float32) []*preprocessing.DifficultyObject {
	objs := make([]objects.IHitObject, 0, len(times))
	for i, t := range times {
		objs = append(objs, objects.NewCircle(t, vector.NewVec2f(100+float32(i%2)*spacing, 100), false))
	}

	return preprocessing.CreateDifficultyObjects(objs, difficulty.NewDifficulty(5, 4, 8, 9))
}

func TestSpeedBonusBoundary(t *testing.T) {
	if b := SpeedBonus(MinSpeedBonus); b != 1 {
		t.Fatalf("expected no bonus at %v ms, got %v", MinSpeedBonus, b)
	}

	if b := SpeedBonus(74); b <= 1 {
		t.Fatalf("expected bonus below %v ms, got %v", MinSpeedBonus, b)
	}

	if b := SpeedBonus(200); b != 1 {
		t.Fatalf("expected no bonus for slow taps, got %v", b)
	}
}

func TestRhythmMonotoneStream(t *testing.T) {
	times := make([]float64, 40)
	for i := range times {
		times[i] = float64(i) * 100
	}

	history := preprocessing.NewObjectHistory(HistoryLength)

	for _, o := range diffObjects(times, 30) {
		if r := EvaluateRhythm(o, history); math.Abs(r-1) > 1e-12 {
			t.Fatalf("expected monotone stream to have no rhythm bonus, got %v at %d", r, o.Index)
		}

		history.Push(o)
	}
}

func TestRhythmAtLeastOne(t *testing.T) {
	times := []float64{0}
	gaps := []float64{200, 100, 100, 100, 50, 50, 150, 75, 75, 300, 60, 60, 60, 120, 90, 45, 45, 45, 180}

	for i := 0; i < 60; i++ {
		times = append(times, times[len(times)-1]+gaps[i%len(gaps)])
	}

	history := preprocessing.NewObjectHistory(HistoryLength)
	highest := 0.0

	for _, o := range diffObjects(times, 80) {
		r := EvaluateRhythm(o, history)
		if r < 1 || math.IsNaN(r) {
			t.Fatalf("rhythm bonus %v below 1 at %d", r, o.Index)
		}

		highest = math.Max(highest, r)

		history.Push(o)
	}

	if highest <= 1.05 {
		t.Fatalf("expected irregular rhythm to earn a bonus, highest was %v", highest)
	}
}

func TestAdjustedTapStrainTime(t *testing.T) {
	// OD 8 gives a great window of 32ms, so the full window is 64ms
	tests := []struct {
		name  string
		times []float64
		want  float64
	}{
		{"short gap after a long one", []float64{0, 200, 240}, 100},
		{"long gap after a short one", []float64{0, 100, 300}, 200},
		{"short gap outside the full window", []float64{0, 300, 400}, 100},
		{"tight window capped", []float64{0, 25, 50}, 25 / 0.92},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			objs := diffObjects(tt.times, 0)

			if got := AdjustedTapStrainTime(objs[1]); math.Abs(got-tt.want) > 1e-9 {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestEvaluateTap(t *testing.T) {
	objs := diffObjects([]float64{0, 100, 200}, 0)

	tap, movement := EvaluateTap(objs[1])
	if tap <= 0 {
		t.Fatalf("expected positive tap strain, got %v", tap)
	}

	if movement != 0 {
		t.Fatalf("expected stacked notes to have no movement strain, got %v", movement)
	}

	spaced := diffObjects([]float64{0, 100, 200}, 200)

	_, movement = EvaluateTap(spaced[1])
	if math.Abs(movement-tap) > 1e-9 {
		t.Fatalf("expected full movement strain past the single spacing threshold, got %v want %v", movement, tap)
	}
}

func TestSpinnerEvaluatesToZero(t *testing.T) {
	objs := preprocessing.CreateDifficultyObjects([]objects.IHitObject{
		objects.NewCircle(0, vector.NewVec2f(0, 0), false),
		objects.NewSpinner(500, 1500),
	}, difficulty.NewDifficulty(5, 4, 8, 9))

	if EvaluateAim(objs[0]) != 0 || EvaluateSpeed(objs[0]) != 0 {
		t.Fatalf("expected spinner to contribute nothing")
	}

	if tap, movement := EvaluateTap(objs[0]); tap != 0 || movement != 0 {
		t.Fatalf("expected spinner to contribute no tap strain")
	}

	if r := EvaluateRhythm(objs[0], preprocessing.NewObjectHistory(HistoryLength)); r != 1 {
		t.Fatalf("expected spinner rhythm of 1, got %v", r)
	}
}

func TestAimGrowsWithDistance(t *testing.T) {
	near := diffObjects([]float64{0, 200, 400}, 50)
	far := diffObjects([]float64{0, 200, 400}, 250)

	if EvaluateAim(near[1]) >= EvaluateAim(far[1]) {
		t.Fatalf("expected wider jumps to be harder to aim")
	}
}
