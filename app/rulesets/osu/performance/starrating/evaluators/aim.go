package evaluators

import (
	"math"

	"github.com/starpp/starpp/app/rulesets/osu/performance/starrating/preprocessing"
)

const (
	aimAngleBonusBegin  = math.Pi / 3
	aimTimingThreshold  = 107.0
	aimAngleBonusOffset = 90.0
)

// EvaluateAim rates the spacing of the current jump plus the travel of a preceding slider,
// with a bonus for wide angles between consecutive jumps
func EvaluateAim(current *preprocessing.DifficultyObject) float64 {
	if current.IsSpinner {
		return 0
	}

	result := 0.0

	if prev := current.Previous(0); prev != nil && !math.IsNaN(current.Angle) && current.Angle > aimAngleBonusBegin {
		angleBonus := math.Sqrt(
			math.Max(prev.JumpDistance-aimAngleBonusOffset, 0) *
				math.Pow(math.Sin(current.Angle-aimAngleBonusBegin), 2) *
				math.Max(current.JumpDistance-aimAngleBonusOffset, 0),
		)

		result = 1.5 * applyDiminishingExp(math.Max(0, angleBonus)) / math.Max(aimTimingThreshold, prev.StrainTime)
	}

	jumpDistanceExp := applyDiminishingExp(current.JumpDistance)
	travelDistanceExp := applyDiminishingExp(current.TravelDistance)

	return math.Max(
		result+(jumpDistanceExp+travelDistanceExp+math.Sqrt(travelDistanceExp*jumpDistanceExp))/math.Max(current.StrainTime, aimTimingThreshold),
		(math.Sqrt(travelDistanceExp*jumpDistanceExp)+jumpDistanceExp+travelDistanceExp)/current.StrainTime,
	)
}

func applyDiminishingExp(val float64) float64 {
	return math.Pow(val, 0.99)
}
