package evaluators

import (
	"math"

	"github.com/starpp/starpp/app/rulesets/osu/performance/starrating/preprocessing"
	"github.com/starpp/starpp/framework/math/mutils"
)

const (
	tapSpeedBonusScale  = 0.75
	tapWindowRatioScale = 0.485
	tapMinWindowCap     = 0.92
	movementExponent    = 3.5
)

// AdjustedTapStrainTime nerfs a short gap right after a longer one and caps how much a tight
// hit window can inflate the strain of very fast taps
func AdjustedTapStrainTime(current *preprocessing.DifficultyObject) float64 {
	strainTime := current.StrainTime
	greatWindowFull := current.GreatWindow * 2
	speedWindowRatio := strainTime / greatWindowFull

	if prev := current.Previous(0); prev != nil && prev.StrainTime > strainTime && strainTime < greatWindowFull {
		strainTime = mutils.Lerp(prev.StrainTime, strainTime, speedWindowRatio)
	}

	return strainTime / mutils.Clamp(speedWindowRatio/tapWindowRatioScale, tapMinWindowCap, 1)
}

// SpeedBonus is 1 at and above MinSpeedBonus and grows quadratically below it
func SpeedBonus(strainTime float64) float64 {
	if strainTime >= MinSpeedBonus {
		return 1
	}

	return 1 + tapSpeedBonusScale*math.Pow((MinSpeedBonus-strainTime)/speedBalancingFactor, 2)
}

// EvaluateTap returns the raw tap and movement contributions of the current object
func EvaluateTap(current *preprocessing.DifficultyObject) (tap, movement float64) {
	if current.IsSpinner {
		return 0, 0
	}

	strainTime := AdjustedTapStrainTime(current)
	speedBonus := SpeedBonus(strainTime)

	distance := math.Min(preprocessing.SingleSpacingThreshold, current.JumpDistance+current.TravelDistance)

	tap = speedBonus / strainTime
	movement = speedBonus * math.Pow(distance/preprocessing.SingleSpacingThreshold, movementExponent) / strainTime

	return
}
