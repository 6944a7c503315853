package evaluators

import (
	"math"

	"github.com/starpp/starpp/app/rulesets/osu/performance/starrating/preprocessing"
)

const (
	speedAngleBonusBegin = 5 * math.Pi / 6
	maxSpeedBonus        = 45.0
	speedBalancingFactor = 40.0

	// MinSpeedBonus is the tap interval in ms below which taps start getting a speed bonus
	MinSpeedBonus = 75.0
)

// EvaluateSpeed rates how fast the current note has to be tapped, scaled by its spacing
func EvaluateSpeed(current *preprocessing.DifficultyObject) float64 {
	if current.IsSpinner {
		return 0
	}

	distance := math.Min(preprocessing.SingleSpacingThreshold, current.TravelDistance+current.JumpDistance)
	deltaTime := math.Max(maxSpeedBonus, current.DeltaTime)

	speedBonus := 1.0
	if deltaTime < MinSpeedBonus {
		speedBonus = 1 + math.Pow((MinSpeedBonus-deltaTime)/speedBalancingFactor, 2)
	}

	angleBonus := 1.0

	if !math.IsNaN(current.Angle) && current.Angle < speedAngleBonusBegin {
		angleBonus = 1 + math.Pow(math.Sin(1.5*(speedAngleBonusBegin-current.Angle)), 2)/3.57

		if current.Angle < math.Pi/2 {
			angleBonus = 1.28

			if distance < 90 && current.Angle < math.Pi/4 {
				angleBonus += (1 - angleBonus) * math.Min((90-distance)/10, 1)
			} else if distance < 90 {
				angleBonus += (1 - angleBonus) * math.Min((90-distance)/10, 1) * math.Sin((math.Pi/2-current.Angle)/(math.Pi/4))
			}
		}
	}

	return (1 + (speedBonus-1)*0.75) * angleBonus * (0.95 + speedBonus*math.Pow(distance/preprocessing.SingleSpacingThreshold, 3.5)) / current.StrainTime
}
