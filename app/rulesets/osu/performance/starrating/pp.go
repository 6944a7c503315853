package starrating

import (
	"math"

	"github.com/starpp/starpp/app/beatmap/difficulty"
	"github.com/starpp/starpp/app/rulesets/osu/performance/api"
	"github.com/starpp/starpp/framework/math/mutils"
)

const (
	PerformanceBaseMultiplier float64 = 1.14
)

// DifficultyToPerformance converts a star rating of a single skill to its base pp
func DifficultyToPerformance(stars float64) float64 {
	return math.Pow(5*max(1, stars/StarScalingFactor)-4, 3) / 100000
}

/* ------------------------------------------------------------- */
/* pp calc                                                       */

// PPv2 : structure to store ppv2 values
type PPv2 struct {
	attribs api.Attributes

	scoreMaxCombo      int
	countGreat         int
	countOk            int
	countMeh           int
	countMiss          int
	effectiveMissCount float64

	diff *difficulty.Difficulty

	totalHits int
	accuracy  float64
}

func NewPPCalculator() *PPv2 {
	return &PPv2{}
}

// HitsFromAccuracy estimates judgement counts for a play that only reports accuracy and misses
func HitsFromAccuracy(objectCount int, acc float64, nmiss int) (n300, n100, n50 int) {
	nmiss = min(nmiss, objectCount)
	remaining := objectCount - nmiss

	if remaining <= 0 {
		return 0, 0, 0
	}

	acc = mutils.Clamp(acc, 0, 1)

	// acc = (6*n300 + 2*n100 + n50) / (6*objectCount), 100s are used before 50s
	target := acc * 6 * float64(objectCount)
	total := float64(remaining)

	if 6*total-target <= 4*total {
		n100 = mutils.Clamp(int(math.Round((6*total-target)/4)), 0, remaining)
		n300 = remaining - n100
	} else {
		n100 = mutils.Clamp(int(math.Round(target-total)), 0, remaining)
		n50 = remaining - n100
	}

	return
}

// Calculate computes pp of a play. combo < 0 means a full combo, n300 < 0 derives great hits
// from the object count.
func (pp *PPv2) Calculate(attribs api.Attributes, combo, n300, n100, n50, nmiss int, diff *difficulty.Difficulty) api.PPv2Results {
	attribs.MaxCombo = max(1, attribs.MaxCombo)

	if combo < 0 {
		combo = attribs.MaxCombo
	}

	if n300 < 0 {
		n300 = max(0, attribs.ObjectCount-n100-n50-nmiss)
	}

	pp.attribs = attribs
	pp.diff = diff
	pp.totalHits = n300 + n100 + n50 + nmiss
	pp.scoreMaxCombo = min(combo, attribs.MaxCombo)
	pp.countGreat = n300
	pp.countOk = n100
	pp.countMeh = n50
	pp.countMiss = nmiss
	pp.effectiveMissCount = pp.calculateEffectiveMissCount()

	pp.accuracy = 0
	if pp.totalHits > 0 {
		pp.accuracy = float64(n300*6+n100*2+n50) / float64(pp.totalHits*6)
	}

	multiplier := PerformanceBaseMultiplier

	if diff.Mods.Active(difficulty.NoFail) {
		multiplier *= max(0.90, 1.0-0.02*pp.effectiveMissCount)
	}

	if diff.Mods.Active(difficulty.SpunOut) && pp.totalHits > 0 {
		multiplier *= 1.0 - math.Pow(float64(attribs.Spinners)/float64(pp.totalHits), 0.85)
	}

	aimValue := pp.computeAimValue()
	speedValue := pp.computeSpeedValue()
	accValue := pp.computeAccuracyValue()

	total := math.Pow(
		math.Pow(aimValue, 1.1)+
			math.Pow(speedValue, 1.1)+
			math.Pow(accValue, 1.1),
		1.0/1.1,
	) * multiplier

	return api.PPv2Results{
		Aim:   aimValue,
		Speed: speedValue,
		Acc:   accValue,
		Total: total,
	}
}

func (pp *PPv2) lengthBonus() float64 {
	lengthBonus := 0.95 + 0.4*min(1.0, float64(pp.totalHits)/2000.0)
	if pp.totalHits > 2000 {
		lengthBonus += math.Log10(float64(pp.totalHits)/2000.0) * 0.5
	}

	return lengthBonus
}

func (pp *PPv2) computeAimValue() float64 {
	aimValue := DifficultyToPerformance(pp.attribs.Aim)

	// Longer maps are worth more
	lengthBonus := pp.lengthBonus()
	aimValue *= lengthBonus

	// Penalize misses by assessing # of misses relative to the total # of objects. Default a 3% reduction for any # of misses.
	if pp.effectiveMissCount > 0 {
		aimValue *= pp.calculateMissPenalty()
	}

	aimValue *= pp.getComboScalingFactor()

	approachRateFactor := 0.0
	if pp.diff.ARReal > 10.33 {
		approachRateFactor = 0.3 * (pp.diff.ARReal - 10.33)
	} else if pp.diff.ARReal < 8.0 {
		approachRateFactor = 0.05 * (8.0 - pp.diff.ARReal)
	}

	aimValue *= 1.0 + approachRateFactor*lengthBonus

	// We want to give more reward for lower AR when it comes to aim and HD. This nerfs high AR and buffs lower AR.
	if pp.diff.Mods.Active(difficulty.Hidden) {
		aimValue *= 1.0 + 0.04*(12.0-pp.diff.ARReal)
	}

	aimValue *= pp.accuracy
	// It is important to also consider accuracy difficulty when doing that
	aimValue *= 0.98 + math.Pow(pp.diff.ODReal, 2)/2500

	return aimValue
}

func (pp *PPv2) computeSpeedValue() float64 {
	if pp.diff.CheckModActive(difficulty.Relax) {
		return 0
	}

	speedValue := DifficultyToPerformance(pp.attribs.Speed)

	lengthBonus := pp.lengthBonus()
	speedValue *= lengthBonus

	if pp.effectiveMissCount > 0 {
		speedValue *= pp.calculateMissPenalty()
	}

	speedValue *= pp.getComboScalingFactor()

	approachRateFactor := 0.0
	if pp.diff.ARReal > 10.33 {
		approachRateFactor = 0.3 * (pp.diff.ARReal - 10.33)
	}

	speedValue *= 1.0 + approachRateFactor*lengthBonus

	if pp.diff.Mods.Active(difficulty.Hidden) {
		speedValue *= 1.0 + 0.04*(12.0-pp.diff.ARReal)
	}

	// Scale the speed value with accuracy and OD
	speedValue *= (0.95 + math.Pow(pp.diff.ODReal, 2)/750) * math.Pow(pp.accuracy, (14.5-max(pp.diff.ODReal, 8))/2)

	// Scale the speed value with # of 50s to punish doubletapping.
	if float64(pp.countMeh) >= float64(pp.totalHits)/500 {
		speedValue *= math.Pow(0.99, float64(pp.countMeh)-float64(pp.totalHits)/500.0)
	}

	return speedValue
}

func (pp *PPv2) computeAccuracyValue() float64 {
	if pp.diff.Mods.Active(difficulty.Relax) {
		return 0.0
	}

	circles := pp.attribs.Circles

	// This percentage only considers HitCircles of any value - in this part of the calculation we focus on hitting the timing hit window
	betterAccuracyPercentage := 0.0

	if circles > 0 {
		betterAccuracyPercentage = float64((pp.countGreat-(pp.totalHits-circles))*6+pp.countOk*2+pp.countMeh) / (float64(circles) * 6)
	}

	// It is possible to reach a negative accuracy with this formula. Cap it at zero - zero points
	betterAccuracyPercentage = max(0, betterAccuracyPercentage)

	// Lots of arbitrary values from testing.
	accuracyValue := math.Pow(1.52163, pp.diff.ODReal) * math.Pow(betterAccuracyPercentage, 24) * 2.83

	// Bonus for many hitcircles - it's harder to keep good accuracy up for longer
	accuracyValue *= min(1.15, math.Pow(float64(circles)/1000.0, 0.3))

	if pp.diff.Mods.Active(difficulty.Hidden) {
		accuracyValue *= 1.08
	}

	if pp.diff.Mods.Active(difficulty.Flashlight) {
		accuracyValue *= 1.02
	}

	return accuracyValue
}

func (pp *PPv2) calculateEffectiveMissCount() float64 {
	// guess the number of misses + slider breaks from combo
	comboBasedMissCount := 0.0

	if pp.attribs.Sliders > 0 {
		fullComboThreshold := float64(pp.attribs.MaxCombo) - 0.1*float64(pp.attribs.Sliders)
		if float64(pp.scoreMaxCombo) < fullComboThreshold {
			comboBasedMissCount = fullComboThreshold / max(1.0, float64(pp.scoreMaxCombo))
		}
	}

	// Clamp miss count to maximum amount of possible breaks
	comboBasedMissCount = min(comboBasedMissCount, float64(pp.countOk+pp.countMeh+pp.countMiss))

	return max(float64(pp.countMiss), comboBasedMissCount)
}

func (pp *PPv2) calculateMissPenalty() float64 {
	if pp.totalHits == 0 {
		return 1
	}

	return 0.97 * math.Pow(1-math.Pow(pp.effectiveMissCount/float64(pp.totalHits), 0.775), pp.effectiveMissCount)
}

func (pp *PPv2) getComboScalingFactor() float64 {
	if pp.attribs.MaxCombo <= 0 {
		return 1.0
	}

	return min(math.Pow(float64(pp.scoreMaxCombo), 0.8)/math.Pow(float64(pp.attribs.MaxCombo), 0.8), 1.0)
}
