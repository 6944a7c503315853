package evaluators

import (
	"math"

	"github.com/starpp/starpp/app/rulesets/osu/performance/starrating/preprocessing"
)

const (
	HistoryLength    = 32
	historyTimeMax   = 5000.0
	rhythmMultiplier = 0.75
	maxIslandSize    = 7
)

// EvaluateRhythm scores the rhythmic complexity of the notes leading up to current.
// history must hold the previously processed objects, most recent first, without current.
// The result is a multiplier in [1, inf).
func EvaluateRhythm(current *preprocessing.DifficultyObject, history *preprocessing.ObjectHistory) float64 {
	if current.IsSpinner {
		return 1
	}

	previousIslandSize := 0
	rhythmComplexitySum := 0.0
	islandSize := 1

	// ratio at the start of the current island, tighter rhythms get more
	startRatio := 0.0
	firstDeltaSwitch := false

	greatWindow := math.Max(current.GreatWindow, 1)
	count := history.Len()

	for i := count - 2; i > 0; i-- {
		currObj := history.Get(i - 1)
		prevObj := history.Get(i)
		lastObj := history.Get(i + 1)

		currHistoricalDecay := math.Max(0, historyTimeMax-(current.StartTime-currObj.StartTime)) / historyTimeMax

		if currHistoricalDecay == 0 {
			continue
		}

		// limited either by time or by object count
		currHistoricalDecay = math.Min(float64(count-i)/float64(count), currHistoricalDecay)

		currDelta := currObj.StrainTime
		prevDelta := prevObj.StrainTime
		lastDelta := lastObj.StrainTime

		currRatio := 1.0 + 6.0*math.Min(0.5, math.Pow(math.Sin(math.Pi/(math.Min(prevDelta, currDelta)/math.Max(prevDelta, currDelta))), 2))

		windowPenalty := math.Min(1, math.Max(0, math.Abs(prevDelta-currDelta)-greatWindow*0.6)/(greatWindow*0.6))

		effectiveRatio := windowPenalty * currRatio

		if firstDeltaSwitch {
			if !(prevDelta > 1.25*currDelta || prevDelta*1.25 < currDelta) {
				if islandSize < maxIslandSize {
					islandSize++
				}
			} else {
				// speed change into a slider is an easy accuracy window
				if currObj.IsSlider {
					effectiveRatio *= 0.125
				}

				// coming out of a slider is easier than circle to circle
				if prevObj.IsSlider {
					effectiveRatio *= 0.25
				}

				// repeated island size, triplet into triplet
				if previousIslandSize == islandSize {
					effectiveRatio *= 0.25
				}

				// repeated island parity, 2 into 4 or 3 into 5
				if previousIslandSize%2 == islandSize%2 {
					effectiveRatio *= 0.5
				}

				// the acceleration happened a note ago, 1/1 -> 1/2 -> 1/4
				if lastDelta > prevDelta+10 && prevDelta > currDelta+10 {
					effectiveRatio *= 0.125
				}

				rhythmComplexitySum += math.Sqrt(effectiveRatio*startRatio) * currHistoricalDecay *
					math.Sqrt(4+float64(islandSize)) / 2 * math.Sqrt(4+float64(previousIslandSize)) / 2

				startRatio = effectiveRatio
				previousIslandSize = islandSize

				// slowing down ends the island, speeding up keeps counting
				if prevDelta*1.25 < currDelta {
					firstDeltaSwitch = false
				}

				islandSize = 1
			}
		} else if prevDelta > 1.25*currDelta {
			firstDeltaSwitch = true
			startRatio = effectiveRatio
			islandSize = 1
		}
	}

	return math.Sqrt(4+math.Max(0, rhythmComplexitySum)*rhythmMultiplier) / 2
}
