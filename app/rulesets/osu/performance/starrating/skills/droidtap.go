package skills

import (
	"github.com/starpp/starpp/app/rulesets/osu/performance/starrating/evaluators"
	"github.com/starpp/starpp/app/rulesets/osu/performance/starrating/preprocessing"
)

const (
	droidTapSkillMultiplier float64 = 1375
	droidTapStrainDecayBase float64 = 0.3
)

// DroidTapSkill tracks tap and movement strain separately and rewards irregular rhythms on the tap side
type DroidTapSkill struct {
	*Skill

	TapStrain      float64
	MovementStrain float64

	history *preprocessing.ObjectHistory
	rhythm  float64
}

func NewDroidTapSkill() *DroidTapSkill {
	skill := &DroidTapSkill{
		Skill:   NewSkill(),
		history: preprocessing.NewObjectHistory(evaluators.HistoryLength),
		rhythm:  1,
	}

	skill.StrainValueOf = skill.tapStrainValue
	skill.CalculateInitialStrain = skill.tapInitialStrain

	return skill
}

func (skill *DroidTapSkill) tapInitialStrain(time float64, current *preprocessing.DifficultyObject) float64 {
	return (skill.TapStrain*skill.rhythm + skill.MovementStrain) * strainDecay(droidTapStrainDecayBase, time-current.StartTime)
}

func (skill *DroidTapSkill) tapStrainValue(current *preprocessing.DifficultyObject) float64 {
	decay := strainDecay(droidTapStrainDecayBase, current.DeltaTime)

	tap, movement := evaluators.EvaluateTap(current)

	skill.TapStrain = skill.TapStrain*decay + tap*droidTapSkillMultiplier
	skill.MovementStrain = skill.MovementStrain*decay + movement*droidTapSkillMultiplier

	skill.rhythm = evaluators.EvaluateRhythm(current, skill.history)
	skill.history.Push(current)

	current.TapStrain = skill.TapStrain
	current.MovementStrain = skill.MovementStrain
	current.RhythmMultiplier = skill.rhythm

	return skill.MovementStrain + skill.TapStrain*skill.rhythm
}
