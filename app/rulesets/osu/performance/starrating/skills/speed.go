package skills

import (
	"github.com/starpp/starpp/app/rulesets/osu/performance/starrating/evaluators"
	"github.com/starpp/starpp/app/rulesets/osu/performance/starrating/preprocessing"
)

const (
	speedSkillMultiplier float64 = 1400
	speedStrainDecayBase float64 = 0.3
)

type SpeedSkill struct {
	*Skill
	CurrentStrain float64
}

func NewSpeedSkill() *SpeedSkill {
	skill := &SpeedSkill{Skill: NewSkill()}

	skill.StrainValueOf = skill.speedStrainValue
	skill.CalculateInitialStrain = skill.speedInitialStrain

	return skill
}

func (skill *SpeedSkill) speedInitialStrain(time float64, current *preprocessing.DifficultyObject) float64 {
	return skill.CurrentStrain * strainDecay(speedStrainDecayBase, time-current.StartTime)
}

func (skill *SpeedSkill) speedStrainValue(current *preprocessing.DifficultyObject) float64 {
	skill.CurrentStrain *= strainDecay(speedStrainDecayBase, current.DeltaTime)
	skill.CurrentStrain += evaluators.EvaluateSpeed(current) * speedSkillMultiplier

	return skill.CurrentStrain
}
