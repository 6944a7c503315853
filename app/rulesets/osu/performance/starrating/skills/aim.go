package skills

import (
	"github.com/starpp/starpp/app/rulesets/osu/performance/starrating/evaluators"
	"github.com/starpp/starpp/app/rulesets/osu/performance/starrating/preprocessing"
)

const (
	aimSkillMultiplier float64 = 26.25
	aimStrainDecayBase float64 = 0.15
)

type AimSkill struct {
	*Skill
	CurrentStrain float64
}

func NewAimSkill() *AimSkill {
	skill := &AimSkill{Skill: NewSkill()}

	skill.StrainValueOf = skill.aimStrainValue
	skill.CalculateInitialStrain = skill.aimInitialStrain

	return skill
}

func (skill *AimSkill) aimInitialStrain(time float64, current *preprocessing.DifficultyObject) float64 {
	return skill.CurrentStrain * strainDecay(aimStrainDecayBase, time-current.StartTime)
}

func (skill *AimSkill) aimStrainValue(current *preprocessing.DifficultyObject) float64 {
	skill.CurrentStrain *= strainDecay(aimStrainDecayBase, current.DeltaTime)
	skill.CurrentStrain += evaluators.EvaluateAim(current) * aimSkillMultiplier

	return skill.CurrentStrain
}
