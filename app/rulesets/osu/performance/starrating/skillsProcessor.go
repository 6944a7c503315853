package starrating

import (
	"github.com/starpp/starpp/app/beatmap/difficulty"
	"github.com/starpp/starpp/app/rulesets/osu/performance/starrating/preprocessing"
	"github.com/starpp/starpp/app/rulesets/osu/performance/starrating/skills"
)

// SkillsProcessor owns the skills of a single calculation and moves them through sections together
type SkillsProcessor struct {
	Aim   *skills.AimSkill
	Speed skills.StrainSkill
}

// NewSkillsProcessor picks the tap skill by mode: droid maps are rated with DroidTap, standard with Speed
func NewSkillsProcessor(d *difficulty.Difficulty) *SkillsProcessor {
	processor := &SkillsProcessor{
		Aim: skills.NewAimSkill(),
	}

	if d.Mode == difficulty.Droid {
		processor.Speed = skills.NewDroidTapSkill()
	} else {
		processor.Speed = skills.NewSpeedSkill()
	}

	return processor
}

func (processor *SkillsProcessor) all() []skills.StrainSkill {
	return []skills.StrainSkill{processor.Aim, processor.Speed}
}

func (processor *SkillsProcessor) Process(current *preprocessing.DifficultyObject) {
	for _, s := range processor.all() {
		s.Process(current)
	}
}

func (processor *SkillsProcessor) SaveCurrentPeak() {
	for _, s := range processor.all() {
		s.SaveCurrentPeak()
	}
}

func (processor *SkillsProcessor) StartNewSectionFrom(time float64) {
	for _, s := range processor.all() {
		s.StartNewSectionFrom(time)
	}
}
