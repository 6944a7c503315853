package api

// SkillAttributes is the rating breakdown of a single skill
type SkillAttributes struct {
	// Rating in stars after scaling
	Rating float64

	// Difficulty is the weighted sum of sorted section peaks
	Difficulty float64

	// Total is the unweighted sum of section peaks
	Total float64

	LengthBonus float64
}

type Attributes struct {
	// Total Star rating, visible on the beatmap page
	Total float64

	// Aim stars, needed for Performance Points (aka PP) calculations
	Aim float64

	// Speed stars, tap stars in droid mode
	Speed float64

	AimSkill   SkillAttributes
	SpeedSkill SkillAttributes

	// SingleCount is the number of notes spaced too far apart to be streamed
	SingleCount int

	// AboveThresholdCount is the number of circles and sliders at least the singletap threshold apart
	AboveThresholdCount int

	ObjectCount int
	Circles     int
	Sliders     int
	Spinners    int
	MaxCombo    int

	// Length of the map in ms, speed adjusted
	Length float64
}

// StrainPoint is one section of a strain chart
type StrainPoint struct {
	// Time is the end of the section in seconds
	Time float64

	// Strain is the average of aim and speed peaks of the section
	Strain float64
}

// StrainSeries contains per-section peaks of the aim and speed skills, as well as the averaged chart
type StrainSeries struct {
	Aim   []float64
	Speed []float64

	Points []StrainPoint
}

type PPv2Results struct {
	Aim, Speed, Acc, Total float64
}
