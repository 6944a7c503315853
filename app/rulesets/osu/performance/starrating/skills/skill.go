package skills

import (
	"math"
	"slices"

	"github.com/starpp/starpp/app/rulesets/osu/performance/starrating/preprocessing"
)

// DefaultDecayWeight is the per-rank weight applied to sorted section peaks
const DefaultDecayWeight = 0.9

// StrainSkill is the contract the timeline aggregator drives every skill through
type StrainSkill interface {
	Process(current *preprocessing.DifficultyObject)
	SaveCurrentPeak()
	StartNewSectionFrom(time float64)
	DifficultyValue() (difficulty, total float64)
	GetCurrentStrainPeaks() []float64
}

// Skill holds the section bookkeeping shared by all strain skills.
// Variants plug their strain formula in through StrainValueOf and CalculateInitialStrain.
type Skill struct {
	// Weight of each consecutive peak after sorting, hardest first
	DecayWeight float64

	// Returns the strain after folding in current
	StrainValueOf func(current *preprocessing.DifficultyObject) float64

	// Returns the strain the previous object would have decayed to by time
	CalculateInitialStrain func(time float64, current *preprocessing.DifficultyObject) float64

	currentSectionPeak float64
	strainPeaks        []float64

	lastObject *preprocessing.DifficultyObject
}

func NewSkill() *Skill {
	return &Skill{
		DecayWeight: DefaultDecayWeight,
		strainPeaks: make([]float64, 0, 64),
	}
}

// Process folds current into the strain of the running section
func (skill *Skill) Process(current *preprocessing.DifficultyObject) {
	skill.currentSectionPeak = math.Max(skill.StrainValueOf(current), skill.currentSectionPeak)
	skill.lastObject = current
}

// SaveCurrentPeak closes the running section
func (skill *Skill) SaveCurrentPeak() {
	skill.strainPeaks = append(skill.strainPeaks, skill.currentSectionPeak)
}

// StartNewSectionFrom seeds the next section with the strain decayed up to time.
// time is in the same speed adjusted scale as DifficultyObject.StartTime.
func (skill *Skill) StartNewSectionFrom(time float64) {
	if skill.lastObject == nil {
		skill.currentSectionPeak = 0
		return
	}

	skill.currentSectionPeak = skill.CalculateInitialStrain(time, skill.lastObject)
}

// DifficultyValue returns the weighted sum of sorted peaks and their plain sum
func (skill *Skill) DifficultyValue() (difficulty, total float64) {
	peaks := make([]float64, 0, len(skill.strainPeaks))

	for _, p := range skill.strainPeaks {
		if p > 0 {
			peaks = append(peaks, p)
			total += p
		}
	}

	slices.SortFunc(peaks, func(a, b float64) int {
		switch {
		case a > b:
			return -1
		case a < b:
			return 1
		}

		return 0
	})

	weight := 1.0

	for _, strain := range peaks {
		difficulty += strain * weight
		weight *= skill.DecayWeight

		if weight < 1e-12 {
			break
		}
	}

	return
}

// GetCurrentStrainPeaks returns saved peaks in section order plus the running section
func (skill *Skill) GetCurrentStrainPeaks() []float64 {
	peaks := make([]float64, len(skill.strainPeaks), len(skill.strainPeaks)+1)
	copy(peaks, skill.strainPeaks)

	return append(peaks, skill.currentSectionPeak)
}

// SavedPeaks returns the closed section peaks in section order
func (skill *Skill) SavedPeaks() []float64 {
	return slices.Clone(skill.strainPeaks)
}

func strainDecay(base, ms float64) float64 {
	return math.Pow(base, ms/1000)
}
