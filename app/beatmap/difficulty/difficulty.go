package difficulty

import (
	"math"
)

// Mode selects which ruleset flavour the calculation targets
type Mode int

const (
	Standard Mode = iota
	Droid
)

func (m Mode) String() string {
	if m == Droid {
		return "droid"
	}

	return "osu"
}

func ParseMode(s string) Mode {
	switch s {
	case "droid", "osudroid", "touch":
		return Droid
	}

	return Standard
}

const (
	HitFadeIn = 400.0
)

type Difficulty struct {
	Mode Mode

	hpDrain           float64
	circleSize        float64
	overallDifficulty float64
	approachRate      float64

	// Stats with mods applied, before speed adjustment
	HPReal float64
	CSReal float64
	ODReal float64
	ARReal float64

	// Unscaled timings in ms
	PreemptU   float64
	TimeFadeIn float64
	Hit300U    float64
	Hit100U    float64
	Hit50U     float64

	CircleRadiusU float64

	Mods  Modifier
	Speed float64

	customSpeed   float64
	oldStatistics bool
}

func NewDifficulty(hp, cs, od, ar float64) *Difficulty {
	diff := &Difficulty{
		hpDrain:           hp,
		circleSize:        cs,
		overallDifficulty: od,
		approachRate:      ar,
		customSpeed:       1,
	}

	diff.calculate()

	return diff
}

func (diff *Difficulty) calculate() {
	hp, cs, od, ar := diff.hpDrain, diff.circleSize, diff.overallDifficulty, diff.approachRate

	if diff.Mods.Active(HardRock) {
		hp = math.Min(hp*1.4, 10)
		cs = math.Min(cs*1.3, 10)
		od = math.Min(od*1.4, 10)
		ar = math.Min(ar*1.4, 10)
	}

	if diff.Mods.Active(Easy) {
		hp /= 2
		cs /= 2
		od /= 2
		ar /= 2
	}

	diff.HPReal = hp
	diff.CSReal = cs
	diff.ODReal = od
	diff.ARReal = ar

	diff.CircleRadiusU = 54.4 - 4.48*cs
	diff.PreemptU = DifficultyRate(ar, 1800, 1200, 450)
	diff.TimeFadeIn = HitFadeIn * math.Min(1, diff.PreemptU/450)

	if diff.Mode == Droid && !diff.oldStatistics {
		diff.Hit300U = 75 + 5*(5-od)
		diff.Hit100U = 150 + 10*(5-od)
		diff.Hit50U = 250 + 10*(5-od)
	} else {
		diff.Hit300U = 80 - 6*od
		diff.Hit100U = 140 - 8*od
		diff.Hit50U = 200 - 10*od
	}

	diff.Speed = diff.Mods.SpeedMultiplier() * diff.customSpeed
}

func (diff *Difficulty) SetMods(mods Modifier) {
	diff.Mods = mods
	diff.calculate()
}

func (diff *Difficulty) SetMode(mode Mode) {
	diff.Mode = mode
	diff.calculate()
}

// SetCustomSpeed sets a rate multiplier applied on top of DT/HT, values <= 0 reset it
func (diff *Difficulty) SetCustomSpeed(speed float64) {
	if speed <= 0 {
		speed = 1
	}

	diff.customSpeed = speed
	diff.calculate()
}

func (diff *Difficulty) GetCustomSpeed() float64 {
	return diff.customSpeed
}

// SetOldStatistics switches droid mode to the legacy (standard) hit windows
func (diff *Difficulty) SetOldStatistics(old bool) {
	diff.oldStatistics = old
	diff.calculate()
}

func (diff *Difficulty) CheckModActive(mods Modifier) bool {
	return diff.Mods&mods > 0
}

func (diff *Difficulty) GetHPDrain() float64 {
	return diff.hpDrain
}

func (diff *Difficulty) GetCS() float64 {
	return diff.circleSize
}

func (diff *Difficulty) GetOD() float64 {
	return diff.overallDifficulty
}

func (diff *Difficulty) GetAR() float64 {
	return diff.approachRate
}

func (diff *Difficulty) Clone() *Difficulty {
	diff2 := *diff
	return &diff2
}

func DifficultyRate(diff, min, mid, max float64) float64 {
	if diff > 5 {
		return mid + (max-mid)*(diff-5)/5
	}

	if diff < 5 {
		return mid - (mid-min)*(5-diff)/5
	}

	return mid
}
