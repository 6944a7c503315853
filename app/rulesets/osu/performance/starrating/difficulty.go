package starrating

import (
	"errors"
	"log"
	"math"
	"time"

	"github.com/starpp/starpp/app/beatmap"
	"github.com/starpp/starpp/app/beatmap/difficulty"
	"github.com/starpp/starpp/app/beatmap/objects"
	"github.com/starpp/starpp/app/rulesets/osu/performance/api"
	"github.com/starpp/starpp/app/rulesets/osu/performance/starrating/preprocessing"
)

const (
	// StarScalingFactor is a global stars multiplier
	StarScalingFactor float64 = 0.0675

	// SectionLength is the length of a strain section in ms at normal speed
	SectionLength float64 = 400

	// DefaultSingletapThreshold is the interval in ms from which a note counts as singletapped
	DefaultSingletapThreshold float64 = 125

	touchAimExponent  = 0.8
	droidSkillBalance = 0.4
	osuSkillBalance   = 0.5

	CurrentVersion int = 20241015
)

// ErrNoHitObjects is returned for beatmaps that have nothing to rate
var ErrNoHitObjects = errors.New("beatmap has no hit objects")

// Stats overrides the speed and hit window rules of a calculation
type Stats struct {
	// SpeedMultiplier is applied on top of the mod speed. Values <= 0 mean 1.
	SpeedMultiplier float64

	// OldStatistics makes droid calculations use standard hit windows
	OldStatistics bool
}

type Options struct {
	Mode  difficulty.Mode
	Mods  difficulty.Modifier
	Stats Stats

	// SingletapThreshold defaults to DefaultSingletapThreshold when <= 0
	SingletapThreshold float64
}

// NewOptions builds options from user input. Unknown mods are ignored.
func NewOptions(mode, mods string) Options {
	return Options{
		Mode: difficulty.ParseMode(mode),
		Mods: difficulty.ParseMods(mods),
	}
}

func (opts Options) difficulty(beatMap *beatmap.BeatMap) *difficulty.Difficulty {
	d := beatMap.NewDifficulty()
	d.SetMode(opts.Mode)
	d.SetOldStatistics(opts.Stats.OldStatistics)
	d.SetCustomSpeed(opts.Stats.SpeedMultiplier)
	d.SetMods(opts.Mods)

	return d
}

func (opts Options) singletapThreshold() float64 {
	if opts.SingletapThreshold <= 0 {
		return DefaultSingletapThreshold
	}

	return opts.SingletapThreshold
}

type DifficultyCalculator struct{}

func NewDifficultyCalculator() *DifficultyCalculator {
	return &DifficultyCalculator{}
}

// lengthBonus grows with how much of the unweighted peak sum the weighting discarded
func lengthBonus(total, weighted float64) float64 {
	if weighted <= 0 {
		return 0
	}

	return 0.32 + 0.5*(math.Log10(total+weighted)-math.Log10(weighted))
}

// getStarsFromRawValues converts raw skill values to Attributes
func (diffCalc *DifficultyCalculator) getStarsFromRawValues(aimDiff, aimTotal, speedDiff, speedTotal float64, diff *difficulty.Difficulty, attr api.Attributes) api.Attributes {
	aimRating := math.Sqrt(aimDiff) * StarScalingFactor
	speedRating := math.Sqrt(speedDiff) * StarScalingFactor

	balance := osuSkillBalance

	if diff.Mode == difficulty.Droid {
		balance = droidSkillBalance
	}

	if diff.Mode == difficulty.Droid || diff.CheckModActive(difficulty.TouchDevice) {
		aimRating = math.Pow(aimRating, touchAimExponent)
	}

	attr.Aim = aimRating
	attr.Speed = speedRating
	attr.Total = aimRating + speedRating + math.Abs(speedRating-aimRating)*balance

	attr.AimSkill = api.SkillAttributes{
		Rating:      aimRating,
		Difficulty:  aimDiff,
		Total:       aimTotal,
		LengthBonus: lengthBonus(aimTotal, aimDiff),
	}

	attr.SpeedSkill = api.SkillAttributes{
		Rating:      speedRating,
		Difficulty:  speedDiff,
		Total:       speedTotal,
		LengthBonus: lengthBonus(speedTotal, speedDiff),
	}

	return attr
}

func (diffCalc *DifficultyCalculator) addObjectToAttribs(o objects.IHitObject, attr *api.Attributes) {
	if s, ok := o.(*objects.Slider); ok {
		attr.Sliders++
		attr.MaxCombo += s.RepeatCount
	} else if _, ok := o.(*objects.Circle); ok {
		attr.Circles++
	} else if _, ok := o.(*objects.Spinner); ok {
		attr.Spinners++
	}

	attr.MaxCombo++
	attr.ObjectCount++
}

func (diffCalc *DifficultyCalculator) prepare(beatMap *beatmap.BeatMap, opts Options) (*difficulty.Difficulty, []*preprocessing.DifficultyObject, error) {
	if beatMap == nil {
		panic("a beatmap must be defined")
	}

	if len(beatMap.HitObjects) == 0 {
		return nil, nil, ErrNoHitObjects
	}

	diff := opts.difficulty(beatMap)

	return diff, preprocessing.CreateDifficultyObjects(beatMap.HitObjects, diff), nil
}

// scan feeds objects to the skills section by section. onSection is called with the end of every
// closed section, in ms at normal speed.
func (diffCalc *DifficultyCalculator) scan(hitObjects []objects.IHitObject, diffObjects []*preprocessing.DifficultyObject, diff *difficulty.Difficulty, onSection func(sectionEnd float64)) *SkillsProcessor {
	processor := NewSkillsProcessor(diff)

	sectionLength := SectionLength * diff.Speed
	currentSectionEnd := math.Ceil(hitObjects[0].GetStartTime()/sectionLength) * sectionLength

	for _, o := range diffObjects {
		for o.BaseObject.GetStartTime() > currentSectionEnd {
			processor.SaveCurrentPeak()
			processor.StartNewSectionFrom(currentSectionEnd / diff.Speed)

			if onSection != nil {
				onSection(currentSectionEnd)
			}

			currentSectionEnd += sectionLength
		}

		processor.Process(o)
	}

	processor.SaveCurrentPeak()

	if onSection != nil {
		onSection(currentSectionEnd)
	}

	return processor
}

// Calculate rates a beatmap. Every call uses fresh skills so results depend only on the inputs.
func (diffCalc *DifficultyCalculator) Calculate(beatMap *beatmap.BeatMap, opts Options) (api.Attributes, error) {
	diff, diffObjects, err := diffCalc.prepare(beatMap, opts)
	if err != nil {
		return api.Attributes{}, err
	}

	processor := diffCalc.scan(beatMap.HitObjects, diffObjects, diff, nil)

	aimDiff, aimTotal := processor.Aim.DifficultyValue()
	speedDiff, speedTotal := processor.Speed.DifficultyValue()

	attr := diffCalc.getStarsFromRawValues(aimDiff, aimTotal, speedDiff, speedTotal, diff, api.Attributes{})

	for _, o := range beatMap.HitObjects {
		diffCalc.addObjectToAttribs(o, &attr)
	}

	threshold := opts.singletapThreshold()

	for _, o := range diffObjects {
		if o.IsSingle {
			attr.SingleCount++
		}

		if !o.IsSpinner && o.DeltaTime >= threshold {
			attr.AboveThresholdCount++
		}
	}

	first, last := beatMap.HitObjects[0], beatMap.HitObjects[len(beatMap.HitObjects)-1]
	attr.Length = (last.GetEndTime() - first.GetStartTime()) / diff.Speed

	return attr, nil
}

// CalculateStrainPeaks returns per-section peaks of both skills for strain charts
func (diffCalc *DifficultyCalculator) CalculateStrainPeaks(beatMap *beatmap.BeatMap, opts Options) (api.StrainSeries, error) {
	diff, diffObjects, err := diffCalc.prepare(beatMap, opts)
	if err != nil {
		return api.StrainSeries{}, err
	}

	modString := difficulty.GetDiffMaskedMods(diff.Mods).String()
	if modString == "" {
		modString = "NM"
	}

	log.Println("Calculating strain peaks for mods:", modString)

	startTime := time.Now()

	sectionEnds := make([]float64, 0, 64)

	processor := diffCalc.scan(beatMap.HitObjects, diffObjects, diff, func(sectionEnd float64) {
		sectionEnds = append(sectionEnds, sectionEnd)
	})

	series := api.StrainSeries{
		Aim:   processor.Aim.GetCurrentStrainPeaks(),
		Speed: processor.Speed.GetCurrentStrainPeaks(),
	}

	// the running section was already saved by scan
	series.Aim = series.Aim[:len(sectionEnds)]
	series.Speed = series.Speed[:len(sectionEnds)]

	series.Points = make([]api.StrainPoint, len(sectionEnds))

	for i, end := range sectionEnds {
		series.Points[i] = api.StrainPoint{
			Time:   end / diff.Speed / 1000,
			Strain: (series.Aim[i] + series.Speed[i]) / 2,
		}
	}

	log.Println("Calculations finished! Took", time.Since(startTime).Truncate(time.Millisecond).String())

	return series, nil
}

func (diffCalc *DifficultyCalculator) GetVersion() int {
	return CurrentVersion
}

func (diffCalc *DifficultyCalculator) GetVersionMessage() string {
	return "2024-10-15: droid tap rhythm and sectioned star rating"
}
