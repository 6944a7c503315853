package preprocessing

import (
	"math"

	"github.com/starpp/starpp/app/beatmap/difficulty"
	"github.com/starpp/starpp/app/beatmap/objects"
	"github.com/starpp/starpp/framework/math/vector"
)

const (
	NormalizedRadius        = 50.0
	CircleSizeBuffThreshold = 30.0
	MinDeltaTime            = 25

	// SingleSpacingThreshold is the spacing above which a note can't be streamed into
	SingleSpacingThreshold = 125.0
)

type DifficultyObject struct {
	listOfDiffs *[]*DifficultyObject
	Index       int

	Diff *difficulty.Difficulty

	BaseObject objects.IHitObject

	IsSlider  bool
	IsSpinner bool

	lastObject     objects.IHitObject
	lastLastObject objects.IHitObject

	// Time in ms since the previous object, speed adjusted
	DeltaTime float64

	StartTime float64
	EndTime   float64

	JumpDistance float64

	// Cursor travel of the previous object when it is a slider
	TravelDistance float64
	TravelTime     float64

	Angle float64

	StrainTime float64

	GreatWindow float64

	ClockRate float64

	IsSingle bool

	// Written back by skills during processing
	TapStrain        float64
	MovementStrain   float64
	RhythmMultiplier float64
}

// CreateDifficultyObjects builds one DifficultyObject per hit object except the first
func CreateDifficultyObjects(hitObjects []objects.IHitObject, d *difficulty.Difficulty) []*DifficultyObject {
	if len(hitObjects) < 2 {
		return []*DifficultyObject{}
	}

	lazyObjects := make([]objects.IHitObject, len(hitObjects))

	for i, o := range hitObjects {
		if s, ok := o.(*objects.Slider); ok {
			lazyObjects[i] = NewLazySlider(s, d)
		} else {
			lazyObjects[i] = o
		}
	}

	diffObjects := make([]*DifficultyObject, 0, len(hitObjects)-1)

	for i := 1; i < len(lazyObjects); i++ {
		var lastLast objects.IHitObject
		if i > 1 {
			lastLast = lazyObjects[i-2]
		}

		diffObjects = append(diffObjects, NewDifficultyObject(lazyObjects[i], lastLast, lazyObjects[i-1], d, &diffObjects, i-1))
	}

	return diffObjects
}

func NewDifficultyObject(hitObject, lastLastObject, lastObject objects.IHitObject, d *difficulty.Difficulty, listOfDiffs *[]*DifficultyObject, index int) *DifficultyObject {
	obj := &DifficultyObject{
		listOfDiffs:      listOfDiffs,
		Index:            index,
		Diff:             d,
		BaseObject:       hitObject,
		lastObject:       lastObject,
		lastLastObject:   lastLastObject,
		DeltaTime:        (hitObject.GetStartTime() - lastObject.GetStartTime()) / d.Speed,
		StartTime:        hitObject.GetStartTime() / d.Speed,
		EndTime:          hitObject.GetEndTime() / d.Speed,
		Angle:            math.NaN(),
		GreatWindow:      d.Hit300U / d.Speed,
		ClockRate:        d.Speed,
		RhythmMultiplier: 1,
	}

	if _, ok := hitObject.(*objects.Spinner); ok {
		obj.IsSpinner = true
	}

	if _, ok := hitObject.(*LazySlider); ok {
		obj.IsSlider = true
	}

	obj.StrainTime = max(obj.DeltaTime, MinDeltaTime)

	obj.setDistances()

	obj.IsSingle = obj.JumpDistance+obj.TravelDistance >= SingleSpacingThreshold

	return obj
}

func (o *DifficultyObject) Previous(backwardsIndex int) *DifficultyObject {
	index := o.Index - (backwardsIndex + 1)

	if index < 0 {
		return nil
	}

	return (*o.listOfDiffs)[index]
}

func (o *DifficultyObject) Next(forwardsIndex int) *DifficultyObject {
	index := o.Index + (forwardsIndex + 1)

	if index >= len(*o.listOfDiffs) {
		return nil
	}

	return (*o.listOfDiffs)[index]
}

func (o *DifficultyObject) setDistances() {
	scalingFactor := NormalizedRadius / float32(o.Diff.CircleRadiusU)

	if o.Diff.CircleRadiusU < CircleSizeBuffThreshold {
		smallCircleBonus := min(CircleSizeBuffThreshold-float32(o.Diff.CircleRadiusU), 5.0) / 50.0
		scalingFactor *= 1.0 + smallCircleBonus
	}

	if lastSlider, ok := o.lastObject.(*LazySlider); ok {
		o.TravelDistance = float64(lastSlider.LazyTravelDistance * scalingFactor)
		o.TravelTime = max(lastSlider.LazyTravelTime/o.Diff.Speed, MinDeltaTime)
	}

	_, ok1 := o.BaseObject.(*objects.Spinner)
	_, ok2 := o.lastObject.(*objects.Spinner)

	if ok1 || ok2 {
		return
	}

	lastCursorPosition := getEndCursorPosition(o.lastObject)

	o.JumpDistance = float64(o.BaseObject.GetStartPosition().Scl(scalingFactor).Dst(lastCursorPosition.Scl(scalingFactor)))

	if o.lastLastObject != nil {
		if _, ok := o.lastLastObject.(*objects.Spinner); ok {
			return
		}

		lastLastCursorPosition := getEndCursorPosition(o.lastLastObject)

		v1 := lastLastCursorPosition.Sub(o.lastObject.GetStartPosition())
		v2 := o.BaseObject.GetStartPosition().Sub(lastCursorPosition)

		o.Angle = v1.AngleBetween(v2)
	}
}

func getEndCursorPosition(obj objects.IHitObject) (pos vector.Vector2f) {
	pos = obj.GetStartPosition()

	if s, ok := obj.(*LazySlider); ok {
		pos = s.LazyEndPosition
	}

	return
}
