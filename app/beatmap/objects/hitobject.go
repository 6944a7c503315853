package objects

import (
	"github.com/starpp/starpp/framework/math/vector"
)

type Type int

const (
	CIRCLE Type = 1 << iota
	SLIDER
	SPINNER
)

func (t Type) String() string {
	switch t {
	case SLIDER:
		return "slider"
	case SPINNER:
		return "spinner"
	}

	return "circle"
}

type IHitObject interface {
	GetID() int
	SetID(id int)

	GetStartTime() float64
	GetEndTime() float64
	GetDuration() float64

	GetStartPosition() vector.Vector2f
	GetEndPosition() vector.Vector2f

	IsNewCombo() bool
	GetType() Type
}

type HitObject struct {
	StartPosVec vector.Vector2f
	EndPosVec   vector.Vector2f

	StartTime float64
	EndTime   float64

	NewCombo bool

	HitObjectID int
}

func (hitObject *HitObject) GetID() int {
	return hitObject.HitObjectID
}

func (hitObject *HitObject) SetID(id int) {
	hitObject.HitObjectID = id
}

func (hitObject *HitObject) GetStartTime() float64 {
	return hitObject.StartTime
}

func (hitObject *HitObject) GetEndTime() float64 {
	return hitObject.EndTime
}

func (hitObject *HitObject) GetDuration() float64 {
	return hitObject.EndTime - hitObject.StartTime
}

func (hitObject *HitObject) GetStartPosition() vector.Vector2f {
	return hitObject.StartPosVec
}

func (hitObject *HitObject) GetEndPosition() vector.Vector2f {
	return hitObject.EndPosVec
}

func (hitObject *HitObject) IsNewCombo() bool {
	return hitObject.NewCombo
}
