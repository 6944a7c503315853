package objects

import "github.com/starpp/starpp/framework/math/vector"

type Circle struct {
	*HitObject
}

func NewCircle(time float64, position vector.Vector2f, newCombo bool) *Circle {
	return &Circle{
		HitObject: &HitObject{
			StartPosVec: position,
			EndPosVec:   position,
			StartTime:   time,
			EndTime:     time,
			NewCombo:    newCombo,
		},
	}
}

func (circle *Circle) GetType() Type {
	return CIRCLE
}
