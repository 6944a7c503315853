package objects

import "github.com/starpp/starpp/framework/math/vector"

var playfieldCenter = vector.NewVec2f(256, 192)

type Spinner struct {
	*HitObject
}

func NewSpinner(startTime, endTime float64) *Spinner {
	return &Spinner{
		HitObject: &HitObject{
			StartPosVec: playfieldCenter,
			EndPosVec:   playfieldCenter,
			StartTime:   startTime,
			EndTime:     max(startTime, endTime),
			NewCombo:    true,
		},
	}
}

func (spinner *Spinner) GetType() Type {
	return SPINNER
}
