package objects

import (
	"github.com/starpp/starpp/framework/math/mutils"
	"github.com/starpp/starpp/framework/math/vector"
)

// Slider follows a linear approximation of its curve. RepeatCount counts spans, so a slider without
// reverse arrows has RepeatCount == 1.
type Slider struct {
	*HitObject

	Path        []vector.Vector2f
	RepeatCount int

	cumulative []float32
	length     float32
}

func NewSlider(startTime, endTime float64, path []vector.Vector2f, repeats int, newCombo bool) *Slider {
	if len(path) == 0 {
		path = []vector.Vector2f{{}}
	}

	repeats = max(repeats, 1)

	slider := &Slider{
		HitObject: &HitObject{
			StartPosVec: path[0],
			StartTime:   startTime,
			EndTime:     max(startTime, endTime),
			NewCombo:    newCombo,
		},
		Path:        path,
		RepeatCount: repeats,
	}

	slider.cumulative = make([]float32, len(path))

	for i := 1; i < len(path); i++ {
		slider.cumulative[i] = slider.cumulative[i-1] + path[i].Dst(path[i-1])
	}

	slider.length = slider.cumulative[len(path)-1]

	slider.EndPosVec = slider.GetPositionAt(slider.EndTime)

	return slider
}

func (slider *Slider) GetType() Type {
	return SLIDER
}

// GetLength returns the length of a single span
func (slider *Slider) GetLength() float32 {
	return slider.length
}

func (slider *Slider) GetSpanDuration() float64 {
	return slider.GetDuration() / float64(slider.RepeatCount)
}

// GetPointAt returns the position at the given fraction of a single span
func (slider *Slider) GetPointAt(progress float64) vector.Vector2f {
	if len(slider.Path) == 1 || slider.length == 0 {
		return slider.Path[0]
	}

	target := float32(mutils.Clamp(progress, 0, 1)) * slider.length

	for i := 1; i < len(slider.Path); i++ {
		if slider.cumulative[i] >= target {
			segment := slider.cumulative[i] - slider.cumulative[i-1]
			if segment == 0 {
				return slider.Path[i]
			}

			return slider.Path[i-1].Lerp(slider.Path[i], (target-slider.cumulative[i-1])/segment)
		}
	}

	return slider.Path[len(slider.Path)-1]
}

// GetPositionAt returns the slider ball position at the given time
func (slider *Slider) GetPositionAt(time float64) vector.Vector2f {
	spanDuration := slider.GetSpanDuration()
	if spanDuration <= 0 {
		return slider.Path[0]
	}

	t := mutils.Clamp(time-slider.StartTime, 0, slider.GetDuration()) / spanDuration

	span := int(t)
	progress := t - float64(span)

	if span >= slider.RepeatCount {
		span = slider.RepeatCount - 1
		progress = 1
	}

	if span%2 == 1 {
		progress = 1 - progress
	}

	return slider.GetPointAt(progress)
}
