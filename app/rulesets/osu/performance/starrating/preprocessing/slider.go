package preprocessing

import (
	"github.com/starpp/starpp/app/beatmap/difficulty"
	"github.com/starpp/starpp/app/beatmap/objects"
	"github.com/starpp/starpp/framework/math/vector"
)

const (
	// the last slider tick is judged this many ms before the slider's end
	legacyLastTickOffset = 36.0
	followRadiusScale    = 3.0
)

// LazySlider approximates the cursor path of a player doing the least movement needed to
// keep the slider ball inside the follow circle.
type LazySlider struct {
	*objects.Slider

	LazyEndPosition    vector.Vector2f
	LazyTravelDistance float32
	LazyTravelTime     float64
}

func NewLazySlider(slider *objects.Slider, d *difficulty.Difficulty) *LazySlider {
	lazy := &LazySlider{Slider: slider}
	lazy.calculateEndPosition(d.CircleRadiusU)

	return lazy
}

func (slider *LazySlider) calculateEndPosition(radius float64) {
	followRadius := float32(radius * followRadiusScale)

	lastTime := max(slider.StartTime+slider.GetDuration()/2, slider.EndTime-legacyLastTickOffset)
	slider.LazyTravelTime = lastTime - slider.StartTime

	cursor := slider.GetStartPosition()

	ticks := max(1, int(float64(slider.GetLength())/(radius*2)))
	spanDuration := slider.GetSpanDuration()

	for span := 0; span < slider.RepeatCount; span++ {
		for tick := 1; tick <= ticks; tick++ {
			time := slider.StartTime + spanDuration*(float64(span)+float64(tick)/float64(ticks))

			if time >= lastTime {
				time = lastTime
			}

			position := slider.GetPositionAt(time)

			diff := position.Sub(cursor)
			dist := diff.Len()

			if dist > followRadius {
				cursor = cursor.Add(diff.Scl((dist - followRadius) / dist))
				slider.LazyTravelDistance += dist - followRadius
			}

			if time == lastTime {
				slider.LazyEndPosition = cursor
				return
			}
		}
	}

	slider.LazyEndPosition = cursor
}
