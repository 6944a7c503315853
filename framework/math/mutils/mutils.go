package mutils

import (
	"math"

	"golang.org/x/exp/constraints"
)

func Clamp[T constraints.Integer | constraints.Float](x, min, max T) T {
	if x < min {
		return min
	}

	if x > max {
		return max
	}

	return x
}

// Lerp interpolates linearly between a and b, t = 0 gives a
func Lerp[T constraints.Float](a, b, t T) T {
	return a + (b-a)*t
}

// ApproxEqual reports whether a and b differ by less than epsilon
func ApproxEqual(a, b, epsilon float64) bool {
	return math.Abs(a-b) < epsilon
}
