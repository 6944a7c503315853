package vector

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Vector2f is a playfield position in osu!pixels
type Vector2f struct {
	X float32 `json:"x"`
	Y float32 `json:"y"`
}

func NewVec2f(x, y float32) Vector2f {
	return Vector2f{X: x, Y: y}
}

func (v Vector2f) gl() mgl32.Vec2 {
	return mgl32.Vec2{v.X, v.Y}
}

func fromGL(v mgl32.Vec2) Vector2f {
	return Vector2f{X: v.X(), Y: v.Y()}
}

func (v Vector2f) Add(v1 Vector2f) Vector2f {
	return fromGL(v.gl().Add(v1.gl()))
}

func (v Vector2f) Sub(v1 Vector2f) Vector2f {
	return fromGL(v.gl().Sub(v1.gl()))
}

func (v Vector2f) Scl(a float32) Vector2f {
	return fromGL(v.gl().Mul(a))
}

func (v Vector2f) Dot(v1 Vector2f) float32 {
	return v.gl().Dot(v1.gl())
}

func (v Vector2f) Len() float32 {
	return v.gl().Len()
}

func (v Vector2f) Dst(v1 Vector2f) float32 {
	return v.Sub(v1).Len()
}

func (v Vector2f) Lerp(v1 Vector2f, t float32) Vector2f {
	return v.Add(v1.Sub(v).Scl(t))
}

// AngleBetween returns the unsigned angle between v and v1 in radians
func (v Vector2f) AngleBetween(v1 Vector2f) float64 {
	dot := float64(v.Dot(v1))
	det := float64(v.X*v1.Y - v.Y*v1.X)

	return math.Abs(math.Atan2(det, dot))
}
