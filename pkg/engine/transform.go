package engine

import (
	"fmt"
	"math"

	"git.sr.ht/~sbinet/gg"
)

// Transform is a rotation (degrees, clockwise on screen) followed by a
// uniform scale, both applied about an origin supplied at use.
type Transform struct {
	Rotate float64
	Scale  float64
}

// IdentityTransform leaves points where they are.
var IdentityTransform = Transform{Scale: 1}

// Matrix returns the affine equivalent of CSS
// "transform-origin: ox oy; transform: rotate(R) scale(S)".
func (t Transform) Matrix(ox, oy float64) gg.Matrix {
	rad := t.Rotate * math.Pi / 180
	return gg.Translate(-ox, -oy).
		Multiply(gg.Scale(t.Scale, t.Scale)).
		Multiply(gg.Rotate(rad)).
		Multiply(gg.Translate(ox, oy))
}

// Lerp interpolates rotation and scale linearly; p is not clamped so
// overshooting easing curves stay expressible.
func (t Transform) Lerp(to Transform, p float64) Transform {
	return Transform{
		Rotate: t.Rotate + (to.Rotate-t.Rotate)*p,
		Scale:  t.Scale + (to.Scale-t.Scale)*p,
	}
}

// String renders the transform in CSS syntax.
func (t Transform) String() string {
	return fmt.Sprintf("rotate(%.4gdeg) scale(%.4g)", t.Rotate, t.Scale)
}
