package engine

import "math"

const (
	// Phi is the golden ratio at the precision the layout was tuned with.
	Phi = 1.618

	// ShrinkConstant locates the spiral's shrinkage point as a fraction of
	// the viewport width (x) and panel size (y).
	ShrinkConstant = 0.2763
)

// Geometry holds the layout constants derived from one viewport width.
type Geometry struct {
	ViewportWidth float64
	PanelSize     float64
	ScaleRatio    float64
	OriginX       float64
	OriginY       float64
}

// ComputeGeometry derives panel size, per-step scale ratio and the
// rotation origin for a viewport of width vw. A non-positive width gives
// the zero geometry rather than NaN ratios.
func ComputeGeometry(vw, phi, shrink float64) Geometry {
	if vw <= 0 || phi <= 0 || math.IsNaN(vw) {
		return Geometry{}
	}

	size := vw / phi
	g := Geometry{
		ViewportWidth: vw,
		PanelSize:     size,
		// Algebraically 1/phi, but computed from the rounded inputs so the
		// stack keeps lining up with the size actually in use.
		ScaleRatio: (vw - size) / size,
	}

	spx := vw * shrink
	spy := size * shrink
	g.OriginX = spx * phi * phi
	g.OriginY = spy * phi * phi
	return g
}

// Limit is the scroll range for n panels.
func (g Geometry) Limit(n int) float64 {
	return g.PanelSize * float64(n)
}

// PanelLayout returns the resting layout of the panel at index i.
func (g Geometry) PanelLayout(i int) Layout {
	return Layout{
		Size:    g.PanelSize,
		OriginX: g.OriginX,
		OriginY: g.OriginY,
		Transform: Transform{
			Rotate: 90 * float64(i),
			Scale:  math.Pow(g.ScaleRatio, float64(i)),
		},
	}
}
