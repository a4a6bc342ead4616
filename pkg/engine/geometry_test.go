package engine

import (
	"math"
	"testing"
)

const tolerance = 1e-9

func approx(a, b, eps float64) bool {
	return math.Abs(a-b) <= eps
}

func TestComputeGeometry(t *testing.T) {
	g := ComputeGeometry(1000, Phi, ShrinkConstant)

	if !approx(g.PanelSize, 1000/1.618, tolerance) {
		t.Errorf("PanelSize = %v, want %v", g.PanelSize, 1000/1.618)
	}
	if !approx(g.PanelSize, 618.05, 0.01) {
		t.Errorf("PanelSize = %v, want ~618", g.PanelSize)
	}
	if !approx(g.ScaleRatio, 0.618, 1e-6) {
		t.Errorf("ScaleRatio = %v, want ~0.618", g.ScaleRatio)
	}

	wantX := 1000 * 0.2763 * 1.618 * 1.618
	wantY := g.PanelSize * 0.2763 * 1.618 * 1.618
	if !approx(g.OriginX, wantX, tolerance) || !approx(g.OriginY, wantY, tolerance) {
		t.Errorf("origin = (%v, %v), want (%v, %v)", g.OriginX, g.OriginY, wantX, wantY)
	}
	if !approx(g.Limit(3), g.PanelSize*3, tolerance) {
		t.Errorf("Limit(3) = %v", g.Limit(3))
	}
}

func TestComputeGeometry_Degenerate(t *testing.T) {
	for _, w := range []float64{0, -10, math.NaN()} {
		g := ComputeGeometry(w, Phi, ShrinkConstant)
		if g != (Geometry{}) {
			t.Errorf("ComputeGeometry(%v) = %+v, want zero geometry", w, g)
		}
		l := g.PanelLayout(3)
		if math.IsNaN(l.Transform.Scale) || math.IsNaN(l.Transform.Rotate) {
			t.Errorf("degenerate layout has NaN transform: %+v", l)
		}
	}
}

func TestGeometry_PanelLayout(t *testing.T) {
	g := ComputeGeometry(1000, Phi, ShrinkConstant)
	for i := 0; i < 4; i++ {
		l := g.PanelLayout(i)
		if l.Transform.Rotate != 90*float64(i) {
			t.Errorf("panel %d rotate = %v", i, l.Transform.Rotate)
		}
		if want := math.Pow(g.ScaleRatio, float64(i)); !approx(l.Transform.Scale, want, tolerance) {
			t.Errorf("panel %d scale = %v, want %v", i, l.Transform.Scale, want)
		}
		if l.Size != g.PanelSize || l.OriginX != g.OriginX || l.OriginY != g.OriginY {
			t.Errorf("panel %d layout does not use geometry constants: %+v", i, l)
		}
	}
}

func TestTransform_Matrix(t *testing.T) {
	tests := []struct {
		name   string
		tr     Transform
		ox, oy float64
		x, y   float64
		wx, wy float64
	}{
		{"identity", IdentityTransform, 5, 5, 3, 4, 3, 4},
		{"quarter turn is clockwise on screen", Transform{Rotate: 90, Scale: 1}, 0, 0, 1, 0, 0, 1},
		{"scale about origin", Transform{Scale: 2}, 10, 10, 11, 10, 12, 10},
		{"origin is fixed", Transform{Rotate: 37, Scale: 0.3}, 7, 9, 7, 9, 7, 9},
		{"counter rotation", Transform{Rotate: -90, Scale: 1}, 0, 0, 1, 0, 0, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, y := tt.tr.Matrix(tt.ox, tt.oy).TransformPoint(tt.x, tt.y)
			if !approx(x, tt.wx, 1e-9) || !approx(y, tt.wy, 1e-9) {
				t.Errorf("TransformPoint(%v, %v) = (%v, %v), want (%v, %v)", tt.x, tt.y, x, y, tt.wx, tt.wy)
			}
		})
	}
}

func TestTransform_LerpAndString(t *testing.T) {
	from := Transform{Rotate: 0, Scale: 1}
	to := Transform{Rotate: -90, Scale: 3}
	mid := from.Lerp(to, 0.5)
	if mid.Rotate != -45 || mid.Scale != 2 {
		t.Errorf("Lerp = %+v", mid)
	}
	if s := to.String(); s != "rotate(-90deg) scale(3)" {
		t.Errorf("String() = %q", s)
	}
}
