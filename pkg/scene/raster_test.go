package scene

import (
	"testing"

	"github.com/Dicklesworthstone/golden_stack/pkg/engine"
)

func twoPanelScene() *Scene {
	s := New(nil)
	outer := s.CreateNode(0)
	outer.SetLayout(engine.Layout{Size: 100, Transform: engine.IdentityTransform})
	inner := s.CreateNode(1)
	inner.SetLayout(engine.Layout{Size: 100, Transform: engine.Transform{Scale: 0.5}})
	return s
}

func TestRasterizeOwnership(t *testing.T) {
	g := twoPanelScene().Rasterize(20, 20, 10, 10)

	tests := []struct {
		name       string
		col, row   int
		wantOwner  int
		wantBorder bool
	}{
		{"outer corner is border", 0, 0, 1, true},
		{"inner panel wins", 2, 2, 1, false},
		{"outer interior", 7, 7, 0, false},
		{"outer right edge", 9, 5, 0, true},
		{"page", 15, 15, -1, false},
		{"out of range", 50, 50, -1, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := g.At(tt.col, tt.row)
			if c.Owner != tt.wantOwner || c.Border != tt.wantBorder {
				t.Errorf("At(%d,%d) = %+v, want owner %d border %v",
					tt.col, tt.row, c, tt.wantOwner, tt.wantBorder)
			}
		})
	}
}

func TestRasterizeSkipsHiddenPanels(t *testing.T) {
	s := twoPanelScene()
	s.Nodes()[1].SetVisible(false)
	g := s.Rasterize(20, 20, 10, 10)
	if c := g.At(2, 2); c.Owner != 0 {
		t.Errorf("At(2,2).Owner = %d, want 0 with inner hidden", c.Owner)
	}
}

func TestRasterizePlacements(t *testing.T) {
	g := twoPanelScene().Rasterize(20, 20, 10, 10)
	if len(g.Placements) != 2 {
		t.Fatalf("placements = %d, want 2", len(g.Placements))
	}
	p := g.Placements[1]
	if !approx(p.CenterX, 25) || !approx(p.CenterY, 25) || !approx(p.Side, 50) {
		t.Errorf("inner placement = %+v", p)
	}
}

func TestRasterizeFollowsContainerRotation(t *testing.T) {
	s := New(nil)
	n := s.CreateNode(0)
	n.SetLayout(engine.Layout{Size: 100, Transform: engine.IdentityTransform})
	s.SetOrigin(100, 100)
	// Half a turn about (100,100) moves [0,100]² to [100,200]².
	s.SetTransform(engine.Transform{Rotate: 180, Scale: 1})

	g := s.Rasterize(20, 20, 10, 10)
	if c := g.At(5, 5); c.Owner != -1 {
		t.Errorf("At(5,5).Owner = %d, want page", c.Owner)
	}
	if c := g.At(15, 15); c.Owner != 0 {
		t.Errorf("At(15,15).Owner = %d, want 0", c.Owner)
	}
}

func TestRasterizeDegenerate(t *testing.T) {
	s := New(nil)
	n := s.CreateNode(0)
	n.SetLayout(engine.Layout{Size: 100, Transform: engine.Transform{Scale: 0}})
	g := s.Rasterize(4, 4, 10, 10)
	for i, c := range g.Cells {
		if c.Owner != -1 {
			t.Fatalf("cell %d owned by %d, want page", i, c.Owner)
		}
	}
	if g := s.Rasterize(0, 4, 10, 10); len(g.Cells) != 0 {
		t.Errorf("zero columns produced %d cells", len(g.Cells))
	}
}
