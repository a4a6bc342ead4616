package scene

import (
	"math"

	"git.sr.ht/~sbinet/gg"
	"gonum.org/v1/gonum/mat"
)

// Cell is one sample of a rasterized scene. Owner is the index of the
// topmost visible panel covering the cell, or -1 for the page.
type Cell struct {
	Owner  int
	Border bool
}

// Placement describes where a panel landed on screen.
type Placement struct {
	Index   int
	CenterX float64
	CenterY float64
	// Side is the on-screen edge length of the panel in pixels.
	Side    float64
	Visible bool
}

// Grid is a cell raster of the scene, row-major.
type Grid struct {
	Cols       int
	Rows       int
	CellWidth  float64
	CellHeight float64
	Cells      []Cell
	Placements []Placement
}

// At returns the cell at (col, row); out-of-range positions are page cells.
func (g Grid) At(col, row int) Cell {
	if col < 0 || row < 0 || col >= g.Cols || row >= g.Rows {
		return Cell{Owner: -1}
	}
	return g.Cells[row*g.Cols+col]
}

type hitTester struct {
	index  int
	inv    *mat.Dense
	size   float64
	border float64
}

func (h hitTester) hit(px, py float64) (inside, border bool) {
	x := h.inv.At(0, 0)*px + h.inv.At(0, 1)*py + h.inv.At(0, 2)
	y := h.inv.At(1, 0)*px + h.inv.At(1, 1)*py + h.inv.At(1, 2)
	if x < 0 || y < 0 || x > h.size || y > h.size {
		return false, false
	}
	b := x < h.border || y < h.border || x > h.size-h.border || y > h.size-h.border
	return true, b
}

// Rasterize samples the scene at the center of each cell. Panels are
// tested topmost first so nested panels win over their parents. The
// border is roughly one cell wide on screen whatever the panel's scale.
func (s *Scene) Rasterize(cols, rows int, cellW, cellH float64) Grid {
	g := Grid{Cols: cols, Rows: rows, CellWidth: cellW, CellHeight: cellH}
	if cols <= 0 || rows <= 0 || cellW <= 0 || cellH <= 0 {
		g.Cols, g.Rows = 0, 0
		return g
	}
	g.Cells = make([]Cell, cols*rows)

	testers := make([]hitTester, 0, len(s.nodes))
	for _, n := range s.nodes {
		m := s.NodeMatrix(n)
		scale := effectiveScale(m)
		size := n.layout.Size
		cx, cy := m.TransformPoint(size/2, size/2)
		g.Placements = append(g.Placements, Placement{
			Index:   n.index,
			CenterX: cx,
			CenterY: cy,
			Side:    size * scale,
			Visible: n.visible,
		})
		if !n.visible || size <= 0 || scale == 0 {
			continue
		}
		inv, ok := invert(m)
		if !ok {
			continue
		}
		testers = append(testers, hitTester{
			index:  n.index,
			inv:    inv,
			size:   size,
			border: cellW / scale,
		})
	}

	for row := 0; row < rows; row++ {
		py := (float64(row) + 0.5) * cellH
		for col := 0; col < cols; col++ {
			px := (float64(col) + 0.5) * cellW
			cell := Cell{Owner: -1}
			for i := len(testers) - 1; i >= 0; i-- {
				if in, border := testers[i].hit(px, py); in {
					cell = Cell{Owner: testers[i].index, Border: border}
					break
				}
			}
			g.Cells[row*cols+col] = cell
		}
	}
	return g
}

// effectiveScale is the uniform scale factor of an affine map.
func effectiveScale(m gg.Matrix) float64 {
	return math.Sqrt(math.Abs(m.XX*m.YY - m.XY*m.YX))
}

func invert(m gg.Matrix) (*mat.Dense, bool) {
	a := mat.NewDense(3, 3, []float64{
		m.XX, m.XY, m.X0,
		m.YX, m.YY, m.Y0,
		0, 0, 1,
	})
	if math.Abs(mat.Det(a)) < 1e-12 {
		return nil, false
	}
	var inv mat.Dense
	if err := inv.Inverse(a); err != nil {
		return nil, false
	}
	return &inv, true
}
