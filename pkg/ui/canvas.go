package ui

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/Dicklesworthstone/golden_stack/pkg/model"
	"github.com/Dicklesworthstone/golden_stack/pkg/scene"
)

// slidePadding is the number of columns kept clear on each side of a
// slide's text inside its panel.
const slidePadding = 2

type cellGlyph struct {
	r    rune
	cont bool // second half of a wide rune
}

type panelColors struct {
	bg, text, border string
}

// Canvas paints a scene into terminal cells. Slide text stays upright;
// only the panels' outlines follow the rotation.
type Canvas struct {
	theme  Theme
	slides *SlideRenderer
	styles map[[2]string]lipgloss.Style
}

// NewCanvas returns a canvas drawing with theme.
func NewCanvas(theme Theme) *Canvas {
	return &Canvas{
		theme:  theme,
		slides: NewSlideRenderer(),
		styles: make(map[[2]string]lipgloss.Style),
	}
}

// Render draws sc into cols x rows cells of cellW x cellH pixels.
func (c *Canvas) Render(sc *scene.Scene, cols, rows int, cellW, cellH float64) string {
	if cols <= 0 || rows <= 0 {
		return ""
	}
	grid := sc.Rasterize(cols, rows, cellW, cellH)

	page := sc.Background()
	if page.IsZero() {
		page = pageFallback
	}
	page = page.Over(pageFallback)
	pageHex := page.Hex()

	nodes := sc.Nodes()
	colors := make(map[int]panelColors, len(nodes))
	for _, n := range nodes {
		colors[n.Index()] = resolvePalette(n, page)
	}

	glyphs := make([]cellGlyph, cols*rows)
	for _, p := range grid.Placements {
		if !p.Visible || p.Index < 0 || p.Index >= len(nodes) {
			continue
		}
		c.placeText(glyphs, grid, p, nodes[p.Index])
	}

	var b strings.Builder
	for row := 0; row < rows; row++ {
		var run strings.Builder
		runKey := [2]string{}
		flush := func() {
			if run.Len() > 0 {
				b.WriteString(c.style(runKey).Render(run.String()))
				run.Reset()
			}
		}
		for col := 0; col < cols; col++ {
			cell := grid.At(col, row)
			g := glyphs[row*cols+col]
			if g.cont {
				continue
			}

			key := [2]string{pageHex, pageHex}
			if cell.Owner >= 0 {
				pc := colors[cell.Owner]
				switch {
				case cell.Border:
					key = [2]string{pc.border, pc.border}
				default:
					key = [2]string{pc.text, pc.bg}
				}
			}
			if key != runKey {
				flush()
				runKey = key
			}
			if g.r != 0 {
				run.WriteRune(g.r)
			} else {
				run.WriteByte(' ')
			}
		}
		flush()
		if row < rows-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func (c *Canvas) style(key [2]string) lipgloss.Style {
	if s, ok := c.styles[key]; ok {
		return s
	}
	s := c.theme.Renderer.NewStyle().
		Foreground(lipgloss.Color(key[0])).
		Background(lipgloss.Color(key[1]))
	c.styles[key] = s
	return s
}

func resolvePalette(n *scene.Node, page model.Color) panelColors {
	p := n.Palette()
	bg, text, border := p.Background, p.Text, p.Border
	if bg.IsZero() {
		bg = panelFallback
	}
	if text.IsZero() {
		text = textFallback
	}
	if border.IsZero() {
		border = text
	}
	bg = bg.Over(page)
	return panelColors{
		bg:     bg.Hex(),
		text:   text.Over(bg).Hex(),
		border: border.Over(page).Hex(),
	}
}

// placeText centers the slide inside the panel's on-screen square and
// writes only into cells that panel owns.
func (c *Canvas) placeText(glyphs []cellGlyph, grid scene.Grid, p scene.Placement, n *scene.Node) {
	sideCols := int(p.Side / grid.CellWidth)
	sideRows := int(p.Side / grid.CellHeight)
	width := sideCols - 2*slidePadding - 2
	height := sideRows - 2
	if width <= 0 || height <= 0 {
		return
	}

	lines := c.slides.Lines(n.Slide(), width)
	if len(lines) > height {
		lines = lines[:height]
	}
	if len(lines) == 0 {
		return
	}

	col0 := int(math.Round(p.CenterX/grid.CellWidth - float64(width)/2))
	row0 := int(math.Round(p.CenterY/grid.CellHeight - float64(len(lines))/2))
	for i, line := range lines {
		row := row0 + i
		col := col0
		for _, r := range line {
			w := runewidth.RuneWidth(r)
			if w == 0 {
				continue
			}
			if c.owns(grid, n.Index(), col, row, w) {
				glyphs[row*grid.Cols+col] = cellGlyph{r: r}
				if w == 2 {
					glyphs[row*grid.Cols+col+1] = cellGlyph{cont: true}
				}
			}
			col += w
		}
	}
}

// owns reports whether w cells starting at (col, row) are interior cells
// of panel index.
func (c *Canvas) owns(grid scene.Grid, index, col, row, w int) bool {
	for i := 0; i < w; i++ {
		cell := grid.At(col+i, row)
		if col+i >= grid.Cols || cell.Owner != index || cell.Border {
			return false
		}
	}
	return true
}
