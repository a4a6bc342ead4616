// Package export renders a frame of the stack to PNG or SVG.
package export

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"git.sr.ht/~sbinet/gg"
	svg "github.com/ajstarks/svgo"
	"golang.org/x/image/font/basicfont"

	"github.com/Dicklesworthstone/golden_stack/pkg/engine"
	"github.com/Dicklesworthstone/golden_stack/pkg/model"
	"github.com/Dicklesworthstone/golden_stack/pkg/scene"
)

const (
	// borderWidth matches the panels' 2px outline.
	borderWidth = 2
	textPadding = 12
	lineSpacing = 1.4
)

var (
	defaultPage  = model.MustParseColor("#ffffff")
	defaultPanel = model.MustParseColor("#ffffff")
	defaultInk   = model.MustParseColor("#000000")
)

// FrameSnapshotOptions configures SaveFrameSnapshot.
type FrameSnapshotOptions struct {
	Path   string
	Format string // "png" or "svg"; taken from Path's extension when empty
	Scene  *scene.Scene
	Width  int
	Height int
	Title  string
}

// SaveFrameSnapshot writes the scene as displayed right now.
func SaveFrameSnapshot(opts FrameSnapshotOptions) error {
	if opts.Scene == nil {
		return fmt.Errorf("no scene to export")
	}
	if opts.Width <= 0 || opts.Height <= 0 {
		return fmt.Errorf("invalid snapshot size %dx%d", opts.Width, opts.Height)
	}
	format := strings.ToLower(opts.Format)
	if format == "" {
		format = strings.TrimPrefix(strings.ToLower(filepath.Ext(opts.Path)), ".")
	}
	if format != "png" && format != "svg" {
		return fmt.Errorf("unsupported snapshot format %q (want png or svg)", format)
	}

	f, err := os.Create(opts.Path)
	if err != nil {
		return fmt.Errorf("create snapshot: %w", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	switch format {
	case "png":
		err = WritePNG(w, opts.Scene, opts.Width, opts.Height)
	case "svg":
		err = WriteSVG(w, opts.Scene, opts.Width, opts.Height, opts.Title)
	}
	if err != nil {
		return err
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	return f.Close()
}

type panelPaint struct {
	bg, text, border model.Color
}

func paintFor(n *scene.Node) panelPaint {
	p := n.Palette()
	out := panelPaint{bg: p.Background, text: p.Text, border: p.Border}
	if out.bg.IsZero() {
		out.bg = defaultPanel
	}
	if out.text.IsZero() {
		out.text = defaultInk
	}
	if out.border.IsZero() {
		out.border = defaultInk
	}
	return out
}

func pageColor(sc *scene.Scene) model.Color {
	page := sc.Background()
	if page.IsZero() {
		return defaultPage
	}
	return page.Over(defaultPage)
}

// slideText splits a slide into a title line and plain body text.
func slideText(s model.Slide) (title, body string) {
	var lines []string
	for _, l := range strings.Split(s.Body, "\n") {
		l = strings.TrimSpace(l)
		if l == "" {
			continue
		}
		lines = append(lines, strings.TrimLeft(l, "# "))
	}
	title = strings.TrimSpace(s.Title)
	if title == "" && len(lines) > 0 {
		title, lines = lines[0], lines[1:]
	}
	return title, strings.Join(lines, " ")
}

// WritePNG rasterizes the scene with gg.
func WritePNG(w io.Writer, sc *scene.Scene, width, height int) error {
	dc := gg.NewContext(width, height)
	dc.SetColor(pageColor(sc).NRGBA())
	dc.Clear()
	dc.SetFontFace(basicfont.Face7x13)

	ox, oy := sc.Origin()
	container := sc.Displayed()
	for _, n := range sc.Nodes() {
		if !n.Visible() {
			continue
		}
		l := n.Layout()
		if l.Size <= 0 {
			continue
		}
		paint := paintFor(n)

		dc.Push()
		applyTransform(dc, container, ox, oy)
		applyTransform(dc, l.Transform, l.OriginX, l.OriginY)

		dc.DrawRectangle(0, 0, l.Size, l.Size)
		dc.SetColor(paint.bg.NRGBA())
		dc.FillPreserve()
		dc.SetColor(paint.border.NRGBA())
		dc.SetLineWidth(borderWidth)
		dc.Stroke()

		title, body := slideText(n.Slide())
		dc.SetColor(paint.text.NRGBA())
		inner := l.Size - 2*textPadding
		if inner > 0 {
			y := float64(textPadding)
			if title != "" {
				dc.DrawStringAnchored(title, l.Size/2, y, 0.5, 1)
				y += 2 * 13
			}
			if body != "" {
				dc.DrawStringWrapped(body, l.Size/2, y, 0.5, 0, inner, lineSpacing, gg.AlignCenter)
			}
		}
		dc.Pop()
	}

	if err := dc.EncodePNG(w); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

// applyTransform appends t about (ox, oy) to the context's matrix, the
// way CSS applies transform-origin.
func applyTransform(dc *gg.Context, t engine.Transform, ox, oy float64) {
	dc.Translate(ox, oy)
	dc.Rotate(gg.Radians(t.Rotate))
	dc.Scale(t.Scale, t.Scale)
	dc.Translate(-ox, -oy)
}

// svgTransform renders t about (ox, oy) as an SVG transform attribute.
func svgTransform(t engine.Transform, ox, oy float64) string {
	return fmt.Sprintf("translate(%g %g) rotate(%g) scale(%g) translate(%g %g)",
		ox, oy, t.Rotate, t.Scale, -ox, -oy)
}

func svgFill(c model.Color) string {
	return fmt.Sprintf("fill:%s;fill-opacity:%.3g", c.Hex(), c.Alpha())
}

// WriteSVG writes the scene as nested SVG groups, one per panel.
func WriteSVG(w io.Writer, sc *scene.Scene, width, height int, title string) error {
	canvas := svg.New(w)
	canvas.Start(width, height)
	if title != "" {
		canvas.Title(title)
	}
	canvas.Rect(0, 0, width, height, svgFill(pageColor(sc)))

	ox, oy := sc.Origin()
	canvas.Gtransform(svgTransform(sc.Displayed(), ox, oy))
	for _, n := range sc.Nodes() {
		if !n.Visible() {
			continue
		}
		l := n.Layout()
		size := int(l.Size + 0.5)
		if size <= 0 {
			continue
		}
		paint := paintFor(n)

		canvas.Gtransform(svgTransform(l.Transform, l.OriginX, l.OriginY))
		canvas.Rect(0, 0, size, size, fmt.Sprintf("%s;stroke:%s;stroke-opacity:%.3g;stroke-width:%d",
			svgFill(paint.bg), paint.border.Hex(), paint.border.Alpha(), borderWidth))
		if slideTitle, _ := slideText(n.Slide()); slideTitle != "" {
			canvas.Text(size/2, textPadding+13, slideTitle,
				fmt.Sprintf("text-anchor:middle;font-family:monospace;font-size:13px;%s", svgFill(paint.text)))
		}
		canvas.Gend()
	}
	canvas.Gend()
	canvas.End()
	return nil
}
