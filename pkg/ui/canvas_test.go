package ui

import (
	"io"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"

	"github.com/Dicklesworthstone/golden_stack/pkg/engine"
	"github.com/Dicklesworthstone/golden_stack/pkg/model"
	"github.com/Dicklesworthstone/golden_stack/pkg/scene"
)

func plainCanvas() *Canvas {
	return NewCanvas(DefaultTheme(lipgloss.NewRenderer(io.Discard)))
}

func TestCanvas_DimensionsAndText(t *testing.T) {
	sc := scene.New(nil)
	n := sc.CreateNode(0)
	n.SetLayout(engine.Layout{Size: 320, Transform: engine.IdentityTransform})
	n.Render(model.Slide{Title: "Hello"})

	out := plainCanvas().Render(sc, 40, 20, 8, 16)
	lines := strings.Split(out, "\n")
	if len(lines) != 20 {
		t.Fatalf("rows = %d, want 20", len(lines))
	}
	for i, l := range lines {
		if w := lipgloss.Width(l); w != 40 {
			t.Errorf("row %d width = %d, want 40", i, w)
		}
	}
	if !strings.Contains(out, "Hello") {
		t.Errorf("slide text missing:\n%s", out)
	}
}

func TestCanvas_HiddenPanelHasNoText(t *testing.T) {
	sc := scene.New(nil)
	n := sc.CreateNode(0)
	n.SetLayout(engine.Layout{Size: 320, Transform: engine.IdentityTransform})
	n.Render(model.Slide{Title: "Hidden"})
	n.SetVisible(false)

	if out := plainCanvas().Render(sc, 40, 20, 8, 16); strings.Contains(out, "Hidden") {
		t.Error("hidden panel text was drawn")
	}
}

func TestCanvas_TextStaysInsideOwner(t *testing.T) {
	sc := scene.New(nil)
	outer := sc.CreateNode(0)
	outer.SetLayout(engine.Layout{Size: 320, Transform: engine.IdentityTransform})
	outer.Render(model.Slide{Title: "Outer"})
	// A panel covering the outer panel's center swallows its text.
	inner := sc.CreateNode(1)
	inner.SetLayout(engine.Layout{Size: 320, Transform: engine.IdentityTransform})

	out := plainCanvas().Render(sc, 40, 20, 8, 16)
	if strings.Contains(out, "Outer") {
		t.Error("text drawn through a covering panel")
	}
}

func TestCanvas_Empty(t *testing.T) {
	if out := plainCanvas().Render(scene.New(nil), 0, 10, 8, 16); out != "" {
		t.Errorf("zero columns rendered %q", out)
	}
}

func TestResolvePaletteFallbacks(t *testing.T) {
	sc := scene.New(nil)
	n := sc.CreateNode(0).(*scene.Node)
	pc := resolvePalette(n, pageFallback)
	if pc.bg != "#ffffff" || pc.text != "#000000" || pc.border != "#000000" {
		t.Errorf("fallback palette = %+v", pc)
	}

	n.SetPalette(engine.Palette{
		Background: model.MustParseColor("rgba(0, 0, 0, 0.5)"),
		Text:       model.MustParseColor("#ff0000"),
		Border:     model.MustParseColor("#00ff00"),
	})
	pc = resolvePalette(n, model.MustParseColor("#ffffff"))
	if pc.bg == "#000000" || pc.bg == "#ffffff" {
		t.Errorf("translucent background not blended: %s", pc.bg)
	}
	if pc.text != "#ff0000" || pc.border != "#00ff00" {
		t.Errorf("palette = %+v", pc)
	}
}
