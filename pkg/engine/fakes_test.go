package engine

import (
	"time"

	"github.com/Dicklesworthstone/golden_stack/pkg/frameloop"
	"github.com/Dicklesworthstone/golden_stack/pkg/model"
)

var testEpoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

type fakeNode struct {
	index    int
	layout   Layout
	palette  Palette
	visible  bool
	renders  int
	slide    model.Slide
	layouts  int
	palettes int
}

func (n *fakeNode) SetLayout(l Layout)   { n.layout = l; n.layouts++ }
func (n *fakeNode) SetPalette(p Palette) { n.palette = p; n.palettes++ }
func (n *fakeNode) SetVisible(v bool)    { n.visible = v }
func (n *fakeNode) Render(s model.Slide) { n.slide = s; n.renders++ }

type fakeSurface struct {
	nodes       []*fakeNode
	originX     float64
	originY     float64
	transform   Transform
	transition  Transition
	transitions []Transition
}

func (s *fakeSurface) CreateNode(index int) Node {
	n := &fakeNode{index: index, visible: true}
	s.nodes = append(s.nodes, n)
	return n
}
func (s *fakeSurface) SetOrigin(x, y float64)   { s.originX, s.originY = x, y }
func (s *fakeSurface) SetTransform(t Transform) { s.transform = t }
func (s *fakeSurface) SetTransition(t Transition) {
	s.transition = t
	s.transitions = append(s.transitions, t)
}

type fakeTheme struct {
	background model.Color
	sets       int
}

func (t *fakeTheme) SetBackground(c model.Color) { t.background = c; t.sets++ }

type fakeViewport struct{ width float64 }

func (v *fakeViewport) Width() float64 { return v.width }

type fakeEvents struct {
	wheel  func(WheelEvent)
	resize func()
}

func (f *fakeEvents) OnWheel(fn func(WheelEvent)) func() {
	f.wheel = fn
	return func() { f.wheel = nil }
}

func (f *fakeEvents) OnResize(fn func()) func() {
	f.resize = fn
	return func() { f.resize = nil }
}

type harness struct {
	engine   *Engine
	loop     *frameloop.Loop
	surface  *fakeSurface
	theme    *fakeTheme
	viewport *fakeViewport
	events   *fakeEvents
	snaps    []SnapEvent
}

func newHarness(width float64, items []model.ContentItem, opts ...Option) *harness {
	h := &harness{
		loop:     frameloop.New(testEpoch),
		surface:  &fakeSurface{},
		theme:    &fakeTheme{},
		viewport: &fakeViewport{width: width},
		events:   &fakeEvents{},
	}
	opts = append(opts, WithSnapHook(func(ev SnapEvent) { h.snaps = append(h.snaps, ev) }))
	h.engine = New(items, Host{
		Mount:     h.surface,
		Theme:     h.theme,
		Viewport:  h.viewport,
		Events:    h.events,
		Scheduler: h.loop,
	}, opts...)
	return h
}

// advance runs frames at 60Hz for d.
func (h *harness) advance(d time.Duration) {
	h.loop.Advance(d, frameloop.DefaultFrameInterval)
}

func testItems(n int) []model.ContentItem {
	palette := []struct{ bg, fg string }{
		{"rgba(202, 144, 222, 0.7)", "rgba(69, 49, 109, 0.7)"},
		{"rgba(184, 44, 51, 0.7)", "rgba(47, 51, 55, 0.7)"},
		{"rgba(0, 0, 0, 0.7)", "rgba(45, 186, 81, 0.7)"},
		{"rgba(107, 212, 255, 0.7)", "rgba(64, 110, 137, 0.7)"},
		{"rgba(83, 189, 173, 0.7)", "rgba(53, 41, 63, 0.7)"},
	}
	items := make([]model.ContentItem, n)
	for i := range items {
		p := palette[i%len(palette)]
		items[i] = model.ContentItem{
			Background: model.MustParseColor(p.bg),
			Foreground: model.MustParseColor(p.fg),
			Slide:      model.Slide{Title: "slide", Body: "body"},
		}
	}
	return items
}
