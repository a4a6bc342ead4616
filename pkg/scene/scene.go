// Package scene is a retained, in-memory mount point for the engine. It
// records what the engine asks for (nodes, transforms, colors) and plays
// container transitions back against a clock, so terminal and image
// renderers can draw any instant of the animation.
package scene

import (
	"time"

	"git.sr.ht/~sbinet/gg"

	"github.com/Dicklesworthstone/golden_stack/pkg/engine"
	"github.com/Dicklesworthstone/golden_stack/pkg/model"
)

var (
	_ engine.Surface   = (*Scene)(nil)
	_ engine.ThemeSink = (*Scene)(nil)
	_ engine.Node      = (*Node)(nil)
)

// Node is one panel as the scene stores it.
type Node struct {
	index   int
	layout  engine.Layout
	palette engine.Palette
	visible bool
	slide   model.Slide
	renders int
}

func (n *Node) SetLayout(l engine.Layout)   { n.layout = l }
func (n *Node) SetPalette(p engine.Palette) { n.palette = p }
func (n *Node) SetVisible(v bool)           { n.visible = v }

// Render stores the slide; drawing happens when the scene is rasterized.
func (n *Node) Render(s model.Slide) {
	n.slide = s
	n.renders++
}

func (n *Node) Index() int              { return n.index }
func (n *Node) Layout() engine.Layout   { return n.layout }
func (n *Node) Palette() engine.Palette { return n.palette }
func (n *Node) Visible() bool           { return n.visible }
func (n *Node) Slide() model.Slide      { return n.slide }
func (n *Node) RenderCount() int        { return n.renders }

// Scene implements engine.Surface and engine.ThemeSink.
type Scene struct {
	now func() time.Time

	nodes      []*Node
	originX    float64
	originY    float64
	background model.Color

	target     engine.Transform
	from       engine.Transform
	transition engine.Transition
	animStart  time.Time
	animating  bool
}

// New returns an empty scene reading time from now.
func New(now func() time.Time) *Scene {
	if now == nil {
		now = time.Now
	}
	return &Scene{
		now:    now,
		target: engine.IdentityTransform,
	}
}

// CreateNode appends a visible node.
func (s *Scene) CreateNode(index int) engine.Node {
	n := &Node{index: index, visible: true}
	s.nodes = append(s.nodes, n)
	return n
}

// SetOrigin sets the container's transform origin.
func (s *Scene) SetOrigin(x, y float64) {
	s.originX, s.originY = x, y
}

// SetTransform sets the container transform. With a transition in effect
// a change starts an animation from whatever is on screen right now.
func (s *Scene) SetTransform(t engine.Transform) {
	if t == s.target {
		return
	}
	if s.transition.IsZero() {
		s.target = t
		s.animating = false
		return
	}
	now := s.now()
	s.from = s.transformAt(now)
	s.target = t
	s.animStart = now
	s.animating = true
}

// SetTransition sets or clears the container transition. Clearing it
// mid-animation jumps to the final transform.
func (s *Scene) SetTransition(t engine.Transition) {
	s.transition = t
	if t.IsZero() {
		s.animating = false
	}
}

// SetBackground implements engine.ThemeSink.
func (s *Scene) SetBackground(c model.Color) {
	s.background = c
}

// Background is the page color last set by the engine.
func (s *Scene) Background() model.Color {
	return s.background
}

// Nodes returns the nodes in creation (and paint) order.
func (s *Scene) Nodes() []*Node {
	return s.nodes
}

// Origin returns the container transform origin.
func (s *Scene) Origin() (x, y float64) {
	return s.originX, s.originY
}

// Target is the transform the container is heading to.
func (s *Scene) Target() engine.Transform {
	return s.target
}

// Animating reports whether a transition is still playing at now.
func (s *Scene) Animating(now time.Time) bool {
	return s.animating && now.Sub(s.animStart) < s.transition.Duration
}

// Displayed returns the container transform visible at the scene's clock.
func (s *Scene) Displayed() engine.Transform {
	return s.transformAt(s.now())
}

func (s *Scene) transformAt(now time.Time) engine.Transform {
	if !s.animating || s.transition.Duration <= 0 {
		return s.target
	}
	p := float64(now.Sub(s.animStart)) / float64(s.transition.Duration)
	if p >= 1 {
		return s.target
	}
	if p < 0 {
		p = 0
	}
	return s.from.Lerp(s.target, s.transition.Easing.At(p))
}

// NodeMatrix maps a node's local coordinates to screen pixels using the
// transform displayed right now.
func (s *Scene) NodeMatrix(n *Node) gg.Matrix {
	l := n.layout
	return l.Transform.Matrix(l.OriginX, l.OriginY).
		Multiply(s.Displayed().Matrix(s.originX, s.originY))
}
