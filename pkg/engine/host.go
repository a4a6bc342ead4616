package engine

import (
	"time"

	"github.com/Dicklesworthstone/golden_stack/pkg/model"
)

// Cancel stops a scheduled callback. Calling it more than once, or after
// the callback already ran, is a no-op.
type Cancel = func()

// Scheduler is the host's timing capability. Every callback it delivers
// must run on the same goroutine as every other engine call.
type Scheduler interface {
	// RequestFrame runs fn once, on the next display frame.
	RequestFrame(fn func(now time.Time)) Cancel
	// AfterFunc runs fn once after d elapses.
	AfterFunc(d time.Duration, fn func()) Cancel
}

// Viewport reports the width of the visible area, in pixels.
type Viewport interface {
	Width() float64
}

// EventSource delivers wheel and resize notifications. Each registration
// returns a function that detaches the listener.
type EventSource interface {
	OnWheel(fn func(WheelEvent)) (remove func())
	OnResize(fn func()) (remove func())
}

// ThemeSink receives page-wide theme changes.
type ThemeSink interface {
	SetBackground(c model.Color)
}

// Surface is the mount point the engine builds panels into. The surface
// itself is the rotating container.
type Surface interface {
	CreateNode(index int) Node
	SetOrigin(x, y float64)
	SetTransform(t Transform)
	// SetTransition animates the following transform changes; the zero
	// Transition removes it.
	SetTransition(t Transition)
}

// Node is one panel element, exclusively owned by the engine.
type Node interface {
	SetLayout(l Layout)
	SetPalette(p Palette)
	SetVisible(visible bool)
	Render(slide model.Slide)
}

// Layout positions a square node relative to the surface.
type Layout struct {
	Size      float64
	OriginX   float64
	OriginY   float64
	Transform Transform
}

// Palette is the per-panel color assignment derived from the active panel.
type Palette struct {
	Background model.Color
	Text       model.Color
	Border     model.Color
}

// Transition describes an eased animation of the container transform.
type Transition struct {
	Duration time.Duration
	Easing   CubicBezier
}

// IsZero reports whether t means "no transition".
func (t Transition) IsZero() bool {
	return t.Duration <= 0
}

// Host bundles the capabilities an engine needs from its environment.
// Mount may be nil when the surface is not ready yet; the engine is then
// inert. Theme, Viewport and Events are optional.
type Host struct {
	Mount     Surface
	Theme     ThemeSink
	Viewport  Viewport
	Events    EventSource
	Scheduler Scheduler
}
