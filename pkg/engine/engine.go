// Package engine turns scroll input into the rotation and zoom of a
// golden-ratio stack of square panels.
//
// The engine owns no goroutines. Every entry point, and every callback the
// host Scheduler delivers, must run on one goroutine; the host is in charge
// of that serialization.
package engine

import (
	"io"
	"log/slog"
	"math"
	"time"

	"github.com/Dicklesworthstone/golden_stack/pkg/model"
)

// Options tunes the engine. Zero fields fall back to the defaults.
type Options struct {
	Ease           float64
	WheelDamping   float64
	SnapDelay      time.Duration
	SnapTransition time.Duration
	Easing         CubicBezier
	Phi            float64
	Shrink         float64
	Logger         *slog.Logger
	OnSnap         func(SnapEvent)
}

// DefaultOptions returns the tuned defaults.
func DefaultOptions() Options {
	return Options{
		Ease:           DefaultEase,
		WheelDamping:   DefaultWheelDamping,
		SnapDelay:      DefaultSnapDelay,
		SnapTransition: DefaultSnapTransition,
		Easing:         SnapEasing,
		Phi:            Phi,
		Shrink:         ShrinkConstant,
	}
}

// Option configures an Engine.
type Option func(*Options)

// WithOptions replaces the tuning wholesale; zero fields keep defaults.
func WithOptions(o Options) Option {
	return func(dst *Options) {
		if o.Ease > 0 {
			dst.Ease = o.Ease
		}
		if o.WheelDamping > 0 {
			dst.WheelDamping = o.WheelDamping
		}
		if o.SnapDelay > 0 {
			dst.SnapDelay = o.SnapDelay
		}
		if o.SnapTransition > 0 {
			dst.SnapTransition = o.SnapTransition
		}
		if o.Easing != (CubicBezier{}) {
			dst.Easing = o.Easing
		}
		if o.Phi > 0 {
			dst.Phi = o.Phi
		}
		if o.Shrink > 0 {
			dst.Shrink = o.Shrink
		}
		if o.Logger != nil {
			dst.Logger = o.Logger
		}
		if o.OnSnap != nil {
			dst.OnSnap = o.OnSnap
		}
	}
}

// WithLogger sets the logger used for debug records.
func WithLogger(l *slog.Logger) Option {
	return func(o *Options) { o.Logger = l }
}

// WithSnapHook registers fn to run after every committed snap.
func WithSnapHook(fn func(SnapEvent)) Option {
	return func(o *Options) { o.OnSnap = fn }
}

// Engine is one mounted stack. Create it with New, then Start it; Stop
// releases the frame loop, timers and listeners.
type Engine struct {
	opts  Options
	host  Host
	log   *slog.Logger
	inert bool

	geom    Geometry
	panels  []*Panel
	tracker *Tracker
	frame   FrameState
	themed  int

	running         bool
	jumpPending     bool
	frameCancel     Cancel
	snapTimer       Cancel
	transitionTimer Cancel
	removeWheel     func()
	removeResize    func()
}

// New builds the panels for items inside host.Mount. A missing mount or
// scheduler yields an inert engine whose methods do nothing, so hosts can
// construct before their surface exists.
func New(items []model.ContentItem, host Host, opts ...Option) *Engine {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	logger := o.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	e := &Engine{
		opts:    o,
		host:    host,
		log:     logger.With("component", "engine"),
		tracker: NewTracker(o.Ease, o.WheelDamping),
		themed:  -1,
	}
	if host.Mount == nil || host.Scheduler == nil {
		e.inert = true
		e.log.Warn("no mount point or scheduler, engine disabled")
		return e
	}

	width := 0.0
	if host.Viewport != nil {
		width = host.Viewport.Width()
	}
	e.geom = ComputeGeometry(width, o.Phi, o.Shrink)
	e.ensurePanels(items)
	return e
}

// Start attaches the input listeners and begins the frame loop. It runs
// the first frame immediately.
func (e *Engine) Start() {
	if e.inert || e.running {
		return
	}
	e.running = true

	if e.host.Events != nil {
		e.removeWheel = e.host.Events.OnWheel(e.Wheel)
		e.removeResize = e.host.Events.OnResize(e.handleResize)
	}
	e.step(time.Time{})
}

// Stop cancels the frame loop and pending timers and detaches listeners.
// The engine can be started again afterwards.
func (e *Engine) Stop() {
	if e.inert || !e.running {
		return
	}
	e.running = false
	e.jumpPending = false

	if e.frameCancel != nil {
		e.frameCancel()
		e.frameCancel = nil
	}
	e.cancelSnapTimer()
	if e.transitionTimer != nil {
		e.transitionTimer()
		e.transitionTimer = nil
		e.host.Mount.SetTransition(Transition{})
	}
	if e.removeWheel != nil {
		e.removeWheel()
		e.removeWheel = nil
	}
	if e.removeResize != nil {
		e.removeResize()
		e.removeResize = nil
	}
}

// step is the per-frame easing step. It reschedules itself until Stop.
func (e *Engine) step(time.Time) {
	if !e.running {
		return
	}
	e.tracker.Step()
	e.frameCancel = e.host.Scheduler.RequestFrame(e.step)
	e.spin()
	if e.jumpPending {
		e.settleJump()
	}
}

// Wheel feeds one raw wheel event into the engine.
func (e *Engine) Wheel(ev WheelEvent) {
	if e.inert {
		return
	}
	n := NormalizeWheel(ev)
	e.jumpPending = false
	e.tracker.Push(n.PixelY)
	e.scheduleSnap()
}

// ScrollBy moves the target by an already normalized pixel distance, as a
// wheel event would.
func (e *Engine) ScrollBy(px float64) {
	if e.inert {
		return
	}
	e.jumpPending = false
	e.tracker.Push(px)
	e.scheduleSnap()
}

// ScrollToFraction eases toward fraction f of the scroll range and snaps
// once it settles.
func (e *Engine) ScrollToFraction(f float64) {
	if e.inert || math.IsNaN(f) {
		return
	}
	e.jumpPending = false
	e.tracker.SetTarget(f * e.tracker.State().Limit)
	e.scheduleSnap()
}

// PlaceAt puts the stack at fraction f of the scroll range without easing
// and arms the snap timer, as though scrolling had just stopped there.
func (e *Engine) PlaceAt(f float64) {
	if e.inert || math.IsNaN(f) {
		return
	}
	e.jumpPending = false
	e.tracker.Commit(f * e.tracker.State().Limit)
	if e.running {
		e.spin()
	}
	e.scheduleSnap()
}

// JumpTo eases toward the exact quarter turn that makes panel index
// active. Out-of-range indexes are clamped. Arrival is reported through
// the snap hook like a committed snap.
func (e *Engine) JumpTo(index int) {
	if e.inert || len(e.panels) < 2 {
		return
	}
	last := len(e.panels) - 1
	index = clampIndex(index, last)
	// The target is already aligned, so no debounce: a snap computed from
	// a half-eased position could pick a different panel.
	e.cancelSnapTimer()
	e.tracker.SetTarget(float64(index) / float64(last) * e.tracker.State().Limit)
	e.jumpPending = true
}

// SnapTo places the stack on panel index at once, without easing. Hosts
// use it to restore a saved position.
func (e *Engine) SnapTo(index int) {
	if e.inert || len(e.panels) == 0 {
		return
	}
	index = clampIndex(index, len(e.panels)-1)
	e.cancelSnapTimer()
	e.jumpPending = false
	if len(e.panels) == 1 {
		e.tracker.Commit(0)
	} else {
		e.tracker.Commit(float64(index) / float64(len(e.panels)-1) * e.tracker.State().Limit)
	}
	if e.running {
		e.spin()
	}
}

func clampIndex(index, last int) int {
	if index < 0 {
		return 0
	}
	if index > last {
		return last
	}
	return index
}

// handleResize re-reads the viewport width.
func (e *Engine) handleResize() {
	if e.host.Viewport == nil {
		return
	}
	e.Resize(e.host.Viewport.Width())
}

// Resize recomputes geometry for a new viewport width and re-derives every
// transform. Panels are kept; slides are not re-rendered.
func (e *Engine) Resize(width float64) {
	if e.inert {
		return
	}
	e.geom = ComputeGeometry(width, e.opts.Phi, e.opts.Shrink)
	e.tracker.SetLimit(e.geom.Limit(len(e.panels)))
	e.relayout()
	if e.running {
		e.spin()
	}
	e.log.Debug("resized", "width", width, "panel_size", e.geom.PanelSize, "limit", e.geom.Limit(len(e.panels)))
}

// Inert reports whether the engine was built without a mount point.
func (e *Engine) Inert() bool {
	return e.inert
}

// Running reports whether the frame loop is active.
func (e *Engine) Running() bool {
	return e.running
}

// State returns the scroll state.
func (e *Engine) State() ScrollState {
	return e.tracker.State()
}

// Geometry returns the current layout constants.
func (e *Engine) Geometry() Geometry {
	return e.geom
}

// Frame returns what the last frame derived.
func (e *Engine) Frame() FrameState {
	return e.frame
}

// ActiveIndex is the panel the current scroll position resolves to.
func (e *Engine) ActiveIndex() int {
	st := e.tracker.State()
	return EvaluateFrame(st.Current, st.Limit, len(e.panels), e.opts.Phi).Active
}

// TargetIndex is the panel the scroll target resolves to. It runs ahead
// of ActiveIndex while the stack is easing.
func (e *Engine) TargetIndex() int {
	st := e.tracker.State()
	return EvaluateFrame(st.Target, st.Limit, len(e.panels), e.opts.Phi).Active
}

// Phase reports whether a snap or jump is pending or animating.
func (e *Engine) Phase() Phase {
	if e.snapTimer != nil || e.transitionTimer != nil || e.jumpPending {
		return PhaseSettling
	}
	return PhaseFree
}

// Panels returns copies of the panels in index order.
func (e *Engine) Panels() []Panel {
	out := make([]Panel, len(e.panels))
	for i, p := range e.panels {
		out[i] = *p
	}
	return out
}

// PanelCount returns the number of panels.
func (e *Engine) PanelCount() int {
	return len(e.panels)
}
