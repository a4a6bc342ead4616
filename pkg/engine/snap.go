package engine

import (
	"math"
	"time"
)

const (
	// DefaultSnapDelay is how long input must be idle before snapping.
	DefaultSnapDelay = 300 * time.Millisecond

	// DefaultSnapTransition is the duration of the eased snap animation.
	DefaultSnapTransition = 500 * time.Millisecond
)

// Phase is the snap controller state.
type Phase int

const (
	// PhaseFree means the stack follows the eased scroll value.
	PhaseFree Phase = iota
	// PhaseSettling means a snap is pending or its transition is running.
	PhaseSettling
)

func (p Phase) String() string {
	switch p {
	case PhaseFree:
		return "free"
	case PhaseSettling:
		return "settling"
	default:
		return "unknown"
	}
}

// FrameState is everything one frame derives from the scroll position.
type FrameState struct {
	Degree     float64 // rotation of the stack, degrees
	Scale      float64 // zoom of the stack
	Percent    float64 // scroll progress, rounded to whole percent
	Closest90  float64 // nearest quarter turn to the rounded progress
	SnapTarget float64 // scroll value producing exactly Closest90
	SnapValid  bool
	Aligned    bool // Closest90 is a whole quarter turn
	Active     int  // index of the panel driving the theme
}

// Transform is the container transform for this frame. The container
// turns against the panels' advance so the active face reads upright.
func (fs FrameState) Transform() Transform {
	return Transform{Rotate: -fs.Degree, Scale: fs.Scale}
}

// EvaluateFrame maps a scroll value onto rotation, zoom and snap data for
// a stack of count panels. An empty range reads as 0% with no rotation and
// no snap target.
func EvaluateFrame(current, limit float64, count int, phi float64) FrameState {
	fs := FrameState{Scale: 1}
	if count <= 0 {
		return fs
	}
	if limit <= 0 || math.IsNaN(limit) || math.IsNaN(current) {
		fs.Aligned = true
		return fs
	}

	last := float64(count - 1)
	maxAngle := 90 * last
	degreeUnit := maxAngle / limit
	scaleUnit := last / limit

	fs.Degree = degreeUnit * current
	fs.Scale = math.Pow(phi, scaleUnit*current)

	fs.Percent = math.Round(current / limit * 100)
	deg := fs.Percent * maxAngle / 100
	fs.Closest90 = math.Round(deg/90) * 90
	if degreeUnit > 0 {
		fs.SnapTarget = fs.Closest90 / degreeUnit
		fs.SnapValid = true
	}

	fs.Aligned = math.Mod(fs.Closest90, 90) == 0
	fs.Active = int(fs.Closest90 / 90)
	return fs
}

// SnapEvent reports a committed snap.
type SnapEvent struct {
	Index int
	Value float64
	Limit float64
}

// spin pushes the current frame to the container and updates the theme
// when the rotation sits on a quarter turn.
func (e *Engine) spin() {
	st := e.tracker.State()
	fs := EvaluateFrame(st.Current, st.Limit, len(e.panels), e.opts.Phi)
	e.frame = fs

	e.host.Mount.SetTransform(fs.Transform())
	if fs.Aligned {
		e.applyTheme(fs.Active)
	}
}

// applyTheme recolors the page and every panel after the active panel and
// hides panels that have rotated out of view.
func (e *Engine) applyTheme(active int) {
	if active < 0 || active >= len(e.panels) || active == e.themed {
		return
	}
	e.themed = active

	colors := e.panels[active]
	if e.host.Theme != nil {
		e.host.Theme.SetBackground(colors.Background)
	}

	palette := Palette{
		Background: colors.Foreground,
		Text:       colors.Background,
		Border:     colors.Background,
	}
	for _, p := range e.panels {
		p.Visible = !isPruned(p.Index, active)
		p.Node.SetPalette(palette)
		p.Node.SetVisible(p.Visible)
	}
	e.log.Debug("theme applied", "active", active, "background", colors.Background.String())
}

// isPruned reports whether panel index is two or more quarter turns behind
// the active panel.
func isPruned(index, active int) bool {
	return active >= index+2
}

// scheduleSnap restarts the idle timer; the last input wins.
func (e *Engine) scheduleSnap() {
	if !e.running {
		return
	}
	e.cancelSnapTimer()
	e.snapTimer = e.host.Scheduler.AfterFunc(e.opts.SnapDelay, func() {
		e.snapTimer = nil
		e.commitSnap()
	})
}

func (e *Engine) cancelSnapTimer() {
	if e.snapTimer != nil {
		e.snapTimer()
		e.snapTimer = nil
	}
}

// commitSnap jumps the scroll state onto the current snap target and lets
// the container animate there.
func (e *Engine) commitSnap() {
	target := e.frame.SnapTarget
	limit := e.tracker.State().Limit
	if !e.frame.SnapValid || math.IsNaN(target) || target < 0 || target > limit*(1+1e-9) {
		e.log.Debug("snap skipped", "valid", e.frame.SnapValid, "target", target, "limit", limit)
		return
	}

	e.tracker.Commit(target)
	e.host.Mount.SetTransition(Transition{Duration: e.opts.SnapTransition, Easing: e.opts.Easing})

	if e.transitionTimer != nil {
		e.transitionTimer()
	}
	e.transitionTimer = e.host.Scheduler.AfterFunc(e.opts.SnapTransition, func() {
		e.transitionTimer = nil
		e.host.Mount.SetTransition(Transition{})
	})

	e.emitSnap(SnapEvent{Index: e.frame.Active, Value: target, Limit: limit})
}

// jumpSettleDistance is how close an eased jump must get to its target
// before it counts as arrived.
const jumpSettleDistance = 0.5

// settleJump lands a JumpTo once the easing has all but reached it.
func (e *Engine) settleJump() {
	st := e.tracker.State()
	if math.Abs(st.Target-st.Current) >= jumpSettleDistance {
		return
	}
	e.jumpPending = false
	e.tracker.Commit(st.Target)
	e.spin()
	e.emitSnap(SnapEvent{Index: e.frame.Active, Value: st.Target, Limit: st.Limit})
}

func (e *Engine) emitSnap(ev SnapEvent) {
	e.log.Debug("snap committed", "index", ev.Index, "value", ev.Value)
	if e.opts.OnSnap != nil {
		e.opts.OnSnap(ev)
	}
}
