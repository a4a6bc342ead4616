package engine

import "math"

const (
	// DefaultEase is the fraction of the remaining distance covered per frame.
	DefaultEase = 0.05

	// DefaultWheelDamping scales normalized wheel pixels into scroll units.
	DefaultWheelDamping = 0.3
)

// ScrollState is the engine's scroll position. Target is where input wants
// to be, Current is where the easing step has got to.
type ScrollState struct {
	Current float64
	Target  float64
	Limit   float64
}

// Fraction is Current as a share of Limit, 0 when the range is empty.
func (s ScrollState) Fraction() float64 {
	if s.Limit <= 0 {
		return 0
	}
	return s.Current / s.Limit
}

// Tracker accumulates scroll input and eases toward it.
type Tracker struct {
	state   ScrollState
	ease    float64
	damping float64
}

// NewTracker returns a tracker at rest at zero.
func NewTracker(ease, damping float64) *Tracker {
	return &Tracker{ease: ease, damping: damping}
}

// State returns a copy of the scroll state.
func (t *Tracker) State() ScrollState {
	return t.state
}

// Push adds a normalized pixel delta to the target.
func (t *Tracker) Push(pixelY float64) {
	t.SetTarget(t.state.Target + pixelY*t.damping)
}

// SetTarget moves the target, clamped to [0, Limit].
func (t *Tracker) SetTarget(v float64) {
	t.state.Target = clamp(0, t.state.Limit, v)
}

// SetLimit changes the scroll range and re-clamps the target.
func (t *Tracker) SetLimit(limit float64) {
	if limit < 0 || math.IsNaN(limit) {
		limit = 0
	}
	t.state.Limit = limit
	t.state.Target = clamp(0, limit, t.state.Target)
}

// Step advances Current one frame toward Target and returns it.
func (t *Tracker) Step() float64 {
	t.state.Target = clamp(0, t.state.Limit, t.state.Target)
	t.state.Current = lerp(t.state.Current, t.state.Target, t.ease)
	return t.state.Current
}

// Commit jumps both values to v, bypassing easing.
func (t *Tracker) Commit(v float64) {
	v = clamp(0, t.state.Limit, v)
	t.state.Target = v
	t.state.Current = v
}

func lerp(current, target, ease float64) float64 {
	return current + (target-current)*ease
}

func clamp(lo, hi, v float64) float64 {
	return math.Min(math.Max(v, lo), hi)
}
