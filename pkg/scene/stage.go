package scene

import (
	"math"
	"time"

	"github.com/Dicklesworthstone/golden_stack/pkg/engine"
	"github.com/Dicklesworthstone/golden_stack/pkg/frameloop"
	"github.com/Dicklesworthstone/golden_stack/pkg/model"
)

// Stage wires an engine to a scene, an input and a frame loop. Everything
// on a stage must be driven from one goroutine.
type Stage struct {
	Loop   *frameloop.Loop
	Scene  *Scene
	Input  *Input
	Engine *engine.Engine
}

// NewStage builds an engine for items on a fresh scene. The engine is not
// started.
func NewStage(items []model.ContentItem, loop *frameloop.Loop, width float64, opts ...engine.Option) *Stage {
	sc := New(loop.Now)
	in := NewInput(width)
	e := engine.New(items, engine.Host{
		Mount:     sc,
		Theme:     sc,
		Viewport:  in,
		Events:    in,
		Scheduler: loop,
	}, opts...)
	return &Stage{Loop: loop, Scene: sc, Input: in, Engine: e}
}

// Settled reports whether the scroll has converged, no snap is pending and
// no transition is playing.
func (s *Stage) Settled() bool {
	st := s.Engine.State()
	return s.Engine.Phase() == engine.PhaseFree &&
		math.Abs(st.Target-st.Current) < 0.5 &&
		!s.Scene.Animating(s.Loop.Now())
}

// Settle advances the loop frame by frame until the stage settles or max
// elapses. It reports whether the stage settled.
func (s *Stage) Settle(max, interval time.Duration) bool {
	if interval <= 0 {
		interval = frameloop.DefaultFrameInterval
	}
	for elapsed := time.Duration(0); elapsed < max; elapsed += interval {
		s.Loop.Advance(interval, interval)
		if s.Settled() {
			return true
		}
	}
	return s.Settled()
}
