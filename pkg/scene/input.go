package scene

import "github.com/Dicklesworthstone/golden_stack/pkg/engine"

// Input is a programmatic viewport and event source. Hosts translate
// their native events into Wheel and SetWidth calls.
type Input struct {
	width  float64
	next   int
	wheel  map[int]func(engine.WheelEvent)
	resize map[int]func()
}

var (
	_ engine.Viewport    = (*Input)(nil)
	_ engine.EventSource = (*Input)(nil)
)

// NewInput returns an input reporting width.
func NewInput(width float64) *Input {
	return &Input{
		width:  width,
		wheel:  make(map[int]func(engine.WheelEvent)),
		resize: make(map[int]func()),
	}
}

// Width implements engine.Viewport.
func (in *Input) Width() float64 { return in.width }

// OnWheel implements engine.EventSource.
func (in *Input) OnWheel(fn func(engine.WheelEvent)) func() {
	id := in.next
	in.next++
	in.wheel[id] = fn
	return func() { delete(in.wheel, id) }
}

// OnResize implements engine.EventSource.
func (in *Input) OnResize(fn func()) func() {
	id := in.next
	in.next++
	in.resize[id] = fn
	return func() { delete(in.resize, id) }
}

// Listeners returns how many wheel and resize listeners are attached.
func (in *Input) Listeners() (wheel, resize int) {
	return len(in.wheel), len(in.resize)
}

// Wheel delivers ev to every wheel listener.
func (in *Input) Wheel(ev engine.WheelEvent) {
	for _, fn := range in.wheel {
		fn(ev)
	}
}

// SetWidth changes the viewport width and notifies resize listeners when
// it actually changed.
func (in *Input) SetWidth(w float64) {
	if w == in.width {
		return
	}
	in.width = w
	for _, fn := range in.resize {
		fn()
	}
}
