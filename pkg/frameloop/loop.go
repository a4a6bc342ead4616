// Package frameloop is a single-goroutine scheduler for frame callbacks and
// timers. Time only moves when Tick is called, which keeps animation code
// deterministic under test and lets UI frameworks drive it from their own
// message loop.
package frameloop

import (
	"context"
	"sort"
	"time"
)

// DefaultFrameInterval is one frame at 60Hz.
const DefaultFrameInterval = time.Second / 60

type frame struct {
	id uint64
	fn func(time.Time)
}

type timer struct {
	id  uint64
	due time.Time
	fn  func()
}

// Loop queues frame callbacks and timers. It is not safe for concurrent
// use: every method except Post must be called from the goroutine that
// calls Tick.
type Loop struct {
	now    time.Time
	nextID uint64
	frames []frame
	timers []timer
	posted chan func()

	// timers cancelled after being pulled into the current firing batch
	cancelledIDs map[uint64]struct{}
}

// New returns a loop whose clock starts at start.
func New(start time.Time) *Loop {
	return &Loop{
		now:    start,
		posted: make(chan func(), 64),
	}
}

// Now returns the loop clock.
func (l *Loop) Now() time.Time {
	return l.now
}

// RequestFrame queues fn for the next Tick.
func (l *Loop) RequestFrame(fn func(now time.Time)) func() {
	l.nextID++
	id := l.nextID
	l.frames = append(l.frames, frame{id: id, fn: fn})
	return func() { l.cancelFrame(id) }
}

// AfterFunc runs fn on the first Tick at or after now+d.
func (l *Loop) AfterFunc(d time.Duration, fn func()) func() {
	l.nextID++
	id := l.nextID
	l.timers = append(l.timers, timer{id: id, due: l.now.Add(d), fn: fn})
	return func() { l.cancelTimer(id) }
}

// Tick moves the clock to now, fires due timers in deadline order and then
// runs the frame callbacks queued before the tick. Callbacks queued while
// ticking wait for the next Tick. It returns how many callbacks ran.
func (l *Loop) Tick(now time.Time) int {
	if now.After(l.now) {
		l.now = now
	}
	ran := 0

	var due []timer
	kept := l.timers[:0]
	for _, t := range l.timers {
		if !t.due.After(l.now) {
			due = append(due, t)
		} else {
			kept = append(kept, t)
		}
	}
	l.timers = kept
	sort.SliceStable(due, func(i, j int) bool {
		if due[i].due.Equal(due[j].due) {
			return due[i].id < due[j].id
		}
		return due[i].due.Before(due[j].due)
	})
	for _, t := range due {
		// An earlier timer in this batch may have cancelled it.
		if l.cancelled(t.id) {
			continue
		}
		t.fn()
		ran++
	}

	frames := l.frames
	l.frames = nil
	for _, f := range frames {
		f.fn(l.now)
		ran++
	}
	l.cancelledIDs = nil
	return ran
}

// Advance ticks every interval until d has elapsed.
func (l *Loop) Advance(d, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultFrameInterval
	}
	end := l.now.Add(d)
	for l.now.Before(end) {
		next := l.now.Add(interval)
		if next.After(end) {
			next = end
		}
		l.Tick(next)
	}
}

// Pending returns the number of queued frames and timers.
func (l *Loop) Pending() (frames, timers int) {
	return len(l.frames), len(l.timers)
}

// Post hands fn to the loop goroutine. It is the only method safe to call
// from other goroutines, and only takes effect under Run.
func (l *Loop) Post(fn func()) {
	l.posted <- fn
}

// Run drives the loop from a ticker until ctx is done, interleaving posted
// functions between ticks.
func (l *Loop) Run(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		interval = DefaultFrameInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-ticker.C:
			l.Tick(now)
		case fn := <-l.posted:
			fn()
		}
	}
}

func (l *Loop) cancelFrame(id uint64) {
	for i, f := range l.frames {
		if f.id == id {
			l.frames = append(l.frames[:i], l.frames[i+1:]...)
			return
		}
	}
}

func (l *Loop) cancelTimer(id uint64) {
	for i, t := range l.timers {
		if t.id == id {
			l.timers = append(l.timers[:i], l.timers[i+1:]...)
			return
		}
	}
	// Already pulled into the firing batch of the current Tick.
	if l.cancelledIDs == nil {
		l.cancelledIDs = make(map[uint64]struct{})
	}
	l.cancelledIDs[id] = struct{}{}
}

func (l *Loop) cancelled(id uint64) bool {
	_, ok := l.cancelledIDs[id]
	return ok
}
