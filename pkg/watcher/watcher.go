package watcher

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultPollInterval is how often the polling fallback stats the file.
const DefaultPollInterval = time.Second

// Watcher calls onChange after the watched file is written, created or
// replaced.
type Watcher struct {
	path         string
	onChange     func()
	debouncer    *Debouncer
	pollInterval time.Duration
	forcePoll    bool
	log          *slog.Logger

	mu      sync.Mutex
	polling bool
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the quiet period before onChange runs.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) { w.debouncer = NewDebouncer(d) }
}

// WithPollInterval sets the polling fallback interval.
func WithPollInterval(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.pollInterval = d
		}
	}
}

// WithPolling skips fsnotify entirely. Useful on network filesystems.
func WithPolling() Option {
	return func(w *Watcher) { w.forcePoll = true }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(w *Watcher) {
		if l != nil {
			w.log = l
		}
	}
}

// New creates a watcher for path. The file must exist.
func New(path string, onChange func(), opts ...Option) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve watch path: %w", err)
	}
	if _, err := os.Stat(abs); err != nil {
		return nil, fmt.Errorf("stat watch path: %w", err)
	}
	w := &Watcher{
		path:         abs,
		onChange:     onChange,
		debouncer:    NewDebouncer(0),
		pollInterval: DefaultPollInterval,
		log:          slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.log = w.log.With("component", "watcher", "path", abs)
	return w, nil
}

// Path returns the absolute path being watched.
func (w *Watcher) Path() string { return w.path }

// Polling reports whether the watcher fell back to polling.
func (w *Watcher) Polling() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.polling
}

// Run watches until ctx is done. It returns nil on cancellation.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.debouncer.Cancel()

	if !w.forcePoll {
		fw, err := w.openNotify()
		if err == nil {
			defer fw.Close()
			return w.runNotify(ctx, fw)
		}
		w.log.Warn("fsnotify unavailable, polling", "error", err)
	}
	return w.runPoll(ctx)
}

// openNotify watches the parent directory: editors often save by renaming
// a temp file over the original, which drops a watch on the file itself.
func (w *Watcher) openNotify() (*fsnotify.Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fw.Add(filepath.Dir(w.path)); err != nil {
		fw.Close()
		return nil, err
	}
	return fw, nil
}

func (w *Watcher) runNotify(ctx context.Context, fw *fsnotify.Watcher) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			w.log.Debug("file event", "op", ev.Op.String())
			w.debouncer.Trigger(w.onChange)
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.log.Warn("watch error", "error", err)
		}
	}
}

type fileStamp struct {
	mod  time.Time
	size int64
	ok   bool
}

func (s fileStamp) differs(o fileStamp) bool {
	return s.ok != o.ok || s.size != o.size || !s.mod.Equal(o.mod)
}

func (w *Watcher) stamp() fileStamp {
	info, err := os.Stat(w.path)
	if err != nil {
		return fileStamp{}
	}
	return fileStamp{mod: info.ModTime(), size: info.Size(), ok: true}
}

func (w *Watcher) runPoll(ctx context.Context) error {
	w.mu.Lock()
	w.polling = true
	w.mu.Unlock()

	last := w.stamp()
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			cur := w.stamp()
			if cur.ok && cur.differs(last) {
				w.log.Debug("file changed (poll)")
				w.debouncer.Trigger(w.onChange)
			}
			last = cur
		}
	}
}
